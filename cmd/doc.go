// Package cmd implements the command-line interface for workspace-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing Google Workspace tools
//   - auth: Run the OAuth consent flow and store credentials
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
