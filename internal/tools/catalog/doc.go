// Package catalog declares the MCP tool surface of the gateway and funnels
// every tool call through the request dispatcher.
//
// Each Google service contributes a list of tool definitions (schema plus
// write flag). Register wires them onto the MCP server with a shared
// handler: extract arguments, resolve the account, dispatch, render the
// payload as JSON. Write tools are skipped entirely in read-only mode so
// clients never see them.
package catalog
