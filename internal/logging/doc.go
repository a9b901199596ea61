// Package logging provides structured logging utilities for the
// workspace-mcp gateway.
//
// It centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package:
//
//   - Consistent attribute naming (service, account, tool, operation)
//   - PII sanitization (email anonymization, token masking)
//   - Handler setup that keeps stdout free for the MCP protocol stream
//
// User emails are hashed before logging to prevent PII leakage while still
// allowing correlation, and tokens are never logged directly.
package logging
