// Package credentials implements the session-scoped credential layer of the
// workspace-mcp gateway.
//
// It owns OAuth2 token material for each (service, account) pair:
//
//   - Credential is the immutable token record
//   - Store persists records, one file per pair, with atomic replacement
//   - Refresher exchanges a refresh token for fresh token material and
//     distinguishes terminal failures (revoked grant) from transient ones
//   - SessionManager fronts the store with an in-memory cache, refreshes
//     proactively before expiry, and coalesces concurrent refreshes for the
//     same pair into a single upstream exchange
//
// The authoritative copy of every credential is the store; the cache exists
// only to keep tool invocations off the filesystem and the token endpoint.
package credentials
