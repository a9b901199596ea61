// Package gateway contains the request-dispatch core of workspace-mcp.
//
// A normalized tool invocation enters through Dispatcher.Invoke, which
// resolves the owning service adapter, obtains a live credential from the
// session manager, issues the upstream call with bounded retry, and returns
// exactly one normalized result: a payload or a classified error.
//
// The error taxonomy distinguishes "re-authenticate" (AuthRequired) from
// "try again" (UpstreamUnavailable) from "this request is wrong"
// (InvalidArguments, UnknownService, DataError) so the protocol layer can
// render each into its own envelope.
package gateway
