// Package chat adapts Google Chat space and message operations for the
// gateway.
package chat
