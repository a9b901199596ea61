// Package calendar adapts Google Calendar event operations for the gateway.
// Event times are RFC 3339 timestamps; all-day events carry a bare date in
// the same field.
package calendar
