// Package gmail adapts Gmail message operations for the gateway: listing
// and hydrating messages, plain-text body extraction from MIME trees, and
// sending RFC 822 mail.
package gmail
