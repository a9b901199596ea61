// Package docs adapts Google Docs document operations for the gateway:
// creation, plain-text extraction from the document body, and positional
// text edits.
package docs
