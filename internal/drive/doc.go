// Package drive adapts Google Drive file, folder and permission operations
// for the gateway.
package drive
