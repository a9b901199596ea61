// Package google holds the OAuth2 client configuration for the Google
// Workspace APIs: the scope catalog per service, the consent-flow helpers,
// and the fan-out of one authorization grant into per-service credential
// records.
package google
