// Package forms adapts Google Forms creation, question editing and response
// reading for the gateway.
package forms
