// Package server assembles the gateway runtime: the ServerContext wires
// the credential session manager, service adapter registry and request
// dispatcher together, and the HTTP helpers expose health probes and a
// dedicated Prometheus metrics port for the streamable-http transport.
package server
