package gateway

import (
	"context"
	"net/http"
	"sort"
)

// Invocation is a normalized tool call. Arguments have already been
// validated against the declared tool schema by the protocol layer; adapters
// only check semantic validity.
type Invocation struct {
	Tool      string
	Service   string
	Account   string
	Arguments Args
}

// Result is the outcome of one invocation: exactly one of Payload or Err is
// set, never both.
type Result struct {
	Payload any
	Err     *Error
}

// ServiceAdapter turns a normalized invocation into concrete upstream calls
// for one service and parses the responses into normalized payloads.
//
// Adapters are stateless: they hold no credentials and no mutable state.
// The dispatcher hands in an HTTP client already carrying the bearer token
// for the invocation's account.
type ServiceAdapter interface {
	// Service returns the service identifier the adapter owns.
	Service() string

	// Invoke executes the named tool. Auth failures and transient upstream
	// failures must be surfaced as the underlying transport errors
	// (googleapi.Error, net errors) so the dispatcher can classify them;
	// semantic failures use InvalidArgument or DataFailure.
	Invoke(ctx context.Context, client *http.Client, inv Invocation) (any, error)
}

// Registry maps service identifiers to their adapters. It is populated once
// at startup and read-only afterwards.
type Registry struct {
	adapters map[string]ServiceAdapter
}

// NewRegistry builds a registry from the given adapters. A duplicate service
// identifier panics: the adapter set is static wiring, not runtime input.
func NewRegistry(adapters ...ServiceAdapter) *Registry {
	r := &Registry{adapters: make(map[string]ServiceAdapter, len(adapters))}
	for _, a := range adapters {
		if _, exists := r.adapters[a.Service()]; exists {
			panic("duplicate service adapter: " + a.Service())
		}
		r.adapters[a.Service()] = a
	}
	return r
}

// Resolve returns the adapter owning the service, if any.
func (r *Registry) Resolve(service string) (ServiceAdapter, bool) {
	a, ok := r.adapters[service]
	return a, ok
}

// Services returns the registered service identifiers, sorted.
func (r *Registry) Services() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
