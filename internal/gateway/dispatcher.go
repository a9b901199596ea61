package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/oauth2"

	"github.com/teemow/workspace-mcp/internal/credentials"
	"github.com/teemow/workspace-mcp/internal/logging"
)

// DefaultUpstreamTimeout bounds a single upstream call. It is shorter than
// any overall invocation timeout the protocol layer imposes, so a retry
// budget is never consumed by one hanging request.
const DefaultUpstreamTimeout = 60 * time.Second

// CredentialSource is the slice of the session manager the dispatcher needs.
// credentials.SessionManager satisfies it; tests substitute doubles.
type CredentialSource interface {
	Credential(ctx context.Context, service, account string) (*credentials.Credential, error)
	Refresh(ctx context.Context, service, account string) (*credentials.Credential, error)
	Invalidate(service, account string) error
}

// Observer receives dispatch outcomes for telemetry. Implementations must
// be safe for concurrent use and must not block.
type Observer interface {
	// UpstreamOperation is called once per upstream attempt with its
	// outcome ("success" or "error") and duration.
	UpstreamOperation(ctx context.Context, service, status string, duration time.Duration)

	// RetriesExhausted is called when an invocation gives up after
	// spending its transient-failure attempt budget.
	RetriesExhausted(ctx context.Context, service string)
}

type nopObserver struct{}

func (nopObserver) UpstreamOperation(context.Context, string, string, time.Duration) {}
func (nopObserver) RetriesExhausted(context.Context, string)                         {}

// Dispatcher routes normalized tool invocations to service adapters with
// credential handling and bounded retry.
type Dispatcher struct {
	registry        *Registry
	creds           CredentialSource
	retry           RetryPolicy
	upstreamTimeout time.Duration
	base            http.RoundTripper
	logger          *slog.Logger
	observer        Observer
}

// DispatcherOption configures the dispatcher.
type DispatcherOption func(*Dispatcher)

// WithRetryPolicy overrides the bounded retry schedule.
func WithRetryPolicy(p RetryPolicy) DispatcherOption {
	return func(d *Dispatcher) { d.retry = p }
}

// WithUpstreamTimeout overrides the per-call timeout.
func WithUpstreamTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) { d.upstreamTimeout = timeout }
}

// WithBaseTransport sets the transport placed beneath the bearer-token
// wrapper. Tests use it to point adapters at fake upstream servers.
func WithBaseTransport(rt http.RoundTripper) DispatcherOption {
	return func(d *Dispatcher) { d.base = rt }
}

// WithDispatcherLogger sets a custom logger.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = logger }
}

// WithObserver attaches a telemetry observer.
func WithObserver(o Observer) DispatcherOption {
	return func(d *Dispatcher) { d.observer = o }
}

// NewDispatcher creates a dispatcher over the given registry and credential
// source.
func NewDispatcher(registry *Registry, creds CredentialSource, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry:        registry,
		creds:           creds,
		retry:           DefaultRetryPolicy(),
		upstreamTimeout: DefaultUpstreamTimeout,
		logger:          slog.Default(),
		observer:        nopObserver{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Invoke executes one tool invocation end to end and returns exactly one
// payload or one classified error.
//
// Auth handling per invocation: a credential is obtained up front (refreshed
// proactively by the session manager when near expiry); an upstream 401/403
// that slipped past that margin triggers exactly one reactive refresh-and-
// retry; a second consecutive auth failure is terminal. Transient failures
// (429, 5xx, timeouts) are retried on a jittered exponential schedule up to
// the policy's attempt budget.
func (d *Dispatcher) Invoke(ctx context.Context, inv Invocation) Result {
	logger := logging.WithTool(logging.WithService(d.logger, inv.Service), inv.Tool)

	adapter, ok := d.registry.Resolve(inv.Service)
	if !ok {
		return d.fail(logger, inv, KindUnknownService,
			fmt.Errorf("no adapter registered for service %q", inv.Service))
	}

	cred, err := d.creds.Credential(ctx, inv.Service, inv.Account)
	if err != nil {
		return d.credentialFailure(logger, inv, err)
	}

	bo := d.retry.newBackOff()
	attempts := 0
	refreshed := false

	for {
		payload, err := d.call(ctx, adapter, cred, inv)
		if err == nil {
			return Result{Payload: payload}
		}

		// Adapters pre-classify semantic failures; pass them through with
		// the invocation identity filled in.
		var ge *Error
		if errors.As(err, &ge) {
			ge.Service = inv.Service
			ge.Tool = inv.Tool
			logger.Debug("invocation failed", logging.Status(logging.StatusError), logging.Err(ge))
			return Result{Err: ge}
		}

		switch {
		case isAuthFailure(err):
			if refreshed {
				// Two consecutive auth failures: the refreshed token was
				// rejected too. Never recurse further.
				_ = d.creds.Invalidate(inv.Service, inv.Account)
				return d.fail(logger, inv, KindAuthRequired,
					fmt.Errorf("upstream rejected refreshed credential: %w", err))
			}
			refreshed = true
			logger.Debug("upstream auth failure, refreshing credential", logging.Err(err))
			cred, err = d.creds.Refresh(ctx, inv.Service, inv.Account)
			if err != nil {
				return d.credentialFailure(logger, inv, err)
			}

		case isTransientFailure(err):
			attempts++
			if attempts >= d.retry.MaxAttempts {
				d.observer.RetriesExhausted(ctx, inv.Service)
				return d.fail(logger, inv, KindUpstreamUnavailable,
					fmt.Errorf("giving up after %d attempts: %w", attempts, err))
			}
			wait := bo.NextBackOff()
			if wait == backoff.Stop {
				return d.fail(logger, inv, KindUpstreamUnavailable, err)
			}
			logger.Debug("transient upstream failure, backing off",
				logging.Attempt(attempts), slog.Duration("wait", wait), logging.Err(err))
			select {
			case <-ctx.Done():
				return d.fail(logger, inv, KindUpstreamUnavailable,
					fmt.Errorf("invocation canceled while backing off: %w", ctx.Err()))
			case <-time.After(wait):
			}
			// The credential may have expired while backing off.
			if !cred.ValidAt(time.Now(), 0) {
				cred, err = d.creds.Credential(ctx, inv.Service, inv.Account)
				if err != nil {
					return d.credentialFailure(logger, inv, err)
				}
			}

		default:
			return d.fail(logger, inv, KindDataError, err)
		}
	}
}

// call issues one upstream request through the adapter with its own timeout
// and a client carrying the credential as a static bearer token. Refresh
// decisions stay in the dispatcher, never inside the transport.
func (d *Dispatcher) call(ctx context.Context, adapter ServiceAdapter, cred *credentials.Credential, inv Invocation) (any, error) {
	callCtx, cancel := context.WithTimeout(ctx, d.upstreamTimeout)
	defer cancel()

	clientCtx := callCtx
	if d.base != nil {
		clientCtx = context.WithValue(callCtx, oauth2.HTTPClient, &http.Client{Transport: d.base})
	}
	client := oauth2.NewClient(clientCtx, oauth2.StaticTokenSource(cred.Token()))

	start := time.Now()
	payload, err := adapter.Invoke(callCtx, client, inv)
	status := "success"
	if err != nil {
		status = "error"
	}
	d.observer.UpstreamOperation(ctx, inv.Service, status, time.Since(start))
	return payload, err
}

// credentialFailure maps session manager errors onto the taxonomy: terminal
// auth failures demand re-authorization, everything else (token endpoint
// outage, store I/O) is worth trying again.
func (d *Dispatcher) credentialFailure(logger *slog.Logger, inv Invocation, err error) Result {
	if credentials.IsTerminal(err) {
		return d.fail(logger, inv, KindAuthRequired, err)
	}
	return d.fail(logger, inv, KindUpstreamUnavailable, err)
}

func (d *Dispatcher) fail(logger *slog.Logger, inv Invocation, kind Kind, err error) Result {
	ge := &Error{Kind: kind, Service: inv.Service, Tool: inv.Tool, Err: err}
	logger.Warn("invocation failed",
		logging.Status(logging.StatusError),
		slog.String("kind", string(kind)),
		logging.Err(err))
	return Result{Err: ge}
}
