package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/teemow/workspace-mcp/internal/calendar"
	"github.com/teemow/workspace-mcp/internal/chat"
	"github.com/teemow/workspace-mcp/internal/credentials"
	"github.com/teemow/workspace-mcp/internal/docs"
	"github.com/teemow/workspace-mcp/internal/drive"
	"github.com/teemow/workspace-mcp/internal/forms"
	"github.com/teemow/workspace-mcp/internal/gateway"
	"github.com/teemow/workspace-mcp/internal/gmail"
	"github.com/teemow/workspace-mcp/internal/google"
	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/sheets"
)

// Config carries everything the server context needs to assemble the
// credential and dispatch layers.
type Config struct {
	// CredentialsDir is the directory holding stored credential files.
	CredentialsDir string

	// OAuth identifies the OAuth client used for token refreshes.
	OAuth google.ClientConfig

	// ReadOnly disables tools that mutate upstream state.
	ReadOnly bool

	// Metrics records gateway telemetry. Nil means no recording.
	Metrics *instrumentation.Metrics

	// Logger receives structured server logs. Nil falls back to
	// slog.Default().
	Logger *slog.Logger

	// UpstreamTimeout bounds a single upstream API call. Zero uses the
	// dispatcher default.
	UpstreamTimeout time.Duration

	// Retry overrides the transient-failure retry policy. Zero value uses
	// the dispatcher default.
	Retry gateway.RetryPolicy
}

// ServerContext wires the credential session manager and the request
// dispatcher together and owns their lifecycle.
type ServerContext struct {
	ctx        context.Context
	cancel     context.CancelFunc
	sessions   *credentials.SessionManager
	dispatcher *gateway.Dispatcher
	registry   *gateway.Registry
	metrics    *instrumentation.Metrics
	oauth      google.ClientConfig
	readOnly   bool
	logger     *slog.Logger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext builds the store, refresher, session manager, adapter
// registry and dispatcher from the configuration.
func NewServerContext(ctx context.Context, config Config) (*ServerContext, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := config.Metrics
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}

	store, err := credentials.NewFileStore(config.CredentialsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	refresher := credentials.NewOAuthRefresher(config.OAuth.OAuth2(), nil)
	sessions := credentials.NewSessionManager(store, refresher,
		credentials.WithLogger(logger))

	registry := gateway.NewRegistry(
		gmail.NewAdapter(),
		chat.NewAdapter(),
		sheets.NewAdapter(),
		drive.NewAdapter(),
		forms.NewAdapter(),
		calendar.NewAdapter(),
		docs.NewAdapter(),
	)

	opts := []gateway.DispatcherOption{
		gateway.WithDispatcherLogger(logger),
	}
	if config.UpstreamTimeout > 0 {
		opts = append(opts, gateway.WithUpstreamTimeout(config.UpstreamTimeout))
	}
	if config.Retry.MaxAttempts > 0 {
		opts = append(opts, gateway.WithRetryPolicy(config.Retry))
	}
	opts = append(opts, gateway.WithObserver(metricsObserver{metrics: metrics}))
	dispatcher := gateway.NewDispatcher(registry, &instrumentedCredentials{
		sessions: sessions,
		metrics:  metrics,
	}, opts...)

	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:        shutdownCtx,
		cancel:     cancel,
		sessions:   sessions,
		dispatcher: dispatcher,
		registry:   registry,
		metrics:    metrics,
		oauth:      config.OAuth,
		readOnly:   config.ReadOnly,
		logger:     logger,
	}, nil
}

// Context returns the server lifecycle context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Sessions returns the credential session manager.
func (sc *ServerContext) Sessions() *credentials.SessionManager {
	return sc.sessions
}

// Dispatcher returns the request dispatcher.
func (sc *ServerContext) Dispatcher() *gateway.Dispatcher {
	return sc.dispatcher
}

// Registry returns the service adapter registry.
func (sc *ServerContext) Registry() *gateway.Registry {
	return sc.registry
}

// Metrics returns the metrics recorder. Never nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// OAuth returns the configured OAuth client.
func (sc *ServerContext) OAuth() google.ClientConfig {
	return sc.oauth
}

// ReadOnly reports whether mutating tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	return sc.readOnly
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// IsShutdown reports whether Shutdown has been called.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown flushes dirty credentials and cancels the lifecycle context.
// Safe to call more than once.
func (sc *ServerContext) Shutdown(ctx context.Context) error {
	sc.mu.Lock()
	if sc.shutdown {
		sc.mu.Unlock()
		return nil
	}
	sc.shutdown = true
	sc.mu.Unlock()

	err := sc.sessions.Shutdown(ctx)
	sc.cancel()
	return err
}

// metricsObserver forwards dispatcher outcomes to the metrics recorder.
type metricsObserver struct {
	metrics *instrumentation.Metrics
}

func (o metricsObserver) UpstreamOperation(ctx context.Context, service, status string, duration time.Duration) {
	o.metrics.RecordUpstreamOperation(ctx, service, status, duration)
}

func (o metricsObserver) RetriesExhausted(ctx context.Context, service string) {
	o.metrics.RecordRetriesExhausted(ctx, service)
}

// instrumentedCredentials records refresh outcomes on top of the session
// manager before the dispatcher sees them.
type instrumentedCredentials struct {
	sessions *credentials.SessionManager
	metrics  *instrumentation.Metrics
}

func (c *instrumentedCredentials) Credential(ctx context.Context, service, account string) (*credentials.Credential, error) {
	return c.sessions.Credential(ctx, service, account)
}

func (c *instrumentedCredentials) Refresh(ctx context.Context, service, account string) (*credentials.Credential, error) {
	cred, err := c.sessions.Refresh(ctx, service, account)
	switch {
	case err == nil:
		c.metrics.RecordCredentialRefresh(ctx, service, instrumentation.RefreshResultSuccess)
	case credentials.IsTerminal(err):
		c.metrics.RecordCredentialRefresh(ctx, service, instrumentation.RefreshResultReauthNeeded)
	default:
		c.metrics.RecordCredentialRefresh(ctx, service, instrumentation.RefreshResultFailure)
	}
	return cred, err
}

func (c *instrumentedCredentials) Invalidate(service, account string) error {
	return c.sessions.Invalidate(service, account)
}
