package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/workspace-mcp/internal/google"
	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/logging"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/catalog"
)

// defaultCredentialsDir resolves the credential directory:
// WORKSPACE_MCP_CREDENTIALS_DIR, then the user config directory.
func defaultCredentialsDir() string {
	if dir := os.Getenv("WORKSPACE_MCP_CREDENTIALS_DIR"); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return ".workspace-mcp/credentials"
	}
	return filepath.Join(base, "workspace-mcp", "credentials")
}

func newServeCmd() *cobra.Command {
	var (
		debugMode      bool
		transport      string
		httpAddr       string
		yolo           bool
		clientID       string
		clientSecret   string
		credentialsDir string
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing Google Workspace
tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Safety Mode:
  By default, the server operates in read-only mode, providing only safe
  operations. Use --yolo to enable write operations (email sending, file
  deletion, etc.)

OAuth Configuration:
  Token refresh requires the OAuth client used during authorization:
    --client-id and --client-secret flags
    OR GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars
  Run 'workspace-mcp auth' first to store credentials.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			oauth := google.ClientConfig{
				ClientID:     clientID,
				ClientSecret: clientSecret,
			}.ClientConfigFromEnv()
			if err := oauth.Validate(); err != nil {
				return err
			}
			return runServe(serveOptions{
				transport:      transport,
				debug:          debugMode,
				httpAddr:       httpAddr,
				readOnly:       !yolo,
				credentialsDir: credentialsDir,
				oauth:          oauth,
				metricsEnabled: metricsEnabled,
				metricsAddr:    metricsAddr,
			})
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (email sending, file deletion, etc.). Default is read-only mode.")
	cmd.Flags().StringVar(&clientID, "client-id", "", "Google OAuth Client ID for token refresh. Can also use GOOGLE_CLIENT_ID env var.")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "Google OAuth Client Secret for token refresh. Can also use GOOGLE_CLIENT_SECRET env var.")
	cmd.Flags().StringVar(&credentialsDir, "credentials-dir", defaultCredentialsDir(), "Directory holding stored credentials. Can also use WORKSPACE_MCP_CREDENTIALS_DIR env var.")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port (streamable-http transport only).")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

type serveOptions struct {
	transport      string
	debug          bool
	httpAddr       string
	readOnly       bool
	credentialsDir string
	oauth          google.ClientConfig
	metricsEnabled bool
	metricsAddr    string
}

func runServe(opts serveOptions) error {
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Stdout carries the protocol on stdio transport; logs go to stderr.
	logger := logging.Setup(os.Stderr, opts.debug)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if opts.transport == "stdio" {
		// No scrape target on stdio; a prometheus reader would be dead weight.
		instrConfig.Enabled = false
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	serverContext, err := server.NewServerContext(shutdownCtx, server.Config{
		CredentialsDir: opts.credentialsDir,
		OAuth:          opts.oauth,
		ReadOnly:       opts.readOnly,
		Metrics:        provider.Metrics(),
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := serverContext.Shutdown(flushCtx); err != nil {
			logger.Error("server context shutdown failed", logging.Err(err))
		}
	}()

	if opts.readOnly {
		logger.Info("starting in read-only mode (use --yolo to enable write operations)")
	} else {
		logger.Info("starting with write operations enabled")
	}

	mcpSrv := mcpserver.NewMCPServer("workspace-mcp", version,
		mcpserver.WithToolCapabilities(true),
	)
	catalog.Register(mcpSrv, serverContext)

	switch opts.transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, provider, opts)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, provider *instrumentation.Provider, opts serveOptions) error {
	logger := sc.Logger()

	var metricsServer *server.MetricsServer
	if opts.metricsEnabled && provider.Enabled() {
		addr := opts.metricsAddr
		if env := os.Getenv("METRICS_ADDR"); env != "" && addr == server.DefaultMetricsAddr {
			addr = env
		}
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:     addr,
			Provider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", logging.Err(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	healthChecker := server.NewHealthChecker(sc)

	mux := http.NewServeMux()
	healthChecker.RegisterHealthEndpoints(mux)
	mux.Handle("/mcp", instrumentedHTTPHandler(provider, mcpserver.NewStreamableHTTPServer(mcpSrv)))

	httpServer := &http.Server{
		Addr:              opts.httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("streamable HTTP server starting",
		"addr", opts.httpAddr, "endpoint", "/mcp")

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}
	return nil
}

// instrumentedHTTPHandler records request counts and latency per path and
// status code.
func instrumentedHTTPHandler(provider *instrumentation.Provider, next http.Handler) http.Handler {
	if !provider.Enabled() {
		return next
	}
	metrics := provider.Metrics()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, recorder.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
