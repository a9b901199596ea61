// Package instrumentation provides OpenTelemetry instrumentation for the
// workspace gateway.
//
// # Metrics
//
// Server/HTTP:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Gateway:
//   - mcp_tool_invocations_total: Counter of tool invocations by tool and status
//   - mcp_tool_duration_seconds: Histogram of tool execution durations
//   - upstream_operations_total: Counter of upstream API calls by service and status
//   - upstream_operation_duration_seconds: Histogram of upstream call durations
//   - upstream_retries_exhausted_total: Counter of invocations that ran out of retry budget
//
// Credentials:
//   - credential_refresh_total: Counter of token refresh attempts by result
//
// # Configuration
//
// Environment variables:
//   - INSTRUMENTATION_ENABLED: enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: sampling rate 0.0-1.0 (default: 0.1)
//   - OTEL_SERVICE_NAME: service name (default: workspace-mcp)
package instrumentation
