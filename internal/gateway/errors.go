package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/api/googleapi"
)

// Kind classifies an invocation failure. Exactly one kind is attached to
// every error result.
type Kind string

const (
	// KindInvalidArguments marks arguments that passed schema validation but
	// are semantically unusable.
	KindInvalidArguments Kind = "invalid_arguments"

	// KindUnknownService marks an invocation naming a service no adapter is
	// registered for.
	KindUnknownService Kind = "unknown_service"

	// KindAuthRequired marks a credential that is missing or unrefreshable;
	// the user must re-authorize out-of-band.
	KindAuthRequired Kind = "auth_required"

	// KindUpstreamUnavailable marks a transient upstream failure that
	// survived all retries; the caller may try again later.
	KindUpstreamUnavailable Kind = "upstream_unavailable"

	// KindDataError marks an upstream response that could not be normalized,
	// or a request the upstream rejected as semantically wrong.
	KindDataError Kind = "data_error"

	// KindWriteFailure marks a credential persistence failure. It is kept
	// distinct from KindAuthRequired: the in-memory credential may still be
	// valid.
	KindWriteFailure Kind = "write_failure"
)

// Error is the uniform failure shape returned by the dispatcher.
type Error struct {
	Kind    Kind
	Service string
	Tool    string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Tool)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Tool, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retriable reports whether the caller may usefully retry the invocation.
func (e *Error) Retriable() bool {
	return e.Kind == KindUpstreamUnavailable
}

// ErrorKind extracts the Kind from an error chain, or "" if err carries none.
func ErrorKind(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

// InvalidArgument returns an adapter-level error for a semantically unusable
// argument. The dispatcher maps it to KindInvalidArguments.
func InvalidArgument(format string, args ...any) error {
	return &Error{Kind: KindInvalidArguments, Err: fmt.Errorf(format, args...)}
}

// DataFailure returns an adapter-level error for a response that could not
// be normalized. The dispatcher maps it to KindDataError rather than
// silently returning partial data.
func DataFailure(format string, args ...any) error {
	return &Error{Kind: KindDataError, Err: fmt.Errorf(format, args...)}
}

// transient Google API 403 reasons. Google reports quota exhaustion with a
// 403 status, which must go down the retry channel, not the auth channel.
var transient403Reasons = map[string]bool{
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
	"quotaExceeded":         true,
	"dailyLimitExceeded":    true,
}

// isAuthFailure reports whether err is an upstream rejection of the bearer
// token (expired, revoked, insufficient).
func isAuthFailure(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case 401:
		return true
	case 403:
		for _, e := range apiErr.Errors {
			if transient403Reasons[e.Reason] {
				return false
			}
		}
		return true
	}
	return false
}

// isTransientFailure reports whether err is worth retrying with backoff:
// rate limits, 5xx responses, timeouts and connection-level failures.
func isTransientFailure(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Code >= 500 {
			return true
		}
		if apiErr.Code == 403 {
			for _, e := range apiErr.Errors {
				if transient403Reasons[e.Reason] {
					return true
				}
			}
		}
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	// Connection refused, reset, DNS failures and friends arrive as
	// *net.OpError wrapped in *url.Error.
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
