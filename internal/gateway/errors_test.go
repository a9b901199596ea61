package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestIsAuthFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"401", &googleapi.Error{Code: 401}, true},
		{"403 forbidden", &googleapi.Error{Code: 403}, true},
		{"403 rate limit", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "rateLimitExceeded"}}}, false},
		{"403 user rate limit", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "userRateLimitExceeded"}}}, false},
		{"404", &googleapi.Error{Code: 404}, false},
		{"500", &googleapi.Error{Code: 500}, false},
		{"wrapped 401", fmt.Errorf("call failed: %w", &googleapi.Error{Code: 401}), true},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isAuthFailure(tt.err))
		})
	}
}

func TestIsTransientFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"429", &googleapi.Error{Code: 429}, true},
		{"500", &googleapi.Error{Code: 500}, true},
		{"503", &googleapi.Error{Code: 503}, true},
		{"403 quota", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}}}, true},
		{"403 forbidden", &googleapi.Error{Code: 403}, false},
		{"400", &googleapi.Error{Code: 400}, false},
		{"404", &googleapi.Error{Code: 404}, false},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), true},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, true},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransientFailure(tt.err))
		})
	}
}

func TestErrorKind(t *testing.T) {
	err := &Error{Kind: KindDataError, Tool: "gmail_get_message", Err: errors.New("no such message")}
	assert.Equal(t, KindDataError, ErrorKind(err))
	assert.Equal(t, KindDataError, ErrorKind(fmt.Errorf("outer: %w", err)))
	assert.Equal(t, Kind(""), ErrorKind(errors.New("untyped")))
	assert.False(t, err.Retriable())
	assert.True(t, (&Error{Kind: KindUpstreamUnavailable}).Retriable())
}

func TestArgs(t *testing.T) {
	args := Args{
		"query":       "from:a@b.c",
		"max_results": float64(25),
		"required":    true,
		"labels":      []any{"INBOX", "UNREAD", 7},
		"values":      []any{[]any{"a", float64(1)}, []any{"b", float64(2)}},
	}

	assert.Equal(t, "from:a@b.c", args.String("query", ""))
	assert.Equal(t, "fallback", args.String("missing", "fallback"))
	assert.Equal(t, 25, args.Int("max_results", 10))
	assert.Equal(t, 10, args.Int("missing", 10))
	assert.True(t, args.Bool("required", false))
	assert.Equal(t, []string{"INBOX", "UNREAD"}, args.StringSlice("labels"))
	assert.Equal(t, [][]any{{"a", float64(1)}, {"b", float64(2)}}, args.Rows("values"))

	v, err := args.RequiredString("query")
	assert.NoError(t, err)
	assert.Equal(t, "from:a@b.c", v)

	_, err = args.RequiredString("missing")
	assert.Equal(t, KindInvalidArguments, ErrorKind(err))
}
