package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/teemow/workspace-mcp/internal/credentials"
)

// scriptedAdapter returns canned outcomes in order, then succeeds.
type scriptedAdapter struct {
	service string
	mu      sync.Mutex
	script  []error
	calls   int
	payload any
}

func (a *scriptedAdapter) Service() string { return a.service }

func (a *scriptedAdapter) Invoke(ctx context.Context, client *http.Client, inv Invocation) (any, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if len(a.script) > 0 {
		err := a.script[0]
		a.script = a.script[1:]
		if err != nil {
			return nil, err
		}
	}
	return a.payload, nil
}

func (a *scriptedAdapter) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// fakeCreds is a CredentialSource double counting refreshes.
type fakeCreds struct {
	mu          sync.Mutex
	cred        *credentials.Credential
	credErr     error
	refreshErr  error
	refreshes   int
	lookups     int
	invalidated int
}

func (f *fakeCreds) Credential(ctx context.Context, service, account string) (*credentials.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.credErr != nil {
		return nil, f.credErr
	}
	return f.cred, nil
}

func (f *fakeCreds) Refresh(ctx context.Context, service, account string) (*credentials.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	next := *f.cred
	next.AccessToken = fmt.Sprintf("refreshed-%d", f.refreshes)
	return &next, nil
}

func (f *fakeCreds) Invalidate(service, account string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated++
	return nil
}

func validCreds() *fakeCreds {
	return &fakeCreds{cred: &credentials.Credential{
		Service: "gmail", Account: "default",
		AccessToken: "tok", RefreshToken: "r1",
		Expiry: time.Now().Add(time.Hour),
	}}
}

func fastRetry(maxAttempts int) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:         maxAttempts,
		InitialInterval:     time.Millisecond,
		MaxInterval:         5 * time.Millisecond,
		Multiplier:          2.0,
		RandomizationFactor: 0,
	}
}

func invocation(tool string) Invocation {
	return Invocation{Tool: tool, Service: "gmail", Account: "default", Arguments: Args{}}
}

func TestDispatcherSuccess(t *testing.T) {
	adapter := &scriptedAdapter{service: "gmail", payload: "ok"}
	creds := validCreds()
	d := NewDispatcher(NewRegistry(adapter), creds, WithRetryPolicy(fastRetry(3)))

	res := d.Invoke(context.Background(), invocation("gmail_list_messages"))
	require.Nil(t, res.Err)
	assert.Equal(t, "ok", res.Payload)
	assert.Equal(t, 1, adapter.callCount())
	assert.Equal(t, 0, creds.refreshes)
}

func TestDispatcherUnknownService(t *testing.T) {
	creds := validCreds()
	d := NewDispatcher(NewRegistry(), creds, WithRetryPolicy(fastRetry(3)))

	res := d.Invoke(context.Background(), Invocation{Tool: "x", Service: "nope", Account: "default"})
	require.NotNil(t, res.Err)
	assert.Equal(t, KindUnknownService, res.Err.Kind)
	// No credential lookup for an unroutable invocation.
	assert.Equal(t, 0, creds.lookups)
}

func TestDispatcherReactiveRefreshOnce(t *testing.T) {
	// Scenario: 401 once, then success after one reactive refresh.
	adapter := &scriptedAdapter{
		service: "gmail",
		script:  []error{&googleapi.Error{Code: 401}},
		payload: "ok",
	}
	creds := validCreds()
	d := NewDispatcher(NewRegistry(adapter), creds, WithRetryPolicy(fastRetry(3)))

	res := d.Invoke(context.Background(), invocation("gmail_get_message"))
	require.Nil(t, res.Err)
	assert.Equal(t, "ok", res.Payload)
	assert.Equal(t, 2, adapter.callCount())
	assert.Equal(t, 1, creds.refreshes, "exactly one reactive refresh")
}

func TestDispatcherSecondAuthFailureIsTerminal(t *testing.T) {
	// Scenario: 401 twice in a row, post-refresh failure is terminal.
	adapter := &scriptedAdapter{
		service: "gmail",
		script:  []error{&googleapi.Error{Code: 401}, &googleapi.Error{Code: 401}},
	}
	creds := validCreds()
	d := NewDispatcher(NewRegistry(adapter), creds, WithRetryPolicy(fastRetry(5)))

	res := d.Invoke(context.Background(), invocation("gmail_get_message"))
	require.NotNil(t, res.Err)
	assert.Equal(t, KindAuthRequired, res.Err.Kind)
	assert.Equal(t, 2, adapter.callCount(), "no further retries after the second auth failure")
	assert.Equal(t, 1, creds.refreshes)
	assert.Equal(t, 1, creds.invalidated, "cache entry invalidated on terminal auth failure")
}

func TestDispatcherRetriesExhausted(t *testing.T) {
	// Scenario: three timeouts with max attempts three.
	adapter := &scriptedAdapter{
		service: "gmail",
		script: []error{
			context.DeadlineExceeded,
			context.DeadlineExceeded,
			context.DeadlineExceeded,
		},
	}
	creds := validCreds()
	obs := &recordingObserver{}
	d := NewDispatcher(NewRegistry(adapter), creds,
		WithRetryPolicy(fastRetry(3)), WithObserver(obs))

	res := d.Invoke(context.Background(), invocation("gmail_list_messages"))
	require.NotNil(t, res.Err)
	assert.Equal(t, KindUpstreamUnavailable, res.Err.Kind)
	assert.Equal(t, 3, adapter.callCount(), "stops at the attempt budget, never loops")
	assert.Equal(t, 3, obs.operations, "one observation per upstream attempt")
	assert.Equal(t, 1, obs.exhausted)
}

// recordingObserver counts dispatcher telemetry callbacks.
type recordingObserver struct {
	mu         sync.Mutex
	operations int
	exhausted  int
}

func (o *recordingObserver) UpstreamOperation(ctx context.Context, service, status string, duration time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.operations++
}

func (o *recordingObserver) RetriesExhausted(ctx context.Context, service string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.exhausted++
}

func TestDispatcherTransientThenSuccess(t *testing.T) {
	adapter := &scriptedAdapter{
		service: "gmail",
		script:  []error{&googleapi.Error{Code: 503}},
		payload: "ok",
	}
	d := NewDispatcher(NewRegistry(adapter), validCreds(), WithRetryPolicy(fastRetry(3)))

	res := d.Invoke(context.Background(), invocation("gmail_list_messages"))
	require.Nil(t, res.Err)
	assert.Equal(t, 2, adapter.callCount())
}

func TestDispatcherMissingCredential(t *testing.T) {
	adapter := &scriptedAdapter{service: "gmail", payload: "ok"}
	creds := &fakeCreds{credErr: fmt.Errorf("no stored credential: %w", credentials.ErrReauthRequired)}
	d := NewDispatcher(NewRegistry(adapter), creds, WithRetryPolicy(fastRetry(3)))

	res := d.Invoke(context.Background(), invocation("gmail_list_messages"))
	require.NotNil(t, res.Err)
	assert.Equal(t, KindAuthRequired, res.Err.Kind)
	assert.Equal(t, 0, adapter.callCount())
}

func TestDispatcherTerminalRefreshAfterAuthFailure(t *testing.T) {
	adapter := &scriptedAdapter{
		service: "gmail",
		script:  []error{&googleapi.Error{Code: 401}},
	}
	creds := validCreds()
	creds.refreshErr = fmt.Errorf("invalid_grant: %w", credentials.ErrReauthRequired)
	d := NewDispatcher(NewRegistry(adapter), creds, WithRetryPolicy(fastRetry(3)))

	res := d.Invoke(context.Background(), invocation("gmail_get_message"))
	require.NotNil(t, res.Err)
	assert.Equal(t, KindAuthRequired, res.Err.Kind)
	assert.Equal(t, 1, adapter.callCount())
}

func TestDispatcherDataError(t *testing.T) {
	adapter := &scriptedAdapter{
		service: "gmail",
		script:  []error{&googleapi.Error{Code: 404, Message: "message not found"}},
	}
	d := NewDispatcher(NewRegistry(adapter), validCreds(), WithRetryPolicy(fastRetry(3)))

	res := d.Invoke(context.Background(), invocation("gmail_get_message"))
	require.NotNil(t, res.Err)
	assert.Equal(t, KindDataError, res.Err.Kind)
	assert.Equal(t, 1, adapter.callCount(), "semantic failures are not retried")
}

func TestDispatcherAdapterClassifiedError(t *testing.T) {
	adapter := &scriptedAdapter{
		service: "gmail",
		script:  []error{InvalidArgument("unknown question type %q", "essay")},
	}
	d := NewDispatcher(NewRegistry(adapter), validCreds(), WithRetryPolicy(fastRetry(3)))

	res := d.Invoke(context.Background(), invocation("gmail_send_message"))
	require.NotNil(t, res.Err)
	assert.Equal(t, KindInvalidArguments, res.Err.Kind)
	assert.Equal(t, "gmail", res.Err.Service)
	assert.Equal(t, "gmail_send_message", res.Err.Tool)
}

func TestDispatcherCanceledDuringBackoff(t *testing.T) {
	adapter := &scriptedAdapter{
		service: "gmail",
		script:  []error{&googleapi.Error{Code: 503}, &googleapi.Error{Code: 503}},
	}
	policy := fastRetry(3)
	policy.InitialInterval = time.Second
	policy.MaxInterval = time.Second
	d := NewDispatcher(NewRegistry(adapter), validCreds(), WithRetryPolicy(policy))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res := d.Invoke(ctx, invocation("gmail_list_messages"))
	require.NotNil(t, res.Err)
	assert.Equal(t, KindUpstreamUnavailable, res.Err.Kind)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "cancellation aborts the backoff wait")
}

func TestRegistry(t *testing.T) {
	gmail := &scriptedAdapter{service: "gmail"}
	drive := &scriptedAdapter{service: "drive"}
	r := NewRegistry(gmail, drive)

	a, ok := r.Resolve("gmail")
	assert.True(t, ok)
	assert.Same(t, ServiceAdapter(gmail), a)

	_, ok = r.Resolve("sheets")
	assert.False(t, ok)

	assert.Equal(t, []string{"drive", "gmail"}, r.Services())

	assert.Panics(t, func() {
		NewRegistry(gmail, &scriptedAdapter{service: "gmail"})
	})
}
