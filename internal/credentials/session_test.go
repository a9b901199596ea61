package credentials

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store with injectable failures.
type memStore struct {
	mu      sync.Mutex
	records map[Key]*Credential
	saveErr error
	loads   int
	saves   int
	deletes int
}

func newMemStore() *memStore {
	return &memStore{records: make(map[Key]*Credential)}
}

func (s *memStore) Load(service, account string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	cred, ok := s.records[Key{service, account}]
	if !ok {
		return nil, ErrNotFound
	}
	dup := *cred
	return &dup, nil
}

func (s *memStore) Save(cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	dup := *cred
	s.records[cred.Key()] = &dup
	return nil
}

func (s *memStore) Delete(service, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	key := Key{service, account}
	if _, ok := s.records[key]; !ok {
		return ErrNotFound
	}
	delete(s.records, key)
	return nil
}

func (s *memStore) get(key Key) *Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[key]
}

// stubRefresher counts refresh calls and can block to force overlap.
type stubRefresher struct {
	mu      sync.Mutex
	calls   int
	err     error
	gate    chan struct{} // when set, Refresh blocks until the gate closes
	expiry  time.Time
	rotated string
}

func (r *stubRefresher) Refresh(ctx context.Context, cred *Credential) (*Credential, error) {
	r.mu.Lock()
	r.calls++
	n := r.calls
	gate := r.gate
	r.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if r.err != nil {
		return nil, r.err
	}

	next := cred.clone()
	next.AccessToken = fmt.Sprintf("refreshed-%d", n)
	next.Expiry = r.expiry
	if r.rotated != "" {
		next.RefreshToken = r.rotated
	}
	return next, nil
}

func (r *stubRefresher) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestSessionManagerExpiredCredentialRefreshedOnce(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	store := newMemStore()
	require.NoError(t, store.Save(&Credential{
		Service: "gmail", Account: "default",
		AccessToken: "stale", RefreshToken: "r1",
		Expiry: clock.Now().Add(-time.Second),
	}))

	refresher := &stubRefresher{expiry: clock.Now().Add(time.Hour)}
	m := NewSessionManager(store, refresher, WithClock(clock))

	cred, err := m.Credential(context.Background(), "gmail", "default")
	require.NoError(t, err)
	assert.Equal(t, "refreshed-1", cred.AccessToken)
	assert.True(t, cred.Expiry.After(clock.Now()))
	assert.Equal(t, 1, refresher.callCount())

	// Second lookup is served from cache without another refresh.
	again, err := m.Credential(context.Background(), "gmail", "default")
	require.NoError(t, err)
	assert.Equal(t, cred.AccessToken, again.AccessToken)
	assert.Equal(t, 1, refresher.callCount())
}

func TestSessionManagerRefreshWithinMargin(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	store := newMemStore()
	// Valid for another 30s, but inside the 2m margin.
	require.NoError(t, store.Save(&Credential{
		Service: "drive", Account: "default",
		AccessToken: "nearly-stale", RefreshToken: "r1",
		Expiry: clock.Now().Add(30 * time.Second),
	}))

	refresher := &stubRefresher{expiry: clock.Now().Add(time.Hour)}
	m := NewSessionManager(store, refresher, WithClock(clock))

	cred, err := m.Credential(context.Background(), "drive", "default")
	require.NoError(t, err)
	assert.Equal(t, "refreshed-1", cred.AccessToken)
	assert.Equal(t, 1, refresher.callCount())
}

func TestSessionManagerSingleFlight(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	store := newMemStore()
	require.NoError(t, store.Save(&Credential{
		Service: "sheets", Account: "default",
		AccessToken: "stale", RefreshToken: "r1",
		Expiry: clock.Now().Add(-time.Minute),
	}))

	gate := make(chan struct{})
	refresher := &stubRefresher{expiry: clock.Now().Add(time.Hour), gate: gate}
	m := NewSessionManager(store, refresher, WithClock(clock))

	const n = 16
	var wg sync.WaitGroup
	results := make([]*Credential, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = m.Credential(context.Background(), "sheets", "default")
		}()
	}

	// Give the goroutines time to pile up on the in-flight refresh.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, 1, refresher.callCount(), "concurrent lookups must coalesce onto one refresh")
	for i := range n {
		require.NoError(t, errs[i])
		assert.Equal(t, "refreshed-1", results[i].AccessToken, "all waiters observe the single refresh outcome")
	}
}

func TestSessionManagerTerminalRefreshInvalidates(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	store := newMemStore()
	require.NoError(t, store.Save(&Credential{
		Service: "calendar", Account: "default",
		AccessToken: "stale", RefreshToken: "revoked",
		Expiry: clock.Now().Add(-time.Minute),
	}))

	refresher := &stubRefresher{err: fmt.Errorf("invalid_grant: %w", ErrReauthRequired)}
	m := NewSessionManager(store, refresher, WithClock(clock))

	_, err := m.Credential(context.Background(), "calendar", "default")
	require.Error(t, err)
	assert.True(t, IsTerminal(err))

	// The stored record is destroyed; the next lookup demands reauth without
	// touching the refresher again.
	assert.Nil(t, store.get(Key{"calendar", "default"}))
	_, err = m.Credential(context.Background(), "calendar", "default")
	require.Error(t, err)
	assert.True(t, IsTerminal(err))
	assert.Equal(t, 1, refresher.callCount())
}

func TestSessionManagerTerminalRefreshSharedByWaiters(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	store := newMemStore()
	require.NoError(t, store.Save(&Credential{
		Service: "forms", Account: "default",
		AccessToken: "stale", RefreshToken: "revoked",
		Expiry: clock.Now().Add(-time.Minute),
	}))

	gate := make(chan struct{})
	refresher := &stubRefresher{err: fmt.Errorf("invalid_grant: %w", ErrReauthRequired), gate: gate}
	m := NewSessionManager(store, refresher, WithClock(clock))

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = m.Credential(context.Background(), "forms", "default")
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, 1, refresher.callCount())
	for i := range n {
		require.Error(t, errs[i])
		assert.True(t, IsTerminal(errs[i]), "every waiter observes the terminal failure, never a stale credential")
	}
}

func TestSessionManagerMissingCredential(t *testing.T) {
	m := NewSessionManager(newMemStore(), &stubRefresher{})
	_, err := m.Credential(context.Background(), "docs", "default")
	require.Error(t, err)
	assert.True(t, IsTerminal(err), "a missing record requires authorization, not a retry")
}

func TestSessionManagerForcedRefreshBypassesCache(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	store := newMemStore()
	refresher := &stubRefresher{expiry: clock.Now().Add(time.Hour)}
	m := NewSessionManager(store, refresher, WithClock(clock))

	// Cached credential looks valid for another hour.
	require.NoError(t, m.Put(&Credential{
		Service: "gmail", Account: "default",
		AccessToken: "looks-valid", RefreshToken: "r1",
		Expiry: clock.Now().Add(time.Hour),
	}))

	// The upstream disagreed (clock skew, concurrent revocation); a forced
	// refresh must exchange anyway.
	cred, err := m.Refresh(context.Background(), "gmail", "default")
	require.NoError(t, err)
	assert.Equal(t, "refreshed-1", cred.AccessToken)
	assert.Equal(t, 1, refresher.callCount())
}

func TestSessionManagerPersistFailureKeepsCredential(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	store := newMemStore()
	require.NoError(t, store.Save(&Credential{
		Service: "chat", Account: "default",
		AccessToken: "stale", RefreshToken: "r1",
		Expiry: clock.Now().Add(-time.Minute),
	}))

	refresher := &stubRefresher{expiry: clock.Now().Add(time.Hour)}
	m := NewSessionManager(store, refresher, WithClock(clock))

	store.mu.Lock()
	store.saveErr = errors.New("disk full")
	store.mu.Unlock()

	// Refresh succeeds even though persistence fails.
	cred, err := m.Credential(context.Background(), "chat", "default")
	require.NoError(t, err)
	assert.Equal(t, "refreshed-1", cred.AccessToken)

	// Once the disk recovers, Shutdown flushes the pending write.
	store.mu.Lock()
	store.saveErr = nil
	store.mu.Unlock()
	require.NoError(t, m.Shutdown(context.Background()))

	persisted := store.get(Key{"chat", "default"})
	require.NotNil(t, persisted)
	assert.Equal(t, "refreshed-1", persisted.AccessToken)
}

func TestSessionManagerInvalidate(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	store := newMemStore()
	refresher := &stubRefresher{expiry: clock.Now().Add(time.Hour)}
	m := NewSessionManager(store, refresher, WithClock(clock))

	require.NoError(t, m.Put(&Credential{
		Service: "drive", Account: "default",
		AccessToken: "tok", RefreshToken: "r1",
		Expiry: clock.Now().Add(time.Hour),
	}))
	require.NoError(t, m.Invalidate("drive", "default"))

	assert.Nil(t, store.get(Key{"drive", "default"}))
	_, err := m.Credential(context.Background(), "drive", "default")
	assert.True(t, IsTerminal(err))
}

func TestCredentialValidAt(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		cred   Credential
		margin time.Duration
		want   bool
	}{
		{"valid with room", Credential{AccessToken: "t", Expiry: now.Add(time.Hour)}, time.Minute, true},
		{"expired", Credential{AccessToken: "t", Expiry: now.Add(-time.Second)}, 0, false},
		{"inside margin", Credential{AccessToken: "t", Expiry: now.Add(30 * time.Second)}, time.Minute, false},
		{"no expiry", Credential{AccessToken: "t"}, time.Minute, true},
		{"no access token", Credential{Expiry: now.Add(time.Hour)}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cred.ValidAt(now, tt.margin))
		})
	}
}
