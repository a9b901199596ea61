package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/teemow/workspace-mcp/internal/logging"
)

// DefaultExpiryMargin is how long before the stated expiry a credential is
// treated as stale and refreshed proactively, so upstream calls do not race
// the expiry and eat a 401.
const DefaultExpiryMargin = 2 * time.Minute

// SessionManager owns the in-memory credential cache for the lifetime of the
// process. Lookups are cache-first with the store as fallback; refreshes for
// the same (service, account) pair are coalesced so concurrent invocations
// never issue duplicate exchanges against the token endpoint.
type SessionManager struct {
	store     Store
	refresher Refresher
	margin    time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger

	mu    sync.RWMutex
	cache map[Key]*Credential
	dirty map[Key]*Credential // refreshed but not yet persisted

	group singleflight.Group
}

// Option configures the SessionManager.
type Option func(*SessionManager)

// WithExpiryMargin overrides the proactive-refresh safety margin.
func WithExpiryMargin(margin time.Duration) Option {
	return func(m *SessionManager) { m.margin = margin }
}

// WithClock injects a clock, used by tests to control expiry.
func WithClock(clock clockwork.Clock) Option {
	return func(m *SessionManager) { m.clock = clock }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *SessionManager) { m.logger = logger }
}

// NewSessionManager creates a session manager over the given store and
// refresher.
func NewSessionManager(store Store, refresher Refresher, opts ...Option) *SessionManager {
	m := &SessionManager{
		store:     store,
		refresher: refresher,
		margin:    DefaultExpiryMargin,
		clock:     clockwork.NewRealClock(),
		logger:    slog.Default(),
		cache:     make(map[Key]*Credential),
		dirty:     make(map[Key]*Credential),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Credential returns a live credential for the pair, refreshing first when
// the cached or stored record is within the expiry margin. A missing or
// unrefreshable record fails with ErrReauthRequired.
func (m *SessionManager) Credential(ctx context.Context, service, account string) (*Credential, error) {
	key := Key{Service: service, Account: account}

	m.mu.RLock()
	cred, ok := m.cache[key]
	m.mu.RUnlock()
	if ok && cred.ValidAt(m.clock.Now(), m.margin) {
		return cred.clone(), nil
	}

	return m.obtain(ctx, key, false)
}

// Refresh forces a fresh exchange for the pair regardless of the cached
// expiry. The dispatcher uses this after an upstream 401 that the proactive
// margin did not anticipate (clock skew, concurrent revocation).
func (m *SessionManager) Refresh(ctx context.Context, service, account string) (*Credential, error) {
	return m.obtain(ctx, Key{Service: service, Account: account}, true)
}

// obtain funnels all cache misses and forced refreshes for one key through a
// single flight. The waiting caller can still honor its own cancellation,
// but the refresh itself runs detached: its result is valuable to every
// other invocation regardless of who triggered it.
func (m *SessionManager) obtain(ctx context.Context, key Key, force bool) (*Credential, error) {
	ch := m.group.DoChan(key.String(), func() (interface{}, error) {
		return m.lookupOrRefresh(context.WithoutCancel(ctx), key, force)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Credential).clone(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *SessionManager) lookupOrRefresh(ctx context.Context, key Key, force bool) (*Credential, error) {
	now := m.clock.Now()

	m.mu.RLock()
	cred, ok := m.cache[key]
	m.mu.RUnlock()

	// A caller that lost the single-flight race may find the entry already
	// renewed by the winner.
	if ok && !force && cred.ValidAt(now, m.margin) {
		return cred, nil
	}

	if !ok {
		stored, err := m.store.Load(key.Service, key.Account)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("no stored credential for %s: %w", key, ErrReauthRequired)
			}
			return nil, fmt.Errorf("failed to load credential for %s: %w", key, err)
		}
		cred = stored
		if !force && cred.ValidAt(now, m.margin) {
			m.put(cred)
			return cred, nil
		}
	}

	if !cred.Refreshable() {
		m.drop(key, false)
		return nil, fmt.Errorf("credential for %s is expired and has no refresh token: %w", key, ErrReauthRequired)
	}

	next, err := m.refresher.Refresh(ctx, cred)
	if err != nil {
		if IsTerminal(err) {
			// The grant is gone; a stale credential must never be served.
			m.drop(key, true)
			m.logger.Warn("credential refresh rejected, reauthorization required",
				logging.Service(key.Service), logging.Account(key.Account), logging.Err(err))
		}
		return nil, err
	}

	m.put(next)
	if saveErr := m.store.Save(next); saveErr != nil {
		// The in-memory credential stays valid; remember the record so
		// Shutdown can retry the write.
		m.mu.Lock()
		m.dirty[key] = next
		m.mu.Unlock()
		m.logger.Warn("failed to persist refreshed credential",
			logging.Service(key.Service), logging.Account(key.Account), logging.Err(saveErr))
	} else {
		m.mu.Lock()
		delete(m.dirty, key)
		m.mu.Unlock()
	}

	m.logger.Debug("credential refreshed",
		logging.Service(key.Service), logging.Account(key.Account),
		slog.Time("expiry", next.Expiry))
	return next, nil
}

// Put caches a credential and persists it. Used when a new authorization is
// completed out-of-band (auth command, token hand-off from the transport).
func (m *SessionManager) Put(cred *Credential) error {
	if cred == nil {
		return fmt.Errorf("credential must not be nil")
	}
	m.put(cred)
	if err := m.store.Save(cred); err != nil {
		return fmt.Errorf("failed to persist credential for %s: %w", cred.Key(), err)
	}
	return nil
}

// Invalidate drops the cached credential and deletes the stored record,
// forcing the next lookup to demand re-authorization. A record that is
// already gone is not an error.
func (m *SessionManager) Invalidate(service, account string) error {
	key := Key{Service: service, Account: account}
	m.drop(key, true)
	return nil
}

// Shutdown flushes credentials whose persistence previously failed. It is
// safe to call once at process exit; lookups after shutdown still work but
// are not flushed again.
func (m *SessionManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	pending := make([]*Credential, 0, len(m.dirty))
	for _, cred := range m.dirty {
		pending = append(pending, cred)
	}
	m.dirty = make(map[Key]*Credential)
	m.mu.Unlock()

	var errs []error
	for _, cred := range pending {
		if err := m.store.Save(cred); err != nil {
			errs = append(errs, fmt.Errorf("flush %s: %w", cred.Key(), err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (m *SessionManager) put(cred *Credential) {
	m.mu.Lock()
	m.cache[cred.Key()] = cred.clone()
	m.mu.Unlock()
}

// drop removes the cache entry and, when deleteStored is set, the persisted
// record as well.
func (m *SessionManager) drop(key Key, deleteStored bool) {
	m.mu.Lock()
	delete(m.cache, key)
	delete(m.dirty, key)
	m.mu.Unlock()

	if deleteStored {
		if err := m.store.Delete(key.Service, key.Account); err != nil && !errors.Is(err, ErrNotFound) {
			m.logger.Warn("failed to delete stored credential",
				logging.Service(key.Service), logging.Account(key.Account), logging.Err(err))
		}
	}
}
