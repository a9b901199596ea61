package credentials

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// ErrReauthRequired marks a terminal authentication failure: the refresh
// token was revoked or rejected, and the user must re-authorize out-of-band.
// Callers must not retry a refresh that failed with this error.
var ErrReauthRequired = errors.New("reauthorization required")

// IsTerminal reports whether err is a terminal auth failure rather than a
// transient transport problem.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrReauthRequired)
}

// DefaultRefreshTimeout bounds a single token endpoint exchange. It is
// deliberately shorter than any overall invocation timeout a caller imposes.
const DefaultRefreshTimeout = 30 * time.Second

// Refresher exchanges a credential's refresh token for fresh token material.
//
// The returned credential is a full replacement record. A failure either
// wraps ErrReauthRequired (terminal, never retried) or is a plain error the
// caller may retry.
type Refresher interface {
	Refresh(ctx context.Context, cred *Credential) (*Credential, error)
}

// OAuthRefresher refreshes credentials against an OAuth2 token endpoint
// using golang.org/x/oauth2.
type OAuthRefresher struct {
	conf       *oauth2.Config
	httpClient *http.Client
	timeout    time.Duration
}

// NewOAuthRefresher returns a refresher bound to the given OAuth2 client
// configuration. httpClient may be nil to use the default transport.
func NewOAuthRefresher(conf *oauth2.Config, httpClient *http.Client) *OAuthRefresher {
	return &OAuthRefresher{
		conf:       conf,
		httpClient: httpClient,
		timeout:    DefaultRefreshTimeout,
	}
}

// Refresh performs the OAuth2 refresh exchange. On success it returns a new
// credential with updated access token and expiry; if the server rotates the
// refresh token the new value replaces the old one in the returned record.
// There is no fallback to the stale token.
func (r *OAuthRefresher) Refresh(ctx context.Context, cred *Credential) (*Credential, error) {
	if !cred.Refreshable() {
		return nil, fmt.Errorf("credential for %s has no refresh token: %w", cred.Key(), ErrReauthRequired)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if r.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	}

	// Passing only the refresh token forces an exchange instead of reusing
	// the stale access token.
	src := r.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, classifyRefreshError(cred.Key(), err)
	}

	next := FromToken(cred.Service, cred.Account, tok, cred.Scopes)
	if next.RefreshToken == "" {
		// oauth2 keeps the submitted refresh token when the server does not
		// rotate it, so this only guards unusual token endpoint responses.
		next.RefreshToken = cred.RefreshToken
	}
	return next, nil
}

// classifyRefreshError separates upstream-reported grant failures (terminal)
// from transport-level failures (retriable by the caller).
func classifyRefreshError(key Key, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		code := retrieveErr.ErrorCode
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		if code == "invalid_grant" || code == "invalid_client" || status == http.StatusBadRequest || status == http.StatusUnauthorized {
			return fmt.Errorf("refresh rejected for %s (%s): %w", key, code, ErrReauthRequired)
		}
		// 5xx or unexpected statuses from the token endpoint are transient.
		return fmt.Errorf("token endpoint returned status %d for %s: %w", status, key, err)
	}
	return fmt.Errorf("refresh exchange failed for %s: %w", key, err)
}
