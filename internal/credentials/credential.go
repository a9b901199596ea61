package credentials

import (
	"time"

	"golang.org/x/oauth2"
)

// Key identifies a credential record by upstream service and account.
type Key struct {
	Service string
	Account string
}

// String returns the key in "service/account" form, suitable for use as a
// single-flight or map key.
func (k Key) String() string {
	return k.Service + "/" + k.Account
}

// Credential holds the OAuth2 token material authorizing calls to one
// upstream service on behalf of one account.
//
// A Credential is treated as an immutable record: a refresh produces a full
// replacement, never a field-level merge. This keeps refresh token rotation
// safe — the old and new refresh tokens are never mixed in one record.
type Credential struct {
	Service      string    `json:"service"`
	Account      string    `json:"account"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Scopes       []string  `json:"scopes,omitempty"`
	Expiry       time.Time `json:"expiry"`
}

// Key returns the record's identifying key.
func (c *Credential) Key() Key {
	return Key{Service: c.Service, Account: c.Account}
}

// Refreshable reports whether the credential can be renewed.
func (c *Credential) Refreshable() bool {
	return c.RefreshToken != ""
}

// ValidAt reports whether the access token is usable at the given time,
// keeping a safety margin before the stated expiry. A zero expiry means the
// token does not expire.
func (c *Credential) ValidAt(now time.Time, margin time.Duration) bool {
	if c.AccessToken == "" {
		return false
	}
	if c.Expiry.IsZero() {
		return true
	}
	return now.Add(margin).Before(c.Expiry)
}

// Token converts the credential to an oauth2.Token for use with Google API
// clients.
func (c *Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
	}
}

// FromToken builds a credential record for a (service, account) pair from an
// oauth2 token, typically the result of an authorization code exchange or a
// refresh.
func FromToken(service, account string, tok *oauth2.Token, scopes []string) *Credential {
	return &Credential{
		Service:      service,
		Account:      account,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Scopes:       scopes,
		Expiry:       tok.Expiry,
	}
}

// clone returns a copy so cache internals never escape to callers.
func (c *Credential) clone() *Credential {
	dup := *c
	if c.Scopes != nil {
		dup.Scopes = append([]string(nil), c.Scopes...)
	}
	return &dup
}
