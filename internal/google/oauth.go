package google

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/teemow/workspace-mcp/internal/credentials"
)

// RedirectOOB is the out-of-band redirect target for installed applications:
// the consent page displays the authorization code for the user to paste
// into the auth command.
const RedirectOOB = "urn:ietf:wg:oauth:2.0:oob"

// ClientConfig identifies the OAuth client used for the consent flow and for
// token refreshes. Populated from flags with environment fallbacks.
type ClientConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// ClientConfigFromEnv fills unset fields from GOOGLE_CLIENT_ID,
// GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URL.
func (c ClientConfig) ClientConfigFromEnv() ClientConfig {
	if c.ClientID == "" {
		c.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if c.ClientSecret == "" {
		c.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if c.RedirectURL == "" {
		c.RedirectURL = os.Getenv("GOOGLE_REDIRECT_URL")
	}
	if c.RedirectURL == "" {
		c.RedirectURL = RedirectOOB
	}
	return c
}

// Validate reports whether the client is usable for token operations.
func (c ClientConfig) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("missing OAuth client ID (set --client-id or GOOGLE_CLIENT_ID)")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("missing OAuth client secret (set --client-secret or GOOGLE_CLIENT_SECRET)")
	}
	return nil
}

// OAuth2 materializes the oauth2 configuration requesting the full
// Workspace scope union.
func (c ClientConfig) OAuth2() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     googleoauth.Endpoint,
		RedirectURL:  c.RedirectURL,
		Scopes:       AllScopes(),
	}
}

// AuthCodeURL returns the consent URL. Offline access with forced consent
// guarantees a refresh token even when the user authorized before.
func (c ClientConfig) AuthCodeURL(state string) string {
	return c.OAuth2().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a token.
func (c ClientConfig) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := c.OAuth2().Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	if tok.RefreshToken == "" {
		return nil, fmt.Errorf("authorization response carried no refresh token; revoke access at https://myaccount.google.com/permissions and re-run")
	}
	return tok, nil
}

// FanOut converts one consent grant into a credential record per service.
// The token endpoint accepts the shared refresh token for every scope it
// was granted under, so each record is independently refreshable.
func FanOut(tok *oauth2.Token, account string) []*credentials.Credential {
	services := Services()
	creds := make([]*credentials.Credential, 0, len(services))
	for _, svc := range services {
		creds = append(creds, credentials.FromToken(svc, account, tok, ServiceScopes[svc]))
	}
	return creds
}
