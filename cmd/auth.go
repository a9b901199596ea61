package cmd

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/workspace-mcp/internal/credentials"
	"github.com/teemow/workspace-mcp/internal/google"
)

func newAuthCmd() *cobra.Command {
	var (
		account        string
		clientID       string
		clientSecret   string
		credentialsDir string
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize Google Workspace access",
		Long: `Run the OAuth consent flow and store credentials for an account.

Prints a consent URL to open in a browser. After granting access, paste
the authorization code back into this command. One consent covers all
supported Google services; a credential record is stored per service and
refreshed automatically by the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			oauth := google.ClientConfig{
				ClientID:     clientID,
				ClientSecret: clientSecret,
			}.ClientConfigFromEnv()
			if err := oauth.Validate(); err != nil {
				return err
			}
			return runAuth(cmd, oauth, account, credentialsDir)
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Account name to store the credentials under")
	cmd.Flags().StringVar(&clientID, "client-id", "", "Google OAuth Client ID. Can also use GOOGLE_CLIENT_ID env var.")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "Google OAuth Client Secret. Can also use GOOGLE_CLIENT_SECRET env var.")
	cmd.Flags().StringVar(&credentialsDir, "credentials-dir", defaultCredentialsDir(), "Directory to store credentials in. Can also use WORKSPACE_MCP_CREDENTIALS_DIR env var.")

	return cmd
}

func runAuth(cmd *cobra.Command, oauth google.ClientConfig, account, credentialsDir string) error {
	store, err := credentials.NewFileStore(credentialsDir)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}

	state, err := randomState()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), `Visit this URL in your browser to authorize access:

  %s

Sign in, grant access to the requested Google services, and copy the
authorization code.

`, oauth.AuthCodeURL(state))
	fmt.Fprint(cmd.OutOrStdout(), "Authorization code: ")

	reader := bufio.NewReader(cmd.InOrStdin())
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("no authorization code provided")
	}

	tok, err := oauth.Exchange(cmd.Context(), code)
	if err != nil {
		return err
	}

	creds := google.FanOut(tok, account)
	for _, cred := range creds {
		if err := store.Save(cred); err != nil {
			return fmt.Errorf("failed to store credential for %s: %w", cred.Service, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nStored credentials for account %q covering %d services in %s\n",
		account, len(creds), store.Dir())
	return nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
