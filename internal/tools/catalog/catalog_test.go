package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/workspace-mcp/internal/google"
	"github.com/teemow/workspace-mcp/internal/server"
)

func allDefinitions() []definition {
	var defs []definition
	for _, group := range [][]definition{
		gmailTools(), chatTools(), sheetsTools(), driveTools(),
		formsTools(), calendarTools(), docsTools(),
	} {
		defs = append(defs, group...)
	}
	return defs
}

func newTestContext(t *testing.T, readOnly bool) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Config{
		CredentialsDir: t.TempDir(),
		ReadOnly:       readOnly,
		OAuth: google.ClientConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  google.RedirectOOB,
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sc.Shutdown(context.Background())
	})
	return sc
}

func TestCatalogCoversAllTools(t *testing.T) {
	defs := allDefinitions()
	assert.Len(t, defs, 25)

	seen := make(map[string]bool)
	writeCount := 0
	for _, def := range defs {
		assert.False(t, seen[def.tool.Name], "duplicate tool %s", def.tool.Name)
		seen[def.tool.Name] = true

		assert.True(t, strings.HasPrefix(def.tool.Name, def.service+"_"),
			"tool %s must carry its service prefix %s", def.tool.Name, def.service)
		assert.NotEmpty(t, def.tool.Description)

		if def.write {
			writeCount++
		}
	}
	assert.Equal(t, 15, writeCount)
}

func TestWriteToolsAreMarked(t *testing.T) {
	wantWrite := map[string]bool{
		"gmail_send_message":        true,
		"chat_send_message":         true,
		"sheets_create_spreadsheet": true,
		"sheets_update_values":      true,
		"sheets_append_values":      true,
		"drive_create_folder":       true,
		"drive_delete_file":         true,
		"drive_share_file":          true,
		"forms_create_form":         true,
		"forms_add_question":        true,
		"calendar_create_event":     true,
		"calendar_delete_event":     true,
		"docs_create_document":      true,
		"docs_insert_text":          true,
		"docs_append_text":          true,
	}
	for _, def := range allDefinitions() {
		assert.Equal(t, wantWrite[def.tool.Name], def.write, def.tool.Name)
	}
}

func TestAccountFromArgs(t *testing.T) {
	assert.Equal(t, "default", accountFromArgs(nil))
	assert.Equal(t, "default", accountFromArgs(map[string]interface{}{"account": ""}))
	assert.Equal(t, "default", accountFromArgs(map[string]interface{}{"account": 7}))
	assert.Equal(t, "work", accountFromArgs(map[string]interface{}{"account": "work"}))
}

func TestDispatchWithoutCredentialYieldsAuthGuidance(t *testing.T) {
	sc := newTestContext(t, false)
	handler := dispatchHandler(sc, "gmail", "gmail_get_message")

	request := mcp.CallToolRequest{}
	request.Params.Name = "gmail_get_message"
	request.Params.Arguments = map[string]interface{}{"message_id": "abc"}

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "authorization required")
	assert.Contains(t, text, "accounts.google.com")
	assert.Contains(t, text, "workspace-mcp auth")
}

func TestInstrumentedPassesResultThrough(t *testing.T) {
	sc := newTestContext(t, false)

	called := false
	handler := instrumented(sc, "gmail_get_message", func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("ok"), nil
	})

	request := mcp.CallToolRequest{}
	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "ok", resultText(t, result))
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}
