package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCredentialsDirEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WORKSPACE_MCP_CREDENTIALS_DIR", dir)
	assert.Equal(t, dir, defaultCredentialsDir())
}

func TestDefaultCredentialsDirFallback(t *testing.T) {
	t.Setenv("WORKSPACE_MCP_CREDENTIALS_DIR", "")
	got := defaultCredentialsDir()
	assert.Equal(t, "credentials", filepath.Base(got))
}

func TestRandomStateIsUnique(t *testing.T) {
	a, err := randomState()
	require.NoError(t, err)
	b, err := randomState()
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3")
	cmd := newVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)
	assert.Contains(t, out.String(), "workspace-mcp version 1.2.3")
}
