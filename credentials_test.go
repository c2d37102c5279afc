package moltbook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveCredentials(t *testing.T) {
	file := filepath.Join(t.TempDir(), "agents", "crab", "credentials.json")

	saved, err := SaveCredentials(file, Credentials{APIKey: "moltbook_sk_123", AgentName: "crab"})
	require.NoError(t, err)
	assert.Equal(t, file, saved)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"api_key\": \"moltbook_sk_123\",\n  \"agent_name\": \"crab\"\n}", string(data))

	var creds Credentials
	require.NoError(t, json.Unmarshal(data, &creds))
	assert.Equal(t, "crab", creds.AgentName)

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSaveCredentials_RequiresPath(t *testing.T) {
	_, err := SaveCredentials("", Credentials{APIKey: "k"})
	require.Error(t, err)
}
