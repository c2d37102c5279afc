package moltbook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Credentials is what registration hands back and what an agent keeps
type Credentials struct {
	APIKey    string `json:"api_key"`
	AgentName string `json:"agent_name"`
}

// SaveCredentials writes creds to file as indented JSON, readable only by the owner.
// The process never reads the file back.
func SaveCredentials(file string, creds Credentials) (string, error) {
	if file == "" {
		return "", fmt.Errorf("file path is required")
	}

	target := expandPath(file)

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
		return "", fmt.Errorf("failed to create directory for '%s': %w", target, err)
	}

	if err := os.WriteFile(target, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write credentials to '%s': %w", target, err)
	}

	return target, nil
}
