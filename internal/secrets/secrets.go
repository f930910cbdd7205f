// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Recognised key files: gemini-api-key, google-api-key, anthropic-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/deepgene/pkg/types"
)

// backendKeys lists, per AI backend, the secret files consulted in order.
var backendKeys = map[types.AIBackendName][]string{
	types.BackendGemini: {"gemini-api-key", "google-api-key"},
	types.BackendClaude: {"anthropic-api-key"},
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// APIKey returns the key for backend from secrets, or "" when none of the
// backend's key files were present. An empty backend means Gemini.
func APIKey(secrets map[string]string, backend types.AIBackendName) string {
	if backend == "" {
		backend = types.BackendGemini
	}
	for _, name := range backendKeys[backend] {
		if v := secrets[name]; v != "" {
			return v
		}
	}
	return ""
}
