// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// The filename is the key name and the trimmed contents are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/allocations-xref/internal/logging"
)

// AwardsAPIKey is the file holding the awards service bearer token.
const AwardsAPIKey = "awards-api-key"

// DefaultDir is where the CLI looks for secrets unless configured otherwise.
const DefaultDir = ".secrets"

// Store is a loaded set of secrets.
type Store map[string]string

// Get returns the named secret, or "" when absent.
func (s Store) Get(name string) string { return s[name] }

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty Store. Files that cannot be read are logged and skipped.
func Load(dir string, log *zap.Logger) (Store, error) {
	log = logging.OrNop(log)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	store := make(Store)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			store[name] = value
		}
	}
	log.Debug("secrets loaded", zap.String("dir", dir), zap.Int("count", len(store)))
	return store, nil
}

// Resolve returns explicit when set, otherwise the named secret from dir.
// It lets a key given in configuration or the environment win over the file.
func Resolve(explicit, dir, name string, log *zap.Logger) (string, error) {
	if v := strings.TrimSpace(explicit); v != "" {
		return v, nil
	}
	store, err := Load(dir, log)
	if err != nil {
		return "", err
	}
	return store.Get(name), nil
}
