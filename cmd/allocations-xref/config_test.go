// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/allocations-xref/internal/catalog"
)

func TestLoadConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, catalog.DefaultBaseURL, cfg.Catalog.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, "allocations-xref/0.1", cfg.Catalog.UserAgent)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, 20, cfg.Catalog.MaxPages)
	assert.Equal(t, "search_nsf_awards", cfg.Awards.Tool)
	assert.Equal(t, 500*time.Millisecond, cfg.Awards.BatchDelay)
	assert.Zero(t, cfg.Awards.MaxNameQueries)
	assert.Zero(t, cfg.Awards.MaxInstitutionQueries)
	assert.Equal(t, 20, cfg.Search.DefaultLimit)
	assert.Equal(t, 10, cfg.Search.DefaultPages)
	assert.InDelta(t, 0.3, cfg.Search.SimilarityThreshold, 1e-9)
	assert.Equal(t, 5, cfg.Search.FundingCandidates)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ".secrets", cfg.SecretsDir)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allocations-xref.yaml")
	content := `catalog:
  base_url: http://catalog.test
  cache_ttl: 1m
awards:
  batch_size: 2
  primary_only: true
search:
  default_limit: 7
log:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("ALLOCATIONS_XREF_SEARCH_DEFAULT_LIMIT", "9")
	t.Setenv("ALLOCATIONS_XREF_AWARDS_API_KEY", "env-key")

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	configureEnv(v)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "http://catalog.test", cfg.Catalog.BaseURL)
	assert.Equal(t, time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, 5, cfg.Catalog.MaxConcurrency)
	assert.Equal(t, 2, cfg.Awards.BatchSize)
	assert.True(t, cfg.Awards.PrimaryOnly)
	assert.Equal(t, "env-key", cfg.Awards.APIKey)
	assert.Equal(t, 9, cfg.Search.DefaultLimit)
	assert.Equal(t, "json", cfg.Log.Format)
}
