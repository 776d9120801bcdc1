// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/allocations-xref/internal/awards"
	"github.com/pdiddy/allocations-xref/internal/catalog"
	"github.com/pdiddy/allocations-xref/internal/engine"
	"github.com/pdiddy/allocations-xref/internal/query"
	"github.com/pdiddy/allocations-xref/internal/secrets"
	"github.com/pdiddy/allocations-xref/pkg/types"
)

const (
	envPrefix        = "ALLOCATIONS_XREF"
	configName       = "allocations-xref"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "allocations-xref/0.1"
)

// setDefaults registers a default for every configuration key so that
// environment variables can override any of them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.base_url", catalog.DefaultBaseURL)
	v.SetDefault("catalog.timeout", defaultTimeout)
	v.SetDefault("catalog.user_agent", defaultUserAgent)
	v.SetDefault("catalog.max_retries", 5)
	v.SetDefault("catalog.cache_ttl", catalog.DefaultCacheTTL)
	v.SetDefault("catalog.max_concurrency", 5)
	v.SetDefault("catalog.max_pages", engine.MaxPages)

	v.SetDefault("awards.base_url", awards.DefaultBaseURL)
	v.SetDefault("awards.tool", awards.DefaultTool)
	v.SetDefault("awards.timeout", defaultTimeout)
	v.SetDefault("awards.user_agent", defaultUserAgent)
	v.SetDefault("awards.max_retries", 5)
	v.SetDefault("awards.api_key", "")
	v.SetDefault("awards.limit", 10)
	v.SetDefault("awards.primary_only", false)
	v.SetDefault("awards.batch_size", 5)
	v.SetDefault("awards.batch_delay", 500*time.Millisecond)
	v.SetDefault("awards.max_name_queries", 0)
	v.SetDefault("awards.max_institution_queries", 0)

	v.SetDefault("search.default_limit", engine.DefaultLimit)
	v.SetDefault("search.default_pages", engine.DefaultPages)
	v.SetDefault("search.similarity_threshold", query.DefaultSimilarityThreshold)
	v.SetDefault("search.funding_candidates", engine.DefaultFundingCandidates)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("secrets_dir", secrets.DefaultDir)
}

// configureEnv maps nested keys to ALLOCATIONS_XREF_SECTION_KEY variables.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// loadConfig decodes the merged defaults, file, environment, and bound
// flags into a Config.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}
