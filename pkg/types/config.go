package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "allocations-xref/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on HTTP 429/503 (0 uses the default of 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// CatalogConfig holds settings for the paginated allocations catalog.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the catalog root; pages are read from
	// <BaseURL>/current-projects.json?page=N.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// CacheTTL is how long a fetched page may be served from cache (default 5m).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`

	// MaxConcurrency is the number of pages fetched at once (default 5).
	MaxConcurrency int `json:"max_concurrency" yaml:"max_concurrency" mapstructure:"max_concurrency"`

	// MaxPages caps how many pages a single operation may scan (default 20).
	MaxPages int `json:"max_pages" yaml:"max_pages" mapstructure:"max_pages"`
}

// AwardsConfig holds settings for the external awards-lookup service.
type AwardsConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the root of the tool-invocation endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Tool is the remote operation name (default "search_nsf_awards").
	Tool string `json:"tool" yaml:"tool" mapstructure:"tool"`

	// APIKey is sent as a bearer token when set. Usually loaded from
	// .secrets/awards-api-key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Limit is the per-lookup award limit passed to the service (default 10).
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`

	// PrimaryOnly restricts lookups to awards where the person is the primary PI.
	PrimaryOnly bool `json:"primary_only" yaml:"primary_only" mapstructure:"primary_only"`

	// BatchSize is the number of candidates cross-referenced per batch (default 5).
	BatchSize int `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`

	// BatchDelay is the pause between candidate batches (default 500ms).
	BatchDelay time.Duration `json:"batch_delay" yaml:"batch_delay" mapstructure:"batch_delay"`

	// MaxNameQueries caps how many PI name variants are queried per
	// candidate. 0 queries every variant.
	MaxNameQueries int `json:"max_name_queries" yaml:"max_name_queries" mapstructure:"max_name_queries"`

	// MaxInstitutionQueries caps institution variants queried in
	// institution-first mode. 0 queries every variant.
	MaxInstitutionQueries int `json:"max_institution_queries" yaml:"max_institution_queries" mapstructure:"max_institution_queries"`
}

// SearchConfig holds defaults for the caller-facing operations.
type SearchConfig struct {
	// DefaultLimit is the result limit when a request gives none (default 20).
	DefaultLimit int `json:"default_limit" yaml:"default_limit" mapstructure:"default_limit"`

	// DefaultPages is how many catalog pages a search scans (default 10).
	DefaultPages int `json:"default_pages" yaml:"default_pages" mapstructure:"default_pages"`

	// SimilarityThreshold is the default minimum similarity (default 0.3).
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold" mapstructure:"similarity_threshold"`

	// FundingCandidates is the default candidate limit for funding analysis (default 5).
	FundingCandidates int `json:"funding_candidates" yaml:"funding_candidates" mapstructure:"funding_candidates"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "json" or "console" (default console).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups every component configuration.
type Config struct {
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Awards  AwardsConfig  `json:"awards" yaml:"awards" mapstructure:"awards"`
	Search  SearchConfig  `json:"search" yaml:"search" mapstructure:"search"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`

	// MetricsAddr, when set, serves Prometheus metrics at /metrics on this address.
	MetricsAddr string `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty" mapstructure:"metrics_addr"`

	// SecretsDir holds one file per secret (default .secrets).
	SecretsDir string `json:"secrets_dir,omitempty" yaml:"secrets_dir,omitempty" mapstructure:"secrets_dir"`
}
