// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog fetches pages of allocation projects from the external
// catalog and keeps them in a short-lived page cache.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/allocations-xref/internal/batch"
	"github.com/pdiddy/allocations-xref/internal/httputil"
	"github.com/pdiddy/allocations-xref/internal/logging"
	"github.com/pdiddy/allocations-xref/internal/metrics"
	"github.com/pdiddy/allocations-xref/pkg/types"
)

// DefaultBaseURL is the public allocations catalog.
const DefaultBaseURL = "https://allocations.access-ci.org"

const (
	defaultConcurrency = 5
	defaultMaxPages    = 20
	projectsPath       = "/current-projects.json"
)

// Client reads catalog pages through a PageCache.
type Client struct {
	http    *httputil.Retrier
	cfg     types.CatalogConfig
	cache   *PageCache
	log     *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = logging.OrNop(l) }
}

// WithMetrics records cache and fetch metrics into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithCache replaces the page cache, e.g. to share one between clients or
// to inject a clock in tests.
func WithCache(pc *PageCache) Option {
	return func(c *Client) { c.cache = pc }
}

// NewClient creates a catalog client. Zero config values take defaults.
func NewClient(hc *http.Client, cfg types.CatalogConfig, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = defaultConcurrency
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		cfg: cfg,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = NewPageCache(cfg.CacheTTL, nil)
	}
	c.http = &httputil.Retrier{Client: hc, MaxRetries: cfg.MaxRetries, Logger: c.log}
	return c
}

// Cache exposes the page cache.
func (c *Client) Cache() *PageCache { return c.cache }

// MaxPages is the configured scan cap.
func (c *Client) MaxPages() int { return c.cfg.MaxPages }

// FetchPage returns page n (1-based), from cache when fresh.
func (c *Client) FetchPage(ctx context.Context, n int) (types.ProjectPage, error) {
	if n < 1 {
		return types.ProjectPage{}, fmt.Errorf("page number must be positive, got %d", n)
	}

	page, result := c.cache.Get(n)
	c.metrics.CacheResult(result)
	if result == "hit" {
		return page, nil
	}

	start := time.Now()
	page, err := c.fetch(ctx, n)
	c.metrics.PageFetched(err, time.Since(start))
	if err != nil {
		return types.ProjectPage{}, err
	}
	c.cache.Put(n, page)
	c.log.Debug("fetched catalog page",
		zap.Int("page", n),
		zap.Int("projects", len(page.Projects)),
		zap.Duration("elapsed", time.Since(start)))
	return page, nil
}

func (c *Client) fetch(ctx context.Context, n int) (types.ProjectPage, error) {
	params := url.Values{"page": {strconv.Itoa(n)}}
	reqURL := c.cfg.BaseURL + projectsPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.ProjectPage{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return types.ProjectPage{}, fmt.Errorf("catalog page %d: %w", n, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.ProjectPage{}, fmt.Errorf("catalog page %d: HTTP %d", n, resp.StatusCode)
	}

	var page types.ProjectPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return types.ProjectPage{}, fmt.Errorf("parsing catalog page %d: %w", n, err)
	}
	return page, nil
}

// PageSet is the merged outcome of a multi-page fetch.
type PageSet struct {
	Projects []types.Project

	// TotalPages is the largest page count reported by any fetched page.
	TotalPages int

	Fetched []int
	Failed  []int
}

// FetchPages fetches the given pages MaxConcurrency at a time. A page that
// fails is logged and listed in Failed; its siblings still contribute.
// Projects are merged in page order.
func (c *Client) FetchPages(ctx context.Context, pages []int) PageSet {
	results := batch.Run(ctx, pages, batch.Policy{Size: c.cfg.MaxConcurrency},
		func(ctx context.Context, n int) (types.ProjectPage, error) {
			return c.FetchPage(ctx, n)
		})

	var set PageSet
	for _, r := range results {
		n := pages[r.Index]
		if r.Err != nil {
			c.log.Warn("catalog page fetch failed", zap.Int("page", n), zap.Error(r.Err))
			set.Failed = append(set.Failed, n)
			continue
		}
		set.Fetched = append(set.Fetched, n)
		set.Projects = append(set.Projects, r.Value.Projects...)
		if r.Value.Pages > set.TotalPages {
			set.TotalPages = r.Value.Pages
		}
	}
	sort.Ints(set.Failed)
	return set
}

// ScanPages fetches pages 1..n, with n capped at MaxPages. Expired cache
// entries are swept first. Page 1 is read first so that the scan stops at
// the catalog's reported page count; the remaining pages are fetched
// concurrently.
func (c *Client) ScanPages(ctx context.Context, n int) PageSet {
	if dropped := c.cache.Sweep(); dropped > 0 {
		c.log.Debug("swept expired catalog pages", zap.Int("dropped", dropped))
	}
	n = min(n, c.cfg.MaxPages)
	if n < 1 {
		return PageSet{}
	}

	first, err := c.FetchPage(ctx, 1)
	if err != nil {
		c.log.Warn("catalog page fetch failed", zap.Int("page", 1), zap.Error(err))
	} else if first.Pages > 0 {
		n = min(n, first.Pages)
	}

	rest := make([]int, 0, n)
	for i := 2; i <= n; i++ {
		rest = append(rest, i)
	}
	set := c.FetchPages(ctx, rest)
	if err != nil {
		set.Failed = append([]int{1}, set.Failed...)
		return set
	}
	set.Fetched = append([]int{1}, set.Fetched...)
	set.Projects = append(append([]types.Project{}, first.Projects...), set.Projects...)
	set.TotalPages = max(set.TotalPages, first.Pages)
	return set
}

// FindProject scans pages in order until a project with the given id is
// found. Failed pages are skipped and reported. Not finding the project is
// not an error.
func (c *Client) FindProject(ctx context.Context, id, maxPages int) (types.Project, bool, []int) {
	if maxPages <= 0 || maxPages > c.cfg.MaxPages {
		maxPages = c.cfg.MaxPages
	}
	var failed []int
	for n := 1; n <= maxPages; n++ {
		page, err := c.FetchPage(ctx, n)
		if err != nil {
			c.log.Warn("catalog page fetch failed", zap.Int("page", n), zap.Error(err))
			failed = append(failed, n)
			continue
		}
		for _, p := range page.Projects {
			if p.ID == id {
				return p, true, failed
			}
		}
		if page.Pages > 0 && n >= page.Pages {
			break
		}
	}
	return types.Project{}, false, failed
}
