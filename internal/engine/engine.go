// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine implements the caller-facing operations: project search,
// funding analysis, and catalog statistics. Every operation validates its
// arguments before touching the catalog, tolerates failed pages and
// lookups, and reports absence as a result rather than an error.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/allocations-xref/internal/awards"
	"github.com/pdiddy/allocations-xref/internal/catalog"
	"github.com/pdiddy/allocations-xref/internal/logging"
	"github.com/pdiddy/allocations-xref/internal/query"
	"github.com/pdiddy/allocations-xref/pkg/types"
)

// ErrInvalidArgument is wrapped by every validation error.
var ErrInvalidArgument = errors.New("invalid argument")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Argument bounds and defaults.
const (
	DefaultLimit             = 20
	MaxLimit                 = 100
	DefaultPages             = 10
	MaxPages                 = 20
	DefaultFundingCandidates = 5
	MaxFundingCandidates     = 20
)

// Catalog is the part of the catalog client the engine uses.
type Catalog interface {
	ScanPages(ctx context.Context, n int) catalog.PageSet
	FindProject(ctx context.Context, id, maxPages int) (types.Project, bool, []int)
}

// CrossReferencer is the part of the awards orchestrator the engine uses.
type CrossReferencer interface {
	CrossReference(ctx context.Context, projects []types.Project) []awards.CandidateResult
	ByInstitution(ctx context.Context, institution string, projects []types.Project) []awards.CandidateResult
}

// Service runs the caller-facing operations.
type Service struct {
	catalog Catalog
	xref    CrossReferencer
	cfg     types.SearchConfig
	log     *zap.Logger
	now     func() time.Time
	newID   func() string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = logging.OrNop(l) }
}

// WithClock replaces time.Now for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service. Zero config values take the package defaults.
func New(cat Catalog, xref CrossReferencer, cfg types.SearchConfig, opts ...Option) *Service {
	if cfg.DefaultLimit <= 0 || cfg.DefaultLimit > MaxLimit {
		cfg.DefaultLimit = DefaultLimit
	}
	if cfg.DefaultPages <= 0 || cfg.DefaultPages > MaxPages {
		cfg.DefaultPages = DefaultPages
	}
	if cfg.SimilarityThreshold <= 0 || cfg.SimilarityThreshold > 1 {
		cfg.SimilarityThreshold = query.DefaultSimilarityThreshold
	}
	if cfg.FundingCandidates <= 0 || cfg.FundingCandidates > MaxFundingCandidates {
		cfg.FundingCandidates = DefaultFundingCandidates
	}
	s := &Service{
		catalog: cat,
		xref:    xref,
		cfg:     cfg,
		log:     zap.NewNop(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolvePages applies the default and bounds to a requested page count.
func (s *Service) resolvePages(n int) (int, error) {
	switch {
	case n == 0:
		return s.cfg.DefaultPages, nil
	case n < 1 || n > MaxPages:
		return 0, invalid("pages must be between 1 and %d, got %d", MaxPages, n)
	}
	return n, nil
}

func validID(name string, id *int) error {
	if id != nil && *id <= 0 {
		return invalid("%s must be a positive integer, got %d", name, *id)
	}
	return nil
}

// scan fetches pages 1..n and drops projects repeated across pages.
func (s *Service) scan(ctx context.Context, n int) catalog.PageSet {
	set := s.catalog.ScanPages(ctx, n)
	seen := make(map[int]bool, len(set.Projects))
	unique := set.Projects[:0:0]
	for _, p := range set.Projects {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		unique = append(unique, p)
	}
	set.Projects = unique
	if len(set.Failed) > 0 {
		s.log.Warn("catalog scan incomplete",
			zap.Int("pages", n), zap.Ints("failed", set.Failed))
	}
	return set
}
