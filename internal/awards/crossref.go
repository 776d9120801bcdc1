// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package awards

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/allocations-xref/internal/batch"
	"github.com/pdiddy/allocations-xref/internal/institution"
	"github.com/pdiddy/allocations-xref/internal/logging"
	"github.com/pdiddy/allocations-xref/internal/metrics"
	"github.com/pdiddy/allocations-xref/internal/names"
	"github.com/pdiddy/allocations-xref/pkg/types"
)

// Lookup modes, used in results and metrics labels.
const (
	ModePersonnel   = "personnel"
	ModeInstitution = "institution"
)

const (
	defaultBatchSize  = 5
	defaultBatchDelay = 500 * time.Millisecond
)

// ValidatedAward is an award that passed the PI and institution checks for
// one candidate project.
type ValidatedAward struct {
	types.Award `yaml:",inline"`

	// MatchedName is the name variant found on the award's PI line.
	MatchedName string `json:"matched_name" yaml:"matched_name"`

	// QueriedWith is the variant sent to the service that returned the award.
	QueriedWith string `json:"queried_with" yaml:"queried_with"`

	// TemporalAligned is true when a year in the award text falls within
	// the project's allocation years.
	TemporalAligned bool   `json:"temporal_aligned" yaml:"temporal_aligned"`
	TemporalNote    string `json:"temporal_note" yaml:"temporal_note"`
}

// LookupFailure records one lookup that errored.
type LookupFailure struct {
	Query string `json:"query" yaml:"query"`
	Error string `json:"error" yaml:"error"`
}

// CandidateResult is the cross-reference outcome for one project. Empty
// Awards with the variant lists and counters is a "no funding found"
// result, not proof that none exists.
type CandidateResult struct {
	Project types.Project    `json:"project" yaml:"project"`
	Mode    string           `json:"mode" yaml:"mode"`
	Awards  []ValidatedAward `json:"awards" yaml:"awards"`

	NameVariants        []string `json:"name_variants" yaml:"name_variants"`
	InstitutionVariants []string `json:"institution_variants" yaml:"institution_variants"`

	// Queried lists the variants actually sent to the service.
	Queried  []string        `json:"queried" yaml:"queried"`
	Attempts int             `json:"attempts" yaml:"attempts"`
	Failures []LookupFailure `json:"failures,omitempty" yaml:"failures,omitempty"`

	// Returned counts awards the service returned, Rejected those that
	// failed PI or institution validation.
	Returned int `json:"returned" yaml:"returned"`
	Rejected int `json:"rejected" yaml:"rejected"`
}

// Orchestrator cross-references projects against the awards service.
type Orchestrator struct {
	svc     Service
	cfg     types.AwardsConfig
	log     *zap.Logger
	metrics *metrics.Metrics
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.log = logging.OrNop(l) }
}

// WithMetrics records lookup and match counts into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// NewOrchestrator creates an orchestrator over svc. Zero config values
// take defaults.
func NewOrchestrator(svc Service, cfg types.AwardsConfig, opts ...Option) *Orchestrator {
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.BatchDelay <= 0 {
		cfg.BatchDelay = defaultBatchDelay
	}
	o := &Orchestrator{svc: svc, cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) policy() batch.Policy {
	return batch.Policy{Size: o.cfg.BatchSize, Delay: o.cfg.BatchDelay}
}

// CrossReference runs the PI-first sweep: for each project, every PI name
// variant is looked up once (only the first MaxNameQueries when set), and the returned awards are
// validated against the project. Projects run in batches with a pause
// between batches. Results are in input order, one per project.
func (o *Orchestrator) CrossReference(ctx context.Context, projects []types.Project) []CandidateResult {
	results := batch.Run(ctx, projects, o.policy(), o.crossReferenceOne)

	out := make([]CandidateResult, len(projects))
	for _, r := range results {
		if r.Err != nil {
			p := projects[r.Index]
			o.log.Warn("cross-reference aborted for project",
				zap.Int("project_id", p.ID), zap.Error(r.Err))
			out[r.Index] = CandidateResult{
				Project:  p,
				Mode:     ModePersonnel,
				Failures: []LookupFailure{{Query: p.PI, Error: r.Err.Error()}},
			}
			continue
		}
		out[r.Index] = r.Value
	}
	return out
}

func (o *Orchestrator) crossReferenceOne(ctx context.Context, p types.Project) (CandidateResult, error) {
	res := CandidateResult{
		Project:             p,
		Mode:                ModePersonnel,
		NameVariants:        names.Generate(p.PI),
		InstitutionVariants: institution.Variants(p.Institution),
	}
	res.Queried = head(res.NameVariants, o.cfg.MaxNameQueries)

	seen := map[string]bool{}
	for _, v := range res.Queried {
		res.Attempts++
		text, err := o.svc.Lookup(ctx, Query{Personnel: v, Limit: o.cfg.Limit, PrimaryOnly: o.cfg.PrimaryOnly})
		o.metrics.AwardLookup(ModePersonnel, err)
		if err != nil {
			o.log.Warn("awards lookup failed",
				zap.Int("project_id", p.ID), zap.String("personnel", v), zap.Error(err))
			res.Failures = append(res.Failures, LookupFailure{Query: v, Error: err.Error()})
			continue
		}
		for _, a := range types.Awards(ParseReport(text)) {
			o.consider(&res, a, v, res.InstitutionVariants, seen)
		}
	}
	o.metrics.AwardMatched(len(res.Awards))
	o.log.Debug("cross-referenced project",
		zap.Int("project_id", p.ID),
		zap.Int("attempts", res.Attempts),
		zap.Int("returned", res.Returned),
		zap.Int("validated", len(res.Awards)))
	return res, nil
}

type pooledAward struct {
	award       types.Award
	queriedWith string
}

// ByInstitution runs the institution-first sweep: each of the institution's
// variants (the first MaxInstitutionQueries when set) is looked up in batches, the
// returned awards pooled, and then each project keeps the pooled awards
// whose PI line matches its PI and whose institution matches its own.
func (o *Orchestrator) ByInstitution(ctx context.Context, inst string, projects []types.Project) []CandidateResult {
	variants := institution.Variants(inst)
	queried := head(variants, o.cfg.MaxInstitutionQueries)

	lookups := batch.Run(ctx, queried, o.policy(), func(ctx context.Context, v string) ([]types.Award, error) {
		text, err := o.svc.Lookup(ctx, Query{Institution: v, Limit: o.cfg.Limit, PrimaryOnly: o.cfg.PrimaryOnly})
		o.metrics.AwardLookup(ModeInstitution, err)
		if err != nil {
			return nil, err
		}
		return types.Awards(ParseReport(text)), nil
	})

	var (
		pool     []pooledAward
		failures []LookupFailure
	)
	for _, r := range lookups {
		v := queried[r.Index]
		if r.Err != nil {
			o.log.Warn("awards lookup failed", zap.String("institution", v), zap.Error(r.Err))
			failures = append(failures, LookupFailure{Query: v, Error: r.Err.Error()})
			continue
		}
		for _, a := range r.Value {
			pool = append(pool, pooledAward{award: a, queriedWith: v})
		}
	}
	o.log.Debug("institution lookups done",
		zap.String("institution", inst),
		zap.Int("queried", len(queried)),
		zap.Int("failed", len(failures)),
		zap.Int("pooled", len(pool)))

	out := make([]CandidateResult, len(projects))
	for i, p := range projects {
		res := CandidateResult{
			Project:             p,
			Mode:                ModeInstitution,
			NameVariants:        names.Generate(p.PI),
			InstitutionVariants: variants,
			Queried:             queried,
			Attempts:            len(queried),
			Failures:            failures,
		}
		own := variants
		if p.Institution != "" {
			own = institution.Variants(p.Institution)
		}
		seen := map[string]bool{}
		for _, pa := range pool {
			o.consider(&res, pa.award, pa.queriedWith, own, seen)
		}
		o.metrics.AwardMatched(len(res.Awards))
		out[i] = res
	}
	return out
}

// consider validates one returned award for res and appends it when it
// passes and has not been seen.
func (o *Orchestrator) consider(res *CandidateResult, a types.Award, queriedWith string, instVariants []string, seen map[string]bool) {
	k := dedupeKey(a)
	if seen[k] {
		return
	}
	seen[k] = true
	res.Returned++
	va, ok := validate(a, res.Project, res.NameVariants, instVariants)
	if !ok {
		res.Rejected++
		return
	}
	va.QueriedWith = queriedWith
	res.Awards = append(res.Awards, va)
}

// validate keeps an award when its PI line matches a name variant and,
// for projects with a known institution, its institution matches too.
func validate(a types.Award, p types.Project, nameVariants, instVariants []string) (ValidatedAward, bool) {
	matched, ok := names.MatchingVariant(a.PI, nameVariants)
	if !ok {
		return ValidatedAward{}, false
	}
	if p.Institution != "" && (a.Institution == "" || !institution.Match(a.Institution, instVariants)) {
		return ValidatedAward{}, false
	}
	aligned, note := TemporalAlignment(a, p)
	return ValidatedAward{
		Award:           a,
		MatchedName:     matched,
		TemporalAligned: aligned,
		TemporalNote:    note,
	}, true
}

// TemporalAlignment reports whether any year in the award falls within the
// project's allocation years, with a short note for display.
func TemporalAlignment(a types.Award, p types.Project) (bool, string) {
	begin, end := p.BeginYear(), p.EndYear()
	if begin == 0 && end == 0 {
		return false, "allocation dates unknown"
	}
	if begin == 0 {
		begin = end
	}
	if end == 0 || end < begin {
		end = begin
	}
	if len(a.Years) == 0 {
		return false, "no years found in award text"
	}
	span := yearSpan(a.Years[0], a.Years[len(a.Years)-1])
	for _, y := range a.Years {
		if y >= begin && y <= end {
			return true, fmt.Sprintf("award years %s overlap allocation period %s", span, yearSpan(begin, end))
		}
	}
	return false, fmt.Sprintf("award years %s fall outside allocation period %s", span, yearSpan(begin, end))
}

func yearSpan(from, to int) string {
	if from == to {
		return fmt.Sprint(from)
	}
	return fmt.Sprintf("%d-%d", from, to)
}

func dedupeKey(a types.Award) string {
	if a.ID != "" {
		return "id:" + a.ID
	}
	return "t:" + strings.ToLower(a.Title) + "|" + strings.ToLower(a.PI)
}

// head returns the first n elements of s, or all of s when n <= 0.
func head(s []string, n int) []string {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
