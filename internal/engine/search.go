// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/allocations-xref/internal/query"
	"github.com/pdiddy/allocations-xref/pkg/types"
)

// SearchRequest selects one search mode, in priority order: ProjectID,
// SimilarTo, SimilarityKeywords, Query, then filter-only browsing. The
// filters apply to every mode that scans the catalog.
type SearchRequest struct {
	Query              string `json:"query,omitempty" yaml:"query,omitempty"`
	ProjectID          *int   `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	SimilarTo          *int   `json:"similar_to,omitempty" yaml:"similar_to,omitempty"`
	SimilarityKeywords string `json:"similarity_keywords,omitempty" yaml:"similarity_keywords,omitempty"`

	FieldOfScience string `json:"field_of_science,omitempty" yaml:"field_of_science,omitempty"`
	ResourceName   string `json:"resource_name,omitempty" yaml:"resource_name,omitempty"`
	AllocationType string `json:"allocation_type,omitempty" yaml:"allocation_type,omitempty"`

	SortBy string `json:"sort_by,omitempty" yaml:"sort_by,omitempty"`
	Limit  int    `json:"limit,omitempty" yaml:"limit,omitempty"`
	Pages  int    `json:"pages,omitempty" yaml:"pages,omitempty"`

	// SimilarityThreshold defaults to the configured threshold.
	SimilarityThreshold *float64 `json:"similarity_threshold,omitempty" yaml:"similarity_threshold,omitempty"`

	// IncludeSameField gives similar_to candidates in the reference
	// project's field a bonus. Defaults to true.
	IncludeSameField *bool `json:"include_same_field,omitempty" yaml:"include_same_field,omitempty"`
}

func (r SearchRequest) filters() query.Filters {
	return query.Filters{
		FieldOfScience: strings.TrimSpace(r.FieldOfScience),
		AllocationType: strings.TrimSpace(r.AllocationType),
		ResourceName:   strings.TrimSpace(r.ResourceName),
	}
}

// searchPlan is a validated SearchRequest.
type searchPlan struct {
	req       SearchRequest
	parsed    query.Parsed
	filters   query.Filters
	sort      query.SortMode
	limit     int
	pages     int
	threshold float64
	sameField bool
}

func (s *Service) planSearch(req SearchRequest) (searchPlan, error) {
	plan := searchPlan{req: req, filters: req.filters(), sameField: true}

	req.Query = strings.TrimSpace(req.Query)
	req.SimilarityKeywords = strings.TrimSpace(req.SimilarityKeywords)
	plan.req = req
	if req.Query == "" && req.ProjectID == nil && req.SimilarTo == nil &&
		req.SimilarityKeywords == "" && plan.filters.IsEmpty() {
		return plan, invalid("provide a query, project_id, similar_to, similarity_keywords, or a field_of_science, resource_name, or allocation_type filter")
	}
	if err := validID("project_id", req.ProjectID); err != nil {
		return plan, err
	}
	if err := validID("similar_to", req.SimilarTo); err != nil {
		return plan, err
	}

	switch {
	case req.Limit == 0:
		plan.limit = s.cfg.DefaultLimit
	case req.Limit < 1 || req.Limit > MaxLimit:
		return plan, invalid("limit must be between 1 and %d, got %d", MaxLimit, req.Limit)
	default:
		plan.limit = req.Limit
	}

	pages, err := s.resolvePages(req.Pages)
	if err != nil {
		return plan, err
	}
	plan.pages = pages

	plan.threshold = s.cfg.SimilarityThreshold
	if t := req.SimilarityThreshold; t != nil {
		if *t < 0 || *t > 1 {
			return plan, invalid("similarity_threshold must be between 0 and 1, got %g", *t)
		}
		plan.threshold = *t
	}
	if req.IncludeSameField != nil {
		plan.sameField = *req.IncludeSameField
	}

	mode, err := query.ParseSortMode(req.SortBy)
	if err != nil {
		return plan, invalid("%v", err)
	}
	plan.sort = mode

	if req.Query != "" {
		plan.parsed = query.Parse(req.Query)
		if plan.parsed.IsEmpty() {
			return plan, invalid("query %q contains no searchable terms", req.Query)
		}
	}
	return plan, nil
}

// Search runs one search. Only validation failures are returned as
// errors; a project that cannot be found or a search with no matches is an
// empty envelope with a Note.
func (s *Service) Search(ctx context.Context, req SearchRequest) (types.Envelope[types.ScoredProject], error) {
	plan, err := s.planSearch(req)
	if err != nil {
		return types.Envelope[types.ScoredProject]{}, err
	}
	req = plan.req

	switch {
	case req.ProjectID != nil:
		return s.lookupProject(ctx, *req.ProjectID, plan), nil
	case req.SimilarTo != nil:
		return s.similarToProject(ctx, *req.SimilarTo, plan), nil
	case req.SimilarityKeywords != "":
		set := s.scan(ctx, plan.pages)
		items := query.FindSimilar(set.Projects, query.SimilarityQuery{
			Terms:     req.SimilarityKeywords,
			Threshold: plan.threshold,
			Filters:   plan.filters,
		})
		return s.finish(items, plan, set.Failed, "no projects are similar to the given keywords"), nil
	case req.Query != "":
		set := s.scan(ctx, plan.pages)
		var items []types.ScoredProject
		for _, p := range set.Projects {
			if score := query.Score(p, plan.parsed, plan.filters); score > 0 {
				items = append(items, types.ScoredProject{Project: p, Score: score})
			}
		}
		return s.finish(items, plan, set.Failed, fmt.Sprintf("no projects matched %q", req.Query)), nil
	default:
		set := s.scan(ctx, plan.pages)
		var items []types.ScoredProject
		for _, p := range set.Projects {
			if plan.filters.Allows(p) {
				items = append(items, types.ScoredProject{Project: p})
			}
		}
		return s.finish(items, plan, set.Failed, "no projects matched the filters"), nil
	}
}

func (s *Service) lookupProject(ctx context.Context, id int, plan searchPlan) types.Envelope[types.ScoredProject] {
	p, found, failed := s.catalog.FindProject(ctx, id, plan.pages)
	if !found {
		return notFound(fmt.Sprintf("project %d not found in the first %d pages", id, plan.pages), failed)
	}
	return types.Envelope[types.ScoredProject]{
		Total:       1,
		Items:       []types.ScoredProject{{Project: p}},
		PagesFailed: failed,
	}
}

func (s *Service) similarToProject(ctx context.Context, id int, plan searchPlan) types.Envelope[types.ScoredProject] {
	ref, found, failed := s.catalog.FindProject(ctx, id, plan.pages)
	if !found {
		return notFound(fmt.Sprintf("reference project %d not found in the first %d pages", id, plan.pages), failed)
	}
	terms := query.ExtractTerms(ref)
	s.log.Debug("similarity terms", zap.Int("project_id", id), zap.String("terms", terms))

	set := s.scan(ctx, plan.pages)
	items := query.FindSimilar(set.Projects, query.SimilarityQuery{
		Terms:          terms,
		ReferenceID:    ref.ID,
		ReferenceField: ref.FieldOfScience,
		SameField:      plan.sameField,
		Threshold:      plan.threshold,
		Filters:        plan.filters,
	})
	return s.finish(items, plan, set.Failed, fmt.Sprintf("no projects are similar to project %d", id))
}

// finish ranks, counts, and truncates items.
func (s *Service) finish(items []types.ScoredProject, plan searchPlan, failed []int, emptyNote string) types.Envelope[types.ScoredProject] {
	query.Rank(items, plan.sort)
	env := types.Envelope[types.ScoredProject]{
		Total:       len(items),
		Items:       items[:min(len(items), plan.limit)],
		PagesFailed: failed,
	}
	if env.Items == nil {
		env.Items = []types.ScoredProject{}
	}
	switch {
	case env.Total == 0:
		env.Note = emptyNote
	case len(failed) > 0:
		env.Note = fmt.Sprintf("partial results: %d of %d pages could not be fetched", len(failed), plan.pages)
	}
	return env
}

func notFound(note string, failed []int) types.Envelope[types.ScoredProject] {
	return types.Envelope[types.ScoredProject]{
		Items:       []types.ScoredProject{},
		Note:        note,
		PagesFailed: failed,
	}
}
