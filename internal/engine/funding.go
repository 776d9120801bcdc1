// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/allocations-xref/internal/awards"
	"github.com/pdiddy/allocations-xref/internal/institution"
	"github.com/pdiddy/allocations-xref/internal/names"
	"github.com/pdiddy/allocations-xref/pkg/types"
)

// Funding analysis modes.
const (
	FundingByProject     = "project"
	FundingByPI          = "pi"
	FundingByInstitution = "institution"
)

// FundingRequest selects candidates by ProjectID, PIName, or Institution,
// in that priority order. Filters narrow the PI and institution modes.
type FundingRequest struct {
	ProjectID   *int   `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	PIName      string `json:"pi_name,omitempty" yaml:"pi_name,omitempty"`
	Institution string `json:"institution,omitempty" yaml:"institution,omitempty"`

	FieldOfScience string `json:"field_of_science,omitempty" yaml:"field_of_science,omitempty"`
	ResourceName   string `json:"resource_name,omitempty" yaml:"resource_name,omitempty"`
	AllocationType string `json:"allocation_type,omitempty" yaml:"allocation_type,omitempty"`

	// Limit caps the candidate projects cross-referenced (default 5, max 20).
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty"`
	Pages int `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// FundingReport is the outcome of one funding analysis.
type FundingReport struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	Mode        string    `json:"mode" yaml:"mode"`
	Subject     string    `json:"subject" yaml:"subject"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// Matched counts catalog projects that met the selection before Limit.
	Matched int                      `json:"matched" yaml:"matched"`
	Results []awards.CandidateResult `json:"results" yaml:"results"`

	// Funded counts candidates with at least one validated award.
	Funded      int   `json:"funded" yaml:"funded"`
	Awards      int   `json:"awards" yaml:"awards"`
	PagesFailed []int `json:"pages_failed,omitempty" yaml:"pages_failed,omitempty"`

	Narrative string `json:"narrative" yaml:"narrative"`
}

// AnalyzeFunding selects candidate projects and cross-references them
// against the awards service. Missing projects and candidates without
// awards are reported in the narrative, never as errors.
func (s *Service) AnalyzeFunding(ctx context.Context, req FundingRequest) (FundingReport, error) {
	req.PIName = strings.TrimSpace(req.PIName)
	req.Institution = strings.TrimSpace(req.Institution)
	if req.ProjectID == nil && req.PIName == "" && req.Institution == "" {
		return FundingReport{}, invalid("provide project_id, pi_name, or institution")
	}
	if err := validID("project_id", req.ProjectID); err != nil {
		return FundingReport{}, err
	}
	limit := req.Limit
	switch {
	case limit == 0:
		limit = s.cfg.FundingCandidates
	case limit < 1 || limit > MaxFundingCandidates:
		return FundingReport{}, invalid("limit must be between 1 and %d, got %d", MaxFundingCandidates, limit)
	}
	pages, err := s.resolvePages(req.Pages)
	if err != nil {
		return FundingReport{}, err
	}

	report := FundingReport{
		RunID:       s.newID(),
		GeneratedAt: s.now().UTC(),
		Results:     []awards.CandidateResult{},
	}
	log := s.log.With(zap.String("run_id", report.RunID))
	filters := SearchRequest{
		FieldOfScience: req.FieldOfScience,
		ResourceName:   req.ResourceName,
		AllocationType: req.AllocationType,
	}.filters()

	switch {
	case req.ProjectID != nil:
		report.Mode = FundingByProject
		report.Subject = fmt.Sprintf("project %d", *req.ProjectID)
		p, found, failed := s.catalog.FindProject(ctx, *req.ProjectID, pages)
		report.PagesFailed = failed
		if !found {
			report.Narrative = fmt.Sprintf("Project %d was not found in the first %d catalog pages; nothing to cross-reference.", *req.ProjectID, pages)
			return report, nil
		}
		report.Matched = 1
		report.Results = s.xref.CrossReference(ctx, []types.Project{p})

	case req.PIName != "":
		report.Mode = FundingByPI
		report.Subject = req.PIName
		set := s.scan(ctx, pages)
		report.PagesFailed = set.Failed
		variants := names.Generate(req.PIName)
		var candidates []types.Project
		for _, p := range set.Projects {
			if filters.Allows(p) && names.Matches(p.PI, variants) {
				candidates = append(candidates, p)
			}
		}
		report.Matched = len(candidates)
		if len(candidates) > 0 {
			report.Results = s.xref.CrossReference(ctx, candidates[:min(len(candidates), limit)])
		}

	default:
		report.Mode = FundingByInstitution
		report.Subject = req.Institution
		set := s.scan(ctx, pages)
		report.PagesFailed = set.Failed
		variants := institution.Variants(req.Institution)
		var candidates []types.Project
		for _, p := range set.Projects {
			if filters.Allows(p) && institution.Match(p.Institution, variants) {
				candidates = append(candidates, p)
			}
		}
		report.Matched = len(candidates)
		if len(candidates) > 0 {
			report.Results = s.xref.ByInstitution(ctx, req.Institution, candidates[:min(len(candidates), limit)])
		}
	}

	for _, r := range report.Results {
		if len(r.Awards) > 0 {
			report.Funded++
		}
		report.Awards += len(r.Awards)
	}
	report.Narrative = narrative(report, pages)
	log.Info("funding analysis complete",
		zap.String("mode", report.Mode),
		zap.String("subject", report.Subject),
		zap.Int("candidates", len(report.Results)),
		zap.Int("funded", report.Funded),
		zap.Int("awards", report.Awards))
	return report, nil
}
