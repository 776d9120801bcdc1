// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/pdiddy/allocations-xref/internal/awards"
	"github.com/pdiddy/allocations-xref/internal/catalog"
	"github.com/pdiddy/allocations-xref/pkg/types"
)

func climateProject() types.Project {
	return types.Project{
		ID:             101,
		Title:          "Deep Learning for Climate Modeling",
		PI:             "Mary Smith-Jones",
		Institution:    "University of Colorado Boulder",
		FieldOfScience: "Computer Science",
		Abstract:       "We train deep neural networks on GPU clusters to emulate climate models.",
		AllocationType: "Explore",
		BeginDate:      "2021-07-01",
		EndDate:        "2022-06-30",
		Resources:      []types.Resource{{Name: "NCSA Delta GPU", Units: "GPU Hours", Amount: 5000}},
	}
}

func genomeProject() types.Project {
	return types.Project{
		ID:             102,
		Title:          "Genome Assembly Pipelines",
		PI:             "Ann Lee",
		Institution:    "MIT",
		FieldOfScience: "Biology",
		Abstract:       "Assembling plant genomes with long reads.",
		AllocationType: "Discover",
		BeginDate:      "2022-01-01",
		EndDate:        "2023-01-01",
		Resources:      []types.Resource{{Name: "PSC Bridges-2 RM", Units: "Core Hours", Amount: 100000}},
	}
}

func chemistryProject() types.Project {
	return types.Project{
		ID:             201,
		Title:          "Quantum Chemistry of Catalysts",
		PI:             "Bob Stone",
		Institution:    "University of Texas at Austin",
		FieldOfScience: "Chemistry",
		Abstract:       "Density functional theory calculations of transition metal catalysts.",
		AllocationType: "Accelerate",
		BeginDate:      "2020-05-01",
		EndDate:        "2021-05-01",
		Resources:      []types.Resource{{Name: "TACC Stampede3", Units: "Node Hours", Amount: 2000}},
	}
}

// stubCatalog serves a fixed project list as if it were one page.
type stubCatalog struct {
	mu       sync.Mutex
	projects []types.Project
	failed   []int
	scans    int
	finds    int
	panics   bool
}

func (s *stubCatalog) ScanPages(_ context.Context, _ int) catalog.PageSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panics {
		panic("catalog exploded")
	}
	s.scans++
	return catalog.PageSet{Projects: s.projects, TotalPages: 1, Fetched: []int{1}, Failed: s.failed}
}

func (s *stubCatalog) FindProject(_ context.Context, id, _ int) (types.Project, bool, []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finds++
	for _, p := range s.projects {
		if p.ID == id {
			return p, true, s.failed
		}
	}
	return types.Project{}, false, s.failed
}

func (s *stubCatalog) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scans + s.finds
}

func corpus() *stubCatalog {
	return &stubCatalog{projects: []types.Project{climateProject(), genomeProject(), chemistryProject()}}
}

// recordingXref records the candidates it is given and returns canned
// awards keyed by project id.
type recordingXref struct {
	mu           sync.Mutex
	personnel    [][]types.Project
	institutions []string
	byInst       [][]types.Project
	awardsFor    map[int][]awards.ValidatedAward
}

func (r *recordingXref) results(mode string, ps []types.Project) []awards.CandidateResult {
	out := make([]awards.CandidateResult, len(ps))
	for i, p := range ps {
		out[i] = awards.CandidateResult{
			Project:  p,
			Mode:     mode,
			Awards:   r.awardsFor[p.ID],
			Queried:  []string{p.PI},
			Attempts: 1,
		}
	}
	return out
}

func (r *recordingXref) CrossReference(_ context.Context, ps []types.Project) []awards.CandidateResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.personnel = append(r.personnel, ps)
	return r.results(awards.ModePersonnel, ps)
}

func (r *recordingXref) ByInstitution(_ context.Context, inst string, ps []types.Project) []awards.CandidateResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.institutions = append(r.institutions, inst)
	r.byInst = append(r.byInst, ps)
	return r.results(awards.ModeInstitution, ps)
}

// newCatalogClient serves pages over HTTP; pages[i] is page i+1. Pages
// listed in failing answer HTTP 500.
func newCatalogClient(t *testing.T, pages [][]types.Project, failing ...int) *catalog.Client {
	t.Helper()
	fail := map[int]bool{}
	for _, f := range failing {
		fail[f] = true
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || n < 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if fail[n] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		page := types.ProjectPage{Pages: len(pages), Projects: []types.Project{}}
		if n <= len(pages) {
			page.Projects = pages[n-1]
		}
		json.NewEncoder(w).Encode(page)
	}))
	t.Cleanup(ts.Close)
	return catalog.NewClient(ts.Client(), types.CatalogConfig{
		BaseURL:    ts.URL,
		HTTPConfig: types.HTTPConfig{MaxRetries: 1},
	})
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }
