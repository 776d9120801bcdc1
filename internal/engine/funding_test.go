// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/allocations-xref/internal/awards"
	"github.com/pdiddy/allocations-xref/pkg/types"
)

func TestAnalyzeFundingValidation(t *testing.T) {
	tests := []struct {
		name string
		req  FundingRequest
	}{
		{"no subject", FundingRequest{}},
		{"blank pi", FundingRequest{PIName: "  "}},
		{"negative project id", FundingRequest{ProjectID: intPtr(-1)}},
		{"limit too large", FundingRequest{PIName: "Ann Lee", Limit: 21}},
		{"negative limit", FundingRequest{Institution: "MIT", Limit: -5}},
		{"pages too large", FundingRequest{Institution: "MIT", Pages: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := corpus()
			_, err := New(cat, &recordingXref{}, types.SearchConfig{}).AnalyzeFunding(context.Background(), tt.req)
			assert.True(t, errors.Is(err, ErrInvalidArgument), "got %v", err)
			assert.Zero(t, cat.calls())
		})
	}
}

func TestAnalyzeFundingByProjectID(t *testing.T) {
	xref := &recordingXref{awardsFor: map[int][]awards.ValidatedAward{
		101: {{Award: types.Award{ID: "2138259", Title: "Scalable Climate"}, MatchedName: "Mary Smith-Jones", TemporalNote: "award years 2021 overlap allocation period 2021-2022"}},
	}}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := New(corpus(), xref, types.SearchConfig{}, WithClock(func() time.Time { return at }))

	report, err := svc.AnalyzeFunding(context.Background(), FundingRequest{ProjectID: intPtr(101)})
	require.NoError(t, err)

	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err)
	assert.Equal(t, at, report.GeneratedAt)
	assert.Equal(t, FundingByProject, report.Mode)
	assert.Equal(t, "project 101", report.Subject)
	require.Len(t, xref.personnel, 1)
	assert.Equal(t, 101, xref.personnel[0][0].ID)
	assert.Equal(t, 1, report.Funded)
	assert.Equal(t, 1, report.Awards)
	assert.Contains(t, report.Narrative, "1 validated award(s)")
	assert.Contains(t, report.Narrative, `PI matched as "Mary Smith-Jones"`)
}

func TestAnalyzeFundingProjectNotFound(t *testing.T) {
	xref := &recordingXref{}
	report, err := New(corpus(), xref, types.SearchConfig{}).
		AnalyzeFunding(context.Background(), FundingRequest{ProjectID: intPtr(7)})
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.NotNil(t, report.Results)
	assert.Empty(t, xref.personnel)
	assert.Contains(t, report.Narrative, "Project 7 was not found")
}

func TestAnalyzeFundingByPIName(t *testing.T) {
	xref := &recordingXref{}
	report, err := New(corpus(), xref, types.SearchConfig{}).
		AnalyzeFunding(context.Background(), FundingRequest{PIName: "Smith-Jones, Mary"})
	require.NoError(t, err)

	assert.Equal(t, FundingByPI, report.Mode)
	assert.Equal(t, 1, report.Matched)
	require.Len(t, xref.personnel, 1)
	require.Len(t, xref.personnel[0], 1)
	assert.Equal(t, 101, xref.personnel[0][0].ID)

	assert.Zero(t, report.Funded)
	assert.Contains(t, report.Narrative, "no validated awards found")
	assert.Contains(t, report.Narrative, "does not show the project is unfunded")
}

func TestAnalyzeFundingNoCandidates(t *testing.T) {
	xref := &recordingXref{}
	report, err := New(corpus(), xref, types.SearchConfig{}).
		AnalyzeFunding(context.Background(), FundingRequest{PIName: "Nobody Known"})
	require.NoError(t, err)
	assert.Zero(t, report.Matched)
	assert.Empty(t, xref.personnel)
	assert.Contains(t, report.Narrative, `No catalog projects with a PI matching "Nobody Known"`)
}

func TestAnalyzeFundingByInstitution(t *testing.T) {
	xref := &recordingXref{}
	report, err := New(corpus(), xref, types.SearchConfig{}).
		AnalyzeFunding(context.Background(), FundingRequest{Institution: "UT Austin"})
	require.NoError(t, err)

	assert.Equal(t, FundingByInstitution, report.Mode)
	assert.Equal(t, []string{"UT Austin"}, xref.institutions)
	require.Len(t, xref.byInst, 1)
	require.Len(t, xref.byInst[0], 1)
	assert.Equal(t, 201, xref.byInst[0][0].ID)
}

func TestAnalyzeFundingCandidateLimit(t *testing.T) {
	cat := &stubCatalog{}
	for i := 1; i <= 8; i++ {
		cat.projects = append(cat.projects, types.Project{ID: i, PI: "Ann Lee", Institution: "MIT"})
	}
	xref := &recordingXref{}
	svc := New(cat, xref, types.SearchConfig{})

	report, err := svc.AnalyzeFunding(context.Background(), FundingRequest{PIName: "Ann Lee"})
	require.NoError(t, err)
	assert.Equal(t, 8, report.Matched)
	assert.Len(t, xref.personnel[0], DefaultFundingCandidates)
	assert.Contains(t, report.Narrative, "of 8 matching")

	_, err = svc.AnalyzeFunding(context.Background(), FundingRequest{PIName: "Ann Lee", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, xref.personnel[1], 2)
}

// awardsStub answers every personnel lookup for Mary with one award.
type awardsStub struct {
	mu    sync.Mutex
	calls int
}

func (a *awardsStub) Lookup(_ context.Context, q awards.Query) (string, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	if q.Personnel == "Smith-Jones, Mary" {
		return `Award Number: 2138259
Title: Scalable Deep Learning for Climate
Principal Investigator: Mary Smith-Jones
Institution: University of Colorado at Boulder
Start Date: 2021-09-01`, nil
	}
	if q.Personnel == "Mary Smith-Jones" {
		return "", errors.New("service unavailable")
	}
	return "No awards found.", nil
}

func TestAnalyzeFundingWithOrchestrator(t *testing.T) {
	cat := newCatalogClient(t, [][]types.Project{{climateProject(), genomeProject()}, {chemistryProject()}})
	stub := &awardsStub{}
	xref := awards.NewOrchestrator(stub, types.AwardsConfig{BatchDelay: time.Millisecond})
	svc := New(cat, xref, types.SearchConfig{})

	report, err := svc.AnalyzeFunding(context.Background(), FundingRequest{ProjectID: intPtr(101)})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	res := report.Results[0]
	require.Len(t, res.Awards, 1)
	assert.Equal(t, "2138259", res.Awards[0].ID)
	assert.True(t, res.Awards[0].TemporalAligned)
	assert.Len(t, res.Failures, 1)
	assert.Equal(t, 1, report.Funded)
	assert.Contains(t, report.Narrative, "2138259")
}
