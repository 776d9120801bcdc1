// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package awards

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/allocations-xref/internal/metrics"
	"github.com/pdiddy/allocations-xref/pkg/types"
)

// fakeService answers lookups from canned reports keyed by the personnel
// or institution argument.
type fakeService struct {
	mu      sync.Mutex
	reports map[string]string
	errs    map[string]error
	panics  map[string]bool
	calls   []Query
}

func (f *fakeService) Lookup(_ context.Context, q Query) (string, error) {
	key := q.Personnel
	if key == "" {
		key = q.Institution
	}
	f.mu.Lock()
	f.calls = append(f.calls, q)
	f.mu.Unlock()
	if f.panics[key] {
		panic("lookup exploded")
	}
	if err := f.errs[key]; err != nil {
		return "", err
	}
	if r, ok := f.reports[key]; ok {
		return r, nil
	}
	return "No awards found.", nil
}

const maryReport = `**Award Number:** 2138259
**Title:** Scalable Deep Learning for Climate
**Principal Investigator:** Mary Smith-Jones
**Institution:** University of Colorado at Boulder
**Start Date:** 2021-09-01
**End Date:** 2024-08-31

**Award Number:** 1800001
**Title:** Unrelated Chemistry
**Principal Investigator:** Mary Smith
**Institution:** University of Texas at Austin

**Award Number:** 1800002
**Title:** Someone Else
**Principal Investigator:** John Doe
**Institution:** University of Colorado Boulder
`

func maryProject() types.Project {
	return types.Project{
		ID:          1,
		PI:          "Mary Smith-Jones",
		Institution: "University of Colorado Boulder",
		BeginDate:   "2021-07-01",
		EndDate:     "2022-06-30",
	}
}

func testConfig() types.AwardsConfig {
	return types.AwardsConfig{BatchDelay: time.Millisecond}
}

func TestCrossReference(t *testing.T) {
	svc := &fakeService{
		reports: map[string]string{
			"Smith-Jones, Mary": maryReport,
			"Mary Smith-Jones":  maryReport,
		},
		errs: map[string]error{"M. Smith-Jones": errors.New("service unavailable")},
	}
	m := metrics.New()
	o := NewOrchestrator(svc, testConfig(), WithMetrics(m))

	results := o.CrossReference(context.Background(), []types.Project{maryProject()})
	require.Len(t, results, 1)
	res := results[0]

	assert.Equal(t, ModePersonnel, res.Mode)
	assert.Equal(t, len(res.NameVariants), res.Attempts)
	assert.Equal(t, res.NameVariants, res.Queried)
	assert.Equal(t, "Smith-Jones, Mary", res.Queried[0])
	assert.Contains(t, res.NameVariants, "Mary Jones")
	assert.Contains(t, res.InstitutionVariants, "CU Boulder")
	assert.Equal(t, []LookupFailure{{Query: "M. Smith-Jones", Error: "service unavailable"}}, res.Failures)
	assert.Equal(t, 3, res.Returned)
	assert.Equal(t, 2, res.Rejected)

	require.Len(t, res.Awards, 1)
	a := res.Awards[0]
	assert.Equal(t, "2138259", a.ID)
	assert.Equal(t, "Mary Smith-Jones", a.MatchedName)
	assert.Equal(t, "Smith-Jones, Mary", a.QueriedWith)
	assert.True(t, a.TemporalAligned)
	assert.Equal(t, "award years 2021-2024 overlap allocation period 2021-2022", a.TemporalNote)

	assert.Equal(t, float64(len(res.NameVariants)-1), testutil.ToFloat64(m.AwardLookups.WithLabelValues(ModePersonnel, "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AwardLookups.WithLabelValues(ModePersonnel, "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AwardMatches))

	for _, q := range svc.calls {
		assert.Equal(t, defaultLimit, q.Limit)
	}
}

func TestCrossReferenceNoFundingIsNotAnError(t *testing.T) {
	o := NewOrchestrator(&fakeService{}, testConfig())
	results := o.CrossReference(context.Background(), []types.Project{maryProject()})
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Awards)
	assert.Empty(t, results[0].Failures)
	assert.NotEmpty(t, results[0].NameVariants)
	assert.Equal(t, len(results[0].NameVariants), results[0].Attempts)
}

const splitSurnameReport = `Award Number: 2200417
Title: Regional Climate Downscaling
Principal Investigator: Mary Jones
Institution: CU Boulder
Start Date: 2021-01-01
`

func TestCrossReferenceReachesHyphenSplitSurname(t *testing.T) {
	tests := []struct {
		name string
		cap  int
	}{
		{"every variant", 0},
		{"capped", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{reports: map[string]string{"Mary Jones": splitSurnameReport}}
			cfg := testConfig()
			cfg.MaxNameQueries = tt.cap

			results := NewOrchestrator(svc, cfg).CrossReference(context.Background(), []types.Project{maryProject()})
			require.Len(t, results, 1)
			res := results[0]

			assert.Contains(t, res.Queried, "Mary Jones")
			assert.Contains(t, res.Queried, "Mary Smith Jones")
			require.Len(t, res.Awards, 1)
			assert.Equal(t, "2200417", res.Awards[0].ID)
			assert.Equal(t, "Mary Jones", res.Awards[0].QueriedWith)
			assert.Equal(t, "Mary Jones", res.Awards[0].MatchedName)
			if tt.cap > 0 {
				assert.Len(t, svc.calls, tt.cap)
			} else {
				assert.Len(t, svc.calls, len(res.NameVariants))
			}
		})
	}
}

func TestCrossReferenceIsolatesPanickingCandidate(t *testing.T) {
	svc := &fakeService{
		reports: map[string]string{"Smith-Jones, Mary": maryReport},
		panics:  map[string]bool{"Stone, Bob": true},
	}
	projects := []types.Project{
		{ID: 2, PI: "Bob Stone", Institution: "MIT"},
		maryProject(),
	}
	results := NewOrchestrator(svc, testConfig()).CrossReference(context.Background(), projects)
	require.Len(t, results, 2)

	assert.Equal(t, 2, results[0].Project.ID)
	require.Len(t, results[0].Failures, 1)
	assert.Contains(t, results[0].Failures[0].Error, "panic")

	assert.Equal(t, 1, results[1].Project.ID)
	assert.Len(t, results[1].Awards, 1)
}

func TestCrossReferenceBatchesCandidates(t *testing.T) {
	var projects []types.Project
	for i := range 7 {
		projects = append(projects, types.Project{ID: i, PI: "Ann Lee"})
	}
	cfg := testConfig()
	cfg.MaxNameQueries = 1
	svc := &fakeService{}
	results := NewOrchestrator(svc, cfg).CrossReference(context.Background(), projects)

	require.Len(t, results, 7)
	for i, r := range results {
		assert.Equal(t, i, r.Project.ID)
		assert.Equal(t, 1, r.Attempts)
	}
	assert.Len(t, svc.calls, 7)
}

func TestCrossReferenceWithoutProjectInstitution(t *testing.T) {
	p := maryProject()
	p.Institution = ""
	svc := &fakeService{reports: map[string]string{"Smith-Jones, Mary": maryReport}}
	results := NewOrchestrator(svc, testConfig()).CrossReference(context.Background(), []types.Project{p})

	require.Len(t, results, 1)
	// Both Mary awards pass on the name alone.
	assert.Len(t, results[0].Awards, 2)
}

func TestByInstitution(t *testing.T) {
	report := maryReport + `
**Award Number:** 1900003
**Title:** Ice Dynamics
**Principal Investigator:** Ann Lee
**Institution:** CU Boulder
`
	svc := &fakeService{
		reports: map[string]string{"University of Colorado Boulder": report},
		errs:    map[string]error{"CU Boulder": errors.New("timeout")},
	}
	m := metrics.New()
	projects := []types.Project{
		maryProject(),
		{ID: 2, PI: "Ann Lee", Institution: "University of Colorado Boulder"},
		{ID: 3, PI: "Bob Stone", Institution: "University of Colorado Boulder"},
	}
	results := NewOrchestrator(svc, testConfig(), WithMetrics(m)).
		ByInstitution(context.Background(), "University of Colorado Boulder", projects)

	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, ModeInstitution, r.Mode)
		assert.Equal(t, len(r.InstitutionVariants), r.Attempts)
		assert.Equal(t, []LookupFailure{{Query: "CU Boulder", Error: "timeout"}}, r.Failures)
		assert.Equal(t, "University of Colorado Boulder", r.InstitutionVariants[0])
	}

	require.Len(t, results[0].Awards, 1)
	assert.Equal(t, "2138259", results[0].Awards[0].ID)
	assert.Equal(t, "University of Colorado Boulder", results[0].Awards[0].QueriedWith)

	require.Len(t, results[1].Awards, 1)
	assert.Equal(t, "1900003", results[1].Awards[0].ID)

	assert.Empty(t, results[2].Awards)

	assert.Len(t, svc.calls, len(results[0].InstitutionVariants))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AwardLookups.WithLabelValues(ModeInstitution, "error")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.AwardMatches))
}

func TestTemporalAlignment(t *testing.T) {
	tests := []struct {
		name    string
		years   []int
		begin   string
		end     string
		aligned bool
		note    string
	}{
		{"years straddle period", []int{2019, 2023}, "2021-01-01", "2022-12-31", false, "award years 2019-2023 fall outside allocation period 2021-2022"},
		{"inside", []int{2021}, "2021-01-01", "2022-12-31", true, "award years 2021 overlap allocation period 2021-2022"},
		{"no award years", nil, "2021-01-01", "2022-12-31", false, "no years found in award text"},
		{"no project dates", []int{2021}, "", "", false, "allocation dates unknown"},
		{"open end", []int{2020, 2021}, "2021-01-01", "", true, "award years 2020-2021 overlap allocation period 2021"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aligned, note := TemporalAlignment(
				types.Award{Years: tt.years},
				types.Project{BeginDate: tt.begin, EndDate: tt.end})
			assert.Equal(t, tt.aligned, aligned)
			assert.Equal(t, tt.note, note)
		})
	}
}
