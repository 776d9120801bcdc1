// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package awards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/allocations-xref/pkg/types"
)

const markdownReport = `Found 2 awards:

**Award Number:** 2138259
**Title:** Scalable Deep Learning for Climate
**Principal Investigator:** Mary Smith-Jones
**Institution:** University of Colorado Boulder
**Amount:** $500,000
**Start Date:** 2021-09-01
**End Date:** 2024-08-31

- Award Number: 1912345
- Title: Ocean Models
- PI: John Doe
- Institution: MIT
`

func TestParseReportMarkdown(t *testing.T) {
	entries := ParseReport(markdownReport)
	require.Len(t, entries, 3)
	assert.Equal(t, types.Unrecognized{Line: "Found 2 awards:"}, entries[0])

	awards := types.Awards(entries)
	require.Len(t, awards, 2)

	a := awards[0]
	assert.Equal(t, "2138259", a.ID)
	assert.Equal(t, "Scalable Deep Learning for Climate", a.Title)
	assert.Equal(t, "Mary Smith-Jones", a.PI)
	assert.Equal(t, "University of Colorado Boulder", a.Institution)
	assert.Equal(t, "$500,000", a.Amount)
	assert.Equal(t, "2021-09-01", a.StartDate)
	assert.Equal(t, "2024-08-31", a.EndDate)
	assert.Equal(t, []int{2021, 2024}, a.Years)
	assert.Contains(t, a.Raw, "Award Number: 2138259")

	b := awards[1]
	assert.Equal(t, "1912345", b.ID)
	assert.Equal(t, "John Doe", b.PI)
	assert.Equal(t, "MIT", b.Institution)
	assert.Empty(t, b.Years)
}

func TestParseReportRepeatedLabelStartsNewAward(t *testing.T) {
	awards := types.Awards(ParseReport("Title: A\nPI: Ann Lee\nTitle: B\nPI: Bo Chen\n"))
	require.Len(t, awards, 2)
	assert.Equal(t, "A", awards[0].Title)
	assert.Equal(t, "Ann Lee", awards[0].PI)
	assert.Equal(t, "B", awards[1].Title)
	assert.Equal(t, "Bo Chen", awards[1].PI)
}

func TestParseReportFieldsInAnyOrder(t *testing.T) {
	awards := types.Awards(ParseReport("1. Title: Ice Sheets\n   Award ID: 777\n   Awardee: Dartmouth College"))
	require.Len(t, awards, 1)
	assert.Equal(t, "777", awards[0].ID)
	assert.Equal(t, "Ice Sheets", awards[0].Title)
	assert.Equal(t, "Dartmouth College", awards[0].Institution)
}

func TestParseReportBlockWithoutIdentity(t *testing.T) {
	entries := ParseReport("Institution: MIT\nAmount: 5")
	assert.Empty(t, types.Awards(entries))
	assert.Equal(t, []types.AwardEntry{
		types.Unrecognized{Line: "Institution: MIT"},
		types.Unrecognized{Line: "Amount: 5"},
	}, entries)
}

func TestParseReportNoResults(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace", "  \n "},
		{"prose none", "No awards found for personnel 'Mary Smith'."},
		{"not available", "The NSF awards API is not available right now."},
		{"error", "Error: request failed with status 502"},
		{"empty json list", "[]"},
		{"empty json object", "{}"},
		{"empty awards field", `{"awards": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, types.Awards(ParseReport(tt.text)))
		})
	}
}

func TestParseReportJSON(t *testing.T) {
	awards := types.Awards(ParseReport(`[
		{"id": "123", "title": "T", "pi": "Ann Lee", "institution": "MIT", "startDate": "2020-01-01", "endDate": "2023-12-31"},
		{"note": "not an award"}
	]`))
	require.Len(t, awards, 1)
	assert.Equal(t, "123", awards[0].ID)
	assert.Equal(t, "Ann Lee", awards[0].PI)
	assert.Equal(t, []int{2020, 2023}, awards[0].Years)
	assert.NotEmpty(t, awards[0].Raw)

	awards = types.Awards(ParseReport(`{"awardNumber": 555, "title": "X", "fundsObligatedAmt": 1250000}`))
	require.Len(t, awards, 1)
	assert.Equal(t, "555", awards[0].ID)
	assert.Equal(t, "1250000", awards[0].Amount)

	awards = types.Awards(ParseReport(`{"results": [{"award_number": "9", "principal_investigator": "Bo Chen"}]}`))
	require.Len(t, awards, 1)
	assert.Equal(t, "Bo Chen", awards[0].PI)
}

func TestParseReportMalformedJSONFallsBackToText(t *testing.T) {
	awards := types.Awards(ParseReport("{broken\nAward Number: 42\nTitle: Fallback"))
	require.Len(t, awards, 1)
	assert.Equal(t, "42", awards[0].ID)
}

func TestYears(t *testing.T) {
	assert.Equal(t, []int{1999, 2021}, years("from 2021 back to 1999, again 2021; id 2021001"))
	assert.Empty(t, years("no dates"))
}
