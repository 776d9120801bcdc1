// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package institution

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantsLocationForms(t *testing.T) {
	got := Variants("University of Texas at Austin")
	require.NotEmpty(t, got)
	assert.Equal(t, "University of Texas at Austin", got[0])
	for _, want := range []string{
		"University of Texas, Austin",
		"University of Texas-Austin",
		"University of Texas Austin",
		"Texas University at Austin",
		"Texas University, Austin",
		"Texas University-Austin",
		"UT Austin",
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "University of Texas")
}

func TestVariantsFromAbbreviatedInput(t *testing.T) {
	got := Variants("Univ. of Colorado, Boulder")
	for _, want := range []string{
		"University of Colorado at Boulder",
		"University of Colorado Boulder",
		"Colorado University, Boulder",
		"CU Boulder",
		"UC Boulder",
	} {
		assert.Contains(t, got, want)
	}
}

func TestVariantsRewriteWithoutCampus(t *testing.T) {
	assert.Contains(t, Variants("Purdue University"), "University of Purdue")
	assert.Contains(t, Variants("University of Utah"), "Utah University")
	assert.Contains(t, Variants("New York State University"), "State University of New York")
	assert.Contains(t, Variants("The Ohio State University"), "Ohio State University")
}

func TestVariantsAliasLookup(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Massachusetts Institute of Technology", "MIT"},
		{"MIT", "Massachusetts Institute of Technology"},
		{"UIUC", "University of Illinois Urbana-Champaign"},
		{"University of Illinois at Urbana-Champaign", "UIUC"},
		{"UC San Diego", "UCSD"},
		{"Georgia Tech", "Georgia Institute of Technology"},
		{"MIT Lincoln Laboratory", "Massachusetts Institute of Technology"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, Variants(tt.name), tt.want)
		})
	}
}

func TestVariantsNoSpuriousAliases(t *testing.T) {
	for _, v := range Variants("Committee on Space Research") {
		assert.NotEqual(t, "MIT", v)
	}
	for _, v := range Variants("University of Texas at El Paso") {
		assert.NotEqual(t, "UT Austin", v)
	}
	for _, v := range Variants("University of Colorado Denver") {
		assert.NotEqual(t, "CU Boulder", v)
	}
}

func TestVariantsDeduplicated(t *testing.T) {
	got := Variants("University of Colorado Boulder")
	seen := map[string]bool{}
	for _, v := range got {
		k := strings.ToLower(v)
		assert.False(t, seen[k], "duplicate %q", v)
		seen[k] = true
	}
	assert.Empty(t, Variants("   "))
}

func TestAliasMatchTiers(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"MIT", "mit", true},
		{"University of Colorado", "University of Colorado Boulder", true},
		{"MIT", "Committee", false},
		{"UT", "Utah State University", false},
		{"UC San Diego", "University of California, San Diego", true},
		{"University of California, Berkeley", "University of California, Los Angeles", false},
		{"Boston University", "Boston College", false},
	}
	for _, tt := range tests {
		t.Run(tt.a+"~"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, aliasMatch(tt.a, tt.b))
		})
	}
}
