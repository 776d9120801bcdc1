// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	assert.Equal(t, "smith jones m", Canonical("Smith-Jones, M."))
	assert.Equal(t, "jose nunez", Canonical("  José   Núñez "))
}

func TestMatches(t *testing.T) {
	variants := Generate("Mary Smith-Jones")
	tests := []struct {
		line string
		want bool
	}{
		{"Mary Smith-Jones", true},
		{"Smith-Jones, Mary (Principal Investigator)", true},
		{"Principal Investigator: mary smith", true},
		{"SMITH JONES, MARY", true},
		{"Mary Smithson", false},
		{"Robert Jones", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.line, variants))
		})
	}
}

func TestMatchesIgnoresSingleTokenVariants(t *testing.T) {
	assert.False(t, Matches("Plato of Athens", []string{"Plato"}))
}

func TestMatchingVariant(t *testing.T) {
	v, ok := MatchingVariant("PI: Smith-Jones, Mary; Co-PI: Ann Lee", []string{"Ann Smith", "Smith-Jones, Mary"})
	assert.True(t, ok)
	assert.Equal(t, "Smith-Jones, Mary", v)

	_, ok = MatchingVariant("Ann Lee", []string{"Mary Smith"})
	assert.False(t, ok)
}
