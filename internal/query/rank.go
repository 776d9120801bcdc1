// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/allocations-xref/pkg/types"
)

// SortMode selects how ranked results are ordered.
type SortMode string

const (
	SortRelevance      SortMode = "relevance"
	SortDateDesc       SortMode = "date_desc"
	SortDateAsc        SortMode = "date_asc"
	SortAllocationDesc SortMode = "allocation_desc"
	SortAllocationAsc  SortMode = "allocation_asc"
	SortPIName         SortMode = "pi_name"
)

// SortModes lists every accepted sort mode.
var SortModes = []SortMode{SortRelevance, SortDateDesc, SortDateAsc, SortAllocationDesc, SortAllocationAsc, SortPIName}

// ParseSortMode validates s. Empty means relevance.
func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return SortRelevance, nil
	case SortRelevance, SortDateDesc, SortDateAsc, SortAllocationDesc, SortAllocationAsc, SortPIName:
		return m, nil
	default:
		return "", fmt.Errorf("unknown sort mode %q: use relevance, date_desc, date_asc, allocation_desc, allocation_asc, or pi_name", s)
	}
}

// Rank orders items in place. The sort is stable; when the mode's key
// ties, higher scores come first.
func Rank(items []types.ScoredProject, mode SortMode) {
	less := func(a, b types.ScoredProject) (bool, bool) {
		switch mode {
		case SortDateDesc:
			ta, tb := a.Begin(), b.Begin()
			return ta.After(tb), ta.Equal(tb)
		case SortDateAsc:
			ta, tb := a.Begin(), b.Begin()
			return ta.Before(tb), ta.Equal(tb)
		case SortAllocationDesc:
			x, y := a.TotalAllocation(), b.TotalAllocation()
			return x > y, x == y
		case SortAllocationAsc:
			x, y := a.TotalAllocation(), b.TotalAllocation()
			return x < y, x == y
		case SortPIName:
			x, y := strings.ToLower(a.PI), strings.ToLower(b.PI)
			return x < y, x == y
		default:
			return a.Score > b.Score, a.Score == b.Score
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		lt, eq := less(items[i], items[j])
		if eq {
			return items[i].Score > items[j].Score
		}
		return lt
	})
}
