// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/allocations-xref/pkg/types"
)

// Facet dimensions, in output order.
const (
	DimensionField          = "field_of_science"
	DimensionAllocationType = "allocation_type"
	DimensionResource       = "resource"
	DimensionInstitution    = "institution"
)

var dimensionOrder = map[string]int{
	DimensionField:          0,
	DimensionAllocationType: 1,
	DimensionResource:       2,
	DimensionInstitution:    3,
}

// Statistics aggregates the first pages of the catalog. Each facet counts
// projects; Amount sums allocations (for resources, the amount granted on
// that resource; otherwise the projects' total allocation). Facets are
// grouped by dimension, most frequent first.
func (s *Service) Statistics(ctx context.Context, pages int) (types.Envelope[types.Facet], error) {
	n, err := s.resolvePages(pages)
	if err != nil {
		return types.Envelope[types.Facet]{}, err
	}
	set := s.scan(ctx, n)

	type facetKey struct{ dim, value string }
	acc := map[facetKey]*types.Facet{}
	add := func(dim, value string, amount float64) {
		value = strings.TrimSpace(value)
		if value == "" {
			value = "unspecified"
		}
		k := facetKey{dim, value}
		f, ok := acc[k]
		if !ok {
			f = &types.Facet{Dimension: dim, Value: value}
			acc[k] = f
		}
		f.Count++
		f.Amount += amount
	}

	for _, p := range set.Projects {
		total := p.TotalAllocation()
		add(DimensionField, p.FieldOfScience, total)
		add(DimensionAllocationType, p.AllocationType, total)
		add(DimensionInstitution, p.Institution, total)

		perResource := map[string]float64{}
		for _, r := range p.Resources {
			perResource[strings.TrimSpace(r.Name)] += r.Amount
		}
		for name, amount := range perResource {
			add(DimensionResource, name, amount)
		}
	}

	facets := make([]types.Facet, 0, len(acc))
	for _, f := range acc {
		facets = append(facets, *f)
	}
	sort.Slice(facets, func(i, j int) bool {
		a, b := facets[i], facets[j]
		if a.Dimension != b.Dimension {
			return dimensionOrder[a.Dimension] < dimensionOrder[b.Dimension]
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Value < b.Value
	})

	env := types.Envelope[types.Facet]{
		Total:       len(facets),
		Items:       facets,
		PagesFailed: set.Failed,
		Note:        fmt.Sprintf("%d projects from %d pages", len(set.Projects), len(set.Fetched)),
	}
	if len(set.Projects) == 0 {
		env.Note = fmt.Sprintf("no projects could be read from the first %d pages", n)
	}
	return env, nil
}
