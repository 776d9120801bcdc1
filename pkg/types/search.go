// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ScoredProject pairs a project with its relevance or similarity score.
type ScoredProject struct {
	Project `yaml:",inline"`

	// Score is relevance (0..20) or similarity (0..1) depending on the
	// search mode; 0 for filter-only browsing.
	Score float64 `json:"score" yaml:"score"`
}

// Envelope is the uniform result shape returned by every operation.
type Envelope[T any] struct {
	// Total counts every match before the limit was applied.
	Total int `json:"total" yaml:"total"`
	Items []T `json:"items" yaml:"items"`

	// Note explains an empty or partial result ("project 42 not found in 10 pages").
	Note string `json:"note,omitempty" yaml:"note,omitempty"`

	// PagesFailed lists catalog pages that could not be fetched.
	PagesFailed []int `json:"pages_failed,omitempty" yaml:"pages_failed,omitempty"`
}

// Facet is one aggregated statistic: a value along a dimension
// ("field_of_science", "allocation_type", "resource", "institution").
type Facet struct {
	Dimension string  `json:"dimension" yaml:"dimension"`
	Value     string  `json:"value" yaml:"value"`
	Count     int     `json:"count" yaml:"count"`
	Amount    float64 `json:"amount,omitempty" yaml:"amount,omitempty"`
}
