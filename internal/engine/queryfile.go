// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/allocations-xref/pkg/types"
)

// QueryFile is the on-disk form of a search and its results, so a search
// can be saved and reviewed later without rescanning the catalog.
type QueryFile struct {
	Request SearchRequest         `yaml:"request"`
	Results []types.ScoredProject `yaml:"results"`
	Summary QuerySummary          `yaml:"summary"`
}

// QuerySummary records result counts and when the search ran.
type QuerySummary struct {
	Total       int       `yaml:"total"`
	Returned    int       `yaml:"returned"`
	Note        string    `yaml:"note,omitempty"`
	PagesFailed []int     `yaml:"pages_failed,omitempty"`
	Timestamp   time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves a search request and its envelope as YAML.
func WriteQueryFile(path string, req SearchRequest, env types.Envelope[types.ScoredProject], at time.Time) error {
	qf := QueryFile{
		Request: req,
		Results: env.Items,
		Summary: QuerySummary{
			Total:       env.Total,
			Returned:    len(env.Items),
			Note:        env.Note,
			PagesFailed: env.PagesFailed,
			Timestamp:   at.UTC(),
		},
	}
	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a saved query file.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// Envelope rebuilds the saved result envelope.
func (qf *QueryFile) Envelope() types.Envelope[types.ScoredProject] {
	items := qf.Results
	if items == nil {
		items = []types.ScoredProject{}
	}
	return types.Envelope[types.ScoredProject]{
		Total:       qf.Summary.Total,
		Items:       items,
		Note:        qf.Summary.Note,
		PagesFailed: qf.Summary.PagesFailed,
	}
}
