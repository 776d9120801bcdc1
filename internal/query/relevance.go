// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"strings"

	"github.com/pdiddy/allocations-xref/pkg/types"
)

// MaxRelevance caps every relevance score.
const MaxRelevance = 20.0

// Points awarded per matched element.
const (
	phraseInTitle  = 5.0
	phraseElsewise = 3.0
	andTermPoints  = 2.0
	orTermPoints   = 1.5

	termInTitle       = 3.0
	termInPI          = 2.0
	termInField       = 1.5
	termInAbstract    = 1.0
	termInInstitution = 0.5
)

// Filters are hard constraints. A project failing any non-empty filter
// scores 0. Each filter is a case-insensitive substring test.
type Filters struct {
	FieldOfScience string
	AllocationType string

	// ResourceName matches when any allocated resource name contains it.
	ResourceName string
}

// IsEmpty reports whether no filter is set.
func (f Filters) IsEmpty() bool {
	return f.FieldOfScience == "" && f.AllocationType == "" && f.ResourceName == ""
}

// Allows reports whether p passes every filter.
func (f Filters) Allows(p types.Project) bool {
	if f.FieldOfScience != "" && !containsFold(p.FieldOfScience, f.FieldOfScience) {
		return false
	}
	if f.AllocationType != "" && !containsFold(p.AllocationType, f.AllocationType) {
		return false
	}
	if f.ResourceName != "" {
		found := false
		for _, r := range p.Resources {
			if containsFold(r.Name, f.ResourceName) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Score rates p against q under filters f. It returns 0 when p is excluded
// by a filter, a NOT term, or a missing AND term; otherwise a value in
// (0, MaxRelevance] for any match, or 0 when nothing matched.
func Score(p types.Project, q Parsed, f Filters) float64 {
	if !f.Allows(p) {
		return 0
	}

	title := strings.ToLower(p.Title)
	pi := strings.ToLower(p.PI)
	field := strings.ToLower(p.FieldOfScience)
	abstract := strings.ToLower(p.Abstract)
	institution := strings.ToLower(p.Institution)
	text := abstract + " " + title + " " + pi

	for _, t := range q.Not {
		if strings.Contains(text, strings.ToLower(t)) {
			return 0
		}
	}

	var score float64
	for _, ph := range q.Phrases {
		ph = strings.ToLower(ph)
		switch {
		case strings.Contains(title, ph):
			score += phraseInTitle
		case strings.Contains(text, ph):
			score += phraseElsewise
		}
	}

	for _, t := range q.And {
		if !strings.Contains(text, strings.ToLower(t)) {
			return 0
		}
	}
	score += andTermPoints * float64(len(q.And))

	for _, t := range q.Or {
		if strings.Contains(text, strings.ToLower(t)) {
			score += orTermPoints
		}
	}

	for _, t := range q.Terms {
		t = strings.ToLower(t)
		if len(t) <= 2 || IsStopWord(t) {
			continue
		}
		switch {
		case strings.Contains(title, t):
			score += termInTitle
		case strings.Contains(pi, t):
			score += termInPI
		case strings.Contains(field, t):
			score += termInField
		case strings.Contains(abstract, t):
			score += termInAbstract
		case strings.Contains(institution, t):
			score += termInInstitution
		}
	}

	if score > MaxRelevance {
		score = MaxRelevance
	}
	return score
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
