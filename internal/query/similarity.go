// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/allocations-xref/pkg/types"
)

// DefaultSimilarityThreshold drops weak matches from similarity results.
const DefaultSimilarityThreshold = 0.3

const (
	titleWeight       = 3
	fieldWeight       = 2
	abstractWeight    = 1
	abstractWordLimit = 50
	maxExtractedTerms = 10
)

// Similarity weights. The resource heuristic contributes at most
// resourceBonusScale to the final score.
const (
	sameFieldBonus     = 0.4
	relatedFieldBonus  = 0.2
	titleTermBonus     = 0.15
	abstractTermBonus  = 0.05
	coverageThreshold  = 0.5
	coverageBonusScale = 0.1
	resourceBonusScale = 0.1

	gpuAffinity     = 0.5
	cpuAffinity     = 0.3
	storageAffinity = 0.2
)

var (
	mlTerms         = []string{"machine", "learning", "neural", "deep", "network", "training", "inference"}
	simulationTerms = []string{"simulation", "modeling", "modelling", "computational", "dynamics", "numerical"}
	dataTerms       = []string{"data", "analysis", "dataset", "analytics", "archive", "genomic"}
)

// words lowercases s and splits it on anything that is not a letter or digit.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func significant(w string) bool {
	return len(w) > 3 && !IsStopWord(w)
}

// ExtractTerms builds the term string used to find projects similar to p.
// Title words weigh 3, field words 2, and words among the first 50 of the
// abstract 1. The ten heaviest terms are kept, ties broken alphabetically.
func ExtractTerms(p types.Project) string {
	weights := make(map[string]int)
	add := func(ws []string, weight int) {
		for _, w := range ws {
			if significant(w) {
				weights[w] += weight
			}
		}
	}
	add(words(p.Title), titleWeight)
	add(words(p.FieldOfScience), fieldWeight)
	abstract := strings.Fields(p.Abstract)
	if len(abstract) > abstractWordLimit {
		abstract = abstract[:abstractWordLimit]
	}
	add(words(strings.Join(abstract, " ")), abstractWeight)

	terms := make([]string, 0, len(weights))
	for w := range weights {
		terms = append(terms, w)
	}
	sort.Slice(terms, func(i, j int) bool {
		if weights[terms[i]] != weights[terms[j]] {
			return weights[terms[i]] > weights[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxExtractedTerms {
		terms = terms[:maxExtractedTerms]
	}
	return strings.Join(terms, " ")
}

// Similarity scores candidate against a term string in [0, 1]. When
// sameField is set, a candidate in refField earns a field bonus.
func Similarity(candidate types.Project, terms, refField string, sameField bool) float64 {
	var score float64

	if sameField && refField != "" && candidate.FieldOfScience != "" {
		cf, rf := strings.ToLower(candidate.FieldOfScience), strings.ToLower(refField)
		switch {
		case cf == rf:
			score += sameFieldBonus
		case strings.Contains(cf, rf) || strings.Contains(rf, cf):
			score += relatedFieldBonus
		}
	}

	title := strings.ToLower(candidate.Title)
	abstract := strings.ToLower(candidate.Abstract)
	var searchTerms []string
	for _, t := range strings.Fields(strings.ToLower(terms)) {
		if significant(t) {
			searchTerms = append(searchTerms, t)
		}
	}

	matched := 0
	for _, t := range searchTerms {
		switch {
		case strings.Contains(title, t):
			score += titleTermBonus
			matched++
		case strings.Contains(abstract, t):
			score += abstractTermBonus
			matched++
		}
	}
	if len(searchTerms) > 0 {
		coverage := float64(matched) / float64(len(searchTerms))
		if coverage > coverageThreshold {
			score += coverageBonusScale * coverage
		}
	}

	score += resourceBonusScale * resourceAffinity(candidate.Resources, searchTerms)

	return min(max(score, 0), 1)
}

// resourceAffinity rewards resource types suited to the search terms:
// GPUs for machine learning, CPU cores for simulation, storage for data work.
func resourceAffinity(resources []types.Resource, terms []string) float64 {
	var gpu, cpu, storage bool
	for _, r := range resources {
		desc := strings.ToLower(r.Name + " " + r.Units)
		switch {
		case strings.Contains(desc, "gpu"):
			gpu = true
		case strings.Contains(desc, "storage") || strings.Contains(desc, " tb") || strings.Contains(desc, "terabyte"):
			storage = true
		case strings.Contains(desc, "cpu") || strings.Contains(desc, "core"):
			cpu = true
		}
	}

	var affinity float64
	if gpu && anyTerm(terms, mlTerms) {
		affinity += gpuAffinity
	}
	if cpu && anyTerm(terms, simulationTerms) {
		affinity += cpuAffinity
	}
	if storage && anyTerm(terms, dataTerms) {
		affinity += storageAffinity
	}
	return affinity
}

func anyTerm(terms, vocabulary []string) bool {
	for _, t := range terms {
		for _, v := range vocabulary {
			if strings.Contains(t, v) {
				return true
			}
		}
	}
	return false
}

// SimilarityQuery describes one similarity search.
type SimilarityQuery struct {
	// Terms is the space-separated term string.
	Terms string

	// ReferenceID is excluded from results; 0 when searching by keywords.
	ReferenceID int

	// ReferenceField enables the field bonus when SameField is set.
	ReferenceField string
	SameField      bool

	// Threshold drops candidates scoring below it.
	Threshold float64

	// Filters are applied before scoring.
	Filters Filters
}

// FindSimilar scores every candidate and returns those at or above the
// threshold, best first. The reference project never appears.
func FindSimilar(candidates []types.Project, q SimilarityQuery) []types.ScoredProject {
	var out []types.ScoredProject
	for _, c := range candidates {
		if q.ReferenceID != 0 && c.ID == q.ReferenceID {
			continue
		}
		if !q.Filters.Allows(c) {
			continue
		}
		s := Similarity(c, q.Terms, q.ReferenceField, q.SameField)
		if s < q.Threshold || s == 0 {
			continue
		}
		out = append(out, types.ScoredProject{Project: c, Score: s})
	}
	Rank(out, SortRelevance)
	return out
}
