// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package institution

import "strings"

// genericWords appear in most institution names and never count toward
// word overlap; otherwise any two universities would share "university".
var genericWords = map[string]bool{
	"university":  true,
	"institute":   true,
	"college":     true,
	"school":      true,
	"center":      true,
	"academy":     true,
	"polytechnic": true,
	"tech":        true,
	"state":       true,
	"national":    true,
}

// Substring and overlap thresholds for Match.
const (
	minSubstringLen   = 8
	strongOverlap     = 0.75
	weakOverlap       = 0.5
	weakOverlapShared = 2
)

// Match reports whether the institution text names the same institution as
// any of variants. Tiers short-circuit in order: exact key equality;
// whole-word containment either way when the variant exceeds eight
// characters; significant-word overlap of at least 0.75, or at least two
// shared words with overlap of at least 0.5.
func Match(text string, variants []string) bool {
	kt := key(text)
	if kt == "" {
		return false
	}
	tw := matchWords(kt)
	for _, v := range variants {
		kv := key(v)
		if kv == "" {
			continue
		}
		if kt == kv {
			return true
		}
		if len(kv) > minSubstringLen && (containsWords(kt, kv) || containsWords(kv, kt)) {
			return true
		}
		shared, ratio := overlap(tw, matchWords(kv))
		if ratio >= strongOverlap || shared >= weakOverlapShared && ratio >= weakOverlap {
			return true
		}
	}
	return false
}

// matchWords keeps words longer than three characters that are not generic.
func matchWords(k string) []string {
	var out []string
	for _, w := range strings.Fields(k) {
		if len(w) <= 3 || genericWords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// overlap counts distinct words of a found in b and divides by the larger
// set size. Either side empty yields zero.
func overlap(a, b []string) (shared int, ratio float64) {
	setA, setB := toSet(a), toSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0, 0
	}
	for w := range setA {
		if setB[w] {
			shared++
		}
	}
	return shared, float64(shared) / float64(max(len(setA), len(setB)))
}

func toSet(words []string) map[string]bool {
	s := make(map[string]bool, len(words))
	for _, w := range words {
		s[w] = true
	}
	return s
}
