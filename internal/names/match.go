// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package names

import (
	"strings"
	"unicode"
)

// Canonical lowercases s, folds accents, turns punctuation into spaces,
// and collapses whitespace: "Smith-Jones, M." becomes "smith jones m".
func Canonical(s string) string {
	s = fold(strings.ToLower(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// Matches reports whether line (typically an award's PI line, which may
// list several people) contains one of the variants as whole words.
// Single-token variants never match on their own: a bare surname is too
// weak to tie an award to a person.
func Matches(line string, variants []string) bool {
	_, ok := MatchingVariant(line, variants)
	return ok
}

// MatchingVariant is Matches that also returns the first variant found.
func MatchingVariant(line string, variants []string) (string, bool) {
	hay := " " + Canonical(line) + " "
	if strings.TrimSpace(hay) == "" {
		return "", false
	}
	for _, v := range variants {
		needle := Canonical(v)
		if !strings.Contains(needle, " ") {
			continue
		}
		if strings.Contains(hay, " "+needle+" ") {
			return v, true
		}
	}
	return "", false
}
