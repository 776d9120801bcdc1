// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package institution normalizes institution names, expands them into the
// spellings other datasets use, and decides whether two spellings name the
// same place.
package institution

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	spaceRE    = regexp.MustCompile(`\s+`)
	commaRE    = regexp.MustCompile(`\s*,[\s,]*`)
	hyphenRE   = regexp.MustCompile(`\s*-+\s*`)
	ampRE      = regexp.MustCompile(`\s*&+\s*`)
	typeWordRE = regexp.MustCompile(`(?i)\b(university|college|institute|school|center|laboratory)\b`)
)

type abbreviation struct {
	re   *regexp.Regexp
	full string
}

// abbreviations are expanded in order; "U of" must run before the bare forms.
// A bare "U" must stand alone, so "U.S." and "UC" are left untouched.
var abbreviations = []abbreviation{
	{regexp.MustCompile(`(?i)\bU\.?\s+of\b`), "University of"},
	{regexp.MustCompile(`(?i)(^|[\s,(])U\.?($|[\s,)-])`), "${1}University${2}"},
	{regexp.MustCompile(`(?i)\bUniv\b\.?`), "University"},
	{regexp.MustCompile(`(?i)\bInst\b\.?`), "Institute"},
	{regexp.MustCompile(`(?i)\bCtr\b\.?`), "Center"},
	{regexp.MustCompile(`(?i)\bLab\b\.?`), "Laboratory"},
	{regexp.MustCompile(`(?i)\bNatl\b\.?`), "National"},
	{regexp.MustCompile(`(?i)\bColl\b\.?`), "College"},
	{regexp.MustCompile(`(?i)\bDept\b\.?`), "Department"},
}

// Normalize rewrites an institution name into a canonical spelling:
// abbreviations expanded, separators spaced consistently, institution-type
// words capitalized, and a trailing ", City" locality turned into " at City".
func Normalize(name string) string {
	s := norm.NFC.String(strings.TrimSpace(name))
	s = spaceRE.ReplaceAllString(s, " ")
	for _, a := range abbreviations {
		s = a.re.ReplaceAllString(s, a.full)
	}
	s = ampRE.ReplaceAllString(s, " & ")
	s = hyphenRE.ReplaceAllString(s, "-")
	s = commaRE.ReplaceAllString(s, ", ")
	s = strings.Trim(s, " ,-")
	s = localitySuffix(s)
	s = typeWordRE.ReplaceAllStringFunc(s, titleWord)
	return spaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// localitySuffix turns "University of Colorado, Boulder" into
// "University of Colorado at Boulder". Department prefixes such as
// "Physics, University of X" are left alone.
func localitySuffix(s string) string {
	if strings.Count(s, ", ") != 1 {
		return s
	}
	head, tail, _ := strings.Cut(s, ", ")
	if !typeWordRE.MatchString(head) || typeWordRE.MatchString(tail) {
		return s
	}
	if len(strings.Fields(tail)) > 3 {
		return s
	}
	return head + " at " + tail
}

func titleWord(w string) string {
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}

var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func fold(s string) string {
	out, _, err := transform.String(foldMarks, s)
	if err != nil {
		return s
	}
	return out
}

// key is the comparison form of a name: normalized, lowercased, accent
// folded, punctuation removed, "&" spelled out, and a leading "the" dropped.
func key(s string) string {
	s = fold(strings.ToLower(Normalize(s)))
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
	f := strings.Fields(s)
	if len(f) > 1 && f[0] == "the" {
		f = f[1:]
	}
	return strings.Join(f, " ")
}

// containsWords reports whether needle occurs in hay on word boundaries.
// Both arguments are keys.
func containsWords(hay, needle string) bool {
	return strings.Contains(" "+hay+" ", " "+needle+" ")
}
