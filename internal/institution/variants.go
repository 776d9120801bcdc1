// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package institution

import (
	"regexp"
	"strings"
)

var (
	universityOfRE   = regexp.MustCompile(`^University of (.+)$`)
	suffixUniRE      = regexp.MustCompile(`^(.+) University$`)
	stateUniOfRE     = regexp.MustCompile(`^State University of (.+)$`)
	suffixStateUniRE = regexp.MustCompile(`^(.+) State University$`)
	typeHyphenRE     = regexp.MustCompile(`^(.*\b(?:University|College|Institute|School|Center|Laboratory|Tech))-(.+)$`)
)

// Variants returns the normalized name, its systematic rewrites, and the
// curated aliases of every well-known institution it matches. Duplicates
// are removed (case-insensitive) and the normalized name comes first.
func Variants(name string) []string {
	n := Normalize(name)
	if n == "" {
		return nil
	}
	out := []string{n}
	if raw := spaceRE.ReplaceAllString(strings.TrimSpace(name), " "); raw != n {
		out = append(out, raw)
	}
	out = append(out, patternVariants(n)...)
	for _, a := range lookupAliases(n) {
		out = append(out, a.names()...)
	}
	return dedupe(out)
}

// patternVariants rewrites "University of X [at Y]" and "X University [at Y]"
// into each other and enumerates the campus spellings "at Y", ", Y", "-Y"
// and " Y" for every head. A bare head is only produced when the input
// carries no campus, since "University of Texas" alone would also match
// every other campus of that system.
func patternVariants(n string) []string {
	trimmed := strings.TrimPrefix(n, "The ")
	head, loc := splitLocation(trimmed)
	heads := headForms(head)

	var out []string
	if trimmed != n {
		out = append(out, trimmed)
	}
	if loc == "" {
		return append(out, heads...)
	}
	for _, h := range heads {
		out = append(out,
			h+" at "+loc,
			h+", "+loc,
			h+"-"+loc,
			h+" "+loc,
		)
	}
	return out
}

func headForms(head string) []string {
	forms := []string{head}
	switch {
	case stateUniOfRE.MatchString(head):
		forms = append(forms, stateUniOfRE.FindStringSubmatch(head)[1]+" State University")
	case suffixStateUniRE.MatchString(head):
		forms = append(forms, "State University of "+suffixStateUniRE.FindStringSubmatch(head)[1])
	case universityOfRE.MatchString(head):
		forms = append(forms, universityOfRE.FindStringSubmatch(head)[1]+" University")
	case suffixUniRE.MatchString(head):
		forms = append(forms, "University of "+suffixUniRE.FindStringSubmatch(head)[1])
	}
	return forms
}

// splitLocation separates a trailing campus: "X at Y", "X, Y", or a hyphen
// directly after an institution-type word ("X University-Y").
func splitLocation(n string) (head, loc string) {
	if i := strings.LastIndex(n, " at "); i > 0 {
		return n[:i], n[i+len(" at "):]
	}
	if i := strings.LastIndex(n, ", "); i > 0 {
		return n[:i], n[i+len(", "):]
	}
	if m := typeHyphenRE.FindStringSubmatch(n); m != nil {
		return m[1], m[2]
	}
	return n, ""
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = spaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
		k := strings.ToLower(s)
		if s == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}
