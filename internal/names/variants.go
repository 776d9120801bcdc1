// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package names expands a person's name into the renderings it is likely
// to take in another dataset ("Smith, Mary", "M. Smith", "Smith M") and
// checks award PI lines against those renderings.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// honorifics are dropped wherever they appear; suffixes only at the end.
var (
	honorifics = map[string]bool{"dr": true, "prof": true, "professor": true, "mr": true, "ms": true, "mrs": true}
	suffixes   = map[string]bool{
		"jr": true, "sr": true, "ii": true, "iii": true, "iv": true,
		"phd": true, "md": true, "dphil": true, "edd": true, "dsc": true,
	}
)

// Generate returns a deduplicated set of renderings for name. It is
// deterministic and never returns empty strings; the result is empty only
// when name has no usable tokens.
func Generate(name string) []string {
	tokens := tokenize(name)
	if len(tokens) == 0 {
		return nil
	}
	if len(tokens) == 1 {
		return dedupe(withFolded([]string{tokens[0]}))
	}

	first, last := tokens[0], tokens[len(tokens)-1]
	middles := tokens[1 : len(tokens)-1]

	type pair struct{ first, last string }
	var pairs []pair
	for _, f := range hyphenAlternatives(first) {
		for _, l := range hyphenAlternatives(last) {
			pairs = append(pairs, pair{f, l})
		}
	}

	// Full-name forms of every hyphen alternative come first so that a
	// caller querying only a prefix still covers each surname form.
	var out []string
	for _, p := range pairs {
		out = append(out, p.last+", "+p.first, p.first+" "+p.last)
	}
	for _, p := range pairs {
		f, l := p.first, p.last
		fi := initial(f)
		out = append(out,
			fi+". "+l,
			l+", "+fi+".",
			fi+" "+l,
			l+" "+fi,
			l+" "+f,
		)
		for _, m := range middleForms(middles) {
			out = append(out,
				f+" "+m+" "+l,
				l+", "+f+" "+m,
				fi+". "+m+" "+l,
			)
		}
	}
	return dedupe(withFolded(out))
}

// tokenize normalizes name to NFC, reorders "Last, First Middle" input,
// and strips honorifics and generational or degree suffixes.
func tokenize(name string) []string {
	name = norm.NFC.String(strings.TrimSpace(name))
	if i := strings.Index(name, ","); i > 0 {
		head, tail := strings.TrimSpace(name[:i]), strings.TrimSpace(name[i+1:])
		// "Smith, Mary" but not "Mary Smith, Jr."
		if tail != "" && !isSuffix(firstWord(tail)) {
			name = tail + " " + head
		}
	}
	name = strings.ReplaceAll(name, ",", " ")

	var tokens []string
	for _, tok := range strings.Fields(name) {
		key := strings.ToLower(strings.ReplaceAll(tok, ".", ""))
		if honorifics[key] {
			continue
		}
		tokens = append(tokens, tok)
	}
	for len(tokens) > 1 && isSuffix(tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

func isSuffix(tok string) bool {
	return suffixes[strings.ToLower(strings.ReplaceAll(tok, ".", ""))]
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

// hyphenAlternatives returns the part as given and, for hyphenated parts,
// each piece alone, the pieces joined by a space, and joined with nothing.
func hyphenAlternatives(part string) []string {
	alts := []string{part}
	if !strings.Contains(part, "-") {
		return alts
	}
	var pieces []string
	for _, p := range strings.Split(part, "-") {
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	alts = append(alts, pieces...)
	alts = append(alts, strings.Join(pieces, " "), strings.Join(pieces, ""))
	return alts
}

// middleForms lists every way the middle names may appear: in full, as
// initials, compressed initials, the first middle initial only, and the
// first middle name only. Omission is covered by the base forms.
func middleForms(middles []string) []string {
	if len(middles) == 0 {
		return nil
	}
	var dotted, bare []string
	for _, m := range middles {
		i := initial(strings.TrimSuffix(m, "."))
		dotted = append(dotted, i+".")
		bare = append(bare, i)
	}
	forms := []string{
		strings.Join(middles, " "),
		strings.Join(dotted, " "),
		strings.Join(dotted, ""),
		strings.Join(bare, ""),
		dotted[0],
		bare[0],
	}
	if len(middles) > 1 {
		forms = append(forms, middles[0])
	}
	return forms
}

func initial(s string) string {
	for _, r := range s {
		return string(unicode.ToUpper(r))
	}
	return ""
}

var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold strips combining marks ("José" becomes "Jose").
func fold(s string) string {
	out, _, err := transform.String(foldMarks, s)
	if err != nil {
		return s
	}
	return out
}

// withFolded appends an accent-free copy of every variant that has accents.
func withFolded(variants []string) []string {
	out := variants
	for _, v := range variants {
		if f := fold(v); f != v {
			out = append(out, f)
		}
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.Join(strings.Fields(s), " ")
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
