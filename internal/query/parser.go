// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query parses free-text project queries and scores catalog
// projects for relevance and similarity.
package query

import (
	"regexp"
	"strings"
)

// phrasePattern matches double-quoted substrings.
var phrasePattern = regexp.MustCompile(`"([^"]*)"`)

// Parsed is the result of parsing one query string. The grammar is flat:
// an operator applies to the single token that follows it and there is no
// nesting or grouping.
type Parsed struct {
	And     []string
	Or      []string
	Not     []string
	Phrases []string
	Terms   []string
}

// IsEmpty reports whether parsing produced nothing to match on.
func (p Parsed) IsEmpty() bool {
	return len(p.And) == 0 && len(p.Or) == 0 && len(p.Not) == 0 &&
		len(p.Phrases) == 0 && len(p.Terms) == 0
}

// Parse extracts quoted phrases first, then walks the remaining tokens left
// to right. AND, OR, and NOT (any case) consume the next token as their
// operand; an operator with nothing after it is dropped. Every other token
// is a residual term.
func Parse(q string) Parsed {
	var p Parsed

	for _, m := range phrasePattern.FindAllStringSubmatch(q, -1) {
		if phrase := strings.TrimSpace(m[1]); phrase != "" {
			p.Phrases = append(p.Phrases, phrase)
		}
	}
	rest := phrasePattern.ReplaceAllString(q, " ")

	tokens := strings.Fields(rest)
	for i := 0; i < len(tokens); {
		tok := tokens[i]
		var bucket *[]string
		switch strings.ToUpper(tok) {
		case "AND":
			bucket = &p.And
		case "OR":
			bucket = &p.Or
		case "NOT":
			bucket = &p.Not
		}
		if bucket == nil {
			p.Terms = append(p.Terms, tok)
			i++
			continue
		}
		if i+1 < len(tokens) {
			*bucket = append(*bucket, tokens[i+1])
		}
		i += 2
	}
	return p
}
