// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"strings"

	"github.com/pdiddy/allocations-xref/internal/awards"
)

// maxListedVariants bounds how many variants a narrative spells out.
const maxListedVariants = 4

// narrative renders a funding report as plain text. Candidates without
// awards get an account of what was tried.
func narrative(r FundingReport, pages int) string {
	var b strings.Builder

	if len(r.Results) == 0 {
		switch r.Mode {
		case FundingByPI:
			fmt.Fprintf(&b, "No catalog projects with a PI matching %q were found in the first %d pages; nothing to cross-reference.", r.Subject, pages)
		case FundingByInstitution:
			fmt.Fprintf(&b, "No catalog projects at an institution matching %q were found in the first %d pages; nothing to cross-reference.", r.Subject, pages)
		default:
			fmt.Fprintf(&b, "No candidate projects for %s.", r.Subject)
		}
		writePagesFailed(&b, r.PagesFailed)
		return b.String()
	}

	fmt.Fprintf(&b, "Funding analysis for %s: %d candidate project(s)", r.Subject, len(r.Results))
	if r.Matched > len(r.Results) {
		fmt.Fprintf(&b, " of %d matching", r.Matched)
	}
	fmt.Fprintf(&b, ", %d with validated awards, %d award(s) in total.", r.Funded, r.Awards)
	writePagesFailed(&b, r.PagesFailed)

	for _, c := range r.Results {
		b.WriteString("\n\n")
		writeCandidate(&b, c)
	}
	return b.String()
}

func writePagesFailed(b *strings.Builder, failed []int) {
	if len(failed) == 0 {
		return
	}
	fmt.Fprintf(b, " Catalog pages %s could not be fetched, so results may be incomplete.", joinInts(failed))
}

func writeCandidate(b *strings.Builder, c awards.CandidateResult) {
	p := c.Project
	fmt.Fprintf(b, "Project %d %q (PI %s", p.ID, p.Title, orUnknown(p.PI))
	if p.Institution != "" {
		fmt.Fprintf(b, ", %s", p.Institution)
	}
	b.WriteString("): ")

	if len(c.Awards) > 0 {
		fmt.Fprintf(b, "%d validated award(s).", len(c.Awards))
		for _, a := range c.Awards {
			fmt.Fprintf(b, "\n  - %s %q", orUnknown(a.ID), a.Title)
			if a.Amount != "" {
				fmt.Fprintf(b, ", %s", a.Amount)
			}
			fmt.Fprintf(b, "; PI matched as %q; %s.", a.MatchedName, a.TemporalNote)
		}
		return
	}

	b.WriteString("no validated awards found.")
	switch c.Mode {
	case awards.ModeInstitution:
		fmt.Fprintf(b, " Searched %d institution variant(s) (%s) and checked PI name variants such as %s.",
			c.Attempts, quoteList(c.Queried), quoteList(c.NameVariants))
	default:
		fmt.Fprintf(b, " Tried %d name variant(s) (%s).", c.Attempts, quoteList(c.Queried))
	}
	if c.Rejected > 0 {
		fmt.Fprintf(b, " %d returned award(s) were set aside because the PI or institution did not correspond.", c.Rejected)
	}
	if len(c.Failures) > 0 {
		fmt.Fprintf(b, " %d lookup(s) failed.", len(c.Failures))
	}
	b.WriteString(" This does not show the project is unfunded: the PI may be listed under another name or institution, or the award may predate the index.")
}

func quoteList(items []string) string {
	n := min(len(items), maxListedVariants)
	quoted := make([]string, n)
	for i := range n {
		quoted[i] = fmt.Sprintf("%q", items[i])
	}
	s := strings.Join(quoted, ", ")
	if len(items) > n {
		s += fmt.Sprintf(", and %d more", len(items)-n)
	}
	if s == "" {
		return "none"
	}
	return s
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
