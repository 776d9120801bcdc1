// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/allocations-xref/internal/engine"
	"github.com/pdiddy/allocations-xref/pkg/types"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", formatTable, "output format: table, json, or yaml")
}

// render writes v as JSON or YAML, or calls table for the human format.
func render(w io.Writer, format string, v any, table func(io.Writer)) error {
	switch format {
	case formatTable, "":
		table(w)
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q: use table, json, or yaml", format)
	}
}

func writeProjectTable(w io.Writer, env types.Envelope[types.ScoredProject]) {
	if len(env.Items) == 0 {
		fmt.Fprintln(w, "No projects found.")
		writeEnvelopeNotes(w, env.Note, env.PagesFailed)
		return
	}

	fmt.Fprintf(w, "%-4s  %-6s  %-7s  %-45s  %-22s  %-30s  %s\n",
		"Rank", "Score", "ID", "Title", "PI", "Institution", "Field")
	fmt.Fprintln(w, strings.Repeat("-", 140))
	for i, p := range env.Items {
		fmt.Fprintf(w, "%-4d  %-6.2f  %-7d  %-45s  %-22s  %-30s  %s\n",
			i+1, p.Score, p.ID, truncate(p.Title, 45), truncate(p.PI, 22),
			truncate(p.Institution, 30), p.FieldOfScience)
	}
	fmt.Fprintf(w, "\n%d of %d projects\n", len(env.Items), env.Total)
	writeEnvelopeNotes(w, env.Note, env.PagesFailed)
}

func writeFacetTable(w io.Writer, env types.Envelope[types.Facet]) {
	dim := ""
	for _, f := range env.Items {
		if f.Dimension != dim {
			if dim != "" {
				fmt.Fprintln(w)
			}
			dim = f.Dimension
			fmt.Fprintf(w, "%s\n%s\n", dim, strings.Repeat("-", 70))
		}
		fmt.Fprintf(w, "  %-40s  %6d  %16.0f\n", truncate(f.Value, 40), f.Count, f.Amount)
	}
	if len(env.Items) > 0 {
		fmt.Fprintln(w)
	}
	writeEnvelopeNotes(w, env.Note, env.PagesFailed)
}

func writeFundingReport(w io.Writer, r engine.FundingReport) {
	fmt.Fprintf(w, "Run %s (%s: %s)\n\n", r.RunID, r.Mode, r.Subject)
	fmt.Fprintln(w, r.Narrative)
	if len(r.PagesFailed) > 0 {
		fmt.Fprintf(w, "\nPages that could not be fetched: %v\n", r.PagesFailed)
	}
}

func writeEnvelopeNotes(w io.Writer, note string, failed []int) {
	if note != "" {
		fmt.Fprintf(w, "Note: %s\n", note)
	}
	if len(failed) > 0 {
		fmt.Fprintf(w, "Pages that could not be fetched: %v\n", failed)
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
