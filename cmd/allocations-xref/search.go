// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/allocations-xref/internal/engine"
	"github.com/pdiddy/allocations-xref/internal/query"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search or browse allocation projects",
	Long: `Search ranks catalog projects against a boolean keyword query, finds
projects similar to a reference project or keyword set, looks up one
project by id, or browses by filter alone.

Queries are flat: AND, OR, and NOT apply to the single word that follows
them and there is no grouping. AND words must all appear, a NOT word
excludes the project, and OR words, quoted phrases, and plain words add
to the score. Use --save to write the request and results to a YAML query
file that "show" can display later.`,
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.String("query", "", "boolean keyword query (positional arguments are joined when omitted)")
	f.Int("project-id", 0, "look up a single project by id")
	f.Int("similar-to", 0, "rank projects by similarity to this project id")
	f.String("keywords", "", "rank projects by similarity to these keywords")
	f.String("field", "", "filter by field of science")
	f.String("resource", "", "filter by resource name")
	f.String("allocation-type", "", "filter by allocation type")
	f.String("sort", "", "sort order: "+sortModeList())
	f.Int("limit", 0, "maximum results (default 20, max 100)")
	f.Int("pages", 0, "catalog pages to scan (default 10, max 20)")
	f.Float64("threshold", 0, "minimum similarity score for --similar-to and --keywords")
	f.Bool("same-field", true, "favor similar projects in the reference project's field")
	f.String("save", "", "write the request and results to this YAML file")
	addOutputFlag(searchCmd)

	rootCmd.AddCommand(searchCmd)
}

func sortModeList() string {
	names := make([]string, len(query.SortModes))
	for i, m := range query.SortModes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

func runSearch(cmd *cobra.Command, args []string) error {
	req := searchRequestFromFlags(cmd, args)
	env, err := app.svc.Search(cmd.Context(), req)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := engine.WriteQueryFile(path, req, env, time.Now()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved query to %s\n", path)
	}

	format, _ := cmd.Flags().GetString("output")
	return render(cmd.OutOrStdout(), format, env, func(w io.Writer) { writeProjectTable(w, env) })
}

func searchRequestFromFlags(cmd *cobra.Command, args []string) engine.SearchRequest {
	f := cmd.Flags()
	req := engine.SearchRequest{}
	req.Query, _ = f.GetString("query")
	if req.Query == "" && len(args) > 0 {
		req.Query = strings.Join(args, " ")
	}
	req.SimilarityKeywords, _ = f.GetString("keywords")
	req.FieldOfScience, _ = f.GetString("field")
	req.ResourceName, _ = f.GetString("resource")
	req.AllocationType, _ = f.GetString("allocation-type")
	req.SortBy, _ = f.GetString("sort")
	req.Limit, _ = f.GetInt("limit")
	req.Pages, _ = f.GetInt("pages")

	if f.Changed("project-id") {
		id, _ := f.GetInt("project-id")
		req.ProjectID = &id
	}
	if f.Changed("similar-to") {
		id, _ := f.GetInt("similar-to")
		req.SimilarTo = &id
	}
	if f.Changed("threshold") {
		t, _ := f.GetFloat64("threshold")
		req.SimilarityThreshold = &t
	}
	if f.Changed("same-field") {
		same, _ := f.GetBool("same-field")
		req.IncludeSameField = &same
	}
	return req
}

var showCmd = &cobra.Command{
	Use:         "show <query-file>",
	Short:       "Display a query file saved by search --save",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{"offline": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		qf, err := engine.ReadQueryFile(args[0])
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("output")
		if format == formatTable || format == "" {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Saved %s\n\n", qf.Summary.Timestamp.Format(time.RFC3339))
			writeProjectTable(out, qf.Envelope())
			return nil
		}
		return render(cmd.OutOrStdout(), format, qf, nil)
	},
}

func init() {
	addOutputFlag(showCmd)
	rootCmd.AddCommand(showCmd)
}
