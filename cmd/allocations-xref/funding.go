// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/allocations-xref/internal/engine"
)

var fundingCmd = &cobra.Command{
	Use:   "funding",
	Short: "Cross-reference allocation holders with research awards",
	Long: `Funding selects candidate projects by project id, PI name, or
institution and searches the awards service for awards held by their PIs.
Awards are kept only when the PI name and institution match the project;
each is flagged for whether its years overlap the allocation period.

An empty result means no matching award was found with the name and
institution variants tried, not that the project is unfunded.`,
	RunE: runFunding,
}

func init() {
	f := fundingCmd.Flags()
	f.Int("project-id", 0, "analyze a single project")
	f.String("pi", "", "analyze projects whose PI matches this name")
	f.String("institution", "", "analyze projects at this institution")
	f.String("field", "", "filter candidates by field of science")
	f.String("resource", "", "filter candidates by resource name")
	f.String("allocation-type", "", "filter candidates by allocation type")
	f.Int("limit", 0, "maximum candidate projects (default 5, max 20)")
	f.Int("pages", 0, "catalog pages to scan (default 10, max 20)")
	addOutputFlag(fundingCmd)

	rootCmd.AddCommand(fundingCmd)
}

func runFunding(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	req := engine.FundingRequest{}
	req.PIName, _ = f.GetString("pi")
	req.Institution, _ = f.GetString("institution")
	req.FieldOfScience, _ = f.GetString("field")
	req.ResourceName, _ = f.GetString("resource")
	req.AllocationType, _ = f.GetString("allocation-type")
	req.Limit, _ = f.GetInt("limit")
	req.Pages, _ = f.GetInt("pages")
	if f.Changed("project-id") {
		id, _ := f.GetInt("project-id")
		req.ProjectID = &id
	}

	report, err := app.svc.AnalyzeFunding(cmd.Context(), req)
	if err != nil {
		return err
	}
	format, _ := f.GetString("output")
	return render(cmd.OutOrStdout(), format, report, func(w io.Writer) { writeFundingReport(w, report) })
}
