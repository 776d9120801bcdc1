// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate the catalog by field, allocation type, resource, and institution",
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, _ := cmd.Flags().GetInt("pages")
		env, err := app.svc.Statistics(cmd.Context(), pages)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("output")
		return render(cmd.OutOrStdout(), format, env, func(w io.Writer) { writeFacetTable(w, env) })
	},
}

func init() {
	statsCmd.Flags().Int("pages", 0, "catalog pages to analyze (default 10, max 20)")
	addOutputFlag(statsCmd)
	rootCmd.AddCommand(statsCmd)
}
