// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var callCmd = &cobra.Command{
	Use:   "call <operation> [json-arguments]",
	Short: "Run a named operation with JSON arguments and print a JSON response",
	Long: `Call runs one of search_projects, analyze_funding, or get_statistics
with its arguments given as a JSON object, either as the second argument
or on stdin when the argument is "-". The response is always a JSON object
with "ok" and either "result" or "error".`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := callArguments(cmd.InOrStdin(), args[1:])
		if err != nil {
			return err
		}
		resp := app.dispatcher.Handle(cmd.Context(), args[0], raw)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
		if !resp.OK {
			return fmt.Errorf("%s failed: %s", args[0], resp.Error.Code)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
}

func callArguments(stdin io.Reader, rest []string) (json.RawMessage, error) {
	if len(rest) == 0 {
		return nil, nil
	}
	if strings.TrimSpace(rest[0]) != "-" {
		return json.RawMessage(rest[0]), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading arguments from stdin: %w", err)
	}
	return data, nil
}
