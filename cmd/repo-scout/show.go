// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/repo-scout/internal/pipeline"
)

var showCmd = &cobra.Command{
	Use:   "show <run-file>",
	Short: "Display a previously saved run",
	Long: `Show reloads a run saved with --save and prints its ranking, without
touching the search API or the model.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		run, err := pipeline.ReadRunFile(args[0])
		if err != nil {
			return err
		}

		if asJSON {
			return pipeline.FormatJSON(run, os.Stdout)
		}
		pipeline.FormatTable(run, os.Stdout)
		pipeline.FormatSummary(run, os.Stderr)
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("json", false, "output the full run as JSON")

	rootCmd.AddCommand(showCmd)
}
