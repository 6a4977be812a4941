// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/repo-scout/internal/pipeline"
)

var assessCmd = &cobra.Command{
	Use:   "assess <query>",
	Short: "Assess repositories for agent-tool suitability",
	Long: `Assess ranks repositories by how well they would serve as tools for a
coding agent: interface clarity, documentation, environment friendliness,
and token economy, totalled on a 0-100 scale with a strong/possible/weak
recommendation per repository.

Language and tool-type flags narrow the search: the language constrains the
repository search directly, and the tool type is added to the query terms.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		language, _ := cmd.Flags().GetString("language")
		toolType, _ := cmd.Flags().GetString("tool-type")
		asJSON, _ := cmd.Flags().GetBool("json")
		maxResults, _ := cmd.Flags().GetInt("max")
		savePath, _ := cmd.Flags().GetString("save")

		runner, err := buildRunner()
		if err != nil {
			return err
		}

		run, err := runner.Assess(cmd.Context(), args[0], language, toolType)
		if err != nil {
			return err
		}
		if savePath != "" {
			if err := pipeline.WriteRunFile(savePath, run); err != nil {
				return err
			}
		}
		if maxResults > 0 && len(run.Scored) > maxResults {
			trimmed := *run
			trimmed.Scored = run.Scored[:maxResults]
			run = &trimmed
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
	assessCmd.Flags().String("language", "", "constrain results to this implementation language")
	assessCmd.Flags().String("tool-type", "", "kind of tool sought (e.g. \"cli\", \"library\", \"mcp server\")")
	assessCmd.Flags().Bool("json", false, "output the full run as JSON")
	assessCmd.Flags().Int("max", 0, "limit the number of ranked results shown (0 = all)")
	assessCmd.Flags().String("save", "", "write the full run to a YAML file")

	rootCmd.AddCommand(assessCmd)
}
