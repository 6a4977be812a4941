// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/repo-scout/internal/cache"
	"github.com/pdiddy/repo-scout/internal/evaluate"
	"github.com/pdiddy/repo-scout/internal/llm"
	"github.com/pdiddy/repo-scout/internal/pipeline"
	"github.com/pdiddy/repo-scout/internal/scout"
	"github.com/pdiddy/repo-scout/internal/translate"
	"github.com/pdiddy/repo-scout/pkg/types"
)

// resultCache is shared across commands within one process so repeated
// queries hit the cache.
var resultCache *cache.ResultCache

var discoverCmd = &cobra.Command{
	Use:   "discover <query>",
	Short: "Discover and rank repositories matching a free-text request",
	Long: `Discover translates a free-text request into a structured repository
search, runs several search strategies concurrently, filters the merged
candidates, and ranks the survivors by a seven-dimension quality score.

The mode flag trades precision for breadth: focused keeps the query terms
as given, balanced adds a few related terms, exploratory expands
aggressively across the problem space.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modeFlag, _ := cmd.Flags().GetString("mode")
		asJSON, _ := cmd.Flags().GetBool("json")
		maxResults, _ := cmd.Flags().GetInt("max")
		savePath, _ := cmd.Flags().GetString("save")

		mode, err := types.ParseMode(modeFlag)
		if err != nil {
			return err
		}

		runner, err := buildRunner()
		if err != nil {
			return err
		}

		run, err := runner.Run(cmd.Context(), args[0], mode)
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
	discoverCmd.Flags().String("mode", "balanced", "search mode: focused, balanced, or exploratory")
	discoverCmd.Flags().Bool("json", false, "output the full run as JSON")
	discoverCmd.Flags().Int("max", 0, "limit the number of ranked results shown (0 = all)")
	discoverCmd.Flags().String("save", "", "write the full run to a YAML file")

	rootCmd.AddCommand(discoverCmd)
}

// buildRunner assembles the pipeline from configuration. The model backend
// is constructed even when no API key is present: the translator falls back
// to rule-based extraction and the evaluator to neutral scores, so a keyless
// run still produces a ranking.
func buildRunner() (*pipeline.Runner, error) {
	cfg := pipelineConfig()

	backend, err := llm.NewOpenAI(cfg.Translate.LLMConfig)
	if err != nil {
		return nil, fmt.Errorf("constructing model backend: %w", err)
	}

	translator := translate.New(backend, cfg.Translate)
	client := scout.NewClient(cfg.Scout)
	fetcher := &evaluate.Fetcher{
		HTTP:      &http.Client{Timeout: cfg.Scout.Timeout},
		Token:     cfg.Scout.Token,
		UserAgent: cfg.Scout.UserAgent,
	}
	evaluator := evaluate.New(backend, fetcher, cfg.Evaluate)

	if resultCache == nil {
		resultCache = cache.New(cfg.Cache)
	}

	return pipeline.NewRunner(translator, client, evaluator, cfg,
		pipeline.WithCache(resultCache),
		pipeline.WithOutput(os.Stderr),
	), nil
}
