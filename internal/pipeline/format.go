// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/repo-scout/pkg/types"
)

// FormatTable writes a ranked run as a human-readable table to w. Quality
// runs show the overall score; suitability runs show the total and label.
func FormatTable(run *types.PipelineRun, w io.Writer) {
	if len(run.Scored) == 0 {
		fmt.Fprintln(w, "No repositories found.")
		return
	}

	suitability := run.Scored[0].Suitability != nil
	if suitability {
		fmt.Fprintf(w, "%-4s  %-40s  %-7s  %-5s  %-6s  %-14s  %s\n",
			"Rank", "Repository", "Stars", "Iface", "Docs", "Label", "Total")
	} else {
		fmt.Fprintf(w, "%-4s  %-40s  %-7s  %-8s  %-8s  %-8s  %s\n",
			"Rank", "Repository", "Stars", "Maturity", "Activity", "Relevance", "Overall")
	}
	fmt.Fprintln(w, strings.Repeat("-", 96))

	for _, s := range run.Scored {
		name := s.Repo.FullName()
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		if suitability {
			fmt.Fprintf(w, "%-4d  %-40s  %-7d  %-5.0f  %-6.0f  %-14s  %.0f\n",
				s.Rank, name, s.Repo.Stars,
				s.Suitability.InterfaceClarity, s.Suitability.Documentation,
				s.Suitability.Recommendation, s.Suitability.Total)
		} else {
			fmt.Fprintf(w, "%-4d  %-40s  %-7d  %-8.1f  %-8.1f  %-9.1f  %.1f\n",
				s.Rank, name, s.Repo.Stars,
				s.Quality.Maturity, s.Quality.Activity,
				s.Quality.Relevance, s.Quality.Overall)
		}
	}

	fmt.Fprintf(w, "\n%d repositories", len(run.Scored))
	if run.Candidates.Duplicates > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", run.Candidates.Duplicates)
	}
	if run.Cached {
		fmt.Fprintf(w, " [cached]")
	}
	fmt.Fprintln(w)
}

// FormatJSON writes the full run as indented JSON to w.
func FormatJSON(run *types.PipelineRun, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

// FormatSummary writes the run's funnel counts, timings, cost, and absorbed
// errors to w. Intended for stderr alongside a table on stdout.
func FormatSummary(run *types.PipelineRun, w io.Writer) {
	fmt.Fprintf(w, "Funnel: %d fetched, %d duplicates, %d scored\n",
		run.Candidates.Fetched, run.Candidates.Duplicates, run.Candidates.Working)
	if run.Cost.LLMCalls > 0 {
		fmt.Fprintf(w, "Cost: %d model calls, ~%d tokens ($%.4f est.)\n",
			run.Cost.LLMCalls, run.Cost.Tokens, run.Cost.EstimatedUSD)
	}
	if d, ok := run.Timings["total"]; ok {
		fmt.Fprintf(w, "Elapsed: %s\n", d.Round(time.Millisecond))
	}
	for _, e := range run.Errors {
		fmt.Fprintf(w, "Warning (%s): %s\n", e.Stage, e.Message)
	}
}
