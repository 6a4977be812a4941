// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scout retrieves candidate repositories from the code-host search
// API using several independent query strategies, merges and deduplicates the
// results, and reduces them to a bounded working set.
package scout

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/repo-scout/pkg/types"
)

// Output holds the merged candidate set and per-strategy failure records.
type Output struct {
	Candidates  []types.CandidateRepository
	DupsRemoved int
	Failures    []*types.StrategyError
}

// Scout fans the spec out to all strategies concurrently, joins on all of
// them, deduplicates by owner/name preserving first-seen order, and applies
// the post-filters. A strategy failure degrades to an empty result for that
// strategy only; Scout fails as a whole only when every strategy failed or
// the merged set is empty.
func Scout(ctx context.Context, client *Client, spec types.SearchSpec, cfg types.ScoutConfig, w io.Writer) (Output, error) {
	if err := spec.Validate(); err != nil {
		return Output{}, err
	}

	strategies := Strategies(spec)

	type strategyResult struct {
		name    string
		results []types.CandidateRepository
		err     error
	}

	ch := make(chan strategyResult, len(strategies))
	var wg sync.WaitGroup

	for _, s := range strategies {
		wg.Add(1)
		go func(s Strategy) {
			defer wg.Done()
			results, err := s.Run(ctx, client, spec, cfg)
			ch <- strategyResult{name: s.Name(), results: results, err: err}
		}(s)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []types.CandidateRepository
	var failures []*types.StrategyError
	succeeded := 0
	for sr := range ch {
		if sr.err != nil {
			failures = append(failures, &types.StrategyError{Strategy: sr.name, Err: sr.err})
			fmt.Fprintf(w, "warning: strategy %s failed: %v\n", sr.name, sr.err)
			continue
		}
		succeeded++
		all = append(all, sr.results...)
	}

	merged, removed := deduplicate(all)
	merged = postFilter(merged, cfg)

	if cfg.MaxCandidates > 0 && len(merged) > cfg.MaxCandidates {
		merged = merged[:cfg.MaxCandidates]
	}

	if len(merged) == 0 {
		if succeeded == 0 && len(failures) > 0 {
			return Output{Failures: failures}, fmt.Errorf("all %d search strategies failed: %v", len(failures), failures[0])
		}
		return Output{Failures: failures, DupsRemoved: removed}, fmt.Errorf("no candidate repositories found for keywords %v", spec.Keywords)
	}

	return Output{Candidates: merged, DupsRemoved: removed, Failures: failures}, nil
}

// deduplicate removes repeated identities, keeping the first-seen snapshot.
func deduplicate(candidates []types.CandidateRepository) ([]types.CandidateRepository, int) {
	seen := make(map[string]bool, len(candidates))
	deduped := make([]types.CandidateRepository, 0, len(candidates))
	removed := 0

	for _, c := range candidates {
		key := c.FullName()
		if seen[key] {
			removed++
			continue
		}
		seen[key] = true
		deduped = append(deduped, c)
	}
	return deduped, removed
}

// postFilter drops archived repositories and trivial forks. A fork that has
// accrued stars at or above the threshold is kept: it has independent life.
func postFilter(candidates []types.CandidateRepository, cfg types.ScoutConfig) []types.CandidateRepository {
	kept := candidates[:0]
	for _, c := range candidates {
		if c.IsArchived {
			continue
		}
		if c.IsFork && c.Stars < cfg.ForkStarThreshold {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
