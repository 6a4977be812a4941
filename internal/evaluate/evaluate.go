// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evaluate produces the judgment-based score dimensions with a
// bounded-concurrency batch of model calls. Every per-repository failure —
// timeout, malformed JSON, out-of-range fields — is isolated: that
// repository gets the fixed neutral fallback and its siblings proceed.
package evaluate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/pdiddy/repo-scout/internal/llm"
	"github.com/pdiddy/repo-scout/internal/score"
	"github.com/pdiddy/repo-scout/pkg/types"
)

// Neutral fallback values substituted when a model call fails.
const (
	neutralQuality      = 5.0  // midpoint of the 0-10 scale
	neutralDocACS       = 15.0 // midpoint of the 0-30 scale
	neutralTokenEconomy = 10.0 // midpoint of the 0-20 scale
)

// QualityJudgment holds the model-estimated quality dimensions, clamped to
// [0, 10].
type QualityJudgment struct {
	Documentation float64
	EaseOfUse     float64
	Relevance     float64
}

// SuitabilityJudgment holds the model-estimated suitability dimensions,
// clamped to their sub-ranges, plus the label the model reported. The label
// is advisory only: the aggregator rederives it from the recomputed total.
type SuitabilityJudgment struct {
	Documentation float64
	TokenEconomy  float64
	ReportedLabel string
}

// Evaluator runs batches of per-repository model judgments.
type Evaluator struct {
	backend llm.Backend
	fetcher *Fetcher
	trunc   *Truncator
	cfg     types.EvaluateConfig
	logger  *slog.Logger
}

// New builds an Evaluator. fetcher may be nil, in which case the model
// judges metadata alone.
func New(backend llm.Backend, fetcher *Fetcher, cfg types.EvaluateConfig) *Evaluator {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 8 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.ContextTokenBudget <= 0 {
		cfg.ContextTokenBudget = 1500
	}
	return &Evaluator{
		backend: backend,
		fetcher: fetcher,
		trunc:   NewTruncator(),
		cfg:     cfg,
		logger:  slog.Default().With("component", "evaluate"),
	}
}

// BatchOutput collects per-identity judgments with the failures that were
// absorbed and the accumulated model cost.
type BatchOutput[J any] struct {
	Judgments map[string]J
	Failures  []*types.StrategyError
	Cost      types.Cost
}

// QualityBatch judges documentation, ease of use, and relevance for each
// repository, under the configured concurrency cap.
func (e *Evaluator) QualityBatch(ctx context.Context, repos []types.CandidateRepository, query string) BatchOutput[QualityJudgment] {
	return runBatch(e, ctx, repos, func(raw string) (QualityJudgment, error) {
		var resp struct {
			Documentation *float64 `json:"documentation"`
			EaseOfUse     *float64 `json:"ease_of_use"`
			Relevance     *float64 `json:"relevance"`
		}
		if err := json.Unmarshal([]byte(llm.CleanJSON(raw)), &resp); err != nil {
			return QualityJudgment{}, &types.ParseError{Stage: "evaluate", Reason: err.Error()}
		}
		if resp.Documentation == nil || resp.EaseOfUse == nil || resp.Relevance == nil {
			return QualityJudgment{}, &types.ParseError{Stage: "evaluate", Reason: "missing required score field"}
		}
		return QualityJudgment{
			Documentation: score.Round1(score.Clamp10(*resp.Documentation)),
			EaseOfUse:     score.Round1(score.Clamp10(*resp.EaseOfUse)),
			Relevance:     score.Round1(score.Clamp10(*resp.Relevance)),
		}, nil
	}, qualitySystemPrompt, query, QualityJudgment{
		Documentation: neutralQuality,
		EaseOfUse:     neutralQuality,
		Relevance:     neutralQuality,
	})
}

// SuitabilityBatch judges documentation and token economy for each
// repository.
func (e *Evaluator) SuitabilityBatch(ctx context.Context, repos []types.CandidateRepository, query string) BatchOutput[SuitabilityJudgment] {
	return runBatch(e, ctx, repos, func(raw string) (SuitabilityJudgment, error) {
		var resp struct {
			Documentation  *float64 `json:"documentation"`
			TokenEconomy   *float64 `json:"token_economy"`
			Recommendation string   `json:"recommendation"`
		}
		if err := json.Unmarshal([]byte(llm.CleanJSON(raw)), &resp); err != nil {
			return SuitabilityJudgment{}, &types.ParseError{Stage: "evaluate", Reason: err.Error()}
		}
		if resp.Documentation == nil || resp.TokenEconomy == nil {
			return SuitabilityJudgment{}, &types.ParseError{Stage: "evaluate", Reason: "missing required score field"}
		}
		// Clamp each sub-score into its declared bound; a reported 35 on
		// the 0-30 documentation scale stores as 30.
		return SuitabilityJudgment{
			Documentation: score.Round1(score.Clamp(*resp.Documentation, 0, 30)),
			TokenEconomy:  score.Round1(score.Clamp(*resp.TokenEconomy, 0, 20)),
			ReportedLabel: resp.Recommendation,
		}, nil
	}, suitabilitySystemPrompt, query, SuitabilityJudgment{
		Documentation: neutralDocACS,
		TokenEconomy:  neutralTokenEconomy,
	})
}

// runBatch dispatches one model call per repository through a fixed-size
// worker pool. The batch is processed to completion before returning; there
// is no dynamic scaling and no short-circuiting.
func runBatch[J any](e *Evaluator, ctx context.Context, repos []types.CandidateRepository, parse func(string) (J, error), system, query string, neutral J) BatchOutput[J] {
	out := BatchOutput[J]{Judgments: make(map[string]J, len(repos))}
	if len(repos) == 0 {
		return out
	}

	pool, err := ants.NewPool(e.cfg.Concurrency)
	if err != nil {
		// Pool construction only fails on invalid size; degrade to the
		// neutral set rather than dropping the stage.
		for _, repo := range repos {
			out.Judgments[repo.FullName()] = neutral
		}
		out.Failures = append(out.Failures, &types.StrategyError{Strategy: "evaluate", Err: err})
		return out
	}
	defer pool.Release()

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, repo := range repos {
		repo := repo
		wg.Add(1)
		task := func() {
			defer wg.Done()
			judgment, cost, jerr := evaluateOne(e, ctx, repo, parse, system, query, neutral)

			mu.Lock()
			defer mu.Unlock()
			out.Judgments[repo.FullName()] = judgment
			out.Cost.Add(cost)
			if jerr != nil {
				out.Failures = append(out.Failures, &types.StrategyError{
					Strategy: "evaluate " + repo.FullName(),
					Err:      jerr,
				})
			}
		}
		if err := pool.Submit(task); err != nil {
			// A released or overloaded pool falls back to inline execution;
			// the batch must still return a judgment for every repository.
			task()
		}
	}
	wg.Wait()

	return out
}

// evaluateOne runs a single judgment call. Any failure returns the neutral
// fallback and the reason; the cost of a failed call is still counted.
func evaluateOne[J any](e *Evaluator, ctx context.Context, repo types.CandidateRepository, parse func(string) (J, error), system, query string, neutral J) (J, types.Cost, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	defer cancel()

	var rc RepoContext
	if e.fetcher != nil {
		rc = e.fetcher.Fetch(callCtx, repo)
	}
	rc.Readme = e.trunc.Truncate(rc.Readme, e.cfg.ContextTokenBudget)
	rc.FileTree = e.trunc.Truncate(rc.FileTree, 200)

	user, err := renderUserPrompt(query, repo, rc)
	if err != nil {
		return neutral, types.Cost{}, err
	}

	raw, err := e.backend.Complete(callCtx, system, user)

	cost := types.Cost{LLMCalls: 1, Tokens: e.trunc.Count(system) + e.trunc.Count(user) + e.trunc.Count(raw)}
	cost.EstimatedUSD = float64(cost.Tokens) / 1000 * e.cfg.USDPerThousandTokens

	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return neutral, cost, &types.TimeoutError{Op: "evaluate " + repo.FullName(), Timeout: e.cfg.CallTimeout}
	}
	if err != nil {
		return neutral, cost, fmt.Errorf("model call: %w", err)
	}

	judgment, err := parse(raw)
	if err != nil {
		e.logger.Warn("unusable model judgment", "repo", repo.FullName(), "err", err)
		return neutral, cost, err
	}
	return judgment, cost, nil
}
