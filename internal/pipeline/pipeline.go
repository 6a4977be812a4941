// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires the discovery stages together: translate, scout,
// coarse-filter, score, evaluate, aggregate. Partial failures accumulate on
// the run; only a translator with no keywords or a scout with no candidates
// fails the run as a whole.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/repo-scout/internal/cache"
	"github.com/pdiddy/repo-scout/internal/evaluate"
	"github.com/pdiddy/repo-scout/internal/rank"
	"github.com/pdiddy/repo-scout/internal/scout"
	"github.com/pdiddy/repo-scout/internal/score"
	"github.com/pdiddy/repo-scout/internal/translate"
	"github.com/pdiddy/repo-scout/pkg/types"
)

// Runner executes discovery runs. Construct with NewRunner; the zero value
// is not usable.
type Runner struct {
	translator *translate.Translator
	client     *scout.Client
	evaluator  *evaluate.Evaluator
	cfg        types.PipelineConfig
	weights    types.QualityWeights
	store      cache.Store
	events     chan<- Event
	w          io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithEvents subscribes a progress event channel. Events are sent
// non-blockingly; the subscriber may lag or disappear freely.
func WithEvents(ch chan<- Event) Option {
	return func(r *Runner) { r.events = ch }
}

// WithWeights overrides the default quality weight vector.
func WithWeights(w types.QualityWeights) Option {
	return func(r *Runner) { r.weights = w }
}

// WithOutput directs human-readable progress warnings to w (default:
// discarded).
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.w = w }
}

// WithCache injects a result cache store. Without one, every run is fresh.
func WithCache(store cache.Store) Option {
	return func(r *Runner) { r.store = store }
}

// NewRunner assembles a pipeline from its stages.
func NewRunner(translator *translate.Translator, client *scout.Client, evaluator *evaluate.Evaluator, cfg types.PipelineConfig, opts ...Option) *Runner {
	r := &Runner{
		translator: translator,
		client:     client,
		evaluator:  evaluator,
		cfg:        cfg,
		weights:    types.DefaultQualityWeights(),
		w:          io.Discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	rank.CheckWeights(r.weights)
	return r
}

// Run executes a full quality-variant discovery run for the query. The
// returned run is frozen: the caller may read it freely but the cache holds
// the same value.
func (r *Runner) Run(ctx context.Context, query string, mode types.Mode) (*types.PipelineRun, error) {
	if r.store != nil {
		if hit, ok := r.store.Get(query, mode); ok {
			return hit, nil
		}
	}

	run := &types.PipelineRun{
		Query:     query,
		Mode:      mode,
		StartedAt: time.Now(),
		Timings:   make(map[string]time.Duration),
	}

	working, err := r.gather(ctx, run, query, mode)
	if err != nil {
		return nil, err
	}

	r.emit(EventStageStarted, "score", len(working))
	t0 := time.Now()

	// Deterministic scoring and the model batch run side by side; both
	// consume the immutable working set.
	judgedCh := make(chan evaluate.BatchOutput[evaluate.QualityJudgment], 1)
	go func() {
		judgedCh <- r.evaluator.QualityBatch(ctx, working, query)
	}()

	now := time.Now()
	deterministic := make(map[string]types.QualityScores, len(working))
	for _, repo := range working {
		deterministic[repo.FullName()] = score.Metadata(repo, now)
	}

	judged := <-judgedCh
	for _, f := range judged.Failures {
		run.RecordError("evaluate", f)
	}
	run.Cost.Add(judged.Cost)
	run.RecordTiming("score", time.Since(t0))
	r.emit(EventStageCompleted, "score", len(working))

	scored := make([]types.ScoredRepository, 0, len(working))
	for _, repo := range working {
		qs := rank.AggregateQuality(deterministic[repo.FullName()], judged.Judgments[repo.FullName()], r.weights)
		scored = append(scored, types.ScoredRepository{Repo: repo, Quality: &qs})
	}
	run.Scored = rank.Rank(scored)

	r.finish(run, query, mode)
	return run, nil
}

// Assess executes the suitability-variant run: structural dimensions from
// metadata plus model-judged documentation and token economy, totalled on
// the 0-100 scale.
func (r *Runner) Assess(ctx context.Context, query, language, toolType string) (*types.PipelineRun, error) {
	mode := types.ModeFocused
	cacheKeyQuery := query + " " + language + " " + toolType
	if r.store != nil {
		if hit, ok := r.store.Get(cacheKeyQuery, mode); ok {
			return hit, nil
		}
	}

	run := &types.PipelineRun{
		Query:     query,
		Mode:      mode,
		StartedAt: time.Now(),
		Timings:   make(map[string]time.Duration),
	}

	working, err := r.gatherAssess(ctx, run, query, language, toolType)
	if err != nil {
		return nil, err
	}

	r.emit(EventStageStarted, "score", len(working))
	t0 := time.Now()

	judgedCh := make(chan evaluate.BatchOutput[evaluate.SuitabilityJudgment], 1)
	go func() {
		judgedCh <- r.evaluator.SuitabilityBatch(ctx, working, query)
	}()

	now := time.Now()
	structural := make(map[string]types.SuitabilityScores, len(working))
	for _, repo := range working {
		structural[repo.FullName()] = score.Structural(repo, now)
	}

	judged := <-judgedCh
	for _, f := range judged.Failures {
		run.RecordError("evaluate", f)
	}
	run.Cost.Add(judged.Cost)
	run.RecordTiming("score", time.Since(t0))
	r.emit(EventStageCompleted, "score", len(working))

	scored := make([]types.ScoredRepository, 0, len(working))
	for _, repo := range working {
		ss := rank.AggregateSuitability(structural[repo.FullName()], judged.Judgments[repo.FullName()])
		scored = append(scored, types.ScoredRepository{Repo: repo, Suitability: &ss})
	}
	run.Scored = rank.Rank(scored)

	r.finish(run, cacheKeyQuery, mode)
	return run, nil
}

// gather runs translate, scout, and the coarse filter, recording timings and
// absorbed failures on the run. Its error return is fatal.
func (r *Runner) gather(ctx context.Context, run *types.PipelineRun, query string, mode types.Mode) ([]types.CandidateRepository, error) {
	r.emit(EventStageStarted, "translate", 0)
	t0 := time.Now()
	translated, err := r.translator.Translate(ctx, query, mode)
	run.RecordTiming("translate", time.Since(t0))
	if err != nil {
		return nil, err
	}
	if translated.Fallback != nil {
		run.RecordError("translate", translated.Fallback)
	}
	run.Spec = translated.Spec
	r.emit(EventStageCompleted, "translate", len(translated.Spec.Keywords))

	return r.scoutAndFilter(ctx, run)
}

// gatherAssess is gather for the suitability variant: caller-supplied
// language and tool type constrain the translated spec.
func (r *Runner) gatherAssess(ctx context.Context, run *types.PipelineRun, query, language, toolType string) ([]types.CandidateRepository, error) {
	r.emit(EventStageStarted, "translate", 0)
	t0 := time.Now()
	translated, err := r.translator.Translate(ctx, query, types.ModeFocused)
	run.RecordTiming("translate", time.Since(t0))
	if err != nil {
		return nil, err
	}
	if translated.Fallback != nil {
		run.RecordError("translate", translated.Fallback)
	}

	spec := translated.Spec
	if language != "" {
		spec.Language = language
	}
	if toolType != "" {
		spec.Keywords = appendUnique(spec.Keywords, toolType)
	}
	run.Spec = spec
	r.emit(EventStageCompleted, "translate", len(spec.Keywords))

	return r.scoutAndFilter(ctx, run)
}

func (r *Runner) scoutAndFilter(ctx context.Context, run *types.PipelineRun) ([]types.CandidateRepository, error) {
	r.emit(EventStageStarted, "scout", 0)
	t0 := time.Now()
	out, err := scout.Scout(ctx, r.client, run.Spec, r.cfg.Scout, r.w)
	run.RecordTiming("scout", time.Since(t0))
	for _, f := range out.Failures {
		run.RecordError("scout", f)
	}
	if err != nil {
		return nil, fmt.Errorf("scouting candidates: %w", err)
	}
	run.Candidates.Fetched = len(out.Candidates)
	run.Candidates.Duplicates = out.DupsRemoved
	r.emit(EventStageCompleted, "scout", len(out.Candidates))

	working := scout.CoarseFilter(out.Candidates, r.cfg.Coarse, time.Now())
	run.Candidates.Working = len(working)
	r.emit(EventStageCompleted, "coarse_filter", len(working))
	return working, nil
}

// finish freezes the run, stores it, and emits the terminal event.
func (r *Runner) finish(run *types.PipelineRun, cacheQuery string, mode types.Mode) {
	run.RecordTiming("total", time.Since(run.StartedAt))
	if r.store != nil {
		r.store.Set(cacheQuery, mode, run)
	}
	r.emit(EventRunCompleted, "pipeline", len(run.Scored))
}

// RunWithDeadline races Run against an overall deadline. On expiry the
// still-in-flight run is discarded, not cancelled: its sub-calls own their
// per-call timeouts and will wind down on their own.
func (r *Runner) RunWithDeadline(ctx context.Context, query string, mode types.Mode, deadline time.Duration) (*types.PipelineRun, error) {
	type result struct {
		run *types.PipelineRun
		err error
	}

	ch := make(chan result, 1)
	go func() {
		run, err := r.Run(ctx, query, mode)
		ch <- result{run, err}
	}()

	select {
	case res := <-ch:
		return res.run, res.err
	case <-time.After(deadline):
		return nil, &types.TimeoutError{Op: "pipeline", Timeout: deadline}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func appendUnique(terms []string, term string) []string {
	for _, t := range terms {
		if t == term {
			return terms
		}
	}
	return append(terms, term)
}
