// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/repo-scout/internal/cache"
	"github.com/pdiddy/repo-scout/internal/evaluate"
	"github.com/pdiddy/repo-scout/internal/scout"
	"github.com/pdiddy/repo-scout/internal/translate"
	"github.com/pdiddy/repo-scout/pkg/types"
)

// stubBackend answers translate and evaluate calls from canned responses,
// discriminating on the system prompt.
type stubBackend struct {
	translateResp string
	evaluateResp  string
	err           error
}

func (s *stubBackend) Complete(_ context.Context, system, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if strings.Contains(system, "query translator") {
		return s.translateResp, nil
	}
	return s.evaluateResp, nil
}

// cannedSearch serves the same repository list for every search request,
// whatever URL the client asks for.
type cannedSearch struct {
	items []map[string]any
	fail  bool
}

func (c *cannedSearch) RoundTrip(_ *http.Request) (*http.Response, error) {
	if c.fail {
		return &http.Response{
			StatusCode: http.StatusInternalServerError,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     http.Header{},
		}, nil
	}
	body, _ := json.Marshal(map[string]any{
		"total_count": len(c.items),
		"items":       c.items,
	})
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     http.Header{"Content-Type": {"application/json"}},
	}, nil
}

func repoJSON(owner, name string, stars int, archived bool) map[string]any {
	now := time.Now()
	return map[string]any{
		"name":              name,
		"full_name":         owner + "/" + name,
		"owner":             map[string]any{"login": owner},
		"html_url":          "https://example.com/" + owner + "/" + name,
		"description":       "test repository " + name,
		"stargazers_count":  stars,
		"forks_count":       stars / 10,
		"open_issues_count": 5,
		"language":          "Go",
		"topics":            []string{"cli"},
		"size":              800,
		"fork":              false,
		"archived":          archived,
		"created_at":        now.AddDate(-2, 0, 0).Format(time.RFC3339),
		"updated_at":        now.AddDate(0, 0, -3).Format(time.RFC3339),
		"pushed_at":         now.AddDate(0, 0, -3).Format(time.RFC3339),
	}
}

const translateJSON = `{"keywords": ["markdown", "parser"], "expanded_keywords": [], "language": "go", "star_min": 100, "star_max": 0, "topics": []}`
const qualityJSON = `{"documentation": 8.0, "ease_of_use": 7.0, "relevance": 9.0}`
const suitabilityJSON = `{"documentation": 25, "token_economy": 16, "recommendation": "strong_match"}`

func testRunner(t *testing.T, backend *stubBackend, search http.RoundTripper, opts ...Option) *Runner {
	t.Helper()
	cfg := types.DefaultPipelineConfig()
	cfg.Evaluate.Concurrency = 2
	cfg.Evaluate.CallTimeout = time.Second
	cfg.Translate.CallTimeout = time.Second

	translator := translate.New(backend, cfg.Translate)
	client := &scout.Client{HTTP: &http.Client{Transport: search}}
	evaluator := evaluate.New(backend, nil, cfg.Evaluate)
	return NewRunner(translator, client, evaluator, cfg, opts...)
}

func TestRunEndToEnd(t *testing.T) {
	backend := &stubBackend{translateResp: translateJSON, evaluateResp: qualityJSON}
	search := &cannedSearch{items: []map[string]any{
		repoJSON("alice", "mistune", 3000, false),
		repoJSON("bob", "marko", 800, false),
		repoJSON("carol", "dead", 900, true),
	}}

	runner := testRunner(t, backend, search)
	run, err := runner.Run(context.Background(), "popular markdown parser", types.ModeBalanced)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// The archived repository is dropped by the scout post-filter.
	if len(run.Scored) != 2 {
		t.Fatalf("len(Scored) = %d, want 2", len(run.Scored))
	}
	if run.Scored[0].Rank != 1 || run.Scored[1].Rank != 2 {
		t.Errorf("ranks = %d, %d", run.Scored[0].Rank, run.Scored[1].Rank)
	}
	if run.Scored[0].Total() < run.Scored[1].Total() {
		t.Errorf("ordering broken: %f before %f", run.Scored[0].Total(), run.Scored[1].Total())
	}
	for _, s := range run.Scored {
		if s.Quality == nil {
			t.Fatal("quality runs must carry quality scores")
		}
		if s.Quality.Documentation != 8.0 || s.Quality.Relevance != 9.0 {
			t.Errorf("judged dimensions = %+v", s.Quality)
		}
		if s.Quality.Overall <= 0 {
			t.Errorf("Overall = %f, want > 0", s.Quality.Overall)
		}
	}

	if run.Candidates.Working != 2 {
		t.Errorf("Working = %d, want 2", run.Candidates.Working)
	}
	if run.Cached {
		t.Error("a fresh run must not be marked cached")
	}
	for _, stage := range []string{"translate", "scout", "score", "total"} {
		if _, ok := run.Timings[stage]; !ok {
			t.Errorf("missing timing for %q", stage)
		}
	}
	if run.Cost.LLMCalls != 2 {
		t.Errorf("Cost.LLMCalls = %d, want 2 evaluation calls", run.Cost.LLMCalls)
	}
}

func TestRunCacheHit(t *testing.T) {
	backend := &stubBackend{translateResp: translateJSON, evaluateResp: qualityJSON}
	search := &cannedSearch{items: []map[string]any{repoJSON("alice", "mistune", 3000, false)}}
	store := cache.New(types.CacheConfig{Capacity: 8, TTL: time.Minute})

	runner := testRunner(t, backend, search, WithCache(store))

	first, err := runner.Run(context.Background(), "Markdown Parser", types.ModeBalanced)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if first.Cached {
		t.Error("first run must be fresh")
	}

	// Same query modulo case and whitespace: served from cache.
	search.fail = true
	second, err := runner.Run(context.Background(), "  markdown parser ", types.ModeBalanced)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if !second.Cached {
		t.Error("second run should be served from cache")
	}
	if len(second.Scored) != len(first.Scored) {
		t.Errorf("cached run differs: %d vs %d results", len(second.Scored), len(first.Scored))
	}

	// A different mode is a different cache identity.
	if _, err := runner.Run(context.Background(), "markdown parser", types.ModeFocused); err == nil {
		t.Error("different mode should miss the cache and hit the failing search")
	}
}

func TestRunTranslatorDegrades(t *testing.T) {
	backend := &stubBackend{translateResp: "not json at all", evaluateResp: qualityJSON}
	search := &cannedSearch{items: []map[string]any{repoJSON("alice", "mistune", 3000, false)}}

	runner := testRunner(t, backend, search)
	run, err := runner.Run(context.Background(), "python markdown parser", types.ModeBalanced)
	if err != nil {
		t.Fatalf("Run() error = %v; fallback should keep the run alive", err)
	}

	found := false
	for _, e := range run.Errors {
		if e.Stage == "translate" {
			found = true
		}
	}
	if !found {
		t.Errorf("Errors = %v, want a recorded translate degradation", run.Errors)
	}
	if len(run.Scored) == 0 {
		t.Error("degraded run should still produce results")
	}
}

func TestRunFatalOnNoCandidates(t *testing.T) {
	backend := &stubBackend{translateResp: translateJSON, evaluateResp: qualityJSON}
	search := &cannedSearch{items: nil}

	runner := testRunner(t, backend, search)
	if _, err := runner.Run(context.Background(), "markdown parser", types.ModeBalanced); err == nil {
		t.Fatal("zero candidates must fail the run")
	}
}

func TestRunFatalOnEmptyQuery(t *testing.T) {
	backend := &stubBackend{translateResp: translateJSON}
	runner := testRunner(t, backend, &cannedSearch{})
	if _, err := runner.Run(context.Background(), "   ", types.ModeBalanced); err == nil {
		t.Fatal("empty query must fail the run")
	}
}

func TestRunEmitsEvents(t *testing.T) {
	backend := &stubBackend{translateResp: translateJSON, evaluateResp: qualityJSON}
	search := &cannedSearch{items: []map[string]any{repoJSON("alice", "mistune", 3000, false)}}

	events := make(chan Event, 64)
	runner := testRunner(t, backend, search, WithEvents(events))

	if _, err := runner.Run(context.Background(), "markdown parser", types.ModeBalanced); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	close(events)

	kinds := map[EventKind]int{}
	stages := map[string]bool{}
	for e := range events {
		kinds[e.Kind]++
		stages[e.Stage] = true
	}
	if kinds[EventRunCompleted] != 1 {
		t.Errorf("run_completed count = %d, want 1", kinds[EventRunCompleted])
	}
	for _, stage := range []string{"translate", "scout", "coarse_filter", "score"} {
		if !stages[stage] {
			t.Errorf("no event for stage %q", stage)
		}
	}
}

func TestAssess(t *testing.T) {
	backend := &stubBackend{translateResp: translateJSON, evaluateResp: suitabilityJSON}
	search := &cannedSearch{items: []map[string]any{repoJSON("alice", "mistune", 3000, false)}}

	runner := testRunner(t, backend, search)
	run, err := runner.Assess(context.Background(), "markdown parsing", "python", "cli")
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}

	if run.Spec.Language != "python" {
		t.Errorf("Spec.Language = %q, want caller override", run.Spec.Language)
	}
	joined := strings.Join(run.Spec.Keywords, " ")
	if !strings.Contains(joined, "cli") {
		t.Errorf("Keywords = %v, want tool type appended", run.Spec.Keywords)
	}

	if len(run.Scored) != 1 {
		t.Fatalf("len(Scored) = %d, want 1", len(run.Scored))
	}
	s := run.Scored[0]
	if s.Suitability == nil {
		t.Fatal("assess runs must carry suitability scores")
	}
	if s.Suitability.Documentation != 25 || s.Suitability.TokenEconomy != 16 {
		t.Errorf("judged dimensions = %+v", s.Suitability)
	}
	wantTotal := s.Suitability.InterfaceClarity + s.Suitability.Documentation +
		s.Suitability.Environment + s.Suitability.TokenEconomy
	if diff := s.Suitability.Total - wantTotal; diff > 0.05 || diff < -0.05 {
		t.Errorf("Total = %f, want recomputed %f", s.Suitability.Total, wantTotal)
	}
	if s.Suitability.Recommendation != types.RecommendationFor(s.Suitability.Total) {
		t.Errorf("Recommendation = %q, want derived from total", s.Suitability.Recommendation)
	}
}

func TestRunWithDeadline(t *testing.T) {
	slow := &stubBackend{translateResp: translateJSON, evaluateResp: qualityJSON}
	search := &slowSearch{delay: 500 * time.Millisecond}

	runner := testRunner(t, slow, search)
	_, err := runner.RunWithDeadline(context.Background(), "markdown parser", types.ModeBalanced, 50*time.Millisecond)

	var terr *types.TimeoutError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %T (%v), want *types.TimeoutError", err, err)
	}
}

type slowSearch struct {
	delay time.Duration
}

func (s *slowSearch) RoundTrip(req *http.Request) (*http.Response, error) {
	select {
	case <-time.After(s.delay):
	case <-req.Context().Done():
		return nil, req.Context().Err()
	}
	return (&cannedSearch{}).RoundTrip(req)
}
