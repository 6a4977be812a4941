// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pdiddy/repo-scout/pkg/types"
)

func testScoutCfg() types.ScoutConfig {
	return types.ScoutConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "test/0.1",
		},
		PerPage:           30,
		MaxCandidates:     100,
		RecencyDivisor:    4,
		RecencyMinStars:   10,
		ForkStarThreshold: 100,
	}
}

func testSpec() types.SearchSpec {
	return types.SearchSpec{
		Keywords:  []string{"markdown", "parser"},
		Language:  "python",
		StarRange: types.StarRange{Min: 1000},
	}
}

func candidate(owner, name string, stars int) types.CandidateRepository {
	now := time.Now()
	return types.CandidateRepository{
		Owner:       owner,
		Name:        name,
		Description: "a test repository",
		Stars:       stars,
		CreatedAt:   now.AddDate(-2, 0, 0),
		UpdatedAt:   now.AddDate(0, 0, -7),
		PushedAt:    now.AddDate(0, 0, -7),
		Size:        500,
		HasReadme:   true,
	}
}

// searchServer serves a canned search response and records received queries.
// Strategies hit the server concurrently, so recording is locked.
func searchServer(t *testing.T, items []repoItem) (*httptest.Server, func() []string) {
	t.Helper()
	var mu sync.Mutex
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.Query().Get("q"))
		mu.Unlock()
		json.NewEncoder(w).Encode(searchResponse{TotalCount: len(items), Items: items})
	}))
	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), queries...)
	}
}

func swapAPIBase(t *testing.T, url string) {
	t.Helper()
	orig := githubAPIBase
	githubAPIBase = url
	t.Cleanup(func() { githubAPIBase = orig })
}

// --- query building ---

func TestBuildQuery(t *testing.T) {
	spec := types.SearchSpec{
		Keywords:     []string{"markdown", "parser"},
		Language:     "python",
		Topics:       []string{"markdown", "parsing", "extra-topic"},
		CreatedAfter: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
	}

	q := buildQuery(spec.Keywords, spec, 1000, 0)
	for _, want := range []string{"markdown parser", "language:python", "stars:>=1000", "topic:markdown", "topic:parsing", "created:>2024-09-01"} {
		if !strings.Contains(q, want) {
			t.Errorf("query %q missing %q", q, want)
		}
	}
	if strings.Contains(q, "extra-topic") {
		t.Errorf("query %q should cap topic qualifiers at %d", q, maxTopicQualifiers)
	}
}

func TestBuildQueryBoundedRange(t *testing.T) {
	spec := types.SearchSpec{Keywords: []string{"tui"}}
	q := buildQuery(spec.Keywords, spec, 10, 5000)
	if !strings.Contains(q, "stars:10..5000") {
		t.Errorf("query %q missing bounded star range", q)
	}
}

func TestStrategiesSelection(t *testing.T) {
	spec := testSpec()
	if got := len(Strategies(spec)); got != 2 {
		t.Errorf("len(Strategies) = %d, want 2 without expansion", got)
	}

	spec.ExpandedKeywords = []string{"commonmark"}
	if got := len(Strategies(spec)); got != 3 {
		t.Errorf("len(Strategies) = %d, want 3 with expansion", got)
	}
}

func TestRecencyFloor(t *testing.T) {
	srv, queries := searchServer(t, []repoItem{{Name: "x", Owner: repoOwner{Login: "a"}, Stars: 300, Size: 1}})
	defer srv.Close()
	swapAPIBase(t, srv.URL)

	cfg := testScoutCfg()
	_, err := byRecency{}.Run(context.Background(), NewClient(cfg), testSpec(), cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// 1000 / 4 = 250 stays above the absolute floor of 10.
	got := queries()
	if len(got) != 1 || !strings.Contains(got[0], "stars:>=250") {
		t.Errorf("queries = %v, want reduced floor stars:>=250", got)
	}
}

// --- dedup and post-filter ---

func TestDeduplicateFirstSeen(t *testing.T) {
	first := candidate("alice", "repo", 100)
	first.Description = "from popularity strategy"
	second := candidate("alice", "repo", 100)
	second.Description = "from recency strategy"

	deduped, removed := deduplicate([]types.CandidateRepository{first, second, candidate("bob", "other", 50)})
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if len(deduped) != 2 {
		t.Fatalf("len(deduped) = %d, want 2", len(deduped))
	}
	if deduped[0].Description != "from popularity strategy" {
		t.Errorf("dedup should keep the first-seen snapshot, got %q", deduped[0].Description)
	}
}

func TestPostFilter(t *testing.T) {
	archived := candidate("a", "archived", 5000)
	archived.IsArchived = true
	trivialFork := candidate("b", "fork-small", 50)
	trivialFork.IsFork = true
	popularFork := candidate("c", "fork-big", 500)
	popularFork.IsFork = true
	plain := candidate("d", "plain", 200)

	kept := postFilter([]types.CandidateRepository{archived, trivialFork, popularFork, plain}, testScoutCfg())
	if len(kept) != 2 {
		t.Fatalf("len(kept) = %d, want 2", len(kept))
	}
	if kept[0].Name != "fork-big" || kept[1].Name != "plain" {
		t.Errorf("kept = %v", kept)
	}
}

// --- Scout fan-out ---

func TestScoutMergesStrategies(t *testing.T) {
	srv, _ := searchServer(t, []repoItem{
		{Name: "mistune", Owner: repoOwner{Login: "lepture"}, Stars: 2000, Size: 900, Description: "markdown parser"},
		{Name: "marko", Owner: repoOwner{Login: "frostming"}, Stars: 600, Size: 400, Description: "markdown parser"},
	})
	defer srv.Close()
	swapAPIBase(t, srv.URL)

	var warnings strings.Builder
	out, err := Scout(context.Background(), NewClient(testScoutCfg()), testSpec(), testScoutCfg(), &warnings)
	if err != nil {
		t.Fatalf("Scout() error = %v", err)
	}
	// Both strategies return the same two repos; dedup keeps two.
	if len(out.Candidates) != 2 {
		t.Errorf("len(Candidates) = %d, want 2", len(out.Candidates))
	}
	if out.DupsRemoved != 2 {
		t.Errorf("DupsRemoved = %d, want 2", out.DupsRemoved)
	}
	if len(out.Failures) != 0 {
		t.Errorf("Failures = %v, want none", out.Failures)
	}
}

func TestScoutPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sort") == SortUpdated {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(searchResponse{Items: []repoItem{
			{Name: "mistune", Owner: repoOwner{Login: "lepture"}, Stars: 2000, Size: 900},
		}})
	}))
	defer srv.Close()
	swapAPIBase(t, srv.URL)

	var warnings strings.Builder
	out, err := Scout(context.Background(), NewClient(testScoutCfg()), testSpec(), testScoutCfg(), &warnings)
	if err != nil {
		t.Fatalf("one failed strategy should not fail the scout: %v", err)
	}
	if len(out.Candidates) != 1 {
		t.Errorf("len(Candidates) = %d, want 1", len(out.Candidates))
	}
	if len(out.Failures) != 1 || out.Failures[0].Strategy != "by_recency" {
		t.Errorf("Failures = %v, want one by_recency failure", out.Failures)
	}
	if !strings.Contains(warnings.String(), "by_recency") {
		t.Errorf("warning output = %q, should name the failed strategy", warnings.String())
	}
}

func TestScoutAllStrategiesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	swapAPIBase(t, srv.URL)

	_, err := Scout(context.Background(), NewClient(testScoutCfg()), testSpec(), testScoutCfg(), io.Discard)
	if err == nil {
		t.Fatal("Scout() should fail when every strategy fails")
	}
}

func TestScoutEmptyMerged(t *testing.T) {
	srv, _ := searchServer(t, nil)
	defer srv.Close()
	swapAPIBase(t, srv.URL)

	_, err := Scout(context.Background(), NewClient(testScoutCfg()), testSpec(), testScoutCfg(), io.Discard)
	if err == nil {
		t.Fatal("Scout() should fail on an empty merged set")
	}
}

func TestScoutInvalidSpec(t *testing.T) {
	_, err := Scout(context.Background(), NewClient(testScoutCfg()), types.SearchSpec{}, testScoutCfg(), io.Discard)
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T (%v), want *types.ValidationError", err, err)
	}
}

// --- Search error mapping ---

func TestSearchRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	swapAPIBase(t, srv.URL)

	_, err := NewClient(testScoutCfg()).Search(context.Background(), "markdown", SortStars, 30)
	var rerr *types.RateLimitError
	if !errors.As(err, &rerr) {
		t.Fatalf("error = %T (%v), want *types.RateLimitError", err, err)
	}
	if rerr.RetryAfter != 30*time.Second {
		t.Errorf("RetryAfter = %v, want 30s", rerr.RetryAfter)
	}
}

func TestSearchInvalidQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message": "Validation Failed"}`)
	}))
	defer srv.Close()
	swapAPIBase(t, srv.URL)

	_, err := NewClient(testScoutCfg()).Search(context.Background(), "bad::query", SortStars, 30)
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T (%v), want *types.ValidationError", err, err)
	}
}

func TestSearchSendsAuth(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer srv.Close()
	swapAPIBase(t, srv.URL)

	cfg := testScoutCfg()
	cfg.Token = "tok123"
	if _, err := NewClient(cfg).Search(context.Background(), "x", "", 10); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if auth != "Bearer tok123" {
		t.Errorf("Authorization = %q, want Bearer tok123", auth)
	}
}

// --- coarse filter ---

func TestCoarseFilter(t *testing.T) {
	now := time.Now()
	cfg := types.CoarseConfig{
		MinStars:      10,
		MaxAge:        10 * 365 * 24 * time.Hour,
		MaxStaleness:  730 * 24 * time.Hour,
		RequireReadme: true,
		MaxWorkingSet: 25,
	}

	lowStars := candidate("a", "low-stars", 5)
	ancient := candidate("b", "ancient", 500)
	ancient.CreatedAt = now.AddDate(-12, 0, 0)
	stale := candidate("c", "stale", 500)
	stale.PushedAt = now.AddDate(-3, 0, 0)
	noReadme := candidate("d", "no-readme", 500)
	noReadme.HasReadme = false
	keeper := candidate("e", "keeper", 500)

	kept := CoarseFilter([]types.CandidateRepository{lowStars, ancient, stale, noReadme, keeper}, cfg, now)
	if len(kept) != 1 || kept[0].Name != "keeper" {
		t.Errorf("kept = %v, want only keeper", kept)
	}
}

func TestCoarseFilterCapsWorkingSet(t *testing.T) {
	cfg := types.CoarseConfig{MaxWorkingSet: 3}
	var in []types.CandidateRepository
	for i := 0; i < 10; i++ {
		in = append(in, candidate("o", fmt.Sprintf("repo-%d", i), 100))
	}

	kept := CoarseFilter(in, cfg, time.Now())
	if len(kept) != 3 {
		t.Fatalf("len(kept) = %d, want 3", len(kept))
	}
	// Cap keeps the head of the scout ordering.
	if kept[0].Name != "repo-0" || kept[2].Name != "repo-2" {
		t.Errorf("kept = %v, want the first three", kept)
	}
}

func TestCoarseFilterEmptyIsAllowed(t *testing.T) {
	cfg := types.CoarseConfig{MinStars: 1000}
	kept := CoarseFilter([]types.CandidateRepository{candidate("a", "small", 50)}, cfg, time.Now())
	if len(kept) != 0 {
		t.Errorf("len(kept) = %d, want 0", len(kept))
	}
}
