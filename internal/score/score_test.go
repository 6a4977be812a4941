// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"testing"
	"time"

	"github.com/pdiddy/repo-scout/pkg/types"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func repoAt(stars int, age, sincePush time.Duration) types.CandidateRepository {
	return types.CandidateRepository{
		Stars:     stars,
		CreatedAt: now.Add(-age),
		UpdatedAt: now.Add(-sincePush),
		PushedAt:  now.Add(-sincePush),
	}
}

// --- determinism ---

func TestMetadataDeterministic(t *testing.T) {
	repo := repoAt(5000, 4*365*day, 10*day)
	repo.Forks = 300
	repo.OpenIssues = 40
	repo.Topics = []string{"cli", "markdown"}

	a := Metadata(repo, now)
	b := Metadata(repo, now)
	if a != b {
		t.Errorf("Metadata() not deterministic: %+v vs %+v", a, b)
	}
	if a.Documentation != 0 || a.EaseOfUse != 0 || a.Relevance != 0 {
		t.Errorf("model-estimated dimensions should stay zero, got %+v", a)
	}
}

// --- maturity ---

func TestStarComponentKnees(t *testing.T) {
	tests := []struct {
		stars int
		want  float64
	}{
		{0, 0},
		{100, 2.5},
		{1000, 4.0},
		{10000, 5.0},
		{1000000, 5.0},
	}
	for _, tt := range tests {
		got := starComponent(tt.stars)
		if diff := got - tt.want; diff > 0.01 || diff < -0.01 {
			t.Errorf("starComponent(%d) = %f, want %f", tt.stars, got, tt.want)
		}
	}
}

func TestStarComponentMonotonic(t *testing.T) {
	prev := -1.0
	for _, stars := range []int{0, 1, 10, 50, 100, 500, 1000, 5000, 10000, 50000} {
		got := starComponent(stars)
		if got < prev {
			t.Fatalf("starComponent(%d) = %f < previous %f", stars, got, prev)
		}
		prev = got
	}
}

func TestAgeComponentKnees(t *testing.T) {
	year := 365 * day
	tests := []struct {
		age  time.Duration
		want float64
	}{
		{0, 0},
		{1 * year, 2.0},
		{3 * year, 4.0},
		{5 * year, 5.0},
		{20 * year, 5.0},
	}
	for _, tt := range tests {
		got := ageComponent(tt.age)
		if diff := got - tt.want; diff > 0.01 || diff < -0.01 {
			t.Errorf("ageComponent(%v) = %f, want %f", tt.age, got, tt.want)
		}
	}
}

func TestMaturityBounds(t *testing.T) {
	high := Maturity(repoAt(1_000_000, 20*365*day, day), now)
	if high != 10.0 {
		t.Errorf("max-input maturity = %f, want 10.0", high)
	}
	low := Maturity(repoAt(0, 0, day), now)
	if low != 0.0 {
		t.Errorf("min-input maturity = %f, want 0.0", low)
	}
}

// --- activity ---

func TestActivityDecay(t *testing.T) {
	prev := 11.0
	for _, since := range []time.Duration{12 * time.Hour, 3 * day, 20 * day, 60 * day, 120 * day, 300 * day, 400 * day} {
		got := Activity(repoAt(100, 2*365*day, since), now)
		if got > prev {
			t.Fatalf("Activity at %v = %f > %f at fresher push; decay must be monotonic", since, got, prev)
		}
		prev = got
	}
}

func TestActivityFreshPush(t *testing.T) {
	got := Activity(repoAt(100, 365*day, 12*time.Hour), now)
	if got != 10.0 {
		t.Errorf("Activity with a same-day push = %f, want 10.0", got)
	}
}

func TestActivityNoTimestamps(t *testing.T) {
	repo := types.CandidateRepository{Stars: 100}
	if got := Activity(repo, now); got != 0 {
		t.Errorf("Activity without timestamps = %f, want 0", got)
	}
}

// --- community ---

func TestCommunity(t *testing.T) {
	repo := types.CandidateRepository{
		Forks:      1000,
		OpenIssues: 200,
		Topics:     []string{"a", "b", "c", "d", "e"},
	}
	if got := Community(repo); got != 10.0 {
		t.Errorf("Community at max inputs = %f, want 10.0", got)
	}
	if got := Community(types.CandidateRepository{}); got != 0.0 {
		t.Errorf("Community at zero inputs = %f, want 0.0", got)
	}
}

// --- maintenance ---

func TestMaintenanceArchivedIsZero(t *testing.T) {
	repo := repoAt(50000, 3*365*day, day)
	repo.Forks = 5000
	repo.IsArchived = true

	if got := Maintenance(repo, now); got != 0.0 {
		t.Errorf("archived maintenance = %f, want exactly 0", got)
	}
	// The other dimensions are unaffected by archival.
	if got := Maturity(repo, now); got == 0.0 {
		t.Error("archival should not zero maturity")
	}
}

func TestMaintenanceHealthy(t *testing.T) {
	repo := repoAt(10000, 3*365*day, 10*day)
	repo.OpenIssues = 50 // ratio 0.005: well kept up

	if got := Maintenance(repo, now); got != 10.0 {
		t.Errorf("healthy maintenance = %f, want 10.0", got)
	}
}

func TestMaintenanceIssueLoad(t *testing.T) {
	light := repoAt(1000, 2*365*day, 400*day)
	light.OpenIssues = 5
	heavy := repoAt(1000, 2*365*day, 400*day)
	heavy.OpenIssues = 500

	if l, h := Maintenance(light, now), Maintenance(heavy, now); l <= h {
		t.Errorf("issue load should lower maintenance: light=%f heavy=%f", l, h)
	}
}

// --- suitability dimensions ---

func TestStructuralBounds(t *testing.T) {
	repo := types.CandidateRepository{
		Description: "A well-scoped command line tool that converts markdown tables to CSV.",
		Language:    "Go",
		Topics:      []string{"cli", "markdown", "csv", "converter"},
		Size:        2000,
		PushedAt:    now.Add(-5 * day),
	}
	got := Structural(repo, now)
	if got.InterfaceClarity != 30.0 {
		t.Errorf("InterfaceClarity = %f, want 30.0 at max inputs", got.InterfaceClarity)
	}
	if got.Environment != 20.0 {
		t.Errorf("Environment = %f, want 20.0 at max inputs", got.Environment)
	}
	if got.Documentation != 0 || got.TokenEconomy != 0 {
		t.Errorf("model-estimated dimensions should stay zero, got %+v", got)
	}
}

func TestInterfaceClarityEmpty(t *testing.T) {
	if got := InterfaceClarity(types.CandidateRepository{}); got != 0.0 {
		t.Errorf("InterfaceClarity on empty metadata = %f, want 0", got)
	}
}

func TestEnvironmentLanguages(t *testing.T) {
	mk := func(lang string) types.CandidateRepository {
		return types.CandidateRepository{Language: lang, PushedAt: now.Add(-5 * day), Size: 100_000}
	}
	goScore := Environment(mk("Go"), now)
	javaScore := Environment(mk("Java"), now)
	unknownScore := Environment(mk(""), now)

	if goScore <= javaScore {
		t.Errorf("Go (%f) should outscore Java (%f)", goScore, javaScore)
	}
	if javaScore <= unknownScore {
		t.Errorf("Java (%f) should outscore no-language (%f)", javaScore, unknownScore)
	}
}

// --- helpers ---

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{12, 0, 10, 10},
		{35, 0, 30, 30},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%f, %f, %f) = %f, want %f", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestRound1(t *testing.T) {
	if got := Round1(7.849); got != 7.8 {
		t.Errorf("Round1(7.849) = %f, want 7.8", got)
	}
	if got := Round1(7.86); got != 7.9 {
		t.Errorf("Round1(7.86) = %f, want 7.9", got)
	}
}
