// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score computes the deterministic quality and suitability
// dimensions from candidate metadata. Every function here is pure: no I/O,
// no clock reads (the caller passes now), so each curve is directly
// unit-testable.
//
// Each dimension is a sum of two or three piecewise monotonic sub-components
// with fixed breakpoints: stars at 100/1,000/10,000; age at 1/3/5 years;
// recency at 1/7/30/90/180/365 days. The knee locations and the bounded,
// monotonic shape of each curve are the contract; slope constants between
// knees are not.
package score

import (
	"math"
	"time"

	"github.com/pdiddy/repo-scout/pkg/types"
)

const day = 24 * time.Hour

// Metadata computes the deterministic quality dimensions. Documentation,
// ease-of-use, and relevance stay zero here; the evaluator fills them in.
func Metadata(repo types.CandidateRepository, now time.Time) types.QualityScores {
	return types.QualityScores{
		Maturity:    Maturity(repo, now),
		Activity:    Activity(repo, now),
		Community:   Community(repo),
		Maintenance: Maintenance(repo, now),
	}
}

// Maturity scores project age and adoption: a log-scaled star curve (0-5)
// plus a linear-segment age curve (0-5).
func Maturity(repo types.CandidateRepository, now time.Time) float64 {
	return Clamp10(Round1(starComponent(repo.Stars) + ageComponent(repo.Age(now))))
}

// starComponent maps star count through a curve with knees at 100/1k/10k.
func starComponent(stars int) float64 {
	s := float64(stars)
	switch {
	case s <= 0:
		return 0
	case s <= 100:
		return 2.5 * math.Log10(s+1) / math.Log10(101)
	case s <= 1000:
		return 2.5 + 1.5*(s-100)/900
	case s <= 10000:
		return 4.0 + 1.0*(s-1000)/9000
	default:
		return 5.0
	}
}

// ageComponent maps repository age through linear segments with knees at
// 1/3/5 years.
func ageComponent(age time.Duration) float64 {
	years := age.Hours() / (365 * 24)
	switch {
	case years <= 0:
		return 0
	case years <= 1:
		return 2.0 * years
	case years <= 3:
		return 2.0 + 1.0*(years-1)
	case years <= 5:
		return 4.0 + 0.5*(years-3)
	default:
		return 5.0
	}
}

// Activity scores development recency: a push-recency decay (0-6) plus a
// metadata-update decay (0-4).
func Activity(repo types.CandidateRepository, now time.Time) float64 {
	push := recencySteps(repo.SincePush(now), []step{
		{1 * day, 6.0}, {7 * day, 5.0}, {30 * day, 4.0},
		{90 * day, 3.0}, {180 * day, 2.0}, {365 * day, 1.0},
	})
	update := recencySteps(now.Sub(repo.UpdatedAt), []step{
		{7 * day, 4.0}, {30 * day, 3.0}, {90 * day, 2.0}, {365 * day, 1.0},
	})
	if repo.UpdatedAt.IsZero() {
		update = 0
	}
	if repo.PushedAt.IsZero() {
		push = 0
	}
	return Clamp10(Round1(push + update))
}

type step struct {
	within time.Duration
	value  float64
}

// recencySteps returns the value of the first bucket the elapsed time falls
// into, or zero past the last knee. Exponential-feeling decay without the
// exponential.
func recencySteps(elapsed time.Duration, steps []step) float64 {
	for _, s := range steps {
		if elapsed <= s.within {
			return s.value
		}
	}
	return 0
}

// Community scores engagement: fork adoption (0-4), issue-tracker traffic
// (0-3), and topic curation (0-3).
func Community(repo types.CandidateRepository) float64 {
	forks := 0.0
	switch f := float64(repo.Forks); {
	case f <= 0:
		forks = 0
	case f <= 10:
		forks = 1.5 * f / 10
	case f <= 100:
		forks = 1.5 + 1.5*(f-10)/90
	case f <= 1000:
		forks = 3.0 + 1.0*(f-100)/900
	default:
		forks = 4.0
	}

	issues := 0.0
	switch n := repo.OpenIssues; {
	case n <= 0:
		issues = 0
	case n <= 10:
		issues = 1.0
	case n <= 100:
		issues = 2.0
	default:
		issues = 3.0
	}

	topics := float64(len(repo.Topics))
	if topics > 3 {
		topics = 3
	}

	return Clamp10(Round1(forks + issues + topics))
}

// Maintenance scores upkeep: push recency (0-6) plus issue load relative to
// adoption (0-4). An archived repository scores exactly zero regardless of
// every other input.
func Maintenance(repo types.CandidateRepository, now time.Time) float64 {
	if repo.IsArchived {
		return 0
	}

	push := recencySteps(repo.SincePush(now), []step{
		{30 * day, 6.0}, {90 * day, 5.0}, {180 * day, 3.5}, {365 * day, 2.0},
	})
	if repo.PushedAt.IsZero() {
		push = 0
	}

	// Open issues per star; a heavily starred project with few open issues
	// is being kept up.
	ratio := float64(repo.OpenIssues) / (float64(repo.Stars) + 1)
	load := 0.0
	switch {
	case ratio <= 0.01:
		load = 4.0
	case ratio <= 0.05:
		load = 3.0
	case ratio <= 0.10:
		load = 2.0
	case ratio <= 0.20:
		load = 1.0
	}

	return Clamp10(Round1(push + load))
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Clamp10 clamps into [0, 10].
func Clamp10(v float64) float64 {
	return Clamp(v, 0, 10)
}

// Clamp clamps v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
