// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"time"

	"github.com/pdiddy/repo-scout/pkg/types"
)

// agentFriendlyLanguages maps languages to an environment-friendliness base:
// how painlessly the ecosystem installs and runs for an agent-driven tool.
var agentFriendlyLanguages = map[string]float64{
	"go":         8,
	"python":     8,
	"javascript": 7,
	"typescript": 7,
	"rust":       7,
	"ruby":       6,
	"java":       5,
	"shell":      6,
}

// Structural computes the deterministic suitability dimensions from
// metadata: interface clarity (0-30) and environment friendliness (0-20).
// The model-estimated dimensions (documentation, token economy) stay zero
// here; the evaluator fills them in.
func Structural(repo types.CandidateRepository, now time.Time) types.SuitabilityScores {
	return types.SuitabilityScores{
		InterfaceClarity: InterfaceClarity(repo),
		Environment:      Environment(repo, now),
	}
}

// InterfaceClarity scores how cleanly the tool presents its surface from
// metadata alone: description quality (0-12), topic curation (0-10), and a
// scoped, non-sprawling codebase (0-8).
func InterfaceClarity(repo types.CandidateRepository) float64 {
	desc := 0.0
	switch n := len(repo.Description); {
	case n == 0:
		desc = 0
	case n < 20:
		desc = 4
	case n <= 160:
		desc = 12
	default:
		desc = 9
	}

	topics := 2.5 * float64(len(repo.Topics))
	if topics > 10 {
		topics = 10
	}

	// Size in KB; a tool under ~20 MB is likely a focused codebase.
	scope := 0.0
	switch kb := repo.Size; {
	case kb <= 0:
		scope = 0
	case kb <= 20_000:
		scope = 8
	case kb <= 100_000:
		scope = 5
	default:
		scope = 2
	}

	return Round1(Clamp(desc+topics+scope, 0, 30))
}

// Environment scores installability: language ecosystem base (0-8), push
// recency (0-8), and a small-footprint bonus (0-4).
func Environment(repo types.CandidateRepository, now time.Time) float64 {
	base, ok := agentFriendlyLanguages[normalizeLanguage(repo.Language)]
	if !ok {
		if repo.Language == "" {
			base = 2
		} else {
			base = 4
		}
	}

	recency := recencySteps(repo.SincePush(now), []step{
		{30 * day, 8.0}, {90 * day, 6.0}, {180 * day, 4.0}, {365 * day, 2.0},
	})
	if repo.PushedAt.IsZero() {
		recency = 0
	}

	footprint := 0.0
	switch kb := repo.Size; {
	case kb > 0 && kb <= 5_000:
		footprint = 4
	case kb > 0 && kb <= 50_000:
		footprint = 2
	}

	return Round1(Clamp(base+recency+footprint, 0, 20))
}

func normalizeLanguage(lang string) string {
	switch lang {
	case "Go":
		return "go"
	case "Python":
		return "python"
	case "JavaScript":
		return "javascript"
	case "TypeScript":
		return "typescript"
	case "Rust":
		return "rust"
	case "Ruby":
		return "ruby"
	case "Java":
		return "java"
	case "Shell":
		return "shell"
	default:
		return lang
	}
}
