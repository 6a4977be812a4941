// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank combines deterministic and model-estimated dimensions into a
// weighted total and a stable ranking.
package rank

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/pdiddy/repo-scout/internal/evaluate"
	"github.com/pdiddy/repo-scout/internal/score"
	"github.com/pdiddy/repo-scout/pkg/types"
)

// weightWarnOnce gates the drifted-weights warning to one emission per
// process.
var weightWarnOnce sync.Once

// CheckWeights warns once when the weight vector does not sum to 1.0 within
// ±0.01. The weights are then used exactly as entered; renormalizing
// silently would change the math behind the caller's back.
func CheckWeights(w types.QualityWeights) {
	sum := w.Sum()
	if sum > 0.99 && sum < 1.01 {
		return
	}
	weightWarnOnce.Do(func() {
		slog.Warn("quality weights do not sum to 1.0; using them as entered", "sum", sum)
	})
}

// AggregateQuality merges the deterministic and judged dimensions, computes
// the weighted overall, and returns the completed score set. Pure: identical
// inputs produce bit-identical totals.
func AggregateQuality(det types.QualityScores, judged evaluate.QualityJudgment, w types.QualityWeights) types.QualityScores {
	s := types.QualityScores{
		Maturity:      score.Clamp10(det.Maturity),
		Activity:      score.Clamp10(det.Activity),
		Documentation: score.Clamp10(judged.Documentation),
		Community:     score.Clamp10(det.Community),
		EaseOfUse:     score.Clamp10(judged.EaseOfUse),
		Maintenance:   score.Clamp10(det.Maintenance),
		Relevance:     score.Clamp10(judged.Relevance),
	}
	s.Overall = score.Round1(s.Maturity*w.Maturity +
		s.Activity*w.Activity +
		s.Documentation*w.Documentation +
		s.Community*w.Community +
		s.EaseOfUse*w.EaseOfUse +
		s.Maintenance*w.Maintenance +
		s.Relevance*w.Relevance)
	return s
}

// AggregateSuitability merges the structural and judged dimensions and
// recomputes the total from the clamped parts. The recommendation label is
// always rederived from that total; a model-reported label that disagrees is
// discarded.
func AggregateSuitability(det types.SuitabilityScores, judged evaluate.SuitabilityJudgment) types.SuitabilityScores {
	s := types.SuitabilityScores{
		InterfaceClarity: score.Clamp(det.InterfaceClarity, 0, 30),
		Documentation:    score.Clamp(judged.Documentation, 0, 30),
		Environment:      score.Clamp(det.Environment, 0, 20),
		TokenEconomy:     score.Clamp(judged.TokenEconomy, 0, 20),
	}
	s.Total = score.Round1(s.InterfaceClarity + s.Documentation + s.Environment + s.TokenEconomy)
	s.Recommendation = types.RecommendationFor(s.Total)
	return s
}

// Rank orders scored repositories by total descending with a stable sort:
// equal totals keep their original candidate order. Rank numbers are
// assigned 1-based after sorting.
func Rank(scored []types.ScoredRepository) []types.ScoredRepository {
	ranked := make([]types.ScoredRepository, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total() > ranked[j].Total()
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
