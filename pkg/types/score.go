// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Recommendation labels a suitability assessment. The label is always derived
// from the recomputed numeric total, never taken from model output.
type Recommendation string

const (
	RecommendStrong   Recommendation = "strong_match"
	RecommendPossible Recommendation = "possible_match"
	RecommendWeak     Recommendation = "weak_match"
)

// RecommendationFor maps a suitability total (0-100) to its label.
func RecommendationFor(total float64) Recommendation {
	switch {
	case total >= 80:
		return RecommendStrong
	case total >= 60:
		return RecommendPossible
	default:
		return RecommendWeak
	}
}

// QualityScores is the seven-dimension quality score set. Every dimension is
// bounded to [0, 10] and rounded to one decimal before Overall is computed.
type QualityScores struct {
	// Maturity reflects project age and adoption (deterministic).
	Maturity float64 `json:"maturity" yaml:"maturity"`

	// Activity reflects recency of development (deterministic).
	Activity float64 `json:"activity" yaml:"activity"`

	// Documentation reflects documentation quality (model-estimated).
	Documentation float64 `json:"documentation" yaml:"documentation"`

	// Community reflects contributor and user engagement (deterministic).
	Community float64 `json:"community" yaml:"community"`

	// EaseOfUse reflects how quickly the project can be adopted (model-estimated).
	EaseOfUse float64 `json:"ease_of_use" yaml:"ease_of_use"`

	// Maintenance reflects upkeep; forced to zero for archived repositories
	// (deterministic).
	Maintenance float64 `json:"maintenance" yaml:"maintenance"`

	// Relevance reflects fit to the original query (model-estimated).
	Relevance float64 `json:"relevance" yaml:"relevance"`

	// Overall is the weighted total of the seven dimensions.
	Overall float64 `json:"overall" yaml:"overall"`
}

// SuitabilityScores is the four-dimension, 0-100-total score set used for
// skill/tool suitability assessment. Sub-score bounds: interface clarity and
// documentation 0-30, environment and token economy 0-20.
type SuitabilityScores struct {
	// InterfaceClarity scores how cleanly the tool exposes its surface
	// (deterministic, 0-30).
	InterfaceClarity float64 `json:"interface_clarity" yaml:"interface_clarity"`

	// Documentation scores documentation completeness (model-estimated, 0-30).
	Documentation float64 `json:"documentation" yaml:"documentation"`

	// Environment scores installability and runtime friendliness
	// (deterministic, 0-20).
	Environment float64 `json:"environment" yaml:"environment"`

	// TokenEconomy scores how compactly the tool can be described to an
	// agent (model-estimated, 0-20).
	TokenEconomy float64 `json:"token_economy" yaml:"token_economy"`

	// Total is the sum of the four clamped sub-scores.
	Total float64 `json:"total" yaml:"total"`

	// Recommendation is derived from Total via RecommendationFor.
	Recommendation Recommendation `json:"recommendation" yaml:"recommendation"`
}

// ScoredRepository pairs a candidate with its score set and final rank.
// Created by the aggregator and never mutated afterward.
type ScoredRepository struct {
	Repo        CandidateRepository `json:"repo" yaml:"repo"`
	Quality     *QualityScores      `json:"quality,omitempty" yaml:"quality,omitempty"`
	Suitability *SuitabilityScores  `json:"suitability,omitempty" yaml:"suitability,omitempty"`

	// Rank is 1-based position in the final ordering.
	Rank int `json:"rank" yaml:"rank"`
}

// Total returns the aggregate score regardless of variant.
func (s ScoredRepository) Total() float64 {
	if s.Quality != nil {
		return s.Quality.Overall
	}
	if s.Suitability != nil {
		return s.Suitability.Total
	}
	return 0
}

// QualityWeights is the weight vector applied to the seven quality
// dimensions. The weights should sum to 1.0 within ±0.01; a drifted vector is
// used as entered after a one-time warning.
type QualityWeights struct {
	Maturity      float64 `json:"maturity" yaml:"maturity"`
	Activity      float64 `json:"activity" yaml:"activity"`
	Documentation float64 `json:"documentation" yaml:"documentation"`
	Community     float64 `json:"community" yaml:"community"`
	EaseOfUse     float64 `json:"ease_of_use" yaml:"ease_of_use"`
	Maintenance   float64 `json:"maintenance" yaml:"maintenance"`
	Relevance     float64 `json:"relevance" yaml:"relevance"`
}

// Sum returns the total of all weights.
func (w QualityWeights) Sum() float64 {
	return w.Maturity + w.Activity + w.Documentation + w.Community + w.EaseOfUse + w.Maintenance + w.Relevance
}

// DefaultQualityWeights returns the standard weight vector (sums to 1.00).
func DefaultQualityWeights() QualityWeights {
	return QualityWeights{
		Maturity:      0.15,
		Activity:      0.10,
		Documentation: 0.15,
		Community:     0.10,
		EaseOfUse:     0.15,
		Maintenance:   0.10,
		Relevance:     0.25,
	}
}
