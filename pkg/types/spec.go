// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the repo-scout discovery
// and scoring pipeline: the translated search specification, candidate
// repository snapshots, dimension score sets, the pipeline run summary, and
// per-stage configuration.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Mode controls how aggressively the translator expands the query.
type Mode string

const (
	// ModeFocused disables keyword expansion entirely.
	ModeFocused Mode = "focused"

	// ModeBalanced adds 2-3 close synonyms to the core keywords.
	ModeBalanced Mode = "balanced"

	// ModeExploratory adds 5-8 broader related terms.
	ModeExploratory Mode = "exploratory"
)

// ParseMode converts a user-supplied string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFocused:
		return ModeFocused, nil
	case ModeBalanced, "":
		return ModeBalanced, nil
	case ModeExploratory:
		return ModeExploratory, nil
	default:
		return "", &ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q: use focused, balanced, or exploratory", s)}
	}
}

// StarRange bounds the repository star count in a search. Max of zero means
// no upper bound.
type StarRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max,omitempty" yaml:"max,omitempty"`
}

// SearchSpec is the structured output of the translator: what to search the
// code host for. Keywords must be non-empty and StarRange.Min non-negative.
type SearchSpec struct {
	// Keywords are the primary search terms extracted from the query.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// ExpandedKeywords are mode-dependent synonyms or broader terms.
	// Empty in focused mode.
	ExpandedKeywords []string `json:"expanded_keywords,omitempty" yaml:"expanded_keywords,omitempty"`

	// Language is an optional language filter (e.g. "go", "typescript").
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// StarRange is the popularity range inferred from qualitative cues in
	// the query, never from the expansion mode.
	StarRange StarRange `json:"star_range" yaml:"star_range"`

	// Topics are optional topic tags to qualify the search with.
	Topics []string `json:"topics,omitempty" yaml:"topics,omitempty"`

	// CreatedAfter restricts results to repositories created after this
	// date. Zero means no restriction.
	CreatedAfter time.Time `json:"created_after,omitempty" yaml:"created_after,omitempty"`
}

// Validate checks the SearchSpec invariants.
func (s SearchSpec) Validate() error {
	if len(s.Keywords) == 0 {
		return &ValidationError{Field: "keywords", Reason: "at least one keyword is required"}
	}
	if s.StarRange.Min < 0 {
		return &ValidationError{Field: "star_range.min", Reason: "must be non-negative"}
	}
	if s.StarRange.Max > 0 && s.StarRange.Max < s.StarRange.Min {
		return &ValidationError{Field: "star_range.max", Reason: "must be zero or >= min"}
	}
	return nil
}
