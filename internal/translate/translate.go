// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package translate turns a free-text request into a structured SearchSpec.
// A model call does the heavy lifting; on timeout, malformed JSON, or any
// call failure the translator degrades to rule-based extraction rather than
// failing the pipeline. Only a spec with zero usable keywords is fatal.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pdiddy/repo-scout/internal/llm"
	"github.com/pdiddy/repo-scout/pkg/types"
)

// Expansion term caps per mode.
const (
	maxBalancedExpansion    = 3
	maxExploratoryExpansion = 8
	maxKeywords             = 6
)

// Output holds the translated spec plus the absorbed failure, if the model
// path degraded to the rule-based fallback.
type Output struct {
	Spec types.SearchSpec

	// Fallback is the non-fatal reason the model translation was replaced
	// by rule-based extraction; nil when the model path succeeded.
	Fallback error
}

// Translator converts queries into search specs.
type Translator struct {
	backend llm.Backend
	cfg     types.TranslateConfig
	logger  *slog.Logger
}

// New builds a Translator. A nil backend skips the model path entirely and
// always uses rule-based extraction.
func New(backend llm.Backend, cfg types.TranslateConfig) *Translator {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 5 * time.Second
	}
	if cfg.DefaultStarFloor <= 0 {
		cfg.DefaultStarFloor = 100
	}
	return &Translator{
		backend: backend,
		cfg:     cfg,
		logger:  slog.Default().With("component", "translate"),
	}
}

// llmSpec is the strict schema the model must return. Validation and
// normalization happen immediately at this boundary; nothing unvalidated
// flows past it.
type llmSpec struct {
	Keywords         []string `json:"keywords"`
	ExpandedKeywords []string `json:"expanded_keywords"`
	Language         string   `json:"language"`
	StarMin          int      `json:"star_min"`
	StarMax          int      `json:"star_max"`
	Topics           []string `json:"topics"`
}

// Translate produces a SearchSpec for the query under the given mode. The
// returned error is fatal only when no usable keywords can be produced at
// all, by either path.
func (t *Translator) Translate(ctx context.Context, query string, mode types.Mode) (Output, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Output{}, &types.ValidationError{Field: "query", Reason: "query must not be empty"}
	}

	if t.backend != nil {
		spec, err := t.translateWithModel(ctx, query, mode)
		if err == nil {
			return Output{Spec: spec}, nil
		}
		t.logger.Warn("model translation failed, using rule-based fallback", "err", err)

		fallback := FallbackSpec(query, t.cfg.DefaultStarFloor)
		if len(fallback.Keywords) == 0 {
			return Output{}, &types.ValidationError{Field: "query", Reason: "no usable keywords could be extracted"}
		}
		return Output{Spec: fallback, Fallback: err}, nil
	}

	fallback := FallbackSpec(query, t.cfg.DefaultStarFloor)
	if len(fallback.Keywords) == 0 {
		return Output{}, &types.ValidationError{Field: "query", Reason: "no usable keywords could be extracted"}
	}
	return Output{Spec: fallback}, nil
}

func (t *Translator) translateWithModel(ctx context.Context, query string, mode types.Mode) (types.SearchSpec, error) {
	system, user, err := renderPrompts(query, mode, t.cfg.DefaultStarFloor)
	if err != nil {
		return types.SearchSpec{}, fmt.Errorf("rendering prompt: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, t.cfg.CallTimeout)
	defer cancel()

	raw, err := t.backend.Complete(callCtx, system, user)
	if callCtx.Err() == context.DeadlineExceeded {
		return types.SearchSpec{}, &types.TimeoutError{Op: "translate", Timeout: t.cfg.CallTimeout}
	}
	if err != nil {
		return types.SearchSpec{}, err
	}

	var parsed llmSpec
	if err := json.Unmarshal([]byte(llm.CleanJSON(raw)), &parsed); err != nil {
		return types.SearchSpec{}, &types.ParseError{Stage: "translate", Reason: err.Error()}
	}

	spec := t.normalize(parsed, mode)
	if err := spec.Validate(); err != nil {
		return types.SearchSpec{}, &types.ParseError{Stage: "translate", Reason: err.Error()}
	}
	return spec, nil
}

// normalize clamps the model output into the declared SearchSpec bounds:
// keyword and expansion counts per mode, non-negative star range, lowercased
// language.
func (t *Translator) normalize(parsed llmSpec, mode types.Mode) types.SearchSpec {
	keywords := cleanTerms(parsed.Keywords, maxKeywords)

	var expanded []string
	switch mode {
	case types.ModeFocused:
		// no expansion, whatever the model said
	case types.ModeExploratory:
		expanded = cleanTerms(parsed.ExpandedKeywords, maxExploratoryExpansion)
	default:
		expanded = cleanTerms(parsed.ExpandedKeywords, maxBalancedExpansion)
	}

	starMin := parsed.StarMin
	if starMin < 0 {
		starMin = t.cfg.DefaultStarFloor
	}
	starMax := parsed.StarMax
	if starMax < 0 || (starMax > 0 && starMax < starMin) {
		starMax = 0
	}

	var createdAfter time.Time
	// An upper star cap signals "new/emerging": restrict to recent projects.
	if starMax > 0 {
		createdAfter = time.Now().AddDate(-2, 0, 0)
	}

	return types.SearchSpec{
		Keywords:         keywords,
		ExpandedKeywords: expanded,
		Language:         strings.ToLower(strings.TrimSpace(parsed.Language)),
		StarRange:        types.StarRange{Min: starMin, Max: starMax},
		Topics:           cleanTerms(parsed.Topics, 2),
		CreatedAfter:     createdAfter,
	}
}

// cleanTerms trims, drops empties and duplicates, and truncates to max.
func cleanTerms(terms []string, max int) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		lower := strings.ToLower(term)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, term)
		if len(out) >= max {
			break
		}
	}
	return out
}
