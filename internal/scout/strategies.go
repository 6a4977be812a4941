// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scout

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/repo-scout/pkg/types"
)

// Strategy is one independent query formulation executed by the scout. Each
// strategy builds its own query string from the same SearchSpec and degrades
// to an empty result on failure without affecting its siblings.
type Strategy interface {
	Name() string
	Run(ctx context.Context, client *Client, spec types.SearchSpec, cfg types.ScoutConfig) ([]types.CandidateRepository, error)
}

// Strategies returns the strategy set for a spec. The by-expanded strategy is
// included only when the translator produced expansion terms.
func Strategies(spec types.SearchSpec) []Strategy {
	s := []Strategy{byPopularity{}, byRecency{}}
	if len(spec.ExpandedKeywords) > 0 {
		s = append(s, byExpanded{})
	}
	return s
}

// maxTopicQualifiers caps topic: qualifiers per query; more of them narrows
// results to nothing on most real queries.
const maxTopicQualifiers = 2

// buildQuery assembles a space-joined qualifier string for the search API.
func buildQuery(keywords []string, spec types.SearchSpec, starMin, starMax int) string {
	parts := make([]string, 0, len(keywords)+5)
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			parts = append(parts, kw)
		}
	}
	if spec.Language != "" {
		parts = append(parts, "language:"+spec.Language)
	}
	switch {
	case starMax > 0:
		parts = append(parts, fmt.Sprintf("stars:%d..%d", starMin, starMax))
	case starMin > 0:
		parts = append(parts, fmt.Sprintf("stars:>=%d", starMin))
	}
	for i, topic := range spec.Topics {
		if i >= maxTopicQualifiers {
			break
		}
		parts = append(parts, "topic:"+topic)
	}
	if !spec.CreatedAfter.IsZero() {
		parts = append(parts, "created:>"+spec.CreatedAfter.Format("2006-01-02"))
	}
	return strings.Join(parts, " ")
}

// byPopularity searches with the full minimum-star threshold, sorted by stars.
type byPopularity struct{}

func (byPopularity) Name() string { return "by_popularity" }

func (byPopularity) Run(ctx context.Context, client *Client, spec types.SearchSpec, cfg types.ScoutConfig) ([]types.CandidateRepository, error) {
	q := buildQuery(spec.Keywords, spec, spec.StarRange.Min, spec.StarRange.Max)
	return client.Search(ctx, q, SortStars, cfg.PerPage)
}

// byRecency searches with a reduced star floor, sorted by last update, to
// surface actively developed projects the popularity cut would miss.
type byRecency struct{}

func (byRecency) Name() string { return "by_recency" }

func (byRecency) Run(ctx context.Context, client *Client, spec types.SearchSpec, cfg types.ScoutConfig) ([]types.CandidateRepository, error) {
	divisor := cfg.RecencyDivisor
	if divisor <= 0 {
		divisor = 4
	}
	floor := spec.StarRange.Min / divisor
	if floor < cfg.RecencyMinStars {
		floor = cfg.RecencyMinStars
	}
	q := buildQuery(spec.Keywords, spec, floor, spec.StarRange.Max)
	return client.Search(ctx, q, SortUpdated, cfg.PerPage)
}

// byExpanded substitutes the expansion terms for the core keywords, sorted by
// stars.
type byExpanded struct{}

func (byExpanded) Name() string { return "by_expanded" }

func (byExpanded) Run(ctx context.Context, client *Client, spec types.SearchSpec, cfg types.ScoutConfig) ([]types.CandidateRepository, error) {
	q := buildQuery(spec.ExpandedKeywords, spec, spec.StarRange.Min, spec.StarRange.Max)
	return client.Search(ctx, q, SortStars, cfg.PerPage)
}
