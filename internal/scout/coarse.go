// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scout

import (
	"time"

	"github.com/pdiddy/repo-scout/pkg/types"
)

// CoarseFilter reduces the candidate set to a bounded working set with cheap
// metadata rules before the expensive scoring stages. Pure and synchronous:
// no I/O, no mutation of the input slice.
func CoarseFilter(candidates []types.CandidateRepository, cfg types.CoarseConfig, now time.Time) []types.CandidateRepository {
	kept := make([]types.CandidateRepository, 0, len(candidates))
	for _, c := range candidates {
		if c.Stars < cfg.MinStars {
			continue
		}
		if cfg.MaxAge > 0 && !c.CreatedAt.IsZero() && now.Sub(c.CreatedAt) > cfg.MaxAge {
			continue
		}
		if cfg.MaxStaleness > 0 && !c.PushedAt.IsZero() && now.Sub(c.PushedAt) > cfg.MaxStaleness {
			continue
		}
		if cfg.RequireReadme && !c.HasReadme {
			continue
		}
		kept = append(kept, c)
		if cfg.MaxWorkingSet > 0 && len(kept) >= cfg.MaxWorkingSet {
			break
		}
	}
	return kept
}
