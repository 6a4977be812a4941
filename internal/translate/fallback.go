// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"strings"
	"time"

	"github.com/pdiddy/repo-scout/pkg/types"
)

// stopWords are query tokens with no search value.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "for": true, "of": true, "to": true,
	"in": true, "on": true, "with": true, "and": true, "or": true, "that": true,
	"is": true, "are": true, "i": true, "me": true, "my": true, "need": true,
	"want": true, "looking": true, "find": true, "some": true, "any": true,
	"good": true, "best": true, "tool": true, "tools": true, "something": true,
	"which": true, "can": true, "help": true, "please": true,
}

// knownLanguages maps query tokens to code-host language filters.
var knownLanguages = map[string]string{
	"go": "go", "golang": "go",
	"python": "python", "javascript": "javascript", "js": "javascript",
	"typescript": "typescript", "ts": "typescript",
	"rust": "rust", "java": "java", "kotlin": "kotlin", "swift": "swift",
	"ruby": "ruby", "php": "php", "c": "c", "c++": "c++", "cpp": "c++",
	"c#": "c#", "csharp": "c#", "elixir": "elixir", "scala": "scala",
	"haskell": "haskell", "lua": "lua", "zig": "zig",
}

// Popularity cue words, matched as whole tokens against the lowercased query.
var (
	popularCues = []string{"popular", "widely", "well-known", "famous"}
	newCues     = []string{"new", "emerging", "recent", "modern"}
	matureCues  = []string{"mature", "established", "battle-tested", "stable"}
)

// FallbackSpec builds a SearchSpec from the query text alone: strip
// stop-words, keep the remaining tokens as keywords, detect a language
// filter, and infer the star range from popularity cues. Used when the model
// path is unavailable or fails.
func FallbackSpec(query string, defaultFloor int) types.SearchSpec {
	tokens := strings.Fields(query)

	var keywords []string
	language := ""
	for _, tok := range tokens {
		cleaned := strings.Trim(strings.ToLower(tok), ".,;:!?\"'()")
		if cleaned == "" || stopWords[cleaned] {
			continue
		}
		if lang, ok := knownLanguages[cleaned]; ok && language == "" {
			language = lang
		}
		keywords = append(keywords, strings.Trim(tok, ".,;:!?\"'()"))
		if len(keywords) >= maxKeywords {
			break
		}
	}

	spec := types.SearchSpec{
		Keywords:  keywords,
		Language:  language,
		StarRange: InferStarRange(query, defaultFloor),
	}
	if spec.StarRange.Max > 0 {
		spec.CreatedAfter = time.Now().AddDate(-2, 0, 0)
	}
	return spec
}

// InferStarRange maps popularity language in the query to a star range. Only
// popularity cues matter; feature adjectives never move the range.
func InferStarRange(query string, defaultFloor int) types.StarRange {
	if defaultFloor <= 0 {
		defaultFloor = 100
	}
	lower := " " + strings.ToLower(query) + " "

	contains := func(cues []string) bool {
		for _, cue := range cues {
			if strings.Contains(lower, " "+cue+" ") {
				return true
			}
		}
		return false
	}

	switch {
	case contains(matureCues):
		return types.StarRange{Min: 5000}
	case contains(popularCues):
		return types.StarRange{Min: 1000}
	case contains(newCues):
		return types.StarRange{Min: 10, Max: 5000}
	default:
		return types.StarRange{Min: defaultFloor}
	}
}
