// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/repo-scout/pkg/types"
)

// systemPrompt instructs the model to act as a query translator and fixes the
// response schema. Star-range inference must follow only popularity language
// in the query, never the expansion mode or feature adjectives.
const systemPrompt = `You are a code search query translator. Convert a free-text software request into a structured search specification.

Respond with a single JSON object and nothing else:
{"keywords": [...], "expanded_keywords": [...], "language": "", "star_min": 0, "star_max": 0, "topics": [...]}

Rules:
- keywords: 3-6 core terms naming the technology and the capability. Keep proper nouns (React, PostgreSQL) as written.
- language: the programming language if the query names or clearly implies one, lowercased, otherwise "".
- star_min/star_max: infer ONLY from popularity language in the query.
  "popular", "widely used", "well-known" -> star_min 1000.
  "new", "emerging", "recent" -> star_min 10, star_max 5000.
  "mature", "established", "battle-tested" -> star_min 5000.
  No popularity language -> star_min {{.DefaultFloor}}.
  Feature adjectives like "lightweight" or "fast" are NOT popularity language.
- topics: up to 2 likely repository topic tags, lowercase-hyphenated.
- expanded_keywords: {{.ExpansionRule}}`

// expansionRules gives the mode-specific instruction spliced into the system
// prompt.
var expansionRules = map[types.Mode]string{
	types.ModeFocused:     "always an empty array; do not expand.",
	types.ModeBalanced:    "2-3 close synonyms or alternate names for the core terms.",
	types.ModeExploratory: "5-8 broader or adjacent terms that widen the search.",
}

// userPromptTmpl carries the few-shot examples and the actual query.
var userPromptTmpl = template.Must(template.New("translate").Parse(`Examples:

Query: "popular React animation library"
{"keywords": ["React", "animation", "library"], "expanded_keywords": ["motion", "transition"], "language": "javascript", "star_min": 1000, "star_max": 0, "topics": ["react", "animation"]}

Query: "TypeScript ORM for PostgreSQL"
{"keywords": ["TypeScript", "ORM", "PostgreSQL"], "expanded_keywords": [], "language": "typescript", "star_min": {{.DefaultFloor}}, "star_max": 0, "topics": ["orm", "postgresql"]}

Query: "new Rust terminal emulator"
{"keywords": ["Rust", "terminal", "emulator"], "expanded_keywords": ["tty", "console"], "language": "rust", "star_min": 10, "star_max": 5000, "topics": ["terminal"]}

Query: {{printf "%q" .Query}}
`))

func renderPrompts(query string, mode types.Mode, defaultFloor int) (system, user string, err error) {
	sysTmpl, err := template.New("system").Parse(systemPrompt)
	if err != nil {
		return "", "", err
	}

	var sys bytes.Buffer
	err = sysTmpl.Execute(&sys, struct {
		DefaultFloor  int
		ExpansionRule string
	}{defaultFloor, expansionRules[mode]})
	if err != nil {
		return "", "", err
	}

	var usr bytes.Buffer
	err = userPromptTmpl.Execute(&usr, struct {
		Query        string
		DefaultFloor int
	}{query, defaultFloor})
	if err != nil {
		return "", "", err
	}

	return sys.String(), usr.String(), nil
}
