// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evaluate

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/pdiddy/repo-scout/pkg/types"
)

// qualitySystemPrompt fixes the judgment dimensions and response schema for
// the quality variant. Each score is 0-10.
const qualitySystemPrompt = `You are a software repository quality assessor. Judge the repository evidence you are given on three dimensions, each scored 0-10:

- documentation: completeness and clarity of README, examples, and API docs.
- ease_of_use: how quickly a competent developer could adopt this project.
- relevance: how well the repository matches the user's request.

Respond with a single JSON object and nothing else:
{"documentation": 0.0, "ease_of_use": 0.0, "relevance": 0.0}`

// suitabilitySystemPrompt fixes the judgment dimensions for the suitability
// variant: documentation 0-30, token_economy 0-20, plus a recommendation
// label. The label is advisory; the caller rederives it from the numbers.
const suitabilitySystemPrompt = `You are assessing whether a repository suits use as an agent-driven tool. Judge two dimensions:

- documentation (0-30): completeness of usage documentation.
- token_economy (0-20): how compactly the tool's interface can be described to a language model agent.

Respond with a single JSON object and nothing else:
{"documentation": 0.0, "token_economy": 0.0, "recommendation": "strong_match|possible_match|weak_match"}`

// userPromptTmpl renders the repository evidence shared by both variants.
var userPromptTmpl = template.Must(template.New("evaluate").Parse(`User request: {{printf "%q" .Query}}

Repository: {{.Repo.FullName}}
Description: {{.Repo.Description}}
Language: {{.Repo.Language}}  Stars: {{.Repo.Stars}}  Forks: {{.Repo.Forks}}  Open issues: {{.Repo.OpenIssues}}
{{if .Ctx.Manifest}}Dependency manifest: {{.Ctx.Manifest}}
{{end}}{{if .Ctx.FileTree}}Top-level files:
{{.Ctx.FileTree}}
{{end}}{{if .Ctx.Readme}}README excerpt:
{{.Ctx.Readme}}
{{end}}`))

func renderUserPrompt(query string, repo types.CandidateRepository, rc RepoContext) (string, error) {
	var buf bytes.Buffer
	err := userPromptTmpl.Execute(&buf, struct {
		Query string
		Repo  types.CandidateRepository
		Ctx   RepoContext
	}{query, repo, rc})
	if err != nil {
		return "", fmt.Errorf("rendering evaluation prompt: %w", err)
	}
	return buf.String(), nil
}
