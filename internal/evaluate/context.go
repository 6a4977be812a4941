// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evaluate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/pdiddy/repo-scout/pkg/types"
)

// Raw content and contents-API bases. Package vars so tests can substitute
// httptest servers.
var (
	rawContentBase  = "https://raw.githubusercontent.com"
	contentsAPIBase = "https://api.github.com/repos"
)

// Manifest filenames checked when summarizing dependencies, in preference
// order.
var manifestNames = []string{
	"package.json", "go.mod", "pyproject.toml", "Cargo.toml", "Gemfile", "pom.xml",
}

// RepoContext is the truncated evidence handed to the model for one
// repository.
type RepoContext struct {
	Readme   string
	FileTree string
	Manifest string
}

// Fetcher retrieves best-effort context for a repository. Every fetch
// failure degrades to an empty field; the evaluator can always fall back to
// metadata-only judgment.
type Fetcher struct {
	HTTP      *http.Client
	Token     string
	UserAgent string
}

// Fetch assembles README excerpt, file-tree summary, and manifest excerpt.
func (f *Fetcher) Fetch(ctx context.Context, repo types.CandidateRepository) RepoContext {
	var rc RepoContext
	rc.Readme = f.fetchReadme(ctx, repo)
	rc.FileTree, rc.Manifest = f.fetchTree(ctx, repo)
	return rc
}

func (f *Fetcher) fetchReadme(ctx context.Context, repo types.CandidateRepository) string {
	url := fmt.Sprintf("%s/%s/%s/HEAD/README.md", rawContentBase, repo.Owner, repo.Name)
	body, err := f.get(ctx, url, "")
	if err != nil {
		return ""
	}
	return body
}

// fetchTree lists the repository root via the contents API and returns a
// one-line-per-entry summary plus the first recognized manifest's name.
func (f *Fetcher) fetchTree(ctx context.Context, repo types.CandidateRepository) (tree, manifest string) {
	url := fmt.Sprintf("%s/%s/%s/contents", contentsAPIBase, repo.Owner, repo.Name)
	body, err := f.get(ctx, url, "application/vnd.github+json")
	if err != nil {
		return "", ""
	}

	var entries []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(body), &entries); err != nil {
		return "", ""
	}

	var b strings.Builder
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Type == "dir" {
			b.WriteString(e.Name + "/\n")
		} else {
			b.WriteString(e.Name + "\n")
		}
		names[e.Name] = true
	}

	for _, m := range manifestNames {
		if names[m] {
			manifest = m
			break
		}
	}
	return b.String(), manifest
}

func (f *Fetcher) get(ctx context.Context, url, accept string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	if f.Token != "" && accept != "" {
		req.Header.Set("Authorization", "Bearer "+f.Token)
	}

	client := f.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	// Context excerpts are small; never read more than 64 KiB.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Truncator bounds text to a token budget using the cl100k_base encoding,
// with a bytes/4 heuristic when the encoding is unavailable (it is fetched
// on first use and may be absent offline).
type Truncator struct {
	enc *tiktoken.Tiktoken
}

// NewTruncator loads the encoding once. A load failure is not fatal.
func NewTruncator() *Truncator {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &Truncator{}
	}
	return &Truncator{enc: enc}
}

// Truncate cuts s to at most budget tokens.
func (t *Truncator) Truncate(s string, budget int) string {
	if budget <= 0 || s == "" {
		return ""
	}
	if t.enc == nil {
		limit := budget * 4
		if len(s) <= limit {
			return s
		}
		return s[:limit]
	}
	tokens := t.enc.Encode(s, nil, nil)
	if len(tokens) <= budget {
		return s
	}
	return t.enc.Decode(tokens[:budget])
}

// Count estimates the token count of s.
func (t *Truncator) Count(s string) int {
	if s == "" {
		return 0
	}
	if t.enc == nil {
		return len(s) / 4
	}
	return len(t.enc.Encode(s, nil, nil))
}
