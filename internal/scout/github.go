// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/repo-scout/internal/httputil"
	"github.com/pdiddy/repo-scout/pkg/types"
)

// githubAPIBase is the repository search endpoint. Declared as a var so
// tests can substitute an httptest server.
var githubAPIBase = "https://api.github.com/search/repositories"

// Sort orders accepted by the search endpoint.
const (
	SortStars   = "stars"
	SortUpdated = "updated"
)

// Client queries the code-host repository search API.
type Client struct {
	HTTP      *http.Client
	Token     string
	UserAgent string
}

// NewClient builds a search client from the scout configuration.
func NewClient(cfg types.ScoutConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		Token:     cfg.Token,
		UserAgent: cfg.UserAgent,
	}
}

// Search executes one repository search and maps the response to candidate
// snapshots. Rate-limit rejections (403 with exhausted quota, or 429) map to
// *types.RateLimitError; query validation rejections (422) map to
// *types.ValidationError.
func (c *Client) Search(ctx context.Context, query, sort string, perPage int) ([]types.CandidateRepository, error) {
	if query == "" {
		return nil, &types.ValidationError{Field: "query", Reason: "empty search query"}
	}
	if perPage <= 0 {
		perPage = 30
	}

	params := url.Values{
		"q":        {query},
		"per_page": {fmt.Sprintf("%d", perPage)},
	}
	if sort != "" {
		params.Set("sort", sort)
		params.Set("order", "desc")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, githubAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("repository search request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusForbidden, http.StatusTooManyRequests:
		if resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.StatusCode == http.StatusTooManyRequests {
			return nil, &types.RateLimitError{RetryAfter: httputil.RetryAfter(resp)}
		}
		return nil, fmt.Errorf("repository search forbidden (HTTP 403): check the github-token secret")
	case http.StatusUnprocessableEntity:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &types.ValidationError{Field: "query", Reason: fmt.Sprintf("search API rejected %q: %s", query, string(body))}
	default:
		return nil, fmt.Errorf("repository search returned HTTP %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	results := make([]types.CandidateRepository, 0, len(sr.Items))
	for _, item := range sr.Items {
		results = append(results, item.toCandidate())
	}
	return results, nil
}

// Search API JSON structures.
type searchResponse struct {
	TotalCount        int        `json:"total_count"`
	IncompleteResults bool       `json:"incomplete_results"`
	Items             []repoItem `json:"items"`
}

type repoItem struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Owner       repoOwner `json:"owner"`
	HTMLURL     string    `json:"html_url"`
	Description string    `json:"description"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	OpenIssues  int       `json:"open_issues_count"`
	Language    string    `json:"language"`
	Topics      []string  `json:"topics"`
	Size        int       `json:"size"`
	Fork        bool      `json:"fork"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PushedAt    time.Time `json:"pushed_at"`
}

type repoOwner struct {
	Login string `json:"login"`
}

func (it repoItem) toCandidate() types.CandidateRepository {
	return types.CandidateRepository{
		Owner:       it.Owner.Login,
		Name:        it.Name,
		Description: it.Description,
		URL:         it.HTMLURL,
		Stars:       it.Stars,
		Forks:       it.Forks,
		OpenIssues:  it.OpenIssues,
		Language:    it.Language,
		Topics:      it.Topics,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
		PushedAt:    it.PushedAt,
		Size:        it.Size,
		IsFork:      it.Fork,
		IsArchived:  it.Archived,
		// The search payload has no direct README field; a non-empty
		// description or non-trivial size is the closest signal.
		HasReadme: it.Description != "" || it.Size > 0,
	}
}
