// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "repo-scout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LLMConfig holds shared settings for stages that call an OpenAI-compatible
// completion API.
type LLMConfig struct {
	// BaseURL is the API base URL. Empty means the public OpenAI endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Model is the model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// TranslateConfig holds settings for the search spec translator.
type TranslateConfig struct {
	LLMConfig `yaml:",inline"`

	// CallTimeout bounds the single translation call (default 5s).
	CallTimeout time.Duration `json:"call_timeout" yaml:"call_timeout"`

	// DefaultStarFloor is the minimum star count used when the query
	// carries no popularity language (default 100).
	DefaultStarFloor int `json:"default_star_floor" yaml:"default_star_floor"`
}

// ScoutConfig holds settings for the candidate scout stage.
type ScoutConfig struct {
	HTTPConfig `yaml:",inline"`

	// Token is an optional code-host API token for higher rate limits.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// PerPage is the page size requested per strategy call (default 30).
	PerPage int `json:"per_page" yaml:"per_page"`

	// MaxCandidates caps the merged scout output (default 100).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`

	// RecencyDivisor reduces the star floor for the by-recency strategy:
	// floor = max(min/RecencyDivisor, RecencyMinStars). Default 4.
	RecencyDivisor int `json:"recency_divisor" yaml:"recency_divisor"`

	// RecencyMinStars is the absolute floor for the by-recency strategy
	// (default 10).
	RecencyMinStars int `json:"recency_min_stars" yaml:"recency_min_stars"`

	// ForkStarThreshold drops forks below this star count as trivial
	// (default 100).
	ForkStarThreshold int `json:"fork_star_threshold" yaml:"fork_star_threshold"`
}

// CoarseConfig holds the rule thresholds for the coarse candidate filter.
type CoarseConfig struct {
	// MinStars drops repositories below this floor (default 10).
	MinStars int `json:"min_stars" yaml:"min_stars"`

	// MaxAge drops repositories created longer ago than this (default 10y).
	MaxAge time.Duration `json:"max_age" yaml:"max_age"`

	// MaxStaleness drops repositories not pushed to within this window
	// (default 730 days).
	MaxStaleness time.Duration `json:"max_staleness" yaml:"max_staleness"`

	// RequireReadme drops repositories without a README indicator.
	RequireReadme bool `json:"require_readme" yaml:"require_readme"`

	// MaxWorkingSet caps the filtered set handed to the scorers (default 25).
	MaxWorkingSet int `json:"max_working_set" yaml:"max_working_set"`
}

// EvaluateConfig holds settings for the LLM evaluator stage.
type EvaluateConfig struct {
	LLMConfig `yaml:",inline"`

	// CallTimeout bounds each per-repository model call (default 8s).
	CallTimeout time.Duration `json:"call_timeout" yaml:"call_timeout"`

	// Concurrency is the number of simultaneous in-flight model calls
	// (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// ContextTokenBudget truncates the per-repository context to roughly
	// this many tokens (default 1500).
	ContextTokenBudget int `json:"context_token_budget" yaml:"context_token_budget"`

	// USDPerThousandTokens drives the run cost estimate (default 0.002).
	USDPerThousandTokens float64 `json:"usd_per_thousand_tokens" yaml:"usd_per_thousand_tokens"`
}

// CacheConfig holds settings for the in-memory result cache.
type CacheConfig struct {
	// Capacity is the LRU entry bound (default 128).
	Capacity int `json:"capacity" yaml:"capacity"`

	// TTL is the entry lifetime, refreshed on read (default 1h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Translate TranslateConfig `json:"translate" yaml:"translate"`
	Scout     ScoutConfig     `json:"scout" yaml:"scout"`
	Coarse    CoarseConfig    `json:"coarse" yaml:"coarse"`
	Evaluate  EvaluateConfig  `json:"evaluate" yaml:"evaluate"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
}

// DefaultPipelineConfig returns the standard tunable set.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Translate: TranslateConfig{
			CallTimeout:      5 * time.Second,
			DefaultStarFloor: 100,
		},
		Scout: ScoutConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   10 * time.Second,
				UserAgent: "repo-scout/0.1",
			},
			PerPage:           30,
			MaxCandidates:     100,
			RecencyDivisor:    4,
			RecencyMinStars:   10,
			ForkStarThreshold: 100,
		},
		Coarse: CoarseConfig{
			MinStars:      10,
			MaxAge:        10 * 365 * 24 * time.Hour,
			MaxStaleness:  730 * 24 * time.Hour,
			RequireReadme: true,
			MaxWorkingSet: 25,
		},
		Evaluate: EvaluateConfig{
			CallTimeout:          8 * time.Second,
			Concurrency:          4,
			ContextTokenBudget:   1500,
			USDPerThousandTokens: 0.002,
		},
		Cache: CacheConfig{
			Capacity: 128,
			TTL:      time.Hour,
		},
	}
}
