// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// StageError records a non-fatal failure absorbed at a stage boundary.
type StageError struct {
	// Stage names the pipeline stage that absorbed the failure
	// (e.g. "translate", "scout", "evaluate").
	Stage string `json:"stage" yaml:"stage"`

	// Message is the human-readable failure description.
	Message string `json:"message" yaml:"message"`
}

// Cost summarizes model usage for one pipeline run.
type Cost struct {
	// LLMCalls is the number of completed model calls, including failures.
	LLMCalls int `json:"llm_calls" yaml:"llm_calls"`

	// Tokens is the estimated total of prompt plus completion tokens.
	Tokens int `json:"tokens" yaml:"tokens"`

	// EstimatedUSD is a rough dollar estimate derived from Tokens.
	EstimatedUSD float64 `json:"estimated_usd" yaml:"estimated_usd"`
}

// Add accumulates another cost into this one.
func (c *Cost) Add(other Cost) {
	c.LLMCalls += other.LLMCalls
	c.Tokens += other.Tokens
	c.EstimatedUSD += other.EstimatedUSD
}

// PipelineRun is the frozen summary of one discovery run: the translated
// spec, the candidate funnel, the ranked results, and observability data.
// It is created at pipeline start, appended to by each stage, and frozen at
// the end; the frozen value is what the result cache stores.
type PipelineRun struct {
	// Query is the original free-text request.
	Query string `json:"query" yaml:"query"`

	// Mode is the expansion mode the run was executed with.
	Mode Mode `json:"mode" yaml:"mode"`

	// Spec is the translated search specification.
	Spec SearchSpec `json:"spec" yaml:"spec"`

	// Candidates counts repositories surviving each funnel stage.
	Candidates FunnelCounts `json:"candidates" yaml:"candidates"`

	// Scored is the final ranked result list.
	Scored []ScoredRepository `json:"scored" yaml:"scored"`

	// Errors lists every non-fatal failure absorbed during the run.
	Errors []StageError `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Timings holds wall-clock duration per stage, keyed by stage name.
	Timings map[string]time.Duration `json:"timings" yaml:"timings"`

	// Cost summarizes model usage.
	Cost Cost `json:"cost" yaml:"cost"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// Cached is true when this run was served from the result cache.
	Cached bool `json:"cached" yaml:"cached"`
}

// FunnelCounts tracks how many candidates survived each reduction stage.
type FunnelCounts struct {
	// Fetched is the merged, deduplicated scout output size.
	Fetched int `json:"fetched" yaml:"fetched"`

	// Duplicates is the number of cross-strategy duplicates removed.
	Duplicates int `json:"duplicates" yaml:"duplicates"`

	// Working is the coarse-filtered working set size that was scored.
	Working int `json:"working" yaml:"working"`
}

// RecordError appends a non-fatal stage failure to the run.
func (r *PipelineRun) RecordError(stage string, err error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, StageError{Stage: stage, Message: err.Error()})
}

// RecordTiming stores the duration of one stage.
func (r *PipelineRun) RecordTiming(stage string, d time.Duration) {
	if r.Timings == nil {
		r.Timings = make(map[string]time.Duration)
	}
	r.Timings[stage] = d
}
