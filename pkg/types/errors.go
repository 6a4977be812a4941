// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// ValidationError reports malformed caller input. It fails fast and is never
// converted to a fallback value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TimeoutError reports an external call exceeding its deadline. Call sites
// recover from it locally with a fallback value.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Op, e.Timeout)
}

// RateLimitError reports a search API rate-limit rejection. It carries
// user-actionable retry guidance and is surfaced, not silently retried.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "search API rate limit exceeded"
	}
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: retry after %s", msg, e.RetryAfter.Round(time.Second))
	}
	return msg + ": wait a minute before retrying, or configure a github-token secret for higher limits"
}

// ParseError reports model output that failed JSON parsing or schema
// validation. Call sites recover from it with a neutral fallback.
type ParseError struct {
	Stage  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: unparseable model response: %s", e.Stage, e.Reason)
}

// StrategyError reports the isolated failure of one scout strategy or one
// repository evaluation. It is recorded on the run and never aborts siblings.
type StrategyError struct {
	Strategy string
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Strategy, e.Err)
}

func (e *StrategyError) Unwrap() error { return e.Err }
