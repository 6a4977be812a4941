// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// CandidateRepository is an immutable snapshot of a repository returned by
// the code-host search API. It is fetched once per pipeline run and never
// mutated after creation. Identity is Owner/Name.
type CandidateRepository struct {
	// Owner is the account that owns the repository.
	Owner string `json:"owner" yaml:"owner"`

	// Name is the repository name within the owner account.
	Name string `json:"name" yaml:"name"`

	// Description is the short description shown on the repository page.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// URL is the HTML URL of the repository.
	URL string `json:"url" yaml:"url"`

	// Stars is the stargazer count at snapshot time.
	Stars int `json:"stars" yaml:"stars"`

	// Forks is the fork count at snapshot time.
	Forks int `json:"forks" yaml:"forks"`

	// OpenIssues is the open issue count at snapshot time.
	OpenIssues int `json:"open_issues" yaml:"open_issues"`

	// Language is the dominant language reported by the host.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// Topics are the repository topic tags.
	Topics []string `json:"topics,omitempty" yaml:"topics,omitempty"`

	// CreatedAt is when the repository was created.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// UpdatedAt is when repository metadata last changed.
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`

	// PushedAt is when code was last pushed.
	PushedAt time.Time `json:"pushed_at" yaml:"pushed_at"`

	// Size is the repository size in kilobytes as reported by the host.
	Size int `json:"size" yaml:"size"`

	// IsFork reports whether the repository is a fork.
	IsFork bool `json:"is_fork" yaml:"is_fork"`

	// IsArchived reports whether the repository is archived.
	IsArchived bool `json:"is_archived" yaml:"is_archived"`

	// HasReadme indicates whether the repository appears to carry a README.
	HasReadme bool `json:"has_readme" yaml:"has_readme"`
}

// FullName returns the owner/name identity key used for deduplication.
func (r CandidateRepository) FullName() string {
	return r.Owner + "/" + r.Name
}

// Age returns the time elapsed since the repository was created.
func (r CandidateRepository) Age(now time.Time) time.Duration {
	if r.CreatedAt.IsZero() {
		return 0
	}
	return now.Sub(r.CreatedAt)
}

// SincePush returns the time elapsed since the last push.
func (r CandidateRepository) SincePush(now time.Time) time.Duration {
	if r.PushedAt.IsZero() {
		return 0
	}
	return now.Sub(r.PushedAt)
}
