// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds HTTP settings used when fetching remote documents.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout (default 15s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "toc-checker/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429. Zero means a
	// single attempt.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// MaxBytes caps the size of a downloaded document (default 64 MiB).
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes"`

	// Authorization, when set, is sent as the Authorization header.
	Authorization string `json:"-" yaml:"-"`
}

// CheckConfig holds settings for a check run.
type CheckConfig struct {
	HTTPConfig `yaml:",inline"`

	// Keywords is the set of phrases searched for. An empty slice means
	// the defaults.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// MaxPages is the number of leading pages scanned (default 7).
	MaxPages int `json:"max_pages" yaml:"max_pages"`

	// MinPages, when positive, reports documents with fewer pages as not
	// found without scanning them.
	MinPages int `json:"min_pages" yaml:"min_pages"`

	// RequireHeading accepts a keyword hit only when the keyword is set
	// apart from the surrounding text by size, font, or weight.
	RequireHeading bool `json:"require_heading" yaml:"require_heading"`

	// RequireEntries accepts a keyword hit only when the same page holds at
	// least one TOC-like entry line.
	RequireEntries bool `json:"require_entries" yaml:"require_entries"`

	// Delay is the pause between consecutive documents.
	Delay time.Duration `json:"delay" yaml:"delay"`
}

// HistoryConfig holds settings for the run history store.
type HistoryConfig struct {
	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// OutputFormat selects the report format.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)
