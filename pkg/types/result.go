// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Status is the outcome of checking one document.
type Status string

const (
	StatusFound      Status = "found"
	StatusNotFound   Status = "not_found"
	StatusFetchError Status = "fetch_error"
	StatusParseError Status = "parse_error"
)

// Failed reports whether the status is an error.
func (s Status) Failed() bool {
	return s == StatusFetchError || s == StatusParseError
}

// Result holds the outcome of checking a single location.
type Result struct {
	// URL is the location as it appeared in the list.
	URL string `json:"url" yaml:"url"`

	// Status is found, not_found, fetch_error, or parse_error.
	Status Status `json:"status" yaml:"status"`

	// Found reports whether a keyword matched.
	Found bool `json:"found" yaml:"found"`

	// Keyword is the first matched keyword, as configured.
	Keyword string `json:"keyword,omitempty" yaml:"keyword,omitempty"`

	// Page is the 1-based page of the match.
	Page int `json:"page,omitempty" yaml:"page,omitempty"`

	// Pages is the page count of the document, when it could be parsed.
	Pages int `json:"pages,omitempty" yaml:"pages,omitempty"`

	// Error describes the failure for fetch_error and parse_error.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// CheckedAt is when the check finished.
	CheckedAt time.Time `json:"checked_at" yaml:"checked_at"`
}

// Run is one invocation of the checker over a location list.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Source    string    `json:"source" yaml:"source"`
	Keywords  []string  `json:"keywords" yaml:"keywords"`
}
