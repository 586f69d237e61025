// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders check results as text, JSON, or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/toc-checker/internal/toc"
	"github.com/pdiddy/toc-checker/pkg/types"
)

// Reporter receives results as they are produced and a summary at the end.
type Reporter interface {
	Result(r types.Result) error
	Finish(b toc.BatchResult) error
}

// New returns a Reporter for format writing to w.
func New(format types.OutputFormat, w io.Writer, keywords []string) (Reporter, error) {
	switch format {
	case types.OutputText, "":
		return &textReporter{w: w}, nil
	case types.OutputJSON, types.OutputYAML:
		return &docReporter{w: w, format: format, keywords: keywords}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json, or yaml)", format)
	}
}

var (
	foundColor  = color.New(color.FgGreen)
	missColor   = color.New(color.FgYellow)
	failedColor = color.New(color.FgRed)
)

// textReporter prints one status line per result as it arrives.
type textReporter struct {
	w io.Writer
}

func (t *textReporter) Result(r types.Result) error {
	_, err := fmt.Fprintln(t.w, Line(r))
	return err
}

func (t *textReporter) Finish(b toc.BatchResult) error {
	_, err := fmt.Fprintf(t.w, "\nBatch summary: %d found, %d not found, %d failed (total: %d)\n",
		b.Found, b.NotFound, b.Failed, b.Total())
	return err
}

// Line formats a single result for terminal output.
func Line(r types.Result) string {
	switch {
	case r.Status.Failed():
		return fmt.Sprintf("%s %s (%s)", failedColor.Sprint("failed:   "), r.URL, r.Error)
	case r.Found:
		return fmt.Sprintf("%s %s (%q, page %d)", foundColor.Sprint("found:    "), r.URL, r.Keyword, r.Page)
	default:
		return fmt.Sprintf("%s %s", missColor.Sprint("not found:"), r.URL)
	}
}

// Document is the JSON and YAML report layout.
type Document struct {
	Keywords []string       `json:"keywords" yaml:"keywords"`
	Results  []types.Result `json:"results" yaml:"results"`
	Summary  Summary        `json:"summary" yaml:"summary"`
}

// Summary stores batch counters and a timestamp.
type Summary struct {
	Found     int       `json:"found" yaml:"found"`
	NotFound  int       `json:"not_found" yaml:"not_found"`
	Failed    int       `json:"failed" yaml:"failed"`
	Total     int       `json:"total" yaml:"total"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// docReporter writes a single document once the batch finishes.
type docReporter struct {
	w        io.Writer
	format   types.OutputFormat
	keywords []string
}

func (d *docReporter) Result(types.Result) error { return nil }

func (d *docReporter) Finish(b toc.BatchResult) error {
	doc := NewDocument(d.keywords, b)
	if d.format == types.OutputJSON {
		enc := json.NewEncoder(d.w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	enc := yaml.NewEncoder(d.w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding yaml report: %w", err)
	}
	return enc.Close()
}

// NewDocument builds the report document for a finished batch.
func NewDocument(keywords []string, b toc.BatchResult) Document {
	results := b.Results
	if results == nil {
		results = []types.Result{}
	}
	return Document{
		Keywords: keywords,
		Results:  results,
		Summary: Summary{
			Found:     b.Found,
			NotFound:  b.NotFound,
			Failed:    b.Failed,
			Total:     b.Total(),
			Timestamp: time.Now().UTC(),
		},
	}
}
