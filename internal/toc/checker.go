// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toc checks PDF documents for table of contents keywords.
package toc

import (
	"context"
	"time"

	"github.com/apex/log"

	"github.com/pdiddy/toc-checker/internal/pdftext"
	"github.com/pdiddy/toc-checker/pkg/types"
)

// DefaultMaxPages is the number of leading pages scanned when
// CheckConfig.MaxPages is unset.
const DefaultMaxPages = 7

// Fetcher retrieves the raw bytes of a document.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// BatchResult holds the outcome of a batch check run.
type BatchResult struct {
	Found    int
	NotFound int
	Failed   int
	Results  []types.Result
}

// Total returns the number of locations processed.
func (r BatchResult) Total() int {
	return r.Found + r.NotFound + r.Failed
}

// HasFailures reports whether any location failed to fetch or parse.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Checker scans documents for keywords.
type Checker struct {
	fetcher Fetcher
	matcher *Matcher
	cfg     types.CheckConfig
	logger  log.Interface
	now     func() time.Time
}

// NewChecker returns a Checker that fetches documents with f.
func NewChecker(f Fetcher, cfg types.CheckConfig, logger log.Interface) *Checker {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if logger == nil {
		logger = log.Log
	}
	return &Checker{
		fetcher: f,
		matcher: NewMatcher(cfg.Keywords),
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Keywords returns the effective keyword set.
func (c *Checker) Keywords() []string {
	return c.matcher.Keywords()
}

// Check fetches the document at location and scans it. Failures are
// reported in the result, never returned.
func (c *Checker) Check(ctx context.Context, location string) types.Result {
	res := types.Result{URL: location}
	ctxLog := c.logger.WithField("url", location)

	data, err := c.fetcher.Fetch(ctx, location)
	if err != nil {
		ctxLog.WithError(err).Error("fetch failed")
		return c.fail(res, types.StatusFetchError, err)
	}

	doc, err := pdftext.Open(data)
	if err != nil {
		ctxLog.WithError(err).Error("parse failed")
		return c.fail(res, types.StatusParseError, err)
	}
	res.Pages = doc.NumPages()

	keyword, page := c.Scan(doc, ctxLog)
	if page > 0 {
		res.Status = types.StatusFound
		res.Found = true
		res.Keyword = keyword
		res.Page = page
	} else {
		res.Status = types.StatusNotFound
	}
	res.CheckedAt = c.now()
	ctxLog.WithFields(log.Fields{
		"status": res.Status,
		"pages":  res.Pages,
	}).Debug("checked")
	return res
}

func (c *Checker) fail(res types.Result, status types.Status, err error) types.Result {
	res.Status = status
	res.Error = err.Error()
	res.CheckedAt = c.now()
	return res
}

// Scan searches the leading pages of doc and returns the first matching
// keyword and its 1-based page. Page is 0 when nothing matched. Pages that
// cannot be decoded are skipped.
func (c *Checker) Scan(doc *pdftext.Document, logger log.Interface) (keyword string, page int) {
	if logger == nil {
		logger = c.logger
	}
	total := doc.NumPages()
	if c.cfg.MinPages > 0 && total < c.cfg.MinPages {
		logger.WithFields(log.Fields{
			"pages":     total,
			"min_pages": c.cfg.MinPages,
		}).Debug("document too short")
		return "", 0
	}

	for n := 1; n <= min(total, c.cfg.MaxPages); n++ {
		text, err := doc.PageText(n)
		if err != nil {
			logger.WithError(err).WithField("page", n).Warn("skipping page")
			continue
		}
		kw, ok := c.matcher.Match(text)
		if !ok {
			continue
		}
		if c.cfg.RequireHeading && !c.headingOnPage(doc, n, logger) {
			continue
		}
		if c.cfg.RequireEntries && !c.entriesOnPage(doc, n, logger) {
			continue
		}
		return kw, n
	}
	return "", 0
}

func (c *Checker) headingOnPage(doc *pdftext.Document, n int, logger log.Interface) bool {
	spans, err := doc.PageSpans(n)
	if err != nil {
		logger.WithError(err).WithField("page", n).Warn("cannot read text runs")
		return false
	}
	return IsHeading(spans, c.matcher)
}

func (c *Checker) entriesOnPage(doc *pdftext.Document, n int, logger log.Interface) bool {
	lines, err := doc.PageLines(n)
	if err != nil {
		logger.WithError(err).WithField("page", n).Warn("cannot read lines")
		return false
	}
	return HasEntries(lines)
}

// CheckBatch checks every location in order, calling observe after each
// one. It continues after individual failures and waits cfg.Delay between
// consecutive documents. It stops early when ctx is cancelled.
func (c *Checker) CheckBatch(ctx context.Context, locations []string, observe func(types.Result)) BatchResult {
	var result BatchResult
	for i, loc := range locations {
		if i > 0 && c.cfg.Delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(c.cfg.Delay):
			}
		}
		if ctx.Err() != nil {
			c.logger.WithField("remaining", len(locations)-i).Warn("batch interrupted")
			break
		}

		r := c.Check(ctx, loc)
		switch {
		case r.Status.Failed():
			result.Failed++
		case r.Found:
			result.Found++
		default:
			result.NotFound++
		}
		result.Results = append(result.Results, r)
		if observe != nil {
			observe(r)
		}
	}
	return result
}
