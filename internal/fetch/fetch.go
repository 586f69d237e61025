// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves PDF documents from HTTP URLs or the local
// filesystem.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/apex/log"

	"github.com/pdiddy/toc-checker/internal/httputil"
	"github.com/pdiddy/toc-checker/internal/urllist"
	"github.com/pdiddy/toc-checker/pkg/types"
)

// ErrFetch is wrapped by every error Fetch returns.
var ErrFetch = errors.New("fetch error")

// DefaultMaxBytes caps a download when HTTPConfig.MaxBytes is unset.
const DefaultMaxBytes = 64 << 20

// Fetcher retrieves documents.
type Fetcher struct {
	client *http.Client
	cfg    types.HTTPConfig
	logger log.Interface
}

// New returns a Fetcher that uses client for HTTP locations.
func New(client *http.Client, cfg types.HTTPConfig, logger log.Interface) *Fetcher {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if logger == nil {
		logger = log.Log
	}
	return &Fetcher{client: client, cfg: cfg, logger: logger}
}

// Fetch returns the raw bytes of the document at location.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	kind, norm := urllist.Classify(location)
	switch kind {
	case urllist.KindHTTP:
		data, err := f.fetchHTTP(ctx, norm)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetch, err)
		}
		return data, nil
	case urllist.KindFile:
		data, err := f.readFile(norm)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetch, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: unsupported location %q", ErrFetch, location)
	}
}

// fetchHTTP downloads url into memory. Only HTTP 200 counts as success.
func (f *Fetcher) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/pdf")
	if f.cfg.Authorization != "" {
		req.Header.Set("Authorization", f.cfg.Authorization)
	}

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.MaxRetries, f.logger)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	f.logger.WithFields(log.Fields{
		"url":          url,
		"content_type": resp.Header.Get("Content-Type"),
		"length":       resp.ContentLength,
	}).Debug("downloaded")

	return readLimited(resp.Body, f.cfg.MaxBytes)
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return readLimited(fd, f.cfg.MaxBytes)
}

// readLimited reads r fully, failing when it holds more than limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("document exceeds %d bytes", limit)
	}
	return data, nil
}
