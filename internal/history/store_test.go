// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/toc-checker/pkg/types"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history", "toc.db")
	s, err := Open(types.HistoryConfig{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

var base = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

func recordSample(t *testing.T, s *Store, runID string, at time.Time, results ...types.Result) {
	t.Helper()
	run := types.Run{ID: runID, StartedAt: at, Source: "urls.txt", Keywords: []string{"Table of Contents"}}
	for i := range results {
		results[i].CheckedAt = at.Add(time.Duration(i) * time.Second)
	}
	require.NoError(t, s.RecordRun(context.Background(), run, results))
}

func TestOpenCreatesDBFile(t *testing.T) {
	_, path := testStore(t)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open(types.HistoryConfig{})
	assert.Error(t, err)
}

func TestRecordAndQuery(t *testing.T) {
	s, _ := testStore(t)
	recordSample(t, s, "run-1", base,
		types.Result{URL: "https://a/x.pdf", Status: types.StatusFound, Found: true, Keyword: "Table of Contents", Page: 2, Pages: 12},
		types.Result{URL: "https://a/y.pdf", Status: types.StatusFetchError, Error: "fetch error: HTTP 404"},
	)

	entries, err := s.Query(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "https://a/y.pdf", entries[0].URL)
	assert.Equal(t, types.StatusFetchError, entries[0].Status)
	assert.Equal(t, "fetch error: HTTP 404", entries[0].Error)
	assert.False(t, entries[0].Found)

	assert.Equal(t, "https://a/x.pdf", entries[1].URL)
	assert.True(t, entries[1].Found)
	assert.Equal(t, "Table of Contents", entries[1].Keyword)
	assert.Equal(t, 2, entries[1].Page)
	assert.Equal(t, 12, entries[1].Pages)
	assert.Equal(t, "run-1", entries[1].RunID)
	assert.True(t, base.Equal(entries[1].CheckedAt))
}

func TestQueryFilters(t *testing.T) {
	s, _ := testStore(t)
	recordSample(t, s, "run-1", base,
		types.Result{URL: "https://a/x.pdf", Status: types.StatusNotFound},
	)
	recordSample(t, s, "run-2", base.Add(time.Hour),
		types.Result{URL: "https://a/x.pdf", Status: types.StatusFound, Found: true, Keyword: "Contents", Page: 1},
		types.Result{URL: "https://a/z.pdf", Status: types.StatusNotFound},
	)

	ctx := context.Background()

	byURL, err := s.Query(ctx, Filter{URL: "https://a/x.pdf"})
	require.NoError(t, err)
	require.Len(t, byURL, 2)
	assert.Equal(t, "run-2", byURL[0].RunID)

	byRun, err := s.Query(ctx, Filter{RunID: "run-1"})
	require.NoError(t, err)
	require.Len(t, byRun, 1)

	byStatus, err := s.Query(ctx, Filter{Status: types.StatusNotFound})
	require.NoError(t, err)
	assert.Len(t, byStatus, 2)

	limited, err := s.Query(ctx, Filter{MaxResults: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestLatestByURL(t *testing.T) {
	s, _ := testStore(t)
	recordSample(t, s, "run-1", base, types.Result{URL: "https://a/x.pdf", Status: types.StatusNotFound})
	recordSample(t, s, "run-2", base.Add(time.Minute), types.Result{URL: "https://a/x.pdf", Status: types.StatusFound, Found: true})

	e, err := s.LatestByURL(context.Background(), "https://a/x.pdf")
	require.NoError(t, err)
	assert.Equal(t, "run-2", e.RunID)
	assert.Equal(t, types.StatusFound, e.Status)

	_, err = s.LatestByURL(context.Background(), "https://a/none.pdf")
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestRuns(t *testing.T) {
	s, _ := testStore(t)
	recordSample(t, s, "run-1", base)
	recordSample(t, s, "run-2", base.Add(time.Hour))

	runs, err := s.Runs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "urls.txt", runs[0].Source)
	assert.Equal(t, []string{"Table of Contents"}, runs[0].Keywords)
}

func TestRecordRunDuplicateIDFails(t *testing.T) {
	s, _ := testStore(t)
	recordSample(t, s, "run-1", base, types.Result{URL: "https://a/x.pdf", Status: types.StatusNotFound})

	err := s.RecordRun(context.Background(), types.Run{ID: "run-1", StartedAt: base}, []types.Result{
		{URL: "https://a/y.pdf", Status: types.StatusNotFound, CheckedAt: base},
	})
	require.Error(t, err)

	// The failed run leaves no partial results behind.
	entries, err := s.Query(context.Background(), Filter{URL: "https://a/y.pdf"})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestQueryCorruptRows(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()
	recordSample(t, s, "run-1", base, types.Result{URL: "https://a/x.pdf", Status: types.StatusFound})

	_, err := s.db.Exec(`UPDATE results SET checked_at = 'yesterday'`)
	require.NoError(t, err)
	_, err = s.Query(ctx, Filter{})
	assert.ErrorContains(t, err, "parsing checked_at")

	_, err = s.db.Exec(`UPDATE runs SET keywords = '{not json'`)
	require.NoError(t, err)
	_, err = s.Runs(ctx, 0)
	assert.ErrorContains(t, err, "decoding keywords of run run-1")

	_, err = s.db.Exec(`UPDATE runs SET started_at = 'soon'`)
	require.NoError(t, err)
	_, err = s.Runs(ctx, 0)
	assert.ErrorContains(t, err, "parsing started_at of run run-1")
}
