// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/toc-checker/internal/toc"
	"github.com/pdiddy/toc-checker/pkg/types"
)

func init() {
	color.NoColor = true
}

var checkedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleBatch() toc.BatchResult {
	return toc.BatchResult{
		Found:    1,
		NotFound: 1,
		Failed:   1,
		Results: []types.Result{
			{URL: "https://example.com/a.pdf", Status: types.StatusFound, Found: true, Keyword: "Table of Contents", Page: 2, Pages: 10, CheckedAt: checkedAt},
			{URL: "https://example.com/b.pdf", Status: types.StatusNotFound, Pages: 3, CheckedAt: checkedAt},
			{URL: "https://example.com/c.pdf", Status: types.StatusFetchError, Error: "fetch error: HTTP 404", CheckedAt: checkedAt},
		},
	}
}

func TestLine(t *testing.T) {
	b := sampleBatch()
	assert.Equal(t, `found:     https://example.com/a.pdf ("Table of Contents", page 2)`, Line(b.Results[0]))
	assert.Equal(t, `not found: https://example.com/b.pdf`, Line(b.Results[1]))
	assert.Equal(t, `failed:    https://example.com/c.pdf (fetch error: HTTP 404)`, Line(b.Results[2]))
}

func TestTextReporter(t *testing.T) {
	var buf bytes.Buffer
	r, err := New(types.OutputText, &buf, nil)
	require.NoError(t, err)

	b := sampleBatch()
	for _, res := range b.Results {
		require.NoError(t, r.Result(res))
	}
	require.NoError(t, r.Finish(b))

	want := `found:     https://example.com/a.pdf ("Table of Contents", page 2)
not found: https://example.com/b.pdf
failed:    https://example.com/c.pdf (fetch error: HTTP 404)

Batch summary: 1 found, 1 not found, 1 failed (total: 3)
`
	assert.Equal(t, want, buf.String())
}

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	r, err := New(types.OutputJSON, &buf, []string{"Table of Contents"})
	require.NoError(t, err)

	b := sampleBatch()
	require.NoError(t, r.Result(b.Results[0]))
	assert.Zero(t, buf.Len(), "results are written on Finish")
	require.NoError(t, r.Finish(b))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []string{"Table of Contents"}, doc.Keywords)
	require.Len(t, doc.Results, 3)
	assert.Equal(t, types.StatusFound, doc.Results[0].Status)
	assert.Equal(t, 2, doc.Results[0].Page)
	assert.Equal(t, 3, doc.Summary.Total)
	assert.Equal(t, 1, doc.Summary.Failed)
}

func TestYAMLReporter(t *testing.T) {
	var buf bytes.Buffer
	r, err := New(types.OutputYAML, &buf, []string{"Índice"})
	require.NoError(t, err)
	require.NoError(t, r.Finish(sampleBatch()))

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []string{"Índice"}, doc.Keywords)
	require.Len(t, doc.Results, 3)
	assert.Equal(t, "fetch error: HTTP 404", doc.Results[2].Error)
	assert.Contains(t, buf.String(), "status: not_found")
}

func TestNewDocument_EmptyBatch(t *testing.T) {
	doc := NewDocument(nil, toc.BatchResult{})
	assert.NotNil(t, doc.Results)
	assert.Zero(t, doc.Summary.Total)
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("xml", &bytes.Buffer{}, nil)
	assert.Error(t, err)
}
