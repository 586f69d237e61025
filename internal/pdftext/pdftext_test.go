// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/toc-checker/internal/pdftext/pdftest"
)

func TestOpen_NotPDF(t *testing.T) {
	_, err := Open([]byte("<html>not a pdf</html>"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestOpen_Truncated(t *testing.T) {
	data := pdftest.Text("Table of Contents")
	_, err := Open(data[:len(data)/2])
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestOpen_PageCount(t *testing.T) {
	doc, err := Open(pdftest.Blank(3))
	require.NoError(t, err)
	assert.Equal(t, 3, doc.NumPages())
}

func TestPageText(t *testing.T) {
	doc, err := Open(pdftest.Text("Cover page", "Table of Contents\n1 Introduction"))
	require.NoError(t, err)

	text, err := doc.PageText(2)
	require.NoError(t, err)
	assert.Contains(t, text, "Table of Contents")
	assert.Contains(t, text, "1 Introduction")

	text, err = doc.PageText(1)
	require.NoError(t, err)
	assert.NotContains(t, text, "Table of Contents")
}

func TestPageText_Latin1(t *testing.T) {
	doc, err := Open(pdftest.Text("Índice general"))
	require.NoError(t, err)

	text, err := doc.PageText(1)
	require.NoError(t, err)
	assert.Contains(t, text, "Índice")
}

func TestPageText_OutOfRange(t *testing.T) {
	doc, err := Open(pdftest.Blank(1))
	require.NoError(t, err)

	_, err = doc.PageText(0)
	assert.ErrorIs(t, err, ErrParse)
	_, err = doc.PageText(2)
	assert.ErrorIs(t, err, ErrParse)
}

func TestPageSpans(t *testing.T) {
	doc, err := Open(pdftest.Build(pdftest.Page{
		{Font: pdftest.Bold, Size: 18, Text: "Contents"},
		{Font: pdftest.Regular, Size: 11, Text: "1 Introduction"},
	}))
	require.NoError(t, err)

	spans, err := doc.PageSpans(1)
	require.NoError(t, err)
	require.Len(t, spans, 2)

	assert.Equal(t, "Contents", spans[0].Text)
	assert.Equal(t, "Helvetica-Bold", spans[0].Font)
	assert.InDelta(t, 18, spans[0].Size, 0.01)
	assert.True(t, spans[0].Bold)

	assert.Equal(t, "1 Introduction", spans[1].Text)
	assert.Equal(t, "Helvetica", spans[1].Font)
	assert.InDelta(t, 11, spans[1].Size, 0.01)
	assert.False(t, spans[1].Bold)
}

func TestPageLines(t *testing.T) {
	doc, err := Open(pdftest.Text("Contents\n1. Introduction\n2. Methods"))
	require.NoError(t, err)

	lines, err := doc.PageLines(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Contents", "1. Introduction", "2. Methods"}, lines)
}

func TestGroupSpans(t *testing.T) {
	glyphs := []pdf.Text{
		{Font: "Helvetica", FontSize: 11, Y: 700, S: "a"},
		{Font: "Helvetica", FontSize: 11, Y: 700, S: "b"},
		{Font: "Helvetica-Bold", FontSize: 11, Y: 700, S: "C"},
		{Font: "Helvetica", FontSize: 11, Y: 680, S: "d"},
		{Font: "Helvetica", FontSize: 11, Y: 660, S: " "},
	}
	spans := groupSpans(glyphs)
	require.Len(t, spans, 3)
	assert.Equal(t, "ab", spans[0].Text)
	assert.Equal(t, "C", spans[1].Text)
	assert.True(t, spans[1].Bold)
	assert.Equal(t, "d", spans[2].Text)

	assert.Equal(t, []string{"abC", "d"}, joinLines(spans))
}
