// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts page text and text runs from PDF documents.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrParse is wrapped by every error this package returns.
var ErrParse = errors.New("parse error")

var magic = []byte("%PDF-")

// Span is a run of text on one line set in a single font and size.
type Span struct {
	Text string
	Font string
	Size float64
	Bold bool

	// Y is the baseline in user space.
	Y float64
}

// Document is an opened PDF.
type Document struct {
	r     *pdf.Reader
	pages int
}

// Open parses data as a PDF document.
func Open(data []byte) (doc *Document, err error) {
	if !bytes.HasPrefix(data, magic) {
		return nil, fmt.Errorf("%w: not a PDF (missing %%PDF- header)", ErrParse)
	}

	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %v", ErrParse, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return &Document{r: r, pages: r.NumPage()}, nil
}

// NumPages returns the page count from the page tree.
func (d *Document) NumPages() int {
	return d.pages
}

func (d *Document) page(n int) (pdf.Page, error) {
	if n < 1 || n > d.pages {
		return pdf.Page{}, fmt.Errorf("%w: page %d out of range (1-%d)", ErrParse, n, d.pages)
	}
	p := d.r.Page(n)
	if p.V.IsNull() {
		return pdf.Page{}, fmt.Errorf("%w: page %d missing from page tree", ErrParse, n)
	}
	return p, nil
}

// PageText returns the plain text of page n (1-based).
func (d *Document) PageText(n int) (string, error) {
	p, err := d.page(n)
	if err != nil {
		return "", err
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("%w: page %d: %w", ErrParse, n, err)
	}
	return text, nil
}

// PageSpans returns the text runs of page n (1-based) in content order.
func (d *Document) PageSpans(n int) (spans []Span, err error) {
	p, err := d.page(n)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			spans = nil
			err = fmt.Errorf("%w: page %d: %v", ErrParse, n, r)
		}
	}()

	return groupSpans(p.Content().Text), nil
}

// PageLines returns the text of page n split into lines by baseline.
func (d *Document) PageLines(n int) ([]string, error) {
	spans, err := d.PageSpans(n)
	if err != nil {
		return nil, err
	}
	return joinLines(spans), nil
}

// lineTolerance is the baseline difference, in user space units, below
// which two glyphs are on the same line.
const lineTolerance = 0.5

type spanBuilder struct {
	span  Span
	text  strings.Builder
	valid bool
}

// groupSpans merges consecutive glyphs sharing font, size and baseline.
func groupSpans(glyphs []pdf.Text) []Span {
	var (
		spans []Span
		cur   spanBuilder
	)
	flush := func() {
		if !cur.valid {
			return
		}
		cur.span.Text = cur.text.String()
		if strings.TrimSpace(cur.span.Text) != "" {
			spans = append(spans, cur.span)
		}
		cur = spanBuilder{}
	}

	for _, g := range glyphs {
		same := cur.valid &&
			g.Font == cur.span.Font &&
			g.FontSize == cur.span.Size &&
			math.Abs(g.Y-cur.span.Y) < lineTolerance
		if !same {
			flush()
			cur.valid = true
			cur.span = Span{
				Font: g.Font,
				Size: g.FontSize,
				Bold: isBold(g.Font),
				Y:    g.Y,
			}
		}
		cur.text.WriteString(g.S)
	}
	flush()
	return spans
}

// joinLines concatenates spans into lines. A span starts a new line when
// its baseline differs from the previous span's.
func joinLines(spans []Span) []string {
	var lines []string
	var b strings.Builder
	for i, s := range spans {
		if i > 0 && !sameLine(spans[i-1], s) {
			lines = append(lines, b.String())
			b.Reset()
		}
		b.WriteString(s.Text)
	}
	if b.Len() > 0 {
		lines = append(lines, b.String())
	}
	return lines
}

func sameLine(a, b Span) bool {
	return math.Abs(a.Y-b.Y) < lineTolerance
}

func isBold(font string) bool {
	return strings.Contains(strings.ToLower(font), "bold")
}
