// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftest builds small PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Font resource names available to runs.
const (
	Regular = "F1" // Helvetica
	Bold    = "F2" // Helvetica-Bold
	Serif   = "F3" // Times-Roman
)

// Run is a line of text in one font and size.
type Run struct {
	Font string
	Size float64
	Text string
}

// Page is a sequence of runs, each on its own line from the top.
type Page []Run

// Body returns a page with every line set in the regular font at 11pt.
func Body(lines ...string) Page {
	p := make(Page, len(lines))
	for i, l := range lines {
		p[i] = Run{Font: Regular, Size: 11, Text: l}
	}
	return p
}

// Text builds a document with one page per argument. Lines within an
// argument are separated by "\n" and set in the regular font.
func Text(pages ...string) []byte {
	ps := make([]Page, len(pages))
	for i, p := range pages {
		ps[i] = Body(strings.Split(p, "\n")...)
	}
	return Build(ps...)
}

// Blank builds a document of n pages with filler text.
func Blank(n int) []byte {
	ps := make([]Page, n)
	for i := range ps {
		ps[i] = Body(fmt.Sprintf("Page %d filler text.", i+1))
	}
	return Build(ps...)
}

// Build renders pages into a PDF with a valid cross-reference table.
func Build(pages ...Page) []byte {
	const (
		catalogObj = 1
		pagesObj   = 2
		firstFont  = 3
		firstPage  = 6
	)
	numObjs := firstPage - 1 + 2*len(pages)

	var buf bytes.Buffer
	offsets := make([]int, numObjs+1)
	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	buf.WriteString("%PDF-1.4\n")

	writeObj(catalogObj, fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesObj))

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", firstPage+2*i)
	}
	writeObj(pagesObj, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pages)))

	for i, base := range []string{"Helvetica", "Helvetica-Bold", "Times-Roman"} {
		writeObj(firstFont+i, fmt.Sprintf(
			"<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding >>", base))
	}

	for i, p := range pages {
		pageNum := firstPage + 2*i
		contentNum := pageNum + 1
		writeObj(pageNum, fmt.Sprintf(
			"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 %d 0 R /F2 %d 0 R /F3 %d 0 R >> >> /Contents %d 0 R >>",
			pagesObj, firstFont, firstFont+1, firstFont+2, contentNum))

		content := contentStream(p)
		writeObj(contentNum, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", numObjs+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= numObjs; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		numObjs+1, catalogObj, xref)
	return buf.Bytes()
}

func contentStream(p Page) string {
	var b strings.Builder
	y := 740.0
	for _, r := range p {
		font := r.Font
		if font == "" {
			font = Regular
		}
		size := r.Size
		if size <= 0 {
			size = 11
		}
		fmt.Fprintf(&b, "BT\n/%s %g Tf\n72 %g Td\n(%s) Tj\nET\n", font, size, y, escape(r.Text))
		y -= size * 1.6
	}
	return b.String()
}

// escape encodes s as the body of a PDF literal string in WinAnsi.
func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '(' || r == ')' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x80:
			b.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&b, "\\%03o", r)
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}
