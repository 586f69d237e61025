// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toc

import (
	"regexp"
	"strings"

	"github.com/pdiddy/toc-checker/internal/pdftext"
)

// IsHeading reports whether the spans holding a keyword are set apart from
// the rest of the page. That holds when their average size is larger, when
// they use a font no other span uses, or when they are bold and nothing
// else is. A page without keyword spans has no heading.
func IsHeading(spans []pdftext.Span, m *Matcher) bool {
	var kw, other []pdftext.Span
	for _, s := range spans {
		if m.Contains(strings.TrimSpace(s.Text)) {
			kw = append(kw, s)
		} else {
			other = append(other, s)
		}
	}
	if len(kw) == 0 {
		return false
	}

	if averageSize(kw) > averageSize(other) {
		return true
	}

	otherFonts := make(map[string]bool, len(other))
	for _, s := range other {
		otherFonts[s.Font] = true
	}
	for _, s := range kw {
		if !otherFonts[s.Font] {
			return true
		}
	}

	return anyBold(kw) && !anyBold(other)
}

func averageSize(spans []pdftext.Span) float64 {
	if len(spans) == 0 {
		return 0
	}
	var sum float64
	for _, s := range spans {
		sum += s.Size
	}
	return sum / float64(len(spans))
}

func anyBold(spans []pdftext.Span) bool {
	for _, s := range spans {
		if s.Bold {
			return true
		}
	}
	return false
}

// entryPatterns match single lines that look like table of contents
// entries.
var entryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\s+[\w\sÀ-ÿ]+$`),   // 1  Introduction
	regexp.MustCompile(`\b\d+\.\s+\w+`),        // 1. Introduction
	regexp.MustCompile(`\b[A-Za-z]\.\s+\w+`),   // A. Background
	regexp.MustCompile(`\(\d+\)\s+\w+`),        // (1) Introduction
	regexp.MustCompile(`\([A-Za-z]\)\s+\w+`),   // (A) Background
	regexp.MustCompile(`[•\-]\s+\w+`),          // • Introduction
	regexp.MustCompile(`\b[IVXLCDM]+\.\s+\w+`), // II. Methodology
	regexp.MustCompile(`\b\d+:\s+\w+`),         // 1: Introduction
	regexp.MustCompile(`\b[A-Za-z]:\s+\w+`),    // A: Background

	// Introduction ..... 3
	regexp.MustCompile(`^[\w\sÀ-ÿ]+(?:\.{2,}|\s{2,}|…+)\s*\d+$`),
}

// LooksLikeEntry reports whether line matches a TOC entry pattern.
func LooksLikeEntry(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	for _, re := range entryPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// HasEntries reports whether any line looks like a TOC entry.
func HasEntries(lines []string) bool {
	for _, l := range lines {
		if LooksLikeEntry(l) {
			return true
		}
	}
	return false
}
