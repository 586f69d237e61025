// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toc

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultKeywords are searched for when no keywords are configured.
var DefaultKeywords = []string{
	"Table of Contents",
	"Contents",
	"Agenda",
	"Tabla de contenido",
	"Tabla de Contenidos",
	"Contenido",
	"En esta noticia",
	"Índice",
	"Indice",
	"PUNTOS CLAVE",
	"SUMARIO",
}

type keyword struct {
	raw    string
	folded string
}

// Matcher finds keywords in text, ignoring case, Unicode normalization
// form, and runs of whitespace.
type Matcher struct {
	keywords []keyword
}

// NewMatcher returns a Matcher for keywords. Blank keywords are dropped and
// keywords that fold to the same form keep their first spelling. An empty
// list selects DefaultKeywords.
func NewMatcher(keywords []string) *Matcher {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	m := &Matcher{}
	seen := make(map[string]bool)
	for _, k := range keywords {
		f := fold(k)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		m.keywords = append(m.keywords, keyword{raw: strings.TrimSpace(k), folded: f})
	}
	return m
}

// Keywords returns the effective keyword set in match order.
func (m *Matcher) Keywords() []string {
	out := make([]string, len(m.keywords))
	for i, k := range m.keywords {
		out[i] = k.raw
	}
	return out
}

// Match returns the first keyword, in configured order, that occurs in
// text.
func (m *Matcher) Match(text string) (string, bool) {
	f := fold(text)
	for _, k := range m.keywords {
		if strings.Contains(f, k.folded) {
			return k.raw, true
		}
	}
	return "", false
}

// Contains reports whether any keyword occurs in text.
func (m *Matcher) Contains(text string) bool {
	_, ok := m.Match(text)
	return ok
}

// fold returns s in NFC, case-folded, with whitespace runs collapsed to a
// single space.
func fold(s string) string {
	s = norm.NFC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}
