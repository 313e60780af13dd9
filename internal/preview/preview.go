// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package preview extracts a short text snippet from every page of a PDF so
// pages can be told apart in a listing. Only the embedded text layer is
// read; scanned pages have no snippet.
package preview

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// DefaultWidth is the snippet length, in characters, used when none is given.
const DefaultWidth = 60

// Snippets returns one snippet per page of the PDF at path, indexed by
// zero-based source page. Pages whose text cannot be read yield "".
func Snippets(path string, width int) ([]string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	n := r.NumPage()
	out := make([]string, n)
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= n; i++ {
		out[i-1] = guarded(func() string { return pageSnippet(r, i, fonts, width) })
	}
	return out, nil
}

// guarded returns read's result, or "" when read panics. The pdf package
// panics on some malformed content streams and font dictionaries.
func guarded(read func() string) (s string) {
	defer func() {
		if recover() != nil {
			s = ""
		}
	}()
	return read()
}

func pageSnippet(r *pdf.Reader, i int, fonts map[string]*pdf.Font, width int) string {
	p := r.Page(i)
	if p.V.IsNull() {
		return ""
	}
	for _, name := range p.Fonts() {
		if _, ok := fonts[name]; !ok {
			font := p.Font(name)
			fonts[name] = &font
		}
	}
	text, err := p.GetPlainText(fonts)
	if err != nil {
		return ""
	}
	return Clip(text, width)
}

// Clip collapses runs of whitespace and shortens s to at most width
// characters, marking a cut with "...".
func Clip(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 3 {
		return string([]rune(s)[:width])
	}
	return string([]rune(s)[:width-3]) + "..."
}
