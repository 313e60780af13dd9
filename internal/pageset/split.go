// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pageset

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitMode selects how Split partitions the current order.
type SplitMode string

const (
	// SplitEach produces one single-page output per entry.
	SplitEach SplitMode = "each"
	// SplitRange produces one output per range in a range spec.
	SplitRange SplitMode = "range"
)

// ParseSplitMode validates a mode name.
func ParseSplitMode(s string) (SplitMode, error) {
	switch m := SplitMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SplitEach, SplitRange:
		return m, nil
	default:
		return "", fmt.Errorf("unknown split mode %q: use each or range", s)
	}
}

// Range is a 1-based inclusive span of positions in the displayed order.
type Range struct {
	Start int
	End   int
}

// String formats the range the way it is written in a range spec.
func (r Range) String() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Output is one materialized sequence produced by a split.
type Output struct {
	// Label names the output within its split, e.g. "page_4" or "pages_1-3".
	Label string
	// Pages holds zero-based source page indices in output order.
	Pages []int
}

// RangeSpecError names the fragment of a range spec that failed to parse.
type RangeSpecError struct {
	Fragment string
	Reason   string
}

func (e *RangeSpecError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrInvalidRangeSpec, e.Fragment, e.Reason)
}

func (e *RangeSpecError) Unwrap() error { return ErrInvalidRangeSpec }

// ParseRanges parses a comma-separated range spec such as "1-3,5,7-9".
// Page numbers are 1-based. Parsing is all-or-nothing: the first bad
// fragment aborts the whole spec. Inverted ranges such as "3-1" are rejected.
func ParseRanges(spec string) ([]Range, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, &RangeSpecError{Fragment: spec, Reason: "empty spec"}
	}

	var ranges []Range
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		startText, endText, isRange := strings.Cut(part, "-")

		start, err := parsePageNumber(startText)
		if err != nil {
			return nil, &RangeSpecError{Fragment: part, Reason: err.Error()}
		}
		end := start
		if isRange {
			end, err = parsePageNumber(endText)
			if err != nil {
				return nil, &RangeSpecError{Fragment: part, Reason: err.Error()}
			}
		}
		if end < start {
			return nil, &RangeSpecError{Fragment: part, Reason: "end before start"}
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}
	return ranges, nil
}

func parsePageNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing page number")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("not a page number")
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a page number")
	}
	if n < 1 {
		return 0, fmt.Errorf("page numbers start at 1")
	}
	return n, nil
}

// SplitEach returns one single-page output per entry, in the current order.
// Labels use the 1-based source page number.
func (e *Editor) SplitEach() []Output {
	outs := make([]Output, len(e.order))
	for i, page := range e.order {
		outs[i] = Output{
			Label: fmt.Sprintf("page_%d", page+1),
			Pages: []int{page},
		}
	}
	return outs
}

// SplitRanges parses spec and returns one output per range. Each range is
// clamped to the current order independently:
//
//	start' = clamp(start-1, 0, Len()-1)
//	end'   = clamp(max(end-1, start'), start', Len()-1)
//
// A malformed spec fails with ErrInvalidRangeSpec before any output is
// produced; an empty order fails with ErrOutOfRange.
func (e *Editor) SplitRanges(spec string) ([]Output, error) {
	ranges, err := ParseRanges(spec)
	if err != nil {
		return nil, err
	}
	return e.splitRanges(ranges)
}

func (e *Editor) splitRanges(ranges []Range) ([]Output, error) {
	last := len(e.order) - 1
	if last < 0 {
		return nil, fmt.Errorf("split of empty order: %w", ErrOutOfRange)
	}

	outs := make([]Output, 0, len(ranges))
	for _, r := range ranges {
		start := clamp(r.Start-1, 0, last)
		end := clamp(max(r.End-1, start), start, last)

		pages := make([]int, end-start+1)
		copy(pages, e.order[start:end+1])
		outs = append(outs, Output{
			Label: "pages_" + r.String(),
			Pages: pages,
		})
	}
	return outs, nil
}

// Split dispatches on mode. spec is ignored for SplitEach.
func (e *Editor) Split(mode SplitMode, spec string) ([]Output, error) {
	switch mode {
	case SplitEach:
		return e.SplitEach(), nil
	case SplitRange:
		return e.SplitRanges(spec)
	default:
		return nil, fmt.Errorf("unknown split mode %q", mode)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
