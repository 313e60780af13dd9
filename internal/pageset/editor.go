// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pageset holds an editable view onto the pages of a source
// document. The view is an ordered sequence of zero-based source page
// indices; its position order is the order pages are written when the view
// is materialized. Positions passed to the Editor are zero-based indices into
// that sequence.
//
// An Editor is owned by one editing session and is not safe for concurrent use.
package pageset

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSource reports a negative page count or an unreadable document.
	ErrInvalidSource = errors.New("invalid source")

	// ErrOutOfRange reports a position outside the current sequence.
	ErrOutOfRange = errors.New("position out of range")

	// ErrInvalidRangeSpec reports an unparseable split specification.
	ErrInvalidRangeSpec = errors.New("invalid range spec")
)

// Editor holds the page order of one editing session and the selected
// position, if any.
type Editor struct {
	sourcePages int
	order       []int
	selected    int
	hasSelected bool
}

// New returns an Editor for a source with pageCount pages. It fails with
// ErrInvalidSource when pageCount is negative.
func New(pageCount int) (*Editor, error) {
	e := &Editor{}
	if err := e.Open(pageCount); err != nil {
		return nil, err
	}
	return e, nil
}

// Open resets the order to the identity sequence 0..pageCount-1 and clears
// the selection.
func (e *Editor) Open(pageCount int) error {
	if pageCount < 0 {
		return fmt.Errorf("page count %d: %w", pageCount, ErrInvalidSource)
	}
	e.sourcePages = pageCount
	e.order = make([]int, pageCount)
	for i := range e.order {
		e.order[i] = i
	}
	e.clearSelection()
	return nil
}

// SourcePages returns the page count of the source the editor was opened with.
func (e *Editor) SourcePages() int { return e.sourcePages }

// Len returns the number of entries in the current order.
func (e *Editor) Len() int { return len(e.order) }

// Order returns a copy of the current order.
func (e *Editor) Order() []int {
	out := make([]int, len(e.order))
	copy(out, e.order)
	return out
}

// Selected returns the selected position and whether a selection exists.
func (e *Editor) Selected() (int, bool) {
	return e.selected, e.hasSelected
}

// Select makes pos the selected position.
func (e *Editor) Select(pos int) error {
	if err := e.checkPos("select", pos); err != nil {
		return err
	}
	e.selected = pos
	e.hasSelected = true
	return nil
}

// MoveUp swaps the entry at pos with the one before it. Moving the first
// entry up is a no-op. The selection follows the entry it was tracking.
func (e *Editor) MoveUp(pos int) error {
	if err := e.checkPos("move up", pos); err != nil {
		return err
	}
	if pos == 0 {
		return nil
	}
	e.swap(pos, pos-1)
	return nil
}

// MoveDown swaps the entry at pos with the one after it. Moving the last
// entry down is a no-op. The selection follows the entry it was tracking.
func (e *Editor) MoveDown(pos int) error {
	if err := e.checkPos("move down", pos); err != nil {
		return err
	}
	if pos == len(e.order)-1 {
		return nil
	}
	e.swap(pos, pos+1)
	return nil
}

// Delete removes the entry at pos. The selection moves to min(pos, Len()-1),
// or is cleared when the order becomes empty.
func (e *Editor) Delete(pos int) error {
	if err := e.checkPos("delete", pos); err != nil {
		return err
	}
	e.order = append(e.order[:pos], e.order[pos+1:]...)
	if len(e.order) == 0 {
		e.clearSelection()
		return nil
	}
	e.selected = min(pos, len(e.order)-1)
	e.hasSelected = true
	return nil
}

// Materialize returns the source page indices at the given positions, in the
// order the positions are listed. The editor is not modified.
func (e *Editor) Materialize(positions []int) ([]int, error) {
	pages := make([]int, 0, len(positions))
	for _, pos := range positions {
		if err := e.checkPos("materialize", pos); err != nil {
			return nil, err
		}
		pages = append(pages, e.order[pos])
	}
	return pages, nil
}

func (e *Editor) swap(a, b int) {
	e.order[a], e.order[b] = e.order[b], e.order[a]
	if !e.hasSelected {
		return
	}
	switch e.selected {
	case a:
		e.selected = b
	case b:
		e.selected = a
	}
}

func (e *Editor) clearSelection() {
	e.selected = 0
	e.hasSelected = false
}

func (e *Editor) checkPos(op string, pos int) error {
	if pos < 0 || pos >= len(e.order) {
		return fmt.Errorf("%s position %d of %d: %w", op, pos, len(e.order), ErrOutOfRange)
	}
	return nil
}
