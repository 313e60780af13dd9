// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pageset

import (
	"fmt"
	"strconv"
	"strings"
)

// OpKind names an edit operation.
type OpKind string

const (
	OpSelect   OpKind = "select"
	OpMoveUp   OpKind = "up"
	OpMoveDown OpKind = "down"
	OpDelete   OpKind = "delete"
)

// Op is one edit step. Pos is 1-based, as displayed to the user.
type Op struct {
	Kind OpKind
	Pos  int
}

func (o Op) String() string { return fmt.Sprintf("%s:%d", o.Kind, o.Pos) }

// ParseOps parses a comma-separated edit script such as "up:3,delete:1".
// Accepted kinds are select, up, down and delete (alias del).
func ParseOps(script string) ([]Op, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return nil, nil
	}
	var ops []Op
	for _, part := range strings.Split(script, ",") {
		op, err := ParseOp(part)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// ParseOp parses a single "kind:pos" step.
func ParseOp(s string) (Op, error) {
	s = strings.TrimSpace(s)
	kindText, posText, ok := strings.Cut(s, ":")
	if !ok {
		return Op{}, fmt.Errorf("edit op %q: expected kind:position", s)
	}

	var kind OpKind
	switch strings.ToLower(strings.TrimSpace(kindText)) {
	case "select", "sel":
		kind = OpSelect
	case "up":
		kind = OpMoveUp
	case "down":
		kind = OpMoveDown
	case "delete", "del":
		kind = OpDelete
	default:
		return Op{}, fmt.Errorf("edit op %q: unknown kind %q", s, kindText)
	}

	pos, err := strconv.Atoi(strings.TrimSpace(posText))
	if err != nil || pos < 1 {
		return Op{}, fmt.Errorf("edit op %q: position must be a page number starting at 1", s)
	}
	return Op{Kind: kind, Pos: pos}, nil
}

// Apply runs op against the editor.
func (e *Editor) Apply(op Op) error {
	pos := op.Pos - 1
	switch op.Kind {
	case OpSelect:
		return e.Select(pos)
	case OpMoveUp:
		return e.MoveUp(pos)
	case OpMoveDown:
		return e.MoveDown(pos)
	case OpDelete:
		return e.Delete(pos)
	default:
		return fmt.Errorf("unknown edit op %q", op.Kind)
	}
}

// ApplyAll runs ops in order and stops at the first failure. Steps before
// the failing one stay applied; the failing step leaves the editor unchanged.
func (e *Editor) ApplyAll(ops []Op) error {
	for i, op := range ops {
		if err := e.Apply(op); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, op, err)
		}
	}
	return nil
}
