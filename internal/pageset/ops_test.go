// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pageset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOps(t *testing.T) {
	ops, err := ParseOps("up:3, DOWN:1,del:2,select:4")
	require.NoError(t, err)
	assert.Equal(t, []Op{
		{Kind: OpMoveUp, Pos: 3},
		{Kind: OpMoveDown, Pos: 1},
		{Kind: OpDelete, Pos: 2},
		{Kind: OpSelect, Pos: 4},
	}, ops)

	ops, err = ParseOps("  ")
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestParseOpsErrors(t *testing.T) {
	for _, script := range []string{"up", "up:0", "up:x", "rotate:1", "up:1,,down:2"} {
		t.Run(script, func(t *testing.T) {
			_, err := ParseOps(script)
			assert.Error(t, err)
		})
	}
}

func TestApplyAll(t *testing.T) {
	e := newEditor(t, 4)
	ops, err := ParseOps("up:4,up:3,delete:1")
	require.NoError(t, err)
	require.NoError(t, e.ApplyAll(ops))
	// [0 1 2 3] -> [0 1 3 2] -> [0 3 1 2] -> [3 1 2]
	assert.Equal(t, []int{3, 1, 2}, e.Order())
}

func TestApplyAllStopsAtFailure(t *testing.T) {
	e := newEditor(t, 3)
	ops, err := ParseOps("down:1,delete:9,up:2")
	require.NoError(t, err)

	err = e.ApplyAll(ops)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Contains(t, err.Error(), "step 2")
	assert.Equal(t, []int{1, 0, 2}, e.Order())
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "up:2", Op{Kind: OpMoveUp, Pos: 2}.String())
}
