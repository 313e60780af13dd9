// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Plan is a page edit script loaded from YAML:
//
//	ops: ["up:3", "delete:1"]
//	split:
//	  mode: range
//	  ranges: "1-3,5"
//	  prefix: part_
type Plan struct {
	// Ops lists edit steps applied in order before writing or splitting.
	Ops []string `json:"ops" yaml:"ops"`

	// Split, when present, configures the split command.
	Split *SplitPlan `json:"split,omitempty" yaml:"split,omitempty"`
}

// SplitPlan configures a split.
type SplitPlan struct {
	Mode   string `json:"mode" yaml:"mode"`
	Ranges string `json:"ranges,omitempty" yaml:"ranges,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}
