// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// JobStatus indicates the outcome of one unit of work in a batch run.
type JobStatus string

const (
	StatusConverted JobStatus = "converted"
	StatusSkipped   JobStatus = "skipped"
	StatusFailed    JobStatus = "failed"
)

// Job is one source file handed to a batch tool, with the output it is
// expected to produce.
type Job struct {
	// Source is the input file path.
	Source string `json:"source" yaml:"source"`

	// Output is the path the tool writes.
	Output string `json:"output" yaml:"output"`

	// ModTime is the source's modification time when the job was planned.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

// Record is a ledger entry describing a produced (or failed) output.
type Record struct {
	// Tool names the subcommand that produced the output (e.g. "word2pdf").
	Tool string `json:"tool" yaml:"tool"`

	// Source is the input file path.
	Source string `json:"source" yaml:"source"`

	// SourceModTime is the source's modification time at conversion.
	SourceModTime time.Time `json:"source_mod_time" yaml:"source_mod_time"`

	// Output is the produced file path.
	Output string `json:"output" yaml:"output"`

	// Status is the outcome of the conversion.
	Status JobStatus `json:"status" yaml:"status"`

	// Detail holds the failure reason or a short note.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`

	// CreatedAt is when the record was written.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
