// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert batch-converts Word documents to PDF. Documents are found
// under a source folder, mapped into a destination folder tree and converted
// one at a time through a pluggable backend on a batch worker.
package convert

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/doctool/internal/batch"
	"github.com/pdiddy/doctool/pkg/types"
)

// ToolName identifies this tool in the conversion history.
const ToolName = "word2pdf"

// lockPrefix marks the owner files Word leaves next to open documents.
const lockPrefix = "~$"

// Backend converts one document to PDF. The PDF is written to outDir under
// the document's base name with a .pdf extension.
type Backend interface {
	Convert(ctx context.Context, src, outDir string) error
}

// History remembers earlier conversions so unchanged sources can be skipped.
type History interface {
	Unchanged(ctx context.Context, tool string, job types.Job) (bool, error)
	Record(ctx context.Context, r types.Record) error
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
	Cancelled bool
}

// Total returns the number of documents handled.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any document failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// IsDocx reports whether name is a Word document that should be converted.
// Office lock files are excluded.
func IsDocx(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".docx") && !strings.HasPrefix(name, lockPrefix)
}

// Discover returns every Word document under root in walk order.
func Discover(root string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsDocx(d.Name()) {
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return docs, nil
}

// OutputDir maps the folder of src, found under root, into dst. The full
// relative tree is mirrored unless flatten is set, in which case only the
// top-level subfolder is kept.
func OutputDir(root, dst, src string, flatten bool) (string, error) {
	rel, err := filepath.Rel(root, filepath.Dir(src))
	if err != nil {
		return "", fmt.Errorf("locating %s under %s: %w", src, root, err)
	}
	if rel == "." {
		return dst, nil
	}
	if flatten {
		rel = strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
	}
	return filepath.Join(dst, filepath.FromSlash(rel)), nil
}

// PlanJobs discovers the documents under root and pairs each with its PDF
// path under dst.
func PlanJobs(root, dst string, flatten bool) ([]types.Job, error) {
	docs, err := Discover(root)
	if err != nil {
		return nil, err
	}
	jobs := make([]types.Job, 0, len(docs))
	for _, src := range docs {
		dir, err := OutputDir(root, dst, src, flatten)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", src, err)
		}
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		jobs = append(jobs, types.Job{
			Source:  src,
			Output:  filepath.Join(dir, base+".pdf"),
			ModTime: info.ModTime(),
		})
	}
	return jobs, nil
}

// Converter turns jobs into PDFs through a Backend.
type Converter struct {
	Backend Backend

	// Inspect checks a document before the backend sees it. Nil skips the
	// check.
	Inspect func(path string) error

	// History, when set, is consulted to skip unchanged sources and receives
	// a record per converted or failed job.
	History History

	// Force converts every job even when History reports it unchanged.
	Force bool
}

// Start converts jobs on a batch worker and returns its event stream.
func (c *Converter) Start(ctx context.Context, jobs []types.Job) <-chan batch.Event {
	return batch.Run(ctx, jobs, c.convertOne)
}

// ConvertBatch converts jobs, printing per-file status with a running count
// to w, and returns a summary.
func (c *Converter) ConvertBatch(ctx context.Context, jobs []types.Job, w io.Writer) BatchResult {
	last := batch.Drain(c.Start(ctx, jobs), func(ev batch.Event) {
		if ev.Kind == batch.EventLog {
			fmt.Fprintf(w, "[%d/%d] %s\n", ev.Processed+ev.Skipped+ev.Failed, ev.Total, ev.Message)
		}
	})
	result := ResultOf(last)
	if result.Cancelled {
		fmt.Fprintln(w, "Conversion stopped by user.")
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// ResultOf summarizes the final event of a run.
func ResultOf(last batch.Event) BatchResult {
	return BatchResult{
		Converted: last.Processed,
		Skipped:   last.Skipped,
		Failed:    last.Failed,
		Cancelled: last.Cancelled,
	}
}

func (c *Converter) convertOne(ctx context.Context, job types.Job) (batch.Outcome, error) {
	if c.History != nil && !c.Force {
		if same, err := c.History.Unchanged(ctx, ToolName, job); err == nil && same {
			return batch.Outcome{Message: "skipped: " + job.Source + " (unchanged)", Skipped: true}, nil
		}
	}

	if err := c.convert(ctx, job); err != nil {
		msg := fmt.Sprintf("failed: %s (%v)", job.Source, err)
		c.record(ctx, job, types.StatusFailed, err.Error())
		return batch.Outcome{Message: msg}, err
	}

	msg := fmt.Sprintf("converted: %s -> %s", job.Source, job.Output)
	if err := c.record(ctx, job, types.StatusConverted, ""); err != nil {
		msg += fmt.Sprintf(" (history not updated: %v)", err)
	}
	return batch.Outcome{Message: msg}, nil
}

func (c *Converter) convert(ctx context.Context, job types.Job) error {
	if c.Inspect != nil {
		if err := c.Inspect(job.Source); err != nil {
			return err
		}
	}
	outDir := filepath.Dir(job.Output)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}
	if err := c.Backend.Convert(ctx, job.Source, outDir); err != nil {
		return err
	}
	if _, err := os.Stat(job.Output); err != nil {
		return fmt.Errorf("backend produced no PDF at %s", job.Output)
	}
	return nil
}

func (c *Converter) record(ctx context.Context, job types.Job, status types.JobStatus, detail string) error {
	if c.History == nil {
		return nil
	}
	return c.History.Record(ctx, types.Record{
		Tool:          ToolName,
		Source:        job.Source,
		SourceModTime: job.ModTime,
		Output:        job.Output,
		Status:        status,
		Detail:        detail,
	})
}
