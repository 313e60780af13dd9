// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doctool/internal/pageset"
)

// recordingWriter implements PageWriter, remembering each request and
// failing for configured destinations.
type recordingWriter struct {
	requests map[string][]int
	failFor  map[string]bool
}

func (r *recordingWriter) WritePages(_ context.Context, _ Source, pages []int, dest string) error {
	if r.failFor[filepath.Base(dest)] {
		return errors.New("disk full")
	}
	if r.requests == nil {
		r.requests = map[string][]int{}
	}
	r.requests[dest] = pages
	return nil
}

func TestOutputPath(t *testing.T) {
	src := Source{Path: "/docs/report.pdf", PageCount: 3}
	got := OutputPath("/out", "split_", src, pageset.Output{Label: "pages_1-3"})
	assert.Equal(t, filepath.Join("/out", "split_report_pages_1-3.pdf"), got)

	got = OutputPath("/out", "", Source{Path: ""}, pageset.Output{Label: "page_1"})
	assert.Equal(t, filepath.Join("/out", "document_page_1.pdf"), got)
}

func TestWriteOutputs(t *testing.T) {
	e, err := pageset.New(5)
	require.NoError(t, err)
	outs, err := e.SplitRanges("1-2,3,4-5")
	require.NoError(t, err)

	src := Source{Path: "book.pdf", PageCount: 5}
	pw := &recordingWriter{failFor: map[string]bool{"p_book_pages_3.pdf": true}}
	var log bytes.Buffer

	result, err := WriteOutputs(context.Background(), pw, src, outs, "out", "p_", &log)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.True(t, result.HasFailures())
	assert.Equal(t, []string{
		filepath.Join("out", "p_book_pages_1-2.pdf"),
		filepath.Join("out", "p_book_pages_4-5.pdf"),
	}, result.Written, "documents after a failure are still written")
	assert.Equal(t, []int{3, 4}, pw.requests[filepath.Join("out", "p_book_pages_4-5.pdf")])
	assert.Contains(t, log.String(), "failed:  p_book_pages_3.pdf (disk full)")
	assert.Contains(t, log.String(), "Split summary: 2 written, 1 failed")
}

func TestWriteOutputsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outs := []pageset.Output{{Label: "page_1", Pages: []int{0}}}
	result, err := WriteOutputs(ctx, &recordingWriter{}, Source{Path: "a.pdf", PageCount: 1}, outs, ".", "", &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Written)
}
