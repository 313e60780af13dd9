// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rasterize

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedPages int

func (f fixedPages) PageCount(string) (int, error) { return int(f), nil }

type brokenPages struct{}

func (brokenPages) PageCount(path string) (int, error) {
	return 0, errors.New("cannot read " + path)
}

// fakePdftoppm writes the image named by the last argument and fails for
// the pages listed in failPages. Like a real process it dies when its
// context is cancelled; onRun fires before that check.
type fakePdftoppm struct {
	failPages map[string]bool
	onRun     func()
	calls     [][]string
}

func (f *fakePdftoppm) Name() string { return "pdftoppm" }
func (f *fakePdftoppm) Path() string { return "/usr/bin/pdftoppm" }

func (f *fakePdftoppm) Run(ctx context.Context, args []string, _ io.Writer) error {
	f.calls = append(f.calls, args)
	if f.onRun != nil {
		f.onRun()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.failPages[args[4]] {
		return errors.New("render error")
	}
	return os.WriteFile(args[len(args)-1]+".jpg", []byte("jpg"), 0o644)
}

func TestImagePath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "scan_page_12.jpg"), ImagePath("out", filepath.Join("in", "scan.pdf"), 12))
}

func TestArgs(t *testing.T) {
	got := Args("doc.pdf", filepath.Join("out", "doc_page_3.jpg"), 3, 150)
	assert.Equal(t, []string{"-jpeg", "-r", "150", "-f", "3", "-l", "3", "-singlefile", "doc.pdf", filepath.Join("out", "doc_page_3")}, got)
}

func TestRasterize(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "doc.pdf")
	fake := &fakePdftoppm{failPages: map[string]bool{"2": true}}
	r := &Rasterizer{Pdftoppm: fake, Pages: fixedPages(3)}

	var log bytes.Buffer
	result, err := r.Rasterize(context.Background(), pdf, "", &log)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "doc_page_1.jpg"),
		filepath.Join(dir, "doc_page_3.jpg"),
	}, result.Images, "output defaults to the PDF's folder")
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, fake.calls, 3)
	assert.Equal(t, "300", fake.calls[0][2], "default dpi")
	assert.Contains(t, log.String(), "failed: page 2 (render error)")
	assert.Contains(t, log.String(), "Rendered 2 of 3 pages at 300 dpi")

	for _, img := range result.Images {
		_, err := os.Stat(img)
		assert.NoError(t, err)
	}
}

func TestRasterizeCreatesOutDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "images", "nested")
	r := &Rasterizer{Pdftoppm: &fakePdftoppm{}, Pages: fixedPages(1), DPI: 72}

	result, err := r.Rasterize(context.Background(), "a.pdf", out, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(out, "a_page_1.jpg")}, result.Images)
}

func TestRasterizeUnreadable(t *testing.T) {
	r := &Rasterizer{Pdftoppm: &fakePdftoppm{}, Pages: brokenPages{}}
	_, err := r.Rasterize(context.Background(), "bad.pdf", t.TempDir(), &bytes.Buffer{})
	assert.ErrorContains(t, err, "cannot read bad.pdf")
}

func TestRasterizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fake := &fakePdftoppm{}
	r := &Rasterizer{Pdftoppm: fake, Pages: fixedPages(5)}

	result, err := r.Rasterize(ctx, "a.pdf", t.TempDir(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, result.Cancelled)
	assert.Empty(t, fake.calls)
}

func TestRasterizeFinishesCurrentPage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fake := &fakePdftoppm{onRun: cancel}
	r := &Rasterizer{Pdftoppm: fake, Pages: fixedPages(3)}

	out := t.TempDir()
	result, err := r.Rasterize(ctx, "a.pdf", out, &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, result.Cancelled)
	assert.Zero(t, result.Failed)
	assert.Equal(t, []string{filepath.Join(out, "a_page_1.jpg")}, result.Images)
	assert.Len(t, fake.calls, 1)
}
