// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/pdiddy/doctool/internal/pdfdoc"
)

// fakeLibrary records calls and reports fixed page counts per base name.
// An import containing an image listed in reject fails.
type fakeLibrary struct {
	pages       map[string]int
	reject      map[string]bool
	imported    []string
	importCalls int
	merged      []string
}

func (f *fakeLibrary) PageCount(path string) (int, error) {
	n, ok := f.pages[filepath.Base(path)]
	if !ok {
		return 0, errors.New("not a PDF")
	}
	return n, nil
}

func (f *fakeLibrary) ImportImages(_ context.Context, images []string, dest string) error {
	f.importCalls++
	for _, img := range images {
		if f.reject[filepath.Base(img)] {
			return errors.New("unsupported image")
		}
	}
	f.imported = images
	return os.WriteFile(dest, []byte("%PDF"), 0o644)
}

func (f *fakeLibrary) Merge(_ context.Context, inputs []string, dest string) error {
	f.merged = inputs
	return os.WriteFile(dest, []byte("%PDF"), 0o644)
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{B: 200, A: 255})
		}
	}
	return img
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))
	return buf.Bytes()
}

func bmpBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, testImage()))
	return buf.Bytes()
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.JPG", "c.bmp", "notes.txt", "z.pdf", "m.pdf", "out.pdf"} {
		writeFile(t, dir, name, []byte("x"))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))
	out := filepath.Join(dir, "out.pdf")

	in, err := Collect(dir, out, true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.JPG"), filepath.Join(dir, "b.png"), filepath.Join(dir, "c.bmp"),
	}, in.Images)
	assert.Equal(t, []string{filepath.Join(dir, "m.pdf"), filepath.Join(dir, "z.pdf")}, in.PDFs, "output excluded")

	in, err = Collect(dir, out, false)
	require.NoError(t, err)
	assert.Empty(t, in.PDFs)
}

func TestAssembleOrderAndSkips(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1.png", pngBytes(t))
	writeFile(t, dir, "2.bmp", bmpBytes(t))
	writeFile(t, dir, "3.jpg", []byte("not really a jpeg"))
	writeFile(t, dir, "a.pdf", []byte("%PDF"))
	writeFile(t, dir, "b.pdf", []byte("garbage"))
	out := filepath.Join(t.TempDir(), "combined.pdf")

	lib := &fakeLibrary{pages: map[string]int{"a.pdf": 4}}
	var log bytes.Buffer
	result, err := Assemble(context.Background(), lib, dir, out, true, &log)
	require.NoError(t, err)

	assert.Equal(t, 6, result.Pages)
	assert.Equal(t, 2, result.Images)
	assert.Equal(t, 1, result.PDFs)
	assert.Equal(t, 2, result.Skipped)
	assert.True(t, result.Written())

	require.Len(t, lib.imported, 2)
	assert.Equal(t, filepath.Join(dir, "1.png"), lib.imported[0])
	assert.Equal(t, "2_bmp.png", filepath.Base(lib.imported[1]), "bmp is converted to PNG")

	require.Len(t, lib.merged, 2)
	assert.Equal(t, "images.pdf", filepath.Base(lib.merged[0]), "images come before PDFs")
	assert.Equal(t, filepath.Join(dir, "a.pdf"), lib.merged[1])

	assert.Contains(t, log.String(), "skipped image 3.jpg")
	assert.Contains(t, log.String(), "skipped PDF b.pdf")
	assert.Contains(t, log.String(), "Merged 6 pages")
}

func TestAssembleSkipsImageLibraryRejects(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1.png", "2.png", "3.png"} {
		writeFile(t, dir, name, pngBytes(t))
	}
	out := filepath.Join(t.TempDir(), "combined.pdf")

	lib := &fakeLibrary{reject: map[string]bool{"2.png": true}}
	var log bytes.Buffer
	result, err := Assemble(context.Background(), lib, dir, out, false, &log)
	require.NoError(t, err)

	assert.Equal(t, 4, lib.importCalls, "one batch attempt, then one per image")
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, 2, result.Images)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, lib.merged, 2)
	assert.Equal(t, "image_001.pdf", filepath.Base(lib.merged[0]))
	assert.Equal(t, "image_003.pdf", filepath.Base(lib.merged[1]))
	assert.Contains(t, log.String(), "skipped image 2.png (unsupported image)")
	assert.NotContains(t, log.String(), "added image: 2.png")
	assert.Contains(t, log.String(), "Merged 2 pages")
}

func TestAssembleNothingToMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.txt", []byte("hello"))
	out := filepath.Join(dir, "out.pdf")

	var log bytes.Buffer
	result, err := Assemble(context.Background(), &fakeLibrary{}, dir, out, true, &log)
	require.NoError(t, err)
	assert.False(t, result.Written())
	assert.Contains(t, log.String(), "No files found to merge.")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAssembleWithLibrary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png", pngBytes(t))
	writeFile(t, dir, "b.bmp", bmpBytes(t))
	lib := pdfdoc.NewLibrary()

	first := filepath.Join(t.TempDir(), "first.pdf")
	_, err := Assemble(context.Background(), lib, dir, first, false, &bytes.Buffer{})
	require.NoError(t, err)

	// A second run picks up the first output as a PDF input.
	require.NoError(t, os.Rename(first, filepath.Join(dir, "first.pdf")))
	out := filepath.Join(dir, "all.pdf")
	result, err := Assemble(context.Background(), lib, dir, out, true, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Pages)

	n, err := lib.PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
