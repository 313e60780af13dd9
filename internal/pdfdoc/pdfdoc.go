// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfdoc reads and writes PDF files on behalf of the page editor and
// the assembly and compression tools. All PDF work is done by pdfcpu.
package pdfdoc

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/pdiddy/doctool/internal/pageset"
)

// importDescription places each image on an A4 page, scaled to fit.
const importDescription = "form:A4, pos:full"

var disableConfigDir sync.Once

// Source is an opened PDF: its path and page count.
type Source struct {
	Path      string
	PageCount int
}

// PageWriter writes a sequence of source pages to a new document.
type PageWriter interface {
	// WritePages writes the zero-based pages of src, in the given order, to
	// dest. Pages may repeat.
	WritePages(ctx context.Context, src Source, pages []int, dest string) error
}

// OptimizeOptions selects the pdfcpu optimizations applied when rewriting a
// document.
type OptimizeOptions struct {
	// DedupContentStreams merges identical page content streams.
	DedupContentStreams bool
	// ResourceDicts deduplicates fonts, images and other resources.
	ResourceDicts bool
	// ObjectStreams packs objects into compressed object streams.
	ObjectStreams bool
	// XRefStreams writes the cross-reference table as a compressed stream.
	XRefStreams bool
}

// Library is the pdfcpu-backed document library.
type Library struct{}

// NewLibrary returns a Library. pdfcpu's on-disk configuration directory is
// disabled so the defaults are used on every machine.
func NewLibrary() *Library {
	disableConfigDir.Do(api.DisableConfigDir)
	return &Library{}
}

func (l *Library) config() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages in the PDF at path.
func (l *Library) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading page count of %s: %w", path, err)
	}
	return n, nil
}

// Open reads the page count of path. Unreadable documents fail with
// pageset.ErrInvalidSource.
func (l *Library) Open(path string) (Source, error) {
	n, err := l.PageCount(path)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %v", pageset.ErrInvalidSource, err)
	}
	return Source{Path: path, PageCount: n}, nil
}

// WritePages implements PageWriter using pdfcpu's collect operation, which
// preserves the requested order and allows repeated pages.
func (l *Library) WritePages(ctx context.Context, src Source, pages []int, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("writing %s: no pages selected", dest)
	}

	selected := make([]string, len(pages))
	for i, p := range pages {
		if p < 0 || p >= src.PageCount {
			return fmt.Errorf("writing %s: source page %d of %d: %w", dest, p, src.PageCount, pageset.ErrOutOfRange)
		}
		selected[i] = strconv.Itoa(p + 1)
	}

	if err := api.CollectFile(src.Path, dest, selected, l.config()); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}

// Merge concatenates inputs, in order, into dest.
func (l *Library) Merge(ctx context.Context, inputs []string, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("merging into %s: no inputs", dest)
	}
	if err := api.MergeCreateFile(inputs, dest, false, l.config()); err != nil {
		return fmt.Errorf("merging into %s: %w", dest, err)
	}
	return nil
}

// ImportImages creates dest with one A4 page per image, in order.
func (l *Library) ImportImages(ctx context.Context, images []string, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(images) == 0 {
		return fmt.Errorf("importing into %s: no images", dest)
	}
	imp, err := api.Import(importDescription, types.POINTS)
	if err != nil {
		return fmt.Errorf("import settings: %w", err)
	}
	if err := api.ImportImagesFile(images, dest, imp, l.config()); err != nil {
		return fmt.Errorf("importing into %s: %w", dest, err)
	}
	return nil
}

// Optimize rewrites in to out with the selected optimizations.
func (l *Library) Optimize(ctx context.Context, in, out string, opts OptimizeOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conf := l.config()
	conf.Optimize = true
	conf.OptimizeDuplicateContentStreams = opts.DedupContentStreams
	conf.OptimizeResourceDicts = opts.ResourceDicts
	conf.WriteObjectStream = opts.ObjectStreams
	conf.WriteXRefStream = opts.XRefStreams

	if err := api.OptimizeFile(in, out, conf); err != nil {
		return fmt.Errorf("optimizing %s: %w", in, err)
	}
	return nil
}
