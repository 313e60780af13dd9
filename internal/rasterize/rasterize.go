// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rasterize renders each page of a PDF to a JPG image with poppler's
// pdftoppm.
package rasterize

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/doctool/internal/batch"
	"github.com/pdiddy/doctool/internal/tool"
)

// DefaultDPI is the render resolution when none is configured.
const DefaultDPI = 300

// PageCounter reports how many pages a PDF has.
type PageCounter interface {
	PageCount(path string) (int, error)
}

// Rasterizer renders pages through a located pdftoppm.
type Rasterizer struct {
	Pdftoppm tool.Tool
	Pages    PageCounter
	DPI      int
}

// Result lists the images written and the number of pages that failed.
type Result struct {
	Images    []string
	Failed    int
	Cancelled bool
}

// ImagePath returns <outDir>/<name>_page_<page>.jpg for a 1-based page.
func ImagePath(outDir, pdf string, page int) string {
	name := strings.TrimSuffix(filepath.Base(pdf), filepath.Ext(pdf))
	return filepath.Join(outDir, fmt.Sprintf("%s_page_%d.jpg", name, page))
}

// Args returns the pdftoppm arguments that render one 1-based page to
// image. pdftoppm appends the .jpg extension itself.
func Args(pdf, image string, page, dpi int) []string {
	n := strconv.Itoa(page)
	return []string{
		"-jpeg",
		"-r", strconv.Itoa(dpi),
		"-f", n, "-l", n,
		"-singlefile",
		pdf,
		strings.TrimSuffix(image, filepath.Ext(image)),
	}
}

// Rasterize renders every page of pdf into outDir, which defaults to the
// PDF's own folder. A line is written to w for each page. Rendering stops
// between pages when ctx is cancelled.
func (r *Rasterizer) Rasterize(ctx context.Context, pdf, outDir string, w io.Writer) (Result, error) {
	if outDir == "" {
		outDir = filepath.Dir(pdf)
	}
	dpi := r.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	n, err := r.Pages.PageCount(pdf)
	if err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating %s: %w", outDir, err)
	}

	pages := make([]int, n)
	for i := range pages {
		pages[i] = i + 1
	}

	var written []string
	render := func(ctx context.Context, page int) (batch.Outcome, error) {
		image := ImagePath(outDir, pdf, page)
		if err := r.Pdftoppm.Run(ctx, Args(pdf, image, page, dpi), nil); err != nil {
			return batch.Outcome{Message: fmt.Sprintf("failed: page %d (%v)", page, err)}, err
		}
		written = append(written, image)
		return batch.Outcome{Message: "saved " + image}, nil
	}

	last := batch.Drain(batch.Run(ctx, pages, render), func(ev batch.Event) {
		if ev.Kind == batch.EventLog {
			fmt.Fprintln(w, ev.Message)
		}
	})

	fmt.Fprintf(w, "Rendered %d of %d pages at %d dpi\n", last.Processed, n, dpi)
	return Result{Images: written, Failed: last.Failed, Cancelled: last.Cancelled}, nil
}
