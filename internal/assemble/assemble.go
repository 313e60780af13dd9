// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble combines the images and PDFs of a folder into a single
// PDF: images first, one A4 page each, then the PDFs in name order.
package assemble

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Library is the subset of the document library the assembler uses.
type Library interface {
	PageCount(path string) (int, error)
	ImportImages(ctx context.Context, images []string, dest string) error
	Merge(ctx context.Context, inputs []string, dest string) error
}

// Inputs are the files found in a folder, each list sorted by name.
type Inputs struct {
	Images []string
	PDFs   []string
}

// Result summarizes an assembly.
type Result struct {
	Output  string
	Pages   int
	Images  int
	PDFs    int
	Skipped int
}

// Written reports whether an output file was produced.
func (r Result) Written() bool { return r.Pages > 0 }

// Collect lists the images and, when includePDF is set, the PDFs directly
// inside folder. output is never returned as an input.
func Collect(folder, output string, includePDF bool) (Inputs, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return Inputs{}, fmt.Errorf("reading %s: %w", folder, err)
	}
	outAbs, _ := filepath.Abs(output)

	var in Inputs
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(folder, e.Name())
		ext := strings.ToLower(filepath.Ext(e.Name()))
		switch {
		case isImage(ext):
			in.Images = append(in.Images, path)
		case ext == ".pdf" && includePDF:
			if abs, err := filepath.Abs(path); err == nil && abs == outAbs {
				continue
			}
			in.PDFs = append(in.PDFs, path)
		}
	}
	sort.Strings(in.Images)
	sort.Strings(in.PDFs)
	return in, nil
}

// placed is an image ready for the library, with the name of its source.
type placed struct {
	name string
	path string
}

// placeImages turns images into PDF pages. All images go into one file;
// when the library rejects that batch, each image is placed on its own and
// the ones it still rejects are skipped.
func placeImages(ctx context.Context, lib Library, images []placed, tmp string, result *Result, w io.Writer) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}
	paths := make([]string, len(images))
	for i, img := range images {
		paths[i] = img.path
	}

	imagesPDF := filepath.Join(tmp, "images.pdf")
	if err := lib.ImportImages(ctx, paths, imagesPDF); err == nil {
		for _, img := range images {
			fmt.Fprintf(w, "added image: %s\n", img.name)
		}
		result.Images += len(images)
		result.Pages += len(images)
		return []string{imagesPDF}, nil
	}

	var parts []string
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		one := filepath.Join(tmp, fmt.Sprintf("image_%03d.pdf", i+1))
		if err := lib.ImportImages(ctx, []string{img.path}, one); err != nil {
			fmt.Fprintf(w, "skipped image %s (%v)\n", img.name, err)
			result.Skipped++
			continue
		}
		fmt.Fprintf(w, "added image: %s\n", img.name)
		parts = append(parts, one)
		result.Images++
		result.Pages++
	}
	return parts, nil
}

// Assemble builds output from the files in folder. Files that cannot be read
// are skipped with a message on w. When nothing usable is found no file is
// written and the result reports zero pages.
func Assemble(ctx context.Context, lib Library, folder, output string, includePDF bool, w io.Writer) (Result, error) {
	in, err := Collect(folder, output, includePDF)
	if err != nil {
		return Result{}, err
	}

	tmp, err := os.MkdirTemp("", "doctool-assemble-*")
	if err != nil {
		return Result{}, fmt.Errorf("creating work directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	result := Result{Output: output}

	var images []placed
	for _, img := range in.Images {
		ready, err := prepareImage(img, tmp)
		if err != nil {
			fmt.Fprintf(w, "skipped image %s (%v)\n", filepath.Base(img), err)
			result.Skipped++
			continue
		}
		images = append(images, placed{name: filepath.Base(img), path: ready})
	}

	parts, err := placeImages(ctx, lib, images, tmp, &result, w)
	if err != nil {
		return result, err
	}

	for _, pdf := range in.PDFs {
		n, err := lib.PageCount(pdf)
		if err != nil {
			fmt.Fprintf(w, "skipped PDF %s (%v)\n", filepath.Base(pdf), err)
			result.Skipped++
			continue
		}
		parts = append(parts, pdf)
		result.PDFs++
		result.Pages += n
		fmt.Fprintf(w, "added PDF (%d pages): %s\n", n, filepath.Base(pdf))
	}

	if result.Pages == 0 {
		fmt.Fprintln(w, "No files found to merge.")
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := lib.Merge(ctx, parts, output); err != nil {
		return result, err
	}
	fmt.Fprintf(w, "\nMerged %d pages into %s\n", result.Pages, output)
	return result, nil
}
