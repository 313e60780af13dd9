// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compress shrinks PDF files, either through the embedded PDF
// library or through an external Ghostscript installation.
package compress

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/doctool/internal/pdfdoc"
	"github.com/pdiddy/doctool/internal/tool"
)

const mb = 1024 * 1024

// Compressor rewrites in to a smaller out.
type Compressor interface {
	// Describe names the engine and level, e.g. "ghostscript/high".
	Describe() string
	Compress(ctx context.Context, in, out string) error
}

// Optimizer is the library operation the pdfcpu engine needs.
type Optimizer interface {
	Optimize(ctx context.Context, in, out string, opts pdfdoc.OptimizeOptions) error
}

type libraryCompressor struct {
	opt   Optimizer
	level Level
}

// NewLibrary returns a Compressor that optimizes through opt at level.
func NewLibrary(opt Optimizer, level Level) Compressor {
	return &libraryCompressor{opt: opt, level: level}
}

func (c *libraryCompressor) Describe() string { return "pdfcpu/" + string(c.level) }

func (c *libraryCompressor) Compress(ctx context.Context, in, out string) error {
	return c.opt.Optimize(ctx, in, out, c.level.options())
}

type ghostscriptCompressor struct {
	gs    tool.Tool
	level GSLevel
}

// NewGhostscript returns a Compressor that runs gs at level.
func NewGhostscript(gs tool.Tool, level GSLevel) Compressor {
	return &ghostscriptCompressor{gs: gs, level: level}
}

func (c *ghostscriptCompressor) Describe() string { return "ghostscript/" + string(c.level) }

func (c *ghostscriptCompressor) Compress(ctx context.Context, in, out string) error {
	return c.gs.Run(ctx, c.level.Args(in, out), nil)
}

// Result describes one compression.
type Result struct {
	Input          string
	Output         string
	Engine         string
	OriginalSize   int64
	CompressedSize int64
	Elapsed        time.Duration
}

// Ratio returns the size reduction as a percentage. It is negative when the
// output grew.
func (r Result) Ratio() float64 {
	if r.OriginalSize == 0 {
		return 0
	}
	return (1 - float64(r.CompressedSize)/float64(r.OriginalSize)) * 100
}

// Grew reports whether the output is larger than the input.
func (r Result) Grew() bool { return r.CompressedSize > r.OriginalSize }

// DefaultOutput returns <name>_compressed<ext> next to in.
func DefaultOutput(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + "_compressed" + ext
}

// Run compresses in to out with c and measures the result. An empty out
// uses DefaultOutput.
func Run(ctx context.Context, c Compressor, in, out string) (Result, error) {
	if out == "" {
		out = DefaultOutput(in)
	}
	if sameFile(in, out) {
		return Result{}, fmt.Errorf("output %s would overwrite the input", out)
	}

	info, err := os.Stat(in)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", in, err)
	}

	start := time.Now()
	if err := c.Compress(ctx, in, out); err != nil {
		return Result{}, fmt.Errorf("compressing %s with %s: %w", in, c.Describe(), err)
	}
	elapsed := time.Since(start)

	outInfo, err := os.Stat(out)
	if err != nil {
		return Result{}, fmt.Errorf("compression produced no output file: %w", err)
	}

	return Result{
		Input:          in,
		Output:         out,
		Engine:         c.Describe(),
		OriginalSize:   info.Size(),
		CompressedSize: outInfo.Size(),
		Elapsed:        elapsed,
	}, nil
}

// ToTarget runs first and, when target is positive and the result is still
// larger than target bytes, reruns with fallback into the same output. A nil
// fallback disables the retry.
func ToTarget(ctx context.Context, first, fallback Compressor, in, out string, target int64, w io.Writer) (Result, error) {
	r, err := Run(ctx, first, in, out)
	if err != nil {
		return r, err
	}
	if target <= 0 || fallback == nil || r.CompressedSize <= target {
		return r, nil
	}
	fmt.Fprintf(w, "Still larger than %.2f MB after %s, retrying with %s...\n",
		float64(target)/mb, r.Engine, fallback.Describe())
	return Run(ctx, fallback, in, r.Output)
}

// Report writes a human-readable summary of r.
func Report(w io.Writer, r Result) {
	fmt.Fprintf(w, "Compressed %s (%s)\n", r.Input, r.Engine)
	fmt.Fprintf(w, "  Original size:   %.2f MB\n", float64(r.OriginalSize)/mb)
	fmt.Fprintf(w, "  Compressed size: %.2f MB\n", float64(r.CompressedSize)/mb)
	fmt.Fprintf(w, "  Reduction:       %.2f%%\n", r.Ratio())
	fmt.Fprintf(w, "  Elapsed:         %.2fs\n", r.Elapsed.Seconds())
	fmt.Fprintf(w, "  Output:          %s\n", r.Output)
	if r.Grew() {
		fmt.Fprintln(w, "\nWarning: the compressed file is larger than the original.")
	}
}

// ParseSize parses a byte size such as "10MB", "512KB", "1.5mb" or "2048".
// An empty string is zero.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, nil
	}
	mult := float64(1)
	for _, u := range []struct {
		suffix string
		mult   float64
	}{{"GB", 1 << 30}, {"MB", mb}, {"KB", 1024}, {"B", 1}} {
		if strings.HasSuffix(s, u.suffix) {
			mult = u.mult
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return int64(v * mult), nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
