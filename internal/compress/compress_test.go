// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compress

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doctool/internal/pdfdoc"
)

// fakeOptimizer writes size bytes to out and remembers the options used.
type fakeOptimizer struct {
	size int
	got  pdfdoc.OptimizeOptions
}

func (f *fakeOptimizer) Optimize(_ context.Context, _, out string, opts pdfdoc.OptimizeOptions) error {
	f.got = opts
	return os.WriteFile(out, bytes.Repeat([]byte("x"), f.size), 0o644)
}

// fakeGS stands in for a located Ghostscript. It writes an output whose size
// depends on the level found in the arguments.
type fakeGS struct {
	sizes map[string]int
	calls [][]string
	err   error
}

func (f *fakeGS) Name() string { return "ghostscript" }
func (f *fakeGS) Path() string { return "/usr/bin/gs" }

func (f *fakeGS) Run(_ context.Context, args []string, _ io.Writer) error {
	f.calls = append(f.calls, args)
	if f.err != nil {
		return f.err
	}
	var out string
	size := 10
	for _, a := range args {
		if strings.HasPrefix(a, "-sOutputFile=") {
			out = strings.TrimPrefix(a, "-sOutputFile=")
		}
		if a == "-dColorImageResolution=50" {
			size = f.sizes["extreme"]
		} else if a == "-dColorImageResolution=72" {
			size = f.sizes["high"]
		}
	}
	return os.WriteFile(out, bytes.Repeat([]byte("y"), size), 0o644)
}

func writeInput(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("p"), size), 0o644))
	return path
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"low", LevelLow, false},
		{"Medium", LevelMedium, false},
		{" high ", LevelHigh, false},
		{"extreme", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestLevelOptions(t *testing.T) {
	assert.Equal(t, pdfdoc.OptimizeOptions{DedupContentStreams: true}, LevelLow.options())
	assert.Equal(t, pdfdoc.OptimizeOptions{DedupContentStreams: true, ObjectStreams: true, XRefStreams: true}, LevelMedium.options())
	assert.Equal(t, pdfdoc.OptimizeOptions{DedupContentStreams: true, ObjectStreams: true, XRefStreams: true, ResourceDicts: true}, LevelHigh.options())
}

func TestParseGSLevel(t *testing.T) {
	for _, l := range GSLevels {
		got, err := ParseGSLevel(string(l))
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}
	_, err := ParseGSLevel("medium")
	assert.ErrorContains(t, err, "screen, ebook, printer, prepress, high, extreme")
}

func TestGSArgs(t *testing.T) {
	tests := []struct {
		level    GSLevel
		contains []string
		excludes []string
	}{
		{GSScreen, []string{"-dPDFSETTINGS=/screen"}, []string{"-dColorImageResolution=72"}},
		{GSPrepress, []string{"-dPDFSETTINGS=/prepress"}, nil},
		{GSHigh, []string{"-dColorImageResolution=72", "-dGrayImageFilter=/DCTEncode"}, []string{"-dMonoImageResolution=50", "-dPDFSETTINGS=/high"}},
		{GSExtreme, []string{"-dColorImageResolution=50", "-dMonoImageResolution=50"}, []string{"-dColorImageResolution=72"}},
	}
	for _, tc := range tests {
		t.Run(string(tc.level), func(t *testing.T) {
			args := tc.level.Args("in.pdf", "out.pdf")
			assert.Equal(t, "-sDEVICE=pdfwrite", args[0])
			assert.Equal(t, "-sOutputFile=out.pdf", args[1])
			assert.Equal(t, "in.pdf", args[len(args)-1], "input comes last")
			assert.Contains(t, args, "-dBATCH")
			assert.Contains(t, args, "-dSAFER")
			for _, want := range tc.contains {
				assert.Contains(t, args, want)
			}
			for _, not := range tc.excludes {
				assert.NotContains(t, args, not)
			}
		})
	}
}

func TestFallback(t *testing.T) {
	next, ok := LevelMedium.Fallback()
	assert.True(t, ok)
	assert.Equal(t, LevelHigh, next)
	for _, l := range []Level{LevelLow, LevelHigh} {
		_, ok := l.Fallback()
		assert.False(t, ok, l)
	}

	gsNext, ok := GSHigh.Fallback()
	assert.True(t, ok)
	assert.Equal(t, GSExtreme, gsNext)
	for _, l := range []GSLevel{GSScreen, GSEbook, GSPrinter, GSPrepress, GSExtreme} {
		_, ok := l.Fallback()
		assert.False(t, ok, l)
	}
}

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, filepath.Join("docs", "a_compressed.pdf"), DefaultOutput(filepath.Join("docs", "a.pdf")))
	assert.Equal(t, "noext_compressed", DefaultOutput("noext"))
}

func TestRunLibrary(t *testing.T) {
	in := writeInput(t, 1000)
	opt := &fakeOptimizer{size: 250}

	r, err := Run(context.Background(), NewLibrary(opt, LevelHigh), in, "")
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput(in), r.Output)
	assert.Equal(t, "pdfcpu/high", r.Engine)
	assert.Equal(t, int64(1000), r.OriginalSize)
	assert.Equal(t, int64(250), r.CompressedSize)
	assert.InDelta(t, 75.0, r.Ratio(), 0.001)
	assert.False(t, r.Grew())
	assert.True(t, opt.got.ResourceDicts)
}

func TestRunRejectsOverwritingInput(t *testing.T) {
	in := writeInput(t, 10)
	_, err := Run(context.Background(), NewLibrary(&fakeOptimizer{}, LevelLow), in, in)
	assert.ErrorContains(t, err, "overwrite the input")
}

func TestRunGhostscriptFailure(t *testing.T) {
	in := writeInput(t, 10)
	gs := &fakeGS{err: errors.New("exit status 1")}
	_, err := Run(context.Background(), NewGhostscript(gs, GSEbook), in, "")
	assert.ErrorContains(t, err, "ghostscript/ebook")
	assert.ErrorContains(t, err, "exit status 1")
}

func TestReportWarnsOnGrowth(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, Result{Input: "a.pdf", Output: "b.pdf", Engine: "pdfcpu/low", OriginalSize: 100, CompressedSize: 150})
	assert.Contains(t, buf.String(), "Reduction:       -50.00%")
	assert.Contains(t, buf.String(), "larger than the original")

	buf.Reset()
	Report(&buf, Result{OriginalSize: 100, CompressedSize: 50})
	assert.NotContains(t, buf.String(), "Warning")
}

func TestToTarget(t *testing.T) {
	tests := []struct {
		name      string
		target    int64
		extreme   int
		wantCalls int
		wantSize  int64
	}{
		{"no target", 0, 100, 1, 500},
		{"already small enough", 1000, 100, 1, 500},
		{"retries with extreme", 300, 100, 2, 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := writeInput(t, 2000)
			gs := &fakeGS{sizes: map[string]int{"high": 500, "extreme": tc.extreme}}
			var log bytes.Buffer

			r, err := ToTarget(context.Background(), NewGhostscript(gs, GSHigh), NewGhostscript(gs, GSExtreme), in, "", tc.target, &log)
			require.NoError(t, err)
			assert.Len(t, gs.calls, tc.wantCalls)
			assert.Equal(t, tc.wantSize, r.CompressedSize)
			if tc.wantCalls == 2 {
				assert.Contains(t, log.String(), "retrying with ghostscript/extreme")
				assert.Equal(t, "ghostscript/extreme", r.Engine)
			}
		})
	}
}

func TestToTargetWithoutFallback(t *testing.T) {
	in := writeInput(t, 2000)
	gs := &fakeGS{}
	var log bytes.Buffer

	r, err := ToTarget(context.Background(), NewGhostscript(gs, GSScreen), nil, in, "", 5, &log)
	require.NoError(t, err)
	assert.Len(t, gs.calls, 1)
	assert.Equal(t, int64(10), r.CompressedSize, "still above target")
	assert.Equal(t, "ghostscript/screen", r.Engine)
	assert.NotContains(t, log.String(), "retrying")
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"2048", 2048, false},
		{"10MB", 10 * 1024 * 1024, false},
		{"512kb", 512 * 1024, false},
		{"1.5 MB", 1572864, false},
		{"1GB", 1 << 30, false},
		{"ten", 0, true},
		{"-1MB", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseSize(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
