// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compress

import (
	"fmt"
	"strings"

	"github.com/pdiddy/doctool/internal/pdfdoc"
)

// Level is a compression level understood by the embedded PDF library.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Levels lists the library levels from weakest to strongest.
var Levels = []Level{LevelLow, LevelMedium, LevelHigh}

// ParseLevel validates a library level name.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return l, nil
	}
	return "", fmt.Errorf("unknown compression level %q (want %s)", s, join(Levels))
}

// options maps a level to the pdfcpu optimizations it enables. Object
// streams require an xref stream, so medium turns both on.
func (l Level) options() pdfdoc.OptimizeOptions {
	opts := pdfdoc.OptimizeOptions{DedupContentStreams: true}
	if l == LevelMedium || l == LevelHigh {
		opts.ObjectStreams = true
		opts.XRefStreams = true
	}
	if l == LevelHigh {
		opts.ResourceDicts = true
	}
	return opts
}

// Fallback returns the level a size-targeted run retries with. Only the
// default level escalates; other levels are kept as chosen.
func (l Level) Fallback() (Level, bool) {
	if l == LevelMedium {
		return LevelHigh, true
	}
	return "", false
}

// GSLevel is a Ghostscript compression level.
type GSLevel string

const (
	GSScreen   GSLevel = "screen"
	GSEbook    GSLevel = "ebook"
	GSPrinter  GSLevel = "printer"
	GSPrepress GSLevel = "prepress"
	GSHigh     GSLevel = "high"
	GSExtreme  GSLevel = "extreme"
)

// GSLevels lists the Ghostscript levels.
var GSLevels = []GSLevel{GSScreen, GSEbook, GSPrinter, GSPrepress, GSHigh, GSExtreme}

// ParseGSLevel validates a Ghostscript level name.
func ParseGSLevel(s string) (GSLevel, error) {
	l := GSLevel(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range GSLevels {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown ghostscript level %q (want %s)", s, join(GSLevels))
}

// Fallback returns the level a size-targeted run retries with. Only high,
// the default, escalates to extreme.
func (l GSLevel) Fallback() (GSLevel, bool) {
	if l == GSHigh {
		return GSExtreme, true
	}
	return "", false
}

// batchArgs keep Ghostscript non-interactive and sandboxed.
var batchArgs = []string{"-dNOPAUSE", "-dQUIET", "-dBATCH", "-dSAFER"}

// downsampleArgs is the explicit parameter set behind high and extreme,
// at the given image resolution.
func downsampleArgs(dpi int, mono bool) []string {
	args := []string{
		fmt.Sprintf("-dColorImageResolution=%d", dpi),
		fmt.Sprintf("-dGrayImageResolution=%d", dpi),
	}
	if mono {
		args = append(args, fmt.Sprintf("-dMonoImageResolution=%d", dpi))
	}
	return append(args,
		"-dColorImageDownsampleType=/Bicubic",
		"-dGrayImageDownsampleType=/Bicubic",
		"-dMonoImageDownsampleType=/Bicubic",
		"-dOptimize=true",
		"-dEmbedAllFonts=true",
		"-dSubsetFonts=true",
		"-dAutoRotatePages=/None",
		"-dColorImageFilter=/DCTEncode",
		"-dGrayImageFilter=/DCTEncode",
		"-dCompatibilityLevel=1.5",
		"-dDetectDuplicateImages=true",
		"-dPDFA=false",
	)
}

// params returns the level-specific Ghostscript parameters, followed by the
// batch-mode switches.
func (l GSLevel) params() []string {
	var args []string
	switch l {
	case GSHigh:
		args = downsampleArgs(72, false)
	case GSExtreme:
		args = downsampleArgs(50, true)
	default:
		args = []string{"-dPDFSETTINGS=/" + string(l)}
	}
	return append(args, batchArgs...)
}

// Args builds the full Ghostscript argument list for compressing in to out.
func (l GSLevel) Args(in, out string) []string {
	args := []string{"-sDEVICE=pdfwrite", "-sOutputFile=" + out}
	args = append(args, l.params()...)
	return append(args, in)
}

func join[T ~string](values []T) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}
