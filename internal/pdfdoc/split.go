// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pdiddy/doctool/internal/pageset"
)

// SplitResult counts the outputs of a multi-document write.
type SplitResult struct {
	Written []string
	Failed  int
}

// HasFailures reports whether any output could not be written.
func (r SplitResult) HasFailures() bool {
	return r.Failed > 0
}

// OutputPath names one split output: <dir>/<prefix><base>_<label>.pdf, where
// base is the source file name without its extension.
func OutputPath(dir, prefix string, src Source, out pageset.Output) string {
	base := strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	if base == "" || base == "." {
		base = "document"
	}
	return filepath.Join(dir, prefix+base+"_"+out.Label+".pdf")
}

// WriteOutputs writes every output as its own document in dir, printing a
// status line per document to w. A failed document does not stop the rest
// and already written documents are left in place.
func WriteOutputs(ctx context.Context, pw PageWriter, src Source, outs []pageset.Output, dir, prefix string, w io.Writer) (SplitResult, error) {
	var result SplitResult
	for _, out := range outs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		dest := OutputPath(dir, prefix, src, out)
		if err := pw.WritePages(ctx, src, out.Pages, dest); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(dest), err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "written: %s (%d pages)\n", filepath.Base(dest), len(out.Pages))
		result.Written = append(result.Written, dest)
	}
	fmt.Fprintf(w, "\nSplit summary: %d written, %d failed\n", len(result.Written), result.Failed)
	return result, nil
}
