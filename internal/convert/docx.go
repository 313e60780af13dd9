// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"

	"github.com/fumiama/go-docx"
)

// InspectDocx opens path as a Word document and fails when it cannot be
// parsed, so damaged files are reported without starting the office suite.
func InspectDocx(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("not a Word document: %s is empty", path)
	}
	if _, err := docx.Parse(f, info.Size()); err != nil {
		return fmt.Errorf("not a readable Word document: %w", err)
	}
	return nil
}
