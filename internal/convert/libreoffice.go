// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/pdiddy/doctool/internal/tool"
)

// LibreOfficeBackend converts documents with a headless soffice. It depends
// on a located tool.Tool injected at construction time.
type LibreOfficeBackend struct {
	soffice tool.Tool
	profile string
}

// NewLibreOfficeBackend creates a backend that runs soffice. A non-empty
// profile directory gives the conversions their own user installation, so
// they do not collide with a desktop LibreOffice that is already running.
func NewLibreOfficeBackend(soffice tool.Tool, profile string) *LibreOfficeBackend {
	return &LibreOfficeBackend{soffice: soffice, profile: profile}
}

// Args returns the soffice arguments that convert src into outDir.
func (b *LibreOfficeBackend) Args(src, outDir string) ([]string, error) {
	var args []string
	if b.profile != "" {
		abs, err := filepath.Abs(b.profile)
		if err != nil {
			return nil, fmt.Errorf("resolving profile %s: %w", b.profile, err)
		}
		u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
		args = append(args, "-env:UserInstallation="+u.String())
	}
	return append(args, "--headless", "--norestore", "--convert-to", "pdf", "--outdir", outDir, src), nil
}

// Convert implements Backend.
func (b *LibreOfficeBackend) Convert(ctx context.Context, src, outDir string) error {
	args, err := b.Args(src, outDir)
	if err != nil {
		return err
	}
	if err := b.soffice.Run(ctx, args, nil); err != nil {
		return fmt.Errorf("converting %s with %s: %w", filepath.Base(src), b.soffice.Name(), err)
	}
	return nil
}
