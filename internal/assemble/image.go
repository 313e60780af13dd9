// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// placeable are formats the document library embeds directly.
var placeable = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// converted are formats decoded here and re-encoded as PNG first.
var converted = map[string]bool{".bmp": true, ".tif": true, ".tiff": true, ".webp": true}

func isImage(ext string) bool {
	return placeable[ext] || converted[ext]
}

// prepareImage checks that path decodes and returns a file the document
// library can place: path itself for JPEG and PNG, otherwise a PNG copy
// written to tmp.
func prepareImage(path, tmp string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	if placeable[ext] {
		if _, _, err := image.DecodeConfig(f); err != nil {
			return "", fmt.Errorf("unreadable image: %w", err)
		}
		return path, nil
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("unreadable image: %w", err)
	}
	// Keep the base name unique inside tmp; a.bmp and a.tiff may both exist.
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "_" + ext[1:] + ".png"
	dest := filepath.Join(tmp, name)
	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return "", fmt.Errorf("converting to PNG: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return dest, nil
}
