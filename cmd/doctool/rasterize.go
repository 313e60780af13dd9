// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doctool/internal/pdfdoc"
	"github.com/pdiddy/doctool/internal/rasterize"
	"github.com/pdiddy/doctool/internal/tool"
	"github.com/pdiddy/doctool/pkg/types"
)

var rasterizeCmd = &cobra.Command{
	Use:   "rasterize <pdf>",
	Short: "Render every page of a PDF to a JPG image",
	Long: `Rasterize writes <name>_page_<n>.jpg for each page using poppler's
pdftoppm. Images go next to the PDF unless --out-dir is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runRasterize,
}

func runRasterize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	outDir, _ := cmd.Flags().GetString("out-dir")
	dpi := cfg.Raster.DPI
	if cmd.Flags().Changed("dpi") {
		dpi, _ = cmd.Flags().GetInt("dpi")
	}
	if dpi <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", dpi)
	}

	lib := pdfdoc.NewLibrary()
	src, err := lib.Open(args[0])
	if err != nil {
		return err
	}
	pdftoppm, err := locate(cmd.Context(), tool.Pdftoppm, cfg.Tools.Pdftoppm)
	if err != nil {
		return err
	}

	r := &rasterize.Rasterizer{Pdftoppm: pdftoppm, Pages: lib, DPI: dpi}
	result, err := r.Rasterize(cmd.Context(), src.Path, outDir, os.Stdout)
	if err != nil {
		return err
	}

	if store := openHistory(cfg); store != nil {
		defer store.Close()
		for _, img := range result.Images {
			record(cmd.Context(), store, outputRecord("rasterize", src.Path, img, types.StatusConverted, ""))
		}
	}

	if result.Cancelled {
		fmt.Fprintln(os.Stdout, "Rendering stopped by user.")
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d page(s) failed to render", result.Failed)
	}
	return nil
}

func init() {
	rasterizeCmd.Flags().String("out-dir", "", "output folder (default: the PDF's folder)")
	rasterizeCmd.Flags().Int("dpi", rasterize.DefaultDPI, "render resolution (default from raster.dpi)")

	rootCmd.AddCommand(rasterizeCmd)
}
