// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doctool/internal/assemble"
	"github.com/pdiddy/doctool/internal/pdfdoc"
	"github.com/pdiddy/doctool/pkg/types"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble <folder>",
	Short: "Combine the images and PDFs of a folder into one PDF",
	Long: `Assemble places every image in the folder (jpg, png, bmp, tiff, webp) on
its own A4 page, in name order, followed by the pages of every PDF in the
folder, also in name order. Files that cannot be read are skipped. The
output file is never used as an input.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssemble,
}

func runAssemble(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		return fmt.Errorf("--output is required")
	}
	noPDF, _ := cmd.Flags().GetBool("no-pdf")

	result, err := assemble.Assemble(cmd.Context(), pdfdoc.NewLibrary(), args[0], output, !noPDF, os.Stdout)
	if err != nil {
		return err
	}
	if !result.Written() {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if store := openHistory(cfg); store != nil {
		defer store.Close()
		detail := fmt.Sprintf("%d images, %d PDFs, %d pages", result.Images, result.PDFs, result.Pages)
		record(cmd.Context(), store, outputRecord("assemble", args[0], output, types.StatusConverted, detail))
	}
	return nil
}

func init() {
	assembleCmd.Flags().StringP("output", "o", "", "output PDF (required)")
	assembleCmd.Flags().Bool("no-pdf", false, "only use images, ignore PDFs in the folder")

	rootCmd.AddCommand(assembleCmd)
}
