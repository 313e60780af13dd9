// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doctool/internal/convert"
	"github.com/pdiddy/doctool/internal/tool"
)

var word2pdfCmd = &cobra.Command{
	Use:   "word2pdf <source-dir> <dest-dir>",
	Short: "Convert every Word document in a folder tree to PDF",
	Long: `Word2pdf finds every .docx file under the source folder (Office lock
files starting with ~$ are ignored) and converts it to PDF with a headless
LibreOffice. The folder structure is mirrored under the destination; with
--flatten only the top-level subfolder is kept.

Documents converted earlier and unchanged since are skipped unless --force
is given. Failures are logged and the batch continues. Press Ctrl-C to stop
after the current document.`,
	Args: cobra.ExactArgs(2),
	RunE: runWord2PDF,
}

func runWord2PDF(cmd *cobra.Command, args []string) error {
	src, dst := args[0], args[1]
	flatten, _ := cmd.Flags().GetBool("flatten")
	force, _ := cmd.Flags().GetBool("force")
	profile, _ := cmd.Flags().GetString("profile")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Scanning for Word documents...")
	jobs, err := convert.PlanJobs(src, dst, flatten)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Fprintln(os.Stdout, "Warning: no Word documents found.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "Found %d Word documents\n", len(jobs))

	soffice, err := locate(cmd.Context(), tool.LibreOffice, cfg.Tools.Soffice)
	if err != nil {
		return err
	}

	conv := &convert.Converter{
		Backend: convert.NewLibreOfficeBackend(soffice, profile),
		Inspect: convert.InspectDocx,
		Force:   force,
	}
	if store := openHistory(cfg); store != nil {
		defer store.Close()
		conv.History = store
	}

	fmt.Fprintln(os.Stdout, "Converting...")
	result := conv.ConvertBatch(cmd.Context(), jobs, os.Stdout)

	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed conversion", result.Failed)
	}
	return nil
}

func init() {
	word2pdfCmd.Flags().Bool("flatten", false, "keep only the top-level subfolder in the output tree")
	word2pdfCmd.Flags().Bool("force", false, "convert documents even when unchanged since the last run")
	word2pdfCmd.Flags().String("profile", "", "LibreOffice user profile folder for the conversions")

	rootCmd.AddCommand(word2pdfCmd)
}
