// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doctool/internal/compress"
	"github.com/pdiddy/doctool/internal/pdfdoc"
	"github.com/pdiddy/doctool/internal/tool"
	"github.com/pdiddy/doctool/pkg/types"
)

var compressCmd = &cobra.Command{
	Use:   "compress <pdf>",
	Short: "Make a PDF smaller",
	Long: `Compress rewrites a PDF to reduce its size. The pdfcpu engine is built in
and works losslessly (levels low, medium, high). The ghostscript engine
resamples images and needs Ghostscript installed (levels screen, ebook,
printer, prepress, high, extreme).

With --target-size, a result of the engine's default level that is still
larger than the target is redone once at the next stronger level: ghostscript
high becomes extreme and pdfcpu medium becomes high. Other levels are never
escalated.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompress,
}

func runCompress(cmd *cobra.Command, args []string) error {
	in := args[0]
	engine, _ := cmd.Flags().GetString("engine")
	levelName, _ := cmd.Flags().GetString("level")
	output, _ := cmd.Flags().GetString("output")
	targetText, _ := cmd.Flags().GetString("target-size")

	target, err := compress.ParseSize(targetText)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var first, fallback compress.Compressor
	switch engine {
	case "pdfcpu":
		if levelName == "" {
			levelName = string(compress.LevelMedium)
		}
		level, err := compress.ParseLevel(levelName)
		if err != nil {
			return err
		}
		lib := pdfdoc.NewLibrary()
		first = compress.NewLibrary(lib, level)
		if next, ok := level.Fallback(); ok {
			fallback = compress.NewLibrary(lib, next)
		}
	case "ghostscript", "gs":
		if levelName == "" {
			levelName = string(compress.GSHigh)
		}
		level, err := compress.ParseGSLevel(levelName)
		if err != nil {
			return err
		}
		gs, err := locate(cmd.Context(), tool.Ghostscript, cfg.Tools.Ghostscript)
		if err != nil {
			return err
		}
		first = compress.NewGhostscript(gs, level)
		if next, ok := level.Fallback(); ok {
			fallback = compress.NewGhostscript(gs, next)
		}
	default:
		return fmt.Errorf("unknown engine %q (want pdfcpu or ghostscript)", engine)
	}

	if target > 0 && fallback == nil {
		fmt.Fprintf(os.Stdout, "Level %s is not escalated; --target-size only reports the result.\n", levelName)
	}
	fmt.Fprintf(os.Stdout, "Compressing %s with %s...\n", in, first.Describe())
	result, err := compress.ToTarget(cmd.Context(), first, fallback, in, output, target, os.Stdout)
	if err != nil {
		return err
	}
	compress.Report(os.Stdout, result)

	if store := openHistory(cfg); store != nil {
		defer store.Close()
		detail := fmt.Sprintf("%s, %.2f%% smaller", result.Engine, result.Ratio())
		record(cmd.Context(), store, outputRecord("compress", in, result.Output, types.StatusConverted, detail))
	}
	return nil
}

func init() {
	compressCmd.Flags().String("engine", "pdfcpu", "compression engine: pdfcpu or ghostscript")
	compressCmd.Flags().String("level", "", "compression level (default: medium for pdfcpu, high for ghostscript)")
	compressCmd.Flags().StringP("output", "o", "", "output PDF (default: <name>_compressed.pdf)")
	compressCmd.Flags().String("target-size", "", "redo the default level once at the next stronger level when larger than this, e.g. 10MB")

	rootCmd.AddCommand(compressCmd)
}
