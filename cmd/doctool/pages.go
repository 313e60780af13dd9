// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doctool/internal/pageset"
	"github.com/pdiddy/doctool/internal/pdfdoc"
	"github.com/pdiddy/doctool/internal/preview"
	"github.com/pdiddy/doctool/pkg/types"
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Reorder, delete and split PDF pages",
	Long: `Pages opens a PDF as an ordered page list and edits it with a script of
steps. Positions are 1-based and refer to the list as it stands when the
step runs:

  up:N      move the page at position N one place up
  down:N    move the page at position N one place down
  delete:N  remove the page at position N
  select:N  select position N (later moves carry the selection)

Steps come from --ops (comma separated) and from a YAML --plan file:

  ops: ["up:3", "delete:1"]
  split: {mode: range, ranges: "1-3,5", prefix: part_}`,
}

// --- list subcommand ---

var pagesListCmd = &cobra.Command{
	Use:   "list <pdf>",
	Short: "Show the page order with a text snippet per page",
	Args:  cobra.ExactArgs(1),
	RunE:  runPagesList,
}

func runPagesList(cmd *cobra.Command, args []string) error {
	lib := pdfdoc.NewLibrary()
	sess, err := openEditor(cmd, lib, args[0])
	if err != nil {
		return err
	}
	e, src := sess.editor, sess.src

	width, _ := cmd.Flags().GetInt("width")
	snippets, err := preview.Snippets(src.Path, width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Previews unavailable: %v\n", err)
	}

	sel, hasSel := e.Selected()
	fmt.Fprintf(os.Stdout, "%s: %d of %d pages\n\n", filepath.Base(src.Path), e.Len(), src.PageCount)
	fmt.Fprintf(os.Stdout, "  %-4s  %-4s  %s\n", "Pos", "Page", "Text")
	for pos, page := range e.Order() {
		marker := " "
		if hasSel && pos == sel {
			marker = ">"
		}
		var text string
		if page < len(snippets) {
			text = snippets[page]
		}
		fmt.Fprintf(os.Stdout, "%s %-4d  %-4d  %s\n", marker, pos+1, page+1, text)
	}
	return nil
}

// --- edit subcommand ---

var pagesEditCmd = &cobra.Command{
	Use:   "edit <pdf>",
	Short: "Write the PDF with its pages reordered or removed",
	Args:  cobra.ExactArgs(1),
	RunE:  runPagesEdit,
}

func runPagesEdit(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		return fmt.Errorf("--output is required")
	}
	if same, _ := samePath(args[0], output); same {
		return fmt.Errorf("output %s would overwrite the source", output)
	}

	lib := pdfdoc.NewLibrary()
	sess, err := openEditor(cmd, lib, args[0])
	if err != nil {
		return err
	}
	e, src := sess.editor, sess.src
	if e.Len() == 0 {
		return fmt.Errorf("every page was deleted; nothing to write")
	}

	positions := make([]int, e.Len())
	for i := range positions {
		positions[i] = i
	}
	pages, err := e.Materialize(positions)
	if err != nil {
		return err
	}
	if err := lib.WritePages(cmd.Context(), src, pages, output); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "written: %s (%d pages)\n", output, len(pages))

	if savePlan, _ := cmd.Flags().GetString("save-plan"); savePlan != "" {
		if err := pageset.WritePlan(savePlan, types.Plan{Ops: pageset.RecordOps(sess.ops)}); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "plan saved: %s\n", savePlan)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if store := openHistory(cfg); store != nil {
		defer store.Close()
		record(cmd.Context(), store, outputRecord("pages edit", src.Path, output, types.StatusConverted, ""))
	}
	return nil
}

// --- split subcommand ---

var pagesSplitCmd = &cobra.Command{
	Use:   "split <pdf>",
	Short: "Split the (edited) page list into several PDFs",
	Long: `Split writes one PDF per page (--mode each) or one PDF per range
(--mode range --ranges 1-3,5,7-9). Ranges refer to positions in the page
list after any edit steps have run. Ranges past the end are trimmed;
inverted ranges such as 3-1 are rejected.

Files are named <prefix><name>_page_<n>.pdf or <prefix><name>_pages_<a>-<b>.pdf.`,
	Args: cobra.ExactArgs(1),
	RunE: runPagesSplit,
}

func runPagesSplit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lib := pdfdoc.NewLibrary()
	sess, err := openEditor(cmd, lib, args[0])
	if err != nil {
		return err
	}
	e, src := sess.editor, sess.src

	mode, ranges, prefix := splitSettings(cmd, cfg, sess.plan)
	splitMode, err := pageset.ParseSplitMode(mode)
	if err != nil {
		return err
	}
	outs, err := e.Split(splitMode, ranges)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("out-dir")
	if outDir == "" {
		outDir = filepath.Dir(src.Path)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}

	result, err := pdfdoc.WriteOutputs(cmd.Context(), lib, src, outs, outDir, prefix, os.Stdout)

	if store := openHistory(cfg); store != nil {
		defer store.Close()
		for _, out := range result.Written {
			record(cmd.Context(), store, outputRecord("pages split", src.Path, out, types.StatusConverted, ""))
		}
	}

	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed to write", result.Failed)
	}
	return nil
}

// splitSettings merges the plan's split section with the flags. Flags that
// were set explicitly win.
func splitSettings(cmd *cobra.Command, cfg types.Config, plan *types.Plan) (mode, ranges, prefix string) {
	mode, _ = cmd.Flags().GetString("mode")
	ranges, _ = cmd.Flags().GetString("ranges")
	prefix = cfg.Split.Prefix

	if plan != nil && plan.Split != nil {
		if !cmd.Flags().Changed("mode") && plan.Split.Mode != "" {
			mode = plan.Split.Mode
		}
		if !cmd.Flags().Changed("ranges") && plan.Split.Ranges != "" {
			ranges = plan.Split.Ranges
		}
		if plan.Split.Prefix != "" {
			prefix = plan.Split.Prefix
		}
	}
	if cmd.Flags().Changed("prefix") {
		prefix, _ = cmd.Flags().GetString("prefix")
	}
	return mode, ranges, prefix
}

// --- shared helpers ---

// editSession is an opened PDF with its edit steps applied.
type editSession struct {
	editor *pageset.Editor
	src    pdfdoc.Source
	ops    []pageset.Op
	plan   *types.Plan
}

// openEditor opens the PDF, applies the plan file's steps and then the
// --ops steps, and returns the resulting session.
func openEditor(cmd *cobra.Command, lib *pdfdoc.Library, path string) (*editSession, error) {
	src, err := lib.Open(path)
	if err != nil {
		return nil, err
	}
	e, err := pageset.New(src.PageCount)
	if err != nil {
		return nil, err
	}
	sess := &editSession{editor: e, src: src}

	if planPath, _ := cmd.Flags().GetString("plan"); planPath != "" {
		plan, err := pageset.ReadPlan(planPath)
		if err != nil {
			return nil, err
		}
		planOps, err := pageset.PlanOps(plan)
		if err != nil {
			return nil, err
		}
		sess.ops = append(sess.ops, planOps...)
		sess.plan = &plan
	}

	script, _ := cmd.Flags().GetString("ops")
	flagOps, err := pageset.ParseOps(script)
	if err != nil {
		return nil, err
	}
	sess.ops = append(sess.ops, flagOps...)

	if err := e.ApplyAll(sess.ops); err != nil {
		return nil, err
	}
	return sess, nil
}

func outputRecord(toolName, source, output string, status types.JobStatus, detail string) types.Record {
	r := types.Record{Tool: toolName, Source: source, Output: output, Status: status, Detail: detail}
	if info, err := os.Stat(source); err == nil {
		r.SourceModTime = info.ModTime()
	}
	return r
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	pagesCmd.PersistentFlags().String("ops", "", "edit steps, e.g. up:3,delete:1")
	pagesCmd.PersistentFlags().String("plan", "", "YAML plan file with edit steps and split settings")

	pagesListCmd.Flags().Int("width", preview.DefaultWidth, "snippet length in characters")

	pagesEditCmd.Flags().StringP("output", "o", "", "output PDF (required)")
	pagesEditCmd.Flags().String("save-plan", "", "write the steps that ran to a YAML plan file")

	pagesSplitCmd.Flags().String("mode", "range", "split mode: each or range")
	pagesSplitCmd.Flags().String("ranges", "", "page ranges for range mode, e.g. 1-3,5,7-9")
	pagesSplitCmd.Flags().String("out-dir", "", "output folder (default: the PDF's folder)")
	pagesSplitCmd.Flags().String("prefix", "split_", "file name prefix (default from split.prefix)")

	pagesCmd.AddCommand(pagesListCmd)
	pagesCmd.AddCommand(pagesEditCmd)
	pagesCmd.AddCommand(pagesSplitCmd)

	rootCmd.AddCommand(pagesCmd)
}
