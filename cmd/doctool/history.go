// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doctool/internal/ledger"
	"github.com/pdiddy/doctool/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or export the record of produced files",
	Long: `History lists the files doctool has written, newest first, from the
SQLite ledger (ledger.path). The same records can be exported as YAML or
JSON with --format.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := ledger.ParseFormat(formatName)
	if err != nil {
		return err
	}

	filter := ledger.Filter{}
	filter.Tool, _ = cmd.Flags().GetString("tool")
	status, _ := cmd.Flags().GetString("status")
	filter.Status = types.JobStatus(status)
	filter.Limit, _ = cmd.Flags().GetInt("limit")
	if since, _ := cmd.Flags().GetDuration("since"); since > 0 {
		filter.Since = time.Now().Add(-since)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Ledger.Disabled {
		return fmt.Errorf("history is disabled (ledger.disabled)")
	}
	store, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(cmd.Context(), filter)
	if err != nil {
		return err
	}
	return ledger.Export(os.Stdout, records, format)
}

func init() {
	historyCmd.Flags().String("tool", "", "only show records of one tool (word2pdf, compress, ...)")
	historyCmd.Flags().String("status", "", "only show records with this status: converted, skipped, failed")
	historyCmd.Flags().Duration("since", 0, "only show records newer than this, e.g. 72h")
	historyCmd.Flags().Int("limit", 0, "maximum records (0 = default of 200, -1 = all)")
	historyCmd.Flags().String("format", "table", "output format: table, yaml or json")

	rootCmd.AddCommand(historyCmd)
}
