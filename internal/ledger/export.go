// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doctool/pkg/types"
)

// Format selects how Export renders records.
type Format string

const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatYAML, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, yaml or json)", s)
}

// Export writes records to w in the given format.
func Export(w io.Writer, records []types.Record, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		if records == nil {
			records = []types.Record{}
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case FormatTable:
		return writeTable(w, records)
	}
	return fmt.Errorf("unknown format %q", format)
}

func writeTable(w io.Writer, records []types.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No history recorded.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tTOOL\tSTATUS\tSOURCE\tOUTPUT")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.CreatedAt.Local().Format(time.DateTime), r.Tool, r.Status, r.Source, r.Output)
	}
	return tw.Flush()
}
