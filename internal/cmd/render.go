package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dagucloud/ringbuf/internal/cmn/config"
	"github.com/goccy/go-yaml"
	"github.com/jedib0t/go-pretty/v6/table"
)

// section is one block of output. Structured formats print data; plain and
// table print the rows.
type section struct {
	header table.Row
	rows   []table.Row
}

// render writes data in the given format. Plain output joins each row's
// cells with a space; table output draws one table per section.
func render(w io.Writer, format config.Format, data any, sections ...section) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil

	case config.FormatYAML:
		out, err := yaml.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		_, err = w.Write(out)
		return err

	case config.FormatTable:
		for _, s := range sections {
			tw := table.NewWriter()
			tw.AppendHeader(s.header)
			tw.AppendRows(s.rows)
			if _, err := fmt.Fprintln(w, tw.Render()); err != nil {
				return err
			}
		}
		return nil

	case config.FormatPlain:
		for _, s := range sections {
			for _, row := range s.rows {
				if _, err := fmt.Fprintln(w, row...); err != nil {
					return err
				}
			}
		}
		return nil

	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
