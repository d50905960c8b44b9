package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// PrintTable writes headers and rows as aligned columns.
// Rows shorter than the header are padded with empty cells.
func PrintTable(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if len(headers) > 0 {
		fmt.Fprintln(tw, strings.Join(headers, "\t"))
	}

	for _, row := range rows {
		cells := row
		if len(cells) < len(headers) {
			cells = append(append([]string(nil), row...), make([]string, len(headers)-len(row))...)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	return tw.Flush()
}
