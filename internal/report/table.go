package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// writeTable renders a markdown table with columns padded to a shared
// display width, so CJK country names and metric labels line up.
func writeTable(sb *strings.Builder, header []string, rows [][]string) {
	colWidths := make([]int, len(header))

	for i, h := range header {
		colWidths[i] = runewidth.StringWidth(h)
	}

	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if w := runewidth.StringWidth(row[i]); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	writeRow := func(cells []string) {
		sb.WriteString("|")

		for j, width := range colWidths {
			content := ""
			if j < len(cells) {
				content = cells[j]
			}

			sb.WriteString(" ")
			sb.WriteString(content)

			if padding := width - runewidth.StringWidth(content); padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}

			sb.WriteString(" |")
		}

		sb.WriteString("\n")
	}

	writeRow(header)

	sb.WriteString("|")

	for _, width := range colWidths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", width))
		sb.WriteString(" |")
	}

	sb.WriteString("\n")

	for _, row := range rows {
		writeRow(row)
	}
}
