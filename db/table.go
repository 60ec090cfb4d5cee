package db

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// SimpleTable renders rows of strings as a boxed text table. Widths are
// measured in runes and numeric cells are right-aligned.
type SimpleTable struct {
	writer   io.Writer
	headers  []string
	rows     [][]string
	maxWidth int
}

// NewTable creates a new table writer
func NewTable(w io.Writer) *SimpleTable {
	return &SimpleTable{
		writer: w,
		rows:   make([][]string, 0),
	}
}

// Header sets the table headers
func (t *SimpleTable) Header(headers []string) {
	t.headers = headers
}

// Row adds a single row
func (t *SimpleTable) Row(row []string) {
	t.rows = append(t.rows, row)
}

// Bulk adds multiple rows
func (t *SimpleTable) Bulk(rows [][]string) {
	t.rows = append(t.rows, rows...)
}

// MaxWidth truncates cells longer than n runes. Zero disables truncation.
func (t *SimpleTable) MaxWidth(n int) {
	t.maxWidth = n
}

// Render outputs the formatted table
func (t *SimpleTable) Render() {
	if len(t.headers) == 0 && len(t.rows) == 0 {
		return
	}

	colWidths := t.calculateWidths()
	separator := t.buildSeparator(colWidths)

	fmt.Fprintln(t.writer, separator)

	if len(t.headers) > 0 {
		fmt.Fprintln(t.writer, t.formatRow(t.headers, colWidths, false))
		fmt.Fprintln(t.writer, separator)
	}

	for _, row := range t.rows {
		fmt.Fprintln(t.writer, t.formatRow(row, colWidths, true))
	}

	fmt.Fprintln(t.writer, separator)
}

func (t *SimpleTable) cell(s string) string {
	if t.maxWidth > 0 && utf8.RuneCountInString(s) > t.maxWidth {
		runes := []rune(s)
		if t.maxWidth == 1 {
			return string(runes[:1])
		}
		return string(runes[:t.maxWidth-1]) + "…"
	}
	return s
}

// calculateWidths determines the width needed for each column
func (t *SimpleTable) calculateWidths() []int {
	numCols := len(t.headers)
	for _, row := range t.rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}

	widths := make([]int, numCols)
	measure := func(row []string) {
		for i, cell := range row {
			if n := utf8.RuneCountInString(t.cell(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}

	// Minimum width of 1
	for i := range widths {
		if widths[i] < 1 {
			widths[i] = 1
		}
	}

	return widths
}

// buildSeparator creates the horizontal line
func (t *SimpleTable) buildSeparator(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w+2)
	}
	return "+" + strings.Join(parts, "+") + "+"
}

// formatRow pads every cell to its column width. Numeric data cells are
// right-aligned.
func (t *SimpleTable) formatRow(row []string, widths []int, alignNumbers bool) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = t.cell(row[i])
		}
		pad := strings.Repeat(" ", w-utf8.RuneCountInString(cell))
		if alignNumbers && isNumeric(cell) {
			parts[i] = " " + pad + cell + " "
		} else {
			parts[i] = " " + cell + pad + " "
		}
	}
	return "|" + strings.Join(parts, "|") + "|"
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
