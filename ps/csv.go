package ps

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/nickyhof/CommitFrame/core"
)

// CSVOptions configure the CSV reader. Zero values mean comma delimited, no
// comments, no trimming.
type CSVOptions struct {
	Delimiter rune `yaml:"delimiter"`
	Comment   rune `yaml:"comment"`
	TrimSpace bool `yaml:"trimSpace"`
}

// ReadCSV reads a header line followed by records. Numeric cells become
// numbers, true and false (any case) become booleans and everything else,
// including empty cells, stays a string. Short records leave their missing
// columns out of the row.
func ReadCSV(r io.Reader, opts CSVOptions) ([]core.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.TrimLeadingSpace = opts.TrimSpace

	header, err := reader.Read()
	if err == io.EOF {
		return []core.Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if opts.TrimSpace {
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
	}

	rows := make([]core.Row, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		row := core.NewRow()
		for i, name := range header {
			if i >= len(record) {
				break
			}
			cell := record[i]
			if opts.TrimSpace {
				cell = strings.TrimSpace(cell)
			}
			row.Set(name, parseCell(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseCell(s string) core.Value {
	if n, ok := parseNumber(s); ok {
		return core.Number(n)
	}
	switch strings.ToLower(s) {
	case "true":
		return core.Bool(true)
	case "false":
		return core.Bool(false)
	}
	return core.String(s)
}

// parseNumber accepts decimal and exponent forms, and the spelled out
// Infinity. Out of range values become infinities.
func parseNumber(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	switch trimmed {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || numErr.Err != strconv.ErrRange {
			return 0, false
		}
	}
	if math.IsNaN(n) {
		return 0, false
	}
	if math.IsInf(n, 0) && err == nil {
		// "inf" and "infinity" spellings
		return 0, false
	}
	return n, true
}

// WriteCSV writes a header from the first row's columns followed by one
// record per row. Nulls and missing columns are written as empty cells.
func WriteCSV(w io.Writer, rows []core.Row) error {
	if len(rows) == 0 {
		return nil
	}

	writer := csv.NewWriter(w)
	header := rows[0].Keys()
	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, name := range header {
			v := row.Value(name)
			if v.IsNull() {
				record[i] = ""
				continue
			}
			record[i] = v.String()
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
