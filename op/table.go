package op

import (
	"github.com/nickyhof/CommitFrame/core"
)

// Shape is the size of a table: its row count and the column count of its
// first row.
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// Table is an ordered sequence of rows.
//
// RenameColumns, DropColumn and Sort rewrite the table in place and must not
// run concurrently with other operations on the same table. Every other
// operation leaves the table untouched.
type Table struct {
	rows []core.Row
}

// NewTable wraps rows in a table. The table takes ownership of the slice.
func NewTable(rows []core.Row) *Table {
	if rows == nil {
		rows = []core.Row{}
	}
	return &Table{rows: rows}
}

// Rows returns the underlying row sequence, for serialization.
func (t *Table) Rows() []core.Row {
	return t.rows
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the i-th row.
func (t *Table) Row(i int) core.Row {
	return t.rows[i]
}

func (t *Table) firstRow() core.Row {
	if len(t.rows) == 0 {
		return core.Row{}
	}
	return t.rows[0]
}

func (t *Table) Shape() Shape {
	return Shape{
		Rows:    len(t.rows),
		Columns: t.firstRow().Len(),
	}
}

// Columns returns the column names of the first row.
func (t *Table) Columns() []string {
	return t.firstRow().Keys()
}

// DataTypes returns the type of every column, inferred from the first row.
func (t *Table) DataTypes() map[string]core.Kind {
	return core.FetchDataTypes(t.firstRow())
}

// HasColumn reports whether the first row has the column.
func (t *Table) HasColumn(name string) bool {
	return t.firstRow().Has(name)
}

// RenameColumns renames the mapped columns of every row in place. Each row
// is remapped using its own columns; unmapped columns keep their names.
func (t *Table) RenameColumns(mapping map[string]string) {
	for i, row := range t.rows {
		renamed := core.NewRow()
		for _, key := range row.Keys() {
			name := key
			if mapped, ok := mapping[key]; ok && mapped != "" {
				name = mapped
			}
			renamed.Set(name, row.Value(key))
		}
		t.rows[i] = renamed
	}
}

// DropColumn removes a column from every row that has it.
func (t *Table) DropColumn(name string) {
	for i := range t.rows {
		t.rows[i].Delete(name)
	}
}

// SelectColumns returns a new table holding only the named columns. Rows
// lacking a column get null for it.
func (t *Table) SelectColumns(names ...string) *Table {
	rows := make([]core.Row, len(t.rows))
	for i, row := range t.rows {
		rows[i] = row.Project(names)
	}
	return NewTable(rows)
}

// Filter returns a new table with the rows for which predicate is true.
func (t *Table) Filter(predicate func(row core.Row) bool) *Table {
	rows := make([]core.Row, 0)
	for _, row := range t.rows {
		if predicate(row) {
			rows = append(rows, row.Clone())
		}
	}
	return NewTable(rows)
}

// Column returns the values of one column, null where a row lacks it.
func (t *Table) Column(name string) []core.Value {
	values := make([]core.Value, len(t.rows))
	for i, row := range t.rows {
		values[i] = row.Value(name)
	}
	return values
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	rows := make([]core.Row, len(t.rows))
	for i, row := range t.rows {
		rows[i] = row.Clone()
	}
	return NewTable(rows)
}

// Head returns a new table with the first n rows.
func (t *Table) Head(n int) *Table {
	return t.Slice(0, n)
}

// Tail returns a new table with the last n rows.
func (t *Table) Tail(n int) *Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n < 0 {
		n = 0
	}
	return t.Slice(len(t.rows)-n, n)
}

// Slice returns a new table with up to limit rows starting at offset. A
// negative limit means no limit.
func (t *Table) Slice(offset, limit int) *Table {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(t.rows) {
		return NewTable(nil)
	}
	end := len(t.rows)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}

	rows := make([]core.Row, 0, end-offset)
	for _, row := range t.rows[offset:end] {
		rows = append(rows, row.Clone())
	}
	return NewTable(rows)
}

// Distinct returns a new table without rows that repeat the values of the
// given columns. With no columns, whole rows are compared.
func (t *Table) Distinct(columns ...string) *Table {
	seen := make(map[string]bool)
	rows := make([]core.Row, 0)

	var buf []byte
	for _, row := range t.rows {
		keys := columns
		if len(keys) == 0 {
			keys = row.Keys()
		}
		buf = buf[:0]
		for _, k := range keys {
			if len(columns) == 0 {
				buf = append(buf, k...)
				buf = append(buf, 0)
			}
			buf = row.Value(k).Encode(buf)
		}
		key := string(buf)
		if seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, row.Clone())
	}
	return NewTable(rows)
}
