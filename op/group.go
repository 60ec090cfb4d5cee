package op

import (
	"strings"

	"github.com/nickyhof/CommitFrame/core"
	"github.com/nickyhof/CommitFrame/stats"
)

const (
	// GroupSeparator joins key values in group labels.
	GroupSeparator = "-"
	// AggregateSeparator joins key values in aggregation labels.
	AggregateSeparator = "/"
)

// Group is the set of rows sharing one composite key.
type Group struct {
	Key  []core.Value
	Rows []core.Row
}

// Label renders the key values joined by sep. Null values render empty.
func (g *Group) Label(sep string) string {
	return keyLabel(g.Key, sep)
}

func keyLabel(key []core.Value, sep string) string {
	parts := make([]string, len(key))
	for i, v := range key {
		if !v.IsNull() {
			parts[i] = v.String()
		}
	}
	return strings.Join(parts, sep)
}

// Groups holds the result of GroupBy. Groups are kept in order of first
// appearance.
type Groups struct {
	Columns []string
	groups  []*Group
	index   map[string]*Group
}

func encodeKey(key []core.Value) string {
	var buf []byte
	for _, v := range key {
		buf = v.Encode(buf)
	}
	return string(buf)
}

// GroupBy groups rows by the values of columns. The composite key is a
// tuple of values, so values containing a separator never collide.
func (t *Table) GroupBy(columns ...string) *Groups {
	groups := &Groups{
		Columns: append([]string(nil), columns...),
		index:   make(map[string]*Group),
	}

	for _, row := range t.rows {
		key := make([]core.Value, len(columns))
		for i, col := range columns {
			key[i] = row.Value(col)
		}

		encoded := encodeKey(key)
		group, ok := groups.index[encoded]
		if !ok {
			group = &Group{Key: key}
			groups.index[encoded] = group
			groups.groups = append(groups.groups, group)
		}
		group.Rows = append(group.Rows, row)
	}

	return groups
}

func (g *Groups) Len() int {
	return len(g.groups)
}

// All returns the groups in order of first appearance.
func (g *Groups) All() []*Group {
	return g.groups
}

// Get returns the group with the given key values.
func (g *Groups) Get(key ...core.Value) (*Group, bool) {
	group, ok := g.index[encodeKey(key)]
	return group, ok
}

// Map returns the groups keyed by their "-" joined label. Distinct keys that
// render the same label are merged in this view.
func (g *Groups) Map() map[string][]core.Row {
	m := make(map[string][]core.Row, len(g.groups))
	for _, group := range g.groups {
		label := group.Label(GroupSeparator)
		m[label] = append(m[label], group.Rows...)
	}
	return m
}

// Reducer computes one result from the rows of a group.
type Reducer func(rows []core.Row) any

// Aggregation is the reduced value of one group.
type Aggregation struct {
	Key   []core.Value
	Label string
	Value any
}

// Aggregations is the result of Aggregate, in group order.
type Aggregations []Aggregation

// Map returns the results keyed by their "/" joined label.
func (a Aggregations) Map() map[string]any {
	m := make(map[string]any, len(a))
	for _, agg := range a {
		m[agg.Label] = agg.Value
	}
	return m
}

// Aggregate groups rows by columns and applies reducer to every group.
func (t *Table) Aggregate(columns []string, reducer Reducer) Aggregations {
	groups := t.GroupBy(columns...)
	result := make(Aggregations, 0, groups.Len())
	for _, group := range groups.All() {
		result = append(result, Aggregation{
			Key:   group.Key,
			Label: group.Label(AggregateSeparator),
			Value: reducer(group.Rows),
		})
	}
	return result
}

func columnValues(rows []core.Row, column string) []core.Value {
	values := make([]core.Value, len(rows))
	for i, row := range rows {
		values[i] = row.Value(column)
	}
	return values
}

// CountRows is a reducer returning the number of rows in a group.
func CountRows(rows []core.Row) any {
	return len(rows)
}

func numericReducer(column string, fn func([]core.Value) float64) Reducer {
	return func(rows []core.Row) any {
		return fn(columnValues(rows, column))
	}
}

// SumOf returns a reducer summing column over a group.
func SumOf(column string) Reducer { return numericReducer(column, stats.Sum) }

// MeanOf returns a reducer averaging column over a group.
func MeanOf(column string) Reducer { return numericReducer(column, stats.Mean) }

func MinOf(column string) Reducer { return numericReducer(column, stats.Min) }

func MaxOf(column string) Reducer { return numericReducer(column, stats.Max) }

func MedianOf(column string) Reducer { return numericReducer(column, stats.Median) }

func VarianceOf(column string) Reducer { return numericReducer(column, stats.Variance) }

func StdDevOf(column string) Reducer { return numericReducer(column, stats.StandardDeviation) }

// ModeOf returns a reducer resolving the modes of column over a group, as a
// []string.
func ModeOf(column string) Reducer {
	return func(rows []core.Row) any {
		return stats.ResolveModes(stats.Mode(columnValues(rows, column)))
	}
}
