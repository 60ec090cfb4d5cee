package op

import (
	"github.com/nickyhof/CommitFrame/core"
	"github.com/nickyhof/CommitFrame/stats"
)

// ColumnSummary is the descriptive summary of one numeric column.
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// candidates returns the requested columns that exist in the first row, or
// every first-row column when none are requested.
func (t *Table) candidates(columns []string) []string {
	first := t.firstRow()
	if len(columns) == 0 {
		return first.Keys()
	}
	present := make([]string, 0, len(columns))
	for _, c := range columns {
		if first.Has(c) {
			present = append(present, c)
		}
	}
	return present
}

func (t *Table) numericColumns(columns []string) []string {
	return stats.OnlyNumberColumnFilter(t.DataTypes(), t.candidates(columns))
}

func (t *Table) numeric(columns []string, fn func([]core.Value) float64) map[string]float64 {
	result := make(map[string]float64)
	for _, c := range t.numericColumns(columns) {
		result[c] = fn(t.Column(c))
	}
	return result
}

// Count returns the number of values in each column, whatever their kind.
func (t *Table) Count(columns ...string) map[string]int {
	result := make(map[string]int)
	for _, c := range t.candidates(columns) {
		result[c] = stats.Count(t.Column(c))
	}
	return result
}

// Sum returns the sum of each numeric column. Non-numeric columns are
// left out of the result.
func (t *Table) Sum(columns ...string) map[string]float64 {
	return t.numeric(columns, stats.Sum)
}

func (t *Table) Min(columns ...string) map[string]float64 {
	return t.numeric(columns, stats.Min)
}

func (t *Table) Max(columns ...string) map[string]float64 {
	return t.numeric(columns, stats.Max)
}

func (t *Table) Mean(columns ...string) map[string]float64 {
	return t.numeric(columns, stats.Mean)
}

func (t *Table) Median(columns ...string) map[string]float64 {
	return t.numeric(columns, stats.Median)
}

// Variance returns the population variance of each numeric column.
func (t *Table) Variance(columns ...string) map[string]float64 {
	return t.numeric(columns, stats.Variance)
}

func (t *Table) StandardDeviation(columns ...string) map[string]float64 {
	return t.numeric(columns, stats.StandardDeviation)
}

// Mode returns the modes of each column. Any column kind is accepted. When
// every value of a column occurs equally often, all of them are modes.
func (t *Table) Mode(columns ...string) map[string][]string {
	result := make(map[string][]string)
	for _, c := range t.candidates(columns) {
		result[c] = stats.ResolveModes(stats.Mode(t.Column(c)))
	}
	return result
}

// Describe summarizes every numeric column, in first-row column order.
func (t *Table) Describe() []ColumnSummary {
	columns := t.numericColumns(nil)
	summaries := make([]ColumnSummary, 0, len(columns))
	for _, c := range columns {
		values := t.Column(c)
		summaries = append(summaries, ColumnSummary{
			Column: c,
			Count:  stats.Count(values),
			Mean:   stats.Mean(values),
			Std:    stats.StandardDeviation(values),
			Min:    stats.Min(values),
			Median: stats.Median(values),
			Max:    stats.Max(values),
		})
	}
	return summaries
}
