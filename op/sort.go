package op

import (
	"sort"

	"github.com/nickyhof/CommitFrame/core"
)

// Comparator orders two values of one column: negative if a sorts before b,
// positive if after, zero if equal.
type Comparator func(a, b core.Value) int

// SortKey is one column of a multi-column ordering.
type SortKey struct {
	Column     string
	Descending bool
}

// Sort orders the table in place by the given columns using the natural
// value ordering. The first column that differs decides; ties keep their
// original order.
func (t *Table) Sort(columns []string, ascending bool) {
	t.SortFunc(columns, ascending, nil)
}

// SortFunc is like Sort but compares each column with cmp. A nil cmp uses
// core.Compare. When ascending is false the sign of cmp is negated.
func (t *Table) SortFunc(columns []string, ascending bool, cmp Comparator) {
	keys := make([]SortKey, len(columns))
	for i, c := range columns {
		keys[i] = SortKey{Column: c, Descending: !ascending}
	}
	t.SortBy(keys, cmp)
}

// SortBy orders the table in place by keys, each with its own direction.
func (t *Table) SortBy(keys []SortKey, cmp Comparator) {
	if cmp == nil {
		cmp = core.Compare
	}

	sort.SliceStable(t.rows, func(i, j int) bool {
		for _, key := range keys {
			result := cmp(t.rows[i].Value(key.Column), t.rows[j].Value(key.Column))
			if result != 0 {
				if key.Descending {
					return result > 0
				}
				return result < 0
			}
		}
		return false
	})
}
