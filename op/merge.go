package op

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nickyhof/CommitFrame/core"
)

// MergeMode selects how unmatched rows are treated by a join.
type MergeMode string

const (
	// Inner keeps only rows whose keys match on both sides.
	Inner MergeMode = "INNER"
	// Left keeps every source row, merged with its matches when it has any.
	Left MergeMode = "LEFT"
	// Right keeps every target row, merged with its matches when it has any.
	Right MergeMode = "RIGHT"
	// Full keeps every row of both sides.
	Full MergeMode = "FULL"
)

var (
	ErrEmptySource       = errors.New("source table is empty")
	ErrEmptyTarget       = errors.New("target table is empty")
	ErrMissingJoinColumn = errors.New("join column must be specified")
	ErrMissingMode       = errors.New("merge mode must be specified")
	ErrInvalidMode       = errors.New("invalid merge mode")
)

// UnknownColumnError reports a join column absent from the first row of one
// side of the join.
type UnknownColumnError struct {
	Side   string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("%s column %s is not a valid column in %s table", e.Side, e.Column, e.Side)
}

// ParseMergeMode parses a mode name, ignoring case. "FULL OUTER" and "OUTER"
// are accepted for Full.
func ParseMergeMode(s string) (MergeMode, error) {
	name := strings.Join(strings.Fields(strings.ToUpper(s)), " ")
	switch name {
	case "":
		return "", ErrMissingMode
	case "INNER":
		return Inner, nil
	case "LEFT", "LEFT OUTER":
		return Left, nil
	case "RIGHT", "RIGHT OUTER":
		return Right, nil
	case "FULL", "FULL OUTER", "OUTER":
		return Full, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidMode, s)
}

// Valid reports whether m is one of the four join modes.
func (m MergeMode) Valid() bool {
	switch m {
	case Inner, Left, Right, Full:
		return true
	}
	return false
}

// Join merges t with target on t[sourceColumn] == target[targetColumn] and
// returns the result as a new table.
func (t *Table) Join(target *Table, sourceColumn, targetColumn string, mode MergeMode) (*Table, error) {
	var targetRows []core.Row
	if target != nil {
		targetRows = target.rows
	}
	rows, err := Merge(t.rows, targetRows, sourceColumn, targetColumn, mode)
	if err != nil {
		return nil, err
	}
	return NewTable(rows), nil
}

// Merge joins source and target rows on strict equality of their join
// columns. Merged rows take the primary row's fields with the other side's
// fields written over them; target fields always win over source fields.
//
// INNER, LEFT and RIGHT emit rows in primary-row order, each followed by its
// matches in the other side's order. FULL walks the distinct key values, those
// seen in source first, then target-only ones.
func Merge(source, target []core.Row, sourceColumn, targetColumn string, mode MergeMode) ([]core.Row, error) {
	if err := validateMerge(source, target, sourceColumn, targetColumn, mode); err != nil {
		return nil, err
	}

	switch mode {
	case Inner:
		return innerMerge(source, target, sourceColumn, targetColumn), nil
	case Left:
		return leftMerge(source, target, sourceColumn, targetColumn), nil
	case Right:
		return rightMerge(source, target, sourceColumn, targetColumn), nil
	default:
		return fullMerge(source, target, sourceColumn, targetColumn), nil
	}
}

func validateMerge(source, target []core.Row, sourceColumn, targetColumn string, mode MergeMode) error {
	if len(source) == 0 {
		return ErrEmptySource
	}
	if len(target) == 0 {
		return ErrEmptyTarget
	}
	if sourceColumn == "" {
		return fmt.Errorf("source: %w", ErrMissingJoinColumn)
	}
	if targetColumn == "" {
		return fmt.Errorf("target: %w", ErrMissingJoinColumn)
	}
	if mode == "" {
		return ErrMissingMode
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}
	if !source[0].Has(sourceColumn) {
		return &UnknownColumnError{Side: "source", Column: sourceColumn}
	}
	if !target[0].Has(targetColumn) {
		return &UnknownColumnError{Side: "target", Column: targetColumn}
	}
	return nil
}

// index maps each key value to the positions of the rows holding it. NaN
// keys never match and are left out.
func index(rows []core.Row, column string) map[core.HashKey][]int {
	idx := make(map[core.HashKey][]int)
	for i, row := range rows {
		v := row.Value(column)
		if v.IsNaN() {
			continue
		}
		k := v.HashKey()
		idx[k] = append(idx[k], i)
	}
	return idx
}

func innerMerge(source, target []core.Row, sourceColumn, targetColumn string) []core.Row {
	idx := index(target, targetColumn)
	results := make([]core.Row, 0)
	for _, sourceRow := range source {
		for _, j := range matches(idx, sourceRow.Value(sourceColumn)) {
			results = append(results, sourceRow.Merge(target[j]))
		}
	}
	return results
}

func leftMerge(source, target []core.Row, sourceColumn, targetColumn string) []core.Row {
	idx := index(target, targetColumn)
	results := make([]core.Row, 0, len(source))
	for _, sourceRow := range source {
		matched := matches(idx, sourceRow.Value(sourceColumn))
		if len(matched) == 0 {
			results = append(results, sourceRow.Clone())
			continue
		}
		for _, j := range matched {
			results = append(results, sourceRow.Merge(target[j]))
		}
	}
	return results
}

func rightMerge(source, target []core.Row, sourceColumn, targetColumn string) []core.Row {
	idx := index(source, sourceColumn)
	results := make([]core.Row, 0, len(target))
	for _, targetRow := range target {
		matched := matches(idx, targetRow.Value(targetColumn))
		if len(matched) == 0 {
			results = append(results, targetRow.Clone())
			continue
		}
		for _, i := range matched {
			results = append(results, source[i].Merge(targetRow))
		}
	}
	return results
}

func matches(idx map[core.HashKey][]int, v core.Value) []int {
	if v.IsNaN() {
		return nil
	}
	return idx[v.HashKey()]
}

func fullMerge(source, target []core.Row, sourceColumn, targetColumn string) []core.Row {
	sourceIdx := make(map[core.HashKey][]int)
	targetIdx := make(map[core.HashKey][]int)
	var keys []core.HashKey

	// Rows with a NaN key are grouped under one key that never matches.
	var nanKey core.HashKey
	var sourceNaN, targetNaN []int
	nanSeen := false

	for i, row := range source {
		v := row.Value(sourceColumn)
		if v.IsNaN() {
			if !nanSeen {
				nanKey, nanSeen = v.HashKey(), true
				keys = append(keys, nanKey)
			}
			sourceNaN = append(sourceNaN, i)
			continue
		}
		k := v.HashKey()
		if _, ok := sourceIdx[k]; !ok {
			keys = append(keys, k)
		}
		sourceIdx[k] = append(sourceIdx[k], i)
	}

	for i, row := range target {
		v := row.Value(targetColumn)
		if v.IsNaN() {
			if !nanSeen {
				nanKey, nanSeen = v.HashKey(), true
				keys = append(keys, nanKey)
			}
			targetNaN = append(targetNaN, i)
			continue
		}
		k := v.HashKey()
		_, inSource := sourceIdx[k]
		if _, ok := targetIdx[k]; !ok && !inSource {
			keys = append(keys, k)
		}
		targetIdx[k] = append(targetIdx[k], i)
	}

	results := make([]core.Row, 0, len(source)+len(target))
	for _, k := range keys {
		if nanSeen && k == nanKey {
			for _, i := range sourceNaN {
				results = append(results, source[i].Clone())
			}
			for _, j := range targetNaN {
				results = append(results, target[j].Clone())
			}
			continue
		}

		sourceRows, targetRows := sourceIdx[k], targetIdx[k]
		switch {
		case len(sourceRows) > 0 && len(targetRows) > 0:
			for _, i := range sourceRows {
				for _, j := range targetRows {
					results = append(results, source[i].Merge(target[j]))
				}
			}
		case len(sourceRows) > 0:
			for _, i := range sourceRows {
				results = append(results, source[i].Clone())
			}
		default:
			for _, j := range targetRows {
				results = append(results, target[j].Clone())
			}
		}
	}
	return results
}
