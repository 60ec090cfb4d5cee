// Package core provides the value and row model used throughout CommitFrame.
//
// The package defines the scalar Value type, its Kind tags, and Row, an
// ordered mapping from column name to Value.
//
// # Values
//
// A Value is one of four kinds:
//   - StringKind: text
//   - NumberKind: float64
//   - BoolKind: true or false
//   - NullKind: missing or null
//
// Values are built with the kind constructors or converted from plain Go
// values:
//
//	core.String("Alice")
//	core.Number(30)
//	core.Bool(true)
//	core.Null()
//	core.MustValue(42) // NumberKind
//
// # Rows
//
// Rows keep their columns in insertion order:
//
//	row := core.NewRow(
//	    core.F("id", 1),
//	    core.F("name", "Alice"),
//	)
//	row.Set("age", core.Number(30))
//	row.Keys() // [id name age]
//
// # Type inference
//
// FetchDataTypes reports the Kind of every column of a single row. Tables
// infer their schema from their first row only.
package core
