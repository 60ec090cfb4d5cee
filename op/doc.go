// Package op provides the table type and the operations over it.
//
// A Table wraps an ordered sequence of rows. Column types and shape are
// inferred from the first row only.
//
// # Column operations
//
//	t := op.NewTable(rows)
//	t.Shape()                                // {Rows, Columns}
//	t.DataTypes()                            // column -> kind
//	t.RenameColumns(map[string]string{"id": "user_id"})
//	t.DropColumn("email")
//	names := t.SelectColumns("name", "age")  // new table
//	adults := t.Filter(func(r core.Row) bool {
//	    age, _ := r.Value("age").Float()
//	    return age >= 18
//	})
//	t.Sort([]string{"age", "name"}, true)    // in place, stable
//
// RenameColumns, DropColumn and Sort rewrite the table in place; every other
// operation returns a new table or a report.
//
// # Grouping
//
//	groups := t.GroupBy("city", "role")
//	counts := t.Aggregate([]string{"city"}, op.CountRows).Map()
//	// {"Berlin": 2, "Paris": 1}
//
// Group keys are tuples of values, so a value containing a separator never
// collides with another key. Labels join the values with "-" for groups and
// "/" for aggregations.
//
// # Statistics
//
// Sum, Min, Max, Mean, Median, Variance and StandardDeviation consider only
// numeric columns; others are left out of the result. Count and Mode accept
// any column.
//
// # Joins
//
//	joined, err := users.Join(orders, "id", "user_id", op.Left)
//
// Merge validates its inputs and returns ErrEmptySource, ErrEmptyTarget,
// ErrMissingJoinColumn, ErrMissingMode, ErrInvalidMode or an
// *UnknownColumnError.
//
// # Database
//
// Database holds named tables behind a read-write lock for the query engine.
package op
