// Package db provides the statement execution engine for CommitFrame.
//
// The Engine type is the main entry point. It holds named in-memory tables,
// parses statements, executes them, and returns results.
//
// # Engine Usage
//
//	engine := db.NewEngine(ps.Options{})
//	if _, err := engine.Execute("LOAD users FROM 'users.csv'"); err != nil {
//	    log.Fatal(err)
//	}
//	result, err := engine.Execute("SELECT dept, AVG(age) FROM users GROUP BY dept")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result.Display()
//
// Tables built in Go are made visible to statements with Register.
//
// # Result Types
//
// There are two result types:
//   - QueryResult: Returned by SELECT, DESCRIBE and SHOW TABLES
//   - CommandResult: Returned by LOAD, SAVE, DROP TABLE and ALTER TABLE
//
// QueryResult contains columns, data rows rendered as strings, and
// execution metrics. Null and missing cells render as empty strings.
// CommandResult contains counts of affected tables, columns and records.
package db
