// Package CommitFrame provides an in-memory relational table engine.
//
// Tables are ordered sequences of rows loaded from CSV or JSON files on
// local disk, HTTP, S3 or git. They can be filtered, sorted, grouped,
// aggregated, summarized and joined with INNER, LEFT, RIGHT or FULL
// semantics, either from Go through the op package or with statements.
//
// # Quick Start
//
//	instance := CommitFrame.Open(ps.Options{})
//	engine := instance.Engine()
//
//	engine.Execute("LOAD employees FROM 'employees.csv'")
//	engine.Execute("LOAD departments FROM 's3://bucket/departments.json'")
//
//	result, _ := engine.Execute(`SELECT department, COUNT(*), AVG(salary)
//	    FROM employees
//	    LEFT JOIN departments ON department = name
//	    GROUP BY department`)
//	result.Display()
//
// # Supported Statements
//
// CommitFrame supports:
//   - LOAD and SAVE in CSV or JSON
//   - SELECT with DISTINCT, WHERE, GROUP BY, ORDER BY, LIMIT, OFFSET and INTO
//   - Aggregate functions: COUNT, SUM, AVG, MEDIAN, MODE, VARIANCE, STDDEV, MIN, MAX
//   - JOINs: INNER, LEFT, RIGHT, FULL
//   - DESCRIBE, SHOW TABLES, DROP TABLE
//   - ALTER TABLE with RENAME COLUMN and DROP COLUMN
//
// # Packages
//
//   - core: values and rows
//   - stats: the statistics engine
//   - op: tables, grouping, joins and the table database
//   - ps: reading and writing row sets
//   - sql: the statement lexer and parser
//   - db: the statement engine
package CommitFrame
