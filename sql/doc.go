// Package sql provides lexing and parsing for the CommitFrame statement
// language.
//
// The package includes a lexer that tokenizes statements and a parser
// that produces syntax trees the engine executes against in-memory tables.
//
// # Lexer Usage
//
//	lexer := sql.NewLexer("SELECT * FROM users")
//	for {
//	    token := lexer.NextToken()
//	    if token.Type == sql.EOF {
//	        break
//	    }
//	    fmt.Println(token)
//	}
//
// # Parser Usage
//
//	parser := sql.NewParser("SELECT dept, AVG(salary) FROM staff GROUP BY dept")
//	statement, err := parser.Parse()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Scripts holding several statements are broken up with Split.
//
// # Supported Statements
//
//   - SelectStatement: SELECT [DISTINCT] ... FROM t [JOIN u ON a = b]
//     [WHERE ...] [GROUP BY ...] [ORDER BY ...] [LIMIT n] [OFFSET n] [INTO t2]
//   - LoadStatement: LOAD t FROM 'path' [FORMAT CSV|JSON]
//   - SaveStatement: SAVE t TO 'path' [FORMAT CSV|JSON]
//   - DropTableStatement: DROP TABLE t
//   - AlterTableStatement: ALTER TABLE t RENAME COLUMN a TO b, ALTER TABLE t DROP COLUMN a
//   - DescribeStatement: DESCRIBE t
//   - ShowTablesStatement: SHOW TABLES
//
// Joins accept INNER, LEFT, RIGHT and FULL, each optionally followed by
// OUTER. Aggregates are COUNT, SUM, AVG (or MEAN), MEDIAN, MODE, VARIANCE,
// STDDEV, MIN and MAX.
package sql
