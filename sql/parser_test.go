package sql

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nickyhof/CommitFrame/core"
)

var valueComparer = cmp.Comparer(core.Equal)

func TestParser(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		expected Statement
	}{
		{
			"select wildcard",
			"SELECT * FROM test",
			SelectStatement{Table: "test", Limit: -1},
		},
		{
			"select columns",
			"SELECT col_1, col_2 AS second FROM test",
			SelectStatement{
				Table:   "test",
				Columns: []ColumnExpr{{Name: "col_1"}, {Name: "col_2", Alias: "second"}},
				Limit:   -1,
			},
		},
		{
			"select with where int",
			"SELECT col_1 FROM test WHERE col_1 = 10",
			SelectStatement{
				Table:   "test",
				Columns: []ColumnExpr{{Name: "col_1"}},
				Where:   WhereClause{Conditions: []WhereCondition{{Left: "col_1", Operator: EqualsOperator, Right: core.Number(10)}}},
				Limit:   -1,
			},
		},
		{
			"select with where string and float",
			"SELECT col_1 FROM test WHERE col_1 = 'green' OR col_2 >= -2.5",
			SelectStatement{
				Table:   "test",
				Columns: []ColumnExpr{{Name: "col_1"}},
				Where: WhereClause{
					Conditions: []WhereCondition{
						{Left: "col_1", Operator: EqualsOperator, Right: core.String("green")},
						{Left: "col_2", Operator: GreaterThanOrEqualOperator, Right: core.Number(-2.5)},
					},
					LogicalOps: []LogicalOperator{LogicalOr},
				},
				Limit: -1,
			},
		},
		{
			"select with not, in and is null",
			"SELECT * FROM test WHERE NOT dept IN ('A', 'B') AND manager IS NOT NULL AND active = TRUE",
			SelectStatement{
				Table: "test",
				Where: WhereClause{
					Conditions: []WhereCondition{
						{Left: "dept", Operator: InOperator, InValues: []core.Value{core.String("A"), core.String("B")}, Negated: true},
						{Left: "manager", Operator: IsNotNullOperator},
						{Left: "active", Operator: EqualsOperator, Right: core.Bool(true)},
					},
					LogicalOps: []LogicalOperator{LogicalAnd, LogicalAnd},
				},
				Limit: -1,
			},
		},
		{
			"select distinct with order, limit, offset and into",
			"SELECT DISTINCT dept FROM staff ORDER BY dept DESC, name LIMIT 10 OFFSET 5 INTO depts;",
			SelectStatement{
				Table:    "staff",
				Distinct: true,
				Columns:  []ColumnExpr{{Name: "dept"}},
				OrderBy:  []OrderByClause{{Column: "dept", Descending: true}, {Column: "name"}},
				Limit:    10,
				Offset:   5,
				Into:     "depts",
			},
		},
		{
			"group by with aggregates",
			"SELECT dept, COUNT(*), AVG(salary) AS avg_salary, MODE(city), STDDEV(age) FROM staff GROUP BY dept",
			SelectStatement{
				Table:   "staff",
				Columns: []ColumnExpr{{Name: "dept"}},
				Aggregates: []AggregateExpr{
					{Function: "COUNT", Column: "*"},
					{Function: "AVG", Column: "salary", Alias: "avg_salary"},
					{Function: "MODE", Column: "city"},
					{Function: "STDDEV", Column: "age"},
				},
				GroupBy: []string{"dept"},
				Limit:   -1,
			},
		},
		{
			"mean is avg",
			"SELECT MEAN(x) FROM t",
			SelectStatement{
				Table:      "t",
				Aggregates: []AggregateExpr{{Function: "AVG", Column: "x"}},
				Limit:      -1,
			},
		},
		{
			"joins",
			"SELECT * FROM users u JOIN orders o ON u.id = o.user_id FULL OUTER JOIN ages AS a ON id = id",
			SelectStatement{
				Table:      "users",
				TableAlias: "u",
				Joins: []JoinClause{
					{Type: "INNER", Table: "orders", TableAlias: "o", LeftCol: "u.id", RightCol: "o.user_id"},
					{Type: "FULL", Table: "ages", TableAlias: "a", LeftCol: "id", RightCol: "id"},
				},
				Limit: -1,
			},
		},
		{
			"left and right joins",
			"SELECT * FROM a LEFT JOIN b ON x = y RIGHT OUTER JOIN c ON y = z",
			SelectStatement{
				Table: "a",
				Joins: []JoinClause{
					{Type: "LEFT", Table: "b", LeftCol: "x", RightCol: "y"},
					{Type: "RIGHT", Table: "c", LeftCol: "y", RightCol: "z"},
				},
				Limit: -1,
			},
		},
		{
			"quoted identifiers",
			`SELECT "tags[0]", address.city FROM "my table"`,
			SelectStatement{
				Table:   "my table",
				Columns: []ColumnExpr{{Name: "tags[0]"}, {Name: "address.city"}},
				Limit:   -1,
			},
		},
		{
			"load",
			"LOAD users FROM 's3://bucket/users.csv'",
			LoadStatement{Table: "users", Path: "s3://bucket/users.csv"},
		},
		{
			"load with format",
			"load users from 'users.txt' format CSV",
			LoadStatement{Table: "users", Path: "users.txt", Format: "csv"},
		},
		{
			"save",
			"SAVE users TO 'out.json' FORMAT json",
			SaveStatement{Table: "users", Path: "out.json", Format: "json"},
		},
		{
			"drop table",
			"DROP TABLE users",
			DropTableStatement{Table: "users"},
		},
		{
			"rename column",
			"ALTER TABLE users RENAME COLUMN name TO full_name",
			AlterTableStatement{Table: "users", Action: "RENAME", ColumnName: "name", NewColumnName: "full_name"},
		},
		{
			"drop column",
			"ALTER TABLE users DROP age",
			AlterTableStatement{Table: "users", Action: "DROP", ColumnName: "age"},
		},
		{
			"describe",
			"DESCRIBE users",
			DescribeStatement{Table: "users"},
		},
		{
			"show tables",
			"SHOW TABLES;",
			ShowTablesStatement{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			statement, err := parse(test.sql)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if diff := cmp.Diff(test.expected, statement, valueComparer); diff != "" {
				t.Errorf("statement mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParserErrors(t *testing.T) {
	tests := []string{
		"",
		"INSERT INTO users VALUES (1)",
		"SELECT FROM users",
		"SELECT * users",
		"SELECT *, name FROM users",
		"SELECT * FROM users WHERE",
		"SELECT * FROM users WHERE age",
		"SELECT * FROM users WHERE age IS 5",
		"SELECT * FROM users WHERE age IN (1, 2",
		"SELECT * FROM users LIMIT ten",
		"SELECT * FROM users LIMIT -1",
		"SELECT * FROM a JOIN b",
		"SELECT * FROM a JOIN b ON x < y",
		"SELECT * FROM a OUTER JOIN b ON x = y",
		"SELECT SUM(*) FROM users",
		"SELECT * FROM users extra tokens",
		"LOAD users FROM users.csv",
		"SAVE users 'out.csv'",
		"DROP users",
		"ALTER TABLE users ADD COLUMN age",
		"ALTER TABLE users RENAME name",
		"SHOW DATABASES",
		"SELECT * FROM users WHERE name = 'unterminated",
	}

	for _, sql := range tests {
		if _, err := parse(sql); err == nil {
			t.Errorf("Expected error for %q", sql)
		}
	}
}

func TestLexer(t *testing.T) {
	tokens := tokenize("SELECT a.b, 'it''s', -3, 1.5 FROM t -- comment\nWHERE x <> 2;")
	want := []TokenType{
		Select, Identifier, Comma, String, Comma, Int, Comma, Float, From, Identifier,
		Where, Identifier, NotEquals, Int, Semicolon, EOF,
	}
	if len(tokens) != len(want) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for i, token := range tokens {
		if token.Type != want[i] {
			t.Errorf("token %d: expected %s, got %s", i, want[i], token)
		}
	}
	if tokens[3].Value != "it's" {
		t.Errorf("Expected escaped quote, got %q", tokens[3].Value)
	}
	if tokens[5].Value != "-3" {
		t.Errorf("Expected -3, got %q", tokens[5].Value)
	}
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	for _, sql := range []string{"select * from t", "SeLeCt * FrOm t"} {
		if _, err := parse(sql); err != nil {
			t.Errorf("parse(%q) failed: %v", sql, err)
		}
	}
}

func TestSplit(t *testing.T) {
	script := `
LOAD users FROM 'a;b.csv';
-- a comment; with a semicolon
SELECT * FROM users;

SHOW TABLES`

	want := []string{"LOAD users FROM 'a;b.csv'", "SELECT * FROM users", "SHOW TABLES"}
	if diff := cmp.Diff(want, Split(script)); diff != "" {
		t.Errorf("Split mismatch (-want +got):\n%s", diff)
	}
	if got := Split(" ; ;\n"); len(got) != 0 {
		t.Errorf("Expected no statements, got %v", got)
	}
}
