package db

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/nickyhof/CommitFrame/core"
	"github.com/nickyhof/CommitFrame/op"
	"github.com/nickyhof/CommitFrame/ps"
	"github.com/nickyhof/CommitFrame/sql"
)

func benchmarkUsers(n int) []core.Row {
	rows := make([]core.Row, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, core.NewRow(
			core.F("id", i),
			core.F("name", fmt.Sprintf("User%d", i)),
			core.F("age", 20+i%50),
			core.F("city", fmt.Sprintf("City%d", i%10)),
		))
	}
	return rows
}

func benchmarkOrders(n, users int) []core.Row {
	rows := make([]core.Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, core.NewRow(
			core.F("order_id", i),
			core.F("user_id", i%users),
			core.F("amount", (i+1)*10),
		))
	}
	return rows
}

// setupBenchmarkEngine creates an engine with 1000 users and 100 orders
func setupBenchmarkEngine(b *testing.B) *Engine {
	b.Helper()
	engine := NewEngine(ps.Options{})
	engine.Register("users", op.NewTable(benchmarkUsers(1000)))
	engine.Register("orders", op.NewTable(benchmarkOrders(100, 50)))
	return engine
}

func benchmarkQuery(b *testing.B, query string) {
	engine := setupBenchmarkEngine(b)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := engine.Execute(query); err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

// BenchmarkParsing benchmarks statement parsing
func BenchmarkParsing(b *testing.B) {
	queries := []struct {
		name  string
		query string
	}{
		{"SimpleSelect", "SELECT * FROM users"},
		{"SelectWithWhere", "SELECT * FROM users WHERE age > 30"},
		{"SelectWithIn", "SELECT * FROM users WHERE city IN ('City1', 'City2', 'City3')"},
		{"SelectComplex", "SELECT * FROM users WHERE age > 25 AND city = 'City5' ORDER BY name ASC LIMIT 10"},
		{"GroupBy", "SELECT city, COUNT(*), AVG(age) AS avg_age FROM users GROUP BY city ORDER BY avg_age DESC"},
		{"Join", "SELECT u.name, o.amount FROM users u LEFT JOIN orders o ON u.id = o.user_id"},
		{"Load", "LOAD users FROM 's3://bucket/users.csv' FORMAT csv"},
	}

	for _, q := range queries {
		b.Run(q.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := sql.NewParser(q.query).Parse(); err != nil {
					b.Fatalf("Parse error: %v", err)
				}
			}
		})
	}
}

// BenchmarkLexer benchmarks lexer performance
func BenchmarkLexer(b *testing.B) {
	query := "SELECT id, name, age FROM users WHERE age > 25 AND city = 'NYC' ORDER BY name ASC LIMIT 100 OFFSET 10"

	for i := 0; i < b.N; i++ {
		lexer := sql.NewLexer(query)
		for lexer.NextToken().Type != sql.EOF {
		}
	}
}

func BenchmarkSelectAll(b *testing.B) {
	benchmarkQuery(b, "SELECT * FROM users")
}

func BenchmarkSelectWithWhere(b *testing.B) {
	benchmarkQuery(b, "SELECT * FROM users WHERE age > 40")
}

func BenchmarkSelectWithIn(b *testing.B) {
	benchmarkQuery(b, "SELECT * FROM users WHERE city IN ('City1', 'City2', 'City3')")
}

func BenchmarkSelectWithLike(b *testing.B) {
	benchmarkQuery(b, "SELECT name FROM users WHERE name LIKE 'user1%'")
}

func BenchmarkSelectWithOrderBy(b *testing.B) {
	benchmarkQuery(b, "SELECT * FROM users ORDER BY age DESC, name")
}

func BenchmarkSelectWithLimit(b *testing.B) {
	benchmarkQuery(b, "SELECT * FROM users LIMIT 10 OFFSET 100")
}

func BenchmarkDistinct(b *testing.B) {
	benchmarkQuery(b, "SELECT DISTINCT city FROM users")
}

func BenchmarkCount(b *testing.B) {
	benchmarkQuery(b, "SELECT COUNT(*) FROM users")
}

func BenchmarkAggregates(b *testing.B) {
	for _, fn := range []string{"SUM", "AVG", "MIN", "MAX", "MEDIAN", "MODE", "VARIANCE", "STDDEV"} {
		b.Run(fn, func(b *testing.B) {
			benchmarkQuery(b, "SELECT "+fn+"(age) FROM users")
		})
	}
}

func BenchmarkGroupBy(b *testing.B) {
	benchmarkQuery(b, "SELECT city, COUNT(*), AVG(age) FROM users GROUP BY city")
}

func BenchmarkComplexQuery(b *testing.B) {
	benchmarkQuery(b, "SELECT * FROM users WHERE age > 30 AND city = 'City5' ORDER BY age DESC LIMIT 20")
}

func BenchmarkJoin(b *testing.B) {
	for _, mode := range []string{"INNER", "LEFT", "RIGHT", "FULL"} {
		b.Run(mode, func(b *testing.B) {
			benchmarkQuery(b, "SELECT u.name, o.amount FROM users u "+mode+" JOIN orders o ON u.id = o.user_id")
		})
	}
}

func BenchmarkDescribe(b *testing.B) {
	benchmarkQuery(b, "DESCRIBE users")
}

func BenchmarkSaveAndLoad(b *testing.B) {
	for _, format := range []string{"csv", "json"} {
		b.Run(format, func(b *testing.B) {
			engine := setupBenchmarkEngine(b)
			path := filepath.Join(b.TempDir(), "users."+format)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := engine.Execute("SAVE users TO '" + path + "'"); err != nil {
					b.Fatalf("Save error: %v", err)
				}
				if _, err := engine.Execute("LOAD reloaded FROM '" + path + "'"); err != nil {
					b.Fatalf("Load error: %v", err)
				}
			}
		})
	}
}
