package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nickyhof/CommitFrame"
	"github.com/nickyhof/CommitFrame/db"
	"github.com/nickyhof/CommitFrame/ps"
)

func setupTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return newCLI(CommitFrame.Open(ps.Options{}).Engine(), &buf), &buf
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestCLIShowTablesEmpty(t *testing.T) {
	cli, buf := setupTestCLI(t)

	if !cli.handleCommand(".tables") {
		t.Fatal("Expected .tables to keep the CLI running")
	}
	if !strings.Contains(buf.String(), "0 rows") {
		t.Errorf("Expected an empty listing, got:\n%s", buf.String())
	}
}

func TestCLIAddToHistory(t *testing.T) {
	cli, _ := setupTestCLI(t)

	cli.addToHistory("SELECT * FROM a")
	cli.addToHistory("SHOW TABLES")

	if len(cli.history) != 2 {
		t.Errorf("Expected 2 history entries, got %d", len(cli.history))
	}

	// Adding duplicate of last command should not increase count
	cli.addToHistory("SHOW TABLES")
	if len(cli.history) != 2 {
		t.Errorf("Expected 2 history entries after duplicate, got %d", len(cli.history))
	}
}

func TestCLIHistoryLimit(t *testing.T) {
	cli, _ := setupTestCLI(t)

	for i := 0; i < 1100; i++ {
		cli.addToHistory("SELECT " + string(rune('a'+i%26)) + strings.Repeat("x", i))
	}

	if len(cli.history) != historyLimit {
		t.Errorf("Expected history to be limited to %d, got %d", historyLimit, len(cli.history))
	}
}

func TestCLIHistoryRoundTrip(t *testing.T) {
	cli, _ := setupTestCLI(t)
	cli.historyFile = filepath.Join(t.TempDir(), "history")
	cli.addToHistory("SHOW TABLES;")
	cli.addToHistory("SELECT * FROM t;")
	cli.saveHistory()

	reloaded, _ := setupTestCLI(t)
	reloaded.historyFile = cli.historyFile
	reloaded.loadHistory()
	if len(reloaded.history) != 2 || reloaded.history[1] != "SELECT * FROM t;" {
		t.Errorf("Unexpected history %q", reloaded.history)
	}
}

func TestCLIGetPrompt(t *testing.T) {
	cli, _ := setupTestCLI(t)

	if prompt := cli.getPrompt(false); !strings.Contains(prompt, "commitframe>") {
		t.Errorf("Expected prompt to contain 'commitframe>', got %q", prompt)
	}
	if prompt := cli.getPrompt(true); !strings.Contains(prompt, "...>") {
		t.Errorf("Expected multi-line prompt to contain '...>', got %q", prompt)
	}
}

func TestCLIHandleCommand(t *testing.T) {
	cli, _ := setupTestCLI(t)

	tests := []struct {
		command string
		running bool
	}{
		{".help", true},
		{".version", true},
		{".history", true},
		{".tables", true},
		{".describe", true},
		{".import", true},
		{".unknown", true}, // Unknown commands are still handled (with error message)
		{".quit", false},
		{".EXIT", false},
	}

	for _, test := range tests {
		if got := cli.handleCommand(test.command); got != test.running {
			t.Errorf("handleCommand(%s) = %v, expected %v", test.command, got, test.running)
		}
	}
}

func TestVersionVariable(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		max      int
		expected string
	}{
		{"short", 10, "short"},
		{"this is a long string", 10, "this is..."},
		{"exact", 5, "exact"},
		{"line\nbreak", 20, "line break"},
		{"Zürich Zürich", 8, "Züric..."},
	}

	for _, test := range tests {
		if got := truncate(test.input, test.max); got != test.expected {
			t.Errorf("truncate(%q, %d) = %q, expected %q", test.input, test.max, got, test.expected)
		}
	}
}

func TestImportFile(t *testing.T) {
	cli, buf := setupTestCLI(t)
	dir := t.TempDir()

	products := writeFile(t, dir, "products.csv", "id,name,category,price\n1,Laptop,Electronics,999.99\n2,Mouse,Electronics,29.99\n3,Desk,Furniture,249\n4,Chair,Furniture,149\n5,Lamp,Furniture,39\n")
	script := writeFile(t, dir, "shop.sql", strings.Join([]string{
		"-- load the catalog",
		"LOAD products FROM '" + products + "';",
		"SELECT category, COUNT(*) AS n FROM products GROUP BY category INTO categories;",
		"SELECT * FROM missing;",
	}, "\n"))

	if err := cli.importFile(script); err != nil {
		t.Fatalf("importFile failed: %v", err)
	}
	if !strings.Contains(buf.String(), "2 succeeded, 1 failed") {
		t.Errorf("Unexpected import summary:\n%s", buf.String())
	}

	result, err := cli.engine.Execute("SELECT COUNT(*) FROM products")
	if err != nil {
		t.Fatalf("SELECT failed: %v", err)
	}
	if qr := result.(db.QueryResult); qr.Data[0][0] != "5" {
		t.Errorf("Expected 5 products, got %s", qr.Data[0][0])
	}

	result, err = cli.engine.Execute("SELECT n FROM categories WHERE category = 'Furniture'")
	if err != nil {
		t.Fatalf("SELECT failed: %v", err)
	}
	if qr := result.(db.QueryResult); qr.Data[0][0] != "3" {
		t.Errorf("Expected 3 furniture products, got %s", qr.Data[0][0])
	}
}

func TestImportFileNotFound(t *testing.T) {
	cli, _ := setupTestCLI(t)

	if err := cli.importFile("nonexistent.sql"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestRunMultiLine(t *testing.T) {
	cli, buf := setupTestCLI(t)
	path := writeFile(t, t.TempDir(), "people.json", `[{"name":"Ann","age":31},{"name":"Ben","age":27}]`)

	input := strings.Join([]string{
		"LOAD people",
		"  FROM '" + path + "';",
		"SELECT name FROM people",
		"  ORDER BY age;",
		".quit",
	}, "\n") + "\n"
	cli.run(strings.NewReader(input))

	out := buf.String()
	if !strings.Contains(out, "1 table(s) created") {
		t.Errorf("Expected LOAD summary, got:\n%s", out)
	}
	if strings.Index(out, "| Ben ") > strings.Index(out, "| Ann ") {
		t.Errorf("Expected Ben before Ann, got:\n%s", out)
	}
	if len(cli.history) != 2 {
		t.Errorf("Expected 2 history entries, got %q", cli.history)
	}
}
