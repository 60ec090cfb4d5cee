package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/nickyhof/CommitFrame"
	"github.com/nickyhof/CommitFrame/db"
	"github.com/nickyhof/CommitFrame/ps"
	"github.com/nickyhof/CommitFrame/sql"
)

const (
	PromptColor  = "\033[36m" // Cyan
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
	BoldColor    = "\033[1m"
)

// Version is set at build time via -ldflags
var Version = "dev"

const historyLimit = 1000

// CLI holds the CLI state
type CLI struct {
	engine      *db.Engine
	out         io.Writer
	history     []string
	historyFile string
}

func main() {
	file := flag.String("file", "", "Statements file to execute (non-interactive)")
	format := flag.String("format", "", "Force the input format for LOAD (csv or json)")
	s3Region := flag.String("s3Region", "", "AWS region for s3:// sources")
	s3Endpoint := flag.String("s3Endpoint", "", "Custom S3-compatible endpoint")
	maxBytes := flag.Int64("maxBytes", 0, "Reject inputs larger than this many bytes (0 = no limit)")
	flag.Parse()

	opts := ps.Options{
		MaxBytes: *maxBytes,
		S3: ps.S3Config{
			Region:   *s3Region,
			Endpoint: *s3Endpoint,
		},
	}
	if *format != "" {
		f, err := ps.ParseFormat(*format)
		if err != nil {
			log.Fatalf("Invalid -format: %v", err)
		}
		opts.Format = f
	}

	cli := newCLI(CommitFrame.Open(opts).Engine(), os.Stdout)
	cli.historyFile = getHistoryPath()

	// Execute statements file if provided
	if *file != "" {
		if err := cli.importFile(*file); err != nil {
			log.Fatalf("Error importing file: %v", err)
		}
		return
	}

	printBanner()
	cli.loadHistory()
	cli.run(os.Stdin)
}

func newCLI(engine *db.Engine, out io.Writer) *CLI {
	return &CLI{
		engine:  engine,
		out:     out,
		history: make([]string, 0),
	}
}

func printBanner() {
	fmt.Println()
	bannerWidth := 39 // inner width of the banner box
	versionLine := fmt.Sprintf("CommitFrame v%s", Version)
	padding := bannerWidth - len(versionLine) - 2
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2
	rightPad := padding - leftPad

	fmt.Printf("%s%s╔═══════════════════════════════════════╗%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s║ %*s%s%*s ║%s\n", BoldColor, PromptColor, leftPad, "", versionLine, rightPad, "", ResetColor)
	fmt.Printf("%s%s║   In-memory Table Query Engine        ║%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s╚═══════════════════════════════════════╝%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println()
	fmt.Println("Type .help for commands, .quit to exit")
	fmt.Println()
}

func (cli *CLI) run(in io.Reader) {
	reader := bufio.NewReader(in)
	var multiLineBuffer strings.Builder

	for {
		fmt.Fprint(cli.out, cli.getPrompt(multiLineBuffer.Len() > 0))

		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Fprintf(cli.out, "\n%sGoodbye!%s\n", SuccessColor, ResetColor)
			cli.saveHistory()
			return
		}

		input = strings.TrimRight(input, "\r\n")
		if strings.TrimSpace(input) == "" {
			continue
		}

		// Dot commands only start a fresh statement
		if multiLineBuffer.Len() == 0 && strings.HasPrefix(input, ".") {
			if !cli.handleCommand(input) {
				cli.saveHistory()
				return
			}
			continue
		}

		// Multi-line support: accumulate until we see a semicolon
		multiLineBuffer.WriteString(input)
		trimmed := strings.TrimSpace(multiLineBuffer.String())
		if !strings.HasSuffix(trimmed, ";") {
			multiLineBuffer.WriteString(" ")
			continue
		}
		multiLineBuffer.Reset()

		for _, statement := range sql.Split(trimmed) {
			cli.addToHistory(statement + ";")
			cli.execute(statement)
		}
	}
}

func (cli *CLI) execute(statement string) {
	result, err := cli.engine.Execute(statement)
	if err != nil {
		fmt.Fprintf(cli.out, "%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}
	result.Render(cli.out)
}

func (cli *CLI) getPrompt(multiLine bool) string {
	if multiLine {
		return fmt.Sprintf("%s      ...>%s ", PromptColor, ResetColor)
	}
	return fmt.Sprintf("%scommitframe>%s ", PromptColor, ResetColor)
}

// handleCommand runs a dot command. It returns false when the CLI should
// exit.
func (cli *CLI) handleCommand(input string) bool {
	parts := strings.Fields(strings.TrimSpace(input))
	if len(parts) == 0 {
		return true
	}

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit", ".q":
		fmt.Fprintf(cli.out, "%sGoodbye!%s\n", SuccessColor, ResetColor)
		return false

	case ".help", ".h", ".?":
		cli.printHelp()

	case ".tables":
		cli.execute("SHOW TABLES")

	case ".describe":
		if len(parts) > 1 {
			cli.execute("DESCRIBE " + parts[1])
		} else {
			fmt.Fprintf(cli.out, "%s✗ Usage: .describe <table>%s\n", ErrorColor, ResetColor)
		}

	case ".clear", ".cls":
		fmt.Fprint(cli.out, "\033[H\033[2J")

	case ".history":
		cli.printHistory()

	case ".version":
		fmt.Fprintf(cli.out, "CommitFrame version %s\n", Version)

	case ".import":
		if len(parts) > 1 {
			if err := cli.importFile(parts[1]); err != nil {
				fmt.Fprintf(cli.out, "%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			}
		} else {
			fmt.Fprintf(cli.out, "%s✗ Usage: .import <file.sql>%s\n", ErrorColor, ResetColor)
		}

	default:
		fmt.Fprintf(cli.out, "%s✗ Unknown command: %s (type .help for commands)%s\n", ErrorColor, parts[0], ResetColor)
	}

	return true
}

func (cli *CLI) printHelp() {
	w := cli.out
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s%sSpecial Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintln(w, "  .help, .h          Show this help message")
	fmt.Fprintln(w, "  .quit, .exit       Exit the CLI")
	fmt.Fprintln(w, "  .tables            List loaded tables")
	fmt.Fprintln(w, "  .describe <table>  Summarize a table")
	fmt.Fprintln(w, "  .import <file>     Execute statements from a file")
	fmt.Fprintln(w, "  .history           Show command history")
	fmt.Fprintln(w, "  .clear             Clear the screen")
	fmt.Fprintln(w, "  .version           Show version info")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s%sStatements:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintln(w, "  LOAD <table> FROM '<path|url|s3://|git>' [FORMAT csv|json];")
	fmt.Fprintln(w, "  SAVE <table> TO '<path>' [FORMAT csv|json];")
	fmt.Fprintln(w, "  SELECT [DISTINCT] <cols|aggregates> FROM <table>")
	fmt.Fprintln(w, "      [[INNER|LEFT|RIGHT|FULL] JOIN <table> ON <a> = <b>]")
	fmt.Fprintln(w, "      [WHERE ...] [GROUP BY ...] [ORDER BY ...] [LIMIT n] [OFFSET n] [INTO <table>];")
	fmt.Fprintln(w, "  DESCRIBE <table>;")
	fmt.Fprintln(w, "  SHOW TABLES;")
	fmt.Fprintln(w, "  ALTER TABLE <table> RENAME COLUMN <a> TO <b>;")
	fmt.Fprintln(w, "  ALTER TABLE <table> DROP COLUMN <a>;")
	fmt.Fprintln(w, "  DROP TABLE <table>;")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s%sAggregates:%s COUNT, SUM, AVG, MEDIAN, MODE, VARIANCE, STDDEV, MIN, MAX\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintln(w)
}

func (cli *CLI) addToHistory(cmd string) {
	// Don't add duplicates of the last command
	if len(cli.history) > 0 && cli.history[len(cli.history)-1] == cmd {
		return
	}
	cli.history = append(cli.history, cmd)

	if len(cli.history) > historyLimit {
		cli.history = cli.history[len(cli.history)-historyLimit:]
	}
}

func (cli *CLI) printHistory() {
	if len(cli.history) == 0 {
		fmt.Fprintln(cli.out, "No command history")
		return
	}

	start := 0
	if len(cli.history) > 20 {
		start = len(cli.history) - 20
	}

	for i := start; i < len(cli.history); i++ {
		fmt.Fprintf(cli.out, "  %3d  %s\n", i+1, cli.history[i])
	}
}

func getHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".commitframe_history")
}

func (cli *CLI) loadHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Open(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		cli.addToHistory(scanner.Text())
	}
}

func (cli *CLI) saveHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Create(cli.historyFile)
	if err != nil {
		log.Printf("Failed to save history: %v", err)
		return
	}
	defer file.Close()

	for _, entry := range cli.history {
		_, _ = file.WriteString(entry + "\n")
	}
}

// importFile reads and executes statements from a file
func (cli *CLI) importFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	successCount := 0
	errorCount := 0

	for i, stmt := range sql.Split(string(data)) {
		result, err := cli.engine.Execute(stmt)
		if err != nil {
			fmt.Fprintf(cli.out, "%s[%d] ✗ %s%s\n", ErrorColor, i+1, truncate(stmt, 50), ResetColor)
			fmt.Fprintf(cli.out, "      Error: %v\n", err)
			errorCount++
			continue
		}
		successCount++

		// Compact output based on result type
		switch r := result.(type) {
		case db.CommandResult:
			var details []string
			if r.TablesCreated > 0 {
				details = append(details, fmt.Sprintf("%d table created", r.TablesCreated))
			}
			if r.TablesReplaced > 0 {
				details = append(details, fmt.Sprintf("%d table replaced", r.TablesReplaced))
			}
			if r.TablesDeleted > 0 {
				details = append(details, fmt.Sprintf("%d table deleted", r.TablesDeleted))
			}
			if r.ColumnsAltered > 0 {
				details = append(details, fmt.Sprintf("%d column altered", r.ColumnsAltered))
			}
			if r.RecordsRead > 0 {
				details = append(details, fmt.Sprintf("%d read", r.RecordsRead))
			}
			if r.RecordsWritten > 0 {
				details = append(details, fmt.Sprintf("%d written", r.RecordsWritten))
			}
			detailStr := ""
			if len(details) > 0 {
				detailStr = " (" + strings.Join(details, ", ") + ")"
			}
			fmt.Fprintf(cli.out, "%s[%d] ✓ %s%s%s\n", SuccessColor, i+1, truncate(stmt, 50), detailStr, ResetColor)
		case db.QueryResult:
			fmt.Fprintf(cli.out, "%s[%d] ✓ %s (%d rows)%s\n", SuccessColor, i+1, truncate(stmt, 50), r.RecordsRead, ResetColor)
			r.Render(cli.out)
		default:
			fmt.Fprintf(cli.out, "%s[%d] ✓ %s%s\n", SuccessColor, i+1, truncate(stmt, 50), ResetColor)
		}
	}

	fmt.Fprintf(cli.out, "\n%s✓ Import complete: %d succeeded, %d failed%s\n",
		SuccessColor, successCount, errorCount, ResetColor)

	return nil
}

// truncate shortens a string to max runes with ellipsis
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
