package db

import (
	"fmt"
	"io"
	"os"
	"strings"
)

type ResultType int

const (
	QueryResultType ResultType = iota
	CommandResultType
)

type Result interface {
	Type() ResultType
	Display()
	Render(w io.Writer)
}

type QueryResult struct {
	Columns          []string
	Data             [][]string
	RecordsRead      int
	ExecutionTimeSec float64
	ExecutionOps     int
}

type CommandResult struct {
	TablesCreated    int
	TablesReplaced   int
	TablesDeleted    int
	ColumnsAltered   int
	RecordsRead      int
	RecordsWritten   int
	ExecutionTimeSec float64
	ExecutionOps     int
}

func (result QueryResult) Type() ResultType {
	return QueryResultType
}

func (result CommandResult) Type() ResultType {
	return CommandResultType
}

// formatDuration formats a duration in human-readable form
func formatDuration(secs float64) string {
	if secs < 0.001 {
		return "<1ms"
	} else if secs < 0.01 {
		return fmt.Sprintf("%dms", int(secs*1000))
	} else if secs < 1 {
		ms := secs * 1000
		if ms < 10 {
			return fmt.Sprintf("%.1fms", ms)
		}
		return fmt.Sprintf("%dms", int(ms))
	} else if secs < 60 {
		if secs < 10 {
			return fmt.Sprintf("%.1fs", secs)
		}
		return fmt.Sprintf("%ds", int(secs))
	} else {
		mins := int(secs / 60)
		remainSecs := int(secs) % 60
		if remainSecs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm%ds", mins, remainSecs)
	}
}

// formatThroughput renders ops per second as a suffix for the stats line,
// or "" when either figure is missing.
func formatThroughput(ops int, secs float64) string {
	if secs <= 0 || ops <= 0 {
		return ""
	}
	rate := float64(ops) / secs
	if rate >= 1000000 {
		return fmt.Sprintf(", %.1fM ops/s", rate/1000000)
	} else if rate >= 1000 {
		return fmt.Sprintf(", %.1fK ops/s", rate/1000)
	}
	return fmt.Sprintf(", %.0f ops/s", rate)
}

func (result QueryResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

func (result CommandResult) ExecutionTime() string {
	return formatDuration(result.ExecutionTimeSec)
}

func (result QueryResult) Display() {
	result.Render(os.Stdout)
}

func (result QueryResult) Render(w io.Writer) {
	// Show data table first if there is data
	if len(result.Data) > 0 {
		data := NewTable(w)
		data.Header(result.Columns)
		data.Bulk(result.Data)
		data.Render()
	}

	throughputStr := formatThroughput(result.ExecutionOps, result.ExecutionTimeSec)

	// Show compact stats line after data
	fmt.Fprintf(w, "%d rows (%s%s)\n", result.RecordsRead, result.ExecutionTime(), throughputStr)
}

func (result CommandResult) Display() {
	result.Render(os.Stdout)
}

func (result CommandResult) Render(w io.Writer) {
	var parts []string

	if result.TablesCreated > 0 {
		parts = append(parts, fmt.Sprintf("%d table(s) created", result.TablesCreated))
	}
	if result.TablesReplaced > 0 {
		parts = append(parts, fmt.Sprintf("%d table(s) replaced", result.TablesReplaced))
	}
	if result.TablesDeleted > 0 {
		parts = append(parts, fmt.Sprintf("%d table(s) deleted", result.TablesDeleted))
	}
	if result.ColumnsAltered > 0 {
		parts = append(parts, fmt.Sprintf("%d column(s) altered", result.ColumnsAltered))
	}
	if result.RecordsRead > 0 {
		parts = append(parts, fmt.Sprintf("%d record(s) read", result.RecordsRead))
	}
	if result.RecordsWritten > 0 {
		parts = append(parts, fmt.Sprintf("%d record(s) written", result.RecordsWritten))
	}

	throughputStr := formatThroughput(result.ExecutionOps, result.ExecutionTimeSec)

	if len(parts) == 0 {
		fmt.Fprintf(w, "OK (%s%s)\n", result.ExecutionTime(), throughputStr)
	} else {
		fmt.Fprintf(w, "%s (%s%s)\n", strings.Join(parts, ", "), result.ExecutionTime(), throughputStr)
	}
}
