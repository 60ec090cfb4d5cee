package db

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nickyhof/CommitFrame/core"
	"github.com/nickyhof/CommitFrame/op"
	"github.com/nickyhof/CommitFrame/ps"
	"github.com/nickyhof/CommitFrame/sql"
)

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrColumnExists   = errors.New("column already exists")
	ErrNotGrouped     = errors.New("column must appear in GROUP BY")
)

// Engine executes statements against an in-memory database of tables.
type Engine struct {
	*op.Database
	Options ps.Options
}

func NewEngine(opts ps.Options) *Engine {
	return &Engine{
		Database: op.NewDatabase(),
		Options:  opts,
	}
}

// Register stores table under name, replacing any table with that name.
func (engine *Engine) Register(name string, table *op.Table) {
	engine.Put(name, table)
}

// Table returns the table registered under name.
func (engine *Engine) Table(name string) (*op.Table, error) {
	return engine.Get(name)
}

func (engine *Engine) Execute(query string) (Result, error) {
	return engine.ExecuteContext(context.Background(), query)
}

// ExecuteContext is like Execute; ctx bounds LOAD and SAVE.
func (engine *Engine) ExecuteContext(ctx context.Context, query string) (Result, error) {
	parser := sql.NewParser(query)
	statement, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	switch statement.Type() {
	case sql.SelectStatementType:
		return engine.executeSelectStatement(statement.(sql.SelectStatement))
	case sql.LoadStatementType:
		return engine.executeLoadStatement(ctx, statement.(sql.LoadStatement))
	case sql.SaveStatementType:
		return engine.executeSaveStatement(ctx, statement.(sql.SaveStatement))
	case sql.DropTableStatementType:
		return engine.executeDropTableStatement(statement.(sql.DropTableStatement))
	case sql.AlterTableStatementType:
		return engine.executeAlterTableStatement(statement.(sql.AlterTableStatement))
	case sql.DescribeStatementType:
		return engine.executeDescribeStatement(statement.(sql.DescribeStatement))
	case sql.ShowTablesStatementType:
		return engine.executeShowTablesStatement()
	default:
		return nil, fmt.Errorf("unsupported statement type: %v", statement.Type())
	}
}

func (engine *Engine) executeSelectStatement(statement sql.SelectStatement) (QueryResult, error) {
	startTime := time.Now()
	rowsScanned := 0

	var result *op.Table
	err := engine.View(func(get func(string) (*op.Table, error)) error {
		base, err := get(statement.Table)
		if err != nil {
			return err
		}
		rowsScanned += base.Len()

		current := base
		qualifiers := []string{statement.Table, statement.TableAlias}

		// Execute JOINs
		for _, join := range statement.Joins {
			joinTable, err := get(join.Table)
			if err != nil {
				return fmt.Errorf("join: %w", err)
			}
			rowsScanned += joinTable.Len()

			mode, err := op.ParseMergeMode(join.Type)
			if err != nil {
				return err
			}
			leftCol := resolveColumn(join.LeftCol, current, qualifiers...)
			rightCol := resolveColumn(join.RightCol, joinTable, join.Table, join.TableAlias)

			current, err = current.Join(joinTable, leftCol, rightCol, mode)
			if err != nil {
				return err
			}
			qualifiers = append(qualifiers, join.Table, join.TableAlias)
		}

		// Apply WHERE clause filtering (after joins); Filter also copies
		// the rows so later steps never touch stored tables.
		where := resolveWhere(statement.Where, current, qualifiers)
		current = current.Filter(func(row core.Row) bool {
			return matchesWhereClause(row, where)
		})

		if len(statement.Aggregates) > 0 || len(statement.GroupBy) > 0 {
			result, err = aggregate(current, statement, qualifiers)
		} else {
			result, err = project(current, statement, qualifiers)
		}
		return err
	})
	if err != nil {
		return QueryResult{}, err
	}

	result = result.Slice(statement.Offset, statement.Limit)

	if statement.Into != "" {
		engine.Put(statement.Into, result)
	}

	columns := outputColumns(result, statement)
	return QueryResult{
		Columns:          columns,
		Data:             formatRows(result.Rows(), columns),
		RecordsRead:      result.Len(),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     rowsScanned,
	}, nil
}

// resolveColumn strips a table or alias qualifier from name unless table
// already has a column with the qualified name.
func resolveColumn(name string, table *op.Table, qualifiers ...string) string {
	if table.HasColumn(name) {
		return name
	}
	for _, q := range qualifiers {
		if q != "" && strings.HasPrefix(name, q+".") && len(name) > len(q)+1 {
			return name[len(q)+1:]
		}
	}
	return name
}

func resolveWhere(where sql.WhereClause, table *op.Table, qualifiers []string) sql.WhereClause {
	resolved := sql.WhereClause{LogicalOps: where.LogicalOps}
	for _, cond := range where.Conditions {
		cond.Left = resolveColumn(cond.Left, table, qualifiers...)
		resolved.Conditions = append(resolved.Conditions, cond)
	}
	return resolved
}

// project handles SELECT without aggregates: ORDER BY on the full rows,
// then the select list, then DISTINCT.
func project(table *op.Table, statement sql.SelectStatement, qualifiers []string) (*op.Table, error) {
	// ORDER BY may name an output alias.
	aliases := make(map[string]string)
	for _, column := range statement.Columns {
		if column.Alias != "" {
			aliases[column.Alias] = column.Name
		}
	}

	var keys []op.SortKey
	for _, clause := range statement.OrderBy {
		name := clause.Column
		if original, ok := aliases[name]; ok {
			name = original
		}
		keys = append(keys, op.SortKey{Column: resolveColumn(name, table, qualifiers...), Descending: clause.Descending})
	}
	if len(keys) > 0 {
		table.SortBy(keys, nil)
	}

	if len(statement.Columns) > 0 {
		names := make([]string, len(statement.Columns))
		rename := make(map[string]string)
		for i, column := range statement.Columns {
			names[i] = resolveColumn(column.Name, table, qualifiers...)
			if column.Alias != "" {
				rename[names[i]] = column.Alias
			}
		}
		table = table.SelectColumns(names...)
		if len(rename) > 0 {
			table.RenameColumns(rename)
		}
	}

	if statement.Distinct {
		table = table.Distinct()
	}
	return table, nil
}

// aggregate handles SELECT with aggregates and/or GROUP BY. Without GROUP BY
// the whole input is a single group, which yields one row even when the
// input is empty.
func aggregate(table *op.Table, statement sql.SelectStatement, qualifiers []string) (*op.Table, error) {
	groupBy := make([]string, len(statement.GroupBy))
	grouped := make(map[string]bool)
	for i, column := range statement.GroupBy {
		groupBy[i] = resolveColumn(column, table, qualifiers...)
		grouped[groupBy[i]] = true
	}

	type selected struct {
		name  string
		label string
	}
	var columns []selected
	for _, column := range statement.Columns {
		name := resolveColumn(column.Name, table, qualifiers...)
		if !grouped[name] {
			return nil, fmt.Errorf("%w: %s", ErrNotGrouped, column.Name)
		}
		columns = append(columns, selected{name: name, label: column.Label()})
	}

	reducers := make([]op.Reducer, len(statement.Aggregates))
	for i, agg := range statement.Aggregates {
		reducer, err := reducerFor(agg, resolveColumn(agg.Column, table, qualifiers...))
		if err != nil {
			return nil, err
		}
		reducers[i] = reducer
	}

	var groups []*op.Group
	if len(groupBy) > 0 {
		groups = table.GroupBy(groupBy...).All()
	} else {
		groups = []*op.Group{{Rows: table.Rows()}}
	}

	rows := make([]core.Row, 0, len(groups))
	for _, group := range groups {
		row := core.NewRow()
		for _, column := range columns {
			for i, name := range groupBy {
				if name == column.name {
					row.Set(column.label, group.Key[i])
				}
			}
		}
		for i, agg := range statement.Aggregates {
			row.Set(agg.Label(), aggregateValue(reducers[i](group.Rows)))
		}
		rows = append(rows, row)
	}
	result := op.NewTable(rows)

	var keys []op.SortKey
	for _, clause := range statement.OrderBy {
		keys = append(keys, op.SortKey{Column: clause.Column, Descending: clause.Descending})
	}
	if len(keys) > 0 {
		result.SortBy(keys, nil)
	}
	if statement.Distinct {
		result = result.Distinct()
	}
	return result, nil
}

// reducerFor maps an aggregate to a reducer. Nulls are skipped by every
// aggregate except COUNT(*).
func reducerFor(agg sql.AggregateExpr, column string) (op.Reducer, error) {
	if agg.Column == "*" {
		if agg.Function != "COUNT" {
			return nil, fmt.Errorf("%s(*) is not supported", agg.Function)
		}
		return op.CountRows, nil
	}

	var reducer op.Reducer
	switch agg.Function {
	case "COUNT":
		reducer = op.CountRows
	case "SUM":
		reducer = op.SumOf(column)
	case "AVG":
		reducer = op.MeanOf(column)
	case "MEDIAN":
		reducer = op.MedianOf(column)
	case "MODE":
		reducer = op.ModeOf(column)
	case "VARIANCE":
		reducer = op.VarianceOf(column)
	case "STDDEV":
		reducer = op.StdDevOf(column)
	case "MIN":
		reducer = op.MinOf(column)
	case "MAX":
		reducer = op.MaxOf(column)
	default:
		return nil, fmt.Errorf("unsupported aggregate function: %s", agg.Function)
	}
	return skipNulls(column, reducer), nil
}

func skipNulls(column string, reducer op.Reducer) op.Reducer {
	return func(rows []core.Row) any {
		present := make([]core.Row, 0, len(rows))
		for _, row := range rows {
			if !row.Value(column).IsNull() {
				present = append(present, row)
			}
		}
		return reducer(present)
	}
}

// aggregateValue converts a reducer result to a cell value. Infinite and NaN
// results of empty inputs become null; modes are joined with commas.
func aggregateValue(v any) core.Value {
	switch v := v.(type) {
	case int:
		return core.Number(float64(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.Null()
		}
		return core.Number(v)
	case []string:
		return core.String(strings.Join(v, ","))
	default:
		value, err := core.FromAny(v)
		if err != nil {
			return core.Null()
		}
		return value
	}
}

// outputColumns lists the result columns: the select list when one was
// given, otherwise every column in first-seen order.
func outputColumns(table *op.Table, statement sql.SelectStatement) []string {
	if len(statement.Columns) > 0 || len(statement.Aggregates) > 0 {
		var columns []string
		for _, column := range statement.Columns {
			columns = append(columns, column.Label())
		}
		for _, agg := range statement.Aggregates {
			columns = append(columns, agg.Label())
		}
		return columns
	}

	seen := make(map[string]bool)
	var columns []string
	for _, row := range table.Rows() {
		for _, key := range row.Keys() {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}
	return columns
}

// formatRows renders rows as strings; missing and null cells are empty.
func formatRows(rows []core.Row, columns []string) [][]string {
	data := make([][]string, len(rows))
	for i, row := range rows {
		data[i] = make([]string, len(columns))
		for j, column := range columns {
			data[i][j] = formatValue(row.Value(column))
		}
	}
	return data
}

func formatValue(v core.Value) string {
	if v.IsNull() {
		return ""
	}
	return v.String()
}

// matchesWhereClause evaluates the conditions with AND binding tighter than
// OR: the clause holds if any run of AND-joined conditions all hold.
func matchesWhereClause(row core.Row, where sql.WhereClause) bool {
	if len(where.Conditions) == 0 {
		return true
	}

	result := false
	run := evaluateCondition(row, where.Conditions[0])
	for i := 1; i < len(where.Conditions); i++ {
		condResult := evaluateCondition(row, where.Conditions[i])
		if i-1 < len(where.LogicalOps) && where.LogicalOps[i-1] == sql.LogicalOr {
			result = result || run
			run = condResult
			continue
		}
		run = run && condResult
	}
	return result || run
}

// evaluateCondition evaluates a single WHERE condition. Comparisons against
// null or across kinds are false.
func evaluateCondition(row core.Row, cond sql.WhereCondition) bool {
	value := row.Value(cond.Left)

	var result bool

	switch cond.Operator {
	case sql.IsNullOperator:
		result = value.IsNull()
	case sql.IsNotNullOperator:
		result = !value.IsNull()
	case sql.EqualsOperator:
		result = core.Equal(value, cond.Right)
	case sql.NotEqualsOperator:
		result = comparable(value, cond.Right) && !core.Equal(value, cond.Right)
	case sql.LessThanOperator:
		result = comparable(value, cond.Right) && core.Compare(value, cond.Right) < 0
	case sql.GreaterThanOperator:
		result = comparable(value, cond.Right) && core.Compare(value, cond.Right) > 0
	case sql.LessThanOrEqualOperator:
		result = comparable(value, cond.Right) && core.Compare(value, cond.Right) <= 0
	case sql.GreaterThanOrEqualOperator:
		result = comparable(value, cond.Right) && core.Compare(value, cond.Right) >= 0
	case sql.LikeOperator:
		s, ok := value.Str()
		pattern, _ := cond.Right.Str()
		result = ok && matchLike(s, pattern)
	case sql.InOperator:
		for _, v := range cond.InValues {
			if core.Equal(value, v) {
				result = true
				break
			}
		}
	}

	if cond.Negated {
		result = !result
	}

	return result
}

func comparable(a, b core.Value) bool {
	return !a.IsNull() && a.Kind() == b.Kind() && !a.IsNaN() && !b.IsNaN()
}

// matchLike matches value against a pattern where % is any run of
// characters and _ is exactly one. Matching is case-insensitive.
func matchLike(value, pattern string) bool {
	v := []rune(strings.ToLower(value))
	p := []rune(strings.ToLower(pattern))

	// Iterative wildcard match with backtracking to the last %.
	vi, pi := 0, 0
	star, mark := -1, 0
	for vi < len(v) {
		switch {
		case pi < len(p) && (p[pi] == '_' || p[pi] == v[vi]):
			vi++
			pi++
		case pi < len(p) && p[pi] == '%':
			star = pi
			mark = vi
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			vi = mark
		default:
			return false
		}
	}
	for pi < len(p) && p[pi] == '%' {
		pi++
	}
	return pi == len(p)
}

func (engine *Engine) executeLoadStatement(ctx context.Context, statement sql.LoadStatement) (CommandResult, error) {
	startTime := time.Now()

	opts := engine.Options
	if statement.Format != "" {
		format, err := ps.ParseFormat(statement.Format)
		if err != nil {
			return CommandResult{}, err
		}
		opts.Format = format
	}

	rows, err := ps.ReadFile(ctx, statement.Path, opts)
	if err != nil {
		return CommandResult{}, fmt.Errorf("load %s: %w", statement.Table, err)
	}

	_, replaced := engine.Swap(statement.Table, op.NewTable(rows))

	result := CommandResult{
		RecordsRead:      len(rows),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(rows),
	}
	if replaced {
		result.TablesReplaced = 1
	} else {
		result.TablesCreated = 1
	}
	return result, nil
}

func (engine *Engine) executeSaveStatement(ctx context.Context, statement sql.SaveStatement) (CommandResult, error) {
	startTime := time.Now()

	opts := engine.Options
	if statement.Format != "" {
		format, err := ps.ParseFormat(statement.Format)
		if err != nil {
			return CommandResult{}, err
		}
		opts.Format = format
	}

	var rows []core.Row
	err := engine.View(func(get func(string) (*op.Table, error)) error {
		table, err := get(statement.Table)
		if err != nil {
			return err
		}
		rows = table.Clone().Rows()
		return nil
	})
	if err != nil {
		return CommandResult{}, err
	}

	if err := ps.WriteFile(ctx, statement.Path, rows, opts); err != nil {
		return CommandResult{}, fmt.Errorf("save %s: %w", statement.Table, err)
	}

	return CommandResult{
		RecordsWritten:   len(rows),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(rows),
	}, nil
}

func (engine *Engine) executeDropTableStatement(statement sql.DropTableStatement) (CommandResult, error) {
	startTime := time.Now()

	if err := engine.Drop(statement.Table); err != nil {
		return CommandResult{}, err
	}

	return CommandResult{
		TablesDeleted:    1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

func (engine *Engine) executeAlterTableStatement(statement sql.AlterTableStatement) (CommandResult, error) {
	startTime := time.Now()
	opCount := 0

	err := engine.Update(statement.Table, func(table *op.Table) error {
		if !table.HasColumn(statement.ColumnName) {
			return fmt.Errorf("%w: %s", ErrColumnNotFound, statement.ColumnName)
		}
		opCount = table.Len()

		switch statement.Action {
		case "DROP":
			table.DropColumn(statement.ColumnName)
		case "RENAME":
			if table.HasColumn(statement.NewColumnName) {
				return fmt.Errorf("%w: %s", ErrColumnExists, statement.NewColumnName)
			}
			table.RenameColumns(map[string]string{statement.ColumnName: statement.NewColumnName})
		default:
			return fmt.Errorf("unsupported ALTER TABLE action: %s", statement.Action)
		}
		return nil
	})
	if err != nil {
		return CommandResult{}, err
	}

	return CommandResult{
		ColumnsAltered:   1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     opCount,
	}, nil
}

// executeDescribeStatement lists every column with its inferred type and,
// for numeric columns, its summary statistics.
func (engine *Engine) executeDescribeStatement(statement sql.DescribeStatement) (QueryResult, error) {
	startTime := time.Now()

	var data [][]string
	opCount := 0
	err := engine.View(func(get func(string) (*op.Table, error)) error {
		table, err := get(statement.Table)
		if err != nil {
			return err
		}
		opCount = table.Len()

		types := table.DataTypes()
		counts := table.Count()
		summaries := make(map[string]op.ColumnSummary)
		for _, summary := range table.Describe() {
			summaries[summary.Column] = summary
		}

		for _, column := range table.Columns() {
			row := []string{column, strings.ToUpper(types[column].String()), fmt.Sprint(counts[column]), "", "", "", "", ""}
			if summary, ok := summaries[column]; ok {
				row[3] = core.FormatNumber(summary.Mean)
				row[4] = core.FormatNumber(summary.Std)
				row[5] = core.FormatNumber(summary.Min)
				row[6] = core.FormatNumber(summary.Median)
				row[7] = core.FormatNumber(summary.Max)
			}
			data = append(data, row)
		}
		return nil
	})
	if err != nil {
		return QueryResult{}, err
	}

	return QueryResult{
		Columns:          []string{"Column", "Type", "Count", "Mean", "Std", "Min", "Median", "Max"},
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     opCount,
	}, nil
}

func (engine *Engine) executeShowTablesStatement() (QueryResult, error) {
	startTime := time.Now()

	var data [][]string
	for _, ts := range engine.Shapes() {
		data = append(data, []string{ts.Name, fmt.Sprint(ts.Rows), fmt.Sprint(ts.Columns)})
	}

	return QueryResult{
		Columns:          []string{"Table", "Rows", "Columns"},
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(data),
	}, nil
}
