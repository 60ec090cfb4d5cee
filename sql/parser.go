package sql

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nickyhof/CommitFrame/core"
)

type StatementType int

const (
	SelectStatementType StatementType = iota
	LoadStatementType
	SaveStatementType
	DropTableStatementType
	AlterTableStatementType
	DescribeStatementType
	ShowTablesStatementType
)

type Statement interface {
	Type() StatementType
}

type SelectStatement struct {
	Table      string
	TableAlias string
	Columns    []ColumnExpr
	Aggregates []AggregateExpr
	Joins      []JoinClause
	Distinct   bool
	Where      WhereClause
	GroupBy    []string
	OrderBy    []OrderByClause
	Limit      int // -1 when absent
	Offset     int
	Into       string
}

// ColumnExpr is a plain column in a select list.
type ColumnExpr struct {
	Name  string
	Alias string
}

// Label is the output column name.
func (c ColumnExpr) Label() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

type JoinClause struct {
	Type       string // INNER, LEFT, RIGHT, FULL
	Table      string
	TableAlias string
	LeftCol    string
	RightCol   string
}

type AggregateExpr struct {
	Function string // COUNT, SUM, AVG, MEDIAN, MODE, VARIANCE, STDDEV, MIN, MAX
	Column   string // "*" for COUNT(*)
	Alias    string
}

// Label is the output column name, FUNC(column) unless aliased.
func (a AggregateExpr) Label() string {
	if a.Alias != "" {
		return a.Alias
	}
	return a.Function + "(" + a.Column + ")"
}

type LoadStatement struct {
	Table  string
	Path   string
	Format string
}

type SaveStatement struct {
	Table  string
	Path   string
	Format string
}

type DropTableStatement struct {
	Table string
}

type AlterTableStatement struct {
	Table         string
	Action        string // DROP, RENAME
	ColumnName    string
	NewColumnName string // for RENAME
}

type DescribeStatement struct {
	Table string
}

type ShowTablesStatement struct{}

// WhereClause is a flat list of conditions joined by AND/OR. AND binds
// tighter than OR.
type WhereClause struct {
	Conditions []WhereCondition
	LogicalOps []LogicalOperator // AND/OR between conditions
}

type LogicalOperator int

const (
	LogicalAnd LogicalOperator = iota
	LogicalOr
)

type WhereCondition struct {
	Left     string
	Operator WhereOperator
	Right    core.Value
	InValues []core.Value // for IN operator
	Negated  bool         // for NOT
}

type WhereOperator int

const (
	EqualsOperator WhereOperator = iota
	NotEqualsOperator
	LessThanOperator
	GreaterThanOperator
	LessThanOrEqualOperator
	GreaterThanOrEqualOperator
	LikeOperator
	IsNullOperator
	IsNotNullOperator
	InOperator
)

type OrderByClause struct {
	Column     string
	Descending bool
}

func (s SelectStatement) Type() StatementType {
	return SelectStatementType
}

func (s LoadStatement) Type() StatementType {
	return LoadStatementType
}

func (s SaveStatement) Type() StatementType {
	return SaveStatementType
}

func (s DropTableStatement) Type() StatementType {
	return DropTableStatementType
}

func (s AlterTableStatement) Type() StatementType {
	return AlterTableStatementType
}

func (s DescribeStatement) Type() StatementType {
	return DescribeStatementType
}

func (s ShowTablesStatement) Type() StatementType {
	return ShowTablesStatementType
}

type Parser struct {
	lexer *Lexer
}

func NewParser(sql string) *Parser {
	lexer := NewLexer(sql)
	return &Parser{lexer: lexer}
}

// Parse reads a single statement. A trailing semicolon is allowed; any
// other trailing input is an error.
func (parser *Parser) Parse() (Statement, error) {
	var (
		statement Statement
		err       error
	)

	token := parser.lexer.NextToken()
	switch token.Type {
	case Select:
		statement, err = ParseSelect(parser)
	case Load:
		statement, err = ParseLoad(parser)
	case Save:
		statement, err = ParseSave(parser)
	case Drop:
		statement, err = ParseDrop(parser)
	case Alter:
		statement, err = ParseAlter(parser)
	case Describe:
		statement, err = ParseDescribe(parser)
	case Show:
		statement, err = ParseShow(parser)
	case EOF:
		return nil, errors.New("empty statement")
	default:
		return nil, fmt.Errorf("unknown statement type: %s", token.Value)
	}
	if err != nil {
		return nil, err
	}

	if err := parser.expectEnd(); err != nil {
		return nil, err
	}
	return statement, nil
}

func (parser *Parser) expectEnd() error {
	token := parser.lexer.NextToken()
	if token.Type == Semicolon {
		token = parser.lexer.NextToken()
	}
	if token.Type != EOF {
		return fmt.Errorf("unexpected %s after statement", token)
	}
	return nil
}

func (parser *Parser) expectIdentifier(context string) (string, error) {
	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return "", errors.New("expected " + context)
	}
	return token.Value, nil
}

func ParseSelect(parser *Parser) (Statement, error) {
	selectStatement := SelectStatement{Limit: -1}

	if parser.lexer.PeekToken().Type == Distinct {
		parser.lexer.NextToken()
		selectStatement.Distinct = true
	}

	// Parse select list
	wildcard := false
	for {
		token := parser.lexer.NextToken()
		switch {
		case token.Type == Wildcard:
			wildcard = true
		case aggregateFunction(token.Type) != "":
			agg, err := parseAggregate(parser, token)
			if err != nil {
				return nil, err
			}
			selectStatement.Aggregates = append(selectStatement.Aggregates, agg)
		case token.Type == Identifier:
			column := ColumnExpr{Name: token.Value}
			alias, err := parseAlias(parser)
			if err != nil {
				return nil, err
			}
			column.Alias = alias
			selectStatement.Columns = append(selectStatement.Columns, column)
		default:
			return nil, errors.New("expected column name, *, or aggregate function")
		}

		if parser.lexer.PeekToken().Type != Comma {
			break
		}
		parser.lexer.NextToken() // consume comma
	}
	if wildcard && (len(selectStatement.Columns) > 0 || len(selectStatement.Aggregates) > 0) {
		return nil, errors.New("* cannot be combined with other columns")
	}

	token := parser.lexer.NextToken()
	if token.Type != From {
		return nil, errors.New("expected FROM")
	}

	table, err := parser.expectIdentifier("table name")
	if err != nil {
		return nil, err
	}
	selectStatement.Table = table

	alias, err := parseTableAlias(parser)
	if err != nil {
		return nil, err
	}
	selectStatement.TableAlias = alias

	// Parse JOIN clauses
	for isJoinStart(parser.lexer.PeekToken().Type) {
		joinClause, err := parseJoin(parser, parser.lexer.NextToken())
		if err != nil {
			return nil, err
		}
		selectStatement.Joins = append(selectStatement.Joins, joinClause)
	}

	// Parse WHERE clause
	if parser.lexer.PeekToken().Type == Where {
		parser.lexer.NextToken()
		whereClause, err := ParseWhere(parser)
		if err != nil {
			return nil, err
		}
		selectStatement.Where = whereClause
	}

	// Parse GROUP BY clause
	if parser.lexer.PeekToken().Type == Group {
		parser.lexer.NextToken()
		if parser.lexer.NextToken().Type != By {
			return nil, errors.New("expected BY after GROUP")
		}
		for {
			column, err := parser.expectIdentifier("column name in GROUP BY")
			if err != nil {
				return nil, err
			}
			selectStatement.GroupBy = append(selectStatement.GroupBy, column)

			if parser.lexer.PeekToken().Type != Comma {
				break
			}
			parser.lexer.NextToken() // consume comma
		}
	}

	// Parse ORDER BY clause
	if parser.lexer.PeekToken().Type == Order {
		parser.lexer.NextToken()
		if parser.lexer.NextToken().Type != By {
			return nil, errors.New("expected BY after ORDER")
		}
		for {
			column, err := parser.expectIdentifier("column name in ORDER BY")
			if err != nil {
				return nil, err
			}
			orderByClause := OrderByClause{Column: column}

			switch parser.lexer.PeekToken().Type {
			case Asc:
				parser.lexer.NextToken()
			case Desc:
				parser.lexer.NextToken()
				orderByClause.Descending = true
			}

			selectStatement.OrderBy = append(selectStatement.OrderBy, orderByClause)

			if parser.lexer.PeekToken().Type != Comma {
				break
			}
			parser.lexer.NextToken() // consume comma
		}
	}

	// Parse LIMIT clause
	if parser.lexer.PeekToken().Type == Limit {
		parser.lexer.NextToken()
		limit, err := parseCount(parser, "LIMIT")
		if err != nil {
			return nil, err
		}
		selectStatement.Limit = limit
	}

	// Parse OFFSET clause
	if parser.lexer.PeekToken().Type == Offset {
		parser.lexer.NextToken()
		offset, err := parseCount(parser, "OFFSET")
		if err != nil {
			return nil, err
		}
		selectStatement.Offset = offset
	}

	// Parse INTO clause
	if parser.lexer.PeekToken().Type == Into {
		parser.lexer.NextToken()
		into, err := parser.expectIdentifier("table name after INTO")
		if err != nil {
			return nil, err
		}
		selectStatement.Into = into
	}

	return selectStatement, nil
}

func aggregateFunction(tokenType TokenType) string {
	switch tokenType {
	case Count:
		return "COUNT"
	case Sum:
		return "SUM"
	case Avg, Mean:
		return "AVG"
	case Median:
		return "MEDIAN"
	case Mode:
		return "MODE"
	case Variance:
		return "VARIANCE"
	case Stddev:
		return "STDDEV"
	case Min:
		return "MIN"
	case Max:
		return "MAX"
	default:
		return ""
	}
}

func parseAggregate(parser *Parser, token Token) (AggregateExpr, error) {
	funcName := aggregateFunction(token.Type)
	agg := AggregateExpr{Function: funcName}

	if parser.lexer.NextToken().Type != ParenOpen {
		return agg, errors.New("expected '(' after " + funcName)
	}

	token = parser.lexer.NextToken()
	switch {
	case token.Type == Wildcard && funcName == "COUNT":
		agg.Column = "*"
	case token.Type == Identifier:
		agg.Column = token.Value
	default:
		return agg, errors.New("expected column name in " + funcName + "()")
	}

	if parser.lexer.NextToken().Type != ParenClose {
		return agg, errors.New("expected ')' after column name")
	}

	alias, err := parseAlias(parser)
	if err != nil {
		return agg, err
	}
	agg.Alias = alias
	return agg, nil
}

func parseAlias(parser *Parser) (string, error) {
	if parser.lexer.PeekToken().Type != As {
		return "", nil
	}
	parser.lexer.NextToken()
	return parser.expectIdentifier("alias after AS")
}

// parseTableAlias accepts "AS name" or a bare identifier.
func parseTableAlias(parser *Parser) (string, error) {
	switch parser.lexer.PeekToken().Type {
	case As:
		return parseAlias(parser)
	case Identifier:
		return parser.lexer.NextToken().Value, nil
	default:
		return "", nil
	}
}

func isJoinStart(tokenType TokenType) bool {
	switch tokenType {
	case Join, Inner, Left, Right, Full:
		return true
	default:
		return false
	}
}

func parseJoin(parser *Parser, token Token) (JoinClause, error) {
	joinClause := JoinClause{Type: "INNER"}

	switch token.Type {
	case Left, Right, Full:
		joinClause.Type = strings.ToUpper(token.Value)
		token = parser.lexer.NextToken()
		if token.Type == Outer {
			token = parser.lexer.NextToken()
		}
	case Inner:
		token = parser.lexer.NextToken()
	}
	if token.Type != Join {
		return joinClause, errors.New("expected JOIN after " + joinClause.Type)
	}

	table, err := parser.expectIdentifier("table name after JOIN")
	if err != nil {
		return joinClause, err
	}
	joinClause.Table = table

	alias, err := parseTableAlias(parser)
	if err != nil {
		return joinClause, err
	}
	joinClause.TableAlias = alias

	if parser.lexer.NextToken().Type != On {
		return joinClause, errors.New("expected ON after JOIN table")
	}

	left, err := parser.expectIdentifier("column after ON")
	if err != nil {
		return joinClause, err
	}
	joinClause.LeftCol = left

	if parser.lexer.NextToken().Type != Equals {
		return joinClause, errors.New("expected = in JOIN ON condition")
	}

	right, err := parser.expectIdentifier("column after = in JOIN ON")
	if err != nil {
		return joinClause, err
	}
	joinClause.RightCol = right

	return joinClause, nil
}

func parseCount(parser *Parser, clause string) (int, error) {
	token := parser.lexer.NextToken()
	if token.Type != Int {
		return 0, errors.New("expected integer after " + clause)
	}
	n, err := strconv.Atoi(token.Value)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New(clause + " must not be negative")
	}
	return n, nil
}

// parseLiteral converts a literal token into a value.
func parseLiteral(token Token) (core.Value, error) {
	switch token.Type {
	case String:
		return core.String(token.Value), nil
	case Int, Float:
		n, err := strconv.ParseFloat(token.Value, 64)
		if err != nil {
			return core.Null(), err
		}
		return core.Number(n), nil
	case True:
		return core.Bool(true), nil
	case False:
		return core.Bool(false), nil
	case Null:
		return core.Null(), nil
	default:
		return core.Null(), fmt.Errorf("expected value, got %s", token)
	}
}

func ParseWhere(parser *Parser) (WhereClause, error) {
	var whereClause WhereClause

	for {
		token := parser.lexer.NextToken()

		// Check for NOT
		negated := false
		if token.Type == Not {
			negated = true
			token = parser.lexer.NextToken()
		}

		if token.Type != Identifier {
			return whereClause, errors.New("expected identifier in WHERE clause")
		}
		condition := WhereCondition{Left: token.Value, Negated: negated}

		token = parser.lexer.NextToken()
		switch token.Type {
		case Is:
			// IS NULL / IS NOT NULL
			token = parser.lexer.NextToken()
			condition.Operator = IsNullOperator
			if token.Type == Not {
				condition.Operator = IsNotNullOperator
				token = parser.lexer.NextToken()
			}
			if token.Type != Null {
				return whereClause, errors.New("expected NULL after IS")
			}
		case In:
			// IN (val1, val2, ...)
			condition.Operator = InOperator
			if parser.lexer.NextToken().Type != ParenOpen {
				return whereClause, errors.New("expected '(' after IN")
			}
			for {
				value, err := parseLiteral(parser.lexer.NextToken())
				if err != nil {
					return whereClause, errors.New("expected value in IN list")
				}
				condition.InValues = append(condition.InValues, value)

				token = parser.lexer.NextToken()
				if token.Type == ParenClose {
					break
				}
				if token.Type != Comma {
					return whereClause, errors.New("expected ',' or ')' in IN list")
				}
			}
		default:
			switch token.Type {
			case Equals:
				condition.Operator = EqualsOperator
			case NotEquals:
				condition.Operator = NotEqualsOperator
			case LessThan:
				condition.Operator = LessThanOperator
			case GreaterThan:
				condition.Operator = GreaterThanOperator
			case LessThanOrEqual:
				condition.Operator = LessThanOrEqualOperator
			case GreaterThanOrEqual:
				condition.Operator = GreaterThanOrEqualOperator
			case Like:
				condition.Operator = LikeOperator
			default:
				return whereClause, errors.New("expected operator in WHERE clause")
			}

			value, err := parseLiteral(parser.lexer.NextToken())
			if err != nil {
				return whereClause, errors.New("expected value in WHERE clause")
			}
			condition.Right = value
		}

		whereClause.Conditions = append(whereClause.Conditions, condition)

		switch parser.lexer.PeekToken().Type {
		case And:
			parser.lexer.NextToken() // consume AND
			whereClause.LogicalOps = append(whereClause.LogicalOps, LogicalAnd)
		case Or:
			parser.lexer.NextToken() // consume OR
			whereClause.LogicalOps = append(whereClause.LogicalOps, LogicalOr)
		default:
			return whereClause, nil
		}
	}
}

func parseFormat(parser *Parser) (string, error) {
	if parser.lexer.PeekToken().Type != Format {
		return "", nil
	}
	parser.lexer.NextToken()
	token := parser.lexer.NextToken()
	if token.Type != Identifier {
		return "", errors.New("expected format name after FORMAT")
	}
	return strings.ToLower(token.Value), nil
}

func ParseLoad(parser *Parser) (Statement, error) {
	var loadStatement LoadStatement

	table, err := parser.expectIdentifier("table name after LOAD")
	if err != nil {
		return nil, err
	}
	loadStatement.Table = table

	if parser.lexer.NextToken().Type != From {
		return nil, errors.New("expected FROM after table name")
	}

	token := parser.lexer.NextToken()
	if token.Type != String {
		return nil, errors.New("expected quoted path after FROM")
	}
	loadStatement.Path = token.Value

	format, err := parseFormat(parser)
	if err != nil {
		return nil, err
	}
	loadStatement.Format = format

	return loadStatement, nil
}

func ParseSave(parser *Parser) (Statement, error) {
	var saveStatement SaveStatement

	table, err := parser.expectIdentifier("table name after SAVE")
	if err != nil {
		return nil, err
	}
	saveStatement.Table = table

	if parser.lexer.NextToken().Type != To {
		return nil, errors.New("expected TO after table name")
	}

	token := parser.lexer.NextToken()
	if token.Type != String {
		return nil, errors.New("expected quoted path after TO")
	}
	saveStatement.Path = token.Value

	format, err := parseFormat(parser)
	if err != nil {
		return nil, err
	}
	saveStatement.Format = format

	return saveStatement, nil
}

func ParseDrop(parser *Parser) (Statement, error) {
	if parser.lexer.NextToken().Type != TableIdentifier {
		return nil, errors.New("expected TABLE after DROP")
	}
	table, err := parser.expectIdentifier("table name after DROP TABLE")
	if err != nil {
		return nil, err
	}
	return DropTableStatement{Table: table}, nil
}

func ParseAlter(parser *Parser) (Statement, error) {
	var alterStatement AlterTableStatement

	if parser.lexer.NextToken().Type != TableIdentifier {
		return nil, errors.New("expected TABLE after ALTER")
	}

	table, err := parser.expectIdentifier("table name after ALTER TABLE")
	if err != nil {
		return nil, err
	}
	alterStatement.Table = table

	token := parser.lexer.NextToken()
	switch token.Type {
	case Drop:
		alterStatement.Action = "DROP"
	case Rename:
		alterStatement.Action = "RENAME"
	default:
		return nil, errors.New("expected DROP or RENAME after table name")
	}

	// COLUMN is optional
	if parser.lexer.PeekToken().Type == ColumnIdentifier {
		parser.lexer.NextToken()
	}

	column, err := parser.expectIdentifier("column name")
	if err != nil {
		return nil, err
	}
	alterStatement.ColumnName = column

	if alterStatement.Action == "RENAME" {
		if parser.lexer.NextToken().Type != To {
			return nil, errors.New("expected TO after column name")
		}
		newName, err := parser.expectIdentifier("new column name after TO")
		if err != nil {
			return nil, err
		}
		alterStatement.NewColumnName = newName
	}

	return alterStatement, nil
}

func ParseDescribe(parser *Parser) (Statement, error) {
	table, err := parser.expectIdentifier("table name after DESCRIBE")
	if err != nil {
		return nil, err
	}
	return DescribeStatement{Table: table}, nil
}

func ParseShow(parser *Parser) (Statement, error) {
	if parser.lexer.NextToken().Type != TablesIdentifier {
		return nil, errors.New("expected TABLES after SHOW")
	}
	return ShowTablesStatement{}, nil
}

func parse(sql string) (Statement, error) {
	return NewParser(sql).Parse()
}

// Split breaks a script into statements at semicolons outside quotes and
// comments. Blank statements are dropped.
func Split(script string) []string {
	var (
		statements []string
		current    strings.Builder
		quote      byte
	)

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			statements = append(statements, s)
		}
		current.Reset()
	}

	for i := 0; i < len(script); i++ {
		ch := script[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case ch == '-' && i+1 < len(script) && script[i+1] == '-':
			for i < len(script) && script[i] != '\n' {
				i++
			}
			current.WriteByte('\n')
			continue
		case ch == ';':
			flush()
			continue
		}
		current.WriteByte(ch)
	}
	flush()

	return statements
}
