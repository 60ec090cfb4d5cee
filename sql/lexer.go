package sql

import "strings"

type Token struct {
	Type  TokenType
	Value string
}

type TokenType int

const (
	Identifier TokenType = iota
	TableIdentifier
	TablesIdentifier
	ColumnIdentifier
	Show
	In
	On
	Wildcard
	String
	Int
	Float
	Comma
	Semicolon
	ParenOpen
	ParenClose
	Equals
	NotEquals
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	And
	Or
	Not
	Is
	Null
	Like
	True
	False
	Select
	From
	Where
	Limit
	Offset
	Order
	By
	Asc
	Desc
	Count
	Sum
	Avg
	Mean
	Median
	Mode
	Variance
	Stddev
	Min
	Max
	Distinct
	Group
	Drop
	Alter
	Into
	Join
	Inner
	Left
	Right
	Full
	Outer
	Describe
	As
	To
	Rename
	Load
	Save
	Format
	EOF
	Unknown
)

var tokenNames = map[TokenType]string{
	Identifier:         "Identifier",
	TableIdentifier:    "TableIdentifier",
	TablesIdentifier:   "TablesIdentifier",
	ColumnIdentifier:   "ColumnIdentifier",
	Show:               "Show",
	In:                 "In",
	On:                 "On",
	Wildcard:           "Wildcard",
	String:             "String",
	Int:                "Int",
	Float:              "Float",
	Comma:              "Comma",
	Semicolon:          "Semicolon",
	ParenOpen:          "ParenOpen",
	ParenClose:         "ParenClose",
	Equals:             "Equals",
	NotEquals:          "NotEquals",
	LessThan:           "LessThan",
	GreaterThan:        "GreaterThan",
	LessThanOrEqual:    "LessThanOrEqual",
	GreaterThanOrEqual: "GreaterThanOrEqual",
	And:                "And",
	Or:                 "Or",
	Not:                "Not",
	Is:                 "Is",
	Null:               "Null",
	Like:               "Like",
	True:               "True",
	False:              "False",
	Select:             "Select",
	From:               "From",
	Where:              "Where",
	Limit:              "Limit",
	Offset:             "Offset",
	Order:              "Order",
	By:                 "By",
	Asc:                "Asc",
	Desc:               "Desc",
	Count:              "Count",
	Sum:                "Sum",
	Avg:                "Avg",
	Mean:               "Mean",
	Median:             "Median",
	Mode:               "Mode",
	Variance:           "Variance",
	Stddev:             "Stddev",
	Min:                "Min",
	Max:                "Max",
	Distinct:           "Distinct",
	Group:              "Group",
	Drop:               "Drop",
	Alter:              "Alter",
	Into:               "Into",
	Join:               "Join",
	Inner:              "Inner",
	Left:               "Left",
	Right:              "Right",
	Full:               "Full",
	Outer:              "Outer",
	Describe:           "Describe",
	As:                 "As",
	To:                 "To",
	Rename:             "Rename",
	Load:               "Load",
	Save:               "Save",
	Format:             "Format",
	EOF:                "EOF",
}

var keywords = map[string]TokenType{
	"TABLE":    TableIdentifier,
	"TABLES":   TablesIdentifier,
	"COLUMN":   ColumnIdentifier,
	"SHOW":     Show,
	"IN":       In,
	"ON":       On,
	"AND":      And,
	"OR":       Or,
	"NOT":      Not,
	"IS":       Is,
	"NULL":     Null,
	"LIKE":     Like,
	"TRUE":     True,
	"FALSE":    False,
	"SELECT":   Select,
	"FROM":     From,
	"WHERE":    Where,
	"LIMIT":    Limit,
	"OFFSET":   Offset,
	"ORDER":    Order,
	"BY":       By,
	"ASC":      Asc,
	"DESC":     Desc,
	"COUNT":    Count,
	"SUM":      Sum,
	"AVG":      Avg,
	"MEAN":     Mean,
	"MEDIAN":   Median,
	"MODE":     Mode,
	"VARIANCE": Variance,
	"VAR":      Variance,
	"STDDEV":   Stddev,
	"STD":      Stddev,
	"MIN":      Min,
	"MAX":      Max,
	"DISTINCT": Distinct,
	"GROUP":    Group,
	"DROP":     Drop,
	"ALTER":    Alter,
	"INTO":     Into,
	"JOIN":     Join,
	"INNER":    Inner,
	"LEFT":     Left,
	"RIGHT":    Right,
	"FULL":     Full,
	"OUTER":    Outer,
	"DESCRIBE": Describe,
	"AS":       As,
	"TO":       To,
	"RENAME":   Rename,
	"LOAD":     Load,
	"SAVE":     Save,
	"FORMAT":   Format,
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "Unknown"
}

func (token Token) String() string {
	switch token.Type {
	case Identifier, String, Int, Float, Unknown:
		return token.Type.String() + "(" + token.Value + ")"
	default:
		return token.Type.String()
	}
}

type Lexer struct {
	sql          string
	position     int
	readPosition int
	ch           byte
}

func NewLexer(sql string) *Lexer {
	lexer := &Lexer{sql: sql}
	lexer.readChar()
	return lexer
}

func (lexer *Lexer) readChar() {
	if lexer.readPosition >= len(lexer.sql) {
		lexer.ch = 0
	} else {
		lexer.ch = lexer.sql[lexer.readPosition]
	}
	lexer.position = lexer.readPosition
	lexer.readPosition++
}

func (lexer *Lexer) peekChar() byte {
	if lexer.readPosition >= len(lexer.sql) {
		return 0
	}
	return lexer.sql[lexer.readPosition]
}

func (lexer *Lexer) NextToken() Token {
	var token Token

	lexer.skipWhitespace()

	switch lexer.ch {
	case ',':
		token = Token{Type: Comma, Value: ","}
	case ';':
		token = Token{Type: Semicolon, Value: ";"}
	case '(':
		token = Token{Type: ParenOpen, Value: "("}
	case ')':
		token = Token{Type: ParenClose, Value: ")"}
	case 0:
		return Token{Type: EOF, Value: ""}
	case '\'':
		value, ok := lexer.readQuoted('\'')
		if !ok {
			return Token{Type: Unknown, Value: "'" + value}
		}
		return Token{Type: String, Value: value}
	case '"', '`':
		quote := lexer.ch
		value, ok := lexer.readQuoted(quote)
		if !ok {
			return Token{Type: Unknown, Value: string(quote) + value}
		}
		return Token{Type: Identifier, Value: value}
	case '*':
		token = Token{Type: Wildcard, Value: "*"}
	default:
		if isOperator(lexer.ch) {
			operator := lexer.readOperator()
			switch operator {
			case "=":
				return Token{Type: Equals, Value: operator}
			case "!=", "<>":
				return Token{Type: NotEquals, Value: operator}
			case "<":
				return Token{Type: LessThan, Value: operator}
			case ">":
				return Token{Type: GreaterThan, Value: operator}
			case "<=":
				return Token{Type: LessThanOrEqual, Value: operator}
			case ">=":
				return Token{Type: GreaterThanOrEqual, Value: operator}
			default:
				return Token{Type: Unknown, Value: operator}
			}
		} else if isDigit(lexer.ch) || (lexer.ch == '-' && isDigit(lexer.peekChar())) {
			return lexer.readNumber()
		} else if isIdentifierStart(lexer.ch) {
			literal := lexer.readIdentifier()
			if tokenType, ok := keywords[strings.ToUpper(literal)]; ok {
				return Token{Type: tokenType, Value: literal}
			}
			return Token{Type: Identifier, Value: literal}
		} else {
			token = Token{Type: Unknown, Value: string(lexer.ch)}
		}
	}

	lexer.readChar()
	return token
}

func (lexer *Lexer) PeekToken() Token {
	savedPosition := lexer.position
	savedReadPosition := lexer.readPosition
	savedCh := lexer.ch

	token := lexer.NextToken()

	lexer.position = savedPosition
	lexer.readPosition = savedReadPosition
	lexer.ch = savedCh

	return token
}

func (lexer *Lexer) skipWhitespace() {
	for {
		switch {
		case lexer.ch == ' ' || lexer.ch == '\t' || lexer.ch == '\n' || lexer.ch == '\r':
			lexer.readChar()
		case lexer.ch == '-' && lexer.peekChar() == '-':
			// line comment
			for lexer.ch != '\n' && lexer.ch != 0 {
				lexer.readChar()
			}
		default:
			return
		}
	}
}

func (lexer *Lexer) readIdentifier() string {
	position := lexer.position
	for isIdentifierPart(lexer.ch) {
		lexer.readChar()
	}
	return lexer.sql[position:lexer.position]
}

// readQuoted reads up to the closing quote, treating a doubled quote as a
// literal one. It reports false when the input ends first.
func (lexer *Lexer) readQuoted(quote byte) (string, bool) {
	var sb strings.Builder
	lexer.readChar() // skip opening quote
	for {
		switch lexer.ch {
		case 0:
			return sb.String(), false
		case quote:
			if lexer.peekChar() != quote {
				lexer.readChar() // skip closing quote
				return sb.String(), true
			}
			lexer.readChar()
		}
		sb.WriteByte(lexer.ch)
		lexer.readChar()
	}
}

func (lexer *Lexer) readNumber() Token {
	position := lexer.position
	if lexer.ch == '-' {
		lexer.readChar()
	}
	lexer.readDigits()
	if lexer.ch != '.' || !isDigit(lexer.peekChar()) {
		return Token{Type: Int, Value: lexer.sql[position:lexer.position]}
	}
	lexer.readChar() // consume '.'
	lexer.readDigits()
	return Token{Type: Float, Value: lexer.sql[position:lexer.position]}
}

func (lexer *Lexer) readDigits() {
	for isDigit(lexer.ch) {
		lexer.readChar()
	}
}

func (lexer *Lexer) readOperator() string {
	position := lexer.position
	for isOperator(lexer.ch) {
		lexer.readChar()
	}
	return lexer.sql[position:lexer.position]
}

func isIdentifierStart(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

// isIdentifierPart allows dots and brackets so flattened columns such as
// address.city and tags[0] lex as one identifier.
func isIdentifierPart(ch byte) bool {
	return isIdentifierStart(ch) || isDigit(ch) || ch == '.' || ch == '[' || ch == ']'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isOperator(ch byte) bool {
	return ch == '=' || ch == '!' || ch == '<' || ch == '>'
}

func tokenize(sql string) []Token {
	lexer := NewLexer(sql)

	var tokens []Token

	for {
		token := lexer.NextToken()
		tokens = append(tokens, token)
		if token.Type == EOF {
			return tokens
		}
	}
}
