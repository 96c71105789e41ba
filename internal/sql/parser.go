// Package sql parses the SQL dialect into engine commands.
//
// The grammar covers six statements: CREATE TABLE, DROP TABLE, INSERT,
// SELECT, UPDATE and DELETE. WHERE clauses are a single equality test,
// values are integer, string or NULL literals, and the trailing
// semicolon is optional. Anything after a complete statement is an
// error rather than silently ignored.
package sql

import (
	"fmt"
	"strconv"

	"github.com/kihiko-jay/mini-rdbms/internal/command"
	"github.com/kihiko-jay/mini-rdbms/internal/domain/data"
	"github.com/kihiko-jay/mini-rdbms/internal/domain/schema"
	"github.com/kihiko-jay/mini-rdbms/internal/sql/lexer"
	"github.com/kihiko-jay/mini-rdbms/internal/value"
)

// ParseError reports where in the input a statement stopped making
// sense, with a 1-based line and column.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, col %d: %s", e.Line, e.Column, e.Msg)
}

// Parse lexes and parses a single SQL statement.
func Parse(input string) (command.Command, error) {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		if ierr, ok := err.(*lexer.IllegalTokenError); ok {
			return nil, &ParseError{Line: ierr.Line, Column: ierr.Column, Msg: fmt.Sprintf("illegal token %s", ierr.Literal)}
		}
		return nil, err
	}

	p := newParser(tokens)
	return p.parseStatement()
}

type parser struct {
	tokens  []lexer.Token
	curPos  int
	curTok  lexer.Token
	peekTok lexer.Token
}

func newParser(tokens []lexer.Token) *parser {
	p := &parser{tokens: tokens}
	// Read two tokens to set curTok and peekTok
	p.nextToken()
	p.nextToken()
	return p
}

func (p *parser) nextToken() {
	p.curTok = p.peekTok
	if p.curPos < len(p.tokens) {
		p.peekTok = p.tokens[p.curPos]
		p.curPos++
	} else {
		p.peekTok = lexer.Token{Type: lexer.EOF}
	}
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{Line: p.curTok.Line, Column: p.curTok.Column, Msg: fmt.Sprintf(format, args...)}
}

// got renders the current token for error messages.
func (p *parser) got() string {
	if p.curTok.Type == lexer.EOF {
		return "end of input"
	}
	return p.curTok.Literal
}

func (p *parser) parseStatement() (command.Command, error) {
	var cmd command.Command
	var err error

	switch p.curTok.Type {
	case lexer.SELECT:
		cmd, err = p.parseSelect()
	case lexer.INSERT:
		cmd, err = p.parseInsert()
	case lexer.UPDATE:
		cmd, err = p.parseUpdate()
	case lexer.DELETE:
		cmd, err = p.parseDelete()
	case lexer.CREATE:
		cmd, err = p.parseCreateTable()
	case lexer.DROP:
		cmd, err = p.parseDropTable()
	default:
		return nil, p.errorf("unexpected token %s, expected SELECT, INSERT, UPDATE, DELETE, CREATE or DROP", p.got())
	}
	if err != nil {
		return nil, err
	}

	// Optional semicolon, then the statement must be over.
	if p.curTok.Type == lexer.SEMICOLON {
		p.nextToken()
	}
	if p.curTok.Type != lexer.EOF {
		return nil, p.errorf("unexpected trailing input: %s", p.got())
	}

	return cmd, nil
}

func (p *parser) parseSelect() (command.Command, error) {
	stmt := &command.Select{}

	// SELECT
	p.nextToken()

	// Projection: * selects every column, otherwise a column list
	if p.curTok.Type == lexer.ASTERISK {
		p.nextToken()
	} else {
		columns, err := p.parseColumnList()
		if err != nil {
			return nil, err
		}
		stmt.Columns = columns
	}

	// FROM
	if p.curTok.Type != lexer.FROM {
		return nil, p.errorf("expected FROM, got %s", p.got())
	}
	p.nextToken()

	// Table name
	name, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	stmt.Table = name

	// WHERE (optional)
	pred, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	stmt.Predicate = pred

	return stmt, nil
}

func (p *parser) parseInsert() (command.Command, error) {
	stmt := &command.Insert{}

	// INSERT
	p.nextToken()

	// INTO
	if p.curTok.Type != lexer.INTO {
		return nil, p.errorf("expected INTO, got %s", p.got())
	}
	p.nextToken()

	// Table name
	name, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	stmt.Table = name

	// VALUES
	if p.curTok.Type != lexer.VALUES {
		return nil, p.errorf("expected VALUES, got %s", p.got())
	}
	p.nextToken()

	// ( value, ... ) in schema order; there is no column-list form
	if p.curTok.Type != lexer.PAREN_OPEN {
		return nil, p.errorf("expected (, got %s", p.got())
	}
	p.nextToken()

	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		stmt.Values = append(stmt.Values, v)

		if p.curTok.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}

	if p.curTok.Type != lexer.PAREN_CLOSE {
		return nil, p.errorf("expected ), got %s", p.got())
	}
	p.nextToken()

	return stmt, nil
}

func (p *parser) parseUpdate() (command.Command, error) {
	stmt := &command.Update{}

	// UPDATE
	p.nextToken()

	// Table name
	name, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	stmt.Table = name

	// SET
	if p.curTok.Type != lexer.SET {
		return nil, p.errorf("expected SET, got %s", p.got())
	}
	p.nextToken()

	// column = value, ...
	for {
		if p.curTok.Type != lexer.IDENTIFIER {
			return nil, p.errorf("expected column name, got %s", p.got())
		}
		column := p.curTok.Literal
		p.nextToken()

		if p.curTok.Type != lexer.EQUALS {
			return nil, p.errorf("expected =, got %s", p.got())
		}
		p.nextToken()

		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		stmt.Assignments = append(stmt.Assignments, data.Assignment{Column: column, Value: v})

		if p.curTok.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}

	// WHERE (optional)
	pred, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	stmt.Predicate = pred

	return stmt, nil
}

func (p *parser) parseDelete() (command.Command, error) {
	stmt := &command.Delete{}

	// DELETE
	p.nextToken()

	// FROM
	if p.curTok.Type != lexer.FROM {
		return nil, p.errorf("expected FROM, got %s", p.got())
	}
	p.nextToken()

	// Table name
	name, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	stmt.Table = name

	// WHERE (optional)
	pred, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	stmt.Predicate = pred

	return stmt, nil
}

func (p *parser) parseCreateTable() (command.Command, error) {
	stmt := &command.CreateTable{}

	// CREATE
	p.nextToken()

	// TABLE
	if p.curTok.Type != lexer.TABLE {
		return nil, p.errorf("expected TABLE, got %s", p.got())
	}
	p.nextToken()

	// Table name
	name, err := p.parseTableName()
	if err != nil {
		return nil, err
	}
	stmt.Name = name

	// ( column definitions )
	if p.curTok.Type != lexer.PAREN_OPEN {
		return nil, p.errorf("expected (, got %s", p.got())
	}
	p.nextToken()

	for {
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, col)

		if p.curTok.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}

	if p.curTok.Type != lexer.PAREN_CLOSE {
		return nil, p.errorf("expected ), got %s", p.got())
	}
	p.nextToken()

	return stmt, nil
}

func (p *parser) parseDropTable() (command.Command, error) {
	// DROP
	p.nextToken()

	// TABLE
	if p.curTok.Type != lexer.TABLE {
		return nil, p.errorf("expected TABLE, got %s", p.got())
	}
	p.nextToken()

	// Table name
	name, err := p.parseTableName()
	if err != nil {
		return nil, err
	}

	return &command.DropTable{Name: name}, nil
}

// parseColumnDef parses one "name TYPE [PRIMARY KEY|UNIQUE]" entry.
func (p *parser) parseColumnDef() (schema.Column, error) {
	if p.curTok.Type != lexer.IDENTIFIER {
		return schema.Column{}, p.errorf("expected column name, got %s", p.got())
	}
	col := schema.Column{Name: p.curTok.Literal}
	p.nextToken()

	switch p.curTok.Type {
	case lexer.INT:
		col.Type = schema.TypeInt
	case lexer.TEXT:
		col.Type = schema.TypeText
	default:
		return schema.Column{}, p.errorf("expected column type INT or TEXT, got %s", p.got())
	}
	p.nextToken()

	switch p.curTok.Type {
	case lexer.PRIMARY:
		p.nextToken()
		if p.curTok.Type != lexer.KEY {
			return schema.Column{}, p.errorf("expected KEY after PRIMARY, got %s", p.got())
		}
		p.nextToken()
		col.Constraint = schema.ConstraintPrimaryKey
	case lexer.UNIQUE:
		p.nextToken()
		col.Constraint = schema.ConstraintUnique
	}

	return col, nil
}

func (p *parser) parseTableName() (string, error) {
	if p.curTok.Type != lexer.IDENTIFIER {
		return "", p.errorf("expected table name, got %s", p.got())
	}
	name := p.curTok.Literal
	p.nextToken()
	return name, nil
}

func (p *parser) parseColumnList() ([]string, error) {
	var columns []string

	if p.curTok.Type != lexer.IDENTIFIER {
		return nil, p.errorf("expected column name, got %s", p.got())
	}
	columns = append(columns, p.curTok.Literal)
	p.nextToken()

	for p.curTok.Type == lexer.COMMA {
		p.nextToken()
		if p.curTok.Type != lexer.IDENTIFIER {
			return nil, p.errorf("expected column name after comma, got %s", p.got())
		}
		columns = append(columns, p.curTok.Literal)
		p.nextToken()
	}

	return columns, nil
}

// parseWhere parses an optional WHERE clause. Absent WHERE matches
// every row. Only a single "column = value" test is supported.
func (p *parser) parseWhere() (data.Predicate, error) {
	if p.curTok.Type != lexer.WHERE {
		return data.MatchAll(), nil
	}
	p.nextToken()

	if p.curTok.Type != lexer.IDENTIFIER {
		return data.Predicate{}, p.errorf("expected column name, got %s", p.got())
	}
	column := p.curTok.Literal
	p.nextToken()

	if p.curTok.Type != lexer.EQUALS {
		return data.Predicate{}, p.errorf("expected =, got %s", p.got())
	}
	p.nextToken()

	v, err := p.parseValue()
	if err != nil {
		return data.Predicate{}, err
	}

	if p.curTok.Type == lexer.AND || p.curTok.Type == lexer.OR {
		return data.Predicate{}, p.errorf("only a single equality condition is supported")
	}

	return data.Equals(column, v), nil
}

// parseValue parses an integer, string or NULL literal. Floats lex as
// one NUMBER token and are rejected here: there is no float type.
func (p *parser) parseValue() (value.Value, error) {
	switch p.curTok.Type {
	case lexer.NUMBER:
		lit := p.curTok.Literal
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return value.Value{}, p.errorf("invalid integer literal: %s", lit)
		}
		p.nextToken()
		return value.Int(n), nil
	case lexer.MINUS:
		p.nextToken()
		if p.curTok.Type != lexer.NUMBER {
			return value.Value{}, p.errorf("expected a number after -, got %s", p.got())
		}
		lit := "-" + p.curTok.Literal
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return value.Value{}, p.errorf("invalid integer literal: %s", lit)
		}
		p.nextToken()
		return value.Int(n), nil
	case lexer.STRING:
		s := p.curTok.Literal
		p.nextToken()
		return value.Text(s), nil
	case lexer.NULL:
		p.nextToken()
		return value.Null(), nil
	default:
		return value.Value{}, p.errorf("expected a value, got %s", p.got())
	}
}
