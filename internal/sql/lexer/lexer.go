// Package lexer turns SQL text into a flat token stream. Keywords are
// case-insensitive; identifiers and string literals keep their case.
package lexer

import (
	"fmt"
	"strings"
)

type TokenType int

const (
	// Special
	ILLEGAL TokenType = iota
	EOF

	// Literals
	IDENTIFIER // table_name, column_name
	STRING     // 'value'
	NUMBER     // 123

	// Keywords
	SELECT
	FROM
	WHERE
	INSERT
	INTO
	VALUES
	UPDATE
	SET
	DELETE
	CREATE
	TABLE
	DROP
	PRIMARY
	KEY
	UNIQUE
	NULL
	INT
	TEXT
	AND
	OR

	// Operators & Punctuation
	ASTERISK    // *
	COMMA       // ,
	PAREN_OPEN  // (
	PAREN_CLOSE // )
	EQUALS      // =
	SEMICOLON   // ;
	MINUS       // -
)

var keywords = map[string]TokenType{
	"SELECT":  SELECT,
	"FROM":    FROM,
	"WHERE":   WHERE,
	"INSERT":  INSERT,
	"INTO":    INTO,
	"VALUES":  VALUES,
	"UPDATE":  UPDATE,
	"SET":     SET,
	"DELETE":  DELETE,
	"CREATE":  CREATE,
	"TABLE":   TABLE,
	"DROP":    DROP,
	"PRIMARY": PRIMARY,
	"KEY":     KEY,
	"UNIQUE":  UNIQUE,
	"NULL":    NULL,
	"INT":     INT,
	"TEXT":    TEXT,
	"AND":     AND,
	"OR":      OR,
}

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%d, %q)", t.Type, t.Literal)
}

// IllegalTokenError reports input the lexer cannot form a token from,
// such as a stray character or an unterminated string literal.
type IllegalTokenError struct {
	Line    int
	Column  int
	Literal string
}

func (e *IllegalTokenError) Error() string {
	return fmt.Sprintf("illegal token at line %d, col %d: %s", e.Line, e.Column, e.Literal)
}

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int
	column       int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition += 1
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) NextToken() Token {
	var tok Token

	l.skipWhitespace()

	tok.Line = l.line
	tok.Column = l.column

	switch l.ch {
	case '*':
		tok = newToken(ASTERISK, l.ch, l.line, l.column)
	case ',':
		tok = newToken(COMMA, l.ch, l.line, l.column)
	case '(':
		tok = newToken(PAREN_OPEN, l.ch, l.line, l.column)
	case ')':
		tok = newToken(PAREN_CLOSE, l.ch, l.line, l.column)
	case '=':
		tok = newToken(EQUALS, l.ch, l.line, l.column)
	case ';':
		tok = newToken(SEMICOLON, l.ch, l.line, l.column)
	case '-':
		tok = newToken(MINUS, l.ch, l.line, l.column)
	case '\'':
		lit, terminated := l.readString()
		if !terminated {
			tok.Type = ILLEGAL
			tok.Literal = "'" + lit
			return tok
		}
		tok.Type = STRING
		tok.Literal = lit
		return tok
	case 0:
		tok.Literal = ""
		tok.Type = EOF
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			return tok
		} else if isDigit(l.ch) {
			tok.Type = NUMBER
			tok.Literal = l.readNumber()
			return tok
		} else {
			tok = newToken(ILLEGAL, l.ch, l.line, l.column)
		}
	}

	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	// Lex floats as one NUMBER token; the parser rejects them with a
	// clearer message than a stray '.' would produce here.
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[position:l.position]
}

// readString reads a single-quoted literal. The second return value is
// false when the input ends before the closing quote.
func (l *Lexer) readString() (string, bool) {
	position := l.position + 1
	for {
		l.readChar()
		if l.ch == '\'' {
			break
		}
		if l.ch == 0 {
			return l.input[position:l.position], false
		}
	}
	lit := l.input[position:l.position]
	l.readChar() // consume the closing quote
	return lit, true
}

func newToken(tokenType TokenType, ch byte, line, col int) Token {
	return Token{Type: tokenType, Literal: string(ch), Line: line, Column: col}
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[strings.ToUpper(ident)]; ok {
		return tok
	}
	return IDENTIFIER
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// Tokenize runs the lexer over the whole input and returns every token
// up to and including the final EOF.
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == ILLEGAL {
			return nil, &IllegalTokenError{Line: tok.Line, Column: tok.Column, Literal: tok.Literal}
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
