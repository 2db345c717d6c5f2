package lexer

import "fmt"

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF
	TERMINATOR // . or newline

	// Identifiers and literals
	IDENT // foo, empty?, internal:concatenateText
	INT   // 1343456
	TEXT  // "foo #{bar}"

	// Operators
	ASSIGN    // =
	PLUS      // +
	MINUS     // -
	BANG      // !
	ASTERISK  // *
	SLASH     // /
	PERCENT   // %
	LT        // <
	GT        // >
	LTE       // <=
	GTE       // >=
	EQ        // ==
	NOT_EQ    // !=
	SPACESHIP // <=>
	AND       // &&
	OR        // ||
	RANGE     // ..
	XRANGE    // ...

	// Delimiters
	COMMA    // ,
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
)

var tokenNames = map[TokenType]string{
	ILLEGAL:    "ILLEGAL",
	EOF:        "EOF",
	TERMINATOR: "TERMINATOR",
	IDENT:      "IDENT",
	INT:        "INT",
	TEXT:       "TEXT",
	ASSIGN:     "=",
	PLUS:       "+",
	MINUS:      "-",
	BANG:       "!",
	ASTERISK:   "*",
	SLASH:      "/",
	PERCENT:    "%",
	LT:         "<",
	GT:         ">",
	LTE:        "<=",
	GTE:        ">=",
	EQ:         "==",
	NOT_EQ:     "!=",
	SPACESHIP:  "<=>",
	AND:        "&&",
	OR:         "||",
	RANGE:      "..",
	XRANGE:     "...",
	COMMA:      ",",
	LPAREN:     "(",
	RPAREN:     ")",
	LBRACKET:   "[",
	RBRACKET:   "]",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Position is a 1-based line and column in source.
type Position struct {
	Line   int
	Column int
}

// String renders the position as line:column.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Advance returns the position after reading the runes of s from p.
func (p Position) Advance(s []rune) Position {
	for _, r := range s {
		if r == '\n' {
			p.Line++
			p.Column = 1
		} else {
			p.Column++
		}
	}
	return p
}

// Token represents a single token
type Token struct {
	Type    TokenType
	Literal string // raw source; for TEXT the span between the quotes
	Line    int
	Column  int
	Err     error // set on ILLEGAL tokens
}

// Pos returns the token's starting position.
func (t Token) Pos() Position {
	return Position{Line: t.Line, Column: t.Column}
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %s, Line: %d, Column: %d}",
		t.Type.String(), t.Literal, t.Line, t.Column)
}
