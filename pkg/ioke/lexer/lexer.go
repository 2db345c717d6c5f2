// Package lexer tokenizes Ioke message syntax.
//
// Text literals are returned as a single TEXT token holding the raw span
// between the quotes; escapes and interpolations are left for the
// interpolation parser. The balanced scanners in scan.go keep braces inside
// nested literals from closing an outer interpolation early.
package lexer

import (
	"unicode"

	"github.com/sambeau/ioke/pkg/ioke/errors"
)

// Lexer represents the lexical analyzer
type Lexer struct {
	input        []rune
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination, 0 at EOF
	line         int
	column       int
	maxDepth     int // interpolation nesting limit, 0 for none
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewAt(input, Position{Line: 1, Column: 1})
}

// NewAt creates a lexer whose first rune sits at pos. It is used for code
// embedded in text literals so positions stay relative to the whole source.
func NewAt(input string, pos Position) *Lexer {
	l := &Lexer{
		input:  []rune(input),
		line:   pos.Line,
		column: pos.Column - 1,
	}
	l.readChar()
	return l
}

// SetMaxDepth limits how deeply interpolations may nest inside a literal.
// 0 means unlimited.
func (l *Lexer) SetMaxDepth(n int) {
	l.maxDepth = n
}

// readChar reads the next character and advances position.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}
	l.ch = l.input[l.readPosition]
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// peekCharN returns the character n positions ahead without advancing position
func (l *Lexer) peekCharN(n int) rune {
	pos := l.readPosition + n - 1
	if pos >= len(l.input) {
		return 0
	}
	return l.input[pos]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// NextToken scans the input and returns the next token
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	line, col := l.line, l.column
	tok := Token{Line: line, Column: col}

	if l.atEOF() {
		tok.Type = EOF
		return tok
	}

	switch l.ch {
	case '\n':
		tok.Type, tok.Literal = TERMINATOR, "\n"
	case '.':
		switch {
		case l.peekChar() == '.' && l.peekCharN(2) == '.':
			l.readChar()
			l.readChar()
			tok.Type, tok.Literal = XRANGE, "..."
		case l.peekChar() == '.':
			l.readChar()
			tok.Type, tok.Literal = RANGE, ".."
		default:
			tok.Type, tok.Literal = TERMINATOR, "."
		}
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = EQ, "=="
		} else {
			tok.Type, tok.Literal = ASSIGN, "="
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = NOT_EQ, "!="
		} else {
			tok.Type, tok.Literal = BANG, "!"
		}
	case '<':
		switch {
		case l.peekChar() == '=' && l.peekCharN(2) == '>':
			l.readChar()
			l.readChar()
			tok.Type, tok.Literal = SPACESHIP, "<=>"
		case l.peekChar() == '=':
			l.readChar()
			tok.Type, tok.Literal = LTE, "<="
		default:
			tok.Type, tok.Literal = LT, "<"
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = GTE, ">="
		} else {
			tok.Type, tok.Literal = GT, ">"
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok.Type, tok.Literal = AND, "&&"
		} else {
			tok.Type, tok.Literal = ILLEGAL, "&"
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok.Type, tok.Literal = OR, "||"
		} else {
			tok.Type, tok.Literal = ILLEGAL, "|"
		}
	case '+':
		tok.Type, tok.Literal = PLUS, "+"
	case '-':
		tok.Type, tok.Literal = MINUS, "-"
	case '*':
		tok.Type, tok.Literal = ASTERISK, "*"
	case '/':
		tok.Type, tok.Literal = SLASH, "/"
	case '%':
		tok.Type, tok.Literal = PERCENT, "%"
	case ',':
		tok.Type, tok.Literal = COMMA, ","
	case '(':
		tok.Type, tok.Literal = LPAREN, "("
	case ')':
		tok.Type, tok.Literal = RPAREN, ")"
	case '[':
		tok.Type, tok.Literal = LBRACKET, "["
	case ']':
		tok.Type, tok.Literal = RBRACKET, "]"
	case '"':
		return l.readText(tok)
	default:
		switch {
		case isIdentStart(l.ch):
			tok.Type, tok.Literal = IDENT, l.readIdentifier()
			return tok
		case isDigit(l.ch):
			tok.Type, tok.Literal = INT, l.readNumber()
			return tok
		default:
			tok.Type, tok.Literal = ILLEGAL, string(l.ch)
		}
	}

	if tok.Type == ILLEGAL && tok.Err == nil {
		tok.Err = errors.NewWithPosition(errors.CodeUnexpectedToken, line, col,
			map[string]any{"Token": "character '" + tok.Literal + "'"})
	}

	l.readChar()
	return tok
}

// readText reads a text literal, leaving the raw body in the token literal.
func (l *Lexer) readText(tok Token) Token {
	end, status := SkipText(l.input, l.position+1, 0, l.maxDepth)

	switch status {
	case ScanOK:
		tok.Type = TEXT
		tok.Literal = string(l.input[l.position+1 : end])
		for l.position < end {
			l.readChar()
		}
		l.readChar() // closing quote
		return tok
	case ScanUnterminatedInterpolation:
		tok.Err = errors.NewWithPosition(errors.CodeUnterminatedInterpolation, tok.Line, tok.Column, nil)
	case ScanTooDeep:
		tok.Err = errors.NewWithPosition(errors.CodeNestingTooDeep, tok.Line, tok.Column,
			map[string]any{"Max": l.maxDepth})
	default:
		tok.Err = errors.NewWithPosition(errors.CodeUnterminatedText, tok.Line, tok.Column, nil)
	}

	tok.Type = ILLEGAL
	tok.Literal = string(l.input[l.position:])
	for !l.atEOF() {
		l.readChar()
	}
	return tok
}

// readIdentifier reads an identifier. Ioke identifiers may contain ':' and
// end in '?' or '!'.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isIdentStart(l.ch) || isDigit(l.ch) || l.ch == ':' {
		l.readChar()
	}
	for l.ch == '?' || (l.ch == '!' && l.peekChar() != '=') {
		l.readChar()
	}
	return string(l.input[position:l.position])
}

// readNumber reads a decimal integer
func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return string(l.input[position:l.position])
}

// skipWhitespace skips blanks and ';' comments. Newlines are significant
// and are left in place.
func (l *Lexer) skipWhitespace() {
	for !l.atEOF() {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '\\' && l.peekChar() == '\n':
			l.readChar()
			l.readChar()
		case l.ch == ';':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
