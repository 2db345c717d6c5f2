// Package interp parses text literal bodies into literal segments and
// embedded expressions.
//
// A body without "#{" becomes a single TextLiteral. Otherwise the result is
// an ast.ConcatenateText holding n+1 decoded segments around n embedded
// expressions, in source order. Embedded code is handed to an ExprParser,
// which is how the surrounding parser and this package recurse into each
// other for literals nested inside interpolations.
package interp

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/sambeau/ioke/pkg/ioke/ast"
	"github.com/sambeau/ioke/pkg/ioke/errors"
	"github.com/sambeau/ioke/pkg/ioke/escape"
	"github.com/sambeau/ioke/pkg/ioke/lexer"
	"github.com/sambeau/ioke/pkg/ioke/text"
)

// ExprParser parses the source of one embedded expression. at is the
// position of the first rune of src in the enclosing source.
type ExprParser func(src string, at lexer.Position) (ast.Expression, error)

// Parser turns literal bodies into expressions.
type Parser struct {
	// Expr parses embedded code. Required when the body interpolates.
	Expr ExprParser
	// MaxDepth bounds interpolation nesting; 0 means unlimited.
	MaxDepth int
	// Log receives debug events; nil disables logging.
	Log *slog.Logger
}

// Parse parses raw with a parser using expr and no depth limit.
func Parse(raw string, at lexer.Position, expr ExprParser) (ast.Expression, error) {
	p := &Parser{Expr: expr}
	return p.Parse(raw, at)
}

// ParseToken parses the body of a TEXT token.
func (p *Parser) ParseToken(tok lexer.Token) (ast.Expression, error) {
	return p.parse(tok, tok.Literal, tok.Pos())
}

// Parse parses raw, the body of a literal whose opening quote is at at.
func (p *Parser) Parse(raw string, at lexer.Position) (ast.Expression, error) {
	tok := lexer.Token{Type: lexer.TEXT, Literal: raw, Line: at.Line, Column: at.Column}
	return p.parse(tok, raw, at)
}

func (p *Parser) parse(tok lexer.Token, raw string, at lexer.Position) (ast.Expression, error) {
	src := []rune(raw)
	body := lexer.Position{Line: at.Line, Column: at.Column + 1}

	var parts []ast.Expression
	segStart := 0
	i := 0
	for i < len(src) {
		switch {
		case src[i] == '\\':
			i += 2
			continue
		case src[i] == '#' && i+1 < len(src) && src[i+1] == '{':
		default:
			i++
			continue
		}

		seg, err := p.segment(tok, src, segStart, i, body)
		if err != nil {
			return nil, err
		}

		end, status := lexer.SkipInterpolation(src, i+2, 1, p.MaxDepth)
		switch status {
		case lexer.ScanOK:
		case lexer.ScanTooDeep:
			return nil, errors.NewWithPosition(errors.CodeNestingTooDeep, at.Line, at.Column,
				map[string]any{"Max": p.MaxDepth})
		default:
			return nil, errors.NewWithPosition(errors.CodeUnterminatedInterpolation, at.Line, at.Column, nil)
		}

		code := src[i+2 : end]
		codeAt := body.Advance(src[:i+2])
		embedded, err := p.embedded(tok, string(code), codeAt)
		if err != nil {
			return nil, err
		}

		parts = append(parts, seg, embedded)
		i = end + 1
		segStart = i
	}

	last, err := p.segment(tok, src, segStart, len(src), body)
	if err != nil {
		return nil, err
	}

	if len(parts) == 0 {
		return last, nil
	}
	parts = append(parts, last)

	if p.Log != nil {
		p.Log.LogAttrs(context.Background(), slog.LevelDebug, "interpolated literal parsed",
			slog.String("at", at.String()),
			slog.Int("segments", len(parts)/2+1),
			slog.Int("interpolations", len(parts)/2))
	}
	return &ast.ConcatenateText{Token: tok, Parts: parts}, nil
}

// segment decodes src[from:to] into a literal node.
func (p *Parser) segment(tok lexer.Token, src []rune, from, to int, body lexer.Position) (*ast.TextLiteral, error) {
	pos := body.Advance(src[:from])
	value, err := escape.DecodeAt(string(src[from:to]), pos.Line, pos.Column)
	if err != nil {
		return nil, err
	}
	return &ast.TextLiteral{Token: tok, Value: value}, nil
}

// embedded parses the code of one interpolation. Blank code contributes an
// empty literal.
func (p *Parser) embedded(tok lexer.Token, code string, at lexer.Position) (ast.Expression, error) {
	if strings.TrimFunc(code, unicode.IsSpace) == "" {
		return &ast.TextLiteral{Token: tok, Value: text.Empty}, nil
	}
	if p.Expr == nil {
		return nil, errors.NewWithPosition(errors.CodeUnexpectedToken, at.Line, at.Column,
			map[string]any{"Token": "interpolation (no expression parser configured)"})
	}
	return p.Expr(code, at)
}
