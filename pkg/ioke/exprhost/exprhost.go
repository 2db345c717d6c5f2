// Package exprhost parses interpolated code with the expr-lang engine.
//
// A Host plugs into parser.Options.Embedded or interp.Parser.Expr in place
// of the Ioke expression parser, so "#{a + b}" is compiled and run by expr
// rather than sent as Ioke messages. Text literals inside the embedded code
// are expr string literals.
package exprhost

import (
	"context"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/sambeau/ioke/pkg/ioke/ast"
	"github.com/sambeau/ioke/pkg/ioke/errors"
	"github.com/sambeau/ioke/pkg/ioke/interp"
	"github.com/sambeau/ioke/pkg/ioke/lexer"
)

// Host compiles embedded expressions.
type Host struct {
	// Options are passed to expr.Compile for every expression.
	Options []expr.Option
	// Log receives debug events.
	Log *slog.Logger
}

// New returns a host that compiles with opts.
func New(opts ...expr.Option) *Host {
	return &Host{Options: opts}
}

// ParseExpression compiles src, found at position at, into an
// ast.HostExpression. It satisfies interp.ExprParser.
func (h *Host) ParseExpression(src string, at lexer.Position) (ast.Expression, error) {
	code := strings.TrimSpace(src)
	program, err := expr.Compile(code, h.Options...)
	if err != nil {
		return nil, errors.Wrap(errors.CodeHostCompile, err, map[string]any{"Source": code}).
			WithPosition(at.Line, at.Column)
	}

	if h.Log != nil {
		h.Log.LogAttrs(context.Background(), slog.LevelDebug, "embedded expression compiled",
			slog.String("at", at.String()),
			slog.String("source", code))
	}

	return &ast.HostExpression{
		Token:  lexer.Token{Type: lexer.IDENT, Literal: code, Line: at.Line, Column: at.Column},
		Source: code,
		Run:    runner(program),
	}, nil
}

func runner(program *vm.Program) func(map[string]any) (any, error) {
	return func(vars map[string]any) (any, error) {
		return expr.Run(program, vars)
	}
}

// Parse parses a literal body whose interpolations are expr expressions.
func (h *Host) Parse(raw string, at lexer.Position) (ast.Expression, error) {
	p := &interp.Parser{Expr: h.ParseExpression, Log: h.Log}
	return p.Parse(raw, at)
}
