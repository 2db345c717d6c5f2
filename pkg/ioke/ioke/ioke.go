// Package ioke provides a public API for embedding the Ioke text runtime.
//
//	in, err := ioke.New(nil)
//	v, err := in.Eval(`name = "world". "hello #{name}"`)
package ioke

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/expr-lang/expr"

	"github.com/sambeau/ioke/config"
	"github.com/sambeau/ioke/pkg/ioke/ast"
	"github.com/sambeau/ioke/pkg/ioke/errors"
	"github.com/sambeau/ioke/pkg/ioke/escape"
	"github.com/sambeau/ioke/pkg/ioke/eval"
	"github.com/sambeau/ioke/pkg/ioke/exprhost"
	"github.com/sambeau/ioke/pkg/ioke/format"
	"github.com/sambeau/ioke/pkg/ioke/lexer"
	"github.com/sambeau/ioke/pkg/ioke/parser"
	"github.com/sambeau/ioke/pkg/ioke/text"
)

// Interpreter parses and evaluates Ioke source against one top-level scope.
// It is not safe for concurrent use; the values it returns are.
type Interpreter struct {
	cfg      *config.Config
	log      *slog.Logger
	caps     format.Capabilities
	exprOpts []expr.Option
	engine   *format.Engine
	env      *eval.Env
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) { in.log = l }
}

// WithCapabilities replaces the stringify and enumerate conversions used by
// interpolation and format.
func WithCapabilities(c format.Capabilities) Option {
	return func(in *Interpreter) { in.caps = c }
}

// WithExprOptions passes compile options to the expr engine when
// parser.interpolation is "expr".
func WithExprOptions(opts ...expr.Option) Option {
	return func(in *Interpreter) { in.exprOpts = append(in.exprOpts, opts...) }
}

// New creates an interpreter. A nil cfg uses config.Defaults().
func New(cfg *config.Config, opts ...Option) (*Interpreter, error) {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	in := &Interpreter{cfg: cfg}
	for _, opt := range opts {
		opt(in)
	}
	if in.log == nil {
		in.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if in.caps == nil {
		in.caps = format.Native
	}

	in.engine = &format.Engine{Caps: in.caps, MaxOutput: cfg.Format.MaxOutput, Log: in.log}
	in.env = eval.NewEnv()
	in.env.Formatter = in.engine
	in.env.Caps = in.caps
	in.env.Log = in.log
	return in, nil
}

// Config returns the configuration the interpreter was built with.
func (in *Interpreter) Config() *config.Config {
	return in.cfg
}

// Logger returns the interpreter's logger.
func (in *Interpreter) Logger() *slog.Logger {
	return in.log
}

func (in *Interpreter) parserOptions() parser.Options {
	opts := parser.Options{
		MaxDepth: in.cfg.Parser.MaxInterpolationDepth,
		Log:      in.log,
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = -1
	}
	if in.cfg.Parser.Interpolation == config.InterpolationExpr {
		host := exprhost.New(in.exprOpts...)
		host.Log = in.log
		opts.Embedded = host.ParseExpression
	}
	return opts
}

// Parse parses src into a program without evaluating it.
func (in *Interpreter) Parse(src string) (*ast.Program, error) {
	p := parser.NewWithOptions(lexer.New(src), in.parserOptions())
	program := p.ParseProgram()
	if err := p.Err(); err != nil {
		return nil, err
	}
	return program, nil
}

// Eval parses and evaluates src, returning the value of its last
// expression. Assignments persist between calls.
func (in *Interpreter) Eval(src string) (any, error) {
	program, err := in.Parse(src)
	if err != nil {
		return nil, err
	}
	return eval.EvalProgram(program, in.env)
}

// EvalFile evaluates the source in path. Parse and evaluation errors carry
// the path.
func (in *Interpreter) EvalFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	v, err := in.Eval(string(data))
	if err != nil {
		var ie *errors.IokeError
		if stderrors.As(err, &ie) {
			return nil, ie.WithFile(path)
		}
		return nil, err
	}
	return v, nil
}

// Set binds name in the top-level scope. Go strings are stored as texts.
func (in *Interpreter) Set(name string, v any) {
	switch s := v.(type) {
	case string:
		v = text.New(s)
	case int:
		v = int64(s)
	}
	in.env.Set(name, v)
}

// Get returns the value bound to name.
func (in *Interpreter) Get(name string) (any, bool) {
	return in.env.Get(name)
}

// Format renders tmpl against args with the interpreter's format engine.
func (in *Interpreter) Format(tmpl string, args ...any) (text.Text, error) {
	return in.engine.Format(text.New(tmpl), args)
}

// Decode decodes the escapes in the body of a text literal.
func (in *Interpreter) Decode(raw string) (text.Text, error) {
	return escape.Decode(raw)
}
