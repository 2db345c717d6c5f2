package interp

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambeau/ioke/pkg/ioke/ast"
	"github.com/sambeau/ioke/pkg/ioke/errors"
	"github.com/sambeau/ioke/pkg/ioke/lexer"
)

// stubParser turns integer code into literals and anything else into a
// bare message, recording where each piece was found.
type stubParser struct {
	seen []string
	at   []lexer.Position
}

func (s *stubParser) parse(src string, at lexer.Position) (ast.Expression, error) {
	s.seen = append(s.seen, src)
	s.at = append(s.at, at)
	src = strings.TrimSpace(src)
	if n, err := strconv.ParseInt(src, 10, 64); err == nil {
		return &ast.IntegerLiteral{Value: n}, nil
	}
	return &ast.Message{Name: src}, nil
}

var start = lexer.Position{Line: 1, Column: 1}

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`foo bar`, `"foo bar"`},
		{``, `""`},
		{`foo #{1} bar`, `internal:concatenateText("foo ", 1, " bar")`},
		{`#{1} bar`, `internal:concatenateText("", 1, " bar")`},
		{`foo #{1}`, `internal:concatenateText("foo ", 1, "")`},
		{`foo #{1} bar #{2} quux #{3}`, `internal:concatenateText("foo ", 1, " bar ", 2, " quux ", 3, "")`},
		{`#{1}#{2}`, `internal:concatenateText("", 1, "", 2, "")`},
		{`a\n#{x}\t`, `internal:concatenateText("a\n", x, "\t")`},
		{`not \#{this}`, `"not \#{this}"`},
		{`#{}`, `internal:concatenateText("", "", "")`},
		{`#{  }x`, `internal:concatenateText("", "", "x")`},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			stub := &stubParser{}
			got, err := Parse(tt.raw, start, stub.parse)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseNestedLiteralKeepsBalance(t *testing.T) {
	stub := &stubParser{}
	got, err := Parse(`foo #{"fux #{32} bar" bletch} bar`, start, stub.parse)
	require.NoError(t, err)

	require.Len(t, stub.seen, 1)
	assert.Equal(t, `"fux #{32} bar" bletch`, stub.seen[0])

	ct, ok := got.(*ast.ConcatenateText)
	require.True(t, ok)
	require.Len(t, ct.Parts, 3)
	assert.Equal(t, " bar", ct.Segments()[1].Value.String())
}

func TestParseBracesInsideNestedLiteral(t *testing.T) {
	stub := &stubParser{}
	_, err := Parse(`a #{x("}")} b`, start, stub.parse)
	require.NoError(t, err)
	assert.Equal(t, []string{`x("}")`}, stub.seen)
}

func TestParseEmbeddedPositions(t *testing.T) {
	stub := &stubParser{}
	_, err := Parse("ab\ncd #{x} #{y}", lexer.Position{Line: 4, Column: 10}, stub.parse)
	require.NoError(t, err)
	assert.Equal(t, []lexer.Position{{Line: 5, Column: 6}, {Line: 5, Column: 11}}, stub.at)
}

func TestParseUnterminated(t *testing.T) {
	for _, raw := range []string{`foo #{1`, `#{ {x} `, `a #{"b}" c`} {
		t.Run(raw, func(t *testing.T) {
			stub := &stubParser{}
			_, err := Parse(raw, lexer.Position{Line: 2, Column: 7}, stub.parse)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrUnterminatedInterpolation))

			var ie *errors.IokeError
			require.True(t, stderrors.As(err, &ie))
			assert.Equal(t, 2, ie.Line)
			assert.Equal(t, 7, ie.Column, "reported at the literal start")
			assert.Empty(t, stub.seen)
		})
	}
}

func TestParseUnknownEscape(t *testing.T) {
	_, err := Parse(`ok #{1} \q`, start, (&stubParser{}).parse)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrUnknownEscape))

	var ie *errors.IokeError
	require.True(t, stderrors.As(err, &ie))
	assert.Equal(t, 10, ie.Column)
}

func TestParseDepthLimit(t *testing.T) {
	p := &Parser{Expr: (&stubParser{}).parse, MaxDepth: 1}
	_, err := p.Parse(`a #{"b #{c}"}`, start)
	assert.True(t, stderrors.Is(err, errors.ErrNestingTooDeep))

	_, err = p.Parse(`a #{b} #{c}`, start)
	assert.NoError(t, err)
}

func TestParseCallbackErrorPropagates(t *testing.T) {
	boom := stderrors.New("bad expression")
	_, err := Parse(`x #{oops}`, start, func(string, lexer.Position) (ast.Expression, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestParseWithoutExprParser(t *testing.T) {
	got, err := (&Parser{}).Parse(`plain`, start)
	require.NoError(t, err)
	assert.Equal(t, `"plain"`, got.String())

	_, err = (&Parser{}).Parse(`#{x}`, start)
	assert.True(t, stderrors.Is(err, errors.ErrUnexpectedToken))
}

func TestParseLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := &Parser{Expr: (&stubParser{}).parse, Log: log}
	_, err := p.ParseToken(lexer.Token{Type: lexer.TEXT, Literal: "a #{1} b", Line: 1, Column: 1})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "interpolated literal parsed")
	assert.Contains(t, buf.String(), "interpolations=1")
}
