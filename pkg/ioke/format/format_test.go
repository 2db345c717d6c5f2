package format

import (
	"bytes"
	stderrors "errors"
	"iter"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambeau/ioke/pkg/ioke/errors"
	"github.com/sambeau/ioke/pkg/ioke/text"
)

func render(t *testing.T, tmpl string, args ...any) string {
	t.Helper()
	got, err := Format(text.New(tmpl), args, nil)
	require.NoError(t, err, "template %q", tmpl)
	return got.String()
}

func TestVerbatim(t *testing.T) {
	tests := []string{
		"",
		"abc foo bar quux",
		"abc foo %01 bar",
		"abc foo %-10 bar",
		"abc foo %* bar",
		"abc foo %: bar",
		"abc foo %% bar",
		"abc % foo",
		"trailing %",
		"trailing %-",
		"trailing %*",
		"100%]",
		"unterminated %[ block",
	}
	for _, tmpl := range tests {
		t.Run(tmpl, func(t *testing.T) {
			assert.Equal(t, tmpl, render(t, tmpl))
		})
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		tmpl string
		args []any
		want string
	}{
		{"%s", []any{"bar"}, "bar"},
		{"abc %s foo", []any{text.New("bar")}, "abc bar foo"},
		{"%s-%s", []any{"a", "b"}, "a-b"},
		{"%10s", []any{"bar"}, "       bar"},
		{"%-10s|", []any{"bar"}, "bar       |"},
		{"%2s", []any{"barfly"}, "barfly"},
		{"%-2s", []any{"barfly"}, "barfly"},
		{"%0s", []any{"x"}, "x"},
		{"%s", []any{42}, "42"},
		{"%s", []any{int64(-7)}, "-7"},
		{"%s", []any{true}, "true"},
		{"%s", []any{nil}, "nil"},
		{"%s", []any{1.5}, "1.5"},
		{"%s", []any{[]any{1, "a"}}, "[1, a]"},
		{"%3s|", []any{"日本"}, " 日本|"},
		{"%s %s", []any{"one", "two", "ignored"}, "one two"},
	}
	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.tmpl, tt.args...))
		})
	}
}

type lazyList []string

func (l lazyList) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, s := range l {
			if !yield(s) {
				return
			}
		}
	}
}

type shout string

func (s shout) AsText() (text.Text, error) {
	return text.New(string(s) + "!"), nil
}

func TestBlocks(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		args []any
		want string
	}{
		{"each", "%[%s - %]", []any{[]any{"one", "two", "three"}}, "one - two - three - "},
		{"each typed slice", "%[<%s>%]", []any{[]string{"a", "b"}}, "<a><b>"},
		{"each empty", "x%[%s%]y", []any{[]any{}}, "xy"},
		{"each array", "%[%s,%]", []any{[2]int{1, 2}}, "1,2,"},
		{"each sequencer", "%[%s %]", []any{lazyList{"p", "q"}}, "p q "},
		{"each iter.Seq", "%[%s%]", []any{iter.Seq[any](lazyList{"r", "s"}.All())}, "rs"},
		{"each padded", "%[%-3s|%]", []any{[]any{"a", "bb"}}, "a  |bb |"},
		{"each literal body", "%[-%]", []any{[]any{1, 2, 3}}, "---"},
		{
			"splat",
			"%*[%s = %s - %]",
			[]any{[]any{[]any{"one", "1", "ignored"}, []any{"two", "2", "ignored"}, []any{"three", "3", "ignored"}}},
			"one = 1 - two = 2 - three = 3 - ",
		},
		{
			"pairs from map",
			"%:[%s=%s;%]",
			[]any{map[string]int{"b": 2, "a": 1}},
			"a=1;b=2;",
		},
		{
			"pairs from two-element lists",
			"%:[%s->%s %]",
			[]any{[]any{[]any{"x", 1}, Pair{First: "y", Second: 2}}},
			"x->1 y->2 ",
		},
		{"text around blocks", "[%[%s%]] and %s", []any{[]any{1, 2}, "after"}, "[12] and after"},
		{"converter", "%s", []any{shout("hey")}, "hey!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.tmpl, tt.args...))
		})
	}
}

func TestArgumentUnderflow(t *testing.T) {
	tests := []struct {
		tmpl string
		args []any
	}{
		{"%s", nil},
		{"%s %s", []any{"one"}},
		{"%[%s%]", nil},
		{"%*[%s %s%]", []any{[]any{[]any{"only"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			got, err := Format(text.New(tt.tmpl), tt.args, nil)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrArgumentUnderflow), "got %v", err)
			assert.True(t, got.IsEmpty())
		})
	}
}

func TestUnderflowMessage(t *testing.T) {
	_, err := Format(text.New("%s and %-4s"), []any{"one"}, nil)
	require.Error(t, err)
	assert.Equal(t, "format directive '%-4s' needs argument 2, but only 1 given", err.Error())
}

func TestNotEnumerable(t *testing.T) {
	for _, arg := range []any{"abc", text.New("abc"), 42, nil} {
		_, err := Format(text.New("%[%s%]"), []any{arg}, nil)
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrNotEnumerable), "arg %v: %v", arg, err)
	}

	_, err := Format(text.New("%*[%s%]"), []any{[]any{"flat"}}, nil)
	assert.True(t, stderrors.Is(err, errors.ErrNotEnumerable))
}

func TestNotAPair(t *testing.T) {
	_, err := Format(text.New("%:[%s%s%]"), []any{[]any{[]any{1, 2, 3}}}, nil)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrNotAPair))
}

// strictCaps refuses to stringify anything but text and cannot split pairs.
type strictCaps struct{}

var errRefused = stderrors.New("refused")

func (strictCaps) ToText(v any) (text.Text, error) {
	if t, ok := v.(text.Text); ok {
		return t, nil
	}
	return text.Empty, errRefused
}

func (strictCaps) ToSequence(v any) ([]any, error) {
	if s, ok := v.([]any); ok {
		return s, nil
	}
	return nil, errRefused
}

func TestCapabilityErrorsAreWrapped(t *testing.T) {
	caps := strictCaps{}

	_, err := Format(text.New("%s"), []any{3}, caps)
	assert.True(t, stderrors.Is(err, errors.ErrStringify))
	assert.ErrorIs(t, err, errRefused)

	_, err = Format(text.New("%[%s%]"), []any{"no"}, caps)
	assert.True(t, stderrors.Is(err, errors.ErrNotEnumerable))
	assert.ErrorIs(t, err, errRefused)

	_, err = Format(text.New("%:[%s%s%]"), []any{[]any{text.New("a")}}, caps)
	assert.True(t, stderrors.Is(err, errors.ErrNotAPair))

	got, err := Format(text.New("%[%s,%]"), []any{[]any{text.New("a"), text.New("b")}}, caps)
	require.NoError(t, err)
	assert.Equal(t, "a,b,", got.String())
}

func TestStringifyFailure(t *testing.T) {
	_, err := Format(text.New("%s"), []any{func() {}}, nil)
	assert.True(t, stderrors.Is(err, errors.ErrStringify))
}

func TestMaxOutput(t *testing.T) {
	e := &Engine{MaxOutput: 8}

	got, err := e.Format(text.New("%[%s%]"), []any{[]any{"ab", "cd"}})
	require.NoError(t, err)
	assert.Equal(t, "abcd", got.String())

	_, err = e.Format(text.New("%[%s%]"), []any{[]any{"abcd", "efgh", "ijkl"}})
	assert.True(t, stderrors.Is(err, errors.ErrOutputTooLarge))

	_, err = e.Format(text.New("%20s"), []any{"x"})
	assert.True(t, stderrors.Is(err, errors.ErrOutputTooLarge))
}

func TestHugeWidths(t *testing.T) {
	tests := []struct {
		name   string
		engine *Engine
		tmpl   string
	}{
		{"bounded, max int", &Engine{MaxOutput: 1000}, "%9223372036854775807s"},
		{"bounded, past max int", &Engine{MaxOutput: 1000}, "%99999999999999999999s"},
		{"bounded, terabytes", &Engine{MaxOutput: 1000}, "%9000000000000s"},
		{"bounded, left justified", &Engine{MaxOutput: 1000}, "%-99999999999999999999s"},
		{"bounded, just over", &Engine{MaxOutput: 1000}, "ab%999s"},
		{"unbounded, terabytes", &Engine{}, "%9000000000000s"},
		{"unbounded, past max int", &Engine{}, "%-99999999999999999999s"},
		{"unbounded, over width limit", &Engine{}, "%1048577s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.engine.Format(text.New(tt.tmpl), []any{"x"})
			assert.True(t, stderrors.Is(err, errors.ErrOutputTooLarge), "got %v", err)
		})
	}

	got, err := (&Engine{MaxOutput: 1000}).Format(text.New("%1000s"), []any{"x"})
	require.NoError(t, err)
	assert.Equal(t, 1000, got.Len())
}

func TestEngineLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	e := &Engine{Log: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}
	_, err := e.Format(text.New("%s %s"), []any{"a", "b"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "format rendered")
	assert.Contains(t, buf.String(), "directives=2")
}

func TestNativeToText(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"pair", Pair{First: "k", Second: 1}, "k => 1"},
		{"error", stderrors.New("boom"), "boom"},
		{"nil text pointer", (*text.Text)(nil), "nil"},
		{"nested", []any{[]any{1}, "x"}, "[[1], x]"},
		{"struct", struct{ A int }{3}, "{3}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Native.ToText(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
