package text

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strs(ts []Text) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}

func TestEquality(t *testing.T) {
	samples := []string{"", "a", "foo bar", "\n", "ünïcødé"}
	for _, s := range samples {
		x := New(s)
		assert.True(t, x.Equals(New(s)), "%q equals itself", s)
		assert.False(t, x.NotEquals(New(s)))
	}

	assert.False(t, New("foo").Equals(New("bar")))
	assert.True(t, New("foo").NotEquals(New("bar")))
	assert.False(t, New("foo").Equals(New("foo ")))
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{" ", false},
		{"\n", false},
		{"x", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.input).IsEmpty(), "%q", tt.input)
	}
	assert.True(t, Empty.IsEmpty())
	assert.True(t, FromRunes(nil).IsEmpty())
}

func TestAt(t *testing.T) {
	abcd := New("abcd")
	for i, want := range []rune{97, 98, 99, 100} {
		got, ok := abcd.At(i)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	for i, want := range []rune{100, 99, 98, 97} {
		got, ok := abcd.At(-(i + 1))
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	for _, i := range []int{0, 1, -1, 10, -10} {
		_, ok := Empty.At(i)
		assert.False(t, ok, "empty text at %d", i)
	}
	_, ok := abcd.At(4)
	assert.False(t, ok)
	_, ok = abcd.At(-5)
	assert.False(t, ok)
}

func TestAtCodePoints(t *testing.T) {
	s := New("añ€")
	r, ok := s.At(1)
	require.True(t, ok)
	assert.Equal(t, 'ñ', r)
	r, ok = s.At(-1)
	require.True(t, ok)
	assert.Equal(t, '€', r)
	assert.Equal(t, 3, s.Len())
}

func TestSlice(t *testing.T) {
	tests := []struct {
		input string
		r     Range
		want  string
	}{
		{"foobar", Inclusive(1, -1), "oobar"},
		{"foobar", Exclusive(1, -1), "ooba"},
		{"123456789", Inclusive(3, 5), "456"},
		{"123456789", Exclusive(3, 6), "456"},
		{"1234567891011", Inclusive(-1, 3), ""},
		{"foobar", Inclusive(0, 100), "foobar"},
		{"foobar", Exclusive(0, 100), "foobar"},
		{"foobar", Inclusive(6, 10), ""},
		{"foobar", Inclusive(7, 10), ""},
		{"foobar", Inclusive(-10, 2), ""},
		{"foobar", Inclusive(-3, -1), "bar"},
		{"foobar", Exclusive(2, 2), ""},
		{"foobar", Inclusive(2, 2), "o"},
		{"", Inclusive(0, -1), ""},
		{"", Inclusive(0, 0), ""},
	}
	for _, tt := range tests {
		t.Run(tt.input+"["+tt.r.String()+"]", func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.input).Slice(tt.r).String())
		})
	}
}

func TestSliceWholeIsIdentity(t *testing.T) {
	for _, s := range []string{"", "a", "abc", "hello world", "éè"} {
		x := New(s)
		assert.True(t, x.Slice(Inclusive(0, -1)).Equals(x), "%q", s)
	}
}

func TestResolveRange(t *testing.T) {
	start, end, ok := ResolveRange(Inclusive(-3, 100), 5)
	require.True(t, ok)
	assert.Equal(t, 2, start)
	assert.Equal(t, 5, end)

	_, _, ok = ResolveRange(Inclusive(5, 10), 5)
	assert.False(t, ok)
}

func TestRangeString(t *testing.T) {
	assert.Equal(t, "1..-1", Inclusive(1, -1).String())
	assert.Equal(t, "0...3", Exclusive(0, 3).String())
}

func TestSliceDoesNotAlias(t *testing.T) {
	src := []rune("abc")
	x := FromRunes(src)
	src[0] = 'z'
	assert.Equal(t, "abc", x.String())

	part := x.Slice(Inclusive(0, 1))
	rs := part.Runes()
	rs[0] = 'q'
	assert.Equal(t, "ab", part.String())
}

func TestConcat(t *testing.T) {
	got := Concat(New("foo "), New("1"), New(" bar"))
	assert.Equal(t, "foo 1 bar", got.String())
	assert.True(t, Concat().IsEmpty())
	assert.Equal(t, "ab", New("a").Append(New("b")).String())
}

func TestCompareAndHash(t *testing.T) {
	assert.Equal(t, -1, New("abc").Compare(New("abd")))
	assert.Equal(t, 0, New("abc").Compare(New("abc")))
	assert.Equal(t, 1, New("b").Compare(New("abc")))
	assert.Equal(t, -1, New("ab").Compare(New("abc")))

	assert.Equal(t, New("hello").Hash(), New("hello").Hash())
	assert.NotEqual(t, New("hello").Hash(), New("hellp").Hash())
}

func TestBuilder(t *testing.T) {
	var b Builder
	b.WriteString("ab")
	b.WriteRune('c')
	b.WriteText(New("de"))
	assert.Equal(t, 5, b.Len())
	first := b.Text()
	b.Reset()
	b.WriteString("x")
	assert.Equal(t, "abcde", first.String())
	assert.Equal(t, "x", b.Text().String())
}

func TestCase(t *testing.T) {
	assert.Equal(t, "hello wörld", New("HeLLo WÖRLD").Lower().String())
	assert.Equal(t, "HELLO WÖRLD", New("hello wörld").Upper().String())
}

func TestTrim(t *testing.T) {
	assert.Equal(t, "foo bar", New("  \t foo bar\n ").Trim().String())
	assert.Equal(t, "", New("   ").Trim().String())
	assert.Equal(t, "x", New("x").Trim().String())
}

func TestSplit(t *testing.T) {
	tests := []struct {
		input string
		sep   string
		want  []string
	}{
		{"foo bar  baz", "", []string{"foo", "bar", "baz"}},
		{"  padded\tout\n", "", []string{"padded", "out"}},
		{"a,b,,c", ",", []string{"a", "b", "c"}},
		{"a--b--c--", "--", []string{"a", "b", "c"}},
		{"nothing", ",", []string{"nothing"}},
		{"", ",", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := strs(New(tt.input).Split(New(tt.sep)))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Split mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReplace(t *testing.T) {
	assert.Equal(t, "fxo foo", New("foo foo").Replace(New("o"), New("x")).String())
	assert.Equal(t, "fxx fxx", New("foo foo").ReplaceAll(New("o"), New("x")).String())
	assert.Equal(t, "foo", New("foo").ReplaceAll(New("z"), New("x")).String())
	assert.Equal(t, "foo", New("foo").ReplaceAll(Empty, New("x")).String())
	assert.Equal(t, "a-b-c", New("a  b  c").ReplaceAll(New("  "), New("-")).String())
}

func TestMakeXMLSafe(t *testing.T) {
	got := New(`<a href="x">Tom & 'Jerry'</a>`).MakeXMLSafe()
	assert.Equal(t, "&lt;a href=&quot;x&quot;&gt;Tom &amp; &apos;Jerry&apos;&lt;/a&gt;", got.String())
}

func TestCategory(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a", "Latin"},
		{"λ", "Greek"},
		{"Ж", "Cyrillic"},
		{" ", "Common"},
	}
	for _, tt := range tests {
		got, err := New(tt.input).Category()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%q", tt.input)
	}

	_, err := New("ab").Category()
	assert.Error(t, err)
	_, err = Empty.Category()
	assert.Error(t, err)
}
