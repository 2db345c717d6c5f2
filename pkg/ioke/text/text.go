// Package text implements the immutable Text value of the Ioke runtime.
//
// A Text is an ordered sequence of code points. Operations never mutate the
// receiver; every transformation returns a new value, so Text values may be
// shared freely between goroutines.
package text

import (
	"hash/fnv"
	"slices"
)

// Text is an immutable sequence of code points.
type Text struct {
	runes []rune
}

// Empty is the zero-length text.
var Empty = Text{}

// New returns a Text holding the code points of s.
func New(s string) Text {
	if s == "" {
		return Empty
	}
	return Text{runes: []rune(s)}
}

// FromRunes returns a Text holding a copy of rs.
func FromRunes(rs []rune) Text {
	if len(rs) == 0 {
		return Empty
	}
	return Text{runes: slices.Clone(rs)}
}

// String returns the text as a Go string.
func (t Text) String() string {
	return string(t.runes)
}

// Runes returns a copy of the code points.
func (t Text) Runes() []rune {
	return slices.Clone(t.runes)
}

// Kind names the value for error messages.
func (t Text) Kind() string {
	return "Text"
}

// Len returns the number of code points.
func (t Text) Len() int {
	return len(t.runes)
}

// IsEmpty reports whether the text has no code points. Whitespace is content.
func (t Text) IsEmpty() bool {
	return len(t.runes) == 0
}

// Equals reports structural equality.
func (t Text) Equals(other Text) bool {
	return slices.Equal(t.runes, other.runes)
}

// NotEquals is the negation of Equals.
func (t Text) NotEquals(other Text) bool {
	return !t.Equals(other)
}

// Compare orders texts lexicographically by code point, returning -1, 0 or 1.
func (t Text) Compare(other Text) int {
	return slices.Compare(t.runes, other.runes)
}

// Hash returns a stable FNV-1a hash of the code points. Equal texts hash equal.
func (t Text) Hash() uint64 {
	h := fnv.New64a()
	var buf [4]byte
	for _, r := range t.runes {
		buf[0] = byte(r)
		buf[1] = byte(r >> 8)
		buf[2] = byte(r >> 16)
		buf[3] = byte(r >> 24)
		h.Write(buf[:])
	}
	return h.Sum64()
}

// Concat joins parts in order into a single text.
func Concat(parts ...Text) Text {
	n := 0
	for _, p := range parts {
		n += len(p.runes)
	}
	if n == 0 {
		return Empty
	}
	out := make([]rune, 0, n)
	for _, p := range parts {
		out = append(out, p.runes...)
	}
	return Text{runes: out}
}

// Append returns t followed by other.
func (t Text) Append(other Text) Text {
	return Concat(t, other)
}

// Builder accumulates code points into a Text.
type Builder struct {
	runes []rune
}

// WriteRune appends a single code point.
func (b *Builder) WriteRune(r rune) {
	b.runes = append(b.runes, r)
}

// WriteString appends the code points of s.
func (b *Builder) WriteString(s string) {
	for _, r := range s {
		b.runes = append(b.runes, r)
	}
}

// WriteText appends the code points of t.
func (b *Builder) WriteText(t Text) {
	b.runes = append(b.runes, t.runes...)
}

// Len returns the number of code points written so far.
func (b *Builder) Len() int {
	return len(b.runes)
}

// Text returns the accumulated text. The builder may keep being used.
func (b *Builder) Text() Text {
	return FromRunes(b.runes)
}

// Reset discards the accumulated code points.
func (b *Builder) Reset() {
	b.runes = b.runes[:0]
}

// index returns the position of sub in t at or after from, or -1.
func (t Text) index(sub Text, from int) int {
	n, m := len(t.runes), len(sub.runes)
	if m == 0 {
		return from
	}
	for i := from; i+m <= n; i++ {
		if slices.Equal(t.runes[i:i+m], sub.runes) {
			return i
		}
	}
	return -1
}
