package text

import "fmt"

// Range is an index range over a text. Either endpoint may be negative,
// counting back from the end.
type Range struct {
	From      int
	To        int
	Exclusive bool
}

// Inclusive returns the range From..To.
func Inclusive(from, to int) Range {
	return Range{From: from, To: to}
}

// Exclusive returns the range From...To.
func Exclusive(from, to int) Range {
	return Range{From: from, To: to, Exclusive: true}
}

// String renders the range in source form.
func (r Range) String() string {
	if r.Exclusive {
		return fmt.Sprintf("%d...%d", r.From, r.To)
	}
	return fmt.Sprintf("%d..%d", r.From, r.To)
}

// ResolveIndex maps index i onto a sequence of length n. Negative indices
// count from the end. The second result is false when the position is out
// of range.
func ResolveIndex(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

// ResolveRange maps r onto a sequence of length n and returns the half-open
// span [start, end). Out-of-range endpoints are clamped; ok is false when
// the resolved span is empty.
func ResolveRange(r Range, n int) (start, end int, ok bool) {
	first := r.From
	if first < 0 {
		first += n
	}
	last := r.To
	if last < 0 {
		last += n
	}

	if first < 0 || first > n {
		return 0, 0, false
	}

	if r.Exclusive {
		last--
	}
	if last > n-1 {
		last = n - 1
	}
	if last < first {
		return 0, 0, false
	}
	return first, last + 1, true
}

// At returns the code point at index i. Negative indices count from the end.
// An out-of-range index is absent, reported by ok == false; it is never an
// error.
func (t Text) At(i int) (r rune, ok bool) {
	idx, ok := ResolveIndex(i, len(t.runes))
	if !ok {
		return 0, false
	}
	return t.runes[idx], true
}

// Slice returns the code points selected by r, clamped to the text. A range
// that resolves to nothing yields Empty.
func (t Text) Slice(r Range) Text {
	start, end, ok := ResolveRange(r, len(t.runes))
	if !ok {
		return Empty
	}
	return FromRunes(t.runes[start:end])
}
