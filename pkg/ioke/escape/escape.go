// Package escape decodes backslash escapes in text literal spans and renders
// texts back into quoted literal form.
package escape

import (
	"strings"

	"github.com/sambeau/ioke/pkg/ioke/errors"
	"github.com/sambeau/ioke/pkg/ioke/text"
)

// Decode decodes the escapes in raw, a literal span without its quotes.
func Decode(raw string) (text.Text, error) {
	return DecodeAt(raw, 1, 1)
}

// DecodeAt decodes raw, reporting errors relative to line and column, the
// position of the first character of raw.
func DecodeAt(raw string, line, column int) (text.Text, error) {
	d := decoder{src: []rune(raw), line: line, column: column}
	return d.decode()
}

type decoder struct {
	src  []rune
	pos  int
	line int
	// column of src[pos]
	column int
	out    text.Builder
}

func (d *decoder) advance() rune {
	r := d.src[d.pos]
	d.pos++
	if r == '\n' {
		d.line++
		d.column = 1
	} else {
		d.column++
	}
	return r
}

func (d *decoder) peek() (rune, bool) {
	if d.pos >= len(d.src) {
		return 0, false
	}
	return d.src[d.pos], true
}

func (d *decoder) decode() (text.Text, error) {
	for d.pos < len(d.src) {
		if d.src[d.pos] != '\\' {
			d.out.WriteRune(d.advance())
			continue
		}
		if err := d.escape(); err != nil {
			return text.Empty, err
		}
	}
	return d.out.Text(), nil
}

// escape consumes one escape sequence starting at the backslash.
func (d *decoder) escape() error {
	line, col := d.line, d.column
	d.advance()

	c, ok := d.peek()
	if !ok {
		return errors.NewWithPosition(errors.CodeUnknownEscape, line, col, map[string]any{"Char": ""})
	}

	switch c {
	case 'b':
		d.out.WriteRune('\b')
	case 't':
		d.out.WriteRune('\t')
	case 'n':
		d.out.WriteRune('\n')
	case 'f':
		d.out.WriteRune('\f')
	case 'r':
		d.out.WriteRune('\r')
	case '"', '#', '\\':
		d.out.WriteRune(c)
	case '\n':
	case '\r':
		d.advance()
		if next, ok := d.peek(); ok && next == '\n' {
			d.advance()
		}
		return nil
	case 'u':
		d.advance()
		return d.unicode(line, col)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		d.octal()
		return nil
	default:
		return errors.NewWithPosition(errors.CodeUnknownEscape, line, col, map[string]any{"Char": string(c)})
	}
	d.advance()
	return nil
}

// unicode reads exactly four hex digits after \u.
func (d *decoder) unicode(line, col int) error {
	var v rune
	var digits strings.Builder
	for i := 0; i < 4; i++ {
		c, ok := d.peek()
		h := hexValue(c)
		if !ok || h < 0 {
			return errors.NewWithPosition(errors.CodeMalformedUnicodeEscape, line, col, map[string]any{"Digits": digits.String()})
		}
		digits.WriteRune(d.advance())
		v = v<<4 | rune(h)
	}
	d.out.WriteRune(v)
	return nil
}

// octal reads one to three octal digits. A third digit is only taken when
// the first is 0-3, keeping the value within a byte.
func (d *decoder) octal() {
	first := d.advance()
	v := first - '0'
	limit := 2
	if first <= '3' {
		limit = 3
	}
	for n := 1; n < limit; n++ {
		c, ok := d.peek()
		if !ok || c < '0' || c > '7' {
			break
		}
		d.advance()
		v = v*8 + (c - '0')
	}
	d.out.WriteRune(v)
}

func hexValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
