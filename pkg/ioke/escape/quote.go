package escape

import (
	"fmt"
	"strings"

	"github.com/sambeau/ioke/pkg/ioke/text"
)

// Quote renders t as a double-quoted literal that Decode maps back to t.
func Quote(t text.Text) string {
	var sb strings.Builder
	sb.WriteByte('"')
	rs := t.Runes()
	for i, r := range rs {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\f':
			sb.WriteString(`\f`)
		case '\b':
			sb.WriteString(`\b`)
		case '#':
			if i+1 < len(rs) && rs[i+1] == '{' {
				sb.WriteString(`\#`)
			} else {
				sb.WriteRune(r)
			}
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04X`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
