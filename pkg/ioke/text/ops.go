package text

import (
	"fmt"
	"sort"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Casers are not safe for concurrent use, so each call builds its own.
func caser(upper bool) cases.Caser {
	if upper {
		return cases.Upper(language.Und)
	}
	return cases.Lower(language.Und)
}

// Lower returns the text converted to lower case.
func (t Text) Lower() Text {
	return New(caser(false).String(t.String()))
}

// Upper returns the text converted to upper case.
func (t Text) Upper() Text {
	return New(caser(true).String(t.String()))
}

// Trim removes leading and trailing Unicode whitespace.
func (t Text) Trim() Text {
	start, end := 0, len(t.runes)
	for start < end && unicode.IsSpace(t.runes[start]) {
		start++
	}
	for end > start && unicode.IsSpace(t.runes[end-1]) {
		end--
	}
	if start == 0 && end == len(t.runes) {
		return t
	}
	return FromRunes(t.runes[start:end])
}

// Split breaks the text around every occurrence of sep, dropping empty
// pieces. An empty separator splits around whitespace.
func (t Text) Split(sep Text) []Text {
	var out []Text
	if sep.IsEmpty() {
		start := -1
		for i, r := range t.runes {
			if unicode.IsSpace(r) {
				if start >= 0 {
					out = append(out, FromRunes(t.runes[start:i]))
					start = -1
				}
				continue
			}
			if start < 0 {
				start = i
			}
		}
		if start >= 0 {
			out = append(out, FromRunes(t.runes[start:]))
		}
		return out
	}

	from := 0
	for {
		i := t.index(sep, from)
		if i < 0 {
			break
		}
		if i > from {
			out = append(out, FromRunes(t.runes[from:i]))
		}
		from = i + sep.Len()
	}
	if from < len(t.runes) {
		out = append(out, FromRunes(t.runes[from:]))
	}
	return out
}

// Replace substitutes the first occurrence of old with repl.
func (t Text) Replace(old, repl Text) Text {
	return t.replace(old, repl, 1)
}

// ReplaceAll substitutes every occurrence of old with repl.
func (t Text) ReplaceAll(old, repl Text) Text {
	return t.replace(old, repl, -1)
}

func (t Text) replace(old, repl Text, limit int) Text {
	if old.IsEmpty() {
		return t
	}
	var b Builder
	from, done := 0, 0
	for limit < 0 || done < limit {
		i := t.index(old, from)
		if i < 0 {
			break
		}
		b.runes = append(b.runes, t.runes[from:i]...)
		b.WriteText(repl)
		from = i + old.Len()
		done++
	}
	if done == 0 {
		return t
	}
	b.runes = append(b.runes, t.runes[from:]...)
	return b.Text()
}

var xmlEntities = map[rune]string{
	'&':  "&amp;",
	'<':  "&lt;",
	'>':  "&gt;",
	'"':  "&quot;",
	'\'': "&apos;",
}

// MakeXMLSafe replaces the XML special characters with entities.
func (t Text) MakeXMLSafe() Text {
	var b Builder
	for _, r := range t.runes {
		if ent, ok := xmlEntities[r]; ok {
			b.WriteString(ent)
			continue
		}
		b.WriteRune(r)
	}
	return b.Text()
}

var scriptNames = func() []string {
	names := make([]string, 0, len(unicode.Scripts))
	for name := range unicode.Scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

// Category returns the name of the Unicode script of a single-character
// text. Characters outside every script report "Unknown".
func (t Text) Category() (string, error) {
	if len(t.runes) != 1 {
		return "", fmt.Errorf("text has %d characters, want exactly one", len(t.runes))
	}
	r := t.runes[0]
	for _, name := range scriptNames {
		if unicode.Is(unicode.Scripts[name], r) {
			return name, nil
		}
	}
	return "Unknown", nil
}
