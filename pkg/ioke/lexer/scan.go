package lexer

// ScanStatus reports how a balanced scan over a literal ended.
type ScanStatus int

const (
	ScanOK ScanStatus = iota
	ScanUnterminatedText
	ScanUnterminatedInterpolation
	ScanTooDeep
)

func (s ScanStatus) String() string {
	switch s {
	case ScanOK:
		return "ok"
	case ScanUnterminatedText:
		return "unterminated text"
	case ScanUnterminatedInterpolation:
		return "unterminated interpolation"
	case ScanTooDeep:
		return "nesting too deep"
	}
	return "unknown"
}

// SkipText scans a text literal body starting at src[i], the first rune
// after the opening quote, and returns the index of the closing quote.
// Interpolations inside the literal are skipped as balanced blocks. depth is
// the number of enclosing interpolations; maxDepth <= 0 disables the limit.
func SkipText(src []rune, i, depth, maxDepth int) (int, ScanStatus) {
	for i < len(src) {
		switch c := src[i]; {
		case c == '\\':
			i += 2
		case c == '"':
			return i, ScanOK
		case c == '#' && i+1 < len(src) && src[i+1] == '{':
			if maxDepth > 0 && depth+1 > maxDepth {
				return i, ScanTooDeep
			}
			end, status := SkipInterpolation(src, i+2, depth+1, maxDepth)
			if status != ScanOK {
				return end, status
			}
			i = end + 1
		default:
			i++
		}
	}
	return len(src), ScanUnterminatedText
}

// SkipInterpolation scans interpolated code starting at src[i], the first
// rune after "#{", and returns the index of the matching "}". Braces inside
// nested text literals do not count towards the balance.
func SkipInterpolation(src []rune, i, depth, maxDepth int) (int, ScanStatus) {
	open := 1
	for i < len(src) {
		switch src[i] {
		case '"':
			end, status := SkipText(src, i+1, depth, maxDepth)
			if status == ScanUnterminatedText {
				return len(src), ScanUnterminatedInterpolation
			}
			if status != ScanOK {
				return end, status
			}
			i = end + 1
			continue
		case '{':
			open++
		case '}':
			open--
			if open == 0 {
				return i, ScanOK
			}
		}
		i++
	}
	return len(src), ScanUnterminatedInterpolation
}
