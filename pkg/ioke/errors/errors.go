// Package errors provides structured error types for the Ioke text runtime.
//
// This package defines IokeError, a unified error type that can represent
// both parse-time and runtime failures with rich metadata for display and
// programmatic handling.
package errors

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassParse     ErrorClass = "parse"     // Literal and expression syntax errors
	ClassType      ErrorClass = "type"      // Type mismatches
	ClassArity     ErrorClass = "arity"     // Wrong argument count
	ClassUndefined ErrorClass = "undefined" // Not found/defined
	ClassIndex     ErrorClass = "index"     // Bad index arguments
	ClassFormat    ErrorClass = "format"    // Format rendering failures
	ClassHost      ErrorClass = "host"      // External expression engine failures
)

// Error codes. These are stable and part of the public surface.
const (
	CodeUnterminatedInterpolation = "PARSE-0001"
	CodeUnknownEscape             = "PARSE-0002"
	CodeMalformedUnicodeEscape    = "PARSE-0003"
	CodeUnterminatedText          = "PARSE-0004"
	CodeNestingTooDeep            = "PARSE-0005"
	CodeUnexpectedToken           = "PARSE-0006"
	CodeHostCompile               = "PARSE-0007"

	CodeArgumentUnderflow = "FORMAT-0001"
	CodeNotEnumerable     = "FORMAT-0002"
	CodeNotAPair          = "FORMAT-0003"
	CodeStringify         = "FORMAT-0004"
	CodeOutputTooLarge    = "FORMAT-0005"

	CodeArgumentType  = "TYPE-0001"
	CodeNotOneChar    = "TYPE-0002"
	CodeArity         = "ARITY-0001"
	CodeUndefinedName = "UNDEF-0001"
	CodeUnknownMethod = "UNDEF-0002"

	CodeHostExpression = "HOST-0001"
)

// IokeError represents any error from parsing or evaluation.
type IokeError struct {
	Class   ErrorClass     `json:"class"`           // Error category
	Code    string         `json:"code"`            // Error code (e.g., "PARSE-0001")
	Message string         `json:"message"`         // Human-readable message
	Hints   []string       `json:"hints,omitempty"` // Suggestions for fixing
	Line    int            `json:"line"`            // 1-based line (0 if unknown)
	Column  int            `json:"column"`          // 1-based column (0 if unknown)
	File    string         `json:"file,omitempty"`  // File path (if known)
	Data    map[string]any `json:"data,omitempty"`  // Template variables
	Cause   error          `json:"-"`               // Wrapped capability error
}

// Error implements the error interface.
func (e *IokeError) Error() string {
	return e.String()
}

// Unwrap returns the wrapped cause, if any.
func (e *IokeError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an IokeError with the same code. This lets the
// sentinels below be used with errors.Is.
func (e *IokeError) Is(target error) bool {
	t, ok := target.(*IokeError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// String returns a formatted string representation of the error.
func (e *IokeError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// WithFile returns a copy of the error with the file path set.
func (e *IokeError) WithFile(file string) *IokeError {
	copy := *e
	copy.File = file
	return &copy
}

// WithPosition returns a copy of the error with line and column set.
func (e *IokeError) WithPosition(line, column int) *IokeError {
	copy := *e
	copy.Line = line
	copy.Column = column
	return &copy
}

// Sentinels for errors.Is. They carry only a code.
var (
	ErrUnterminatedInterpolation = &IokeError{Class: ClassParse, Code: CodeUnterminatedInterpolation}
	ErrUnknownEscape             = &IokeError{Class: ClassParse, Code: CodeUnknownEscape}
	ErrUnterminatedText          = &IokeError{Class: ClassParse, Code: CodeUnterminatedText}
	ErrNestingTooDeep            = &IokeError{Class: ClassParse, Code: CodeNestingTooDeep}
	ErrUnexpectedToken           = &IokeError{Class: ClassParse, Code: CodeUnexpectedToken}
	ErrHostCompile               = &IokeError{Class: ClassParse, Code: CodeHostCompile}
	ErrArgumentUnderflow         = &IokeError{Class: ClassFormat, Code: CodeArgumentUnderflow}
	ErrNotEnumerable             = &IokeError{Class: ClassType, Code: CodeNotEnumerable}
	ErrNotAPair                  = &IokeError{Class: ClassType, Code: CodeNotAPair}
	ErrStringify                 = &IokeError{Class: ClassType, Code: CodeStringify}
	ErrOutputTooLarge            = &IokeError{Class: ClassFormat, Code: CodeOutputTooLarge}
	ErrArgumentType              = &IokeError{Class: ClassType, Code: CodeArgumentType}
	ErrNotOneChar                = &IokeError{Class: ClassType, Code: CodeNotOneChar}
	ErrArity                     = &IokeError{Class: ClassArity, Code: CodeArity}
	ErrUndefinedName             = &IokeError{Class: ClassUndefined, Code: CodeUndefinedName}
	ErrUnknownMethod             = &IokeError{Class: ClassUndefined, Code: CodeUnknownMethod}
	ErrHostExpression            = &IokeError{Class: ClassHost, Code: CodeHostExpression}
)

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
	Is       *IokeError // Broader sentinel this code also matches, if any
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// ========================================
	// Parse errors (PARSE-0xxx)
	// ========================================
	CodeUnterminatedInterpolation: {
		Class:    ClassParse,
		Template: "unterminated interpolation in text literal",
		Hints:    []string{"close every #{ with a matching }"},
	},
	CodeUnknownEscape: {
		Class:    ClassParse,
		Template: "unknown escape sequence '\\{{.Char}}' in text literal",
		Hints:    []string{"use \\\\ for a literal backslash"},
	},
	CodeMalformedUnicodeEscape: {
		Class:    ClassParse,
		Template: "malformed unicode escape '\\u{{.Digits}}': expected 4 hex digits",
		Is:       ErrUnknownEscape,
	},
	CodeUnterminatedText: {
		Class:    ClassParse,
		Template: "unterminated text literal",
	},
	CodeNestingTooDeep: {
		Class:    ClassParse,
		Template: "interpolation nested deeper than {{.Max}} levels",
	},
	CodeUnexpectedToken: {
		Class:    ClassParse,
		Template: "unexpected {{.Token}}",
	},
	CodeHostCompile: {
		Class:    ClassParse,
		Template: "cannot compile interpolated expression `{{.Source}}`",
	},

	// ========================================
	// Format errors (FORMAT-0xxx)
	// ========================================
	CodeArgumentUnderflow: {
		Class:    ClassFormat,
		Template: "format directive '{{.Directive}}' needs argument {{.Index}}, but only {{.Count}} given",
	},
	CodeNotEnumerable: {
		Class:    ClassType,
		Template: "cannot enumerate {{.Got}}",
		Hints:    []string{"%[ and %*[ iterate over lists and other enumerable values"},
	},
	CodeNotAPair: {
		Class:    ClassType,
		Template: "cannot split {{.Got}} into a pair",
	},
	CodeStringify: {
		Class:    ClassType,
		Template: "cannot convert {{.Got}} to text",
	},
	CodeOutputTooLarge: {
		Class:    ClassFormat,
		Template: "formatted output exceeds {{.Max}} characters",
	},

	// ========================================
	// Type, arity and lookup errors
	// ========================================
	CodeArgumentType: {
		Class:    ClassType,
		Template: "argument to `{{.Function}}` must be {{.Expected}}, got {{.Got}}",
	},
	CodeNotOneChar: {
		Class:    ClassType,
		Template: "`{{.Function}}` needs a text of exactly one character, got {{.Length}}",
	},
	CodeArity: {
		Class:    ClassArity,
		Template: "wrong number of arguments to `{{.Function}}`. got={{.Got}}, want={{.Want}}",
	},
	CodeUndefinedName: {
		Class:    ClassUndefined,
		Template: "identifier not found: {{.Name}}",
	},
	CodeUnknownMethod: {
		Class:    ClassUndefined,
		Template: "unknown method '{{.Method}}' for {{.Type}}",
	},
	CodeHostExpression: {
		Class:    ClassHost,
		Template: "interpolated expression `{{.Source}}` failed",
	},
}

// New creates an IokeError from the catalog.
// If the code is not found, creates a generic error with the message.
func New(code string, data map[string]any) *IokeError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &IokeError{
			Class:   ClassType,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	err := &IokeError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
	if def.Is != nil {
		err.Cause = def.Is
	}
	return err
}

// NewWithPosition creates an IokeError with position information.
func NewWithPosition(code string, line, column int, data map[string]any) *IokeError {
	err := New(code, data)
	err.Line = line
	err.Column = column
	return err
}

// Wrap creates a catalog error that wraps cause.
func Wrap(code string, cause error, data map[string]any) *IokeError {
	err := New(code, data)
	err.Cause = cause
	return err
}

// NewSimple creates a simple error without using the catalog.
func NewSimple(class ErrorClass, message string) *IokeError {
	return &IokeError{
		Class:   class,
		Message: message,
	}
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// TypeName returns a readable kind name for a Go value, for error messages.
func TypeName(v any) string {
	if v == nil {
		return "nil"
	}
	if n, ok := v.(interface{ Kind() string }); ok {
		return n.Kind()
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", v), "*")
}

// ============================================================================
// Fuzzy Matching - "Did you mean?" suggestions
// ============================================================================

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// matchThreshold allows more edits for longer inputs.
func matchThreshold(input string) int {
	switch {
	case len(input) >= 7:
		return 3
	case len(input) >= 4:
		return 2
	default:
		return 1
	}
}

// FindClosestMatch finds the closest match to the given string from candidates.
// Returns the best match if the distance is within the threshold, otherwise empty string.
func FindClosestMatch(input string, candidates []string) string {
	if len(input) == 0 || len(candidates) == 0 {
		return ""
	}

	inputLower := strings.ToLower(input)

	var bestMatch string
	bestDistance := -1

	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	if bestDistance <= 0 || bestDistance > matchThreshold(input) {
		return ""
	}

	return bestMatch
}

// NewUndefinedIdentifier creates an undefined identifier error with optional fuzzy matching.
func NewUndefinedIdentifier(name string, available []string) *IokeError {
	err := New(CodeUndefinedName, map[string]any{"Name": name})
	if suggestion := FindClosestMatch(name, available); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}
	return err
}

// NewUndefinedMethod creates an undefined method error with optional fuzzy matching.
func NewUndefinedMethod(method, typeName string, available []string) *IokeError {
	err := New(CodeUnknownMethod, map[string]any{
		"Method": method,
		"Type":   typeName,
	})
	if suggestion := FindClosestMatch(method, available); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}
	return err
}
