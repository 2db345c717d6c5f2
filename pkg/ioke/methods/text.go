package methods

import (
	"github.com/sambeau/ioke/pkg/ioke/errors"
	"github.com/sambeau/ioke/pkg/ioke/escape"
	"github.com/sambeau/ioke/pkg/ioke/text"
)

// TextMethods is the method table for Text.
var TextMethods MethodRegistry

func init() {
	TextMethods = MethodRegistry{
		"==": {
			Fn:          textEquals,
			Arity:       "1",
			Description: "True if the argument is a text with the same characters",
		},
		"!=": {
			Fn:          textNotEquals,
			Arity:       "1",
			Description: "Negation of ==",
		},
		"<=>": {
			Fn:          textCompare,
			Arity:       "1",
			Description: "Compare by code point: -1, 0 or 1; nil for non-text",
		},
		"empty?": {
			Fn:          textEmpty,
			Arity:       "0",
			Description: "True if the text has no characters",
		},
		"length": {
			Fn:          textLength,
			Arity:       "0",
			Description: "Number of characters",
		},
		"[]": {
			Fn:          textIndex,
			Arity:       "1",
			Description: "Code point at an index, or the text in a range",
		},
		"format": {
			Fn:          textFormat,
			Arity:       "0+",
			Description: "Render the text as a format template",
		},
		"hash": {
			Fn:          textHash,
			Arity:       "0",
			Description: "Hash code; equal texts hash equally",
		},
		"asText": {
			Fn:          textAsText,
			Arity:       "0",
			Description: "The text itself",
		},
		"inspect": {
			Fn:          textInspect,
			Arity:       "0",
			Description: "Quoted, escaped source form",
		},
		"notice": {
			Fn:          textInspect,
			Arity:       "0",
			Description: "Quoted, escaped source form",
		},
		"lower": {
			Fn:          textLower,
			Arity:       "0",
			Description: "Convert to lowercase",
		},
		"upper": {
			Fn:          textUpper,
			Arity:       "0",
			Description: "Convert to uppercase",
		},
		"trim": {
			Fn:          textTrim,
			Arity:       "0",
			Description: "Remove leading and trailing whitespace",
		},
		"split": {
			Fn:          textSplit,
			Arity:       "0-1",
			Description: "Split around a separator, or around whitespace",
		},
		"replace": {
			Fn:          textReplace,
			Arity:       "2",
			Description: "Replace the first occurrence",
		},
		"replaceAll": {
			Fn:          textReplaceAll,
			Arity:       "2",
			Description: "Replace every occurrence",
		},
		"makeXMLSafe": {
			Fn:          textMakeXMLSafe,
			Arity:       "0",
			Description: "Escape XML special characters as entities",
		},
		"category": {
			Fn:          textCategory,
			Arity:       "0",
			Description: "Unicode script of a single character",
		},
		"evaluateEscapes": {
			Fn:          textEvaluateEscapes,
			Arity:       "0",
			Description: "Decode backslash escapes in the text",
		},
	}
}

func textEquals(recv text.Text, args []any, _ *Context) (any, error) {
	other, ok := args[0].(text.Text)
	return ok && recv.Equals(other), nil
}

func textNotEquals(recv text.Text, args []any, ctx *Context) (any, error) {
	eq, _ := textEquals(recv, args, ctx)
	return !eq.(bool), nil
}

func textCompare(recv text.Text, args []any, _ *Context) (any, error) {
	other, ok := args[0].(text.Text)
	if !ok {
		return nil, nil
	}
	return int64(recv.Compare(other)), nil
}

func textEmpty(recv text.Text, _ []any, _ *Context) (any, error) {
	return recv.IsEmpty(), nil
}

func textLength(recv text.Text, _ []any, _ *Context) (any, error) {
	return int64(recv.Len()), nil
}

func textIndex(recv text.Text, args []any, _ *Context) (any, error) {
	switch idx := args[0].(type) {
	case int64:
		if r, ok := recv.At(int(idx)); ok {
			return int64(r), nil
		}
		return nil, nil
	case int:
		if r, ok := recv.At(idx); ok {
			return int64(r), nil
		}
		return nil, nil
	case text.Range:
		return recv.Slice(idx), nil
	}
	return nil, argumentType("[]", "an integer or a range", args[0])
}

func textFormat(recv text.Text, args []any, ctx *Context) (any, error) {
	return ctx.formatter().Format(recv, args)
}

func textHash(recv text.Text, _ []any, _ *Context) (any, error) {
	return int64(recv.Hash()), nil
}

func textAsText(recv text.Text, _ []any, _ *Context) (any, error) {
	return recv, nil
}

func textInspect(recv text.Text, _ []any, _ *Context) (any, error) {
	return text.New(escape.Quote(recv)), nil
}

func textLower(recv text.Text, _ []any, _ *Context) (any, error) {
	return recv.Lower(), nil
}

func textUpper(recv text.Text, _ []any, _ *Context) (any, error) {
	return recv.Upper(), nil
}

func textTrim(recv text.Text, _ []any, _ *Context) (any, error) {
	return recv.Trim(), nil
}

func textSplit(recv text.Text, args []any, _ *Context) (any, error) {
	sep := text.Empty
	if len(args) == 1 {
		s, err := textArg("split", args[0])
		if err != nil {
			return nil, err
		}
		sep = s
	}
	pieces := recv.Split(sep)
	out := make([]any, len(pieces))
	for i, p := range pieces {
		out[i] = p
	}
	return out, nil
}

func textReplace(recv text.Text, args []any, _ *Context) (any, error) {
	old, repl, err := textArgs2("replace", args)
	if err != nil {
		return nil, err
	}
	return recv.Replace(old, repl), nil
}

func textReplaceAll(recv text.Text, args []any, _ *Context) (any, error) {
	old, repl, err := textArgs2("replaceAll", args)
	if err != nil {
		return nil, err
	}
	return recv.ReplaceAll(old, repl), nil
}

func textMakeXMLSafe(recv text.Text, _ []any, _ *Context) (any, error) {
	return recv.MakeXMLSafe(), nil
}

func textCategory(recv text.Text, _ []any, _ *Context) (any, error) {
	name, err := recv.Category()
	if err != nil {
		return nil, errors.Wrap(errors.CodeNotOneChar, err, map[string]any{
			"Function": "category",
			"Length":   recv.Len(),
		})
	}
	return text.New(name), nil
}

func textEvaluateEscapes(recv text.Text, _ []any, _ *Context) (any, error) {
	return escape.Decode(recv.String())
}

func textArg(method string, v any) (text.Text, error) {
	t, ok := v.(text.Text)
	if !ok {
		return text.Empty, argumentType(method, "a text", v)
	}
	return t, nil
}

func textArgs2(method string, args []any) (text.Text, text.Text, error) {
	a, err := textArg(method, args[0])
	if err != nil {
		return text.Empty, text.Empty, err
	}
	b, err := textArg(method, args[1])
	if err != nil {
		return text.Empty, text.Empty, err
	}
	return a, b, nil
}

func argumentType(method, expected string, got any) error {
	return errors.New(errors.CodeArgumentType, map[string]any{
		"Function": method,
		"Expected": expected,
		"Got":      errors.TypeName(got),
	})
}
