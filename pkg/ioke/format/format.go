// Package format renders Ioke format templates.
//
// Directives:
//
//	%s, %10s, %-10s   insert the next argument as text, padded to a width
//	%[ ... %]         repeat the body once per element of the next argument
//	%*[ ... %]        as %[, feeding each element's own members to the body
//	%:[ ... %]        as %[, feeding each element's pair halves to the body
//
// Any other use of % is copied to the output as written. Blocks end at the
// first %] and do not nest.
package format

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"

	"github.com/sambeau/ioke/pkg/ioke/errors"
	"github.com/sambeau/ioke/pkg/ioke/text"
)

// Capabilities converts host values for the engine.
type Capabilities interface {
	// ToText stringifies a value for %s.
	ToText(v any) (text.Text, error)
	// ToSequence enumerates a value for the block directives.
	ToSequence(v any) ([]any, error)
}

// PairSplitter is implemented by capabilities that support %:[.
type PairSplitter interface {
	ToPair(v any) (first, second any, err error)
}

// MaxWidth bounds the width of a %s directive. Wider directives fail with
// FORMAT-0005 instead of allocating their padding.
const MaxWidth = 1 << 20

// Engine renders templates. The zero value uses Native capabilities and
// places no bound on output size beyond MaxWidth per directive.
type Engine struct {
	Caps      Capabilities
	MaxOutput int
	Log       *slog.Logger
}

// Format renders tmpl against args using caps.
func Format(tmpl text.Text, args []any, caps Capabilities) (text.Text, error) {
	e := &Engine{Caps: caps}
	return e.Format(tmpl, args)
}

// Format renders tmpl against args. On error nothing is returned; output
// rendered before the failure is discarded.
func (e *Engine) Format(tmpl text.Text, args []any) (text.Text, error) {
	r := renderer{engine: e, caps: e.Caps}
	if r.caps == nil {
		r.caps = Native
	}
	if err := r.render(tmpl.Runes(), args); err != nil {
		return text.Empty, err
	}

	if e.Log != nil {
		e.Log.LogAttrs(context.Background(), slog.LevelDebug, "format rendered",
			slog.Int("directives", r.directives),
			slog.Int("args", len(args)),
			slog.Int("length", r.out.Len()))
	}
	return r.out.Text(), nil
}

type blockMode int

const (
	blockEach blockMode = iota
	blockSplat
	blockPairs
)

type renderer struct {
	engine     *Engine
	caps       Capabilities
	out        text.Builder
	directives int
}

// render writes src to the output, substituting from args with a cursor
// local to this call.
func (r *renderer) render(src []rune, args []any) error {
	cursor := 0
	next := func(directive []rune) (any, error) {
		if cursor >= len(args) {
			return nil, errors.New(errors.CodeArgumentUnderflow, map[string]any{
				"Directive": string(directive),
				"Index":     cursor + 1,
				"Count":     len(args),
			})
		}
		arg := args[cursor]
		cursor++
		return arg, nil
	}

	n := len(src)
	for i := 0; i < n; {
		if err := r.checkSize(); err != nil {
			return err
		}

		if src[i] != '%' {
			r.out.WriteRune(src[i])
			i++
			continue
		}

		start := i
		i++
		if i >= n {
			r.out.WriteRune('%')
			break
		}

		mode := blockEach
		j := i
		switch src[j] {
		case '*':
			mode = blockSplat
			j++
		case ':':
			mode = blockPairs
			j++
		}

		if j < n && src[j] == '[' {
			bodyStart := j + 1
			end := blockEnd(src, bodyStart)
			if end < 0 {
				r.writeRunes(src[start:bodyStart])
				i = bodyStart
				continue
			}
			r.directives++
			arg, err := next(src[start:bodyStart])
			if err != nil {
				return err
			}
			if err := r.block(mode, src[bodyStart:end], arg); err != nil {
				return err
			}
			i = end + 2
			continue
		}
		if mode != blockEach {
			// %* or %: not followed by [
			stop := min(j+1, n)
			r.writeRunes(src[start:stop])
			i = stop
			continue
		}

		negative := false
		if src[j] == '-' {
			negative = true
			j++
		}
		// width saturates just past the bound so long digit runs cannot overflow
		bound := r.engine.widthLimit()
		width := 0
		for j < n && src[j] >= '0' && src[j] <= '9' {
			if width <= bound {
				width = width*10 + int(src[j]-'0')
			}
			j++
		}

		if j < n && src[j] == 's' {
			r.directives++
			arg, err := next(src[start : j+1])
			if err != nil {
				return err
			}
			if err := r.insert(arg, width, negative); err != nil {
				return err
			}
			i = j + 1
			continue
		}

		stop := min(j+1, n)
		r.writeRunes(src[start:stop])
		i = stop
	}

	return r.checkSize()
}

// block renders body once per element of arg.
func (r *renderer) block(mode blockMode, body []rune, arg any) error {
	elems, err := r.sequence(arg)
	if err != nil {
		return err
	}

	for _, elem := range elems {
		var elemArgs []any
		switch mode {
		case blockSplat:
			members, err := r.sequence(elem)
			if err != nil {
				return err
			}
			elemArgs = members
		case blockPairs:
			splitter, ok := r.caps.(PairSplitter)
			if !ok {
				return errors.New(errors.CodeNotAPair, map[string]any{"Got": errors.TypeName(elem)})
			}
			first, second, err := splitter.ToPair(elem)
			if err != nil {
				if !stderrors.Is(err, errors.ErrNotAPair) {
					err = errors.Wrap(errors.CodeNotAPair, err, map[string]any{"Got": errors.TypeName(elem)})
				}
				return err
			}
			elemArgs = []any{first, second}
		default:
			elemArgs = []any{elem}
		}

		if err := r.render(body, elemArgs); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) sequence(v any) ([]any, error) {
	elems, err := r.caps.ToSequence(v)
	if err != nil {
		if !stderrors.Is(err, errors.ErrNotEnumerable) {
			err = errors.Wrap(errors.CodeNotEnumerable, err, map[string]any{"Got": errors.TypeName(v)})
		}
		return nil, err
	}
	return elems, nil
}

// insert writes the text of arg padded with spaces to width. Longer text is
// never truncated.
func (r *renderer) insert(arg any, width int, leftJustify bool) error {
	t, err := r.caps.ToText(arg)
	if err != nil {
		if !stderrors.Is(err, errors.ErrStringify) {
			err = errors.Wrap(errors.CodeStringify, err, map[string]any{"Got": errors.TypeName(arg)})
		}
		return err
	}

	if limit := r.engine.widthLimit(); width > limit {
		return errors.New(errors.CodeOutputTooLarge, map[string]any{"Max": limit})
	}
	pad := width - t.Len()
	if limit := r.engine.MaxOutput; limit > 0 && r.out.Len()+max(pad, 0)+t.Len() > limit {
		return errors.New(errors.CodeOutputTooLarge, map[string]any{"Max": limit})
	}
	if pad <= 0 {
		r.out.WriteText(t)
		return nil
	}
	spaces := strings.Repeat(" ", pad)
	if leftJustify {
		r.out.WriteText(t)
		r.out.WriteString(spaces)
	} else {
		r.out.WriteString(spaces)
		r.out.WriteText(t)
	}
	return nil
}

func (r *renderer) writeRunes(rs []rune) {
	for _, c := range rs {
		r.out.WriteRune(c)
	}
}

func (e *Engine) widthLimit() int {
	if e.MaxOutput > 0 {
		return min(e.MaxOutput, MaxWidth)
	}
	return MaxWidth
}

func (r *renderer) checkSize() error {
	limit := r.engine.MaxOutput
	if limit > 0 && r.out.Len() > limit {
		return errors.New(errors.CodeOutputTooLarge, map[string]any{"Max": limit})
	}
	return nil
}

// blockEnd returns the index of the '%' of the first "%]" at or after from,
// or -1.
func blockEnd(src []rune, from int) int {
	for i := from; i+1 < len(src); i++ {
		if src[i] == '%' && src[i+1] == ']' {
			return i
		}
	}
	return -1
}
