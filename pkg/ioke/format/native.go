package format

import (
	"cmp"
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/sambeau/ioke/pkg/ioke/errors"
	"github.com/sambeau/ioke/pkg/ioke/text"
)

// Pair is a two-member value, as produced by enumerating a map.
type Pair struct {
	First  any
	Second any
}

// String renders the pair as "first => second".
func (p Pair) String() string {
	return fmt.Sprintf("%s => %s", mustText(p.First), mustText(p.Second))
}

// Kind names Pair in error messages.
func (p Pair) Kind() string { return "Pair" }

// TextConverter is implemented by host values that know their own text.
type TextConverter interface {
	AsText() (text.Text, error)
}

// Sequencer is implemented by host values that enumerate lazily.
type Sequencer interface {
	All() iter.Seq[any]
}

// NativeCapabilities converts plain Go values. Texts and strings stringify
// to themselves, slices and arrays enumerate in order, and maps enumerate as
// Pairs sorted by the text of their keys.
type NativeCapabilities struct{}

// Native is the default capability set.
var Native = NativeCapabilities{}

// ToText implements Capabilities.
func (NativeCapabilities) ToText(v any) (text.Text, error) {
	switch x := v.(type) {
	case nil:
		return text.New("nil"), nil
	case text.Text:
		return x, nil
	case *text.Text:
		if x == nil {
			return text.New("nil"), nil
		}
		return *x, nil
	case string:
		return text.New(x), nil
	case TextConverter:
		return x.AsText()
	case error:
		return text.New(x.Error()), nil
	case fmt.Stringer:
		return text.New(x.String()), nil
	case bool:
		return text.New(strconv.FormatBool(x)), nil
	case int:
		return text.New(strconv.Itoa(x)), nil
	case int64:
		return text.New(strconv.FormatInt(x, 10)), nil
	case float64:
		return text.New(strconv.FormatFloat(x, 'g', -1, 64)), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		var b strings.Builder
		b.WriteByte('[')
		for i := range rv.Len() {
			if i > 0 {
				b.WriteString(", ")
			}
			t, err := Native.ToText(rv.Index(i).Interface())
			if err != nil {
				return text.Empty, err
			}
			b.WriteString(t.String())
		}
		b.WriteByte(']')
		return text.New(b.String()), nil
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return text.Empty, errors.New(errors.CodeStringify, map[string]any{"Got": errors.TypeName(v)})
	}
	return text.New(fmt.Sprint(v)), nil
}

// ToSequence implements Capabilities.
func (NativeCapabilities) ToSequence(v any) ([]any, error) {
	switch x := v.(type) {
	case nil, text.Text, *text.Text, string:
		return nil, notEnumerable(v)
	case []any:
		return x, nil
	case iter.Seq[any]:
		return slices.Collect(x), nil
	case Sequencer:
		return slices.Collect(x.All()), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	case reflect.Map:
		out := make([]any, 0, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			out = append(out, Pair{First: it.Key().Interface(), Second: it.Value().Interface()})
		}
		slices.SortFunc(out, func(a, b any) int {
			return cmp.Compare(mustText(a.(Pair).First), mustText(b.(Pair).First))
		})
		return out, nil
	}
	return nil, notEnumerable(v)
}

// ToPair implements PairSplitter. Pairs split into their members and any
// two-element sequence splits into its elements.
func (NativeCapabilities) ToPair(v any) (first, second any, err error) {
	switch x := v.(type) {
	case Pair:
		return x.First, x.Second, nil
	case *Pair:
		if x != nil {
			return x.First, x.Second, nil
		}
	case nil, text.Text, *text.Text, string:
	default:
		elems, err := Native.ToSequence(v)
		if err == nil && len(elems) == 2 {
			return elems[0], elems[1], nil
		}
	}
	return nil, nil, errors.New(errors.CodeNotAPair, map[string]any{"Got": errors.TypeName(v)})
}

func notEnumerable(v any) error {
	return errors.New(errors.CodeNotEnumerable, map[string]any{"Got": errors.TypeName(v)})
}

// mustText stringifies v, falling back to Go formatting on error.
func mustText(v any) string {
	t, err := Native.ToText(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return t.String()
}
