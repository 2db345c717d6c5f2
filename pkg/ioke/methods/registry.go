// Package methods holds the declarative method table for Text values and the
// concatenation primitive that interpolated literals evaluate through.
package methods

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sambeau/ioke/pkg/ioke/errors"
	"github.com/sambeau/ioke/pkg/ioke/format"
	"github.com/sambeau/ioke/pkg/ioke/text"
)

// Context carries what a method may need beyond its receiver and arguments.
type Context struct {
	// Formatter renders format templates. Nil means a default engine with
	// Native capabilities.
	Formatter *format.Engine
}

func (c *Context) formatter() *format.Engine {
	if c == nil || c.Formatter == nil {
		return &format.Engine{}
	}
	return c.Formatter
}

// MethodFunc implements one method. A nil result with a nil error is the
// absent value.
type MethodFunc func(recv text.Text, args []any, ctx *Context) (any, error)

// MethodEntry is a method implementation with its metadata.
type MethodEntry struct {
	Fn          MethodFunc
	Arity       string // "0", "1", "0-1", "0+", ...
	Description string
}

// MethodInfo describes a method for introspection.
type MethodInfo struct {
	Name        string
	Arity       string
	Description string
}

// MethodRegistry maps method names to entries.
type MethodRegistry map[string]MethodEntry

// Names returns the method names in sorted order.
func (r MethodRegistry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the entry for name.
func (r MethodRegistry) Get(name string) (MethodEntry, bool) {
	entry, ok := r[name]
	return entry, ok
}

// Infos lists every method sorted by name.
func (r MethodRegistry) Infos() []MethodInfo {
	infos := make([]MethodInfo, 0, len(r))
	for _, name := range r.Names() {
		entry := r[name]
		infos = append(infos, MethodInfo{Name: name, Arity: entry.Arity, Description: entry.Description})
	}
	return infos
}

// Dispatch looks up name in r and calls it. Unknown names fail with a
// suggestion drawn from the registry.
func (r MethodRegistry) Dispatch(recv text.Text, name string, args []any, ctx *Context) (any, error) {
	entry, ok := r.Get(name)
	if !ok {
		return nil, errors.NewUndefinedMethod(name, recv.Kind(), r.Names())
	}
	if !checkArity(entry.Arity, len(args)) {
		return nil, errors.New(errors.CodeArity, map[string]any{
			"Function": name,
			"Got":      len(args),
			"Want":     describeArity(entry.Arity),
		})
	}
	return entry.Fn(recv, args, ctx)
}

// Send dispatches name on recv through the Text registry.
func Send(recv text.Text, name string, args []any, ctx *Context) (any, error) {
	return TextMethods.Dispatch(recv, name, args, ctx)
}

// checkArity reports whether got satisfies spec. Specs are an exact count
// ("1"), an inclusive range ("0-1") or a minimum ("1+").
func checkArity(spec string, got int) bool {
	spec = strings.TrimSpace(spec)

	if exact, err := strconv.Atoi(spec); err == nil {
		return got == exact
	}

	if lo, hi, found := strings.Cut(spec, "-"); found {
		minVal, errMin := strconv.Atoi(lo)
		maxVal, errMax := strconv.Atoi(hi)
		if errMin == nil && errMax == nil {
			return got >= minVal && got <= maxVal
		}
	}

	if suffix, found := strings.CutSuffix(spec, "+"); found {
		if minVal, err := strconv.Atoi(suffix); err == nil {
			return got >= minVal
		}
	}

	// unknown spec
	return true
}

func describeArity(spec string) string {
	if lo, hi, found := strings.Cut(spec, "-"); found {
		return lo + " to " + hi
	}
	if suffix, found := strings.CutSuffix(spec, "+"); found {
		return "at least " + suffix
	}
	return spec
}
