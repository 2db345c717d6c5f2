package eval

import (
	"io"
	"log/slog"
	"sort"

	"github.com/sambeau/ioke/pkg/ioke/format"
	"github.com/sambeau/ioke/pkg/ioke/methods"
	"github.com/sambeau/ioke/pkg/ioke/text"
)

// Env is a scope of named values plus the services evaluation draws on.
type Env struct {
	store map[string]any
	outer *Env

	// Formatter renders format templates for Text's format method.
	Formatter *format.Engine
	// Caps stringifies interpolated values. Nil means format.Native.
	Caps format.Capabilities
	// Log receives debug events.
	Log *slog.Logger
}

// NewEnv returns a root scope with nil, true and false bound.
func NewEnv() *Env {
	env := &Env{
		store: map[string]any{
			"nil":   nil,
			"true":  true,
			"false": false,
		},
		Formatter: &format.Engine{},
		Log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return env
}

// NewEnclosedEnv returns a scope whose lookups fall back to outer.
func NewEnclosedEnv(outer *Env) *Env {
	return &Env{
		store:     map[string]any{},
		outer:     outer,
		Formatter: outer.Formatter,
		Caps:      outer.Caps,
		Log:       outer.Log,
	}
}

// Get looks name up in this scope and then the enclosing ones.
func (e *Env) Get(name string) (any, bool) {
	value, ok := e.store[name]
	if !ok && e.outer != nil {
		value, ok = e.outer.Get(name)
	}
	return value, ok
}

// Set binds name in this scope.
func (e *Env) Set(name string, val any) any {
	e.store[name] = val
	return val
}

// Names returns every visible name, sorted.
func (e *Env) Names() []string {
	seen := map[string]bool{}
	for s := e; s != nil; s = s.outer {
		for name := range s.store {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// hostVars exposes the visible bindings to an external engine, with texts
// as Go strings.
func (e *Env) hostVars() map[string]any {
	vars := map[string]any{}
	for _, name := range e.Names() {
		v, _ := e.Get(name)
		vars[name] = toHost(v)
	}
	return vars
}

func toHost(v any) any {
	switch v := v.(type) {
	case text.Text:
		return v.String()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = toHost(e)
		}
		return out
	}
	return v
}

func (e *Env) caps() format.Capabilities {
	if e.Caps == nil {
		return format.Native
	}
	return e.Caps
}

func (e *Env) methodContext() *methods.Context {
	return &methods.Context{Formatter: e.Formatter}
}
