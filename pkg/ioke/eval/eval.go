// Package eval evaluates parsed Ioke expressions.
//
// The value model is small: text.Text, int64, bool, nil, text.Range for
// integer ranges and []any for lists. Messages sent to a Text dispatch
// through methods.TextMethods; interpolated literals evaluate their parts
// and join them with methods.Concatenate.
package eval

import (
	"cmp"
	"context"
	stderrors "errors"
	"log/slog"
	"reflect"

	"github.com/sambeau/ioke/pkg/ioke/ast"
	"github.com/sambeau/ioke/pkg/ioke/errors"
	"github.com/sambeau/ioke/pkg/ioke/lexer"
	"github.com/sambeau/ioke/pkg/ioke/methods"
	"github.com/sambeau/ioke/pkg/ioke/text"
)

// EvalProgram evaluates each expression in order and returns the last value.
func EvalProgram(program *ast.Program, env *Env) (any, error) {
	var result any
	for _, expr := range program.Expressions {
		val, err := Eval(expr, env)
		if err != nil {
			if env.Log != nil {
				env.Log.LogAttrs(context.Background(), slog.LevelDebug, "evaluation failed",
					slog.String("expression", expr.String()),
					slog.String("error", err.Error()))
			}
			return nil, err
		}
		result = val
	}
	return result, nil
}

// Eval evaluates a single node.
func Eval(node ast.Node, env *Env) (any, error) {
	switch node := node.(type) {
	case *ast.Program:
		return EvalProgram(node, env)

	case *ast.IntegerLiteral:
		return node.Value, nil

	case *ast.TextLiteral:
		return node.Value, nil

	case *ast.ConcatenateText:
		parts, err := evalExpressions(node.Parts, env)
		if err != nil {
			return nil, err
		}
		return concatenate(parts, env, node.Token)

	case *ast.ListLiteral:
		return evalExpressions(node.Elements, env)

	case *ast.Message:
		return evalMessage(node, env)

	case *ast.Send:
		recv, err := Eval(node.Receiver, env)
		if err != nil {
			return nil, err
		}
		args, err := evalExpressions(node.Message.Arguments, env)
		if err != nil {
			return nil, err
		}
		val, err := send(recv, node.Message.Name, args, env)
		return val, at(err, node.Message.Token)

	case *ast.PrefixExpression:
		right, err := Eval(node.Right, env)
		if err != nil {
			return nil, err
		}
		val, err := evalPrefix(node.Operator, right)
		return val, at(err, node.Token)

	case *ast.InfixExpression:
		return evalInfix(node, env)

	case *ast.HostExpression:
		val, err := node.Run(env.hostVars())
		if err != nil {
			return nil, at(errors.Wrap(errors.CodeHostExpression, err, map[string]any{"Source": node.String()}), node.Token)
		}
		return fromHost(val), nil

	case *ast.IndexExpression:
		left, err := Eval(node.Left, env)
		if err != nil {
			return nil, err
		}
		index, err := Eval(node.Index, env)
		if err != nil {
			return nil, err
		}
		val, err := evalIndex(left, index, env)
		return val, at(err, node.Token)
	}

	return nil, errors.NewSimple(errors.ClassType, "cannot evaluate node")
}

func evalExpressions(exprs []ast.Expression, env *Env) ([]any, error) {
	out := make([]any, 0, len(exprs))
	for _, e := range exprs {
		val, err := Eval(e, env)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

func concatenate(parts []any, env *Env, tok lexer.Token) (any, error) {
	t, err := methods.Concatenate(parts, env.caps())
	if err != nil {
		return nil, at(err, tok)
	}
	return t, nil
}

// evalMessage resolves a message with no explicit receiver.
func evalMessage(node *ast.Message, env *Env) (any, error) {
	if node.Name == methods.ConcatenateName {
		parts, err := evalExpressions(node.Arguments, env)
		if err != nil {
			return nil, err
		}
		return concatenate(parts, env, node.Token)
	}

	val, ok := env.Get(node.Name)
	if !ok {
		return nil, at(errors.NewUndefinedIdentifier(node.Name, env.Names()), node.Token)
	}
	if len(node.Arguments) > 0 {
		return nil, at(errors.New(errors.CodeArity, map[string]any{
			"Function": node.Name,
			"Got":      len(node.Arguments),
			"Want":     "0",
		}), node.Token)
	}
	return val, nil
}

// send dispatches a message to an evaluated receiver.
func send(recv any, name string, args []any, env *Env) (any, error) {
	if t, ok := recv.(text.Text); ok {
		return methods.Send(t, name, args, env.methodContext())
	}

	switch name {
	case "asText":
		if len(args) == 0 {
			return env.caps().ToText(recv)
		}
	case "==", "!=":
		if len(args) == 1 {
			eq := valuesEqual(recv, args[0])
			return eq == (name == "=="), nil
		}
	}
	return nil, errors.NewUndefinedMethod(name, errors.TypeName(recv), []string{"asText", "==", "!="})
}

func evalPrefix(op string, right any) (any, error) {
	switch op {
	case "!":
		return !truthy(right), nil
	case "-":
		if n, ok := right.(int64); ok {
			return -n, nil
		}
		return nil, argumentType("-", "an integer", right)
	}
	return nil, errors.NewUndefinedMethod(op, errors.TypeName(right), nil)
}

func evalInfix(node *ast.InfixExpression, env *Env) (any, error) {
	switch node.Operator {
	case "=":
		target, ok := node.Left.(*ast.Message)
		if !ok {
			return nil, at(errors.New(errors.CodeUnexpectedToken, map[string]any{"Token": "assignment target"}), node.Token)
		}
		val, err := Eval(node.Right, env)
		if err != nil {
			return nil, err
		}
		return env.Set(target.Name, val), nil

	case "&&", "||":
		left, err := Eval(node.Left, env)
		if err != nil {
			return nil, err
		}
		if truthy(left) == (node.Operator == "||") {
			return left, nil
		}
		return Eval(node.Right, env)
	}

	left, err := Eval(node.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := Eval(node.Right, env)
	if err != nil {
		return nil, err
	}
	val, err := binary(node.Operator, left, right, env)
	return val, at(err, node.Token)
}

func binary(op string, left, right any, env *Env) (any, error) {
	if t, ok := left.(text.Text); ok {
		switch op {
		case "==", "!=", "<=>":
			return methods.Send(t, op, []any{right}, env.methodContext())
		case "<", ">", "<=", ">=":
			other, ok := right.(text.Text)
			if !ok {
				return nil, argumentType(op, "a text", right)
			}
			return ordered(op, t.Compare(other)), nil
		}
		return nil, errors.NewUndefinedMethod(op, t.Kind(), methods.TextMethods.Names())
	}

	switch op {
	case "==":
		return valuesEqual(left, right), nil
	case "!=":
		return !valuesEqual(left, right), nil
	}

	l, lok := left.(int64)
	r, rok := right.(int64)
	if !lok {
		return nil, argumentType(op, "an integer", left)
	}
	if !rok {
		return nil, argumentType(op, "an integer", right)
	}

	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/", "%":
		if r == 0 {
			return nil, errors.NewSimple(errors.ClassType, "division by zero")
		}
		if op == "/" {
			return l / r, nil
		}
		return l % r, nil
	case "<=>":
		return int64(cmp.Compare(l, r)), nil
	case "<", ">", "<=", ">=":
		return ordered(op, cmp.Compare(l, r)), nil
	case "..":
		return text.Inclusive(int(l), int(r)), nil
	case "...":
		return text.Exclusive(int(l), int(r)), nil
	}
	return nil, errors.NewUndefinedMethod(op, "Integer", nil)
}

func evalIndex(left, index any, env *Env) (any, error) {
	switch l := left.(type) {
	case text.Text:
		return methods.Send(l, "[]", []any{index}, env.methodContext())
	case []any:
		switch idx := index.(type) {
		case int64:
			i, ok := text.ResolveIndex(int(idx), len(l))
			if !ok {
				return nil, nil
			}
			return l[i], nil
		case text.Range:
			start, end, ok := text.ResolveRange(idx, len(l))
			if !ok {
				return []any{}, nil
			}
			return append([]any{}, l[start:end]...), nil
		}
		return nil, argumentType("[]", "an integer or a range", index)
	}
	return nil, errors.NewUndefinedMethod("[]", errors.TypeName(left), nil)
}

// fromHost maps values returned by an external engine onto the value model.
func fromHost(v any) any {
	switch v := v.(type) {
	case string:
		return text.New(v)
	case int:
		return int64(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = fromHost(e)
		}
		return out
	}
	return v
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	}
	return true
}

func valuesEqual(a, b any) bool {
	if ta, ok := a.(text.Text); ok {
		tb, ok := b.(text.Text)
		return ok && ta.Equals(tb)
	}
	return reflect.DeepEqual(a, b)
}

func ordered(op string, c int) bool {
	switch op {
	case "<":
		return c < 0
	case ">":
		return c > 0
	case "<=":
		return c <= 0
	}
	return c >= 0
}

func argumentType(op, expected string, got any) error {
	return errors.New(errors.CodeArgumentType, map[string]any{
		"Function": op,
		"Expected": expected,
		"Got":      errors.TypeName(got),
	})
}

// at attaches tok's position to an IokeError that has none.
func at(err error, tok lexer.Token) error {
	if err == nil {
		return nil
	}
	var ie *errors.IokeError
	if stderrors.As(err, &ie) && ie.Line == 0 && tok.Line > 0 {
		ie.Line = tok.Line
		ie.Column = tok.Column
	}
	return err
}
