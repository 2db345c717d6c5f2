// Package ast defines the expression tree produced by the Ioke parser.
//
// String renders nodes in Ioke's canonical message form: operators become
// messages with one argument ("29 *(5)"), sends are separated by a space
// ("foo bar") and interpolated literals are lowered to a call of
// internal:concatenateText.
package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/sambeau/ioke/pkg/ioke/escape"
	"github.com/sambeau/ioke/pkg/ioke/lexer"
	"github.com/sambeau/ioke/pkg/ioke/text"
)

// ConcatenateTextName is the message an interpolated literal lowers to.
const ConcatenateTextName = "internal:concatenateText"

// Node represents any node in the AST
type Node interface {
	TokenLiteral() string
	String() string
}

// Expression represents expression nodes
type Expression interface {
	Node
	expressionNode()
}

// Program represents the root node of every AST
type Program struct {
	Expressions []Expression
}

func (p *Program) TokenLiteral() string {
	if len(p.Expressions) > 0 {
		return p.Expressions[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	parts := make([]string, len(p.Expressions))
	for i, e := range p.Expressions {
		parts[i] = e.String()
	}
	return strings.Join(parts, "\n")
}

// Message is a bare message, optionally with arguments: foo, format("x").
type Message struct {
	Token     lexer.Token
	Name      string
	Arguments []Expression
	HasParens bool
}

func (m *Message) expressionNode()      {}
func (m *Message) TokenLiteral() string { return m.Token.Literal }
func (m *Message) String() string {
	if !m.HasParens {
		return m.Name
	}
	return m.Name + "(" + joinExpressions(m.Arguments) + ")"
}

// Send is a message sent to the result of a receiver expression.
type Send struct {
	Token    lexer.Token // the message token
	Receiver Expression
	Message  *Message
}

func (s *Send) expressionNode()      {}
func (s *Send) TokenLiteral() string { return s.Token.Literal }
func (s *Send) String() string {
	return s.Receiver.String() + " " + s.Message.String()
}

// IntegerLiteral represents integer literals
type IntegerLiteral struct {
	Token lexer.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return strconv.FormatInt(il.Value, 10) }

// TextLiteral is a decoded literal segment.
type TextLiteral struct {
	Token lexer.Token
	Value text.Text
}

func (tl *TextLiteral) expressionNode()      {}
func (tl *TextLiteral) TokenLiteral() string { return tl.Token.Literal }
func (tl *TextLiteral) String() string       { return escape.Quote(tl.Value) }

// ConcatenateText is an interpolated literal: literal segments alternating
// with embedded expressions, always starting and ending with a segment.
type ConcatenateText struct {
	Token lexer.Token // the TEXT token
	Parts []Expression
}

func (ct *ConcatenateText) expressionNode()      {}
func (ct *ConcatenateText) TokenLiteral() string { return ct.Token.Literal }
func (ct *ConcatenateText) String() string {
	return ConcatenateTextName + "(" + joinExpressions(ct.Parts) + ")"
}

// Segments returns the literal parts.
func (ct *ConcatenateText) Segments() []*TextLiteral {
	var out []*TextLiteral
	for i := 0; i < len(ct.Parts); i += 2 {
		if lit, ok := ct.Parts[i].(*TextLiteral); ok {
			out = append(out, lit)
		}
	}
	return out
}

// Interpolations returns the embedded expressions.
func (ct *ConcatenateText) Interpolations() []Expression {
	var out []Expression
	for i := 1; i < len(ct.Parts); i += 2 {
		out = append(out, ct.Parts[i])
	}
	return out
}

// PrefixExpression represents prefix expressions like '-x' or '!x'
type PrefixExpression struct {
	Token    lexer.Token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	return pe.Operator + "(" + pe.Right.String() + ")"
}

// InfixExpression is a binary operator. Assignment and ranges are infix
// expressions too.
type InfixExpression struct {
	Token    lexer.Token // the operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
}

func (oe *InfixExpression) expressionNode()      {}
func (oe *InfixExpression) TokenLiteral() string { return oe.Token.Literal }
func (oe *InfixExpression) String() string {
	var out bytes.Buffer

	out.WriteString(oe.Left.String())
	out.WriteString(" " + oe.Operator + "(")
	out.WriteString(oe.Right.String())
	out.WriteString(")")

	return out.String()
}

// IndexExpression represents receiver[index]
type IndexExpression struct {
	Token lexer.Token // the [ token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) String() string {
	return ie.Left.String() + "[" + ie.Index.String() + "]"
}

// ListLiteral represents [a, b, c]
type ListLiteral struct {
	Token    lexer.Token // the [ token
	Elements []Expression
}

func (ll *ListLiteral) expressionNode()      {}
func (ll *ListLiteral) TokenLiteral() string { return ll.Token.Literal }
func (ll *ListLiteral) String() string {
	return "[" + joinExpressions(ll.Elements) + "]"
}

func joinExpressions(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// HostExpression is interpolated code compiled by an external expression
// engine. Run evaluates it against the visible bindings.
type HostExpression struct {
	Token  lexer.Token
	Source string
	Run    func(vars map[string]any) (any, error)
}

func (he *HostExpression) expressionNode()      {}
func (he *HostExpression) TokenLiteral() string { return he.Token.Literal }
func (he *HostExpression) String() string       { return strings.TrimSpace(he.Source) }
