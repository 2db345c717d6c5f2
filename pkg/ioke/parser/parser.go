// Package parser implements a Pratt parser for Ioke message chains.
//
// It is the expression parser that text literal interpolation calls back
// into: every TEXT token is handed to an interp.Parser whose ExprParser is
// this package's ParseExpression, so literals nested in interpolations are
// parsed by the same recursive pair.
package parser

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/sambeau/ioke/pkg/ioke/ast"
	"github.com/sambeau/ioke/pkg/ioke/errors"
	"github.com/sambeau/ioke/pkg/ioke/interp"
	"github.com/sambeau/ioke/pkg/ioke/lexer"
)

// DefaultMaxDepth is the interpolation nesting limit used when none is set.
const DefaultMaxDepth = 64

// Precedence levels for operators
const (
	_ int = iota
	LOWEST
	ASSIGN      // =
	LOGIC_OR    // ||
	LOGIC_AND   // &&
	EQUALS      // ==
	LESSGREATER // > or <
	RANGE       // ..
	SUM         // +
	PRODUCT     // *
	PREFIX      // -X or !X
	SEND        // receiver message
	INDEX       // text[index]
)

// precedences maps tokens to their precedence
var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:    ASSIGN,
	lexer.OR:        LOGIC_OR,
	lexer.AND:       LOGIC_AND,
	lexer.EQ:        EQUALS,
	lexer.NOT_EQ:    EQUALS,
	lexer.LT:        LESSGREATER,
	lexer.GT:        LESSGREATER,
	lexer.LTE:       LESSGREATER,
	lexer.GTE:       LESSGREATER,
	lexer.SPACESHIP: LESSGREATER,
	lexer.RANGE:     RANGE,
	lexer.XRANGE:    RANGE,
	lexer.PLUS:      SUM,
	lexer.MINUS:     SUM,
	lexer.ASTERISK:  PRODUCT,
	lexer.SLASH:     PRODUCT,
	lexer.PERCENT:   PRODUCT,
	lexer.IDENT:     SEND,
	lexer.LBRACKET:  INDEX,
}

// Options configures a Parser.
type Options struct {
	// MaxDepth bounds interpolation nesting inside text literals. Zero
	// selects DefaultMaxDepth and a negative value removes the bound.
	MaxDepth int
	// Log receives debug events.
	Log *slog.Logger
	// Embedded parses interpolated code instead of this parser when set.
	Embedded interp.ExprParser
}

// Parser represents the parser
type Parser struct {
	l    *lexer.Lexer
	opts Options

	structuredErrors []*errors.IokeError

	prevToken lexer.Token
	curToken  lexer.Token
	peekToken lexer.Token

	// parens counts open ( and [ so newlines inside them are not terminators.
	parens int

	literals *interp.Parser

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// New creates a new parser instance with default options.
func New(l *lexer.Lexer) *Parser {
	return NewWithOptions(l, Options{})
}

// NewWithOptions creates a parser with explicit options.
func NewWithOptions(l *lexer.Lexer, opts Options) *Parser {
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxDepth < 0 {
		opts.MaxDepth = 0
	}
	l.SetMaxDepth(opts.MaxDepth)

	p := &Parser{
		l:    l,
		opts: opts,
	}
	embedded := opts.Embedded
	if embedded == nil {
		embedded = opts.ParseExpression
	}
	p.literals = &interp.Parser{
		Expr:     embedded,
		MaxDepth: opts.MaxDepth,
		Log:      opts.Log,
	}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseMessage)
	p.registerPrefix(lexer.INT, p.parseIntegerLiteral)
	p.registerPrefix(lexer.TEXT, p.parseTextLiteral)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpression)
	p.registerPrefix(lexer.BANG, p.parsePrefixExpression)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(lexer.LBRACKET, p.parseListLiteral)
	p.registerPrefix(lexer.ILLEGAL, p.parseIllegal)

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	for _, tt := range []lexer.TokenType{
		lexer.OR, lexer.AND, lexer.EQ, lexer.NOT_EQ, lexer.LT, lexer.GT,
		lexer.LTE, lexer.GTE, lexer.SPACESHIP, lexer.RANGE, lexer.XRANGE,
		lexer.PLUS, lexer.MINUS, lexer.ASTERISK, lexer.SLASH, lexer.PERCENT,
	} {
		p.registerInfix(tt, p.parseInfixExpression)
	}
	p.registerInfix(lexer.ASSIGN, p.parseAssignment)
	p.registerInfix(lexer.IDENT, p.parseSend)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// ParseExpression parses src, which starts at position at, as a single
// expression. It is the callback used for interpolated code.
func (o Options) ParseExpression(src string, at lexer.Position) (ast.Expression, error) {
	p := NewWithOptions(lexer.NewAt(src, at), o)
	program := p.ParseProgram()
	if err := p.Err(); err != nil {
		return nil, err
	}
	switch len(program.Expressions) {
	case 0:
		return nil, errors.NewWithPosition(errors.CodeUnexpectedToken, at.Line, at.Column,
			map[string]any{"Token": "end of interpolation"})
	case 1:
		return program.Expressions[0], nil
	}
	second := program.Expressions[1]
	tok := firstToken(second)
	return nil, errors.NewWithPosition(errors.CodeUnexpectedToken, tok.Line, tok.Column,
		map[string]any{"Token": fmt.Sprintf("'%s' after interpolated expression", tok.Literal)})
}

// ParseExpression parses a single expression with default options.
func ParseExpression(src string, at lexer.Position) (ast.Expression, error) {
	return Options{}.ParseExpression(src, at)
}

// Parse parses a whole program with default options.
func Parse(src string) (*ast.Program, error) {
	p := New(lexer.New(src))
	program := p.ParseProgram()
	if err := p.Err(); err != nil {
		return nil, err
	}
	return program, nil
}

// Errors returns parser errors as strings (convenience method for tests).
func (p *Parser) Errors() []string {
	result := make([]string, len(p.structuredErrors))
	for i, err := range p.structuredErrors {
		result[i] = err.Error()
	}
	return result
}

// StructuredErrors returns parser errors as structured IokeError objects.
func (p *Parser) StructuredErrors() []*errors.IokeError {
	return p.structuredErrors
}

// Err returns the first parse error, or nil.
func (p *Parser) Err() error {
	if len(p.structuredErrors) == 0 {
		return nil
	}
	return p.structuredErrors[0]
}

// addError records err. Only the first error is kept; later ones are usually
// cascading noise.
func (p *Parser) addError(err error) {
	if len(p.structuredErrors) > 0 {
		return
	}
	ie, ok := err.(*errors.IokeError)
	if !ok {
		ie = &errors.IokeError{
			Class:   errors.ClassParse,
			Code:    errors.CodeUnexpectedToken,
			Message: err.Error(),
			Line:    p.curToken.Line,
			Column:  p.curToken.Column,
			Cause:   err,
		}
	}
	p.structuredErrors = append(p.structuredErrors, ie)
}

// addStructuredError adds a structured error from the catalog.
func (p *Parser) addStructuredError(code string, line, column int, data map[string]any) {
	p.addError(errors.NewWithPosition(code, line, column, data))
}

// registerPrefix registers a prefix parse function
func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix registers an infix parse function
func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// nextToken advances prevToken, curToken, and peekToken. Inside brackets
// newlines are skipped.
func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	for p.parens > 0 && p.peekToken.Type == lexer.TERMINATOR && p.peekToken.Literal == "\n" {
		p.peekToken = p.l.NextToken()
	}
}

// ParseProgram parses the program and returns the AST
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.TERMINATOR) {
			p.nextToken()
			continue
		}
		expr := p.parseExpression(LOWEST)
		if len(p.structuredErrors) > 0 {
			break
		}
		if expr != nil {
			program.Expressions = append(program.Expressions, expr)
		}
		if !p.peekTokenIs(lexer.TERMINATOR) && !p.peekTokenIs(lexer.EOF) {
			p.nextToken()
			p.noInfixError()
			break
		}
		p.nextToken()
	}

	return program
}

// parseExpression parses expressions using Pratt parsing
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}

	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for !p.peekTokenIs(lexer.TERMINATOR) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}

	return leftExp
}

// parseMessage parses a bare message with optional arguments.
func (p *Parser) parseMessage() ast.Expression {
	msg := &ast.Message{Token: p.curToken, Name: p.curToken.Literal}
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		msg.HasParens = true
		msg.Arguments = p.parseExpressionList(lexer.RPAREN)
		if msg.Arguments == nil {
			return nil
		}
	}
	return msg
}

// parseSend parses "receiver message".
func (p *Parser) parseSend(receiver ast.Expression) ast.Expression {
	tok := p.curToken
	msg, ok := p.parseMessage().(*ast.Message)
	if !ok || msg == nil {
		return nil
	}
	return &ast.Send{Token: tok, Receiver: receiver, Message: msg}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}

	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.addError(errors.NewWithPosition(errors.CodeUnexpectedToken, p.curToken.Line, p.curToken.Column,
			map[string]any{"Token": fmt.Sprintf("integer %q (out of range)", p.curToken.Literal)}))
		return nil
	}

	lit.Value = value
	return lit
}

// parseTextLiteral hands the literal body to the interpolation parser.
func (p *Parser) parseTextLiteral() ast.Expression {
	expr, err := p.literals.ParseToken(p.curToken)
	if err != nil {
		p.addError(err)
		return nil
	}
	return expr
}

func (p *Parser) parseIllegal() ast.Expression {
	if p.curToken.Err != nil {
		p.addError(p.curToken.Err)
	} else {
		p.noPrefixParseFnError(p.curToken)
	}
	return nil
}

// parsePrefixExpression parses -x and !x. A minus directly before an
// integer literal folds into a negative literal.
func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	if expression.Operator == "-" && p.peekTokenIs(lexer.INT) {
		p.nextToken()
		lit, ok := p.parseIntegerLiteral().(*ast.IntegerLiteral)
		if !ok || lit == nil {
			return nil
		}
		lit.Value = -lit.Value
		lit.Token.Literal = "-" + lit.Token.Literal
		lit.Token.Column = expression.Token.Column
		return lit
	}

	p.nextToken()

	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Literal,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

// parseAssignment parses "name = value"; assignment is right associative.
func (p *Parser) parseAssignment(left ast.Expression) ast.Expression {
	target, ok := left.(*ast.Message)
	if !ok || target.HasParens {
		p.addStructuredError(errors.CodeUnexpectedToken, p.curToken.Line, p.curToken.Column,
			map[string]any{"Token": fmt.Sprintf("'=' after %s (can only assign to a name)", left.String())})
		return nil
	}

	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Left:     target,
		Operator: "=",
	}
	p.nextToken()
	expression.Right = p.parseExpression(ASSIGN - 1)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.parens++
	p.skipNewlines()
	p.nextToken()

	exp := p.parseExpression(LOWEST)
	p.parens--
	if exp == nil {
		return nil
	}

	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}

	return exp
}

func (p *Parser) parseListLiteral() ast.Expression {
	list := &ast.ListLiteral{Token: p.curToken}
	list.Elements = p.parseExpressionList(lexer.RBRACKET)
	if list.Elements == nil {
		return nil
	}
	return list
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left}

	p.parens++
	p.skipNewlines()
	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)
	p.parens--
	if exp.Index == nil {
		return nil
	}

	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}

	return exp
}

// parseExpressionList parses comma separated expressions up to end. The
// current token is the opening delimiter. A nil result means an error was
// recorded; an empty list is returned as a non-nil empty slice.
func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	args := []ast.Expression{}

	p.parens++
	p.skipNewlines()

	if !p.peekTokenIs(end) {
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			p.parens--
			return nil
		}
		args = append(args, arg)

		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken() // consume comma
			if p.peekTokenIs(end) {
				break
			}
			p.nextToken()
			arg := p.parseExpression(LOWEST)
			if arg == nil {
				p.parens--
				return nil
			}
			args = append(args, arg)
		}
	}

	// The token after the closing delimiter is read outside the brackets.
	p.parens--
	if !p.expectPeek(end) {
		return nil
	}

	return args
}

// skipNewlines drops newline terminators already buffered in peekToken.
func (p *Parser) skipNewlines() {
	for p.peekToken.Type == lexer.TERMINATOR && p.peekToken.Literal == "\n" {
		p.peekToken = p.l.NextToken()
	}
}

// Helper functions
func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) peekError(t lexer.TokenType) {
	if p.peekToken.Type == lexer.ILLEGAL && p.peekToken.Err != nil {
		p.addError(p.peekToken.Err)
		return
	}
	p.addStructuredError(errors.CodeUnexpectedToken, p.peekToken.Line, p.peekToken.Column,
		map[string]any{"Token": fmt.Sprintf("%s, expected '%s'", describe(p.peekToken), t)})
}

func (p *Parser) noPrefixParseFnError(tok lexer.Token) {
	p.addStructuredError(errors.CodeUnexpectedToken, tok.Line, tok.Column,
		map[string]any{"Token": describe(tok)})
}

func (p *Parser) noInfixError() {
	if p.curToken.Type == lexer.ILLEGAL && p.curToken.Err != nil {
		p.addError(p.curToken.Err)
		return
	}
	p.noPrefixParseFnError(p.curToken)
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.TERMINATOR:
		if tok.Literal == "\n" {
			return "end of line"
		}
	case lexer.TEXT:
		return "text literal"
	}
	return fmt.Sprintf("'%s'", tok.Literal)
}

// firstToken finds the leftmost token of an expression, for positions.
func firstToken(e ast.Expression) lexer.Token {
	switch n := e.(type) {
	case *ast.Send:
		return firstToken(n.Receiver)
	case *ast.InfixExpression:
		return firstToken(n.Left)
	case *ast.IndexExpression:
		return firstToken(n.Left)
	case *ast.Message:
		return n.Token
	case *ast.IntegerLiteral:
		return n.Token
	case *ast.TextLiteral:
		return n.Token
	case *ast.ConcatenateText:
		return n.Token
	case *ast.PrefixExpression:
		return n.Token
	case *ast.ListLiteral:
		return n.Token
	}
	return lexer.Token{}
}
