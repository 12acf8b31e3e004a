// Package parser drives an internal/lexer.Scanner directly to build
// internal/ast trees: skip blank lines, check indentation, try each
// statement alternative in order, repeat. Indentation is threaded as an
// explicit parameter rather than mutable parser state, since nothing
// here runs concurrently.
package parser

import (
	"github.com/cpcgskill/tentacle/internal/ast"
	"github.com/cpcgskill/tentacle/internal/lexer"
	"github.com/cpcgskill/tentacle/internal/terrors"
)

// Parser wraps a Scanner with the statement/expression grammar.
type Parser struct {
	s *lexer.Scanner
}

// New creates a Parser over src.
func New(src string) *Parser {
	return &Parser{s: lexer.New(src)}
}

func (p *Parser) syntaxErr() error {
	return terrors.NewSyntax(p.s.Line())
}

// Parse parses a complete module: every line of src must be consumed by
// the resulting statement sequence.
func Parse(src string) (ast.Module, error) {
	p := New(src)
	body, err := p.parseBlock(0)
	if err != nil {
		return ast.Module{}, err
	}
	p.skipBlankLines()
	if !p.s.Eof() {
		return ast.Module{}, p.syntaxErr()
	}
	return ast.Module{Body: body}, nil
}

// ParseExpr parses a single standalone expression, consuming optional
// surrounding horizontal space but requiring the whole input to be one
// expression.
func ParseExpr(src string) (ast.Node, error) {
	p := New(src)
	n, ok, err := p.tryExpr()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.syntaxErr()
	}
	p.s.SkipHSpace()
	if !p.s.Eof() {
		return nil, p.syntaxErr()
	}
	return n, nil
}

// ---- blocks ----

func (p *Parser) skipBlankLines() {
	for {
		start, startLine := p.s.Pos(), p.s.Line()
		p.s.SkipHSpace()
		if p.s.ConsumeNewline() {
			continue
		}
		if p.s.Eof() {
			return
		}
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return
	}
}

// parseBlock parses the maximal run of statements indented at exactly
// `required` units, stopping (without consuming) at the first line whose
// indentation differs or at EOF.
func (p *Parser) parseBlock(required int) ([]ast.Node, error) {
	var body []ast.Node
	for {
		p.skipBlankLines()
		if p.s.Eof() {
			break
		}
		start, startLine := p.s.Pos(), p.s.Line()
		units, err := p.s.CountIndent()
		if err != nil {
			return nil, p.syntaxErr()
		}
		if units != required {
			p.s.SetPos(start)
			p.s.SetLine(startLine)
			break
		}
		node, err := p.parseStatement(required)
		if err != nil {
			return nil, err
		}
		body = append(body, node)
	}
	return body, nil
}

// parseStatement tries each statement alternative in a fixed order.
// Every alternative backtracks fully to the line's start on a structural
// mismatch in its header syntax, so a near-miss (a target missing its
// colon, say) is never a hard error — it is simply tried against the
// remaining alternatives, falling all the way through to being read as a
// bare command if nothing more specific matches. Only a failure once an
// alternative's header has fully matched (e.g. inside its body block) is
// a hard error.
func (p *Parser) parseStatement(required int) (ast.Node, error) {
	if n, matched, err := p.tryAssignment(); matched || err != nil {
		return n, err
	}
	if n, matched, err := p.tryTarget(required); matched || err != nil {
		return n, err
	}
	if n, matched, err := p.tryIf(required); matched || err != nil {
		return n, err
	}
	if n, matched, err := p.tryFor(required); matched || err != nil {
		return n, err
	}
	if n, matched, err := p.tryExprStatement(); matched || err != nil {
		return n, err
	}
	return p.tryCommandStatement()
}

// expectLineEnd requires the rest of the current line to be blank, then
// consumes its terminator (or EOF).
func (p *Parser) expectLineEnd() error {
	p.s.SkipHSpace()
	if p.s.Eof() {
		return nil
	}
	if p.s.ConsumeNewline() {
		return nil
	}
	return p.syntaxErr()
}

// tryKeyword consumes an identifier equal to kw, backtracking fully on
// mismatch.
func (p *Parser) tryKeyword(kw string) bool {
	start, startLine := p.s.Pos(), p.s.Line()
	ident, ok := p.s.ScanIdent()
	if ok && ident == kw {
		return true
	}
	p.s.SetPos(start)
	p.s.SetLine(startLine)
	return false
}

// ---- assignment: $name = expr|command ----

func (p *Parser) tryAssignment() (ast.Node, bool, error) {
	start, startLine := p.s.Pos(), p.s.Line()
	if p.s.Peek() != '$' {
		return nil, false, nil
	}
	line := p.s.Line()
	p.s.Advance()
	name, ok := p.s.ScanIdent()
	if !ok {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	p.s.SkipHSpace()
	if p.s.Peek() != '=' || p.s.PeekAt(1) == '=' {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	p.s.Advance()
	p.s.SkipHSpace()
	rhs, err := p.parseAssignmentValue()
	if err != nil {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	if err := p.expectLineEnd(); err != nil {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	return ast.SetAttr{Name: name, Value: rhs, Line: line}, true, nil
}

func (p *Parser) parseAssignmentValue() (ast.Node, error) {
	if n, ok, err := p.tryExpr(); err != nil {
		return nil, err
	} else if ok {
		return n, nil
	}
	return p.parseCommandBody()
}

// ---- target $name : $req...\n body ----

// tryTarget, like every alternative tried by parseStatement, backtracks
// fully to its start position on any failure past the leading keyword:
// a line like "target $clean" (no trailing colon) is not a malformed
// target, it is simply not a target, and falls through to be tried as a
// command instead. Only a body-block failure once the header has fully
// committed is treated as a hard error.
func (p *Parser) tryTarget(required int) (ast.Node, bool, error) {
	start, startLine := p.s.Pos(), p.s.Line()
	if !p.tryKeyword("target") {
		return nil, false, nil
	}
	line := p.s.Line()
	p.s.SkipHSpace()
	if p.s.Peek() != '$' {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	p.s.Advance()
	name, ok := p.s.ScanIdent()
	if !ok {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	p.s.SkipHSpace()
	if p.s.Peek() != ':' {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	p.s.Advance()
	var require []string
	for {
		save, saveLine := p.s.Pos(), p.s.Line()
		p.s.SkipHSpace()
		if p.s.Peek() != '$' {
			p.s.SetPos(save)
			p.s.SetLine(saveLine)
			break
		}
		p.s.Advance()
		id, ok := p.s.ScanIdent()
		if !ok {
			p.s.SetPos(save)
			p.s.SetLine(saveLine)
			break
		}
		require = append(require, id)
	}
	if err := p.expectLineEnd(); err != nil {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	body, err := p.parseBlock(required + 1)
	if err != nil {
		return nil, true, err
	}
	return ast.Target{Name: name, Require: require, Body: body, Line: line}, true, nil
}

// ---- if expr: body (elif expr: body)* (else: body)? ----

// tryIf backtracks fully to its start position on any failure in the
// leading "if cond:" header, the same as tryTarget: a malformed
// condition or a missing colon means this line isn't an if statement at
// all, and parseStatement should go on to try the remaining
// alternatives. A malformed elif/else clause discovered once the if
// header has already committed is different: rather than leaving a
// dangling elif for some later, unrelated alternative to stumble into,
// it aborts the whole statement with a hard error.
func (p *Parser) tryIf(required int) (ast.Node, bool, error) {
	start, startLine := p.s.Pos(), p.s.Line()
	if !p.tryKeyword("if") {
		return nil, false, nil
	}
	line := p.s.Line()
	p.s.SkipHSpace()
	cond, ok, err := p.tryExpr()
	if err != nil || !ok {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	p.s.SkipHSpace()
	if p.s.Peek() != ':' {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	p.s.Advance()
	if err := p.expectLineEnd(); err != nil {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	body, err := p.parseBlock(required + 1)
	if err != nil {
		return nil, true, err
	}

	node := ast.If{Cond: cond, Body: body, Line: line}

	for {
		save, saveLine := p.s.Pos(), p.s.Line()
		p.skipBlankLines()
		units, cerr := p.s.CountIndent()
		if cerr != nil || units != required || !p.tryKeyword("elif") {
			p.s.SetPos(save)
			p.s.SetLine(saveLine)
			break
		}
		p.s.SkipHSpace()
		econd, ok, err := p.tryExpr()
		if err != nil {
			return nil, true, err
		}
		if !ok {
			return nil, true, p.syntaxErr()
		}
		p.s.SkipHSpace()
		if p.s.Peek() != ':' {
			return nil, true, p.syntaxErr()
		}
		p.s.Advance()
		if err := p.expectLineEnd(); err != nil {
			return nil, true, err
		}
		ebody, err := p.parseBlock(required + 1)
		if err != nil {
			return nil, true, err
		}
		node.Elifs = append(node.Elifs, ast.ElifClause{Cond: econd, Body: ebody})
	}

	save, saveLine := p.s.Pos(), p.s.Line()
	p.skipBlankLines()
	units, cerr := p.s.CountIndent()
	if cerr == nil && units == required && p.tryKeyword("else") {
		p.s.SkipHSpace()
		if p.s.Peek() != ':' {
			return nil, true, p.syntaxErr()
		}
		p.s.Advance()
		if err := p.expectLineEnd(); err != nil {
			return nil, true, err
		}
		elseBody, err := p.parseBlock(required + 1)
		if err != nil {
			return nil, true, err
		}
		node.Else = elseBody
		node.HasElse = true
	} else {
		p.s.SetPos(save)
		p.s.SetLine(saveLine)
	}

	return node, true, nil
}

// ---- for $item in source: body ----

// tryFor backtracks fully on any failure in the "for $item in source:"
// header, for the same reason tryTarget and tryIf do: a near-miss here
// is not a broken for loop, it's a line that should be tried against the
// remaining statement alternatives instead.
func (p *Parser) tryFor(required int) (ast.Node, bool, error) {
	start, startLine := p.s.Pos(), p.s.Line()
	if !p.tryKeyword("for") {
		return nil, false, nil
	}
	line := p.s.Line()
	p.s.SkipHSpace()
	if p.s.Peek() != '$' {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	p.s.Advance()
	itemVar, ok := p.s.ScanIdent()
	if !ok {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	p.s.SkipHSpace()
	if !p.tryKeyword("in") {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	p.s.SkipHSpace()
	source, ok, err := p.tryExpr()
	if err != nil || !ok {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	p.s.SkipHSpace()
	if p.s.Peek() != ':' {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	p.s.Advance()
	if err := p.expectLineEnd(); err != nil {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	body, err := p.parseBlock(required + 1)
	if err != nil {
		return nil, true, err
	}
	return ast.For{ItemVar: itemVar, Source: source, Body: body, Line: line}, true, nil
}

// ---- expression statement / command statement ----

func (p *Parser) tryExprStatement() (ast.Node, bool, error) {
	start, startLine := p.s.Pos(), p.s.Line()
	n, ok, err := p.tryExpr()
	if err != nil || !ok {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	if err := p.expectLineEnd(); err != nil {
		p.s.SetPos(start)
		p.s.SetLine(startLine)
		return nil, false, nil
	}
	return n, true, nil
}

func (p *Parser) tryCommandStatement() (ast.Node, error) {
	cmd, err := p.parseCommandBody()
	if err != nil {
		return nil, err
	}
	if err := p.expectLineEnd(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (p *Parser) parseCommandBody() (ast.Command, error) {
	line := p.s.Line()
	name, ok := p.s.ScanIdent()
	if !ok {
		return ast.Command{}, p.syntaxErr()
	}
	var args []ast.Node
	for {
		save, saveLine := p.s.Pos(), p.s.Line()
		p.s.SkipHSpace()
		if p.s.Eof() || p.s.AtNewline() {
			break
		}
		if n, ok, err := p.tryAtom(); err != nil {
			return ast.Command{}, err
		} else if ok {
			args = append(args, n)
			continue
		}
		if bare, ok := p.s.ScanBareToken(); ok {
			args = append(args, ast.Value{Literal: ast.StringLiteral(bare), Line: p.s.Line()})
			continue
		}
		p.s.SetPos(save)
		p.s.SetLine(saveLine)
		break
	}
	return ast.Command{Command: name, Args: args, Line: line}, nil
}

// ---- expressions ----

type opNode struct {
	op   ast.Operator
	node ast.Node
}

func (p *Parser) tryExpr() (ast.Node, bool, error) {
	left, ok, err := p.tryAtomSpaced()
	if err != nil {
		return nil, true, err
	}
	if !ok {
		return nil, false, nil
	}
	var rights []opNode
	for {
		save, saveLine := p.s.Pos(), p.s.Line()
		op, ok := p.tryOperator()
		if !ok {
			p.s.SetPos(save)
			p.s.SetLine(saveLine)
			break
		}
		right, ok, err := p.tryAtomSpaced()
		if err != nil {
			return nil, true, err
		}
		if !ok {
			p.s.SetPos(save)
			p.s.SetLine(saveLine)
			break
		}
		rights = append(rights, opNode{op, right})
	}
	return foldExpr(left, rights), true, nil
}

// foldExpr applies precedence climbing over a left atom and a flat list
// of (operator, atom) pairs collected left to right: equal-precedence
// operators fold left-associatively, a higher-precedence operator
// immediately to the right binds its operand first.
func foldExpr(left ast.Node, rights []opNode) ast.Node {
	for len(rights) > 0 {
		cur := rights[0]
		rights = rights[1:]
		j := 0
		for j < len(rights) && rights[j].op.Precedence() > cur.op.Precedence() {
			j++
		}
		rightNode := foldExpr(cur.node, rights[:j])
		rights = rights[j:]
		left = ast.Expr{Left: left, Op: cur.op, Right: rightNode}
	}
	return left
}

func (p *Parser) tryOperator() (ast.Operator, bool) {
	switch {
	case p.s.Peek() == '=' && p.s.PeekAt(1) == '=':
		p.s.Advance()
		p.s.Advance()
		return ast.OpEq, true
	case p.s.Peek() == '!' && p.s.PeekAt(1) == '=':
		p.s.Advance()
		p.s.Advance()
		return ast.OpNotEq, true
	case p.s.Peek() == '+':
		p.s.Advance()
		return ast.OpAdd, true
	case p.s.Peek() == '-':
		p.s.Advance()
		return ast.OpSub, true
	case p.s.Peek() == '*':
		p.s.Advance()
		return ast.OpMul, true
	case p.s.Peek() == '/':
		p.s.Advance()
		return ast.OpDiv, true
	default:
		return 0, false
	}
}

func (p *Parser) tryAtomSpaced() (ast.Node, bool, error) {
	p.s.SkipHSpace()
	n, ok, err := p.tryAtom()
	if err != nil {
		return nil, true, err
	}
	if !ok {
		return nil, false, nil
	}
	p.s.SkipHSpace()
	return n, true, nil
}

// tryAtom parses one of: float literal, int literal, string literal,
// $name, or a parenthesized expression. Once '(' is consumed the
// production is committed: any failure past that point is a hard error,
// not a backtrack.
func (p *Parser) tryAtom() (ast.Node, bool, error) {
	line := p.s.Line()
	start, startLine := p.s.Pos(), p.s.Line()

	if v, ok := p.s.ScanSignedFloat(); ok {
		return ast.Value{Literal: ast.FloatLiteral(v), Line: line}, true, nil
	}
	p.s.SetPos(start)
	p.s.SetLine(startLine)

	if v, ok := p.s.ScanSignedInt(); ok {
		return ast.Value{Literal: ast.IntLiteral(v), Line: line}, true, nil
	}
	p.s.SetPos(start)
	p.s.SetLine(startLine)

	if str, ok := p.s.ScanString(); ok {
		return ast.Value{Literal: ast.StringLiteral(str), Line: line}, true, nil
	}
	p.s.SetPos(start)
	p.s.SetLine(startLine)

	if p.s.Peek() == '$' {
		p.s.Advance()
		if name, ok := p.s.ScanIdent(); ok {
			return ast.Name{Ident: name, Line: line}, true, nil
		}
		p.s.SetPos(start)
		p.s.SetLine(startLine)
	}

	if p.s.Peek() == '(' {
		p.s.Advance()
		p.s.SkipHSpace()
		inner, ok, err := p.tryExpr()
		if err != nil {
			return nil, true, err
		}
		if !ok {
			return nil, true, p.syntaxErr()
		}
		p.s.SkipHSpace()
		if p.s.Peek() != ')' {
			return nil, true, p.syntaxErr()
		}
		p.s.Advance()
		return inner, true, nil
	}

	return nil, false, nil
}
