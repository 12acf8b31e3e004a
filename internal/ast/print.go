package ast

import (
	"strconv"
	"strings"
)

// Unparse renders a Node back into tentacle source text such that parsing
// the result produces an AST equal to n. It is a trivial pretty-printer,
// not a formatter: it emits one tab per
// indentation level and the minimal set of parentheses an expression needs
// to reparse to the same tree, nothing more. String literal content is
// written back verbatim between quotes, since the scanner keeps escape
// backslashes in it; a hand-built string holding a quote that no
// backslash precedes therefore does not round-trip.
func Unparse(n Node) string {
	switch n.(type) {
	case Name, Value, Expr:
		return printExpr(n)
	case Module, Target, If, For, SetAttr, Command:
		return printStmts([]Node{n}, 0)
	default:
		return printStmts([]Node{n}, 0)
	}
}

func indent(level int) string {
	return strings.Repeat("\t", level)
}

func printStmts(body []Node, level int) string {
	var b strings.Builder
	for _, s := range body {
		printStmt(&b, s, level)
	}
	return b.String()
}

func printStmt(b *strings.Builder, n Node, level int) {
	pad := indent(level)
	switch v := n.(type) {
	case Module:
		for _, s := range v.Body {
			printStmt(b, s, level)
		}
	case SetAttr:
		b.WriteString(pad)
		b.WriteString("$")
		b.WriteString(v.Name)
		b.WriteString(" = ")
		b.WriteString(printAssignedValue(v.Value))
		b.WriteString("\n")
	case Command:
		b.WriteString(pad)
		b.WriteString(printCommand(v))
		b.WriteString("\n")
	case Target:
		b.WriteString(pad)
		b.WriteString("target $")
		b.WriteString(v.Name)
		b.WriteString(":")
		for _, r := range v.Require {
			b.WriteString(" $")
			b.WriteString(r)
		}
		b.WriteString("\n")
		b.WriteString(printStmts(v.Body, level+1))
	case If:
		b.WriteString(pad)
		b.WriteString("if ")
		b.WriteString(printExpr(v.Cond))
		b.WriteString(":\n")
		b.WriteString(printStmts(v.Body, level+1))
		for _, e := range v.Elifs {
			b.WriteString(pad)
			b.WriteString("elif ")
			b.WriteString(printExpr(e.Cond))
			b.WriteString(":\n")
			b.WriteString(printStmts(e.Body, level+1))
		}
		if v.HasElse {
			b.WriteString(pad)
			b.WriteString("else:\n")
			b.WriteString(printStmts(v.Else, level+1))
		}
	case For:
		b.WriteString(pad)
		b.WriteString("for $")
		b.WriteString(v.ItemVar)
		b.WriteString(" in ")
		b.WriteString(printExpr(v.Source))
		b.WriteString(":\n")
		b.WriteString(printStmts(v.Body, level+1))
	default:
		// Name, Value, Expr used as a bare expression statement.
		b.WriteString(pad)
		b.WriteString(printExpr(n))
		b.WriteString("\n")
	}
}

// printAssignedValue renders the right-hand side of $name = <expr|command>.
func printAssignedValue(n Node) string {
	if cmd, ok := n.(Command); ok {
		return printCommand(cmd)
	}
	return printExpr(n)
}

func printCommand(c Command) string {
	var b strings.Builder
	b.WriteString(c.Command)
	for _, a := range c.Args {
		b.WriteString(" ")
		if _, ok := a.(Expr); ok {
			// A bare binary expression would reparse as separate arguments.
			b.WriteString("(" + printExpr(a) + ")")
			continue
		}
		b.WriteString(printExpr(a))
	}
	return b.String()
}

func printExpr(n Node) string {
	switch v := n.(type) {
	case Name:
		return "$" + v.Ident
	case Value:
		return printLiteral(v.Literal)
	case Expr:
		p := v.Op.Precedence()
		left := printOperand(v.Left, p, false)
		right := printOperand(v.Right, p, true)
		return left + " " + v.Op.String() + " " + right
	default:
		return ""
	}
}

// printOperand parenthesizes a child expression only when textual
// flattening would otherwise change which tree reparsing produces: a
// lower-precedence child anywhere, or an equal-precedence child on the
// right (since the parser always folds equal-precedence operators
// left-associatively).
func printOperand(n Node, parentPrec int, isRight bool) string {
	if e, ok := n.(Expr); ok {
		childPrec := e.Op.Precedence()
		if childPrec < parentPrec || (isRight && childPrec == parentPrec) {
			return "(" + printExpr(e) + ")"
		}
		return printExpr(e)
	}
	return printExpr(n)
}

func printLiteral(lit Literal) string {
	switch l := lit.(type) {
	case IntLiteral:
		return strconv.FormatInt(int64(l), 10)
	case FloatLiteral:
		s := strconv.FormatFloat(float64(l), 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case StringLiteral:
		return `"` + string(l) + `"`
	default:
		return ""
	}
}
