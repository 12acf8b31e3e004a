// Package eval is the tree-walking evaluator: it walks an internal/ast
// tree against an internal/runspace.RunSpace, producing internal/value
// values or a *internal/terrors.Error.
package eval

import (
	"context"
	"fmt"
	"strings"

	"github.com/cpcgskill/tentacle/internal/ast"
	"github.com/cpcgskill/tentacle/internal/process"
	"github.com/cpcgskill/tentacle/internal/runspace"
	"github.com/cpcgskill/tentacle/internal/terrors"
	"github.com/cpcgskill/tentacle/internal/value"
)

// Evaluator walks AST nodes against one RunSpace, shelling out through
// Spawner for commands that aren't registered built-ins.
type Evaluator struct {
	Space   *runspace.RunSpace
	Spawner process.Spawner
}

// New creates an Evaluator over space, spawning external commands via
// spawner.
func New(space *runspace.RunSpace, spawner process.Spawner) *Evaluator {
	return &Evaluator{Space: space, Spawner: spawner}
}

// Eval evaluates a single node to a value. The node set is closed, so
// the default case below can never be reached by a tree produced by
// internal/parser.
func (e *Evaluator) Eval(n ast.Node) (value.Value, error) {
	switch n := n.(type) {
	case ast.Name:
		return e.evalName(n)
	case ast.Value:
		return e.evalLiteral(n)
	case ast.Expr:
		return e.evalExpr(n)
	case ast.SetAttr:
		return e.evalSetAttr(n)
	case ast.Command:
		return e.evalCommand(n)
	case ast.Target:
		return e.evalTarget(n)
	case ast.If:
		return e.evalIf(n)
	case ast.For:
		return e.evalFor(n)
	case ast.Module:
		return e.evalStmts(n.Body)
	default:
		return nil, terrors.NewRuntime(fmt.Sprintf("unhandled node type %T", n))
	}
}

func (e *Evaluator) evalName(n ast.Name) (value.Value, error) {
	v, ok := e.Space.Get(n.Ident)
	if !ok {
		return nil, terrors.NewRuntime(fmt.Sprintf("key %s not found", n.Ident))
	}
	return v, nil
}

func (e *Evaluator) evalLiteral(n ast.Value) (value.Value, error) {
	switch lit := n.Literal.(type) {
	case ast.IntLiteral:
		return value.Int(lit), nil
	case ast.FloatLiteral:
		return value.Float(lit), nil
	case ast.StringLiteral:
		return value.String(lit), nil
	default:
		return nil, terrors.NewRuntime(fmt.Sprintf("unhandled literal type %T", lit))
	}
}

// evalExpr evaluates the left operand before the right and dispatches
// the operator onto the value model.
func (e *Evaluator) evalExpr(n ast.Expr) (value.Value, error) {
	left, err := e.Eval(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.Eval(n.Right)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.OpEq:
		eq, err := left.Eq(right)
		if err != nil {
			return nil, err
		}
		return value.Bool(eq), nil
	case ast.OpNotEq:
		neq, err := value.NotEq(left, right)
		if err != nil {
			return nil, err
		}
		return value.Bool(neq), nil
	case ast.OpAdd:
		return left.Add(right)
	case ast.OpSub:
		return left.Sub(right)
	case ast.OpMul:
		return left.Mul(right)
	case ast.OpDiv:
		return left.Div(right)
	default:
		return nil, terrors.NewRuntime("unknown operator")
	}
}

func (e *Evaluator) evalSetAttr(n ast.SetAttr) (value.Value, error) {
	v, err := e.Eval(n.Value)
	if err != nil {
		return nil, err
	}
	e.Space.Set(n.Name, v)
	return value.NoneValue, nil
}

// evalCommand evaluates arguments left-to-right and stringifies them
// before the built-in lookup happens: a command name can never be
// influenced by an argument's evaluated value.
func (e *Evaluator) evalCommand(n ast.Command) (value.Value, error) {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		v, err := e.Eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v.ToStr()
	}
	if builtin, ok := e.Space.Command(n.Command); ok {
		return builtin(args)
	}
	res, err := e.Spawner.Spawn(context.Background(), n.Command, args)
	if err != nil {
		return nil, terrors.NewCommand(n.Command, err)
	}
	if res.ExitCode == nil {
		return value.NoneValue, nil
	}
	return value.Int(*res.ExitCode), nil
}

func (e *Evaluator) evalTarget(n ast.Target) (value.Value, error) {
	t := value.Target{Name: n.Name, Require: n.Require, Body: n.Body}
	e.Space.Set(n.Name, t)
	return value.NoneValue, nil
}

func (e *Evaluator) evalIf(n ast.If) (value.Value, error) {
	cond, err := e.Eval(n.Cond)
	if err != nil {
		return nil, err
	}
	if cond.ToBool() {
		return e.evalStmts(n.Body)
	}
	for _, clause := range n.Elifs {
		cv, err := e.Eval(clause.Cond)
		if err != nil {
			return nil, err
		}
		if cv.ToBool() {
			return e.evalStmts(clause.Body)
		}
	}
	if n.HasElse {
		return e.evalStmts(n.Else)
	}
	return value.NoneValue, nil
}

// evalFor iterates Source, which must evaluate to a List; iteration is a
// local cursor, never a stateful value.
func (e *Evaluator) evalFor(n ast.For) (value.Value, error) {
	src, err := e.Eval(n.Source)
	if err != nil {
		return nil, err
	}
	list, ok := src.(value.List)
	if !ok {
		return nil, terrors.NewRuntime(fmt.Sprintf("for: %s is not a list", src.Kind()))
	}
	for _, item := range list {
		e.Space.Set(n.ItemVar, item)
		if _, err := e.evalStmts(n.Body); err != nil {
			return nil, err
		}
	}
	return value.NoneValue, nil
}

// evalStmts runs each statement in order; any error aborts the remaining
// statements of the list.
func (e *Evaluator) evalStmts(body []ast.Node) (value.Value, error) {
	for _, s := range body {
		if _, err := e.Eval(s); err != nil {
			return nil, err
		}
	}
	return value.NoneValue, nil
}

// RunTarget looks up name, requires it to be a TargetObject, recursively
// runs its prerequisites in declaration order, then its body. A visited
// path threaded through each recursive call detects a dependency cycle
// instead of recursing unboundedly.
func (e *Evaluator) RunTarget(name string) error {
	return e.runTarget(name, nil)
}

func (e *Evaluator) runTarget(name string, path []string) error {
	for _, seen := range path {
		if seen == name {
			return terrors.NewRuntime(fmt.Sprintf("dependency cycle: %s", strings.Join(append(path, name), " -> ")))
		}
	}
	path = append(path, name)

	v, ok := e.Space.Get(name)
	if !ok {
		return terrors.NewName(name)
	}
	target, ok := v.(value.Target)
	if !ok {
		return terrors.NewType()
	}
	for _, req := range target.Require {
		if err := e.runTarget(req, path); err != nil {
			return err
		}
	}
	if _, err := e.evalStmts(target.Body); err != nil {
		return err
	}
	return nil
}
