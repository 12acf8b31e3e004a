// Package value implements tentacle's dynamic value model: a closed,
// tagged union of value kinds with heterogeneous arithmetic, equality,
// truthiness and string formatting.
//
// Values are plain immutable data — every operation below returns a fresh
// Value rather than mutating a receiver, so the evaluator never needs to
// clone or guard against aliasing.
package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cpcgskill/tentacle/internal/ast"
	"github.com/cpcgskill/tentacle/internal/terrors"
)

// Kind tags the closed set of value kinds tentacle supports.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindBool
	KindNone
	KindList
	KindTarget
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindNone:
		return "None"
	case KindList:
		return "List"
	case KindTarget:
		return "TargetObject"
	default:
		return "Unknown"
	}
}

// Value is implemented by every concrete value kind below. Arithmetic and
// equality dispatch on the runtime Go type of the argument through a type
// switch rather than an unsafe downcast: an unsupported arithmetic pairing
// falls through the default case and returns
// terrors.NewFunctionNotImplemented(), while equality across unrelated
// kinds returns false without an error.
type Value interface {
	Kind() Kind
	Add(Value) (Value, error)
	Sub(Value) (Value, error)
	Mul(Value) (Value, error)
	Div(Value) (Value, error)
	Eq(Value) (bool, error)
	ToStr() string
	// ToRepr is the quoted/bracketed form used when a value appears
	// nested inside a List's rendering.
	ToRepr() string
	ToBool() bool
}

// NotEq is the logical negation of Eq.
func NotEq(l, r Value) (bool, error) {
	eq, err := l.Eq(r)
	if err != nil {
		return false, err
	}
	return !eq, nil
}

// ---- Int ----

type Int int64

func (Int) Kind() Kind { return KindInt }

func (v Int) Add(r Value) (Value, error) {
	switch r := r.(type) {
	case Int:
		return v + r, nil
	case Float:
		return Float(v) + r, nil
	default:
		return nil, terrors.NewFunctionNotImplemented()
	}
}

func (v Int) Sub(r Value) (Value, error) {
	switch r := r.(type) {
	case Int:
		return v - r, nil
	case Float:
		return Float(v) - r, nil
	default:
		return nil, terrors.NewFunctionNotImplemented()
	}
}

func (v Int) Mul(r Value) (Value, error) {
	switch r := r.(type) {
	case Int:
		return v * r, nil
	case Float:
		return Float(v) * r, nil
	default:
		return nil, terrors.NewFunctionNotImplemented()
	}
}

// Div always promotes to Float, even for two Ints: integer division is
// deliberately absent from this language.
func (v Int) Div(r Value) (Value, error) {
	switch r := r.(type) {
	case Int:
		return Float(v) / Float(r), nil
	case Float:
		return Float(v) / r, nil
	default:
		return nil, terrors.NewFunctionNotImplemented()
	}
}

func (v Int) Eq(r Value) (bool, error) {
	switch r := r.(type) {
	case Int:
		return v == r, nil
	case Float:
		return Float(v) == r, nil
	default:
		return false, nil
	}
}

func (v Int) ToStr() string  { return strconv.FormatInt(int64(v), 10) }
func (v Int) ToRepr() string { return v.ToStr() }
func (v Int) ToBool() bool   { return v != 0 }

// ---- Float ----

type Float float64

func (Float) Kind() Kind { return KindFloat }

func (v Float) Add(r Value) (Value, error) {
	switch r := r.(type) {
	case Int:
		return v + Float(r), nil
	case Float:
		return v + r, nil
	default:
		return nil, terrors.NewFunctionNotImplemented()
	}
}

func (v Float) Sub(r Value) (Value, error) {
	switch r := r.(type) {
	case Int:
		return v - Float(r), nil
	case Float:
		return v - r, nil
	default:
		return nil, terrors.NewFunctionNotImplemented()
	}
}

func (v Float) Mul(r Value) (Value, error) {
	switch r := r.(type) {
	case Int:
		return v * Float(r), nil
	case Float:
		return v * r, nil
	default:
		return nil, terrors.NewFunctionNotImplemented()
	}
}

func (v Float) Div(r Value) (Value, error) {
	switch r := r.(type) {
	case Int:
		return v / Float(r), nil
	case Float:
		return v / r, nil
	default:
		return nil, terrors.NewFunctionNotImplemented()
	}
}

func (v Float) Eq(r Value) (bool, error) {
	switch r := r.(type) {
	case Int:
		return v == Float(r), nil
	case Float:
		return v == r, nil
	default:
		return false, nil
	}
}

func (v Float) ToStr() string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
func (v Float) ToRepr() string { return v.ToStr() }
func (v Float) ToBool() bool   { return v != 0.0 }

// ---- String ----

type String string

func (String) Kind() Kind { return KindString }

func (v String) Add(r Value) (Value, error) {
	switch r := r.(type) {
	case String:
		return v + r, nil
	case Int, Float:
		return v + String(r.ToStr()), nil
	default:
		return nil, terrors.NewFunctionNotImplemented()
	}
}

func (String) Sub(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }
func (String) Mul(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }
func (String) Div(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }

func (v String) Eq(r Value) (bool, error) {
	if r, ok := r.(String); ok {
		return v == r, nil
	}
	return false, nil
}

func (v String) ToStr() string  { return string(v) }
func (v String) ToRepr() string { return `"` + string(v) + `"` }
func (v String) ToBool() bool   { return true }

// ---- Bool ----
//
// Bool equality follows the same rule as every other kind: compare by
// kind-and-value, defaulting to false rather than erroring on a mismatch.

type Bool bool

func (Bool) Kind() Kind                 { return KindBool }
func (Bool) Add(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }
func (Bool) Sub(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }
func (Bool) Mul(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }
func (Bool) Div(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }

func (v Bool) Eq(r Value) (bool, error) {
	if r, ok := r.(Bool); ok {
		return v == r, nil
	}
	return false, nil
}

func (v Bool) ToStr() string  { return strconv.FormatBool(bool(v)) }
func (v Bool) ToRepr() string { return v.ToStr() }
func (v Bool) ToBool() bool   { return bool(v) }

// ---- None ----

type None struct{}

func (None) Kind() Kind               { return KindNone }
func (None) Add(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }
func (None) Sub(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }
func (None) Mul(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }
func (None) Div(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }

func (None) Eq(r Value) (bool, error) {
	_, ok := r.(None)
	return ok, nil
}

func (None) ToStr() string  { return "None" }
func (None) ToRepr() string { return "None" }
func (None) ToBool() bool   { return false }

// A singleton is not required for correctness (values are immutable) but
// avoids an allocation on every SetAttr/If/Module return.
var NoneValue Value = None{}

// ---- List ----
//
// Lists are produced internally (built-ins, list concatenation); the
// grammar has no source-level list literal. Iteration via a `for` loop
// is a local cursor in the evaluator, never a stateful cell on the value
// itself.

type List []Value

func (List) Kind() Kind { return KindList }

func (v List) Add(r Value) (Value, error) {
	if r, ok := r.(List); ok {
		out := make(List, 0, len(v)+len(r))
		out = append(out, v...)
		out = append(out, r...)
		return out, nil
	}
	return nil, terrors.NewFunctionNotImplemented()
}

func (List) Sub(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }
func (List) Mul(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }
func (List) Div(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }

func (v List) Eq(r Value) (bool, error) {
	r2, ok := r.(List)
	if !ok || len(v) != len(r2) {
		return false, nil
	}
	for i := range v {
		eq, err := v[i].Eq(r2[i])
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

func (v List) ToStr() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.ToRepr()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (v List) ToRepr() string { return v.ToStr() }
func (List) ToBool() bool     { return true }

// ---- TargetObject ----

// Target is the value bound under a target's name once its declaration is
// evaluated. It carries its own AST body so run_target can re-walk it
// without re-parsing.
type Target struct {
	Name    string
	Require []string
	Body    []ast.Node
}

func (Target) Kind() Kind              { return KindTarget }
func (Target) Add(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }
func (Target) Sub(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }
func (Target) Mul(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }
func (Target) Div(Value) (Value, error) { return nil, terrors.NewFunctionNotImplemented() }

func (v Target) Eq(r Value) (bool, error) {
	r2, ok := r.(Target)
	if !ok {
		return false, nil
	}
	return v.Name == r2.Name, nil
}

func (v Target) ToStr() string {
	quoted := make([]string, len(v.Require))
	for i, r := range v.Require {
		quoted[i] = `"` + r + `"`
	}
	return fmt.Sprintf(`TargetObject("%s", body_size=%d, require=[%s])`, v.Name, len(v.Body), strings.Join(quoted, ", "))
}
func (v Target) ToRepr() string { return v.ToStr() }
func (Target) ToBool() bool     { return true }
