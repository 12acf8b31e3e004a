package ast

// Small factory functions for building AST nodes by hand (for example,
// expected trees in tests) without repeating struct literal boilerplate.

// Nm builds a Name node.
func Nm(ident string) Node {
	return Name{Ident: ident}
}

// Int builds an integer literal node.
func Int(v int64) Node {
	return Value{Literal: IntLiteral(v)}
}

// Flt builds a float literal node.
func Flt(v float64) Node {
	return Value{Literal: FloatLiteral(v)}
}

// Str builds a string literal node.
func Str(v string) Node {
	return Value{Literal: StringLiteral(v)}
}

// Bin builds a binary expression node.
func Bin(left Node, op Operator, right Node) Node {
	return Expr{Left: left, Op: op, Right: right}
}

// Assign builds a SetAttr node.
func Assign(name string, value Node) Node {
	return SetAttr{Name: name, Value: value}
}

// Call builds a Command node.
func Call(command string, args ...Node) Node {
	return Command{Command: command, Args: args}
}

// TargetDecl builds a Target node.
func TargetDecl(name string, require []string, body ...Node) Node {
	return Target{Name: name, Require: require, Body: body}
}

// Mod builds a Module node.
func Mod(body ...Node) Node {
	return Module{Body: body}
}
