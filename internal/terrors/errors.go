// Package terrors is tentacle's closed error taxonomy. Every failure the
// parser, value model, or evaluator can produce is one of the Kinds below;
// there is no open-ended error string space the way github.com/pkg/errors
// style wrapping allows — callers branch on a fixed Kind, not on message
// text.
package terrors

import "fmt"

// Kind is the closed set of error categories tentacle can raise.
type Kind int

const (
	// Syntax is raised by the parser when the source cannot be consumed
	// into a valid AST at the reported line.
	Syntax Kind = iota
	// FunctionNotImplemented is raised by the value model when an
	// arithmetic or comparison operator has no case for the operand kinds
	// involved.
	FunctionNotImplemented
	// Runtime covers generic evaluator failures, notably a Name lookup
	// that misses.
	Runtime
	// Command is raised when spawning an external process fails.
	Command
	// Name is raised by run_target when the requested target (or a
	// prerequisite) is not bound in the run-space.
	Name
	// Type is raised by run_target when the bound value is not a target
	// object.
	Type
)

// Error is the single error type tentacle ever returns; its Kind selects
// which of Line/Message/Command/Name are populated.
type Error struct {
	Kind    Kind
	Line    int    // Syntax
	Message string // FunctionNotImplemented (unused), Runtime, Command
	Command string // Command
	Name    string // Name
	Cause   error  // Command: the underlying spawn failure
}

func (e *Error) Error() string {
	switch e.Kind {
	case Syntax:
		return fmt.Sprintf("SyntaxError: line %d", e.Line)
	case FunctionNotImplemented:
		return "FunctionNotImplementedError"
	case Runtime:
		return fmt.Sprintf("RuntimeError: %s", e.Message)
	case Command:
		return fmt.Sprintf("CommandError(%s): %s", e.Command, e.Message)
	case Name:
		return fmt.Sprintf("NameError: name '%s' is not defined", e.Name)
	case Type:
		return "TypeError"
	default:
		return "unknown tentacle error"
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewSyntax reports a parse failure at the parser's current line.
func NewSyntax(line int) *Error {
	return &Error{Kind: Syntax, Line: line}
}

// NewFunctionNotImplemented reports an operator unsupported for its operand
// kinds.
func NewFunctionNotImplemented() *Error {
	return &Error{Kind: FunctionNotImplemented}
}

// NewRuntime reports a generic evaluator failure.
func NewRuntime(message string) *Error {
	return &Error{Kind: Runtime, Message: message}
}

// NewCommand reports a process-spawn failure for the named command.
func NewCommand(command string, cause error) *Error {
	return &Error{Kind: Command, Command: command, Message: cause.Error(), Cause: cause}
}

// NewName reports a missing-name lookup during target resolution.
func NewName(name string) *Error {
	return &Error{Kind: Name, Name: name}
}

// NewType reports that a looked-up target name was not a target object.
func NewType() *Error {
	return &Error{Kind: Type}
}

// Is reports whether err is a *Error of the given Kind, so callers can
// branch without importing the concrete struct shape.
func Is(err error, kind Kind) bool {
	te, ok := err.(*Error)
	return ok && te.Kind == kind
}
