// Package runspace implements the evaluator's mutable scope: the variable
// map and built-in command table shared by every recursive evaluation call
// for one interpreter invocation.
package runspace

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cpcgskill/tentacle/internal/value"
)

// Command is a built-in, in-process command: it receives its already
// stringified arguments and returns a value or an error.
type Command func(args []string) (value.Value, error)

// RunSpace owns the variable map and local command table for one
// interpreter invocation. It has no concurrency control — it is scoped
// to exactly one evaluator running synchronously.
type RunSpace struct {
	vars     map[string]value.Value
	commands map[string]Command
	Stdout   io.Writer
}

// New creates a RunSpace with the given initial variables (e.g. captured
// environment variables) and the default built-in command table
// registered. Passing a nil stdout defaults to os.Stdout; callers in
// tests typically pass a
// *strings.Builder or bytes.Buffer instead.
func New(initial map[string]value.Value, stdout io.Writer) *RunSpace {
	if stdout == nil {
		stdout = os.Stdout
	}
	vars := make(map[string]value.Value, len(initial))
	for k, v := range initial {
		vars[k] = v
	}
	rs := &RunSpace{
		vars:     vars,
		commands: make(map[string]Command),
		Stdout:   stdout,
	}
	rs.RegisterCommand("message", rs.builtinMessage)
	return rs
}

// Get looks up a variable by name.
func (rs *RunSpace) Get(name string) (value.Value, bool) {
	v, ok := rs.vars[name]
	return v, ok
}

// Set binds name to v, last-write-wins.
func (rs *RunSpace) Set(name string, v value.Value) {
	rs.vars[name] = v
}

// RegisterCommand installs a built-in command under name, overwriting any
// previous registration of the same name.
func (rs *RunSpace) RegisterCommand(name string, cmd Command) {
	rs.commands[name] = cmd
}

// Command looks up a registered built-in by name.
func (rs *RunSpace) Command(name string) (Command, bool) {
	cmd, ok := rs.commands[name]
	return cmd, ok
}

// builtinMessage joins its arguments with single spaces and writes one
// line to Stdout.
func (rs *RunSpace) builtinMessage(args []string) (value.Value, error) {
	fmt.Fprintln(rs.Stdout, strings.Join(args, " "))
	return value.NoneValue, nil
}
