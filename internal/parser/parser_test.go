package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cpcgskill/tentacle/internal/ast"
)

func TestParseExpr_Precedence(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"add-before-mul", "1 + 2 * 3", "1 + (2 * 3)"},
		{"mul-before-add", "1 * 2 + 3", "(1 * 2) + 3"},
		{"left-assoc-sub", "1 - 2 - 3", "(1 - 2) - 3"},
		{"left-assoc-div", "8 / 4 / 2", "(8 / 4) / 2"},
		{"eq-lowest", "1 + 1 == 2", "(1 + 1) == 2"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			na, err := ParseExpr(c.a)
			if err != nil {
				t.Fatalf("parse %q: %v", c.a, err)
			}
			nb, err := ParseExpr(c.b)
			if err != nil {
				t.Fatalf("parse %q: %v", c.b, err)
			}
			if diff := cmp.Diff(na, nb); diff != "" {
				t.Errorf("%q and %q parsed to different trees (-got +want):\n%s", c.a, c.b, diff)
			}
		})
	}
}

func TestParseExpr_RoundTrip(t *testing.T) {
	exprs := []string{
		"1 + 2 * 3",
		"(1 + 2) * 3",
		"1 - 2 - 3",
		"$x + $y",
		`"a" + 1 + 2.5`,
		"1 == 2",
		"1 != 2",
		"$a * ($b + $c) / $d",
	}
	for _, src := range exprs {
		n, err := ParseExpr(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		printed := ast.Unparse(n)
		n2, err := ParseExpr(printed)
		if err != nil {
			t.Fatalf("reparse unparsed %q (from %q): %v", printed, src, err)
		}
		if diff := cmp.Diff(n, n2); diff != "" {
			t.Errorf("round-trip mismatch for %q -> %q (-orig +reparsed):\n%s", src, printed, diff)
		}
	}
}

func TestParseExpr_Errors(t *testing.T) {
	cases := []string{
		`"unterminated`,
		"1 +",
		"(1 + 2",
		"1 + * 2",
	}
	for _, src := range cases {
		if _, err := ParseExpr(src); err == nil {
			t.Errorf("expected syntax error for %q, got none", src)
		}
	}
}

func TestParse_Assignment(t *testing.T) {
	mod, err := Parse("$x = 2\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := ast.Module{Body: []ast.Node{
		ast.SetAttr{Name: "x", Value: ast.Value{Literal: ast.IntLiteral(2), Line: 1}, Line: 1},
	}}
	if diff := cmp.Diff(mod, want); diff != "" {
		t.Errorf("mismatch (-got +want):\n%s", diff)
	}
}

func TestParse_AssignmentFromCommand(t *testing.T) {
	mod, err := Parse("$x = message hello\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	body := mod.Body
	if len(body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(body))
	}
	sa, ok := body[0].(ast.SetAttr)
	if !ok {
		t.Fatalf("expected SetAttr, got %T", body[0])
	}
	cmd, ok := sa.Value.(ast.Command)
	if !ok {
		t.Fatalf("expected Command RHS, got %T", sa.Value)
	}
	if cmd.Command != "message" || len(cmd.Args) != 1 {
		t.Errorf("unexpected command: %+v", cmd)
	}
}

func TestParse_IfElifElse(t *testing.T) {
	src := `$s = 1
if $s == 0:
	message zero
elif $s == 1:
	message one
else:
	message other
`
	mod, err := Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(mod.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(mod.Body))
	}
	ifNode, ok := mod.Body[1].(ast.If)
	if !ok {
		t.Fatalf("expected If, got %T", mod.Body[1])
	}
	if len(ifNode.Elifs) != 1 {
		t.Fatalf("expected 1 elif, got %d", len(ifNode.Elifs))
	}
	if !ifNode.HasElse || len(ifNode.Else) != 1 {
		t.Fatalf("expected an else clause, got %+v", ifNode)
	}
}

func TestParse_TargetWithDependency(t *testing.T) {
	src := `target $clean:
	message cleaning
target $build: $clean
	message building
`
	mod, err := Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(mod.Body) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(mod.Body))
	}
	build, ok := mod.Body[1].(ast.Target)
	if !ok {
		t.Fatalf("expected Target, got %T", mod.Body[1])
	}
	if build.Name != "build" || len(build.Require) != 1 || build.Require[0] != "clean" {
		t.Errorf("unexpected target: %+v", build)
	}
}

func TestParse_For(t *testing.T) {
	src := "for $item in $items:\n\tmessage $item\n"
	mod, err := Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	forNode, ok := mod.Body[0].(ast.For)
	if !ok {
		t.Fatalf("expected For, got %T", mod.Body[0])
	}
	if forNode.ItemVar != "item" {
		t.Errorf("unexpected item var: %q", forNode.ItemVar)
	}
}

func TestParse_IndentationMismatchEndsBlock(t *testing.T) {
	src := "target $t:\n\tmessage hi\nmessage bye\n"
	mod, err := Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(mod.Body) != 2 {
		t.Fatalf("expected target + trailing statement, got %d", len(mod.Body))
	}
}

func TestParse_RejectsTrailingGarbage(t *testing.T) {
	if _, err := Parse("$x = 1 2\n"); err == nil {
		t.Error("expected a syntax error for trailing garbage after assignment RHS")
	}
}

func TestParse_TargetMissingColonFallsBackToCommand(t *testing.T) {
	mod, err := Parse("target $clean\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cmd, ok := mod.Body[0].(ast.Command)
	if !ok {
		t.Fatalf("expected Command, got %T", mod.Body[0])
	}
	if cmd.Command != "target" || len(cmd.Args) != 1 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	name, ok := cmd.Args[0].(ast.Name)
	if !ok || name.Ident != "clean" {
		t.Errorf("expected arg $clean, got %+v", cmd.Args[0])
	}
}

func TestParse_IfMissingColonFallsBackToCommand(t *testing.T) {
	mod, err := Parse("if $s\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cmd, ok := mod.Body[0].(ast.Command)
	if !ok {
		t.Fatalf("expected Command, got %T", mod.Body[0])
	}
	if cmd.Command != "if" || len(cmd.Args) != 1 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestParse_ForMissingInFallsBackToCommand(t *testing.T) {
	mod, err := Parse("for $x\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cmd, ok := mod.Body[0].(ast.Command)
	if !ok {
		t.Fatalf("expected Command, got %T", mod.Body[0])
	}
	if cmd.Command != "for" || len(cmd.Args) != 1 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestParse_CommandWithBareAndValueArgs(t *testing.T) {
	mod, err := Parse("gcc -O2 (1 + 1) out.o\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cmd, ok := mod.Body[0].(ast.Command)
	if !ok {
		t.Fatalf("expected Command, got %T", mod.Body[0])
	}
	if cmd.Command != "gcc" || len(cmd.Args) != 3 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	if _, ok := cmd.Args[0].(ast.Value); !ok {
		t.Errorf("expected bare token -O2 to become a Value literal, got %T", cmd.Args[0])
	}
	if _, ok := cmd.Args[1].(ast.Expr); !ok {
		t.Errorf("expected parenthesized expr arg, got %T", cmd.Args[1])
	}
}
