package parser

import (
	"testing"

	"github.com/rougher0/golox/ast"
	"github.com/rougher0/golox/diag"
	"github.com/rougher0/golox/lexer"
)

func parse(t *testing.T, src string) (*ast.Scope, *diag.Collector) {
	t.Helper()
	var c diag.Collector
	root, ok := Parse(lexer.Scan(src), &c)
	if ok != !c.HasErrors() {
		t.Fatalf("Parse() ok=%v inconsistent with collected errors %v", ok, c.Entries)
	}
	return root, &c
}

func TestParseArithmeticPrecedence(t *testing.T) {
	root, errs := parse(t, `log(1 + 2 * 3);`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Entries)
	}
	logStmt, ok := root.Statements[0].(*ast.Log)
	if !ok {
		t.Fatalf("statement 0 = %T, want *ast.Log", root.Statements[0])
	}
	add, ok := logStmt.Expr.(*ast.Add)
	if !ok {
		t.Fatalf("log expr = %T, want *ast.Add (multiplication should bind tighter)", logStmt.Expr)
	}
	if _, ok := add.Right.(*ast.Mul); !ok {
		t.Errorf("right operand of + = %T, want *ast.Mul", add.Right)
	}
}

func TestParseComparisonLowering(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"less", `log(1 < 2);`, "*ast.CompareLess"},
		{"greater", `log(1 > 2);`, "*ast.CompareGreater"},
		{"equal", `log(1 == 2);`, "*ast.CompareEqual"},
		{"lessEqual", `log(1 <= 2);`, "*ast.Not"},
		{"greaterEqual", `log(1 >= 2);`, "*ast.Not"},
		{"notEqual", `log(1 != 2);`, "*ast.Not"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			root, errs := parse(t, c.src)
			if errs.HasErrors() {
				t.Fatalf("unexpected errors: %v", errs.Entries)
			}
			expr := root.Statements[0].(*ast.Log).Expr
			got := typeName(expr)
			if got != c.want {
				t.Errorf("expr type = %s, want %s", got, c.want)
			}
		})
	}
}

func typeName(e ast.Expr) string {
	switch e.(type) {
	case *ast.CompareLess:
		return "*ast.CompareLess"
	case *ast.CompareGreater:
		return "*ast.CompareGreater"
	case *ast.CompareEqual:
		return "*ast.CompareEqual"
	case *ast.Not:
		return "*ast.Not"
	default:
		return "?"
	}
}

func TestParseNotLoweringWrapsCorrectOperator(t *testing.T) {
	root, errs := parse(t, `log(1 <= 2);`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Entries)
	}
	not := root.Statements[0].(*ast.Log).Expr.(*ast.Not)
	if _, ok := not.Child.(*ast.CompareGreater); !ok {
		t.Errorf("'<=' should lower to not(greater), got not(%T)", not.Child)
	}
}

func TestParseVarDeclWithAnnotation(t *testing.T) {
	root, errs := parse(t, `let x: i64 = 1;`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Entries)
	}
	decl, ok := root.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("statement 0 = %T, want *ast.VarDecl", root.Statements[0])
	}
	if decl.Name != "x" {
		t.Errorf("Name = %q, want %q", decl.Name, "x")
	}
}

func TestParseStringInterpolationFlattensToAddChain(t *testing.T) {
	root, errs := parse(t, `log("x=${1}y");`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Entries)
	}
	expr := root.Statements[0].(*ast.Log).Expr
	outer, ok := expr.(*ast.Add)
	if !ok {
		t.Fatalf("interpolated string expr = %T, want *ast.Add", expr)
	}
	if _, ok := outer.Left.(*ast.Add); !ok {
		t.Errorf("left operand = %T, want nested *ast.Add", outer.Left)
	}
}

func TestParseBlockCreatesNestedScope(t *testing.T) {
	root, errs := parse(t, `{ let x = 1; }`)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Entries)
	}
	inner, ok := root.Statements[0].(*ast.Scope)
	if !ok {
		t.Fatalf("statement 0 = %T, want *ast.Scope", root.Statements[0])
	}
	if inner.Parent != root {
		t.Errorf("inner.Parent = %p, want %p", inner.Parent, root)
	}
	if len(inner.Statements) != 1 {
		t.Errorf("len(inner.Statements) = %d, want 1", len(inner.Statements))
	}
}

func TestParseSyntaxErrorRecovers(t *testing.T) {
	// A missing ')' on the first log should be reported, but the parser
	// should still recover and parse the second, valid statement.
	root, errs := parse(t, `log(1; log(2);`)
	if !errs.HasErrors() {
		t.Fatal("expected a reported syntax error")
	}
	if len(root.Statements) != 1 {
		t.Fatalf("len(root.Statements) = %d, want 1 (the recovered second log)", len(root.Statements))
	}
	if _, ok := root.Statements[0].(*ast.Log); !ok {
		t.Errorf("statement 0 = %T, want *ast.Log", root.Statements[0])
	}
}
