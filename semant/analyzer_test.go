package semant

import (
	"strings"
	"testing"

	"github.com/rougher0/golox/diag"
	"github.com/rougher0/golox/lexer"
	"github.com/rougher0/golox/parser"
	"github.com/rougher0/golox/types"
)

func check(t *testing.T, src string) (bool, *diag.Collector) {
	t.Helper()
	var c diag.Collector
	root, parsedOK := parser.Parse(lexer.Scan(src), &c)
	if !parsedOK {
		t.Fatalf("parse failed: %v", c.Entries)
	}
	ok := Check(root, &c)
	return ok, &c
}

func TestCheckInfersLiteralTypeOntoVarDecl(t *testing.T) {
	var c diag.Collector
	root, _ := parser.Parse(lexer.Scan(`let x = 5;`), &c)
	if !Check(root, &c) {
		t.Fatalf("unexpected errors: %v", c.Entries)
	}
	if root.Table["x"].DeclaredType != types.I32 {
		t.Errorf("DeclaredType = %v, want i32", root.Table["x"].DeclaredType)
	}
}

func TestCheckRejectsRedeclaration(t *testing.T) {
	ok, errs := check(t, `let x = 1; let x = 2;`)
	if ok {
		t.Fatal("expected redeclaration to be rejected")
	}
	if !anyContains(errs, "already exists") {
		t.Errorf("errors = %v, want one mentioning 'already exists'", errs.Entries)
	}
}

func TestCheckRejectsAddTypeMismatch(t *testing.T) {
	ok, errs := check(t, `log(1 + 1.0);`)
	if ok {
		t.Fatal("expected i32 + f64 to be rejected")
	}
	if !anyContains(errs, "Cannot perform '+'") {
		t.Errorf("errors = %v, want one mentioning \"Cannot perform '+'\"", errs.Entries)
	}
}

func TestCheckRejectsDeclaredTypeMismatch(t *testing.T) {
	ok, errs := check(t, `let x: i32 = 1.0;`)
	if ok {
		t.Fatal("expected an f64 literal to be rejected against an i32 annotation")
	}
	if !anyContains(errs, "Type mismatch") {
		t.Errorf("errors = %v, want one mentioning 'Type mismatch'", errs.Entries)
	}
}

func TestCheckAllowsAddStringCoercion(t *testing.T) {
	ok, errs := check(t, `log("n=" + 1);`)
	if !ok {
		t.Fatalf("expected string + i32 coercion to be accepted, got: %v", errs.Entries)
	}
}

func TestCheckRejectsNegateOnUnsigned(t *testing.T) {
	ok, errs := check(t, `let x: u32 = 1; log(-x);`)
	if ok {
		t.Fatal("expected negation of an unsigned value to be rejected")
	}
	if !anyContains(errs, "Cannot negate") {
		t.Errorf("errors = %v, want one mentioning 'Cannot negate'", errs.Entries)
	}
}

func TestCheckResolvesIdentThroughNestedScope(t *testing.T) {
	ok, errs := check(t, `let x = 1; { log(x); }`)
	if !ok {
		t.Fatalf("expected inner block to resolve outer 'x', got: %v", errs.Entries)
	}
}

func TestCheckRejectsUndefinedIdent(t *testing.T) {
	ok, errs := check(t, `log(y);`)
	if ok {
		t.Fatal("expected reference to undefined 'y' to be rejected")
	}
	if !anyContains(errs, "Undefined variable") {
		t.Errorf("errors = %v, want one mentioning 'Undefined variable'", errs.Entries)
	}
}

func TestCheckAssignsDistinctSlotsInDeclarationOrder(t *testing.T) {
	var c diag.Collector
	root, _ := parser.Parse(lexer.Scan(`let a = 1; let b = 2;`), &c)
	if !Check(root, &c) {
		t.Fatalf("unexpected errors: %v", c.Entries)
	}
	a := root.Table["a"]
	b := root.Table["b"]
	if a.Slot == b.Slot {
		t.Errorf("expected distinct slots, got a.Slot=%d b.Slot=%d", a.Slot, b.Slot)
	}
	if a.DeclaredType != types.I32 || b.DeclaredType != types.I32 {
		t.Errorf("expected inferred i32 for both, got %v %v", a.DeclaredType, b.DeclaredType)
	}
}

func anyContains(c *diag.Collector, substr string) bool {
	for _, e := range c.Entries {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
