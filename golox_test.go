package golox

import (
	"strings"
	"testing"

	"github.com/rougher0/golox/diag"
)

func TestPipelineEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"integer_add", `log(1 + 2);`, "3\n"},
		{"operator_precedence", `log(1 + 2 * 3);`, "7\n"},
		{"string_interpolation", `log("x=${1 + 2}y");`, "x=3y\n"},
		{"float_trailing_dot", `log(1.0 + 2.0);`, "3.0\n"},
		{"variable_roundtrip", `let x = 10; log(x * 2);`, "20\n"},
		{"boolean_comparison", `log(3 > 2);`, "true\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var collector diag.Collector
			got, ok := RunString(c.src, &collector)
			if !ok {
				t.Fatalf("pipeline failed: %v", collector.Entries)
			}
			if got != c.want {
				t.Errorf("output = %q, want %q", got, c.want)
			}
		})
	}
}

func TestPipelineReportsTypeMismatch(t *testing.T) {
	var collector diag.Collector
	_, ok := RunString(`log(1 + 1.0);`, &collector)
	if ok {
		t.Fatal("expected pipeline to reject i32 + f64")
	}
	if !messagesContain(&collector, "Cannot perform '+'") {
		t.Errorf("diagnostics = %v, want one mentioning \"Cannot perform '+'\"", collector.Entries)
	}
}

func TestPipelineReportsRedeclaration(t *testing.T) {
	var collector diag.Collector
	_, ok := RunString(`let x = 1; let x = 2;`, &collector)
	if ok {
		t.Fatal("expected pipeline to reject redeclaration of x")
	}
	if !messagesContain(&collector, "already exists") {
		t.Errorf("diagnostics = %v, want one mentioning 'already exists'", collector.Entries)
	}
}

func TestPipelineStopsBeforeExecutingIllTypedProgram(t *testing.T) {
	var collector diag.Collector
	out, ok := RunString(`log(y);`, &collector)
	if ok {
		t.Fatal("expected pipeline to reject undefined variable 'y'")
	}
	if out != "" {
		t.Errorf("expected no output for a rejected program, got %q", out)
	}
}

func TestPipelineReportsDivisionByZeroInsteadOfCrashing(t *testing.T) {
	var collector diag.Collector
	_, ok := RunString(`log(1 / 0);`, &collector)
	if ok {
		t.Fatal("expected pipeline to reject a division by zero")
	}
	if !messagesContain(&collector, "division by zero") {
		t.Errorf("diagnostics = %v, want one mentioning 'division by zero'", collector.Entries)
	}
}

func messagesContain(c *diag.Collector, substr string) bool {
	for _, e := range c.Entries {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
