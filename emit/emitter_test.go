package emit

import (
	"testing"

	"github.com/rougher0/golox/bytecode"
	"github.com/rougher0/golox/diag"
	"github.com/rougher0/golox/lexer"
	"github.com/rougher0/golox/parser"
	"github.com/rougher0/golox/semant"
	"github.com/rougher0/golox/types"
)

func compile(t *testing.T, src string) (*bytecode.ByteCode, []byte) {
	t.Helper()
	var c diag.Collector
	root, ok := parser.Parse(lexer.Scan(src), &c)
	if !ok {
		t.Fatalf("parse failed: %v", c.Entries)
	}
	if !semant.Check(root, &c) {
		t.Fatalf("check failed: %v", c.Entries)
	}
	code, _ := Emit(root)
	return code, code.Code
}

func TestEmitIntegerLiteralEncodesLittleEndian(t *testing.T) {
	_, code := compile(t, `log(1);`)
	// LOG pops a LOAD i32 1: LOAD, tag(I32), 4 LE bytes, then LOG, then RET.
	if code[0] != byte(bytecode.Load) {
		t.Fatalf("code[0] = %d, want LOAD", code[0])
	}
	if types.Tag(code[1]) != types.I32 {
		t.Fatalf("code[1] tag = %v, want i32", types.Tag(code[1]))
	}
	if code[2] != 1 || code[3] != 0 || code[4] != 0 || code[5] != 0 {
		t.Errorf("value bytes = %v, want [1 0 0 0]", code[2:6])
	}
	if bytecode.Op(code[6]) != bytecode.Log {
		t.Errorf("code[6] = %s, want LOG", bytecode.Op(code[6]))
	}
	if bytecode.Op(code[len(code)-1]) != bytecode.Ret {
		t.Errorf("last opcode = %s, want RET", bytecode.Op(code[len(code)-1]))
	}
}

func TestEmitStringLiteralInterns(t *testing.T) {
	var c diag.Collector
	root, ok := parser.Parse(lexer.Scan(`log("hi");`), &c)
	if !ok {
		t.Fatalf("parse failed: %v", c.Entries)
	}
	if !semant.Check(root, &c) {
		t.Fatalf("check failed: %v", c.Entries)
	}
	code, strs := Emit(root)
	if code.Code[0] != byte(bytecode.Loads) {
		t.Fatalf("code[0] = %d, want LOADS", code.Code[0])
	}
	if strs.Len() != 1 || strs.Get(0) != "hi" {
		t.Errorf("string table = %v, want [\"hi\"]", strs)
	}
}

func TestEmitStrictLessLowersToCmpThenCmpe(t *testing.T) {
	_, code := compile(t, `log(1 < 2);`)
	var ops []bytecode.Op
	i := 0
	for i < len(code) {
		op := bytecode.Op(code[i])
		ops = append(ops, op)
		i++
		switch op {
		case bytecode.Load:
			i += 1 + types.Tag(code[i]).Width()
		case bytecode.Loads:
			i += 4
		case bytecode.Store, bytecode.LoadLocal:
			i += 2
		}
	}
	found := false
	for idx := 0; idx+2 < len(ops); idx++ {
		if ops[idx] == bytecode.Cmp && ops[idx+1] == bytecode.Load && ops[idx+2] == bytecode.Cmpe {
			found = true
		}
	}
	if !found {
		t.Errorf("opcode sequence %v does not contain the expected CMP/LOAD/CMPE lowering", ops)
	}
}

func TestEmitVarDeclStoresThenIdentLoads(t *testing.T) {
	_, code := compile(t, `let x = 1; log(x);`)
	var sawStore, sawLoadLocal bool
	for _, b := range code {
		switch bytecode.Op(b) {
		case bytecode.Store:
			sawStore = true
		case bytecode.LoadLocal:
			sawLoadLocal = true
		}
	}
	if !sawStore || !sawLoadLocal {
		t.Errorf("expected both STORE and LOAD_LOCAL in %v", code)
	}
}
