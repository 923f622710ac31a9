// Package emit walks a type-checked AST and produces a linear bytecode
// stream plus the string table its LOADS instructions reference.
//
// Grounded on original_source/src/compiler.cpp's post-order emission
// (operands before operator) and its CMP + LOAD i8 ±1 + CMPE lowering
// for strict '<'/'>' comparisons; the int/float opcode-pair selection
// follows original_source/src/include/instr.hpp's adjacent-opcode
// convention, mirrored here via bytecode.FloatOf.
package emit

import (
	"math"
	"strconv"
	"strings"

	"github.com/rougher0/golox/ast"
	"github.com/rougher0/golox/bytecode"
	"github.com/rougher0/golox/strtab"
	"github.com/rougher0/golox/types"
)

// Emitter holds the in-progress bytecode buffer and string table for one
// compilation.
type Emitter struct {
	bc      *bytecode.ByteCode
	strings *strtab.Table
}

// Emit compiles every statement in root's scope tree into a flat
// bytecode stream terminated by RET, and returns it alongside the string
// table populated by any string literal or interpolation segment.
func Emit(root *ast.Scope) (*bytecode.ByteCode, *strtab.Table) {
	e := &Emitter{bc: &bytecode.ByteCode{}, strings: strtab.New()}
	e.emitScope(root)
	e.bc.WriteByte(byte(bytecode.Ret), e.bc.LastLine())
	return e.bc, e.strings
}

func (e *Emitter) emitScope(scope *ast.Scope) {
	for _, stmt := range scope.Statements {
		e.emitStmt(stmt)
	}
}

func (e *Emitter) emitStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		e.emitExpr(s.Expr)
		e.writeSlotOp(bytecode.Store, s.Slot, s.LineNr)
	case *ast.Log:
		e.emitExpr(s.Expr)
		e.bc.WriteByte(byte(bytecode.Log), s.LineNr)
	case *ast.Scope:
		e.emitScope(s)
	}
}

// writeSlotOp emits a STORE/LOAD_LOCAL opcode followed by its 2-byte
// little-endian frame-slot operand, supplementing spec.md's closed
// opcode list per the variable-storage resolution in SPEC_FULL.md.
func (e *Emitter) writeSlotOp(op bytecode.Op, slot, line int) {
	e.bc.WriteByte(byte(op), line)
	e.bc.WriteByte(byte(slot), line)
	e.bc.WriteByte(byte(slot>>8), line)
}

func (e *Emitter) emitExpr(expr ast.Expr) {
	line := expr.Line()
	switch ex := expr.(type) {
	case *ast.Literal:
		e.emitLiteral(ex)

	case *ast.Ident:
		e.writeSlotOp(bytecode.LoadLocal, ex.Decl.Slot, line)

	case *ast.Add:
		// String-coercion adds mix operand types; the VM resolves the
		// concrete behavior from each popped value's runtime tag, so
		// ADD is always emitted without a float/int variant choice.
		e.emitExpr(ex.Left)
		e.emitExpr(ex.Right)
		e.bc.WriteByte(byte(bytecode.Add), line)

	case *ast.Sub:
		e.emitArith(ex.Left, ex.Right, bytecode.Sub, line)
	case *ast.Mul:
		e.emitArith(ex.Left, ex.Right, bytecode.Mul, line)
	case *ast.Div:
		e.emitArith(ex.Left, ex.Right, bytecode.Div, line)
	case *ast.Mod:
		e.emitArith(ex.Left, ex.Right, bytecode.Mod, line)

	case *ast.CompareLess:
		e.emitOrdered(ex.Left, ex.Right, false, line)
	case *ast.CompareGreater:
		e.emitOrdered(ex.Left, ex.Right, true, line)
	case *ast.CompareEqual:
		e.emitEquality(ex.Left, ex.Right, line)

	case *ast.Negate:
		e.emitExpr(ex.Child)
		op := bytecode.Neg
		if ex.Child.Type().IsFloat() {
			op = bytecode.NegF
		}
		e.bc.WriteByte(byte(op), line)

	case *ast.Not:
		e.emitExpr(ex.Child)
		e.bc.WriteByte(byte(bytecode.Not), line)
	}
}

func (e *Emitter) emitArith(left, right ast.Expr, op bytecode.Op, line int) {
	e.emitExpr(left)
	e.emitExpr(right)
	if left.Type().IsFloat() {
		op = bytecode.FloatOf(op)
	}
	e.bc.WriteByte(byte(op), line)
}

// emitOrdered lowers strict '<' and '>' into CMP (pushing a tri-state
// -1/0/1 I8) followed by LOAD of the matching I8 constant and CMPE,
// rather than giving the bytecode its own LESS/GREATER opcodes.
func (e *Emitter) emitOrdered(left, right ast.Expr, wantGreater bool, line int) {
	e.emitExpr(left)
	e.emitExpr(right)

	cmpOp := bytecode.Cmp
	if left.Type().IsFloat() {
		cmpOp = bytecode.CmpF
	}
	e.bc.WriteByte(byte(cmpOp), line)

	want := int8(-1)
	if wantGreater {
		want = 1
	}
	e.bc.WriteByte(byte(bytecode.Load), line)
	e.bc.WriteByte(byte(types.I8), line)
	e.bc.WriteByte(byte(want), line)
	e.bc.WriteByte(byte(bytecode.Cmpe), line)
}

func (e *Emitter) emitEquality(left, right ast.Expr, line int) {
	e.emitExpr(left)
	e.emitExpr(right)
	op := bytecode.Cmpe
	if left.Type().IsFloat() {
		op = bytecode.CmpeF
	}
	e.bc.WriteByte(byte(op), line)
}

func (e *Emitter) emitLiteral(lit *ast.Literal) {
	line := lit.Line()
	switch lit.Type() {
	case types.Bool:
		var v byte
		if lit.Word() == "true" {
			v = 1
		}
		e.bc.WriteByte(byte(bytecode.Load), line)
		e.bc.WriteByte(byte(types.Bool), line)
		e.bc.WriteByte(v, line)

	case types.String:
		h := e.strings.Intern(lit.Word())
		e.bc.WriteByte(byte(bytecode.Loads), line)
		e.writeLE(uint64(h), 4, line)

	case types.F32:
		f, _ := strconv.ParseFloat(strings.TrimSuffix(lit.Word(), "f"), 32)
		e.bc.WriteByte(byte(bytecode.Load), line)
		e.bc.WriteByte(byte(types.F32), line)
		e.writeLE(uint64(math.Float32bits(float32(f))), 4, line)

	case types.F64:
		f, _ := strconv.ParseFloat(lit.Word(), 64)
		e.bc.WriteByte(byte(bytecode.Load), line)
		e.bc.WriteByte(byte(types.F64), line)
		e.writeLE(math.Float64bits(f), 8, line)

	default: // integer widths
		width := lit.Type().Width()
		var bits uint64
		if lit.Type().IsUnsigned() {
			u, _ := strconv.ParseUint(lit.Word(), 10, width*8)
			bits = u
		} else {
			i, _ := strconv.ParseInt(lit.Word(), 10, width*8)
			bits = uint64(i)
		}
		e.bc.WriteByte(byte(bytecode.Load), line)
		e.bc.WriteByte(byte(lit.Type()), line)
		e.writeLE(bits, width, line)
	}
}

// writeLE appends the low width bytes of value in little-endian order.
func (e *Emitter) writeLE(value uint64, width, line int) {
	for i := 0; i < width; i++ {
		e.bc.WriteByte(byte(value), line)
		value >>= 8
	}
}
