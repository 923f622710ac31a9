// Package vm executes the linear bytecode produced by package emit on a
// fixed-capacity stack of tagged values.
//
// Grounded on original_source/src/vm.cpp's fetch-decode-execute loop
// (opcode byte, then its operand bytes, then dispatch) and db47h-ngaro's
// vm/core.go for the idiom of running that loop as an ordinary Go
// function over a byte slice rather than a separate hardware emulator
// process (the distinction DESIGN.md draws against the teacher's own
// emul/ package, which models the unrelated WUT-4 hardware ISA).
package vm

import (
	"fmt"
	"io"
	"math"
	stdstrings "strings"

	"github.com/rougher0/golox/bytecode"
	"github.com/rougher0/golox/strtab"
	"github.com/rougher0/golox/types"
)

// stackCapacity bounds the VM's operand stack, matching the fixed
// budget spec.md §5.1 assumes no program under test can exceed.
const stackCapacity = 8192

// VM holds one program's execution state: the instruction stream, its
// string table, the operand stack, and the `let` frame slots.
type VM struct {
	code    []byte
	strs    *strtab.Table
	out     io.Writer
	stack   []Value
	locals  []Value
}

// New creates a VM ready to run code against strs, writing every LOG
// statement's output to out.
func New(code *bytecode.ByteCode, strs *strtab.Table, out io.Writer) *VM {
	return &VM{
		code:  code.Code,
		strs:  strs,
		out:   out,
		stack: make([]Value, 0, stackCapacity),
	}
}

// Run executes the program to completion (its trailing RET), returning
// an error if the stack would overflow or the instruction stream is
// malformed.
func (m *VM) Run() error {
	pc := 0
	for pc < len(m.code) {
		op := bytecode.Op(m.code[pc])
		pc++

		switch op {
		case bytecode.Ret:
			return nil

		case bytecode.Log:
			v, err := m.pop()
			if err != nil {
				return err
			}
			fmt.Fprintln(m.out, formatValue(v, m.strs))

		case bytecode.Load:
			tag := types.Tag(m.code[pc])
			pc++
			width := tag.Width()
			raw := readLE(m.code[pc : pc+width])
			pc += width
			if err := m.push(valueFromRaw(tag, raw)); err != nil {
				return err
			}

		case bytecode.Loads:
			raw := readLE(m.code[pc : pc+4])
			pc += 4
			if err := m.push(NewString(strtab.Handle(raw))); err != nil {
				return err
			}

		case bytecode.Store:
			slot := int(readLE(m.code[pc : pc+2]))
			pc += 2
			v, err := m.pop()
			if err != nil {
				return err
			}
			m.setLocal(slot, v)

		case bytecode.LoadLocal:
			slot := int(readLE(m.code[pc : pc+2]))
			pc += 2
			if err := m.push(m.getLocal(slot)); err != nil {
				return err
			}

		case bytecode.Add:
			if err := m.binaryAdd(); err != nil {
				return err
			}

		case bytecode.Sub, bytecode.SubF:
			if err := m.binaryArith(op, func(a, b int64) int64 { return a - b },
				func(a, b uint64) uint64 { return a - b },
				func(a, b float64) float64 { return a - b }); err != nil {
				return err
			}

		case bytecode.Mul, bytecode.MulF:
			if err := m.binaryArith(op, func(a, b int64) int64 { return a * b },
				func(a, b uint64) uint64 { return a * b },
				func(a, b float64) float64 { return a * b }); err != nil {
				return err
			}

		case bytecode.Div, bytecode.DivF:
			if err := m.divide(op); err != nil {
				return err
			}

		case bytecode.Mod, bytecode.ModF:
			if err := m.modulo(op); err != nil {
				return err
			}

		case bytecode.Cmp, bytecode.CmpF:
			if err := m.compareOrdered(op); err != nil {
				return err
			}

		case bytecode.Cmpe, bytecode.CmpeF:
			if err := m.compareEqual(op); err != nil {
				return err
			}

		case bytecode.Neg, bytecode.NegF:
			if err := m.negate(op); err != nil {
				return err
			}

		case bytecode.Not:
			v, err := m.pop()
			if err != nil {
				return err
			}
			if err := m.push(NewBool(!truthy(v, m.strs))); err != nil {
				return err
			}

		default:
			return fmt.Errorf("vm: unknown opcode %d at offset %d", op, pc-1)
		}
	}
	return nil
}

// divide pops the two operands and pushes their quotient, checking for a
// zero divisor first: spec.md §4.6 classifies integer division by zero as
// a fatal runtime condition that must halt execution via a returned error
// rather than a crash, the same way stack overflow/underflow are surfaced.
func (m *VM) divide(op bytecode.Op) error {
	b, err := m.pop()
	if err != nil {
		return err
	}
	a, err := m.pop()
	if err != nil {
		return err
	}
	if bytecode.IsFloat(op) {
		return m.push(NewFloat(a.Tag, a.F/b.F))
	}
	if a.Tag.IsSigned() {
		if b.I == 0 {
			return fmt.Errorf("vm: division by zero")
		}
		return m.push(NewInt(a.Tag, a.I/b.I))
	}
	if b.U == 0 {
		return fmt.Errorf("vm: division by zero")
	}
	return m.push(NewUint(a.Tag, a.U/b.U))
}

// modulo mirrors divide's zero check for '%'. Float MOD uses math.Mod,
// matching original_source/src/vm.cpp's truncated C++ fmod semantics.
func (m *VM) modulo(op bytecode.Op) error {
	b, err := m.pop()
	if err != nil {
		return err
	}
	a, err := m.pop()
	if err != nil {
		return err
	}
	if bytecode.IsFloat(op) {
		return m.push(NewFloat(a.Tag, math.Mod(a.F, b.F)))
	}
	if a.Tag.IsSigned() {
		if b.I == 0 {
			return fmt.Errorf("vm: division by zero")
		}
		return m.push(NewInt(a.Tag, a.I%b.I))
	}
	if b.U == 0 {
		return fmt.Errorf("vm: division by zero")
	}
	return m.push(NewUint(a.Tag, a.U%b.U))
}

func (m *VM) binaryAdd() error {
	b, err := m.pop()
	if err != nil {
		return err
	}
	a, err := m.pop()
	if err != nil {
		return err
	}
	if a.Tag == types.String || b.Tag == types.String {
		left := formatValue(a, m.strs)
		right := formatValue(b, m.strs)
		return m.push(NewString(m.strs.Intern(left + right)))
	}
	switch {
	case a.Tag.IsFloat():
		return m.push(NewFloat(a.Tag, a.F+b.F))
	case a.Tag.IsSigned():
		return m.push(NewInt(a.Tag, a.I+b.I))
	default:
		return m.push(NewUint(a.Tag, a.U+b.U))
	}
}

func (m *VM) binaryArith(op bytecode.Op, signed func(a, b int64) int64, unsigned func(a, b uint64) uint64, float func(a, b float64) float64) error {
	b, err := m.pop()
	if err != nil {
		return err
	}
	a, err := m.pop()
	if err != nil {
		return err
	}
	if bytecode.IsFloat(op) {
		return m.push(NewFloat(a.Tag, float(a.F, b.F)))
	}
	if a.Tag.IsSigned() {
		return m.push(NewInt(a.Tag, signed(a.I, b.I)))
	}
	return m.push(NewUint(a.Tag, unsigned(a.U, b.U)))
}

func (m *VM) compareOrdered(op bytecode.Op) error {
	b, err := m.pop()
	if err != nil {
		return err
	}
	a, err := m.pop()
	if err != nil {
		return err
	}
	var result int64
	switch {
	case bytecode.IsFloat(op):
		switch {
		case a.F < b.F:
			result = -1
		case a.F > b.F:
			result = 1
		}
	case a.Tag == types.String:
		result = int64(stdstrings.Compare(m.strs.Get(a.S), m.strs.Get(b.S)))
	case a.Tag.IsSigned():
		switch {
		case a.I < b.I:
			result = -1
		case a.I > b.I:
			result = 1
		}
	default:
		switch {
		case a.U < b.U:
			result = -1
		case a.U > b.U:
			result = 1
		}
	}
	return m.push(Value{Tag: types.I8, I: result})
}

func (m *VM) compareEqual(op bytecode.Op) error {
	b, err := m.pop()
	if err != nil {
		return err
	}
	a, err := m.pop()
	if err != nil {
		return err
	}
	var eq bool
	switch {
	case bytecode.IsFloat(op):
		eq = a.F == b.F
	case a.Tag == types.String:
		eq = m.strs.Get(a.S) == m.strs.Get(b.S)
	case a.Tag.IsSigned():
		eq = a.I == b.I
	default:
		eq = a.U == b.U
	}
	return m.push(NewBool(eq))
}

func (m *VM) negate(op bytecode.Op) error {
	a, err := m.pop()
	if err != nil {
		return err
	}
	if bytecode.IsFloat(op) {
		return m.push(NewFloat(a.Tag, -a.F))
	}
	return m.push(NewInt(a.Tag, -a.I))
}

func (m *VM) push(v Value) error {
	if len(m.stack) >= stackCapacity {
		return fmt.Errorf("vm: stack overflow")
	}
	m.stack = append(m.stack, v)
	return nil
}

func (m *VM) pop() (Value, error) {
	n := len(m.stack)
	if n == 0 {
		return Value{}, fmt.Errorf("vm: stack underflow")
	}
	v := m.stack[n-1]
	m.stack = m.stack[:n-1]
	return v, nil
}

func (m *VM) setLocal(slot int, v Value) {
	for len(m.locals) <= slot {
		m.locals = append(m.locals, Value{})
	}
	m.locals[slot] = v
}

func (m *VM) getLocal(slot int) Value {
	if slot >= len(m.locals) {
		return Value{}
	}
	return m.locals[slot]
}

func readLE(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// valueFromRaw interprets a raw little-endian operand according to tag,
// sign-extending signed widths the way original_source's LOAD bytecode
// handler reads straight off the instruction stream.
func valueFromRaw(tag types.Tag, raw uint64) Value {
	switch {
	case tag == types.Bool:
		return NewBool(raw != 0)
	case tag == types.F32:
		return NewFloat(tag, float64(math.Float32frombits(uint32(raw))))
	case tag == types.F64:
		return NewFloat(tag, math.Float64frombits(raw))
	case tag.IsSigned():
		return NewInt(tag, signExtend(raw, tag.Width()))
	default:
		return NewUint(tag, raw)
	}
}

func signExtend(raw uint64, width int) int64 {
	shift := uint(64 - width*8)
	return int64(raw<<shift) >> shift
}
