package vm

import (
	"strconv"

	"github.com/rougher0/golox/strtab"
	"github.com/rougher0/golox/types"
)

// Value is a tagged runtime value living on the VM stack or in a frame
// slot. Unlike original_source's untyped byte stack, Go gives us no safe
// reinterpret-cast between representations, so each Value carries its
// own types.Tag and stores its payload in the field that tag implies:
// I for signed widths, U for unsigned widths and bool (0/1), F for both
// float widths, S for an interned string handle.
type Value struct {
	Tag types.Tag
	I   int64
	U   uint64
	F   float64
	S   strtab.Handle
}

func NewBool(b bool) Value {
	var u uint64
	if b {
		u = 1
	}
	return Value{Tag: types.Bool, U: u}
}

func NewInt(tag types.Tag, v int64) Value {
	return Value{Tag: tag, I: wrapSigned(tag, v)}
}

func NewUint(tag types.Tag, v uint64) Value {
	return Value{Tag: tag, U: wrapUnsigned(tag, v)}
}

func NewFloat(tag types.Tag, v float64) Value {
	if tag == types.F32 {
		v = float64(float32(v))
	}
	return Value{Tag: tag, F: v}
}

func NewString(h strtab.Handle) Value {
	return Value{Tag: types.String, S: h}
}

// wrapSigned truncates v to tag's natural width and sign-extends it back
// to int64, the same two's-complement wraparound original_source's raw
// byte arithmetic gets for free.
func wrapSigned(tag types.Tag, v int64) int64 {
	switch tag.Width() {
	case 1:
		return int64(int8(v))
	case 2:
		return int64(int16(v))
	case 4:
		return int64(int32(v))
	default:
		return v
	}
}

func wrapUnsigned(tag types.Tag, v uint64) uint64 {
	switch tag.Width() {
	case 1:
		return uint64(uint8(v))
	case 2:
		return uint64(uint16(v))
	case 4:
		return uint64(uint32(v))
	default:
		return v
	}
}

// truthy reports whether v counts as true for NOT: bool by its own
// value, string by non-emptiness, everything else by being nonzero.
func truthy(v Value, strs *strtab.Table) bool {
	switch {
	case v.Tag == types.Bool:
		return v.U != 0
	case v.Tag == types.String:
		return strs.Get(v.S) != ""
	case v.Tag.IsFloat():
		return v.F != 0
	case v.Tag.IsSigned():
		return v.I != 0
	default:
		return v.U != 0
	}
}

// formatValue renders v the way LOG prints it: bool as true/false,
// integers in base 10, floats trimmed of trailing zeros but always
// keeping one fractional digit (original_source/src/util.cpp's float
// formatting), strings by their interned contents.
func formatValue(v Value, strs *strtab.Table) string {
	switch {
	case v.Tag == types.Bool:
		return strconv.FormatBool(v.U != 0)
	case v.Tag == types.String:
		return strs.Get(v.S)
	case v.Tag == types.F32:
		return formatFloat(v.F, 32)
	case v.Tag == types.F64:
		return formatFloat(v.F, 64)
	case v.Tag.IsSigned():
		return strconv.FormatInt(v.I, 10)
	default:
		return strconv.FormatUint(v.U, 10)
	}
}

func formatFloat(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s
		}
	}
	return s + ".0"
}
