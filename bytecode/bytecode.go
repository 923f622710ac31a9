package bytecode

import "sort"

// lineRun is one entry of the RLE line table: byte offset and the source
// line that starts there. Grounded on
// original_source/src/include/bytecode.hpp's util::RLE, which appends a
// pair only when the line changes and looks it up with an upper-bound
// binary search over offsets.
type lineRun struct {
	offset int
	line   int
}

// LineTable is a run-length-encoded map from bytecode byte offset to
// source line.
type LineTable struct {
	runs []lineRun
}

// Write records that the byte at offset belongs to line. It is a no-op
// if line is unchanged from the last recorded run, matching the RLE
// compression described in spec.md §4.4.
func (t *LineTable) Write(offset, line int) {
	if len(t.runs) == 0 || t.runs[len(t.runs)-1].line != line {
		t.runs = append(t.runs, lineRun{offset: offset, line: line})
	}
}

// Line returns the source line of the predecessor run at or before
// offset, per spec.md §8 property 3. It panics if offset precedes the
// first recorded run, which would indicate the caller queried into
// never-written bytecode.
func (t *LineTable) Line(offset int) int {
	i := sort.Search(len(t.runs), func(i int) bool {
		return t.runs[i].offset > offset
	})
	return t.runs[i-1].line
}

// ByteCode is a flat, little-endian byte stream plus its parallel line
// map.
type ByteCode struct {
	Code  []byte
	lines LineTable
}

// WriteByte appends one byte, recording its source line in the RLE map.
func (b *ByteCode) WriteByte(value byte, line int) {
	b.lines.Write(len(b.Code), line)
	b.Code = append(b.Code, value)
}

// LastLine returns the source line of the most recently written byte. It
// is used by the emitter to stamp a trailing RET with a sensible line
// when no expression-level line is otherwise available.
func (b *ByteCode) LastLine() int {
	if len(b.lines.runs) == 0 {
		return 0
	}
	return b.lines.runs[len(b.lines.runs)-1].line
}

// Line returns the source line that produced the byte at offset.
func (b *ByteCode) Line(offset int) int { return b.lines.Line(offset) }

// Len returns the number of bytes written so far.
func (b *ByteCode) Len() int { return len(b.Code) }
