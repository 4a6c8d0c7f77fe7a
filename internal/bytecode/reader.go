package bytecode

import "github.com/trynova/nova-sub003/internal/leb128"

// Reader decodes an Executable's instruction stream one opcode at a time,
// used by both the VM's fetch-decode loop and the disassembler.
type Reader struct {
	code []byte
	pos  int
}

// NewReader starts reading code from byte offset 0.
func NewReader(code []byte) *Reader { return &Reader{code: code} }

// Pos returns the current byte offset, usable to record a jump target
// before decoding the next instruction.
func (r *Reader) Pos() int { return r.pos }

// Seek jumps the reader to an absolute instruction offset (the VM does
// this after a successful conditional/unconditional jump).
func (r *Reader) Seek(pos int) { r.pos = pos }

// Done reports whether the stream is exhausted.
func (r *Reader) Done() bool { return r.pos >= len(r.code) }

// Next decodes the opcode at the current position and advances past it
// and its operand (if any), returning the opcode and its decoded operand.
// For opcodes with no operand, operand is 0.
func (r *Reader) Next() (op Opcode, operand uint32) {
	op = Opcode(r.code[r.pos])
	r.pos++
	shape := shapeOf(op)
	switch shape.operand {
	case operandNone:
		return op, 0
	case operandJumpSlot:
		operand = decodePaddedLEB128(r.code[r.pos : r.pos+jumpSlotWidth])
		r.pos += jumpSlotWidth
		return op, operand
	default:
		v, n, err := leb128.LoadUint32(r.code[r.pos:])
		if err != nil {
			panic("bytecode: malformed operand: " + err.Error())
		}
		r.pos += int(n)
		return op, v
	}
}
