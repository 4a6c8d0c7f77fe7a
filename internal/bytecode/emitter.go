package bytecode

import (
	"fmt"

	"github.com/trynova/nova-sub003/internal/leb128"
	"github.com/trynova/nova-sub003/internal/value"
)

// maxSmallOperand is the u16::MAX ceiling spec.md §6.2 imposes on every
// non-jump operand; exceeding it is a fatal compile error.
const maxSmallOperand = 0xFFFF

// jumpSlotWidth is the fixed byte width reserved for a jump offset.
// Unlike pool-index operands (emitted as compact LEB128 varints since
// their value is known up front), a jump target is usually
// forward-referenced and patched in later, so its encoding must occupy a
// constant number of bytes decided before the target is known. 5 bytes is
// LEB128's maximum encoding length for a 32-bit value (spec.md §6.2's
// u32::MAX jump-offset ceiling), so every jump slot is padded out to
// exactly 5 bytes with continuation bits even when the value would fit
// in fewer.
const jumpSlotWidth = 5

// Builder incrementally constructs an Executable. It is the compiler's
// sole means of producing bytecode, keeping the emit-time operand-shape
// assertion in one place (spec.md §6.2: "The compiler rejects, via debug
// assertions, any mismatch between declared and emitted operand shape").
type Builder struct {
	instr       []byte
	constants   []value.Value
	identifiers []string
	identIndex  map[string]uint32

	funcExprs []*FunctionExpressionDescriptor
	arrowFns  []*ArrowFunctionDescriptor
	classInit []*ClassInitializerDescriptor

	source string
}

// NewBuilder starts a fresh Executable build for the given source text
// (retained for Function.prototype.toString).
func NewBuilder(source string) *Builder {
	return &Builder{identIndex: make(map[string]uint32), source: source}
}

// Pos returns the current instruction-stream length, usable as a jump
// target or a lexical-scope checkpoint.
func (b *Builder) Pos() int { return len(b.instr) }

// Emit0 appends an opcode declared to take no operand.
func (b *Builder) Emit0(op Opcode) {
	b.assertShape(op, operandNone)
	b.instr = append(b.instr, byte(op))
}

// EmitIndex appends an opcode that takes a single pool/identifier/
// immediate-count operand, encoded as a compact LEB128 varint.
func (b *Builder) EmitIndex(op Opcode, index uint32) {
	kind := shapeOf(op).operand
	if kind == operandNone || kind == operandJumpSlot {
		panic(fmt.Sprintf("bytecode: %s does not take an index operand", op))
	}
	if index > maxSmallOperand {
		panic(fmt.Sprintf("bytecode: operand %d for %s exceeds u16::MAX", index, op))
	}
	b.instr = append(b.instr, byte(op))
	b.instr = append(b.instr, leb128.EncodeUint32(index)...)
}

// EmitJump appends a jump opcode with a placeholder 5-byte target and
// returns the byte offset of that placeholder for later Patch.
func (b *Builder) EmitJump(op Opcode) int {
	b.assertShape(op, operandJumpSlot)
	b.instr = append(b.instr, byte(op))
	slot := len(b.instr)
	b.instr = append(b.instr, paddedLEB128(0)...)
	return slot
}

// Patch overwrites a previously emitted jump placeholder (the value
// returned by EmitJump) with the instruction offset target.
func (b *Builder) Patch(slot int, target int) {
	if target < 0 || uint64(target) > 0xFFFFFFFF {
		panic("bytecode: jump offset exceeds u32::MAX")
	}
	copy(b.instr[slot:slot+jumpSlotWidth], paddedLEB128(uint32(target)))
}

// paddedLEB128 encodes v as LEB128, always forcing exactly jumpSlotWidth
// bytes by setting the continuation bit on every byte but the last and
// zero-padding beyond what v naturally needs.
func paddedLEB128(v uint32) []byte {
	out := make([]byte, jumpSlotWidth)
	for i := 0; i < jumpSlotWidth; i++ {
		b := byte(v & 0x7f)
		v >>= 7
		if i < jumpSlotWidth-1 {
			out[i] = b | 0x80
		} else {
			out[i] = b
		}
	}
	return out
}

func decodePaddedLEB128(b []byte) uint32 {
	var v uint32
	for i := 0; i < jumpSlotWidth && i < len(b); i++ {
		v |= uint32(b[i]&0x7f) << (7 * uint(i))
	}
	return v
}

func (b *Builder) assertShape(op Opcode, want operandKind) {
	if got := shapeOf(op).operand; got != want {
		panic(fmt.Sprintf("bytecode: opcode %s declares operand kind %d, emitter used %d", op, got, want))
	}
}

// ConstantIndex interns v into the constants pool, returning its index.
// Constants are not deduplicated: the compiler only calls this once per
// literal occurrence, and a pool scan on every literal would cost more
// than the rare duplicate saves.
func (b *Builder) ConstantIndex(v value.Value) uint32 {
	b.constants = append(b.constants, v)
	return uint32(len(b.constants) - 1)
}

// IdentifierIndex interns name into the identifier pool, returning its
// index; repeated names share one slot.
func (b *Builder) IdentifierIndex(name string) uint32 {
	if idx, ok := b.identIndex[name]; ok {
		return idx
	}
	idx := uint32(len(b.identifiers))
	b.identifiers = append(b.identifiers, name)
	b.identIndex[name] = idx
	return idx
}

// AddFunctionExpression appends d to the function-expression table,
// returning its index.
func (b *Builder) AddFunctionExpression(d *FunctionExpressionDescriptor) uint32 {
	b.funcExprs = append(b.funcExprs, d)
	return uint32(len(b.funcExprs) - 1)
}

// AddArrowFunction appends d to the arrow-function table, returning its
// index.
func (b *Builder) AddArrowFunction(d *ArrowFunctionDescriptor) uint32 {
	b.arrowFns = append(b.arrowFns, d)
	return uint32(len(b.arrowFns) - 1)
}

// AddClassInitializer appends d to the class-initializer table, returning
// its index.
func (b *Builder) AddClassInitializer(d *ClassInitializerDescriptor) uint32 {
	b.classInit = append(b.classInit, d)
	return uint32(len(b.classInit) - 1)
}

// Finish produces the completed Executable.
func (b *Builder) Finish() *Executable {
	return &Executable{
		Instructions:        b.instr,
		Constants:           b.constants,
		Identifiers:         b.identifiers,
		FunctionExpressions: b.funcExprs,
		ArrowFunctions:      b.arrowFns,
		ClassInitializers:   b.classInit,
		SourceText:          b.source,
	}
}
