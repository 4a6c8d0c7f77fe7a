package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders e as a human-readable instruction listing, one line
// per instruction, in the same text/binary duality the teacher's `.wat`
// text format has with its binary decoder (SPEC_FULL.md §3.5): every
// Executable can round-trip to a readable listing for debugging without
// the VM ever consuming this format itself.
func Disassemble(e *Executable) string {
	var sb strings.Builder
	r := NewReader(e.Instructions)
	for !r.Done() {
		offset := r.Pos()
		op, operand := r.Next()
		fmt.Fprintf(&sb, "%6d  %s", offset, op)
		switch shapeOf(op).operand {
		case operandNone:
		case operandJumpSlot:
			fmt.Fprintf(&sb, " -> %d", operand)
		case operandConstantIndex:
			if int(operand) < len(e.Constants) {
				fmt.Fprintf(&sb, " #%d (%s)", operand, e.Constants[operand].String())
			} else {
				fmt.Fprintf(&sb, " #%d", operand)
			}
		case operandIdentifierIndex:
			if int(operand) < len(e.Identifiers) {
				fmt.Fprintf(&sb, " %q", e.Identifiers[operand])
			} else {
				fmt.Fprintf(&sb, " id#%d", operand)
			}
		case operandFunctionExpressionIndex:
			fmt.Fprintf(&sb, " fn#%d", operand)
		case operandArrowFunctionIndex:
			fmt.Fprintf(&sb, " arrow#%d", operand)
		default:
			fmt.Fprintf(&sb, " %d", operand)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
