package vm

import "github.com/trynova/nova-sub003/internal/heap"

// reference is the VM's in-flight Reference Record (spec.md §4.5's
// ResolveBinding/GetValue/PutValue operand), produced by OpResolveBinding
// and consumed by OpGetValue/OpPutValue/OpInitializeReferencedBinding.
// Property references (member-expression assignment targets) are not
// modeled yet — compileAssignment only emits identifier targets so far.
type reference struct {
	env      heap.EnvIndex
	name     string
	resolved bool
}
