package vm

import (
	"fmt"

	"github.com/trynova/nova-sub003/internal/heap"
	"github.com/trynova/nova-sub003/internal/value"
)

// ThrownError wraps an ECMAScript thrown value as a Go error so the VM's
// run loop can propagate it through ordinary Go control flow; the embedding
// api package returns it to the host unchanged, and the host reads the
// thrown value from its Value field.
type ThrownError struct {
	Kind    string
	Message string
	Value   value.Value
}

func (e *ThrownError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("uncaught exception: %s", e.Value.String())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Engine) throwError(kind, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	ed := &heap.ErrorData{
		ObjectData: *heap.NewObjectData(value.Null()),
		Kind:       kind,
		Message:    msg,
	}
	e.Heap.Errors = append(e.Heap.Errors, ed)
	v := value.HeapIndex(value.TagError, uint32(len(e.Heap.Errors)-1))
	return &ThrownError{Kind: kind, Message: msg, Value: v}
}

// userThrow wraps an arbitrary ECMAScript value thrown by a `throw`
// statement (OpThrow), as opposed to an internally-raised error with a
// Kind/Message pair.
func (e *Engine) userThrow(v value.Value) error {
	return &ThrownError{Value: v}
}

func (e *Engine) referenceError(name string) error {
	return e.throwError("ReferenceError", "%s is not defined", name)
}

func (e *Engine) typeError(format string, args ...any) error {
	return e.throwError("TypeError", format, args...)
}
