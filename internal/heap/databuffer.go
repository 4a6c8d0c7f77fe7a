package heap

// DataBlock is the shared mutable byte buffer backing ArrayBuffer,
// DataView and the typed-array variants. Grounded on
// original_source/nova_vm/.../types/spec/data_block.rs per SPEC_FULL.md
// §4.12: a single owned buffer, a detach flag, and a max-byte-length
// clamp for resizable ArrayBuffers.
type DataBlock struct {
	Bytes          []byte
	Detached       bool
	MaxByteLength  int // -1 when not resizable
}

func NewDataBlock(byteLength, maxByteLength int) *DataBlock {
	return &DataBlock{Bytes: make([]byte, byteLength), MaxByteLength: maxByteLength}
}

// Resize grows or shrinks the block in place, per the ArrayBuffer.prototype.resize
// algorithm's byte-length clamp. It panics if newLength exceeds MaxByteLength
// on a resizable block; callers (internal/builtins) are expected to have
// already thrown a RangeError in that case.
func (b *DataBlock) Resize(newLength int) {
	if b.MaxByteLength >= 0 && newLength > b.MaxByteLength {
		panic("heap: resize exceeds max byte length")
	}
	if newLength <= len(b.Bytes) {
		b.Bytes = b.Bytes[:newLength]
		return
	}
	grown := make([]byte, newLength)
	copy(grown, b.Bytes)
	b.Bytes = grown
}

// ArrayBufferData and DataViewData wrap a DataBlock with the
// object-property shape shared by every heap object.
type ArrayBufferData struct {
	ObjectData
	Block *DataBlock
}

type DataViewData struct {
	ObjectData
	Block        *DataBlock
	ByteOffset   int
	ByteLength   int
	TrackingAuto bool // length tracks the buffer's current size
}
