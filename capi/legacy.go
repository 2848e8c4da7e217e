package capi

import (
	"io"
	"unsafe"

	"github.com/joshuapare/bufkit/legacy"
)

// BufferCreate allocates a legacy record with the default content
// block, nil on allocation failure.
func BufferCreate() *legacy.Buffer {
	return legacy.New()
}

// BufferCreateSize allocates a legacy record holding at least size
// bytes of content, nil on failure or when size reaches the signed
// 32-bit maximum.
func BufferCreateSize(size uintptr) *legacy.Buffer {
	return legacy.NewSize(size)
}

// BufferCreateStatic builds a record holding a copy of size bytes at
// mem. Legacy static buffers copy; only core static buffers alias.
func BufferCreateStatic(mem unsafe.Pointer, size uintptr) *legacy.Buffer {
	return legacy.NewStatic(mem, size)
}

// BufferFree releases the record and its content block.
func BufferFree(b *legacy.Buffer) {
	legacy.Free(b)
}

// BufferEmpty resets the record's content to empty.
func BufferEmpty(b *legacy.Buffer) {
	legacy.Empty(b)
}

// BufferContent returns the record's content pointer, nil for a nil
// record.
func BufferContent(b *legacy.Buffer) *byte {
	return legacy.Content(b)
}

// BufferLength returns the record's logical length, 0 for a nil
// record.
func BufferLength(b *legacy.Buffer) int32 {
	return legacy.Length(b)
}

// BufferAdd appends len bytes at str; a negative len means str is
// zero-terminated and is measured. This operation does not grow.
func BufferAdd(b *legacy.Buffer, str *byte, len int32) int32 {
	return legacy.Add(b, str, len)
}

// BufferAddHead inserts the bytes before the existing content, growing
// first when needed.
func BufferAddHead(b *legacy.Buffer, str *byte, len int32) int32 {
	return legacy.AddHead(b, str, len)
}

// BufferCat appends a zero-terminated byte string.
func BufferCat(b *legacy.Buffer, str *byte) int32 {
	return legacy.Cat(b, str)
}

// BufferCCat is the character-pointer spelling of BufferCat, kept for
// callers of the old API.
func BufferCCat(b *legacy.Buffer, str *byte) int32 {
	return legacy.Cat(b, str)
}

// BufferWriteCHAR appends a zero-terminated byte string.
func BufferWriteCHAR(b *legacy.Buffer, str *byte) int32 {
	return legacy.Cat(b, str)
}

// BufferWriteChar is the character-pointer spelling of
// BufferWriteCHAR.
func BufferWriteChar(b *legacy.Buffer, str *byte) int32 {
	return legacy.Cat(b, str)
}

// BufferWriteQuotedString appends str wrapped in quotes under the
// minimal-escaping policy.
func BufferWriteQuotedString(b *legacy.Buffer, str *byte) {
	legacy.WriteQuotedString(b, str)
}

// BufferGrow ensures room for len more bytes. Returns the remaining
// writable capacity on success, -1 on failure.
func BufferGrow(b *legacy.Buffer, len uint32) int32 {
	return legacy.Grow(b, len)
}

// BufferResize grows the record to hold size bytes. Returns 1 on
// success or no-op, 0 on failure.
func BufferResize(b *legacy.Buffer, size uint32) int32 {
	return legacy.Resize(b, size)
}

// BufferShrink discards the first len content bytes. Returns the
// length shrunk, -1 when it exceeds the content.
func BufferShrink(b *legacy.Buffer, len uint32) int32 {
	return legacy.Shrink(b, len)
}

// BufferDetach transfers the content allocation to the caller and
// zeroes the record.
func BufferDetach(b *legacy.Buffer) *byte {
	return legacy.Detach(b)
}

// BufferDump writes the record's content to sink and returns the
// number of bytes written.
func BufferDump(sink io.Writer, b *legacy.Buffer) int32 {
	return legacy.Dump(sink, b)
}

// SetBufferAllocationScheme is a permanent no-op; allocation schemes
// were removed but old configuration code still calls this.
func SetBufferAllocationScheme(scheme int32) {
}

// GetBufferAllocationScheme always reports the exact scheme.
func GetBufferAllocationScheme() int32 {
	return legacy.SchemeExact
}

// BufferSetAllocationScheme is a permanent no-op, kept so per-record
// configuration calls do not fail.
func BufferSetAllocationScheme(b *legacy.Buffer, scheme int32) {
}
