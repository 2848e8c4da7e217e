// Package legacy implements the fixed-layout buffer record consumed
// directly by pre-existing external code. Field order and widths are
// part of the ABI, not an implementation choice, and several return
// contracts here are deliberately odd because callers read the exact
// values the old implementation produced.
package legacy

import (
	"io"
	"math"
	"unsafe"

	"github.com/joshuapare/bufkit/internal/memory"
)

// AllocIO is the allocation-mode tag for IO-style records: Content may
// be offset from ContentIO after a shrink, and freeing must free
// ContentIO, never Content.
const AllocIO int32 = 1

// SchemeExact is the fixed sentinel returned by the retired
// allocation-scheme getter.
const SchemeExact int32 = 1

// defaultSize is the content block of an unsized create.
const defaultSize = 256

// maxLegacySize caps record capacities at the signed 32-bit maximum.
const maxLegacySize = uintptr(math.MaxInt32)

// Buffer mirrors the legacy record layout. External code reads these
// fields through raw pointers, so the order Content, Use, Size, Alloc,
// ContentIO is load-bearing.
type Buffer struct {
	Content   *byte
	Use       uint32
	Size      uint32
	Alloc     int32
	ContentIO *byte
}

// bufferSize is the record footprint handed to the allocator bridge.
var bufferSize = unsafe.Sizeof(Buffer{})

// New allocates a record with the default content block.
func New() *Buffer {
	return NewSize(defaultSize - 1)
}

// NewSize allocates a record whose content block holds at least
// size+1 bytes. A zero size yields a record with nil content; the
// first add then fails, matching the old behavior. Returns nil when
// size reaches the signed 32-bit maximum or allocation fails.
func NewSize(size uintptr) *Buffer {
	if size >= maxLegacySize {
		return nil
	}
	rec := (*Buffer)(memory.Malloc(bufferSize))
	if rec == nil {
		return nil
	}
	rec.Use = 0
	rec.Alloc = AllocIO
	if size > 0 {
		rec.Size = uint32(size) + 1
		rec.ContentIO = (*byte)(memory.Malloc(uintptr(rec.Size)))
		if rec.ContentIO == nil {
			memory.Free(unsafe.Pointer(rec))
			return nil
		}
		rec.Content = rec.ContentIO
		*rec.Content = 0
	} else {
		rec.Size = 0
		rec.ContentIO = nil
		rec.Content = nil
	}
	return rec
}

// NewStatic builds a record holding a copy of size bytes at mem.
// Unlike the core's static buffers the legacy "static" constructor
// copies; the asymmetry is part of the old contract.
func NewStatic(mem unsafe.Pointer, size uintptr) *Buffer {
	rec := NewSize(size)
	if rec != nil {
		Add(rec, (*byte)(mem), int32(size))
	}
	return rec
}

// Free releases the record and its content block. In IO mode the true
// allocation base is ContentIO; Content may point into its interior.
func Free(b *Buffer) {
	if b == nil {
		return
	}
	if b.Alloc == AllocIO {
		memory.Free(unsafe.Pointer(b.ContentIO))
	} else {
		memory.Free(unsafe.Pointer(b.Content))
	}
	memory.Free(unsafe.Pointer(b))
}

// Empty resets the logical length and folds an IO-mode window back to
// the allocation base, restoring the folded distance into Size.
func Empty(b *Buffer) {
	if b == nil || b.Content == nil {
		return
	}
	b.Use = 0
	if b.Alloc == AllocIO {
		delta := uintptr(unsafe.Pointer(b.Content)) - uintptr(unsafe.Pointer(b.ContentIO))
		b.Size += uint32(delta)
		b.Content = b.ContentIO
	}
	*b.Content = 0
}

// Content returns the record's content pointer, nil for a nil record.
func Content(b *Buffer) *byte {
	if b == nil {
		return nil
	}
	return b.Content
}

// Length returns the logical length, 0 for a nil record.
func Length(b *Buffer) int32 {
	if b == nil {
		return 0
	}
	return int32(b.Use)
}

// resolveLen applies the legacy length convention: a negative length
// means str is zero-terminated and is measured with strlen.
func resolveLen(str *byte, length int32) uintptr {
	if length < 0 {
		return memory.Strlen(str)
	}
	return uintptr(length)
}

// Add appends length bytes from str. This variant does not grow: when
// the content does not fit it fails with the no-room sentinel, an
// asymmetry with AddHead preserved from the old implementation.
func Add(b *Buffer, str *byte, length int32) int32 {
	if b == nil || str == nil {
		return -1
	}
	n := resolveLen(str, length)
	if n == 0 {
		return 0
	}
	if uintptr(b.Use)+n >= uintptr(b.Size) {
		return -1
	}
	dst := unsafe.Add(unsafe.Pointer(b.Content), uintptr(b.Use))
	memory.Memcpy(dst, unsafe.Pointer(str), n)
	b.Use += uint32(n)
	*(*byte)(unsafe.Add(unsafe.Pointer(b.Content), uintptr(b.Use))) = 0
	return 0
}

// AddHead inserts length bytes from str before the existing content,
// growing first when needed. Existing bytes, terminator included,
// shift right by the insert length.
func AddHead(b *Buffer, str *byte, length int32) int32 {
	if b == nil || str == nil {
		return -1
	}
	n := resolveLen(str, length)
	if n == 0 {
		return 0
	}
	if n >= uintptr(b.Size)-uintptr(b.Use) {
		if Grow(b, uint32(n)) < 0 {
			return -1
		}
	}
	content := unsafe.Pointer(b.Content)
	memory.Memmove(unsafe.Add(content, n), content, uintptr(b.Use)+1)
	memory.Memcpy(content, unsafe.Pointer(str), n)
	b.Use += uint32(n)
	return 0
}

// Cat appends a zero-terminated byte string.
func Cat(b *Buffer, str *byte) int32 {
	return Add(b, str, -1)
}

// Grow ensures room for length more bytes, doubling the capacity up to
// the signed 32-bit maximum or growing to an exact fit. Returns the
// remaining writable capacity on success, -1 on failure; callers of
// the old API read that exact value.
func Grow(b *Buffer, length uint32) int32 {
	if b == nil {
		return -1
	}
	if length < b.Size-b.Use {
		return 0
	}

	var newSize uint32
	if b.Size > length {
		if b.Size <= uint32(math.MaxInt32)/2 {
			newSize = b.Size * 2
		} else {
			newSize = uint32(math.MaxInt32)
		}
	} else {
		newSize = b.Use + length + 1
	}

	// The true allocation base is ContentIO; Content may sit at an
	// offset after a shrink, and that offset must survive the move.
	delta := uintptr(unsafe.Pointer(b.Content)) - uintptr(unsafe.Pointer(b.ContentIO))
	base := memory.Realloc(unsafe.Pointer(b.ContentIO), uintptr(newSize)+1+delta)
	if base == nil {
		return -1
	}
	b.ContentIO = (*byte)(base)
	b.Content = (*byte)(unsafe.Add(base, delta))
	b.Size = newSize
	return int32(b.Size - b.Use - 1)
}

// Resize grows the record to hold size bytes. Returns 1 on success or
// when the record is already large enough, 0 on failure; this op
// predates the 0/-1 convention.
func Resize(b *Buffer, size uint32) int32 {
	if b == nil {
		return 0
	}
	if size < b.Size {
		return 1
	}
	if Grow(b, size-b.Use) < 0 {
		return 0
	}
	return 1
}

// Shrink discards the first length bytes. In IO mode this advances the
// Content pointer inside the allocation, a window slide with no copy;
// otherwise the remaining bytes shift left. Returns the length shrunk,
// -1 when it exceeds the content.
func Shrink(b *Buffer, length uint32) int32 {
	if b == nil {
		return -1
	}
	if length == 0 {
		return 0
	}
	if length > b.Use {
		return -1
	}

	b.Use -= length

	if b.Alloc == AllocIO {
		b.Content = (*byte)(unsafe.Add(unsafe.Pointer(b.Content), uintptr(length)))
		b.Size -= length
	} else {
		content := unsafe.Pointer(b.Content)
		memory.Memmove(content, unsafe.Add(content, uintptr(length)), uintptr(b.Use)+1)
	}
	return int32(length)
}

// Detach transfers the content allocation to the caller and zeroes the
// record. After an IO-mode shrink the window no longer starts at the
// allocation base, so the content is copied to a fresh exact-size
// allocation and the base is freed; otherwise the base moves out
// directly.
func Detach(b *Buffer) *byte {
	if b == nil {
		return nil
	}

	var result *byte
	if b.Alloc == AllocIO && b.Content != b.ContentIO {
		out := memory.Malloc(uintptr(b.Use) + 1)
		if out == nil {
			return nil
		}
		memory.Memcpy(out, unsafe.Pointer(b.Content), uintptr(b.Use)+1)
		memory.Free(unsafe.Pointer(b.ContentIO))
		result = (*byte)(out)
	} else {
		result = b.Content
	}

	b.ContentIO = nil
	b.Content = nil
	b.Size = 0
	b.Use = 0
	return result
}

// Dump writes the full logical content to sink and returns the number
// of bytes written, 0 for a nil record or content.
func Dump(sink io.Writer, b *Buffer) int32 {
	if b == nil || b.Content == nil {
		return 0
	}
	n, _ := sink.Write(memory.Slice(unsafe.Pointer(b.Content), uintptr(b.Use)))
	return int32(n)
}
