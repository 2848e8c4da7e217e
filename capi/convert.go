package capi

import (
	"math"
	"unsafe"

	"github.com/joshuapare/bufkit/buf"
	"github.com/joshuapare/bufkit/handle"
	"github.com/joshuapare/bufkit/legacy"
)

// convertCapacity is the capacity of the fresh core buffer produced
// when converting a legacy record with no content.
const convertCapacity = 50

// BufFromBuffer migrates a legacy record's content into a fresh core
// buffer and returns its handle, 0 on failure. The record itself is
// left untouched; a record with nil content yields a fresh empty
// buffer of default capacity.
func BufFromBuffer(rec *legacy.Buffer) handle.Handle {
	if rec == nil {
		return handle.None
	}

	var (
		b   *buf.Buf
		err error
	)
	if rec.Content == nil {
		b, err = buf.New(convertCapacity)
	} else {
		b, err = buf.New(uintptr(rec.Size))
		if err == nil && rec.Use > 0 {
			err = b.Add(unsafe.Slice(rec.Content, uintptr(rec.Use)))
		}
	}
	if err != nil {
		return handle.None
	}
	return handle.Global().Insert(b)
}

// BufBackToBuffer removes the handle's core buffer from the registry
// and moves its storage into ret. Fails, leaving ret zeroed, when the
// buffer is errored, static, or too long for the record's 32-bit
// fields; the handle is consumed either way.
func BufBackToBuffer(h handle.Handle, ret *legacy.Buffer) int32 {
	if h == handle.None || ret == nil {
		return -1
	}

	b, ok := handle.Global().Remove(h)
	if !ok {
		return -1
	}

	if b.IsError() || b.IsStatic() || b.Len() >= uintptr(math.MaxInt32) {
		b.Release()
		ret.Content = nil
		ret.ContentIO = nil
		ret.Use = 0
		ret.Size = 0
		return -1
	}

	// Drop growth slack so the record receives an exact allocation.
	// Best effort: on reallocation failure the full allocation moves
	// over instead.
	_ = b.TrimSlack()

	ret.Use = uint32(b.Len())
	size := b.Len() + b.Avail() // capacity; equals use after a successful trim
	if size >= uintptr(math.MaxInt32) {
		ret.Size = uint32(math.MaxInt32)
	} else {
		ret.Size = uint32(size) + 1
	}
	ret.Alloc = legacy.AllocIO

	base, off, _ := b.Transfer()
	ret.ContentIO = (*byte)(base)
	ret.Content = (*byte)(unsafe.Add(base, off))
	return 0
}

// ParserInput mirrors the external input-cursor record. Only Base, Cur
// and End are touched here; the remaining fields belong to the caller
// and keep the record's fixed layout.
type ParserInput struct {
	Buf            unsafe.Pointer
	Filename       *byte
	Directory      *byte
	Base           *byte
	Cur            *byte
	End            *byte
	Length         int32
	Line           int32
	Col            int32
	Consumed       uint64
	Free           unsafe.Pointer
	Encoding       *byte
	Version        *byte
	Flags          int32
	ID             int32
	ParentConsumed uint64
	Entity         unsafe.Pointer
}

// BufResetInput points the cursor at the start of the buffer's
// current content.
func BufResetInput(h handle.Handle, in *ParserInput) int32 {
	return BufUpdateInput(h, in, 0)
}

// BufUpdateInput recomputes the cursor's base, current and end
// pointers from the buffer's content and the byte offset pos. Read
// only with respect to the buffer.
func BufUpdateInput(h handle.Handle, in *ParserInput, pos uintptr) int32 {
	if h == handle.None || in == nil {
		return -1
	}
	ret := int32(-1)
	handle.Global().With(h, func(b *buf.Buf) {
		if b.IsError() {
			return
		}
		base := b.Content()
		if base == nil {
			return
		}
		in.Base = base
		in.Cur = (*byte)(unsafe.Add(unsafe.Pointer(base), pos))
		in.End = (*byte)(unsafe.Add(unsafe.Pointer(base), b.Len()))
		ret = 0
	})
	return ret
}
