// Package capi is the externally callable surface of the buffer
// engine. It reproduces the legacy contract bit for bit: mutating
// operations return 0 on success and -1 on failure, handle results use
// 0 as the "no buffer" sentinel, and pointer results return nil on
// failure. All raw-pointer handling lives here and in the legacy
// layer; the core below only ever sees validated slices.
//
// Handle operations resolve their handle under the registry lock and
// run to completion while holding it, so concurrent callers on one
// handle observe a total order and a freed handle can never reach
// freed memory.
package capi

import (
	"unsafe"

	"github.com/joshuapare/bufkit/buf"
	"github.com/joshuapare/bufkit/handle"
	"github.com/joshuapare/bufkit/internal/memory"
)

// BufCreate creates an empty growable buffer with the given capacity
// and returns its handle, 0 on failure.
func BufCreate(size uintptr) handle.Handle {
	b, err := buf.New(size)
	if err != nil {
		return handle.None
	}
	return handle.Global().Insert(b)
}

// BufCreateMem creates a buffer from size bytes at mem: a read-only
// static view when isStatic is non-zero (the memory must already be
// zero-terminated at mem[size]), an owned copy otherwise. Returns 0 on
// failure.
func BufCreateMem(mem *byte, size uintptr, isStatic int32) handle.Handle {
	if mem == nil {
		return handle.None
	}
	var (
		b   *buf.Buf
		err error
	)
	if isStatic != 0 {
		b, err = buf.NewStatic(mem, size)
	} else {
		b, err = buf.NewFromBytes(unsafe.Slice(mem, size))
	}
	if err != nil {
		return handle.None
	}
	return handle.Global().Insert(b)
}

// BufFree drops the handle and releases the buffer's owned storage.
// Further operations on the handle fail with the not-found sentinel.
func BufFree(h handle.Handle) {
	if h == handle.None {
		return
	}
	handle.Global().Drop(h)
}

// BufEmpty resets the buffer's content to empty, folding any window.
func BufEmpty(h handle.Handle) {
	if h == handle.None {
		return
	}
	handle.Global().With(h, func(b *buf.Buf) {
		b.Empty()
	})
}

// BufGrow ensures room for len more bytes.
func BufGrow(h handle.Handle, len uintptr) int32 {
	ret := int32(-1)
	if h == handle.None {
		return ret
	}
	handle.Global().With(h, func(b *buf.Buf) {
		if b.Grow(len) == nil {
			ret = 0
		}
	})
	return ret
}

// addRaw applies the legacy add validation order: writability first,
// then the pointer, then the zero-length no-op.
func addRaw(b *buf.Buf, str *byte, n uintptr) int32 {
	if b.IsError() || b.IsStatic() || str == nil {
		return -1
	}
	if n == 0 {
		return 0
	}
	if b.Add(unsafe.Slice(str, n)) != nil {
		return -1
	}
	return 0
}

// BufAdd appends len bytes at str to the buffer.
func BufAdd(h handle.Handle, str *byte, len uintptr) int32 {
	ret := int32(-1)
	if h == handle.None {
		return ret
	}
	handle.Global().With(h, func(b *buf.Buf) {
		ret = addRaw(b, str, len)
	})
	return ret
}

// BufCat appends the zero-terminated byte string at str. A nil str is
// a successful no-op.
func BufCat(h handle.Handle, str *byte) int32 {
	ret := int32(-1)
	if h == handle.None {
		return ret
	}
	handle.Global().With(h, func(b *buf.Buf) {
		if str == nil {
			ret = 0
			return
		}
		ret = addRaw(b, str, memory.Strlen(str))
	})
	return ret
}

// BufAvail returns the writable room left in the buffer, 0 on any
// failure.
func BufAvail(h handle.Handle) uintptr {
	var avail uintptr
	if h == handle.None {
		return 0
	}
	handle.Global().With(h, func(b *buf.Buf) {
		avail = b.Avail()
	})
	return avail
}

// BufIsEmpty reports 1 when the buffer is empty, 0 when it holds
// content, -1 for unknown handles and errored buffers.
func BufIsEmpty(h handle.Handle) int32 {
	ret := int32(-1)
	if h == handle.None {
		return ret
	}
	handle.Global().With(h, func(b *buf.Buf) {
		switch {
		case b.IsError():
			ret = -1
		case b.IsEmpty():
			ret = 1
		default:
			ret = 0
		}
	})
	return ret
}

// BufAddLen advances the logical length over len bytes the caller
// already wrote through BufEnd.
func BufAddLen(h handle.Handle, len uintptr) int32 {
	ret := int32(-1)
	if h == handle.None {
		return ret
	}
	handle.Global().With(h, func(b *buf.Buf) {
		if b.AddLen(len) == nil {
			ret = 0
		}
	})
	return ret
}

// BufDetach hands the buffer's content to the caller as a fresh
// bridge allocation, leaving the buffer empty. The caller frees the
// result with the bridge's free function.
func BufDetach(h handle.Handle) *byte {
	var out *byte
	if h == handle.None {
		return nil
	}
	handle.Global().With(h, func(b *buf.Buf) {
		out, _ = b.Detach()
	})
	return out
}

// BufContent returns a pointer to the first content byte, nil on
// failure.
func BufContent(h handle.Handle) *byte {
	var out *byte
	if h == handle.None {
		return nil
	}
	handle.Global().With(h, func(b *buf.Buf) {
		out = b.Content()
	})
	return out
}

// BufEnd returns the pointer just past the content, nil on failure
// and for read-only static buffers.
func BufEnd(h handle.Handle) *byte {
	var out *byte
	if h == handle.None {
		return nil
	}
	handle.Global().With(h, func(b *buf.Buf) {
		out = b.End()
	})
	return out
}

// BufUse returns the logical length in bytes, 0 on any failure.
func BufUse(h handle.Handle) uintptr {
	var use uintptr
	if h == handle.None {
		return 0
	}
	handle.Global().With(h, func(b *buf.Buf) {
		if !b.IsError() {
			use = b.Len()
		}
	})
	return use
}

// BufShrink discards the first len content bytes by sliding the
// window, no copy. Returns the distance shrunk, 0 on failure.
func BufShrink(h handle.Handle, len uintptr) uintptr {
	var n uintptr
	if h == handle.None {
		return 0
	}
	handle.Global().With(h, func(b *buf.Buf) {
		n = b.Shrink(len)
	})
	return n
}
