// Package memory is the allocator bridge: every byte of storage that
// crosses the ABI boundary is obtained from, and released to, the three
// process-wide allocator functions held here. Callers that receive memory
// from a detach-style operation free it with Free from the same bridge,
// so the allocation family always matches on both ends.
//
// The default allocator keeps storage outside the Go heap (mmap on unix,
// a pinned allocation table elsewhere), so raw pointers handed across the
// boundary are stable for the lifetime of the allocation and are never
// moved or reclaimed by the garbage collector.
package memory

import (
	"sync"
	"unsafe"
)

// MallocFunc allocates size bytes and returns a pointer to zeroed storage,
// or nil on failure.
type MallocFunc func(size uintptr) unsafe.Pointer

// FreeFunc releases storage previously returned by the bridge's
// MallocFunc or ReallocFunc. Free of nil is a no-op.
type FreeFunc func(ptr unsafe.Pointer)

// ReallocFunc resizes an allocation, preserving the common prefix.
// A nil ptr behaves like MallocFunc. Returns nil on failure, in which
// case the original allocation is untouched.
type ReallocFunc func(ptr unsafe.Pointer, size uintptr) unsafe.Pointer

// Allocator bundles the three bridge functions.
type Allocator struct {
	Malloc  MallocFunc
	Free    FreeFunc
	Realloc ReallocFunc
}

var (
	allocMu   sync.RWMutex
	allocator = Allocator{
		Malloc:  defaultMalloc,
		Free:    defaultFree,
		Realloc: defaultRealloc,
	}
)

// SetAllocator replaces the process-wide allocator bridge. All three
// functions must be non-nil. The bridge must not be swapped while any
// allocation from the previous bridge is still live; the engine does
// not track which bridge produced a given pointer.
func SetAllocator(a Allocator) {
	if a.Malloc == nil || a.Free == nil || a.Realloc == nil {
		return
	}
	allocMu.Lock()
	allocator = a
	allocMu.Unlock()
}

// Malloc allocates size bytes of zeroed storage through the bridge.
func Malloc(size uintptr) unsafe.Pointer {
	allocMu.RLock()
	f := allocator.Malloc
	allocMu.RUnlock()
	return f(size)
}

// Free releases a bridge allocation. nil is ignored.
func Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	allocMu.RLock()
	f := allocator.Free
	allocMu.RUnlock()
	f(ptr)
}

// Realloc resizes a bridge allocation, preserving the common prefix.
func Realloc(ptr unsafe.Pointer, size uintptr) unsafe.Pointer {
	allocMu.RLock()
	f := allocator.Realloc
	allocMu.RUnlock()
	return f(ptr, size)
}
