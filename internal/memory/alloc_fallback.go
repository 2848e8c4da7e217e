//go:build !unix

package memory

import (
	"sync"
	"unsafe"
)

// On platforms without anonymous mmap the default bridge allocates from
// the Go heap and pins each allocation in a table keyed by its address.
// Go's collector does not move heap objects, so the addresses are
// stable; the table entry keeps the storage alive until Free.
var (
	pinMu sync.Mutex
	pins  = map[uintptr][]byte{}
)

func defaultMalloc(size uintptr) unsafe.Pointer {
	if size > maxSlice {
		return nil
	}
	n := size
	if n == 0 {
		n = 1
	}
	b := make([]byte, n)
	p := unsafe.Pointer(unsafe.SliceData(b))
	pinMu.Lock()
	pins[uintptr(p)] = b
	pinMu.Unlock()
	return p
}

func defaultFree(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	pinMu.Lock()
	delete(pins, uintptr(ptr))
	pinMu.Unlock()
}

func defaultRealloc(ptr unsafe.Pointer, size uintptr) unsafe.Pointer {
	if ptr == nil {
		return defaultMalloc(size)
	}
	pinMu.Lock()
	old, ok := pins[uintptr(ptr)]
	pinMu.Unlock()
	if !ok {
		return nil
	}
	next := defaultMalloc(size)
	if next == nil {
		return nil
	}
	n := uintptr(len(old))
	if size < n {
		n = size
	}
	Memcpy(next, ptr, n)
	defaultFree(ptr)
	return next
}
