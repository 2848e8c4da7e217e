//go:build unix

package memory

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// headerSize is the slack kept in front of every default allocation to
// record the mapping length for Free/Realloc. 16 bytes keeps the
// returned pointer 16-byte aligned.
const headerSize = 16

// defaultMalloc backs the bridge with anonymous mappings so the
// returned addresses live outside the Go heap: they are stable for the
// lifetime of the allocation and invisible to the garbage collector.
// Mapped pages arrive zeroed, which the Malloc contract requires.
func defaultMalloc(size uintptr) unsafe.Pointer {
	total := size + headerSize
	if total < size || total > maxSlice {
		return nil
	}
	data, err := unix.Mmap(-1, 0, int(total),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil
	}
	base := unsafe.Pointer(unsafe.SliceData(data))
	*(*uintptr)(base) = total
	return unsafe.Add(base, headerSize)
}

func defaultFree(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	base := unsafe.Add(ptr, -headerSize)
	total := *(*uintptr)(base)
	_ = unix.Munmap(unsafe.Slice((*byte)(base), total))
}

func defaultRealloc(ptr unsafe.Pointer, size uintptr) unsafe.Pointer {
	if ptr == nil {
		return defaultMalloc(size)
	}
	base := unsafe.Add(ptr, -headerSize)
	oldSize := *(*uintptr)(base) - headerSize
	next := defaultMalloc(size)
	if next == nil {
		return nil
	}
	n := oldSize
	if size < n {
		n = size
	}
	Memcpy(next, ptr, n)
	defaultFree(ptr)
	return next
}
