// Package buf implements the growable byte-buffer core: a single byte
// region with amortized growth, a sliding content window that lets
// shrink advance past consumed bytes without copying, sticky error
// flags instead of propagated failure state, and a read-only static
// variant over externally owned memory.
//
// Storage for owned buffers comes from the allocator bridge
// (internal/memory), never the Go heap, so content pointers handed to
// callers stay stable and whole allocations can change owner during
// detach-style operations.
//
// The type has pure value semantics and no locking; concurrent access
// is serialized by the handle registry above it.
package buf

import (
	"unsafe"

	"github.com/joshuapare/bufkit/internal/bounds"
	"github.com/joshuapare/bufkit/internal/memory"
)

type flags uint32

const (
	flagOOM flags = 1 << iota
	flagOverflow
	flagStatic
)

// growSlack is appended to exact-fit growth so a run of small adds does
// not reallocate every time.
const growSlack = 100

// Buf is one growable byte region.
//
// Invariants (owned, non-error buffers): the bridge allocation holds
// off+size+1 bytes; use <= size; the byte at off+use is always zero.
// Static buffers never own storage and never mutate.
type Buf struct {
	mem     unsafe.Pointer // bridge allocation of off+size+1 bytes; nil when static
	use     uintptr        // logical length, terminator excluded
	size    uintptr        // capacity counted from the window start, terminator slot excluded
	off     uintptr        // window start; non-zero only after shrink
	maxSize uintptr
	flags   flags
	static  *byte // externally owned zero-terminated memory (static variant only)
}

// New creates an empty buffer with the given capacity. The capacity
// must be below the maximum representable size so the terminator slot
// still fits.
func New(capacity uintptr) (*Buf, error) {
	total, ok := bounds.Add(capacity, 1)
	if !ok {
		return nil, ErrArgument
	}
	mem := memory.Malloc(total)
	if mem == nil {
		return nil, ErrNoMemory
	}
	return &Buf{
		mem:     mem,
		size:    capacity,
		maxSize: bounds.MaxSize - 1,
	}, nil
}

// NewFromBytes creates a buffer owning a copy of data, terminator
// appended. A nil slice is rejected; an empty non-nil slice yields an
// empty buffer.
func NewFromBytes(data []byte) (*Buf, error) {
	if data == nil {
		return nil, ErrArgument
	}
	n := uintptr(len(data))
	b, err := New(n)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		memory.Memcpy(b.mem, unsafe.Pointer(unsafe.SliceData(data)), n)
	}
	b.use = n
	b.view()[n] = 0
	return b, nil
}

// NewStatic creates a read-only view over externally owned memory.
// The memory must already carry a zero byte at mem[size], because a
// static buffer is never copied or re-terminated. This constructor is
// the one place the core retains a caller pointer beyond a single call.
func NewStatic(mem *byte, size uintptr) (*Buf, error) {
	if mem == nil {
		return nil, ErrArgument
	}
	if *(*byte)(unsafe.Add(unsafe.Pointer(mem), size)) != 0 {
		return nil, ErrArgument
	}
	return &Buf{
		use:     size,
		size:    size,
		maxSize: bounds.MaxSize - 1,
		flags:   flagStatic,
		static:  mem,
	}, nil
}

// view covers the full bridge allocation, terminator slot included.
func (b *Buf) view() []byte {
	return memory.Slice(b.mem, b.off+b.size+1)
}

// IsError reports whether a sticky error flag is set.
func (b *Buf) IsError() bool {
	return b.flags&(flagOOM|flagOverflow) != 0
}

// IsStatic reports whether the buffer is a read-only static view.
func (b *Buf) IsStatic() bool {
	return b.flags&flagStatic != 0
}

func (b *Buf) setOverflow() {
	if !b.IsError() {
		b.flags |= flagOverflow
	}
}

func (b *Buf) setOOM() {
	if !b.IsError() {
		b.flags |= flagOOM
	}
}

// Empty resets the logical length to zero and folds the window back
// into the capacity. No-op on error or static buffers.
func (b *Buf) Empty() {
	if b.IsError() || b.IsStatic() {
		return
	}
	b.use = 0
	b.size += b.off
	b.off = 0
	if b.mem != nil {
		b.view()[0] = 0
	}
}

// Grow ensures at least n bytes of writable room past the current
// content. Cheapest strategy wins: nothing if the room already exists,
// a window fold (slide content to the allocation base) if that frees
// enough, a reallocation otherwise. A request past maxSize sets the
// sticky overflow flag.
func (b *Buf) Grow(n uintptr) error {
	if b.IsError() || b.IsStatic() {
		return ErrNotWritable
	}
	if n <= b.size-b.use {
		return nil
	}

	// Slide the window home when that alone frees enough room.
	if n <= b.off+b.size-b.use {
		b.fold()
		return nil
	}

	if n > b.maxSize-b.use {
		b.setOverflow()
		return ErrOverflow
	}

	var newSize uintptr
	if b.size > n {
		if b.size <= b.maxSize/2 {
			newSize = b.size * 2
		} else {
			newSize = b.maxSize
		}
	} else {
		newSize = b.use + n
		if newSize <= b.maxSize-growSlack {
			newSize += growSlack
		}
	}

	mem := memory.Realloc(b.mem, newSize+1)
	if mem == nil {
		b.setOOM()
		return ErrNoMemory
	}
	b.mem = mem
	if b.off > 0 {
		// Keep size consistent with the new allocation length while
		// the old window still needs folding.
		b.size = newSize - b.off
		b.fold()
	}
	b.size = newSize
	return nil
}

// fold slides the content window (terminator included) to the
// allocation base and absorbs the offset into the capacity.
func (b *Buf) fold() {
	if b.off == 0 {
		return
	}
	v := b.view()
	copy(v[:b.use+1], v[b.off:b.off+b.use+1])
	b.size += b.off
	b.off = 0
}

// Add appends a copy of data and re-terminates. A nil slice is
// rejected; an empty one succeeds without effect.
func (b *Buf) Add(data []byte) error {
	if b.IsError() || b.IsStatic() {
		return ErrNotWritable
	}
	if data == nil {
		return ErrArgument
	}
	n := uintptr(len(data))
	if n == 0 {
		return nil
	}
	if n > b.size-b.use {
		if err := b.Grow(n); err != nil {
			return err
		}
	}
	v := b.view()
	copy(v[b.off+b.use:], data)
	b.use += n
	v[b.off+b.use] = 0
	return nil
}

// AddLen advances the logical length over bytes the caller already
// wrote through End. Fails when the advance exceeds the available
// capacity; never grows.
func (b *Buf) AddLen(n uintptr) error {
	if b.IsError() || b.IsStatic() {
		return ErrNotWritable
	}
	if n > b.size-b.use {
		return ErrOverflow
	}
	if n == 0 {
		return nil
	}
	b.use += n
	b.view()[b.off+b.use] = 0
	return nil
}

// Shrink advances the content window past the first n bytes without
// copying. Returns the distance shrunk: 0 when n is zero, exceeds the
// content, or the buffer is static or errored.
func (b *Buf) Shrink(n uintptr) uintptr {
	if b.IsError() || b.IsStatic() {
		return 0
	}
	if n == 0 || n > b.use {
		return 0
	}
	b.use -= n
	b.off += n
	b.size -= n
	return n
}

// Detach hands the content (terminator included) to the caller as a
// fresh bridge allocation of exactly use+1 bytes and resets the buffer
// to the empty zero state. The caller frees the returned pointer with
// the bridge's free.
func (b *Buf) Detach() (*byte, error) {
	if b.IsError() || b.IsStatic() {
		return nil, ErrNotWritable
	}
	out := memory.Malloc(b.use + 1)
	if out == nil {
		return nil, ErrNoMemory
	}
	memory.Memcpy(out, unsafe.Add(b.mem, b.off), b.use+1)

	memory.Free(b.mem)
	b.mem = nil
	b.use = 0
	b.size = 0
	b.off = 0
	return (*byte)(out), nil
}

// Release frees owned storage. The buffer must not be used afterwards;
// the registry calls this when an entry is dropped. Static memory is
// never freed here.
func (b *Buf) Release() {
	if b.mem != nil {
		memory.Free(b.mem)
		b.mem = nil
	}
	b.use = 0
	b.size = 0
	b.off = 0
}

// Content returns a pointer to the first logical byte: into the static
// memory for static buffers, into the owned window otherwise. Nil on
// error.
func (b *Buf) Content() *byte {
	if b.IsError() {
		return nil
	}
	if b.IsStatic() {
		return b.static
	}
	if b.mem == nil {
		return nil
	}
	return (*byte)(unsafe.Add(b.mem, b.off))
}

// End returns the pointer just past the logical content, where a
// caller may write directly before calling AddLen. Nil on error and
// for static buffers, which are read-only.
func (b *Buf) End() *byte {
	if b.IsError() || b.IsStatic() || b.mem == nil {
		return nil
	}
	return (*byte)(unsafe.Add(b.mem, b.off+b.use))
}

// Avail returns the writable room left before the next growth, 0 on
// error.
func (b *Buf) Avail() uintptr {
	if b.IsError() {
		return 0
	}
	return b.size - b.use
}

// IsEmpty reports whether the logical length is zero.
func (b *Buf) IsEmpty() bool {
	return b.use == 0
}

// Len returns the logical length in bytes. The ABI surface masks this
// to 0 for errored buffers; the raw value stays visible here for the
// conversion paths.
func (b *Buf) Len() uintptr {
	return b.use
}

// TrimSlack reallocates the owned storage down to the window plus
// content plus terminator, dropping growth slack. Used by the legacy
// conversion so the record receives an exact-size allocation.
func (b *Buf) TrimSlack() error {
	if b.mem == nil {
		return ErrArgument
	}
	total := b.off + b.use + 1
	if total >= b.off+b.size+1 {
		return nil
	}
	mem := memory.Realloc(b.mem, total)
	if mem == nil {
		b.setOOM()
		return ErrNoMemory
	}
	b.mem = mem
	b.size = b.use
	return nil
}

// Transfer surrenders ownership of the raw storage for conversion to a
// legacy record: it returns the allocation base, the window offset and
// the logical length, and forgets the storage without freeing it.
// Callers trim slack first so the handed-over allocation is exact.
func (b *Buf) Transfer() (base unsafe.Pointer, off, use uintptr) {
	base = b.mem
	off = b.off
	use = b.use
	b.mem = nil
	b.use = 0
	b.size = 0
	b.off = 0
	return base, off, use
}
