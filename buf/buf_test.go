package buf

import (
	"bytes"
	"errors"
	"testing"
	"unsafe"

	"github.com/joshuapare/bufkit/internal/bounds"
	"github.com/joshuapare/bufkit/internal/memory"
)

func content(t *testing.T, b *Buf) []byte {
	t.Helper()
	p := b.Content()
	if p == nil {
		t.Fatal("Content returned nil")
	}
	return bytes.Clone(unsafe.Slice(p, b.Len()))
}

func TestNewEmpty(t *testing.T) {
	b, err := New(100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer b.Release()

	if b.Len() != 0 {
		t.Fatalf("Len = %d, want 0", b.Len())
	}
	if b.Avail() < 100 {
		t.Fatalf("Avail = %d, want >= 100", b.Avail())
	}
	if !b.IsEmpty() {
		t.Fatal("new buffer should be empty")
	}
	if p := b.Content(); p == nil || *p != 0 {
		t.Fatal("empty buffer must carry a terminator at position 0")
	}
}

func TestNewMaxCapacityRejected(t *testing.T) {
	if _, err := New(bounds.MaxSize); !errors.Is(err, ErrArgument) {
		t.Fatalf("New(MaxSize) err = %v, want ErrArgument", err)
	}
}

func TestAddRoundTrip(t *testing.T) {
	b, err := New(16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer b.Release()

	want := []byte("hello, world")
	if err := b.Add(want); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := content(t, b); !bytes.Equal(got, want) {
		t.Fatalf("content = %q, want %q", got, want)
	}
	if *b.End() != 0 {
		t.Fatal("missing terminator after Add")
	}
}

func TestAddNil(t *testing.T) {
	b, _ := New(8)
	defer b.Release()

	if err := b.Add(nil); !errors.Is(err, ErrArgument) {
		t.Fatalf("Add(nil) err = %v, want ErrArgument", err)
	}
	if err := b.Add([]byte{}); err != nil {
		t.Fatalf("Add(empty) err = %v, want nil", err)
	}
}

func TestGrowNeverTruncates(t *testing.T) {
	b, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer b.Release()

	var want []byte
	chunk := []byte("0123456789")
	for i := 0; i < 50; i++ {
		if err := b.Add(chunk); err != nil {
			t.Fatalf("Add %d: %v", i, err)
		}
		want = append(want, chunk...)
	}
	if got := content(t, b); !bytes.Equal(got, want) {
		t.Fatalf("content diverged after growth: %d vs %d bytes", len(got), len(want))
	}
}

func TestShrinkSlidesWindow(t *testing.T) {
	b, _ := New(10)
	defer b.Release()

	b.Add([]byte("abcdefgh"))
	before := b.Content()

	if n := b.Shrink(4); n != 4 {
		t.Fatalf("Shrink = %d, want 4", n)
	}
	after := b.Content()
	if uintptr(unsafe.Pointer(after))-uintptr(unsafe.Pointer(before)) != 4 {
		t.Fatal("shrink should advance the window, not copy")
	}
	if got := content(t, b); !bytes.Equal(got, []byte("efgh")) {
		t.Fatalf("content = %q, want %q", got, "efgh")
	}

	if n := b.Shrink(0); n != 0 {
		t.Fatalf("Shrink(0) = %d, want 0", n)
	}
	if n := b.Shrink(100); n != 0 {
		t.Fatalf("oversized Shrink = %d, want 0", n)
	}
}

func TestGrowPrefersCompactionOverRealloc(t *testing.T) {
	b, _ := New(10)
	defer b.Release()

	b.Add([]byte("abcdefgh"))
	b.Shrink(4) // window at 4, avail 2

	if err := b.Grow(5); err != nil {
		t.Fatalf("Grow: %v", err)
	}
	// Folding the window restores the original capacity without
	// reallocating.
	if b.Avail() != 6 {
		t.Fatalf("Avail = %d, want 6 after fold", b.Avail())
	}
	if got := content(t, b); !bytes.Equal(got, []byte("efgh")) {
		t.Fatalf("content = %q, want %q after fold", got, "efgh")
	}
	if *b.End() != 0 {
		t.Fatal("terminator lost in fold")
	}
}

func TestGrowReallocFoldsWindow(t *testing.T) {
	b, _ := New(10)
	defer b.Release()

	b.Add([]byte("abcdefgh"))
	b.Shrink(4)

	// Too big for the fold alone, forces reallocation.
	if err := b.Grow(500); err != nil {
		t.Fatalf("Grow: %v", err)
	}
	if b.Avail() < 500 {
		t.Fatalf("Avail = %d, want >= 500", b.Avail())
	}
	if got := content(t, b); !bytes.Equal(got, []byte("efgh")) {
		t.Fatalf("content = %q, want %q after realloc", got, "efgh")
	}
}

func TestOverflowSticks(t *testing.T) {
	b, _ := New(10)
	defer b.Release()

	b.Add([]byte("x"))
	if err := b.Grow(bounds.MaxSize - 1); !errors.Is(err, ErrOverflow) {
		t.Fatalf("huge Grow err = %v, want ErrOverflow", err)
	}
	if !b.IsError() {
		t.Fatal("overflow flag should be sticky")
	}

	// Every mutator must now fail; accessors report sentinels.
	if err := b.Add([]byte("y")); !errors.Is(err, ErrNotWritable) {
		t.Fatalf("Add after overflow err = %v, want ErrNotWritable", err)
	}
	if err := b.Grow(1); !errors.Is(err, ErrNotWritable) {
		t.Fatalf("Grow after overflow err = %v", err)
	}
	if n := b.Shrink(1); n != 0 {
		t.Fatalf("Shrink after overflow = %d, want 0", n)
	}
	if _, err := b.Detach(); !errors.Is(err, ErrNotWritable) {
		t.Fatalf("Detach after overflow err = %v", err)
	}
	if b.Content() != nil || b.End() != nil {
		t.Fatal("pointer accessors must return nil on an errored buffer")
	}
	if b.Avail() != 0 {
		t.Fatalf("Avail = %d, want 0 on error", b.Avail())
	}
}

func TestEmptyIdempotent(t *testing.T) {
	b, _ := New(10)
	defer b.Release()

	b.Empty()
	if !b.IsEmpty() {
		t.Fatal("Empty on empty buffer should leave it empty")
	}

	b.Add([]byte("abcdef"))
	b.Shrink(2)
	b.Empty()
	if !b.IsEmpty() {
		t.Fatal("buffer not empty after Empty")
	}
	if b.Avail() != 10 {
		t.Fatalf("Avail = %d, want 10 after window fold", b.Avail())
	}
	if p := b.Content(); *p != 0 {
		t.Fatal("terminator missing after Empty")
	}
}

func TestAddLenAfterDirectWrite(t *testing.T) {
	b, _ := New(10)
	defer b.Release()

	b.Add([]byte("ab"))
	end := b.End()
	copy(unsafe.Slice(end, 3), "cde")
	if err := b.AddLen(3); err != nil {
		t.Fatalf("AddLen: %v", err)
	}
	if got := content(t, b); !bytes.Equal(got, []byte("abcde")) {
		t.Fatalf("content = %q, want %q", got, "abcde")
	}

	if err := b.AddLen(100); !errors.Is(err, ErrOverflow) {
		t.Fatalf("oversized AddLen err = %v, want ErrOverflow", err)
	}
}

func TestStaticBuffer(t *testing.T) {
	mem := []byte("static content\x00")
	b, err := NewStatic(&mem[0], uintptr(len(mem)-1))
	if err != nil {
		t.Fatalf("NewStatic: %v", err)
	}

	if !b.IsStatic() {
		t.Fatal("expected static flag")
	}
	if b.Len() != uintptr(len(mem)-1) {
		t.Fatalf("Len = %d, want %d", b.Len(), len(mem)-1)
	}
	if got := content(t, b); !bytes.Equal(got, mem[:len(mem)-1]) {
		t.Fatalf("content = %q", got)
	}

	if err := b.Add([]byte("x")); !errors.Is(err, ErrNotWritable) {
		t.Fatalf("Add on static err = %v, want ErrNotWritable", err)
	}
	if err := b.Grow(1); !errors.Is(err, ErrNotWritable) {
		t.Fatalf("Grow on static err = %v", err)
	}
	if n := b.Shrink(1); n != 0 {
		t.Fatalf("Shrink on static = %d, want 0", n)
	}
	if _, err := b.Detach(); !errors.Is(err, ErrNotWritable) {
		t.Fatalf("Detach on static err = %v", err)
	}
	if b.End() != nil {
		t.Fatal("End must be nil for static buffers")
	}
}

func TestStaticRequiresTerminator(t *testing.T) {
	mem := []byte("not terminated!")
	if _, err := NewStatic(&mem[0], 3); !errors.Is(err, ErrArgument) {
		t.Fatalf("NewStatic without terminator err = %v, want ErrArgument", err)
	}
	if _, err := NewStatic(nil, 0); !errors.Is(err, ErrArgument) {
		t.Fatalf("NewStatic(nil) err = %v, want ErrArgument", err)
	}
}

func TestDetach(t *testing.T) {
	b, _ := New(100)
	defer b.Release()

	b.Add([]byte("detach me"))
	p, err := b.Detach()
	if err != nil {
		t.Fatalf("Detach: %v", err)
	}
	defer memory.Free(unsafe.Pointer(p))

	got := unsafe.Slice(p, 10)
	if string(got[:9]) != "detach me" || got[9] != 0 {
		t.Fatalf("detached bytes = %q", got)
	}
	if !b.IsEmpty() || b.Len() != 0 {
		t.Fatal("source buffer must be empty after detach")
	}

	// The vacated buffer is reusable.
	if err := b.Add([]byte("again")); err != nil {
		t.Fatalf("Add after Detach: %v", err)
	}
	if got := content(t, b); !bytes.Equal(got, []byte("again")) {
		t.Fatalf("content = %q, want %q", got, "again")
	}
}

func TestNewFromBytes(t *testing.T) {
	b, err := NewFromBytes([]byte("seeded"))
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	defer b.Release()

	if got := content(t, b); !bytes.Equal(got, []byte("seeded")) {
		t.Fatalf("content = %q", got)
	}
	if b.IsStatic() {
		t.Fatal("owned copy must not be static")
	}
	if err := b.Add([]byte("+more")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := NewFromBytes(nil); !errors.Is(err, ErrArgument) {
		t.Fatalf("NewFromBytes(nil) err = %v, want ErrArgument", err)
	}
}

func TestTrimSlackAndTransfer(t *testing.T) {
	b, _ := New(100)
	b.Add([]byte("abcdef"))
	b.Shrink(2)

	if err := b.TrimSlack(); err != nil {
		t.Fatalf("TrimSlack: %v", err)
	}
	if b.Avail() != 0 {
		t.Fatalf("Avail = %d, want 0 after trim", b.Avail())
	}

	base, off, use := b.Transfer()
	if base == nil || off != 2 || use != 4 {
		t.Fatalf("Transfer = (%p, %d, %d), want (non-nil, 2, 4)", base, off, use)
	}
	defer memory.Free(base)

	window := unsafe.Slice((*byte)(unsafe.Add(base, off)), use+1)
	if string(window[:4]) != "cdef" || window[4] != 0 {
		t.Fatalf("transferred window = %q", window)
	}
	if b.Len() != 0 {
		t.Fatalf("source not cleared: len=%d", b.Len())
	}
	b.Release() // must be safe after Transfer
}
