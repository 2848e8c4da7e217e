// Package handle maps opaque integer handles to registry-owned
// buffers. Handles stand in for memory addresses across the ABI
// boundary: external code holds only the integer, so a stale handle
// fails a map lookup instead of dereferencing freed memory.
//
// The registry is process-wide singleton state, lazily initialized on
// first use and never torn down before process exit. One mutex guards
// the table; it is held for the full duration of each operation, so
// concurrent mutations of the same handle observe a total order.
package handle

import (
	"sync"

	"github.com/joshuapare/bufkit/buf"
)

// Handle identifies a registry-owned buffer. It is an opaque unsigned
// integer, never a memory address, and never reused while registered.
type Handle uintptr

// None is the reserved "no buffer" sentinel.
const None Handle = 0

// firstHandle leaves a reserved block of low values so real handles
// are distinguishable from legacy small-integer conventions.
const firstHandle Handle = 5

// Registry is a lock-guarded table of owned buffers.
type Registry struct {
	mu   sync.Mutex
	bufs map[Handle]*buf.Buf
	next Handle
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry, creating it on first use.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// NewRegistry creates an empty registry. Only tests construct private
// registries; production code shares Global.
func NewRegistry() *Registry {
	return &Registry{
		bufs: make(map[Handle]*buf.Buf),
		next: firstHandle,
	}
}

// Insert takes ownership of b and returns its new handle.
func (r *Registry) Insert(b *buf.Buf) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.next
	r.next++
	r.bufs[h] = b
	return h
}

// Remove detaches the buffer from the registry and returns it, passing
// ownership to the caller. Returns false for unknown or already
// removed handles.
func (r *Registry) Remove(h Handle) (*buf.Buf, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bufs[h]
	if ok {
		delete(r.bufs, h)
	}
	return b, ok
}

// Drop removes the handle and releases the buffer's owned storage.
func (r *Registry) Drop(h Handle) {
	if b, ok := r.Remove(h); ok {
		b.Release()
	}
}

// With runs fn on the buffer for h while holding the registry lock,
// so no other operation on any handle interleaves with fn. Returns
// false without calling fn when the handle is not registered.
func (r *Registry) With(h Handle, fn func(*buf.Buf)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bufs[h]
	if !ok {
		return false
	}
	fn(b)
	return true
}

// Len returns the number of live handles. Test hook.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bufs)
}
