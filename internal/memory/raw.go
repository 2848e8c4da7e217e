package memory

import "unsafe"

// maxSlice bounds the synthetic slices built over raw pointers.
const maxSlice = 1<<31 - 1

// Slice returns a byte slice of length n over the storage at ptr.
// The caller guarantees ptr addresses at least n valid bytes.
func Slice(ptr unsafe.Pointer, n uintptr) []byte {
	if ptr == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), n)
}

// Memcpy copies n bytes from src to dst. The regions must not overlap.
func Memcpy(dst, src unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	copy(Slice(dst, n), Slice(src, n))
}

// Memmove copies n bytes from src to dst, tolerating overlap.
// Go's copy is memmove underneath, but building both slices over the
// same backing region requires them to come from the same base for the
// aliasing to be visible, so shift through a single view.
func Memmove(dst, src unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	d := uintptr(dst)
	s := uintptr(src)
	if d == s {
		return
	}
	// Build one view spanning both regions so copy sees the overlap.
	var base unsafe.Pointer
	var span uintptr
	if d < s {
		base = dst
		span = s - d + n
		v := Slice(base, span)
		copy(v[:n], v[s-d:])
	} else {
		base = src
		span = d - s + n
		v := Slice(base, span)
		copy(v[d-s:], v[:n])
	}
}

// Memset fills n bytes at ptr with b.
func Memset(ptr unsafe.Pointer, b byte, n uintptr) {
	v := Slice(ptr, n)
	for i := range v {
		v[i] = b
	}
}

// Strlen returns the number of bytes at ptr before the first zero byte.
// The storage must contain a zero terminator.
func Strlen(ptr *byte) uintptr {
	if ptr == nil {
		return 0
	}
	var n uintptr
	p := unsafe.Pointer(ptr)
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
		if n >= maxSlice {
			break
		}
	}
	return n
}
