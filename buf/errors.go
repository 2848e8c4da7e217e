package buf

import "errors"

var (
	// ErrArgument indicates a nil required pointer or an oversized
	// requested capacity.
	ErrArgument = errors.New("buf: invalid argument")

	// ErrNoMemory indicates the allocator bridge returned nil.
	// Sticky: the buffer stays inert for all further mutation.
	ErrNoMemory = errors.New("buf: out of memory")

	// ErrOverflow indicates a growth request past the maximum
	// representable size. Sticky, like ErrNoMemory.
	ErrOverflow = errors.New("buf: size overflow")

	// ErrNotWritable indicates mutation of a static buffer or of a
	// buffer already carrying a sticky error flag.
	ErrNotWritable = errors.New("buf: buffer not writable")
)
