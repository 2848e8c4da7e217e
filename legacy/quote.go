package legacy

import (
	"bytes"
	"unsafe"

	"github.com/joshuapare/bufkit/internal/memory"
)

var quoteEntity = []byte("&quot;")

// WriteQuotedString appends str wrapped in quotes, applying the old
// minimal-escaping policy: double-quote wrapping by default; a string
// containing a double quote is wrapped in single quotes unescaped; a
// string containing both quote kinds is wrapped in double quotes with
// every double quote replaced by the quote entity reference. Content
// holding only single quotes is never escaped.
func WriteQuotedString(b *Buffer, str *byte) {
	if b == nil || str == nil {
		return
	}
	s := memory.Slice(unsafe.Pointer(str), memory.Strlen(str))

	switch {
	case bytes.IndexByte(s, '"') < 0:
		addByte(b, '"')
		addBytes(b, s)
		addByte(b, '"')
	case bytes.IndexByte(s, '\'') < 0:
		addByte(b, '\'')
		addBytes(b, s)
		addByte(b, '\'')
	default:
		addByte(b, '"')
		for len(s) > 0 {
			i := bytes.IndexByte(s, '"')
			if i < 0 {
				addBytes(b, s)
				break
			}
			addBytes(b, s[:i])
			addBytes(b, quoteEntity)
			s = s[i+1:]
		}
		addByte(b, '"')
	}
}

func addBytes(b *Buffer, s []byte) {
	if len(s) > 0 {
		Add(b, &s[0], int32(len(s)))
	}
}

func addByte(b *Buffer, c byte) {
	s := [1]byte{c}
	Add(b, &s[0], 1)
}
