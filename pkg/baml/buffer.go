package baml

import (
	"errors"
	"io"
)

var errNegativePosition = errors.New("negative buffer position")

// Buffer is a growable in-memory io.WriteSeeker. Writes overwrite existing
// bytes at the current position and extend the buffer past its end, which is
// what the measure-then-patch record writes and the offset patching need.
type Buffer struct {
	buf []byte
	pos int
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Write writes p at the current position.
func (b *Buffer) Write(p []byte) (int, error) {
	end := b.pos + len(p)
	if end > len(b.buf) {
		old := len(b.buf)
		if end > cap(b.buf) {
			grown := make([]byte, old, 2*cap(b.buf)+end)
			copy(grown, b.buf)
			b.buf = grown
		}
		b.buf = b.buf[:end]
		if b.pos > old {
			clear(b.buf[old:b.pos])
		}
	}
	copy(b.buf[b.pos:], p)
	b.pos = end
	return len(p), nil
}

// Seek implements io.Seeker. Seeking past the end is allowed; the gap is
// zero filled by the next write.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(b.pos) + offset
	case io.SeekEnd:
		pos = int64(len(b.buf)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if pos < 0 {
		return 0, errNegativePosition
	}
	b.pos = int(pos)
	return pos, nil
}

// Bytes returns the buffer contents. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Reset empties the buffer and rewinds it.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.pos = 0
}
