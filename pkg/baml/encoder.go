package baml

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Encoder writes record fields to a seekable sink. The first error sticks:
// later calls are no-ops and Err reports it.
type Encoder struct {
	w   io.WriteSeeker
	err error
	buf [max7BitIntLength]byte
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.WriteSeeker) *Encoder {
	return &Encoder{w: w}
}

// Err returns the first error hit by the encoder.
func (e *Encoder) Err() error {
	return e.err
}

// Pos returns the absolute position of the sink, or -1 after an error.
func (e *Encoder) Pos() int64 {
	if e.err != nil {
		return -1
	}
	pos, err := e.w.Seek(0, io.SeekCurrent)
	if err != nil {
		e.err = fmt.Errorf("error reading sink position: %w", err)
		return -1
	}
	return pos
}

// SeekTo moves the sink to an absolute position.
func (e *Encoder) SeekTo(pos int64) {
	if e.err != nil {
		return
	}
	if _, err := e.w.Seek(pos, io.SeekStart); err != nil {
		e.err = fmt.Errorf("error seeking sink to %d: %w", pos, err)
	}
}

// PutBytes writes raw bytes.
func (e *Encoder) PutBytes(b []byte) {
	if e.err != nil {
		return
	}
	if _, err := e.w.Write(b); err != nil {
		e.err = fmt.Errorf("error writing record data: %w", err)
	}
}

// PutUint8 writes a single byte.
func (e *Encoder) PutUint8(b byte) {
	e.buf[0] = b
	e.PutBytes(e.buf[:1])
}

// PutBool writes a one byte boolean.
func (e *Encoder) PutBool(v bool) {
	if v {
		e.PutUint8(1)
		return
	}
	e.PutUint8(0)
}

// PutInt16 writes a little endian int16.
func (e *Encoder) PutInt16(v int16) {
	binary.LittleEndian.PutUint16(e.buf[:2], uint16(v))
	e.PutBytes(e.buf[:2])
}

// PutInt32 writes a little endian int32.
func (e *Encoder) PutInt32(v int32) {
	binary.LittleEndian.PutUint32(e.buf[:4], uint32(v))
	e.PutBytes(e.buf[:4])
}

// Put7BitInt writes v in 7 bit groups, least significant first, with the
// high bit set on every byte but the last.
func (e *Encoder) Put7BitInt(v int32) {
	var (
		u = uint32(v)
		n = 0
	)
	for u >= 0x80 {
		e.buf[n] = byte(u) | 0x80
		u >>= 7
		n++
	}
	e.buf[n] = byte(u)
	e.PutBytes(e.buf[:n+1])
}

// PutString writes s prefixed with its 7-bit encoded byte length.
func (e *Encoder) PutString(s string) {
	e.Put7BitInt(int32(len(s)))
	if e.err != nil {
		return
	}
	if _, err := io.WriteString(e.w, s); err != nil {
		e.err = fmt.Errorf("error writing record data: %w", err)
	}
}
