package baml

import (
	"encoding/binary"
	"fmt"
)

// MaxSizeFieldLength is the number of bytes that must be available before a
// variable-size record tries to decode its size prefix.
const MaxSizeFieldLength = 4

// max7BitIntLength is the longest 7-bit encoding of a 32 bit value.
const max7BitIntLength = 5

// Input is a read cursor over buffered record bytes. Reads never go past the
// buffered data: they fail with ErrTruncated and leave the cursor untouched.
type Input struct {
	data []byte
	pos  int
}

// NewInput returns a cursor positioned at the start of data.
func NewInput(data []byte) *Input {
	return &Input{data: data}
}

// Pos returns the cursor offset from the start of the buffered data.
func (in *Input) Pos() int {
	return in.pos
}

// Len returns the number of unread bytes.
func (in *Input) Len() int {
	return len(in.data) - in.pos
}

// SeekTo moves the cursor to an absolute offset.
func (in *Input) SeekTo(pos int) error {
	if pos < 0 || pos > len(in.data) {
		return fmt.Errorf("seek to %d outside of %d buffered bytes", pos, len(in.data))
	}
	in.pos = pos
	return nil
}

// ReadBytes returns the next n bytes without copying them.
func (in *Input) ReadBytes(n int) ([]byte, error) {
	if n < 0 || in.Len() < n {
		return nil, ErrTruncated
	}
	b := in.data[in.pos : in.pos+n]
	in.pos += n
	return b, nil
}

// ReadUint8 reads a single byte.
func (in *Input) ReadUint8() (byte, error) {
	if in.Len() < 1 {
		return 0, ErrTruncated
	}
	b := in.data[in.pos]
	in.pos++
	return b, nil
}

// ReadBool reads a one byte boolean.
func (in *Input) ReadBool() (bool, error) {
	b, err := in.ReadUint8()
	return b != 0, err
}

// ReadInt16 reads a little endian int16.
func (in *Input) ReadInt16() (int16, error) {
	b, err := in.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

// ReadInt32 reads a little endian int32.
func (in *Input) ReadInt32() (int32, error) {
	b, err := in.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// Read7BitInt reads a 7-bit encoded integer, least significant group first,
// and returns it with the number of bytes it took.
func (in *Input) Read7BitInt() (int32, int, error) {
	var (
		v     uint32
		shift uint
		start = in.pos
	)
	for n := 1; ; n++ {
		if n > max7BitIntLength {
			in.pos = start
			return 0, 0, ErrBadVarInt
		}
		b, err := in.ReadUint8()
		if err != nil {
			in.pos = start
			return 0, 0, err
		}
		if n == max7BitIntLength && b > 0x0F {
			in.pos = start
			return 0, 0, ErrBadVarInt
		}
		v |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return int32(v), n, nil
		}
		shift += 7
	}
}

// ReadString reads a string prefixed with its 7-bit encoded byte length.
func (in *Input) ReadString() (string, error) {
	start := in.pos
	n, _, err := in.Read7BitInt()
	if err != nil {
		return "", err
	}
	if n < 0 {
		in.pos = start
		return "", fmt.Errorf("%w: negative string length %d", ErrBadVarInt, n)
	}
	b, err := in.ReadBytes(int(n))
	if err != nil {
		in.pos = start
		return "", err
	}
	return string(b), nil
}

// append adds freshly received bytes, dropping the already consumed prefix
// once it dominates the buffer.
func (in *Input) append(b []byte) {
	if in.pos > 0 && in.pos >= len(in.data)/2 {
		n := copy(in.data, in.data[in.pos:])
		in.data = in.data[:n]
		in.pos = 0
	}
	in.data = append(in.data, b...)
}

// sizeOf7BitInt returns the encoded width of v.
func sizeOf7BitInt(v int32) int32 {
	u := uint32(v)
	n := int32(1)
	for u >= 0x80 {
		u >>= 7
		n++
	}
	return n
}
