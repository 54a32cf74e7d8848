package baml

import "fmt"

// VariableBase extends Base with a size prefix. The wire shape of a
// variable-size record is [tag][size][payload] where size is a 7-bit
// encoded integer counting the payload plus the width of the size field.
type VariableBase struct {
	Base
	size      int32
	prefixLen int32
}

// variableRecord is implemented by every kind embedding VariableBase.
type variableRecord interface {
	Record
	variable() *VariableBase
}

func (v *VariableBase) variable() *VariableBase { return v }

func (v *VariableBase) Size() int32 { return v.size }

// SetSize sets the size value. -1 marks it unknown.
func (v *VariableBase) SetSize(size int32) {
	v.size = size
	if size < 0 {
		v.prefixLen = 0
		return
	}
	v.prefixLen = sizeOf7BitInt(size)
}

// PayloadLen returns the number of payload bytes described by the size
// prefix, or -1 when the size is unknown.
func (v *VariableBase) PayloadLen() int32 {
	if v.size < 0 {
		return -1
	}
	return v.size - v.prefixLen
}

// ProbeSize decodes the size prefix. It reports false, consuming nothing,
// while fewer than MaxSizeFieldLength bytes are available even if the
// actual prefix would be shorter.
func (v *VariableBase) ProbeSize(in *Input, bytesAvailable int64) (bool, error) {
	if bytesAvailable < MaxSizeFieldLength {
		return false, nil
	}
	start := in.Pos()
	size, n, err := in.Read7BitInt()
	if err != nil {
		return false, err
	}
	if size < int32(n) {
		in.pos = start
		return false, fmt.Errorf("%w: size %d shorter than its own %d byte prefix", ErrSizeMismatch, size, n)
	}
	v.size = size
	v.prefixLen = int32(n)
	return true, nil
}

// computeEncodedSize turns a measured payload length into the value of the
// size prefix. The width of the prefix is estimated twice, the second time
// including the first estimate; no further iteration is done.
func computeEncodedSize(rawSize int32) (size int32, sizeOfSizeField int32) {
	sizeOfSizeField = sizeOf7BitInt(rawSize)
	sizeOfSizeField = sizeOf7BitInt(sizeOfSizeField + rawSize)
	return sizeOfSizeField + rawSize, sizeOfSizeField
}

// writeVariable measures the payload with a first WriteData pass, then
// rewinds, writes the size prefix and writes the payload again.
func writeVariable(enc *Encoder, rec variableRecord) error {
	v := rec.variable()
	start := enc.Pos()
	if err := rec.WriteData(enc); err != nil {
		return err
	}
	end := enc.Pos()
	if err := enc.Err(); err != nil {
		return err
	}

	size, width := computeEncodedSize(int32(end - start))
	enc.SeekTo(start)
	enc.Put7BitInt(size)
	if err := rec.WriteData(enc); err != nil {
		return err
	}
	v.size = size
	v.prefixLen = width
	return enc.Err()
}
