package baml

import (
	"fmt"
	"io"
)

// Record is implemented by every record kind. The set of kinds is closed:
// records are obtained from a Manager, Allocate or Clone.
type Record interface {
	// Type is the wire tag of the record.
	Type() RecordType

	// Size is the fixed payload size for fixed kinds. For variable-size kinds
	// it is the value of the size prefix (payload plus the width of the
	// prefix itself), or -1 before it is known.
	Size() int32
	SetSize(size int32)

	// ProbeSize decodes the size prefix of variable-size kinds. It returns
	// false without consuming anything when fewer than MaxSizeFieldLength
	// bytes are available. Fixed kinds always succeed.
	ProbeSize(in *Input, bytesAvailable int64) (bool, error)

	// LoadData reads the payload fields in wire order.
	LoadData(in *Input) error

	// WriteData writes the payload fields in wire order, without tag or size.
	WriteData(enc *Encoder) error

	// CopyInto copies every field, flags and the next link included, into
	// dst, which must be the same kind.
	CopyInto(dst Record)

	Pin()
	Unpin()
	IsPinned() bool
	PinCount() int

	// Next links decoded records into a list owned by whoever builds it.
	Next() Record
	SetNext(next Record)

	base() *Base
}

// Base carries the state shared by every record kind: the flags byte
// holding the pin count and the intrusive next link. Kinds without a
// payload use its no-op size and data methods as they are.
type Base struct {
	flags uint8
	next  Record
}

func (b *Base) base() *Base { return b }

func (b *Base) Size() int32 { return 0 }

func (b *Base) SetSize(int32) {}

func (b *Base) ProbeSize(*Input, int64) (bool, error) { return true, nil }

func (b *Base) LoadData(*Input) error { return nil }

func (b *Base) WriteData(enc *Encoder) error { return enc.Err() }

// Pin marks the record as referenced from outside the manager. The count
// saturates at 3.
func (b *Base) Pin() {
	w := uint32(b.flags)
	if c := pinSection.Get(w); c < pinSection.Max() {
		b.flags = uint8(pinSection.Set(w, c+1))
	}
}

// Unpin drops one pin, never going below zero.
func (b *Base) Unpin() {
	w := uint32(b.flags)
	if c := pinSection.Get(w); c > 0 {
		b.flags = uint8(pinSection.Set(w, c-1))
	}
}

func (b *Base) IsPinned() bool { return b.PinCount() > 0 }

func (b *Base) PinCount() int { return int(pinSection.Get(uint32(b.flags))) }

func (b *Base) Next() Record { return b.next }

func (b *Base) SetNext(next Record) { b.next = next }

// validator is implemented by records with fields that must fit packed
// bit ranges. It runs before anything reaches the sink.
type validator interface {
	validate() error
}

// positionMarker is implemented by records that remember where they were
// written so that they can be rewritten in place later.
type positionMarker interface {
	markPosition(pos int64)
}

// Write writes rec as [tag][payload] for fixed kinds and
// [tag][size][payload] for variable-size kinds. Nothing is written when out
// is nil.
func Write(out io.WriteSeeker, rec Record) error {
	if out == nil || rec == nil {
		return nil
	}
	if err := writeRecord(NewEncoder(out), rec); err != nil {
		return fmt.Errorf("error writing %s record: %w", rec.Type(), err)
	}
	return nil
}

func writeRecord(enc *Encoder, rec Record) error {
	if v, ok := rec.(validator); ok {
		if err := v.validate(); err != nil {
			return err
		}
	}
	if m, ok := rec.(positionMarker); ok {
		m.markPosition(enc.Pos())
	}
	enc.PutUint8(byte(rec.Type()))

	if v, ok := rec.(variableRecord); ok {
		return writeVariable(enc, v)
	}

	start := enc.Pos()
	if err := rec.WriteData(enc); err != nil {
		return err
	}
	if n := enc.Pos() - start; enc.Err() == nil && n != int64(rec.Size()) {
		return fmt.Errorf("%w: wrote %d bytes, fixed size is %d", ErrSizeMismatch, n, rec.Size())
	}
	return enc.Err()
}

// payloadLen is the number of payload bytes following the tag and size
// prefix of a probed record.
func payloadLen(rec Record) int32 {
	if v, ok := rec.(variableRecord); ok {
		return v.variable().PayloadLen()
	}
	return rec.Size()
}

// copyRecord backs CopyInto for every kind.
func copyRecord[T any](src *T, dst Record) {
	d, ok := any(dst).(*T)
	if !ok {
		panic(fmt.Sprintf("baml: cannot copy %T into %T", src, dst))
	}
	*d = *src
}
