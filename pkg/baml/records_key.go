package baml

import (
	"encoding/binary"
	"fmt"
	"io"
)

// KeyFields is the dictionary key state shared by the key record kinds.
// ValuePosition is the offset of the key's value relative to the end of the
// keys section. It is written as a placeholder and patched once the value
// is emitted.
type KeyFields struct {
	// KeyObject is the resolved key, owned by an external mapper. It is
	// never written.
	KeyObject any

	ValuePosition int32
	Shared        bool
	SharedSet     bool

	valuePositionPosition int64
}

func newKeyFields() KeyFields {
	return KeyFields{valuePositionPosition: -1}
}

// DictionaryKey is implemented by every record that can key a deferred
// dictionary entry.
type DictionaryKey interface {
	Record
	Key() *KeyFields
}

// Key returns the key state of the record.
func (k *KeyFields) Key() *KeyFields { return k }

// ValuePositionPosition is the absolute sink position of the written
// ValuePosition field, or -1 if the key was never written.
func (k *KeyFields) ValuePositionPosition() int64 { return k.valuePositionPosition }

func (k *KeyFields) load(in *Input) error {
	var err error
	if k.ValuePosition, err = in.ReadInt32(); err != nil {
		return err
	}
	if k.Shared, err = in.ReadBool(); err != nil {
		return err
	}
	k.SharedSet, err = in.ReadBool()
	return err
}

func (k *KeyFields) write(enc *Encoder) {
	k.valuePositionPosition = enc.Pos()
	enc.PutInt32(k.ValuePosition)
	enc.PutBool(k.Shared)
	enc.PutBool(k.SharedSet)
}

// UpdateValuePosition overwrites the written ValuePosition field with
// newPosition. The sink is left exactly where it was.
func (k *KeyFields) UpdateValuePosition(newPosition int32, out io.WriteSeeker) error {
	if k.valuePositionPosition < 0 {
		return ErrValuePositionUnset
	}
	k.ValuePosition = newPosition
	if out == nil {
		return nil
	}
	return patchInt32(out, k.valuePositionPosition, newPosition)
}

// patchInt32 seeks relative to the current position to pos, writes v and
// seeks back by the same distance.
func patchInt32(out io.WriteSeeker, pos int64, v int32) error {
	cur, err := out.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("error reading sink position: %w", err)
	}
	delta := pos - cur
	if _, err := out.Seek(delta, io.SeekCurrent); err != nil {
		return fmt.Errorf("error seeking to patch position %d: %w", pos, err)
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	if _, err := out.Write(b[:]); err != nil {
		return fmt.Errorf("error patching position %d: %w", pos, err)
	}
	if _, err := out.Seek(-(delta + int64(len(b))), io.SeekCurrent); err != nil {
		return fmt.Errorf("error seeking back from patch position %d: %w", pos, err)
	}
	return nil
}

// DefAttributeKeyStringRecord keys a dictionary entry by a string of the
// string table.
type DefAttributeKeyStringRecord struct {
	VariableBase
	KeyFields
	ValueID int16
}

func newDefAttributeKeyStringRecord() *DefAttributeKeyStringRecord {
	r := &DefAttributeKeyStringRecord{KeyFields: newKeyFields()}
	r.Pin()
	return r
}

func (r *DefAttributeKeyStringRecord) Type() RecordType { return DefAttributeKeyString }

func (r *DefAttributeKeyStringRecord) LoadData(in *Input) error {
	var err error
	if r.ValueID, err = in.ReadInt16(); err != nil {
		return err
	}
	return r.KeyFields.load(in)
}

func (r *DefAttributeKeyStringRecord) WriteData(enc *Encoder) error {
	enc.PutInt16(r.ValueID)
	r.KeyFields.write(enc)
	return enc.Err()
}

func (r *DefAttributeKeyStringRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// KeyTypeRecord keys a dictionary entry by a type. It backs
// DefAttributeKeyType and KeyElementStart, which share the element start
// header followed by the key fields.
type KeyTypeRecord struct {
	Base
	elementHeader
	KeyFields
	kind RecordType
}

func newKeyTypeRecord(kind RecordType) *KeyTypeRecord {
	r := &KeyTypeRecord{KeyFields: newKeyFields(), kind: kind}
	r.Pin()
	return r
}

func (r *KeyTypeRecord) Type() RecordType { return r.kind }

func (r *KeyTypeRecord) Size() int32 { return 9 }

func (r *KeyTypeRecord) LoadData(in *Input) error {
	if err := r.elementHeader.load(in); err != nil {
		return err
	}
	return r.KeyFields.load(in)
}

func (r *KeyTypeRecord) WriteData(enc *Encoder) error {
	r.elementHeader.write(enc)
	r.KeyFields.write(enc)
	return enc.Err()
}

func (r *KeyTypeRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// DeferableContentStartRecord opens a deferred dictionary section.
// ContentSize counts the bytes of keys and values following the record and
// is patched once the section is complete.
type DeferableContentStartRecord struct {
	Base
	ContentSize int32

	contentSizePosition int64
}

func newDeferableContentStartRecord() *DeferableContentStartRecord {
	return &DeferableContentStartRecord{contentSizePosition: -1}
}

func (r *DeferableContentStartRecord) Type() RecordType { return DeferableContentStart }

func (r *DeferableContentStartRecord) Size() int32 { return 4 }

func (r *DeferableContentStartRecord) LoadData(in *Input) (err error) {
	r.ContentSize, err = in.ReadInt32()
	return err
}

func (r *DeferableContentStartRecord) WriteData(enc *Encoder) error {
	r.contentSizePosition = enc.Pos()
	enc.PutInt32(r.ContentSize)
	return enc.Err()
}

func (r *DeferableContentStartRecord) CopyInto(dst Record) { copyRecord(r, dst) }

// ContentSizePosition is the absolute sink position of the written
// ContentSize field, or -1.
func (r *DeferableContentStartRecord) ContentSizePosition() int64 { return r.contentSizePosition }

// UpdateContentSize overwrites the written ContentSize field. The sink is
// left exactly where it was.
func (r *DeferableContentStartRecord) UpdateContentSize(size int32, out io.WriteSeeker) error {
	if r.contentSizePosition < 0 {
		return ErrContentSizeUnset
	}
	r.ContentSize = size
	if out == nil {
		return nil
	}
	return patchInt32(out, r.contentSizePosition, size)
}
