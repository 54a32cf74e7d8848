package baml

import (
	"fmt"
	"io"
)

// DocumentStartRecord is the mandatory first record of a stream.
type DocumentStartRecord struct {
	Base
	LoadAsync       bool
	MaxAsyncRecords int32
	DebugBaml       bool

	filePos int64
}

func newDocumentStartRecord() *DocumentStartRecord {
	return &DocumentStartRecord{filePos: -1}
}

func (r *DocumentStartRecord) Type() RecordType { return DocumentStart }

func (r *DocumentStartRecord) Size() int32 { return 6 }

func (r *DocumentStartRecord) LoadData(in *Input) error {
	var err error
	if r.LoadAsync, err = in.ReadBool(); err != nil {
		return err
	}
	if r.MaxAsyncRecords, err = in.ReadInt32(); err != nil {
		return err
	}
	r.DebugBaml, err = in.ReadBool()
	return err
}

func (r *DocumentStartRecord) WriteData(enc *Encoder) error {
	enc.PutBool(r.LoadAsync)
	enc.PutInt32(r.MaxAsyncRecords)
	enc.PutBool(r.DebugBaml)
	return enc.Err()
}

func (r *DocumentStartRecord) CopyInto(dst Record) { copyRecord(r, dst) }

func (r *DocumentStartRecord) markPosition(pos int64) { r.filePos = pos }

// FilePos is the sink position the record was last written at, or -1.
func (r *DocumentStartRecord) FilePos() int64 { return r.filePos }

// UpdateInPlace rewrites the record at the position it was first written
// at and returns the sink to where it was.
func (r *DocumentStartRecord) UpdateInPlace(out io.WriteSeeker) error {
	if out == nil {
		return nil
	}
	if r.filePos < 0 {
		return ErrNotWritten
	}
	cur, err := out.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("error reading sink position: %w", err)
	}
	if _, err := out.Seek(r.filePos, io.SeekStart); err != nil {
		return fmt.Errorf("error seeking to document start: %w", err)
	}
	if err := Write(out, r); err != nil {
		return err
	}
	if _, err := out.Seek(cur, io.SeekStart); err != nil {
		return fmt.Errorf("error seeking back after document start update: %w", err)
	}
	return nil
}

// MarkerRecord covers every kind without a payload: document, element and
// property scope ends, constructor parameter brackets.
type MarkerRecord struct {
	Base
	kind RecordType
}

func newMarkerRecord(kind RecordType) *MarkerRecord {
	return &MarkerRecord{kind: kind}
}

func (r *MarkerRecord) Type() RecordType { return r.kind }

func (r *MarkerRecord) CopyInto(dst Record) { copyRecord(r, dst) }
