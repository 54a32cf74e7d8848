package baml

import (
	"fmt"
	"io"
	"math"

	"github.com/zerodha/logf"
)

// Writer emits a record stream to a seekable sink. Records are borrowed
// with Acquire, populated, and handed back through Emit, which writes and
// releases them. A Writer is not safe for concurrent use.
type Writer struct {
	lo   logf.Logger
	opts *Options

	mgr      *Manager
	out      io.WriteSeeker
	doc      *DocumentStartRecord
	contract contract
	count    int
}

// NewWriter returns a writer emitting to out.
func NewWriter(out io.WriteSeeker, cfg ...Config) (*Writer, error) {
	if out == nil {
		return nil, ErrNoSink
	}
	opts, err := applyConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("error applying config: %w", err)
	}
	return &Writer{
		lo:   initLogger(opts),
		opts: opts,
		mgr:  NewManager(),
		out:  out,
	}, nil
}

// Manager returns the record manager backing the writer.
func (w *Writer) Manager() *Manager {
	return w.mgr
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.count
}

// Pos returns the current sink position.
func (w *Writer) Pos() (int64, error) {
	pos, err := w.out.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("error reading sink position: %w", err)
	}
	return pos, nil
}

// Acquire borrows a record of type t. At most one record per type may be
// borrowed at a time, except for pinned kinds.
func (w *Writer) Acquire(t RecordType) (Record, error) {
	rec := w.mgr.AcquireForWrite(t)
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRecordType, t)
	}
	return rec, nil
}

// Emit writes rec and releases it back to the manager. rec must have been
// borrowed from this writer or be a pinned or derived record.
func (w *Writer) Emit(rec Record) error {
	defer w.mgr.Release(rec)
	return w.write(rec)
}

func (w *Writer) write(rec Record) error {
	t := rec.Type()
	if w.opts.strict {
		if err := w.contract.observe(t); err != nil {
			return err
		}
	}
	if err := Write(w.out, rec); err != nil {
		return err
	}
	w.count++
	w.lo.Debug("record written", "type", t.String(), "size", rec.Size())
	return nil
}

// StartDocument writes the document start record from the writer options.
// The record stays pinned so that SetLoadAsync can rewrite it.
func (w *Writer) StartDocument() (*DocumentStartRecord, error) {
	rec, err := w.Acquire(DocumentStart)
	if err != nil {
		return nil, err
	}
	doc := rec.(*DocumentStartRecord)
	doc.LoadAsync = w.opts.loadAsync
	doc.MaxAsyncRecords = w.opts.maxAsyncRecords
	doc.DebugBaml = w.opts.debugBaml
	doc.Pin()
	if err := w.write(doc); err != nil {
		return nil, err
	}
	w.doc = doc
	return doc, nil
}

// SetLoadAsync rewrites the document start record in place with new async
// load settings. The sink position is unchanged afterwards.
func (w *Writer) SetLoadAsync(loadAsync bool, maxRecords int32) error {
	if w.doc == nil {
		return fmt.Errorf("error updating document start: %w", ErrNotWritten)
	}
	w.doc.LoadAsync = loadAsync
	w.doc.MaxAsyncRecords = maxRecords
	if err := w.doc.UpdateInPlace(w.out); err != nil {
		return fmt.Errorf("error updating document start: %w", err)
	}
	w.lo.Debug("document start updated", "load_async", loadAsync, "max_records", maxRecords)
	return nil
}

// EndDocument writes the document end record.
func (w *Writer) EndDocument() error {
	rec, err := w.Acquire(DocumentEnd)
	if err != nil {
		return err
	}
	if err := w.Emit(rec); err != nil {
		return err
	}
	if w.opts.strict {
		return w.contract.finish()
	}
	return nil
}

// DeferredSection writes a deferred dictionary: a DeferableContentStart
// record, the keys, then the values. Each key's ValuePosition is patched
// to the offset of its value from the start of the values, and the
// content size is patched when the section is closed.
type DeferredSection struct {
	w            *Writer
	start        *DeferableContentStartRecord
	contentStart int64
	valuesStart  int64
	keys         []DictionaryKey
	closed       bool
}

// BeginDeferredSection writes the section start record.
func (w *Writer) BeginDeferredSection() (*DeferredSection, error) {
	rec, err := w.Acquire(DeferableContentStart)
	if err != nil {
		return nil, err
	}
	start := rec.(*DeferableContentStartRecord)
	start.ContentSize = 0
	start.Pin()
	if err := w.write(start); err != nil {
		return nil, err
	}
	pos, err := w.Pos()
	if err != nil {
		return nil, err
	}
	return &DeferredSection{w: w, start: start, contentStart: pos, valuesStart: -1}, nil
}

// AddKey writes a key record with a placeholder value position.
func (s *DeferredSection) AddKey(key DictionaryKey) error {
	if s.closed || s.valuesStart >= 0 {
		return fmt.Errorf("%w: key after values", ErrSectionState)
	}
	key.Key().ValuePosition = 0
	if err := s.w.write(key); err != nil {
		return err
	}
	s.keys = append(s.keys, key)
	return nil
}

// Keys returns the keys written so far.
func (s *DeferredSection) Keys() []DictionaryKey {
	return s.keys
}

// BeginValues marks the end of the keys. Value positions are relative to
// this point.
func (s *DeferredSection) BeginValues() error {
	if s.closed || s.valuesStart >= 0 {
		return fmt.Errorf("%w: values already started", ErrSectionState)
	}
	pos, err := s.w.Pos()
	if err != nil {
		return err
	}
	s.valuesStart = pos
	return nil
}

// BeginValue patches key to point at the current position. The caller then
// emits the value records.
func (s *DeferredSection) BeginValue(key DictionaryKey) error {
	if s.closed || s.valuesStart < 0 {
		return fmt.Errorf("%w: value before BeginValues", ErrSectionState)
	}
	pos, err := s.w.Pos()
	if err != nil {
		return err
	}
	rel := pos - s.valuesStart
	if rel > math.MaxInt32 {
		return fmt.Errorf("%w: value position %d", ErrIDOverflow, rel)
	}
	if err := key.Key().UpdateValuePosition(int32(rel), s.w.out); err != nil {
		return fmt.Errorf("error patching value position of %s key: %w", key.Type(), err)
	}
	return nil
}

// Close patches the content size of the section.
func (s *DeferredSection) Close() error {
	if s.closed {
		return fmt.Errorf("%w: section already closed", ErrSectionState)
	}
	if s.valuesStart < 0 {
		if err := s.BeginValues(); err != nil {
			return err
		}
	}
	pos, err := s.w.Pos()
	if err != nil {
		return err
	}
	size := pos - s.contentStart
	if size > math.MaxInt32 {
		return fmt.Errorf("%w: deferred content size %d", ErrIDOverflow, size)
	}
	if err := s.start.UpdateContentSize(int32(size), s.w.out); err != nil {
		return fmt.Errorf("error patching deferred content size: %w", err)
	}
	// Sections nest, so the start record is dropped rather than returned
	// to the single write cache slot.
	s.closed = true
	s.start.Unpin()
	s.w.lo.Debug("deferred section closed", "keys", len(s.keys), "size", size)
	return nil
}
