package baml

import (
	"fmt"
	"io"
	"math"

	"github.com/zerodha/logf"
)

// Reader decodes a record stream that may arrive in pieces. Feed appends
// bytes, Next decodes one record at a time and reports (nil, nil) when it
// needs more input. A Reader is not safe for concurrent use.
type Reader struct {
	lo   logf.Logger
	opts *Options

	mgr    *Manager
	in     *Input
	closed bool

	tables   *Tables
	contract contract

	head, tail Record
	count      int
}

// NewReader returns a reader with an empty input.
func NewReader(cfg ...Config) (*Reader, error) {
	opts, err := applyConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("error applying config: %w", err)
	}
	return &Reader{
		lo:     initLogger(opts),
		opts:   opts,
		mgr:    NewManager(),
		in:     NewInput(nil),
		tables: NewTables(),
	}, nil
}

// Feed appends newly received bytes to the input.
func (r *Reader) Feed(b []byte) {
	r.in.append(b)
}

// Close marks the input as complete. Size probes then no longer wait for a
// full size field budget and a short record becomes a truncation error.
func (r *Reader) Close() {
	r.closed = true
}

// Buffered returns the number of bytes fed but not yet decoded.
func (r *Reader) Buffered() int {
	return r.in.Len()
}

// Next decodes the next record. It returns (nil, nil) when more input is
// needed and io.EOF once a closed input is exhausted. Unless the reader
// keeps records, the returned record is only valid until the next record
// of the same type is read.
func (r *Reader) Next() (Record, error) {
	if r.in.Len() == 0 {
		if r.closed {
			if r.opts.strict {
				if err := r.contract.finish(); err != nil {
					return nil, err
				}
			}
			return nil, io.EOF
		}
		return nil, nil
	}

	var (
		start  = r.in.Pos()
		tag, _ = r.in.ReadUint8()
		t      = RecordType(tag)
	)
	rec := r.mgr.AcquireForRead(t)
	if rec == nil {
		r.in.pos = start
		return nil, fmt.Errorf("%w: tag %d at offset %d", ErrUnknownRecordType, tag, start)
	}

	avail := int64(r.in.Len())
	if r.closed {
		avail = math.MaxInt64
	}
	ok, err := rec.ProbeSize(r.in, avail)
	if err != nil {
		r.in.pos = start
		return nil, fmt.Errorf("error reading size of %s record at offset %d: %w", t, start, err)
	}
	if !ok {
		r.in.pos = start
		return nil, nil
	}

	n := int(payloadLen(rec))
	if r.in.Len() < n {
		r.in.pos = start
		if !r.closed {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s record at offset %d needs %d bytes, %d left",
			ErrTruncated, t, start, n, r.in.Len())
	}

	data, _ := r.in.ReadBytes(n)
	payload := NewInput(data)
	if err := rec.LoadData(payload); err != nil {
		return nil, fmt.Errorf("error loading %s record at offset %d: %w", t, start, err)
	}
	if payload.Len() != 0 {
		return nil, fmt.Errorf("%w: %s record at offset %d left %d unread bytes",
			ErrSizeMismatch, t, start, payload.Len())
	}

	if r.opts.strict {
		if err := r.contract.observe(t); err != nil {
			return nil, err
		}
	}
	if _, err := r.tables.Add(rec); err != nil {
		return nil, err
	}
	if r.opts.keepRecords {
		r.link(rec)
	}
	r.count++

	r.lo.Debug("record read", "type", t.String(), "offset", start, "size", n)
	return rec, nil
}

// link pins rec and appends it to the decoded record list.
func (r *Reader) link(rec Record) {
	rec.Pin()
	if r.tail == nil {
		r.head = rec
	} else {
		r.tail.SetNext(rec)
	}
	r.tail = rec
}

// Records returns the first decoded record when the reader keeps records.
// The rest of the list is reached through Next links.
func (r *Reader) Records() Record {
	return r.head
}

// Tables returns the info records decoded so far.
func (r *Reader) Tables() *Tables {
	return r.tables
}

// Count returns the number of records decoded.
func (r *Reader) Count() int {
	return r.count
}

// ReadAll decodes a complete stream into independent records.
func ReadAll(data []byte, cfg ...Config) ([]Record, error) {
	rd, err := NewReader(cfg...)
	if err != nil {
		return nil, err
	}
	rd.Feed(data)
	rd.Close()

	var out []Record
	for {
		rec, err := rd.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		if !rec.IsPinned() {
			rec = Clone(rec)
		}
		out = append(out, rec)
	}
}
