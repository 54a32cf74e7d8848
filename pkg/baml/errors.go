package baml

import "errors"

var (
	ErrUnknownRecordType  = errors.New("unknown record type")
	ErrTruncated          = errors.New("record data is truncated")
	ErrBadVarInt          = errors.New("bad 7-bit encoded integer")
	ErrSizeMismatch       = errors.New("record size does not match its data")
	ErrValuePositionUnset = errors.New("value position was never written")
	ErrContentSizeUnset   = errors.New("content size was never written")
	ErrNotWritten         = errors.New("record was never written")
	ErrIDOverflow         = errors.New("id exceeds its reserved bit width")
	ErrNoSink             = errors.New("no output sink")
	ErrStreamContract     = errors.New("record stream is out of order")
	ErrKnownID            = errors.New("id refers to a well-known entry")
	ErrUnknownID          = errors.New("id is not present in the table")
	ErrSectionState       = errors.New("deferred section used out of order")
)
