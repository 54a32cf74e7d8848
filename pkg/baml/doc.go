// Package baml reads and writes the binary record stream produced by a
// markup compiler: a flat sequence of tagged records describing elements,
// properties, text and the info tables they refer to.
//
// # Record Format
//
// Every record starts with a one byte tag. Fixed-size kinds follow it with
// their payload directly:
//
//	[Tag(1)][Payload]
//
// Variable-size kinds carry a size prefix between the tag and the payload:
//
//	[Tag(1)][Size(1-4)][Payload]
//
// The size is a 7-bit encoded integer (little-endian groups of 7 bits, high
// bit set on every byte but the last) whose value counts the payload plus
// the width of the size prefix itself. Readers need MaxSizeFieldLength bytes
// available before they can probe the size of a variable record.
//
// Strings are a 7-bit length followed by UTF-8 bytes. Integers are
// little-endian. Booleans are one byte.
//
// # Record Manager
//
// A Manager hands out one record instance per type for reading and keeps
// one released instance per type for writing, so a steady stream of records
// decodes without allocating. A record returned by the read path is
// overwritten by the next record of the same type unless it was pinned with
// Pin or copied with Clone. Info records and dictionary key records pin
// themselves when constructed, since they are referenced after the stream
// has moved on.
//
// # Deferred Content
//
// Deferred dictionaries are written as a DeferableContentStart record, the
// key records, and then the values. The key value positions and the content
// size are not known until the values are written, so they are patched in
// place afterwards:
//
//	w, _ := baml.NewWriter(out)
//	sec, _ := w.BeginDeferredSection()
//	_ = sec.AddKey(key)
//	_ = sec.BeginValues()
//	_ = sec.BeginValue(key)
//	// emit the value records
//	_ = sec.Close()
//
// # Reading
//
// Reader decodes records incrementally. Feed appends bytes, Next returns the
// next complete record or nil when more input is needed, and Close marks
// the end of input:
//
//	r, _ := baml.NewReader()
//	r.Feed(data)
//	r.Close()
//	for {
//		rec, err := r.Next()
//		if err == io.EOF {
//			break
//		}
//		...
//	}
package baml
