// Package export renders decoded record streams as deterministic CBOR
// (RFC 8949 core deterministic encoding): map keys sorted, smallest
// integer encodings, no indefinite lengths. The same stream always exports
// to the same bytes.
package export

import (
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/mr-karan/baml/internal/pack"
	"github.com/mr-karan/baml/pkg/baml"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("export: CBOR encoder initialization failed: " + err.Error())
	}

	// Record fields are decoded into map[string]any rather than the CBOR
	// default of map[any]any.
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("export: CBOR decoder initialization failed: " + err.Error())
	}
}

// Document is the exported form of a record stream.
type Document struct {
	Digest  string         `cbor:"digest"`
	Size    int            `cbor:"size"`
	Records []baml.Summary `cbor:"records"`
}

// Summaries describes every record of recs.
func Summaries(recs []baml.Record) []baml.Summary {
	out := make([]baml.Summary, 0, len(recs))
	for _, r := range recs {
		out = append(out, baml.Describe(r))
	}
	return out
}

// Stream decodes a complete record stream and exports it.
func Stream(data []byte, cfg ...baml.Config) ([]byte, error) {
	recs, err := baml.ReadAll(data, cfg...)
	if err != nil {
		return nil, fmt.Errorf("error decoding stream: %w", err)
	}
	return Marshal(Document{
		Digest:  pack.Sum(data).String(),
		Size:    len(data),
		Records: Summaries(recs),
	})
}

// Marshal encodes v with core deterministic encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes an exported document.
func Unmarshal(data []byte) (Document, error) {
	var doc Document
	if err := decMode.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("error decoding export: %w", err)
	}
	return doc, nil
}

// NewEncoder returns an encoder writing a CBOR sequence, one summary per
// record, for streams too large to hold as one document.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: encMode.NewEncoder(w)}
}

// Encoder writes record summaries as a CBOR sequence.
type Encoder struct {
	enc *cbor.Encoder
}

// Encode writes the summary of rec.
func (e *Encoder) Encode(rec baml.Record) error {
	return e.enc.Encode(baml.Describe(rec))
}

// Diagnose returns the CBOR diagnostic notation of data.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
