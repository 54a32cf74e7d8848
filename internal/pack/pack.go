// Package pack wraps compiled record streams in a small envelope for
// storage and transfer: a header naming the compression, the raw size and
// a digest of the raw stream, followed by the (possibly compressed) body.
//
//	[Magic(4)][Version(1)][Compression(1)][RawSize(uvarint)][Digest(32)][Body]
package pack

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	Version = 1

	// MaxRawSize bounds the raw size accepted from an envelope header
	// before anything is allocated for it.
	MaxRawSize = 1 << 30
)

var magic = [4]byte{'B', 'A', 'M', 'L'}

var (
	ErrBadMagic       = errors.New("not a packed stream")
	ErrBadVersion     = errors.New("unsupported envelope version")
	ErrTruncated      = errors.New("truncated envelope")
	ErrTooLarge       = errors.New("stream too large")
	ErrDigestMismatch = errors.New("stream digest mismatch")
)

// Header describes a packed stream.
type Header struct {
	Compression Compression
	RawSize     int
	Digest      Digest
}

// Pack wraps data. If the requested compression does not shrink the stream
// the body is stored uncompressed and the header says so.
func Pack(data []byte, c Compression) ([]byte, error) {
	if len(data) > MaxRawSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	body, err := compress(data, c)
	if errors.Is(err, errIncompressible) {
		body, c = data, CompressionNone
	} else if err != nil {
		return nil, err
	}

	var (
		d   = Sum(data)
		out = make([]byte, 0, len(magic)+2+binary.MaxVarintLen64+len(d)+len(body))
	)
	out = append(out, magic[:]...)
	out = append(out, Version, byte(c))
	out = binary.AppendUvarint(out, uint64(len(data)))
	out = append(out, d[:]...)
	out = append(out, body...)
	return out, nil
}

// ReadHeader parses the envelope header and returns it with the body.
func ReadHeader(env []byte) (Header, []byte, error) {
	var h Header
	if len(env) < len(magic)+2 {
		return h, nil, ErrTruncated
	}
	if !bytes.Equal(env[:len(magic)], magic[:]) {
		return h, nil, ErrBadMagic
	}
	if v := env[len(magic)]; v != Version {
		return h, nil, fmt.Errorf("%w: %d", ErrBadVersion, v)
	}
	h.Compression = Compression(env[len(magic)+1])

	rest := env[len(magic)+2:]
	raw, n := binary.Uvarint(rest)
	if n <= 0 {
		return h, nil, fmt.Errorf("%w: bad raw size", ErrTruncated)
	}
	if raw > MaxRawSize {
		return h, nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, raw)
	}
	h.RawSize = int(raw)
	rest = rest[n:]

	if len(rest) < len(h.Digest) {
		return h, nil, ErrTruncated
	}
	copy(h.Digest[:], rest)
	return h, rest[len(h.Digest):], nil
}

// Unpack returns the raw stream held by env after checking its digest.
func Unpack(env []byte) ([]byte, Header, error) {
	h, body, err := ReadHeader(env)
	if err != nil {
		return nil, h, err
	}
	data, err := decompress(body, h.Compression, h.RawSize)
	if err != nil {
		return nil, h, err
	}
	if Sum(data) != h.Digest {
		return nil, h, ErrDigestMismatch
	}
	return data, h, nil
}
