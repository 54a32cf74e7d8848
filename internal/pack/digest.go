package pack

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Digest is the BLAKE3 keyed hash of an uncompressed record stream.
type Digest [32]byte

// streamKey separates stream digests from any other use of BLAKE3 over the
// same bytes. Changing it invalidates every stored envelope.
var streamKey = [32]byte{
	'b', 'a', 'm', 'l', '.', 's', 't', 'r', 'e', 'a', 'm', 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Sum returns the digest of a record stream.
func Sum(data []byte) Digest {
	h, err := blake3.NewKeyed(streamKey[:])
	if err != nil {
		panic("pack: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	_, _ = h.Write(data)

	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// String returns the hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest parses a 64 character hex digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	b, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("error parsing digest: %w", err)
	}
	if len(b) != len(d) {
		return d, fmt.Errorf("digest is %d bytes, want %d", len(b), len(d))
	}
	copy(d[:], b)
	return d, nil
}
