package block

import (
	"encoding/hex"
	"errors"
)

// HashSize is the length in bytes of a Hash32.
const HashSize = 32

// Hash32 is a fixed-size block or transaction hash.
type Hash32 [HashSize]byte

// ZeroHash is the Hash32 with all bytes set to zero, used as the parent
// hash of a genesis header.
var ZeroHash = Hash32{}

// String renders the hash as a 0x-prefixed hex string.
func (h Hash32) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Bytes returns a copy of the underlying bytes.
func (h Hash32) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// IsZero reports whether h is the zero hash.
func (h Hash32) IsZero() bool {
	return h == ZeroHash
}

// HashFromBytes builds a Hash32 from a byte slice of exactly HashSize bytes.
func HashFromBytes(b []byte) (Hash32, error) {
	var h Hash32
	if len(b) != HashSize {
		return h, errors.New("block: invalid hash length")
	}
	copy(h[:], b)
	return h, nil
}
