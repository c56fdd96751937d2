package block

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/holiman/uint256"
)

// Header is the portion of a block the sync engine exchanges, validates and
// chains on before bodies are ever fetched. It is immutable once received:
// nothing in pkg/sync mutates a Header after it enters WorkingHeaders.
type Header struct {
	Number     uint64
	ParentHash Hash32
	Difficulty *uint256.Int
	GasUsed    uint64
	GasLimit   uint64
	Timestamp  time.Time
	ExtraData  []byte

	hash     Hash32
	hashSet  bool
}

// Hash returns the header's identifying hash, computing and caching it on
// first use. The hash is derived from the fields that make a header unique;
// it is not a consensus-accurate block hash for any real chain, since the
// wire encoding is out of scope for this engine.
func (h *Header) Hash() Hash32 {
	if h.hashSet {
		return h.hash
	}
	buf := make([]byte, 0, 64+len(h.ExtraData))
	var numBuf [8]byte
	binary.BigEndian.PutUint64(numBuf[:], h.Number)
	buf = append(buf, numBuf[:]...)
	buf = append(buf, h.ParentHash[:]...)
	if h.Difficulty != nil {
		buf = append(buf, h.Difficulty.Bytes()...)
	}
	binary.BigEndian.PutUint64(numBuf[:], h.GasUsed)
	buf = append(buf, numBuf[:]...)
	binary.BigEndian.PutUint64(numBuf[:], h.GasLimit)
	buf = append(buf, numBuf[:]...)
	binary.BigEndian.PutUint64(numBuf[:], uint64(h.Timestamp.UnixNano()))
	buf = append(buf, numBuf[:]...)
	buf = append(buf, h.ExtraData...)

	h.hash = sha256.Sum256(buf)
	h.hashSet = true
	return h.hash
}

// String implements fmt.Stringer for log fields.
func (h *Header) String() string {
	return fmt.Sprintf("Header{number=%d hash=%s parent=%s}", h.Number, h.Hash(), h.ParentHash)
}

// ExtendsPrev reports whether h is the immediate, adjacency-correct
// successor of prev, per the WorkingHeaders invariant in the data model.
func (h *Header) ExtendsPrev(prev *Header) bool {
	if h == nil || prev == nil {
		return false
	}
	return prev.Hash() == h.ParentHash && prev.Number+1 == h.Number
}
