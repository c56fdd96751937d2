package block

import "github.com/holiman/uint256"

// Tx is a minimal transaction representation. The wire encoding and
// signature/validation rules for a transaction are delegated to the ledger
// and the protocol layer; the sync engine only needs enough to move
// transactions between the pending pool and persisted blocks.
type Tx struct {
	Hash Hash32
	Raw  []byte
}

// Body carries the transactions and uncle headers that accompany a Header.
type Body struct {
	Transactions []Tx
	Uncles       []*Header
}

// Block pairs a Header with its Body.
type Block struct {
	Header *Header
	Body   *Body
}

// Number is a convenience accessor over Header.Number.
func (b *Block) Number() uint64 {
	return b.Header.Number
}

// Hash is a convenience accessor over Header.Hash.
func (b *Block) Hash() Hash32 {
	return b.Header.Hash()
}

// NewBlock is the externally broadcast form of an accepted block: the block
// itself plus the total difficulty of the chain that now includes it.
type NewBlock struct {
	Block           *Block
	TotalDifficulty *uint256.Int
}
