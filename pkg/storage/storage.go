// Package storage is the engine's persistence facade: best-block tracking,
// the canonical block-by-number and total-difficulty-by-hash indexes, the
// unconfirmed staging area used during a reorg, and a key/value namespace
// for state-trie nodes recovered via MissingStateNode handling.
//
// Unlike the distilled sync-engine contract, which treats storage as a
// purely external collaborator, this package actually implements it, the
// way a complete node build would: an embedded KV engine underneath, one
// atomic write transaction per saveNewBlock call.
package storage

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/lumichain/lumichain-go/pkg/block"
	"github.com/lumichain/lumichain-go/pkg/ledger"
)

// ErrNotFound is returned by lookups that find nothing.
var ErrNotFound = errors.New("storage: not found")

// KV is the minimal byte-oriented interface storage needs from an embedded
// database. The goleveldb backend implements it; BoltStore does not, and
// keeps state-trie nodes in its own bucket through Store.Put/Get.
type KV interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Close() error
}

// Store is the engine's persistence contract.
type Store interface {
	BestBlockNumber() uint64
	GetTotalDifficultyByHash(h block.Hash32) (*uint256.Int, bool)
	GetBlockHeaderByNumber(n uint64) (*block.Header, bool)
	GetBlockByNumber(n uint64) (*block.Block, bool)

	// SaveNewBlock atomically persists the block and the resulting total
	// difficulty, and advances the best block number. The implementations
	// in this package accept receipts but do not store them.
	SaveNewBlock(b *block.Block, receipts []ledger.Receipt, td *uint256.Int) error

	// SwitchToWithUnconfirmed begins staging a speculative branch outside
	// the canonical index, entered when isUnderReorg is set.
	SwitchToWithUnconfirmed() error
	// ClearUnconfirmed discards the staging area, called when a reorg is
	// committed; a rejected or abandoned reorg does not call it.
	ClearUnconfirmed() error

	// Put writes a state-trie node (or any opaque blob) into the KV
	// namespace, used by MissingStateNode recovery.
	Put(key, value []byte) error
	Get(key []byte) ([]byte, bool)

	FastSyncDone() bool

	Close() error
}
