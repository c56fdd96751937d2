// Package mempool is the engine's view of the pending-transaction pool.
// Validation, fee ordering and eviction policy are out of scope here; the
// engine only needs to add displaced transactions back and remove included
// ones.
package mempool

import (
	"sync"

	"github.com/lumichain/lumichain-go/pkg/block"
)

// Pool is the contract the sync engine drives.
type Pool interface {
	Add(txs []block.Tx)
	Remove(txs []block.Tx)
	Exists(hash block.Hash32) bool
	Len() int
}

// SimplePool is an in-memory Pool keyed by transaction hash.
type SimplePool struct {
	mu  sync.Mutex
	txs map[block.Hash32]block.Tx
}

// New returns an empty SimplePool.
func New() *SimplePool {
	return &SimplePool{txs: make(map[block.Hash32]block.Tx)}
}

// Add reinjects txs, e.g. those displaced by a reorg.
func (p *SimplePool) Add(txs []block.Tx) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, tx := range txs {
		p.txs[tx.Hash] = tx
	}
}

// Remove drops txs that were just included in a persisted block.
func (p *SimplePool) Remove(txs []block.Tx) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, tx := range txs {
		delete(p.txs, tx.Hash)
	}
}

// Exists reports whether a transaction is currently pending.
func (p *SimplePool) Exists(hash block.Hash32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.txs[hash]
	return ok
}

// Len returns the number of pending transactions.
func (p *SimplePool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.txs)
}

var _ Pool = (*SimplePool)(nil)
