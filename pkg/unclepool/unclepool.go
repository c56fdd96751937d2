// Package unclepool is the engine's view of the uncle (ommer) pool: blocks
// that were valid but did not become canonical, kept around so a later
// canonical block can still reference them.
package unclepool

import (
	"sync"

	"github.com/lumichain/lumichain-go/pkg/block"
)

// Pool is the contract the sync engine drives.
type Pool interface {
	Add(headers []*block.Header)
	Remove(headers []*block.Header)
	Contains(hash block.Hash32) bool
	Len() int
}

// SimplePool is an in-memory Pool keyed by header hash.
type SimplePool struct {
	mu      sync.Mutex
	headers map[block.Hash32]*block.Header
}

// New returns an empty SimplePool.
func New() *SimplePool {
	return &SimplePool{headers: make(map[block.Hash32]*block.Header)}
}

// Add offers headers as uncle candidates, e.g. a displaced reorg head or a
// header that lost a reorg race.
func (p *SimplePool) Add(headers []*block.Header) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, h := range headers {
		p.headers[h.Hash()] = h
	}
}

// Remove drops a block's header and its own uncles once that block has been
// persisted on the canonical chain.
func (p *SimplePool) Remove(headers []*block.Header) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, h := range headers {
		delete(p.headers, h.Hash())
	}
}

// Contains reports whether hash is currently held as an uncle candidate.
func (p *SimplePool) Contains(hash block.Hash32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.headers[hash]
	return ok
}

// Len returns the number of tracked uncle candidates.
func (p *SimplePool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.headers)
}

var _ Pool = (*SimplePool)(nil)
