package storage

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/lumichain/lumichain-go/pkg/block"
	"github.com/lumichain/lumichain-go/pkg/ledger"
)

// MemStore is an in-memory Store used by sync engine tests so they do not
// need a real bbolt file on disk.
type MemStore struct {
	mu          sync.RWMutex
	best        uint64
	blocksByNum map[uint64]*block.Block
	tdByHash    map[block.Hash32]*uint256.Int
	trie        map[string][]byte
	fastSync    bool
}

// NewMemStore returns an empty MemStore with fast sync marked done, mirroring
// the engine's standing precondition that a valid chain prefix exists.
func NewMemStore() *MemStore {
	return &MemStore{
		blocksByNum: make(map[uint64]*block.Block),
		tdByHash:    make(map[block.Hash32]*uint256.Int),
		trie:        make(map[string][]byte),
		fastSync:    true,
	}
}

// SeedGenesis installs b as block 0 (or any chosen base) with the given
// total difficulty, establishing the local chain prefix a test starts from.
func (m *MemStore) SeedGenesis(b *block.Block, td *uint256.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocksByNum[b.Header.Number] = b
	m.tdByHash[b.Hash()] = td
	if b.Header.Number > m.best {
		m.best = b.Header.Number
	}
}

func (m *MemStore) BestBlockNumber() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.best
}

func (m *MemStore) GetTotalDifficultyByHash(h block.Hash32) (*uint256.Int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	td, ok := m.tdByHash[h]
	return td, ok
}

func (m *MemStore) GetBlockHeaderByNumber(n uint64) (*block.Header, bool) {
	b, ok := m.GetBlockByNumber(n)
	if !ok {
		return nil, false
	}
	return b.Header, true
}

func (m *MemStore) GetBlockByNumber(n uint64) (*block.Block, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blocksByNum[n]
	return b, ok
}

func (m *MemStore) SaveNewBlock(b *block.Block, receipts []ledger.Receipt, td *uint256.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocksByNum[b.Header.Number] = b
	m.tdByHash[b.Hash()] = td
	if b.Header.Number > m.best {
		m.best = b.Header.Number
	}
	return nil
}

func (m *MemStore) SwitchToWithUnconfirmed() error { return nil }

func (m *MemStore) ClearUnconfirmed() error { return nil }

func (m *MemStore) Put(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trie[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *MemStore) Get(key []byte) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.trie[string(key)]
	return v, ok
}

func (m *MemStore) FastSyncDone() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fastSync
}

func (m *MemStore) Close() error { return nil }

var _ Store = (*MemStore)(nil)
