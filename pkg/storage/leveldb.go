package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDBKV is an alternative KV backend for the state-trie node cache,
// demonstrating that storage's node namespace is driver-agnostic: a
// deployment can point trie-node storage at goleveldb instead of bbolt
// without touching pkg/sync.
type LevelDBKV struct {
	db *leveldb.DB
}

// OpenLevelDB opens (creating if necessary) a goleveldb database at path.
func OpenLevelDB(path string) (*LevelDBKV, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDBKV{db: db}, nil
}

// Get implements KV.
func (l *LevelDBKV) Get(key []byte) ([]byte, error) {
	v, err := l.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	return v, err
}

// Put implements KV.
func (l *LevelDBKV) Put(key, value []byte) error {
	return l.db.Put(key, value, nil)
}

// Close implements KV.
func (l *LevelDBKV) Close() error {
	return l.db.Close()
}
