package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumichain/lumichain-go/internal/random"
	"github.com/lumichain/lumichain-go/pkg/storage"
)

func TestLevelDBKVPutGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trie")
	kv, err := storage.OpenLevelDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	key := random.Bytes(16)
	value := random.Bytes(64)
	require.NoError(t, kv.Put(key, value))

	got, err := kv.Get(key)
	require.NoError(t, err)
	require.Equal(t, value, got)
}

func TestLevelDBKVMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trie")
	kv, err := storage.OpenLevelDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	_, err = kv.Get(random.Bytes(16))
	require.ErrorIs(t, err, storage.ErrNotFound)
}
