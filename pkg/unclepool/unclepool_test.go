package unclepool_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/lumichain/lumichain-go/internal/random"
	"github.com/lumichain/lumichain-go/pkg/block"
	"github.com/lumichain/lumichain-go/pkg/unclepool"
)

func TestSimplePoolAddRemoveContains(t *testing.T) {
	p := unclepool.New()
	h := &block.Header{Number: 7, ParentHash: random.Hash32(), Difficulty: uint256.NewInt(1)}

	require.False(t, p.Contains(h.Hash()))
	require.Equal(t, 0, p.Len())

	p.Add([]*block.Header{h})
	require.True(t, p.Contains(h.Hash()))
	require.Equal(t, 1, p.Len())

	p.Remove([]*block.Header{h})
	require.False(t, p.Contains(h.Hash()))
	require.Equal(t, 0, p.Len())
}
