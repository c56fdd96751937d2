package ledger_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/lumichain/lumichain-go/pkg/block"
	"github.com/lumichain/lumichain-go/pkg/ledger"
)

func TestTotalDifficultyAdds(t *testing.T) {
	got := ledger.TotalDifficulty(uint256.NewInt(100), uint256.NewInt(5))
	require.Equal(t, 0, uint256.NewInt(105).Cmp(got))
}

func TestNoOpExecuteBlockSucceeds(t *testing.T) {
	var l ledger.Ledger = ledger.NoOp{}
	b := &block.Block{Header: &block.Header{Number: 1, Difficulty: uint256.NewInt(1)}, Body: &block.Body{}}

	res, err := l.ExecuteBlock(b)
	require.NoError(t, err)
	require.Equal(t, b.Hash(), res.WorldRoot)

	valid, err := l.ValidateBlocksBeforeExecution([]*block.Block{b})
	require.NoError(t, err)
	require.Equal(t, []*block.Block{b}, valid)

	l.SetCurrBlockHeaderForChecking(b.Header)
}
