package broadcast_test

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/lumichain/lumichain-go/pkg/block"
	"github.com/lumichain/lumichain-go/pkg/broadcast"
)

func TestChannelPublisherDeliversBatch(t *testing.T) {
	p := broadcast.NewChannelPublisher(1)
	batch := []block.NewBlock{{
		Block:           &block.Block{Header: &block.Header{Number: 1, Difficulty: uint256.NewInt(1)}, Body: &block.Body{}},
		TotalDifficulty: uint256.NewInt(1),
	}}

	p.BroadcastNewBlocks(batch)

	select {
	case got := <-p.Subscribe():
		require.Len(t, got, 1)
	case <-time.After(time.Second):
		t.Fatal("expected batch to be delivered")
	}
}

func TestChannelPublisherDropsWhenFull(t *testing.T) {
	p := broadcast.NewChannelPublisher(1)
	first := []block.NewBlock{{Block: &block.Block{Header: &block.Header{Number: 1, Difficulty: uint256.NewInt(1)}, Body: &block.Body{}}}}
	second := []block.NewBlock{{Block: &block.Block{Header: &block.Header{Number: 2, Difficulty: uint256.NewInt(1)}, Body: &block.Body{}}}}

	p.BroadcastNewBlocks(first)
	p.BroadcastNewBlocks(second) // buffer full, dropped rather than blocking

	got := <-p.Subscribe()
	require.Equal(t, uint64(1), got[0].Block.Header.Number)

	select {
	case <-p.Subscribe():
		t.Fatal("expected no further batch")
	case <-time.After(50 * time.Millisecond):
	}
}
