// Package broadcast is the engine's view of the cluster-wide publish/
// subscribe mediator. The transport is out of scope; the engine only needs
// to publish accepted blocks on a well-known topic.
package broadcast

import "github.com/lumichain/lumichain-go/pkg/block"

// NewBlockTopic is the topic accepted blocks are published on.
const NewBlockTopic = "NewBlockTopic"

// Publisher is the contract the sync engine drives after a successful
// batch execution.
type Publisher interface {
	BroadcastNewBlocks(blocks []block.NewBlock)
}

// ChannelPublisher is a Publisher backed by a buffered channel, suitable for
// in-process subscribers (a gossip layer, a metrics tap, or a test).
type ChannelPublisher struct {
	ch chan []block.NewBlock
}

// NewChannelPublisher returns a ChannelPublisher with the given channel
// buffer depth.
func NewChannelPublisher(buffer int) *ChannelPublisher {
	return &ChannelPublisher{ch: make(chan []block.NewBlock, buffer)}
}

// BroadcastNewBlocks publishes blocks, dropping the batch if the channel is
// full rather than blocking the engine's single inbox.
func (c *ChannelPublisher) BroadcastNewBlocks(blocks []block.NewBlock) {
	select {
	case c.ch <- blocks:
	default:
	}
}

// Subscribe returns the read side of the publisher's channel.
func (c *ChannelPublisher) Subscribe() <-chan []block.NewBlock {
	return c.ch
}

var _ Publisher = (*ChannelPublisher)(nil)
