package ledger

import "github.com/lumichain/lumichain-go/pkg/block"

// NoOp is a Ledger that accepts every block without running any state
// transition, computing a placeholder world root from the block's own
// hash. It is what cmd/syncd wires in until a concrete EVM/state-transition
// implementation lands; that layer sits outside this module's scope, but
// the engine still needs something satisfying the interface to run
// standalone.
type NoOp struct{}

func (NoOp) ExecuteBlock(b *block.Block) (ExecutionResult, error) {
	return ExecutionResult{WorldRoot: b.Hash()}, nil
}

func (NoOp) ValidateBlocksBeforeExecution(blocks []*block.Block) ([]*block.Block, error) {
	return blocks, nil
}

func (NoOp) SetCurrBlockHeaderForChecking(h *block.Header) {}

var _ Ledger = NoOp{}
