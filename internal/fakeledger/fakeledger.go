// Package fakeledger provides a test double for pkg/ledger.Ledger, in the
// override-function-field style used throughout the wider test suite: every
// interface method has a corresponding function field. ExecuteBlock and
// ValidateBlocksBeforeExecution panic when theirs is unset, so an
// unexercised call path surfaces immediately in a failing test rather than
// silently returning a zero value; SetCurrBlockHeaderForChecking returns
// nothing and is a no-op when unset.
package fakeledger

import (
	"github.com/lumichain/lumichain-go/pkg/block"
	"github.com/lumichain/lumichain-go/pkg/ledger"
)

// FakeLedger is a configurable ledger.Ledger test double.
type FakeLedger struct {
	ExecuteBlockF                    func(b *block.Block) (ledger.ExecutionResult, error)
	ValidateBlocksBeforeExecutionF   func(blocks []*block.Block) ([]*block.Block, error)
	SetCurrBlockHeaderForCheckingF   func(h *block.Header)
}

// NewPassthrough returns a FakeLedger whose validator accepts every block
// unchanged and whose executor always succeeds, for tests of the happy
// path.
func NewPassthrough() *FakeLedger {
	return &FakeLedger{
		ExecuteBlockF: func(b *block.Block) (ledger.ExecutionResult, error) {
			return ledger.ExecutionResult{WorldRoot: b.Hash()}, nil
		},
		ValidateBlocksBeforeExecutionF: func(blocks []*block.Block) ([]*block.Block, error) {
			return blocks, nil
		},
		SetCurrBlockHeaderForCheckingF: func(h *block.Header) {},
	}
}

func (f *FakeLedger) ExecuteBlock(b *block.Block) (ledger.ExecutionResult, error) {
	if f.ExecuteBlockF == nil {
		panic("fakeledger: ExecuteBlockF not implemented")
	}
	return f.ExecuteBlockF(b)
}

func (f *FakeLedger) ValidateBlocksBeforeExecution(blocks []*block.Block) ([]*block.Block, error) {
	if f.ValidateBlocksBeforeExecutionF == nil {
		panic("fakeledger: ValidateBlocksBeforeExecutionF not implemented")
	}
	return f.ValidateBlocksBeforeExecutionF(blocks)
}

func (f *FakeLedger) SetCurrBlockHeaderForChecking(h *block.Header) {
	if f.SetCurrBlockHeaderForCheckingF == nil {
		return
	}
	f.SetCurrBlockHeaderForCheckingF(h)
}

var _ ledger.Ledger = (*FakeLedger)(nil)
