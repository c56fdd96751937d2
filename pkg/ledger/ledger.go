// Package ledger declares the engine's view of the EVM/state-transition
// layer. The actual execution semantics are out of scope for the sync
// engine; this package only fixes the contract the engine drives.
package ledger

import (
	"github.com/holiman/uint256"

	"github.com/lumichain/lumichain-go/pkg/block"
)

// Stats carries execution telemetry surfaced by the ledger for metrics and
// logging, not used for control flow.
type Stats struct {
	DBReadTimePerc  float64
	ParallelRate    float64
	CacheHitRate    float64
	CacheReadCount  uint64
}

// Receipt is an opaque per-transaction execution result the engine persists
// alongside a block but never inspects.
type Receipt struct {
	TxHash  block.Hash32
	Success bool
	GasUsed uint64
}

// ExecutionResult is what a successful executeBlock call produces.
type ExecutionResult struct {
	WorldRoot block.Hash32
	GasUsed   uint64
	Receipts  []Receipt
	Stats     Stats
}

// Ledger is the engine's sole entry point into block execution and
// pre-execution validation. Implementations own all consensus and EVM
// semantics; the engine treats this as an opaque, possibly expensive,
// synchronous call per block.
type Ledger interface {
	// ExecuteBlock applies b against current world state and returns the
	// resulting state root, gas usage and receipts, or an error describing
	// why execution failed (which may be a *syncerr.MissingStateNode).
	ExecuteBlock(b *block.Block) (ExecutionResult, error)

	// ValidateBlocksBeforeExecution runs structural/consensus checks over
	// blocks before any of them is executed. It may return a non-empty
	// valid prefix even when err is non-nil: that prefix is what the
	// engine will attempt to execute.
	ValidateBlocksBeforeExecution(blocks []*block.Block) (validPrefix []*block.Block, err error)

	// SetCurrBlockHeaderForChecking refreshes the validator's reference
	// header after a batch has been executed, so the next validation call
	// checks newly-fetched headers against the true current tip.
	SetCurrBlockHeaderForChecking(h *block.Header)
}

// TotalDifficulty is a small helper so callers outside this package do not
// need to import uint256 just to add a header's difficulty to a running
// total; it mirrors the reference codebase's convention of keeping u256
// arithmetic centralized.
func TotalDifficulty(parent *uint256.Int, childDifficulty *uint256.Int) *uint256.Int {
	return new(uint256.Int).Add(parent, childDifficulty)
}
