package sync

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/lumichain/lumichain-go/pkg/block"
	"github.com/lumichain/lumichain-go/pkg/ledger"
	"github.com/lumichain/lumichain-go/pkg/mempool"
	"github.com/lumichain/lumichain-go/pkg/peerset"
	"github.com/lumichain/lumichain-go/pkg/storage"
	"github.com/lumichain/lumichain-go/pkg/syncerr"
	"github.com/lumichain/lumichain-go/pkg/unclepool"
)

// onProcessBlockBodies implements the Body Processor.
func (e *Engine) onProcessBlockBodies(peer peerset.ID, bodies []*block.Body) {
	if len(bodies) == 0 || len(e.workingHeaders) == 0 {
		e.blacklistPeer(peer, "empty bodies or no working headers", false)
		e.resumeRegularSync()
		return
	}

	e.setState(StateExecuting)

	n := len(bodies)
	if n > len(e.workingHeaders) {
		n = len(e.workingHeaders)
	}
	paired := make([]*block.Block, n)
	for i := 0; i < n; i++ {
		paired[i] = &block.Block{Header: e.workingHeaders[i], Body: bodies[i]}
	}

	validBlocks, verr := e.cfg.Ledger.ValidateBlocksBeforeExecution(paired)
	if len(validBlocks) == 0 {
		reason := "block validation produced no valid blocks"
		if verr != nil {
			reason = verr.Error()
		}
		e.blacklistPeer(peer, reason, false)
		e.resumeRegularSync()
		return
	}

	parentTd, ok := e.cfg.Storage.GetTotalDifficultyByHash(validBlocks[0].Header.ParentHash)
	if !ok {
		e.fatal(syncerr.New(syncerr.ClassInvariant, "missing parent total difficulty for just-validated block", nil))
		return
	}

	e.runExecutorPipeline(peer, validBlocks, parentTd)
}

// runExecutorPipeline is the Executor Pipeline: a sequential fold over
// blocks that persists every success and stops at the first error,
// returning a tagged early-stop result rather than using exceptions.
func (e *Engine) runExecutorPipeline(peer peerset.ID, blocks []*block.Block, parentTd *uint256.Int) {
	result := executeSequentially(e.cfg.Ledger, e.cfg.Storage, e.cfg.Mempool, e.cfg.Uncles, blocks, parentTd)

	if len(result.successes) > 0 {
		e.cfg.Publisher.BroadcastNewBlocks(result.successes)
		lastHeader := result.successes[len(result.successes)-1].Block.Header
		e.cfg.Ledger.SetCurrBlockHeaderForChecking(lastHeader)
		if e.cfg.Metrics != nil {
			e.cfg.Metrics.BlocksImported.Add(float64(len(result.successes)))
		}
		e.setWorkingHeaders(e.workingHeaders[len(result.successes):])
	}

	if result.err == nil {
		if len(e.workingHeaders) > 0 {
			n := min(len(e.workingHeaders), e.cfg.Tunables.BlockBodiesPerRequest)
			e.requestBodiesFor(e.workingHeaders[:n])
		} else {
			e.scheduleResume()
		}
		return
	}

	var missing *syncerr.MissingStateNode
	if errors.As(result.err, &missing) {
		e.handleMissingStateNode(peer, missing)
		return
	}

	e.blacklistPeer(peer, result.err.Error(), false)
	e.resumeRegularSync()
}

// executionFoldResult is the tagged early-stop result of the executor
// pipeline fold: successes accumulated so far, the last good total
// difficulty, and at most one error that halted the fold.
type executionFoldResult struct {
	successes  []block.NewBlock
	lastGoodTd *uint256.Int
	err        error
}

// executeSequentially implements §4.5's fold: block i+1's execution
// requires block i's persisted state and running total difficulty, so no
// parallelism across blocks in a batch is possible. On the first error the
// fold stops; blocks after the failing one are never attempted.
func executeSequentially(
	l ledger.Ledger,
	store storage.Store,
	pool mempool.Pool,
	uncles unclepool.Pool,
	blocks []*block.Block,
	parentTd *uint256.Int,
) executionFoldResult {
	td := parentTd
	successes := make([]block.NewBlock, 0, len(blocks))

	for _, b := range blocks {
		res, err := l.ExecuteBlock(b)
		if err != nil {
			return executionFoldResult{successes: successes, lastGoodTd: td, err: err}
		}

		nextTd := ledger.TotalDifficulty(td, b.Header.Difficulty)

		if err := store.SaveNewBlock(b, res.Receipts, nextTd); err != nil {
			return executionFoldResult{successes: successes, lastGoodTd: td, err: err}
		}
		td = nextTd

		pool.Remove(b.Body.Transactions)
		uncles.Remove(append([]*block.Header{b.Header}, b.Body.Uncles...))

		successes = append(successes, block.NewBlock{Block: b, TotalDifficulty: td})
	}

	return executionFoldResult{successes: successes, lastGoodTd: td, err: nil}
}
