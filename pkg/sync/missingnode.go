package sync

import (
	"go.uber.org/zap"

	"github.com/lumichain/lumichain-go/pkg/peerset"
	"github.com/lumichain/lumichain-go/pkg/syncerr"
)

// handleMissingStateNode implements the MissingStateNode recovery path: it
// fetches the missing node, and the resume that follows clears
// WorkingHeaders and re-requests headers from the local tip, so the same
// block is retried on the next cycle.
func (e *Engine) handleMissingStateNode(peer peerset.ID, missing *syncerr.MissingStateNode) {
	e.requestNodeData(missing.Hash, peer)
}

// onNodeDataRecovered handles the Request Driver's response to a
// requestNodeData call issued for MissingStateNode recovery.
func (e *Engine) onNodeDataRecovered(ev nodeDataRecovered) {
	if !ev.ok {
		e.cfg.Peers.MarkNodeError(ev.peer)
		e.log.Warn("state node fetch failed, marking peer node-error", zap.String("peer", string(ev.peer)))
		e.resumeRegularSync()
		return
	}

	if err := e.cfg.Storage.Put(ev.hash[:], ev.data); err != nil {
		e.log.Error("failed to persist recovered state node", zap.Error(err))
		e.cfg.Peers.MarkNodeError(ev.peer)
		e.resumeRegularSync()
		return
	}

	// The same block will be retried on the next cycle: resumeRegularSync
	// clears WorkingHeaders and re-requests headers from the local tip,
	// which still sits one block behind the block that failed.
	e.resumeRegularSync()
}

// fatal logs an Invariant-violation error and terminates the engine: it
// indicates storage corruption, not a recoverable condition.
func (e *Engine) fatal(err syncerr.Error) {
	e.log.Fatal("fatal sync invariant violation", zap.String("class", err.Class().String()), zap.Error(err))
}
