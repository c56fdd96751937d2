package sync

import (
	"time"

	"go.uber.org/zap"

	"github.com/lumichain/lumichain-go/pkg/block"
)

// resumeRegularSync is the scheduler's immediate self-tick: clear
// WorkingHeaders and issue a fresh header request right away.
func (e *Engine) resumeRegularSync() {
	e.Submit(resumeTick{})
}

// scheduleResume arms a single-shot timer that fires after
// CheckForNewBlockInterval. A newer call cancels any timer already armed,
// matching the dedup-by-key discipline of ResumeRegularSyncTask: only the
// most recently scheduled resume survives.
func (e *Engine) scheduleResume() {
	if !e.resumeTimer.Stop() {
		select {
		case <-e.resumeTimer.C:
		default:
		}
	}
	e.resumeTimer.Reset(e.cfg.Tunables.CheckForNewBlockInterval)
	e.resumeArmedAt = time.Now()
}

// onResumeTick implements "on every resume tick, WorkingHeaders is cleared
// and a fresh header request is issued."
func (e *Engine) onResumeTick() {
	e.setWorkingHeaders(nil)
	e.setState(StateAwaitingHeaders)

	peer, ok := e.selector.Select()
	if !ok {
		e.log.Debug("no usable peer, scheduling delayed resume")
		e.setState(StateIdle)
		e.scheduleResume()
		return
	}

	e.requestHeadersForward(peer.ID)
}

// onMinedBlock is the processMinedBlock stub named in the design notes: the
// event is part of the vocabulary, but the source leaves its body
// unimplemented, and this spec preserves that rather than guessing intent.
// It only guards the stated idempotence property (resubmitting an
// already-persisted block is a no-op).
func (e *Engine) onMinedBlock(b *block.Block) {
	if b.Header.Number <= e.cfg.Storage.BestBlockNumber() {
		e.log.Debug("ignoring already-persisted mined block", zap.Uint64("number", b.Header.Number))
		return
	}
	e.log.Warn("processMinedBlock is not implemented", zap.Uint64("number", b.Header.Number))
}
