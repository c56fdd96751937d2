package sync

import (
	"github.com/lumichain/lumichain-go/pkg/block"
	"github.com/lumichain/lumichain-go/pkg/peerset"
)

// event is the tagged union of everything that can land on the engine's
// single inbox. Every asynchronous completion (a request driver response,
// a timer fire, a transport notification) is threaded back in as one of
// these rather than invoked as a direct callback, so the engine remains
// the sole mutator of its own state.
type event interface {
	isEvent()
}

// resumeTick is ResumeRegularSyncTick: the scheduler's self-tick, either
// immediate (resumeRegularSync) or delayed (scheduleResume firing).
type resumeTick struct{}

func (resumeTick) isEvent() {}

// scheduleResumeTick asks the run goroutine to arm the delayed-resume timer.
// Request Driver goroutines that observe a "None" response post this instead
// of arming the timer themselves, since resumeTimer and resumeArmedAt are
// engine-owned state and may only be touched from the run goroutine.
type scheduleResumeTick struct{}

func (scheduleResumeTick) isEvent() {}

// processBlockHeaders is ProcessBlockHeaders(peer, headers).
type processBlockHeaders struct {
	peer    peerset.ID
	headers []*block.Header
}

func (processBlockHeaders) isEvent() {}

// processBlockBodies is ProcessBlockBodies(peer, bodies).
type processBlockBodies struct {
	peer   peerset.ID
	bodies []*block.Body
}

func (processBlockBodies) isEvent() {}

// minedBlock is MinedBlock(Block): a locally mined block offered to the
// engine. processMinedBlock is a stub per the open design question; it is
// included in the event vocabulary so the dispatch surface is complete.
type minedBlock struct {
	block *block.Block
}

func (minedBlock) isEvent() {}

// receivedMessage is the generic ReceivedMessage(peerId, msg) event, logged
// only.
type receivedMessage struct {
	peer peerset.ID
	msg  string
}

func (receivedMessage) isEvent() {}

// nodeDataRecovered carries the result of a MissingStateNode recovery
// fetch back onto the inbox.
type nodeDataRecovered struct {
	peer peerset.ID
	hash block.Hash32
	data []byte
	ok   bool
}

func (nodeDataRecovered) isEvent() {}
