package sync

import (
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/lumichain/lumichain-go/pkg/block"
	"github.com/lumichain/lumichain-go/pkg/peerset"
)

// onProcessBlockHeaders implements the Header Processor's central
// transition table for ProcessBlockHeaders(peer, headers).
func (e *Engine) onProcessBlockHeaders(peer peerset.ID, headers []*block.Header) {
	switch {
	case len(e.workingHeaders) == 0 && len(headers) == 0:
		// Case 1: already at tip.
		e.scheduleResume()

	case len(e.workingHeaders) == 0 && len(headers) > 0:
		// Case 2: adopt as the new working chain.
		e.setWorkingHeaders(headers)
		e.doProcess(peer, headers)

	case len(e.workingHeaders) > 0 &&
		len(headers) > 0 &&
		headers[len(headers)-1].Hash() == e.workingHeaders[0].ParentHash:
		// Case 3: fork-resolve rejoin, prepend.
		merged := make([]*block.Header, 0, len(headers)+len(e.workingHeaders))
		merged = append(merged, headers...)
		merged = append(merged, e.workingHeaders...)
		e.setWorkingHeaders(merged)
		e.doProcess(peer, headers)

	default:
		// Case 4: peer did not serve the predecessor we asked for.
		e.blacklistPeer(peer, "did not serve requested predecessor", false)
		e.resumeRegularSync()
	}
}

// doProcess validates adjacency, locates the common-prefix parent, and
// either extends the local chain, commits/rejects a reorg, or deepens the
// fork resolver's backward walk.
func (e *Engine) doProcess(peer peerset.ID, headers []*block.Header) {
	if !e.checkHeaders(headers) {
		e.blacklistPeer(peer, "non-adjacent header batch", false)
		e.resumeRegularSync()
		return
	}

	first := headers[0]
	if first.Number == 0 {
		e.blacklistPeer(peer, "no parent for genesis-adjacent header", false)
		e.resumeRegularSync()
		return
	}
	localParent, found := e.cfg.Storage.GetBlockHeaderByNumber(first.Number - 1)
	if !found {
		e.blacklistPeer(peer, "no parent", false)
		e.resumeRegularSync()
		return
	}

	if localParent.Hash() == first.ParentHash {
		e.handleCommonPrefix(peer, headers)
		return
	}

	e.handleDivergence(peer, first)
}

// checkHeaders enforces the WorkingHeaders adjacency invariant: for all
// adjacent (h_i, h_{i+1}), h_i.hash == h_{i+1}.parentHash and
// h_i.number+1 == h_{i+1}.number.
func (e *Engine) checkHeaders(headers []*block.Header) bool {
	for i := 1; i < len(headers); i++ {
		if !headers[i].ExtendsPrev(headers[i-1]) {
			return false
		}
	}
	return true
}

// getPrevBlocks walks headers in order, looking up the local block at each
// number, and returns the prefix that exists locally, stopping at the
// first absent entry. This is exactly the branch a successful reorg would
// displace.
func (e *Engine) getPrevBlocks(headers []*block.Header) []*block.Block {
	prev := make([]*block.Block, 0, len(headers))
	for _, h := range headers {
		b, ok := e.cfg.Storage.GetBlockByNumber(h.Number)
		if !ok {
			break
		}
		prev = append(prev, b)
	}
	return prev
}

func sumDifficulty(headers []*block.Header) *uint256.Int {
	total := new(uint256.Int)
	for _, h := range headers {
		total.Add(total, h.Difficulty)
	}
	return total
}

func sumBlockDifficulty(blocks []*block.Block) *uint256.Int {
	total := new(uint256.Int)
	for _, b := range blocks {
		total.Add(total, b.Header.Difficulty)
	}
	return total
}

// handleCommonPrefix is reached when the local chain already holds a
// header at first.Number-1 whose hash matches the new batch's declared
// parent: this is a common-prefix comparison, either extending the local
// tip or contesting it via total difficulty.
func (e *Engine) handleCommonPrefix(peer peerset.ID, headers []*block.Header) {
	first := headers[0]
	oldBranch := e.getPrevBlocks(headers)
	oldTd := sumBlockDifficulty(oldBranch)
	newTd := sumDifficulty(headers)

	if len(oldBranch) == 0 {
		// No local blocks occupy this range yet: a plain chain extension,
		// not a contested reorg. Proceed straight to body fetch.
		e.requestBodiesFor(e.workingHeaders[:min(len(e.workingHeaders), e.cfg.Tunables.BlockBodiesPerRequest)])
		return
	}

	if newTd.Cmp(oldTd) > 0 {
		e.commitReorg(oldBranch, headers)
		return
	}

	e.rejectReorg(first)
}

// commitReorg implements the Reorg Coordinator's commit path: strictly
// newTd > oldTd is the only trigger, per the preserved open question.
func (e *Engine) commitReorg(oldBranch []*block.Block, headers []*block.Header) {
	if e.isUnderReorg.Load() {
		if err := e.cfg.Storage.ClearUnconfirmed(); err != nil {
			e.log.Error("failed to clear unconfirmed staging area", zap.Error(err))
		}
	}
	e.setUnderReorg(false)

	var displacedTxs []block.Tx
	for _, b := range oldBranch {
		displacedTxs = append(displacedTxs, b.Body.Transactions...)
	}
	if len(displacedTxs) > 0 {
		e.cfg.Mempool.Add(displacedTxs)
	}

	if e.cfg.Metrics != nil {
		e.cfg.Metrics.ReorgsCommitted.Inc()
	}

	// Displaced head is offered as an uncle, not discarded.
	e.cfg.Uncles.Add([]*block.Header{oldBranch[0].Header})

	n := min(len(e.workingHeaders), e.cfg.Tunables.BlockBodiesPerRequest)
	e.requestBodiesFor(e.workingHeaders[:n])
}

// rejectReorg implements the reject path: even newTd == oldTd is rejected.
func (e *Engine) rejectReorg(contested *block.Header) {
	e.cfg.Uncles.Add([]*block.Header{contested})
	e.setUnderReorg(false)
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.ReorgsRejected.Inc()
	}
	e.scheduleResume()
}

// handleDivergence is reached when the local header at first.Number-1 has
// a different hash than the batch declares as its parent: a genuine fork.
func (e *Engine) handleDivergence(peer peerset.ID, first *block.Header) {
	if e.isUnderReorg.Load() {
		// Already walked back blockResolveDepth and still no join.
		e.blacklistPeer(peer, "fork does not rejoin within resolve depth", true)
		e.setUnderReorg(false)
		e.resumeRegularSync()
		return
	}
	e.setUnderReorg(true)
	e.setState(StateForkResolving)
	if err := e.cfg.Storage.SwitchToWithUnconfirmed(); err != nil {
		e.log.Error("failed to enter unconfirmed staging area", zap.Error(err))
	}
	e.requestHeadersBackward(peer, first.ParentHash)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
