package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lumichain/lumichain-go/pkg/block"
	"github.com/lumichain/lumichain-go/pkg/peerset"
	"github.com/lumichain/lumichain-go/pkg/transport"
)

// requestHeadersForward issues a forward header request starting from the
// local best block, used by the scheduler's resume tick.
func (e *Engine) requestHeadersForward(peer peerset.ID) {
	start := e.cfg.Storage.BestBlockNumber()
	q := transport.HeadersQuery{
		RequestID:   uuid.New(),
		StartNumber: &start,
		Count:       e.cfg.Tunables.BlockHeadersPerRequest,
		Reverse:     false,
	}
	e.dispatchHeadersRequest(peer, q)
}

// requestHeadersBackward issues the fork resolver's backward walk from a
// contested parent hash, count bounded by blockResolveDepth.
func (e *Engine) requestHeadersBackward(peer peerset.ID, from block.Hash32) {
	q := transport.HeadersQuery{
		RequestID: uuid.New(),
		StartHash: &from,
		Count:     int(e.cfg.Tunables.BlockResolveDepth),
		Reverse:   true,
	}
	e.dispatchHeadersRequest(peer, q)
}

func (e *Engine) dispatchHeadersRequest(peer peerset.ID, q transport.HeadersQuery) {
	e.setState(StateAwaitingHeaders)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Tunables.SyncRequestTimeout)
		defer cancel()

		resp, err := e.cfg.Transport.RequestHeaders(ctx, peer, q)
		switch {
		case err != nil:
			e.log.Warn("header request failed", zap.String("peer", string(peer)), zap.Error(err))
			e.blacklistPeer(peer, "header request timeout/transport error", false)
			e.resumeRegularSync()
		case resp == nil:
			// "None": no useful data, peer did not misbehave. The resume
			// timer is engine-owned state, so arm it on the run goroutine
			// rather than from here.
			e.Submit(scheduleResumeTick{})
		case !resp.OK:
			e.blacklistPeer(peer, "header request protocol error", false)
			e.resumeRegularSync()
		default:
			e.cfg.Transport.ResetBlacklistCount(peer)
			e.ProcessBlockHeaders(peer, resp.Headers)
		}
	}()
}

// requestBodiesFor issues a body request for the first n working headers,
// timeout amortized per requested hash as specified.
func (e *Engine) requestBodiesFor(headers []*block.Header) {
	hashes := make([]block.Hash32, len(headers))
	for i, h := range headers {
		hashes[i] = h.Hash()
	}
	e.setState(StateAwaitingBodies)

	peer, ok := e.selector.Select()
	if !ok {
		e.scheduleResume()
		return
	}

	timeout := e.cfg.Tunables.SyncRequestTimeout + time.Duration(len(hashes))*100*time.Millisecond
	go func(peer peerset.ID) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		resp, err := e.cfg.Transport.RequestBodies(ctx, peer, hashes)
		switch {
		case err != nil:
			e.log.Warn("body request failed", zap.String("peer", string(peer)), zap.Error(err))
			e.blacklistPeer(peer, "body request timeout/transport error", false)
			e.resumeRegularSync()
		case resp == nil:
			e.Submit(scheduleResumeTick{})
		case !resp.OK:
			e.blacklistPeer(peer, "body request protocol error", false)
			e.resumeRegularSync()
		default:
			e.cfg.Transport.ResetBlacklistCount(peer)
			e.ProcessBlockBodies(peer, resp.Bodies)
		}
	}(peer.ID)
}

// requestNodeData fetches a missing state-trie node from a node-healthy
// peer, falling back to the peer that was executing when the block failed.
func (e *Engine) requestNodeData(hash block.Hash32, fallback peerset.ID) {
	peer, ok := e.selector.SelectNodeOK()
	target := fallback
	if ok {
		target = peer.ID
	}

	go func(target peerset.ID) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		resp, err := e.cfg.Transport.RequestNodeData(ctx, target, hash)
		ev := nodeDataRecovered{peer: target, hash: hash}
		if err != nil || resp == nil || !resp.OK {
			ev.ok = false
		} else {
			ev.ok = true
			ev.data = resp.Data
		}
		e.Submit(ev)
	}(target)
}
