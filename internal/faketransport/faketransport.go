// Package faketransport provides a test double for pkg/transport.Transport.
package faketransport

import (
	"context"
	"sync"

	"github.com/lumichain/lumichain-go/pkg/block"
	"github.com/lumichain/lumichain-go/pkg/peerset"
	"github.com/lumichain/lumichain-go/pkg/transport"
)

// FakeTransport is a configurable transport.Transport test double.
type FakeTransport struct {
	RequestHeadersF  func(ctx context.Context, peer peerset.ID, q transport.HeadersQuery) (*transport.HeadersResponse, error)
	RequestBodiesF   func(ctx context.Context, peer peerset.ID, hashes []block.Hash32) (*transport.BodiesResponse, error)
	RequestNodeDataF func(ctx context.Context, peer peerset.ID, hash block.Hash32) (*transport.NodeDataResponse, error)

	mu          sync.Mutex
	Blacklisted []peerset.ID
	ResetCount  []peerset.ID
}

func New() *FakeTransport {
	return &FakeTransport{}
}

func (f *FakeTransport) RequestHeaders(ctx context.Context, peer peerset.ID, q transport.HeadersQuery) (*transport.HeadersResponse, error) {
	if f.RequestHeadersF == nil {
		panic("faketransport: RequestHeadersF not implemented")
	}
	return f.RequestHeadersF(ctx, peer, q)
}

func (f *FakeTransport) RequestBodies(ctx context.Context, peer peerset.ID, hashes []block.Hash32) (*transport.BodiesResponse, error) {
	if f.RequestBodiesF == nil {
		panic("faketransport: RequestBodiesF not implemented")
	}
	return f.RequestBodiesF(ctx, peer, hashes)
}

func (f *FakeTransport) RequestNodeData(ctx context.Context, peer peerset.ID, hash block.Hash32) (*transport.NodeDataResponse, error) {
	if f.RequestNodeDataF == nil {
		panic("faketransport: RequestNodeDataF not implemented")
	}
	return f.RequestNodeDataF(ctx, peer, hash)
}

func (f *FakeTransport) BlacklistPeer(peer peerset.ID, reason string, force bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Blacklisted = append(f.Blacklisted, peer)
}

func (f *FakeTransport) ResetBlacklistCount(peer peerset.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ResetCount = append(f.ResetCount, peer)
}

func (f *FakeTransport) BlacklistedPeers() []peerset.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]peerset.ID, len(f.Blacklisted))
	copy(out, f.Blacklisted)
	return out
}

var _ transport.Transport = (*FakeTransport)(nil)
