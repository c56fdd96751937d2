package transport

import (
	"context"

	"go.uber.org/zap"

	"github.com/lumichain/lumichain-go/pkg/block"
	"github.com/lumichain/lumichain-go/pkg/peerset"
)

// Unconnected is a Transport that never has anything to offer: every
// request returns the "None" case (nil, OK=false, no error), which the
// Request Driver treats as a delayed resume rather than a peer fault.
//
// It is what cmd/syncd wires in until a concrete network transport (p2p
// handshake, wire codec, peer discovery) lands; those concerns sit outside
// this module's scope, but the engine still needs something satisfying the
// interface to run standalone.
type Unconnected struct {
	log *zap.Logger
}

// NewUnconnected returns an Unconnected transport that logs at debug level
// whenever it is asked for something it cannot provide.
func NewUnconnected(log *zap.Logger) *Unconnected {
	return &Unconnected{log: log}
}

func (u *Unconnected) RequestHeaders(_ context.Context, peer peerset.ID, _ HeadersQuery) (*HeadersResponse, error) {
	u.log.Debug("no network transport wired, returning no headers", zap.String("peer", string(peer)))
	return nil, nil
}

func (u *Unconnected) RequestBodies(_ context.Context, peer peerset.ID, _ []block.Hash32) (*BodiesResponse, error) {
	u.log.Debug("no network transport wired, returning no bodies", zap.String("peer", string(peer)))
	return nil, nil
}

func (u *Unconnected) RequestNodeData(_ context.Context, peer peerset.ID, _ block.Hash32) (*NodeDataResponse, error) {
	u.log.Debug("no network transport wired, returning no node data", zap.String("peer", string(peer)))
	return nil, nil
}

func (u *Unconnected) BlacklistPeer(peer peerset.ID, reason string, force bool) {
	u.log.Warn("blacklist requested with no network transport wired", zap.String("peer", string(peer)), zap.String("reason", reason), zap.Bool("force", force))
}

func (u *Unconnected) ResetBlacklistCount(peer peerset.ID) {
	u.log.Debug("reset blacklist count requested with no network transport wired", zap.String("peer", string(peer)))
}

var _ Transport = (*Unconnected)(nil)
