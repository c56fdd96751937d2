// Package transport declares the sync engine's view of the peer-to-peer
// request/response layer. The transport and handshake protocol themselves
// are out of scope; this package only fixes the contract the Request
// Driver calls into and the result discipline it expects back.
package transport

import (
	"context"

	"github.com/google/uuid"

	"github.com/lumichain/lumichain-go/pkg/block"
	"github.com/lumichain/lumichain-go/pkg/peerset"
)

// HeadersQuery describes a requestHeaders call. Exactly one of StartNumber
// or StartHash is set.
type HeadersQuery struct {
	RequestID  uuid.UUID
	StartNumber *uint64
	StartHash   *block.Hash32
	Count       int
	Skip        int
	Reverse     bool
}

// HeadersResponse is the result of a requestHeaders call. OK distinguishes
// a protocol-level peer error (OK=false) from a clean response.
type HeadersResponse struct {
	Headers []*block.Header
	OK      bool
}

// BodiesResponse is the result of a requestBodies call.
type BodiesResponse struct {
	Bodies []*block.Body
	OK     bool
}

// NodeDataResponse is the result of a requestNodeData call.
type NodeDataResponse struct {
	Data []byte
	OK   bool
}

// Transport is the engine's sole entry point into the peer layer.
//
// Result discipline, enforced by callers in pkg/sync rather than by this
// interface's type system (Go has no tri-state Option<Result> natively):
//   - (resp, true, nil):  consume resp.
//   - (resp, false, nil): resp.OK == false, a protocol-level peer error ->
//     blacklist + resume.
//   - (nil, false, nil):  the peer returned nothing useful but did not
//     misbehave (the "None" case) -> schedule a delayed resume.
//   - (nil, false, err):  timeout or transport failure -> blacklist + resume.
type Transport interface {
	RequestHeaders(ctx context.Context, peer peerset.ID, q HeadersQuery) (*HeadersResponse, error)
	RequestBodies(ctx context.Context, peer peerset.ID, hashes []block.Hash32) (*BodiesResponse, error)
	RequestNodeData(ctx context.Context, peer peerset.ID, hash block.Hash32) (*NodeDataResponse, error)

	BlacklistPeer(peer peerset.ID, reason string, force bool)
	ResetBlacklistCount(peer peerset.ID)
}
