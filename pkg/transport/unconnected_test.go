package transport_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lumichain/lumichain-go/pkg/block"
	"github.com/lumichain/lumichain-go/pkg/transport"
)

func TestUnconnectedReturnsNoneForEveryRequest(t *testing.T) {
	u := transport.NewUnconnected(zap.NewNop())
	ctx := context.Background()

	headers, err := u.RequestHeaders(ctx, "peer", transport.HeadersQuery{})
	require.NoError(t, err)
	require.Nil(t, headers)

	bodies, err := u.RequestBodies(ctx, "peer", nil)
	require.NoError(t, err)
	require.Nil(t, bodies)

	node, err := u.RequestNodeData(ctx, "peer", block.Hash32{})
	require.NoError(t, err)
	require.Nil(t, node)

	u.BlacklistPeer("peer", "testing", false)
	u.ResetBlacklistCount("peer")
}
