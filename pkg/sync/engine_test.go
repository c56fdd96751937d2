package sync_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lumichain/lumichain-go/internal/fakeledger"
	"github.com/lumichain/lumichain-go/internal/faketransport"
	"github.com/lumichain/lumichain-go/pkg/block"
	"github.com/lumichain/lumichain-go/pkg/broadcast"
	"github.com/lumichain/lumichain-go/pkg/config"
	"github.com/lumichain/lumichain-go/pkg/ledger"
	"github.com/lumichain/lumichain-go/pkg/mempool"
	"github.com/lumichain/lumichain-go/pkg/metrics"
	"github.com/lumichain/lumichain-go/pkg/peerset"
	"github.com/lumichain/lumichain-go/pkg/storage"
	enginesync "github.com/lumichain/lumichain-go/pkg/sync"
	"github.com/lumichain/lumichain-go/pkg/syncerr"
	"github.com/lumichain/lumichain-go/pkg/transport"
	"github.com/lumichain/lumichain-go/pkg/unclepool"
)

const testPeer peerset.ID = "peer-1"

type harness struct {
	engine    *enginesync.Engine
	store     *storage.MemStore
	tr        *faketransport.FakeTransport
	ledger    *fakeledger.FakeLedger
	pool      *mempool.SimplePool
	uncles    *unclepool.SimplePool
	publisher *broadcast.ChannelPublisher
	peers     *peerset.Set
	metrics   *metrics.Metrics
	cancel    context.CancelFunc
}

func newHeader(number uint64, parent block.Hash32, diff uint64) *block.Header {
	return &block.Header{
		Number:     number,
		ParentHash: parent,
		Difficulty: uint256.NewInt(diff),
		Timestamp:  time.Unix(int64(number), 0),
	}
}

func newHarness(t *testing.T, genesisNumber uint64) *harness {
	genesis := &block.Block{Header: newHeader(genesisNumber, block.ZeroHash, 1), Body: &block.Body{}}

	store := storage.NewMemStore()
	store.SeedGenesis(genesis, uint256.NewInt(1000))

	peers := peerset.New()
	peers.Upsert(peerset.Info{ID: testPeer, TotalDifficulty: uint256.NewInt(2000), ForkAccepted: true})

	tr := faketransport.New()
	fl := fakeledger.NewPassthrough()
	pool := mempool.New()
	uncles := unclepool.New()
	publisher := broadcast.NewChannelPublisher(8)
	m := metrics.New(prometheus.NewRegistry())

	eng := enginesync.New(enginesync.Config{
		Logger: zap.NewNop(),
		Tunables: config.Engine{
			BlockHeadersPerRequest:   192,
			BlockBodiesPerRequest:    128,
			BlockResolveDepth:        16,
			SyncRequestTimeout:       2 * time.Second,
			CheckForNewBlockInterval: 30 * time.Millisecond,
		},
		Transport: tr,
		Storage:   store,
		Ledger:    fl,
		Mempool:   pool,
		Uncles:    uncles,
		Publisher: publisher,
		Peers:     peers,
		Metrics:   m,
		Rand:      rand.New(rand.NewSource(1)),
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = eng.Run(ctx) }()

	h := &harness{
		engine: eng, store: store, tr: tr, ledger: fl, pool: pool,
		uncles: uncles, publisher: publisher, peers: peers, metrics: m, cancel: cancel,
	}
	t.Cleanup(func() {
		h.cancel()
		h.engine.Stop()
	})
	return h
}

func buildChain(startNumber uint64, parent block.Hash32, count int, diff uint64) []*block.Header {
	headers := make([]*block.Header, count)
	prevHash := parent
	for i := 0; i < count; i++ {
		h := newHeader(startNumber+uint64(i), prevHash, diff)
		headers[i] = h
		prevHash = h.Hash()
	}
	return headers
}

func TestHappyTipFollow(t *testing.T) {
	h := newHarness(t, 100)
	genesis, _ := h.store.GetBlockByNumber(100)
	headers := buildChain(101, genesis.Hash(), 10, 10)

	var calls int
	h.tr.RequestHeadersF = func(_ context.Context, _ peerset.ID, q transport.HeadersQuery) (*transport.HeadersResponse, error) {
		calls++
		if calls == 1 {
			return &transport.HeadersResponse{Headers: headers, OK: true}, nil
		}
		return &transport.HeadersResponse{Headers: nil, OK: true}, nil
	}
	h.tr.RequestBodiesF = func(_ context.Context, _ peerset.ID, hashes []block.Hash32) (*transport.BodiesResponse, error) {
		bodies := make([]*block.Body, len(hashes))
		for i := range bodies {
			bodies[i] = &block.Body{}
		}
		return &transport.BodiesResponse{Bodies: bodies, OK: true}, nil
	}

	require.Eventually(t, func() bool {
		return h.store.BestBlockNumber() == 110
	}, 2*time.Second, 10*time.Millisecond)

	select {
	case blocks := <-h.publisher.Subscribe():
		require.Len(t, blocks, 10)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a broadcast of the imported batch")
	}
}

func TestEmptyPeerResponseSchedulesResume(t *testing.T) {
	h := newHarness(t, 100)

	var calls int
	h.tr.RequestHeadersF = func(_ context.Context, _ peerset.ID, _ transport.HeadersQuery) (*transport.HeadersResponse, error) {
		calls++
		return &transport.HeadersResponse{Headers: nil, OK: true}, nil
	}

	require.Eventually(t, func() bool {
		return calls >= 2
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, uint64(100), h.store.BestBlockNumber())
}

func TestShortReorgNewBranchWins(t *testing.T) {
	h := newHarness(t, 100)
	genesis, _ := h.store.GetBlockByNumber(100)

	// Local chain already has A#101 at difficulty 5.
	localA := &block.Block{Header: newHeader(101, genesis.Hash(), 5), Body: &block.Body{}}
	require.NoError(t, h.store.SaveNewBlock(localA, nil, uint256.NewInt(1005)))

	// Peer offers B#101 (diff 7) and B#102, total 7+7=14 > oldTd(5).
	branch := buildChain(101, genesis.Hash(), 2, 7)

	var calls int
	h.tr.RequestHeadersF = func(_ context.Context, _ peerset.ID, _ transport.HeadersQuery) (*transport.HeadersResponse, error) {
		calls++
		if calls == 1 {
			return &transport.HeadersResponse{Headers: branch, OK: true}, nil
		}
		return &transport.HeadersResponse{Headers: nil, OK: true}, nil
	}
	h.tr.RequestBodiesF = func(_ context.Context, _ peerset.ID, hashes []block.Hash32) (*transport.BodiesResponse, error) {
		bodies := make([]*block.Body, len(hashes))
		for i := range bodies {
			bodies[i] = &block.Body{}
		}
		return &transport.BodiesResponse{Bodies: bodies, OK: true}, nil
	}

	require.Eventually(t, func() bool {
		return h.store.BestBlockNumber() == 102
	}, 2*time.Second, 10*time.Millisecond)

	require.True(t, h.uncles.Contains(localA.Hash()))
	require.False(t, h.engine.IsUnderReorg())
}

func TestShortReorgNewBranchLoses(t *testing.T) {
	h := newHarness(t, 100)
	genesis, _ := h.store.GetBlockByNumber(100)

	localA := &block.Block{Header: newHeader(101, genesis.Hash(), 5), Body: &block.Body{}}
	require.NoError(t, h.store.SaveNewBlock(localA, nil, uint256.NewInt(1005)))

	// Peer offers B#101 at diff 3 < oldTd(5): rejected.
	losing := buildChain(101, genesis.Hash(), 1, 3)

	var calls int
	h.tr.RequestHeadersF = func(_ context.Context, _ peerset.ID, _ transport.HeadersQuery) (*transport.HeadersResponse, error) {
		calls++
		if calls == 1 {
			return &transport.HeadersResponse{Headers: losing, OK: true}, nil
		}
		return &transport.HeadersResponse{Headers: nil, OK: true}, nil
	}

	require.Eventually(t, func() bool {
		return h.uncles.Contains(losing[0].Hash())
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, uint64(101), h.store.BestBlockNumber())
	require.False(t, h.engine.IsUnderReorg())
}

func TestDeepForkBeyondResolveDepthForceBlacklists(t *testing.T) {
	h := newHarness(t, 100)
	genesis, _ := h.store.GetBlockByNumber(100)

	// Establish a local chain 101..105.
	local := buildChain(101, genesis.Hash(), 5, 1)
	prevTd := uint256.NewInt(1000)
	for _, hd := range local {
		b := &block.Block{Header: hd, Body: &block.Body{}}
		td := new(uint256.Int).Add(prevTd, hd.Difficulty)
		require.NoError(t, h.store.SaveNewBlock(b, nil, td))
		prevTd = td
	}

	altRoot := block.Hash32{0xFF, 0xEE}
	altChain := buildChain(103, altRoot, 3, 1) // numbers 103,104,105 on a different fork
	divergent := newHeader(106, altChain[len(altChain)-1].Hash(), 1)

	var calls int
	h.tr.RequestHeadersF = func(_ context.Context, _ peerset.ID, q transport.HeadersQuery) (*transport.HeadersResponse, error) {
		calls++
		switch calls {
		case 1:
			return &transport.HeadersResponse{Headers: []*block.Header{divergent}, OK: true}, nil
		case 2:
			return &transport.HeadersResponse{Headers: altChain, OK: true}, nil
		default:
			return &transport.HeadersResponse{Headers: nil, OK: true}, nil
		}
	}

	require.Eventually(t, func() bool {
		return len(h.tr.BlacklistedPeers()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	require.False(t, h.engine.IsUnderReorg())
	require.Equal(t, uint64(105), h.store.BestBlockNumber())
	require.Equal(t, float64(1), testutil.ToFloat64(h.metrics.PeersBlacklisted))
}

func TestMissingStateNodeRecovery(t *testing.T) {
	h := newHarness(t, 100)
	genesis, _ := h.store.GetBlockByNumber(100)
	headers := buildChain(101, genesis.Hash(), 1, 5)

	var headerCalls int
	h.tr.RequestHeadersF = func(_ context.Context, _ peerset.ID, _ transport.HeadersQuery) (*transport.HeadersResponse, error) {
		headerCalls++
		if headerCalls == 1 {
			return &transport.HeadersResponse{Headers: headers, OK: true}, nil
		}
		return &transport.HeadersResponse{Headers: nil, OK: true}, nil
	}
	h.tr.RequestBodiesF = func(_ context.Context, _ peerset.ID, hashes []block.Hash32) (*transport.BodiesResponse, error) {
		bodies := make([]*block.Body, len(hashes))
		for i := range bodies {
			bodies[i] = &block.Body{}
		}
		return &transport.BodiesResponse{Bodies: bodies, OK: true}, nil
	}

	nodeHash := block.Hash32{0x42}
	var nodeCalls int
	h.tr.RequestNodeDataF = func(_ context.Context, _ peerset.ID, hash block.Hash32) (*transport.NodeDataResponse, error) {
		nodeCalls++
		return &transport.NodeDataResponse{Data: []byte("trie-node"), OK: true}, nil
	}

	failedOnce := false
	h.ledger.ExecuteBlockF = func(b *block.Block) (ledger.ExecutionResult, error) {
		if !failedOnce && b.Header.Number == 101 {
			failedOnce = true
			return ledger.ExecutionResult{}, syncerr.NewMissingStateNode(nodeHash, "state")
		}
		return ledger.ExecutionResult{WorldRoot: b.Hash()}, nil
	}

	require.Eventually(t, func() bool {
		return h.store.BestBlockNumber() == 101
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := h.store.Get(nodeHash[:])
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}
