// Package sync implements the regular, tip-following block synchronization
// engine: a single-threaded, cooperative state machine that polls peers for
// headers, fetches bodies, drives ledger execution, resolves short forks,
// and rebroadcasts accepted blocks.
package sync

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/lumichain/lumichain-go/pkg/block"
	"github.com/lumichain/lumichain-go/pkg/broadcast"
	"github.com/lumichain/lumichain-go/pkg/config"
	"github.com/lumichain/lumichain-go/pkg/ledger"
	"github.com/lumichain/lumichain-go/pkg/mempool"
	"github.com/lumichain/lumichain-go/pkg/metrics"
	"github.com/lumichain/lumichain-go/pkg/peerset"
	"github.com/lumichain/lumichain-go/pkg/storage"
	"github.com/lumichain/lumichain-go/pkg/transport"
	"github.com/lumichain/lumichain-go/pkg/unclepool"
)

// State names the five points on the Header Processor's state machine.
type State int

const (
	StateIdle State = iota
	StateAwaitingHeaders
	StateAwaitingBodies
	StateExecuting
	StateForkResolving
)

// String renders a State for logs and the metrics label set.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingHeaders:
		return "awaiting_headers"
	case StateAwaitingBodies:
		return "awaiting_bodies"
	case StateExecuting:
		return "executing"
	case StateForkResolving:
		return "fork_resolving"
	default:
		return "unknown"
	}
}

// allStates is used to zero every SyncState gauge label before setting the
// current one.
var allStates = []string{
	StateIdle.String(),
	StateAwaitingHeaders.String(),
	StateAwaitingBodies.String(),
	StateExecuting.String(),
	StateForkResolving.String(),
}

// ErrAlreadyRunning is returned by Run when called twice.
var ErrAlreadyRunning = errors.New("sync: engine already running")

// Config bundles the engine's external collaborators and tunables. Every
// field other than Tunables is borrowed from outside this package; the
// engine never mutates them except through their own methods.
type Config struct {
	Logger    *zap.Logger
	Tunables  config.Engine
	Transport transport.Transport
	Storage   storage.Store
	Ledger    ledger.Ledger
	Mempool   mempool.Pool
	Uncles    unclepool.Pool
	Publisher broadcast.Publisher
	Peers     *peerset.Set
	Metrics   *metrics.Metrics
	Rand      *rand.Rand
}

// Engine is the sync state machine described in the component design: it
// owns WorkingHeaders, the reorg flag, and the node-error-peer set for its
// lifetime, and is the only mutator of that state. All mutation happens on
// the goroutine started by Run; every other method either reads
// lock-free/atomic mirrors or posts an event onto the inbox.
type Engine struct {
	cfg Config
	log *zap.Logger

	selector *peerset.Selector

	inbox chan event
	quit  chan struct{}
	done  chan struct{}

	started *atomic.Bool

	// workingHeaders and state count as engine-owned state per the data
	// model: only the run goroutine touches them. The node-error-peer set
	// is kept in cfg.Peers.
	workingHeaders []*block.Header
	state          State

	// isUnderReorg mirrors the engine-owned reorg flag. The atomic.Bool
	// is purely so external read-only observers (metrics, CLI status)
	// can sample it without racing the run goroutine; the run goroutine
	// itself always reads/writes through this field, never by CAS logic,
	// preserving the single-mutator invariant.
	isUnderReorg *atomic.Bool

	resumeTimer   *time.Timer
	resumeArmedAt time.Time
}

// New constructs an Engine. The returned Engine does not start running
// until Run is called.
func New(cfg Config) *Engine {
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		cfg:          cfg,
		log:          cfg.Logger,
		selector:     peerset.NewSelector(cfg.Peers, cfg.Rand),
		inbox:        make(chan event, 64),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
		started:      atomic.NewBool(false),
		isUnderReorg: atomic.NewBool(false),
	}
	return e
}

// Run starts the engine's single event-loop goroutine and blocks until ctx
// is cancelled or Stop is called. It is an error to call Run twice.
func (e *Engine) Run(ctx context.Context) error {
	if !e.started.CAS(false, true) {
		return ErrAlreadyRunning
	}
	e.log.Info("starting sync engine",
		zap.Int("blockHeadersPerRequest", e.cfg.Tunables.BlockHeadersPerRequest),
		zap.Int("blockBodiesPerRequest", e.cfg.Tunables.BlockBodiesPerRequest),
		zap.Uint64("blockResolveDepth", e.cfg.Tunables.BlockResolveDepth),
	)
	e.resumeTimer = time.NewTimer(0)
	if !e.resumeTimer.Stop() {
		<-e.resumeTimer.C
	}
	e.setState(StateIdle)
	e.Submit(resumeTick{})

	for {
		select {
		case <-ctx.Done():
			e.shutdown()
			return ctx.Err()
		case <-e.quit:
			e.shutdown()
			return nil
		case ev := <-e.inbox:
			e.handle(ev)
		case <-e.resumeTimer.C:
			e.handle(resumeTick{})
		}
	}
}

func (e *Engine) shutdown() {
	if !e.resumeTimer.Stop() {
		select {
		case <-e.resumeTimer.C:
		default:
		}
	}
	close(e.done)
}

// Stop requests the run goroutine to exit and waits for it to finish.
func (e *Engine) Stop() {
	if !e.started.Load() {
		return
	}
	close(e.quit)
	<-e.done
}

// Submit enqueues an externally-observed occurrence (a request driver
// response, a mined block, a raw peer message) onto the engine's single
// inbox. It never blocks the caller's goroutine on engine state directly;
// it only ever touches the channel.
func (e *Engine) Submit(ev event) {
	select {
	case e.inbox <- ev:
	case <-e.quit:
	}
}

// ProcessBlockHeaders is the public entry point the Request Driver's
// header-request continuation calls with a peer's response.
func (e *Engine) ProcessBlockHeaders(peer peerset.ID, headers []*block.Header) {
	e.Submit(processBlockHeaders{peer: peer, headers: headers})
}

// ProcessBlockBodies is the public entry point the Request Driver's
// body-request continuation calls with a peer's response.
func (e *Engine) ProcessBlockBodies(peer peerset.ID, bodies []*block.Body) {
	e.Submit(processBlockBodies{peer: peer, bodies: bodies})
}

// MinedBlock offers a locally mined block to the engine.
func (e *Engine) MinedBlock(b *block.Block) {
	e.Submit(minedBlock{block: b})
}

// ReceivedMessage is the generic, logged-only event hook.
func (e *Engine) ReceivedMessage(peer peerset.ID, msg string) {
	e.Submit(receivedMessage{peer: peer, msg: msg})
}

// IsUnderReorg reports the current reorg flag without touching the run
// goroutine.
func (e *Engine) IsUnderReorg() bool {
	return e.isUnderReorg.Load()
}

func (e *Engine) handle(ev event) {
	switch v := ev.(type) {
	case resumeTick:
		e.onResumeTick()
	case processBlockHeaders:
		e.onProcessBlockHeaders(v.peer, v.headers)
	case processBlockBodies:
		e.onProcessBlockBodies(v.peer, v.bodies)
	case minedBlock:
		e.onMinedBlock(v.block)
	case receivedMessage:
		e.log.Debug("received message", zap.String("peer", string(v.peer)), zap.String("msg", v.msg))
	case nodeDataRecovered:
		e.onNodeDataRecovered(v)
	case scheduleResumeTick:
		e.scheduleResume()
	default:
		e.log.Warn("sync: unhandled event type")
	}
}

// blacklistPeer routes every peer blacklist action through one place so the
// PeersBlacklisted counter stays accurate regardless of which path (header
// processing, body processing, or a request driver goroutine) triggered it.
func (e *Engine) blacklistPeer(peer peerset.ID, reason string, force bool) {
	e.cfg.Transport.BlacklistPeer(peer, reason, force)
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.PeersBlacklisted.Inc()
	}
}

func (e *Engine) setState(s State) {
	e.state = s
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.SetState(allStates, s.String())
	}
}

func (e *Engine) setWorkingHeaders(h []*block.Header) {
	e.workingHeaders = h
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.WorkingHeaders.Set(float64(len(h)))
	}
}

func (e *Engine) setUnderReorg(v bool) {
	e.isUnderReorg.Store(v)
}
