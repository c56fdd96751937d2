// Package peerset tracks handshaked peers and selects candidates for the
// next sync request.
package peerset

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/holiman/uint256"
)

// ID identifies a peer across the lifetime of a connection.
type ID string

// Info is the subset of peer state the sync engine cares about.
type Info struct {
	ID              ID
	TotalDifficulty *uint256.Int
	ForkAccepted    bool
	Blacklisted     bool
}

// Usable reports whether a peer may be selected for a regular sync request.
func (i Info) Usable() bool {
	return i.ForkAccepted && !i.Blacklisted
}

// Set is the engine's read-mostly view of handshaked peers. It is safe for
// concurrent use: updates arrive from the transport layer on its own
// goroutines while the engine's selection logic reads it from the engine
// goroutine.
type Set struct {
	mu    sync.RWMutex
	peers map[ID]Info

	// nodeErrorPeers is the set of peers that failed to serve a missing
	// state trie node request, excluded from NodeOkPeer selection until
	// the engine restarts. It is engine-owned data parked here because
	// Set already threads peer identity.
	nodeErrorPeers map[ID]struct{}
}

// New returns an empty peer set.
func New() *Set {
	return &Set{
		peers:          make(map[ID]Info),
		nodeErrorPeers: make(map[ID]struct{}),
	}
}

// Upsert records or updates a peer's info.
func (s *Set) Upsert(info Info) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peers[info.ID] = info
}

// Remove drops a peer, e.g. on disconnect.
func (s *Set) Remove(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.peers, id)
}

// Blacklist marks a peer unusable for regular selection. force is accepted
// to match the peer layer's signal but is neither stored nor acted on:
// the peer layer owns how long a blacklist lasts.
func (s *Set) Blacklist(id ID, force bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.peers[id]
	if !ok {
		return
	}
	p.Blacklisted = true
	s.peers[id] = p
}

// ResetBlacklistCount credits good behavior by clearing the blacklist flag.
// Mirrors the peer layer's ResetBlacklistCount signal emitted on every
// successful response.
func (s *Set) ResetBlacklistCount(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.peers[id]
	if !ok {
		return
	}
	p.Blacklisted = false
	s.peers[id] = p
}

// MarkNodeError records that id failed to serve a state-trie node request.
func (s *Set) MarkNodeError(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodeErrorPeers[id] = struct{}{}
}

// Snapshot returns a stable copy of all known peers, for read-only callers
// (metrics, CLI status) that must not race Set's internal map.
func (s *Set) Snapshot() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Info, 0, len(s.peers))
	for _, p := range s.peers {
		out = append(out, p)
	}
	return out
}

// Selector picks peers for sync requests using the engine's biased-random
// policy: among usable peers, sort descending by total difficulty, take the
// top three, and pick uniformly at random among them. Biasing to the top
// preserves tip-freshness; randomizing among the top three avoids
// hot-spotting a single peer and tolerates one slow peer at the tip.
type Selector struct {
	set  *Set
	rand *rand.Rand
}

// NewSelector builds a Selector over set using r as its source of
// randomness. Passing a seeded *rand.Rand keeps selection deterministic in
// tests.
func NewSelector(set *Set, r *rand.Rand) *Selector {
	return &Selector{set: set, rand: r}
}

// Select returns a usable peer, or false if none exists.
func (s *Selector) Select() (Info, bool) {
	return s.pick(usablePeers(s.set.Snapshot()))
}

// SelectNodeOK returns a usable peer that has not failed a prior state-node
// request, for use only when recovering from MissingStateNode.
func (s *Selector) SelectNodeOK() (Info, bool) {
	s.set.mu.RLock()
	errored := make(map[ID]struct{}, len(s.set.nodeErrorPeers))
	for id := range s.set.nodeErrorPeers {
		errored[id] = struct{}{}
	}
	s.set.mu.RUnlock()

	candidates := usablePeers(s.set.Snapshot())
	filtered := candidates[:0:0]
	for _, p := range candidates {
		if _, bad := errored[p.ID]; !bad {
			filtered = append(filtered, p)
		}
	}
	return s.pick(filtered)
}

func (s *Selector) pick(candidates []Info) (Info, bool) {
	if len(candidates) == 0 {
		return Info{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].TotalDifficulty.Cmp(candidates[j].TotalDifficulty) > 0
	})
	top := candidates
	if len(top) > 3 {
		top = top[:3]
	}
	idx := 0
	if len(top) > 1 {
		idx = s.rand.Intn(len(top))
	}
	return top[idx], true
}

func usablePeers(all []Info) []Info {
	out := all[:0:0]
	for _, p := range all {
		if p.Usable() {
			out = append(out, p)
		}
	}
	return out
}
