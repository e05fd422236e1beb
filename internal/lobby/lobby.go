// Package lobby implements the pre-match membership/team-balancing
// structure of spec §3 "Lobby membership" plus the LobbyServer/LobbyClient
// actors of §4.9/§4.10.
//
// Grounded on game.RoomManagerActor's membership map behind a mutex
// (lguibr-pongo) generalized from a room-assignment registry to a
// per-lobby participant table with team counters.
package lobby

import (
	"sync"

	"github.com/theoden8/mini-fifa-sub000/internal/addr"
	"github.com/theoden8/mini-fifa-sub000/internal/wire"
)

// Member is one lobby participant's (index, kind, team) triple (spec §3).
type Member struct {
	Index int8
	Kind  wire.IntelligenceKind
	Team  int8
}

// Lobby is the membership map: Addr -> Member, with team counters that
// stay balanced on every add (spec §3, §8 "Team balance").
type Lobby struct {
	mu      sync.Mutex
	members map[addr.Addr]Member
	order   []addr.Addr
	team1   int
	team2   int
}

// New returns an empty lobby.
func New() *Lobby {
	return &Lobby{members: make(map[addr.Addr]Member)}
}

// Add inserts a, assigning it the next insertion-order index and placing
// it on whichever team currently has fewer members. A second Add of an
// already-present a is ignored (spec §7 "double-join ignored") and returns
// the existing entry.
func (l *Lobby) Add(a addr.Addr, kind wire.IntelligenceKind) Member {
	l.mu.Lock()
	defer l.mu.Unlock()

	if m, ok := l.members[a]; ok {
		return m
	}

	team := int8(0)
	if l.team1 > l.team2 {
		team = 1
	}
	if team == 0 {
		l.team1++
	} else {
		l.team2++
	}

	m := Member{Index: int8(len(l.order)), Kind: kind, Team: team}
	l.members[a] = m
	l.order = append(l.order, a)
	return m
}

// Remove deletes a, freeing its team slot. No-op if a is unknown.
func (l *Lobby) Remove(a addr.Addr) (Member, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.members[a]
	if !ok {
		return Member{}, false
	}
	delete(l.members, a)
	if m.Team == 0 {
		l.team1--
	} else {
		l.team2--
	}
	return m, true
}

// Get returns a's membership entry, if present.
func (l *Lobby) Get(a addr.Addr) (Member, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.members[a]
	return m, ok
}

// Members returns a snapshot copy of the full membership map.
func (l *Lobby) Members() map[addr.Addr]Member {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[addr.Addr]Member, len(l.members))
	for k, v := range l.members {
		out[k] = v
	}
	return out
}

// Addrs returns every known member address, in insertion order.
func (l *Lobby) Addrs() []addr.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]addr.Addr, 0, len(l.members))
	seen := make(map[addr.Addr]bool, len(l.members))
	for _, a := range l.order {
		if _, ok := l.members[a]; ok && !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}

// TeamCounts returns (team1_count, team2_count).
func (l *Lobby) TeamCounts() (int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.team1, l.team2
}

// Len returns the current membership count.
func (l *Lobby) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.members)
}
