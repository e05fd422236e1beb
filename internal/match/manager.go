// Package match is the multi-room hosting layer supplementing spec.md's
// component list (SPEC_FULL.md §C): a single metaserver+lobby deployment
// can host more than one independent Soccer game at a time.
//
// Grounded on game.RoomManagerActor (lguibr-pongo): a mutex-guarded
// registry of rooms keyed by an incrementing id, create-on-demand,
// stop-and-forget on cleanup -- generalized here from Pong rooms to
// Soccer matches, and from an actor-mailbox registry to a plain
// mutex-guarded struct, matching the same "actor owns its registry, a
// plain struct is fine when nothing needs a mailbox" judgment call
// internal/soccer already makes for Soccer itself.
package match

import (
	"fmt"
	"sync"
	"time"

	"github.com/theoden8/mini-fifa-sub000/internal/addr"
	"github.com/theoden8/mini-fifa-sub000/internal/bollywood"
	"github.com/theoden8/mini-fifa-sub000/internal/config"
	"github.com/theoden8/mini-fifa-sub000/internal/kinematics"
	"github.com/theoden8/mini-fifa-sub000/internal/lobby"
	"github.com/theoden8/mini-fifa-sub000/internal/netsock"
	"github.com/theoden8/mini-fifa-sub000/internal/soccer"
	"github.com/theoden8/mini-fifa-sub000/internal/soccernet"
	"github.com/theoden8/mini-fifa-sub000/internal/wire"
)

// Match bundles one hosted Soccer game with the lobby actor that feeds
// player-roster changes into it.
type Match struct {
	ID       string
	Soccer   *soccer.Soccer
	Net      *soccernet.Server
	LobbyPID *bollywood.PID

	lobby *lobby.Lobby
}

// SyncRoster copies the lobby's current REMOTE/LOCAL_AI membership into
// the match's soccernet.Server client table, mapping each member's lobby
// index directly onto its Soccer player id -- the roster shapes handed
// out by lobby_start (index/team1/team2, spec §4.6) are constructed to
// line up with Soccer.New's team1Size-then-team2Size player ordering, so
// no separate id-assignment step is needed.
func (m *Match) SyncRoster() {
	for a, member := range m.lobby.Members() {
		if a.IsAny() {
			continue // host plays locally, never over the wire
		}
		m.Net.Register(a, int(member.Index))
	}
}

// Manager owns every match hosted by this process, keyed by an
// incrementing id (RoomManagerActor's roomIDStr, generalized).
type Manager struct {
	mu      sync.Mutex
	engine  *bollywood.Engine
	cfg     config.Config
	matches map[string]*Match
	next    int
}

// NewManager returns an empty Manager driving matches through engine.
func NewManager(engine *bollywood.Engine, cfg config.Config) *Manager {
	return &Manager{engine: engine, cfg: cfg, matches: make(map[string]*Match)}
}

// HostMatch creates a new Soccer match of team1Size vs team2Size players
// plus its LobbyServer actor bound to socket, advertising to metaservers,
// and returns the Match handle (RoomManagerActor.handleFindRoom's
// create-new-room path, generalized to always create rather than
// find-or-create, since a Soccer match's roster is fixed at host time).
func (m *Manager) HostMatch(socket *netsock.Socket, metaservers []addr.Addr, team1Size, team2Size int, positions []kinematics.Vec3, ballPos kinematics.Vec3, now time.Time) *Match {
	m.mu.Lock()
	id := fmt.Sprintf("match-%d", m.next)
	m.next++
	m.mu.Unlock()

	s := soccer.New(m.cfg, team1Size, team2Size, positions, ballPos, now)
	net := soccernet.NewServer(s, socket)

	l := lobby.New()
	l.Add(addr.Any, wire.KindServer)
	lobbyProps := bollywood.NewProps(lobby.NewServerProducerWithLobby(m.cfg, l, socket, metaservers, now))
	lobbyPID := m.engine.Spawn(lobbyProps)

	mt := &Match{ID: id, Soccer: s, Net: net, LobbyPID: lobbyPID, lobby: l}

	m.mu.Lock()
	m.matches[id] = mt
	m.mu.Unlock()
	return mt
}

// Get returns the match with the given id, if still hosted.
func (m *Manager) Get(id string) (*Match, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mt, ok := m.matches[id]
	return mt, ok
}

// Remove stops match id's lobby actor and forgets it
// (RoomManagerActor.handleGameRoomEmpty, generalized).
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	mt, ok := m.matches[id]
	delete(m.matches, id)
	m.mu.Unlock()
	if !ok {
		return
	}
	if mt.LobbyPID != nil {
		m.engine.Stop(mt.LobbyPID)
	}
}

// Len returns the current number of hosted matches.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matches)
}
