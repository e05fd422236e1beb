// Package soccernet maps wire game_action packets onto Soccer calls
// (spec §4.11). Grounded on server/connection_handler.go's
// dispatch-incoming-message-to-domain-call shape, with the JSON/WebSocket
// envelope replaced by the fixed-size wire.GameAction packet.
package soccernet

import (
	"log"
	"sync"
	"time"

	"github.com/theoden8/mini-fifa-sub000/internal/addr"
	"github.com/theoden8/mini-fifa-sub000/internal/intelligence"
	"github.com/theoden8/mini-fifa-sub000/internal/kinematics"
	"github.com/theoden8/mini-fifa-sub000/internal/metrics"
	"github.com/theoden8/mini-fifa-sub000/internal/netsock"
	"github.com/theoden8/mini-fifa-sub000/internal/soccer"
	"github.com/theoden8/mini-fifa-sub000/internal/wire"
)

// Server holds the authoritative Soccer, the UDP socket it listens on, and
// the set of known client addresses (spec §4.11).
type Server struct {
	match   *soccer.Soccer
	socket  *netsock.Socket
	mu      sync.Mutex
	clients map[addr.Addr]int // addr -> playerID
}

// NewServer returns a Server dispatching inbound game_action packets into
// match under match's own mutex.
func NewServer(match *soccer.Soccer, socket *netsock.Socket) *Server {
	return &Server{match: match, socket: socket, clients: make(map[addr.Addr]int)}
}

// Register associates src with playerID so future packets from src
// dispatch as that player's action.
func (s *Server) Register(src addr.Addr, playerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[src] = playerID
}

// Dispatch handles one inbound UDP datagram (spec §4.11's listener
// thread), resolving its source to a playerID and calling the matching
// Soccer action under the soccer mutex.
func (s *Server) Dispatch(t time.Time, pkt netsock.Packet) {
	s.mu.Lock()
	playerID, ok := s.clients[pkt.Src]
	s.mu.Unlock()
	if !ok {
		metrics.RecordPacketDropped("bad_discriminator")
		return
	}

	action, err := wire.DecodeGameAction(pkt.Payload)
	if err != nil {
		metrics.RecordPacketDropped("truncated")
		return
	}
	metrics.RecordPacketReceived("game_action")
	s.apply(t, playerID, action)
}

// Listen drains inbound game_action packets until onIdle returns false,
// dispatching each with the given clock. Grounded on netsock.Socket.Listen's
// idle/packet loop shape.
func (s *Server) Listen(now func() time.Time, onIdle func() bool) error {
	return s.socket.Listen(onIdle, func(pkt netsock.Packet) bool {
		s.Dispatch(now(), pkt)
		return true
	})
}

func (s *Server) apply(t time.Time, playerID int, action wire.GameAction) {
	dest := kinematics.Vec3{X: float64(action.Dest[0]), Y: float64(action.Dest[1]), Z: float64(action.Dest[2])}
	switch action.Kind {
	case wire.ActionZ:
		s.match.ZAction(t, playerID)
	case wire.ActionX:
		s.match.XAction(t, playerID, float64(action.Dir))
	case wire.ActionC:
		s.match.CAction(t, playerID, dest)
	case wire.ActionV:
		s.match.VAction(t, playerID)
	case wire.ActionF:
		s.match.FAction(playerID, float64(action.Dir))
	case wire.ActionS:
		s.match.SAction(playerID)
	case wire.ActionM:
		s.match.MAction(playerID, dest)
	default:
		log.Printf("soccernet: server unknown action kind %v from player %d", action.Kind, playerID)
	}
}

// LocalIntelligence wraps one local player's direct, wire-bypassing calls
// into match (spec §4.11 "local UI calls bypass the wire"), satisfying
// intelligence.Intelligence.
type LocalIntelligence struct {
	match    *soccer.Soccer
	playerID int
	now      func() time.Time
}

// NewLocalIntelligence returns a LocalIntelligence for playerID, using now
// to stamp every action (callers typically pass time.Now).
func NewLocalIntelligence(match *soccer.Soccer, playerID int, now func() time.Time) *LocalIntelligence {
	return &LocalIntelligence{match: match, playerID: playerID, now: now}
}

var _ intelligence.Intelligence = (*LocalIntelligence)(nil)

func (l *LocalIntelligence) ZAction()                       { l.match.ZAction(l.now(), l.playerID) }
func (l *LocalIntelligence) XAction(dir float64)             { l.match.XAction(l.now(), l.playerID, dir) }
func (l *LocalIntelligence) CAction(dest kinematics.Vec3)    { l.match.CAction(l.now(), l.playerID, dest) }
func (l *LocalIntelligence) VAction()                        { l.match.VAction(l.now(), l.playerID) }
func (l *LocalIntelligence) FAction(dir float64)             { l.match.FAction(l.playerID, dir) }
func (l *LocalIntelligence) SAction()                        { l.match.SAction(l.playerID) }
func (l *LocalIntelligence) MAction(dest kinematics.Vec3)    { l.match.MAction(l.playerID, dest) }
func (l *LocalIntelligence) Leave()                          { l.match.Leave(l.playerID) }
func (l *LocalIntelligence) Idle()                           {}
func (l *LocalIntelligence) HasQuit() bool                   { return false }
