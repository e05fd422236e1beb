package soccernet

import (
	"log"

	"github.com/theoden8/mini-fifa-sub000/internal/addr"
	"github.com/theoden8/mini-fifa-sub000/internal/intelligence"
	"github.com/theoden8/mini-fifa-sub000/internal/kinematics"
	"github.com/theoden8/mini-fifa-sub000/internal/netsock"
	"github.com/theoden8/mini-fifa-sub000/internal/wire"
)

// Remote packages each player-intent call as a wire.GameAction and sends
// it to a SoccerServer, satisfying intelligence.Intelligence on behalf of
// a player whose authoritative simulation lives on another host (spec
// §4.11).
type Remote struct {
	socket   *netsock.Socket
	server   addr.Addr
	playerID int32
	quit     bool
}

// NewRemote returns a Remote sending playerID's actions to server over
// socket.
func NewRemote(socket *netsock.Socket, server addr.Addr, playerID int32) *Remote {
	return &Remote{socket: socket, server: server, playerID: playerID}
}

var _ intelligence.Intelligence = (*Remote)(nil)

func (r *Remote) send(action wire.GameAction) {
	if r.quit {
		return
	}
	action.ID = r.playerID
	if err := r.socket.Send(r.server, action.Encode()); err != nil {
		log.Printf("soccernet: remote send failed: %v", err)
	}
}

func (r *Remote) ZAction() { r.send(wire.GameAction{Kind: wire.ActionZ}) }

func (r *Remote) XAction(dir float64) {
	r.send(wire.GameAction{Kind: wire.ActionX, Dir: float32(dir)})
}

func (r *Remote) CAction(dest kinematics.Vec3) {
	r.send(wire.GameAction{Kind: wire.ActionC, Dest: toWireDest(dest)})
}

func (r *Remote) VAction() { r.send(wire.GameAction{Kind: wire.ActionV}) }

func (r *Remote) FAction(dir float64) {
	r.send(wire.GameAction{Kind: wire.ActionF, Dir: float32(dir)})
}

func (r *Remote) SAction() { r.send(wire.GameAction{Kind: wire.ActionS}) }

func (r *Remote) MAction(dest kinematics.Vec3) {
	r.send(wire.GameAction{Kind: wire.ActionM, Dest: toWireDest(dest)})
}

// Leave marks this player as departed. Departure itself travels over the
// lobby protocol's LobbyDisconnect, not a game_action -- Leave just stops
// this adapter from sending further actions.
func (r *Remote) Leave() {
	r.quit = true
}

func (r *Remote) Idle() {}

// HasQuit reports whether Leave has been called locally.
func (r *Remote) HasQuit() bool { return r.quit }

func toWireDest(v kinematics.Vec3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
