// Package metaserver implements the game-discovery registry of spec §4.8:
// hosts advertise/retract a game by name, and every subscriber learns about
// it over UDP.
//
// Grounded on weaveworks-experiments-mballs' peer registry
// (map[int]*Peer behind a mutex, a gauge tracking its size) generalized
// from a multicast-heartbeat peer table to a host→name game list, and run
// as a bollywood actor the way the teacher's RoomManagerActor owns its
// room map.
package metaserver

import (
	"log"
	"sync"

	"github.com/theoden8/mini-fifa-sub000/internal/addr"
	"github.com/theoden8/mini-fifa-sub000/internal/bollywood"
	"github.com/theoden8/mini-fifa-sub000/internal/metrics"
	"github.com/theoden8/mini-fifa-sub000/internal/netsock"
	"github.com/theoden8/mini-fifa-sub000/internal/wire"
)

// Registry tracks hosted games and subscribers (spec §4.8 state). Guarded
// by its own mutex since cmd/metaserver's HTTP diagnostics handler reads
// it through Snapshot, outside the actor's own goroutine.
type Registry struct {
	mu          sync.Mutex
	games       map[addr.Addr]string
	subscribers map[addr.Addr]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		games:       make(map[addr.Addr]string),
		subscribers: make(map[addr.Addr]struct{}),
	}
}

// Actor is the bollywood.Actor driving the metaserver: it owns a Registry
// and the UDP socket it was handed, and reacts to the inbound packets
// forwarded to it (spec §4.8).
type Actor struct {
	reg    *Registry
	socket *netsock.Socket
}

// NewProducer returns a bollywood.Producer that spawns a metaserver actor
// bound to socket.
func NewProducer(socket *netsock.Socket) bollywood.Producer {
	return NewProducerWithRegistry(NewRegistry(), socket)
}

// NewProducerWithRegistry is NewProducer for a caller that needs to keep
// its own reference to reg -- e.g. cmd/metaserver's read-only HTTP
// diagnostics surface, which reads the registry from outside the actor's
// goroutine the same way Actor.Games() does.
func NewProducerWithRegistry(reg *Registry, socket *netsock.Socket) bollywood.Producer {
	return func() bollywood.Actor {
		return &Actor{reg: reg, socket: socket}
	}
}

// Snapshot returns a copy of the currently advertised games, safe to call
// from any goroutine.
func (r *Registry) Snapshot() map[addr.Addr]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[addr.Addr]string, len(r.games))
	for k, v := range r.games {
		out[k] = v
	}
	return out
}

// PacketMessage wraps one inbound UDP datagram for delivery into the
// actor's mailbox, the same shape the reader goroutine in cmd/metaserver
// forwards from netsock.Socket.Listen's on_packet callback.
type PacketMessage struct {
	Packet netsock.Packet
}

func (a *Actor) Receive(ctx bollywood.Context) {
	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		log.Printf("metaserver: started")
	case bollywood.Stopping:
		log.Printf("metaserver: stopping, %d games, %d subscribers", len(a.reg.games), len(a.reg.subscribers))
	case PacketMessage:
		a.handlePacket(msg.Packet)
	}
}

func (a *Actor) handlePacket(pkt netsock.Packet) {
	action, err := wire.PeekMSAction(pkt.Payload)
	if err != nil {
		metrics.RecordPacketDropped("bad_discriminator")
		return
	}

	switch action {
	case wire.MSHello:
		if _, err := wire.DecodeMetaserverHello(pkt.Payload); err != nil {
			metrics.RecordPacketDropped("truncated")
			return
		}
		a.reg.mu.Lock()
		a.reg.subscribers[pkt.Src] = struct{}{}
		a.reg.mu.Unlock()
		metrics.RecordPacketReceived("metaserver")

	case wire.MSHostGame:
		hello, err := wire.DecodeMetaserverHello(pkt.Payload)
		if err != nil {
			metrics.RecordPacketDropped("truncated")
			return
		}
		a.reg.mu.Lock()
		a.reg.games[pkt.Src] = hello.Name
		gameCount := len(a.reg.games)
		a.reg.mu.Unlock()
		metrics.SetGamesHosted(gameCount)
		metrics.RecordPacketReceived("metaserver")
		a.broadcast(wire.MetaserverResponse{Action: wire.MSHostGame, Host: pkt.Src, Name: hello.Name})

	case wire.MSUnhostGame:
		a.reg.mu.Lock()
		delete(a.reg.games, pkt.Src)
		gameCount := len(a.reg.games)
		a.reg.mu.Unlock()
		metrics.SetGamesHosted(gameCount)
		metrics.RecordPacketReceived("metaserver")
		a.broadcast(wire.MetaserverResponse{Action: wire.MSUnhostGame, Host: pkt.Src, Name: ""})
	}
}

// broadcast sends resp to every known subscriber (spec §4.8).
func (a *Actor) broadcast(resp wire.MetaserverResponse) {
	payload := resp.Encode()
	a.reg.mu.Lock()
	subs := make([]addr.Addr, 0, len(a.reg.subscribers))
	for sub := range a.reg.subscribers {
		subs = append(subs, sub)
	}
	a.reg.mu.Unlock()

	for _, sub := range subs {
		if err := a.socket.Send(sub, payload); err != nil {
			log.Printf("metaserver: broadcast to %s failed: %v", sub, err)
			continue
		}
		metrics.RecordBroadcastSent()
	}
}

// Games returns a snapshot copy of the currently advertised games, read
// under the registry's mutex.
func (a *Actor) Games() map[addr.Addr]string {
	a.reg.mu.Lock()
	defer a.reg.mu.Unlock()
	out := make(map[addr.Addr]string, len(a.reg.games))
	for k, v := range a.reg.games {
		out[k] = v
	}
	return out
}
