package lobby

import (
	"log"
	"math/rand"
	"time"

	"github.com/theoden8/mini-fifa-sub000/internal/addr"
	"github.com/theoden8/mini-fifa-sub000/internal/bollywood"
	"github.com/theoden8/mini-fifa-sub000/internal/config"
	"github.com/theoden8/mini-fifa-sub000/internal/metrics"
	"github.com/theoden8/mini-fifa-sub000/internal/netsock"
	"github.com/theoden8/mini-fifa-sub000/internal/timer"
	"github.com/theoden8/mini-fifa-sub000/internal/wire"
)

const (
	keySendHello = iota
	keyHostActivity
)

// GameMaker records the roster shape a LobbyClient learned from
// lobby_start (spec §4.10).
type GameMaker struct {
	Index int8
	Team1 int8
	Team2 int8
}

// ClientActor owns the connection to a single lobby host.
type ClientActor struct {
	host   addr.Addr
	socket *netsock.Socket
	cfg    config.Config
	timer  *timer.Timer

	members map[addr.Addr]Member
	state   State

	gameMaker *GameMaker
}

// NewClientProducer returns a bollywood.Producer spawning a LobbyClient
// that tracks host.
func NewClientProducer(cfg config.Config, socket *netsock.Socket, host addr.Addr, now time.Time) bollywood.Producer {
	return func() bollywood.Actor {
		tm := timer.New(now)
		tm.SetTimeout(keySendHello, cfg.HelloPeriod)
		tm.SetTimeout(keyHostActivity, cfg.HostTimeout)
		return &ClientActor{
			host:    host,
			socket:  socket,
			cfg:     cfg,
			timer:   tm,
			members: make(map[addr.Addr]Member),
		}
	}
}

func (a *ClientActor) Receive(ctx bollywood.Context) {
	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		log.Printf("lobby client: started, host=%s", a.host)
	case TickMessage:
		a.onTick(msg.Time)
	case PacketMessage:
		a.onPacket(msg.Packet)
	}
}

func (a *ClientActor) onTick(t time.Time) {
	a.timer.SetTime(t)

	a.timer.Periodic(keySendHello, func() {
		if len(a.members) > 0 && rand.Intn(3) == 0 {
			addrs := make([]addr.Addr, 0, len(a.members))
			for m := range a.members {
				addrs = append(addrs, m)
			}
			pick := addrs[rand.Intn(len(addrs))]
			q := wire.LobbyQueryMsg{Action: wire.LobbyQuery, Target: pick}
			if err := a.socket.Send(a.host, q.Encode()); err != nil {
				log.Printf("lobby client: query send failed: %v", err)
			}
		} else {
			hello := wire.LobbyHello{Action: wire.LobbyNothing}
			if err := a.socket.Send(a.host, hello.Encode()); err != nil {
				log.Printf("lobby client: hello send failed: %v", err)
			}
		}
	})

	if a.timer.TimedOut(keyHostActivity) && a.state != StateQuit {
		a.state = StateQuit
	}
}

func (a *ClientActor) onPacket(pkt netsock.Packet) {
	if pkt.Src == a.host {
		a.timer.SetEvent(keyHostActivity)
	}

	// lobby_query_response has no discriminator byte of its own (spec
	// §4.6); it decodes successfully only from a payload of at least its
	// own 10 bytes, which every other lobby payload falls short of, so
	// trying it first before PeekLobbyAction is unambiguous for lobby
	// traffic.
	if resp, err := wire.DecodeLobbyQueryResponse(pkt.Payload); err == nil {
		if resp.Active {
			a.members[resp.Target] = Member{Index: resp.Info.Index, Kind: resp.Info.Kind, Team: resp.Info.Team}
		} else {
			delete(a.members, resp.Target)
		}
		metrics.RecordPacketReceived("lobby")
		return
	}

	action, err := wire.PeekLobbyAction(pkt.Payload)
	if err != nil {
		metrics.RecordPacketDropped("bad_discriminator")
		return
	}

	switch action {
	case wire.LobbyUnhost:
		a.state = StateQuit
		metrics.RecordPacketReceived("lobby")

	case wire.LobbyNothing:
		metrics.RecordPacketReceived("lobby")

	case wire.LobbyStart:
		ls, err := wire.DecodeLobbyStart(pkt.Payload)
		if err != nil {
			metrics.RecordPacketDropped("truncated")
			return
		}
		a.gameMaker = &GameMaker{Index: ls.Index, Team1: ls.Team1, Team2: ls.Team2}
		a.state = StateStarted
		metrics.RecordPacketReceived("lobby")
	}
}

// GameMaker returns the roster shape received via lobby_start, if any.
func (a *ClientActor) GameMaker() *GameMaker { return a.gameMaker }

// State returns the client's current DEFAULT/STARTED/QUIT state.
func (a *ClientActor) State() State { return a.state }

// Members returns a snapshot copy of the client's known-member cache.
func (a *ClientActor) Members() map[addr.Addr]Member {
	out := make(map[addr.Addr]Member, len(a.members))
	for k, v := range a.members {
		out[k] = v
	}
	return out
}
