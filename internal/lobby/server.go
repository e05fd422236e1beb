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

// State is the LobbyServer's DEFAULT/STARTED/QUIT state machine (spec
// §4.9's "terminal states trigger exactly one outbound broadcast").
type State int

const (
	StateDefault State = iota
	StateStarted
	StateQuit
)

const (
	keySendHelloMservers = iota
	keySendHelloUsers
	keyCheckStatuses
)

// TickMessage drives the LobbyServer's periodic timers; the owning
// cmd/metaserver or cmd/client wiring forwards one per simulation tick.
type TickMessage struct {
	Time time.Time
}

// PacketMessage wraps one inbound UDP datagram, forwarded by the socket
// reader goroutine into the actor mailbox.
type PacketMessage struct {
	Packet netsock.Packet
}

// StartCommand triggers action_start (spec §4.9).
type StartCommand struct {
	Time time.Time
}

// LeaveCommand triggers action_leave / quit (spec §4.9).
type LeaveCommand struct {
	Time time.Time
}

// ServerActor owns one Lobby and the UDP socket it listens on.
type ServerActor struct {
	lobby        *Lobby
	socket       *netsock.Socket
	metaservers  []addr.Addr
	cfg          config.Config
	timer        *timer.Timer
	userActivity map[addr.Addr]time.Time
	state        State
	team1Size    int
	team2Size    int
}

// NewServerProducer returns a bollywood.Producer spawning a LobbyServer
// bound to socket, advertising itself to metaservers, with the host
// participant pre-added at index 0 (spec §4.9's "host() reserved key").
func NewServerProducer(cfg config.Config, socket *netsock.Socket, metaservers []addr.Addr, now time.Time) bollywood.Producer {
	l := New()
	l.Add(addr.Any, wire.KindServer)
	return NewServerProducerWithLobby(cfg, l, socket, metaservers, now)
}

// NewServerProducerWithLobby is NewServerProducer for a caller that needs
// to keep its own reference to l -- e.g. internal/match, which reads
// lobby membership back out to keep a soccernet.Server's client roster in
// sync. l should already have its host participant added.
func NewServerProducerWithLobby(cfg config.Config, l *Lobby, socket *netsock.Socket, metaservers []addr.Addr, now time.Time) bollywood.Producer {
	return func() bollywood.Actor {
		tm := timer.New(now)
		tm.SetTimeout(keySendHelloMservers, cfg.HelloPeriod)
		tm.SetTimeout(keySendHelloUsers, cfg.HelloPeriod)
		tm.SetTimeout(keyCheckStatuses, cfg.CheckPeriod)

		return &ServerActor{
			lobby:        l,
			socket:       socket,
			metaservers:  metaservers,
			cfg:          cfg,
			timer:        tm,
			userActivity: make(map[addr.Addr]time.Time),
		}
	}
}

func (a *ServerActor) Receive(ctx bollywood.Context) {
	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		log.Printf("lobby server: started")
	case bollywood.Stopping:
		a.actionLeave(a.timer.Now())
	case TickMessage:
		a.onTick(msg.Time)
	case PacketMessage:
		a.onPacket(msg.Packet)
	case StartCommand:
		a.actionStart(msg.Time)
	case LeaveCommand:
		a.actionLeave(msg.Time)
	}
	metrics.SetLobbyMembers(a.lobby.Len())
}

func (a *ServerActor) onTick(t time.Time) {
	a.timer.SetTime(t)

	a.timer.Periodic(keySendHelloMservers, func() {
		payload := wire.MetaserverHello{Action: wire.MSHello}.Encode()
		for _, ms := range a.metaservers {
			if err := a.socket.Send(ms, payload); err != nil {
				log.Printf("lobby server: hello to metaserver %s failed: %v", ms, err)
			}
		}
	})

	a.timer.Periodic(keySendHelloUsers, func() {
		members := a.lobby.Addrs()
		if len(members) == 0 {
			return
		}
		if rand.Intn(3) == 0 {
			pick := members[rand.Intn(len(members))]
			m, _ := a.lobby.Get(pick)
			resp := wire.LobbyQueryResponse{Target: pick, Active: true, Info: wire.MemberInfo{Index: m.Index, Kind: m.Kind, Team: m.Team}}
			a.broadcastPayload(resp.Encode())
		} else {
			a.broadcastPayload(wire.LobbyHello{Action: wire.LobbyNothing}.Encode())
		}
	})

	a.timer.Periodic(keyCheckStatuses, func() {
		cutoff := t.Add(-a.cfg.UserTimeout)
		for _, member := range a.lobby.Addrs() {
			if member.IsAny() {
				continue // host is never kicked
			}
			last, ok := a.userActivity[member]
			if !ok || last.Before(cutoff) {
				a.kick(member)
			}
		}
	})
}

func (a *ServerActor) onPacket(pkt netsock.Packet) {
	a.userActivity[pkt.Src] = a.timer.Now()

	action, err := wire.PeekLobbyAction(pkt.Payload)
	if err != nil {
		metrics.RecordPacketDropped("bad_discriminator")
		return
	}

	switch action {
	case wire.LobbyConnect:
		m := a.lobby.Add(pkt.Src, wire.KindRemote)
		resp := wire.LobbyQueryResponse{Target: pkt.Src, Active: true, Info: wire.MemberInfo{Index: m.Index, Kind: m.Kind, Team: m.Team}}
		a.broadcastPayload(resp.Encode())
		metrics.RecordPacketReceived("lobby")

	case wire.LobbyDisconnect:
		a.kick(pkt.Src)
		metrics.RecordPacketReceived("lobby")

	case wire.LobbyQuery:
		q, err := wire.DecodeLobbyQuery(pkt.Payload)
		if err != nil {
			metrics.RecordPacketDropped("truncated")
			return
		}
		m, ok := a.lobby.Get(q.Target)
		resp := wire.LobbyQueryResponse{Target: q.Target, Active: ok, Info: wire.MemberInfo{Index: m.Index, Kind: m.Kind, Team: m.Team}}
		if err := a.socket.Send(pkt.Src, resp.Encode()); err != nil {
			log.Printf("lobby server: query reply to %s failed: %v", pkt.Src, err)
		}
		metrics.RecordPacketReceived("lobby")

	default:
		// Other lobby actions ignored (spec §4.9).
	}
}

func (a *ServerActor) kick(target addr.Addr) {
	if _, ok := a.lobby.Remove(target); !ok {
		return
	}
	delete(a.userActivity, target)
	resp := wire.LobbyQueryResponse{Target: target, Active: false}
	a.broadcastPayload(resp.Encode())
}

func (a *ServerActor) broadcastPayload(payload []byte) {
	for _, member := range a.lobby.Addrs() {
		if member.IsAny() {
			continue // the host has no socket to send itself a datagram
		}
		if err := a.socket.Send(member, payload); err != nil {
			log.Printf("lobby server: broadcast to %s failed: %v", member, err)
		}
	}
}

// actionStart transitions DEFAULT -> STARTED, unicasting lobby_start to
// every non-host member exactly once (spec §4.9).
func (a *ServerActor) actionStart(t time.Time) {
	if a.state != StateDefault {
		return
	}
	a.state = StateStarted

	t1, t2 := a.lobby.TeamCounts()
	a.team1Size, a.team2Size = t1, t2

	for _, member := range a.lobby.Addrs() {
		if member.IsAny() {
			continue
		}
		m, _ := a.lobby.Get(member)
		msg := wire.LobbyStartMsg{Action: wire.LobbyStart, Index: m.Index, Team1: int8(t1), Team2: int8(t2)}
		if err := a.socket.Send(member, msg.Encode()); err != nil {
			log.Printf("lobby server: start to %s failed: %v", member, err)
		}
	}
}

// actionLeave transitions DEFAULT -> QUIT, unicasting lobby_hello{UNHOST}
// to every member and metaserver_hello{UNHOST_GAME} to every configured
// metaserver, exactly once (spec §4.9).
func (a *ServerActor) actionLeave(t time.Time) {
	if a.state == StateQuit {
		return
	}
	a.state = StateQuit

	unhost := wire.LobbyHello{Action: wire.LobbyUnhost}.Encode()
	for _, member := range a.lobby.Addrs() {
		if member.IsAny() {
			continue
		}
		if err := a.socket.Send(member, unhost); err != nil {
			log.Printf("lobby server: unhost to %s failed: %v", member, err)
		}
	}

	msUnhost := wire.MetaserverHello{Action: wire.MSUnhostGame}.Encode()
	for _, ms := range a.metaservers {
		if err := a.socket.Send(ms, msUnhost); err != nil {
			log.Printf("lobby server: metaserver unhost to %s failed: %v", ms, err)
		}
	}
}

// State returns the server's current DEFAULT/STARTED/QUIT state.
func (a *ServerActor) State() State { return a.state }
