// Command client is the soccer peer binary: with -host it hosts a match
// (advertising to a metaserver, running the authoritative Soccer, and
// rendering its own ASCII radar), and without it joins one (discovering a
// hosted game from the metaserver when -server is not given, then
// submitting player actions over the wire). Per spec §6 it takes no
// required flags.
//
// Grounded on pongoClient/main.go's raw-terminal keyboard loop and signal
// handling, adapted from a single WebSocket dial to UDP lobby-join plus
// game_action submission, and from golang.org/x/net/websocket's duplex
// JSON stream to wire.GameAction datagrams.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/lguibr/asciiring/helpers"
	"golang.org/x/sys/unix"

	"github.com/theoden8/mini-fifa-sub000/internal/addr"
	"github.com/theoden8/mini-fifa-sub000/internal/bollywood"
	"github.com/theoden8/mini-fifa-sub000/internal/config"
	"github.com/theoden8/mini-fifa-sub000/internal/kinematics"
	"github.com/theoden8/mini-fifa-sub000/internal/lobby"
	"github.com/theoden8/mini-fifa-sub000/internal/match"
	"github.com/theoden8/mini-fifa-sub000/internal/netsock"
	"github.com/theoden8/mini-fifa-sub000/internal/soccer"
	"github.com/theoden8/mini-fifa-sub000/internal/soccernet"
	"github.com/theoden8/mini-fifa-sub000/internal/wire"
)

func main() {
	host := flag.Bool("host", false, "host a match and advertise it to the metaserver")
	serverFlag := flag.String("server", "", "host:port to join (if empty, discovered via -metaserver)")
	metaserverFlag := flag.String("metaserver", "127.0.0.1:5678", "metaserver host:port")
	name := flag.String("name", "pitch", "display name advertised to the metaserver when hosting")
	flag.Parse()

	cfg := config.Default()
	metaserver := mustResolve(*metaserverFlag)

	if *host {
		runHost(cfg, []addr.Addr{metaserver}, *name)
		return
	}
	runJoin(cfg, metaserver, *serverFlag)
}

func mustResolve(hostport string) addr.Addr {
	u, err := net.ResolveUDPAddr("udp4", hostport)
	if err != nil {
		log.Fatalf("client: invalid address %q: %v", hostport, err)
	}
	return addr.FromUDP(u)
}

// --- host mode ---

func runHost(cfg config.Config, metaservers []addr.Addr, name string) {
	socket, err := netsock.Bind(0, wire.MaxDatagramSize, netsock.WithTTL(64))
	if err != nil {
		log.Fatalf("client: bind failed: %v", err)
	}
	defer socket.Close()
	fmt.Printf("hosting on UDP :%d\n", socket.LocalPort())

	engine := bollywood.NewEngine()
	mgr := match.NewManager(engine, cfg)
	now := time.Now()
	mt := mgr.HostMatch(socket, metaservers, 1, 1, kickoffPositions(1, 1), kinematics.Vec3{}, now)
	local := soccernet.NewLocalIntelligence(mt.Soccer, 0, time.Now)

	for _, ms := range metaservers {
		hello := wire.MetaserverHello{Action: wire.MSHostGame, Name: name}
		if err := socket.Send(ms, hello.Encode()); err != nil {
			log.Printf("client: host-game advertise to %s failed: %v", ms, err)
		}
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	quit := make(chan struct{})

	go func() {
		socket.Listen(
			func() bool {
				select {
				case <-quit:
					return false
				default:
					return true
				}
			},
			func(pkt netsock.Packet) bool {
				if len(pkt.Payload) == wire.GameActionWireSize {
					mt.Net.Dispatch(time.Now(), pkt)
				} else {
					engine.Send(mt.LobbyPID, lobby.PacketMessage{Packet: pkt}, nil)
				}
				return true
			},
		)
	}()

	go func() {
		ticker := time.NewTicker(cfg.TickPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case t := <-ticker.C:
				mt.Soccer.Idle(t)
				engine.Send(mt.LobbyPID, lobby.TickMessage{Time: t}, nil)
				mt.SyncRoster()
			}
		}
	}()

	go renderLoop(quit, mt.Soccer)

	restore := enterRawMode()
	defer restore()

	go func() {
		<-stop
		close(quit)
	}()

	readKeyboard(quit, local, func() {
		engine.Send(mt.LobbyPID, lobby.StartCommand{Time: time.Now()}, nil)
	})

	restore()
	engine.Shutdown(5 * time.Second)
	os.Exit(0)
}

func kickoffPositions(team1, team2 int) []kinematics.Vec3 {
	positions := make([]kinematics.Vec3, 0, team1+team2)
	for i := 0; i < team1; i++ {
		positions = append(positions, kinematics.Vec3{X: -5, Y: float64(i) * 2, Z: 0})
	}
	for i := 0; i < team2; i++ {
		positions = append(positions, kinematics.Vec3{X: 5, Y: float64(i) * 2, Z: 0})
	}
	return positions
}

// --- join mode ---

func runJoin(cfg config.Config, metaserver addr.Addr, serverFlag string) {
	socket, err := netsock.Bind(0, wire.MaxDatagramSize)
	if err != nil {
		log.Fatalf("client: bind failed: %v", err)
	}
	defer socket.Close()

	var server addr.Addr
	if serverFlag != "" {
		server = mustResolve(serverFlag)
	} else {
		server = discoverGame(socket, metaserver)
	}
	fmt.Printf("joining %s\n", server)

	self := selfAddr(socket, server)
	now := time.Now()
	clientActor := lobby.NewClientProducer(cfg, socket, server, now)().(*lobby.ClientActor)
	var deliverMu sync.Mutex
	deliver := func(msg interface{}) {
		deliverMu.Lock()
		defer deliverMu.Unlock()
		clientActor.Receive(msgContext{msg: msg})
	}

	deliver(bollywood.Started{})
	if err := socket.Send(server, wire.LobbyHello{Action: wire.LobbyConnect}.Encode()); err != nil {
		log.Fatalf("client: join send failed: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	quit := make(chan struct{})

	var remote *soccernet.Remote
	go func() {
		ticker := time.NewTicker(cfg.TickPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case t := <-ticker.C:
				deliver(lobby.TickMessage{Time: t})
				deliverMu.Lock()
				state, members := clientActor.State(), clientActor.Members()
				deliverMu.Unlock()
				if state == lobby.StateQuit {
					close(quit)
					return
				}
				if remote == nil {
					if m, ok := members[self]; ok {
						remote = soccernet.NewRemote(socket, server, int32(m.Index))
						fmt.Printf("assigned player id %d, team %d\n", m.Index, m.Team)
					}
				}
			}
		}
	}()

	go func() {
		socket.Listen(
			func() bool {
				select {
				case <-quit:
					return false
				default:
					return true
				}
			},
			func(pkt netsock.Packet) bool {
				if pkt.Src == server {
					deliver(lobby.PacketMessage{Packet: pkt})
				}
				return true
			},
		)
	}()

	restore := enterRawMode()
	defer restore()
	go func() {
		<-stop
		close(quit)
	}()

	readKeyboardRemote(quit, &remote)

	restore()
	if remote != nil {
		remote.Leave()
	}
	socket.Send(server, wire.LobbyHello{Action: wire.LobbyDisconnect}.Encode())
	os.Exit(0)
}

// discoverGame subscribes to metaserver with a HELLO and returns the host
// of the first HOST_GAME broadcast it receives within a short window.
// Games advertised before the subscription are not reported to it.
func discoverGame(socket *netsock.Socket, metaserver addr.Addr) addr.Addr {
	if err := socket.Send(metaserver, wire.MetaserverHello{Action: wire.MSHello}.Encode()); err != nil {
		log.Fatalf("client: metaserver discovery send failed: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		pkt, ok, err := socket.Receive()
		if err != nil {
			log.Fatalf("client: discovery receive failed: %v", err)
		}
		if !ok {
			time.Sleep(20 * time.Millisecond)
			continue
		}
		resp, err := wire.DecodeMetaserverResponse(pkt.Payload)
		if err != nil {
			continue
		}
		if resp.Action == wire.MSHostGame {
			return resp.Host
		}
	}
	log.Fatalf("client: no hosted game found via %s", metaserver)
	return addr.Addr{}
}

// selfAddr determines the local Addr this socket is observed as by
// server, by asking the OS which local IP would route to it (net.Dial
// picks no actual connection for UDP, just a route lookup) and pairing
// that with the port netsock.Socket actually sends from.
func selfAddr(socket *netsock.Socket, server addr.Addr) addr.Addr {
	conn, err := net.Dial("udp4", server.String())
	if err != nil {
		log.Fatalf("client: could not determine local address: %v", err)
	}
	defer conn.Close()
	local := conn.LocalAddr().(*net.UDPAddr)
	return addr.Addr{IP: addr.FromUDP(&net.UDPAddr{IP: local.IP}).IP, Port: uint16(socket.LocalPort())}
}

// msgContext is a minimal bollywood.Context for driving an actor directly
// from the CLI, without the mailbox/goroutine overhead Engine.Spawn
// brings -- runJoin serialises deliveries from its tick and socket
// goroutines with a mutex instead of a mailbox, and reads State()/Members()
// back under the same mutex between messages, which the actor-mailbox
// model doesn't expose to a caller outside its package.
type msgContext struct {
	msg interface{}
}

func (c msgContext) Engine() *bollywood.Engine { return nil }
func (c msgContext) Self() *bollywood.PID      { return nil }
func (c msgContext) Sender() *bollywood.PID    { return nil }
func (c msgContext) Message() interface{}      { return c.msg }

// --- rendering ---

func renderLoop(quit chan struct{}, match *soccer.Soccer) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			printRadar(match.Snapshot())
		}
	}
}

// printRadar draws an ASCII top-down radar of ball/player positions,
// the same terminal-first presentation pongoClient's render loop gives a
// GameStateUpdate, adapted from a pixel grid to a position snapshot.
func printRadar(snap soccer.Snapshot) {
	const size = 21 // odd, so (0,0) lands on the center cell
	const scale = 1.0
	grid := make([][]byte, size)
	for i := range grid {
		grid[i] = make([]byte, size)
		for j := range grid[i] {
			grid[i][j] = '.'
		}
	}

	plot := func(pos kinematics.Vec3, mark byte) {
		cx := size/2 + int(pos.X/scale)
		cy := size/2 + int(pos.Y/scale)
		if cx >= 0 && cx < size && cy >= 0 && cy < size {
			grid[cy][cx] = mark
		}
	}

	for _, p := range snap.Players {
		mark := byte('r')
		if p.Team == soccer.BlueTeam {
			mark = 'b'
		}
		plot(p.Pos, mark)
	}
	plot(snap.BallPos, 'o')

	helpers.ClearScreen()
	for _, row := range grid {
		fmt.Println(string(row))
	}
}

// --- keyboard ---

func enterRawMode() func() {
	fd := int(os.Stdin.Fd())
	saved, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return func() {}
	}
	raw := *saved
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	unix.IoctlSetTermios(fd, unix.TCSETS, &raw)
	return func() { unix.IoctlSetTermios(fd, unix.TCSETS, saved) }
}

// lobMark is the fixed target readKeyboard/readKeyboardRemote hand to
// c_action/m_action -- this CLI has no pointing device, so c and m always
// aim at the far goal mouth rather than an arbitrary pitch coordinate.
var lobMark = kinematics.Vec3{X: 10, Y: 0, Z: 0}

// intention is intelligence.Intelligence as the keyboard loop drives it;
// LocalIntelligence and Remote both satisfy it.
type intention interface {
	ZAction()
	XAction(dir float64)
	CAction(dest kinematics.Vec3)
	VAction()
	FAction(dir float64)
	SAction()
	MAction(dest kinematics.Vec3)
}

func readKeyboard(quit chan struct{}, in intention, onStart func()) {
	buf := make([]byte, 1)
	for {
		select {
		case <-quit:
			return
		default:
		}
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			continue
		}
		switch buf[0] {
		case 'z', 'Z':
			in.ZAction()
		case 'x', 'X':
			in.XAction(0)
		case 'c', 'C':
			in.CAction(lobMark)
		case 'v', 'V':
			in.VAction()
		case 'f', 'F':
			in.FAction(0)
		case 's', 'S':
			in.SAction()
		case 'm', 'M':
			in.MAction(lobMark)
		case '\r', '\n':
			onStart()
		case 'q', 'Q':
			return
		}
	}
}

func readKeyboardRemote(quit chan struct{}, remote **soccernet.Remote) {
	buf := make([]byte, 1)
	for {
		select {
		case <-quit:
			return
		default:
		}
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			continue
		}
		r := *remote
		if r == nil {
			continue
		}
		switch buf[0] {
		case 'z', 'Z':
			r.ZAction()
		case 'x', 'X':
			r.XAction(0)
		case 'c', 'C':
			r.CAction(lobMark)
		case 'v', 'V':
			r.VAction()
		case 'f', 'F':
			r.FAction(0)
		case 's', 'S':
			r.SAction()
		case 'm', 'M':
			r.MAction(lobMark)
		case 'q', 'Q':
			return
		}
	}
}
