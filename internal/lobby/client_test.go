package lobby

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoden8/mini-fifa-sub000/internal/addr"
	"github.com/theoden8/mini-fifa-sub000/internal/config"
	"github.com/theoden8/mini-fifa-sub000/internal/netsock"
	"github.com/theoden8/mini-fifa-sub000/internal/wire"
)

func newTestClient(t *testing.T, host addr.Addr) (*ClientActor, *netsock.Socket) {
	t.Helper()
	sock, err := netsock.Bind(0, 256)
	require.NoError(t, err)
	t.Cleanup(func() { sock.Close() })

	cfg := config.Fast()
	producer := NewClientProducer(cfg, sock, host, time.Now())
	return producer().(*ClientActor), sock
}

func TestUnhostFromHostTransitionsToQuit(t *testing.T) {
	host := addr.Addr{IP: 1, Port: 1}
	a, _ := newTestClient(t, host)

	a.onPacket(netsock.Packet{Src: host, Payload: wire.LobbyHello{Action: wire.LobbyUnhost}.Encode()})

	assert.Equal(t, StateQuit, a.State())
}

func TestQueryResponseActiveAddsMember(t *testing.T) {
	host := addr.Addr{IP: 1, Port: 1}
	a, _ := newTestClient(t, host)
	target := addr.Addr{IP: 2, Port: 2}

	resp := wire.LobbyQueryResponse{Target: target, Active: true, Info: wire.MemberInfo{Index: 3, Kind: wire.KindRemote, Team: 1}}
	a.onPacket(netsock.Packet{Src: host, Payload: resp.Encode()})

	members := a.Members()
	m, ok := members[target]
	require.True(t, ok)
	assert.EqualValues(t, 3, m.Index)
	assert.EqualValues(t, 1, m.Team)
}

func TestQueryResponseInactiveRemovesMember(t *testing.T) {
	host := addr.Addr{IP: 1, Port: 1}
	a, _ := newTestClient(t, host)
	target := addr.Addr{IP: 2, Port: 2}
	a.members[target] = Member{Index: 1}

	resp := wire.LobbyQueryResponse{Target: target, Active: false}
	a.onPacket(netsock.Packet{Src: host, Payload: resp.Encode()})

	_, ok := a.Members()[target]
	assert.False(t, ok)
}

func TestLobbyStartRecordsGameMakerAndStateStarted(t *testing.T) {
	host := addr.Addr{IP: 1, Port: 1}
	a, _ := newTestClient(t, host)

	ls := wire.LobbyStartMsg{Action: wire.LobbyStart, Index: 2, Team1: 2, Team2: 2}
	a.onPacket(netsock.Packet{Src: host, Payload: ls.Encode()})

	require.NotNil(t, a.GameMaker())
	assert.EqualValues(t, 2, a.GameMaker().Index)
	assert.Equal(t, StateStarted, a.State())
}

func TestHostActivityTimeoutTransitionsToQuit(t *testing.T) {
	host := addr.Addr{IP: 1, Port: 1}
	a, _ := newTestClient(t, host)
	base := time.Now()
	a.timer.SetTime(base)

	a.onTick(base.Add(a.cfg.HostTimeout + time.Millisecond))

	assert.Equal(t, StateQuit, a.State())
}

func TestHeartbeatFromHostRefreshesActivity(t *testing.T) {
	host := addr.Addr{IP: 1, Port: 1}
	a, _ := newTestClient(t, host)
	base := time.Now()
	a.timer.SetTime(base)

	a.onPacket(netsock.Packet{Src: host, Payload: wire.LobbyHello{Action: wire.LobbyNothing}.Encode()})
	a.onTick(base.Add(a.cfg.HostTimeout / 2))

	assert.NotEqual(t, StateQuit, a.State())
}
