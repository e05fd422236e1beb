package metaserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoden8/mini-fifa-sub000/internal/addr"
	"github.com/theoden8/mini-fifa-sub000/internal/netsock"
	"github.com/theoden8/mini-fifa-sub000/internal/wire"
)

func newTestActor(t *testing.T) (*Actor, *netsock.Socket) {
	t.Helper()
	sock, err := netsock.Bind(0, 256)
	require.NoError(t, err)
	t.Cleanup(func() { sock.Close() })
	return &Actor{reg: NewRegistry(), socket: sock}, sock
}

func TestHelloAddsSubscriber(t *testing.T) {
	a, _ := newTestActor(t)
	src := addr.Addr{IP: 1, Port: 1000}

	a.handlePacket(netsock.Packet{Src: src, Payload: wire.MetaserverHello{Action: wire.MSHello, Name: ""}.Encode()})

	assert.Contains(t, a.reg.subscribers, src)
}

func TestHostGameAddsToRegistry(t *testing.T) {
	a, _ := newTestActor(t)
	src := addr.Addr{IP: 2, Port: 2000}

	a.handlePacket(netsock.Packet{Src: src, Payload: wire.MetaserverHello{Action: wire.MSHostGame, Name: "pitch-1"}.Encode()})

	games := a.Games()
	assert.Equal(t, "pitch-1", games[src])
}

func TestUnhostGameRemovesFromRegistry(t *testing.T) {
	a, _ := newTestActor(t)
	src := addr.Addr{IP: 3, Port: 3000}
	a.handlePacket(netsock.Packet{Src: src, Payload: wire.MetaserverHello{Action: wire.MSHostGame, Name: "pitch-2"}.Encode()})
	require.Contains(t, a.Games(), src)

	a.handlePacket(netsock.Packet{Src: src, Payload: wire.MetaserverHello{Action: wire.MSUnhostGame, Name: ""}.Encode()})

	assert.NotContains(t, a.Games(), src)
}

func TestBadDiscriminatorDropsPacket(t *testing.T) {
	a, _ := newTestActor(t)
	before := a.Games()

	a.handlePacket(netsock.Packet{Src: addr.Addr{IP: 4, Port: 4000}, Payload: []byte{99}})

	assert.Equal(t, before, a.Games())
}
