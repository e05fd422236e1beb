package soccernet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoden8/mini-fifa-sub000/internal/addr"
	"github.com/theoden8/mini-fifa-sub000/internal/kinematics"
	"github.com/theoden8/mini-fifa-sub000/internal/netsock"
	"github.com/theoden8/mini-fifa-sub000/internal/wire"
)

func TestRemoteZActionSendsGameActionToServer(t *testing.T) {
	server, err := netsock.Bind(0, wire.MaxDatagramSize)
	require.NoError(t, err)
	t.Cleanup(func() { server.Close() })

	client, err := netsock.Bind(0, wire.MaxDatagramSize)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	serverAddr := addr.Addr{IP: 0x7f000001, Port: uint16(server.LocalPort())}
	r := NewRemote(client, serverAddr, 3)

	r.ZAction()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		pkt, ok, err := server.Receive()
		require.NoError(t, err)
		if ok {
			action, err := wire.DecodeGameAction(pkt.Payload)
			require.NoError(t, err)
			assert.Equal(t, wire.ActionZ, action.Kind)
			assert.EqualValues(t, 3, action.ID)
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for game_action packet")
}

func TestRemoteLeaveStopsFurtherLogic(t *testing.T) {
	client, err := netsock.Bind(0, wire.MaxDatagramSize)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	r := NewRemote(client, addr.Addr{IP: 1, Port: 1}, 1)
	assert.False(t, r.HasQuit())

	r.Leave()

	assert.True(t, r.HasQuit())
}

func TestRemoteCActionEncodesDestination(t *testing.T) {
	server, err := netsock.Bind(0, wire.MaxDatagramSize)
	require.NoError(t, err)
	t.Cleanup(func() { server.Close() })

	client, err := netsock.Bind(0, wire.MaxDatagramSize)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	serverAddr := addr.Addr{IP: 0x7f000001, Port: uint16(server.LocalPort())}
	r := NewRemote(client, serverAddr, 5)

	r.CAction(kinematics.Vec3{X: 1, Y: 2, Z: 3})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		pkt, ok, err := server.Receive()
		require.NoError(t, err)
		if ok {
			action, err := wire.DecodeGameAction(pkt.Payload)
			require.NoError(t, err)
			assert.Equal(t, wire.ActionC, action.Kind)
			assert.InDelta(t, 1, action.Dest[0], 0.0001)
			assert.InDelta(t, 2, action.Dest[1], 0.0001)
			assert.InDelta(t, 3, action.Dest[2], 0.0001)
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for game_action packet")
}
