package netsock

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoden8/mini-fifa-sub000/internal/addr"
)

func TestSendReceiveRoundtrip(t *testing.T) {
	recv, err := Bind(0, 256)
	require.NoError(t, err)
	defer recv.Close()
	send, err := Bind(0, 256)
	require.NoError(t, err)
	defer send.Close()

	dest := addr.FromUDP(recv.conn.LocalAddr().(*net.UDPAddr))
	payload := []byte("hello pitch")
	require.NoError(t, send.Send(dest, payload))

	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		pkt, ok, err := recv.Receive()
		require.NoError(t, err)
		if ok {
			assert.Equal(t, payload, pkt.Payload)
			return
		}
	}
	t.Fatal("did not receive datagram within deadline")
}

func TestSendRejectsOversizedPayload(t *testing.T) {
	s, err := Bind(0, 8)
	require.NoError(t, err)
	defer s.Close()

	dest := addr.FromUDP(s.conn.LocalAddr().(*net.UDPAddr))
	err = s.Send(dest, make([]byte, 9))
	assert.ErrorIs(t, err, ErrDatagramTooLarge)
}

func TestListenDrainsAllAvailableBeforeReturningToIdle(t *testing.T) {
	recv, err := Bind(0, 256)
	require.NoError(t, err)
	defer recv.Close()
	send, err := Bind(0, 256)
	require.NoError(t, err)
	defer send.Close()

	dest := addr.FromUDP(recv.conn.LocalAddr().(*net.UDPAddr))
	for i := 0; i < 5; i++ {
		require.NoError(t, send.Send(dest, []byte{byte(i)}))
	}

	var received []byte
	idleCalls := 0
	err = recv.Listen(func() bool {
		idleCalls++
		return len(received) < 5 && idleCalls < 200
	}, func(p Packet) bool {
		received = append(received, p.Payload[0])
		return true
	})
	require.NoError(t, err)
	assert.Len(t, received, 5)
}

func TestRateLimitDropsExcessPackets(t *testing.T) {
	recv, err := Bind(0, 256, WithRateLimit(1, 1))
	require.NoError(t, err)
	defer recv.Close()
	send, err := Bind(0, 256)
	require.NoError(t, err)
	defer send.Close()

	dest := addr.FromUDP(recv.conn.LocalAddr().(*net.UDPAddr))
	for i := 0; i < 10; i++ {
		require.NoError(t, send.Send(dest, []byte{byte(i)}))
	}

	var received int
	idleCalls := 0
	_ = recv.Listen(func() bool {
		idleCalls++
		return idleCalls < 5
	}, func(p Packet) bool {
		received++
		return true
	})
	assert.Less(t, received, 10)
}
