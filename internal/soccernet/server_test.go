package soccernet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoden8/mini-fifa-sub000/internal/addr"
	"github.com/theoden8/mini-fifa-sub000/internal/config"
	"github.com/theoden8/mini-fifa-sub000/internal/kinematics"
	"github.com/theoden8/mini-fifa-sub000/internal/netsock"
	"github.com/theoden8/mini-fifa-sub000/internal/soccer"
	"github.com/theoden8/mini-fifa-sub000/internal/wire"
)

func newTestMatch(t *testing.T) *soccer.Soccer {
	t.Helper()
	cfg := config.Fast()
	positions := []kinematics.Vec3{{X: -5}, {X: 5}}
	return soccer.New(cfg, 1, 1, positions, kinematics.Vec3{}, time.Now())
}

func TestDispatchUnknownSourceIsDropped(t *testing.T) {
	match := newTestMatch(t)
	sock, err := netsock.Bind(0, wire.MaxDatagramSize)
	require.NoError(t, err)
	t.Cleanup(func() { sock.Close() })

	srv := NewServer(match, sock)
	action := wire.GameAction{Kind: wire.ActionS}
	srv.Dispatch(time.Now(), netsock.Packet{Src: addr.Addr{IP: 1, Port: 1}, Payload: action.Encode()})

	// SAction on player 0 would normally stop it; since the source wasn't
	// registered to any player, nothing should have happened -- no panic,
	// no crash, and Soccer stays reachable.
	assert.NotNil(t, match)
}

func TestDispatchSActionStopsRegisteredPlayer(t *testing.T) {
	match := newTestMatch(t)
	sock, err := netsock.Bind(0, wire.MaxDatagramSize)
	require.NoError(t, err)
	t.Cleanup(func() { sock.Close() })

	srv := NewServer(match, sock)
	src := addr.Addr{IP: 7, Port: 7}
	srv.Register(src, 0)
	match.Players[0].Unit.Dest = kinematics.Vec3{X: 10}

	action := wire.GameAction{Kind: wire.ActionS}
	srv.Dispatch(time.Now(), netsock.Packet{Src: src, Payload: action.Encode()})
	assert.Equal(t, match.Players[0].Unit.Pos, match.Players[0].Unit.Dest)
}

func TestDispatchCActionFacesDestination(t *testing.T) {
	match := newTestMatch(t)
	sock, err := netsock.Bind(0, wire.MaxDatagramSize)
	require.NoError(t, err)
	t.Cleanup(func() { sock.Close() })

	srv := NewServer(match, sock)
	src := addr.Addr{IP: 8, Port: 8}
	srv.Register(src, 1)
	match.Players[1].Unit.FacingDest = 1

	action := wire.GameAction{Kind: wire.ActionC, Dest: [3]float32{10, 0, 0}}
	srv.Dispatch(time.Now(), netsock.Packet{Src: src, Payload: action.Encode()})
	assert.InDelta(t, 0, match.Players[1].Unit.FacingDest, 1e-9)
}

func TestDispatchTruncatedPayloadDropped(t *testing.T) {
	match := newTestMatch(t)
	sock, err := netsock.Bind(0, wire.MaxDatagramSize)
	require.NoError(t, err)
	t.Cleanup(func() { sock.Close() })

	srv := NewServer(match, sock)
	src := addr.Addr{IP: 9, Port: 9}
	srv.Register(src, 0)

	srv.Dispatch(time.Now(), netsock.Packet{Src: src, Payload: []byte{byte(wire.ActionZ)}})
	assert.True(t, match.Players[0].CanPass())
}

func TestLocalIntelligenceZActionDeactivatesNothingButDispatches(t *testing.T) {
	match := newTestMatch(t)
	now := time.Now()
	li := NewLocalIntelligence(match, 0, func() time.Time { return now })

	li.SAction()
	li.MAction(kinematics.Vec3{X: 1, Y: 1})
	li.FAction(0.5)
	li.VAction()
	li.ZAction()
	li.CAction(kinematics.Vec3{X: 2})
	li.XAction(0.1)

	assert.False(t, li.HasQuit())
}

func TestLocalIntelligenceLeaveDeactivatesPlayer(t *testing.T) {
	match := newTestMatch(t)
	li := NewLocalIntelligence(match, 0, time.Now)

	li.Leave()

	match.Lock()
	defer match.Unlock()
	assert.False(t, match.Players[0].Active)
}
