package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoden8/mini-fifa-sub000/internal/addr"
)

func TestMetaserverHelloRoundtrip(t *testing.T) {
	m := MetaserverHello{Action: MSHello, Name: "my-pitch"}
	got, err := DecodeMetaserverHello(m.Encode())
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestMetaserverResponseRoundtrip(t *testing.T) {
	m := MetaserverResponse{Action: MSHostGame, Host: addr.Addr{IP: 0x01020304, Port: 5678}, Name: "arena"}
	got, err := DecodeMetaserverResponse(m.Encode())
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestLobbyHelloRoundtrip(t *testing.T) {
	h := LobbyHello{Action: LobbyConnect}
	got, err := DecodeLobbyHello(h.Encode())
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestLobbyQueryRoundtrip(t *testing.T) {
	q := LobbyQueryMsg{Action: LobbyQuery, Target: addr.Addr{IP: 42, Port: 9}}
	got, err := DecodeLobbyQuery(q.Encode())
	require.NoError(t, err)
	assert.Equal(t, q, got)
}

func TestLobbyQueryResponseRoundtrip(t *testing.T) {
	r := LobbyQueryResponse{
		Target: addr.Addr{IP: 7, Port: 11},
		Active: true,
		Info:   MemberInfo{Index: 2, Kind: KindRemote, Team: 1},
	}
	got, err := DecodeLobbyQueryResponse(r.Encode())
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestLobbyStartRoundtrip(t *testing.T) {
	ls := LobbyStartMsg{Action: LobbyStart, Index: 3, Team1: 2, Team2: 2}
	got, err := DecodeLobbyStart(ls.Encode())
	require.NoError(t, err)
	assert.Equal(t, ls, got)
}

func TestGameActionRoundtrip(t *testing.T) {
	g := GameAction{Kind: ActionC, ID: 7, Dir: 1.25, Dest: [3]float32{1, 2, 3}}
	got, err := DecodeGameAction(g.Encode())
	require.NoError(t, err)
	assert.Equal(t, g, got)
}

func TestUnknownDiscriminatorRejected(t *testing.T) {
	_, err := DecodeMetaserverHello([]byte{99, 0})
	assert.ErrorIs(t, err, ErrInvalidDiscriminator)

	_, err = DecodeGameAction([]byte{200})
	assert.ErrorIs(t, err, ErrInvalidDiscriminator)
}

func TestTruncatedDatagramRejected(t *testing.T) {
	_, err := DecodeMetaserverHello([]byte{byte(MSHello)})
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = DecodeLobbyStart([]byte{byte(LobbyStart), 1})
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = DecodeGameAction([]byte{})
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestEncodedSizeNeverExceedsMaxDatagram(t *testing.T) {
	m := MetaserverResponse{Action: MSHostGame, Host: addr.Addr{IP: 1, Port: 2}, Name: "x"}
	assert.LessOrEqual(t, len(m.Encode()), MaxDatagramSize)
}
