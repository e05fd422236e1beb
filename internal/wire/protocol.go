// Package wire implements the fixed-size, packed wire protocol described
// in spec §4.6: one enum byte discriminates at most one payload layout
// per receive site, multi-byte integers are network order, strings are
// ASCII NUL-padded.
package wire

import "github.com/theoden8/mini-fifa-sub000/internal/addr"

// MaxDatagramSize is the maximum UDP payload this protocol ever sends or
// accepts (spec §4.6).
const MaxDatagramSize = 256

// GameActionWireSize is the exact encoded length of a GameAction datagram
// (1 discriminator + 4 id + 4 dir + 12 dest bytes). It does not collide
// with any lobby payload's length, so a host sharing one socket between
// its LobbyServer and soccernet.Server can demux purely by datagram
// length before attempting either decode -- see cmd/client's host mode.
const GameActionWireSize = 1 + 4 + 4 + 12

// nameFieldSize is 30 bytes: 29 ASCII bytes + guaranteed NUL at index 29.
const nameFieldSize = 30

// MSAction discriminates metaserver datagrams.
type MSAction uint8

const (
	MSHello MSAction = iota
	MSHostGame
	MSUnhostGame
)

// IsValid reports whether a is a known MSAction.
func (a MSAction) IsValid() bool { return a <= MSUnhostGame }

// LobbyAction discriminates lobby datagrams.
type LobbyAction uint8

const (
	LobbyNothing LobbyAction = iota
	LobbyConnect
	LobbyDisconnect
	LobbyQuery
	LobbyQueryResponse
	LobbyStart
	LobbyUnhost
)

// IsValid reports whether a is a known LobbyAction.
func (a LobbyAction) IsValid() bool { return a <= LobbyUnhost }

// IntelligenceKind tags a lobby participant's action source.
type IntelligenceKind int8

const (
	KindServer IntelligenceKind = iota
	KindRemote
	KindLocalAI
)

// GameActionKind discriminates game_action payloads (spec §4.5/§4.6).
type GameActionKind uint8

const (
	ActionZ GameActionKind = iota
	ActionX
	ActionC
	ActionV
	ActionF
	ActionS
	ActionM
)

// IsValid reports whether k is a known GameActionKind.
func (k GameActionKind) IsValid() bool { return k <= ActionM }

// MetaserverHello is sent by a lobby server to every metaserver it's
// configured with, and by a subscriber to announce itself.
type MetaserverHello struct {
	Action MSAction
	Name   string // truncated/NUL-padded to 29 bytes + NUL on the wire
}

// MetaserverResponse is broadcast by the metaserver to subscribers when a
// game is hosted or unhosted.
type MetaserverResponse struct {
	Action MSAction
	Host   addr.Addr
	Name   string
}

// LobbyHello carries a bare lobby action with no payload (CONNECT,
// DISCONNECT, NOTHING, UNHOST).
type LobbyHello struct {
	Action LobbyAction
}

// LobbyQueryMsg asks the lobby server for the membership entry of target.
type LobbyQueryMsg struct {
	Action LobbyAction // always LobbyQuery
	Target addr.Addr
}

// MemberInfo is a lobby participant's (index, kind, team) triple.
type MemberInfo struct {
	Index int8
	Kind  IntelligenceKind
	Team  int8
}

// LobbyQueryResponse answers a LobbyQueryMsg, or is broadcast on
// join/leave.
type LobbyQueryResponse struct {
	Target addr.Addr
	Active bool
	Info   MemberInfo
}

// LobbyStartMsg tells a member the match is starting and what roster
// shape it joined.
type LobbyStartMsg struct {
	Action LobbyAction // always LobbyStart
	Index  int8
	Team1  int8
	Team2  int8
}

// GameAction carries one player intent (spec §4.5's z/x/c/v/f/s/m
// actions) from a SoccerRemote to a SoccerServer.
type GameAction struct {
	Kind GameActionKind
	ID   int32
	Dir  float32
	Dest [3]float32
}
