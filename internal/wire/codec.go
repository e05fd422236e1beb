package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"

	"github.com/theoden8/mini-fifa-sub000/internal/addr"
)

// ErrTruncated is returned when a datagram is shorter than the struct it
// is being decoded as.
var ErrTruncated = errors.New("wire: truncated datagram")

// ErrInvalidDiscriminator is returned when the leading enum byte of a
// datagram is outside its declared range (spec §6: "receivers MUST
// validate the byte lies in the declared enum range").
var ErrInvalidDiscriminator = errors.New("wire: invalid discriminator byte")

func putName(buf *bytes.Buffer, name string) {
	raw := make([]byte, nameFieldSize)
	n := len(name)
	if n > nameFieldSize-1 {
		n = nameFieldSize - 1
	}
	copy(raw, name[:n])
	buf.Write(raw) // remaining bytes are already zero, guaranteeing a NUL at 29
}

func getName(r *bytes.Reader) (string, error) {
	raw := make([]byte, nameFieldSize)
	n, _ := r.Read(raw)
	if n < nameFieldSize {
		return "", ErrTruncated
	}
	raw[nameFieldSize-1] = 0
	end := bytes.IndexByte(raw, 0)
	if end < 0 {
		end = nameFieldSize - 1
	}
	return string(raw[:end]), nil
}

func putAddr(buf *bytes.Buffer, a addr.Addr) {
	binary.Write(buf, binary.BigEndian, a.IP)
	binary.Write(buf, binary.BigEndian, a.Port)
}

func getAddr(r *bytes.Reader) (addr.Addr, error) {
	var a addr.Addr
	if err := binary.Read(r, binary.BigEndian, &a.IP); err != nil {
		return a, ErrTruncated
	}
	if err := binary.Read(r, binary.BigEndian, &a.Port); err != nil {
		return a, ErrTruncated
	}
	return a, nil
}

// PeekMSAction returns the leading MSAction byte of a datagram without
// consuming it, validating it lies in range.
func PeekMSAction(data []byte) (MSAction, error) {
	if len(data) < 1 {
		return 0, ErrTruncated
	}
	a := MSAction(data[0])
	if !a.IsValid() {
		return 0, ErrInvalidDiscriminator
	}
	return a, nil
}

// PeekLobbyAction returns the leading LobbyAction byte of a datagram
// without consuming it, validating it lies in range.
func PeekLobbyAction(data []byte) (LobbyAction, error) {
	if len(data) < 1 {
		return 0, ErrTruncated
	}
	a := LobbyAction(data[0])
	if !a.IsValid() {
		return 0, ErrInvalidDiscriminator
	}
	return a, nil
}

// --- MetaserverHello ---

func (m MetaserverHello) Encode() []byte {
	buf := &bytes.Buffer{}
	buf.WriteByte(byte(m.Action))
	putName(buf, m.Name)
	return buf.Bytes()
}

func DecodeMetaserverHello(data []byte) (MetaserverHello, error) {
	var m MetaserverHello
	action, err := PeekMSAction(data)
	if err != nil {
		return m, err
	}
	m.Action = action
	r := bytes.NewReader(data[1:])
	name, err := getName(r)
	if err != nil {
		return m, err
	}
	m.Name = name
	return m, nil
}

// --- MetaserverResponse ---

func (m MetaserverResponse) Encode() []byte {
	buf := &bytes.Buffer{}
	buf.WriteByte(byte(m.Action))
	putAddr(buf, m.Host)
	putName(buf, m.Name)
	return buf.Bytes()
}

func DecodeMetaserverResponse(data []byte) (MetaserverResponse, error) {
	var m MetaserverResponse
	action, err := PeekMSAction(data)
	if err != nil {
		return m, err
	}
	m.Action = action
	r := bytes.NewReader(data[1:])
	host, err := getAddr(r)
	if err != nil {
		return m, err
	}
	m.Host = host
	name, err := getName(r)
	if err != nil {
		return m, err
	}
	m.Name = name
	return m, nil
}

// --- LobbyHello ---

func (h LobbyHello) Encode() []byte {
	return []byte{byte(h.Action)}
}

func DecodeLobbyHello(data []byte) (LobbyHello, error) {
	action, err := PeekLobbyAction(data)
	if err != nil {
		return LobbyHello{}, err
	}
	return LobbyHello{Action: action}, nil
}

// --- LobbyQueryMsg ---

func (q LobbyQueryMsg) Encode() []byte {
	buf := &bytes.Buffer{}
	buf.WriteByte(byte(LobbyQuery))
	putAddr(buf, q.Target)
	return buf.Bytes()
}

func DecodeLobbyQuery(data []byte) (LobbyQueryMsg, error) {
	var q LobbyQueryMsg
	action, err := PeekLobbyAction(data)
	if err != nil {
		return q, err
	}
	q.Action = action
	r := bytes.NewReader(data[1:])
	target, err := getAddr(r)
	if err != nil {
		return q, err
	}
	q.Target = target
	return q, nil
}

// --- LobbyQueryResponse (no leading discriminator: receive site already
// knows the shape from context, per spec §4.6's "at most one payload
// layout per receive site") ---

func (resp LobbyQueryResponse) Encode() []byte {
	buf := &bytes.Buffer{}
	putAddr(buf, resp.Target)
	if resp.Active {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	buf.WriteByte(byte(resp.Info.Index))
	buf.WriteByte(byte(resp.Info.Kind))
	buf.WriteByte(byte(resp.Info.Team))
	return buf.Bytes()
}

func DecodeLobbyQueryResponse(data []byte) (LobbyQueryResponse, error) {
	var resp LobbyQueryResponse
	if len(data) < 10 {
		return resp, ErrTruncated
	}
	r := bytes.NewReader(data)
	target, err := getAddr(r)
	if err != nil {
		return resp, err
	}
	resp.Target = target
	activeByte, err := r.ReadByte()
	if err != nil {
		return resp, ErrTruncated
	}
	resp.Active = activeByte != 0
	idx, err := r.ReadByte()
	if err != nil {
		return resp, ErrTruncated
	}
	kind, err := r.ReadByte()
	if err != nil {
		return resp, ErrTruncated
	}
	team, err := r.ReadByte()
	if err != nil {
		return resp, ErrTruncated
	}
	resp.Info = MemberInfo{Index: int8(idx), Kind: IntelligenceKind(kind), Team: int8(team)}
	return resp, nil
}

// --- LobbyStartMsg ---

func (ls LobbyStartMsg) Encode() []byte {
	buf := &bytes.Buffer{}
	buf.WriteByte(byte(LobbyStart))
	buf.WriteByte(byte(ls.Index))
	buf.WriteByte(byte(ls.Team1))
	buf.WriteByte(byte(ls.Team2))
	return buf.Bytes()
}

func DecodeLobbyStart(data []byte) (LobbyStartMsg, error) {
	var ls LobbyStartMsg
	action, err := PeekLobbyAction(data)
	if err != nil {
		return ls, err
	}
	if len(data) < 4 {
		return ls, ErrTruncated
	}
	ls.Action = action
	ls.Index = int8(data[1])
	ls.Team1 = int8(data[2])
	ls.Team2 = int8(data[3])
	return ls, nil
}

// --- GameAction ---

func (g GameAction) Encode() []byte {
	buf := &bytes.Buffer{}
	buf.WriteByte(byte(g.Kind))
	binary.Write(buf, binary.BigEndian, g.ID)
	binary.Write(buf, binary.BigEndian, math.Float32bits(g.Dir))
	for _, c := range g.Dest {
		binary.Write(buf, binary.BigEndian, math.Float32bits(c))
	}
	return buf.Bytes()
}

func DecodeGameAction(data []byte) (GameAction, error) {
	var g GameAction
	if len(data) < 1 {
		return g, ErrTruncated
	}
	kind := GameActionKind(data[0])
	if !kind.IsValid() {
		return g, ErrInvalidDiscriminator
	}
	g.Kind = kind
	r := bytes.NewReader(data[1:])
	if err := binary.Read(r, binary.BigEndian, &g.ID); err != nil {
		return g, ErrTruncated
	}
	var dirBits uint32
	if err := binary.Read(r, binary.BigEndian, &dirBits); err != nil {
		return g, ErrTruncated
	}
	g.Dir = math.Float32frombits(dirBits)
	for i := range g.Dest {
		var bits uint32
		if err := binary.Read(r, binary.BigEndian, &bits); err != nil {
			return g, ErrTruncated
		}
		g.Dest[i] = math.Float32frombits(bits)
	}
	return g, nil
}
