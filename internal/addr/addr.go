// Package addr provides the value-equality network address key used
// throughout the lobby and metaserver layers (spec §3 Addr).
package addr

import (
	"encoding/binary"
	"fmt"
	"net"
)

// Addr is (ip: u32, port: u16) with value equality, suitable for use as a
// map key -- net.UDPAddr is not comparable the same way because of its
// Zone field, so we narrow to the fields the wire protocol actually
// carries.
type Addr struct {
	IP   uint32
	Port uint16
}

// Any is the reserved host key (INADDR_ANY, port 0) used by LobbyServer to
// refer to its own local participant (spec §4.9).
var Any = Addr{IP: 0, Port: 0}

// FromUDP narrows a *net.UDPAddr to the wire-comparable Addr. Only IPv4
// addresses are supported; an address with no IPv4 form yields IP 0,
// which is acceptable for this LAN-discovery protocol.
func FromUDP(u *net.UDPAddr) Addr {
	if u == nil {
		return Addr{}
	}
	ip4 := u.IP.To4()
	var ip uint32
	if ip4 != nil {
		ip = binary.BigEndian.Uint32(ip4)
	}
	return Addr{IP: ip, Port: uint16(u.Port)}
}

// UDPAddr expands Addr back into a *net.UDPAddr suitable for sending.
func (a Addr) UDPAddr() *net.UDPAddr {
	ip := make(net.IP, 4)
	binary.BigEndian.PutUint32(ip, a.IP)
	return &net.UDPAddr{IP: ip, Port: int(a.Port)}
}

func (a Addr) String() string {
	return fmt.Sprintf("%s:%d", a.UDPAddr().IP.String(), a.Port)
}

// IsAny reports whether a is the reserved host key.
func (a Addr) IsAny() bool {
	return a == Any
}
