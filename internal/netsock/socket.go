// Package netsock implements the non-blocking UDP datagram socket described
// in spec §4.7: send/receive never block the caller, and Listen drains every
// available datagram between idle ticks rather than waiting on one.
//
// The read loop is grounded on the polling idiom used by
// Ancillary-AGI-foundry's networking/server: a short SetReadDeadline turns a
// blocking ReadFromUDP into a pollable one, so a single goroutine can serve
// both the network and a tick timer without an async runtime.
package netsock

import (
	"errors"
	"net"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/time/rate"

	"github.com/theoden8/mini-fifa-sub000/internal/addr"
)

// ErrDatagramTooLarge is returned by Send when payload would not fit in a
// single UDP datagram under MaxDatagramSize.
var ErrDatagramTooLarge = errors.New("netsock: datagram exceeds max size")

// pollInterval bounds how long a single ReadFromUDP call may block before
// Listen gets a chance to run on_idle again.
const pollInterval = 20 * time.Millisecond

// Packet is one received datagram plus its source address (spec §4.7's
// "blob").
type Packet struct {
	Src     addr.Addr
	Payload []byte
}

// Socket is a non-blocking UDP endpoint bound to a single local port.
type Socket struct {
	conn       *net.UDPConn
	pc         *ipv4.PacketConn
	maxSize    int
	limiter    *rate.Limiter // nil disables per-packet global throttling
	buf        []byte
}

// Option configures a Socket at construction time.
type Option func(*Socket)

// WithTTL sets the outgoing IPv4 TTL on every datagram sent from this
// socket, via golang.org/x/net/ipv4's PacketConn control messages.
func WithTTL(ttl int) Option {
	return func(s *Socket) {
		if s.pc != nil {
			_ = s.pc.SetTTL(ttl)
		}
	}
}

// WithRateLimit caps the number of datagrams Listen will hand to on_packet
// per second, independent of per-source limiting a caller may layer on top.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Socket) {
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// Bind opens a UDP socket on the given local port (0 picks an ephemeral
// port) with the given maximum datagram size, per spec §4.7/§4.6.
func Bind(port int, maxSize int, opts ...Option) (*Socket, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, err
	}
	s := &Socket{
		conn:    conn,
		pc:      ipv4.NewPacketConn(conn),
		maxSize: maxSize,
		buf:     make([]byte, maxSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// LocalPort returns the bound local UDP port.
func (s *Socket) LocalPort() int {
	return s.conn.LocalAddr().(*net.UDPAddr).Port
}

// Close releases the underlying socket.
func (s *Socket) Close() error {
	return s.conn.Close()
}

// Send issues exactly one sendto, failing without partial writes if payload
// does not fit in a single datagram (spec §4.7).
func (s *Socket) Send(to addr.Addr, payload []byte) error {
	if len(payload) > s.maxSize {
		return ErrDatagramTooLarge
	}
	_, err := s.conn.WriteToUDP(payload, to.UDPAddr())
	return err
}

// Receive returns one datagram and its source, or (Packet{}, false, nil)
// if none is currently available ("would block" in spec §4.7).
func (s *Socket) Receive() (Packet, bool, error) {
	s.conn.SetReadDeadline(time.Now().Add(1 * time.Millisecond))
	n, src, err := s.conn.ReadFromUDP(s.buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return Packet{}, false, nil
		}
		return Packet{}, false, err
	}
	payload := make([]byte, n)
	copy(payload, s.buf[:n])
	return Packet{Src: addr.FromUDP(src), Payload: payload}, true, nil
}

// Listen drives the spec §4.7 loop: call onIdle(); drain every datagram
// currently available, invoking onPacket(blob) for each; both callbacks
// return a continue flag. Listen returns when either callback returns
// false, or when a non-timeout socket error occurs.
func (s *Socket) Listen(onIdle func() bool, onPacket func(Packet) bool) error {
	for {
		if !onIdle() {
			return nil
		}
		for {
			s.conn.SetReadDeadline(time.Now().Add(pollInterval))
			n, src, err := s.conn.ReadFromUDP(s.buf)
			if err != nil {
				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					break // drained; back to on_idle
				}
				return err
			}
			if s.limiter != nil && !s.limiter.Allow() {
				continue // dropped: over the configured datagram budget
			}
			payload := make([]byte, n)
			copy(payload, s.buf[:n])
			if !onPacket(Packet{Src: addr.FromUDP(src), Payload: payload}) {
				return nil
			}
		}
	}
}
