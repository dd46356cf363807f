package mcast

import (
	"fmt"
	"net"
	"net/netip"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/net/ipv4"

	"github.com/castkit/go-mcast/groupreq"
)

// multicastTTL is the hop limit applied to outgoing datagrams. Maximum
// scope: the operator bounds propagation with network topology, not TTL.
const multicastTTL = 255

// maxDatagramSize bounds a single receive.
const maxDatagramSize = 65535

// Role selects the setup protocol applied to a transport's socket.
type Role uint8

const (
	// RoleSource sends datagrams to the group from a connected socket.
	RoleSource Role = iota + 1
	// RoleListener receives any-source group traffic.
	RoleListener
	// RoleSSMListener receives group traffic admitted from one source only.
	RoleSSMListener
)

// Transport wraps exactly one UDP socket configured for a multicast role.
// The role fixes how the socket is set up; Send, Receive and Close behave
// the same for all three. A transport is not safe for concurrent use.
type Transport struct {
	role Role
	conn *net.UDPConn
	p    *ipv4.PacketConn
	dst  *net.UDPAddr

	closed atomic.Bool
}

// NewSource opens a socket bound to (local, ephemeral), raises the multicast
// TTL, and connects it to (group, port) so every Send targets the group
// without re-addressing.
func NewSource(ep Endpoint) (*Transport, error) {
	laddr := &net.UDPAddr{IP: ep.Local().AsSlice()}
	conn, err := net.DialUDP("udp4", laddr, ep.groupUDPAddr())
	if err != nil {
		return nil, sockErr("dial group", err)
	}
	p := ipv4.NewPacketConn(conn)
	if err := p.SetMulticastTTL(multicastTTL); err != nil {
		_ = conn.Close()
		return nil, sockErr("set multicast ttl", err)
	}
	if err := p.SetMulticastLoopback(true); err != nil {
		_ = conn.Close()
		return nil, sockErr("set multicast loopback", err)
	}
	return &Transport{role: RoleSource, conn: conn, p: p, dst: ep.groupUDPAddr()}, nil
}

// NewListener opens a socket bound to (local, port) with address reuse
// enabled and joins the group with the standard any-source join, on the
// interface holding the local address when one is named.
func NewListener(ep Endpoint) (*Transport, error) {
	conn, err := listenUDP4(ep)
	if err != nil {
		return nil, sockErr("bind", err)
	}
	ifi, err := joinInterface(ep.Local())
	if err != nil {
		_ = conn.Close()
		return nil, sockErr("resolve join interface", err)
	}
	p := ipv4.NewPacketConn(conn)
	if err := p.JoinGroup(ifi, &net.UDPAddr{IP: ep.Group().AsSlice()}); err != nil {
		_ = conn.Close()
		return nil, sockErr("join group", err)
	}
	return &Transport{role: RoleListener, conn: conn, p: p, dst: ep.groupUDPAddr()}, nil
}

// NewSSMListener opens a socket bound to (local, port) and joins the group
// with a source filter: only datagrams sent by source are admitted. The
// group-source membership option is keyed by interface index, so the local
// address must resolve to an interface; failure wraps ErrNoSuchInterface.
func NewSSMListener(ep Endpoint, source netip.Addr) (*Transport, error) {
	if !source.Is4() {
		return nil, fmt.Errorf("source address %s: %w", source, ErrInvalidArgument)
	}
	conn, err := listenUDP4(ep)
	if err != nil {
		return nil, sockErr("bind", err)
	}
	index, err := InterfaceIndex(ep.Local())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	req := &groupreq.Request{
		InterfaceIndex: uint32(index),
		Group:          ep.Group(),
		Source:         source,
	}
	if err := joinSourceGroup(conn, req); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := attachSourceFilter(conn, source); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &Transport{role: RoleSSMListener, conn: conn, p: ipv4.NewPacketConn(conn), dst: ep.groupUDPAddr()}, nil
}

// joinInterface maps the local address to the interface handed to the
// any-source join. Unspecified means the OS picks.
func joinInterface(local netip.Addr) (*net.Interface, error) {
	if local.IsUnspecified() {
		return nil, nil
	}
	index, err := InterfaceIndex(local)
	if err != nil {
		return nil, err
	}
	return net.InterfaceByIndex(index)
}

// Role reports which setup protocol built this transport.
func (t *Transport) Role() Role { return t.role }

// LocalAddr returns the socket's bound address.
func (t *Transport) LocalAddr() net.Addr { return t.conn.LocalAddr() }

// Send transmits payload as one datagram. Sources write on the connected
// socket; listeners address the group explicitly.
func (t *Transport) Send(payload []byte) error {
	var (
		n   int
		err error
	)
	if t.role == RoleSource {
		n, err = t.conn.Write(payload)
	} else {
		n, err = t.conn.WriteToUDP(payload, t.dst)
	}
	if err != nil {
		return sockErr("send", err)
	}
	if n != len(payload) {
		return sockErr("send", fmt.Errorf("short write: %d of %d bytes", n, len(payload)))
	}
	return nil
}

// Receive blocks until a datagram arrives or the socket closes, returning
// the payload and the sender's endpoint.
func (t *Transport) Receive() ([]byte, net.Addr, error) {
	buf := make([]byte, maxDatagramSize)
	n, _, src, err := t.p.ReadFrom(buf)
	if err != nil {
		return nil, nil, sockErr("receive", err)
	}
	return buf[:n:n], src, nil
}

// SetReadDeadline bounds the next Receive.
func (t *Transport) SetReadDeadline(deadline time.Time) error {
	return t.conn.SetReadDeadline(deadline)
}

// Close releases the socket. Safe to call more than once, and on a transport
// whose construction never opened a handle.
func (t *Transport) Close() error {
	if t == nil || t.conn == nil {
		return nil
	}
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	return t.conn.Close()
}
