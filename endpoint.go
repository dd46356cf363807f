package mcast

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
)

// Endpoint holds the validated addressing for one multicast session: the
// local address to bind or send from, the group address, and the UDP port.
// All three fields are fixed at construction.
type Endpoint struct {
	local netip.Addr
	group netip.Addr
	port  uint16
}

// ParseEndpoint builds an Endpoint from raw text. Either address failing to
// parse as an IPv4 literal, or the port falling outside 1-65535, fails the
// whole construction with ErrInvalidArgument.
func ParseEndpoint(localText, groupText, portText string) (Endpoint, error) {
	local, err := parseIPv4(localText)
	if err != nil {
		return Endpoint{}, fmt.Errorf("local address %q: %w", localText, ErrInvalidArgument)
	}
	group, err := parseIPv4(groupText)
	if err != nil {
		return Endpoint{}, fmt.Errorf("group address %q: %w", groupText, ErrInvalidArgument)
	}
	port, err := strconv.ParseUint(portText, 10, 16)
	if err != nil || port == 0 {
		return Endpoint{}, fmt.Errorf("port %q: %w", portText, ErrInvalidArgument)
	}
	return Endpoint{local: local, group: group, port: uint16(port)}, nil
}

func parseIPv4(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("not an ipv4 address: %s", s)
	}
	return addr, nil
}

// Local returns the local address.
func (e Endpoint) Local() netip.Addr { return e.local }

// Group returns the multicast group address.
func (e Endpoint) Group() netip.Addr { return e.group }

// Port returns the UDP port.
func (e Endpoint) Port() uint16 { return e.port }

// localUDPAddr is the bind address for listeners: (local, port).
func (e Endpoint) localUDPAddr() *net.UDPAddr {
	return &net.UDPAddr{IP: e.local.AsSlice(), Port: int(e.port)}
}

// groupUDPAddr is the datagram destination: (group, port).
func (e Endpoint) groupUDPAddr() *net.UDPAddr {
	return &net.UDPAddr{IP: e.group.AsSlice(), Port: int(e.port)}
}
