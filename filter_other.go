//go:build !linux

package mcast

import (
	"net"
	"net/netip"
)

// attachSourceFilter is a no-op off Linux; the group-source membership
// filter applied at join time stands alone.
func attachSourceFilter(conn *net.UDPConn, src netip.Addr) error {
	return nil
}
