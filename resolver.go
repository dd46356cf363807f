package mcast

import (
	"fmt"
	"net"
	"net/netip"
)

// ifaceAddrs is one host interface reduced to what resolution needs: its OS
// index and its unicast IPv4 addresses.
type ifaceAddrs struct {
	index int
	addrs []netip.Addr
}

// listInterfaces snapshots the host interface table. Package variable so
// tests can substitute a fake enumeration.
var listInterfaces = systemInterfaces

func systemInterfaces() ([]ifaceAddrs, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	entries := make([]ifaceAddrs, 0, len(ifaces))
	for _, ifi := range ifaces {
		addrs, err := ifi.Addrs()
		if err != nil {
			// An interface disappearing mid-scan must not poison the rest.
			continue
		}
		entry := ifaceAddrs{index: ifi.Index}
		for _, a := range addrs {
			var ip net.IP
			switch v := a.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			default:
				continue
			}
			ip4 := ip.To4()
			if ip4 == nil {
				continue
			}
			addr, ok := netip.AddrFromSlice(ip4)
			if !ok {
				continue
			}
			entry.addrs = append(entry.addrs, addr)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// InterfaceIndex returns the OS index of the first interface whose unicast
// IPv4 addresses include addr. Interfaces without IPv4 configuration are
// skipped. When several interfaces carry the same address, the first one in
// enumeration order wins. Group-source membership options are keyed by
// interface index, so resolution failure wraps ErrNoSuchInterface.
func InterfaceIndex(addr netip.Addr) (int, error) {
	entries, err := listInterfaces()
	if err != nil {
		return 0, fmt.Errorf("list interfaces: %w", err)
	}
	for _, entry := range entries {
		for _, a := range entry.addrs {
			if a == addr {
				return entry.index, nil
			}
		}
	}
	return 0, fmt.Errorf("no interface with address %s: %w", addr, ErrNoSuchInterface)
}
