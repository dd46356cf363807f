package mcast

import (
	"errors"
	"net"
	"net/netip"
	"testing"
)

func withFakeInterfaces(t *testing.T, entries []ifaceAddrs) {
	t.Helper()
	prev := listInterfaces
	listInterfaces = func() ([]ifaceAddrs, error) { return entries, nil }
	t.Cleanup(func() { listInterfaces = prev })
}

func TestInterfaceIndexFirstMatchWins(t *testing.T) {
	shared := netip.MustParseAddr("10.0.0.5")
	withFakeInterfaces(t, []ifaceAddrs{
		{index: 3, addrs: []netip.Addr{netip.MustParseAddr("192.168.1.1")}},
		{index: 7, addrs: []netip.Addr{shared}},
		{index: 9, addrs: []netip.Addr{shared}},
	})
	index, err := InterfaceIndex(shared)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index != 7 {
		t.Errorf("unexpected index: got %d, want 7", index)
	}
}

func TestInterfaceIndexSkipsInterfacesWithoutIPv4(t *testing.T) {
	want := netip.MustParseAddr("172.16.0.2")
	withFakeInterfaces(t, []ifaceAddrs{
		{index: 1},
		{index: 2, addrs: []netip.Addr{want}},
	})
	index, err := InterfaceIndex(want)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index != 2 {
		t.Errorf("unexpected index: got %d, want 2", index)
	}
}

func TestInterfaceIndexNoMatch(t *testing.T) {
	withFakeInterfaces(t, []ifaceAddrs{
		{index: 1, addrs: []netip.Addr{netip.MustParseAddr("192.168.1.1")}},
	})
	_, err := InterfaceIndex(netip.MustParseAddr("203.0.113.1"))
	if !errors.Is(err, ErrNoSuchInterface) {
		t.Errorf("got %v, want ErrNoSuchInterface", err)
	}
}

func TestInterfaceIndexLoopback(t *testing.T) {
	loopback := netip.MustParseAddr("127.0.0.1")
	want, ok := findInterfaceWith(t, loopback)
	if !ok {
		t.Skip("host exposes no interface with 127.0.0.1")
	}
	index, err := InterfaceIndex(loopback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index != want {
		t.Errorf("unexpected index: got %d, want %d", index, want)
	}
}

func TestInterfaceIndexUnassignedAddress(t *testing.T) {
	// Reserved test-net address, almost certainly unassigned locally.
	_, err := InterfaceIndex(netip.MustParseAddr("203.0.113.1"))
	if !errors.Is(err, ErrNoSuchInterface) {
		t.Errorf("got %v, want ErrNoSuchInterface", err)
	}
}

func findInterfaceWith(t *testing.T, addr netip.Addr) (int, bool) {
	t.Helper()
	ifaces, err := net.Interfaces()
	if err != nil {
		t.Fatalf("list interfaces: %v", err)
	}
	for _, ifi := range ifaces {
		addrs, err := ifi.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			if ip4 := ipnet.IP.To4(); ip4 != nil && ip4.String() == addr.String() {
				return ifi.Index, true
			}
		}
	}
	return 0, false
}
