//go:build !darwin

package groupreq_test

import (
	"encoding/binary"
	"net/netip"
	"testing"

	"github.com/castkit/go-mcast/groupreq"
)

func TestMarshalBinaryLayout(t *testing.T) {
	req := &groupreq.Request{
		InterfaceIndex: 7,
		Group:          netip.MustParseAddr("239.1.1.1"),
		Source:         netip.MustParseAddr("198.51.100.7"),
	}
	data, err := req.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != 264 {
		t.Fatalf("unexpected size: got %d, want 264", len(data))
	}
	if got := binary.NativeEndian.Uint32(data[0:4]); got != 7 {
		t.Errorf("interface index at bytes 0-3: got %d, want 7", got)
	}
	if got := binary.NativeEndian.Uint16(data[8:10]); got != 2 {
		t.Errorf("group family tag at bytes 8-9: got %d, want 2 (AF_INET)", got)
	}
	if got := [4]byte(data[12:16]); got != [4]byte{239, 1, 1, 1} {
		t.Errorf("group address at bytes 12-15: got %v, want [239 1 1 1]", got)
	}
	if got := binary.NativeEndian.Uint16(data[136:138]); got != 2 {
		t.Errorf("source family tag at bytes 136-137: got %d, want 2 (AF_INET)", got)
	}
	if got := [4]byte(data[140:144]); got != [4]byte{198, 51, 100, 7} {
		t.Errorf("source address at bytes 140-143: got %v, want [198 51 100 7]", got)
	}
}

func TestMarshalBinaryUnusedBytesStayZero(t *testing.T) {
	req := &groupreq.Request{
		InterfaceIndex: 1,
		Group:          netip.MustParseAddr("232.1.2.3"),
		Source:         netip.MustParseAddr("10.0.0.1"),
	}
	data, err := req.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	used := map[int]bool{}
	for _, r := range [][2]int{{0, 4}, {8, 10}, {12, 16}, {136, 138}, {140, 144}} {
		for i := r[0]; i < r[1]; i++ {
			used[i] = true
		}
	}
	for i, b := range data {
		if !used[i] && b != 0 {
			t.Errorf("byte %d: got %#x, want 0", i, b)
		}
	}
}

func TestMarshalBinaryRejectsNonIPv4(t *testing.T) {
	cases := []struct {
		name string
		req  groupreq.Request
	}{
		{"ipv6 group", groupreq.Request{Group: netip.MustParseAddr("ff3e::1"), Source: netip.MustParseAddr("10.0.0.1")}},
		{"ipv6 source", groupreq.Request{Group: netip.MustParseAddr("239.1.1.1"), Source: netip.MustParseAddr("2001:db8::1")}},
		{"zero group", groupreq.Request{Source: netip.MustParseAddr("10.0.0.1")}},
		{"zero source", groupreq.Request{Group: netip.MustParseAddr("239.1.1.1")}},
	}
	for _, tc := range cases {
		if _, err := tc.req.MarshalBinary(); err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
}

func TestSizeConstant(t *testing.T) {
	if groupreq.Size != 264 {
		t.Errorf("unexpected Size: got %d, want 264", groupreq.Size)
	}
}
