// Package groupreq marshals the kernel group_source_req structure used to
// join a source-specific multicast group when the standard join API is not
// available on the platform.
package groupreq

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

/*
	struct group_source_req {
		uint32_t                gsr_interface;  // offset 0
		struct sockaddr_storage gsr_group;      // offset 8
		struct sockaddr_storage gsr_source;     // offset 136
	};

Each sockaddr_storage slot is 128 bytes and 8-byte aligned, sized for the
largest supported address family; only the sockaddr_in portion at the front
of each slot is populated here.
*/
const (
	sizeofSockaddrStorage = 128

	groupOffset  = 8
	sourceOffset = groupOffset + sizeofSockaddrStorage

	// Size is the total structure size the kernel expects.
	Size = sourceOffset + sizeofSockaddrStorage
)

// Request describes one source-specific join: admit traffic for Group sent
// by Source, on the interface identified by InterfaceIndex.
type Request struct {
	InterfaceIndex uint32
	Group          netip.Addr
	Source         netip.Addr
}

// MarshalBinary encodes the request into the platform's group_source_req
// image. The layout must match the kernel bit-for-bit; offsets are fixed and
// asserted by tests.
func (r *Request) MarshalBinary() ([]byte, error) {
	if !r.Group.Is4() {
		return nil, fmt.Errorf("group %s is not an ipv4 address", r.Group)
	}
	if !r.Source.Is4() {
		return nil, fmt.Errorf("source %s is not an ipv4 address", r.Source)
	}
	b := make([]byte, Size)
	binary.NativeEndian.PutUint32(b[0:4], r.InterfaceIndex)
	putSockaddrInet4(b[groupOffset:sourceOffset], r.Group.As4())
	putSockaddrInet4(b[sourceOffset:Size], r.Source.As4())
	return b, nil
}
