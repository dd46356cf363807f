package mcast

import (
	"net"

	"golang.org/x/sys/unix"

	"github.com/castkit/go-mcast/groupreq"
)

// MCAST_JOIN_SOURCE_GROUP, netinet/in.h. Numeric because the named constant
// is not exposed by every networking stack; the value does not carry across
// operating systems and must be re-verified per target.
const sysMcastJoinSourceGroup = 82

// joinSourceGroup applies the marshalled group_source_req to the socket at
// the IP protocol level.
func joinSourceGroup(conn *net.UDPConn, req *groupreq.Request) error {
	data, err := req.MarshalBinary()
	if err != nil {
		return sockErr("marshal group_source_req", err)
	}
	raw, err := conn.SyscallConn()
	if err != nil {
		return sockErr("raw conn", err)
	}
	var serr error
	if err := raw.Control(func(fd uintptr) {
		serr = unix.SetsockoptString(int(fd), unix.IPPROTO_IP, sysMcastJoinSourceGroup, string(data))
	}); err != nil {
		return sockErr("join source group", err)
	}
	if serr != nil {
		return sockErr("join source group", serr)
	}
	return nil
}
