package mcast

import (
	"encoding/binary"
	"net"
	"net/netip"
	"syscall"
	"unsafe"

	"golang.org/x/net/bpf"
	"golang.org/x/sys/unix"
)

// skfNetOff addresses the network header from a socket filter attached to a
// UDP socket (SKF_NET_OFF, two's complement of -0x100000).
const skfNetOff = 0xfff00000

// attachSourceFilter installs a classic BPF program admitting only datagrams
// whose IPv4 source is src. The kernel's group-source membership filter is
// authoritative; this keeps stray senders out while other sockets hold wider
// memberships on the same port.
func attachSourceFilter(conn *net.UDPConn, src netip.Addr) error {
	prog, err := sourceFilter(src, skfNetOff)
	if err != nil {
		return sockErr("assemble source filter", err)
	}
	fprog := unix.SockFprog{
		Len:    uint16(len(prog)),
		Filter: (*unix.SockFilter)(unsafe.Pointer(&prog[0])),
	}
	b := (*[unix.SizeofSockFprog]byte)(unsafe.Pointer(&fprog))[:unix.SizeofSockFprog]
	raw, err := conn.SyscallConn()
	if err != nil {
		return sockErr("raw conn", err)
	}
	var serr error
	if err := raw.Control(func(fd uintptr) {
		serr = syscall.SetsockoptString(int(fd), syscall.SOL_SOCKET, syscall.SO_ATTACH_FILTER, string(b))
	}); err != nil {
		return sockErr("attach source filter", err)
	}
	if serr != nil {
		return sockErr("attach source filter", serr)
	}
	return nil
}

func sourceFilter(src netip.Addr, base uint32) ([]bpf.RawInstruction, error) {
	return bpf.Assemble(sourceFilterProgram(src, base))
}

// sourceFilterProgram builds the program over an IPv4 header beginning at
// base: load the 4-byte source address field and drop anything that differs
// from src. base is skfNetOff on a live socket and zero when the program
// runs over a raw packet.
func sourceFilterProgram(src netip.Addr, base uint32) []bpf.Instruction {
	a := src.As4()
	return []bpf.Instruction{
		bpf.LoadAbsolute{Off: base + 12, Size: 4},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: binary.BigEndian.Uint32(a[:]), SkipTrue: 1},
		bpf.RetConstant{Val: 0},
		bpf.RetConstant{Val: maxDatagramSize},
	}
}
