package mcast

import (
	"fmt"
	"net"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// listenUDP4 binds a UDP socket to the endpoint's (local, port) with address
// reuse enabled so several diagnostic listeners can share one group port.
// Unlike net.ListenMulticastUDP this binds exactly the address it is given
// rather than all addresses.
func listenUDP4(ep Endpoint) (*net.UDPConn, error) {

	// Create socket
	sock, err := syscall.Socket(syscall.AF_INET, syscall.SOCK_DGRAM, syscall.IPPROTO_UDP)
	if err != nil {
		return nil, fmt.Errorf("could not get socket: %w", err)
	}

	// Reuse the address
	if err := syscall.SetsockoptInt(sock, syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1); err != nil {
		_ = syscall.Close(sock)
		return nil, fmt.Errorf("could not set socket reuseaddr: %w", err)
	}

	// Reuse the port
	if err := syscall.SetsockoptInt(sock, syscall.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
		_ = syscall.Close(sock)
		return nil, fmt.Errorf("could not set socket reuseport: %w", err)
	}

	// Bind the socket to the listening IP and Port
	lsa := syscall.SockaddrInet4{Port: int(ep.Port())}
	copy(lsa.Addr[:], ep.Local().AsSlice())
	if err := syscall.Bind(sock, &lsa); err != nil {
		_ = syscall.Close(sock)
		return nil, fmt.Errorf("could not bind socket: %w", err)
	}

	// Turn the socket file descriptor into an *os.File
	file := os.NewFile(uintptr(sock), "")

	// Turn it into a net.PacketConn
	conn, err := net.FilePacketConn(file)
	file.Close() // We no longer need the file
	if err != nil {
		return nil, fmt.Errorf("could not wrap filepacketconn: %w", err)
	}

	udp, ok := conn.(*net.UDPConn)
	if !ok {
		_ = conn.Close()
		return nil, fmt.Errorf("unexpected packet conn type %T", conn)
	}
	return udp, nil
}
