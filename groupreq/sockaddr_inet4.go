//go:build !darwin

package groupreq

import "encoding/binary"

const afInet = 2 // AF_INET

// putSockaddrInet4 fills the front of a sockaddr_storage slot with a
// sockaddr_in: two-byte family tag in host order, two zero port bytes, then
// the four address bytes. The rest of the slot stays zero.
func putSockaddrInet4(slot []byte, addr [4]byte) {
	binary.NativeEndian.PutUint16(slot[0:2], afInet)
	copy(slot[4:8], addr[:])
}
