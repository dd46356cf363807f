package groupreq

const (
	afInet            = 2  // AF_INET
	sizeofSockaddrIn4 = 16 // struct sockaddr_in
)

// putSockaddrInet4 fills the front of a sockaddr_storage slot with a
// sockaddr_in. Darwin sockaddrs carry a length byte ahead of the single-byte
// family tag; the two zero port bytes and four address bytes follow.
func putSockaddrInet4(slot []byte, addr [4]byte) {
	slot[0] = sizeofSockaddrIn4
	slot[1] = afInet
	copy(slot[4:8], addr[:])
}
