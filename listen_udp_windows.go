package mcast

import "net"

// listenUDP4 binds a UDP socket to the endpoint's (local, port). The
// reuse-address setup the unix variants apply by hand is unnecessary here;
// Winsock permits rebinding group ports by default.
func listenUDP4(ep Endpoint) (*net.UDPConn, error) {
	return net.ListenUDP("udp4", ep.localUDPAddr())
}
