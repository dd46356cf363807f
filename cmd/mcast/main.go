package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"net/netip"
	"os"
	"strings"

	mcast "github.com/castkit/go-mcast"
)

const defaultLocalAddr = "0.0.0.0"

var logger = log.New(os.Stderr, "mcast: ", log.Lmicroseconds|log.Ldate|log.LUTC|log.Lmsgprefix)

func usage() {
	fmt.Fprintf(os.Stderr, `usage:
  mcast /s <multicastAddr> <port> [localAddr]               send stdin lines to the group
  mcast /l <multicastAddr> <port> [localAddr]               print group traffic
  mcast /l:<sourceAddr> <multicastAddr> <port> [localAddr]  print group traffic from one source

localAddr defaults to %s (all interfaces).
`, defaultLocalAddr)
}

func main() {
	args := os.Args[1:]
	if len(args) < 3 || len(args) > 4 {
		usage()
		os.Exit(1)
	}
	local := defaultLocalAddr
	if len(args) == 4 {
		local = args[3]
	}
	ep, err := mcast.ParseEndpoint(local, args[1], args[2])
	if err != nil {
		fail(err)
	}

	mode := args[0]
	var t *mcast.Transport
	switch {
	case mode == "/s":
		t, err = mcast.NewSource(ep)
	case mode == "/l":
		t, err = mcast.NewListener(ep)
	case strings.HasPrefix(mode, "/l:"):
		var source netip.Addr
		source, err = netip.ParseAddr(strings.TrimPrefix(mode, "/l:"))
		if err != nil {
			err = fmt.Errorf("source address %q: %w", strings.TrimPrefix(mode, "/l:"), mcast.ErrInvalidArgument)
			break
		}
		t, err = mcast.NewSSMListener(ep, source)
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fail(err)
	}
	defer t.Close()

	if t.Role() == mcast.RoleSource {
		err = sendLoop(t)
	} else {
		err = receiveLoop(t)
	}
	if err != nil {
		fail(err)
	}
}

// sendLoop reads stdin line by line and sends each line as one datagram,
// until end of input.
func sendLoop(t *mcast.Transport) error {
	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 64*1024), 64*1024)
	for sc.Scan() {
		if err := t.Send(sc.Bytes()); err != nil {
			return err
		}
	}
	return sc.Err()
}

// receiveLoop prints every received datagram, forever.
func receiveLoop(t *mcast.Transport) error {
	for {
		payload, src, err := t.Receive()
		if err != nil {
			return err
		}
		fmt.Printf("%s - %s\n", src, payload)
	}
}

func fail(err error) {
	switch {
	case errors.Is(err, mcast.ErrInvalidArgument):
		logger.Printf("bad arguments: %v", err)
	case errors.Is(err, mcast.ErrNoSuchInterface):
		logger.Printf("no usable interface: %v", err)
	default:
		logger.Printf("%v", err)
	}
	usage()
	os.Exit(1)
}
