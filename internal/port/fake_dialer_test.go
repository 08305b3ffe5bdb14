package port

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"sync"
)

// errFakeRefused stands in for ECONNREFUSED.
var errFakeRefused = errors.New("connection refused")

// fakeDialer reports the ports in open as accepting connections and
// refuses everything else. It records every attempted port.
type fakeDialer struct {
	open map[uint16]bool

	// panicOn makes DialContext panic for that port when non-zero.
	panicOn uint16

	mu        sync.Mutex
	attempted map[uint16]int
}

func newFakeDialer(open ...uint16) *fakeDialer {
	d := &fakeDialer{
		open:      make(map[uint16]bool, len(open)),
		attempted: make(map[uint16]int),
	}
	for _, p := range open {
		d.open[p] = true
	}
	return d
}

func (d *fakeDialer) DialContext(_ context.Context, network, address string) (net.Conn, error) {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return nil, err
	}
	port := ap.Port()

	d.mu.Lock()
	d.attempted[port]++
	d.mu.Unlock()

	if d.panicOn != 0 && port == d.panicOn {
		panic("fake dialer: forced panic")
	}
	if network != "tcp" || !d.open[port] {
		return nil, errFakeRefused
	}

	client, server := net.Pipe()
	_ = server.Close()
	return client, nil
}

func (d *fakeDialer) attempts() map[uint16]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[uint16]int, len(d.attempted))
	for k, v := range d.attempted {
		out[k] = v
	}
	return out
}
