package port

import (
	"context"
	"net"
	"net/netip"

	"go.uber.org/atomic"

	"github.com/mmr-tortoise/portscan/internal/model"
)

// Dialer opens TCP connections. *net.Dialer satisfies it; tests inject
// fakes to control which ports appear open.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Stats counts probe outcomes across all workers of a scan.
type Stats struct {
	// Attempted is the number of connect attempts made.
	Attempted atomic.Uint64

	// Open is the number of attempts that succeeded.
	Open atomic.Uint64
}

// Prober is the probe worker: it walks one Assignment and reports every
// port that accepts a TCP connection.
//
// A Prober holds no per-assignment state, so one value can serve every
// worker of a scan concurrently.
type Prober struct {
	// addr is the target address; the port is filled in per attempt.
	addr netip.Addr

	// dialer performs the connect. The default is a zero net.Dialer,
	// which applies no timeout of its own and leaves it to the OS.
	dialer Dialer

	// progress receives one marker per open port.
	progress *Progress

	// stats is shared with the Scanner that owns the scan.
	stats *Stats
}

// NewProber creates a Prober for target. A nil dialer selects the default
// net.Dialer and a nil progress discards markers.
func NewProber(target model.Target, dialer Dialer, progress *Progress, stats *Stats) *Prober {
	if dialer == nil {
		dialer = &net.Dialer{}
	}
	if progress == nil {
		progress = NewProgress(nil)
	}
	if stats == nil {
		stats = &Stats{}
	}
	return &Prober{
		addr:     target.Addr,
		dialer:   dialer,
		progress: progress,
		stats:    stats,
	}
}

// Probe attempts a connection to every port of the assignment, in order.
//
// Each success is sent on reports before the progress marker is written.
// Failures of any kind (refused, timed out, unreachable) are treated as a
// closed port and are neither reported nor retried.
//
// reports must stay open until Probe returns; sending on a closed channel
// panics, which the Scanner treats as fatal.
func (p *Prober) Probe(ctx context.Context, a model.Assignment, reports chan<- uint16) {
	for port := range a.Ports() {
		if !p.isOpen(ctx, port) {
			continue
		}
		reports <- port
		p.progress.Mark()
	}
}

// isOpen performs a single connect attempt and closes the connection
// straight away.
func (p *Prober) isOpen(ctx context.Context, port uint16) bool {
	p.stats.Attempted.Inc()

	address := netip.AddrPortFrom(p.addr, port).String()
	conn, err := p.dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return false
	}
	_ = conn.Close()

	p.stats.Open.Inc()
	return true
}
