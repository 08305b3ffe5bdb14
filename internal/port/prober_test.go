package port

import (
	"bytes"
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/portscan/internal/model"
)

var loopback = mustTarget("127.0.0.1")

func mustTarget(s string) model.Target {
	t, err := model.ParseTarget(s)
	if err != nil {
		panic(err)
	}
	return t
}

// collect runs Probe on a buffered channel large enough for the whole
// assignment and returns what was reported, in report order.
func collect(t *testing.T, p *Prober, a model.Assignment) []uint16 {
	t.Helper()
	reports := make(chan uint16, a.Len())
	p.Probe(context.Background(), a, reports)
	close(reports)

	var got []uint16
	for port := range reports {
		got = append(got, port)
	}
	return got
}

// TestProbe_ReportsOnlyOpenPorts verifies that successes are reported in
// assignment order, failures are silent, and every port is attempted once.
func TestProbe_ReportsOnlyOpenPorts(t *testing.T) {
	dialer := newFakeDialer(1, 21, 41, 50, 65521)
	var out bytes.Buffer
	stats := &Stats{}
	prober := NewProber(loopback, dialer, NewProgress(&out), stats)

	a := model.Assignment{Index: 0, Start: 1, Stride: 10}
	got := collect(t, prober, a)

	// 50 is open but belongs to another residue class.
	assert.Equal(t, []uint16{1, 21, 41, 65521}, got)
	assert.Equal(t, "....", out.String(), "one marker per open port")

	attempts := dialer.attempts()
	assert.Len(t, attempts, a.Len())
	for port, n := range attempts {
		assert.Equal(t, 1, n, "port %d attempted more than once", port)
		assert.Equal(t, uint16(1), port%10, "port %d outside assignment", port)
	}

	assert.Equal(t, uint64(a.Len()), stats.Attempted.Load())
	assert.Equal(t, uint64(4), stats.Open.Load())
}

// TestProbe_NoOpenPorts verifies closed ports produce neither reports nor
// markers.
func TestProbe_NoOpenPorts(t *testing.T) {
	var out bytes.Buffer
	prober := NewProber(loopback, newFakeDialer(), NewProgress(&out), nil)

	got := collect(t, prober, model.Assignment{Index: 99, Start: 100, Stride: 1000})
	assert.Empty(t, got)
	assert.Empty(t, out.String())
}

// TestProbe_RealLoopbackListener probes a single real port with the default
// dialer. A stride of 65535 makes the assignment exactly one port long.
func TestProbe_RealLoopbackListener(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "failed to start test listener")
	defer func() { _ = listener.Close() }()

	tcpAddr, ok := listener.Addr().(*net.TCPAddr)
	require.True(t, ok)
	port := uint16(tcpAddr.Port)

	prober := NewProber(loopback, nil, nil, nil)
	got := collect(t, prober, model.Assignment{Start: port, Stride: model.MaxPort})
	assert.Equal(t, []uint16{port}, got)
}

// TestProbe_RealClosedPort verifies a refused connection is silent and
// not fatal.
func TestProbe_RealClosedPort(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := uint16(listener.Addr().(*net.TCPAddr).Port)
	require.NoError(t, listener.Close())

	prober := NewProber(loopback, nil, nil, nil)
	got := collect(t, prober, model.Assignment{Start: port, Stride: model.MaxPort})
	assert.Empty(t, got)
}

// TestProbe_IPv6Loopback verifies IPv6 targets are dialled with a correctly
// bracketed address. Skipped on hosts without IPv6 loopback.
func TestProbe_IPv6Loopback(t *testing.T) {
	listener, err := net.Listen("tcp", "[::1]:0")
	if err != nil {
		t.Skip("IPv6 loopback not available, skipping")
	}
	defer func() { _ = listener.Close() }()
	port := uint16(listener.Addr().(*net.TCPAddr).Port)

	prober := NewProber(mustTarget("::1"), nil, nil, nil)
	got := collect(t, prober, model.Assignment{Start: port, Stride: model.MaxPort})
	assert.Equal(t, []uint16{port}, got)
}
