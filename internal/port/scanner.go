package port

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/projectdiscovery/gologger"

	"github.com/mmr-tortoise/portscan/internal/model"
)

// Scanner is the aggregator. It runs one probe worker per Assignment and
// collects their reports into a sorted result set.
//
// Usage:
//
//	s := port.NewScanner(port.WithProgress(os.Stdout))
//	open, err := s.Scan(ctx, target, workers)
type Scanner struct {
	// dialer is handed to every Prober. nil selects net.Dialer.
	dialer Dialer

	// progress is the shared, mutex-guarded marker writer.
	progress *Progress

	// onWorkerPanic is called when a worker panics. It must not return
	// normally in production; the default logs at fatal level, which
	// exits the process.
	onWorkerPanic func(interface{})
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithDialer overrides the dialer used for connect attempts.
func WithDialer(d Dialer) Option {
	return func(s *Scanner) {
		s.dialer = d
	}
}

// WithProgress sends progress markers to w.
func WithProgress(w io.Writer) Option {
	return func(s *Scanner) {
		s.progress = NewProgress(w)
	}
}

// NewScanner creates a Scanner. Without options it dials with the default
// net.Dialer and discards progress markers.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		progress:      NewProgress(nil),
		onWorkerPanic: fatalWorkerPanic,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan probes every port of target with the given number of workers and
// returns the open ports in ascending order.
//
// All workers run at the same time: the pool is sized to the worker count
// so no submission ever waits for a free slot. Each worker sends on the
// shared report channel; the channel is closed only after every worker has
// returned, and that close is what ends the drain loop below. Nothing is
// returned until the whole port space has been probed.
func (s *Scanner) Scan(ctx context.Context, target model.Target, workers model.WorkerCount) ([]uint16, error) {
	assignments := Partition(workers)
	stats := &Stats{}
	prober := NewProber(target, s.dialer, s.progress, stats)

	reports := make(chan uint16)
	var wg sync.WaitGroup

	pool, err := ants.NewPoolWithFunc(len(assignments), func(item interface{}) {
		defer wg.Done()
		a := item.(model.Assignment)
		prober.Probe(ctx, a, reports)
	}, ants.WithPanicHandler(s.onWorkerPanic))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool of size %d: %w", len(assignments), err)
	}
	defer pool.Release()

	// Lower-indexed workers own at most one port more than the last one.
	total := 0
	for _, a := range assignments {
		total += a.Len()
	}
	gologger.Debug().Msgf("scanning %d ports of %s with %d workers (%d-%d ports each)",
		total, target, len(assignments), assignments[len(assignments)-1].Len(), assignments[0].Len())

	for _, a := range assignments {
		wg.Add(1)
		if err := pool.Invoke(a); err != nil {
			wg.Done()
			// Workers already started still hold the channel; let them
			// finish before returning so none of them blocks forever.
			go drain(reports)
			wg.Wait()
			close(reports)
			return nil, fmt.Errorf("failed to start worker %d: %w", a.Index, err)
		}
	}

	// The closer holds no sending role of its own: it only turns "every
	// worker returned" into "channel closed".
	go func() {
		wg.Wait()
		close(reports)
	}()

	results := model.NewResultSet()
	for port := range reports {
		results.Add(port)
	}

	gologger.Debug().Msgf("scan of %s finished: %d attempts, %d open, %d reports received",
		target, stats.Attempted.Load(), stats.Open.Load(), results.Len())

	return results.Sorted(), nil
}

// drain discards reports until the channel is closed.
func drain(reports <-chan uint16) {
	for range reports {
	}
}

// fatalWorkerPanic is the default panic handler. A worker only panics when
// an invariant is broken (e.g. sending on a closed report channel), so the
// process is terminated rather than returning partial results.
func fatalWorkerPanic(p interface{}) {
	gologger.Fatal().Msgf("probe worker panicked: %v", p)
}
