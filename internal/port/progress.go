package port

import (
	"io"
	"sync"
)

// progressMarker is written once per open port. It carries no port
// information; it only tells an operator that the scan is finding things.
const progressMarker = "."

// flusher is implemented by buffered writers such as *bufio.Writer.
type flusher interface {
	Flush() error
}

// Progress serialises progress markers from many workers onto one writer.
// It is the only shared mutable resource besides the report channel.
type Progress struct {
	mu sync.Mutex
	w  io.Writer
}

// NewProgress wraps w. A nil writer discards markers.
func NewProgress(w io.Writer) *Progress {
	if w == nil {
		w = io.Discard
	}
	return &Progress{w: w}
}

// Mark writes a single marker and flushes it so it appears immediately.
// Write errors are ignored: markers are cosmetic and must never abort a
// scan.
func (p *Progress) Mark() {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, _ = io.WriteString(p.w, progressMarker)
	if f, ok := p.w.(flusher); ok {
		_ = f.Flush()
	}
}
