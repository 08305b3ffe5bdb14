package port

import (
	"github.com/mmr-tortoise/portscan/internal/model"
)

// Partition divides the port space into one interleaved Assignment per
// worker.
//
// Worker i receives Start=i+1 and Stride=workers. The start offsets are
// distinct modulo the stride, so the assignments are pairwise disjoint, and
// since every residue is present their union is 1..model.MaxPort.
//
// workers must be at least 1; callers validate it upstream, and zero is
// treated as a programming error.
func Partition(workers model.WorkerCount) []model.Assignment {
	if workers == 0 {
		panic("port: Partition called with zero workers")
	}

	stride := uint16(workers)
	assignments := make([]model.Assignment, 0, int(workers))
	for i := 0; i < int(workers); i++ {
		assignments = append(assignments, model.Assignment{
			Index:  uint16(i),
			Start:  uint16(i + 1),
			Stride: stride,
		})
	}
	return assignments
}
