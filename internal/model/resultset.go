package model

import "slices"

// ResultSet accumulates the open ports reported by probe workers.
//
// It is owned by the aggregator and is not safe for concurrent use;
// workers never touch it directly, they send ports over a channel.
type ResultSet struct {
	ports []uint16
}

// NewResultSet creates an empty ResultSet.
func NewResultSet() *ResultSet {
	return &ResultSet{}
}

// Add records one open port. Order of insertion is irrelevant.
func (r *ResultSet) Add(port uint16) {
	r.ports = append(r.ports, port)
}

// Len returns the number of ports recorded so far, duplicates included.
func (r *ResultSet) Len() int {
	return len(r.ports)
}

// Sorted returns the recorded ports in ascending order with duplicates
// removed. The returned slice is a copy and is never nil.
func (r *ResultSet) Sorted() []uint16 {
	out := make([]uint16, len(r.ports))
	copy(out, r.ports)
	slices.Sort(out)
	return slices.Compact(out)
}
