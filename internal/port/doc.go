// Package port implements the TCP connect-scan engine.
//
// The port space 1..65535 is split by stride partitioning:
//
//	worker i of T probes i+1, i+1+T, i+1+2T, ... up to 65535
//
// Partition builds one Assignment per worker, Prober walks a single
// Assignment and reports every port that accepts a connection, and
// Scanner runs all probers concurrently on an ants pool, fans their
// reports into one channel and returns the sorted result set once the
// channel is closed by the last worker.
package port
