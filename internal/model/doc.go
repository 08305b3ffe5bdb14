// Package model defines the domain types and value objects for the
// portscan CLI.
//
// This package contains pure data structures with no network access.
// A scan is described by a Target (the address being probed) and a
// WorkerCount (the stride used to split the port space). Each worker
// receives one Assignment, and the ports it reports are collected into
// a ResultSet that only the aggregator mutates.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
