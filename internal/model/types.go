package model

import (
	"errors"
	"fmt"
	"iter"
	"net/netip"
	"strconv"
	"strings"
)

const (
	// MaxPort is the highest valid TCP port number (2^16 - 1). Scans cover
	// the range 1..MaxPort inclusive.
	MaxPort uint16 = 65535

	// DefaultWorkerCount is used when only an address is given on the
	// command line.
	DefaultWorkerCount WorkerCount = 4
)

// Target is the host being scanned. It is immutable for the run.
type Target struct {
	// Addr is an IPv4 or IPv6 address. Hostnames are never resolved.
	Addr netip.Addr
}

// ParseTarget converts an IP literal into a Target.
// IPv6 zones are rejected because the dialer is given a bare address.
func ParseTarget(s string) (Target, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return Target{}, fmt.Errorf("invalid target address %q: %w", s, err)
	}
	if addr.Zone() != "" {
		return Target{}, fmt.Errorf("invalid target address %q: zoned addresses are not supported", s)
	}
	return Target{Addr: addr}, nil
}

// String returns the textual form of the target address.
func (t Target) String() string {
	return t.Addr.String()
}

// WorkerCount is the number of concurrent probe workers. It doubles as the
// stride used to interleave the port space, so it must be in 1..MaxPort.
type WorkerCount uint16

// ErrWorkerCountRange is returned by ParseWorkerCount for zero.
var ErrWorkerCountRange = errors.New("worker count must be between 1 and 65535")

// ParseWorkerCount parses a base-10 worker count.
// Non-numeric input (surrounding whitespace included) and values above
// MaxPort fail with a strconv error; zero fails with ErrWorkerCountRange.
func ParseWorkerCount(s string) (WorkerCount, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid worker count %q: %w", s, err)
	}
	if n == 0 {
		return 0, ErrWorkerCountRange
	}
	return WorkerCount(n), nil
}

// Assignment is the slice of the port space owned by a single worker.
//
// A worker with index i out of T visits the strictly increasing sequence
//
//	i+1, i+1+T, i+1+2T, ...
//
// and stops after the last port that does not exceed MaxPort. Because the
// start offsets i+1 are distinct modulo T, no two assignments ever share a
// port, and together they cover every port from 1 to MaxPort.
type Assignment struct {
	// Index is the zero-based worker index (0..T-1).
	Index uint16

	// Start is the first port probed by this worker (Index + 1).
	Start uint16

	// Stride is the distance between consecutive ports (T).
	Stride uint16
}

// Ports yields the ports of the assignment in ascending order.
//
// The loop stops after the current port when MaxPort-port < Stride, so the
// final value is the largest Start+k*Stride that is <= MaxPort. That keeps
// port 65535 in scope for every stride and avoids uint16 overflow.
func (a Assignment) Ports() iter.Seq[uint16] {
	return func(yield func(uint16) bool) {
		if a.Start == 0 || a.Stride == 0 {
			return
		}
		port := a.Start
		for {
			if !yield(port) {
				return
			}
			if MaxPort-port < a.Stride {
				return
			}
			port += a.Stride
		}
	}
}

// Len returns how many ports Ports yields.
func (a Assignment) Len() int {
	if a.Start == 0 || a.Stride == 0 {
		return 0
	}
	return int(MaxPort-a.Start)/int(a.Stride) + 1
}

// OutputFormat selects how the final result set is rendered.
type OutputFormat string

const (
	// FormatText prints one "<port> is open" line per port.
	FormatText OutputFormat = "text"

	// FormatJSON prints a ScanReport as indented JSON.
	FormatJSON OutputFormat = "json"

	// FormatYAML prints a ScanReport as YAML.
	FormatYAML OutputFormat = "yaml"
)

// String returns the string representation of OutputFormat.
func (f OutputFormat) String() string {
	return string(f)
}

// IsValid checks whether the OutputFormat is one of the supported values.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// ParseOutputFormat converts a string to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(s))
	if !format.IsValid() {
		return "", fmt.Errorf("invalid output format: %q (valid: text, json, yaml)", s)
	}
	return format, nil
}

// ScanReport is the structured form of a finished scan, used by the
// json and yaml renderers.
type ScanReport struct {
	// Target is the scanned address in textual form.
	Target string `json:"target" yaml:"target"`

	// Workers is the worker count the scan ran with.
	Workers int `json:"workers" yaml:"workers"`

	// OpenPorts lists open ports in ascending order. Never nil, so that
	// JSON renders [] rather than null.
	OpenPorts []uint16 `json:"openPorts" yaml:"openPorts"`
}

// ExitCode defines the process exit codes of the CLI.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitUsageError indicates invalid command-line arguments. The scan
	// never started.
	ExitUsageError ExitCode = 1

	// ExitScanFailed indicates the scan could not be started or completed
	// for reasons other than bad arguments (e.g. the worker pool failed).
	ExitScanFailed ExitCode = 2
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitCodeOf maps an error to a process exit code. nil maps to
// ExitSuccess, a CLIError anywhere in the chain to its own code, and any
// other error to ExitUsageError.
func ExitCodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitUsageError
}
