package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/portscan/internal/model"
)

var (
	errNotEnoughArguments = errors.New("not enough arguments")
	errTooManyArguments   = errors.New("too many arguments")
	errInvalidAddress     = errors.New("not valid IPADDR; must be IPv4 or IPv6")
	errInvalidThreads     = errors.New("failed to parse thread number")
)

// scanOptions is the validated input of a scan.
type scanOptions struct {
	target  model.Target
	workers model.WorkerCount
	format  model.OutputFormat
}

// usageError wraps err as an argument error (exit code 1).
func usageError(err error) error {
	return model.WrapCLIError(model.ExitUsageError, "problem parsing arguments", err)
}

// validateArgCount requires exactly one positional argument, the address.
func validateArgCount(_ *cobra.Command, args []string) error {
	switch {
	case len(args) < 1:
		return usageError(errNotEnoughArguments)
	case len(args) > 1:
		return usageError(errTooManyArguments)
	}
	return nil
}

// parseScanOptions validates the address, then the worker count, then the
// output format. The address is checked first so "-j abc not-an-ip"
// reports the address.
func parseScanOptions(flags *rootFlags, args []string) (scanOptions, error) {
	if err := validateArgCount(nil, args); err != nil {
		return scanOptions{}, err
	}

	target, err := model.ParseTarget(args[0])
	if err != nil {
		return scanOptions{}, usageError(fmt.Errorf("%w: %w", errInvalidAddress, err))
	}

	workers, err := model.ParseWorkerCount(flags.threads)
	if err != nil {
		if errors.Is(err, model.ErrWorkerCountRange) {
			return scanOptions{}, usageError(err)
		}
		return scanOptions{}, usageError(fmt.Errorf("%w: %w", errInvalidThreads, err))
	}

	format, err := model.ParseOutputFormat(flags.output)
	if err != nil {
		return scanOptions{}, usageError(err)
	}

	return scanOptions{target: target, workers: workers, format: format}, nil
}
