package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/portscan/internal/model"
	"github.com/mmr-tortoise/portscan/internal/port"
)

// runScan probes every port of opts.target and writes the results to out.
//
// In text mode out carries the whole protocol: progress markers while
// scanning, one blank line, then one line per open port. In json and yaml
// mode stdout must stay a single parseable document, so the markers and
// the line ending them go to errOut instead.
func runScan(ctx context.Context, out, errOut io.Writer, opts scanOptions) error {
	VerboseLog("Scanning %s with %d workers", opts.target, opts.workers)

	// Progress markers share stdout with the results only in text mode.
	progressOut := out
	if opts.format != model.FormatText {
		progressOut = errOut
	}

	scanner := port.NewScanner(port.WithProgress(progressOut))
	open, err := scanner.Scan(ctx, opts.target, opts.workers)
	if err != nil {
		return model.WrapCLIError(model.ExitScanFailed, "scan failed", err)
	}
	VerboseLog("Found %d open ports", len(open))

	// Ends the marker line; in text mode this is the blank separator.
	if _, err := fmt.Fprintln(progressOut); err != nil {
		return model.WrapCLIError(model.ExitScanFailed, "failed to write output", err)
	}

	report := model.ScanReport{
		Target:    opts.target.String(),
		Workers:   int(opts.workers),
		OpenPorts: open,
	}
	if err := renderReport(out, opts.format, report); err != nil {
		return model.WrapCLIError(model.ExitScanFailed, "failed to write output", err)
	}
	return nil
}

// renderReport writes report in the requested format.
func renderReport(w io.Writer, format model.OutputFormat, report model.ScanReport) error {
	// Use an empty slice instead of nil so JSON shows [] instead of null.
	if report.OpenPorts == nil {
		report.OpenPorts = []uint16{}
	}

	switch format {
	case model.FormatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case model.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()

	default:
		return renderText(w, report.OpenPorts)
	}
}

// renderText prints one "<port> is open" line per port, in the order
// given. Callers pass ports already sorted ascending.
func renderText(w io.Writer, ports []uint16) error {
	for _, p := range ports {
		if _, err := fmt.Fprintf(w, "%d is open\n", p); err != nil {
			return err
		}
	}
	return nil
}
