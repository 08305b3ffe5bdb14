// Package cli implements the cobra-based command line for portscan.
//
// The root command is the scan itself: it validates the address and
// worker count, runs the scan engine from internal/port and renders the
// open ports. This file defines the command, help text, error printing
// and the translation of errors into exit codes.
package cli

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/projectdiscovery/gologger"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/portscan/internal/logger"
	"github.com/mmr-tortoise/portscan/internal/model"
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// usageText is printed for -h/--help.
// It replaces cobra's generated help, which lists every flag, with the
// two-line synopsis scripts already expect.
const usageText = `Usage: portscan [-j <threads>] [-o text|json|yaml] [-v] <ipaddr>
       portscan -h | --help`

// rootFlags holds the flag values for the root command.
// A fresh value is bound for every NewRootCommand call, so tests can build
// several commands without sharing state.
type rootFlags struct {
	// threads is the raw -j/--threads value. It is kept as a string so
	// that malformed values are reported as "failed to parse thread
	// number" instead of pflag's own message. Parsed by parseScanOptions.
	threads string

	// output selects the result renderer: text (default), json or yaml.
	// In json and yaml mode stdout holds only the report document.
	output string

	// verbose raises the log level to debug.
	// Debug messages go to stderr and never mix with the results.
	verbose bool

	// noColor forces the plain log formatter even on a terminal.
	// Colour is already off when stderr is not a terminal.
	noColor bool
}

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// Unlike a multi-command tool, the root command performs the scan itself:
// it takes exactly one address argument and has no subcommands.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		// Use is the one-line usage pattern shown by cobra.
		Use:   "portscan [-j <threads>] <ipaddr>",
		Short: "Concurrent TCP connect scanner",
		Long: `portscan tries a full TCP connection to every port from 1 to 65535 on
one IPv4 or IPv6 address and prints the ports that accepted.

The port space is split across <threads> workers that run in parallel.
A dot is printed for every open port while the scan runs; the sorted
list follows once every worker has finished.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// Execute prints them with the "Error: " prefix instead.
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// Args rejects a missing or extra address before RunE runs.
		Args: validateArgCount,

		// PersistentPreRun applies the logging flags once they are parsed,
		// so that everything logged by RunE honours --verbose.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Configure(logger.Config{Verbose: flags.verbose, NoColor: flags.noColor})
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			// The address is validated before the thread count, so a
			// command line with both wrong reports the address.
			opts, err := parseScanOptions(flags, args)
			if err != nil {
				return err
			}
			// Results go to the command's stdout, markers go to stdout or
			// stderr depending on the output format.
			return runScan(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	// Flags must precede the address: "-j <threads> <ipaddr>".
	// With interspersing off, anything after the address is an argument
	// and trips the argument count check.
	rootCmd.Flags().SetInterspersed(false)

	// Local flags only; there are no subcommands to inherit them.

	rootCmd.Flags().StringVarP(&flags.threads, "threads", "j",
		fmt.Sprint(model.DefaultWorkerCount), "Number of parallel workers (1-65535)")
	rootCmd.Flags().StringVarP(&flags.output, "output", "o",
		model.FormatText.String(), "Result format: text, json, yaml")
	rootCmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.Flags().BoolVar(&flags.noColor, "no-color", false, "Disable coloured log output")

	// Help prints the synopsis to stdout and exits 0. Combining -h with
	// other arguments is rejected earlier, in Run.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), usageText)
	})

	// Unknown flags and missing flag values are argument errors too.
	// Wrapping them keeps exit code 1 and the "problem parsing arguments"
	// prefix.
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	return rootCmd
}

// Run executes rootCmd with args. Help is only accepted on its own: any
// other argument next to -h/--help is a usage error.
func Run(rootCmd *cobra.Command, args []string) error {
	if isHelpRequest(args) && len(args) > 1 {
		return usageError(errTooManyArguments)
	}
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// Execute runs the root command with the process arguments and exits with
// the matching status. It is the main entry point called from main.go.
//
// CLIError types carry their own exit codes; other errors default to
// exit code 1. A nil error exits 0.
func Execute(rootCmd *cobra.Command) {
	err := Run(rootCmd, os.Args[1:])
	if err != nil {
		// Errors always go to stderr, even in json/yaml mode, because
		// stdout is reserved for the scan results.
		printError(rootCmd.ErrOrStderr(), err)
	}
	os.Exit(int(model.ExitCodeOf(err)))
}

// printError writes "Error: <message>" to w. CLIErrors print their
// message and underlying cause.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}

// VerboseLog prints a debug message to stderr. It is only visible when
// --verbose raised the log level, and is used by the scan flow to show
// what it is about to do.
func VerboseLog(format string, args ...interface{}) {
	gologger.Debug().Msgf(format, args...)
}

// isHelpRequest reports whether args contain -h or --help anywhere.
func isHelpRequest(args []string) bool {
	return slices.Contains(args, "-h") || slices.Contains(args, "--help")
}
