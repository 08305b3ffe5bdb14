// Package main is the entry point for the portscan CLI.
//
// This binary tries a TCP connection to every port of one IPv4 or IPv6
// address and prints the ports that accepted. It delegates all
// functionality to the internal/cli package, which defines the cobra
// command.
//
// Build-time variables (version, commit, date) are injected via ldflags
// during the release process. During development, they default to "dev",
// "none", and "unknown" respectively.
package main

import (
	// Raises the open file limit on Linux so that large worker counts do
	// not run out of descriptors mid-scan. The package does its work in
	// init, before main runs.
	_ "github.com/projectdiscovery/fdmax/autofdmax"

	"github.com/mmr-tortoise/portscan/internal/cli"
)

// version, commit, and date are set at build time via ldflags.
// They provide binary identification for the --version flag output.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Inject build-time version info into the CLI package.
	// The cobra command reads these when it builds its --version string.
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	// Create the root command, then execute it with the process
	// arguments. Execute prints errors and exits with the matching code.
	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
