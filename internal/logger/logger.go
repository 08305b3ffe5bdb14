// Package logger configures the process-wide gologger instance used for
// diagnostic output.
//
// Diagnostics always go to stderr so that stdout carries nothing but the
// scan protocol (progress markers, separator, results).
package logger

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
)

// Config controls logger setup.
type Config struct {
	// Verbose raises the level from info to debug.
	Verbose bool

	// NoColor forces plain output. Colour is also disabled automatically
	// when stderr is not a terminal.
	NoColor bool
}

// Configure applies cfg to gologger.DefaultLogger.
func Configure(cfg Config) {
	gologger.DefaultLogger.SetMaxLevel(level(cfg.Verbose))
	gologger.DefaultLogger.SetFormatter(formatter.NewCLI(cfg.NoColor || !stderrIsTerminal()))
}

func level(verbose bool) levels.Level {
	if verbose {
		return levels.LevelDebug
	}
	return levels.LevelInfo
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
