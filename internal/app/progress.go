package app

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// withSpinner runs fn behind a terminal spinner unless verbose output
// is requested, in which case the subprocesses own the terminal. The
// spinner is always stopped before fn's result is returned.
func withSpinner(verbose bool, message string, fn func() error) error {
	if verbose {
		return fn()
	}
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = " " + message
	sp.Start()
	defer sp.Stop()
	return fn()
}
