// Package terminal detects whether command output reaches a terminal.
package terminal

import (
	"os"

	"golang.org/x/term"
)

var isTerminal = term.IsTerminal

// IsInteractive reports whether stdout and stderr are both terminals. Pipeline
// agents capture both streams, so this is false on build agents.
func IsInteractive() bool {
	return isTerminal(int(os.Stdout.Fd())) && isTerminal(int(os.Stderr.Fd()))
}
