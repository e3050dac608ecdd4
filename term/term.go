// Package term answers whether the standard streams are attached to a
// terminal.
package term

import (
	"os"

	"golang.org/x/term"
)

func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// StdinIsTerminal is true when stdin is an interactive terminal, in which
// case there is no piped input to read.
func StdinIsTerminal() bool {
	return IsTerminal(os.Stdin)
}
