package output

import (
	"os"

	"golang.org/x/term"
)

// ColorEnabled reports whether styled output should be written to f.
// NO_COLOR and non-terminal outputs disable it.
func ColorEnabled(f *os.File, noColor bool) bool {
	if noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
