package config

import (
	"fmt"
	"io"
	"os"
)

// exit is swapped by tests that need to observe the exit code in-process.
var exit = os.Exit

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	exitf(os.Stderr, format, args...)
}

// ExitIf calls Exitf with the given prefix when err is non-nil.
func ExitIf(err error, prefix string) {
	if err == nil {
		return
	}
	exitf(os.Stderr, "%s: %v", prefix, err)
}

func exitf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
	exit(1)
}
