// Package commands contains the CLI command implementations for the application.
package commands

import (
	"io"
	"os"
)

// IOTuple bundles the reader/writer pair every command runs against, so
// tests can substitute buffers for the process's real stdin/stdout.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns the IOTuple wired to the process's real stdin/stdout.
func DefaultIO() IOTuple {
	return IOTuple{Reader: os.Stdin, Writer: os.Stdout}
}
