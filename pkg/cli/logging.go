package cli

import (
	"bytes"
	"io"
	"log"
	"os"
)

var debugPrefix = []byte("DEBUG:")

// levelWriter drops DEBUG lines unless verbose output was requested
type levelWriter struct {
	out     io.Writer
	verbose bool
}

func (w *levelWriter) Write(p []byte) (int, error) {
	if !w.verbose && bytes.Contains(firstLine(p), debugPrefix) {
		return len(p), nil
	}
	return w.out.Write(p)
}

func firstLine(p []byte) []byte {
	if i := bytes.IndexByte(p, '\n'); i >= 0 {
		return p[:i]
	}
	return p
}

// setupLogging routes the standard logger to stderr, keeping warnings and
// errors visible and debug output behind --verbose
func setupLogging(verbose bool) {
	flags := 0
	if verbose {
		flags = log.Ltime | log.Lmicroseconds
	}
	log.SetFlags(flags)
	log.SetPrefix("codeshot: ")
	log.SetOutput(&levelWriter{out: os.Stderr, verbose: verbose})
}
