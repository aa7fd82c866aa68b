package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// colorWriter prefixes each log line written by the stdlib logger with
// an ANSI color, only when stdout is actually a terminal — the common
// Go CLI idiom of gating color on isatty rather than a --color flag.
type colorWriter struct {
	out   io.Writer
	color bool
}

func newColorWriter() *colorWriter {
	f := os.Stdout
	color := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return &colorWriter{out: os.Stdout, color: color}
}

const (
	ansiReset = "\x1b[0m"
	ansiDim   = "\x1b[2m"
	ansiCyan  = "\x1b[36m"
)

func (w *colorWriter) Write(p []byte) (int, error) {
	if !w.color {
		return w.out.Write(p)
	}

	formatted := fmt.Sprintf("%s%s%s", ansiCyan, string(p), ansiReset)
	n, err := w.out.Write([]byte(formatted))
	if err != nil {
		return n, err
	}
	return len(p), nil
}
