package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

// Dim is exported for callers that want faint text without a theme role.
var Dim = dim

var (
	forceColor   bool
	disableColor bool
)

// SetColorForcing overrides TTY detection. disable wins over force.
func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func isTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// C wraps s in color when color output is enabled.
func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

// OK prints a success line to w.
func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, C(current.Success, current.SymDone+" "+msg))
}

// Fail prints an error line to w.
func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, C(current.Error, symCross+" "+msg))
}

// Warn prints a warning line to w.
func Warn(w io.Writer, msg string) {
	fmt.Fprintln(w, C(current.Pending, "! "+msg))
}
