// Package fastcolor writes ANSI-colored, fixed-width fields directly to
// a string writer. Report commands emit thousands of fields per run, so
// the escapes are written inline instead of going through a formatting
// color library.
package fastcolor

import (
	"io"
	"unicode/utf8"
)

// Color is an ANSI SGR escape sequence.
type Color string

const (
	Reset   Color = "\x1b[0m"
	Bold    Color = "\x1b[1m"
	FgRed   Color = "\x1b[31m"
	FgGreen Color = "\x1b[32m"
	FgBlue  Color = "\x1b[34m"
)

// Enabled gates all escape output. The CLI sets it once at startup based
// on whether stdout is a terminal.
var Enabled bool

var spaces = "                                                                "

// WriteStringFixed writes s padded or truncated to exactly width runes,
// colored with c when Enabled. rightJustify pads on the left.
func (c Color) WriteStringFixed(w io.StringWriter, s string, width int, rightJustify bool) {
	runeCount := utf8.RuneCountInString(s)
	if runeCount > width {
		s = truncate(s, width)
		runeCount = width
	}

	colored := Enabled && c != Reset
	if colored {
		w.WriteString(string(c))
	}
	if rightJustify {
		writeSpaces(w, width-runeCount)
		w.WriteString(s)
	} else {
		w.WriteString(s)
		writeSpaces(w, width-runeCount)
	}
	if colored {
		w.WriteString(string(Reset))
	}
}

func truncate(s string, width int) string {
	var end int
	for i := 0; i < width; i++ {
		_, size := utf8.DecodeRuneInString(s[end:])
		end += size
	}
	return s[:end]
}

func writeSpaces(w io.StringWriter, n int) {
	for n > len(spaces) {
		w.WriteString(spaces)
		n -= len(spaces)
	}
	if n > 0 {
		w.WriteString(spaces[:n])
	}
}
