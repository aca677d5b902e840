// Package report prints the unresolved-array warning report.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

// Warning is one unresolved-array finding: a declaration alias (or, for a
// document whose root is an empty array, the document path) plus every
// context that observed it.
type Warning struct {
	Name     string
	Contexts []string
}

const (
	colorYellow = "\x1b[33m"
	colorReset  = "\x1b[0m"
)

// Print writes one line per warning. colorMode is auto, always or never;
// auto colors only when w is a terminal, and NO_COLOR always wins over auto.
func Print(w io.Writer, warnings []Warning, colorMode string) {
	if len(warnings) == 0 {
		return
	}

	color := useColor(w, colorMode)
	prefix := "warning:"
	if color {
		prefix = colorYellow + prefix + colorReset
	}

	// Pad the name column; contexts may contain wide runes, so padding goes
	// through runewidth rather than len.
	width := 0
	for _, warn := range warnings {
		if rw := runewidth.StringWidth(warn.Name); rw > width {
			width = rw
		}
	}

	for _, warn := range warnings {
		fmt.Fprintf(w, "%s %s  unresolved array element type (%s)\n",
			prefix,
			runewidth.FillRight(warn.Name, width),
			strings.Join(warn.Contexts, ", "))
	}
}

func useColor(w io.Writer, colorMode string) bool {
	switch colorMode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
