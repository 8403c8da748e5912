// Package term prints the CLI's human-facing output: banners, status lines
// and tables. Color is used only when the destination is a terminal.
package term

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const rule = "-----------------------------------------"

// Printer writes styled output to one stream.
type Printer struct {
	w       io.Writer
	noColor bool
}

// New returns a Printer for w. Color is enabled when w is a terminal and
// noColor is false.
func New(w io.Writer, noColor bool) *Printer {
	return &Printer{w: w, noColor: noColor || !IsTerminal(w)}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (p *Printer) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.noColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c
}

// Begin opens a framed section with a bold title.
func (p *Printer) Begin(title string) {
	c := p.style(color.FgCyan, color.Bold)
	c.Fprintln(p.w, rule)
	c.Fprintln(p.w, title)
	fmt.Fprintln(p.w)
}

// End closes a section opened by Begin.
func (p *Printer) End(msg string) {
	c := p.style(color.FgGreen, color.Bold)
	fmt.Fprintln(p.w)
	c.Fprintln(p.w, msg)
	c.Fprintln(p.w, rule)
}

// Success prints a green status line.
func (p *Printer) Success(format string, args ...any) {
	p.style(color.FgGreen).Fprintf(p.w, "✓ "+format+"\n", args...)
}

// Failure prints a red status line.
func (p *Printer) Failure(format string, args ...any) {
	p.style(color.FgRed, color.Bold).Fprintf(p.w, "✗ "+format+"\n", args...)
}

// Heading prints a bold line.
func (p *Printer) Heading(format string, args ...any) {
	p.style(color.Bold).Fprintf(p.w, format+"\n", args...)
}

// Dim prints a gray line.
func (p *Printer) Dim(format string, args ...any) {
	p.style(color.FgHiBlack).Fprintf(p.w, format+"\n", args...)
}

// Newline prints an empty line.
func (p *Printer) Newline() {
	fmt.Fprintln(p.w)
}

// Table renders rows under headers with aligned columns.
func (p *Printer) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	head := p.style(color.Bold, color.FgCyan)
	for i, h := range headers {
		head.Fprint(p.w, pad(h, widths[i], i == len(headers)-1))
	}
	fmt.Fprintln(p.w)

	sep := p.style(color.FgHiBlack)
	for i, w := range widths {
		sep.Fprint(p.w, pad(strings.Repeat("-", w), w, i == len(widths)-1))
	}
	fmt.Fprintln(p.w)

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprint(p.w, pad(cell, widths[i], i == len(row)-1))
			}
		}
		fmt.Fprintln(p.w)
	}
}

func pad(s string, width int, last bool) string {
	if last {
		return s
	}
	if len(s) < width {
		s += strings.Repeat(" ", width-len(s))
	}
	return s + "  "
}
