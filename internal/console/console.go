// Package console prints the operator-facing progress lines of a batch run.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Console writes marked, optionally colored lines. It is not safe for
// concurrent use, which the sequential batch never needs.
type Console struct {
	out io.Writer

	header  *color.Color
	info    *color.Color
	success *color.Color
	wait    *color.Color
	warn    *color.Color
	fail    *color.Color
	step    *color.Color
	bold    *color.Color
}

// New returns a Console writing to out. Colors follow fatih/color's
// detection (NO_COLOR, non-terminal stdout) unless noColor forces them off.
func New(out io.Writer, noColor bool) *Console {
	c := &Console{
		out:     out,
		header:  color.New(color.Bold, color.FgCyan),
		info:    color.New(color.FgBlue),
		success: color.New(color.FgGreen),
		wait:    color.New(color.FgYellow),
		warn:    color.New(color.FgMagenta),
		fail:    color.New(color.FgRed),
		step:    color.New(color.FgCyan),
		bold:    color.New(color.Bold),
	}

	if noColor {
		for _, col := range []*color.Color{c.header, c.info, c.success, c.wait, c.warn, c.fail, c.step, c.bold} {
			col.DisableColor()
		}
	}

	return c
}

// Stdout returns a Console bound to os.Stdout with automatic color detection.
func Stdout() *Console {
	return New(os.Stdout, false)
}

func (c *Console) Header(format string, args ...any) {
	c.line(c.header, "\n=== "+format+" ===\n", args...)
}

func (c *Console) Info(format string, args ...any) {
	c.line(c.info, "ℹ "+format, args...)
}

func (c *Console) Success(format string, args ...any) {
	c.line(c.success, "✓ "+format, args...)
}

func (c *Console) Wait(format string, args ...any) {
	c.line(c.wait, "⏳ "+format, args...)
}

func (c *Console) Warn(format string, args ...any) {
	c.line(c.warn, "⚠ "+format, args...)
}

func (c *Console) Error(format string, args ...any) {
	c.line(c.fail, "✗ "+format, args...)
}

// Step prints the per-transaction banner, preceded by a blank line.
func (c *Console) Step(format string, args ...any) {
	c.line(c.step, "\n"+format, args...)
}

// Prompt prints a question without a trailing newline.
func (c *Console) Prompt(question string) {
	_, _ = c.bold.Fprint(c.out, question+" ")
}

func (c *Console) line(col *color.Color, format string, args ...any) {
	_, _ = col.Fprintln(c.out, fmt.Sprintf(format, args...))
}
