// Package ui renders the converter's console surface: the pre-run summary,
// status lines and errors. Everything here writes to stderr; stdout is
// reserved for extracted text.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/spherical-ai/scribe/internal/convert"
	"github.com/spherical-ai/scribe/internal/wrap"
)

// defaultWidth is used when stderr is not a terminal.
const defaultWidth = 80

// Console renders status output to one writer at a fixed wrap width.
type Console struct {
	out   io.Writer
	color bool
	width int
}

// NewConsole creates a console over w. nil w means stderr; width <= 0
// falls back to the default.
func NewConsole(w io.Writer, colorEnabled bool, width int) *Console {
	if w == nil {
		w = os.Stderr
	}
	if width <= 0 {
		width = defaultWidth
	}
	return &Console{out: w, color: colorEnabled, width: width}
}

// Detect builds a console for stderr: width from the terminal when stderr
// is one, color on unless disabled by the caller or NO_COLOR.
func Detect(noColor bool) *Console {
	width := defaultWidth
	colorEnabled := false
	if IsTerminal(os.Stderr) {
		colorEnabled = true
		if w, _, err := term.GetSize(int(os.Stderr.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	if noColor || os.Getenv("NO_COLOR") != "" {
		colorEnabled = false
	}
	return NewConsole(os.Stderr, colorEnabled, width)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// Width returns the wrap width in use.
func (c *Console) Width() int {
	return c.width
}

// Color reports whether colored output is enabled.
func (c *Console) Color() bool {
	return c.color
}

// Errorf prints a wrapped, red error line.
func (c *Console) Errorf(format string, args ...interface{}) {
	c.line(c.paint(color.FgRed, "✗ "+fmt.Sprintf(format, args...)))
}

// Warnf prints a wrapped, yellow warning line.
func (c *Console) Warnf(format string, args ...interface{}) {
	c.line(c.paint(color.FgYellow, "⚠ "+fmt.Sprintf(format, args...)))
}

// Successf prints a wrapped, green success line.
func (c *Console) Successf(format string, args ...interface{}) {
	c.line(c.paint(color.FgGreen, "✓ "+fmt.Sprintf(format, args...)))
}

// Infof prints a wrapped, plain status line.
func (c *Console) Infof(format string, args ...interface{}) {
	c.line(fmt.Sprintf(format, args...))
}

// Summary prints the pre-run plan: each job's inputs with their probed
// sizes, then the destinations the job writes. Patterns are shown in their
// normalized form, so the summary names exactly the files the run creates.
func (c *Console) Summary(jobs []convert.JobSummary) {
	for i, job := range jobs {
		if len(jobs) > 1 {
			c.line(c.paint(color.Bold, fmt.Sprintf("Job %d", i+1)))
		}
		c.line("Converting:")
		for _, in := range job.Inputs {
			c.line("  " + describeInput(in))
		}
		c.line("Into:")
		for _, out := range job.Outputs {
			c.line("  " + describeOutput(out))
		}
	}
}

// Table renders rows with aligned columns and a dashed header rule.
func (c *Console) Table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	separator := make([]string, len(headers))
	for i := range separator {
		separator[i] = strings.Repeat("-", len(headers[i]))
	}
	fmt.Fprintln(w, strings.Join(separator, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

func (c *Console) line(s string) {
	fmt.Fprintln(c.out, wrap.String(s, c.width))
}

func (c *Console) paint(attr color.Attribute, s string) string {
	if !c.color {
		return s
	}
	return color.New(attr).Sprint(s)
}

func describeInput(in convert.InputSummary) string {
	if in.Duration > 0 {
		return fmt.Sprintf("%s (%s)", in.Path, FormatSeconds(in.Duration))
	}
	if in.Pages == 1 {
		return fmt.Sprintf("%s (1 page)", in.Path)
	}
	return fmt.Sprintf("%s (%d pages)", in.Path, in.Pages)
}

func describeOutput(out convert.OutputSummary) string {
	switch out.Label {
	case convert.OutStdout:
		return "stdout"
	case convert.OutText:
		return "text file " + out.Path
	case convert.OutPageText:
		return "page text files " + out.Path
	case convert.OutPositions:
		return "position files " + out.Path
	}
	return out.Path
}
