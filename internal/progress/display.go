package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

const (
	// DefaultBarWidth is the visible width of the proportional bar
	DefaultBarWidth = 30

	// redrawInterval is the minimum wall-clock gap between terminal redraws
	redrawInterval = 100 * time.Millisecond
)

// TermDisplay renders progress as a single redrawn terminal line. Redraws
// are throttled to one per redrawInterval, except that a state at the total
// always draws so the terminal ends on 100%.
type TermDisplay struct {
	w        io.Writer
	color    bool
	barWidth int
	lastDraw time.Time
	drawn    bool
}

// NewTermDisplay creates a terminal display writing to w. Color is decided
// at construction, not from ambient state.
func NewTermDisplay(w io.Writer, colorEnabled bool, barWidth int) *TermDisplay {
	if barWidth <= 0 {
		barWidth = DefaultBarWidth
	}
	return &TermDisplay{w: w, color: colorEnabled, barWidth: barWidth}
}

func (d *TermDisplay) Update(s Snapshot) {
	if !s.Done() && time.Since(d.lastDraw) < redrawInterval {
		return
	}
	d.draw(s)
}

func (d *TermDisplay) Redraw(s Snapshot) {
	d.draw(s)
}

// Finish moves the cursor off the progress line
func (d *TermDisplay) Finish(s Snapshot) {
	if d.drawn {
		fmt.Fprintln(d.w)
	}
}

func (d *TermDisplay) draw(s Snapshot) {
	d.lastDraw = time.Now()
	d.drawn = true
	fmt.Fprintf(d.w, "\r\x1b[K%s", d.Render(s))
}

// Render composes the counter, bar, percentage and ETA elements into the
// progress line.
func (d *TermDisplay) Render(s Snapshot) string {
	bar := Bar(s.Value, s.Total, d.barWidth)
	if d.color {
		bar = color.New(color.FgCyan).Sprint(bar)
	}
	return fmt.Sprintf("%s %s %s %s",
		Counter(s.Page, s.TotalPages),
		bar,
		Percent(s.Value, s.Total),
		ETA(s.Value, s.Total, s.Elapsed),
	)
}
