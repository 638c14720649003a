package progress

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Counter renders the visible-unit position, e.g. "3/11"
func Counter(page, totalPages int) string {
	return fmt.Sprintf("%d/%d", page, totalPages)
}

// Bar renders a fixed-width proportional bar over the weighted scale
func Bar(value, total float64, width int) string {
	if width <= 0 {
		width = DefaultBarWidth
	}
	frac := 0.0
	if total > 0 {
		frac = value / total
	}
	frac = math.Max(0, math.Min(1, frac))
	filled := int(frac * float64(width))
	return "│" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "│"
}

// Percent renders the weighted completion percentage, padded to a stable
// width so the line does not shift while redrawing
func Percent(value, total float64) string {
	if total <= 0 {
		return "  0%"
	}
	frac := math.Max(0, math.Min(1, value/total))
	return fmt.Sprintf("%3.0f%%", frac*100)
}

// ETA estimates time remaining as remaining units over the observed rate,
// (total-value) / (value/elapsed). Before any progress there is no rate and
// no estimate.
func ETA(value, total float64, elapsed time.Duration) string {
	if value <= 0 {
		return "eta --:--"
	}
	remaining := (total - value) / (value / elapsed.Seconds())
	return "eta " + formatClock(remaining)
}

// formatClock renders seconds as m:ss, or h:mm:ss from an hour up
func formatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	total := int(math.Round(seconds))
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
