// Package progress maintains the weighted position of a conversion run and
// renders it through a pluggable display strategy. Two parallel scales are
// tracked: a weighted index that normalizes disparate units (pages, scaled
// audio seconds) onto one bar, and a visible page index for the N/M counter.
package progress

import "time"

// DefaultAudioWeightScale compresses raw audio seconds onto the page-based
// progress scale so a few minutes of audio does not dwarf a document batch.
// Inherited heuristic; override via config rather than re-deriving it.
const DefaultAudioWeightScale = 1.0 / 3.0

// Snapshot is one observed progress state, handed to display strategies and
// render elements.
type Snapshot struct {
	Value      float64 // weighted index in [0, Total]
	Total      float64
	Page       int // visible index in [0, TotalPages]
	TotalPages int
	Elapsed    time.Duration
}

// Done reports whether the weighted index has reached the total
func (s Snapshot) Done() bool {
	return s.Value >= s.Total
}

// Display renders progress state. Update is invoked on every accepted state
// change and may throttle actual drawing; Redraw draws unconditionally;
// Finish releases the display after the final state.
type Display interface {
	Update(s Snapshot)
	Redraw(s Snapshot)
	Finish(s Snapshot)
}

// Model holds the mutable progress state. It is owned by a single goroutine;
// no internal locking.
type Model struct {
	total      float64
	totalPages int
	value      float64
	page       int
	start      time.Time
	display    Display
}

// NewModel creates a model over the given totals. A nil display is silent.
func NewModel(totalWeighted float64, totalPages int, d Display) *Model {
	if d == nil {
		d = NilDisplay{}
	}
	return &Model{
		total:      totalWeighted,
		totalPages: totalPages,
		start:      time.Now(),
		display:    d,
	}
}

// Set applies one progress update. A request outside either scale's range,
// negative or beyond the stored total, is ignored entirely: no clamping,
// no error, no display change.
func (m *Model) Set(value float64, page int) {
	if value < 0 || value > m.total {
		return
	}
	if page < 0 || page > m.totalPages {
		return
	}
	m.value = value
	m.page = page
	m.display.Update(m.snapshot())
}

// Redraw forces the display to draw the current state, bypassing any
// throttling. Used at item boundaries.
func (m *Model) Redraw() {
	m.display.Redraw(m.snapshot())
}

// Finish releases the display after the run
func (m *Model) Finish() {
	m.display.Finish(m.snapshot())
}

// Value returns the current weighted index
func (m *Model) Value() float64 {
	return m.value
}

// Page returns the current visible index
func (m *Model) Page() int {
	return m.page
}

func (m *Model) snapshot() Snapshot {
	return Snapshot{
		Value:      m.value,
		Total:      m.total,
		Page:       m.page,
		TotalPages: m.totalPages,
		Elapsed:    time.Since(m.start),
	}
}

// NilDisplay is the silent strategy: it never draws anything.
type NilDisplay struct{}

func (NilDisplay) Update(Snapshot) {}
func (NilDisplay) Redraw(Snapshot) {}
func (NilDisplay) Finish(Snapshot) {}
