package domain

import (
	"path/filepath"
	"strings"
)

// ItemKind classifies a source item by the engine that converts it
type ItemKind string

const (
	KindDocument ItemKind = "document" // multi-page (PDF)
	KindImage    ItemKind = "image"    // single page
	KindAudio    ItemKind = "audio"    // single segment, duration-weighted
)

// SourceItem is a single input file within a job
type SourceItem struct {
	Path string
	Kind ItemKind
}

// MultiPage reports whether the item can span more than one page
func (s SourceItem) MultiPage() bool {
	return s.Kind == KindDocument
}

// BaseName returns the file name with directory and extension stripped
func (s SourceItem) BaseName() string {
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputSet holds the declared destinations of one job
type OutputSet struct {
	Stdout           bool
	TextPaths        []string // full-text sinks, appended per unit
	PageTextPatterns []string // one file per page, templated
	PositionPatterns []string // one layout file per page, templated
}

// Empty reports whether no destination was declared
func (o OutputSet) Empty() bool {
	return !o.Stdout && len(o.TextPaths) == 0 &&
		len(o.PageTextPatterns) == 0 && len(o.PositionPatterns) == 0
}

// WantsText reports whether any destination consumes extracted text
func (o OutputSet) WantsText() bool {
	return o.Stdout || len(o.TextPaths) > 0 || len(o.PageTextPatterns) > 0
}

// WantsLayout reports whether any destination consumes positional data
func (o OutputSet) WantsLayout() bool {
	return len(o.PositionPatterns) > 0
}

// Job is one user-declared input group sharing a set of output destinations.
// Built once from command-line tokens and read-only during conversion.
type Job struct {
	Items []SourceItem
	Out   OutputSet
}

// SingleFlat reports whether the job holds exactly one item that is not
// multi-page. Such a job's output patterns are used verbatim, without a
// synthesized page suffix.
func (j Job) SingleFlat() bool {
	return len(j.Items) == 1 && !j.Items[0].MultiPage()
}

// Metadata is the probed unit count of one item: documents report their true
// page count with weight equal to pages, images (1, 1), audio (1, seconds).
type Metadata struct {
	Pages  int
	Weight float64
}

// DurationWeighted detects the audio special case: exactly one page whose
// weight is not 1. Only such weights are rescaled into the global progress
// total.
func (m Metadata) DurationWeighted() bool {
	return m.Pages == 1 && m.Weight != 1
}

// EventType represents the type of recognition event
type EventType string

const (
	EventPage     EventType = "page"     // a finished page or single-unit result
	EventProgress EventType = "progress" // partial advance, audio only
	EventError    EventType = "error"    // terminal failure
)

// Event is one incremental result emitted by a recognition engine. Page
// events carry the 1-based page number within the item plus whatever payloads
// were requested; progress events carry cumulative seconds processed; error
// events terminate the sequence.
type Event struct {
	Type    EventType
	Page    int
	Text    string
	HasText bool
	Layout  *PageLayout
	Seconds float64
	Err     error
}

// PageEvent builds a page event carrying extracted text
func PageEvent(page int, text string, layout *PageLayout) Event {
	return Event{Type: EventPage, Page: page, Text: text, HasText: true, Layout: layout}
}

// ProgressEvent builds an audio progress event at the given cumulative seconds
func ProgressEvent(seconds float64) Event {
	return Event{Type: EventProgress, Seconds: seconds}
}

// ErrorEvent builds a terminal error event
func ErrorEvent(err error) Event {
	return Event{Type: EventError, Err: err}
}

// PageLayout is the structured position payload of one page: recognized words
// with bounding boxes for visual media, timed segments for audio
type PageLayout struct {
	Page     int       `json:"page,omitempty"`
	Width    int       `json:"width,omitempty"`
	Height   int       `json:"height,omitempty"`
	Words    []Word    `json:"words,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
}

// Word is a recognized word with its bounding box and confidence
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0.0-1.0
	Box        Box     `json:"bbox"`
}

// Box is a pixel-space bounding box, origin top-left
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Segment is a timed span of transcribed speech
type Segment struct {
	Start float64 `json:"start"` // seconds
	End   float64 `json:"end"`   // seconds
	Text  string  `json:"text"`
}
