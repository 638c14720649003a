package speech

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spherical-ai/scribe/internal/domain"
)

// whisper-cli prints one line per decoded segment:
//
//	[00:01:02.340 --> 00:01:05.120]   And so the story begins.
//
// Anything else on stdout is chatter and is ignored.
var segmentLine = regexp.MustCompile(`^\[(\d+):(\d{2}):(\d{2})\.(\d{3}) --> (\d+):(\d{2}):(\d{2})\.(\d{3})\]\s*(.*)$`)

// ParseSegmentLine parses one line of whisper output into a segment.
// Non-segment lines return ok false.
func ParseSegmentLine(line string) (domain.Segment, bool) {
	m := segmentLine.FindStringSubmatch(line)
	if m == nil {
		return domain.Segment{}, false
	}
	return domain.Segment{
		Start: clockSeconds(m[1], m[2], m[3], m[4]),
		End:   clockSeconds(m[5], m[6], m[7], m[8]),
		Text:  strings.TrimSpace(m[9]),
	}, true
}

// JoinSegments flattens segments into transcript text, one segment per
// line, skipping empty segments.
func JoinSegments(segments []domain.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func clockSeconds(h, m, s, ms string) float64 {
	hh, _ := strconv.Atoi(h)
	mm, _ := strconv.Atoi(m)
	ss, _ := strconv.Atoi(s)
	mmm, _ := strconv.Atoi(ms)
	return float64(hh)*3600 + float64(mm)*60 + float64(ss) + float64(mmm)/1000
}
