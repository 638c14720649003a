// Package wrap folds text to a column width for terminal display. Embedded
// ANSI escape sequences are treated as zero-width and are never split, so
// colored output survives wrapping intact.
package wrap

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type run struct {
	text  string
	space bool
}

// String wraps s to the given visible column width. A width <= 0 disables
// wrapping and returns s unchanged. Wrapping its own output at the same width
// is a no-op.
func String(s string, width int) string {
	if width <= 0 {
		return s
	}
	runs := segment(s)
	if len(runs) == 0 {
		return s
	}

	out := make([]string, 0, len(runs))
	lineLen := 0
	for idx, r := range runs {
		vis := VisibleLen(r.text)

		if r.space {
			// a space run that would reach the margin becomes the break itself
			if lineLen+vis >= width {
				out = append(out, "\n")
				lineLen = 0
				continue
			}
			// spaces carried over to a fresh line are dropped, except at the
			// very start of the input
			if lineLen == 0 && idx > 0 {
				continue
			}
			out = append(out, r.text)
			// an emitted newline starts a fresh line, so the counter follows
			// the cursor, keeping re-wrapping at the same width a no-op
			if j := strings.LastIndexByte(r.text, '\n'); j >= 0 {
				lineLen = VisibleLen(r.text[j+1:])
			} else {
				lineLen += vis
			}
			continue
		}

		if lineLen+vis >= width {
			if lineLen > 0 {
				// the space that led into this word becomes the break
				out[len(out)-1] = "\n"
				lineLen = 0
			}
			chunks := splitVisible(r.text, width)
			for i, c := range chunks {
				if i > 0 {
					out = append(out, "\n")
				}
				out = append(out, c)
			}
			lineLen = VisibleLen(chunks[len(chunks)-1])
			continue
		}

		out = append(out, r.text)
		lineLen += vis
	}
	return strings.Join(out, "")
}

// VisibleLen counts the runes of s that occupy a terminal column, skipping
// escape sequences.
func VisibleLen(s string) int {
	n := 0
	for i := 0; i < len(s); {
		if seq := escapeLen(s[i:]); seq > 0 {
			i += seq
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n++
	}
	return n
}

// segment cuts s into alternating space and word runs. Escape sequences count
// as word content regardless of the bytes they contain, so a run boundary can
// never fall inside one.
func segment(s string) []run {
	var runs []run
	start := 0
	inSpace := false
	began := false
	for i := 0; i < len(s); {
		if n := escapeLen(s[i:]); n > 0 {
			if began && inSpace {
				runs = append(runs, run{s[start:i], true})
				start = i
			}
			inSpace = false
			began = true
			i += n
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		isSpace := unicode.IsSpace(r)
		if began && isSpace != inSpace {
			runs = append(runs, run{s[start:i], inSpace})
			start = i
		}
		inSpace = isSpace
		began = true
		i += size
	}
	if began {
		runs = append(runs, run{s[start:], inSpace})
	}
	return runs
}

// splitVisible cuts s into pieces of at most width visible runes. Split
// points fall only on visible rune boundaries; escape sequences between two
// split points stay with the chunk they follow.
func splitVisible(s string, width int) []string {
	var chunks []string
	start := 0
	count := 0
	for i := 0; i < len(s); {
		if seq := escapeLen(s[i:]); seq > 0 {
			i += seq
			continue
		}
		if count == width {
			chunks = append(chunks, s[start:i])
			start = i
			count = 0
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return append(chunks, s[start:])
}

// escapeLen returns the byte length of the escape sequence at the start of s,
// or 0 when s does not begin with one. Recognized sequences are ESC '['
// followed by parameter/intermediate bytes (0x20-0x3f) and one final byte
// (0x40-0x7e). A malformed or unterminated sequence is not treated as one.
func escapeLen(s string) int {
	if len(s) < 2 || s[0] != 0x1b || s[1] != '[' {
		return 0
	}
	for i := 2; i < len(s); i++ {
		c := s[i]
		if c >= 0x40 && c <= 0x7e {
			return i + 1
		}
		if c < 0x20 || c > 0x3f {
			return 0
		}
	}
	return 0
}
