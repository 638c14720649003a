package ocr

import (
	"strconv"
	"strings"

	"github.com/spherical-ai/scribe/internal/domain"
)

// Column layout of tesseract's TSV output.
const (
	colLevel  = 0
	colLeft   = 6
	colTop    = 7
	colWidth  = 8
	colHeight = 9
	colConf   = 10
	colText   = 11
	colCount  = 12
)

// Row levels we care about. Level 1 carries the page dimensions, level 5
// the individual words; blocks, paragraphs and lines sit in between.
const (
	levelPage = 1
	levelWord = 5
)

// parseTSV reads tesseract's TSV report into a page layout. Rows that do
// not parse, words with no text, and words tesseract refused to score are
// skipped.
func parseTSV(data string) *domain.PageLayout {
	layout := &domain.PageLayout{}
	for _, line := range strings.Split(data, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < colCount {
			continue
		}
		level, err := strconv.Atoi(fields[colLevel])
		if err != nil {
			continue
		}
		switch level {
		case levelPage:
			layout.Width, _ = strconv.Atoi(fields[colWidth])
			layout.Height, _ = strconv.Atoi(fields[colHeight])
		case levelWord:
			conf, err := strconv.ParseFloat(fields[colConf], 64)
			if err != nil || conf < 0 {
				continue
			}
			text := fields[colText]
			if strings.TrimSpace(text) == "" {
				continue
			}
			word := domain.Word{
				Text:       text,
				Confidence: conf / 100,
			}
			word.Box.X, _ = strconv.Atoi(fields[colLeft])
			word.Box.Y, _ = strconv.Atoi(fields[colTop])
			word.Box.Width, _ = strconv.Atoi(fields[colWidth])
			word.Box.Height, _ = strconv.Atoi(fields[colHeight])
			layout.Words = append(layout.Words, word)
		}
	}
	return layout
}
