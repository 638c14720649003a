// Package pattern expands user-supplied output path templates into concrete
// per-page file paths.
package pattern

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spherical-ai/scribe/internal/domain"
)

// Placeholder is the literal token users place in a pattern where the page
// token should be substituted.
const Placeholder = "{}"

// Expand resolves a pattern against a replacement token. A pattern containing
// the placeholder has it substituted verbatim everywhere it occurs. Otherwise
// "-<replacement>" is inserted before the pattern's extension (or appended
// without one), unless the job is a single flat item, whose pattern is used
// as given.
func Expand(pat, replacement string, singleFlat bool) string {
	if strings.Contains(pat, Placeholder) {
		return strings.ReplaceAll(pat, Placeholder, replacement)
	}
	if singleFlat {
		return pat
	}
	ext := filepath.Ext(pat)
	return pat[:len(pat)-len(ext)] + "-" + replacement + ext
}

// Normalize shows a pattern the way Expand will treat it, with the
// placeholder standing in for the page token. Implemented as an expansion of
// the placeholder itself so the two can never branch differently.
func Normalize(pat string, singleFlat bool) string {
	return Expand(pat, Placeholder, singleFlat)
}

// Counts tallies a job's items by page structure; the document token format
// depends on them.
type Counts struct {
	MultiPage  int
	SinglePage int
}

// CountItems derives the multi/single tallies of a job's item list
func CountItems(items []domain.SourceItem) Counts {
	var c Counts
	for _, item := range items {
		if item.MultiPage() {
			c.MultiPage++
		} else {
			c.SinglePage++
		}
	}
	return c
}

// Token derives the replacement for one page of an item. Documents qualify
// their page number with the file's base name when the job holds other items
// that could collide (a second multi-page item, or any single-page item); a
// lone document uses the bare page number. Images and audio always use the
// base file name.
func Token(item domain.SourceItem, page int, c Counts) string {
	if item.MultiPage() {
		if c.MultiPage > 1 || c.SinglePage > 0 {
			return fmt.Sprintf("%s-%d", item.BaseName(), page)
		}
		return strconv.Itoa(page)
	}
	return item.BaseName()
}
