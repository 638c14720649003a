// Package pdf converts PDF documents page by page using go-fitz, falling
// back to OCR for scanned pages.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/spherical-ai/scribe/internal/domain"
	"github.com/spherical-ai/scribe/internal/observability"
)

// rasterQuality is the JPEG quality used when a page is rendered for OCR.
const rasterQuality = 95

// Recognizer runs OCR over a single rendered page image. Word positions
// always come from OCR; embedded text never carries them.
type Recognizer interface {
	Run(ctx context.Context, path string, wantLayout bool) (string, *domain.PageLayout, error)
}

// Engine converts PDF documents.
type Engine struct {
	ocr    Recognizer
	logger *observability.Logger
}

// New creates a document engine that rasterizes through the given
// recognizer when a page has no embedded text or positions are requested.
func New(ocr Recognizer, logger *observability.Logger) *Engine {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Engine{ocr: ocr, logger: logger}
}

// Probe opens the document and reports its page count. Every page weighs
// one unit.
func (e *Engine) Probe(ctx context.Context, item domain.SourceItem) (domain.Metadata, error) {
	doc, err := fitz.New(item.Path)
	if err != nil {
		return domain.Metadata{}, domain.MetadataError(fmt.Sprintf("open %s", item.Path), err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages == 0 {
		return domain.Metadata{}, domain.MetadataError(fmt.Sprintf("open %s", item.Path), errors.New("document has no pages"))
	}
	return domain.Metadata{Pages: pages, Weight: float64(pages)}, nil
}

// Recognize emits one page event per page in ascending order. Pages with
// embedded text are read directly; scanned pages, and all pages when the
// caller wants word positions, are rendered and passed through OCR.
func (e *Engine) Recognize(ctx context.Context, req domain.Request) (<-chan domain.Event, error) {
	doc, err := fitz.New(req.Item.Path)
	if err != nil {
		return nil, domain.OpenError(fmt.Sprintf("open %s", req.Item.Path), err)
	}

	events := make(chan domain.Event, 4)
	go func() {
		defer close(events)
		defer doc.Close()

		var workDir string
		defer func() {
			if workDir != "" {
				os.RemoveAll(workDir)
			}
		}()

		for n := 0; n < doc.NumPage(); n++ {
			select {
			case <-ctx.Done():
				events <- domain.ErrorEvent(ctx.Err())
				return
			default:
			}

			page := n + 1
			text, err := doc.Text(n)
			if err != nil {
				events <- domain.ErrorEvent(domain.ExtractionError(fmt.Sprintf("read page %d of %s", page, req.Item.Path), err))
				return
			}
			embedded := strings.TrimSpace(text) != ""

			if embedded && !req.WantLayout {
				events <- domain.PageEvent(page, strings.TrimRight(text, "\n"), nil)
				continue
			}

			if workDir == "" {
				workDir, err = os.MkdirTemp("", "scribe-pdf-*")
				if err != nil {
					events <- domain.ErrorEvent(domain.ExtractionError("create work dir", err))
					return
				}
			}

			imgPath, err := e.renderPage(doc, n, workDir)
			if err != nil {
				events <- domain.ErrorEvent(domain.ExtractionError(fmt.Sprintf("render page %d of %s", page, req.Item.Path), err))
				return
			}

			e.logger.Debug().Str("document", req.Item.Path).Int("page", page).Msg("running OCR on rendered page")
			recognized, layout, err := e.ocr.Run(ctx, imgPath, req.WantLayout)
			if err != nil {
				events <- domain.ErrorEvent(domain.ExtractionError(fmt.Sprintf("recognize page %d of %s", page, req.Item.Path), err))
				return
			}

			// Embedded text is more faithful than OCR; keep it when present
			// even if the page went through OCR for positions.
			pageText := strings.TrimRight(text, "\n")
			if !embedded {
				pageText = recognized
			}
			if layout != nil {
				layout.Page = page
			}
			events <- domain.PageEvent(page, pageText, layout)
		}
	}()
	return events, nil
}

// renderPage renders one page to a JPEG in the work directory.
func (e *Engine) renderPage(doc *fitz.Document, n int, workDir string) (string, error) {
	img, err := doc.Image(n)
	if err != nil {
		return "", err
	}

	path := filepath.Join(workDir, fmt.Sprintf("page_%03d.jpg", n+1))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	err = jpeg.Encode(f, img, &jpeg.Options{Quality: rasterQuality})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}
	return path, nil
}
