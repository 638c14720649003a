// Package ocr recognizes text in images by driving a tesseract binary.
package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spherical-ai/scribe/internal/config"
	"github.com/spherical-ai/scribe/internal/domain"
	"github.com/spherical-ai/scribe/internal/observability"
	"github.com/spherical-ai/scribe/pkg/executor"
)

// Engine converts single images. It also serves as the fallback recognizer
// for rasterized document pages.
type Engine struct {
	bin       string
	languages string
	exec      executor.Executor
	logger    *observability.Logger
}

// New creates an OCR engine over the configured tesseract binary.
func New(cfg config.TesseractConfig, x executor.Executor, logger *observability.Logger) *Engine {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Engine{
		bin:       cfg.Binary,
		languages: cfg.Languages,
		exec:      x,
		logger:    logger,
	}
}

// Probe verifies the image is readable. Images are always one page of
// weight one.
func (e *Engine) Probe(ctx context.Context, item domain.SourceItem) (domain.Metadata, error) {
	f, err := os.Open(item.Path)
	if err != nil {
		return domain.Metadata{}, domain.MetadataError(fmt.Sprintf("read %s", item.Path), err)
	}
	f.Close()
	return domain.Metadata{Pages: 1, Weight: 1}, nil
}

// Recognize emits the single terminal page event for an image.
func (e *Engine) Recognize(ctx context.Context, req domain.Request) (<-chan domain.Event, error) {
	events := make(chan domain.Event, 4)
	go func() {
		defer close(events)
		text, layout, err := e.Run(ctx, req.Item.Path, req.WantLayout)
		if err != nil {
			events <- domain.ErrorEvent(domain.ExtractionError(fmt.Sprintf("recognize %s", req.Item.Path), err))
			return
		}
		if layout != nil {
			layout.Page = 1
		}
		events <- domain.PageEvent(1, text, layout)
	}()
	return events, nil
}

// Run invokes tesseract over one image file, returning the recognized text
// and, when requested, the word layout. A single invocation produces both
// outputs.
func (e *Engine) Run(ctx context.Context, path string, wantLayout bool) (string, *domain.PageLayout, error) {
	workDir, err := os.MkdirTemp("", "scribe-ocr-*")
	if err != nil {
		return "", nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	outBase := filepath.Join(workDir, "page")
	args := []string{path, outBase, "-l", e.languages, "txt"}
	if wantLayout {
		args = append(args, "tsv")
	}

	e.logger.Debug().Str("image", path).Str("languages", e.languages).Msg("running tesseract")
	if _, err := e.exec.Execute(ctx, e.bin, args...); err != nil {
		return "", nil, err
	}

	textBytes, err := os.ReadFile(outBase + ".txt")
	if err != nil {
		return "", nil, fmt.Errorf("read tesseract text output: %w", err)
	}
	text := strings.TrimRight(string(textBytes), "\n")

	if !wantLayout {
		return text, nil, nil
	}

	tsvBytes, err := os.ReadFile(outBase + ".tsv")
	if err != nil {
		return "", nil, fmt.Errorf("read tesseract tsv output: %w", err)
	}
	return text, parseTSV(string(tsvBytes)), nil
}
