// Package extract routes conversion work to the engine for each item kind.
package extract

import (
	"context"
	"fmt"

	"github.com/spherical-ai/scribe/internal/config"
	"github.com/spherical-ai/scribe/internal/domain"
	"github.com/spherical-ai/scribe/internal/observability"
	"github.com/spherical-ai/scribe/internal/ocr"
	"github.com/spherical-ai/scribe/internal/pdf"
	"github.com/spherical-ai/scribe/internal/speech"
	"github.com/spherical-ai/scribe/pkg/executor"
)

// Service dispatches Probe and Recognize calls by item kind. It satisfies
// domain.Engine itself so callers never see the split.
type Service struct {
	document domain.Engine
	image    domain.Engine
	audio    domain.Engine
}

// NewService wires per-kind engines behind a single Engine.
func NewService(document, image, audio domain.Engine) *Service {
	return &Service{document: document, image: image, audio: audio}
}

// FromConfig builds the production engine set: go-fitz for documents,
// tesseract for images and rasterized pages, whisper for audio.
func FromConfig(cfg *config.Config, x executor.Executor, logger *observability.Logger) *Service {
	ocrEngine := ocr.New(cfg.Engines.Tesseract, x, logger)
	return NewService(
		pdf.New(ocrEngine, logger),
		ocrEngine,
		speech.New(cfg.Engines.Whisper, cfg.Engines.FFmpeg, x, logger),
	)
}

// Probe reports metadata for the item via its engine.
func (s *Service) Probe(ctx context.Context, item domain.SourceItem) (domain.Metadata, error) {
	engine, err := s.engineFor(item.Kind)
	if err != nil {
		return domain.Metadata{}, err
	}
	return engine.Probe(ctx, item)
}

// Recognize starts conversion of the item via its engine.
func (s *Service) Recognize(ctx context.Context, req domain.Request) (<-chan domain.Event, error) {
	engine, err := s.engineFor(req.Item.Kind)
	if err != nil {
		return nil, err
	}
	return engine.Recognize(ctx, req)
}

func (s *Service) engineFor(kind domain.ItemKind) (domain.Engine, error) {
	switch kind {
	case domain.KindDocument:
		return s.document, nil
	case domain.KindImage:
		return s.image, nil
	case domain.KindAudio:
		return s.audio, nil
	default:
		return nil, domain.ValidationError(fmt.Sprintf("no engine for kind %s", kind), nil)
	}
}
