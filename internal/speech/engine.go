// Package speech transcribes audio and video with whisper.cpp, using
// ffmpeg to decode input and ffprobe for duration metadata.
package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spherical-ai/scribe/internal/config"
	"github.com/spherical-ai/scribe/internal/domain"
	"github.com/spherical-ai/scribe/internal/observability"
	"github.com/spherical-ai/scribe/pkg/executor"
)

// Engine transcribes audio items.
type Engine struct {
	whisper config.WhisperConfig
	ffmpeg  config.FFmpegConfig
	exec    executor.Executor
	logger  *observability.Logger
}

// New creates a speech engine over the configured whisper and ffmpeg
// binaries.
func New(whisper config.WhisperConfig, ffmpeg config.FFmpegConfig, x executor.Executor, logger *observability.Logger) *Engine {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Engine{whisper: whisper, ffmpeg: ffmpeg, exec: x, logger: logger}
}

// Probe reads the media duration with ffprobe. Audio items report a single
// page whose weight is the duration in seconds.
func (e *Engine) Probe(ctx context.Context, item domain.SourceItem) (domain.Metadata, error) {
	out, err := e.exec.Execute(ctx, e.ffmpeg.ProbeBinary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		item.Path)
	if err != nil {
		return domain.Metadata{}, domain.MetadataError(fmt.Sprintf("probe %s", item.Path), err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return domain.Metadata{}, domain.MetadataError(fmt.Sprintf("probe %s", item.Path), fmt.Errorf("parse duration %q: %w", strings.TrimSpace(out), err))
	}
	return domain.Metadata{Pages: 1, Weight: seconds}, nil
}

// Recognize decodes the input to 16 kHz mono WAV, streams it through
// whisper-cli, and emits a progress event per decoded segment followed by
// a single terminal page event carrying the full transcript.
func (e *Engine) Recognize(ctx context.Context, req domain.Request) (<-chan domain.Event, error) {
	if _, err := os.Stat(e.whisper.ModelPath); err != nil {
		return nil, domain.ConfigError(fmt.Sprintf("whisper model %s missing, fetch it with scribe download-model", e.whisper.ModelPath), err)
	}

	events := make(chan domain.Event, 16)
	go func() {
		defer close(events)

		workDir, err := os.MkdirTemp("", "scribe-speech-*")
		if err != nil {
			events <- domain.ErrorEvent(domain.ExtractionError("create work dir", err))
			return
		}
		defer os.RemoveAll(workDir)

		wavPath := filepath.Join(workDir, "audio.wav")
		e.logger.Debug().Str("input", req.Item.Path).Msg("decoding to 16 kHz mono wav")
		if _, err := e.exec.Execute(ctx, e.ffmpeg.Binary,
			"-i", req.Item.Path,
			"-vn",
			"-ar", "16000",
			"-ac", "1",
			"-c:a", "pcm_s16le",
			"-y", wavPath); err != nil {
			events <- domain.ErrorEvent(domain.ExtractionError(fmt.Sprintf("decode %s", req.Item.Path), err))
			return
		}

		var segments []domain.Segment
		onLine := func(line string) {
			seg, ok := ParseSegmentLine(line)
			if !ok {
				return
			}
			segments = append(segments, seg)
			events <- domain.ProgressEvent(seg.End)
		}

		e.logger.Debug().Str("input", req.Item.Path).Str("model", e.whisper.ModelPath).Msg("running whisper")
		if err := e.exec.Stream(ctx, onLine, e.whisper.Binary,
			"-m", e.whisper.ModelPath,
			"-f", wavPath,
			"-l", e.whisper.Language,
			"-t", strconv.Itoa(e.whisper.Threads)); err != nil {
			events <- domain.ErrorEvent(domain.ExtractionError(fmt.Sprintf("transcribe %s", req.Item.Path), err))
			return
		}

		var layout *domain.PageLayout
		if req.WantLayout {
			layout = &domain.PageLayout{Page: 1, Segments: segments}
		}
		events <- domain.PageEvent(1, JoinSegments(segments), layout)
	}()
	return events, nil
}
