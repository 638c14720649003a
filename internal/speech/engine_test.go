package speech

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/scribe/internal/config"
	"github.com/spherical-ai/scribe/internal/domain"
)

// fakeRunner stands in for ffprobe, ffmpeg and whisper-cli. Execute serves
// the first two, Stream plays back whisper stdout.
type fakeRunner struct {
	execCalls  [][]string
	streamCall []string
	probeOut   string
	execErr    error
	lines      []string
	streamErr  error
}

func (f *fakeRunner) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.execCalls = append(f.execCalls, append([]string{name}, args...))
	if f.execErr != nil {
		return "", f.execErr
	}
	return f.probeOut, nil
}

func (f *fakeRunner) Stream(ctx context.Context, onLine func(string), name string, args ...string) error {
	f.streamCall = append([]string{name}, args...)
	for _, line := range f.lines {
		onLine(line)
	}
	return f.streamErr
}

func testEngine(t *testing.T, fake *fakeRunner) *Engine {
	t.Helper()
	modelPath := filepath.Join(t.TempDir(), "ggml-base.en.bin")
	require.NoError(t, os.WriteFile(modelPath, []byte("weights"), 0o644))
	return New(
		config.WhisperConfig{Binary: "whisper-cli", ModelPath: modelPath, Language: "auto", Threads: 4},
		config.FFmpegConfig{Binary: "ffmpeg", ProbeBinary: "ffprobe"},
		fake, nil,
	)
}

func collect(t *testing.T, events <-chan domain.Event) []domain.Event {
	t.Helper()
	var got []domain.Event
	for ev := range events {
		got = append(got, ev)
	}
	return got
}

func TestEngine_Probe(t *testing.T) {
	fake := &fakeRunner{probeOut: "12.345\n"}
	engine := testEngine(t, fake)

	meta, err := engine.Probe(context.Background(), domain.SourceItem{Path: "talk.mp3", Kind: domain.KindAudio})

	require.NoError(t, err)
	assert.Equal(t, 1, meta.Pages)
	assert.InDelta(t, 12.345, meta.Weight, 1e-9)

	require.Len(t, fake.execCalls, 1)
	call := fake.execCalls[0]
	assert.Equal(t, "ffprobe", call[0])
	assert.Contains(t, call, "format=duration")
	assert.Equal(t, "talk.mp3", call[len(call)-1])
}

func TestEngine_Probe_UnparsableDuration(t *testing.T) {
	fake := &fakeRunner{probeOut: "N/A\n"}
	engine := testEngine(t, fake)

	_, err := engine.Probe(context.Background(), domain.SourceItem{Path: "talk.mp3", Kind: domain.KindAudio})

	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrorTypeMetadata, derr.Type)
}

func TestEngine_Recognize_MissingModel(t *testing.T) {
	engine := New(
		config.WhisperConfig{Binary: "whisper-cli", ModelPath: "/nowhere/ggml-base.en.bin", Language: "auto", Threads: 4},
		config.FFmpegConfig{Binary: "ffmpeg", ProbeBinary: "ffprobe"},
		&fakeRunner{}, nil,
	)

	_, err := engine.Recognize(context.Background(), domain.Request{
		Item: domain.SourceItem{Path: "talk.mp3", Kind: domain.KindAudio},
	})

	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrorTypeConfig, derr.Type)
	assert.Contains(t, derr.Message, "download-model")
}

func TestEngine_Recognize_ProgressThenTranscript(t *testing.T) {
	fake := &fakeRunner{lines: []string{
		"whisper_init_from_file_with_params_no_state: loading model",
		"[00:00:00.000 --> 00:00:04.000]   Hello there.",
		"[00:00:04.000 --> 00:00:08.500]  General remarks follow.",
		"",
	}}
	engine := testEngine(t, fake)

	events, err := engine.Recognize(context.Background(), domain.Request{
		Item:     domain.SourceItem{Path: "talk.mp3", Kind: domain.KindAudio},
		WantText: true,
	})
	require.NoError(t, err)
	got := collect(t, events)

	require.Len(t, got, 3)
	assert.Equal(t, domain.EventProgress, got[0].Type)
	assert.InDelta(t, 4, got[0].Seconds, 1e-9)
	assert.Equal(t, domain.EventProgress, got[1].Type)
	assert.InDelta(t, 8.5, got[1].Seconds, 1e-9)

	page := got[2]
	assert.Equal(t, domain.EventPage, page.Type)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, "Hello there.\nGeneral remarks follow.", page.Text)
	assert.Nil(t, page.Layout)

	// ffmpeg must decode to 16 kHz mono pcm before whisper runs.
	require.Len(t, fake.execCalls, 1)
	decode := fake.execCalls[0]
	assert.Equal(t, "ffmpeg", decode[0])
	assert.Contains(t, decode, "16000")
	assert.Contains(t, decode, "pcm_s16le")
	assert.True(t, strings.HasSuffix(decode[len(decode)-1], ".wav"))

	require.NotEmpty(t, fake.streamCall)
	assert.Equal(t, "whisper-cli", fake.streamCall[0])
	assert.Contains(t, fake.streamCall, "-m")
	assert.Contains(t, fake.streamCall, "auto")
	assert.Contains(t, fake.streamCall, "4")
}

func TestEngine_Recognize_LayoutCarriesSegments(t *testing.T) {
	fake := &fakeRunner{lines: []string{
		"[00:00:00.000 --> 00:00:02.000] One.",
		"[00:00:02.000 --> 00:00:05.000] Two.",
	}}
	engine := testEngine(t, fake)

	events, err := engine.Recognize(context.Background(), domain.Request{
		Item:       domain.SourceItem{Path: "talk.mp3", Kind: domain.KindAudio},
		WantLayout: true,
	})
	require.NoError(t, err)
	got := collect(t, events)

	page := got[len(got)-1]
	require.NotNil(t, page.Layout)
	assert.Equal(t, 1, page.Layout.Page)
	require.Len(t, page.Layout.Segments, 2)
	assert.Equal(t, "Two.", page.Layout.Segments[1].Text)
	assert.InDelta(t, 5, page.Layout.Segments[1].End, 1e-9)
}

func TestEngine_Recognize_DecodeFailure(t *testing.T) {
	fake := &fakeRunner{execErr: assert.AnError}
	engine := testEngine(t, fake)

	events, err := engine.Recognize(context.Background(), domain.Request{
		Item: domain.SourceItem{Path: "talk.mp3", Kind: domain.KindAudio},
	})
	require.NoError(t, err)
	got := collect(t, events)

	require.Len(t, got, 1)
	assert.Equal(t, domain.EventError, got[0].Type)
	assert.ErrorIs(t, got[0].Err, assert.AnError)
}

func TestEngine_Recognize_WhisperFailureAfterSegments(t *testing.T) {
	fake := &fakeRunner{
		lines:     []string{"[00:00:00.000 --> 00:00:03.000] Partial."},
		streamErr: assert.AnError,
	}
	engine := testEngine(t, fake)

	events, err := engine.Recognize(context.Background(), domain.Request{
		Item: domain.SourceItem{Path: "talk.mp3", Kind: domain.KindAudio},
	})
	require.NoError(t, err)
	got := collect(t, events)

	require.Len(t, got, 2)
	assert.Equal(t, domain.EventProgress, got[0].Type)
	assert.Equal(t, domain.EventError, got[1].Type)
}

func TestModelFileName(t *testing.T) {
	assert.Equal(t, "ggml-base.en.bin", ModelFileName("base.en"))
}

func TestDownloadModel_UnknownModel(t *testing.T) {
	_, err := DownloadModel(context.Background(), "colossal", t.TempDir(), true)

	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrorTypeValidation, derr.Type)
}

func TestDownloadModel_AlreadyPresent(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "ggml-tiny.bin")
	require.NoError(t, os.WriteFile(existing, []byte("weights"), 0o644))

	path, err := DownloadModel(context.Background(), "tiny", dir, true)

	require.NoError(t, err)
	assert.Equal(t, existing, path)
}
