package ocr

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/scribe/internal/config"
	"github.com/spherical-ai/scribe/internal/domain"
)

// fakeTesseract plays the binary's part: it records the invocation and
// writes the output files a real run would leave behind.
type fakeTesseract struct {
	name string
	args []string
	text string
	tsv  string
	err  error
}

func (f *fakeTesseract) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.name = name
	f.args = args
	if f.err != nil {
		return "", f.err
	}
	outBase := args[1]
	if err := os.WriteFile(outBase+".txt", []byte(f.text), 0o644); err != nil {
		return "", err
	}
	for _, a := range args {
		if a == "tsv" {
			if err := os.WriteFile(outBase+".tsv", []byte(f.tsv), 0o644); err != nil {
				return "", err
			}
		}
	}
	return "", nil
}

func (f *fakeTesseract) Stream(ctx context.Context, onLine func(string), name string, args ...string) error {
	return nil
}

func testConfig() config.TesseractConfig {
	return config.TesseractConfig{Binary: "tesseract", Languages: "eng"}
}

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, []byte("not really a png"), 0o644))
	return path
}

func TestEngine_Run_TextOnly(t *testing.T) {
	fake := &fakeTesseract{text: "Hello world\n"}
	engine := New(testConfig(), fake, nil)

	text, layout, err := engine.Run(context.Background(), "scan.png", false)

	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
	assert.Nil(t, layout)

	require.Len(t, fake.args, 5)
	assert.Equal(t, "tesseract", fake.name)
	assert.Equal(t, "scan.png", fake.args[0])
	assert.Equal(t, "-l", fake.args[2])
	assert.Equal(t, "eng", fake.args[3])
	assert.Equal(t, "txt", fake.args[4])
}

func TestEngine_Run_WithLayout(t *testing.T) {
	fake := &fakeTesseract{text: "Hello world\n", tsv: sampleTSV}
	engine := New(testConfig(), fake, nil)

	text, layout, err := engine.Run(context.Background(), "scan.png", true)

	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
	require.NotNil(t, layout)
	assert.Equal(t, 640, layout.Width)
	assert.Len(t, layout.Words, 2)
	assert.Equal(t, "tsv", fake.args[len(fake.args)-1])
}

func TestEngine_Run_CommandFailure(t *testing.T) {
	fake := &fakeTesseract{err: assert.AnError}
	engine := New(testConfig(), fake, nil)

	_, _, err := engine.Run(context.Background(), "scan.png", false)

	assert.ErrorIs(t, err, assert.AnError)
}

func TestEngine_Probe(t *testing.T) {
	engine := New(testConfig(), &fakeTesseract{}, nil)

	meta, err := engine.Probe(context.Background(), domain.SourceItem{Path: writeTestImage(t), Kind: domain.KindImage})
	require.NoError(t, err)
	assert.Equal(t, domain.Metadata{Pages: 1, Weight: 1}, meta)

	_, err = engine.Probe(context.Background(), domain.SourceItem{Path: "missing.png", Kind: domain.KindImage})
	require.Error(t, err)
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrorTypeMetadata, derr.Type)
}

func TestEngine_Recognize_EmitsSinglePage(t *testing.T) {
	fake := &fakeTesseract{text: "Receipt total 12.50\n", tsv: sampleTSV}
	engine := New(testConfig(), fake, nil)

	events, err := engine.Recognize(context.Background(), domain.Request{
		Item:       domain.SourceItem{Path: writeTestImage(t), Kind: domain.KindImage},
		WantText:   true,
		WantLayout: true,
	})
	require.NoError(t, err)

	var got []domain.Event
	for ev := range events {
		got = append(got, ev)
	}

	require.Len(t, got, 1)
	assert.Equal(t, domain.EventPage, got[0].Type)
	assert.Equal(t, 1, got[0].Page)
	assert.Equal(t, "Receipt total 12.50", got[0].Text)
	require.NotNil(t, got[0].Layout)
	assert.Equal(t, 1, got[0].Layout.Page)
}

func TestEngine_Recognize_CommandFailureBecomesErrorEvent(t *testing.T) {
	fake := &fakeTesseract{err: assert.AnError}
	engine := New(testConfig(), fake, nil)

	events, err := engine.Recognize(context.Background(), domain.Request{
		Item: domain.SourceItem{Path: "scan.png", Kind: domain.KindImage},
	})
	require.NoError(t, err)

	ev, ok := <-events
	require.True(t, ok)
	assert.Equal(t, domain.EventError, ev.Type)
	assert.ErrorIs(t, ev.Err, assert.AnError)

	_, open := <-events
	assert.False(t, open)
}
