package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/spherical-ai/scribe/internal/domain"
)

// whisper.cpp publishes converted ggml models here.
const modelBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// KnownModels lists the model names download-model accepts, smallest
// first.
var KnownModels = []string{
	"tiny", "tiny.en",
	"base", "base.en",
	"small", "small.en",
	"medium", "medium.en",
	"large-v3", "large-v3-turbo",
}

// ModelFileName returns the on-disk file name for a model.
func ModelFileName(name string) string {
	return "ggml-" + name + ".bin"
}

// DownloadModel fetches a whisper model into dir, drawing a byte progress
// bar on stderr unless quiet. An already downloaded model is left alone.
func DownloadModel(ctx context.Context, name, dir string, quiet bool) (string, error) {
	if !slices.Contains(KnownModels, name) {
		return "", domain.ValidationError(fmt.Sprintf("unknown model %s, known models: %s", name, strings.Join(KnownModels, ", ")), nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create models dir: %w", err)
	}

	dest := filepath.Join(dir, ModelFileName(name))
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}

	url := modelBaseURL + "/" + ModelFileName(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	partial := dest + ".partial"
	f, err := os.Create(partial)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", partial, err)
	}

	var out io.Writer = f
	if !quiet {
		bar := progressbar.DefaultBytes(resp.ContentLength, "downloading "+ModelFileName(name))
		out = io.MultiWriter(f, bar)
	}

	_, err = io.Copy(out, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(partial)
		return "", fmt.Errorf("download %s: %w", url, err)
	}

	if err := os.Rename(partial, dest); err != nil {
		return "", fmt.Errorf("finalize %s: %w", dest, err)
	}
	return dest, nil
}
