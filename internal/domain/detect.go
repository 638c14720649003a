package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var kindByExt = map[string]ItemKind{
	".pdf": KindDocument,

	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".gif":  KindImage,
	".bmp":  KindImage,
	".tif":  KindImage,
	".tiff": KindImage,
	".webp": KindImage,

	".mp3":  KindAudio,
	".wav":  KindAudio,
	".m4a":  KindAudio,
	".aac":  KindAudio,
	".flac": KindAudio,
	".ogg":  KindAudio,
	".opus": KindAudio,
	// video containers are handled by the audio engine, which strips the
	// video stream before transcribing
	".mp4":  KindAudio,
	".mov":  KindAudio,
	".mkv":  KindAudio,
	".webm": KindAudio,
}

// DetectKind maps a file path to its item kind by extension
func DetectKind(path string) (ItemKind, bool) {
	kind, ok := kindByExt[strings.ToLower(filepath.Ext(path))]
	return kind, ok
}

// NewSourceItem validates a path and classifies it. The returned errors are
// the user-facing input validation failures.
func NewSourceItem(path string) (SourceItem, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SourceItem{}, ValidationError(fmt.Sprintf("%s does not exist", path), nil)
	}
	if info.IsDir() {
		return SourceItem{}, ValidationError(fmt.Sprintf("%s is a directory", path), nil)
	}
	kind, ok := DetectKind(path)
	if !ok {
		return SourceItem{}, ValidationError(fmt.Sprintf("unsupported file type: %s", path), nil)
	}
	return SourceItem{Path: path, Kind: kind}, nil
}
