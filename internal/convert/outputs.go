package convert

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spherical-ai/scribe/internal/domain"
	"github.com/spherical-ai/scribe/internal/pattern"
)

// openTextSinks opens every full-text destination of a job up front,
// creating parent directories and truncating existing files. On failure the
// already opened sinks are closed and the whole run aborts.
func openTextSinks(job domain.Job) ([]*os.File, error) {
	sinks := make([]*os.File, 0, len(job.Out.TextPaths))
	for _, path := range job.Out.TextPaths {
		if err := ensureParent(path); err != nil {
			closeSinks(sinks)
			return nil, domain.OpenError(fmt.Sprintf("create %s", path), err)
		}
		f, err := os.Create(path)
		if err != nil {
			closeSinks(sinks)
			return nil, domain.OpenError(fmt.Sprintf("create %s", path), err)
		}
		sinks = append(sinks, f)
	}
	return sinks, nil
}

func closeSinks(sinks []*os.File) {
	for _, f := range sinks {
		f.Close()
	}
}

// writePatternFile resolves one pattern destination and fully overwrites
// the resolved path.
func writePatternFile(pat, replacement string, singleFlat bool, data []byte) error {
	path := pattern.Expand(pat, replacement, singleFlat)
	if err := ensureParent(path); err != nil {
		return domain.WriteError(fmt.Sprintf("write %s", path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return domain.WriteError(fmt.Sprintf("write %s", path), err)
	}
	return nil
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
