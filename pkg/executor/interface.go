// Package executor runs external recognition tools. Engines depend on the
// interface so tests can substitute fakes for tesseract, ffmpeg and whisper.
package executor

import "context"

// Executor executes external commands.
type Executor interface {
	// Execute runs a command to completion and returns its stdout. On
	// failure the returned error carries the captured stderr.
	Execute(ctx context.Context, name string, args ...string) (string, error)

	// Stream runs a command, invoking onLine for every line the command
	// writes to stdout as it appears. Stderr is captured for the error.
	Stream(ctx context.Context, onLine func(string), name string, args ...string) error
}
