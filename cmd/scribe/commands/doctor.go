package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/scribe/cmd/scribe/ui"
	"github.com/spherical-ai/scribe/internal/domain"
	"github.com/spherical-ai/scribe/pkg/executor"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the external recognition tools are available",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, console, _, err := setup("", false, false)
	if err != nil {
		return err
	}
	x := executor.New()
	ctx := cmd.Context()

	checks := []struct {
		name string
		bin  string
		args []string
	}{
		{"tesseract", cfg.Engines.Tesseract.Binary, []string{"--version"}},
		{"whisper", cfg.Engines.Whisper.Binary, []string{"-h"}},
		{"ffmpeg", cfg.Engines.FFmpeg.Binary, []string{"-version"}},
		{"ffprobe", cfg.Engines.FFmpeg.ProbeBinary, []string{"-version"}},
	}

	missing := 0
	for _, check := range checks {
		spin := ui.NewSpinner(fmt.Sprintf("checking %s...", check.name))
		spin.Start()
		out, err := x.Execute(ctx, check.bin, check.args...)
		spin.Stop()
		if err != nil {
			console.Errorf("%s: not found (looked for %s)", check.name, check.bin)
			missing++
			continue
		}
		if line := firstLine(out); line != "" {
			console.Successf("%s", line)
		} else {
			console.Successf("%s found", check.name)
		}
	}

	if _, err := os.Stat(cfg.Engines.Whisper.ModelPath); err == nil {
		console.Successf("whisper model %s", cfg.Engines.Whisper.ModelPath)
	} else {
		console.Warnf("whisper model missing at %s, fetch one with scribe download-model", cfg.Engines.Whisper.ModelPath)
	}

	if missing > 0 {
		return domain.ConfigError(fmt.Sprintf("%d tool(s) missing", missing), nil)
	}
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
