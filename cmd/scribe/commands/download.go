package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/scribe/internal/speech"
)

var downloadQuiet bool

var downloadCmd = &cobra.Command{
	Use:   "download-model [name]",
	Short: "Download a whisper speech model into the data directory",
	Long: `Download a whisper.cpp model for audio transcription. Without a name
the base.en model is fetched. Known models: ` + knownModelList() + `.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().BoolVarP(&downloadQuiet, "quiet", "q", false, "no download progress")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, console, _, err := setup("", false, false)
	if err != nil {
		return err
	}

	name := "base.en"
	if len(args) == 1 {
		name = args[0]
	}

	path, err := speech.DownloadModel(cmd.Context(), name, cfg.ModelsDir(), downloadQuiet)
	if err != nil {
		return err
	}
	console.Successf("model ready at %s", path)
	return nil
}

func knownModelList() string {
	return strings.Join(speech.KnownModels, ", ")
}
