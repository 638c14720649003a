package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/scribe/cmd/scribe/ui"
	"github.com/spherical-ai/scribe/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent conversion runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, console, _, err := setup("", false, false)
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		console.Infof("run history is disabled")
		return nil
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		console.Infof("no runs recorded yet")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			shortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Status,
			strconv.Itoa(r.Jobs),
			strconv.Itoa(r.Items),
			strconv.Itoa(r.Pages),
			runDuration(r),
		})
	}
	console.Table([]string{"ID", "STARTED", "STATUS", "JOBS", "ITEMS", "PAGES", "TOOK"}, rows)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runDuration(r history.Run) string {
	if r.FinishedAt.IsZero() {
		return "-"
	}
	return ui.FormatDuration(r.FinishedAt.Sub(r.StartedAt))
}
