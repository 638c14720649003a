package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spherical-ai/scribe/internal/config"
	"github.com/spherical-ai/scribe/internal/convert"
	"github.com/spherical-ai/scribe/internal/history"
	"github.com/spherical-ai/scribe/internal/observability"
)

// runLedger records conversion runs in the history store, best-effort:
// every ledger failure is logged at warn and never affects the run.
type runLedger struct {
	store  *history.Store
	logger *observability.Logger
	runID  string
}

func openLedger(cfg *config.Config, logger *observability.Logger) *runLedger {
	rl := &runLedger{logger: logger}
	if !cfg.History.Enabled {
		return rl
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("run ledger unavailable")
		return rl
	}
	rl.store = store
	return rl
}

func (rl *runLedger) start(ctx context.Context, plan *convert.Plan) {
	if rl.store == nil {
		return
	}
	rl.runID = uuid.NewString()
	rl.logger = rl.logger.WithRun(rl.runID)
	items := 0
	for _, jp := range plan.Jobs {
		items += len(jp.Items)
	}
	err := rl.store.RecordStart(ctx, history.Run{
		ID:        rl.runID,
		StartedAt: time.Now().UTC(),
		Jobs:      len(plan.Jobs),
		Items:     items,
		Pages:     plan.TotalPages,
		Weighted:  plan.TotalWeighted,
	})
	if err != nil {
		rl.logger.Warn().Err(err).Msg("record run start")
		rl.runID = ""
	}
}

func (rl *runLedger) finish(ctx context.Context, runErr error) {
	if rl.store == nil {
		return
	}
	defer rl.store.Close()
	if rl.runID == "" {
		return
	}
	// The run outcome must land even when the run itself was interrupted.
	ctx = context.WithoutCancel(ctx)
	status, errText := history.StatusSucceeded, ""
	if runErr != nil {
		status, errText = history.StatusFailed, runErr.Error()
	}
	if err := rl.store.RecordFinish(ctx, rl.runID, status, errText, time.Now().UTC()); err != nil {
		rl.logger.Warn().Err(err).Msg("record run finish")
	}
}
