package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spherical-ai/scribe/internal/domain"
	"github.com/spherical-ai/scribe/internal/pattern"
	"github.com/spherical-ai/scribe/internal/progress"
)

// execution carries the cumulative position across jobs. pageOffset and
// weightOffset advance only at item boundaries; within an item the engine's
// events position progress relative to them.
type execution struct {
	model        *progress.Model
	pageOffset   int
	weightOffset float64
}

// Execute runs the plan strictly sequentially: jobs in order, items in
// order, one item's events fully drained before the next begins. Any error
// aborts the run; output already flushed stays where it is.
func (c *Converter) Execute(ctx context.Context, plan *Plan, display progress.Display) error {
	exec := &execution{model: progress.NewModel(plan.TotalWeighted, plan.TotalPages, display)}

	for _, jp := range plan.Jobs {
		sinks, err := openTextSinks(jp.Job)
		if err != nil {
			return err
		}
		err = c.runJob(ctx, jp, exec, sinks)
		closeSinks(sinks)
		if err != nil {
			return err
		}
	}
	exec.model.Finish()
	return nil
}

func (c *Converter) runJob(ctx context.Context, jp JobPlan, exec *execution, sinks []*os.File) error {
	counts := pattern.CountItems(jp.Job.Items)
	for _, ip := range jp.Items {
		if err := c.runItem(ctx, jp.Job, ip, counts, exec, sinks); err != nil {
			return err
		}
		exec.pageOffset += ip.Meta.Pages
		exec.weightOffset += ip.Weight()
		exec.model.Set(exec.weightOffset, exec.pageOffset)
		exec.model.Redraw()
	}
	return nil
}

func (c *Converter) runItem(ctx context.Context, job domain.Job, ip ItemPlan, counts pattern.Counts, exec *execution, sinks []*os.File) error {
	events, err := c.engine.Recognize(ctx, domain.Request{
		Item:       ip.Item,
		WantText:   job.Out.WantsText(),
		WantLayout: job.Out.WantsLayout(),
	})
	if err != nil {
		return err
	}

	err = c.consumeEvents(job, ip, counts, exec, sinks, events)
	// Unblock the engine goroutine if we bailed before the channel closed.
	go func() {
		for range events {
		}
	}()
	return err
}

func (c *Converter) consumeEvents(job domain.Job, ip ItemPlan, counts pattern.Counts, exec *execution, sinks []*os.File, events <-chan domain.Event) error {
	for ev := range events {
		switch ev.Type {
		case domain.EventProgress:
			exec.model.Set(exec.weightOffset+ev.Seconds*ip.Scale, exec.pageOffset)
		case domain.EventPage:
			exec.model.Set(exec.weightOffset+float64(ev.Page), exec.pageOffset+ev.Page)
			if err := c.writeUnit(job, ip, ev, counts, sinks); err != nil {
				return err
			}
		case domain.EventError:
			return ev.Err
		}
	}
	return nil
}

// writeUnit distributes one page event's payloads: text plus a blank line
// appended to stdout and every full-text sink (synced after each write),
// and full overwrites of resolved pattern destinations.
func (c *Converter) writeUnit(job domain.Job, ip ItemPlan, ev domain.Event, counts pattern.Counts, sinks []*os.File) error {
	singleFlat := job.SingleFlat()
	token := pattern.Token(ip.Item, ev.Page, counts)

	if ev.HasText {
		payload := []byte(ev.Text + "\n\n")
		if job.Out.Stdout {
			if _, err := c.stdout.Write(payload); err != nil {
				return domain.WriteError("write stdout", err)
			}
		}
		for i, f := range sinks {
			if _, err := f.Write(payload); err != nil {
				return domain.WriteError(fmt.Sprintf("write %s", job.Out.TextPaths[i]), err)
			}
			if err := f.Sync(); err != nil {
				return domain.WriteError(fmt.Sprintf("sync %s", job.Out.TextPaths[i]), err)
			}
		}
		for _, pat := range job.Out.PageTextPatterns {
			if err := writePatternFile(pat, token, singleFlat, []byte(ev.Text)); err != nil {
				return err
			}
		}
	}

	if ev.Layout != nil && len(job.Out.PositionPatterns) > 0 {
		data, err := json.MarshalIndent(ev.Layout, "", "  ")
		if err != nil {
			return domain.WriteError("encode positions", err)
		}
		for _, pat := range job.Out.PositionPatterns {
			if err := writePatternFile(pat, token, singleFlat, data); err != nil {
				return err
			}
		}
	}
	return nil
}
