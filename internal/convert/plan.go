// Package convert plans and executes conversion batches: it probes inputs,
// sizes the progress scale, and drives extraction engines over each job in
// order.
package convert

import (
	"context"
	"io"
	"os"

	"github.com/spherical-ai/scribe/internal/domain"
	"github.com/spherical-ai/scribe/internal/observability"
	"github.com/spherical-ai/scribe/internal/pattern"
	"github.com/spherical-ai/scribe/internal/progress"
)

// Converter plans and executes conversion batches against one engine.
type Converter struct {
	engine domain.Engine
	scale  float64
	stdout io.Writer
	logger *observability.Logger
}

// New creates a converter. scale is the factor applied to duration-derived
// weights, zero meaning progress.DefaultAudioWeightScale. stdout receives
// extracted text for stdout destinations, nil meaning os.Stdout.
func New(engine domain.Engine, scale float64, stdout io.Writer, logger *observability.Logger) *Converter {
	if scale <= 0 {
		scale = progress.DefaultAudioWeightScale
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if logger == nil {
		logger = observability.Nop()
	}
	return &Converter{engine: engine, scale: scale, stdout: stdout, logger: logger}
}

// Plan is the probed shape of a batch: per-item metadata in job order plus
// the two progress totals. Read-only once built.
type Plan struct {
	Jobs          []JobPlan
	TotalWeighted float64
	TotalPages    int
}

// JobPlan pairs a job with its probed items. The job's destination set is
// already normalized: a job declared with no destinations targets stdout.
type JobPlan struct {
	Job   domain.Job
	Items []ItemPlan
}

// ItemPlan is one probed input. Scale is the multiplier applied to the raw
// weight and to progress hints: the audio factor for duration-weighted
// items, 1 otherwise.
type ItemPlan struct {
	Item  domain.SourceItem
	Meta  domain.Metadata
	Scale float64
}

// Weight is the item's effective contribution to the weighted total.
func (p ItemPlan) Weight() float64 {
	return p.Meta.Weight * p.Scale
}

// Plan probes every item in every job. Any metadata failure aborts the
// whole batch before any output is touched.
func (c *Converter) Plan(ctx context.Context, jobs []domain.Job) (*Plan, error) {
	if len(jobs) == 0 {
		return nil, domain.ValidationError("nothing to convert", nil)
	}

	plan := &Plan{Jobs: make([]JobPlan, 0, len(jobs))}
	for _, job := range jobs {
		if job.Out.Empty() {
			job.Out.Stdout = true
		}
		jp := JobPlan{Job: job, Items: make([]ItemPlan, 0, len(job.Items))}
		for _, item := range job.Items {
			meta, err := c.engine.Probe(ctx, item)
			if err != nil {
				return nil, err
			}
			scale := 1.0
			if meta.DurationWeighted() {
				scale = c.scale
			}
			ip := ItemPlan{Item: item, Meta: meta, Scale: scale}
			jp.Items = append(jp.Items, ip)
			plan.TotalPages += meta.Pages
			plan.TotalWeighted += ip.Weight()
			c.logger.Debug().
				Str("input", item.Path).
				Int("pages", meta.Pages).
				Float64("weight", ip.Weight()).
				Msg("probed input")
		}
		plan.Jobs = append(plan.Jobs, jp)
	}
	return plan, nil
}

// Output labels used in job summaries.
const (
	OutStdout    = "stdout"
	OutText      = "text"
	OutPageText  = "page text"
	OutPositions = "positions"
)

// InputSummary describes one planned input for display. Duration is set
// for duration-weighted items, Pages otherwise.
type InputSummary struct {
	Path     string
	Pages    int
	Duration float64
}

// OutputSummary describes one destination for display. Patterns arrive
// already normalized, so what the summary shows is exactly the shape the
// run will write.
type OutputSummary struct {
	Label string
	Path  string
}

// JobSummary is the displayable shape of one planned job.
type JobSummary struct {
	Inputs  []InputSummary
	Outputs []OutputSummary
}

// Describe flattens the plan for the pre-run summary.
func (p *Plan) Describe() []JobSummary {
	summaries := make([]JobSummary, 0, len(p.Jobs))
	for _, jp := range p.Jobs {
		s := JobSummary{}
		for _, ip := range jp.Items {
			in := InputSummary{Path: ip.Item.Path, Pages: ip.Meta.Pages}
			if ip.Meta.DurationWeighted() {
				in.Duration = ip.Meta.Weight
			}
			s.Inputs = append(s.Inputs, in)
		}
		s.Outputs = describeOutputs(jp.Job)
		summaries = append(summaries, s)
	}
	return summaries
}

func describeOutputs(job domain.Job) []OutputSummary {
	singleFlat := job.SingleFlat()
	var outs []OutputSummary
	if job.Out.Stdout {
		outs = append(outs, OutputSummary{Label: OutStdout})
	}
	for _, p := range job.Out.TextPaths {
		outs = append(outs, OutputSummary{Label: OutText, Path: p})
	}
	for _, p := range job.Out.PageTextPatterns {
		outs = append(outs, OutputSummary{Label: OutPageText, Path: pattern.Normalize(p, singleFlat)})
	}
	for _, p := range job.Out.PositionPatterns {
		outs = append(outs, OutputSummary{Label: OutPositions, Path: pattern.Normalize(p, singleFlat)})
	}
	return outs
}
