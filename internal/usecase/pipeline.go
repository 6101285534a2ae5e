package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newsdigest/internal/domain"
	"newsdigest/internal/feeds"
	"newsdigest/internal/ports"
	"newsdigest/internal/runstate"
)

// FetchTask names one registry fetcher together with the category and cap it
// should be invoked with. The pipeline executes tasks strictly in order.
type FetchTask struct {
	Fetcher     string
	Category    domain.Category
	MaxArticles int
}

// Pipeline executes one full collection-to-delivery run. Fetch and stage
// failures degrade the run; only assembly and delivery failures abort it.
type Pipeline struct {
	registry   *feeds.Registry
	plan       []FetchTask
	stages     []ports.Stage
	assembler  ports.Assembler
	deliverer  ports.Deliverer
	recipients []string
	logger     *slog.Logger
}

// PipelineDeps groups everything a pipeline needs to run.
type PipelineDeps struct {
	Registry   *feeds.Registry
	Plan       []FetchTask
	Stages     []ports.Stage
	Assembler  ports.Assembler
	Deliverer  ports.Deliverer
	Recipients []string
	Logger     *slog.Logger
}

// NewPipeline wires a pipeline from its collaborators. The deliverer may be
// nil when no transport is configured; the run then fails at delivery time.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		registry:   deps.Registry,
		plan:       deps.Plan,
		stages:     deps.Stages,
		assembler:  deps.Assembler,
		deliverer:  deps.Deliverer,
		recipients: deps.Recipients,
		logger:     deps.Logger,
	}
}

// Run executes collection, enrichment, assembly and delivery for one cycle
// starting at now. It returns the final run state alongside any terminal
// error so callers can inspect diagnostics either way.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (*runstate.State, error) {
	state := runstate.New(now)
	p.logger.Info("pipeline run started", "at", state.StartedAt)

	p.collect(ctx, state)
	if state.Collected.Len() == 0 {
		return state, fmt.Errorf("pipeline: no articles collected")
	}

	p.enrich(ctx, state)

	digest, err := p.assembler.Assemble(state, now)
	if err != nil {
		return state, fmt.Errorf("assemble digest: %w", err)
	}
	state.Digest = digest

	if p.deliverer == nil {
		return state, fmt.Errorf("deliver digest: no transport configured")
	}
	if err := p.deliverer.Deliver(ctx, digest, p.recipients); err != nil {
		return state, fmt.Errorf("deliver digest: %w", err)
	}
	state.DeliveredTo = append([]string(nil), p.recipients...)
	state.DeliveredVia = p.deliverer.Name()

	p.logger.Info("pipeline run finished",
		"articles", state.Collected.Len(),
		"delivered_to", len(state.DeliveredTo),
		"via", state.DeliveredVia)
	return state, nil
}

// collect walks the fetch plan in order. A failed fetch is logged and skipped
// so one unreachable source cannot empty the whole digest.
func (p *Pipeline) collect(ctx context.Context, state *runstate.State) {
	for _, task := range p.plan {
		fetcher, err := p.registry.Resolve(task.Fetcher)
		if err != nil {
			p.logger.Warn("fetch task skipped", "fetcher", task.Fetcher, "error", err)
			continue
		}

		res, err := fetcher.Fetch(ctx, state, feeds.Request{
			Category:    task.Category,
			MaxArticles: task.MaxArticles,
		})
		if err != nil {
			p.logger.Warn("fetch failed",
				"fetcher", task.Fetcher,
				"category", task.Category,
				"error", err)
			continue
		}

		p.logger.Info("fetch finished",
			"fetcher", task.Fetcher,
			"category", res.Category,
			"collected", res.Collected,
			"total_entries", res.TotalEntries,
			"too_old", res.TooOld,
			"date_parse_fail", res.DateParseFail,
			"missing_title", res.MissingTitle,
			"sports_filtered", res.SportsFiltered)
	}
}

// enrich runs the stages in order. The first stage failure stops the chain;
// assembly then falls back to the last successful stage's output.
func (p *Pipeline) enrich(ctx context.Context, state *runstate.State) {
	for _, stage := range p.stages {
		if err := stage.Run(ctx, state); err != nil {
			p.logger.Warn("stage failed, later stages skipped",
				"stage", stage.Name(), "error", err)
			return
		}
		p.logger.Info("stage finished", "stage", stage.Name())
	}
}
