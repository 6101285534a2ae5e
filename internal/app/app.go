package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"newsdigest/internal/config"
	"newsdigest/internal/digest"
	"newsdigest/internal/domain"
	"newsdigest/internal/enrich"
	"newsdigest/internal/feeds"
	"newsdigest/internal/infrastructure/email"
	feedsinfra "newsdigest/internal/infrastructure/feeds"
	"newsdigest/internal/infrastructure/scheduler"
	"newsdigest/internal/logging"
	"newsdigest/internal/ports"
	"newsdigest/internal/usecase"
)

const fetchTimeout = 15 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	logger    *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.RunLogPath)
	}

	client := &http.Client{Timeout: fetchTimeout}

	var resolver feedsinfra.Resolver
	if cfg.Fetch.ResolveEnabled() {
		resolver = feedsinfra.NewRedirectResolver(fetchTimeout)
	}

	plan := buildPlan(cfg.Fetch.Plan, baseLogger)

	registry := feeds.NewRegistry()
	registry.Register(feedsinfra.NewGoogleNewsFetcher(
		client,
		resolver,
		firstTopic("google-news", plan),
		baseLogger.With("component", "fetcher.google-news"),
	))
	registry.Register(feedsinfra.NewCNNFetcher(client))
	registry.Register(feedsinfra.NewFoxNewsFetcher(client))
	registry.Register(feedsinfra.NewReutersFetcher(client))

	stages := []ports.Stage{
		enrich.NewPreprocessor(true),
		enrich.NewCredibilityScorer(),
		enrich.NewClaimFlagger(),
		enrich.NewSentimentAnalyzer(),
		enrich.NewBiasAnalyzer(),
	}

	deliverer, err := email.Select(cfg.Email)
	if err != nil {
		baseLogger.Warn("no email transport configured, delivery will fail", "error", err)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Registry:   registry,
		Plan:       plan,
		Stages:     stages,
		Assembler:  digest.NewAssembler(),
		Deliverer:  deliverer,
		Recipients: cfg.Email.Recipients,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewCronScheduler(cfg.Scheduler.CronSpecs, cfg.Scheduler.Location())

	return &Application{
		cfg:       cfg,
		pipeline:  pipeline,
		scheduler: usecase.NewScheduler(driver, pipeline),
		logger:    baseLogger,
	}
}

// Run performs a single pipeline execution.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	now := time.Now().In(a.cfg.Scheduler.Location())
	_, err := a.pipeline.Run(ctx, now)
	return err
}

// RunScheduled starts the cron driver and blocks until the context is
// cancelled, then stops the driver with a bounded shutdown window.
func (a *Application) RunScheduled(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}
	a.logger.Info("scheduler started", "specs", a.cfg.Scheduler.CronSpecs)

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return a.scheduler.Stop(stopCtx)
}

// buildPlan converts configured plan entries to fetch tasks, dropping entries
// whose category is not recognized.
func buildPlan(entries []config.PlanEntry, logger *slog.Logger) []usecase.FetchTask {
	plan := make([]usecase.FetchTask, 0, len(entries))
	for _, e := range entries {
		cat := domain.Category(e.Category)
		if !cat.Valid() {
			logger.Warn("fetch plan entry dropped", "fetcher", e.Fetcher, "category", e.Category)
			continue
		}
		plan = append(plan, usecase.FetchTask{
			Fetcher:     e.Fetcher,
			Category:    cat,
			MaxArticles: e.MaxArticles,
		})
	}
	return plan
}

// firstTopic returns the category of the first plan entry for the named
// fetcher. The aggregator resets the collection when it sees this category.
func firstTopic(fetcher string, plan []usecase.FetchTask) domain.Category {
	for _, task := range plan {
		if task.Fetcher == fetcher {
			return task.Category
		}
	}
	return ""
}
