package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"IdeaOasis/internal/collector"
	"IdeaOasis/internal/config"
	"IdeaOasis/internal/dedup"
	"IdeaOasis/internal/infrastructure/enrich"
	"IdeaOasis/internal/infrastructure/scheduler"
	"IdeaOasis/internal/infrastructure/storage"
	"IdeaOasis/internal/lifecycle"
	"IdeaOasis/internal/logging"
	"IdeaOasis/internal/ports"
	"IdeaOasis/internal/scoring"
	"IdeaOasis/internal/usecase"
)

// Application wires configuration to collectors, the pipeline and the
// scheduler, and owns the store connection.
type Application struct {
	cfg       config.Config
	store     *storage.SQLStore
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	logger    *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	collectors, err := buildCollectors(cfg, baseLogger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	var enricher ports.Enricher
	if cfg.OpenAI.APIKey != "" {
		enricher = enrich.NewOpenAIClient(cfg.OpenAI)
	} else {
		baseLogger.Warn("no enrichment credentials configured, published ideas use the fallback summary")
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Collectors:       collectors,
		Scorer:           scoring.NewEngine(),
		Dedup:            dedup.NewFilter(store, cfg.Pipeline.DedupWindowDays),
		Lifecycle:        lifecycle.NewManager(store),
		Enricher:         enricher,
		Store:            store,
		Logger:           baseLogger.With("component", "pipeline"),
		FetchLimit:       cfg.Pipeline.FetchLimit,
		Language:         cfg.Pipeline.Language,
		ArchiveThreshold: cfg.Pipeline.ArchiveThreshold(),
	})

	driver, err := scheduler.NewDailyScheduler(cfg.Scheduler.RunAt, cfg.Scheduler.Location())
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build scheduler: %w", err)
	}

	return &Application{
		cfg:      cfg,
		store:    store,
		pipeline: pipeline,
		scheduler: usecase.NewScheduler(
			driver,
			pipeline,
			store,
			baseLogger.With("component", "scheduler"),
			cfg.Scheduler.Location(),
		),
		logger: baseLogger,
	}, nil
}

func buildCollectors(cfg config.Config, logger *slog.Logger) ([]ports.SourceCollector, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	registry := collector.NewRegistry()
	registry.Register(collector.NewIdeaBrowser(client, logger.With("component", "collector.ideabrowser")))
	registry.Register(collector.NewHackerNews(client, logger.With("component", "collector.hackernews")))
	registry.Register(collector.NewProductHunt(client, logger.With("component", "collector.producthunt")))
	for _, feed := range cfg.Sources.Feeds {
		registry.Register(collector.NewRSSFeed(feed.Name, feed.URL, feed.SourceTag, client))
	}

	names := cfg.Sources.Enabled
	for _, feed := range cfg.Sources.Feeds {
		names = append(names, feed.Name)
	}

	var collectors []ports.SourceCollector
	for _, name := range names {
		c, err := registry.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("resolve source %q: %w", name, err)
		}
		collectors = append(collectors, c)
	}
	return collectors, nil
}

// RunOnce executes a single discovery run and returns.
func (a *Application) RunOnce(ctx context.Context) error {
	_, err := a.pipeline.RunDiscovery(ctx)
	return err
}

// Start launches the scheduled mode: a catch-up run if today has no active
// idea, then daily runs until the context is cancelled.
func (a *Application) Start(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	<-ctx.Done()
	return a.Shutdown(context.Background())
}

// Shutdown stops the scheduler and closes the store.
func (a *Application) Shutdown(ctx context.Context) error {
	if err := a.scheduler.Stop(ctx); err != nil {
		a.logger.Error("stopping scheduler", "error", err)
	}
	return a.store.Close()
}
