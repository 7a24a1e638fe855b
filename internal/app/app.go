package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"dailynews/internal/config"
	"dailynews/internal/domain"
	"dailynews/internal/infrastructure/feedsource"
	"dailynews/internal/infrastructure/opml"
	"dailynews/internal/infrastructure/scheduler"
	"dailynews/internal/infrastructure/storage"
	"dailynews/internal/logging"
	"dailynews/internal/ports"
	"dailynews/internal/schedule"
	"dailynews/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	resolver *schedule.Resolver
	logger   *slog.Logger
	closers  []io.Closer
	clock    func() time.Time
}

// Overrides replaces adapters built from config; used by tests and embedders.
type Overrides struct {
	Source  ports.FeedSource
	Store   ports.BucketStore
	Archive ports.ArticleArchive
	Clock   func() time.Time
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	return NewWithOverrides(ctx, cfg, baseLogger, Overrides{})
}

// NewWithOverrides is New with selected adapters supplied by the caller.
func NewWithOverrides(ctx context.Context, cfg config.Config, baseLogger *slog.Logger, ov Overrides) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	a := &Application{cfg: cfg, logger: baseLogger, clock: ov.Clock}
	if a.clock == nil {
		a.clock = time.Now
	}

	loc := cfg.Schedule.Location()
	a.resolver = schedule.NewResolver(cfg.Schedule.Policy(), loc, logging.Component(baseLogger, "schedule"))

	source := ov.Source
	if source == nil {
		source = feedsource.NewGofeedSource(&http.Client{Timeout: cfg.Fetch.Timeout}, cfg.Fetch.UserAgent)
	}

	store := ov.Store
	if store == nil {
		var err error
		store, err = a.buildStore(ctx)
		if err != nil {
			return nil, err
		}
	}

	archive := ov.Archive
	if archive == nil && cfg.Archive.DSN != "" {
		repo, err := storage.OpenPostgres(ctx, cfg.Archive.DSN)
		if err != nil {
			baseLogger.Warn("archive disabled", "error", err)
		} else {
			archive = repo
			a.closers = append(a.closers, repo)
		}
	}

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Feeds:      opml.NewLoader(cfg.Feeds.OPMLFile, logging.Component(baseLogger, "opml")),
		Collector:  usecase.NewCollector(source, cfg.Fetch.Workers, cfg.Fetch.Timeout, logging.Component(baseLogger, "collector")),
		Resolver:   a.resolver,
		Normalizer: usecase.NewNormalizer(loc),
		Store:      store,
		Archive:    archive,
		Logger:     logging.Component(baseLogger, "pipeline"),
	})

	return a, nil
}

func (a *Application) buildStore(ctx context.Context) (ports.BucketStore, error) {
	switch a.cfg.Storage.Backend {
	case "", config.BackendFile:
		return storage.NewFileStore(a.cfg.Storage.Dir), nil
	case config.BackendS3:
		s3cfg := storage.S3Config{
			Bucket:       a.cfg.Storage.S3.Bucket,
			Prefix:       a.cfg.Storage.S3.Prefix,
			Region:       a.cfg.Storage.S3.Region,
			Profile:      a.cfg.Storage.S3.Profile,
			Endpoint:     a.cfg.Storage.S3.Endpoint,
			UsePathStyle: a.cfg.Storage.S3.UsePathStyle,
		}
		if s3cfg.Bucket == "" {
			return nil, fmt.Errorf("s3 storage requires a bucket")
		}
		client, err := storage.NewS3Client(ctx, s3cfg)
		if err != nil {
			return nil, fmt.Errorf("init s3 storage: %w", err)
		}
		return storage.NewS3Store(client, s3cfg), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.cfg.Storage.Backend)
	}
}

// Run performs a single pipeline execution, or keeps running at every slot
// boundary when the daemon mode is enabled.
func (a *Application) Run(ctx context.Context) error {
	defer a.close()

	if !a.cfg.Scheduler.Daemon {
		_, err := a.RunOnce(ctx)
		return err
	}

	driver := scheduler.NewSlotScheduler(a.resolver)
	sched := usecase.NewScheduler(driver, a.pipeline, logging.Component(a.logger, "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	if next, ok := a.resolver.NextBoundary(a.clock()); ok {
		a.logger.Info("waiting for next slot", "at", next)
	}

	driver.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return sched.Stop(stopCtx)
}

// RunOnce executes the pipeline for the current instant in the target zone.
func (a *Application) RunOnce(ctx context.Context) (domain.RunReport, error) {
	now := a.clock().In(a.cfg.Schedule.Location())
	return a.pipeline.Run(ctx, now)
}

func (a *Application) close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close resource", "error", err)
		}
	}
	a.closers = nil
}
