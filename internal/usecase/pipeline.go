package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"dailynews/internal/domain"
	"dailynews/internal/ports"
)

// PipelineDeps wires all driven adapters into the run pipeline.
type PipelineDeps struct {
	Feeds      ports.FeedListLoader
	Collector  *Collector
	Resolver   ports.WindowResolver
	Normalizer *Normalizer
	Store      ports.BucketStore
	Archive    ports.ArticleArchive
	Logger     *slog.Logger
}

// Pipeline implements one fetch-filter-merge-persist run.
type Pipeline struct {
	feeds      ports.FeedListLoader
	collector  *Collector
	resolver   ports.WindowResolver
	normalizer *Normalizer
	store      ports.BucketStore
	archive    ports.ArticleArchive
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		feeds:      deps.Feeds,
		collector:  deps.Collector,
		resolver:   deps.Resolver,
		normalizer: deps.Normalizer,
		store:      deps.Store,
		archive:    deps.Archive,
		logger:     deps.Logger,
	}
}

// Run executes the pipeline for an invocation at now. Per-feed, per-entry
// and per-bucket failures are recorded in the report; an error is returned
// only when the pipeline itself is not wired.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (domain.RunReport, error) {
	report := domain.RunReport{StartedAt: now}
	if p.feeds == nil || p.collector == nil || p.resolver == nil || p.normalizer == nil || p.store == nil {
		return report, fmt.Errorf("pipeline is not fully configured")
	}

	p.info("run started", "time", now)

	feeds, err := p.feeds.LoadFeeds(ctx)
	if err != nil {
		p.warn("feed list unavailable", "error", err)
		feeds = nil
	}
	report.Feeds = len(feeds)
	if len(feeds) == 0 {
		p.info("no feeds found")
		return report, nil
	}

	report.Window = p.resolver.Resolve(now)
	p.info("time window",
		"slot", report.Window.Slot,
		"start", report.Window.Start.Format(domain.DateLayout),
		"end", report.Window.End.Format(domain.DateLayout))

	results := p.collector.Collect(ctx, feeds)
	accepted := p.filter(results, &report)

	grouped := GroupByDay(accepted)
	days := make([]string, 0, len(grouped))
	for day := range grouped {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		report.Buckets = append(report.Buckets, p.saveBucket(ctx, day, grouped[day]))
	}

	p.info("run finished",
		"feeds", report.Feeds,
		"failed_feeds", len(report.FeedErrors),
		"entries", report.Entries,
		"accepted", report.Accepted,
		"added", report.Added())
	return report, nil
}

// filter normalizes every entry in feed order and keeps those in the window.
func (p *Pipeline) filter(results []FeedResult, report *domain.RunReport) []domain.Article {
	var accepted []domain.Article

	for _, res := range results {
		if res.Err != nil {
			report.FeedErrors = append(report.FeedErrors, domain.FeedError{Feed: res.Feed, Err: res.Err})
			continue
		}

		for i, raw := range res.Entries {
			report.Entries++

			article, published, err := p.normalizer.Normalize(res.Feed, raw)
			switch {
			case errors.Is(err, domain.ErrNoTimestamp):
				report.NoTimestamp++
				continue
			case err != nil:
				report.EntryErrors = append(report.EntryErrors, domain.EntryError{Feed: res.Feed, Index: i, Err: err})
				p.debug("entry skipped", "feed", res.Feed.Title, "index", i, "error", err)
				continue
			}

			if !report.Window.Contains(published) {
				report.OutOfWindow++
				continue
			}
			accepted = append(accepted, article)
		}
	}

	report.Accepted = len(accepted)
	return accepted
}

// saveBucket merges a day's batch into the persisted bucket and writes it
// back only when something new was added.
func (p *Pipeline) saveBucket(ctx context.Context, day string, batch []domain.Article) domain.BucketResult {
	result := domain.BucketResult{Date: day}

	existing, err := p.store.Load(ctx, day)
	if err != nil {
		result.ReadErr = err
		p.warn("cannot read bucket, starting empty", "date", day, "error", err)
		existing = nil
	}

	merged, added := MergeBucket(existing, batch)
	result.Total = len(merged)
	result.Added = added

	if added == 0 {
		p.info("no new articles", "date", day)
		return result
	}

	if err := p.store.Save(ctx, day, merged); err != nil {
		result.SaveErr = err
		p.logError("cannot save bucket", "date", day, "error", err)
		return result
	}
	p.info("bucket saved", "date", day, "total", result.Total, "new", added)

	if p.archive != nil {
		if err := p.archive.Archive(ctx, day, merged[len(merged)-added:]); err != nil {
			result.ArchiveErr = err
			p.warn("cannot archive articles", "date", day, "error", err)
		}
	}

	return result
}

func (p *Pipeline) debug(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Pipeline) info(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) logError(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Error(msg, args...)
	}
}
