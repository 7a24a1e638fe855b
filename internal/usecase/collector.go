package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"dailynews/internal/domain"
	"dailynews/internal/ports"
)

const (
	defaultWorkers     = 4
	defaultFeedTimeout = 30 * time.Second
)

// FeedResult holds the entries of one feed, or the error that replaced them.
type FeedResult struct {
	Feed    domain.Feed
	Entries []domain.RawEntry
	Err     error
}

// Collector fetches feeds through a bounded worker pool.
type Collector struct {
	source  ports.FeedSource
	workers int
	timeout time.Duration
	logger  *slog.Logger
}

// NewCollector wires the feed source; non-positive values fall back to
// defaults.
func NewCollector(source ports.FeedSource, workers int, timeout time.Duration, logger *slog.Logger) *Collector {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if timeout <= 0 {
		timeout = defaultFeedTimeout
	}
	return &Collector{source: source, workers: workers, timeout: timeout, logger: logger}
}

// Collect fetches every feed and returns one result per feed in input order.
// Failures are carried in FeedResult.Err and never stop other fetches.
func (c *Collector) Collect(ctx context.Context, feeds []domain.Feed) []FeedResult {
	results := make([]FeedResult, len(feeds))

	var g errgroup.Group
	g.SetLimit(c.workers)

	for i, feed := range feeds {
		i, feed := i, feed
		g.Go(func() error {
			results[i] = c.fetchOne(ctx, feed)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (c *Collector) fetchOne(ctx context.Context, feed domain.Feed) (res FeedResult) {
	res.Feed = feed
	defer func() {
		if r := recover(); r != nil {
			res.Entries = nil
			res.Err = fmt.Errorf("fetch panicked: %v", r)
		}
		if res.Err != nil {
			c.warn("feed skipped", "feed", feed.Title, "url", feed.URL, "error", res.Err)
		}
	}()

	if c.source == nil {
		res.Err = fmt.Errorf("feed source is not configured")
		return res
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	entries, err := c.source.Fetch(fetchCtx, feed.URL)
	if err != nil {
		res.Err = fmt.Errorf("fetch: %w", err)
		return res
	}

	res.Entries = entries
	c.debug("feed fetched", "feed", feed.Title, "entries", len(entries), "elapsed", time.Since(started))
	return res
}

func (c *Collector) debug(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Collector) warn(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
