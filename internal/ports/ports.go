package ports

import (
	"context"
	"time"

	"dailynews/internal/domain"
)

// FeedListLoader returns the feeds to poll in this run.
type FeedListLoader interface {
	LoadFeeds(ctx context.Context) ([]domain.Feed, error)
}

// FeedSource fetches and parses a single feed document.
type FeedSource interface {
	Fetch(ctx context.Context, url string) ([]domain.RawEntry, error)
}

// BucketStore reads and writes daily buckets. Load of an absent bucket
// returns an empty slice and no error.
type BucketStore interface {
	Load(ctx context.Context, day string) ([]domain.Article, error)
	Save(ctx context.Context, day string, articles []domain.Article) error
}

// ArticleArchive mirrors newly persisted articles for history queries.
type ArticleArchive interface {
	Archive(ctx context.Context, day string, articles []domain.Article) error
}

// WindowResolver maps an invocation instant to the window it covers.
type WindowResolver interface {
	Resolve(now time.Time) domain.TimeWindow
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
