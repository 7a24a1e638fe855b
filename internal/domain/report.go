package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoTimestamp marks an entry without a published or updated time.
var ErrNoTimestamp = errors.New("entry has no usable timestamp")

// FeedError records a feed that contributed no entries because it failed.
type FeedError struct {
	Feed Feed
	Err  error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("feed %s: %v", e.Feed.URL, e.Err)
}

func (e *FeedError) Unwrap() error { return e.Err }

// EntryError records a single entry dropped during normalization.
type EntryError struct {
	Feed  Feed
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("feed %s entry %d: %v", e.Feed.URL, e.Index, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// BucketResult summarizes what happened to one daily bucket in a run.
type BucketResult struct {
	Date    string
	Total   int
	Added   int
	ReadErr error
	SaveErr error
	// ArchiveErr is set when mirroring new articles to the archive failed.
	ArchiveErr error
}

// Saved reports whether the bucket was written in this run.
func (b BucketResult) Saved() bool {
	return b.Added > 0 && b.SaveErr == nil
}

// RunReport aggregates the outcome of one pipeline execution.
type RunReport struct {
	StartedAt   time.Time
	Window      TimeWindow
	Feeds       int
	FeedErrors  []FeedError
	Entries     int
	NoTimestamp int
	// EntryErrors excludes ErrNoTimestamp rejections, which are only counted.
	EntryErrors []EntryError
	OutOfWindow int
	Accepted    int
	Buckets     []BucketResult
}

// Added returns the number of new articles across all buckets.
func (r RunReport) Added() int {
	total := 0
	for _, b := range r.Buckets {
		total += b.Added
	}
	return total
}
