package domain

import "time"

const (
	// DateLayout formats the Article.Date field.
	DateLayout = "2006-01-02 15:04"
	// DayLayout names a DailyBucket.
	DayLayout = "2006-01-02"

	DefaultFeedTitle    = "Unknown"
	DefaultFeedCategory = "Uncategorized"
	DefaultEntryTitle   = "No Title"
)

// Feed is one syndication source from the feed list.
type Feed struct {
	Title    string
	URL      string
	Category string
}

// RawEntry is a single item as returned by a FeedSource.
// Nil pointers mean the field was absent in the source document.
type RawEntry struct {
	Published *time.Time
	Updated   *time.Time
	Title     *string
	Link      *string
	Summary   *string
}

// Article is the normalized record persisted in daily buckets.
type Article struct {
	Source   string `json:"source"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Date     string `json:"date"`
	Summary  string `json:"summary"`
}

// Day returns the bucket key (YYYY-MM-DD) of the article.
func (a Article) Day() string {
	if len(a.Date) < len(DayLayout) {
		return a.Date
	}
	return a.Date[:len(DayLayout)]
}

// TimeWindow is the inclusive [Start, End] publication range of a run.
type TimeWindow struct {
	Start time.Time
	End   time.Time
	// Slot names the schedule slot that produced the window; empty for the
	// off-schedule fallback.
	Slot string
}

// Contains reports whether t lies within the window, both bounds inclusive.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// OffSchedule reports whether the window came from the fallback policy.
func (w TimeWindow) OffSchedule() bool {
	return w.Slot == ""
}

// DailyBucket holds the persisted articles of one calendar date.
type DailyBucket struct {
	Date     string
	Articles []Article
}
