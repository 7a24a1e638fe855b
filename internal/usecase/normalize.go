package usecase

import (
	"fmt"
	"time"

	"dailynews/internal/domain"
)

// Normalizer turns raw feed entries into articles stamped in the target zone.
type Normalizer struct {
	location *time.Location
}

// NewNormalizer returns a normalizer for loc; nil means UTC.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{location: loc}
}

// Normalize builds the article for raw and returns its publication instant in
// the target zone. Entries without any timestamp yield domain.ErrNoTimestamp.
func (n *Normalizer) Normalize(feed domain.Feed, raw domain.RawEntry) (article domain.Article, published time.Time, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("normalize entry: %v", r)
		}
	}()

	stamp := raw.Published
	if stamp == nil {
		stamp = raw.Updated
	}
	if stamp == nil || stamp.IsZero() {
		return domain.Article{}, time.Time{}, domain.ErrNoTimestamp
	}

	published = utcCivil(*stamp).In(n.location)

	article = domain.Article{
		Source:   feed.Title,
		Category: feed.Category,
		Title:    valueOr(raw.Title, domain.DefaultEntryTitle),
		Link:     valueOr(raw.Link, ""),
		Date:     published.Format(domain.DateLayout),
		Summary:  valueOr(raw.Summary, ""),
	}
	return article, published, nil
}

// utcCivil reads the second-resolution UTC calendar fields of t.
func utcCivil(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), 0, time.UTC)
}

func valueOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
