package feedsource

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"dailynews/internal/domain"
	"dailynews/internal/ports"
)

const defaultUserAgent = "dailynews/1.0"

// GofeedSource fetches RSS, Atom and JSON feeds over HTTP.
type GofeedSource struct {
	client    *http.Client
	userAgent string
}

var _ ports.FeedSource = (*GofeedSource)(nil)

// NewGofeedSource wires an HTTP client; a nil client gets a 20s timeout.
func NewGofeedSource(client *http.Client, userAgent string) *GofeedSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &GofeedSource{client: client, userAgent: userAgent}
}

// Fetch downloads and parses the feed at url.
func (s *GofeedSource) Fetch(ctx context.Context, url string) ([]domain.RawEntry, error) {
	parser := gofeed.NewParser()
	parser.Client = s.client
	parser.UserAgent = s.userAgent

	feed, err := parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return ToRawEntries(feed), nil
}

// ToRawEntries converts parsed items, in document order.
func ToRawEntries(feed *gofeed.Feed) []domain.RawEntry {
	if feed == nil {
		return nil
	}

	entries := make([]domain.RawEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, domain.RawEntry{
			Published: item.PublishedParsed,
			Updated:   item.UpdatedParsed,
			Title:     nonEmpty(item.Title),
			Link:      nonEmpty(item.Link),
			Summary:   nonEmpty(firstNonEmpty(item.Description, item.Content)),
		})
	}
	return entries
}

// firstNonEmpty picks the summary body; content-only entries keep their content.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
