package opml

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/antchfx/xmlquery"

	"dailynews/internal/domain"
	"dailynews/internal/ports"
)

// Loader reads the feed list from an OPML file.
type Loader struct {
	path   string
	logger *slog.Logger
}

var _ ports.FeedListLoader = (*Loader)(nil)

// NewLoader builds a loader for the OPML document at path.
func NewLoader(path string, logger *slog.Logger) *Loader {
	return &Loader{path: path, logger: logger}
}

// LoadFeeds returns every outline with an xmlUrl attribute. A missing file
// yields an empty list without error.
func (l *Loader) LoadFeeds(ctx context.Context) ([]domain.Feed, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.debug("feed list not found", "path", l.path)
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()

	feeds, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", l.path, err)
	}

	l.debug("feed list loaded", "path", l.path, "feeds", len(feeds))
	return feeds, nil
}

// Parse extracts feeds from an OPML document. Outlines may be nested at any
// depth; title and text default to "Unknown" and "Uncategorized" when absent.
func Parse(r io.Reader) ([]domain.Feed, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, err
	}

	nodes, err := xmlquery.QueryAll(doc, "//outline[@xmlUrl]")
	if err != nil {
		return nil, err
	}

	feeds := make([]domain.Feed, 0, len(nodes))
	for _, n := range nodes {
		url, _ := attr(n, "xmlUrl")
		feeds = append(feeds, domain.Feed{
			Title:    attrOr(n, "title", domain.DefaultFeedTitle),
			URL:      url,
			Category: attrOr(n, "text", domain.DefaultFeedCategory),
		})
	}
	return feeds, nil
}

func attr(n *xmlquery.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func attrOr(n *xmlquery.Node, name, fallback string) string {
	if v, ok := attr(n, name); ok {
		return v
	}
	return fallback
}

func (l *Loader) debug(msg string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}
