package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"dailynews/internal/domain"
)

// EncodeBucket renders articles as an indented JSON array without HTML
// escaping, so non-ASCII text and markup stay readable on disk.
func EncodeBucket(articles []domain.Article) ([]byte, error) {
	if articles == nil {
		articles = []domain.Article{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		return nil, fmt.Errorf("encode bucket: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeBucket parses a persisted bucket. Empty input is an empty bucket.
func DecodeBucket(data []byte) ([]domain.Article, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Article{}, nil
	}

	var articles []domain.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("decode bucket: %w", err)
	}
	if articles == nil {
		articles = []domain.Article{}
	}
	return articles, nil
}
