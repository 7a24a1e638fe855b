package usecase

import "dailynews/internal/domain"

// MergeBucket appends incoming articles whose link is not yet present in
// existing, preserving the order of both. The empty link counts as a key like
// any other. It returns the merged slice and the number of articles added.
func MergeBucket(existing, incoming []domain.Article) ([]domain.Article, int) {
	merged := make([]domain.Article, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)

	seen := make(map[string]struct{}, len(merged))
	for _, a := range existing {
		seen[a.Link] = struct{}{}
	}

	added := 0
	for _, a := range incoming {
		if _, dup := seen[a.Link]; dup {
			continue
		}
		seen[a.Link] = struct{}{}
		merged = append(merged, a)
		added++
	}
	return merged, added
}

// GroupByDay splits articles into per-day batches keyed by YYYY-MM-DD,
// keeping collection order inside each batch.
func GroupByDay(articles []domain.Article) map[string][]domain.Article {
	grouped := make(map[string][]domain.Article)
	for _, a := range articles {
		day := a.Day()
		grouped[day] = append(grouped[day], a)
	}
	return grouped
}
