package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"dailynews/internal/domain"
)

type fakeSource struct {
	entries map[string][]domain.RawEntry
	errs    map[string]error
	hang    map[string]bool
	panics  map[string]bool

	mu    sync.Mutex
	calls []string
}

func (f *fakeSource) Fetch(ctx context.Context, url string) ([]domain.RawEntry, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	if f.panics[url] {
		panic("boom")
	}
	if f.hang[url] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	return f.entries[url], nil
}

type fakeFeeds struct {
	feeds []domain.Feed
	err   error
}

func (f fakeFeeds) LoadFeeds(context.Context) ([]domain.Feed, error) {
	return f.feeds, f.err
}

type fixedResolver struct {
	window domain.TimeWindow
}

func (r fixedResolver) Resolve(time.Time) domain.TimeWindow { return r.window }

type memoryStore struct {
	buckets  map[string][]domain.Article
	loadErr  map[string]error
	saveErr  map[string]error
	saves    int
	lastSave map[string][]domain.Article
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		buckets:  map[string][]domain.Article{},
		loadErr:  map[string]error{},
		saveErr:  map[string]error{},
		lastSave: map[string][]domain.Article{},
	}
}

func (m *memoryStore) Load(_ context.Context, day string) ([]domain.Article, error) {
	if err := m.loadErr[day]; err != nil {
		return nil, err
	}
	return append([]domain.Article(nil), m.buckets[day]...), nil
}

func (m *memoryStore) Save(_ context.Context, day string, articles []domain.Article) error {
	if err := m.saveErr[day]; err != nil {
		return err
	}
	m.saves++
	m.buckets[day] = append([]domain.Article(nil), articles...)
	m.lastSave[day] = m.buckets[day]
	return nil
}

type recordingArchive struct {
	days     []string
	articles []domain.Article
	err      error
}

func (r *recordingArchive) Archive(_ context.Context, day string, articles []domain.Article) error {
	r.days = append(r.days, day)
	r.articles = append(r.articles, articles...)
	return r.err
}

var errUnreachable = errors.New("unreachable")
