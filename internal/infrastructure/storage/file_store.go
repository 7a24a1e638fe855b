package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"dailynews/internal/domain"
	"dailynews/internal/ports"
)

// FileStore keeps one JSON file per day under a directory.
type FileStore struct {
	dir string
}

var _ ports.BucketStore = (*FileStore)(nil)

// NewFileStore stores buckets in dir; the directory is created on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the file that holds the bucket for day.
func (s *FileStore) Path(day string) string {
	return filepath.Join(s.dir, day+".json")
}

// Load reads the bucket for day. A missing file is an empty bucket.
func (s *FileStore) Load(ctx context.Context, day string) ([]domain.Article, error) {
	if err := validDay(day); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(day))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Article{}, nil
		}
		return nil, fmt.Errorf("read bucket %s: %w", day, err)
	}

	articles, err := DecodeBucket(data)
	if err != nil {
		return nil, fmt.Errorf("bucket %s: %w", day, err)
	}
	return articles, nil
}

// Save replaces the bucket for day. The file is written to a temporary name
// and renamed so readers never see a partial document.
func (s *FileStore) Save(ctx context.Context, day string, articles []domain.Article) error {
	if err := validDay(day); err != nil {
		return err
	}

	data, err := EncodeBucket(articles)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, day+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", day, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write bucket %s: %w", day, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close bucket %s: %w", day, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod bucket %s: %w", day, err)
	}
	if err := os.Rename(tmpName, s.Path(day)); err != nil {
		return fmt.Errorf("replace bucket %s: %w", day, err)
	}
	return nil
}

func validDay(day string) error {
	if _, err := time.Parse(domain.DayLayout, day); err != nil {
		return fmt.Errorf("invalid bucket date %q: %w", day, err)
	}
	return nil
}
