package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailynews/internal/domain"
)

func TestArchiveInsertQuery(t *testing.T) {
	t.Parallel()

	repo := NewPostgresRepository(nil)
	query, args, err := repo.insertQuery("2024-01-02", sampleArticles()).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO archived_articles (bucket_date,source,category,title,link,published,summary) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7),($8,$9,$10,$11,$12,$13,$14) "+
			"ON CONFLICT (bucket_date, link) DO NOTHING",
		query)
	require.Len(t, args, 14)
	assert.Equal(t, "2024-01-02", args[0])
	assert.Equal(t, "https://example.com/1", args[4])
	assert.Equal(t, "2024-01-02 07:30", args[5])
}

func TestArchiveWithoutDatabaseIsNoop(t *testing.T) {
	t.Parallel()

	repo := NewPostgresRepository(nil)
	assert.NoError(t, repo.Archive(context.Background(), "2024-01-02", sampleArticles()))
	assert.NoError(t, repo.Close())
}

func TestChunkArticles(t *testing.T) {
	t.Parallel()

	articles := make([]domain.Article, 2500)
	for i := range articles {
		articles[i].Link = fmt.Sprintf("https://example.com/%d", i)
	}

	chunks := chunkArticles(articles, archiveBatchRows)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 1000)
	assert.Len(t, chunks[1], 1000)
	assert.Len(t, chunks[2], 500)
	assert.Equal(t, "https://example.com/2499", chunks[2][499].Link)

	assert.Nil(t, chunkArticles(nil, archiveBatchRows))
	assert.Len(t, chunkArticles(articles[:3], 0), 1)
}

func TestArchiveBatchStaysUnderParameterLimit(t *testing.T) {
	t.Parallel()

	batch := make([]domain.Article, archiveBatchRows)
	_, args, err := NewPostgresRepository(nil).insertQuery("2024-01-02", batch).ToSql()
	require.NoError(t, err)
	assert.Len(t, args, 7*archiveBatchRows)
	assert.Less(t, len(args), 65535)
}
