package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"dailynews/internal/domain"
	"dailynews/internal/ports"
)

const archiveTable = "archived_articles"

// archiveBatchRows keeps each INSERT well under the 65535 bind parameter
// limit of the Postgres protocol (7 parameters per row).
const archiveBatchRows = 1000

// Schema creates the archive table. Rows are unique per bucket date and link,
// matching the per-bucket dedup rule of the JSON store.
const Schema = `CREATE TABLE IF NOT EXISTS archived_articles (
    id          BIGSERIAL PRIMARY KEY,
    bucket_date DATE        NOT NULL,
    source      TEXT        NOT NULL,
    category    TEXT        NOT NULL,
    title       TEXT        NOT NULL,
    link        TEXT        NOT NULL,
    published   TEXT        NOT NULL,
    summary     TEXT        NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (bucket_date, link)
)`

// PostgresRepository mirrors newly saved articles into Postgres.
type PostgresRepository struct {
	db *sql.DB
	qb sq.StatementBuilderType
}

var _ ports.ArticleArchive = (*PostgresRepository)(nil)

// OpenPostgres connects with the lib/pq driver and ensures the schema.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return NewPostgresRepository(db), nil
}

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Archive inserts articles for day; rows already present are left alone.
func (r *PostgresRepository) Archive(ctx context.Context, day string, articles []domain.Article) error {
	if r.db == nil || len(articles) == 0 {
		return nil
	}

	for _, batch := range chunkArticles(articles, archiveBatchRows) {
		query, args, err := r.insertQuery(day, batch).ToSql()
		if err != nil {
			return fmt.Errorf("build archive insert: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("archive %d articles for %s: %w", len(batch), day, err)
		}
	}
	return nil
}

func chunkArticles(articles []domain.Article, size int) [][]domain.Article {
	if size <= 0 {
		size = len(articles)
	}
	var chunks [][]domain.Article
	for start := 0; start < len(articles); start += size {
		end := min(start+size, len(articles))
		chunks = append(chunks, articles[start:end])
	}
	return chunks
}

// Close releases the connection pool.
func (r *PostgresRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *PostgresRepository) insertQuery(day string, articles []domain.Article) sq.InsertBuilder {
	insert := r.qb.Insert(archiveTable).
		Columns("bucket_date", "source", "category", "title", "link", "published", "summary")
	for _, a := range articles {
		insert = insert.Values(day, a.Source, a.Category, a.Title, a.Link, a.Date, a.Summary)
	}
	return insert.Suffix("ON CONFLICT (bucket_date, link) DO NOTHING")
}
