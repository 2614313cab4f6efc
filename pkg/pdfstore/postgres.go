package pdfstore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const pdfCacheSchema = `
CREATE TABLE IF NOT EXISTS docsign_pdf_cache (
  cache_key  TEXT PRIMARY KEY,
  source_url TEXT NOT NULL,
  body       BYTEA NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
)`

type Postgres struct{ DB *pgxpool.Pool }

func NewPostgres(db *pgxpool.Pool) *Postgres { return &Postgres{DB: db} }

func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.Exec(ctx, pdfCacheSchema)
	return errors.Wrap(err, "create pdf cache table")
}

func (s *Postgres) Get(ctx context.Context, url string) ([]byte, bool, error) {
	var body []byte
	err := s.DB.QueryRow(ctx, `SELECT body FROM docsign_pdf_cache WHERE cache_key=$1`, Key(url)).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "select cached pdf")
	}
	return body, true, nil
}

func (s *Postgres) Put(ctx context.Context, url string, data []byte) error {
	_, err := s.DB.Exec(ctx, `
INSERT INTO docsign_pdf_cache(cache_key,source_url,body,created_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (cache_key) DO UPDATE SET body=EXCLUDED.body, created_at=EXCLUDED.created_at
`, Key(url), url, data, time.Now().UTC())
	return errors.Wrap(err, "upsert cached pdf")
}

var _ Store = (*Postgres)(nil)
