package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sentinelsec/geomodel/internal/db"
	"github.com/sentinelsec/geomodel/internal/geomodel"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Tests use it with pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS state_documents (
	id         TEXT PRIMARY KEY,
	index_name TEXT NOT NULL,
	doc        JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_state_documents_index_name ON state_documents(index_name);
CREATE INDEX IF NOT EXISTS idx_state_documents_username ON state_documents(index_name, (doc->>'username'));
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Journal inserts the entry as a new document when its identifier is
// empty, otherwise replaces the document at that identifier wholesale.
func (s *PostgresStore) Journal(ctx context.Context, entry geomodel.Entry, index string) error {
	doc, err := geomodel.EncodeState(entry.State)
	if err != nil {
		return err
	}

	id := entry.Identifier
	if id == "" {
		id = uuid.New().String()
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO state_documents (id, index_name, doc, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET index_name = excluded.index_name, doc = excluded.doc, updated_at = excluded.updated_at`,
		id, index, doc, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: journal %s", index)
}

// Query returns the most recently written document matching every filter
// term, or nil when nothing matches or the stored document is corrupt.
func (s *PostgresStore) Query(ctx context.Context, filter geomodel.Filter, index string) (*geomodel.Entry, error) {
	query := `SELECT id, doc FROM state_documents WHERE index_name = $1`
	args := []any{index}
	for _, term := range filter.Terms {
		query += fmt.Sprintf(` AND doc->>$%d = $%d`, len(args)+1, len(args)+2)
		args = append(args, term.Field, term.Value)
	}
	query += ` ORDER BY updated_at DESC LIMIT 1`

	var id string
	var doc []byte
	err := s.pool.QueryRow(ctx, query, args...).Scan(&id, &doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query %s", index)
	}

	state, err := geomodel.DecodeState(doc)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, nil
	}
	return &geomodel.Entry{Identifier: id, State: *state}, nil
}
