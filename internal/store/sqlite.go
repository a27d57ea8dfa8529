package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sentinelsec/geomodel/internal/geomodel"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS state_documents (
	id         TEXT PRIMARY KEY,
	index_name TEXT NOT NULL,
	doc        TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_state_documents_index_name ON state_documents(index_name);
CREATE INDEX IF NOT EXISTS idx_state_documents_username
	ON state_documents(index_name, json_extract(doc, '$.username'));
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Journal inserts the entry as a new document when its identifier is
// empty, otherwise replaces the document at that identifier wholesale.
func (s *SQLiteStore) Journal(ctx context.Context, entry geomodel.Entry, index string) error {
	doc, err := geomodel.EncodeState(entry.State)
	if err != nil {
		return err
	}

	id := entry.Identifier
	if id == "" {
		id = uuid.New().String()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO state_documents (id, index_name, doc, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET index_name = excluded.index_name, doc = excluded.doc, updated_at = excluded.updated_at`,
		id, index, string(doc), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: journal %s", index)
}

// Query returns the most recently written document matching every filter
// term, or nil when nothing matches or the stored document is corrupt.
func (s *SQLiteStore) Query(ctx context.Context, filter geomodel.Filter, index string) (*geomodel.Entry, error) {
	query := `SELECT id, doc FROM state_documents WHERE index_name = ?`
	args := []any{index}
	for _, term := range filter.Terms {
		query += ` AND json_extract(doc, '$.' || ?) = ?`
		args = append(args, term.Field, term.Value)
	}
	query += ` ORDER BY updated_at DESC LIMIT 1`

	var id, doc string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&id, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query %s", index)
	}

	state, err := geomodel.DecodeState([]byte(doc))
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, nil
	}
	return &geomodel.Entry{Identifier: id, State: *state}, nil
}
