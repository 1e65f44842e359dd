package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/kiranshivaraju/jobtracker/pkg/models"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS documents (
	name       TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	revision   INTEGER NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteStore keeps the document as one row of a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	name string
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// documents table exists.
func OpenSQLite(ctx context.Context, path, name string) (*SQLiteStore, error) {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	return &SQLiteStore{db: db, name: name}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Load(ctx context.Context) (*models.Document, error) {
	doc, err := s.selectDocument(ctx)
	if !errors.Is(err, sql.ErrNoRows) {
		return doc, err
	}

	fresh := models.NewDocument(time.Now())
	body, err := json.Marshal(fresh)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (name, body, revision, updated_at) VALUES (?, ?, 0, ?)
		 ON CONFLICT (name) DO NOTHING`,
		s.name, string(body), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("initialize document: %w", err)
	}

	doc, err = s.selectDocument(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return doc, nil
}

func (s *SQLiteStore) Save(ctx context.Context, doc *models.Document) error {
	expected := doc.Revision
	doc.Revision = expected + 1
	body, err := json.Marshal(doc)
	if err != nil {
		doc.Revision = expected
		return fmt.Errorf("encode document: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET body = ?, revision = ?, updated_at = ? WHERE name = ? AND revision = ?`,
		string(body), doc.Revision, now, s.name, expected)
	if err != nil {
		doc.Revision = expected
		return fmt.Errorf("save document: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 1 {
		return nil
	}

	if expected == 0 {
		res, err = s.db.ExecContext(ctx,
			`INSERT INTO documents (name, body, revision, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT (name) DO NOTHING`,
			s.name, string(body), doc.Revision, now)
		if err != nil {
			doc.Revision = expected
			return fmt.Errorf("insert document: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 1 {
			return nil
		}
	}

	doc.Revision = expected
	return ErrConflict
}

func (s *SQLiteStore) selectDocument(ctx context.Context) (*models.Document, error) {
	var (
		body     string
		revision int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT body, revision FROM documents WHERE name = ?`, s.name,
	).Scan(&body, &revision)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("select document: %w", err)
	}

	doc, err := decode([]byte(body))
	if err != nil {
		return nil, err
	}
	doc.Revision = revision
	return doc, nil
}
