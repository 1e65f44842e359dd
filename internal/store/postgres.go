package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5. The document is
// kept as a single JSONB row in the documents table, keyed by name.
type PostgresStore struct {
	pool *pgxpool.Pool
	name string
}

// NewPostgresStore creates a new PostgresStore for the named document.
func NewPostgresStore(pool *pgxpool.Pool, name string) *PostgresStore {
	return &PostgresStore{pool: pool, name: name}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Load(ctx context.Context) (*models.Document, error) {
	doc, err := s.selectDocument(ctx)
	if !errors.Is(err, pgx.ErrNoRows) {
		return doc, err
	}

	fresh := models.NewDocument(time.Now())
	body, err := json.Marshal(fresh)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (name, body, revision, updated_at)
		 VALUES ($1, $2, 0, NOW())
		 ON CONFLICT (name) DO NOTHING`, s.name, string(body))
	if err != nil {
		return nil, fmt.Errorf("initialize document: %w", err)
	}

	// Another writer may have won the insert; read back whatever is stored.
	doc, err = s.selectDocument(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return doc, nil
}

func (s *PostgresStore) Save(ctx context.Context, doc *models.Document) error {
	expected := doc.Revision
	doc.Revision = expected + 1
	body, err := json.Marshal(doc)
	if err != nil {
		doc.Revision = expected
		return fmt.Errorf("encode document: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE documents SET body = $2, revision = $3, updated_at = NOW()
		 WHERE name = $1 AND revision = $4`,
		s.name, string(body), doc.Revision, expected)
	if err != nil {
		doc.Revision = expected
		return fmt.Errorf("save document: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	if expected == 0 {
		_, err = s.pool.Exec(ctx,
			`INSERT INTO documents (name, body, revision, updated_at) VALUES ($1, $2, $3, NOW())`,
			s.name, string(body), doc.Revision)
		if err == nil {
			return nil
		}
		if !isDuplicateKeyError(err) {
			doc.Revision = expected
			return fmt.Errorf("insert document: %w", err)
		}
	}

	doc.Revision = expected
	return ErrConflict
}

func (s *PostgresStore) selectDocument(ctx context.Context) (*models.Document, error) {
	var (
		body     []byte
		revision int64
	)
	err := s.pool.QueryRow(ctx,
		`SELECT body, revision FROM documents WHERE name = $1`, s.name,
	).Scan(&body, &revision)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("select document: %w", err)
	}

	doc, err := decode(body)
	if err != nil {
		return nil, err
	}
	doc.Revision = revision
	return doc, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
