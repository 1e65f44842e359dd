package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

var (
	// ErrConflict is returned by Save when the stored document has moved past
	// the revision the caller loaded.
	ErrConflict = errors.New("document revision conflict")
	// ErrCorrupt is returned by Load when the stored document cannot be parsed.
	ErrCorrupt = errors.New("stored document is corrupt")
)

// Store is the durable home of the whole contacts document. Load never reports
// a missing document: an empty one is initialized and persisted instead.
//
// Save replaces the stored document when doc.Revision equals the stored
// revision, then increments doc.Revision. Otherwise it returns ErrConflict.
type Store interface {
	Ping(ctx context.Context) error
	Load(ctx context.Context) (*models.Document, error)
	Save(ctx context.Context, doc *models.Document) error
}

func decode(data []byte) (*models.Document, error) {
	doc, err := models.DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return doc, nil
}
