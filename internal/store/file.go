package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

// FileStore keeps the document as one pretty-printed JSON file. Every save
// rewrites the whole file through a temp file and rename.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore for path. Nothing touches the disk until
// the first Load or Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

// Ping checks that the data directory exists or can be created.
func (s *FileStore) Ping(_ context.Context) error {
	return ensureDir(filepath.Dir(s.path))
}

func (s *FileStore) Load(ctx context.Context) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if errors.Is(err, fs.ErrNotExist) {
		doc = models.NewDocument(time.Now())
		if err := s.write(doc); err != nil {
			return nil, fmt.Errorf("initialize data file: %w", err)
		}
		return doc, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *FileStore) Save(ctx context.Context, doc *models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	stored, err := s.read()
	switch {
	case err == nil:
		current = stored.Revision
	case errors.Is(err, fs.ErrNotExist):
	default:
		return err
	}
	if doc.Revision != current {
		return ErrConflict
	}

	doc.Revision++
	if err := s.write(doc); err != nil {
		doc.Revision--
		return err
	}
	return nil
}

func (s *FileStore) read() (*models.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("read data file: %w", err)
	}
	return decode(data)
}

func (s *FileStore) write(doc *models.Document) error {
	dir := filepath.Dir(s.path)
	if err := ensureDir(dir); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}
