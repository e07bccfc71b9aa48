package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/sketchgraph/pkg/diagram"
	"github.com/matzehuels/sketchgraph/pkg/errors"
)

// FileStore persists documents as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based document store.
// If baseDir is empty, defaults to ~/.config/sketchgraph/diagrams/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "sketchgraph", "diagrams")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create diagram dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) docPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Save(ctx context.Context, id string, doc *diagram.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "marshal document")
	}
	if err := os.WriteFile(s.docPath(id), data, 0600); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "write document file")
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, id string) (*diagram.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.docPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "read document file")
	}

	var doc diagram.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "parse document")
	}
	return &doc, nil
}

func (s *FileStore) Close(ctx context.Context) error { return nil }

// Path returns the base directory for document files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
