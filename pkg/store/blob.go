package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/sketchgraph/pkg/cache"
	"github.com/matzehuels/sketchgraph/pkg/errors"
)

// LocalBlobStore writes uploaded images to a directory on disk and
// serves them under a base URL. Names are content-addressed, so the same
// bytes always map to the same URL.
type LocalBlobStore struct {
	mu      sync.Mutex
	baseDir string
	baseURL string
}

// NewLocalBlobStore creates a blob store rooted at baseDir. Files are
// addressed as baseURL/<hash><ext>. If baseDir is empty, defaults to
// ~/.config/sketchgraph/images/
func NewLocalBlobStore(baseDir, baseURL string) (*LocalBlobStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "sketchgraph", "images")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &LocalBlobStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalBlobStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ext := filepath.Ext(name)
	filename := cache.Hash(data) + ext
	path := filepath.Join(s.baseDir, filename)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, data, 0600); err != nil {
			return "", errors.Wrap(errors.ErrCodePersistence, err, "write image file")
		}
	}
	return s.baseURL + "/" + filename, nil
}

// Dir returns the directory blobs are written to, for serving them over
// HTTP.
func (s *LocalBlobStore) Dir() string {
	return s.baseDir
}

var _ BlobStore = (*LocalBlobStore)(nil)
