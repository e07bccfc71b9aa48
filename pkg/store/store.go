// Package store provides durable storage collaborators for the diagram
// document: a Store interface with file and MongoDB backends, a debounced
// saver that coalesces rapid edits into one write, and a BlobStore for
// uploaded images.
//
// The engine treats storage as at-most-one-in-flight per debounce cycle.
// Save failures surface as a visible status; they never roll back or
// otherwise touch the in-memory document.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/sketchgraph/pkg/diagram"
)

// DefaultDocumentID names the single working document when the user has
// not chosen one explicitly.
const DefaultDocumentID = "default"

// DebounceInterval is the quiet period the debounced saver waits for
// before persisting.
const DebounceInterval = 2 * time.Second

// Store is the interface for document storage backends.
type Store interface {
	// Save persists the document under the given id, replacing any
	// previous version.
	Save(ctx context.Context, id string, doc *diagram.Document) error

	// Load retrieves the document with the given id.
	// Returns nil, nil if no document has been saved yet.
	Load(ctx context.Context, id string) (*diagram.Document, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// BlobStore stores uploaded binary assets (images) and returns a public
// URL to embed as an image node's imageUrl.
type BlobStore interface {
	// Put stores data under a name derived from its content and returns
	// the URL it will be served at. Re-uploading identical content
	// returns the same URL.
	Put(ctx context.Context, name string, data []byte) (string, error)
}
