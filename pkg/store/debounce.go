package store

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/sketchgraph/pkg/diagram"
)

// SaveStatus reports where the debounced saver stands relative to the
// latest document change.
type SaveStatus string

const (
	// StatusSaved means the latest notified document has been persisted.
	StatusSaved SaveStatus = "saved"
	// StatusDirty means a change is pending and a save has not run yet.
	StatusDirty SaveStatus = "dirty"
	// StatusError means the most recent save attempt failed.
	StatusError SaveStatus = "error"
)

// DebouncedSaver coalesces rapid document changes into a single save.
// Each Notify resets a quiet-period timer; the save runs only once the
// timer fires with no further changes, so a burst of edits costs one
// write. Flush supersedes any pending timer and saves immediately.
type DebouncedSaver struct {
	mu       sync.Mutex
	store    Store
	docID    string
	interval time.Duration
	timer    *time.Timer
	pending  *diagram.Document
	status   SaveStatus
	lastErr  error
}

// NewDebouncedSaver wraps store with debounced writes for the document
// with the given id. If interval is zero, DebounceInterval is used.
func NewDebouncedSaver(s Store, docID string, interval time.Duration) *DebouncedSaver {
	if interval <= 0 {
		interval = DebounceInterval
	}
	return &DebouncedSaver{
		store:    s,
		docID:    docID,
		interval: interval,
		status:   StatusSaved,
	}
}

// Notify records doc as the latest version and restarts the quiet-period
// timer. Only the most recent document is ever written; intermediate
// versions notified during the quiet period are dropped.
func (d *DebouncedSaver) Notify(doc *diagram.Document) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = doc
	d.status = StatusDirty
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *DebouncedSaver) fire() {
	d.mu.Lock()
	doc := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if doc == nil {
		return
	}
	d.save(context.Background(), doc)
}

// Flush cancels any pending timer and saves the latest document
// immediately. It is a no-op when nothing is pending.
func (d *DebouncedSaver) Flush(ctx context.Context) error {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	doc := d.pending
	d.pending = nil
	d.mu.Unlock()

	if doc == nil {
		d.mu.Lock()
		err := d.lastErr
		d.mu.Unlock()
		return err
	}
	return d.save(ctx, doc)
}

func (d *DebouncedSaver) save(ctx context.Context, doc *diagram.Document) error {
	err := d.store.Save(ctx, d.docID, doc)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.status = StatusError
		d.lastErr = err
		return err
	}
	// A newer Notify may have arrived while the write was in flight;
	// that change keeps its own timer and status.
	if d.pending == nil {
		d.status = StatusSaved
	}
	d.lastErr = nil
	return nil
}

// Status returns the saver's current state and the last save error, if
// any.
func (d *DebouncedSaver) Status() (SaveStatus, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status, d.lastErr
}
