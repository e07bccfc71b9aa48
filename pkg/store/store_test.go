package store

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/sketchgraph/pkg/diagram"
	"github.com/matzehuels/sketchgraph/pkg/errors"
	"github.com/matzehuels/sketchgraph/pkg/geometry"
)

func testDoc(ids ...string) *diagram.Document {
	doc := diagram.New()
	for _, id := range ids {
		doc = doc.WithNode(diagram.Node{
			ID:         id,
			Type:       diagram.NodeRectangle,
			Text:       id,
			Position:   geometry.Position{X: 100, Y: 100},
			Dimensions: geometry.Dimensions{Width: 180, Height: 80},
		})
	}
	return doc
}

// fakeStore records saves for debounce tests.
type fakeStore struct {
	mu    sync.Mutex
	saves []*diagram.Document
	err   error
}

func (f *fakeStore) Save(ctx context.Context, id string, doc *diagram.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saves = append(f.saves, doc)
	return nil
}

func (f *fakeStore) Load(ctx context.Context, id string) (*diagram.Document, error) {
	return nil, nil
}

func (f *fakeStore) Close(ctx context.Context) error { return nil }

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeStore) lastSave() *diagram.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saves) == 0 {
		return nil
	}
	return f.saves[len(f.saves)-1]
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	doc := testDoc("a", "b")
	if err := fs.Save(ctx, "test", doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := fs.Load(ctx, "test")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() returned nil document")
	}
	if len(loaded.Nodes) != 2 {
		t.Errorf("loaded %d nodes, want 2", len(loaded.Nodes))
	}
	if loaded.Nodes[0].ID != "a" {
		t.Errorf("first node id = %q, want %q", loaded.Nodes[0].ID, "a")
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	doc, err := fs.Load(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc != nil {
		t.Errorf("Load() = %v, want nil for missing document", doc)
	}
}

func TestFileStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	if err := fs.Save(ctx, "doc", testDoc("a", "b", "c")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := fs.Save(ctx, "doc", testDoc("x")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := fs.Load(ctx, "doc")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.Nodes) != 1 || loaded.Nodes[0].ID != "x" {
		t.Errorf("loaded nodes = %v, want single node x", loaded.Nodes)
	}
}

func TestDebouncedSaverCoalesces(t *testing.T) {
	fake := &fakeStore{}
	saver := NewDebouncedSaver(fake, "doc", 30*time.Millisecond)

	// A burst of edits inside the quiet period produces one save of the
	// final version.
	saver.Notify(testDoc("a"))
	saver.Notify(testDoc("a", "b"))
	saver.Notify(testDoc("a", "b", "c"))

	if status, _ := saver.Status(); status != StatusDirty {
		t.Errorf("status after notify = %q, want %q", status, StatusDirty)
	}

	time.Sleep(100 * time.Millisecond)

	if got := fake.saveCount(); got != 1 {
		t.Fatalf("save count = %d, want 1", got)
	}
	if got := len(fake.lastSave().Nodes); got != 3 {
		t.Errorf("saved document has %d nodes, want 3", got)
	}
	if status, _ := saver.Status(); status != StatusSaved {
		t.Errorf("status after save = %q, want %q", status, StatusSaved)
	}
}

func TestDebouncedSaverNotifyResetsTimer(t *testing.T) {
	fake := &fakeStore{}
	saver := NewDebouncedSaver(fake, "doc", 50*time.Millisecond)

	saver.Notify(testDoc("a"))
	time.Sleep(30 * time.Millisecond)
	saver.Notify(testDoc("a", "b"))
	time.Sleep(30 * time.Millisecond)

	// 60ms elapsed total but neither quiet period has run out fully.
	if got := fake.saveCount(); got != 0 {
		t.Fatalf("save count before quiet period = %d, want 0", got)
	}

	time.Sleep(60 * time.Millisecond)
	if got := fake.saveCount(); got != 1 {
		t.Errorf("save count = %d, want 1", got)
	}
}

func TestDebouncedSaverFlush(t *testing.T) {
	fake := &fakeStore{}
	saver := NewDebouncedSaver(fake, "doc", time.Hour)

	saver.Notify(testDoc("a"))
	if err := saver.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if got := fake.saveCount(); got != 1 {
		t.Fatalf("save count after flush = %d, want 1", got)
	}
	if status, _ := saver.Status(); status != StatusSaved {
		t.Errorf("status after flush = %q, want %q", status, StatusSaved)
	}

	// The superseded timer must not fire a second save.
	time.Sleep(50 * time.Millisecond)
	if got := fake.saveCount(); got != 1 {
		t.Errorf("save count after wait = %d, want 1", got)
	}
}

func TestDebouncedSaverFlushNothingPending(t *testing.T) {
	fake := &fakeStore{}
	saver := NewDebouncedSaver(fake, "doc", time.Hour)

	if err := saver.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if got := fake.saveCount(); got != 0 {
		t.Errorf("save count = %d, want 0", got)
	}
}

func TestDebouncedSaverErrorStatus(t *testing.T) {
	fake := &fakeStore{err: errors.New(errors.ErrCodePersistence, "disk full")}
	saver := NewDebouncedSaver(fake, "doc", time.Hour)

	saver.Notify(testDoc("a"))
	if err := saver.Flush(context.Background()); err == nil {
		t.Fatal("Flush() error = nil, want persistence error")
	}

	status, lastErr := saver.Status()
	if status != StatusError {
		t.Errorf("status = %q, want %q", status, StatusError)
	}
	if !errors.Is(lastErr, errors.ErrCodePersistence) {
		t.Errorf("last error = %v, want persistence error", lastErr)
	}

	// A later successful save clears the error.
	fake.mu.Lock()
	fake.err = nil
	fake.mu.Unlock()

	saver.Notify(testDoc("a"))
	if err := saver.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if status, lastErr := saver.Status(); status != StatusSaved || lastErr != nil {
		t.Errorf("status = %q err = %v, want saved and nil", status, lastErr)
	}
}

func TestLocalBlobStore(t *testing.T) {
	ctx := context.Background()
	bs, err := NewLocalBlobStore(t.TempDir(), "http://localhost:8080/images")
	if err != nil {
		t.Fatalf("NewLocalBlobStore() error = %v", err)
	}

	url1, err := bs.Put(ctx, "sketch.png", []byte("image-bytes"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if !strings.HasPrefix(url1, "http://localhost:8080/images/") {
		t.Errorf("url = %q, want base URL prefix", url1)
	}
	if !strings.HasSuffix(url1, ".png") {
		t.Errorf("url = %q, want .png extension", url1)
	}

	// Same content, same URL.
	url2, err := bs.Put(ctx, "other.png", []byte("image-bytes"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if url1 != url2 {
		t.Errorf("identical content produced %q and %q", url1, url2)
	}

	// Different content, different URL.
	url3, err := bs.Put(ctx, "sketch.png", []byte("other-bytes"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if url3 == url1 {
		t.Error("distinct content produced the same url")
	}
}
