package session

import (
	"context"
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	sess, err := New("tok-123", User{Name: "ada"}, time.Hour)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sess.ID == "" {
		t.Error("session ID is empty")
	}
	if sess.Token != "tok-123" {
		t.Errorf("token = %q, want tok-123", sess.Token)
	}
	if sess.IsExpired() {
		t.Error("fresh session reports expired")
	}
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := GenerateID()
		if err != nil {
			t.Fatalf("GenerateID() error = %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	sess, err := New("tok", User{Name: "ada", Email: "ada@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil for stored session")
	}
	if got.User.Name != "ada" || got.Token != "tok" {
		t.Errorf("got session %+v, want original", got)
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	got, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %v, want nil for missing session", got)
	}
}

func TestFileStoreExpired(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	sess, err := New("tok", User{Name: "ada"}, -time.Minute)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != ErrExpired {
		t.Errorf("Get() error = %v, want ErrExpired", err)
	}
	if got != nil {
		t.Errorf("Get() = %v, want nil for expired session", got)
	}
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	sess, _ := New("tok", User{Name: "ada"}, time.Hour)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got, _ := store.Get(ctx, sess.ID); got != nil {
		t.Error("session still present after delete")
	}

	// Deleting a missing session is fine.
	if err := store.Delete(ctx, "nope"); err != nil {
		t.Errorf("Delete() of missing session error = %v", err)
	}
}

func TestFileStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	live, _ := New("tok", User{Name: "live"}, time.Hour)
	dead, _ := New("tok", User{Name: "dead"}, -time.Minute)
	store.Set(ctx, live)
	store.Set(ctx, dead)

	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	if got, _ := store.Get(ctx, live.ID); got == nil {
		t.Error("live session removed by cleanup")
	}
	if got, _ := store.Get(ctx, dead.ID); got != nil {
		t.Error("expired session survived cleanup")
	}
}

func TestCLIStoreLoginLogout(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	cli := &CLIStore{store: fs}

	if sess, err := cli.Current(ctx); err != nil || sess != nil {
		t.Fatalf("Current() before login = %v, %v; want nil, nil", sess, err)
	}

	if _, err := cli.Login(ctx, "tok", User{Name: "ada"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	sess, err := cli.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if sess == nil || sess.User.Name != "ada" {
		t.Fatalf("Current() = %+v, want ada's session", sess)
	}

	// A second login replaces the first.
	if _, err := cli.Login(ctx, "tok2", User{Name: "grace"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	sess, _ = cli.Current(ctx)
	if sess == nil || sess.User.Name != "grace" {
		t.Fatalf("Current() after relogin = %+v, want grace's session", sess)
	}

	if err := cli.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if sess, _ := cli.Current(ctx); sess != nil {
		t.Error("session still present after logout")
	}
}
