package bolt

import (
	"context"
	"path/filepath"
	"testing"
)

func TestTokenRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	repo, err := Open(path, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if token, err := repo.Load(ctx); err != nil || token != "" {
		t.Fatalf("expected empty slot, got %q (err=%v)", token, err)
	}
	if err := repo.Save(ctx, "a.b.c"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path, "")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	token, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if token != "a.b.c" {
		t.Fatalf("expected persisted token, got %q", token)
	}
	if err := reopened.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}

	if err := reopened.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := reopened.Clear(ctx); err != nil {
		t.Fatalf("second clear should be a no-op: %v", err)
	}
	if token, _ := reopened.Load(ctx); token != "" {
		t.Fatalf("expected cleared slot, got %q", token)
	}
}

func TestTokenRepositorySaveEmptyClears(t *testing.T) {
	ctx := context.Background()
	repo, err := Open(filepath.Join(t.TempDir(), "session.db"), "custom")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()

	_ = repo.Save(ctx, "x.y.z")
	if err := repo.Save(ctx, ""); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	if token, _ := repo.Load(ctx); token != "" {
		t.Fatalf("expected empty slot, got %q", token)
	}
}

func TestTokenRepositoryClosed(t *testing.T) {
	var repo *TokenRepository
	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatal("expected error from nil repository")
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close on nil repository: %v", err)
	}
}
