package file

import (
	"context"
	"path/filepath"
	"testing"
)

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Set(ctx, "quiz:timer:42", "599"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "quiz:timer:42", "598"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	store, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	value, ok, err := store.Get(ctx, "quiz:timer:42")
	if err != nil || !ok {
		t.Fatalf("get after reopen: ok=%v err=%v", ok, err)
	}
	if value != "598" {
		t.Fatalf("expected last written value 598, got %q", value)
	}

	if err := store.Delete(ctx, "quiz:timer:42"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "quiz:timer:42"); ok {
		t.Fatalf("expected key to be gone after delete")
	}
}
