package storage

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"testing"
)

func TestLocalStore_PutGet(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create local store: %v", err)
	}

	ctx := context.Background()
	content := []byte(`{"format-version":1}`)
	objectPath := "tables/events/metadata/v1.json"

	if err := store.Put(ctx, objectPath, content); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	exists, err := store.Exists(ctx, objectPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected object to exist")
	}

	got, err := store.Get(ctx, objectPath)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("content mismatch: got %q, want %q", got, content)
	}

	if err := store.Delete(ctx, objectPath); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	exists, err = store.Exists(ctx, objectPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected object to be gone after delete")
	}
}

func TestLocalStore_GetMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create local store: %v", err)
	}

	_, err = store.Get(context.Background(), "missing/object.json")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestLocalStore_DeleteMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create local store: %v", err)
	}

	err = store.Delete(context.Background(), "missing/object.json")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestLocalStore_PutReplaces(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create local store: %v", err)
	}

	ctx := context.Background()
	if err := store.Put(ctx, "doc.json", []byte("first")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, "doc.json", []byte("second")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "doc.json")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("expected replacement content, got %q", got)
	}
}

func TestLocalStore_List(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create local store: %v", err)
	}

	ctx := context.Background()
	objects := []string{
		"tables/events/metadata/v1.json",
		"tables/events/metadata/v2.json",
		"tables/orders/metadata/v1.json",
	}
	for _, path := range objects {
		if err := store.Put(ctx, path, []byte("{}")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	paths, err := store.List(ctx, "tables/events/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	sort.Strings(paths)

	want := []string{
		"tables/events/metadata/v1.json",
		"tables/events/metadata/v2.json",
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %d objects, got %d: %v", len(want), len(paths), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d: got %q, want %q", i, paths[i], want[i])
		}
	}
}
