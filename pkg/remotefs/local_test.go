package remotefs

import (
	"context"
	"testing"
)

func TestLocalGetMissingReturnsNotFound(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = store.Get(context.Background(), "76561198000000001.json")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLocalPutThenGetRoundTrips(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	payload := []byte(`{"itemToGive":"none","itemsToGive":["Rope"]}`)
	if err := store.Put(ctx, "76561198000000001.json", payload); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "76561198000000001.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("round trip mismatch: %s", got)
	}
}

func TestLocalRejectsEscapingPaths(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Put(context.Background(), "../outside.json", []byte("x")); err == nil {
		t.Fatal("expected error for escaping path")
	}
}

func TestLocalDeleteIsIdempotent(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	if err := store.Put(ctx, "a.json", []byte("{}")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(ctx, "a.json"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "a.json"); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if _, err := store.Get(ctx, "a.json"); !IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
