package store

import (
	"context"
	"slices"
	"testing"

	"github.com/rushteam/hybridrec/core"
)

func TestStoreRatingAdapter_SaveLoad(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	adapter := NewStoreRatingAdapter(kv, "test")

	orig := sampleStore()
	if err := adapter.Save(ctx, orig); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := kv.Get(ctx, "test:user:1"); err != nil {
		t.Errorf("expected key test:user:1: %v", err)
	}

	loaded := NewRatingStore()
	n, err := adapter.Load(ctx, loaded)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != orig.Len() {
		t.Errorf("loaded %d ratings, want %d", n, orig.Len())
	}
	if !slices.Equal(loaded.Ratings(), orig.Ratings()) {
		t.Errorf("loaded ratings differ:\n got %v\nwant %v", loaded.Ratings(), orig.Ratings())
	}
}

func TestStoreRatingAdapter_LoadEmpty(t *testing.T) {
	adapter := NewStoreRatingAdapter(NewMemoryStore(), "")
	if adapter.KeyPrefix != "ratings" {
		t.Errorf("default prefix = %q", adapter.KeyPrefix)
	}
	n, err := adapter.Load(context.Background(), NewRatingStore())
	if err != nil || n != 0 {
		t.Errorf("Load on empty store = %d, %v; want 0, nil", n, err)
	}
}

func TestStoreRatingAdapter_LoadCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	_ = kv.Set(ctx, "ratings:users", []byte("not json"))

	_, err := NewStoreRatingAdapter(kv, "").Load(ctx, NewRatingStore())
	if !core.IsInvalidInput(err) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}
