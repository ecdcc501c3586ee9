package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/hybridrec/core"
)

func TestMemoryStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if _, err := m.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Fatalf("Get(missing) err = %v, want not found", err)
	}
	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get(k) = %q, %v", got, err)
	}
	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("Get after Delete err = %v, want not found", err)
	}
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.now = func() time.Time { return now }

	_ = m.Set(ctx, "short", []byte("1"), 10)
	_ = m.BatchSet(ctx, map[string][]byte{"a": []byte("a"), "b": []byte("b")}, 60)
	_ = m.Set(ctx, "forever", []byte("x"))

	now = now.Add(30 * time.Second)
	if _, err := m.Get(ctx, "short"); !core.IsStoreNotFound(err) {
		t.Errorf("short should have expired, err = %v", err)
	}
	got, _ := m.BatchGet(ctx, []string{"a", "b", "short", "forever"})
	if len(got) != 3 {
		t.Errorf("BatchGet returned %d keys, want 3", len(got))
	}

	now = now.Add(time.Minute)
	if n := m.Purge(); n != 3 {
		t.Errorf("Purge() = %d, want 3", n)
	}
	if _, err := m.Get(ctx, "forever"); err != nil {
		t.Errorf("forever key lost: %v", err)
	}
}
