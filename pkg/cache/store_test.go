package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/stratum/pkg/core"
	"github.com/aretw0/stratum/pkg/kv"
)

func testStore() (*Store, *kv.Memory) {
	mem := kv.NewMemory()
	return New(mem, nil), mem
}

func TestStore_RoundTrip(t *testing.T) {
	s, _ := testStore()
	ctx := context.Background()
	key := core.Key(core.EntityQuestionnaire, "cicd-pipeline")
	payload := json.RawMessage(`{"id":"cicd-pipeline"}`)

	if err := s.Set(ctx, key, payload, time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := s.Get(ctx, key)
	if !ok {
		t.Fatal("Expected hit after Set")
	}
	if string(got) != string(payload) {
		t.Errorf("Expected %s, got %s", payload, got)
	}

	// A fresh read must not evict the entry.
	if _, ok := s.Get(ctx, key); !ok {
		t.Error("Entry disappeared after read")
	}
}

func TestStore_Expiry(t *testing.T) {
	s, mem := testStore()
	ctx := context.Background()
	key := core.Key(core.EntityCategories, core.GlobalScope)

	if err := s.Set(ctx, key, json.RawMessage(`{"categories":[]}`), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Simulate the clock moving past the TTL.
	s.now = func() time.Time { return time.Now().Add(time.Hour + time.Second) }

	if _, ok := s.Get(ctx, key); ok {
		t.Fatal("Expected miss for expired entry")
	}

	// Lazy eviction: the expired entry must be gone from the backing store.
	if _, found, _ := mem.Get(ctx, key); found {
		t.Error("Expired entry was not deleted on read")
	}
}

func TestStore_CorruptEntry(t *testing.T) {
	s, mem := testStore()
	ctx := context.Background()
	key := core.Key(core.EntityKnowledge, "deploy-failures")

	// Write garbage directly to the backing store.
	if err := mem.Set(ctx, key, "{ not json"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, ok := s.Get(ctx, key); ok {
		t.Fatal("Expected miss for corrupt entry")
	}
	if _, found, _ := mem.Get(ctx, key); found {
		t.Error("Corrupt entry was not dropped")
	}
}

func TestStore_WriteFailureIsNonFatal(t *testing.T) {
	s, mem := testStore()
	ctx := context.Background()
	mem.FailWrites = errors.New("disk full")

	err := s.Set(ctx, core.Key(core.EntityResource, "guide"), json.RawMessage(`{}`), time.Hour)
	if err == nil {
		t.Fatal("Expected StorageError")
	}
	var storageErr *core.StorageError
	if !errors.As(err, &storageErr) {
		t.Errorf("Expected *core.StorageError, got %T", err)
	}
}

func TestStore_ReadFailureIsAMiss(t *testing.T) {
	s, mem := testStore()
	ctx := context.Background()
	key := core.Key(core.EntityCategories, core.GlobalScope)

	if err := s.Set(ctx, key, json.RawMessage(`{}`), time.Hour); err != nil {
		t.Fatal(err)
	}
	mem.FailReads = errors.New("store unavailable")

	if _, ok := s.Get(ctx, key); ok {
		t.Error("Expected miss while the backing store is unavailable")
	}
}

func TestStore_ClearNamespaceIsolation(t *testing.T) {
	s, mem := testStore()
	ctx := context.Background()

	if err := s.Set(ctx, core.Key(core.EntityCategories, core.GlobalScope), json.RawMessage(`{}`), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, core.Key(core.EntityQuestionnaire, "a"), json.RawMessage(`{}`), time.Hour); err != nil {
		t.Fatal(err)
	}
	// Foreign keys sharing the store, plus the version marker.
	_ = mem.Set(ctx, "other_app_state", "keep me")
	_ = mem.Set(ctx, core.VersionKey, "2024.12.15.0")

	n, err := s.Clear(ctx, "**")
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 removals, got %d", n)
	}

	if _, ok, _ := mem.Get(ctx, "other_app_state"); !ok {
		t.Error("Clear deleted a foreign key")
	}
	if _, ok, _ := mem.Get(ctx, core.VersionKey); !ok {
		t.Error("Clear deleted the version marker")
	}
}

func TestStore_ClearPattern(t *testing.T) {
	s, _ := testStore()
	ctx := context.Background()

	_ = s.Set(ctx, core.Key(core.EntityQuestionnaire, "pipeline-a"), json.RawMessage(`{}`), time.Hour)
	_ = s.Set(ctx, core.Key(core.EntityQuestionnaire, "pipeline-b"), json.RawMessage(`{}`), time.Hour)
	_ = s.Set(ctx, core.Key(core.EntityKnowledge, "x"), json.RawMessage(`{}`), time.Hour)

	n, err := s.Clear(ctx, "questionnaire_*")
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 removals, got %d", n)
	}
	if _, ok := s.Get(ctx, core.Key(core.EntityKnowledge, "x")); !ok {
		t.Error("Pattern clear removed a non-matching entry")
	}
}

func TestStore_Size(t *testing.T) {
	s, mem := testStore()
	ctx := context.Background()

	if size, _ := s.Size(ctx); size != 0 {
		t.Errorf("Expected empty size 0, got %d", size)
	}

	_ = s.Set(ctx, core.Key(core.EntityResource, "a"), json.RawMessage(`{"content":"hello"}`), time.Hour)
	_ = mem.Set(ctx, "other_app_state", "not counted")

	size, err := s.Size(ctx)
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if size <= 0 {
		t.Error("Expected positive size after Set")
	}

	raw, _, _ := mem.Get(ctx, core.Key(core.EntityResource, "a"))
	if size != int64(len(raw)) {
		t.Errorf("Expected size %d (namespaced entries only), got %d", len(raw), size)
	}
}
