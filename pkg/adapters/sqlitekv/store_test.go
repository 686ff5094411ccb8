package sqlitekv

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "stratum.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SetGetOverwrite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("Expected clean miss, ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if v != "v2" {
		t.Errorf("Expected overwritten value v2, got %q", v)
	}
}

func TestStore_KeysAndMultiRemove(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, k := range []string{"stratum_cache_a", "stratum_cache_b", "other"} {
		if err := s.Set(ctx, k, "v"); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("Expected 3 keys, got %v", keys)
	}

	if err := s.MultiRemove(ctx, []string{"stratum_cache_a", "stratum_cache_b"}); err != nil {
		t.Fatalf("MultiRemove failed: %v", err)
	}
	keys, _ = s.Keys(ctx)
	if len(keys) != 1 || keys[0] != "other" {
		t.Errorf("Expected only 'other' left, got %v", keys)
	}
}

func TestStore_RemoveAbsentKey(t *testing.T) {
	s := openTestStore(t)
	if err := s.Remove(context.Background(), "never_existed"); err != nil {
		t.Errorf("Removing an absent key should not error: %v", err)
	}
}
