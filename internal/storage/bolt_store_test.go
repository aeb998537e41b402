package storage

import (
	"path/filepath"
	"testing"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()

	got, err := store.Get("authToken")
	if err != nil || got != "" {
		t.Fatalf("expected empty value, got=%q err=%v", got, err)
	}

	if err := store.Set("authToken", "abc123"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err = store.Get("authToken")
	if err != nil || got != "abc123" {
		t.Fatalf("expected stored token, got=%q err=%v", got, err)
	}

	if err := store.Set("authToken", "def456"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, _ = store.Get("authToken")
	if got != "def456" {
		t.Fatalf("expected overwritten token, got %q", got)
	}

	if err := store.Delete("authToken"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err = store.Get("authToken")
	if err != nil || got != "" {
		t.Fatalf("expected token removed, got=%q err=%v", got, err)
	}

	if err := store.Delete("missing"); err != nil {
		t.Fatalf("Delete missing key: %v", err)
	}
}

func TestBoltStoreRoundTrip(t *testing.T) {
	store, err := NewStore(TypeBBolt, filepath.Join(t.TempDir(), "nested", "session.db"))
	if err != nil {
		t.Fatalf("NewStore bbolt: %v", err)
	}
	defer store.Close()

	exerciseStore(t, store)
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := openBolt(path)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	if err := store.Set("authToken", "abc123"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := openBolt(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get("authToken")
	if err != nil || got != "abc123" {
		t.Fatalf("expected persisted token, got=%q err=%v", got, err)
	}
}

func TestBadgerStoreRoundTrip(t *testing.T) {
	store, err := NewStore(TypeBadger, filepath.Join(t.TempDir(), "badger"))
	if err != nil {
		t.Fatalf("NewStore badger: %v", err)
	}
	defer store.Close()

	exerciseStore(t, store)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "")
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.Set("authToken", "x"); err != nil {
		t.Fatalf("noop store Set: %v", err)
	}
	if got, _ := store.Get("authToken"); got != "" {
		t.Fatalf("noop store should not retain values, got %q", got)
	}
}

func TestNewStoreValidation(t *testing.T) {
	if _, err := NewStore(TypeBBolt, " "); err == nil {
		t.Fatalf("expected error for bbolt without path")
	}
	if _, err := NewStore(TypeBadger, ""); err == nil {
		t.Fatalf("expected error for badger without path")
	}
	if _, err := NewStore("redis", "/tmp/x"); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
