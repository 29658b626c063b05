package cache

import (
	"bytes"
	"testing"
)

func TestTiered_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{MemoryCapacity: 1024, DiskCapacity: 1 << 20, Dir: dir}

	first, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := first.Put("k", []byte("audio")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	_ = first.Close()

	// A new process starts with an empty memory tier.
	second, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = second.Close() }()

	got, ok := second.Get("k")
	if !ok || !bytes.Equal(got, []byte("audio")) {
		t.Fatalf("Get = %q, %v", got, ok)
	}
	if !second.memory.Contains("k") {
		t.Error("expected disk hit to be promoted to memory")
	}

	stats := second.Stats()
	if stats[LevelDisk].Hits != 1 {
		t.Errorf("disk hits = %d, want 1", stats[LevelDisk].Hits)
	}
}

func TestTiered_MemoryOnly(t *testing.T) {
	c, err := New(Config{MemoryCapacity: 64})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.disk != nil {
		t.Fatal("disk tier should be disabled without a directory")
	}

	_ = c.Put("k", []byte("v"))
	if _, ok := c.Get("k"); !ok {
		t.Error("expected memory hit")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestTiered_TooLargeForMemory(t *testing.T) {
	c, err := New(Config{MemoryCapacity: 4, DiskCapacity: 1 << 20, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = c.Close() }()

	if err := c.Put("k", []byte("longer than four")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := c.Get("k"); !ok {
		t.Error("expected disk tier to hold the item")
	}
}

func TestKeyString(t *testing.T) {
	a := Key{Engine: "kokoro", Voice: "af_heart", Lang: "a", Speed: 1, Text: "hello"}
	b := a
	b.Speed = 1.25

	if a.String() == b.String() {
		t.Error("keys differing in speed should not collide")
	}
	if a.String() != (Key{Engine: "kokoro", Voice: "af_heart", Lang: "a", Speed: 1, Text: "hello"}).String() {
		t.Error("key digest should be stable")
	}
	if len(a.String()) != 64 {
		t.Errorf("digest length = %d, want 64", len(a.String()))
	}
}
