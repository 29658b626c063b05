package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func pcm(n int) []byte {
	// Highly repetitive, so zstd always shrinks it.
	return bytes.Repeat([]byte{0x10, 0x00}, n/2)
}

func TestDiskCache_PutGet(t *testing.T) {
	for _, level := range []int{0, 3} {
		dir := t.TempDir()
		dc, err := NewDiskCache(dir, 1<<20, level, 0)
		if err != nil {
			t.Fatalf("NewDiskCache: %v", err)
		}

		value := pcm(4096)
		if err := dc.Put("chunk", value); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		got, ok := dc.Get("chunk")
		if !ok {
			t.Fatalf("level %d: Get missed", level)
		}
		if !bytes.Equal(got, value) {
			t.Errorf("level %d: value mismatch", level)
		}

		if level > 0 && dc.Size() >= int64(len(value)) {
			t.Errorf("level %d: expected compressed size below %d, got %d", level, len(value), dc.Size())
		}
		_ = dc.Close()
	}
}

func TestDiskCache_PersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()

	dc, err := NewDiskCache(dir, 1<<20, 3, 0)
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	if err := dc.Put("chunk", pcm(2048)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := dc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewDiskCache(dir, 1<<20, 3, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, ok := reopened.Get("chunk")
	if !ok {
		t.Fatal("entry lost after reopen")
	}
	if !bytes.Equal(got, pcm(2048)) {
		t.Error("value mismatch after reopen")
	}
}

func TestDiskCache_EvictsLeastRecentlyUsed(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir(), 300, 0, 0)
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	defer func() { _ = dc.Close() }()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	dc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	_ = dc.Put("a", make([]byte, 100))
	_ = dc.Put("b", make([]byte, 100))
	_ = dc.Put("c", make([]byte, 100))
	dc.Get("a")
	_ = dc.Put("d", make([]byte, 100))

	if dc.Contains("b") {
		t.Error("expected b to be evicted")
	}
	if !dc.Contains("a") || !dc.Contains("d") {
		t.Error("expected a and d to be kept")
	}
	if dc.Size() != 300 {
		t.Errorf("Size = %d, want 300", dc.Size())
	}
}

func TestDiskCache_AccessOrderSurvivesWithoutClose(t *testing.T) {
	dir := t.TempDir()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	open := func() *DiskCache {
		dc, err := NewDiskCache(dir, 200, 0, 0)
		if err != nil {
			t.Fatalf("NewDiskCache: %v", err)
		}
		dc.now = clock
		t.Cleanup(func() { _ = dc.Close() })
		return dc
	}

	first := open()
	_ = first.Put("a", make([]byte, 100))
	_ = first.Put("b", make([]byte, 100))

	// A run that only reads, and exits without Close.
	if _, ok := open().Get("a"); !ok {
		t.Fatal("expected a hit for a")
	}

	third := open()
	_ = third.Put("c", make([]byte, 100))

	if !third.Contains("a") {
		t.Error("recently read a should be kept")
	}
	if third.Contains("b") {
		t.Error("expected b to be evicted")
	}
	if !third.Contains("c") {
		t.Error("expected c to be stored")
	}
}

func TestDiskCache_TTL(t *testing.T) {
	dir := t.TempDir()

	dc, err := NewDiskCache(dir, 1<<20, 0, 0)
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	dc.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	_ = dc.Put("old", []byte("stale"))
	dc.now = time.Now
	_ = dc.Put("new", []byte("fresh"))
	_ = dc.Close()

	reopened, err := NewDiskCache(dir, 1<<20, 0, 24*time.Hour)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	if reopened.Contains("old") {
		t.Error("expected expired entry to be pruned")
	}
	if !reopened.Contains("new") {
		t.Error("expected fresh entry to be kept")
	}
}

func TestDiskCache_MissingFileIsMiss(t *testing.T) {
	dir := t.TempDir()
	dc, err := NewDiskCache(dir, 1<<20, 0, 0)
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	defer func() { _ = dc.Close() }()

	_ = dc.Put("gone", []byte("data"))
	if err := os.Remove(filepath.Join(dir, "gone.pcm")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, ok := dc.Get("gone"); ok {
		t.Error("expected miss for deleted file")
	}
	if dc.Contains("gone") {
		t.Error("expected entry to be dropped from the index")
	}
	if dc.Size() != 0 {
		t.Errorf("Size = %d, want 0", dc.Size())
	}
}

func TestDiskCache_ItemTooLarge(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir(), 10, 0, 0)
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	defer func() { _ = dc.Close() }()

	if err := dc.Put("big", make([]byte, 11)); err != ErrItemTooLarge {
		t.Errorf("expected ErrItemTooLarge, got %v", err)
	}
}
