package cache

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
)

const indexName = "cache.index"

// DiskCache stores entries as files under one directory, optionally zstd
// compressed, and survives between runs through a gob-encoded index.
type DiskCache struct {
	basePath string
	capacity int64
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	index map[string]*diskEntry

	mu    sync.Mutex
	stats Stats
	now   func() time.Time
}

// diskEntry is exported through gob, so its fields must stay exported.
type diskEntry struct {
	Key        string
	File       string // name relative to basePath
	Size       int64  // bytes on disk
	Compressed bool
	Created    time.Time
	LastAccess time.Time
}

// NewDiskCache opens (or creates) a cache in basePath. Entries older than
// ttl are removed on open; a zero ttl keeps everything. compressionLevel
// is a zstd level and 0 disables compression.
func NewDiskCache(basePath string, capacity int64, compressionLevel int, ttl time.Duration) (*DiskCache, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil { //nolint:gosec
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dc := &DiskCache{
		basePath: basePath,
		capacity: capacity,
		index:    make(map[string]*diskEntry),
		now:      time.Now,
	}

	if compressionLevel > 0 {
		var err error
		dc.encoder, err = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compressionLevel)))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		dc.decoder, err = zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
	}

	if err := dc.loadIndex(); err != nil {
		log.Debug("Discarding unreadable cache index", "dir", basePath, "err", err)
		dc.index = make(map[string]*diskEntry)
	}
	for _, e := range dc.index {
		dc.size += e.Size
	}
	if ttl > 0 {
		if n := dc.RemoveOlderThan(dc.now().Add(-ttl)); n > 0 {
			log.Debug("Pruned expired cache entries", "count", n)
		}
	}
	return dc, nil
}

// Get retrieves a value from the disk cache. Unreadable entries are
// dropped and reported as misses.
func (dc *DiskCache) Get(key string) ([]byte, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	entry, ok := dc.index[key]
	if !ok {
		dc.stats.Misses++
		return nil, false
	}

	data, err := os.ReadFile(filepath.Join(dc.basePath, entry.File))
	if err == nil && entry.Compressed {
		if dc.decoder == nil {
			err = errors.New("compressed entry but compression is disabled")
		} else {
			data, err = dc.decoder.DecodeAll(data, nil)
		}
	}
	if err != nil {
		log.Debug("Dropping unreadable cache entry", "key", key, "err", err)
		dc.remove(key, entry)
		dc.stats.Misses++
		dc.persist()
		return nil, false
	}

	entry.LastAccess = dc.now()
	dc.stats.Hits++
	dc.persist()
	return data, true
}

// Put stores a value, evicting least recently used entries to stay within
// capacity, and persists the index.
func (dc *DiskCache) Put(key string, value []byte) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	data, compressed := value, false
	if dc.encoder != nil && len(value) > 1024 {
		if c := dc.encoder.EncodeAll(value, nil); len(c) < len(value) {
			data, compressed = c, true
		}
	}

	diskSize := int64(len(data))
	if diskSize > dc.capacity {
		return ErrItemTooLarge
	}

	if existing, ok := dc.index[key]; ok {
		dc.remove(key, existing)
	}
	for dc.size+diskSize > dc.capacity && len(dc.index) > 0 {
		dc.evictOldest()
	}

	name := key + ".pcm"
	if compressed {
		name += ".zst"
	}
	if err := writeFileAtomic(filepath.Join(dc.basePath, name), data); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	now := dc.now()
	dc.index[key] = &diskEntry{
		Key:        key,
		File:       name,
		Size:       diskSize,
		Compressed: compressed,
		Created:    now,
		LastAccess: now,
	}
	dc.size += diskSize

	return dc.saveIndex()
}

// Delete removes an entry from the disk cache.
func (dc *DiskCache) Delete(key string) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if entry, ok := dc.index[key]; ok {
		dc.remove(key, entry)
	}
	return dc.saveIndex()
}

// Contains checks if a key exists in the cache without updating access time.
func (dc *DiskCache) Contains(key string) bool {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	_, ok := dc.index[key]
	return ok
}

// Size returns the bytes used on disk.
func (dc *DiskCache) Size() int64 {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	return dc.size
}

// Stats returns cache statistics.
func (dc *DiskCache) Stats() Stats {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	stats := dc.stats
	stats.Capacity = dc.capacity
	stats.Size = dc.size
	stats.Items = len(dc.index)
	return stats
}

// RemoveOlderThan removes entries created before cutoff.
func (dc *DiskCache) RemoveOlderThan(cutoff time.Time) int {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	removed := 0
	for key, entry := range dc.index {
		if entry.Created.Before(cutoff) {
			dc.remove(key, entry)
			removed++
		}
	}
	if removed > 0 {
		if err := dc.saveIndex(); err != nil {
			log.Debug("Could not save cache index", "err", err)
		}
	}
	return removed
}

// Close flushes the index.
func (dc *DiskCache) Close() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.encoder != nil {
		_ = dc.encoder.Close()
	}
	if dc.decoder != nil {
		dc.decoder.Close()
	}
	return dc.saveIndex()
}

// remove must be called with the lock held.
func (dc *DiskCache) remove(key string, entry *diskEntry) {
	_ = os.Remove(filepath.Join(dc.basePath, entry.File))
	dc.size -= entry.Size
	delete(dc.index, key)
}

func (dc *DiskCache) evictOldest() {
	var oldestKey string
	var oldest *diskEntry
	for key, entry := range dc.index {
		if oldest == nil || entry.LastAccess.Before(oldest.LastAccess) {
			oldestKey, oldest = key, entry
		}
	}
	if oldest != nil {
		dc.remove(oldestKey, oldest)
		dc.stats.Evictions++
	}
}

func (dc *DiskCache) loadIndex() error {
	file, err := os.Open(filepath.Join(dc.basePath, indexName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	return gob.NewDecoder(file).Decode(&dc.index)
}

// persist saves the index after a read. A failure only costs access
// order, so it is logged and not returned.
func (dc *DiskCache) persist() {
	if err := dc.saveIndex(); err != nil {
		log.Debug("Could not save cache index", "err", err)
	}
}

func (dc *DiskCache) saveIndex() error {
	tmp, err := os.CreateTemp(dc.basePath, indexName+".*")
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(tmp).Encode(dc.index); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dc.basePath, indexName))
}

// writeFileAtomic writes to a temp file first, then renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { //nolint:gosec
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
