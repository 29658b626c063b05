package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	gap "github.com/muesli/go-app-paths"
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity
	ErrItemTooLarge = errors.New("item too large for cache")
)

// Level represents the cache tier
type Level int

const (
	// LevelMemory is the in-process LRU.
	LevelMemory Level = iota

	// LevelDisk is the persistent store shared between runs.
	LevelDisk
)

// String returns the string representation of the cache level
func (l Level) String() string {
	switch l {
	case LevelMemory:
		return "memory"
	case LevelDisk:
		return "disk"
	default:
		return "unknown"
	}
}

// Stats holds cache counters.
type Stats struct {
	Capacity  int64 // Maximum capacity in bytes
	Size      int64 // Current size in bytes
	Items     int
	Hits      int64
	Misses    int64
	Evictions int64
}

// HitRate is hits / (hits + misses), or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	if s.Hits+s.Misses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Hits+s.Misses)
}

// Cache is what the synthesis layer needs from a store.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
}

// Key identifies the audio for one chunk of text.
type Key struct {
	Engine string
	Voice  string
	Lang   string
	Speed  float64
	Text   string
}

// String returns a stable, file-name safe digest of the key.
func (k Key) String() string {
	parts := []string{
		k.Engine,
		k.Voice,
		k.Lang,
		strconv.FormatFloat(k.Speed, 'f', 3, 64),
		k.Text,
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

// Config holds configuration for a tiered cache.
type Config struct {
	MemoryCapacity   int64         // bytes, 0 disables the memory tier
	DiskCapacity     int64         // bytes, 0 disables the disk tier
	Dir              string        // disk tier directory
	CompressionLevel int           // zstd level, 0 stores raw PCM
	TTL              time.Duration // disk entries older than this are dropped on open
}

// DefaultConfig returns default cache configuration
func DefaultConfig() Config {
	return Config{
		MemoryCapacity:   32 * 1024 * 1024,  // 32MB
		DiskCapacity:     512 * 1024 * 1024, // 512MB
		CompressionLevel: 3,
		TTL:              30 * 24 * time.Hour,
	}
}

// DefaultDir returns the per-user directory for cached audio.
func DefaultDir() (string, error) {
	dir, err := gap.NewScope(gap.User, "kokoro").CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "audio"), nil
}
