package cache

import (
	"github.com/charmbracelet/log"
)

// Tiered checks memory first, then disk, and promotes disk hits into
// memory. Either tier may be nil.
type Tiered struct {
	memory *MemoryCache
	disk   *DiskCache
}

// New builds a tiered cache from cfg. A tier with zero capacity is left out.
func New(cfg Config) (*Tiered, error) {
	t := &Tiered{}
	if cfg.MemoryCapacity > 0 {
		t.memory = NewMemoryCache(cfg.MemoryCapacity)
	}
	if cfg.DiskCapacity > 0 && cfg.Dir != "" {
		d, err := NewDiskCache(cfg.Dir, cfg.DiskCapacity, cfg.CompressionLevel, cfg.TTL)
		if err != nil {
			return nil, err
		}
		t.disk = d
	}
	return t, nil
}

// Get retrieves a value from the fastest tier that has it.
func (t *Tiered) Get(key string) ([]byte, bool) {
	if t.memory != nil {
		if data, ok := t.memory.Get(key); ok {
			return data, true
		}
	}
	if t.disk != nil {
		if data, ok := t.disk.Get(key); ok {
			if t.memory != nil {
				_ = t.memory.Put(key, data)
			}
			return data, true
		}
	}
	return nil, false
}

// Put stores a value in every tier. An item too large for one tier is
// still stored in the others.
func (t *Tiered) Put(key string, value []byte) error {
	if t.memory != nil {
		if err := t.memory.Put(key, value); err != nil && err != ErrItemTooLarge {
			return err
		}
	}
	if t.disk != nil {
		if err := t.disk.Put(key, value); err != nil && err != ErrItemTooLarge {
			return err
		}
	}
	return nil
}

// Stats returns statistics per tier.
func (t *Tiered) Stats() map[Level]Stats {
	out := make(map[Level]Stats, 2)
	if t.memory != nil {
		out[LevelMemory] = t.memory.Stats()
	}
	if t.disk != nil {
		out[LevelDisk] = t.disk.Stats()
	}
	return out
}

// Close flushes the disk tier.
func (t *Tiered) Close() error {
	if t.disk == nil {
		return nil
	}
	if err := t.disk.Close(); err != nil {
		log.Debug("Could not close disk cache", "err", err)
		return err
	}
	return nil
}
