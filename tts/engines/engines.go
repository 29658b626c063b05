package engines

import (
	"fmt"
	"io"

	"github.com/mitchellh/go-homedir"

	"github.com/dgnsrekt/kokoro-tts/internal/cache"
	"github.com/dgnsrekt/kokoro-tts/tts"
	"github.com/dgnsrekt/kokoro-tts/tts/engines/command"
	"github.com/dgnsrekt/kokoro-tts/tts/engines/kokoro"
	"github.com/dgnsrekt/kokoro-tts/tts/engines/mock"
)

// New builds the pipeline named by cfg.Engine, wrapped with cfg.Fallback
// when one is configured. Real backends share one chunk cache when
// cfg.Cache is enabled. The returned closer flushes that cache and must be
// called once the pipeline is no longer used.
func New(cfg tts.Config) (tts.Pipeline, io.Closer, error) {
	tiered, err := newCache(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}

	var (
		store  cache.Cache
		closer io.Closer = nopCloser{}
	)
	if tiered != nil {
		store, closer = tiered, tiered
	}

	p, err := buildWithFallback(cfg, store)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return p, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func buildWithFallback(cfg tts.Config, store cache.Cache) (tts.Pipeline, error) {
	primary, err := build(cfg.Engine, cfg, store)
	if err != nil {
		return nil, err
	}
	if cfg.Fallback == "" {
		return primary, nil
	}

	secondary, err := build(cfg.Fallback, cfg, store)
	if err != nil {
		return nil, fmt.Errorf("fallback: %w", err)
	}
	return NewFallbackEngine(primary, secondary)
}

func build(name string, cfg tts.Config, store cache.Cache) (tts.Pipeline, error) {
	var p tts.Pipeline
	switch name {
	case tts.EngineKokoro:
		p = kokoro.New(cfg.Kokoro.URL,
			kokoro.WithTimeout(cfg.Kokoro.Timeout),
			kokoro.WithModel(cfg.Kokoro.Model),
			kokoro.WithRateLimit(cfg.Kokoro.RateLimit),
			kokoro.WithAPIKey(cfg.Kokoro.APIKey),
			kokoro.WithMaxChars(cfg.Segment.MaxChars),
		)
	case tts.EngineCommand:
		e, err := command.New(command.Config{
			Binary:     cfg.Command.Binary,
			Args:       cfg.Command.Args,
			Timeout:    cfg.Command.Timeout,
			SampleRate: cfg.Command.SampleRate,
			MaxChars:   cfg.Segment.MaxChars,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", tts.ErrEngineNotAvailable, err)
		}
		p = e
	case tts.EngineMock:
		// Never cached; its audio is silence and tests count its calls.
		return mock.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", tts.ErrUnknownEngine, name)
	}

	if store == nil {
		return p, nil
	}
	return NewCachedEngine(p, store, cfg.Segment.MaxChars), nil
}

// newCache returns nil when caching is disabled.
func newCache(cfg tts.CacheConfig) (*cache.Tiered, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	dir := cfg.Dir
	if dir == "" {
		d, err := cache.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("failed to find cache directory: %w", err)
		}
		dir = d
	}
	dir, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to expand cache directory: %w", err)
	}

	c := cache.DefaultConfig()
	c.Dir = dir
	c.DiskCapacity = int64(cfg.MaxSizeMB) * 1024 * 1024
	c.TTL = cfg.TTL
	return cache.New(c)
}
