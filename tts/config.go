package tts

import (
	"fmt"
	"time"
)

// Engine names accepted in the configuration.
const (
	EngineKokoro  = "kokoro"
	EngineCommand = "command"
	EngineMock    = "mock"
)

// Config holds everything the synthesis and output side reads from the
// config file and environment.
type Config struct {
	Voice  string
	Lang   string
	Speed  float64
	Engine string

	// Fallback names a second engine used when Engine is unreachable.
	Fallback string

	// OutputDir may start with "~".
	OutputDir string

	Kokoro   KokoroConfig
	Command  CommandConfig
	Segment  SegmentConfig
	Playback PlaybackConfig
	Cache    CacheConfig
}

// KokoroConfig configures the Kokoro-FastAPI HTTP engine.
type KokoroConfig struct {
	URL       string
	Model     string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 = unlimited
	APIKey    string  // KOKORO_API_KEY only, never read from the file
}

// CommandConfig configures the external command engine.
type CommandConfig struct {
	Binary     string
	Args       []string
	Timeout    time.Duration
	SampleRate int
}

// SegmentConfig controls how text is cut before synthesis.
type SegmentConfig struct {
	MaxChars int
}

// CacheConfig controls the synthesized chunk cache.
type CacheConfig struct {
	Enabled bool
	// Dir defaults to the user cache directory when empty.
	Dir       string
	MaxSizeMB int
	TTL       time.Duration
}

// PlaybackConfig controls the playback dispatcher.
type PlaybackConfig struct {
	Enabled   bool
	InProcess bool
	Players   []string
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Voice:     DefaultVoice,
		Lang:      DefaultLang,
		Speed:     1.0,
		Engine:    EngineKokoro,
		OutputDir: "~/kokoro-audio",
		Kokoro: KokoroConfig{
			URL:     "http://localhost:8880",
			Model:   "kokoro",
			Timeout: 60 * time.Second,
		},
		Command: CommandConfig{
			Timeout:    2 * time.Minute,
			SampleRate: SampleRate,
		},
		Segment: SegmentConfig{
			MaxChars: 400,
		},
		Playback: PlaybackConfig{
			Enabled:   true,
			InProcess: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MaxSizeMB: 512,
			TTL:       30 * 24 * time.Hour,
		},
	}
}

// Validate checks the configuration for values no engine can work with.
func (c Config) Validate() error {
	switch c.Engine {
	case EngineKokoro, EngineCommand, EngineMock:
	default:
		return fmt.Errorf("%w: invalid TTS engine %q", ErrInvalidConfig, c.Engine)
	}

	switch c.Fallback {
	case "", EngineKokoro, EngineCommand, EngineMock:
		if c.Fallback != "" && c.Fallback == c.Engine {
			return fmt.Errorf("%w: fallback engine must differ from engine", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: invalid fallback engine %q", ErrInvalidConfig, c.Fallback)
	}

	if c.Voice == "" {
		return fmt.Errorf("%w: voice must not be empty", ErrInvalidConfig)
	}
	if c.Speed < 0.25 || c.Speed > 4.0 {
		return fmt.Errorf("%w: speed must be between 0.25 and 4.0, got %.2f", ErrInvalidConfig, c.Speed)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output directory must not be empty", ErrInvalidConfig)
	}
	if c.Cache.MaxSizeMB < 0 {
		return fmt.Errorf("%w: cache max_size_mb must not be negative", ErrInvalidConfig)
	}
	if c.Segment.MaxChars < 0 {
		return fmt.Errorf("%w: segment max_chars must not be negative", ErrInvalidConfig)
	}

	if c.uses(EngineKokoro) {
		if c.Kokoro.URL == "" {
			return fmt.Errorf("%w: kokoro url must not be empty", ErrInvalidConfig)
		}
		if c.Kokoro.Timeout <= 0 {
			return fmt.Errorf("%w: kokoro timeout must be positive", ErrInvalidConfig)
		}
		if c.Kokoro.RateLimit < 0 {
			return fmt.Errorf("%w: kokoro rate_limit must not be negative", ErrInvalidConfig)
		}
	}
	if c.uses(EngineCommand) {
		if c.Command.Binary == "" {
			return fmt.Errorf("%w: command engine requires command.binary", ErrInvalidConfig)
		}
		if c.Command.SampleRate <= 0 {
			return fmt.Errorf("%w: command sample_rate must be positive", ErrInvalidConfig)
		}
	}

	return nil
}

func (c Config) uses(engine string) bool {
	return c.Engine == engine || c.Fallback == engine
}
