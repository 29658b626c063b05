package tts

import (
	"github.com/spf13/viper"
)

// LoadConfigFromViper loads the configuration from the global Viper
// instance, keeping defaults for keys that are not set.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("voice") {
		cfg.Voice = viper.GetString("voice")
	}
	if viper.IsSet("lang") {
		cfg.Lang = viper.GetString("lang")
	}
	if viper.IsSet("speed") {
		cfg.Speed = viper.GetFloat64("speed")
	}
	if viper.IsSet("engine") {
		cfg.Engine = viper.GetString("engine")
	}
	if viper.IsSet("fallback") {
		cfg.Fallback = viper.GetString("fallback")
	}
	if viper.IsSet("output.dir") {
		cfg.OutputDir = viper.GetString("output.dir")
	}

	cfg.Kokoro = loadKokoroConfig(cfg.Kokoro)
	cfg.Command = loadCommandConfig(cfg.Command)

	if viper.IsSet("segment.max_chars") {
		cfg.Segment.MaxChars = viper.GetInt("segment.max_chars")
	}

	// Playback
	if viper.IsSet("playback.enabled") {
		cfg.Playback.Enabled = viper.GetBool("playback.enabled")
	}
	if viper.IsSet("playback.in_process") {
		cfg.Playback.InProcess = viper.GetBool("playback.in_process")
	}
	if viper.IsSet("playback.players") {
		cfg.Playback.Players = viper.GetStringSlice("playback.players")
	}

	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if viper.IsSet("cache.dir") {
		cfg.Cache.Dir = viper.GetString("cache.dir")
	}
	if viper.IsSet("cache.max_size_mb") {
		cfg.Cache.MaxSizeMB = viper.GetInt("cache.max_size_mb")
	}
	if viper.IsSet("cache.ttl") {
		cfg.Cache.TTL = viper.GetDuration("cache.ttl")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadKokoroConfig(cfg KokoroConfig) KokoroConfig {
	if viper.IsSet("kokoro.url") {
		cfg.URL = viper.GetString("kokoro.url")
	}
	if viper.IsSet("kokoro.model") {
		cfg.Model = viper.GetString("kokoro.model")
	}
	if viper.IsSet("kokoro.timeout") {
		cfg.Timeout = viper.GetDuration("kokoro.timeout")
	}
	if viper.IsSet("kokoro.rate_limit") {
		cfg.RateLimit = viper.GetFloat64("kokoro.rate_limit")
	}
	return cfg
}

func loadCommandConfig(cfg CommandConfig) CommandConfig {
	if viper.IsSet("command.binary") {
		cfg.Binary = viper.GetString("command.binary")
	}
	if viper.IsSet("command.args") {
		cfg.Args = viper.GetStringSlice("command.args")
	}
	if viper.IsSet("command.timeout") {
		cfg.Timeout = viper.GetDuration("command.timeout")
	}
	if viper.IsSet("command.sample_rate") {
		cfg.SampleRate = viper.GetInt("command.sample_rate")
	}
	return cfg
}

// SetDefaults registers the defaults with Viper so they show up in
// viper.AllSettings and in generated config files.
func SetDefaults() {
	defaults := DefaultConfig()

	viper.SetDefault("voice", defaults.Voice)
	viper.SetDefault("lang", defaults.Lang)
	viper.SetDefault("speed", defaults.Speed)
	viper.SetDefault("engine", defaults.Engine)
	viper.SetDefault("output.dir", defaults.OutputDir)

	viper.SetDefault("kokoro.url", defaults.Kokoro.URL)
	viper.SetDefault("kokoro.model", defaults.Kokoro.Model)
	viper.SetDefault("kokoro.timeout", defaults.Kokoro.Timeout)
	viper.SetDefault("kokoro.rate_limit", defaults.Kokoro.RateLimit)

	viper.SetDefault("command.timeout", defaults.Command.Timeout)
	viper.SetDefault("command.sample_rate", defaults.Command.SampleRate)

	viper.SetDefault("segment.max_chars", defaults.Segment.MaxChars)

	viper.SetDefault("playback.enabled", defaults.Playback.Enabled)
	viper.SetDefault("playback.in_process", defaults.Playback.InProcess)

	viper.SetDefault("cache.enabled", defaults.Cache.Enabled)
	viper.SetDefault("cache.max_size_mb", defaults.Cache.MaxSizeMB)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)
}
