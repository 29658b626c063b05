package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

// envConfig holds settings that only come from the environment.
type envConfig struct {
	Debug      bool   `env:"KOKORO_DEBUG"`
	LogFile    string `env:"KOKORO_LOG_FILE"`
	APIKey     string `env:"KOKORO_API_KEY"`
	ConfigHome string `env:"KOKORO_CONFIG_HOME"`
}

func getLogFilePath(cfg envConfig) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	dir, err := gap.NewScope(gap.User, "kokoro").CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "kokoro.log"), nil
}

// setupLog sends diagnostics to stderr and mirrors them into the log file
// in the user cache directory. Warnings and errors are shown by default;
// KOKORO_DEBUG or --debug lowers the level to debug.
func setupLog(cfg envConfig) (func() error, error) {
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(false)
	log.SetLevel(log.WarnLevel)
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	logFile, err := getLogFilePath(cfg)
	if err != nil {
		// No cache dir; stderr only.
		return func() error { return nil }, nil //nolint:nilerr
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil { //nolint:gosec
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	log.SetReportTimestamp(true)
	return f.Close, nil
}
