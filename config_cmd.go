package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# Voice used when none is given on the command line (see "kokoro voices")
voice: "af_heart"
# Kokoro language code: a = American English, b = British English
lang: "a"
# Speaking speed multiplier (0.25 to 4.0)
speed: 1.0
# Synthesis engine: kokoro or command
engine: "kokoro"
# Engine to try when the main one is unreachable (optional)
# fallback: "command"

output:
  # Where WAV files are saved
  dir: "~/kokoro-audio"

# Kokoro-FastAPI server
kokoro:
  url: "http://localhost:8880"
  model: "kokoro"
  timeout: "60s"
  # Requests per second, 0 = unlimited
  rate_limit: 0

# External program that reads text on stdin and writes 16-bit mono PCM
# to stdout. {voice}, {lang} and {speed} are replaced in args.
command:
  # binary: "kokoro-pcm"
  # args: ["--voice", "{voice}", "--speed", "{speed}"]
  timeout: "2m"
  sample_rate: 24000

segment:
  # Longest chunk of text sent per request, in characters
  max_chars: 400

playback:
  # Play the file after saving it
  enabled: true
  # Windows: play from memory before falling back to the default player
  in_process: true
  # Replace the platform's player list, e.g. ["mpv --no-video"]
  # players: []

# Synthesized chunks are kept so repeated text plays without a request
cache:
  enabled: true
  # dir: "~/.cache/kokoro/audio"
  max_size_mb: 512
  ttl: "720h"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the kokoro config file",
	Long:    paragraph(fmt.Sprintf("\n%s the kokoro config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("kokoro config\nkokoro config --config path/to/kokoro.yml"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("Kokoro", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
	}
	if configFile == "" {
		return errors.New("could not determine config file location")
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
