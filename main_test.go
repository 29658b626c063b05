package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/dgnsrekt/kokoro-tts/tts"
)

func TestRouteArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"no args", nil, nil},
		{"text", []string{"hello", "world"}, []string{"speak", "hello", "world"}},
		{"shortcut", []string{"--adam", "hi"}, []string{"speak", "--adam", "hi"}},
		{"help flag", []string{"--help"}, []string{"speak", "--help"}},
		{"voices", []string{"voices"}, []string{"voices"}},
		{"config", []string{"config"}, []string{"config"}},
		{"help command", []string{"help"}, []string{"help"}},
		{"subcommand name as text", []string{"-v", "am_adam", "voices"}, []string{"speak", "-v", "am_adam", "voices"}},
		{"speak", []string{"speak", "hi"}, []string{"speak", "hi"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := routeArgs(tc.args)
			if !slices.Equal(got, tc.want) {
				t.Errorf("routeArgs(%q) = %q, want %q", tc.args, got, tc.want)
			}
		})
	}
}

func TestHelpText(t *testing.T) {
	text := helpText()

	for _, want := range []string{
		"Kokoro TTS - Terminal Text-to-Speech",
		"kokoro [OPTIONS] <text>",
		"kokoro [OPTIONS] --file <file>",
		"--voice, -v VOICE",
		"--file, -f FILE",
		"--help, -h",
		"(male voices)",
		"(female voices)",
		"am_fenrir (⭐ best)",
		"bf_emma",
		`kokoro --michael "Hello world"`,
		"kokoro --echo --file README.md",
		`kokoro -v am_fenrir "This is a test"`,
		"Audio files are saved to: ",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("help text missing %q", want)
		}
	}

	for _, s := range tts.Shortcuts() {
		if !strings.Contains(text, s.Flag) {
			t.Errorf("help text missing shortcut %s", s.Flag)
		}
	}
	for _, v := range tts.Voices() {
		if !strings.Contains(text, v.ID) {
			t.Errorf("help text missing voice %s", v.ID)
		}
	}
}

func TestPrintHelpPlain(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf)

	if buf.String() != helpText() {
		t.Error("printHelp should write plain text to non-terminal writers")
	}
}

func TestHangingList(t *testing.T) {
	items := []string{"aaaaaaaaaa", "bbbbbbbbbb", "cccccccccc", "dddddddddd", "eeeeeeeeee", "ffffffffff"}
	out := hangingList("Label:", items, 8)
	lines := strings.Split(out, "\n")

	if len(lines) < 2 {
		t.Fatalf("expected list to wrap, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "  Label:  aaaaaaaaaa") {
		t.Errorf("first line = %q", lines[0])
	}
	for _, l := range lines[1:] {
		if !strings.HasPrefix(l, strings.Repeat(" ", 10)) {
			t.Errorf("continuation line not aligned: %q", l)
		}
	}
}

func TestFilterVoices(t *testing.T) {
	male, err := filterVoices(tts.Voices(), "Male")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(male) == 0 {
		t.Fatal("expected male voices")
	}
	for _, v := range male {
		if v.Gender != tts.GenderMale {
			t.Errorf("got %s in male list", v.ID)
		}
	}

	all, err := filterVoices(tts.Voices(), "")
	if err != nil || len(all) != len(tts.Voices()) {
		t.Errorf("empty filter should keep every voice, got %d, %v", len(all), err)
	}

	if _, err := filterVoices(tts.Voices(), "robot"); err == nil {
		t.Error("expected error for unknown gender")
	}
}

func TestVoicesTable(t *testing.T) {
	out := voicesTable(tts.Voices())
	for _, want := range []string{"VOICE", "SHORTCUT", "am_fenrir", "--fenrir", "bf_emma"} {
		if !strings.Contains(out, want) {
			t.Errorf("voices table missing %q", want)
		}
	}
}

func TestUseConfigFile(t *testing.T) {
	dir := t.TempDir()

	err := useConfigFile(filepath.Join(dir, "missing.yml"))
	if !errors.Is(err, tts.ErrInvalidConfig) {
		t.Fatalf("missing file: error = %v, want ErrInvalidConfig", err)
	}

	path := filepath.Join(dir, "custom.yml")
	if err := os.WriteFile(path, []byte("voice: am_adam\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := useConfigFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if configFile != path {
		t.Errorf("configFile = %q, want %q", configFile, path)
	}

	cfg, err := tts.LoadConfigFromViper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Voice != "am_adam" {
		t.Errorf("Voice = %q, want am_adam", cfg.Voice)
	}
}

func TestConfigFlagBelongsToConfigCommand(t *testing.T) {
	if rootCmd.PersistentFlags().Lookup("config") != nil {
		t.Error("--config should not be a persistent flag")
	}
	f := configCmd.Flags().Lookup("config")
	if f == nil {
		t.Fatal("config command is missing --config")
	}
	if f.DefValue == "" {
		t.Error("--config should default to the resolved config file")
	}
}
