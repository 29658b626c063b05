// Package cli turns raw command-line arguments into invocation options.
//
// Flag parsing is done by hand rather than through cobra's pflag set: voice
// shortcuts are open-ended long flags, unknown tokens are part of the text
// to speak, and "--help" must win wherever it appears.
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgnsrekt/kokoro-tts/tts"
)

var (
	// ErrNoArguments is returned when the program is run without
	// arguments. Usage is shown and the exit status is 1.
	ErrNoArguments = errors.New("no arguments")

	// ErrNoText is returned when no text source is given, or the literal
	// text is only whitespace.
	ErrNoText = errors.New("no text provided")
)

// UsageError reports a malformed flag.
type UsageError struct {
	Flag string
	Msg  string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("flag %s %s", e.Flag, e.Msg)
}

// Options is the parsed form of one invocation.
type Options struct {
	// Voice is never empty; it falls back to tts.DefaultVoice.
	Voice string
	// VoiceSet is true when Voice came from the command line.
	VoiceSet bool

	Text      string
	File      string
	Clipboard bool
	Markdown  bool
	NoPlay    bool
	OutputDir string
	Speed     float64 // zero means not set
	Debug     bool

	// ConfigFile replaces the config file found in the default places.
	ConfigFile string

	Help    bool
	Version bool

	// IgnoredShortcuts lists voice shortcuts after the first one.
	IgnoredShortcuts []string
	// Unused holds literal text that was dropped because a file or the
	// clipboard is the source.
	Unused []string
}

// FromFile reports whether the text comes from a file.
func (o Options) FromFile() bool { return o.File != "" }

// Parse parses args, which must not include the program name.
//
// The leftmost voice shortcut selects the voice and later ones are ignored;
// --voice overrides any shortcut. Tokens that are not recognised flags are
// joined with single spaces into the literal text. Everything after a bare
// "--" is literal text.
func Parse(args []string) (Options, error) {
	opts := Options{Voice: tts.DefaultVoice}

	if len(args) == 0 {
		opts.Help = true
		return opts, ErrNoArguments
	}
	if wantsHelp(args) {
		opts.Help = true
		return opts, nil
	}

	var (
		shortcutVoice string
		explicitVoice string
		rest          []string
	)

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			rest = append(rest, args[i+1:]...)
			break
		}

		if id, ok := tts.LookupShortcut(arg); ok {
			if shortcutVoice == "" {
				shortcutVoice = id
			} else {
				opts.IgnoredShortcuts = append(opts.IgnoredShortcuts, arg)
			}
			continue
		}

		name, value, hasValue := splitFlag(arg)
		switch name {
		case "--voice", "-v", "--file", "-f", "--output-dir", "-o", "--speed", "--config":
			if !hasValue {
				if i+1 >= len(args) {
					return opts, &UsageError{Flag: name, Msg: "requires a value"}
				}
				i++
				value = args[i]
			}
			if value == "" {
				return opts, &UsageError{Flag: name, Msg: "requires a non-empty value"}
			}

			switch name {
			case "--voice", "-v":
				explicitVoice = value
			case "--file", "-f":
				opts.File = value
			case "--output-dir", "-o":
				opts.OutputDir = value
			case "--config":
				opts.ConfigFile = value
			case "--speed":
				speed, err := strconv.ParseFloat(value, 64)
				if err != nil || speed <= 0 {
					return opts, &UsageError{Flag: name, Msg: fmt.Sprintf("expects a positive number, got %q", value)}
				}
				opts.Speed = speed
			}
		case "--clipboard", "-c":
			opts.Clipboard = true
		case "--markdown":
			opts.Markdown = true
		case "--no-play":
			opts.NoPlay = true
		case "--debug":
			opts.Debug = true
		case "--version":
			opts.Version = true
		default:
			rest = append(rest, arg)
		}
	}

	switch {
	case explicitVoice != "":
		opts.Voice = explicitVoice
		opts.VoiceSet = true
	case shortcutVoice != "":
		opts.Voice = shortcutVoice
		opts.VoiceSet = true
	}

	if opts.Version {
		return opts, nil
	}

	if opts.File != "" && opts.Clipboard {
		return opts, &UsageError{Flag: "--clipboard", Msg: "cannot be combined with --file"}
	}
	if opts.File != "" || opts.Clipboard {
		opts.Unused = rest
		return opts, nil
	}

	opts.Text = strings.Join(rest, " ")
	if strings.TrimSpace(opts.Text) == "" {
		return opts, ErrNoText
	}
	return opts, nil
}

// wantsHelp reports whether -h or --help appears before a "--" terminator.
func wantsHelp(args []string) bool {
	for _, a := range args {
		switch a {
		case "--":
			return false
		case "-h", "--help":
			return true
		}
	}
	return false
}

// splitFlag separates "--name=value" forms. Short flags and values-less
// flags come back unchanged.
func splitFlag(arg string) (name, value string, ok bool) {
	if !strings.HasPrefix(arg, "--") {
		return arg, "", false
	}
	name, value, ok = strings.Cut(arg, "=")
	return name, value, ok
}
