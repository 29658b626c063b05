package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/kokoro-tts/tts"
)

const (
	listWidth = 62
	maxWidth  = 100
)

type option struct {
	flags string
	usage string
}

var options = []option{
	{"--voice, -v VOICE", "Choose a voice (default: " + tts.DefaultVoice + ")"},
	{"--file, -f FILE", "Read text from a file"},
	{"--clipboard, -c", "Read text from the clipboard"},
	{"--markdown", "Strip markdown formatting before speaking"},
	{"--output-dir, -o DIR", "Save audio files to DIR"},
	{"--speed SPEED", "Speaking speed, 0.25 to 4.0"},
	{"--no-play", "Save the file without playing it"},
	{"--config FILE", "Read settings from FILE"},
	{"--debug", "Log diagnostics to stderr"},
	{"--version", "Print the version"},
	{"--help, -h", "Show this help message"},
}

var examples = []string{
	`kokoro --michael "Hello world"`,
	`kokoro --echo --file README.md`,
	`kokoro -v am_fenrir "This is a test"`,
}

// voiceGroup is one line of the voice listing.
type voiceGroup struct {
	label  string
	voices []tts.Voice
}

func voiceGroups() []voiceGroup {
	groups := []voiceGroup{{label: "Male"}, {label: "Female"}, {label: "British"}}
	for _, v := range tts.Voices() {
		switch {
		case v.Accent == "British":
			groups[2].voices = append(groups[2].voices, v)
		case v.Gender == tts.GenderMale:
			groups[0].voices = append(groups[0].voices, v)
		default:
			groups[1].voices = append(groups[1].voices, v)
		}
	}
	return groups
}

// shortcutGroups splits the shortcut flags by the kind of voice they pick.
func shortcutGroups() (male, female, british []string) {
	for _, s := range tts.Shortcuts() {
		v, ok := tts.LookupVoice(s.VoiceID)
		switch {
		case !ok:
			continue
		case v.Accent == "British":
			british = append(british, s.Flag)
		case v.Gender == tts.GenderMale:
			male = append(male, s.Flag)
		default:
			female = append(female, s.Flag)
		}
	}
	return male, female, british
}

func voiceLabel(v tts.Voice) string {
	if v.Recommended {
		return v.ID + " (⭐ best)"
	}
	return v.ID
}

// hangingList wraps items after label and aligns continuation lines with
// the first item.
func hangingList(label string, items []string, pad int) string {
	wrapped := wordwrap.String(strings.Join(items, ", "), listWidth)
	lines := strings.Split(wrapped, "\n")
	head := fmt.Sprintf("  %-*s", pad, label)
	out := head + lines[0]
	if len(lines) > 1 {
		rest := indent.String(strings.Join(lines[1:], "\n"), uint(len(head))) //nolint:gosec
		out += "\n" + rest
	}
	return out
}

func optionsText() string {
	var b strings.Builder
	for _, o := range options {
		fmt.Fprintf(&b, "  %-21s%s\n", o.flags, o.usage)
	}
	return strings.TrimRight(b.String(), "\n")
}

func voicesText() string {
	var lines []string
	for _, g := range voiceGroups() {
		ids := make([]string, len(g.voices))
		for i, v := range g.voices {
			ids[i] = voiceLabel(v)
		}
		lines = append(lines, hangingList(g.label+":", ids, 8))
	}
	return strings.Join(lines, "\n")
}

func outputDirLabel() string {
	dir := viper.GetString("output.dir")
	if dir == "" {
		dir = tts.DefaultConfig().OutputDir
	}
	return strings.TrimRight(dir, "/") + "/"
}

// helpText is the plain usage message.
func helpText() string {
	var b strings.Builder
	b.WriteString("Kokoro TTS - Terminal Text-to-Speech\n")
	b.WriteString("\nUsage:\n")
	b.WriteString("  kokoro [OPTIONS] <text>\n")
	b.WriteString("  kokoro [OPTIONS] --file <file>\n")
	b.WriteString("  kokoro voices | config\n")

	b.WriteString("\nOptions:\n")
	b.WriteString(optionsText() + "\n")

	male, female, british := shortcutGroups()
	b.WriteString("\nVoice Shortcuts:\n")
	b.WriteString(hangingList("", male, 0) + " (male voices)\n")
	b.WriteString(hangingList("", female, 0) + " (female voices)\n")
	b.WriteString(hangingList("", british, 0) + " (British voice)\n")

	b.WriteString("\nAvailable Voices:\n")
	b.WriteString(voicesText() + "\n")

	b.WriteString("\nExamples:\n")
	for _, e := range examples {
		b.WriteString("  " + e + "\n")
	}

	b.WriteString("\nAudio files are saved to: " + outputDirLabel() + "\n")
	return b.String()
}

// helpMarkdown is the usage message for glamour.
func helpMarkdown() string {
	var b strings.Builder
	b.WriteString("# Kokoro TTS\n\nTerminal text-to-speech.\n\n")

	b.WriteString("## Usage\n\n```\nkokoro [OPTIONS] <text>\nkokoro [OPTIONS] --file <file>\nkokoro voices | config\n```\n\n")

	b.WriteString("## Options\n\n")
	for _, o := range options {
		fmt.Fprintf(&b, "- `%s` %s\n", o.flags, o.usage)
	}

	male, female, british := shortcutGroups()
	b.WriteString("\n## Voice Shortcuts\n\n")
	fmt.Fprintf(&b, "- Male: `%s`\n", strings.Join(male, "` `"))
	fmt.Fprintf(&b, "- Female: `%s`\n", strings.Join(female, "` `"))
	fmt.Fprintf(&b, "- British: `%s`\n", strings.Join(british, "` `"))

	b.WriteString("\n## Available Voices\n\n")
	for _, g := range voiceGroups() {
		ids := make([]string, len(g.voices))
		for i, v := range g.voices {
			ids[i] = voiceLabel(v)
		}
		fmt.Fprintf(&b, "- **%s** %s\n", g.label, strings.Join(ids, ", "))
	}

	b.WriteString("\n## Examples\n\n```\n")
	for _, e := range examples {
		b.WriteString(e + "\n")
	}
	b.WriteString("```\n\n")

	fmt.Fprintf(&b, "Audio files are saved to: `%s`\n", outputDirLabel())
	return b.String()
}

// printHelp renders the usage message with glamour on a terminal and as
// plain text everywhere else.
func printHelp(w io.Writer) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec
		fmt.Fprint(w, helpText())
		return
	}

	width := 80
	if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 { //nolint:gosec
		width = min(tw, maxWidth)
	}

	style := styles.LightStyle
	if termenv.HasDarkBackground() {
		style = styles.DarkStyle
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithColorProfile(lipgloss.ColorProfile()),
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		fmt.Fprint(w, helpText())
		return
	}
	out, err := r.Render(helpMarkdown())
	if err != nil {
		fmt.Fprint(w, helpText())
		return
	}
	fmt.Fprint(w, out)
}
