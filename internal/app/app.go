// Package app runs one kokoro invocation: load text, synthesize, save and
// play.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"

	"github.com/dgnsrekt/kokoro-tts/internal/cli"
	"github.com/dgnsrekt/kokoro-tts/internal/textload"
	"github.com/dgnsrekt/kokoro-tts/tts"
	"github.com/dgnsrekt/kokoro-tts/tts/audio"
	"github.com/dgnsrekt/kokoro-tts/tts/engines"
	"github.com/dgnsrekt/kokoro-tts/tts/playback"
)

// Player plays a saved file. *playback.Dispatcher implements it.
type Player interface {
	Candidates() []string
	Play(ctx context.Context, m playback.Media) playback.Outcome
}

// ArtifactWriter saves a waveform. *audio.Writer implements it.
type ArtifactWriter interface {
	Write(tts.Waveform) (audio.Artifact, error)
}

// App holds the components of one run.
type App struct {
	Config   tts.Config
	Pipeline tts.Pipeline
	Writer   ArtifactWriter
	Player   Player
	Out      io.Writer

	// Clipboard reads the clipboard for --clipboard.
	Clipboard func() (string, error)

	closer io.Closer
}

// Configure applies command-line overrides on top of cfg.
func Configure(cfg tts.Config, opts cli.Options) tts.Config {
	if opts.VoiceSet {
		cfg.Voice = opts.Voice
	}
	if opts.Speed > 0 {
		cfg.Speed = opts.Speed
	}
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}
	if opts.NoPlay {
		cfg.Playback.Enabled = false
	}
	return cfg
}

// New wires the production components for cfg.
func New(cfg tts.Config, out io.Writer) (*App, error) {
	pipeline, closer, err := engines.New(cfg)
	if err != nil {
		return nil, err
	}

	dir, err := homedir.Expand(cfg.OutputDir)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("failed to expand output directory: %w", err)
	}

	player := playback.NewDispatcher(playback.Options{
		Family:           playback.CurrentFamily(),
		Players:          cfg.Playback.Players,
		DisableInProcess: !cfg.Playback.InProcess,
	})

	return &App{
		Config:    cfg,
		Pipeline:  pipeline,
		Writer:    audio.NewWriter(dir),
		Player:    player,
		Out:       out,
		Clipboard: textload.FromClipboard,
		closer:    closer,
	}, nil
}

// Close releases what New opened. It is safe on an App built by hand.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Run speaks the text selected by opts and returns the saved artifact.
// Playback problems are printed as warnings and never returned.
func (a *App) Run(ctx context.Context, opts cli.Options) (audio.Artifact, error) {
	p := newPrinter(a.Out)

	for _, s := range opts.IgnoredShortcuts {
		log.Warn("Ignoring extra voice shortcut", "flag", s, "voice", a.Config.Voice)
	}
	if len(opts.Unused) > 0 {
		log.Warn("Ignoring text arguments", "text", strings.Join(opts.Unused, " "))
	}

	text, err := a.text(opts)
	if err != nil {
		return audio.Artifact{}, err
	}
	if opts.Markdown {
		text = textload.StripMarkdown(text)
	}
	if strings.TrimSpace(text) == "" {
		return audio.Artifact{}, cli.ErrNoText
	}

	a.checkVoice()

	req := tts.Request{
		Text:  text,
		Voice: a.Config.Voice,
		Lang:  a.Config.Lang,
		Speed: a.Config.Speed,
	}
	log.Debug("Synthesizing", "engine", a.Pipeline.Name(), "voice", req.Voice, "chars", len(text))

	p.speaking(text)
	p.generating()

	wave, err := tts.Synthesize(ctx, a.Pipeline, req, func(seg tts.Segment) {
		p.segment(seg.Index + 1)
	})
	if err != nil {
		return audio.Artifact{}, err
	}

	art, err := a.Writer.Write(wave)
	if err != nil {
		return audio.Artifact{}, fmt.Errorf("failed to save audio: %w", err)
	}
	p.saved(wave.Segments, art.Size)

	if a.Config.Playback.Enabled && a.Player != nil {
		if len(a.Player.Candidates()) > 0 {
			p.playing()
		}
		out := a.Player.Play(ctx, playback.Media{Path: art.Path, Wave: wave})
		if !out.Played {
			log.Debug("Playback skipped", "family", out.Family, "error", out.Err)
			p.warning(out.Warning)
		}
	}

	p.done(art.Path)
	return art, nil
}

func (a *App) text(opts cli.Options) (string, error) {
	switch {
	case opts.FromFile():
		res, err := textload.Load(opts.File)
		if err != nil {
			return "", err
		}
		log.Debug("Loaded file", "path", res.Path, "encoding", res.Encoding)
		return res.Text, nil
	case opts.Clipboard:
		if a.Clipboard == nil {
			return "", textload.ErrClipboardUnsupported
		}
		return a.Clipboard()
	default:
		return opts.Text, nil
	}
}

// checkVoice warns about voices missing from the catalog. The backend may
// still know them, so this never fails the run.
func (a *App) checkVoice() {
	if _, ok := tts.LookupVoice(a.Config.Voice); ok {
		return
	}
	if s := tts.SuggestVoices(a.Config.Voice, 3); len(s) > 0 {
		log.Warn("Unknown voice", "voice", a.Config.Voice, "suggestions", strings.Join(s, ", "))
		return
	}
	log.Warn("Unknown voice", "voice", a.Config.Voice)
}

// ExitCode maps a Run error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}

// ReportError prints err to w the way the command line shows failures.
func ReportError(w io.Writer, err error) {
	p := newPrinter(w)

	var de *textload.DecodeError
	var ue *cli.UsageError
	switch {
	case errors.As(err, &de):
		p.failure("Error reading file: Could not decode file with any standard encoding.")
		p.line("Last error: %v", de.Last)
		p.line("Tried encodings: %s", strings.Join(de.Tried, ", "))
	case errors.Is(err, cli.ErrNoText):
		p.failure("Error: No text provided")
	case errors.As(err, &ue):
		p.failure("Error: " + ue.Error())
		p.line("Run 'kokoro --help' for usage.")
	case errors.Is(err, context.Canceled):
		p.failure("Interrupted.")
	default:
		p.failure("Error: " + err.Error())
	}
}
