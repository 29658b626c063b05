// Package command provides a synthesis pipeline that runs an external
// program per text segment. The program reads the segment on stdin and
// writes signed 16-bit little-endian mono PCM to stdout.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/kokoro-tts/tts"
	"github.com/dgnsrekt/kokoro-tts/tts/sentence"
)

// Config configures the command engine.
type Config struct {
	Binary string

	// Args may contain {voice}, {lang} and {speed} placeholders.
	Args []string

	// Timeout applies to each segment. Zero means 2 minutes.
	Timeout time.Duration

	// SampleRate of the PCM the program writes. Zero means 24000.
	SampleRate int

	// MaxChars caps segment length. Zero sends each paragraph whole.
	MaxChars int
}

// Engine runs Config.Binary once per segment.
type Engine struct {
	config   Config
	splitter *sentence.Splitter
}

// New creates a command engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Binary == "" {
		return nil, errors.New("command engine requires a binary")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = tts.SampleRate
	}
	return &Engine{config: cfg, splitter: sentence.New(cfg.MaxChars)}, nil
}

// Name implements tts.Pipeline.
func (e *Engine) Name() string { return "command" }

// SampleRate implements tts.Pipeline.
func (e *Engine) SampleRate() int { return e.config.SampleRate }

// IsAvailable reports whether the binary can be found.
func (e *Engine) IsAvailable(context.Context) bool {
	_, err := exec.LookPath(e.config.Binary)
	return err == nil
}

// Generate implements tts.Pipeline.
func (e *Engine) Generate(ctx context.Context, req tts.Request) iter.Seq2[tts.Segment, error] {
	return func(yield func(tts.Segment, error) bool) {
		args := expandArgs(e.config.Args, req)

		for i, chunk := range e.splitter.Split(req.Text) {
			out, err := e.run(ctx, chunk, args)
			if err != nil {
				yield(tts.Segment{}, fmt.Errorf("segment %d: %w", i+1, err))
				return
			}

			samples, err := tts.PCM16ToFloat32(out)
			if err != nil {
				yield(tts.Segment{}, fmt.Errorf("segment %d: %w", i+1, err))
				return
			}

			if !yield(tts.Segment{Index: i, Graphemes: chunk, Samples: samples}, nil) {
				return
			}
		}
	}
}

// run executes the binary with input on stdin. Stdin is attached before the
// process starts.
func (e *Engine) run(ctx context.Context, input string, args []string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.config.Binary, args...)
	cmd.Stdin = strings.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("Running synthesis command", "binary", e.config.Binary, "args", args, "chars", len(input))

	err := cmd.Run()

	if ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("subprocess timed out after %v", e.config.Timeout)
		}
		return nil, fmt.Errorf("subprocess cancelled: %w", ctx.Err())
	}
	if err != nil {
		if s := strings.TrimSpace(stderr.String()); s != "" {
			return nil, fmt.Errorf("subprocess failed: %w\nstderr: %s", err, s)
		}
		return nil, fmt.Errorf("subprocess failed: %w", err)
	}

	return stdout.Bytes(), nil
}

func expandArgs(args []string, req tts.Request) []string {
	speed := req.Speed
	if speed == 0 {
		speed = 1
	}
	r := strings.NewReplacer(
		"{voice}", req.Voice,
		"{lang}", req.Lang,
		"{speed}", strconv.FormatFloat(speed, 'f', -1, 64),
	)

	out := make([]string, len(args))
	for i, a := range args {
		out[i] = r.Replace(a)
	}
	return out
}
