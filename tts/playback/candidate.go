package playback

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/dgnsrekt/kokoro-tts/tts"
)

// Media is what a candidate plays: the saved file and the in-memory audio
// it was written from.
type Media struct {
	Path string
	Wave tts.Waveform
}

// Candidate is one way of playing audio.
type Candidate interface {
	Name() string
	Play(ctx context.Context, m Media) error
}

// Runner runs external players.
type Runner interface {
	LookPath(name string) (string, error)
	// Run blocks until the player exits. With quiet set the player's
	// stderr is discarded.
	Run(ctx context.Context, name string, args []string, quiet bool) error
}

type execRunner struct{}

// ExecRunner returns a Runner backed by os/exec.
func ExecRunner() Runner { return execRunner{} }

func (execRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (execRunner) Run(ctx context.Context, name string, args []string, quiet bool) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = io.Discard
	if quiet {
		cmd.Stderr = io.Discard
	} else {
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

// commandCandidate plays a file by running an external program with the
// file path as its last argument.
type commandCandidate struct {
	runner Runner
	binary string
	args   []string
	quiet  bool
}

// Command returns a candidate that runs binary with args followed by the
// media path.
func Command(r Runner, binary string, args []string, quiet bool) Candidate {
	return &commandCandidate{runner: r, binary: binary, args: args, quiet: quiet}
}

// ParseCommand splits a player line such as "mpv --no-video" into a
// command candidate.
func ParseCommand(r Runner, line string, quiet bool) (Candidate, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}
	return Command(r, fields[0], fields[1:], quiet), true
}

func (c *commandCandidate) Name() string { return c.binary }

func (c *commandCandidate) Play(ctx context.Context, m Media) error {
	path, err := c.runner.LookPath(c.binary)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, c.binary)
	}

	args := append(append([]string{}, c.args...), m.Path)
	if err := c.runner.Run(ctx, path, args, c.quiet); err != nil {
		return fmt.Errorf("%s: %w", c.binary, err)
	}
	return nil
}

// opener hands the file to the desktop's default application.
type opener struct{}

func (opener) Name() string { return "default application" }

func (opener) Play(_ context.Context, m Media) error {
	return openDefault(m.Path)
}
