// Package playback plays a saved audio file with whatever the platform
// offers. Playback problems are reported as warnings and never fail a run.
package playback

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// Default player commands per family, tried in order.
var (
	darwinPlayers = []string{"afplay"}
	linuxPlayers  = []string{
		"paplay",
		"aplay",
		"ffplay -nodisp -autoexit -loglevel quiet",
		"mpv --no-video --really-quiet",
	}
)

// Options configures a Dispatcher.
type Options struct {
	Family Family

	// System names the OS in messages. Empty means runtime.GOOS.
	System string

	// Players replaces the family's default command list. Each entry is a
	// command line; the file path is appended as the last argument.
	Players []string

	// DisableInProcess skips in-memory playback on Windows.
	DisableInProcess bool

	// Runner runs external players. Nil means os/exec.
	Runner Runner
}

// Attempt records one failed candidate.
type Attempt struct {
	Player string
	Err    error
}

// Outcome is the result of a playback attempt.
type Outcome struct {
	Family   Family
	Player   string // candidate that played the file, if any
	Played   bool
	Attempts []Attempt

	// Err and Warning are set when nothing played.
	Err     error
	Warning string
}

// Dispatcher tries an ordered list of candidates until one succeeds.
type Dispatcher struct {
	family     Family
	system     string
	candidates []Candidate
}

// NewDispatcher builds the candidate list for opts.Family.
func NewDispatcher(opts Options) *Dispatcher {
	r := opts.Runner
	if r == nil {
		r = ExecRunner()
	}

	var cs []Candidate
	commands := func(defaults []string, quiet bool) {
		lines := defaults
		if len(opts.Players) > 0 {
			lines = opts.Players
		}
		for _, line := range lines {
			if c, ok := ParseCommand(r, line, quiet); ok {
				cs = append(cs, c)
			}
		}
	}

	switch opts.Family {
	case FamilyDarwin:
		commands(darwinPlayers, false)
	case FamilyLinux:
		commands(linuxPlayers, true)
	case FamilyWindows:
		if !opts.DisableInProcess {
			cs = append(cs, inProcess{})
		}
		commands(nil, false)
		cs = append(cs, opener{})
	default:
		commands(nil, false)
	}

	d := NewDispatcherWithCandidates(opts.Family, cs)
	if opts.System != "" {
		d.system = opts.System
	}
	return d
}

// NewDispatcherWithCandidates creates a Dispatcher with an explicit list.
func NewDispatcherWithCandidates(f Family, cs []Candidate) *Dispatcher {
	return &Dispatcher{family: f, system: runtime.GOOS, candidates: cs}
}

// Family returns the platform family the dispatcher was built for.
func (d *Dispatcher) Family() Family { return d.family }

// Candidates returns the candidate names in the order they are tried.
func (d *Dispatcher) Candidates() []string {
	names := make([]string, len(d.candidates))
	for i, c := range d.candidates {
		names[i] = c.Name()
	}
	return names
}

// Play tries each candidate in turn and stops at the first success.
func (d *Dispatcher) Play(ctx context.Context, m Media) Outcome {
	out := Outcome{Family: d.family}

	if len(d.candidates) == 0 {
		out.Err = fmt.Errorf("%w on %s", ErrUnsupported, d.system)
		out.Warning = fmt.Sprintf("Auto-play not supported on %s. File saved.", d.system)
		log.Debug("No playback candidates", "family", d.family)
		return out
	}

	for _, c := range d.candidates {
		err := c.Play(ctx, m)
		if err == nil {
			out.Player = c.Name()
			out.Played = true
			log.Debug("Playback finished", "player", c.Name())
			return out
		}

		log.Debug("Playback candidate failed", "player", c.Name(), "error", err)
		out.Attempts = append(out.Attempts, Attempt{Player: c.Name(), Err: err})

		if ctx.Err() != nil {
			break
		}
	}

	errs := make([]error, 0, len(out.Attempts))
	msgs := make([]string, 0, len(out.Attempts))
	for _, a := range out.Attempts {
		errs = append(errs, a.Err)
		msgs = append(msgs, a.Err.Error())
	}

	out.Err = fmt.Errorf("%w: %w", ErrNoPlayer, errors.Join(errs...))
	out.Warning = "Could not auto-play audio: " + strings.Join(msgs, "; ")
	return out
}
