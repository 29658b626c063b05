// Package engines builds synthesis pipelines from configuration.
package engines

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/kokoro-tts/tts"
)

// FallbackEngine wraps a primary pipeline with a secondary one that is used
// when the primary is unreachable or fails before producing any audio.
// Once audio has been produced, a failure is returned as is; segments from
// two backends are never mixed in one waveform.
type FallbackEngine struct {
	primary  tts.Pipeline
	fallback tts.Pipeline

	mu            sync.Mutex
	usingFallback bool
}

// NewFallbackEngine creates a pipeline with automatic fallback. Both
// pipelines must produce audio at the same sample rate.
func NewFallbackEngine(primary, fallback tts.Pipeline) (*FallbackEngine, error) {
	if primary.SampleRate() != fallback.SampleRate() {
		return nil, fmt.Errorf("%w: fallback %s runs at %d Hz, primary %s at %d Hz",
			tts.ErrInvalidConfig, fallback.Name(), fallback.SampleRate(), primary.Name(), primary.SampleRate())
	}
	return &FallbackEngine{primary: primary, fallback: fallback}, nil
}

// Name implements tts.Pipeline.
func (f *FallbackEngine) Name() string {
	return f.primary.Name() + "+" + f.fallback.Name()
}

// SampleRate implements tts.Pipeline.
func (f *FallbackEngine) SampleRate() int { return f.primary.SampleRate() }

// IsAvailable checks if either pipeline is available.
func (f *FallbackEngine) IsAvailable(ctx context.Context) bool {
	return probe(ctx, f.primary) || probe(ctx, f.fallback)
}

// UsingFallback reports whether the last Generate switched to the fallback.
func (f *FallbackEngine) UsingFallback() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.usingFallback
}

// Generate implements tts.Pipeline.
func (f *FallbackEngine) Generate(ctx context.Context, req tts.Request) iter.Seq2[tts.Segment, error] {
	return func(yield func(tts.Segment, error) bool) {
		f.setFallback(false)

		if !probe(ctx, f.primary) {
			log.Warn("Primary engine not available, switching to fallback",
				"primary", f.primary.Name(), "fallback", f.fallback.Name())
			f.runFallback(ctx, req, yield)
			return
		}

		produced := false
		for seg, err := range f.primary.Generate(ctx, req) {
			if err != nil {
				if produced || ctx.Err() != nil {
					yield(tts.Segment{}, err)
					return
				}
				log.Warn("Primary engine failed, switching to fallback",
					"primary", f.primary.Name(), "fallback", f.fallback.Name(), "error", err)
				f.runFallback(ctx, req, yield)
				return
			}
			produced = true
			if !yield(seg, nil) {
				return
			}
		}
	}
}

func (f *FallbackEngine) runFallback(ctx context.Context, req tts.Request, yield func(tts.Segment, error) bool) {
	f.setFallback(true)
	for seg, err := range f.fallback.Generate(ctx, req) {
		if err != nil {
			yield(tts.Segment{}, fmt.Errorf("fallback %s: %w", f.fallback.Name(), err))
			return
		}
		if !yield(seg, nil) {
			return
		}
	}
}

func (f *FallbackEngine) setFallback(v bool) {
	f.mu.Lock()
	f.usingFallback = v
	f.mu.Unlock()
}

// probe treats pipelines without a probe as available.
func probe(ctx context.Context, p tts.Pipeline) bool {
	if pr, ok := p.(tts.Prober); ok {
		return pr.IsAvailable(ctx)
	}
	return true
}
