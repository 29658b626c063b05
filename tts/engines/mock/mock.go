// Package mock provides a mock synthesis pipeline for testing.
package mock

import (
	"context"
	"iter"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dgnsrekt/kokoro-tts/tts"
	"github.com/dgnsrekt/kokoro-tts/tts/sentence"
)

// SamplesPerRune is how much silence the mock produces per input character.
const SamplesPerRune = tts.SampleRate / 100

// MockEngine implements tts.Pipeline with silent audio, one segment per
// sentence.
type MockEngine struct {
	mu sync.Mutex

	delay    time.Duration // Simulated processing delay per segment
	splitter *sentence.Splitter

	// Control for testing
	failAfter    int // segments emitted before failing, -1 for never
	failureError error

	// State
	available bool
	callCount int
	requests  []tts.Request
}

// New creates a new mock engine.
func New() *MockEngine {
	return &MockEngine{
		splitter:  sentence.New(0),
		failAfter: -1,
		available: true,
	}
}

// Name implements tts.Pipeline.
func (e *MockEngine) Name() string { return "mock" }

// SampleRate implements tts.Pipeline.
func (e *MockEngine) SampleRate() int { return tts.SampleRate }

// Generate implements tts.Pipeline.
func (e *MockEngine) Generate(ctx context.Context, req tts.Request) iter.Seq2[tts.Segment, error] {
	e.mu.Lock()
	e.callCount++
	e.requests = append(e.requests, req)
	delay, failAfter, failErr := e.delay, e.failAfter, e.failureError
	e.mu.Unlock()

	return func(yield func(tts.Segment, error) bool) {
		var sentences []string
		for _, para := range e.splitter.Split(req.Text) {
			sentences = append(sentences, e.splitter.Sentences(para)...)
		}

		for i, s := range sentences {
			if i == failAfter {
				yield(tts.Segment{}, failErr)
				return
			}

			// Simulate processing delay
			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					yield(tts.Segment{}, ctx.Err())
					return
				}
			}

			seg := tts.Segment{
				Index:     i,
				Graphemes: s,
				Samples:   make([]float32, utf8.RuneCountInString(s)*SamplesPerRune),
			}
			if !yield(seg, nil) {
				return
			}
		}
	}
}

// IsAvailable returns the mock availability state.
func (e *MockEngine) IsAvailable(context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.available
}

// Test control methods

// SetDelay sets the simulated processing delay.
func (e *MockEngine) SetDelay(delay time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.delay = delay
}

// SetFailure configures the engine to fail with err after emitting n
// segments.
func (e *MockEngine) SetFailure(n int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failAfter = n
	e.failureError = err
}

// ClearFailure resets the engine to normal operation.
func (e *MockEngine) ClearFailure() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failAfter = -1
	e.failureError = nil
}

// SetAvailable sets the availability state.
func (e *MockEngine) SetAvailable(available bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.available = available
}

// CallCount returns the number of Generate calls.
func (e *MockEngine) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.callCount
}

// LastRequest returns the most recent request, if any.
func (e *MockEngine) LastRequest() (tts.Request, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.requests) == 0 {
		return tts.Request{}, false
	}
	return e.requests[len(e.requests)-1], true
}
