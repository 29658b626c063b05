package tts

import (
	"context"
	"iter"
)

// Pipeline is the external synthesis capability. Generate hands back a lazy,
// finite sequence of segments, one per chunk of text the backend decides to
// speak. The sequence can be ranged over once; a non-nil error ends it.
type Pipeline interface {
	// Generate converts the request into audio segments.
	Generate(ctx context.Context, req Request) iter.Seq2[Segment, error]

	// SampleRate is the fixed rate of every segment the pipeline emits.
	SampleRate() int

	// Name returns a short human-readable name for logs and errors.
	Name() string
}

// Prober is implemented by pipelines that can cheaply check whether their
// backend is reachable before any text is sent.
type Prober interface {
	IsAvailable(ctx context.Context) bool
}
