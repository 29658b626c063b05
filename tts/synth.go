package tts

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// Synthesize drains every segment the pipeline produces for req and joins
// their samples in emission order. onSegment, if set, is called once per
// segment before its samples are appended. Segments are neither retried nor
// validated; the first pipeline error ends the run.
func Synthesize(ctx context.Context, p Pipeline, req Request, onSegment func(Segment)) (Waveform, error) {
	wave := Waveform{SampleRate: p.SampleRate()}

	for seg, err := range p.Generate(ctx, req) {
		if err != nil {
			return Waveform{}, fmt.Errorf("%w: %s: %w", ErrGenerationFailed, p.Name(), err)
		}
		if err := ctx.Err(); err != nil {
			return Waveform{}, err
		}

		if onSegment != nil {
			onSegment(seg)
		}
		log.Debug("Segment generated",
			"engine", p.Name(),
			"index", seg.Index,
			"chars", len(seg.Graphemes),
			"samples", len(seg.Samples))

		wave.Samples = append(wave.Samples, seg.Samples...)
		wave.Segments++
	}

	if wave.Segments == 0 {
		return Waveform{}, fmt.Errorf("%w: %s", ErrNoAudio, p.Name())
	}
	return wave, nil
}
