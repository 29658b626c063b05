package tts

import (
	"context"
	"errors"
	"iter"
	"testing"
)

type fakePipeline struct {
	segments [][]float32
	failAt   int // index of the segment that fails, -1 for none
	err      error
}

func (p *fakePipeline) Generate(ctx context.Context, req Request) iter.Seq2[Segment, error] {
	return func(yield func(Segment, error) bool) {
		for i, s := range p.segments {
			if i == p.failAt {
				yield(Segment{}, p.err)
				return
			}
			if !yield(Segment{Index: i, Graphemes: req.Text, Samples: s}, nil) {
				return
			}
		}
	}
}

func (p *fakePipeline) SampleRate() int { return SampleRate }
func (p *fakePipeline) Name() string    { return "fake" }

func TestSynthesizeConcatenatesInOrder(t *testing.T) {
	p := &fakePipeline{
		segments: [][]float32{{0.1, 0.2}, {0.3}, {0.4, 0.5, 0.6}},
		failAt:   -1,
	}

	var seen []int
	wave, err := Synthesize(context.Background(), p, Request{Text: "hello"}, func(s Segment) {
		seen = append(seen, s.Index)
	})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	want := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	if wave.Len() != len(want) {
		t.Fatalf("got %d samples, want %d", wave.Len(), len(want))
	}
	for i := range want {
		if wave.Samples[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, wave.Samples[i], want[i])
		}
	}
	if wave.Segments != 3 {
		t.Errorf("Segments = %d, want 3", wave.Segments)
	}
	if wave.SampleRate != SampleRate {
		t.Errorf("SampleRate = %d, want %d", wave.SampleRate, SampleRate)
	}
	if len(seen) != 3 || seen[0] != 0 || seen[1] != 1 || seen[2] != 2 {
		t.Errorf("progress callback saw %v", seen)
	}
}

func TestSynthesizeSingleSegment(t *testing.T) {
	p := &fakePipeline{segments: [][]float32{make([]float32, SampleRate)}, failAt: -1}

	wave, err := Synthesize(context.Background(), p, Request{Text: "Hello world"}, nil)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if got := wave.Duration().Seconds(); got != 1 {
		t.Errorf("Duration = %vs, want 1s", got)
	}
}

func TestSynthesizeErrors(t *testing.T) {
	boom := errors.New("model exploded")

	tests := []struct {
		name    string
		p       *fakePipeline
		wantErr error
	}{
		{
			name:    "no segments",
			p:       &fakePipeline{failAt: -1},
			wantErr: ErrNoAudio,
		},
		{
			name:    "first segment fails",
			p:       &fakePipeline{segments: [][]float32{{0.1}}, failAt: 0, err: boom},
			wantErr: ErrGenerationFailed,
		},
		{
			name:    "later segment fails",
			p:       &fakePipeline{segments: [][]float32{{0.1}, {0.2}, {0.3}}, failAt: 2, err: boom},
			wantErr: boom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wave, err := Synthesize(context.Background(), tt.p, Request{Text: "x"}, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if wave.Len() != 0 {
				t.Errorf("expected empty waveform on error, got %d samples", wave.Len())
			}
		})
	}
}

func TestSynthesizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &fakePipeline{segments: [][]float32{{0.1}}, failAt: -1}
	if _, err := Synthesize(ctx, p, Request{Text: "x"}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
