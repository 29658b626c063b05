package mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgnsrekt/kokoro-tts/tts"
)

func TestMockSegmentsPerSentence(t *testing.T) {
	e := New()

	wave, err := tts.Synthesize(context.Background(), e, tts.Request{Text: "Hello world. Bye now.", Voice: "af_sky"}, nil)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if wave.Segments != 2 {
		t.Errorf("Segments = %d, want 2", wave.Segments)
	}
	if want := (len("Hello world.") + len("Bye now.")) * SamplesPerRune; wave.Len() != want {
		t.Errorf("Len = %d, want %d", wave.Len(), want)
	}

	if e.CallCount() != 1 {
		t.Errorf("CallCount = %d", e.CallCount())
	}
	if req, ok := e.LastRequest(); !ok || req.Voice != "af_sky" {
		t.Errorf("LastRequest = %+v, %v", req, ok)
	}
}

func TestMockFailure(t *testing.T) {
	e := New()
	boom := errors.New("boom")
	e.SetFailure(1, boom)

	var got int
	var gotErr error
	for _, err := range e.Generate(context.Background(), tts.Request{Text: "One. Two. Three."}) {
		if err != nil {
			gotErr = err
			break
		}
		got++
	}
	if got != 1 || !errors.Is(gotErr, boom) {
		t.Errorf("got %d segments and %v, want 1 and boom", got, gotErr)
	}

	e.ClearFailure()
	if _, err := tts.Synthesize(context.Background(), e, tts.Request{Text: "One."}, nil); err != nil {
		t.Errorf("unexpected error after ClearFailure: %v", err)
	}
}

func TestMockDelayHonoursContext(t *testing.T) {
	e := New()
	e.SetDelay(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	var gotErr error
	for _, err := range e.Generate(ctx, tts.Request{Text: "Hello."}) {
		gotErr = err
	}
	if !errors.Is(gotErr, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", gotErr)
	}
}

func TestMockAvailability(t *testing.T) {
	e := New()
	if !e.IsAvailable(context.Background()) {
		t.Error("new mock should be available")
	}
	e.SetAvailable(false)
	if e.IsAvailable(context.Background()) {
		t.Error("mock should be unavailable")
	}
}
