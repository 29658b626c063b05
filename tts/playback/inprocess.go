//go:build !nocgo

package playback

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"

	"github.com/dgnsrekt/kokoro-tts/tts"
)

// oto allows one context per process.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

func otoContext(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			otoErr = fmt.Errorf("%w: %w", ErrUnavailable, err)
			return
		}

		select {
		case <-readyChan:
			otoCtx = ctx
		case <-time.After(5 * time.Second):
			otoErr = fmt.Errorf("%w: audio device did not become ready", ErrUnavailable)
		}
	})
	if otoErr == nil && otoCtx != nil && otoCtx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, otoCtx.Err())
	}
	return otoCtx, otoErr
}

// inProcess plays the in-memory waveform through the system audio device
// and blocks until it has drained.
type inProcess struct{}

func (inProcess) Name() string { return "in-process" }

func (inProcess) Play(ctx context.Context, m Media) error {
	if m.Wave.Len() == 0 {
		return fmt.Errorf("%w: no samples in memory", ErrUnavailable)
	}

	audioCtx, err := otoContext(m.Wave.SampleRate)
	if err != nil {
		return err
	}

	player := audioCtx.NewPlayer(bytes.NewReader(tts.Float32ToPCM16(m.Wave.Samples)))
	defer player.Close()

	log.Debug("In-process playback", "duration", m.Wave.Duration())
	player.Play()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return player.Err()
}
