// Package audio writes synthesized waveforms to disk.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/dgnsrekt/kokoro-tts/tts"
)

const (
	filePrefix = "kokoro_"
	timeLayout = "20060102_150405"

	bitDepth  = 16
	channels  = 1
	formatPCM = 1
	dirPerm   = 0o755
)

// ErrEmptyWaveform is returned when there is nothing to write.
var ErrEmptyWaveform = errors.New("waveform has no samples")

// Artifact describes a written audio file.
type Artifact struct {
	Path     string
	Size     int64
	Duration time.Duration
}

// Writer saves waveforms as 16-bit mono WAV files named after the time
// they are written. Files are named at second granularity; two writes in
// the same second share a name and the later one replaces the earlier.
type Writer struct {
	Dir string
	Now func() time.Time
}

// NewWriter returns a Writer for dir using the wall clock.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir, Now: time.Now}
}

// PathFor returns the file path a write at t would use.
func (w *Writer) PathFor(t time.Time) string {
	return filepath.Join(w.Dir, filePrefix+t.Format(timeLayout)+".wav")
}

// Write encodes wave into a new file, creating the directory if needed.
func (w *Writer) Write(wave tts.Waveform) (Artifact, error) {
	if wave.Len() == 0 {
		return Artifact{}, ErrEmptyWaveform
	}
	if wave.SampleRate <= 0 {
		return Artifact{}, fmt.Errorf("%w: sample rate %d", tts.ErrInvalidAudioFormat, wave.SampleRate)
	}

	if err := os.MkdirAll(w.Dir, dirPerm); err != nil {
		return Artifact{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	path := w.PathFor(now())

	f, err := os.Create(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to create audio file: %w", err)
	}

	if err := encode(f, wave); err != nil {
		f.Close()
		return Artifact{}, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return Artifact{}, fmt.Errorf("failed to close %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Artifact{}, err
	}

	return Artifact{
		Path:     path,
		Size:     info.Size(),
		Duration: wave.Duration(),
	}, nil
}

func encode(f *os.File, wave tts.Waveform) error {
	enc := wav.NewEncoder(f, wave.SampleRate, bitDepth, channels, formatPCM)

	data := make([]int, len(wave.Samples))
	for i, s := range wave.Samples {
		data[i] = int(tts.Float32ToInt16(s))
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: wave.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}
