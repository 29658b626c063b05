// Package tts holds the synthesis side of kokoro: the pipeline capability,
// the segment and waveform types it produces, the voice catalog and the
// configuration shared by the engines.
package tts

import "time"

const (
	// SampleRate is the rate Kokoro models produce audio at.
	SampleRate = 24000

	// DefaultVoice is used when no voice is given on the command line or in
	// the config file.
	DefaultVoice = "af_heart"

	// DefaultLang is the Kokoro language code for American English.
	DefaultLang = "a"
)

// Request is a single synthesis job.
type Request struct {
	Text  string
	Voice string
	Lang  string

	// Speed is a multiplier; zero means the backend default.
	Speed float64
}

// Segment is one chunk of text and the audio spoken for it.
type Segment struct {
	Index     int
	Graphemes string
	Phonemes  string
	Samples   []float32
}

// Waveform is the concatenated audio for a whole request.
type Waveform struct {
	SampleRate int
	Samples    []float32
	Segments   int
}

// Len returns the number of samples in the waveform.
func (w Waveform) Len() int {
	return len(w.Samples)
}

// Duration returns the playback length of the waveform.
func (w Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(w.Samples)) * time.Second / time.Duration(w.SampleRate)
}
