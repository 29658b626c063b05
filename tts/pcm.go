package tts

import (
	"encoding/binary"
	"fmt"
	"math"
)

// PCM16ToFloat32 converts signed 16-bit little-endian mono PCM into samples
// in the range [-1, 1).
func PCM16ToFloat32(data []byte) ([]float32, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: PCM data length %d is not aligned to 2-byte samples",
			ErrInvalidAudioFormat, len(data))
	}

	samples := make([]float32, len(data)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float32(v) / 32768
	}
	return samples, nil
}

// Float32ToInt16 converts a float sample to 16-bit, clipping anything
// outside [-1, 1].
func Float32ToInt16(s float32) int16 {
	switch {
	case math.IsNaN(float64(s)):
		return 0
	case s >= 1:
		return math.MaxInt16
	case s <= -1:
		return math.MinInt16
	}
	return int16(math.Round(float64(s) * 32767))
}

// Float32ToPCM16 converts samples to signed 16-bit little-endian PCM.
func Float32ToPCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(Float32ToInt16(s)))
	}
	return out
}
