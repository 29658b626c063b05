package tts

import (
	"errors"
	"math"
	"testing"
)

func TestPCM16ToFloat32(t *testing.T) {
	// 0, 16384, -32768 little endian
	data := []byte{0x00, 0x00, 0x00, 0x40, 0x00, 0x80}

	got, err := PCM16ToFloat32(data)
	if err != nil {
		t.Fatalf("PCM16ToFloat32() error = %v", err)
	}
	want := []float32{0, 0.5, -1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := PCM16ToFloat32([]byte{0x01}); !errors.Is(err, ErrInvalidAudioFormat) {
		t.Errorf("odd length error = %v, want ErrInvalidAudioFormat", err)
	}
}

func TestFloat32ToInt16(t *testing.T) {
	tests := []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{1, math.MaxInt16},
		{1.5, math.MaxInt16},
		{-1, math.MinInt16},
		{-7, math.MinInt16},
		{0.5, 16384},
		{float32(math.NaN()), 0},
	}

	for _, tt := range tests {
		if got := Float32ToInt16(tt.in); got != tt.want {
			t.Errorf("Float32ToInt16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFloat32ToPCM16Length(t *testing.T) {
	if got := len(Float32ToPCM16(make([]float32, 10))); got != 20 {
		t.Errorf("got %d bytes, want 20", got)
	}
}
