package tts

import "errors"

// Common errors for the TTS system.
var (
	// Engine errors
	ErrEngineNotAvailable = errors.New("TTS engine is not available")
	ErrUnknownEngine      = errors.New("unknown TTS engine")
	ErrGenerationFailed   = errors.New("audio generation failed")
	ErrNoAudio            = errors.New("pipeline produced no audio")

	// Audio errors
	ErrInvalidAudioFormat = errors.New("invalid audio format")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
)
