package playback

import "errors"

var (
	// ErrUnsupported means the platform has no playback candidates.
	ErrUnsupported = errors.New("auto-play not supported")

	// ErrNoPlayer means every candidate failed.
	ErrNoPlayer = errors.New("no audio player worked")

	// ErrPlayerNotFound means a player executable is not installed.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrUnavailable means in-process playback is not compiled in or has
	// no audio device.
	ErrUnavailable = errors.New("in-process audio unavailable")
)
