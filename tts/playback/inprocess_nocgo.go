//go:build nocgo

package playback

import "context"

// inProcess stub for builds without CGO.
type inProcess struct{}

func (inProcess) Name() string { return "in-process" }

func (inProcess) Play(context.Context, Media) error {
	return ErrUnavailable
}
