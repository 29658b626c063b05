//go:build !windows

package playback

func openDefault(string) error {
	return ErrUnsupported
}
