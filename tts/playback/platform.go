package playback

import "runtime"

// Family groups operating systems by how audio files get played.
type Family string

const (
	FamilyDarwin  Family = "darwin"
	FamilyLinux   Family = "linux"
	FamilyWindows Family = "windows"
	FamilyOther   Family = "other"
)

// DetectFamily maps a GOOS value to its family.
func DetectFamily(goos string) Family {
	switch goos {
	case "darwin":
		return FamilyDarwin
	case "linux":
		return FamilyLinux
	case "windows":
		return FamilyWindows
	default:
		return FamilyOther
	}
}

// CurrentFamily returns the family of the running system.
func CurrentFamily() Family {
	return DetectFamily(runtime.GOOS)
}
