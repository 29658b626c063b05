package tts

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Gender groups voices in the catalog.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Voice is one entry of the Kokoro voice catalog.
type Voice struct {
	ID          string
	Name        string
	Gender      Gender
	Accent      string // "American" or "British"
	Recommended bool
}

// Shortcut maps a command-line token to a voice.
type Shortcut struct {
	Flag    string
	VoiceID string
}

var voices = []Voice{
	{ID: "am_adam", Name: "Adam", Gender: GenderMale, Accent: "American"},
	{ID: "am_michael", Name: "Michael", Gender: GenderMale, Accent: "American"},
	{ID: "am_echo", Name: "Echo", Gender: GenderMale, Accent: "American"},
	{ID: "am_fenrir", Name: "Fenrir", Gender: GenderMale, Accent: "American", Recommended: true},
	{ID: "am_eric", Name: "Eric", Gender: GenderMale, Accent: "American"},
	{ID: "am_liam", Name: "Liam", Gender: GenderMale, Accent: "American"},
	{ID: "am_onyx", Name: "Onyx", Gender: GenderMale, Accent: "American"},
	{ID: "am_puck", Name: "Puck", Gender: GenderMale, Accent: "American"},
	{ID: "am_santa", Name: "Santa", Gender: GenderMale, Accent: "American"},
	{ID: "af_heart", Name: "Heart", Gender: GenderFemale, Accent: "American"},
	{ID: "af_bella", Name: "Bella", Gender: GenderFemale, Accent: "American"},
	{ID: "af_sarah", Name: "Sarah", Gender: GenderFemale, Accent: "American"},
	{ID: "af_sky", Name: "Sky", Gender: GenderFemale, Accent: "American"},
	{ID: "af_nicole", Name: "Nicole", Gender: GenderFemale, Accent: "American"},
	{ID: "af_nova", Name: "Nova", Gender: GenderFemale, Accent: "American"},
	{ID: "af_alloy", Name: "Alloy", Gender: GenderFemale, Accent: "American"},
	{ID: "af_aoede", Name: "Aoede", Gender: GenderFemale, Accent: "American"},
	{ID: "af_jessica", Name: "Jessica", Gender: GenderFemale, Accent: "American"},
	{ID: "af_river", Name: "River", Gender: GenderFemale, Accent: "American"},
	{ID: "af_kore", Name: "Kore", Gender: GenderFemale, Accent: "American"},
	{ID: "bf_emma", Name: "Emma", Gender: GenderFemale, Accent: "British"},
}

// shortcuts is ordered; the order is what the help text lists.
var shortcuts = []Shortcut{
	{"--michael", "am_michael"},
	{"--adam", "am_adam"},
	{"--echo", "am_echo"},
	{"--fenrir", "am_fenrir"},
	{"--eric", "am_eric"},
	{"--liam", "am_liam"},
	{"--onyx", "am_onyx"},
	{"--puck", "am_puck"},
	{"--santa", "am_santa"},
	{"--bella", "af_bella"},
	{"--sarah", "af_sarah"},
	{"--heart", "af_heart"},
	{"--sky", "af_sky"},
	{"--nicole", "af_nicole"},
	{"--nova", "af_nova"},
	{"--emma", "bf_emma"},
}

// Voices returns a copy of the voice catalog.
func Voices() []Voice {
	out := make([]Voice, len(voices))
	copy(out, voices)
	return out
}

// Shortcuts returns a copy of the voice shortcut table.
func Shortcuts() []Shortcut {
	out := make([]Shortcut, len(shortcuts))
	copy(out, shortcuts)
	return out
}

// LookupShortcut returns the voice a shortcut flag selects.
func LookupShortcut(flag string) (string, bool) {
	for _, s := range shortcuts {
		if s.Flag == flag {
			return s.VoiceID, true
		}
	}
	return "", false
}

// LookupVoice finds a voice in the catalog by identifier.
func LookupVoice(id string) (Voice, bool) {
	for _, v := range voices {
		if v.ID == id {
			return v, true
		}
	}
	return Voice{}, false
}

// SuggestVoices returns up to max catalog identifiers that fuzzily match id.
// The backend may know voices the catalog doesn't, so callers should only
// warn with these.
func SuggestVoices(id string, max int) []string {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" || max <= 0 {
		return nil
	}

	ids := make([]string, len(voices))
	for i, v := range voices {
		ids[i] = v.ID
	}

	matches := fuzzy.Find(id, ids)
	out := make([]string, 0, max)
	for _, m := range matches {
		if len(out) == max {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
