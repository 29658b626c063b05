package tts

import (
	"strings"
	"testing"
)

func TestShortcutsResolveToCatalogVoices(t *testing.T) {
	for _, s := range Shortcuts() {
		if !strings.HasPrefix(s.Flag, "--") {
			t.Errorf("shortcut %q should start with --", s.Flag)
		}
		if _, ok := LookupVoice(s.VoiceID); !ok {
			t.Errorf("shortcut %s points at unknown voice %s", s.Flag, s.VoiceID)
		}
	}
}

func TestLookupShortcut(t *testing.T) {
	tests := map[string]string{
		"--michael": "am_michael",
		"--fenrir":  "am_fenrir",
		"--emma":    "bf_emma",
		"--heart":   "af_heart",
	}
	for flag, want := range tests {
		got, ok := LookupShortcut(flag)
		if !ok || got != want {
			t.Errorf("LookupShortcut(%q) = %q, %v; want %q", flag, got, ok, want)
		}
	}

	if _, ok := LookupShortcut("--voice"); ok {
		t.Error("--voice must not be a shortcut")
	}
}

func TestDefaultVoiceInCatalog(t *testing.T) {
	v, ok := LookupVoice(DefaultVoice)
	if !ok {
		t.Fatalf("default voice %s missing from catalog", DefaultVoice)
	}
	if v.Gender != GenderFemale {
		t.Errorf("default voice gender = %s", v.Gender)
	}
}

func TestSuggestVoices(t *testing.T) {
	got := SuggestVoices("michal", 3)
	if len(got) == 0 || got[0] != "am_michael" {
		t.Errorf("SuggestVoices(michal) = %v, want am_michael first", got)
	}

	if got := SuggestVoices("", 3); got != nil {
		t.Errorf("SuggestVoices(\"\") = %v, want nil", got)
	}
	if got := SuggestVoices("a", 2); len(got) > 2 {
		t.Errorf("SuggestVoices returned %d results, want at most 2", len(got))
	}
}
