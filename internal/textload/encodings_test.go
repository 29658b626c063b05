package textload

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeFallbackChain(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantEnc  string
		wantText string
	}{
		{
			name:     "plain ascii",
			data:     []byte("Hello world.\n"),
			wantEnc:  "utf-8",
			wantText: "Hello world.\n",
		},
		{
			name:     "utf-8 multibyte",
			data:     []byte("Café déjà vu — ñ"),
			wantEnc:  "utf-8",
			wantText: "Café déjà vu — ñ",
		},
		{
			name:     "utf-8 with bom",
			data:     append([]byte{0xEF, 0xBB, 0xBF}, []byte("Hello")...),
			wantEnc:  "utf-8-sig",
			wantText: "Hello",
		},
		{
			name:     "latin-1",
			data:     []byte{'c', 'a', 'f', 0xE9},
			wantEnc:  "latin-1",
			wantText: "café",
		},
		{
			name:     "cp1252 smart quotes",
			data:     []byte{0x93, 'H', 'i', 0x94, ' ', 0x80, '5'},
			wantEnc:  "cp1252",
			wantText: "\u201cHi\u201d \u20ac5",
		},
		{
			name:     "iso-8859-1 last resort",
			data:     []byte{'A', 0x81, 'B'},
			wantEnc:  "iso-8859-1",
			wantText: "A\u0081B",
		},
		{
			name:     "empty",
			data:     []byte{},
			wantEnc:  "utf-8",
			wantText: "",
		},
		{
			name:     "tabs and form feeds are text",
			data:     []byte("a\tb\r\n\fc"),
			wantEnc:  "utf-8",
			wantText: "a\tb\r\n\fc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Decode(tt.data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if res.Encoding != tt.wantEnc {
				t.Errorf("Encoding = %s, want %s", res.Encoding, tt.wantEnc)
			}
			if res.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", res.Text, tt.wantText)
			}
		})
	}
}

func TestDecodeBinaryFails(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}

	_, err := Decode(data)
	if !errors.Is(err, ErrUndecodable) {
		t.Fatalf("error = %v, want ErrUndecodable", err)
	}

	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("error is %T, want *DecodeError", err)
	}
	if strings.Join(de.Tried, ",") != strings.Join(Encodings(), ",") {
		t.Errorf("Tried = %v, want all of %v", de.Tried, Encodings())
	}
	for _, enc := range Encodings() {
		if !strings.Contains(err.Error(), enc) {
			t.Errorf("error %q should name %s", err, enc)
		}
	}

	var be *ByteError
	if !errors.As(err, &be) || be.Encoding != "iso-8859-1" {
		t.Errorf("last error = %v, want an iso-8859-1 byte error", de.Last)
	}
}

func TestByteErrorMessage(t *testing.T) {
	_, err := candidates[0].try([]byte{'a', 0xFF})
	if err == nil {
		t.Fatal("expected error")
	}
	want := "'utf-8' codec can't decode byte 0xff in position 1: invalid start byte"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err, want)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "speech.txt")
	if err := os.WriteFile(path, []byte{'n', 'a', 0xEF, 'v', 'e'}, 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Text != "naïve" || res.Encoding != "latin-1" || res.Path != path {
		t.Errorf("Load() = %+v", res)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}

	bin := filepath.Join(dir, "blob.bin")
	if err := os.WriteFile(bin, []byte{0x00, 0x01, 0x02}, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(bin)
	var de *DecodeError
	if !errors.As(err, &de) || de.Path != bin {
		t.Errorf("binary file error = %v, want DecodeError for %s", err, bin)
	}
}

func TestLoadExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	if err := os.WriteFile(filepath.Join(home, "note.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Load("~/note.txt")
	if err != nil {
		t.Fatalf("Load(~/note.txt) error = %v", err)
	}
	if res.Text != "hi" {
		t.Errorf("Text = %q", res.Text)
	}
}
