// Package textload reads the text to speak from files and the clipboard.
package textload

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ErrUndecodable is matched by every *DecodeError.
var ErrUndecodable = errors.New("could not decode file")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeError is returned when no candidate encoding accepts a file.
type DecodeError struct {
	Path  string
	Tried []string
	Last  error
}

func (e *DecodeError) Error() string {
	name := e.Path
	if name == "" {
		name = "input"
	}
	return fmt.Sprintf("could not decode %s with any of %s: %v", name, strings.Join(e.Tried, ", "), e.Last)
}

func (e *DecodeError) Unwrap() error { return e.Last }

// Is makes errors.Is(err, ErrUndecodable) hold.
func (e *DecodeError) Is(target error) bool { return target == ErrUndecodable }

// ByteError describes the first byte a decoder refused.
type ByteError struct {
	Encoding string
	Byte     byte
	Pos      int
	Reason   string
}

func (e *ByteError) Error() string {
	return fmt.Sprintf("'%s' codec can't decode byte 0x%02x in position %d: %s", e.Encoding, e.Byte, e.Pos, e.Reason)
}

// candidate is one entry of the fallback chain.
type candidate struct {
	name   string
	check  func([]byte) error
	decode encoding.Encoding
}

// Candidates are tried in order; the first to accept the bytes wins.
var candidates = []candidate{
	{name: "utf-8", check: checkUTF8, decode: unicode.UTF8},
	{name: "utf-8-sig", check: checkUTF8BOM, decode: unicode.UTF8BOM},
	{name: "latin-1", check: rejectRange("latin-1", 0x80, 0x9F), decode: charmap.ISO8859_1},
	{name: "cp1252", check: rejectBytes("cp1252", 0x81, 0x8D, 0x8F, 0x90, 0x9D), decode: charmap.Windows1252},
	{name: "iso-8859-1", check: func([]byte) error { return nil }, decode: charmap.ISO8859_1},
}

// Encodings returns the names of the candidate encodings in trial order.
func Encodings() []string {
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}
	return names
}

// Result is decoded text and the encoding that produced it.
type Result struct {
	Text     string
	Encoding string
	Path     string
}

// Load reads path, which may start with "~", and decodes it.
func Load(path string) (Result, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to expand %s: %w", path, err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read file: %w", err)
	}

	res, err := Decode(data)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Path = expanded
		}
		return Result{}, err
	}
	res.Path = expanded
	return res, nil
}

// Decode tries each candidate encoding in order.
func Decode(data []byte) (Result, error) {
	var tried []string
	var last error

	for _, c := range candidates {
		tried = append(tried, c.name)

		text, err := c.try(data)
		if err == nil {
			return Result{Text: text, Encoding: c.name}, nil
		}
		last = err
	}

	return Result{}, &DecodeError{Tried: tried, Last: last}
}

func (c candidate) try(data []byte) (string, error) {
	if err := c.check(data); err != nil {
		return "", err
	}

	out, err := c.decode.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("'%s' codec: %w", c.name, err)
	}

	if i, r, ok := findControl(out); ok {
		return "", &ByteError{Encoding: c.name, Byte: byte(r), Pos: i, Reason: "binary content"}
	}
	return string(out), nil
}

func checkUTF8(data []byte) error {
	if bytes.HasPrefix(data, utf8BOM) {
		return &ByteError{Encoding: "utf-8", Byte: data[0], Pos: 0, Reason: "unexpected byte order mark"}
	}
	return validUTF8("utf-8", data, 0)
}

func checkUTF8BOM(data []byte) error {
	if !bytes.HasPrefix(data, utf8BOM) {
		b := byte(0)
		if len(data) > 0 {
			b = data[0]
		}
		return &ByteError{Encoding: "utf-8-sig", Byte: b, Pos: 0, Reason: "missing byte order mark"}
	}
	return validUTF8("utf-8-sig", data[len(utf8BOM):], len(utf8BOM))
}

func validUTF8(name string, data []byte, offset int) error {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			reason := "invalid start byte"
			if b := data[i]; b >= 0xC2 && b <= 0xF4 {
				reason = "invalid continuation byte"
				if !utf8.FullRune(data[i:]) {
					reason = "unexpected end of data"
				}
			}
			return &ByteError{Encoding: name, Byte: data[i], Pos: offset + i, Reason: reason}
		}
		i += size
	}
	return nil
}

func rejectRange(name string, lo, hi byte) func([]byte) error {
	return func(data []byte) error {
		for i, b := range data {
			if b >= lo && b <= hi {
				return &ByteError{Encoding: name, Byte: b, Pos: i, Reason: "control character"}
			}
		}
		return nil
	}
}

func rejectBytes(name string, bad ...byte) func([]byte) error {
	return func(data []byte) error {
		for i, b := range data {
			if bytes.IndexByte(bad, b) >= 0 {
				return &ByteError{Encoding: name, Byte: b, Pos: i, Reason: "character maps to <undefined>"}
			}
		}
		return nil
	}
}

// findControl returns the byte offset of the first C0 control character
// other than tab, newline, carriage return and form feed.
func findControl(text []byte) (int, rune, bool) {
	for i, b := range text {
		if b >= 0x20 {
			continue
		}
		switch b {
		case '\t', '\n', '\r', '\f':
			continue
		}
		return i, rune(b), true
	}
	return 0, 0, false
}
