// Package sentence cuts text into the chunks sent to a synthesis backend.
package sentence

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var paragraphBreak = regexp.MustCompile(`\n[ \t\r\f\v]*\n`)

// Splitter breaks text into paragraphs, paragraphs into sentences, and packs
// sentences into chunks of at most maxChars runes.
type Splitter struct {
	maxChars int

	// Common abbreviations that don't end sentences
	abbreviations map[string]bool
}

// New returns a Splitter. A maxChars of zero or less disables packing, so
// every paragraph becomes one chunk.
func New(maxChars int) *Splitter {
	return &Splitter{
		maxChars:      maxChars,
		abbreviations: makeAbbreviationMap(),
	}
}

// Split returns the chunks for text in reading order. Whitespace inside a
// paragraph is collapsed to single spaces; empty paragraphs are dropped.
func (s *Splitter) Split(text string) []string {
	var chunks []string
	for _, para := range paragraphBreak.Split(text, -1) {
		para = strings.Join(strings.Fields(para), " ")
		if para == "" {
			continue
		}
		if s.maxChars <= 0 {
			chunks = append(chunks, para)
			continue
		}
		chunks = append(chunks, s.pack(s.Sentences(para))...)
	}
	return chunks
}

// Sentences splits a single paragraph at sentence boundaries.
func (s *Splitter) Sentences(text string) []string {
	runes := []rune(text)
	var out []string
	lastStart := 0

	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}

		// Collect all punctuation
		end := i + 1
		for end < len(runes) && (runes[end] == '!' || runes[end] == '?' || runes[end] == '.') {
			end++
		}
		for end < len(runes) && isCloser(runes[end]) {
			end++
		}

		if !s.isSentenceEnd(runes, i, end) {
			i = end - 1
			continue
		}

		if sentence := strings.TrimSpace(string(runes[lastStart:end])); sentence != "" {
			out = append(out, sentence)
		}
		for end < len(runes) && unicode.IsSpace(runes[end]) {
			end++
		}
		lastStart = end
		i = end - 1
	}

	if rest := strings.TrimSpace(string(runes[lastStart:])); rest != "" {
		out = append(out, rest)
	}
	return out
}

// isSentenceEnd reports whether the punctuation run runes[pos:end] closes a
// sentence.
func (s *Splitter) isSentenceEnd(runes []rune, pos, end int) bool {
	if end >= len(runes) {
		return true
	}
	// Must have whitespace after punctuation
	if !unicode.IsSpace(runes[end]) {
		return false
	}

	stop := end
	for stop > pos+1 && isCloser(runes[stop-1]) {
		stop--
	}
	if last := runes[stop-1]; last == '!' || last == '?' {
		return true
	}

	// Ellipsis mid-sentence
	if stop-pos >= 3 {
		return nextStartsUpper(runes, end)
	}

	word := strings.ToLower(string(runes[wordStart(runes, pos):pos]))
	if s.abbreviations[word] {
		return false
	}
	// Multi-part abbreviations like "Ph.D." or "U.S."
	if strings.Contains(word, ".") {
		return false
	}
	// Single initials like the "J." in "J. Smith"
	if utf8.RuneCountInString(word) == 1 && unicode.IsUpper(runes[pos-1]) {
		return false
	}

	return nextStartsUpper(runes, end) || unicode.IsDigit(nextRune(runes, end))
}

func (s *Splitter) pack(sentences []string) []string {
	var chunks []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, sentence := range sentences {
		for _, piece := range s.hardSplit(sentence) {
			n := utf8.RuneCountInString(piece)
			if curLen > 0 && curLen+1+n > s.maxChars {
				flush()
			}
			if curLen > 0 {
				cur.WriteByte(' ')
				curLen++
			}
			cur.WriteString(piece)
			curLen += n
		}
	}
	flush()
	return chunks
}

// hardSplit breaks a sentence longer than maxChars at word boundaries. A
// single word longer than maxChars is cut by rune count.
func (s *Splitter) hardSplit(sentence string) []string {
	if utf8.RuneCountInString(sentence) <= s.maxChars {
		return []string{sentence}
	}

	var out []string
	var cur []rune
	for _, word := range strings.Fields(sentence) {
		w := []rune(word)
		for len(w) > s.maxChars {
			if len(cur) > 0 {
				out = append(out, string(cur))
				cur = cur[:0]
			}
			out = append(out, string(w[:s.maxChars]))
			w = w[s.maxChars:]
		}
		if len(cur) > 0 && len(cur)+1+len(w) > s.maxChars {
			out = append(out, string(cur))
			cur = cur[:0]
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, w...)
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}

func isCloser(r rune) bool {
	return r == '"' || r == '\'' || r == ')' || r == ']' || r == '”' || r == '’'
}

func wordStart(runes []rune, pos int) int {
	start := pos
	for start > 0 && !unicode.IsSpace(runes[start-1]) {
		start--
	}
	for start < pos && (runes[start] == '(' || runes[start] == '"' || runes[start] == '\'') {
		start++
	}
	return start
}

func nextRune(runes []rune, pos int) rune {
	for pos < len(runes) && unicode.IsSpace(runes[pos]) {
		pos++
	}
	if pos >= len(runes) {
		return 0
	}
	return runes[pos]
}

// nextStartsUpper skips whitespace and opening quotes after pos and reports
// whether the next letter is upper case.
func nextStartsUpper(runes []rune, pos int) bool {
	for pos < len(runes) {
		switch r := runes[pos]; {
		case unicode.IsSpace(r), r == '"', r == '\'', r == '(', r == '“', r == '‘':
			pos++
		default:
			return unicode.IsUpper(r)
		}
	}
	return false
}

// makeAbbreviationMap creates a map of common abbreviations.
func makeAbbreviationMap() map[string]bool {
	abbrevs := []string{
		"mr", "mrs", "ms", "dr", "prof", "sr", "jr", "st",
		"inc", "ltd", "co", "corp", "llc",
		"etc", "vs", "cf", "al", "approx", "dept", "est",
		"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
		"mon", "tue", "wed", "thu", "fri", "sat", "sun",
		"rd", "ave", "blvd", "ln", "ct", "mt", "no", "vol", "fig",
		"ft", "lbs", "oz", "kg", "km", "cm", "mm", "mi", "yd",
		"hr", "hrs", "min", "mins", "sec", "secs",
	}

	m := make(map[string]bool, len(abbrevs))
	for _, abbrev := range abbrevs {
		m[abbrev] = true
	}
	return m
}
