package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

const previewWidth = 50

// printer writes the user-facing progress lines.
type printer struct {
	w io.Writer

	keyword  lipgloss.Style
	faint    lipgloss.Style
	warn     lipgloss.Style
	errStyle lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:        w,
		keyword:  r.NewStyle().Foreground(lipgloss.Color("#04B575")),
		faint:    r.NewStyle().Faint(true),
		warn:     r.NewStyle().Foreground(lipgloss.Color("#FFB000")),
		errStyle: r.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true),
	}
}

func (p *printer) line(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

// preview collapses whitespace and cuts text to previewWidth cells.
func preview(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	return runewidth.Truncate(flat, previewWidth, "") + "..."
}

func (p *printer) speaking(text string) {
	p.line("🗣️  Speaking: %s", preview(text))
}

func (p *printer) generating() {
	p.line("🎵  Generating audio segments...")
}

func (p *printer) segment(n int) {
	p.line("%s", p.faint.Render(fmt.Sprintf("   Segment %d...", n)))
}

func (p *printer) saved(segments int, size int64) {
	p.line("💾 Saved complete audio (%d segments, %s)", segments, humanize.Bytes(uint64(size)))
}

func (p *printer) playing() {
	p.line("▶️  Playing...")
}

func (p *printer) warning(msg string) {
	p.line("⚠️  %s", p.warn.Render(msg))
}

func (p *printer) done(path string) {
	p.line("✅ Done! Saved to: %s", p.keyword.Render(path))
}

func (p *printer) failure(msg string) {
	p.line("%s", p.errStyle.Render(msg))
}
