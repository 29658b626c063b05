package textload

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var extraBlankLines = regexp.MustCompile(`\n{3,}`)

// StripMarkdown renders markdown as plain prose for speaking. Code blocks,
// raw HTML, images and bare URLs are dropped; link text is kept. Blocks are
// separated by blank lines so they are spoken as separate paragraphs.
func StripMarkdown(src string) string {
	source := []byte(src)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.RawHTML, *ast.Image, *ast.AutoLink:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(source))
				switch {
				case node.HardLineBreak():
					b.WriteByte('\n')
				case node.SoftLineBreak():
					b.WriteByte(' ')
				}
			}
		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
		default:
			if !entering && n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument {
				b.WriteString("\n\n")
			}
		}
		return ast.WalkContinue, nil
	})

	out := extraBlankLines.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(out)
}
