package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// IntroTabTitle names the tab holding text that precedes the first section
// heading when the article already has an abstract.
const IntroTabTitle = "מבוא"

// Body is the structure extracted from a markdown body.
type Body struct {
	Heading  string
	Preamble []string
	Sections []Section
}

// Section is the text under one level-2 heading.
type Section struct {
	Title      string
	Paragraphs []string
}

// Content joins the section paragraphs with blank lines.
func (s Section) Content() string {
	return strings.Join(s.Paragraphs, "\n\n")
}

var engine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ParseBody walks the markdown AST. The first level-1 heading is captured
// as Heading, every level-2 heading opens a Section, and other blocks are
// flattened to plain-text paragraphs.
func ParseBody(source []byte) Body {
	doc := engine.Parser().Parse(text.NewReader(source))

	var body Body
	var current *Section
	emit := func(paragraph string) {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			return
		}
		if current != nil {
			current.Paragraphs = append(current.Paragraphs, paragraph)
			return
		}
		body.Preamble = append(body.Preamble, paragraph)
	}

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if heading, ok := node.(*ast.Heading); ok {
			title := strings.TrimSpace(inlineText(heading, source))
			switch {
			case heading.Level == 1 && body.Heading == "" && current == nil:
				body.Heading = title
				continue
			case heading.Level == 2:
				body.Sections = append(body.Sections, Section{Title: title})
				current = &body.Sections[len(body.Sections)-1]
				continue
			}
			emit(title)
			continue
		}
		emit(blockText(node, source))
	}
	return body
}

func blockText(node ast.Node, source []byte) string {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return inlineText(n, source)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return linesText(n, source)
	case *ast.List:
		var items []string
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			items = append(items, "• "+strings.TrimSpace(childrenText(item, source, " ")))
		}
		return strings.Join(items, "\n")
	case *ast.Blockquote:
		return childrenText(n, source, "\n")
	case *ast.ThematicBreak, *ast.HTMLBlock:
		return ""
	default:
		if first := n.FirstChild(); first != nil && first.Type() == ast.TypeInline {
			return inlineText(n, source)
		}
		return childrenText(n, source, "\n")
	}
}

func childrenText(node ast.Node, source []byte, sep string) string {
	var parts []string
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if t := strings.TrimSpace(blockText(child, source)); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, sep)
}

// inlineText renders the inline children of a block as plain text, keeping
// soft line breaks.
func inlineText(node ast.Node, source []byte) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			switch c := child.(type) {
			case *ast.Text:
				b.Write(c.Segment.Value(source))
				if c.SoftLineBreak() || c.HardLineBreak() {
					b.WriteByte('\n')
				}
			case *ast.String:
				b.Write(c.Value)
			case *ast.CodeSpan:
				walk(c)
			case *ast.AutoLink:
				b.Write(c.URL(source))
			default:
				walk(c)
			}
		}
	}
	walk(node)
	return b.String()
}

func linesText(node ast.Node, source []byte) string {
	lines := node.Lines()
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(source))
	}
	return strings.TrimRight(b.String(), "\n")
}
