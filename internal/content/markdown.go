package content

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown
)

func renderer() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdown = goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Typographer),
		)
	})
	return markdown
}

// Markdown renders portfolio copy to HTML. Raw HTML in the source is
// dropped by goldmark's default renderer, so the result is safe to embed.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := renderer().Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// InlineMarkdown renders a single paragraph without the wrapping <p>.
func InlineMarkdown(src string) template.HTML {
	html := strings.TrimSpace(string(Markdown(src)))
	html = strings.TrimPrefix(html, "<p>")
	html = strings.TrimSuffix(html, "</p>")
	return template.HTML(html)
}
