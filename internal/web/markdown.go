package web

import (
	"bytes"
	"html/template"
	"strings"

	"todo-cli/internal/docs"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		// No html.WithUnsafe: raw HTML in markdown is dropped.
		html.WithHardWraps(),
	),
)

var helpMarkdown = docs.MustGet(docs.TopicWeb)

func renderMarkdownHTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return template.HTML("")
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	// Safe because raw HTML passthrough is disabled above.
	return template.HTML(b.String())
}
