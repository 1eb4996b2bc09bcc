package utils

import (
	"html"
	"strings"
	"sync"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"
)

// Rich document content is stored as the editor's HTML markup. These
// helpers are the only place the rest of the codebase touches that
// format; everything downstream works with plain text or markdown.

var (
	stripPolicy = bluemonday.StrictPolicy()

	mdConverter     *md.Converter
	mdConverterOnce sync.Once
)

// PlainText strips all markup from a rich content blob. Block-level
// tags are padded with newlines first so adjacent paragraphs do not run
// together after stripping.
func PlainText(content string) string {
	text := content
	for _, tag := range []string{"</p>", "</div>", "</li>", "</h1>", "</h2>", "</h3>", "</blockquote>", "<br>", "<br/>", "<br />"} {
		text = strings.ReplaceAll(text, tag, tag+"\n")
	}

	text = stripPolicy.Sanitize(text)
	text = html.UnescapeString(text)

	return strings.TrimSpace(text)
}

// ToMarkdown converts a rich content blob to markdown for export.
func ToMarkdown(content string) (string, error) {
	mdConverterOnce.Do(func() {
		mdConverter = md.NewConverter("", true, nil)
	})

	return mdConverter.ConvertString(content)
}
