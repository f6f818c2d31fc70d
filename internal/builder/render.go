// internal/builder/render.go
package builder

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"gopkg.in/yaml.v3"
)

var (
	markdownRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(newMDLinkTransformer(), 100),
			),
		),
		goldmark.WithRendererOptions(
			// Raw HTML must survive so that include directives reach the composer.
			html.WithUnsafe(),
		),
	)
	htmlSanitizer = newSanitizer()
)

// newSanitizer keeps data-* attributes and the empty container elements
// include directives are written with.
func newSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowDataAttributes()
	p.AllowElements("div", "section")
	return p
}

// renderMarkdown splits a markdown page into its front matter and body and
// returns the page as an HTML document the composer understands: LAYOUT
// markers for the front matter followed by the rendered body.
func renderMarkdown(rawContent []byte, opts BuildOptions) (PageMeta, string, error) {
	meta := PageMeta{}
	body := rawContent

	if bytes.HasPrefix(rawContent, []byte("---")) {
		parts := bytes.SplitN(rawContent, []byte("---"), 3)
		if len(parts) == 3 {
			if err := yaml.Unmarshal(parts[1], &meta); err != nil {
				return PageMeta{}, "", fmt.Errorf("failed to parse front matter: %w", err)
			}
			body = parts[2]
		}
	}

	var htmlBuffer bytes.Buffer
	if err := markdownRenderer.Convert(body, &htmlBuffer); err != nil {
		return meta, "", fmt.Errorf("failed to render markdown with goldmark: %w", err)
	}

	rendered := htmlBuffer.Bytes()
	if !opts.Unsafe {
		rendered = htmlSanitizer.SanitizeBytes(rendered)
	}
	return meta, meta.layoutMeta().Markers() + string(rendered), nil
}
