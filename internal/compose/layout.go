// internal/compose/layout.go
package compose

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	layoutMarker      = regexp.MustCompile(`<!--\s*LAYOUT:\s*(\w+)="([^"]*)"\s*-->`)
	layoutMarkerStrip = regexp.MustCompile(`<!--\s*LAYOUT:(?:"[^"]*"|[^">])*-->\s*`)

	markerEscaper = strings.NewReplacer(`"`, "&quot;", ">", "&gt;")
)

// LayoutMeta is the metadata a page declares through LAYOUT comments:
//
//	<!-- LAYOUT: title="About us" -->
//	<!-- LAYOUT: script="/js/about.js" -->
type LayoutMeta struct {
	Title       string
	Description string
	Keywords    string
	OGImage     string
	Script      string
}

// ParseLayoutMeta extracts layout metadata from doc. It reports false when
// the document has no non-empty title marker, which means the page is a
// complete document that opts out of the shared layout. When a key is
// declared more than once the first occurrence wins.
func ParseLayoutMeta(doc string) (LayoutMeta, bool) {
	var meta LayoutMeta
	seen := make(map[string]bool)
	for _, m := range layoutMarker.FindAllStringSubmatch(doc, -1) {
		key, val := m[1], m[2]
		if seen[key] || val == "" {
			continue
		}
		seen[key] = true
		switch key {
		case "title":
			meta.Title = val
		case "description":
			meta.Description = val
		case "keywords":
			meta.Keywords = val
		case "ogImage":
			meta.OGImage = val
		case "script":
			meta.Script = val
		}
	}
	return meta, meta.Title != ""
}

// Markers renders meta back into LAYOUT comments, one per non-empty key.
func (m LayoutMeta) Markers() string {
	var b strings.Builder
	write := func(key, val string) {
		if val != "" {
			fmt.Fprintf(&b, "<!-- LAYOUT: %s=\"%s\" -->\n", key, markerEscaper.Replace(val))
		}
	}
	write("title", m.Title)
	write("description", m.Description)
	write("keywords", m.Keywords)
	write("ogImage", m.OGImage)
	write("script", m.Script)
	return b.String()
}

// Wrap splices a page into the shared layout. Documents without a title
// marker are returned unchanged. pagePath is the site-absolute path of the
// generated page; its .html suffix is dropped to form the canonical URL.
func (c *Composer) Wrap(doc, pagePath string) (string, error) {
	meta, ok := ParseLayoutMeta(doc)
	if !ok {
		return doc, nil
	}

	layout, err := c.layoutTemplate()
	if err != nil {
		return "", err
	}
	loading, err := c.loadingFragment()
	if err != nil {
		return "", err
	}

	content := strings.TrimSpace(layoutMarkerStrip.ReplaceAllString(doc, ""))

	description := meta.Description
	if description == "" {
		description = c.defaults.Description
	}
	keywords := meta.Keywords
	if keywords == "" {
		keywords = c.defaults.Keywords
	}
	ogImage := meta.OGImage
	if ogImage == "" {
		ogImage = c.defaults.OGImage
	}
	pageScript := ""
	if meta.Script != "" {
		pageScript = fmt.Sprintf("<!-- Page-specific JS -->\n  <script type=\"module\" src=\"%s\"></script>", meta.Script)
	}
	url := strings.TrimSuffix(pagePath, ".html")

	out := layout
	out = strings.ReplaceAll(out, "{{title}}", meta.Title)
	out = strings.ReplaceAll(out, "{{description}}", description)
	out = strings.ReplaceAll(out, "{{keywords}}", keywords)
	out = strings.ReplaceAll(out, "{{ogImage}}", ogImage)
	out = strings.ReplaceAll(out, "{{url}}", url)
	out = strings.Replace(out, "{{loadingComponent}}", loading, 1)
	out = strings.Replace(out, "{{content}}", content, 1)
	out = strings.Replace(out, "{{pageScript}}", pageScript, 1)
	return out, nil
}
