// internal/util/util.go
package util

import (
	"path"
	"path/filepath"
	"strings"
)

// CamelCase converts a hyphenated data attribute name into the form used
// as a placeholder key, e.g. "sub-title" becomes "subTitle".
func CamelCase(name string) string {
	parts := strings.Split(name, "-")
	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 || b.Len() == 0 {
			b.WriteString(part)
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// OutputPath maps a page path relative to the pages root to the path of
// the generated HTML file, relative to the output directory.
// For example, "blog/post.md" becomes "blog/post.html".
func OutputPath(relPath string) string {
	ext := filepath.Ext(relPath)
	if ext == ".html" {
		return relPath
	}
	return strings.TrimSuffix(relPath, ext) + ".html"
}

// PagePath returns the site-absolute, slash-separated path of a generated
// page, which is what the layout uses to derive the canonical URL.
func PagePath(relPath string) string {
	return path.Join("/", filepath.ToSlash(OutputPath(relPath)))
}
