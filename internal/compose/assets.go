// internal/compose/assets.go
package compose

import (
	"regexp"
)

var imgAssetSrc = regexp.MustCompile(`<img\s+([^>]*?)src=["']/assets/([^"']+)["']([^>]*?)>`)

// RewriteAssets prefixes root-relative /assets/ image sources with the
// base path. It is a no-op for the root base path.
func RewriteAssets(doc, base string) string {
	if base == "" || base == "/" {
		return doc
	}
	return imgAssetSrc.ReplaceAllStringFunc(doc, func(match string) string {
		m := imgAssetSrc.FindStringSubmatch(match)
		return "<img " + m[1] + `src="` + base + "assets/" + m[2] + `"` + m[3] + ">"
	})
}

// RewriteAssets applies the package-level RewriteAssets with the
// Composer's base path.
func (c *Composer) RewriteAssets(doc string) string {
	return RewriteAssets(doc, c.base)
}
