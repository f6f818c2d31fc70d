// internal/compose/resolve.go
package compose

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ResolveComponent maps an include path to a slash-separated path relative
// to the source root. The first matching rule wins:
//
//	@components/x  -> components/x
//	@/x            -> x
//	../x           -> x          (authored relative to the pages directory)
//	./x            -> pages/x
//	<base>x        -> x          (when a non-root base path is configured)
//	/x             -> x
//
// Anything else is used as is.
func ResolveComponent(includePath, base string) string {
	p := strings.TrimSpace(includePath)
	switch {
	case strings.HasPrefix(p, "@components/"):
		p = "components/" + strings.TrimPrefix(p, "@components/")
	case strings.HasPrefix(p, "@/"):
		p = p[1:]
	case strings.HasPrefix(p, "../"):
		p = p[len("../"):]
	case strings.HasPrefix(p, "./"):
		p = "pages/" + p[len("./"):]
	case base != "" && base != "/" && strings.HasPrefix(p, base):
		p = p[len(base):]
	case strings.HasPrefix(p, "/"):
		p = p[1:]
	}
	return path.Clean(strings.TrimPrefix(p, "/"))
}

// componentFile returns the filesystem location of an include path. Paths
// that would leave the source root are rejected.
func (c *Composer) componentFile(includePath string) (string, error) {
	rel := filepath.FromSlash(ResolveComponent(includePath, c.base))
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("component path %q resolves outside the source root", includePath)
	}
	return filepath.Join(c.srcRoot, rel), nil
}
