// internal/builder/models.go
package builder

import (
	"log/slog"

	"stitch/internal/compose"
)

// BuildOptions tune a single build run.
type BuildOptions struct {
	CleanDestination bool
	// Unsafe disables sanitization of HTML rendered from markdown pages.
	Unsafe bool
	// Drafts publishes markdown pages marked as drafts.
	Drafts bool
	// Logger receives composition warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// PageMeta holds the front matter of a markdown page. The layout keys
// mirror the LAYOUT markers of HTML pages.
type PageMeta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Keywords    string `yaml:"keywords"`
	OGImage     string `yaml:"ogImage"`
	Script      string `yaml:"script"`
	Draft       bool   `yaml:"draft"`
}

func (m PageMeta) layoutMeta() compose.LayoutMeta {
	return compose.LayoutMeta{
		Title:       m.Title,
		Description: m.Description,
		Keywords:    m.Keywords,
		OGImage:     m.OGImage,
		Script:      m.Script,
	}
}

// Report summarizes a build. Skipped counts pages that could not be read
// as text; each one is also counted as a warning.
type Report struct {
	Pages    int
	Drafts   int
	Skipped  int
	Assets   int
	Warnings int
}
