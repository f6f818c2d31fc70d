// internal/compose/composer.go

// Package compose assembles static HTML pages from a shared layout and
// reusable component fragments. Composition happens once per page at build
// time: the layout is wrapped around the page, data-include directives are
// expanded recursively and image asset paths are prefixed with the
// deployment base path.
package compose

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"stitch/internal/config"
)

var (
	// ErrLayoutTemplate is returned when the shared layout cannot be read.
	ErrLayoutTemplate = errors.New("layout template unavailable")
	// ErrLoadingFragment is returned when the loading indicator fragment
	// cannot be read.
	ErrLoadingFragment = errors.New("loading fragment unavailable")
)

// Options configures a Composer.
type Options struct {
	// SrcRoot is the directory component paths are resolved against.
	SrcRoot string
	// BasePath is the deployment base path. It is normalized, so "site"
	// and "/site/" are equivalent.
	BasePath string
	// LayoutPath and LoadingPath are relative to SrcRoot.
	LayoutPath  string
	LoadingPath string
	Defaults    config.LayoutDefaults
	// Logger receives warnings for recoverable problems. Nil means
	// slog.Default().
	Logger *slog.Logger
}

// Composer is the build context threaded through the composition pipeline.
// It owns the lazily loaded layout template, which is read at most once per
// Composer. A Composer is not safe for concurrent use.
type Composer struct {
	srcRoot     string
	base        string
	layoutPath  string
	loadingPath string
	defaults    config.LayoutDefaults
	log         *slog.Logger

	layout   *string
	warnings int
}

// New creates a Composer, filling unset options with the configuration
// defaults.
func New(opts Options) *Composer {
	def := config.Default()
	c := &Composer{
		srcRoot:     opts.SrcRoot,
		base:        config.NormalizeBasePath(opts.BasePath),
		layoutPath:  opts.LayoutPath,
		loadingPath: opts.LoadingPath,
		defaults:    opts.Defaults,
		log:         opts.Logger,
	}
	if c.srcRoot == "" {
		c.srcRoot = def.SrcDir
	}
	if c.layoutPath == "" {
		c.layoutPath = def.Layout
	}
	if c.loadingPath == "" {
		c.loadingPath = def.Loading
	}
	if c.defaults.Description == "" {
		c.defaults.Description = def.Defaults.Description
	}
	if c.defaults.Keywords == "" {
		c.defaults.Keywords = def.Defaults.Keywords
	}
	if c.defaults.OGImage == "" {
		c.defaults.OGImage = def.Defaults.OGImage
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}

// BasePath returns the normalized deployment base path.
func (c *Composer) BasePath() string { return c.base }

// Warnings returns how many recoverable problems have been reported so far.
func (c *Composer) Warnings() int { return c.warnings }

// Render runs the full pipeline for one page document: layout wrapping,
// include expansion and asset path rewriting, in that order. pagePath is
// the site-absolute path of the generated page, e.g. "/about.html".
// Only a missing layout or loading fragment is returned as an error; every
// directive-level problem is logged and the page is still produced.
func (c *Composer) Render(doc, pagePath string) (string, error) {
	log := c.log.With("page", pagePath)
	wrapped, err := c.Wrap(doc, pagePath)
	if err != nil {
		return "", err
	}
	expanded := c.expand(wrapped, 0, log)
	return c.RewriteAssets(expanded), nil
}

func (c *Composer) layoutTemplate() (string, error) {
	if c.layout != nil {
		return *c.layout, nil
	}
	path := filepath.Join(c.srcRoot, filepath.FromSlash(c.layoutPath))
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLayoutTemplate, err)
	}
	layout := string(data)
	c.layout = &layout
	return layout, nil
}

// loadingFragment is read fresh on every call.
func (c *Composer) loadingFragment() (string, error) {
	path := filepath.Join(c.srcRoot, filepath.FromSlash(c.loadingPath))
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLoadingFragment, err)
	}
	return string(data), nil
}

func (c *Composer) warn(log *slog.Logger, msg string, args ...any) {
	c.warnings++
	log.Warn(msg, args...)
}
