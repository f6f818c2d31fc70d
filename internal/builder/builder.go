// internal/builder/builder.go
package builder

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/natefinch/atomic"

	"stitch/internal/compose"
	"stitch/internal/config"
	"stitch/internal/util"
)

const (
	pagesDir  = "pages"
	assetsDir = "assets"
	scriptDir = "js"
	pageGlob  = "**/*.{html,md}"
)

// errInvalidEncoding marks a page source that is not valid UTF-8. Such a
// page is skipped with a warning and the build continues.
var errInvalidEncoding = errors.New("page is not valid UTF-8")

// BuildSite composes every page under <src>/pages into the output
// directory and copies static assets. Directive-level problems are logged
// and counted in the report; a missing layout or loading fragment aborts
// the build.
func BuildSite(site config.SiteConfig, opts BuildOptions) (Report, error) {
	var report Report

	outputDir, err := config.ResolveOutDir(site.OutDir)
	if err != nil {
		return report, err
	}
	srcDir, err := filepath.Abs(site.SrcDir)
	if err != nil {
		return report, err
	}
	if contains(outputDir, srcDir) {
		return report, fmt.Errorf("output directory %s must not contain the source directory %s", outputDir, srcDir)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return report, err
	}

	if opts.CleanDestination {
		fmt.Println("Cleaning destination directory...")
		entries, err := os.ReadDir(outputDir)
		if err != nil {
			return report, err
		}
		for _, entry := range entries {
			if err := os.RemoveAll(filepath.Join(outputDir, entry.Name())); err != nil {
				return report, err
			}
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	composer := compose.New(compose.Options{
		SrcRoot:     srcDir,
		BasePath:    site.BasePath,
		LayoutPath:  site.Layout,
		LoadingPath: site.Loading,
		Defaults:    site.Defaults,
		Logger:      logger,
	})

	pages, err := discoverPages(filepath.Join(srcDir, pagesDir))
	if err != nil {
		return report, err
	}
	for _, rel := range pages {
		written, err := buildPage(composer, srcDir, outputDir, rel, opts)
		if errors.Is(err, errInvalidEncoding) {
			logger.Warn("Skipping page", "page", rel, "error", err)
			report.Skipped++
			continue
		}
		if err != nil {
			return report, err
		}
		if written {
			report.Pages++
		} else {
			report.Drafts++
		}
	}
	report.Warnings = composer.Warnings() + report.Skipped

	for _, dir := range []string{assetsDir, scriptDir} {
		n, err := copyStaticAssets(filepath.Join(srcDir, dir), filepath.Join(outputDir, dir))
		if err != nil {
			return report, err
		}
		report.Assets += n
	}
	return report, nil
}

// contains reports whether path is dir or lies below it.
func contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && (rel == "." || filepath.IsLocal(rel))
}

// discoverPages lists page sources relative to the pages directory, slash
// separated and sorted.
func discoverPages(root string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("pages directory: %w", err)
	}
	pages, err := doublestar.Glob(os.DirFS(root), pageGlob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list pages in %s: %w", root, err)
	}
	sort.Strings(pages)
	return pages, nil
}

// buildPage renders one page source. It reports false when the page was
// skipped as a draft.
func buildPage(composer *compose.Composer, srcDir, outputDir, rel string, opts BuildOptions) (bool, error) {
	path := filepath.Join(srcDir, pagesDir, filepath.FromSlash(rel))
	contentBytes, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if !utf8.Valid(contentBytes) {
		return false, fmt.Errorf("%w: %s", errInvalidEncoding, path)
	}

	doc := string(contentBytes)
	if strings.HasSuffix(rel, ".md") {
		meta, rendered, err := renderMarkdown(contentBytes, opts)
		if err != nil {
			return false, fmt.Errorf("failed to process content for %s: %w", path, err)
		}
		if meta.Draft && !opts.Drafts {
			return false, nil
		}
		doc = rendered
	}

	out, err := composer.Render(doc, util.PagePath(rel))
	if err != nil {
		return false, fmt.Errorf("failed to render page %s: %w", path, err)
	}

	outputPath := filepath.Join(outputDir, filepath.FromSlash(util.OutputPath(rel)))
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return false, err
	}
	if err := atomic.WriteFile(outputPath, strings.NewReader(out)); err != nil {
		return false, fmt.Errorf("failed to write page %s: %w", outputPath, err)
	}
	return true, nil
}

// staticExts are the file extensions copied from the asset directories.
var staticExts = map[string]bool{
	".css": true, ".js": true, ".mjs": true, ".map": true, ".json": true, ".txt": true,
	".svg": true, ".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
	".avif": true, ".ico": true, ".woff": true, ".woff2": true, ".ttf": true, ".otf": true,
}

// copyStaticAssets mirrors staticDir into outputDir and returns the number
// of files copied. A missing staticDir copies nothing.
func copyStaticAssets(staticDir, outputDir string) (int, error) {
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		return 0, nil
	}
	copied := 0
	err := filepath.Walk(staticDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !staticExts[strings.ToLower(filepath.Ext(info.Name()))] {
			return nil
		}

		rel, err := filepath.Rel(staticDir, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(outputDir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		if err := copyFile(path, dest); err != nil {
			return err
		}
		copied++
		return nil
	})
	return copied, err
}

func copyFile(srcPath, destPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
