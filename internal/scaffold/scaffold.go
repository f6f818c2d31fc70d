// internal/scaffold/scaffold.go
package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
)

// CreateNewSite writes a starter source tree into name.
func CreateNewSite(name string) error {
	if entries, err := os.ReadDir(name); err == nil && len(entries) > 0 {
		return fmt.Errorf("directory %s already exists and is not empty", name)
	}
	fmt.Println("Scaffolding new site in:", name)

	files := map[string]string{
		"site.yaml":                           siteYamlContent,
		".env.example":                        envExampleContent,
		"src/layouts/default.html":            layoutContent,
		"src/components/loading/loading.html": loadingContent,
		"src/components/header/header.html":   headerContent,
		"src/components/footer/footer.html":   footerContent,
		"src/components/hero/hero.html":       heroContent,
		"src/components/card/card.html":       cardContent,
		"src/pages/index.html":                indexPageContent,
		"src/pages/about.md":                  aboutPageContent,
		"src/assets/css/main.css":             cssContent,
		"src/js/home.js":                      homeScriptContent,
		"archetypes/page.html":                archetypePageContent,
	}
	for path, content := range files {
		full := filepath.Join(name, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", path, err)
		}
	}
	fmt.Println("Site scaffolded. You can now:")
	fmt.Println("  cd", name)
	fmt.Println("  stitch build")
	fmt.Println("  stitch serve")
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9-]+`)

// Slug turns a page title into a file name.
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlug.ReplaceAllString(s, "")
	s = regexp.MustCompile(`-+`).ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// CreateNewPage renders the page archetype of the site rooted at siteDir
// into <srcDir>/pages/<slug>.html and returns the created path.
func CreateNewPage(siteDir, srcDir, title string) (string, error) {
	slug := Slug(title)
	if slug == "" {
		return "", fmt.Errorf("title %q does not produce a usable file name", title)
	}
	path := filepath.Join(srcDir, "pages", slug+".html")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("page %s already exists", path)
	}

	archetype := archetypePageContent
	archetypePath := filepath.Join(siteDir, "archetypes", "page.html")
	if data, err := os.ReadFile(archetypePath); err == nil {
		archetype = string(data)
	}

	tmpl, err := template.New("archetype").Parse(archetype)
	if err != nil {
		return "", fmt.Errorf("failed to parse archetype %s: %w", archetypePath, err)
	}
	data := struct {
		Title string
		Slug  string
	}{Title: title, Slug: slug}

	var output bytes.Buffer
	if err := tmpl.Execute(&output, data); err != nil {
		return "", fmt.Errorf("failed to execute archetype template: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, output.Bytes(), 0644); err != nil {
		return "", err
	}
	fmt.Println("Created:", path)
	return path, nil
}

const siteYamlContent = `title: My Site
baseurl: /
src: src
out: dist
defaults:
  description: A static website built from reusable HTML components
  keywords: static site, html components
  ogImage: /assets/image/og-default.png
`

const envExampleContent = `# Copy to .env to override site.yaml locally.
# STITCH_BASE_PATH=/my-site/
# STITCH_OUT_DIR=dist
`

const layoutContent = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{title}}</title>
  <meta name="description" content="{{description}}">
  <meta name="keywords" content="{{keywords}}">
  <meta property="og:title" content="{{title}}">
  <meta property="og:description" content="{{description}}">
  <meta property="og:image" content="{{ogImage}}">
  <link rel="canonical" href="{{url}}">
  <link rel="stylesheet" href="/assets/css/main.css">
</head>
<body>
  {{loadingComponent}}
  <div data-include="@components/header/header.html"></div>
  <main>
    {{content}}
  </main>
  <div data-include="@components/footer/footer.html"></div>
  {{pageScript}}
</body>
</html>
`

const loadingContent = `<div id="global-loading" class="loading-overlay">
  <div class="loading-spinner"></div>
  <p class="loading-text">Loading...</p>
</div>
`

const headerContent = `<header class="site-header">
  <a href="/"><img src="/assets/image/logo.png" alt="Home"></a>
  <nav>
    <a href="/">Home</a>
    <a href="/about.html">About</a>
  </nav>
</header>
`

const footerContent = `<footer class="site-footer">
  <p>&copy; My Site</p>
</footer>
`

const heroContent = `<!-- option 1: centered -->
<section class="hero hero-centered">
  <h1>{{heading}}</h1>
  <p>{{subheading}}</p>
</section>

<!-- option 2: split with image -->
<section class="hero hero-split">
  <div>
    <h1>{{heading}}</h1>
    <p>{{subheading}}</p>
  </div>
  <img src="{{image}}" alt="{{heading}}">
</section>
`

const cardContent = `<article class="card">
  <h3>{{title}}</h3>
  <p>{{text}}</p>
  <small>{{caption}}</small>
</article>
`

const indexPageContent = `<!-- LAYOUT: title="Home" -->
<!-- LAYOUT: script="/js/home.js" -->
<div data-include="@components/hero/hero.html" data-heading="Welcome" data-subheading="Built from components"></div>
<div class="cards">
  <div data-include="@components/card/card.html" data-title="Fast" data-text="Everything is composed at build time."></div>
  <div data-include="@components/card/card.html" data-title="Simple" data-text="Plain HTML fragments." data-caption="No runtime needed"></div>
</div>
`

const aboutPageContent = `---
title: About
description: About this site
---
# About

This page is written in markdown.

<div data-include="@components/card/card.html" data-title="Markdown" data-text="Includes work here too."></div>
`

const cssContent = `body { font-family: sans-serif; margin: 0; }
.site-header, .site-footer { padding: 1rem 2rem; }
main { max-width: 960px; margin: 0 auto; padding: 2rem; }
.cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(240px, 1fr)); gap: 1rem; }
.card { border: 1px solid #ddd; border-radius: 8px; padding: 1rem; }
.loading-overlay { position: fixed; inset: 0; display: none; }
`

const homeScriptContent = `document.addEventListener('DOMContentLoaded', () => {
  console.info('home page ready')
})
`

const archetypePageContent = `<!-- LAYOUT: title="{{ .Title }}" -->
<section class="page page-{{ .Slug }}">
  <h1>{{ .Title }}</h1>
</section>
`
