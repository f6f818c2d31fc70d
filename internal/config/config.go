// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override values from site.yaml.
const (
	EnvBasePath = "STITCH_BASE_PATH"
	EnvOutDir   = "STITCH_OUT_DIR"
	EnvSrcDir   = "STITCH_SRC_DIR"
)

const (
	DefaultSrcDir      = "src"
	DefaultOutDir      = "dist"
	DefaultLayout      = "layouts/default.html"
	DefaultLoading     = "components/loading/loading.html"
	DefaultDescription = "Static website built from reusable HTML components"
	DefaultKeywords    = "static site, html components, tailwindcss"
	DefaultOGImage     = "/assets/image/og-default.png"
)

// LayoutDefaults are used when a page does not declare the matching
// LAYOUT marker.
type LayoutDefaults struct {
	Description string `yaml:"description"`
	Keywords    string `yaml:"keywords"`
	OGImage     string `yaml:"ogImage"`
}

// SiteConfig holds the configuration from the site.yaml file, after
// environment overrides have been applied.
type SiteConfig struct {
	Title    string         `yaml:"title"`
	BasePath string         `yaml:"baseurl"`
	SrcDir   string         `yaml:"src"`
	OutDir   string         `yaml:"out"`
	Layout   string         `yaml:"layout"`
	Loading  string         `yaml:"loading"`
	Defaults LayoutDefaults `yaml:"defaults"`
}

// LoadSiteConfig reads the YAML config at path and applies the STITCH_*
// overrides. Variables set in the process environment take precedence over
// a .env file next to the config, which in turn overrides the YAML. The .env
// file is read on every call and never written into the process
// environment. A missing config file is not an error; every key has a
// default. Relative src and out directories are taken relative to the
// config file.
func LoadSiteConfig(path string) (SiteConfig, error) {
	cfg := SiteConfig{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return SiteConfig{}, fmt.Errorf("could not read config file at %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return SiteConfig{}, fmt.Errorf("could not parse config file %s: %w", path, err)
		}
	}

	envFile := filepath.Join(filepath.Dir(path), ".env")
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return SiteConfig{}, fmt.Errorf("could not load env file %s: %w", envFile, err)
	}
	cfg.applyEnv(dotenv)
	cfg.applyDefaults()
	cfg.resolveDirs(filepath.Dir(path))
	return cfg, nil
}

// resolveDirs makes relative source and output directories relative to the
// directory holding the config file.
func (c *SiteConfig) resolveDirs(root string) {
	if !filepath.IsAbs(c.SrcDir) {
		c.SrcDir = filepath.Join(root, c.SrcDir)
	}
	if !filepath.IsAbs(c.OutDir) {
		c.OutDir = filepath.Join(root, c.OutDir)
	}
}

func (c *SiteConfig) applyEnv(dotenv map[string]string) {
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if v, ok := lookup(EnvBasePath); ok {
		c.BasePath = v
	}
	if v, ok := lookup(EnvOutDir); ok {
		c.OutDir = v
	}
	if v, ok := lookup(EnvSrcDir); ok {
		c.SrcDir = v
	}
}

func (c *SiteConfig) applyDefaults() {
	c.BasePath = NormalizeBasePath(c.BasePath)
	if strings.TrimSpace(c.SrcDir) == "" {
		c.SrcDir = DefaultSrcDir
	}
	if strings.TrimSpace(c.OutDir) == "" {
		c.OutDir = DefaultOutDir
	}
	if c.Layout == "" {
		c.Layout = DefaultLayout
	}
	if c.Loading == "" {
		c.Loading = DefaultLoading
	}
	if c.Defaults.Description == "" {
		c.Defaults.Description = DefaultDescription
	}
	if c.Defaults.Keywords == "" {
		c.Defaults.Keywords = DefaultKeywords
	}
	if c.Defaults.OGImage == "" {
		c.Defaults.OGImage = DefaultOGImage
	}
}

// Default returns a configuration with every default applied and no
// environment overrides.
func Default() SiteConfig {
	cfg := SiteConfig{}
	cfg.applyDefaults()
	return cfg
}

// NormalizeBasePath makes sure the deployment base path starts and ends
// with a slash. Empty values and "." mean the site root.
func NormalizeBasePath(value string) string {
	normalized := strings.TrimSpace(value)
	if normalized == "" || normalized == "." {
		return "/"
	}
	normalized = strings.ReplaceAll(normalized, `\`, "/")
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	if !strings.HasSuffix(normalized, "/") {
		normalized += "/"
	}
	return normalized
}

// ResolveOutDir returns an absolute output directory. Relative paths are
// taken relative to the working directory.
func ResolveOutDir(value string) (string, error) {
	target := strings.TrimSpace(value)
	if target == "" {
		target = DefaultOutDir
	}
	return filepath.Abs(target)
}
