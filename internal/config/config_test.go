package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBasePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{".", "/"},
		{"/", "/"},
		{"site", "/site/"},
		{"/site", "/site/"},
		{"site/", "/site/"},
		{"  /a/b  ", "/a/b/"},
		{`\docs\v1`, "/docs/v1/"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeBasePath(tc.in), "input %q", tc.in)
	}
}

func TestLoadSiteConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvBasePath, "")
	os.Unsetenv(EnvBasePath)
	os.Unsetenv(EnvOutDir)
	os.Unsetenv(EnvSrcDir)

	dir := t.TempDir()
	cfg, err := LoadSiteConfig(filepath.Join(dir, "site.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/", cfg.BasePath)
	assert.Equal(t, filepath.Join(dir, DefaultSrcDir), cfg.SrcDir)
	assert.Equal(t, filepath.Join(dir, DefaultOutDir), cfg.OutDir)
	assert.Equal(t, DefaultLayout, cfg.Layout)
	assert.Equal(t, DefaultLoading, cfg.Loading)
	assert.Equal(t, Default().Defaults, cfg.Defaults)
}

func TestLoadSiteConfig_YAMLAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`title: Lab
baseurl: lab
out: build
defaults:
  keywords: lab, research
`), 0644))

	t.Setenv(EnvOutDir, "")
	os.Unsetenv(EnvOutDir)
	os.Unsetenv(EnvSrcDir)
	t.Setenv(EnvBasePath, "/override")

	cfg, err := LoadSiteConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Lab", cfg.Title)
	assert.Equal(t, "/override/", cfg.BasePath)
	assert.Equal(t, filepath.Join(dir, "build"), cfg.OutDir)
	assert.Equal(t, "lab, research", cfg.Defaults.Keywords)
	assert.Equal(t, DefaultDescription, cfg.Defaults.Description)
}

func TestLoadSiteConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STITCH_SRC_DIR=web\n"), 0644))

	t.Setenv(EnvSrcDir, "")
	os.Unsetenv(EnvSrcDir)
	os.Unsetenv(EnvBasePath)
	os.Unsetenv(EnvOutDir)

	cfg, err := LoadSiteConfig(filepath.Join(dir, "site.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "web"), cfg.SrcDir)
}

func TestLoadSiteConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: [unclosed"), 0644))

	_, err := LoadSiteConfig(path)
	require.Error(t, err)
}

func TestLoadSiteConfig_DotEnvReloaded(t *testing.T) {
	t.Setenv(EnvBasePath, "")
	os.Unsetenv(EnvBasePath)
	os.Unsetenv(EnvOutDir)
	os.Unsetenv(EnvSrcDir)

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	cfgPath := filepath.Join(dir, "site.yaml")

	require.NoError(t, os.WriteFile(envFile, []byte("STITCH_BASE_PATH=/one/\n"), 0644))
	first, err := LoadSiteConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "/one/", first.BasePath)
	_, set := os.LookupEnv(EnvBasePath)
	assert.False(t, set, ".env values must not leak into the process environment")

	require.NoError(t, os.WriteFile(envFile, []byte("STITCH_BASE_PATH=/two/\n"), 0644))
	second, err := LoadSiteConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "/two/", second.BasePath)

	require.NoError(t, os.Remove(envFile))
	third, err := LoadSiteConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "/", third.BasePath)
}

func TestLoadSiteConfig_ProcessEnvBeatsDotEnv(t *testing.T) {
	t.Setenv(EnvOutDir, "")
	os.Unsetenv(EnvOutDir)
	os.Unsetenv(EnvSrcDir)
	t.Setenv(EnvBasePath, "/from-env/")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STITCH_BASE_PATH=/from-file/\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.yaml"), []byte("baseurl: /from-yaml/\n"), 0644))

	cfg, err := LoadSiteConfig(filepath.Join(dir, "site.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/from-env/", cfg.BasePath)
}
