package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stitch/internal/config"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestNewSiteThenBuild(t *testing.T) {
	for _, key := range []string{config.EnvBasePath, config.EnvOutDir, config.EnvSrcDir} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	dir := filepath.Join(t.TempDir(), "site")
	cfg := filepath.Join(dir, "site.yaml")
	require.NoError(t, run(t, "new", "site", dir))
	require.NoError(t, run(t, "new", "page", "Contact Us", "-c", cfg))
	require.NoError(t, run(t, "build", "-c", cfg, "--base", "preview"))

	out := filepath.Join(dir, "dist")
	assert.FileExists(t, filepath.Join(out, "index.html"))
	assert.FileExists(t, filepath.Join(out, "about.html"))
	assert.FileExists(t, filepath.Join(out, "assets", "css", "main.css"))

	contact, err := os.ReadFile(filepath.Join(out, "contact-us.html"))
	require.NoError(t, err)
	assert.Contains(t, string(contact), "<title>Contact Us</title>")
	assert.Contains(t, string(contact), `<img src="/preview/assets/image/logo.png" alt="Home">`)
}

func TestBuild_MissingPagesFails(t *testing.T) {
	dir := t.TempDir()
	require.Error(t, run(t, "build", "-c", filepath.Join(dir, "site.yaml")))
}
