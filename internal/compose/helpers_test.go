package compose

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testLayout = `<!DOCTYPE html>
<html>
<head>
  <title>{{title}}</title>
  <meta name="description" content="{{description}}">
  <meta name="keywords" content="{{keywords}}">
  <meta property="og:image" content="{{ogImage}}">
  <link rel="canonical" href="{{url}}">
</head>
<body>
  {{loadingComponent}}
  <main>{{content}}</main>
  {{pageScript}}
</body>
</html>
`

const testLoading = `<div id="global-loading">Loading...</div>`

// writeTree creates files below root from a map of slash-separated
// relative paths to contents.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// newTestComposer builds a Composer over a temporary source tree holding
// the default layout and loading fragment plus files. Log output is
// captured in the returned buffer.
func newTestComposer(t *testing.T, base string, files map[string]string) (*Composer, *bytes.Buffer, string) {
	t.Helper()
	root := t.TempDir()
	tree := map[string]string{
		"layouts/default.html":            testLayout,
		"components/loading/loading.html": testLoading,
	}
	for k, v := range files {
		tree[k] = v
	}
	writeTree(t, root, tree)

	var logs bytes.Buffer
	c := New(Options{
		SrcRoot:  root,
		BasePath: base,
		Logger:   slog.New(slog.NewTextHandler(&logs, nil)),
	})
	return c, &logs, root
}
