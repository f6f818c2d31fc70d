package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteAssets(t *testing.T) {
	assert.Equal(t,
		`<img src="/site/assets/a.png">`,
		RewriteAssets(`<img src="/assets/a.png">`, "/site/"))

	assert.Equal(t,
		`<img class="logo" src="/site/assets/svg/logo.svg" alt="Logo">`,
		RewriteAssets(`<img class="logo" src='/assets/svg/logo.svg' alt="Logo">`, "/site/"))
}

func TestRewriteAssets_RootBaseIsNoop(t *testing.T) {
	doc := `<img src='/assets/a.png'><img src="/assets/b.png">`
	assert.Equal(t, doc, RewriteAssets(doc, "/"))
}

func TestRewriteAssets_LeavesOtherReferences(t *testing.T) {
	doc := `<img src="https://cdn.example.com/assets/a.png"><img src="images/b.png"><link href="/assets/app.css">`
	assert.Equal(t, doc, RewriteAssets(doc, "/site/"))
}

func TestRewriteAssets_Idempotent(t *testing.T) {
	once := RewriteAssets(`<img src="/assets/a.png">`, "/site/")
	assert.Equal(t, once, RewriteAssets(once, "/site/"))
}
