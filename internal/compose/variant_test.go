package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeVariants = `<!-- option 1 -->
<div class="one">One</div>

<!-- option 2 : compact -->
<div class="two">Two</div>
<!-- option 3 -->
  <div class="three">Three</div>
`

func TestSelectVariant_NoMarkers(t *testing.T) {
	text := "<nav>\n  <a href=\"/\">Home</a>\n</nav>\n"
	for _, v := range []string{"", "1", "2", "42", "hero"} {
		sel, err := SelectVariant(text, v)
		require.NoError(t, err)
		assert.Equal(t, text, sel.Content)
		assert.False(t, sel.Fallback)
		assert.Empty(t, sel.Variant)
	}
}

func TestSelectVariant_Blocks(t *testing.T) {
	want := map[string]string{
		"1": `<div class="one">One</div>`,
		"2": `<div class="two">Two</div>`,
		"3": `<div class="three">Three</div>`,
	}
	for k, body := range want {
		sel, err := SelectVariant(threeVariants, k)
		require.NoError(t, err)
		assert.Equal(t, body, sel.Content, "variant %s", k)
		assert.Equal(t, k, sel.Variant)
		assert.False(t, sel.Fallback)
	}
}

func TestSelectVariant_ImplicitDefault(t *testing.T) {
	sel, err := SelectVariant(threeVariants, "")
	require.NoError(t, err)
	assert.Equal(t, `<div class="one">One</div>`, sel.Content)
	assert.False(t, sel.Fallback, "implicit default must not be reported as a fallback")
}

func TestSelectVariant_LeadingZeros(t *testing.T) {
	sel, err := SelectVariant(threeVariants, "02")
	require.NoError(t, err)
	assert.Equal(t, `<div class="two">Two</div>`, sel.Content)
}

func TestSelectVariant_MissingFallsBackToDefault(t *testing.T) {
	sel, err := SelectVariant(threeVariants, "7")
	require.NoError(t, err)
	assert.True(t, sel.Fallback)
	assert.Equal(t, "7", sel.Requested)
	assert.Equal(t, DefaultVariant, sel.Variant)
	assert.Equal(t, `<div class="one">One</div>`, sel.Content)
}

func TestSelectVariant_NoDefault(t *testing.T) {
	text := "<!-- option 2 -->\n<b>two</b>\n<!-- option 3 -->\n<b>three</b>"

	_, err := SelectVariant(text, "5")
	require.ErrorIs(t, err, ErrNoDefaultVariant)

	_, err = SelectVariant(text, "")
	require.ErrorIs(t, err, ErrNoDefaultVariant)

	sel, err := SelectVariant(text, "3")
	require.NoError(t, err)
	assert.Equal(t, "<b>three</b>", sel.Content)
}
