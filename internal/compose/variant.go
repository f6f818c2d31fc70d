// internal/compose/variant.go
package compose

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultVariant is used when a directive does not ask for a variant, and
// as the fallback when the requested one does not exist.
const DefaultVariant = "1"

// ErrNoDefaultVariant means a fragment declares variants but has no
// option 1 to fall back to.
var ErrNoDefaultVariant = errors.New("no default variant")

var optionMarker = regexp.MustCompile(`(?s)<!--\s*option\s+(\d+)\b.*?-->`)

// Selection is the outcome of picking a variant from a fragment.
type Selection struct {
	// Content is the selected block, or the whole fragment when it has no
	// variants.
	Content string
	// Variant is the label of the block used; empty when the fragment has
	// no variants.
	Variant string
	// Requested is the normalized variant the directive asked for.
	Requested string
	// Fallback is set when an explicitly requested variant was missing and
	// the default was used instead.
	Fallback bool
}

type variantBlock struct {
	label string
	body  string
}

// splitVariants segments a fragment into its labeled option blocks, in
// document order. Each block runs from the end of its marker to the start
// of the next marker or the end of the fragment.
func splitVariants(fragment string) []variantBlock {
	locs := optionMarker.FindAllStringSubmatchIndex(fragment, -1)
	if len(locs) == 0 {
		return nil
	}
	blocks := make([]variantBlock, 0, len(locs))
	for i, loc := range locs {
		end := len(fragment)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, variantBlock{
			label: normalizeVariant(fragment[loc[2]:loc[3]]),
			body:  strings.TrimSpace(fragment[loc[1]:end]),
		})
	}
	return blocks
}

func findVariant(blocks []variantBlock, label string) (string, bool) {
	for _, b := range blocks {
		if b.label == label {
			return b.body, true
		}
	}
	return "", false
}

// normalizeVariant makes "02" and "2" the same label.
func normalizeVariant(v string) string {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		return strconv.Itoa(n)
	}
	return v
}

// SelectVariant picks the requested option block out of a fragment. A
// fragment without option markers is returned unchanged whatever is
// requested. An empty request selects the default variant silently; an
// explicit request for a missing variant falls back to the default and
// reports it through Selection.Fallback. If the default is missing too,
// ErrNoDefaultVariant is returned.
func SelectVariant(fragment, requested string) (Selection, error) {
	blocks := splitVariants(fragment)
	if len(blocks) == 0 {
		return Selection{Content: fragment}, nil
	}

	want := normalizeVariant(requested)
	if want == "" {
		want = DefaultVariant
	}
	if body, ok := findVariant(blocks, want); ok {
		return Selection{Content: body, Variant: want, Requested: want}, nil
	}

	body, ok := findVariant(blocks, DefaultVariant)
	if !ok {
		return Selection{Requested: want}, fmt.Errorf("%w: variant %q not found and option %s is missing", ErrNoDefaultVariant, want, DefaultVariant)
	}
	return Selection{Content: body, Variant: DefaultVariant, Requested: want, Fallback: true}, nil
}
