// internal/compose/placeholder.go
package compose

import (
	"regexp"
	"sort"
	"strings"
)

// Reserved directive attributes, in their camel-cased form. They steer the
// include itself and are never substituted into the fragment.
const (
	AttrInclude = "include"
	AttrScript  = "js"
	AttrVariant = "variant"
)

var (
	placeholderToken = regexp.MustCompile(`\{\{[^{}]*\}\}`)
	// A line holding one element that wraps nothing but a placeholder.
	// RE2 has no backreferences, so the tag names are compared afterwards.
	wrappedPlaceholder = regexp.MustCompile(`^<([a-zA-Z][\w-]*)(?:\s[^<>]*)?>\s*\{\{[^{}]*\}\}\s*</([a-zA-Z][\w-]*)\s*>$`)
)

func isReserved(key string) bool {
	return key == AttrInclude || key == AttrScript || key == AttrVariant
}

// Substitute replaces every {{key}} token in text with the matching
// attribute value. Lines left holding a single unfilled placeholder,
// either bare or wrapped in one element, are dropped, and any other
// unfilled tokens are removed.
func Substitute(text string, attrs map[string]string) string {
	if !strings.Contains(text, "{{") {
		return text
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		if !isReserved(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		text = strings.ReplaceAll(text, "{{"+k+"}}", attrs[k])
	}

	if !strings.Contains(text, "{{") {
		return text
	}
	text = dropPlaceholderLines(text)
	return placeholderToken.ReplaceAllString(text, "")
}

func dropPlaceholderLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if isPlaceholderLine(strings.TrimSpace(line)) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func isPlaceholderLine(line string) bool {
	if line == "" {
		return false
	}
	if placeholderToken.FindString(line) == line {
		return true
	}
	m := wrappedPlaceholder.FindStringSubmatch(line)
	return m != nil && strings.EqualFold(m[1], m[2])
}
