// internal/compose/include.go
package compose

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"stitch/internal/util"
)

// MaxIncludeDepth bounds nested include expansion so that self-referential
// component graphs terminate.
const MaxIncludeDepth = 10

// emptyElement matches an element with no content, either self-closing or
// immediately closed: <div a="b"></div>, <section a="b"/>. Quoted attribute
// values may contain '>'.
var emptyElement = regexp.MustCompile(
	`<([a-zA-Z][\w-]*)((?:\s+[^\s"'<>/=]+(?:\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'=<>` + "`" + `]+))?)*)\s*(?:/>|>\s*</([a-zA-Z][\w-]*)\s*>)`,
)

// attrValue matches one attribute in the attribute section of a tag. The
// value groups hold the source text without quotes.
var attrValue = regexp.MustCompile(
	`([^\s"'<>/=]+)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'=<>` + "`" + `]+)))?`,
)

// directive is one data-include element found in a document.
type directive struct {
	raw     string
	path    string
	variant string
	attrs   map[string]string
}

// sourceValues maps lowercased attribute names to their values exactly as
// written, entities included. The first occurrence of a name wins, as in
// the tokenizer.
func sourceValues(attrText string) map[string]string {
	vals := make(map[string]string)
	for _, m := range attrValue.FindAllStringSubmatch(attrText, -1) {
		name := strings.ToLower(m[1])
		if _, ok := vals[name]; ok {
			continue
		}
		vals[name] = m[2] + m[3] + m[4]
	}
	return vals
}

// parseDirective reads the attributes of an empty element. It reports
// false when the element carries no data-include attribute. The include
// path and variant are decoded attribute values; the values handed to
// placeholder substitution keep their source escaping.
func parseDirective(raw, openTag, attrText, closeTag string) (directive, bool) {
	if closeTag != "" && !strings.EqualFold(openTag, closeTag) {
		return directive{}, false
	}
	if !strings.Contains(raw, "data-include") {
		return directive{}, false
	}

	z := html.NewTokenizer(strings.NewReader(raw))
	switch z.Next() {
	case html.StartTagToken, html.SelfClosingTagToken:
	default:
		return directive{}, false
	}
	tok := z.Token()

	source := sourceValues(attrText)
	d := directive{raw: raw, attrs: make(map[string]string, len(tok.Attr))}
	seen := make(map[string]bool, len(tok.Attr))
	for _, a := range tok.Attr {
		name, ok := strings.CutPrefix(a.Key, "data-")
		if !ok || name == "" || seen[a.Key] {
			continue
		}
		seen[a.Key] = true
		switch name {
		case AttrInclude:
			d.path = strings.TrimSpace(a.Val)
		case AttrVariant:
			d.variant = a.Val
		}
		val, ok := source[a.Key]
		if !ok {
			val = a.Val
		}
		d.attrs[util.CamelCase(name)] = val
	}
	if d.path == "" {
		return directive{}, false
	}
	return d, true
}

type located struct {
	start, end int
	directive
}

func findDirectives(doc string) []located {
	var found []located
	for _, loc := range emptyElement.FindAllStringSubmatchIndex(doc, -1) {
		closeTag := ""
		if loc[6] >= 0 {
			closeTag = doc[loc[6]:loc[7]]
		}
		d, ok := parseDirective(doc[loc[0]:loc[1]], doc[loc[2]:loc[3]], doc[loc[4]:loc[5]], closeTag)
		if !ok {
			continue
		}
		found = append(found, located{start: loc[0], end: loc[1], directive: d})
	}
	return found
}

// Expand replaces every data-include directive in doc with the referenced
// fragment, recursively. Problems with single directives are logged and
// leave the rest of the document untouched.
func (c *Composer) Expand(doc string) string {
	return c.expand(doc, 0, c.log)
}

func (c *Composer) expand(doc string, depth int, log *slog.Logger) string {
	found := findDirectives(doc)
	if len(found) == 0 {
		return doc
	}
	if depth >= MaxIncludeDepth {
		c.warn(log, "Include depth limit reached, leaving nested includes unexpanded",
			"depth", depth, "component", found[0].path)
		return doc
	}

	var b strings.Builder
	b.Grow(len(doc))
	last := 0
	for _, f := range found {
		b.WriteString(doc[last:f.start])
		b.WriteString(c.expandDirective(f.directive, depth, log))
		last = f.end
	}
	b.WriteString(doc[last:])
	return b.String()
}

func (c *Composer) expandDirective(d directive, depth int, log *slog.Logger) string {
	log = log.With("component", d.path)

	file, err := c.componentFile(d.path)
	if err != nil {
		c.warn(log, "Failed to inject component", "error", err)
		return d.raw
	}
	data, err := os.ReadFile(file)
	if err != nil {
		c.warn(log, "Failed to inject component", "error", err)
		return d.raw
	}

	sel, err := SelectVariant(strings.TrimSpace(string(data)), d.variant)
	if err != nil {
		c.warnings++
		log.Error("Component has variants but no default", "variant", sel.Requested, "error", err)
		return errorMarker(d.path, err)
	}
	if sel.Fallback {
		c.warn(log, "Variant not found, using default",
			"variant", sel.Requested, "default", DefaultVariant)
	}

	content := Substitute(sel.Content, d.attrs)
	return c.expand(content, depth+1, log)
}

// errorMarker is left in the output in place of a component that could not
// be rendered at all.
func errorMarker(path string, err error) string {
	msg := strings.ReplaceAll(err.Error(), "--", "- -")
	return fmt.Sprintf("<!-- ERROR: component %q: %s -->", path, msg)
}
