// Package markdown splits and assembles vault files: a YAML frontmatter
// block between --- delimiters followed by a free-text Markdown body.
package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var headingRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// Parsed holds the two halves of a vault file.
type Parsed struct {
	Frontmatter map[string]interface{}
	Body        string
}

// Field is one frontmatter key/value pair. Render emits fields in slice
// order so files stay deterministic.
type Field struct {
	Key   string
	Value interface{}
}

// Parse splits raw content into frontmatter and body. A missing or
// unclosed frontmatter block yields an empty map and the whole content as
// body; so does invalid YAML. Parse never fails.
func Parse(data []byte) Parsed {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return Parsed{Frontmatter: map[string]interface{}{}, Body: string(data)}
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return Parsed{Frontmatter: map[string]interface{}{}, Body: string(data)}
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]interface{}
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil || fm == nil {
		return Parsed{Frontmatter: map[string]interface{}{}, Body: string(data)}
	}

	return Parsed{Frontmatter: fm, Body: body}
}

// Render assembles a vault file: ---, one line per field, ---, blank line,
// body. Strings are always quoted with interior quotes escaped, string
// arrays render inline as ["a", "b"], booleans and numbers render bare.
// Nil values are skipped. parse(render(fields, body)) reproduces every
// primitive field and the body.
func Render(fields []Field, body string) string {
	var b strings.Builder
	b.WriteString("---\n")
	for _, f := range fields {
		if f.Value == nil {
			continue
		}
		b.WriteString(f.Key)
		b.WriteString(": ")
		b.WriteString(renderValue(f.Value))
		b.WriteString("\n")
	}
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String()
}

func renderValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return quote(val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int, int64, float64:
		return fmt.Sprintf("%v", val)
	case time.Time:
		return quote(val.Format(time.RFC3339))
	case []string:
		quoted := make([]string, len(val))
		for i, s := range val {
			quoted[i] = quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return quote(fmt.Sprintf("%v", val))
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
}

// ExtractTitle returns the first # heading of the body, falling back to
// the filename without its .md extension.
func ExtractTitle(body, filename string) string {
	if m := headingRe.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSuffix(filename, ".md")
}
