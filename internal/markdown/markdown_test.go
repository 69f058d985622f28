package markdown

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFrontmatterAndBody(t *testing.T) {
	raw := "---\nType: \"Task\"\nStatus: \"To Do\"\nTags: [\"go\", \"vault\"]\n---\n\n# Hello\n\nBody text.\n"
	p := Parse([]byte(raw))

	if got := p.Frontmatter["Type"]; got != "Task" {
		t.Errorf("Type = %v, want Task", got)
	}
	if got := p.Frontmatter["Status"]; got != "To Do" {
		t.Errorf("Status = %v, want To Do", got)
	}
	if p.Body != "# Hello\n\nBody text.\n" {
		t.Errorf("body = %q", p.Body)
	}
}

func TestParseNoFrontmatter(t *testing.T) {
	raw := "# Just a heading\n\nContent.\n"
	p := Parse([]byte(raw))
	if len(p.Frontmatter) != 0 {
		t.Errorf("frontmatter = %v, want empty", p.Frontmatter)
	}
	if p.Body != raw {
		t.Errorf("body = %q, want whole content", p.Body)
	}
}

func TestParseUnclosedFrontmatter(t *testing.T) {
	raw := "---\nType: \"Task\"\n\n# No closing delimiter\n"
	p := Parse([]byte(raw))
	if len(p.Frontmatter) != 0 {
		t.Errorf("frontmatter = %v, want empty", p.Frontmatter)
	}
	if p.Body != raw {
		t.Errorf("body = %q, want whole content", p.Body)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	raw := "---\n{not yaml: [\n---\n\nbody\n"
	p := Parse([]byte(raw))
	if len(p.Frontmatter) != 0 {
		t.Errorf("frontmatter = %v, want empty", p.Frontmatter)
	}
	if p.Body != raw {
		t.Errorf("body = %q, want whole content", p.Body)
	}
}

func TestParseLeadingBlankLines(t *testing.T) {
	raw := "\n\n---\nType: \"Area\"\n---\nbody\n"
	p := Parse([]byte(raw))
	if got := p.Frontmatter["Type"]; got != "Area" {
		t.Errorf("Type = %v, want Area", got)
	}
	if p.Body != "body\n" {
		t.Errorf("body = %q", p.Body)
	}
}

func TestRenderFieldOrderAndQuoting(t *testing.T) {
	out := Render([]Field{
		{Key: "Type", Value: "Task"},
		{Key: "Status", Value: `say "hi"`},
		{Key: "Pinned", Value: true},
		{Key: "Tags", Value: []string{"a", "b"}},
		{Key: "Skipped", Value: nil},
	}, "# Title\n")

	want := "---\n" +
		"Type: \"Task\"\n" +
		"Status: \"say \\\"hi\\\"\"\n" +
		"Pinned: true\n" +
		"Tags: [\"a\", \"b\"]\n" +
		"---\n\n" +
		"# Title\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	out := Render([]Field{
		{Key: "Type", Value: "Resource"},
		{Key: "Status", Value: "Active"},
		{Key: "Tags", Value: []string{"ref", "go"}},
	}, "# Resource\n\nNotes.\n")

	p := Parse([]byte(out))
	if got := p.Frontmatter["Type"]; got != "Resource" {
		t.Errorf("Type = %v", got)
	}
	if got := p.Frontmatter["Status"]; got != "Active" {
		t.Errorf("Status = %v", got)
	}
	tags, ok := p.Frontmatter["Tags"].([]interface{})
	if !ok || len(tags) != 2 || tags[0] != "ref" {
		t.Errorf("Tags = %v", p.Frontmatter["Tags"])
	}
	if p.Body != "# Resource\n\nNotes.\n" {
		t.Errorf("body = %q", p.Body)
	}
}

func TestExtractTitle(t *testing.T) {
	if got := ExtractTitle("# My Title\n\nbody", "fallback.md"); got != "My Title" {
		t.Errorf("title = %q", got)
	}
	if got := ExtractTitle("no heading here", "fallback.md"); got != "fallback" {
		t.Errorf("fallback title = %q", got)
	}
}

func TestExtractTitleSkipsSubheadings(t *testing.T) {
	body := "## Sub first\n\n# Real Title\n"
	if got := ExtractTitle(body, "x.md"); got != "Real Title" {
		t.Errorf("title = %q", got)
	}
}

func TestRenderEmptyTagsInline(t *testing.T) {
	out := Render([]Field{{Key: "Tags", Value: []string{}}}, "")
	if !strings.Contains(out, "Tags: []\n") {
		t.Errorf("output = %q, want inline empty array", out)
	}
}
