package templates

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/artha/internal/markdown"
	"github.com/starford/artha/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestApplySubstitutesKnownVars(t *testing.T) {
	out := Apply("# {{title}}\nStatus: {{status}}", map[string]string{
		"title":  "My Task",
		"status": "To Do",
	})
	want := "# My Task\nStatus: To Do"
	if out != want {
		t.Errorf("Apply = %q, want %q", out, want)
	}
}

func TestApplyLeavesUnknownPlaceholders(t *testing.T) {
	out := Apply("{{title}} and {{mystery}}", map[string]string{"title": "X"})
	if out != "X and {{mystery}}" {
		t.Errorf("Apply = %q", out)
	}
}

func TestApplyLeavesMalformedPlaceholders(t *testing.T) {
	out := Apply("{{title and {{status}}", map[string]string{
		"title":  "X",
		"status": "Open",
	})
	if out != "{{title and Open" {
		t.Errorf("Apply = %q", out)
	}
}

func TestVarsDottedFocusPaths(t *testing.T) {
	area := &models.Area{
		BaseItem: models.BaseItem{Type: models.TypeArea, Title: "Work"},
		CurrentFocus: models.Focus{
			Primary:   "Ship v1",
			Secondary: "Hiring",
			Ongoing:   []string{"Reviews", "Mentoring"},
		},
	}
	vars := Vars(area)
	if vars["currentFocus.primary"] != "Ship v1" {
		t.Errorf("primary = %q", vars["currentFocus.primary"])
	}
	if vars["currentFocus.secondary"] != "Hiring" {
		t.Errorf("secondary = %q", vars["currentFocus.secondary"])
	}
	if vars["currentFocus.ongoing"] != "Reviews, Mentoring" {
		t.Errorf("ongoing = %q", vars["currentFocus.ongoing"])
	}
}

func TestRegistryUsesOverrideFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, models.DirTemplates)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	custom := "# {{title}}\n\nCustom task layout.\n"
	if err := os.WriteFile(filepath.Join(dir, "task.md"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry(root, testLogger())
	if got := r.Template(models.TypeTask); got != custom {
		t.Errorf("template = %q, want override", got)
	}
	// Other types still fall back to defaults.
	if got := r.Template(models.TypeEpic); !strings.Contains(got, "{{title}}") {
		t.Errorf("epic default missing title placeholder: %q", got)
	}
}

func TestRegistryDefaultWhenNoOverride(t *testing.T) {
	r := NewRegistry(t.TempDir(), testLogger())
	got := r.Template(models.TypeTask)
	if !strings.Contains(got, "{{title}}") {
		t.Errorf("default task template missing title placeholder: %q", got)
	}
}

func TestRenderItemRoundTrips(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	task := &models.Task{
		BaseItem: models.BaseItem{
			ID: "task-x", Type: models.TypeTask, Title: "Write Docs",
			Status: "To Do", Tags: []string{"docs"},
			CreatedAt: now, UpdatedAt: now,
		},
		DueDate:  "2026-09-01",
		Area:     "Work",
		Priority: "High",
	}

	r := NewRegistry(t.TempDir(), testLogger())
	out := r.RenderItem(task)

	p := markdown.Parse([]byte(out))
	if got := p.Frontmatter["Type"]; got != "Task" {
		t.Errorf("Type = %v", got)
	}
	if got := p.Frontmatter["Due Date"]; got != "2026-09-01" {
		t.Errorf("Due Date = %v", got)
	}
	if got := p.Frontmatter["Priority"]; got != "High" {
		t.Errorf("Priority = %v", got)
	}
	if !strings.Contains(p.Body, "# Write Docs") {
		t.Errorf("body missing title heading: %q", p.Body)
	}
}

func TestFrontmatterOrderStable(t *testing.T) {
	now := time.Now()
	task := &models.Task{
		BaseItem: models.BaseItem{
			Type: models.TypeTask, Status: "To Do",
			CreatedAt: now, UpdatedAt: now,
		},
		Priority: "Low",
	}
	fields := Frontmatter(task)
	if fields[0].Key != "Type" || fields[1].Key != "Status" {
		t.Errorf("leading keys = %s, %s", fields[0].Key, fields[1].Key)
	}
	last := fields[len(fields)-1]
	if last.Key != "Updated" {
		t.Errorf("last key = %s", last.Key)
	}
}
