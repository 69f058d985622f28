// Package templates renders vault items to Markdown through per-type body
// templates with {{var}} placeholders.
package templates

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/starford/artha/internal/markdown"
	"github.com/starford/artha/internal/models"
)

// Registry resolves the body template for each item type. Override files
// under <vault>/_templates/<type>.md take precedence over the built-in
// defaults; they are loaded lazily and cached for the process lifetime.
// Load failures fall back to the default silently.
type Registry struct {
	dir    string
	logger *slog.Logger

	mu    sync.Mutex
	cache map[models.ItemType]string
}

// NewRegistry creates a registry for the vault rooted at root.
func NewRegistry(root string, logger *slog.Logger) *Registry {
	return &Registry{
		dir:    filepath.Join(root, models.DirTemplates),
		logger: logger,
		cache:  make(map[models.ItemType]string),
	}
}

// Template returns the body template for the given type.
func (r *Registry) Template(t models.ItemType) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.cache[t]; ok {
		return tmpl
	}

	tmpl := defaultTemplate(t)
	path := filepath.Join(r.dir, strings.ToLower(string(t))+".md")
	if data, err := os.ReadFile(path); err == nil {
		tmpl = string(data)
	} else if !os.IsNotExist(err) {
		r.logger.Warn("template load failed, using default",
			slog.String("path", path), slog.String("error", err.Error()))
	}

	r.cache[t] = tmpl
	return tmpl
}

// RenderItem produces the full file content for an item: generated
// frontmatter plus the type's template applied over the item's variables.
func (r *Registry) RenderItem(item models.Item) string {
	body := Apply(r.Template(item.Base().Type), Vars(item))
	return markdown.Render(Frontmatter(item), body)
}

// Apply substitutes every known {{key}} placeholder in the template.
// Placeholders with no matching key, including malformed ones like an
// unmatched {{title, are left verbatim rather than erroring.
func Apply(template string, vars map[string]string) string {
	out := template
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}

// Vars flattens an item into the template variable map. Arrays join with
// ", ", booleans stringify, and nested focus fields are reachable by
// dotted path (currentFocus.primary).
func Vars(item models.Item) map[string]string {
	b := item.Base()
	vars := map[string]string{
		"title":     b.Title,
		"status":    b.Status,
		"tags":      strings.Join(b.Tags, ", "),
		"content":   b.Content,
		"createdAt": b.CreatedAt.Format(time.RFC3339),
		"updatedAt": b.UpdatedAt.Format(time.RFC3339),
	}

	switch it := item.(type) {
	case *models.Task:
		vars["dueDate"] = it.DueDate
		vars["parentProjects"] = strings.Join(it.ParentProjects, ", ")
		vars["area"] = it.Area
		vars["priority"] = it.Priority
	case *models.Epic:
		vars["dueDate"] = it.DueDate
		vars["area"] = it.Area
		vars["image"] = it.Image
		vars["tasks"] = strings.Join(it.Tasks, ", ")
	case *models.Area:
		vars["maintenance"] = it.Maintenance
		vars["pinned"] = boolString(it.Pinned)
		vars["purpose"] = it.Purpose
		vars["activeProjects"] = strings.Join(it.ActiveProjects, ", ")
		vars["currentFocus"] = it.CurrentFocus.Primary
		vars["currentFocus.primary"] = it.CurrentFocus.Primary
		vars["currentFocus.secondary"] = it.CurrentFocus.Secondary
		vars["currentFocus.ongoing"] = strings.Join(it.CurrentFocus.Ongoing, ", ")
	case *models.Resource:
		vars["pinned"] = boolString(it.Pinned)
		vars["areas"] = strings.Join(it.Areas, ", ")
		vars["purpose"] = it.Purpose
		vars["contentOverview"] = it.ContentOverview
		vars["keyTopics"] = strings.Join(it.KeyTopics, ", ")
		vars["usageNotes"] = it.UsageNotes
		vars["maintenance"] = it.Maintenance
	}

	return vars
}

// Frontmatter builds the ordered frontmatter fields for an item using the
// human-readable key names the scanner reads back.
func Frontmatter(item models.Item) []markdown.Field {
	b := item.Base()
	fields := []markdown.Field{
		{Key: "Type", Value: string(b.Type)},
		{Key: "Status", Value: b.Status},
	}

	switch it := item.(type) {
	case *models.Task:
		fields = appendIfSet(fields, "Due Date", it.DueDate)
		fields = appendIfAny(fields, "Parent Projects", it.ParentProjects)
		fields = appendIfSet(fields, "Area", it.Area)
		fields = appendIfSet(fields, "Priority", it.Priority)
	case *models.Epic:
		fields = appendIfSet(fields, "Due Date", it.DueDate)
		fields = appendIfSet(fields, "Area", it.Area)
		fields = appendIfSet(fields, "Image", it.Image)
		fields = appendIfAny(fields, "Tasks", it.Tasks)
	case *models.Area:
		fields = appendIfSet(fields, "Maintenance", it.Maintenance)
		fields = append(fields, markdown.Field{Key: "Pinned", Value: it.Pinned})
		fields = appendIfSet(fields, "Purpose", it.Purpose)
		fields = appendIfAny(fields, "Active Projects", it.ActiveProjects)
		fields = appendIfSet(fields, "Current Focus", it.CurrentFocus.Primary)
	case *models.Resource:
		fields = append(fields, markdown.Field{Key: "Pinned", Value: it.Pinned})
		fields = appendIfAny(fields, "Areas", it.Areas)
		fields = appendIfSet(fields, "Purpose", it.Purpose)
		fields = appendIfSet(fields, "Content Overview", it.ContentOverview)
		fields = appendIfAny(fields, "Key Topics", it.KeyTopics)
		fields = appendIfSet(fields, "Usage Notes", it.UsageNotes)
		fields = appendIfSet(fields, "Maintenance", it.Maintenance)
	}

	fields = append(fields,
		markdown.Field{Key: "Tags", Value: nonNil(b.Tags)},
		markdown.Field{Key: "Created", Value: b.CreatedAt},
		markdown.Field{Key: "Updated", Value: b.UpdatedAt},
	)
	return fields
}

func appendIfSet(fields []markdown.Field, key, value string) []markdown.Field {
	if value == "" {
		return fields
	}
	return append(fields, markdown.Field{Key: key, Value: value})
}

func appendIfAny(fields []markdown.Field, key string, values []string) []markdown.Field {
	if len(values) == 0 {
		return fields
	}
	return append(fields, markdown.Field{Key: key, Value: values})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
