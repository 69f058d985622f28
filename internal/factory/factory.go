// Package factory validates and constructs new vault items.
package factory

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/starford/artha/internal/models"
	"github.com/starford/artha/internal/templates"
)

const maxFilenameLength = 200

var (
	slugStripRe    = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	hyphenRunRe    = regexp.MustCompile(`-+`)
	invalidFileRe  = regexp.MustCompile(`[<>:"/\\|?*]`)
	fileWhitespace = regexp.MustCompile(`\s+`)
)

// Result is the output of a successful item construction: the in-memory
// item, its rendered file content, and its vault-relative target path.
type Result struct {
	Item     models.Item
	Markdown string
	FilePath string
}

// Factory builds typed vault items from create requests.
type Factory struct {
	registry *templates.Registry
	now      func() time.Time
}

// New creates a factory rendering through the given template registry.
func New(registry *templates.Registry) *Factory {
	return &Factory{registry: registry, now: time.Now}
}

// CreateItem dispatches on the request type, applies per-type defaults,
// validates the constructed item, and renders its file content. A schema
// violation returns an apperr.ValidationError listing every bad field.
func (f *Factory) CreateItem(req models.CreateRequest) (*Result, error) {
	item, err := f.build(req)
	if err != nil {
		return nil, err
	}
	return f.finish(item)
}

// CloneItem builds a copy of original with overrides applied, a freshly
// generated id, and new timestamps. Clones are never identity-preserving.
func (f *Factory) CloneItem(original models.Item, overrides *models.Updates) (*Result, error) {
	clone := original.Clone()
	if overrides != nil {
		overrides.Apply(clone)
	}

	now := f.now()
	b := clone.Base()
	b.ID = GenerateID(b.Title, b.Type, now)
	b.CreatedAt = now
	b.UpdatedAt = now

	return f.finish(clone)
}

// TemplateItem produces a minimally-valid item of the given type for
// preview purposes. It is not validated and touches no disk.
func (f *Factory) TemplateItem(t models.ItemType, title string) models.Item {
	now := f.now()
	base := models.BaseItem{
		ID:        GenerateID(title, t, now),
		Type:      t,
		Title:     title,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch t {
	case models.TypeTask:
		base.Status = "To Do"
		return &models.Task{BaseItem: base, ParentProjects: []string{}, Priority: "Medium"}
	case models.TypeEpic:
		base.Status = "Planning"
		return &models.Epic{BaseItem: base, Tasks: []string{}}
	case models.TypeArea:
		base.Status = "Active"
		return &models.Area{BaseItem: base, Maintenance: "Weekly", ActiveProjects: []string{},
			CurrentFocus: models.Focus{Ongoing: []string{}}}
	case models.TypeResource:
		base.Status = "Active"
		return &models.Resource{BaseItem: base, Areas: []string{}, KeyTopics: []string{}}
	}
	return nil
}

func (f *Factory) build(req models.CreateRequest) (models.Item, error) {
	now := f.now()
	base := models.BaseItem{
		ID:        GenerateID(req.Title, req.Type, now),
		Type:      req.Type,
		Title:     req.Title,
		Status:    req.Status,
		Content:   req.Content,
		Tags:      nonNil(req.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch req.Type {
	case models.TypeTask:
		if base.Status == "" {
			base.Status = "To Do"
		}
		priority := req.Priority
		if priority == "" {
			priority = "Medium"
		}
		return &models.Task{
			BaseItem:       base,
			DueDate:        req.DueDate,
			ParentProjects: nonNil(req.ParentProjects),
			Area:           req.Area,
			Priority:       priority,
		}, nil
	case models.TypeEpic:
		if base.Status == "" {
			base.Status = "Planning"
		}
		return &models.Epic{
			BaseItem: base,
			DueDate:  req.DueDate,
			Area:     req.Area,
			Image:    req.Image,
			Tasks:    []string{},
		}, nil
	case models.TypeArea:
		if base.Status == "" {
			base.Status = "Active"
		}
		maintenance := req.Maintenance
		if maintenance == "" {
			maintenance = "Weekly"
		}
		return &models.Area{
			BaseItem:       base,
			Maintenance:    maintenance,
			Pinned:         req.Pinned,
			Purpose:        req.Purpose,
			ActiveProjects: []string{},
			CurrentFocus:   models.Focus{Ongoing: []string{}},
		}, nil
	case models.TypeResource:
		if base.Status == "" {
			base.Status = "Active"
		}
		return &models.Resource{
			BaseItem:        base,
			Pinned:          req.Pinned,
			Areas:           nonNil(req.Areas),
			Purpose:         req.Purpose,
			ContentOverview: req.ContentOverview,
			KeyTopics:       nonNil(req.KeyTopics),
			UsageNotes:      req.UsageNotes,
			Maintenance:     req.Maintenance,
		}, nil
	default:
		return nil, fmt.Errorf("factory: unknown item type: %q", req.Type)
	}
}

func (f *Factory) finish(item models.Item) (*Result, error) {
	if err := validate(item); err != nil {
		return nil, err
	}
	b := item.Base()
	return &Result{
		Item:     item,
		Markdown: f.registry.RenderItem(item),
		FilePath: filepath.Join(b.Type.Directory(), SanitizeFilename(b.Title)+".md"),
	}, nil
}

func validate(item models.Item) error {
	switch it := item.(type) {
	case *models.Task:
		return it.Validate()
	case *models.Epic:
		return it.Validate()
	case *models.Area:
		return it.Validate()
	case *models.Resource:
		return it.Validate()
	}
	return fmt.Errorf("factory: unknown item type: %T", item)
}

// GenerateID builds an item id from the title slug, the type, and a base36
// millisecond timestamp. Uniqueness rests on the timestamp component alone:
// two creations of the same title in the same millisecond collide.
func GenerateID(title string, t models.ItemType, now time.Time) string {
	slug := strings.ToLower(title)
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = whitespaceRe.ReplaceAllString(slug, "-")
	slug = hyphenRunRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	ts := strconv.FormatInt(now.UnixMilli(), 36)
	return strings.ToLower(string(t)) + "-" + slug + "-" + ts
}

// SanitizeFilename strips characters invalid on common filesystems,
// collapses internal whitespace, trims, and truncates. The same function
// runs at create time and at any later path reconstruction.
func SanitizeFilename(name string) string {
	out := invalidFileRe.ReplaceAllString(name, "")
	out = fileWhitespace.ReplaceAllString(out, " ")
	out = strings.TrimSpace(out)
	if len(out) > maxFilenameLength {
		out = out[:maxFilenameLength]
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
