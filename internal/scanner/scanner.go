// Package scanner walks the vault's type directories and turns Markdown
// files into typed items. It is the only authoritative read path from disk.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/starford/artha/internal/apperr"
	"github.com/starford/artha/internal/markdown"
	"github.com/starford/artha/internal/models"
)

// StaleAfter is how old a scan may be before callers should refresh.
// The scanner exposes staleness but never schedules rescans itself.
const StaleAfter = 5 * time.Minute

type entry struct {
	item models.Item
	path string // vault-relative
}

// Scanner scans a vault directory tree. Its id→(item, path) map is rebuilt
// on every scan and is best-effort only; disk remains ground truth.
type Scanner struct {
	root   string
	logger *slog.Logger

	mu       sync.Mutex
	entries  map[string]entry
	lastScan time.Time
	now      func() time.Time
}

// New creates a scanner rooted at the vault directory.
func New(root string, logger *slog.Logger) *Scanner {
	return &Scanner{
		root:    root,
		logger:  logger,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// ScanAll walks the three type directories and parses every Markdown file
// into an item. Missing directories yield zero items. Files that cannot be
// read, parsed, or whose Type is absent or not allowed for their directory
// are logged and skipped; a single bad file never aborts a scan.
func (s *Scanner) ScanAll(ctx context.Context) ([]models.Item, error) {
	dirs := []struct {
		name    string
		allowed map[models.ItemType]bool
	}{
		{models.DirProjects, map[models.ItemType]bool{models.TypeTask: true, models.TypeEpic: true}},
		{models.DirAreas, map[models.ItemType]bool{models.TypeArea: true}},
		{models.DirResources, map[models.ItemType]bool{models.TypeResource: true}},
	}

	var items []models.Item
	fresh := make(map[string]entry)

	for _, dir := range dirs {
		if err := s.scanDir(ctx, dir.name, dir.allowed, &items, fresh); err != nil {
			return nil, fmt.Errorf("scanner: scan %s: %w", dir.name, err)
		}
	}

	s.mu.Lock()
	s.entries = fresh
	s.lastScan = s.now()
	s.mu.Unlock()

	return items, nil
}

func (s *Scanner) scanDir(ctx context.Context, dir string, allowed map[models.ItemType]bool, items *[]models.Item, fresh map[string]entry) error {
	base := filepath.Join(s.root, dir)
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == base {
				return walkErr
			}
			s.logger.Warn("scan: walk failed", slog.String("path", path), slog.String("error", walkErr.Error()))
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		item, err := s.parseFile(path, allowed)
		if err != nil {
			s.logger.Warn("scan: skipping file", slog.String("path", path), slog.String("error", err.Error()))
			return nil
		}
		if item == nil {
			return nil // type absent or not allowed here
		}

		rel, _ := filepath.Rel(s.root, path)
		*items = append(*items, item)
		fresh[item.Base().ID] = entry{item: item, path: rel}
		return nil
	})
}

// FindItemByID answers from the current map, triggering one full rescan on
// a miss. A second miss after the rescan is a definitive not-found.
func (s *Scanner) FindItemByID(ctx context.Context, id string) (models.Item, error) {
	s.mu.Lock()
	e, ok := s.entries[id]
	s.mu.Unlock()
	if ok {
		return e.item, nil
	}

	if _, err := s.ScanAll(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	e, ok = s.entries[id]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("scanner: item %s: %w", id, apperr.ErrNotFound)
	}
	return e.item, nil
}

// FindFilePathByID resolves an id to its vault-relative file path with the
// same single-rescan policy as FindItemByID.
func (s *Scanner) FindFilePathByID(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	e, ok := s.entries[id]
	s.mu.Unlock()
	if ok {
		return e.path, nil
	}

	if _, err := s.ScanAll(ctx); err != nil {
		return "", err
	}

	s.mu.Lock()
	e, ok = s.entries[id]
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("scanner: file for item %s: %w", id, apperr.ErrNotFound)
	}
	return e.path, nil
}

// Forget drops the cached entry for id so the next lookup consults disk.
// Callers use it after writing or deleting an item's file.
func (s *Scanner) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// LastScanTime returns when the last successful scan completed.
func (s *Scanner) LastScanTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastScan
}

// IsStale reports whether the last scan is older than StaleAfter, or no
// scan has run yet.
func (s *Scanner) IsStale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastScan.IsZero() || s.now().Sub(s.lastScan) > StaleAfter
}

// Size returns the number of items found by the last scan.
func (s *Scanner) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// parseFile reads and parses one Markdown file. A nil item with nil error
// means the file is not a vault item for this directory.
func (s *Scanner) parseFile(path string, allowed map[models.ItemType]bool) (models.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	parsed := markdown.Parse(data)
	itemType := models.ItemType(fmString(parsed.Frontmatter, "Type", "type"))
	if !allowed[itemType] {
		return nil, nil
	}

	title := markdown.ExtractTitle(parsed.Body, filepath.Base(path))
	id := s.idFromPath(path)
	return buildItem(id, itemType, title, parsed), nil
}

// idFromPath derives the scan-time id from the file's vault-relative path:
// lowercased, extension dropped, separators replaced with hyphens. This
// intentionally differs from the factory's title+timestamp scheme; the
// path-derived id is the durable one after any rescan.
func (s *Scanner) idFromPath(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = path
	}
	rel = strings.TrimSuffix(rel, ".md")
	rel = strings.ToLower(rel)
	return strings.ReplaceAll(rel, string(filepath.Separator), "-")
}

func buildItem(id string, itemType models.ItemType, title string, parsed markdown.Parsed) models.Item {
	fm := parsed.Frontmatter
	now := time.Now()

	base := models.BaseItem{
		ID:        id,
		Type:      itemType,
		Title:     title,
		Status:    fmStringDefault(fm, "Status", "status", "Active"),
		Content:   parsed.Body,
		Tags:      fmStrings(fm, "Tags", "tags"),
		CreatedAt: fmTime(fm, "Created", "created", now),
		UpdatedAt: fmTime(fm, "Updated", "updated", now),
	}

	switch itemType {
	case models.TypeTask:
		return &models.Task{
			BaseItem:       base,
			DueDate:        fmString(fm, "Due Date", "dueDate"),
			ParentProjects: fmStrings(fm, "Parent Projects", "parentProjects"),
			Area:           fmString(fm, "Area", "area"),
			Priority:       fmStringDefault(fm, "Priority", "priority", "Medium"),
		}
	case models.TypeEpic:
		return &models.Epic{
			BaseItem: base,
			DueDate:  fmString(fm, "Due Date", "dueDate"),
			Area:     fmString(fm, "Area", "area"),
			Image:    fmString(fm, "Image", "image"),
			Tasks:    fmStrings(fm, "Tasks", "tasks"),
		}
	case models.TypeArea:
		return &models.Area{
			BaseItem:       base,
			Maintenance:    fmStringDefault(fm, "Maintenance", "maintenance", "Weekly"),
			Pinned:         fmBool(fm, "Pinned", "pinned"),
			Purpose:        fmString(fm, "Purpose", "purpose"),
			ActiveProjects: fmStrings(fm, "Active Projects", "activeProjects"),
			CurrentFocus: models.Focus{
				Primary: fmString(fm, "Current Focus", "currentFocus"),
				Ongoing: []string{},
			},
		}
	case models.TypeResource:
		return &models.Resource{
			BaseItem:        base,
			Pinned:          fmBool(fm, "Pinned", "pinned"),
			Areas:           fmStrings(fm, "Areas", "areas"),
			Purpose:         fmString(fm, "Purpose", "purpose"),
			ContentOverview: fmString(fm, "Content Overview", "contentOverview"),
			KeyTopics:       fmStrings(fm, "Key Topics", "keyTopics"),
			UsageNotes:      fmString(fm, "Usage Notes", "usageNotes"),
			Maintenance:     fmString(fm, "Maintenance", "maintenance"),
		}
	}
	return nil
}
