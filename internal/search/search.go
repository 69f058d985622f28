// Package search maintains a fuzzy-searchable projection of the current
// item set.
package search

import (
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/starford/artha/internal/apperr"
	"github.com/starford/artha/internal/models"
)

// Search limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

const contentPreviewLen = 200

// Result is one search response. Total counts the filtered matches before
// limit truncation, so len(Items) <= Total always and callers can detect
// truncation. Highlights maps item id to matched byte positions within the
// item's projection string; ids without highlightable positions are absent.
type Result struct {
	Items      []models.Item    `json:"items"`
	Total      int              `json:"total"`
	Query      string           `json:"query"`
	Highlights map[string][]int `json:"highlights,omitempty"`
}

// Stats summarizes index usage.
type Stats struct {
	HitRate       float64   `json:"hitRate"`
	TotalSearches int       `json:"totalSearches"`
	Size          int       `json:"size"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// Index holds a parallel array of items and one lowercase searchable
// string per item. Every mutation rebuilds the projection over the full
// item slice; the cost is proportional to vault size, not request rate.
type Index struct {
	mu          sync.RWMutex
	items       []models.Item
	keys        []string
	ready       bool
	lastUpdated time.Time
	hits        int
	misses      int
}

// New creates an empty, not-yet-ready index.
func New() *Index {
	return &Index{}
}

// Update replaces the index contents with a full rebuild.
func (ix *Index) Update(items []models.Item) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.items = make([]models.Item, len(items))
	copy(ix.items, items)
	ix.rebuild()
}

// Add appends one item and rebuilds.
func (ix *Index) Add(item models.Item) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.items = append(ix.items, item)
	ix.rebuild()
}

// Upsert replaces the item with the same id, or appends it, then rebuilds.
func (ix *Index) Upsert(item models.Item) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	replaced := false
	for i, existing := range ix.items {
		if existing.Base().ID == item.Base().ID {
			ix.items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		ix.items = append(ix.items, item)
	}
	ix.rebuild()
}

// Remove drops the item with the given id, if present, and rebuilds.
func (ix *Index) Remove(id string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	kept := ix.items[:0]
	for _, item := range ix.items {
		if item.Base().ID != id {
			kept = append(kept, item)
		}
	}
	ix.items = kept
	ix.rebuild()
}

// rebuild recomputes the projection strings. Caller holds the write lock.
func (ix *Index) rebuild() {
	ix.keys = make([]string, len(ix.items))
	for i, item := range ix.items {
		ix.keys[i] = searchableString(item)
	}
	ix.ready = true
	ix.lastUpdated = time.Now()
}

// Search fuzzy-matches the query against the projection, then applies the
// type, area, status, and tags filters in that order before truncating to
// the limit. An empty query matches everything in insertion order.
// Searching before the first Update returns apperr.ErrIndexNotReady.
func (ix *Index) Search(req models.SearchRequest) (*Result, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if !ix.ready {
		ix.misses++
		return nil, apperr.ErrIndexNotReady
	}
	ix.hits++

	highlights := make(map[string][]int)
	var matched []models.Item

	if req.Query == "" {
		matched = append(matched, ix.items...)
	} else {
		for _, m := range fuzzy.Find(strings.ToLower(req.Query), ix.keys) {
			item := ix.items[m.Index]
			matched = append(matched, item)
			if len(m.MatchedIndexes) > 0 {
				highlights[item.Base().ID] = m.MatchedIndexes
			}
		}
	}

	filtered := matched[:0:0]
	for _, item := range matched {
		if req.Type != "" && item.Base().Type != req.Type {
			continue
		}
		if req.Area != "" && !models.MatchesArea(item, req.Area) {
			continue
		}
		if req.Status != "" && item.Base().Status != req.Status {
			continue
		}
		if len(req.Tags) > 0 && !models.SharesTag(item, req.Tags) {
			continue
		}
		filtered = append(filtered, item)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	total := len(filtered)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	return &Result{
		Items:      filtered,
		Total:      total,
		Query:      req.Query,
		Highlights: highlights,
	}, nil
}

// Ready reports whether the index has been populated at least once.
func (ix *Index) Ready() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.ready
}

// Size returns the number of indexed items.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.items)
}

// HitRate returns hits/(hits+misses), or 0 before any search.
func (ix *Index) HitRate() float64 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	total := ix.hits + ix.misses
	if total == 0 {
		return 0
	}
	return float64(ix.hits) / float64(total)
}

// GetStats returns usage statistics.
func (ix *Index) GetStats() Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	total := ix.hits + ix.misses
	rate := 0.0
	if total > 0 {
		rate = float64(ix.hits) / float64(total)
	}
	return Stats{
		HitRate:       rate,
		TotalSearches: total,
		Size:          len(ix.items),
		LastUpdated:   ix.lastUpdated,
	}
}

// searchableString concatenates the fields fuzzy matching runs over:
// title, type, status, tags, the type-specific fields, and a content
// preview, all lowercased.
func searchableString(item models.Item) string {
	b := item.Base()
	parts := []string{b.Title, string(b.Type), b.Status}
	parts = append(parts, b.Tags...)

	switch it := item.(type) {
	case *models.Task:
		parts = appendNonEmpty(parts, it.Area, it.Priority, it.DueDate)
		parts = append(parts, it.ParentProjects...)
	case *models.Epic:
		parts = appendNonEmpty(parts, it.Area, it.DueDate)
		parts = append(parts, it.Tasks...)
	case *models.Area:
		parts = appendNonEmpty(parts, it.Purpose, it.Maintenance, it.CurrentFocus.Primary)
		parts = append(parts, it.ActiveProjects...)
	case *models.Resource:
		parts = appendNonEmpty(parts, it.Purpose, it.ContentOverview, it.UsageNotes)
		parts = append(parts, it.KeyTopics...)
		parts = append(parts, it.Areas...)
	}

	if b.Content != "" {
		preview := b.Content
		if len(preview) > contentPreviewLen {
			preview = preview[:contentPreviewLen]
		}
		parts = append(parts, preview)
	}

	return strings.ToLower(strings.Join(parts, " "))
}

func appendNonEmpty(parts []string, values ...string) []string {
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return parts
}
