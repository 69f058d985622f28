// Package store composes the scanner, search index, factory, and template
// registry into the vault item store. It owns the write-through cache and
// is the only component that touches the filesystem for writes.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/starford/artha/internal/factory"
	"github.com/starford/artha/internal/models"
	"github.com/starford/artha/internal/scanner"
	"github.com/starford/artha/internal/search"
	"github.com/starford/artha/internal/storage"
	"github.com/starford/artha/internal/templates"
)

// DefaultMaxCacheSize bounds the item cache when no size is configured.
const DefaultMaxCacheSize = 1000

// Options configures a Store.
type Options struct {
	Root         string
	MaxCacheSize int
	Backups      bool
	Logger       *slog.Logger
}

// CacheStats describes the item cache and search usage.
type CacheStats struct {
	Size    int     `json:"size"`
	MaxSize int     `json:"maxSize"`
	HitRate float64 `json:"hitRate"`
}

// ListResult is a page of items from ListItems. Total counts items after
// filtering but before pagination.
type ListResult struct {
	Items   []models.Item `json:"items"`
	Total   int           `json:"total"`
	HasMore bool          `json:"hasMore"`
}

// Store is the vault item store.
//
// Writes for a given id are serialized through a per-id mutex so two
// concurrent updates cannot interleave their read-merge-write sequences.
// Note the two id schemes: factory-generated ids (type-slug-timestamp)
// name an item until the next full rescan, after which the path-derived
// scanner id is the durable handle. References held across a rescan must
// use path-derived ids.
type Store struct {
	root     string
	logger   *slog.Logger
	fs       storage.Provider
	factory  *factory.Factory
	registry *templates.Registry
	scanner  *scanner.Scanner
	index    *search.Index
	backups  bool
	maxCache int

	cache *lru.Cache[string, models.Item]

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// New creates a store for the vault rooted at opts.Root. The root
// directory must exist; the type directories are created on demand.
func New(opts Options) (*Store, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxCacheSize <= 0 {
		opts.MaxCacheSize = DefaultMaxCacheSize
	}

	fs, err := storage.NewFS(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("store: init storage: %w", err)
	}

	cache, err := lru.New[string, models.Item](opts.MaxCacheSize)
	if err != nil {
		return nil, fmt.Errorf("store: init cache: %w", err)
	}

	registry := templates.NewRegistry(opts.Root, opts.Logger)
	return &Store{
		root:     opts.Root,
		logger:   opts.Logger,
		fs:       fs,
		factory:  factory.New(registry),
		registry: registry,
		scanner:  scanner.New(opts.Root, opts.Logger),
		index:    search.New(),
		backups:  opts.Backups,
		maxCache: opts.MaxCacheSize,
		cache:    cache,
	}, nil
}

// ScanVault runs a full rescan, replacing the cache wholesale and
// rebuilding the search index. On scanner failure the cache and index are
// left in their prior state.
func (s *Store) ScanVault(ctx context.Context) error {
	items, err := s.scanner.ScanAll(ctx)
	if err != nil {
		return fmt.Errorf("store: vault scan failed: %w", err)
	}

	s.cache.Purge()
	for _, item := range items {
		s.cache.Add(item.Base().ID, item)
	}
	s.index.Update(items)

	s.logger.Debug("vault scanned", slog.Int("items", len(items)))
	return nil
}

// CreateItem builds, validates, and persists a new item, then inserts it
// into the cache and search index. Nothing is cached on failure.
func (s *Store) CreateItem(ctx context.Context, req models.CreateRequest) (models.Item, error) {
	res, err := s.factory.CreateItem(req)
	if err != nil {
		return nil, err
	}

	if err := s.fs.Write(res.FilePath, []byte(res.Markdown)); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", res.Item.Base().ID, err)
	}

	s.cache.Add(res.Item.Base().ID, res.Item)
	s.index.Upsert(res.Item)

	s.logger.Debug("item created",
		slog.String("id", res.Item.Base().ID), slog.String("path", res.FilePath))
	return res.Item, nil
}

// GetItem returns the item with the given id, cache first, then via the
// scanner. A found item is inserted into the cache. Unknown ids return an
// error wrapping apperr.ErrNotFound, distinct from I/O failures.
func (s *Store) GetItem(ctx context.Context, id string) (models.Item, error) {
	if item, ok := s.cache.Get(id); ok {
		return item, nil
	}

	item, err := s.scanner.FindItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Add(id, item)
	return item, nil
}

// UpdateItem merges updates over the current item, refreshes updatedAt,
// re-renders the full file, and overwrites it. Updates for one id are
// serialized; last write wins across ids only.
func (s *Store) UpdateItem(ctx context.Context, id string, updates *models.Updates) (models.Item, error) {
	unlock := s.lockID(id)
	defer unlock()

	current, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	updates.Apply(updated)
	updated.Base().UpdatedAt = time.Now()

	if err := validateItem(updated); err != nil {
		return nil, err
	}

	path, err := s.scanner.FindFilePathByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.backup(path)

	content := s.registry.RenderItem(updated)
	if err := s.fs.Write(path, []byte(content)); err != nil {
		return nil, fmt.Errorf("store: update %s: %w", id, err)
	}

	s.cache.Add(id, updated)
	s.index.Upsert(updated)
	s.scanner.Forget(id)
	return updated, nil
}

// DeleteItem removes the item's file and evicts it from the cache and
// search index. Success does not imply the item was cached.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	unlock := s.lockID(id)
	defer unlock()

	path, err := s.scanner.FindFilePathByID(ctx, id)
	if err != nil {
		return err
	}

	s.backup(path)

	if err := s.fs.Delete(path); err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}

	s.cache.Remove(id)
	s.index.Remove(id)
	s.scanner.Forget(id)
	return nil
}

// SearchItems delegates to the search index.
func (s *Store) SearchItems(req models.SearchRequest) (*search.Result, error) {
	return s.index.Search(req)
}

// ListItems filters, sorts, and paginates over a fresh scanner pass, so
// results always reflect current disk state.
func (s *Store) ListItems(ctx context.Context, req models.ListRequest) (*ListResult, error) {
	items, err := s.scanner.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: list items: %w", err)
	}

	filtered := applyFilters(items, req.Type, req.Area, req.Status, req.Tags)
	sortItems(filtered, req.SortBy, req.SortOrder)

	limit := req.Limit
	if limit <= 0 {
		limit = search.DefaultLimit
	}
	if limit > search.MaxLimit {
		limit = search.MaxLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	total := len(filtered)
	page := filtered
	if offset >= total {
		page = nil
	} else {
		page = filtered[offset:]
		if len(page) > limit {
			page = page[:limit]
		}
	}

	return &ListResult{
		Items:   page,
		Total:   total,
		HasMore: offset+limit < total,
	}, nil
}

// Items returns every vault item from a fresh scan.
func (s *Store) Items(ctx context.Context) ([]models.Item, error) {
	items, err := s.scanner.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: list items: %w", err)
	}
	return items, nil
}

// ItemsByType returns all items of the given type from a fresh scan.
func (s *Store) ItemsByType(ctx context.Context, t models.ItemType) ([]models.Item, error) {
	items, err := s.scanner.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	return applyFilters(items, t, "", "", nil), nil
}

// ItemsByArea returns all items belonging to the given area from a fresh scan.
func (s *Store) ItemsByArea(ctx context.Context, area string) ([]models.Item, error) {
	items, err := s.scanner.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	return applyFilters(items, "", area, "", nil), nil
}

// ItemsByStatus returns all items with the given status from a fresh scan.
func (s *Store) ItemsByStatus(ctx context.Context, status string) ([]models.Item, error) {
	items, err := s.scanner.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	return applyFilters(items, "", "", status, nil), nil
}

// ItemsByTags returns all items sharing at least one tag from a fresh scan.
func (s *Store) ItemsByTags(ctx context.Context, tags []string) ([]models.Item, error) {
	items, err := s.scanner.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	return applyFilters(items, "", "", "", tags), nil
}

// Scanner exposes the underlying scanner for staleness checks.
func (s *Store) Scanner() *scanner.Scanner {
	return s.scanner
}

// Stats returns cache and search statistics.
func (s *Store) Stats() CacheStats {
	return CacheStats{
		Size:    s.cache.Len(),
		MaxSize: s.maxCache,
		HitRate: s.index.HitRate(),
	}
}

// ClearCache drops every cached item. The search index is left intact;
// the next scan rebuilds both.
func (s *Store) ClearCache() {
	s.cache.Purge()
}

// lockID serializes mutations per item id.
func (s *Store) lockID(id string) func() {
	s.lockMu.Lock()
	if s.locks == nil {
		s.locks = make(map[string]*sync.Mutex)
	}
	mu, ok := s.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[id] = mu
	}
	s.lockMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// backup copies the file into _backups with a timestamped name before a
// destructive write. Best-effort: failures are logged, never fatal.
func (s *Store) backup(path string) {
	if !s.backups {
		return
	}
	base := strings.TrimSuffix(filepath.Base(path), ".md")
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(time.Now().UTC().Format(time.RFC3339))
	dst := filepath.Join(models.DirBackups, base+"_"+stamp+".md")
	if err := s.fs.Copy(path, dst); err != nil {
		s.logger.Warn("backup failed", slog.String("path", path), slog.String("error", err.Error()))
	}
}

func validateItem(item models.Item) error {
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
	return fmt.Errorf("store: unknown item type: %T", item)
}
