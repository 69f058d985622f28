package search

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/starford/artha/internal/apperr"
	"github.com/starford/artha/internal/models"
)

func task(id, title, status, area string, tags ...string) *models.Task {
	now := time.Now()
	return &models.Task{
		BaseItem: models.BaseItem{
			ID: id, Type: models.TypeTask, Title: title, Status: status,
			Tags: tags, CreatedAt: now, UpdatedAt: now,
		},
		Area: area,
	}
}

func populated(t *testing.T) *Index {
	t.Helper()
	ix := New()
	ix.Update([]models.Item{
		task("t1", "Project Alpha", "To Do", "Work", "go"),
		task("t2", "Project Beta", "In Progress", "Work"),
		task("t3", "Buy groceries", "To Do", "Home", "errand"),
	})
	return ix
}

func TestSearchBeforeUpdateNotReady(t *testing.T) {
	ix := New()
	_, err := ix.Search(models.SearchRequest{Query: "x"})
	if !errors.Is(err, apperr.ErrIndexNotReady) {
		t.Errorf("err = %v, want ErrIndexNotReady", err)
	}
	if ix.HitRate() != 0 {
		t.Errorf("hit rate = %v, want 0", ix.HitRate())
	}
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	ix := populated(t)
	res, err := ix.Search(models.SearchRequest{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 3 || len(res.Items) != 3 {
		t.Errorf("total = %d, items = %d", res.Total, len(res.Items))
	}
	// Insertion order is preserved for empty queries.
	if res.Items[0].Base().ID != "t1" || res.Items[2].Base().ID != "t3" {
		t.Errorf("order = %v", res.Items)
	}
}

func TestSearchToleratesMisspelling(t *testing.T) {
	ix := populated(t)
	res, err := ix.Search(models.SearchRequest{Query: "projct alpha"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Items) == 0 {
		t.Fatal("expected a fuzzy match for a dropped letter")
	}
	if res.Items[0].Base().Title != "Project Alpha" {
		t.Errorf("top match = %q", res.Items[0].Base().Title)
	}
	if len(res.Highlights[res.Items[0].Base().ID]) == 0 {
		t.Error("expected highlight positions for top match")
	}
}

func TestSearchFilters(t *testing.T) {
	ix := populated(t)

	res, err := ix.Search(models.SearchRequest{Query: "project", Area: "Work"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, it := range res.Items {
		if !models.MatchesArea(it, "Work") {
			t.Errorf("item %s outside area filter", it.Base().ID)
		}
	}

	res, err = ix.Search(models.SearchRequest{Status: "To Do"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 2 {
		t.Errorf("status filter total = %d, want 2", res.Total)
	}

	res, err = ix.Search(models.SearchRequest{Tags: []string{"errand"}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 1 || res.Items[0].Base().ID != "t3" {
		t.Errorf("tag filter = %v", res.Items)
	}
}

func TestSearchLimitAndTotal(t *testing.T) {
	ix := New()
	var items []models.Item
	for i := 0; i < 30; i++ {
		items = append(items, task(fmt.Sprintf("t%d", i), fmt.Sprintf("Task %d", i), "To Do", ""))
	}
	ix.Update(items)

	res, err := ix.Search(models.SearchRequest{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Items) != DefaultLimit {
		t.Errorf("items = %d, want default limit %d", len(res.Items), DefaultLimit)
	}
	if res.Total != 30 {
		t.Errorf("total = %d, want 30", res.Total)
	}

	res, err = ix.Search(models.SearchRequest{Limit: MaxLimit + 50})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Items) != 30 {
		t.Errorf("items = %d, want all 30 under clamped limit", len(res.Items))
	}
}

func TestUpsertAndRemove(t *testing.T) {
	ix := populated(t)

	replacement := task("t1", "Project Alpha Redux", "Done", "Work")
	ix.Upsert(replacement)
	if ix.Size() != 3 {
		t.Errorf("size = %d after replace, want 3", ix.Size())
	}

	ix.Upsert(task("t4", "New Task", "To Do", ""))
	if ix.Size() != 4 {
		t.Errorf("size = %d after insert, want 4", ix.Size())
	}

	ix.Remove("t4")
	ix.Remove("never-there")
	if ix.Size() != 3 {
		t.Errorf("size = %d after remove, want 3", ix.Size())
	}

	res, err := ix.Search(models.SearchRequest{Query: "redux"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 1 || res.Items[0].Base().Status != "Done" {
		t.Errorf("replacement not searchable: %v", res.Items)
	}
}

func TestHitRateAndStats(t *testing.T) {
	ix := New()
	_, _ = ix.Search(models.SearchRequest{}) // miss: not ready
	ix.Update(nil)
	if _, err := ix.Search(models.SearchRequest{}); err != nil {
		t.Fatalf("Search: %v", err)
	}

	stats := ix.GetStats()
	if stats.TotalSearches != 2 {
		t.Errorf("total searches = %d, want 2", stats.TotalSearches)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("hit rate = %v, want 0.5", stats.HitRate)
	}
	if stats.LastUpdated.IsZero() {
		t.Error("last updated should be set after Update")
	}
}
