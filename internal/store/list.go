package store

import (
	"sort"
	"strings"

	"github.com/starford/artha/internal/models"
)

func applyFilters(items []models.Item, t models.ItemType, area, status string, tags []string) []models.Item {
	out := make([]models.Item, 0, len(items))
	for _, item := range items {
		if t != "" && item.Base().Type != t {
			continue
		}
		if area != "" && !models.MatchesArea(item, area) {
			continue
		}
		if status != "" && item.Base().Status != status {
			continue
		}
		if len(tags) > 0 && !models.SharesTag(item, tags) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// sortItems orders items in place. Unknown sort keys leave scan order
// intact. Items without a due date always sort after items that have one,
// in either direction.
func sortItems(items []models.Item, sortBy, order string) {
	if sortBy == "" {
		return
	}
	desc := order == "desc"

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if sortBy == "dueDate" {
			da, db := DueDate(a), DueDate(b)
			if (da == "") != (db == "") {
				return da != ""
			}
		}
		if desc {
			a, b = b, a
		}
		switch sortBy {
		case "title":
			return strings.ToLower(a.Base().Title) < strings.ToLower(b.Base().Title)
		case "status":
			return strings.ToLower(a.Base().Status) < strings.ToLower(b.Base().Status)
		case "createdAt":
			return a.Base().CreatedAt.Before(b.Base().CreatedAt)
		case "updatedAt":
			return a.Base().UpdatedAt.Before(b.Base().UpdatedAt)
		case "dueDate":
			return DueDate(a) < DueDate(b)
		}
		return false
	})
}

// DueDate returns the item's due date, or "" for kinds that have none.
func DueDate(item models.Item) string {
	switch it := item.(type) {
	case *models.Task:
		return it.DueDate
	case *models.Epic:
		return it.DueDate
	}
	return ""
}
