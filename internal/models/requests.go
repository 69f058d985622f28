package models

// CreateRequest carries the fields accepted when creating an item. Which
// fields apply depends on Type; the factory ignores the rest.
type CreateRequest struct {
	Type    ItemType `json:"type"`
	Title   string   `json:"title"`
	Status  string   `json:"status,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Content string   `json:"content,omitempty"`

	// Task and Epic.
	DueDate string `json:"dueDate,omitempty"`
	Area    string `json:"area,omitempty"`

	// Task.
	ParentProjects []string `json:"parentProjects,omitempty"`
	Priority       string   `json:"priority,omitempty"`

	// Epic.
	Image string `json:"image,omitempty"`

	// Area and Resource.
	Maintenance string `json:"maintenance,omitempty"`
	Pinned      bool   `json:"pinned,omitempty"`
	Purpose     string `json:"purpose,omitempty"`

	// Resource.
	Areas           []string `json:"areas,omitempty"`
	ContentOverview string   `json:"contentOverview,omitempty"`
	KeyTopics       []string `json:"keyTopics,omitempty"`
	UsageNotes      string   `json:"usageNotes,omitempty"`
}

// Updates is a partial patch merged over an existing item. Nil pointers and
// nil slices mean "unchanged". Fields that do not apply to the target
// item's type are ignored.
type Updates struct {
	Title   *string
	Status  *string
	Content *string
	Tags    []string

	DueDate *string
	Area    *string

	ParentProjects []string
	Priority       *string

	Image *string
	Tasks []string

	Maintenance    *string
	Pinned         *bool
	Purpose        *string
	ActiveProjects []string
	CurrentFocus   *Focus

	Areas           []string
	ContentOverview *string
	KeyTopics       []string
	UsageNotes      *string
}

// Apply merges the updates over item in place. createdAt and id are never
// touched; the caller refreshes updatedAt.
func (u *Updates) Apply(item Item) {
	b := item.Base()
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Status != nil {
		b.Status = *u.Status
	}
	if u.Content != nil {
		b.Content = *u.Content
	}
	if u.Tags != nil {
		b.Tags = cloneSlice(u.Tags)
	}

	switch it := item.(type) {
	case *Task:
		if u.DueDate != nil {
			it.DueDate = *u.DueDate
		}
		if u.ParentProjects != nil {
			it.ParentProjects = cloneSlice(u.ParentProjects)
		}
		if u.Area != nil {
			it.Area = *u.Area
		}
		if u.Priority != nil {
			it.Priority = *u.Priority
		}
	case *Epic:
		if u.DueDate != nil {
			it.DueDate = *u.DueDate
		}
		if u.Area != nil {
			it.Area = *u.Area
		}
		if u.Image != nil {
			it.Image = *u.Image
		}
		if u.Tasks != nil {
			it.Tasks = cloneSlice(u.Tasks)
		}
	case *Area:
		if u.Maintenance != nil {
			it.Maintenance = *u.Maintenance
		}
		if u.Pinned != nil {
			it.Pinned = *u.Pinned
		}
		if u.Purpose != nil {
			it.Purpose = *u.Purpose
		}
		if u.ActiveProjects != nil {
			it.ActiveProjects = cloneSlice(u.ActiveProjects)
		}
		if u.CurrentFocus != nil {
			it.CurrentFocus = Focus{
				Primary:   u.CurrentFocus.Primary,
				Secondary: u.CurrentFocus.Secondary,
				Ongoing:   cloneSlice(u.CurrentFocus.Ongoing),
			}
		}
	case *Resource:
		if u.Pinned != nil {
			it.Pinned = *u.Pinned
		}
		if u.Areas != nil {
			it.Areas = cloneSlice(u.Areas)
		}
		if u.Purpose != nil {
			it.Purpose = *u.Purpose
		}
		if u.ContentOverview != nil {
			it.ContentOverview = *u.ContentOverview
		}
		if u.KeyTopics != nil {
			it.KeyTopics = cloneSlice(u.KeyTopics)
		}
		if u.UsageNotes != nil {
			it.UsageNotes = *u.UsageNotes
		}
		if u.Maintenance != nil {
			it.Maintenance = *u.Maintenance
		}
	}
}

// SearchRequest selects items by fuzzy query plus optional post-filters.
type SearchRequest struct {
	Query  string   `json:"query"`
	Type   ItemType `json:"type,omitempty"`
	Area   string   `json:"area,omitempty"`
	Status string   `json:"status,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Limit  int      `json:"limit,omitempty"`
}

// ListRequest selects, sorts, and paginates items from a fresh scan.
type ListRequest struct {
	Type      ItemType `json:"type,omitempty"`
	Area      string   `json:"area,omitempty"`
	Status    string   `json:"status,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Limit     int      `json:"limit,omitempty"`
	Offset    int      `json:"offset,omitempty"`
	SortBy    string   `json:"sortBy,omitempty"`    // title|status|dueDate|createdAt|updatedAt
	SortOrder string   `json:"sortOrder,omitempty"` // asc|desc
}

// MatchesArea reports whether the item belongs to the given area. Tasks
// and epics match on their single area field, resources on membership in
// their areas list; area items themselves never match.
func MatchesArea(item Item, area string) bool {
	switch it := item.(type) {
	case *Task:
		return it.Area == area
	case *Epic:
		return it.Area == area
	case *Resource:
		for _, a := range it.Areas {
			if a == area {
				return true
			}
		}
		return false
	case *Area:
		return false
	}
	return false
}

// SharesTag reports whether the item carries at least one of the tags.
func SharesTag(item Item, tags []string) bool {
	for _, want := range tags {
		for _, have := range item.Base().Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}
