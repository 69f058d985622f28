// Package models defines the typed vault items and their validation rules.
package models

import "time"

// ItemType discriminates the closed set of vault item kinds.
type ItemType string

// Vault item kinds. The union is closed: code that switches on ItemType
// must handle exactly these four values.
const (
	TypeTask     ItemType = "Task"
	TypeEpic     ItemType = "Epic"
	TypeArea     ItemType = "Area"
	TypeResource ItemType = "Resource"
)

// Vault directory layout, relative to the vault root.
const (
	DirProjects  = "_projects"
	DirAreas     = "_areas"
	DirResources = "_resources"
	DirTemplates = "_templates"
	DirBackups   = "_backups"
)

// Directory returns the storage directory for items of this type.
// An item's on-disk location is fully determined by its type plus the
// sanitized title filename.
func (t ItemType) Directory() string {
	switch t {
	case TypeTask, TypeEpic:
		return DirProjects
	case TypeArea:
		return DirAreas
	case TypeResource:
		return DirResources
	}
	return ""
}

// Valid reports whether t is one of the four known kinds.
func (t ItemType) Valid() bool {
	return t.Directory() != ""
}

// Conventional status values per type. Status stays a free-form string on
// the wire; these are the values validation accepts on create/update.
var (
	TaskStatuses     = []string{"To Do", "In Progress", "Done", "Blocked"}
	EpicStatuses     = []string{"Planning", "Active", "On Hold", "Completed"}
	AreaStatuses     = []string{"Active", "Inactive", "Archived"}
	ResourceStatuses = []string{"Active", "Archived"}

	Priorities   = []string{"Low", "Medium", "High", "Urgent"}
	Maintenances = []string{"Daily", "Weekly", "Monthly", "Quarterly"}
)

// Focus is an Area's current focus block.
type Focus struct {
	Primary   string   `json:"primary"`
	Secondary string   `json:"secondary"`
	Ongoing   []string `json:"ongoing"`
}

// BaseItem holds the fields common to every vault item.
type BaseItem struct {
	ID        string    `json:"id"`
	Type      ItemType  `json:"type"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Item is the closed union over Task, Epic, Area, and Resource.
// Only types in this package implement it.
type Item interface {
	Base() *BaseItem
	// Clone returns a deep copy so merges never alias cached state.
	Clone() Item

	sealed()
}

// Task is a single actionable unit of work.
type Task struct {
	BaseItem
	DueDate        string   `json:"dueDate,omitempty"`
	ParentProjects []string `json:"parentProjects,omitempty"`
	Area           string   `json:"area,omitempty"`
	Priority       string   `json:"priority,omitempty"`
}

// Epic groups tasks under a shared outcome.
type Epic struct {
	BaseItem
	DueDate string   `json:"dueDate,omitempty"`
	Area    string   `json:"area"`
	Image   string   `json:"image,omitempty"`
	Tasks   []string `json:"tasks"`
}

// Area is a long-lived sphere of responsibility.
type Area struct {
	BaseItem
	Maintenance    string   `json:"maintenance"`
	Pinned         bool     `json:"pinned"`
	Purpose        string   `json:"purpose"`
	ActiveProjects []string `json:"activeProjects"`
	CurrentFocus   Focus    `json:"currentFocus"`
}

// Resource is reference material attached to one or more areas.
type Resource struct {
	BaseItem
	Pinned          bool     `json:"pinned"`
	Areas           []string `json:"areas"`
	Purpose         string   `json:"purpose"`
	ContentOverview string   `json:"contentOverview"`
	KeyTopics       []string `json:"keyTopics"`
	UsageNotes      string   `json:"usageNotes"`
	Maintenance     string   `json:"maintenance"`
}

func (t *Task) Base() *BaseItem     { return &t.BaseItem }
func (e *Epic) Base() *BaseItem     { return &e.BaseItem }
func (a *Area) Base() *BaseItem     { return &a.BaseItem }
func (r *Resource) Base() *BaseItem { return &r.BaseItem }

func (*Task) sealed()     {}
func (*Epic) sealed()     {}
func (*Area) sealed()     {}
func (*Resource) sealed() {}

// Clone returns a deep copy of the task.
func (t *Task) Clone() Item {
	c := *t
	c.Tags = cloneSlice(t.Tags)
	c.ParentProjects = cloneSlice(t.ParentProjects)
	return &c
}

// Clone returns a deep copy of the epic.
func (e *Epic) Clone() Item {
	c := *e
	c.Tags = cloneSlice(e.Tags)
	c.Tasks = cloneSlice(e.Tasks)
	return &c
}

// Clone returns a deep copy of the area.
func (a *Area) Clone() Item {
	c := *a
	c.Tags = cloneSlice(a.Tags)
	c.ActiveProjects = cloneSlice(a.ActiveProjects)
	c.CurrentFocus.Ongoing = cloneSlice(a.CurrentFocus.Ongoing)
	return &c
}

// Clone returns a deep copy of the resource.
func (r *Resource) Clone() Item {
	c := *r
	c.Tags = cloneSlice(r.Tags)
	c.Areas = cloneSlice(r.Areas)
	c.KeyTopics = cloneSlice(r.KeyTopics)
	return &c
}

func cloneSlice(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
