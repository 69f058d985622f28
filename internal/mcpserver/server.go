// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Artha vault tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/artha/internal/models"
	"github.com/starford/artha/internal/store"
)

// DefaultOutstanding is how many outstanding tasks scan_vault reports
// when no limit is given.
const DefaultOutstanding = 7

// Server wraps the MCP server with Artha tools.
type Server struct {
	mcp   *server.MCPServer
	store *store.Store
}

// New creates a new MCP server with all Artha tools registered.
func New(st *store.Store) *Server {
	s := &Server{store: st}

	s.mcp = server.NewMCPServer(
		"Artha",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("scan_vault",
		mcp.WithDescription("Rescan the vault and report its contents plus the most urgent outstanding tasks."),
		mcp.WithNumber("limit", mcp.Description("Maximum outstanding tasks to report (default 7)")),
	), s.scanVault)

	s.mcp.AddTool(mcp.NewTool("create_item",
		mcp.WithDescription("Create a new vault item (Task, Epic, Area, or Resource) as a Markdown file with YAML frontmatter."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Item type: Task, Epic, Area, or Resource")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Item title")),
		mcp.WithString("status", mcp.Description("Status (type-specific, e.g. 'To Do' for tasks)")),
		mcp.WithString("content", mcp.Description("Markdown body content")),
		mcp.WithString("area", mcp.Description("Owning area (tasks and epics)")),
		mcp.WithString("priority", mcp.Description("Priority: Low, Medium, High, or Urgent (tasks)")),
		mcp.WithString("dueDate", mcp.Description("Due date, YYYY-MM-DD (tasks and epics)")),
		mcp.WithString("purpose", mcp.Description("Purpose statement (areas and resources)")),
		mcp.WithString("maintenance", mcp.Description("Maintenance cadence: Daily, Weekly, Monthly, or Quarterly (areas)")),
		mcp.WithArray("tags", mcp.Description("Tags")),
		mcp.WithArray("areas", mcp.Description("Associated areas (resources)")),
	), s.createItem)

	s.mcp.AddTool(mcp.NewTool("get_item",
		mcp.WithDescription("Read a single vault item by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item id")),
	), s.getItem)

	s.mcp.AddTool(mcp.NewTool("update_item",
		mcp.WithDescription("Update fields on an existing vault item. Only the provided fields change."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item id")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("status", mcp.Description("New status")),
		mcp.WithString("content", mcp.Description("New body content")),
		mcp.WithString("area", mcp.Description("New owning area")),
		mcp.WithString("priority", mcp.Description("New priority")),
		mcp.WithString("dueDate", mcp.Description("New due date, YYYY-MM-DD")),
		mcp.WithString("purpose", mcp.Description("New purpose")),
		mcp.WithString("maintenance", mcp.Description("New maintenance cadence")),
		mcp.WithArray("tags", mcp.Description("Replacement tag list")),
		mcp.WithArray("areas", mcp.Description("Replacement area list (resources)")),
	), s.updateItem)

	s.mcp.AddTool(mcp.NewTool("delete_item",
		mcp.WithDescription("Delete a vault item by id. The file is backed up before removal when backups are enabled."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item id")),
	), s.deleteItem)

	s.mcp.AddTool(mcp.NewTool("search_items",
		mcp.WithDescription("Fuzzy-search vault items by title, type, status, tags, and content. An empty query lists everything."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query (may be empty)")),
		mcp.WithString("type", mcp.Description("Filter by item type")),
		mcp.WithString("area", mcp.Description("Filter by area")),
		mcp.WithString("status", mcp.Description("Filter by status")),
		mcp.WithArray("tags", mcp.Description("Filter by tags (any match)")),
		mcp.WithNumber("limit", mcp.Description("Maximum results (default 20, max 100)")),
	), s.searchItems)

	s.mcp.AddTool(mcp.NewTool("list_items",
		mcp.WithDescription("List vault items from a fresh scan with filtering, sorting, and pagination."),
		mcp.WithString("type", mcp.Description("Filter by item type")),
		mcp.WithString("area", mcp.Description("Filter by area")),
		mcp.WithString("status", mcp.Description("Filter by status")),
		mcp.WithArray("tags", mcp.Description("Filter by tags (any match)")),
		mcp.WithString("sortBy", mcp.Description("Sort key: title, status, dueDate, createdAt, or updatedAt")),
		mcp.WithString("sortOrder", mcp.Description("asc or desc (default asc)")),
		mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
		mcp.WithNumber("offset", mcp.Description("Items to skip")),
	), s.listItems)

	s.mcp.AddTool(mcp.NewTool("vault_stats",
		mcp.WithDescription("Report item cache and search index statistics."),
	), s.vaultStats)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout and blocks until the
// context is cancelled or stdin closes.
func (s *Server) ServeStdio(ctx context.Context) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) scanVault(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := optInt(req, "limit", DefaultOutstanding)

	if err := s.store.ScanVault(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	items, err := s.store.Items(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	counts := map[models.ItemType]int{}
	var tasks []*models.Task
	for _, item := range items {
		counts[item.Base().Type]++
		if t, ok := item.(*models.Task); ok && outstanding(t.Status) {
			tasks = append(tasks, t)
		}
	}
	sortOutstanding(tasks)
	if len(tasks) > limit {
		tasks = tasks[:limit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Scanned %d items (%d tasks, %d epics, %d areas, %d resources).\n",
		len(items), counts[models.TypeTask], counts[models.TypeEpic],
		counts[models.TypeArea], counts[models.TypeResource])
	if len(tasks) == 0 {
		b.WriteString("\nNo outstanding tasks.")
	} else {
		fmt.Fprintf(&b, "\nOutstanding tasks (%d):\n", len(tasks))
		for _, t := range tasks {
			fmt.Fprintf(&b, "- [%s] %s", t.Status, t.Title)
			if t.DueDate != "" {
				fmt.Fprintf(&b, " (due %s)", t.DueDate)
			}
			b.WriteByte('\n')
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) createItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemType, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	create := models.CreateRequest{
		Type:        models.ItemType(itemType),
		Title:       title,
		Status:      optString(req, "status"),
		Content:     optString(req, "content"),
		Area:        optString(req, "area"),
		Priority:    optString(req, "priority"),
		DueDate:     optString(req, "dueDate"),
		Purpose:     optString(req, "purpose"),
		Maintenance: optString(req, "maintenance"),
		Tags:        optStrings(req, "tags"),
		Areas:       optStrings(req, "areas"),
	}

	item, err := s.store.CreateItem(ctx, create)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(item, "", "  ")
	return mcp.NewToolResultText(fmt.Sprintf("created %s\n%s", item.Base().ID, out)), nil
}

func (s *Server) getItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(item, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) updateItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var updates models.Updates
	var changed []string
	setString := func(key string, dst **string) {
		if v, ok := argString(req, key); ok {
			*dst = &v
			changed = append(changed, key)
		}
	}
	setString("title", &updates.Title)
	setString("status", &updates.Status)
	setString("content", &updates.Content)
	setString("area", &updates.Area)
	setString("priority", &updates.Priority)
	setString("dueDate", &updates.DueDate)
	setString("purpose", &updates.Purpose)
	setString("maintenance", &updates.Maintenance)
	if v, ok := argStrings(req, "tags"); ok {
		updates.Tags = v
		changed = append(changed, "tags")
	}
	if v, ok := argStrings(req, "areas"); ok {
		updates.Areas = v
		changed = append(changed, "areas")
	}
	if len(changed) == 0 {
		return mcp.NewToolResultError("no fields to update"), nil
	}

	item, err := s.store.UpdateItem(ctx, id, &updates)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(item, "", "  ")
	return mcp.NewToolResultText(fmt.Sprintf("updated %s (%s)\n%s",
		id, strings.Join(changed, ", "), out)), nil
}

func (s *Server) deleteItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.DeleteItem(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) searchItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.store.SearchItems(models.SearchRequest{
		Query:  query,
		Type:   models.ItemType(optString(req, "type")),
		Area:   optString(req, "area"),
		Status: optString(req, "status"),
		Tags:   optStrings(req, "tags"),
		Limit:  optInt(req, "limit", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.store.ListItems(ctx, models.ListRequest{
		Type:      models.ItemType(optString(req, "type")),
		Area:      optString(req, "area"),
		Status:    optString(req, "status"),
		Tags:      optStrings(req, "tags"),
		SortBy:    optString(req, "sortBy"),
		SortOrder: optString(req, "sortOrder"),
		Limit:     optInt(req, "limit", 0),
		Offset:    optInt(req, "offset", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) vaultStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.store.Stats(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

// outstanding reports whether a task status still needs attention.
func outstanding(status string) bool {
	return status != "Done" && status != "Completed"
}

// sortOutstanding orders tasks by urgency: In Progress, then To Do, then
// Blocked, then anything else, with earlier due dates first inside a
// band and undated tasks last.
func sortOutstanding(tasks []*models.Task) {
	rank := func(status string) int {
		switch status {
		case "In Progress":
			return 1
		case "To Do":
			return 2
		case "Blocked":
			return 3
		}
		return 4
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		ri, rj := rank(tasks[i].Status), rank(tasks[j].Status)
		if ri != rj {
			return ri < rj
		}
		di, dj := tasks[i].DueDate, tasks[j].DueDate
		if (di == "") != (dj == "") {
			return di != ""
		}
		return di < dj
	})
}
