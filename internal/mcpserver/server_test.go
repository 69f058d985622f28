package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/artha/internal/models"
	"github.com/starford/artha/internal/testutil"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	root, st := testutil.TestStore(t)
	if err := st.ScanVault(context.Background()); err != nil {
		t.Fatal(err)
	}
	return New(st), root
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error
	switch name {
	case "scan_vault":
		result, err = srv.scanVault(ctx, req)
	case "create_item":
		result, err = srv.createItem(ctx, req)
	case "get_item":
		result, err = srv.getItem(ctx, req)
	case "update_item":
		result, err = srv.updateItem(ctx, req)
	case "delete_item":
		result, err = srv.deleteItem(ctx, req)
	case "search_items":
		result, err = srv.searchItems(ctx, req)
	case "list_items":
		result, err = srv.listItems(ctx, req)
	case "vault_stats":
		result, err = srv.vaultStats(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func seedTask(t *testing.T, root, name, title, status, due string) {
	t.Helper()
	content := "---\nType: \"Task\"\nStatus: \"" + status + "\"\n"
	if due != "" {
		content += "Due Date: \"" + due + "\"\n"
	}
	content += "---\n\n# " + title + "\n"
	testutil.WriteFile(t, root, filepath.Join(models.DirProjects, name+".md"), content)
}

func TestCreateAndGetItem(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_item", map[string]interface{}{
		"type":  "Task",
		"title": "Test Task",
		"tags":  []interface{}{"go"},
	})
	if r.IsError {
		t.Fatalf("create failed: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, "created task-test-task-") {
		t.Errorf("create output = %q", text)
	}

	// Extract the id from the first output line.
	id := strings.TrimPrefix(strings.SplitN(text, "\n", 2)[0], "created ")
	r = callTool(t, srv, "get_item", map[string]interface{}{"id": id})
	if r.IsError {
		t.Fatalf("get failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"title": "Test Task"`) {
		t.Errorf("get output = %q", resultText(r))
	}
}

func TestCreateItemValidationError(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "create_item", map[string]interface{}{
		"type":  "Epic",
		"title": "Missing Area",
	})
	if !r.IsError {
		t.Fatal("epic without area should produce a tool error")
	}
}

func TestGetItemUnknownID(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_item", map[string]interface{}{"id": "_projects-nope"})
	if !r.IsError {
		t.Fatal("unknown id should produce a tool error")
	}
}

func TestScanVaultReportsOutstanding(t *testing.T) {
	srv, root := testServer(t)
	seedTask(t, root, "done", "Finished", "Done", "")
	seedTask(t, root, "blocked", "Stuck", "Blocked", "")
	seedTask(t, root, "active", "Underway", "In Progress", "")
	seedTask(t, root, "soon", "Due Soon", "To Do", "2026-09-01")
	seedTask(t, root, "later", "Due Later", "To Do", "2026-12-01")

	r := callTool(t, srv, "scan_vault", nil)
	text := resultText(r)
	if !strings.Contains(text, "Scanned 5 items (5 tasks, 0 epics, 0 areas, 0 resources)") {
		t.Errorf("summary = %q", text)
	}
	if strings.Contains(text, "Finished") {
		t.Error("done tasks are not outstanding")
	}

	// In Progress first, dated To Do before undated, Blocked last.
	iUnderway := strings.Index(text, "Underway")
	iSoon := strings.Index(text, "Due Soon")
	iLater := strings.Index(text, "Due Later")
	iStuck := strings.Index(text, "Stuck")
	if !(iUnderway < iSoon && iSoon < iLater && iLater < iStuck) {
		t.Errorf("ordering wrong:\n%s", text)
	}
}

func TestScanVaultLimit(t *testing.T) {
	srv, root := testServer(t)
	for _, n := range []string{"a", "b", "c"} {
		seedTask(t, root, n, "Task "+n, "To Do", "")
	}
	r := callTool(t, srv, "scan_vault", map[string]interface{}{"limit": float64(2)})
	text := resultText(r)
	if !strings.Contains(text, "Outstanding tasks (2)") {
		t.Errorf("limit not applied: %q", text)
	}
}

func TestUpdateItemListsChangedFields(t *testing.T) {
	srv, root := testServer(t)
	seedTask(t, root, "todo", "Todo", "To Do", "")
	callTool(t, srv, "scan_vault", nil)

	r := callTool(t, srv, "update_item", map[string]interface{}{
		"id":     "_projects-todo",
		"status": "In Progress",
		"tags":   []interface{}{"focus"},
	})
	if r.IsError {
		t.Fatalf("update failed: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, "updated _projects-todo") {
		t.Errorf("output = %q", text)
	}
	if !strings.Contains(text, "status") || !strings.Contains(text, "tags") {
		t.Errorf("changed fields missing: %q", text)
	}
}

func TestUpdateItemNoFields(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "update_item", map[string]interface{}{"id": "_projects-x"})
	if !r.IsError {
		t.Fatal("update with no fields should error")
	}
}

func TestDeleteItem(t *testing.T) {
	srv, root := testServer(t)
	seedTask(t, root, "doomed", "Doomed", "To Do", "")
	callTool(t, srv, "scan_vault", nil)

	r := callTool(t, srv, "delete_item", map[string]interface{}{"id": "_projects-doomed"})
	if r.IsError {
		t.Fatalf("delete failed: %s", resultText(r))
	}
	if _, err := os.Stat(filepath.Join(root, models.DirProjects, "doomed.md")); !os.IsNotExist(err) {
		t.Error("file should be removed")
	}
}

func TestSearchItemsTool(t *testing.T) {
	srv, root := testServer(t)
	seedTask(t, root, "alpha", "Project Alpha", "To Do", "")
	callTool(t, srv, "scan_vault", nil)

	r := callTool(t, srv, "search_items", map[string]interface{}{"query": "projct"})
	if r.IsError {
		t.Fatalf("search failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "Project Alpha") {
		t.Errorf("search output = %q", resultText(r))
	}
}

func TestListItemsTool(t *testing.T) {
	srv, root := testServer(t)
	seedTask(t, root, "one", "One", "To Do", "")
	seedTask(t, root, "two", "Two", "Done", "")

	r := callTool(t, srv, "list_items", map[string]interface{}{"status": "Done"})
	if r.IsError {
		t.Fatalf("list failed: %s", resultText(r))
	}
	text := resultText(r)
	if strings.Contains(text, `"title": "One"`) || !strings.Contains(text, `"title": "Two"`) {
		t.Errorf("list output = %q", text)
	}
}

func TestVaultStatsTool(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "vault_stats", nil)
	if !strings.Contains(resultText(r), `"maxSize"`) {
		t.Errorf("stats output = %q", resultText(r))
	}
}
