package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Optional-argument helpers. MCP clients send arguments as loosely typed
// JSON; numbers arrive as float64 and arrays as []any.

func argString(req mcp.CallToolRequest, key string) (string, bool) {
	v, ok := req.GetArguments()[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func optString(req mcp.CallToolRequest, key string) string {
	s, _ := argString(req, key)
	return s
}

func argStrings(req mcp.CallToolRequest, key string) ([]string, bool) {
	v, ok := req.GetArguments()[key]
	if !ok {
		return nil, false
	}
	switch vv := v.(type) {
	case []string:
		return vv, true
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

func optStrings(req mcp.CallToolRequest, key string) []string {
	s, _ := argStrings(req, key)
	return s
}

func optInt(req mcp.CallToolRequest, key string, fallback int) int {
	v, ok := req.GetArguments()[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return fallback
}
