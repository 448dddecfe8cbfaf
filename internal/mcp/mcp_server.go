// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Funcspot MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Funcspot Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_function_hotspots ---
	s.AddTool(mcp.NewTool("get_function_hotspots",
		mcp.WithDescription("Analyze git history to rank functions by how many distinct commits touched their definitions."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to current directory if not specified).")),
		mcp.WithString("prefix", mcp.Description("Only count functions defined under this path prefix.")),
		mcp.WithString("exclude_func", mcp.Description("Drop functions whose qualified name contains this substring.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetFunctionHotspots)

	// --- 2. Tool: compare_function_hotspots ---
	s.AddTool(mcp.NewTool("compare_function_hotspots",
		mcp.WithDescription("Compare per-function commit counts between two Git references (e.g., branches, tags, or commits)."),
		mcp.WithString("base_ref", mcp.Description("The base reference for comparison."), mcp.Required()),
		mcp.WithString("target_ref", mcp.Description("The target reference for comparison (defaults to HEAD).")),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
	), h.handleCompareFunctionHotspots)

	// --- 3. Tool: list_supported_languages ---
	s.AddTool(mcp.NewTool("list_supported_languages",
		mcp.WithDescription("List the supported grammars, what each one counts as a function, and how names are qualified."),
	), h.handleListSupportedLanguages)

	return s
}

// StartMCPServer starts the Funcspot MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
