package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/funcspot/core"
	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

func (h *toolHandler) handleGetFunctionHotspots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	if p := request.GetString("prefix", ""); p != "" {
		cfg.PathPrefix = p
	}
	if e := request.GetString("exclude_func", ""); e != "" {
		cfg.ExcludeFunc = e
	}

	if err := contract.RevalidateLimit(cfg, request.GetInt("limit", 0)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid limit: %v", err)), nil
	}

	client := contract.NewLocalGitClient()
	ranked, _, err := core.GetFuncHotspotResults(ctx, cfg, client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	enriched := schema.EnrichFuncs(ranked)
	jsonData, _ := json.MarshalIndent(enriched, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCompareFunctionHotspots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.BaseRef = request.GetString("base_ref", "")
	cfg.TargetRef = request.GetString("target_ref", "")
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}

	if err := contract.RevalidateCompare(cfg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid comparison parameters: %v", err)), nil
	}

	client := contract.NewLocalGitClient()
	comparisonResult, err := core.GetFuncCompareResults(ctx, cfg, client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(comparisonResult, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListSupportedLanguages(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(schema.BuildLanguageRenderModel(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
