package mcp_test

import (
	"context"
	"testing"

	"github.com/huangsam/funcspot/internal/contract"
	mcp_internal "github.com/huangsam/funcspot/internal/mcp"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{
		RepoPath: ".",
		Total:    contract.DefaultTotal,
	}

	// Create a dummy manager, though we shouldn't hit it because we test validation errors
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	ctx := context.Background()

	t.Run("compare_function_hotspots missing base_ref", func(t *testing.T) {
		tool := s.GetTool("compare_function_hotspots")
		require.NotNil(t, tool, "Tool compare_function_hotspots should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "compare_function_hotspots",
				Arguments: map[string]any{
					"base_ref": "", // Missing required
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "base_ref is required")
	})

	t.Run("get_function_hotspots negative limit", func(t *testing.T) {
		tool := s.GetTool("get_function_hotspots")
		require.NotNil(t, tool, "Tool get_function_hotspots should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_function_hotspots",
				Arguments: map[string]any{
					"limit": -1.0, // Invalid
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "limit must not be negative")
	})

	t.Run("get_function_hotspots limit too large", func(t *testing.T) {
		tool := s.GetTool("get_function_hotspots")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_function_hotspots",
				Arguments: map[string]any{
					"limit": 5000.0, // Above the hard cap
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "limit cannot exceed")
	})
}

func TestMCPServerHandlers_ListSupportedLanguages(t *testing.T) {
	baseCfg := &contract.Config{RepoPath: "."}

	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	tool := s.GetTool("list_supported_languages")
	require.NotNil(t, tool, "Tool list_supported_languages should exist")

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "list_supported_languages",
		},
	}

	// Static reference data: succeeds without touching git or the stores
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, `"go"`)
	assert.Contains(t, text, `"rust"`)
	assert.Contains(t, text, `"lua"`)
	assert.Contains(t, text, "Parser::parse")
}
