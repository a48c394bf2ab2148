package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/rbxmx2repo/api"
)

const placeXML = `<roblox version="4">
  <Item class="ServerScriptService">
    <Item class="Script">
      <Properties>
        <string name="Name">Main</string>
        <ProtectedString name="Source">print('a')</ProtectedString>
      </Properties>
    </Item>
  </Item>
  <Item class="Workspace">
    <Item class="Model"><Properties><string name="Name">Tree</string></Properties></Item>
  </Item>
</roblox>`

func call(t *testing.T, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Name = ToolExport
	req.Params.Arguments = args
	res, err := handleExport(context.Background(), req)
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestHandleExport(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "place.rbxmx")
	require.NoError(t, os.WriteFile(input, []byte(placeXML), 0o644))
	out := filepath.Join(dir, "out")

	res := call(t, map[string]any{"input": input, "out": out, "keep_models": true})
	require.False(t, res.IsError, text(t, res))

	var entries []api.ManifestEntry
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "src/ServerScriptService/Main.server.lua", entries[0].OutputPath)

	_, err := os.Stat(filepath.Join(out, "assets", "Tree.rbxmx"))
	assert.NoError(t, err)
}

func TestHandleExport_Errors(t *testing.T) {
	t.Run("missing argument", func(t *testing.T) {
		res := call(t, map[string]any{"input": "x.rbxmx"})
		assert.True(t, res.IsError)
	})

	t.Run("missing input", func(t *testing.T) {
		res := call(t, map[string]any{
			"input": filepath.Join(t.TempDir(), "none.rbxmx"),
			"out":   t.TempDir(),
		})
		assert.True(t, res.IsError)
		assert.Contains(t, text(t, res), "not found")
	})
}

func TestExportTool_Schema(t *testing.T) {
	assert.NotNil(t, New("test"))
	tool := exportTool()
	assert.Equal(t, ToolExport, tool.Name)
	assert.ElementsMatch(t, []string{"input", "out"}, tool.InputSchema.Required)
}
