// Package mcpserver exposes the exporter as an MCP tool over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/rbxmx2repo/api"
	"github.com/agentic-research/rbxmx2repo/internal/export"
	"github.com/agentic-research/rbxmx2repo/internal/instance"
)

const ToolExport = "export_rbxmx"

// New builds an MCP server with the export tool registered.
func New(version string) *server.MCPServer {
	s := server.NewMCPServer("rbxmx2repo", version, server.WithToolCapabilities(false))
	s.AddTool(exportTool(), handleExport)
	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(version string) error {
	return server.ServeStdio(New(version))
}

func exportTool() mcp.Tool {
	return mcp.NewTool(ToolExport,
		mcp.WithDescription("Export the scripts of a .rbxmx/.rbxlx file into a directory tree and return the manifest."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Path to the place or model file")),
		mcp.WithString("out", mcp.Required(), mcp.Description("Output directory")),
		mcp.WithBoolean("keep_models", mcp.Description("Also write Workspace/ServerStorage/ReplicatedStorage models as assets")),
		mcp.WithBoolean("plain_lua", mcp.Description("Use .lua for every script class")),
	)
}

func handleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := req.RequireString("input")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := req.RequireString("out")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := api.DefaultExportOptions()
	opts.OutDir = out
	opts.KeepModels = req.GetBool("keep_models", false)
	opts.PlainLua = req.GetBool("plain_lua", false)

	doc, err := instance.ParseFile(input)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := export.ToDir(doc, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}

	data, err := json.MarshalIndent(res.Manifest(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
