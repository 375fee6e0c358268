// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/hrzones/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the hrzones MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(store contract.HistoryStore, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"hrzones",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{store: store}

	s.AddTool(mcp.NewTool("classify_heartrate",
		mcp.WithDescription("Classify one heart-rate value (bpm) into a training zone. Values from 172 to 179 belong to no zone."),
		mcp.WithNumber("heartrate", mcp.Description("Heart rate in beats per minute."), mcp.Required()),
	), h.handleClassifyHeartRate)

	s.AddTool(mcp.NewTool("zone_summary",
		mcp.WithDescription("Align heart-rate, speed and cadence streams and summarize the samples per zone."),
		mcp.WithArray("heartrate", mcp.Description("Heart-rate samples in bpm."), mcp.Required(), mcp.Items(map[string]any{"type": "number"})),
		mcp.WithArray("velocity_smooth", mcp.Description("Speed samples in meters per second."), mcp.Required(), mcp.Items(map[string]any{"type": "number"})),
		mcp.WithArray("cadence", mcp.Description("Optional cadence samples. Missing cadence counts as 0."), mcp.Items(map[string]any{"type": "number"})),
	), h.handleZoneSummary)

	s.AddTool(mcp.NewTool("history_status",
		mcp.WithDescription("Show the status of the report run history store."),
	), h.handleHistoryStatus)

	return s
}

// StartMCPServer serves the tools over stdio until the client disconnects.
func StartMCPServer(_ context.Context, store contract.HistoryStore, version string) error {
	return server.ServeStdio(NewMCPServer(store, version))
}
