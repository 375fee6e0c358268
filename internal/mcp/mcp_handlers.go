package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/hrzones/core"
	"github.com/huangsam/hrzones/internal/contract"
	"github.com/huangsam/hrzones/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	store contract.HistoryStore
}

type classification struct {
	HeartRate float64 `json:"heartrate"`
	Zone      string  `json:"zone"`
	Range     string  `json:"range,omitempty"`
}

type zoneSummaryResult struct {
	Aligned      int                  `json:"aligned"`
	Unclassified int                  `json:"unclassified"`
	Zones        []schema.ZoneSummary `json:"zones"`
}

func (h *toolHandler) handleClassifyHeartRate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := request.GetArguments()["heartrate"]
	if !ok {
		return mcp.NewToolResultError("heartrate is required"), nil
	}
	hr, ok := raw.(float64)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("heartrate must be a number, got %T", raw)), nil
	}

	out := classification{HeartRate: hr, Zone: schema.UnclassifiedLabel}
	if z, ok := core.ClassifyZone(hr); ok {
		out.Zone = z.String()
		out.Range = schema.ZoneBoundaries[z].Range()
	}
	return jsonResult(out)
}

func (h *toolHandler) handleZoneSummary(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	hr, err := floatSlice(args, "heartrate", true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	speed, err := floatSlice(args, "velocity_smooth", true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cadence, err := floatSlice(args, "cadence", false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var az schema.ActivityZones
	az.Buckets, az.Aligned, az.Unclassified = core.AggregateZones(core.Align(hr, speed, cadence))
	return jsonResult(zoneSummaryResult{
		Aligned:      az.Aligned,
		Unclassified: az.Unclassified,
		Zones:        core.SummarizeZones(az),
	})
}

func (h *toolHandler) handleHistoryStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.store == nil {
		return mcp.NewToolResultError("history store is not configured"), nil
	}
	status, err := h.store.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status failed: %v", err)), nil
	}
	return jsonResult(status)
}

// floatSlice reads a JSON number array. A missing optional key yields nil.
func floatSlice(args map[string]any, key string, required bool) ([]float64, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		if required {
			return nil, fmt.Errorf("%s is required", key)
		}
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an array of numbers", key)
	}
	out := make([]float64, len(items))
	for i, item := range items {
		v, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a number, got %T", key, i, item)
		}
		out[i] = v
	}
	return out, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
