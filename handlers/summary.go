// ABOUTME: Summary MCP tool handler
// ABOUTME: Implements the crm_summary tool with record counts and pipeline totals
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/enterprise-crm/models"
	"github.com/harperreed/enterprise-crm/viewmodel"
)

type SummaryInput struct{}

type SummaryOutput struct {
	Counts        map[string]int `json:"counts"`
	PipelineValue string         `json:"pipeline_value"`
	WonValue      string         `json:"won_value"`
}

func (h *RecordHandlers) Summary(ctx context.Context, request *mcp.CallToolRequest, input SummaryInput) (*mcp.CallToolResult, SummaryOutput, error) {
	counts := make(map[string]int)
	for _, kind := range models.Kinds() {
		n, err := h.store.Count(ctx, kind)
		if err != nil {
			return nil, SummaryOutput{}, fmt.Errorf("failed to count %s: %w", kind, err)
		}
		counts[kind] = n
	}

	deals, err := h.store.List(ctx, "deals")
	if err != nil {
		return nil, SummaryOutput{}, fmt.Errorf("failed to list deals: %w", err)
	}
	var pipeline, won float64
	for _, deal := range deals {
		value := deal.Num(models.FieldValue)
		switch deal.Status() {
		case models.DealStatusWon:
			won += value
		case models.DealStatusLost:
		default:
			pipeline += value
		}
	}

	return nil, SummaryOutput{
		Counts:        counts,
		PipelineValue: viewmodel.FormatCurrency(pipeline),
		WonValue:      viewmodel.FormatCurrency(won),
	}, nil
}
