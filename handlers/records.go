// ABOUTME: Record MCP tool handlers
// ABOUTME: Implements find_records, get_record, add_record, update_record, and remove_record tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/enterprise-crm/activity"
	"github.com/harperreed/enterprise-crm/models"
	"github.com/harperreed/enterprise-crm/store"
	"github.com/harperreed/enterprise-crm/viewmodel"
)

type RecordHandlers struct {
	store    *store.Store
	activity *activity.Log
}

func NewRecordHandlers(st *store.Store, feed *activity.Log) *RecordHandlers {
	return &RecordHandlers{store: st, activity: feed}
}

type RecordOutput struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Name      string         `json:"name,omitempty"`
	Status    string         `json:"status,omitempty"`
	CreatedAt string         `json:"created_at"`
	Fields    map[string]any `json:"fields,omitempty"`
}

func entityToOutput(entity *models.Entity) RecordOutput {
	return RecordOutput{
		ID:        entity.ID,
		Kind:      entity.Kind,
		Name:      entity.Name(),
		Status:    entity.Status(),
		CreatedAt: entity.CreatedAt.Format(time.RFC3339),
		Fields:    entity.Fields,
	}
}

func rowToOutput(row viewmodel.DisplayRow) RecordOutput {
	return RecordOutput{
		ID:        row.ID,
		Kind:      row.Kind,
		Name:      row.Name,
		Status:    row.Status,
		CreatedAt: row.CreatedAt.Format(time.RFC3339),
		Fields:    row.Fields,
	}
}

type FindRecordsInput struct {
	Kind   string `json:"kind" jsonschema:"Record collection: customers, leads, deals, quotes, orders, products, or inventory"`
	Query  string `json:"query,omitempty" jsonschema:"Search text matched against the collection's searchable fields"`
	Status string `json:"status,omitempty" jsonschema:"Filter by exact status value"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindRecordsOutput struct {
	Records []RecordOutput `json:"records"`
}

func (h *RecordHandlers) FindRecords(ctx context.Context, request *mcp.CallToolRequest, input FindRecordsInput) (*mcp.CallToolResult, FindRecordsOutput, error) {
	if _, ok := models.SpecFor(input.Kind); !ok {
		return nil, FindRecordsOutput{}, fmt.Errorf("unknown record kind: %s", input.Kind)
	}
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	entities, err := h.store.List(ctx, input.Kind)
	if err != nil {
		return nil, FindRecordsOutput{}, fmt.Errorf("failed to list %s: %w", input.Kind, err)
	}

	rows := viewmodel.Project(entities, time.Now())
	view := viewmodel.Apply(rows, viewmodel.FilterState{
		Search: input.Query,
		Status: input.Status,
	})

	result := make([]RecordOutput, 0, limit)
	for _, row := range view.Rows {
		if len(result) == limit {
			break
		}
		result = append(result, rowToOutput(row))
	}

	return nil, FindRecordsOutput{Records: result}, nil
}

type GetRecordInput struct {
	Kind string `json:"kind" jsonschema:"Record collection name"`
	ID   string `json:"id" jsonschema:"Record ID"`
}

func (h *RecordHandlers) GetRecord(ctx context.Context, request *mcp.CallToolRequest, input GetRecordInput) (*mcp.CallToolResult, RecordOutput, error) {
	entity, err := h.store.Get(ctx, input.Kind, input.ID)
	if err != nil {
		return nil, RecordOutput{}, fmt.Errorf("failed to get record: %w", err)
	}
	return nil, entityToOutput(entity), nil
}

type AddRecordInput struct {
	Kind   string         `json:"kind" jsonschema:"Record collection name"`
	Fields map[string]any `json:"fields" jsonschema:"Record fields, e.g. name, email, status"`
}

func (h *RecordHandlers) AddRecord(ctx context.Context, request *mcp.CallToolRequest, input AddRecordInput) (*mcp.CallToolResult, RecordOutput, error) {
	entity, err := h.store.Insert(ctx, input.Kind, input.Fields)
	if err != nil {
		return nil, RecordOutput{}, fmt.Errorf("failed to create record: %w", err)
	}
	h.record(ctx, entity, activity.ActionCreated, "Created")
	return nil, entityToOutput(entity), nil
}

type UpdateRecordInput struct {
	Kind   string         `json:"kind" jsonschema:"Record collection name"`
	ID     string         `json:"id" jsonschema:"Record ID"`
	Fields map[string]any `json:"fields" jsonschema:"Fields to change; unnamed fields keep their values"`
}

func (h *RecordHandlers) UpdateRecord(ctx context.Context, request *mcp.CallToolRequest, input UpdateRecordInput) (*mcp.CallToolResult, RecordOutput, error) {
	entity, err := h.store.Update(ctx, input.Kind, input.ID, input.Fields)
	if err != nil {
		return nil, RecordOutput{}, fmt.Errorf("failed to update record: %w", err)
	}
	h.record(ctx, entity, activity.ActionUpdated, "Updated")
	return nil, entityToOutput(entity), nil
}

type RemoveRecordInput struct {
	Kind string `json:"kind" jsonschema:"Record collection name"`
	ID   string `json:"id" jsonschema:"Record ID"`
}

type RemoveRecordOutput struct {
	Message string `json:"message"`
}

func (h *RecordHandlers) RemoveRecord(ctx context.Context, request *mcp.CallToolRequest, input RemoveRecordInput) (*mcp.CallToolResult, RemoveRecordOutput, error) {
	entity, err := h.store.Get(ctx, input.Kind, input.ID)
	if err != nil {
		return nil, RemoveRecordOutput{}, fmt.Errorf("failed to remove record: %w", err)
	}
	if err := h.store.Delete(ctx, input.Kind, input.ID); err != nil {
		return nil, RemoveRecordOutput{}, fmt.Errorf("failed to remove record: %w", err)
	}
	h.record(ctx, entity, activity.ActionDeleted, "Deleted")

	spec, _ := models.SpecFor(input.Kind)
	return nil, RemoveRecordOutput{Message: fmt.Sprintf("%s removed", spec.Singular)}, nil
}

func (h *RecordHandlers) record(ctx context.Context, entity *models.Entity, action, verb string) {
	if h.activity == nil {
		return
	}
	spec, _ := models.SpecFor(entity.Kind)
	summary := fmt.Sprintf("%s %s %s", verb, spec.Singular, entity.Name())
	_ = h.activity.Record(ctx, entity.Kind, entity.ID, action, summary)
}
