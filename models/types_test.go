// ABOUTME: Tests for the Entity document type
// ABOUTME: Covers wire-format JSON flattening, field helpers, and cloning
package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityMarshalFlattensFields(t *testing.T) {
	entity := &Entity{
		ID:        "abc-123",
		Kind:      "customers",
		CreatedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Fields: map[string]any{
			"name":   "Priya Sharma",
			"email":  "priya@example.com",
			"status": "Active",
		},
	}

	data, err := json.Marshal(entity)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))

	assert.Equal(t, "abc-123", wire["id"])
	assert.Equal(t, "Priya Sharma", wire["name"])
	assert.Equal(t, "Active", wire["status"])
	assert.Equal(t, "2025-03-14T09:30:00Z", wire["createdAt"])
	// Fields sit at the top level, not nested under a "fields" key
	assert.NotContains(t, wire, "fields")
}

func TestEntityUnmarshalExtractsEnvelope(t *testing.T) {
	data := []byte(`{
		"id": "abc-123",
		"createdAt": "2025-03-14T09:30:00Z",
		"name": "Priya Sharma",
		"score": 72
	}`)

	var entity Entity
	require.NoError(t, json.Unmarshal(data, &entity))

	assert.Equal(t, "abc-123", entity.ID)
	assert.Equal(t, 2025, entity.CreatedAt.Year())
	assert.Equal(t, "Priya Sharma", entity.Str("name"))
	assert.Equal(t, 72.0, entity.Num("score"))
	assert.NotContains(t, entity.Fields, "id")
	assert.NotContains(t, entity.Fields, "createdAt")
}

func TestEntityRoundTrip(t *testing.T) {
	original := &Entity{
		ID:        "abc-123",
		CreatedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Fields:    map[string]any{"name": "Priya Sharma", "value": 1250.5},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Entity
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.ID, decoded.ID)
	assert.True(t, original.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, "Priya Sharma", decoded.Str("name"))
	assert.Equal(t, 1250.5, decoded.Num("value"))
}

func TestEntityFieldHelpers(t *testing.T) {
	entity := &Entity{Fields: map[string]any{
		"name":   "Priya Sharma",
		"status": "Active",
		"value":  "250.75",
		"count":  3,
	}}

	assert.Equal(t, "Priya Sharma", entity.Name())
	assert.Equal(t, "Active", entity.Status())
	assert.Equal(t, 250.75, entity.Num("value"))
	assert.Equal(t, 3.0, entity.Num("count"))
	assert.Equal(t, "", entity.Str("missing"))
	assert.Equal(t, 0.0, entity.Num("missing"))
}

func TestEntityClone(t *testing.T) {
	entity := &Entity{
		ID:     "abc-123",
		Fields: map[string]any{"name": "Priya Sharma"},
	}

	clone := entity.Clone()
	clone.Fields["name"] = "Changed"

	assert.Equal(t, "Priya Sharma", entity.Str("name"))
	assert.Equal(t, "abc-123", clone.ID)
}
