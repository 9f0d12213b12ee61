// ABOUTME: Data model for CRM entities
// ABOUTME: Defines the polymorphic Entity document shared by all record kinds
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Entity is a single CRM record (customer, deal, quote, ...). All kinds share
// the same document shape: a server-assigned id, an immutable creation
// timestamp, and a free-form field map validated per kind.
type Entity struct {
	ID        string         `json:"id"`
	Kind      string         `json:"-"`
	CreatedAt time.Time      `json:"createdAt"`
	Fields    map[string]any `json:"fields"`
}

// Field names shared across kinds.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldCompany = "company"
	FieldStatus  = "status"
	FieldNotes   = "notes"
	FieldValue   = "value"
	FieldScore   = "score"
)

// Str returns a field as a string, or "" when absent or not a string.
func (e *Entity) Str(field string) string {
	if e.Fields == nil {
		return ""
	}
	if s, ok := e.Fields[field].(string); ok {
		return s
	}
	return ""
}

// Num returns a field as a float64. JSON numbers decode as float64; string
// values are parsed so hand-entered amounts still work.
func (e *Entity) Num(field string) float64 {
	if e.Fields == nil {
		return 0
	}
	switch v := e.Fields[field].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Status returns the canonical status field.
func (e *Entity) Status() string {
	return e.Str(FieldStatus)
}

// Name returns the display name for the entity's kind (name for customers,
// title for deals, and so on). Falls back to the id.
func (e *Entity) Name() string {
	if spec, ok := SpecFor(e.Kind); ok {
		if n := e.Str(spec.NameField); n != "" {
			return n
		}
	}
	if n := e.Str(FieldName); n != "" {
		return n
	}
	return e.ID
}

// Clone returns a deep copy of the entity. Field values are copied one level
// deep, which covers the flat documents the store produces.
func (e *Entity) Clone() *Entity {
	out := &Entity{
		ID:        e.ID,
		Kind:      e.Kind,
		CreatedAt: e.CreatedAt,
		Fields:    make(map[string]any, len(e.Fields)),
	}
	for k, v := range e.Fields {
		out.Fields[k] = v
	}
	return out
}

// MarshalJSON flattens the field map so entities travel as flat documents,
// matching the REST contract (id and createdAt alongside the raw fields).
func (e Entity) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(e.Fields)+2)
	for k, v := range e.Fields {
		doc[k] = v
	}
	doc["id"] = e.ID
	doc["createdAt"] = e.CreatedAt.UTC().Format(time.RFC3339Nano)
	return json.Marshal(doc)
}

// UnmarshalJSON is the inverse of MarshalJSON. The kind is not carried on the
// wire; callers set it from routing context.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if id, ok := doc["id"].(string); ok {
		e.ID = id
	}
	if raw, ok := doc["createdAt"].(string); ok {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return fmt.Errorf("invalid createdAt %q: %w", raw, err)
		}
		e.CreatedAt = ts
	}
	delete(doc, "id")
	delete(doc, "createdAt")
	e.Fields = doc
	return nil
}
