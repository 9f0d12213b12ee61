// ABOUTME: HTTP client for the entity store REST API
// ABOUTME: Implements list/get/create/update/remove with no retries or caching
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/harperreed/enterprise-crm/models"
)

// Client talks to the entity store over HTTP. Every List re-fetches; there is
// no client-side cache and failures are never retried.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client against the store at baseURL (e.g. "http://localhost:5000").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// List fetches every entity of the kind, newest first.
func (c *Client) List(ctx context.Context, kind string) ([]*models.Entity, error) {
	var entities []*models.Entity
	if err := c.do(ctx, http.MethodGet, "/api/"+kind, kind, "", nil, &entities); err != nil {
		return nil, err
	}
	for _, entity := range entities {
		entity.Kind = kind
	}
	return entities, nil
}

// Get fetches a single entity.
func (c *Client) Get(ctx context.Context, kind, id string) (*models.Entity, error) {
	entity := &models.Entity{}
	if err := c.do(ctx, http.MethodGet, "/api/"+kind+"/"+id, kind, id, nil, entity); err != nil {
		return nil, err
	}
	entity.Kind = kind
	return entity, nil
}

// Create persists a new entity. Required fields for the kind are checked
// before any network call.
func (c *Client) Create(ctx context.Context, kind string, fields map[string]any) (*models.Entity, error) {
	if spec, ok := models.SpecFor(kind); ok {
		if missing := spec.MissingRequired(fields); len(missing) > 0 {
			return nil, &ValidationError{Kind: kind, Fields: missing}
		}
	}
	entity := &models.Entity{}
	if err := c.do(ctx, http.MethodPost, "/api/"+kind, kind, "", fields, entity); err != nil {
		return nil, err
	}
	entity.Kind = kind
	return entity, nil
}

// Update merges fields into an existing entity.
func (c *Client) Update(ctx context.Context, kind, id string, fields map[string]any) (*models.Entity, error) {
	entity := &models.Entity{}
	if err := c.do(ctx, http.MethodPut, "/api/"+kind+"/"+id, kind, id, fields, entity); err != nil {
		return nil, err
	}
	entity.Kind = kind
	return entity, nil
}

// Remove deletes an entity.
func (c *Client) Remove(ctx context.Context, kind, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/"+kind+"/"+id, kind, id, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, kind, id string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Op: method, Kind: kind, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &NetworkError{Op: method, Kind: kind, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: method, Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Kind: kind, ID: id}
	case resp.StatusCode >= 500:
		return &NetworkError{Op: method, Kind: kind, Err: fmt.Errorf("server error: %s", resp.Status)}
	case resp.StatusCode >= 400:
		return &ValidationError{Kind: kind, Msg: responseMessage(resp.Body, resp.Status)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: method, Kind: kind, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func responseMessage(body io.Reader, fallback string) string {
	var doc struct {
		Msg string `json:"msg"`
	}
	if err := json.NewDecoder(body).Decode(&doc); err == nil && doc.Msg != "" {
		return doc.Msg
	}
	return fallback
}
