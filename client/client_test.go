// ABOUTME: Tests for the entity store HTTP client
// ABOUTME: Verifies the error taxonomy and round-trips against the real API
package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/enterprise-crm/api"
	"github.com/harperreed/enterprise-crm/store"
)

func setupClient(t *testing.T) *Client {
	t.Helper()
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	srv := httptest.NewServer(api.NewRouter(st, nil))
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestCreateThenListRoundTrip(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()

	created, err := c.Create(ctx, "customers", map[string]any{
		"name":  "Lakshmi Venkatesh",
		"email": "lakshmi@kochidata.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	entities, err := c.List(ctx, "customers")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, created.ID, entities[0].ID)
	assert.Equal(t, "Lakshmi Venkatesh", entities[0].Str("name"))
	assert.Equal(t, "customers", entities[0].Kind)
}

func TestCreateValidationBeforeNetwork(t *testing.T) {
	// Point at a dead address: a client-side validation failure must surface
	// before any connection is attempted.
	c := New("http://127.0.0.1:1")

	_, err := c.Create(context.Background(), "customers", map[string]any{"name": "No Email"})
	require.Error(t, err)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "customers", validation.Kind)
	assert.Equal(t, []string{"email"}, validation.Fields)
}

func TestGetNotFound(t *testing.T) {
	c := setupClient(t)

	_, err := c.Get(context.Background(), "customers", "missing-id")
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "customers", notFound.Kind)
	assert.Equal(t, "missing-id", notFound.ID)
}

func TestUpdateAndRemoveNotFound(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()

	_, err := c.Update(ctx, "customers", "missing-id", map[string]any{"status": "Active"})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)

	err = c.Remove(ctx, "customers", "missing-id")
	require.ErrorAs(t, err, &notFound)
}

func TestNetworkErrorOnUnreachableServer(t *testing.T) {
	c := New("http://127.0.0.1:1")

	_, err := c.List(context.Background(), "customers")
	require.Error(t, err)

	var network *NetworkError
	require.ErrorAs(t, err, &network)
	assert.Equal(t, "customers", network.Kind)
}

func TestNetworkErrorOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.List(context.Background(), "customers")

	var network *NetworkError
	require.ErrorAs(t, err, &network)
}

func TestServerSideValidationSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"msg":"customers: missing required fields: email"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Update(context.Background(), "customers", "c1", map[string]any{"status": "Active"})
	require.Error(t, err)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Msg, "email")
}
