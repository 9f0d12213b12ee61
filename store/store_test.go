// ABOUTME: Tests for the badger-backed document store
// ABOUTME: Covers CRUD round-trips, validation, ordering, and deal enrichment
package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/enterprise-crm/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestInsertAndListRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.Insert(ctx, "customers", map[string]any{
		"name":    "Arjun Subramaniam",
		"email":   "arjun@chennaitech.com",
		"company": "Chennai Tech Solutions",
		"status":  "Active",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	entities, err := s.List(ctx, "customers")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, created.ID, entities[0].ID)
	assert.Equal(t, "Arjun Subramaniam", entities[0].Str("name"))
	assert.Equal(t, "arjun@chennaitech.com", entities[0].Str("email"))
	assert.Equal(t, "Active", entities[0].Status())
}

func TestInsertAppliesDefaultStatus(t *testing.T) {
	s := setupTestStore(t)

	created, err := s.Insert(context.Background(), "customers", map[string]any{
		"name":  "Deepa Chandrasekhar",
		"email": "deepa@trivandrumit.com",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CustomerStatusLead, created.Status())
}

func TestInsertRejectsMissingRequiredFields(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Insert(context.Background(), "customers", map[string]any{
		"name": "No Email",
	})
	require.Error(t, err)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "customers", missing.Kind)
	assert.Equal(t, []string{"email"}, missing.Fields)
}

func TestInsertRejectsUnknownKind(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Insert(context.Background(), "widgets", map[string]any{"name": "x"})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestGetNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Get(context.Background(), "customers", "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMergesFieldsAndKeepsCreatedAt(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.Insert(ctx, "customers", map[string]any{
		"name":  "Karthik Narayanan",
		"email": "karthik@maduraisoft.in",
	})
	require.NoError(t, err)

	updated, err := s.Update(ctx, "customers", created.ID, map[string]any{
		"status":    "Active",
		"id":        "forged",
		"createdAt": "2001-01-01T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Active", updated.Status())
	assert.Equal(t, "karthik@maduraisoft.in", updated.Str("email"))
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
}

func TestUpdateNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Update(context.Background(), "customers", "missing-id", map[string]any{"status": "Active"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.Insert(ctx, "customers", map[string]any{
		"name":  "Raja Murugan",
		"email": "raja@coimbatoreweb.com",
	})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "customers", created.ID))
	_, err = s.Get(ctx, "customers", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "customers", created.ID), ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	old := newSeedEntity("customers", seedRecord{daysAgo: 40, fields: map[string]any{
		"name": "Old Customer", "email": "old@example.com",
	}}, now)
	recent := newSeedEntity("customers", seedRecord{daysAgo: 1, fields: map[string]any{
		"name": "Recent Customer", "email": "recent@example.com",
	}}, now)
	require.NoError(t, s.put(old))
	require.NoError(t, s.put(recent))

	entities, err := s.List(ctx, "customers")
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, "Recent Customer", entities[0].Str("name"))
	assert.Equal(t, "Old Customer", entities[1].Str("name"))
}

func TestDealEmbedsCustomerReference(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	customer, err := s.Insert(ctx, "customers", map[string]any{
		"name":  "Priya Krishnamurthy",
		"email": "priya@bangaloresoft.com",
	})
	require.NoError(t, err)

	deal, err := s.Insert(ctx, "deals", map[string]any{
		"title":    "CRM Integration",
		"customer": customer.ID,
		"value":    45000.0,
	})
	require.NoError(t, err)
	assert.Equal(t, "Priya Krishnamurthy", deal.Str("customerName"))
	assert.Equal(t, "priya@bangaloresoft.com", deal.Str("customerEmail"))

	deals, err := s.List(ctx, "deals")
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "Priya Krishnamurthy", deals[0].Str("customerName"))
}

func TestDealToleratesDanglingReference(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	deal, err := s.Insert(ctx, "deals", map[string]any{
		"title":    "Orphan Deal",
		"customer": "gone",
		"value":    100.0,
	})
	require.NoError(t, err)
	assert.Equal(t, "gone", deal.Str("customer"))
	assert.Empty(t, deal.Str("customerName"))
}

func TestUpdateDoesNotPersistEmbeddedReferenceFields(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	customer, err := s.Insert(ctx, "customers", map[string]any{
		"name":  "Lakshmi Venkatesan",
		"email": "lakshmi@hyderabadapps.in",
	})
	require.NoError(t, err)

	deal, err := s.Insert(ctx, "deals", map[string]any{
		"title":    "Support Renewal",
		"customer": customer.ID,
		"value":    30000.0,
	})
	require.NoError(t, err)

	updated, err := s.Update(ctx, "deals", deal.ID, map[string]any{"status": "Qualified"})
	require.NoError(t, err)
	assert.Equal(t, "Lakshmi Venkatesan", updated.Str("customerName"))

	// The embedded name and email are derived on read. If an update wrote
	// them back, deleting the customer would leave stale copies behind.
	require.NoError(t, s.Delete(ctx, "customers", customer.ID))
	got, err := s.Get(ctx, "deals", deal.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, got.Str("customer"))
	assert.Empty(t, got.Str("customerName"))
	assert.Empty(t, got.Str("customerEmail"))
}

func TestSeedIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx))
	first, err := s.Count(ctx, "customers")
	require.NoError(t, err)
	assert.Equal(t, len(seedCustomers), first)

	require.NoError(t, s.Seed(ctx))
	second, err := s.Count(ctx, "customers")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	for _, kind := range models.Kinds() {
		count, err := s.Count(ctx, kind)
		require.NoError(t, err)
		assert.Positive(t, count, "kind %s should be seeded", kind)
	}
}
