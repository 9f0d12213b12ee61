// ABOUTME: Tests for entity projection
// ABOUTME: Covers relative-date buckets, badge classes, currency, and placeholder stability
package viewmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/enterprise-crm/models"
)

func TestRelativeDateBuckets(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"now", 0, "Today"},
		{"same day", 5 * time.Hour, "Today"},
		{"exactly one day", 24 * time.Hour, "Yesterday"},
		{"1.04 days", 90000000 * time.Millisecond, "Yesterday"},
		{"1.5 days", 36 * time.Hour, "Yesterday"},
		{"two days", 48 * time.Hour, "2 days ago"},
		{"29 days", 29 * 24 * time.Hour, "29 days ago"},
		{"30 days", 30 * 24 * time.Hour, "1 month(s) ago"},
		{"45 days", 45 * 24 * time.Hour, "1 month(s) ago"},
		{"90 days", 90 * 24 * time.Hour, "3 month(s) ago"},
		{"364 days", 364 * 24 * time.Hour, "12 month(s) ago"},
		{"365 days", 365 * 24 * time.Hour, "1 year(s) ago"},
		{"800 days", 800 * 24 * time.Hour, "2 year(s) ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RelativeDate(now.Add(-tc.ago), now))
		})
	}
}

func TestBadgeClass(t *testing.T) {
	assert.Equal(t, "closed-lost", BadgeClass("Closed Lost"))
	assert.Equal(t, "active", BadgeClass("Active"))
	assert.Equal(t, "in-stock", BadgeClass("In Stock"))
	assert.Equal(t, "default", BadgeClass(""))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "₹1,234.50", FormatCurrency(1234.5))
	assert.Equal(t, "₹75,000.00", FormatCurrency(75000))
	assert.Equal(t, "₹0.50", FormatCurrency(0.5))
	assert.Equal(t, "₹9,700.00", FormatCurrency(9700))
	// Indian grouping: pairs above the last three digits
	assert.Equal(t, "₹1,00,000.00", FormatCurrency(100000))
	assert.Equal(t, "₹12,34,567.89", FormatCurrency(1234567.89))
	assert.Equal(t, "₹1,00,00,000.00", FormatCurrency(10000000))
	assert.Equal(t, "₹-1,00,000.00", FormatCurrency(-100000))
}

func newCustomer(id, name, status string, createdAt time.Time) *models.Entity {
	return &models.Entity{
		ID:        id,
		Kind:      "customers",
		CreatedAt: createdAt,
		Fields: map[string]any{
			"name":   name,
			"email":  name + "@example.com",
			"status": status,
		},
	}
}

func TestProjectDerivesRowFields(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	entity := newCustomer("c1", "Arjun", "Active", now.Add(-48*time.Hour))
	entity.Fields["value"] = 1234.5

	rows := Project([]*models.Entity{entity}, now)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "c1", row.ID)
	assert.Equal(t, "Arjun", row.Name)
	assert.Equal(t, "Active", row.Status)
	assert.Equal(t, "active", row.BadgeClass)
	assert.Equal(t, "2 days ago", row.RelativeCreated)
	assert.Equal(t, "₹1,234.50", row.ValueText)
}

func TestProjectIsPureAndDeterministic(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	entity := newCustomer("c1", "Arjun", "Active", now)

	first := Project([]*models.Entity{entity}, now)
	second := Project([]*models.Entity{entity}, now)
	assert.Equal(t, first, second)

	// Placeholders are derived for display only, never written back.
	_, hasIndustry := entity.Fields["industry"]
	assert.False(t, hasIndustry)
	_, hasManager := entity.Fields["accountManager"]
	assert.False(t, hasManager)
}

func TestProjectPlaceholdersStablePerEntity(t *testing.T) {
	now := time.Now()
	a := newCustomer("c1", "Arjun", "Active", now)
	b := newCustomer("c2", "Priya", "Active", now)

	rowsA := Project([]*models.Entity{a}, now)
	rowsA2 := Project([]*models.Entity{a}, now.Add(time.Hour))
	rowsB := Project([]*models.Entity{b}, now)

	assert.Equal(t, rowsA[0].Str("industry"), rowsA2[0].Str("industry"))
	assert.Equal(t, rowsA[0].Str("accountManager"), rowsA2[0].Str("accountManager"))
	assert.Contains(t, placeholderIndustries, rowsA[0].Str("industry"))
	assert.Contains(t, placeholderAccountManagers, rowsB[0].Str("accountManager"))
}

func TestProjectKeepsProvidedDisplayFields(t *testing.T) {
	now := time.Now()
	entity := newCustomer("c1", "Arjun", "Active", now)
	entity.Fields["industry"] = "Aerospace"

	rows := Project([]*models.Entity{entity}, now)
	assert.Equal(t, "Aerospace", rows[0].Str("industry"))
}

func TestProjectSynthesizesLeadScore(t *testing.T) {
	now := time.Now()
	lead := &models.Entity{
		ID:        "l1",
		Kind:      "leads",
		CreatedAt: now,
		Fields:    map[string]any{"name": "Rohan", "email": "rohan@example.com", "status": "New"},
	}

	rows := Project([]*models.Entity{lead}, now)
	score := rows[0].Num("score")
	assert.GreaterOrEqual(t, score, 60.0)
	assert.Less(t, score, 95.0)

	again := Project([]*models.Entity{lead}, now)
	assert.Equal(t, score, again[0].Num("score"))

	lead.Fields["score"] = 88.0
	withScore := Project([]*models.Entity{lead}, now)
	assert.Equal(t, 88.0, withScore[0].Num("score"))
}

func TestProjectToleratesUnknownStatus(t *testing.T) {
	now := time.Now()
	entity := newCustomer("c1", "Arjun", "Something Odd", now)

	rows := Project([]*models.Entity{entity}, now)
	assert.Equal(t, "Something Odd", rows[0].Status)
	assert.Equal(t, "something-odd", rows[0].BadgeClass)
}
