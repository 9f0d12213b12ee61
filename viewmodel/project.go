// ABOUTME: Projects raw entities into render-ready display rows
// ABOUTME: Pure derivation of relative dates, badge classes, currency, and placeholders
package viewmodel

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/harperreed/enterprise-crm/models"
)

// DisplayRow is the ephemeral, render-ready projection of one entity. It is
// recomputed on every projection pass and never persisted.
type DisplayRow struct {
	ID              string
	Kind            string
	CreatedAt       time.Time
	Name            string
	Status          string
	BadgeClass      string
	RelativeCreated string
	ValueText       string
	Fields          map[string]any
}

// Str returns a projected field as a string.
func (r DisplayRow) Str(field string) string {
	if s, ok := r.Fields[field].(string); ok {
		return s
	}
	return ""
}

// Num returns a projected field as a float64.
func (r DisplayRow) Num(field string) float64 {
	switch v := r.Fields[field].(type) {
	case float64:
		return v
	case int:
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

// Placeholder pools for display fields that seed data may lack. Values are
// chosen by a stable hash of the entity id so a record keeps its stand-in
// across renders, but nothing is ever written back to the entity.
var (
	placeholderIndustries      = []string{"Technology", "Finance", "Healthcare", "Education", "Retail", "Manufacturing"}
	placeholderAccountManagers = []string{"Jane Doe", "Robert Brown", "Emily Davis"}
)

// Project derives display rows from raw entities. Pure: the same entities and
// now always produce the same rows, and the input is never mutated.
func Project(entities []*models.Entity, now time.Time) []DisplayRow {
	rows := make([]DisplayRow, 0, len(entities))
	for _, entity := range entities {
		rows = append(rows, projectOne(entity, now))
	}
	return rows
}

func projectOne(entity *models.Entity, now time.Time) DisplayRow {
	row := DisplayRow{
		ID:              entity.ID,
		Kind:            entity.Kind,
		CreatedAt:       entity.CreatedAt,
		Name:            entity.Name(),
		Status:          entity.Status(),
		BadgeClass:      BadgeClass(entity.Status()),
		RelativeCreated: RelativeDate(entity.CreatedAt, now),
		Fields:          make(map[string]any, len(entity.Fields)+2),
	}
	for k, v := range entity.Fields {
		row.Fields[k] = v
	}

	spec, ok := models.SpecFor(entity.Kind)
	if !ok {
		return row
	}

	for _, field := range spec.Placeholders {
		if row.Str(field) == "" {
			row.Fields[field] = placeholderFor(entity.ID, field)
		}
	}
	if spec.Kind == "leads" {
		if _, present := row.Fields[models.FieldScore]; !present {
			row.Fields[models.FieldScore] = scoreFor(entity.ID)
		}
	}
	if _, present := row.Fields[models.FieldValue]; present {
		row.ValueText = FormatCurrency(entity.Num(models.FieldValue))
	}
	return row
}

// RelativeDate buckets a creation time relative to now: "Today", "Yesterday",
// then day, month, and year counts. Days are whole 24-hour periods.
func RelativeDate(createdAt, now time.Time) string {
	daysAgo := int(now.Sub(createdAt).Milliseconds() / 86400000)
	switch {
	case daysAgo <= 0:
		return "Today"
	case daysAgo == 1:
		return "Yesterday"
	case daysAgo < 30:
		return fmt.Sprintf("%d days ago", daysAgo)
	case daysAgo < 365:
		return fmt.Sprintf("%d month(s) ago", daysAgo/30)
	default:
		return fmt.Sprintf("%d year(s) ago", daysAgo/365)
	}
}

// BadgeClass maps a status string to its CSS badge class: lower-cased with
// spaces replaced by hyphens. Unknown statuses still yield a usable class.
func BadgeClass(status string) string {
	if status == "" {
		return "default"
	}
	return strings.ReplaceAll(strings.ToLower(status), " ", "-")
}

// FormatCurrency renders an amount as rupees with two decimal places and
// Indian digit grouping: the last three digits, then pairs, e.g.
// 1234.5 -> "₹1,234.50" and 100000 -> "₹1,00,000.00".
func FormatCurrency(amount float64) string {
	s := humanize.FormatFloat("###.##", amount)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	return "₹" + sign + groupIndian(intPart) + "." + frac
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return strings.Join(groups, ",") + "," + tail
}

func stableHash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

func placeholderFor(id, field string) string {
	switch field {
	case "industry":
		return placeholderIndustries[stableHash(id+":industry")%uint32(len(placeholderIndustries))]
	case "accountManager":
		return placeholderAccountManagers[stableHash(id+":manager")%uint32(len(placeholderAccountManagers))]
	}
	return ""
}

// scoreFor synthesizes a lead score in [60, 95) from the entity id.
func scoreFor(id string) float64 {
	return float64(60 + stableHash(id+":score")%35)
}
