// ABOUTME: Filter, sort, and summary engine for display rows
// ABOUTME: Applies search terms, exact-match filters, and sort keys without mutating input
package viewmodel

import (
	"sort"
	"strings"

	"github.com/harperreed/enterprise-crm/models"
)

// Sort keys accepted by Apply. Anything else leaves the order unchanged.
const (
	SortCreatedDesc = "created-desc"
	SortCreatedAsc  = "created-asc"
	SortNameAsc     = "name-asc"
	SortNameDesc    = "name-desc"
	SortScoreDesc   = "score-desc"
)

// FilterState is the user's current search term, filter selections, and sort
// order. It lives entirely on the view side; the store never sees it.
type FilterState struct {
	Search   string
	Status   string
	Category string
	Assignee string
	SortKey  string
}

// Summary is the "showing X of N" count pair. With a single unbounded page,
// Shown and Total are equal by construction.
type Summary struct {
	Shown int
	Total int
}

// ViewSet is the ordered visible subset of rows plus its count summary.
type ViewSet struct {
	Rows    []DisplayRow
	Summary Summary
}

// Apply filters and sorts rows according to the filter state. Empty search
// and empty filter values match everything; input rows are never reordered
// in place. An empty result is a valid ViewSet.
func Apply(rows []DisplayRow, filter FilterState) ViewSet {
	matched := make([]DisplayRow, 0, len(rows))
	for _, row := range rows {
		if matches(row, filter) {
			matched = append(matched, row)
		}
	}
	sortRows(matched, filter.SortKey)
	return ViewSet{
		Rows:    matched,
		Summary: Summary{Shown: len(matched), Total: len(matched)},
	}
}

func matches(row DisplayRow, filter FilterState) bool {
	if filter.Status != "" && row.Status != filter.Status {
		return false
	}

	spec, hasSpec := models.SpecFor(row.Kind)
	if filter.Category != "" {
		field := "category"
		if hasSpec && spec.CategoryField != "" {
			field = spec.CategoryField
		}
		if row.Str(field) != filter.Category {
			return false
		}
	}
	if filter.Assignee != "" {
		field := "assignedTo"
		if hasSpec && spec.AssigneeField != "" {
			field = spec.AssigneeField
		}
		if row.Str(field) != filter.Assignee {
			return false
		}
	}

	term := strings.ToLower(strings.TrimSpace(filter.Search))
	if term == "" {
		return true
	}
	searchable := []string{models.FieldName}
	if hasSpec {
		searchable = spec.Searchable
	}
	for _, field := range searchable {
		if strings.Contains(strings.ToLower(row.Str(field)), term) {
			return true
		}
	}
	return false
}

func sortRows(rows []DisplayRow, key string) {
	switch key {
	case SortCreatedDesc:
		// Input order is already newest-first.
	case SortCreatedAsc:
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	case SortNameAsc:
		sort.SliceStable(rows, func(i, j int) bool {
			return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
		})
	case SortNameDesc:
		sort.SliceStable(rows, func(i, j int) bool {
			return strings.ToLower(rows[i].Name) > strings.ToLower(rows[j].Name)
		})
	case SortScoreDesc:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Num(models.FieldScore) > rows[j].Num(models.FieldScore)
		})
	}
}
