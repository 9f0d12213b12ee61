// ABOUTME: Kanban board derived from entity statuses
// ABOUTME: Columns mirror the kind's status enum; placement always follows canonical status
package viewmodel

import (
	"fmt"

	"github.com/harperreed/enterprise-crm/models"
)

// Board is the kanban projection for a kind with a board view (leads). One
// column per status, in enum order; a row's column is always derived from its
// canonical status field so list and board cannot disagree.
type Board struct {
	spec    models.KindSpec
	columns []string
	rows    map[string][]DisplayRow
	byID    map[string]string
}

// NewBoard creates an empty board for the kind's status columns.
func NewBoard(spec models.KindSpec) *Board {
	return &Board{
		spec:    spec,
		columns: spec.Statuses,
		rows:    make(map[string][]DisplayRow),
		byID:    make(map[string]string),
	}
}

// Rebuild replaces the board contents from the given rows. Rows with an
// unknown status land in the first column, matching the list view's
// tolerance for unknown statuses.
func (b *Board) Rebuild(rows []DisplayRow) {
	b.rows = make(map[string][]DisplayRow, len(b.columns))
	b.byID = make(map[string]string, len(rows))
	for _, row := range rows {
		column := row.Status
		if !b.spec.ValidStatus(column) {
			column = b.columns[0]
		}
		b.rows[column] = append(b.rows[column], row)
		b.byID[row.ID] = column
	}
}

// Columns returns the ordered column names.
func (b *Board) Columns() []string {
	return b.columns
}

// Rows returns the rows placed in a column.
func (b *Board) Rows(column string) []DisplayRow {
	return b.rows[column]
}

// ColumnOf reports which column holds the entity, if any.
func (b *Board) ColumnOf(id string) (string, bool) {
	column, ok := b.byID[id]
	return column, ok
}

// Counts returns the per-column card counts.
func (b *Board) Counts() map[string]int {
	counts := make(map[string]int, len(b.columns))
	for _, column := range b.columns {
		counts[column] = len(b.rows[column])
	}
	return counts
}

// StatusForColumn maps a drop-target column back to the status it represents.
// Columns are named by their status, so this validates rather than translates:
// dropping a card is semantically an update of the status field.
func StatusForColumn(spec models.KindSpec, column string) (string, error) {
	if spec.ValidStatus(column) {
		return column, nil
	}
	return "", fmt.Errorf("unknown board column %q for %s", column, spec.Kind)
}
