// ABOUTME: Record CLI commands
// ABOUTME: Human-friendly commands for listing and adding CRM records
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/harperreed/enterprise-crm/models"
	"github.com/harperreed/enterprise-crm/store"
	"github.com/harperreed/enterprise-crm/viewmodel"
)

// ListCommand prints records of one kind as a table.
func ListCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	kind := fs.String("kind", "customers", "Record collection (customers, leads, deals, ...)")
	query := fs.String("q", "", "Search text")
	status := fs.String("status", "", "Filter by exact status")
	sortKey := fs.String("sort", "", "Sort order (created-desc, created-asc, name-asc, name-desc)")
	_ = fs.Parse(args)

	spec, ok := models.SpecFor(*kind)
	if !ok {
		return fmt.Errorf("unknown record kind: %s", *kind)
	}

	entities, err := st.List(context.Background(), *kind)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", *kind, err)
	}

	rows := viewmodel.Project(entities, time.Now())
	view := viewmodel.Apply(rows, viewmodel.FilterState{
		Search:  *query,
		Status:  *status,
		SortKey: *sortKey,
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tVALUE\tCREATED")
	for _, row := range view.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			row.ID, row.Name, row.Status, row.ValueText, row.RelativeCreated)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nShowing %d of %d %s\n", view.Summary.Shown, view.Summary.Total, spec.Kind)
	return nil
}

// AddCommand creates a record from --field key=value flags.
func AddCommand(st *store.Store, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	kind := fs.String("kind", "", "Record collection (required)")
	var fields fieldFlags
	fs.Var(&fields, "field", "Record field as key=value (repeatable)")
	_ = fs.Parse(args)

	if *kind == "" {
		return fmt.Errorf("--kind is required")
	}

	entity, err := st.Insert(context.Background(), *kind, fields.values())
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	spec, _ := models.SpecFor(*kind)
	fmt.Printf("Created %s %s (%s)\n", spec.Singular, entity.Name(), entity.ID)
	return nil
}

// fieldFlags collects repeated --field key=value pairs.
type fieldFlags []string

func (f *fieldFlags) String() string { return fmt.Sprint(*f) }

func (f *fieldFlags) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func (f fieldFlags) values() map[string]any {
	fields := make(map[string]any, len(f))
	for _, pair := range f {
		for i := 0; i < len(pair); i++ {
			if pair[i] == '=' {
				fields[pair[:i]] = pair[i+1:]
				break
			}
		}
	}
	return fields
}
