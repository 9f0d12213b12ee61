// ABOUTME: Per-kind configuration for CRM entity kinds
// ABOUTME: Drives validation, search, status enums, and the leads kanban board
package models

// Customer statuses.
const (
	CustomerStatusActive   = "Active"
	CustomerStatusInactive = "Inactive"
	CustomerStatusLead     = "Lead"
)

// Lead pipeline statuses, in board-column order.
const (
	LeadStatusNew         = "New"
	LeadStatusContacted   = "Contacted"
	LeadStatusQualified   = "Qualified"
	LeadStatusProposal    = "Proposal"
	LeadStatusNegotiation = "Negotiation"
	LeadStatusClosedWon   = "Closed Won"
	LeadStatusClosedLost  = "Closed Lost"
)

// Deal statuses.
const (
	DealStatusNew         = "New"
	DealStatusQualified   = "Qualified"
	DealStatusProposal    = "Proposal"
	DealStatusNegotiation = "Negotiation"
	DealStatusWon         = "Won"
	DealStatusLost        = "Lost"
)

// KindSpec describes how one entity kind behaves: which fields are required
// on create, which the search box matches against, the legal status values,
// and whether the kind has a kanban board view.
type KindSpec struct {
	Kind          string
	Singular      string
	NameField     string
	Required      []string
	Searchable    []string
	Statuses      []string
	DefaultStatus string
	CategoryField string
	AssigneeField string
	Board         bool
	// RefKind names a kind whose records this kind references through
	// RefField. The store embeds the referenced name/email on read.
	RefKind  string
	RefField string
	// Placeholders lists display fields that get a deterministic stand-in
	// when absent. Values are derived at projection time, never stored.
	Placeholders []string
}

var registry = map[string]KindSpec{
	"customers": {
		Kind:          "customers",
		Singular:      "Customer",
		NameField:     FieldName,
		Required:      []string{FieldName, FieldEmail},
		Searchable:    []string{FieldName, FieldEmail, FieldCompany},
		Statuses:      []string{CustomerStatusActive, CustomerStatusInactive, CustomerStatusLead},
		DefaultStatus: CustomerStatusLead,
		Placeholders:  []string{"industry", "accountManager"},
	},
	"leads": {
		Kind:          "leads",
		Singular:      "Lead",
		NameField:     FieldName,
		Required:      []string{FieldName, FieldEmail},
		Searchable:    []string{FieldName, FieldCompany, FieldEmail},
		Statuses: []string{
			LeadStatusNew, LeadStatusContacted, LeadStatusQualified,
			LeadStatusProposal, LeadStatusNegotiation,
			LeadStatusClosedWon, LeadStatusClosedLost,
		},
		DefaultStatus: LeadStatusNew,
		CategoryField: "source",
		AssigneeField: "assignedTo",
		Board:         true,
	},
	"deals": {
		Kind:          "deals",
		Singular:      "Deal",
		NameField:     "title",
		Required:      []string{"title", "customer", FieldValue},
		Searchable:    []string{"title", "customerName"},
		Statuses: []string{
			DealStatusNew, DealStatusQualified, DealStatusProposal,
			DealStatusNegotiation, DealStatusWon, DealStatusLost,
		},
		DefaultStatus: DealStatusNew,
		RefKind:       "customers",
		RefField:      "customer",
	},
	"quotes": {
		Kind:          "quotes",
		Singular:      "Quote",
		NameField:     "customer",
		Required:      []string{"customer", FieldValue},
		Searchable:    []string{"customer", "quoteNumber"},
		Statuses:      []string{"Draft", "Sent", "Accepted", "Declined", "Expired"},
		DefaultStatus: "Draft",
	},
	"orders": {
		Kind:          "orders",
		Singular:      "Order",
		NameField:     "customer",
		Required:      []string{"customer", FieldValue},
		Searchable:    []string{"customer", "orderNumber"},
		Statuses:      []string{"Processing", "Shipped", "Delivered", "Cancelled"},
		DefaultStatus: "Processing",
	},
	"products": {
		Kind:          "products",
		Singular:      "Product",
		NameField:     FieldName,
		Required:      []string{FieldName, FieldValue},
		Searchable:    []string{FieldName, "sku"},
		Statuses:      []string{"Active", "Discontinued"},
		DefaultStatus: "Active",
		CategoryField: "category",
	},
	"inventory": {
		Kind:          "inventory",
		Singular:      "Inventory item",
		NameField:     "product",
		Required:      []string{"product"},
		Searchable:    []string{"product", "sku", "itemCode"},
		Statuses:      []string{"In Stock", "Limited", "Discontinued"},
		DefaultStatus: "In Stock",
	},
}

// SpecFor looks up the configuration for an entity kind.
func SpecFor(kind string) (KindSpec, bool) {
	spec, ok := registry[kind]
	return spec, ok
}

// Kinds returns every registered kind name in a stable order.
func Kinds() []string {
	return []string{"customers", "leads", "deals", "quotes", "orders", "products", "inventory"}
}

// ValidStatus reports whether status is a legal value for the kind. Unknown
// statuses are tolerated downstream for display but rejected on write.
func (s KindSpec) ValidStatus(status string) bool {
	for _, v := range s.Statuses {
		if v == status {
			return true
		}
	}
	return false
}

// MissingRequired returns the names of required fields absent or empty in
// the given field map.
func (s KindSpec) MissingRequired(fields map[string]any) []string {
	var missing []string
	for _, name := range s.Required {
		v, ok := fields[name]
		if !ok || v == nil {
			missing = append(missing, name)
			continue
		}
		if str, isStr := v.(string); isStr && str == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
