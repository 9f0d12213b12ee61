// ABOUTME: Web UI server with embedded templates
// ABOUTME: Renders the dashboard, entity list pages, leads kanban, and reports
package web

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/harperreed/enterprise-crm/activity"
	"github.com/harperreed/enterprise-crm/models"
	"github.com/harperreed/enterprise-crm/store"
	"github.com/harperreed/enterprise-crm/viewmodel"
)

//go:embed templates/*
var templatesFS embed.FS

type Server struct {
	store     *store.Store
	activity  *activity.Log
	templates *template.Template
}

// pageColumn is one table column on a list page: a header label and the
// entity field it renders.
type pageColumn struct {
	Label string
	Field string
}

// pageDef wires a URL path to an entity kind and its table layout.
type pageDef struct {
	Path    string
	Kind    string
	Title   string
	Columns []pageColumn
}

var listPages = []pageDef{
	{
		Path: "/customers", Kind: "customers", Title: "Customers",
		Columns: []pageColumn{
			{"Email", models.FieldEmail}, {"Phone", models.FieldPhone},
			{"Company", models.FieldCompany}, {"Industry", "industry"},
			{"Account Manager", "accountManager"},
		},
	},
	{
		Path: "/leads", Kind: "leads", Title: "Leads",
		Columns: []pageColumn{
			{"Email", models.FieldEmail}, {"Company", models.FieldCompany},
			{"Source", "source"}, {"Assigned To", "assignedTo"},
		},
	},
	{
		Path: "/deals", Kind: "deals", Title: "Deals",
		Columns: []pageColumn{
			{"Customer", "customerName"}, {"Email", "customerEmail"},
		},
	},
	{
		Path: "/quotes", Kind: "quotes", Title: "Quotes",
		Columns: []pageColumn{
			{"Quote #", "quoteNumber"}, {"Customer", "customer"},
		},
	},
	{
		Path: "/orders", Kind: "orders", Title: "Orders",
		Columns: []pageColumn{
			{"Order #", "orderNumber"}, {"Customer", "customer"},
			{"Payment", "paymentStatus"},
		},
	},
	{
		Path: "/products", Kind: "products", Title: "Products",
		Columns: []pageColumn{
			{"Category", "category"}, {"SKU", "sku"},
		},
	},
	{
		Path: "/inventory", Kind: "inventory", Title: "Inventory",
		Columns: []pageColumn{
			{"Item Code", "itemCode"}, {"SKU", "sku"},
		},
	},
}

func NewServer(st *store.Store, feed *activity.Log) (*Server, error) {
	funcMap := template.FuncMap{
		"currency": viewmodel.FormatCurrency,
		"add": func(a, b int) int {
			return a + b
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		store:     st,
		activity:  feed,
		templates: tmpl,
	}, nil
}

// Handler builds the route table. Kept separate from Start so tests can
// exercise the server without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)
	for _, def := range listPages {
		mux.HandleFunc(def.Path, s.handleList(def))
	}
	mux.HandleFunc("/reports", s.handleReports)
	mux.HandleFunc("/settings", s.handleSettings)
	return mux
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting web server at http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	err := s.templates.ExecuteTemplate(w, name, data)
	if err != nil {
		log.Printf("Template error rendering %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	counts := make(map[string]int)
	for _, kind := range []string{"customers", "leads", "deals", "orders"} {
		n, err := s.store.Count(r.Context(), kind)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		counts[kind] = n
	}

	deals, err := s.store.List(r.Context(), "deals")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var pipeline, won float64
	for _, deal := range deals {
		value := deal.Num(models.FieldValue)
		switch deal.Status() {
		case models.DealStatusWon:
			won += value
		case models.DealStatusLost:
		default:
			pipeline += value
		}
	}

	leads, err := s.store.List(r.Context(), "leads")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	recentLeads := viewmodel.Project(leads, time.Now())
	if len(recentLeads) > 5 {
		recentLeads = recentLeads[:5]
	}

	var feed []activity.Entry
	if s.activity != nil {
		feed, err = s.activity.Recent(r.Context(), 10)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	data := map[string]interface{}{
		"Title":           "Dashboard",
		"ContentTemplate": "dashboard-content",
		"Counts":          counts,
		"PipelineValue":   viewmodel.FormatCurrency(pipeline),
		"WonValue":        viewmodel.FormatCurrency(won),
		"RecentLeads":     recentLeads,
		"Activity":        feed,
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleList(def pageDef) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec, ok := models.SpecFor(def.Kind)
		if !ok {
			http.NotFound(w, r)
			return
		}

		entities, err := s.store.List(r.Context(), def.Kind)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		query := r.URL.Query()
		filter := viewmodel.FilterState{
			Search:   query.Get("q"),
			Status:   query.Get("status"),
			Category: query.Get("category"),
			Assignee: query.Get("assignee"),
			SortKey:  query.Get("sort"),
		}

		rows := viewmodel.Project(entities, time.Now())
		view := viewmodel.Apply(rows, filter)

		data := map[string]interface{}{
			"Title":           def.Title,
			"ContentTemplate": "list-content",
			"Path":            def.Path,
			"Kind":            def.Kind,
			"Singular":        spec.Singular,
			"Columns":         def.Columns,
			"Rows":            view.Rows,
			"Summary":         view.Summary,
			"Filter":          filter,
			"Statuses":        spec.Statuses,
			"HasBoard":        spec.Board,
		}

		if spec.Board && query.Get("view") == "kanban" {
			board := viewmodel.NewBoard(spec)
			board.Rebuild(view.Rows)
			columns := make([]viewmodel.BoardColumn, 0, len(board.Columns()))
			for _, status := range board.Columns() {
				columns = append(columns, viewmodel.BoardColumn{Status: status, Rows: board.Rows(status)})
			}
			data["ContentTemplate"] = "kanban-content"
			data["BoardColumns"] = columns
		}

		s.renderTemplate(w, "layout.html", data)
	}
}

// statusCount is one row of a report breakdown.
type statusCount struct {
	Status string
	Count  int
	Value  string
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	breakdowns := make(map[string][]statusCount)
	for _, kind := range []string{"leads", "deals"} {
		spec, _ := models.SpecFor(kind)
		entities, err := s.store.List(r.Context(), kind)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		counts := make(map[string]int)
		values := make(map[string]float64)
		for _, entity := range entities {
			counts[entity.Status()]++
			values[entity.Status()] += entity.Num(models.FieldValue)
		}

		rows := make([]statusCount, 0, len(spec.Statuses))
		for _, status := range spec.Statuses {
			rows = append(rows, statusCount{
				Status: status,
				Count:  counts[status],
				Value:  viewmodel.FormatCurrency(values[status]),
			})
		}
		breakdowns[kind] = rows
	}

	data := map[string]interface{}{
		"Title":           "Reports",
		"ContentTemplate": "reports-content",
		"LeadBreakdown":   breakdowns["leads"],
		"DealBreakdown":   breakdowns["deals"],
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	type kindInfo struct {
		Kind          string
		Singular      string
		DefaultStatus string
		Statuses      []string
	}

	var kinds []kindInfo
	for _, kind := range models.Kinds() {
		spec, _ := models.SpecFor(kind)
		kinds = append(kinds, kindInfo{
			Kind:          spec.Kind,
			Singular:      spec.Singular,
			DefaultStatus: spec.DefaultStatus,
			Statuses:      spec.Statuses,
		})
	}

	data := map[string]interface{}{
		"Title":           "Settings",
		"ContentTemplate": "settings-content",
		"Kinds":           kinds,
	}

	s.renderTemplate(w, "layout.html", data)
}
