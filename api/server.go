// ABOUTME: REST transport for the entity store
// ABOUTME: Serves /api/{kind} CRUD routes plus the deals-by-customer lookup
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harperreed/enterprise-crm/activity"
	"github.com/harperreed/enterprise-crm/models"
	"github.com/harperreed/enterprise-crm/store"
)

// Server wires the document store and activity log to HTTP handlers.
type Server struct {
	store    *store.Store
	activity *activity.Log
}

// NewRouter builds the API router. The activity log may be nil, in which case
// mutations are not recorded.
func NewRouter(st *store.Store, actLog *activity.Log) *chi.Mux {
	srv := &Server{store: st, activity: actLog}

	r := chi.NewRouter()
	r.Get("/health", srv.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/deals/customer/{customerID}", srv.handleDealsByCustomer)
		r.Route("/{kind}", func(r chi.Router) {
			r.Get("/", srv.handleList)
			r.Post("/", srv.handleCreate)
			r.Get("/{id}", srv.handleGet)
			r.Put("/{id}", srv.handleUpdate)
			r.Delete("/{id}", srv.handleDelete)
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	entities, err := s.store.List(r.Context(), kind)
	if err != nil {
		s.writeError(w, kind, err)
		return
	}
	if entities == nil {
		entities = []*models.Entity{}
	}
	writeJSON(w, http.StatusOK, entities)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	entity, err := s.store.Get(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, kind, err)
		return
	}
	writeJSON(w, http.StatusOK, entity)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}

	entity, err := s.store.Insert(r.Context(), kind, fields)
	if err != nil {
		s.writeError(w, kind, err)
		return
	}
	s.record(r, kind, entity, activity.ActionCreated)
	writeJSON(w, http.StatusOK, entity)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}

	entity, err := s.store.Update(r.Context(), kind, chi.URLParam(r, "id"), fields)
	if err != nil {
		s.writeError(w, kind, err)
		return
	}
	s.record(r, kind, entity, activity.ActionUpdated)
	writeJSON(w, http.StatusOK, entity)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	id := chi.URLParam(r, "id")

	entity, err := s.store.Get(r.Context(), kind, id)
	if err != nil {
		s.writeError(w, kind, err)
		return
	}
	if err := s.store.Delete(r.Context(), kind, id); err != nil {
		s.writeError(w, kind, err)
		return
	}
	s.record(r, kind, entity, activity.ActionDeleted)
	writeJSON(w, http.StatusOK, map[string]string{"msg": kindLabel(kind) + " removed"})
}

func (s *Server) handleDealsByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")
	deals, err := s.store.List(r.Context(), "deals")
	if err != nil {
		s.writeError(w, "deals", err)
		return
	}
	matched := []*models.Entity{}
	for _, deal := range deals {
		if deal.Str("customer") == customerID {
			matched = append(matched, deal)
		}
	}
	writeJSON(w, http.StatusOK, matched)
}

func (s *Server) record(r *http.Request, kind string, entity *models.Entity, action string) {
	if s.activity == nil {
		return
	}
	summary := fmt.Sprintf("%s %s %s", actionVerb(action), kindLabel(kind), entity.Name())
	if err := s.activity.Record(r.Context(), kind, entity.ID, action, summary); err != nil {
		log.Printf("Failed to record activity: %v", err)
	}
}

func actionVerb(action string) string {
	switch action {
	case activity.ActionCreated:
		return "Created"
	case activity.ActionUpdated:
		return "Updated"
	case activity.ActionDeleted:
		return "Deleted"
	}
	return action
}

func kindLabel(kind string) string {
	if spec, ok := models.SpecFor(kind); ok {
		return spec.Singular
	}
	return kind
}

func decodeFields(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "invalid JSON body"})
		return nil, false
	}
	return fields, true
}

func (s *Server) writeError(w http.ResponseWriter, kind string, err error) {
	var missing *store.MissingFieldError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"msg": kindLabel(kind) + " not found"})
	case errors.Is(err, store.ErrUnknownKind):
		writeJSON(w, http.StatusNotFound, map[string]string{"msg": "unknown kind: " + kind})
	case errors.As(err, &missing):
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": missing.Error()})
	default:
		log.Printf("API error for %s: %v", kind, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"msg": "Server Error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
