// ABOUTME: Document store for CRM entities backed by BadgerDB
// ABOUTME: Persists entities as JSON documents keyed by kind and id
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"

	"github.com/harperreed/enterprise-crm/models"
)

var (
	// ErrNotFound indicates no entity exists for the kind and id.
	ErrNotFound = errors.New("entity not found")
	// ErrUnknownKind indicates the kind is not registered.
	ErrUnknownKind = errors.New("unknown entity kind")
)

// MissingFieldError reports a create call lacking required fields.
type MissingFieldError struct {
	Kind   string
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required fields: %s", e.Kind, strings.Join(e.Fields, ", "))
}

// Store holds all entity kinds as JSON documents in a single badger database.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the document store at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens an ephemeral store, used by tests and the MCP smoke setup.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func entityKey(kind, id string) []byte {
	return []byte(kind + "/" + id)
}

// List returns every entity of the kind, newest first by CreatedAt.
func (s *Store) List(ctx context.Context, kind string) ([]*models.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spec, ok := models.SpecFor(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	var entities []*models.Entity
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(kind + "/")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			entity := &models.Entity{}
			if err := json.Unmarshal(value, entity); err != nil {
				return fmt.Errorf("corrupt document %s: %w", it.Item().Key(), err)
			}
			entity.Kind = kind
			entities = append(entities, entity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].CreatedAt.After(entities[j].CreatedAt)
	})

	if spec.RefKind != "" {
		if err := s.embedReferences(spec, entities); err != nil {
			return nil, err
		}
	}
	return entities, nil
}

// Get returns a single entity or ErrNotFound.
func (s *Store) Get(ctx context.Context, kind, id string) (*models.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spec, ok := models.SpecFor(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	entity := &models.Entity{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entityKey(kind, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return json.Unmarshal(value, entity)
	})
	if err != nil {
		return nil, err
	}
	entity.Kind = kind

	if spec.RefKind != "" {
		if err := s.embedReferences(spec, []*models.Entity{entity}); err != nil {
			return nil, err
		}
	}
	return entity, nil
}

// Insert creates a new entity of the kind. The store assigns the id and
// CreatedAt, fills the kind's default status when absent, and rejects
// documents missing required fields.
func (s *Store) Insert(ctx context.Context, kind string, fields map[string]any) (*models.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spec, ok := models.SpecFor(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if missing := spec.MissingRequired(fields); len(missing) > 0 {
		return nil, &MissingFieldError{Kind: kind, Fields: missing}
	}

	entity := &models.Entity{
		ID:        uuid.New().String(),
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
		Fields:    make(map[string]any, len(fields)+1),
	}
	for k, v := range fields {
		entity.Fields[k] = v
	}
	if entity.Status() == "" {
		entity.Fields[models.FieldStatus] = spec.DefaultStatus
	}

	if err := s.put(entity); err != nil {
		return nil, err
	}
	if spec.RefKind != "" {
		if err := s.embedReferences(spec, []*models.Entity{entity}); err != nil {
			return nil, err
		}
	}
	return entity, nil
}

// Update merges fields into an existing entity. The id and CreatedAt are
// immutable; attempts to change them are ignored.
func (s *Store) Update(ctx context.Context, kind, id string, fields map[string]any) (*models.Entity, error) {
	entity, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		if k == "id" || k == "createdAt" {
			continue
		}
		entity.Fields[k] = v
	}
	// Get embeds the referenced entity's name and email; those are derived
	// values and must not be written back to the document.
	spec, _ := models.SpecFor(kind)
	if spec.RefKind != "" {
		delete(entity.Fields, spec.RefField+"Name")
		delete(entity.Fields, spec.RefField+"Email")
	}
	if err := s.put(entity); err != nil {
		return nil, err
	}
	if spec.RefKind != "" {
		if err := s.embedReferences(spec, []*models.Entity{entity}); err != nil {
			return nil, err
		}
	}
	return entity, nil
}

// Delete removes an entity, returning ErrNotFound when it does not exist.
func (s *Store) Delete(ctx context.Context, kind, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := models.SpecFor(kind); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		key := entityKey(kind, id)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// Count returns the number of entities of the kind.
func (s *Store) Count(ctx context.Context, kind string) (int, error) {
	entities, err := s.List(ctx, kind)
	if err != nil {
		return 0, err
	}
	return len(entities), nil
}

func (s *Store) put(entity *models.Entity) error {
	value, err := json.Marshal(entity)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entityKey(entity.Kind, entity.ID), value)
	})
}

// embedReferences resolves the kind's reference field to the referenced
// entity's name and email and embeds them on the document, so callers see
// deals already carrying customerName/customerEmail.
func (s *Store) embedReferences(spec models.KindSpec, entities []*models.Entity) error {
	for _, entity := range entities {
		refID := entity.Str(spec.RefField)
		if refID == "" {
			continue
		}
		ref := &models.Entity{}
		err := s.db.View(func(txn *badger.Txn) error {
			item, err := txn.Get(entityKey(spec.RefKind, refID))
			if err != nil {
				return err
			}
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			return json.Unmarshal(value, ref)
		})
		if errors.Is(err, badger.ErrKeyNotFound) {
			// Dangling reference; leave the raw id in place.
			continue
		}
		if err != nil {
			return err
		}
		entity.Fields[spec.RefField+"Name"] = ref.Str(models.FieldName)
		entity.Fields[spec.RefField+"Email"] = ref.Str(models.FieldEmail)
	}
	return nil
}
