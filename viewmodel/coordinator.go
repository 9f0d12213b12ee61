// ABOUTME: Optimistic mutation coordinator for an entity-list session
// ABOUTME: Applies local changes before store confirmation and rolls back on failure
package viewmodel

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/harperreed/enterprise-crm/models"
)

// Store is the entity-store surface the coordinator mutates through. The
// HTTP client satisfies it; tests substitute failing fakes.
type Store interface {
	List(ctx context.Context, kind string) ([]*models.Entity, error)
	Create(ctx context.Context, kind string, fields map[string]any) (*models.Entity, error)
	Update(ctx context.Context, kind, id string, fields map[string]any) (*models.Entity, error)
	Remove(ctx context.Context, kind, id string) error
}

// Session owns the canonical entity set for one page view, its filter state,
// and the kanban board when the kind has one. All mutations go through the
// session so the list and board can never be observed disagreeing.
//
// Mutations are optimistic: local state changes first, then the store is
// called, and any store error rolls the local state back to its pre-call
// snapshot before the error is surfaced. Mutations on the same id are
// serialized; mutations on different ids may overlap.
type Session struct {
	kind  string
	spec  models.KindSpec
	store Store
	now   func() time.Time

	mu       sync.Mutex
	entities []*models.Entity
	board    *Board
	filter   FilterState
	pending  map[string]*pendingOp
	closed   bool

	locksMu sync.Mutex
	locks   map[string]*idLock
}

// idLock serializes mutations on one entity id. The refcount lets the
// session drop the map entry once no mutation holds or waits on it.
type idLock struct {
	mu   sync.Mutex
	refs int
}

type pendingKind int

const (
	pendingCreate pendingKind = iota
	pendingUpdate
	pendingDelete
)

type pendingOp struct {
	kind   pendingKind
	fields map[string]any
	entity *models.Entity
}

// SessionOption configures a session.
type SessionOption func(*Session)

// WithClock substitutes the session's time source.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession creates a coordinator session for one entity kind.
func NewSession(kind string, st Store, opts ...SessionOption) (*Session, error) {
	spec, ok := models.SpecFor(kind)
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	s := &Session{
		kind:    kind,
		spec:    spec,
		store:   st,
		now:     time.Now,
		pending: make(map[string]*pendingOp),
		locks:   make(map[string]*idLock),
	}
	if spec.Board {
		s.board = NewBoard(spec)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

var (
	localEntropyMu sync.Mutex
	localEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// newLocalID mints a temporary id for an optimistic create. The "local-"
// prefix keeps it distinguishable from server-assigned ids.
func newLocalID(now time.Time) string {
	localEntropyMu.Lock()
	defer localEntropyMu.Unlock()
	return "local-" + ulid.MustNew(ulid.Timestamp(now), localEntropy).String()
}

// IsLocalID reports whether an id is a temporary optimistic id.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, "local-")
}

// Refresh replaces the canonical set with a fresh store listing, then
// re-applies any still-pending optimistic changes on top so an in-flight
// mutation is not silently discarded by the refresh.
func (s *Session) Refresh(ctx context.Context) error {
	fetched, err := s.store.List(ctx, s.kind)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.entities = s.overlayPendingLocked(fetched)
	s.rebuildLocked()
	return nil
}

func (s *Session) overlayPendingLocked(fetched []*models.Entity) []*models.Entity {
	result := make([]*models.Entity, 0, len(fetched)+len(s.pending))
	for _, entity := range fetched {
		op, hasPending := s.pending[entity.ID]
		if hasPending && op.kind == pendingDelete {
			continue
		}
		entity.Kind = s.kind
		if hasPending && op.kind == pendingUpdate {
			entity = entity.Clone()
			for k, v := range op.fields {
				if k == "id" || k == "createdAt" {
					continue
				}
				entity.Fields[k] = v
			}
		}
		result = append(result, entity)
	}
	// Unconfirmed creates are not in the server listing yet; keep them at
	// the front where the optimistic insert put them.
	for id, op := range s.pending {
		if op.kind == pendingCreate && IsLocalID(id) {
			result = append([]*models.Entity{op.entity}, result...)
		}
	}
	return result
}

// Create optimistically inserts a row under a temporary local id, then calls
// the store. On success the temporary id is replaced by the server-assigned
// entity; on failure the row is removed and the error surfaced.
func (s *Session) Create(ctx context.Context, fields map[string]any) (*models.Entity, error) {
	localID := newLocalID(s.now())

	s.mu.Lock()
	local := &models.Entity{
		ID:        localID,
		Kind:      s.kind,
		CreatedAt: s.now(),
		Fields:    cloneFields(fields),
	}
	if local.Status() == "" {
		local.Fields[models.FieldStatus] = s.spec.DefaultStatus
	}
	s.entities = append([]*models.Entity{local}, s.entities...)
	s.pending[localID] = &pendingOp{kind: pendingCreate, entity: local}
	s.rebuildLocked()
	s.mu.Unlock()

	created, err := s.store.Create(ctx, s.kind, fields)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, localID)
	if s.closed {
		return created, err
	}
	if err != nil {
		s.removeLocked(localID)
		s.rebuildLocked()
		return nil, err
	}
	created.Kind = s.kind
	s.replaceLocked(localID, created)
	s.rebuildLocked()
	return created, nil
}

// Update optimistically merges fields into the entity and moves its board
// placement in the same step, then calls the store. A failure restores the
// pre-call snapshot. Updates on one id are serialized: a second call issued
// while the first is unconfirmed waits, so the final confirmed state carries
// the second call's fields.
func (s *Session) Update(ctx context.Context, id string, fields map[string]any) (*models.Entity, error) {
	lock := s.lockID(id)
	defer s.unlockID(id, lock)

	s.mu.Lock()
	entity := s.findLocked(id)
	if entity == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s %s is not in this session", s.spec.Singular, id)
	}
	snapshot := entity.Clone()
	for k, v := range fields {
		if k == "id" || k == "createdAt" {
			continue
		}
		entity.Fields[k] = v
	}
	s.pending[id] = &pendingOp{kind: pendingUpdate, fields: cloneFields(fields)}
	s.rebuildLocked()
	s.mu.Unlock()

	updated, err := s.store.Update(ctx, s.kind, id, fields)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
	if s.closed {
		return updated, err
	}
	if err != nil {
		s.replaceLocked(id, snapshot)
		s.rebuildLocked()
		return nil, err
	}
	updated.Kind = s.kind
	s.replaceLocked(id, updated)
	s.rebuildLocked()
	return updated, nil
}

// MoveToColumn handles a kanban drag: dropping into a column is the same
// mutation as editing the status field, so it funnels through Update and the
// list and board cannot diverge.
func (s *Session) MoveToColumn(ctx context.Context, id, column string) error {
	status, err := StatusForColumn(s.spec, column)
	if err != nil {
		return err
	}
	_, err = s.Update(ctx, id, map[string]any{models.FieldStatus: status})
	return err
}

// Remove optimistically drops the entity from the list and board, then calls
// the store. A failure restores the row at its prior position along with its
// board placement.
func (s *Session) Remove(ctx context.Context, id string) error {
	lock := s.lockID(id)
	defer s.unlockID(id, lock)

	s.mu.Lock()
	index, entity := s.findIndexLocked(id)
	if entity == nil {
		s.mu.Unlock()
		return fmt.Errorf("%s %s is not in this session", s.spec.Singular, id)
	}
	snapshot := entity.Clone()
	s.entities = append(s.entities[:index], s.entities[index+1:]...)
	s.pending[id] = &pendingOp{kind: pendingDelete}
	s.rebuildLocked()
	s.mu.Unlock()

	err := s.store.Remove(ctx, s.kind, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
	if s.closed {
		return err
	}
	if err != nil {
		s.insertAtLocked(index, snapshot)
		s.rebuildLocked()
		return err
	}
	return nil
}

// SetFilter replaces the session's filter state.
func (s *Session) SetFilter(filter FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
}

// Filter returns the current filter state.
func (s *Session) Filter() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Rows projects the full canonical set, unfiltered.
func (s *Session) Rows() []DisplayRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Project(s.entities, s.now())
}

// View projects the canonical set and applies the session filter.
func (s *Session) View() ViewSet {
	s.mu.Lock()
	rows := Project(s.entities, s.now())
	filter := s.filter
	s.mu.Unlock()
	return Apply(rows, filter)
}

// Placement reports the board column currently holding the entity.
func (s *Session) Placement(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return "", false
	}
	return s.board.ColumnOf(id)
}

// BoardColumn is one rendered kanban column.
type BoardColumn struct {
	Status string
	Rows   []DisplayRow
}

// BoardColumns returns the board contents in column order, or nil when the
// kind has no board view.
func (s *Session) BoardColumns() []BoardColumn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return nil
	}
	columns := make([]BoardColumn, 0, len(s.board.Columns()))
	for _, status := range s.board.Columns() {
		columns = append(columns, BoardColumn{Status: status, Rows: s.board.Rows(status)})
	}
	return columns
}

// Close discards all session state, including pending optimistic changes.
// Mutations still in flight resolve against the store but no longer touch
// local state, matching page-navigation semantics.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.entities = nil
	s.pending = make(map[string]*pendingOp)
	s.rebuildLocked()
}

func (s *Session) lockID(id string) *idLock {
	s.locksMu.Lock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &idLock{}
		s.locks[id] = lock
	}
	lock.refs++
	s.locksMu.Unlock()

	lock.mu.Lock()
	return lock
}

func (s *Session) unlockID(id string, lock *idLock) {
	lock.mu.Unlock()
	s.locksMu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, id)
	}
	s.locksMu.Unlock()
}

func (s *Session) rebuildLocked() {
	if s.board != nil {
		s.board.Rebuild(Project(s.entities, s.now()))
	}
}

func (s *Session) findLocked(id string) *models.Entity {
	_, entity := s.findIndexLocked(id)
	return entity
}

func (s *Session) findIndexLocked(id string) (int, *models.Entity) {
	for i, entity := range s.entities {
		if entity.ID == id {
			return i, entity
		}
	}
	return -1, nil
}

func (s *Session) replaceLocked(id string, entity *models.Entity) {
	if index, existing := s.findIndexLocked(id); existing != nil {
		s.entities[index] = entity
	}
}

func (s *Session) removeLocked(id string) {
	if index, existing := s.findIndexLocked(id); existing != nil {
		s.entities = append(s.entities[:index], s.entities[index+1:]...)
	}
}

func (s *Session) insertAtLocked(index int, entity *models.Entity) {
	if index < 0 || index > len(s.entities) {
		index = len(s.entities)
	}
	s.entities = append(s.entities, nil)
	copy(s.entities[index+1:], s.entities[index:])
	s.entities[index] = entity
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	return out
}
