// Package editor holds the client-side editing core of the catalog: an edit
// session per function, the reconciler that submits only what changed, the
// deletion controller and the add-function path.
//
// A Session keeps a draft of a function's name and parameters apart from the
// store until it is saved. Every draft row carries a synthetic key assigned
// when the row enters the draft; unsaved changes are tracked by key, so
// removing a row never disturbs the markers of the rows around it.
package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/conduit-lang/catalog/internal/catalog"
)

// State is the editing state of a Session
type State int

const (
	// StateViewing shows the persisted function; the draft mirrors it
	StateViewing State = iota
	// StateEditing holds local changes not yet submitted
	StateEditing
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	default:
		return "unknown"
	}
}

type row struct {
	key   string
	param catalog.Parameter
}

// Session is the draft of one function. It is safe for concurrent use, but
// the editing model assumes one operator issuing commands in sequence.
type Session struct {
	mu sync.Mutex

	persisted catalog.Function
	types     *TypeRegistry

	state     State
	draftName string
	rows      []row
	dirty     *dirtySet
	saving    bool

	newKey func() string
}

// NewSession creates a viewing session for fn. types may be nil, in which
// case only mandatory fields are checked before a save.
func NewSession(fn catalog.Function, types *TypeRegistry) *Session {
	s := &Session{
		persisted: fn.Clone(),
		types:     types,
		dirty:     newDirtySet(),
		newKey:    uuid.NewString,
	}
	s.snapshotLocked()
	return s
}

// OpenSession loads a function and a fresh type registry from store.
func OpenSession(ctx context.Context, store Store, functionID int64) (*Session, error) {
	fn, err := store.GetFunction(ctx, functionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load function %d: %w", functionID, err)
	}
	types, err := LoadTypeRegistry(ctx, store)
	if err != nil {
		return nil, err
	}
	return NewSession(*fn, types), nil
}

// FunctionID returns the id of the edited function
func (s *Session) FunctionID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persisted.ID
}

// State returns the current editing state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Types returns the registry fetched for this session, possibly nil
func (s *Session) Types() *TypeRegistry {
	return s.types
}

// Function returns a copy of the last canonical state received from the store.
func (s *Session) Function() catalog.Function {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persisted.Clone()
}

// BeginEdit snapshots the persisted state into the draft and enters the
// editing state. Calling it again discards the draft and re-snapshots.
func (s *Session) BeginEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshotLocked()
	s.state = StateEditing
}

// CancelEdit discards the draft and every unsaved marker and returns to
// viewing. It never touches the store.
func (s *Session) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshotLocked()
	s.state = StateViewing
}

// CancelOnDone cancels the edit when ctx is done, unless stop is called
// first. It wires an external cancel signal to CancelEdit.
func (s *Session) CancelOnDone(ctx context.Context) (stop func()) {
	done := make(chan struct{})
	var once sync.Once
	go func() {
		select {
		case <-ctx.Done():
			s.CancelEdit()
		case <-done:
		}
	}()
	return func() { once.Do(func() { close(done) }) }
}

// EditName replaces the draft function name. The name has no dirty marker;
// it is always part of a save.
func (s *Session) EditName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return ErrNotEditing
	}
	s.draftName = name
	return nil
}

// EditField sets one field of the draft row at index and marks the row
// dirty. Repeated edits keep a single marker; the last value wins.
func (s *Session) EditField(index int, field catalog.Field, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return ErrNotEditing
	}
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	if err := s.rows[index].param.Set(field, value); err != nil {
		return err
	}
	s.dirty.mark(s.rows[index].key)
	return nil
}

// EditFieldString is EditField with the value parsed from text.
func (s *Session) EditFieldString(index int, field catalog.Field, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return ErrNotEditing
	}
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	if err := s.rows[index].param.SetFromString(field, raw); err != nil {
		return err
	}
	s.dirty.mark(s.rows[index].key)
	return nil
}

// AddParameter appends a blank, unpersisted row, marks it dirty and returns
// its index.
func (s *Session) AddParameter() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return 0, ErrNotEditing
	}

	r := row{key: s.newKey()}
	s.rows = append(s.rows, r)
	s.dirty.mark(r.key)
	return len(s.rows) - 1, nil
}

// DraftName returns the draft function name
func (s *Session) DraftName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draftName
}

// Parameters returns a copy of the draft rows in display order.
func (s *Session) Parameters() []catalog.Parameter {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Parameter, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.param.Clone()
	}
	return out
}

// Len returns the number of draft rows
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// Key returns the synthetic key of the row at index
func (s *Session) Key(index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.rows) {
		return "", fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return s.rows[index].key, nil
}

// IndexOf returns the current index of the row with key, or -1
func (s *Session) IndexOf(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(key)
}

// DirtyIndices returns the current positions of the rows with unsaved
// changes, ascending.
func (s *Session) DirtyIndices() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	indices := make([]int, 0, s.dirty.len())
	for i, r := range s.rows {
		if s.dirty.has(r.key) {
			indices = append(indices, i)
		}
	}
	return indices
}

// IsDirty reports whether the row at index has unsaved changes
func (s *Session) IsDirty(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.rows) {
		return false
	}
	return s.dirty.has(s.rows[index].key)
}

// Patch builds the body a save would submit right now: the draft name and
// the dirty rows in draft order.
func (s *Session) Patch() catalog.FunctionPatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patchLocked()
}

func (s *Session) patchLocked() catalog.FunctionPatch {
	changed := make([]catalog.Parameter, 0, s.dirty.len())
	for _, r := range s.rows {
		if s.dirty.has(r.key) {
			changed = append(changed, r.param.Clone())
		}
	}
	return catalog.FunctionPatch{Name: s.draftName, Parameters: changed}
}

// beginSave reserves the session for one in-flight save and returns the
// patch to submit. A viewing session mirrors the persisted function with no
// dirty rows, so its patch is the name and an empty parameter list.
func (s *Session) beginSave() (catalog.FunctionPatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return catalog.FunctionPatch{}, ErrSaveInProgress
	}
	s.saving = true
	return s.patchLocked(), nil
}

// abortSave releases the save reservation and leaves the draft untouched.
func (s *Session) abortSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
}

// finishSave replaces all local state with the store's canonical response.
func (s *Session) finishSave(name string, canonical catalog.Function) catalog.Function {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	s.persisted.Name = name
	s.persisted.Parameters = catalog.CloneParameters(canonical.Parameters)
	s.snapshotLocked()
	s.state = StateViewing
	return s.persisted.Clone()
}

// rowAt returns a copy of the row at index for a removal.
func (s *Session) rowAt(index int) (row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return row{}, ErrNotEditing
	}
	if index < 0 || index >= len(s.rows) {
		return row{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	r := s.rows[index]
	return row{key: r.key, param: r.param.Clone()}, nil
}

// removeRow drops the row with key from the draft and its marker from the
// dirty set. When the row was persisted it is dropped from the canonical
// state too, since the store no longer has it.
func (s *Session) removeRow(key string, persistedID *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(key); i >= 0 {
		s.rows = append(s.rows[:i], s.rows[i+1:]...)
	}
	s.dirty.unmark(key)

	if persistedID == nil {
		return
	}
	kept := s.persisted.Parameters[:0:0]
	for _, p := range s.persisted.Parameters {
		if p.ID != nil && *p.ID == *persistedID {
			continue
		}
		kept = append(kept, p)
	}
	s.persisted.Parameters = kept
}

func (s *Session) indexLocked(key string) int {
	for i, r := range s.rows {
		if r.key == key {
			return i
		}
	}
	return -1
}

// snapshotLocked resets the draft to a deep copy of the persisted state with
// fresh row keys and no dirty markers.
func (s *Session) snapshotLocked() {
	s.draftName = s.persisted.Name
	s.rows = make([]row, len(s.persisted.Parameters))
	for i, p := range s.persisted.Parameters {
		s.rows[i] = row{key: s.newKey(), param: p.Clone()}
	}
	s.dirty.clear()
}

// typeSet returns the registry as a catalog.TypeSet, or a nil interface
// when none was loaded.
func (s *Session) typeSet() catalog.TypeSet {
	if s.types == nil {
		return nil
	}
	return s.types
}
