package editor

import (
	"context"
	"errors"
	"sync"

	"github.com/conduit-lang/catalog/internal/catalog"
)

var errStoreDown = errors.New("store unavailable")

// fakeStore behaves like the metadata store: saves insert unpersisted
// parameters with fresh ids and return the full canonical function.
type fakeStore struct {
	mu sync.Mutex

	types     []string
	functions map[int64]*catalog.Function
	nextID    int64

	typesErr       error
	getErr         error
	saveErr        error
	deleteParamErr error
	deleteFnErr    error
	listErr        error
	addErr         error

	// saveGate, when set, blocks SaveFunction until it is closed; saveEntered
	// is signalled once the call has started.
	saveGate    chan struct{}
	saveEntered chan struct{}

	typeCalls        int
	saves            []catalog.FunctionPatch
	adds             []catalog.NewFunction
	deletedParams    []int64
	deletedFunctions []int64
	listCalls        []int64
}

func newFakeStore(fns ...catalog.Function) *fakeStore {
	s := &fakeStore{
		types:     []string{"string", "integer", "boolean", "object"},
		functions: make(map[int64]*catalog.Function),
		nextID:    100,
	}
	for _, fn := range fns {
		c := fn.Clone()
		s.functions[fn.ID] = &c
	}
	return s
}

func (s *fakeStore) ListParameterTypes(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.typeCalls++
	if s.typesErr != nil {
		return nil, s.typesErr
	}
	return append([]string(nil), s.types...), nil
}

func (s *fakeStore) GetFunction(ctx context.Context, functionID int64) (*catalog.Function, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	fn, ok := s.functions[functionID]
	if !ok {
		return nil, errors.New("function not found")
	}
	c := fn.Clone()
	return &c, nil
}

func (s *fakeStore) SaveFunction(ctx context.Context, functionID int64, patch catalog.FunctionPatch) (*catalog.Function, error) {
	if s.saveEntered != nil {
		s.saveEntered <- struct{}{}
	}
	if s.saveGate != nil {
		<-s.saveGate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves = append(s.saves, catalog.FunctionPatch{
		Name:       patch.Name,
		Parameters: catalog.CloneParameters(patch.Parameters),
	})
	if s.saveErr != nil {
		return nil, s.saveErr
	}

	fn, ok := s.functions[functionID]
	if !ok {
		return nil, errors.New("function not found")
	}
	fn.Name = patch.Name
	for _, p := range patch.Parameters {
		p = p.Clone()
		if p.ID == nil {
			s.nextID++
			p.ID = catalog.Int64(s.nextID)
			fn.Parameters = append(fn.Parameters, p)
			continue
		}
		for i := range fn.Parameters {
			if *fn.Parameters[i].ID == *p.ID {
				fn.Parameters[i] = p
			}
		}
	}
	c := fn.Clone()
	return &c, nil
}

func (s *fakeStore) DeleteParameter(ctx context.Context, parameterID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletedParams = append(s.deletedParams, parameterID)
	if s.deleteParamErr != nil {
		return s.deleteParamErr
	}
	for _, fn := range s.functions {
		for i, p := range fn.Parameters {
			if *p.ID == parameterID {
				fn.Parameters = append(fn.Parameters[:i], fn.Parameters[i+1:]...)
				return nil
			}
		}
	}
	return errors.New("parameter not found")
}

func (s *fakeStore) DeleteFunction(ctx context.Context, functionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletedFunctions = append(s.deletedFunctions, functionID)
	if s.deleteFnErr != nil {
		return s.deleteFnErr
	}
	if _, ok := s.functions[functionID]; !ok {
		return errors.New("function not found")
	}
	delete(s.functions, functionID)
	return nil
}

func (s *fakeStore) ListFunctions(ctx context.Context, componentID int64) ([]catalog.Function, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls = append(s.listCalls, componentID)
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.componentFunctionsLocked(componentID), nil
}

func (s *fakeStore) AddFunction(ctx context.Context, componentID int64, fn catalog.NewFunction) ([]catalog.Function, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adds = append(s.adds, fn)
	if s.addErr != nil {
		return nil, s.addErr
	}
	s.nextID++
	created := catalog.Function{ID: s.nextID, ComponentID: componentID, Name: fn.Name}
	for _, p := range fn.Parameters {
		p = p.Clone()
		s.nextID++
		p.ID = catalog.Int64(s.nextID)
		created.Parameters = append(created.Parameters, p)
	}
	s.functions[created.ID] = &created
	return s.componentFunctionsLocked(componentID), nil
}

func (s *fakeStore) componentFunctionsLocked(componentID int64) []catalog.Function {
	var out []catalog.Function
	for id := int64(0); id <= s.nextID; id++ {
		if fn, ok := s.functions[id]; ok && fn.ComponentID == componentID {
			out = append(out, fn.Clone())
		}
	}
	return out
}

// recorder collects events for assertions.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func (r *recorder) last() Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func param(id int64, name string) catalog.Parameter {
	return catalog.Parameter{
		ID:          catalog.Int64(id),
		Name:        name,
		Description: name + " description",
		ParamType:   "string",
	}
}

func testFunction(params ...catalog.Parameter) catalog.Function {
	return catalog.Function{ID: 10, ComponentID: 1, Name: "get_user", Parameters: params}
}
