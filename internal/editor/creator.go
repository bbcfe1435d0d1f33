package editor

import (
	"context"
	"fmt"

	"github.com/conduit-lang/catalog/internal/catalog"
)

// FunctionCreator adds new functions. Unlike an edit, creation submits the
// full parameter set since there is no persisted state to diff against.
type FunctionCreator struct {
	store    Store
	notifier Notifier
}

// NewFunctionCreator creates a function creator. A nil notifier drops events.
func NewFunctionCreator(store Store, notifier Notifier) *FunctionCreator {
	return &FunctionCreator{store: store, notifier: notifierOrNop(notifier)}
}

// Add validates fn against a freshly fetched type registry and submits it.
// It returns the component's updated function list.
func (c *FunctionCreator) Add(ctx context.Context, componentID int64, fn catalog.NewFunction) ([]catalog.Function, error) {
	types, err := LoadTypeRegistry(ctx, c.store)
	if err != nil {
		c.fail(componentID, "Failed to load parameter types", err)
		return nil, err
	}

	if err := catalog.ValidateSubmission(fn.Name, fn.Parameters, types); err != nil {
		c.fail(componentID, "Function is incomplete", err)
		return nil, err
	}

	submitted := catalog.NewFunction{
		Name:       fn.Name,
		Parameters: catalog.CloneParameters(fn.Parameters),
	}
	functions, err := c.store.AddFunction(ctx, componentID, submitted)
	if err != nil {
		err = fmt.Errorf("failed to add function to component %d: %w", componentID, err)
		c.fail(componentID, "Failed to add function", err)
		return nil, err
	}

	c.notifier.Notify(Event{
		Kind:        KindSuccess,
		Op:          OpAddFunction,
		ComponentID: componentID,
		Functions:   functions,
		Message:     "Function added",
	})
	return functions, nil
}

func (c *FunctionCreator) fail(componentID int64, message string, err error) {
	c.notifier.Notify(Event{
		Kind:        KindFailure,
		Op:          OpAddFunction,
		ComponentID: componentID,
		Message:     message,
		Err:         err,
	})
}
