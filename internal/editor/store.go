package editor

import (
	"context"

	"github.com/conduit-lang/catalog/internal/catalog"
)

// TypeSource supplies the registered parameter type tags.
type TypeSource interface {
	ListParameterTypes(ctx context.Context) ([]string, error)
}

// Store is the Metadata Store as seen by the editing core. It is implemented
// by the HTTP client and by the PostgreSQL store.
type Store interface {
	TypeSource

	// GetFunction returns a function with its parameters in store order.
	GetFunction(ctx context.Context, functionID int64) (*catalog.Function, error)

	// SaveFunction renames the function, updates the persisted parameters of
	// patch and inserts those with a nil id. It returns the full canonical
	// function: every parameter the function has after the save, not only
	// the submitted ones.
	SaveFunction(ctx context.Context, functionID int64, patch catalog.FunctionPatch) (*catalog.Function, error)

	// DeleteParameter removes one persisted parameter immediately.
	DeleteParameter(ctx context.Context, parameterID int64) error

	// DeleteFunction removes a function and its parameters immediately.
	DeleteFunction(ctx context.Context, functionID int64) error

	// ListFunctions returns every function of a component.
	ListFunctions(ctx context.Context, componentID int64) ([]catalog.Function, error)

	// AddFunction creates a function with its full parameter set and returns
	// the component's updated function list.
	AddFunction(ctx context.Context, componentID int64, fn catalog.NewFunction) ([]catalog.Function, error)
}
