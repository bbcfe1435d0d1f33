package editor

import (
	"context"
	"fmt"

	"github.com/conduit-lang/catalog/internal/catalog"
)

// DeletionController removes parameters and functions. Deleting something
// the store already has is immediate and independent of any pending save.
type DeletionController struct {
	store    Store
	notifier Notifier
}

// NewDeletionController creates a deletion controller. A nil notifier drops
// events.
func NewDeletionController(store Store, notifier Notifier) *DeletionController {
	return &DeletionController{store: store, notifier: notifierOrNop(notifier)}
}

// RemoveParameter removes the draft row at index. A row that was never
// persisted is dropped locally without contacting the store. A persisted row
// is deleted in the store with exactly one request, and only dropped from
// the draft once that request succeeds.
func (d *DeletionController) RemoveParameter(ctx context.Context, s *Session, index int) error {
	r, err := s.rowAt(index)
	if err != nil {
		return err
	}
	functionID := s.FunctionID()

	if !r.param.IsPersisted() {
		s.removeRow(r.key, nil)
		d.notifier.Notify(Event{
			Kind:       KindSuccess,
			Op:         OpRemoveParameter,
			FunctionID: functionID,
			Message:    "Parameter removed",
		})
		return nil
	}

	id := *r.param.ID
	if err := d.store.DeleteParameter(ctx, id); err != nil {
		err = fmt.Errorf("failed to delete parameter %d: %w", id, err)
		d.notifier.Notify(Event{
			Kind:        KindFailure,
			Op:          OpRemoveParameter,
			FunctionID:  functionID,
			ParameterID: catalog.Int64(id),
			Message:     "Failed to delete parameter",
			Err:         err,
		})
		return err
	}

	s.removeRow(r.key, &id)
	d.notifier.Notify(Event{
		Kind:        KindSuccess,
		Op:          OpRemoveParameter,
		FunctionID:  functionID,
		ParameterID: catalog.Int64(id),
		Message:     "Parameter deleted",
	})
	return nil
}

// RemoveFunction deletes a function unconditionally and returns the
// component's remaining functions. It is not gated by any edit session of
// that function. When the delete succeeds but the refresh fails, the error
// wraps ErrRefreshFailed.
func (d *DeletionController) RemoveFunction(ctx context.Context, componentID, functionID int64) ([]catalog.Function, error) {
	if err := d.store.DeleteFunction(ctx, functionID); err != nil {
		err = fmt.Errorf("failed to delete function %d: %w", functionID, err)
		d.notifier.Notify(Event{
			Kind:        KindFailure,
			Op:          OpRemoveFunction,
			ComponentID: componentID,
			FunctionID:  functionID,
			Message:     "Failed to delete function",
			Err:         err,
		})
		return nil, err
	}

	functions, err := d.store.ListFunctions(ctx, componentID)
	if err != nil {
		err = fmt.Errorf("%w: component %d: %v", ErrRefreshFailed, componentID, err)
		d.notifier.Notify(Event{
			Kind:        KindFailure,
			Op:          OpRemoveFunction,
			ComponentID: componentID,
			FunctionID:  functionID,
			Message:     "Function deleted, but the list could not be refreshed",
			Err:         err,
		})
		return nil, err
	}

	d.notifier.Notify(Event{
		Kind:        KindSuccess,
		Op:          OpRemoveFunction,
		ComponentID: componentID,
		FunctionID:  functionID,
		Functions:   functions,
		Message:     "Function deleted",
	})
	return functions, nil
}
