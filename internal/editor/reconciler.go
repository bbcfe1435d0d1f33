package editor

import (
	"context"
	"fmt"

	"github.com/conduit-lang/catalog/internal/catalog"
)

// Reconciler submits the minimal patch of a session and normalizes the
// session to the store's response.
type Reconciler struct {
	store    Store
	notifier Notifier
}

// NewReconciler creates a reconciler. A nil notifier drops events.
func NewReconciler(store Store, notifier Notifier) *Reconciler {
	return &Reconciler{store: store, notifier: notifierOrNop(notifier)}
}

// Save submits the draft name and the dirty rows of s. On success the draft
// is replaced by the canonical function returned by the store, the dirty
// set is cleared and the session returns to viewing. On failure nothing
// local changes and the session stays in editing.
//
// With no dirty rows the request carries an empty parameter list, so a
// second Save right after a successful one, with the session back in
// viewing, changes nothing on the server.
func (r *Reconciler) Save(ctx context.Context, s *Session) (*catalog.Function, error) {
	patch, err := s.beginSave()
	if err != nil {
		return nil, err
	}
	functionID := s.FunctionID()

	if err := catalog.ValidateSubmission(patch.Name, patch.Parameters, s.typeSet()); err != nil {
		s.abortSave()
		r.fail(functionID, "Changes are incomplete", err)
		return nil, err
	}

	canonical, err := r.store.SaveFunction(ctx, functionID, patch)
	if err == nil && canonical == nil {
		err = fmt.Errorf("store returned no function")
	}
	if err != nil {
		s.abortSave()
		err = fmt.Errorf("failed to save function %d: %w", functionID, err)
		r.fail(functionID, "Failed to save changes", err)
		return nil, err
	}
	fn := s.finishSave(patch.Name, *canonical)
	r.notifier.Notify(Event{
		Kind:       KindUpdated,
		Op:         OpSave,
		FunctionID: functionID,
		Function:   &fn,
		Message:    "Function updated",
	})
	return &fn, nil
}

// SaveAndClose saves s and confirms the completed save-then-close sequence
// with a success notification.
func (r *Reconciler) SaveAndClose(ctx context.Context, s *Session) (*catalog.Function, error) {
	fn, err := r.Save(ctx, s)
	if err != nil {
		return nil, err
	}
	r.notifier.Notify(Event{
		Kind:       KindSuccess,
		Op:         OpSave,
		FunctionID: fn.ID,
		Function:   fn,
		Message:    "Changes saved",
	})
	return fn, nil
}

func (r *Reconciler) fail(functionID int64, message string, err error) {
	r.notifier.Notify(Event{
		Kind:       KindFailure,
		Op:         OpSave,
		FunctionID: functionID,
		Message:    message,
		Err:        err,
	})
}
