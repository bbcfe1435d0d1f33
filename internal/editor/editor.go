package editor

import (
	"context"
)

// Editor bundles the editing core around one store and one notifier.
type Editor struct {
	Store      Store
	Reconciler *Reconciler
	Deletion   *DeletionController
	Creator    *FunctionCreator

	notifier Notifier
}

// New creates an Editor. A nil notifier drops events.
func New(store Store, notifier Notifier) *Editor {
	notifier = notifierOrNop(notifier)
	return &Editor{
		Store:      store,
		Reconciler: NewReconciler(store, notifier),
		Deletion:   NewDeletionController(store, notifier),
		Creator:    NewFunctionCreator(store, notifier),
		notifier:   notifier,
	}
}

// Open loads a function into a new session, reporting load failures.
func (e *Editor) Open(ctx context.Context, functionID int64) (*Session, error) {
	s, err := OpenSession(ctx, e.Store, functionID)
	if err != nil {
		e.notifier.Notify(Event{
			Kind:       KindFailure,
			Op:         OpLoad,
			FunctionID: functionID,
			Message:    "Failed to load function",
			Err:        err,
		})
		return nil, err
	}
	return s, nil
}
