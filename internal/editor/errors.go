package editor

import "errors"

var (
	// ErrNotEditing is returned when a draft operation is invoked on a
	// session that is in the viewing state
	ErrNotEditing = errors.New("session is not editing")

	// ErrIndexOutOfRange is returned when a row index does not exist in the draft
	ErrIndexOutOfRange = errors.New("parameter index out of range")

	// ErrSaveInProgress is returned when a save is requested while another
	// save of the same session has not returned yet
	ErrSaveInProgress = errors.New("save already in progress")

	// ErrRefreshFailed is returned when a function was deleted but the
	// component's function list could not be fetched afterwards
	ErrRefreshFailed = errors.New("function list refresh failed")
)
