package editor

import (
	"go.uber.org/zap"

	"github.com/conduit-lang/catalog/internal/catalog"
)

// EventKind classifies an Event
type EventKind int

const (
	// KindSuccess is a user-visible confirmation
	KindSuccess EventKind = iota
	// KindFailure is a user-visible failure report
	KindFailure
	// KindUpdated carries new canonical state for whoever displays it; it is
	// not a confirmation
	KindUpdated
)

// String returns the string representation of EventKind
func (k EventKind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindFailure:
		return "failure"
	case KindUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// Op names the operation an Event reports on
type Op string

const (
	OpLoad            Op = "load"
	OpSave            Op = "save"
	OpRemoveParameter Op = "remove_parameter"
	OpRemoveFunction  Op = "remove_function"
	OpAddFunction     Op = "add_function"
)

// Event is emitted by the editing core after every operation that touches
// the store or changes what should be displayed.
type Event struct {
	Kind        EventKind
	Op          Op
	ComponentID int64
	FunctionID  int64
	ParameterID *int64

	// Function is set on KindUpdated events after a save.
	Function *catalog.Function
	// Functions is set when a component's function list was replaced.
	Functions []catalog.Function

	Message string
	Err     error
}

// Notifier receives events from the editing core. Implementations must not
// block for long; they run on the caller's goroutine.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(Event)

// Notify calls f(e)
func (f NotifierFunc) Notify(e Event) {
	f(e)
}

// MultiNotifier fans an event out to several notifiers in order
type MultiNotifier []Notifier

// Notify forwards e to every notifier
func (m MultiNotifier) Notify(e Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(e)
		}
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}

// NopNotifier returns a notifier that drops every event
func NopNotifier() Notifier {
	return nopNotifier{}
}

// LogNotifier writes events as structured log entries
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier that logs to logger
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs e at info level, failures at warn level
func (n *LogNotifier) Notify(e Event) {
	fields := []zap.Field{
		zap.String("op", string(e.Op)),
		zap.String("kind", e.Kind.String()),
	}
	if e.ComponentID != 0 {
		fields = append(fields, zap.Int64("component_id", e.ComponentID))
	}
	if e.FunctionID != 0 {
		fields = append(fields, zap.Int64("function_id", e.FunctionID))
	}
	if e.ParameterID != nil {
		fields = append(fields, zap.Int64("parameter_id", *e.ParameterID))
	}

	if e.Kind == KindFailure {
		n.logger.Warn(e.Message, append(fields, zap.Error(e.Err))...)
		return
	}
	n.logger.Info(e.Message, fields...)
}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return NopNotifier()
	}
	return n
}
