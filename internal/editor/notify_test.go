package editor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/conduit-lang/catalog/internal/catalog"
)

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "success", KindSuccess.String())
	assert.Equal(t, "failure", KindFailure.String())
	assert.Equal(t, "updated", KindUpdated.String())
	assert.Equal(t, "unknown", EventKind(42).String())
}

func TestMultiNotifier(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	var called int
	m := MultiNotifier{a, nil, b, NotifierFunc(func(Event) { called++ })}

	m.Notify(Event{Kind: KindSuccess, Message: "done"})

	assert.Equal(t, []EventKind{KindSuccess}, a.kinds())
	assert.Equal(t, []EventKind{KindSuccess}, b.kinds())
	assert.Equal(t, 1, called)
	NopNotifier().Notify(Event{})
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	n.Notify(Event{
		Kind:        KindSuccess,
		Op:          OpRemoveParameter,
		FunctionID:  10,
		ParameterID: catalog.Int64(3),
		Message:     "Parameter deleted",
	})
	n.Notify(Event{
		Kind:        KindFailure,
		Op:          OpRemoveFunction,
		ComponentID: 1,
		FunctionID:  10,
		Message:     "Failed to delete function",
		Err:         errors.New("boom"),
	})

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "Parameter deleted", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "remove_parameter", fields["op"])
	assert.Equal(t, int64(10), fields["function_id"])
	assert.Equal(t, int64(3), fields["parameter_id"])
	assert.NotContains(t, fields, "component_id")

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	fields = entries[1].ContextMap()
	assert.Equal(t, "failure", fields["kind"])
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, int64(1), fields["component_id"])
}

func TestNewLogNotifier_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NewLogNotifier(nil).Notify(Event{Kind: KindUpdated})
	})
}
