package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditor_Open(t *testing.T) {
	store := newFakeStore(testFunction(param(1, "a")))
	rec := &recorder{}
	e := New(store, rec)

	s, err := e.Open(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), s.FunctionID())
	assert.Equal(t, StateViewing, s.State())
	require.NotNil(t, s.Types())
	assert.True(t, s.Types().Contains("string"))
	assert.Empty(t, rec.kinds())
}

func TestEditor_OpenFailureIsReported(t *testing.T) {
	store := newFakeStore()
	rec := &recorder{}
	e := New(store, rec)

	_, err := e.Open(context.Background(), 99)
	require.Error(t, err)

	ev := rec.last()
	assert.Equal(t, KindFailure, ev.Kind)
	assert.Equal(t, OpLoad, ev.Op)
	assert.Equal(t, int64(99), ev.FunctionID)
}

func TestEditor_OpenTypeFailure(t *testing.T) {
	store := newFakeStore(testFunction(param(1, "a")))
	store.typesErr = errStoreDown
	e := New(store, nil)

	_, err := e.Open(context.Background(), 10)
	assert.ErrorIs(t, err, errStoreDown)
}
