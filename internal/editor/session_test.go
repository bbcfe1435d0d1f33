package editor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/catalog/internal/catalog"
)

func TestSession_BeginEditSnapshotsPersistedState(t *testing.T) {
	fn := testFunction(param(1, "a"), param(2, "b"))
	s := NewSession(fn, nil)
	assert.Equal(t, StateViewing, s.State())

	s.BeginEdit()
	assert.Equal(t, StateEditing, s.State())
	assert.Equal(t, "get_user", s.DraftName())
	assert.Equal(t, fn.Parameters, s.Parameters())
	assert.Empty(t, s.DirtyIndices())

	// the draft is a deep copy
	require.NoError(t, s.EditField(0, catalog.FieldName, "changed"))
	assert.Equal(t, "a", s.Function().Parameters[0].Name)
	assert.Equal(t, "a", fn.Parameters[0].Name)
}

func TestSession_EditRequiresEditingState(t *testing.T) {
	s := NewSession(testFunction(param(1, "a")), nil)

	assert.ErrorIs(t, s.EditName("x"), ErrNotEditing)
	assert.ErrorIs(t, s.EditField(0, catalog.FieldName, "x"), ErrNotEditing)
	_, err := s.AddParameter()
	assert.ErrorIs(t, err, ErrNotEditing)
}

func TestSession_EditFieldMarksRowOnce(t *testing.T) {
	s := NewSession(testFunction(param(1, "a"), param(2, "b")), nil)
	s.BeginEdit()

	require.NoError(t, s.EditField(1, catalog.FieldDescription, "first"))
	require.NoError(t, s.EditField(1, catalog.FieldDescription, "second"))
	require.NoError(t, s.EditField(1, catalog.FieldIsMultipleValues, true))

	assert.Equal(t, []int{1}, s.DirtyIndices())
	assert.False(t, s.IsDirty(0))
	assert.True(t, s.IsDirty(1))

	patch := s.Patch()
	require.Len(t, patch.Parameters, 1)
	assert.Equal(t, "second", patch.Parameters[0].Description)
	assert.True(t, patch.Parameters[0].IsMultipleValues)
}

func TestSession_EditFieldRejectsBadInput(t *testing.T) {
	s := NewSession(testFunction(param(1, "a")), nil)
	s.BeginEdit()

	err := s.EditField(3, catalog.FieldName, "x")
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	err = s.EditField(0, catalog.FieldIsReturnValue, "yes")
	assert.Error(t, err)
	assert.Empty(t, s.DirtyIndices(), "a rejected value must not mark the row")
}

func TestSession_EditFieldString(t *testing.T) {
	s := NewSession(testFunction(param(1, "a")), nil)
	s.BeginEdit()

	require.NoError(t, s.EditFieldString(0, catalog.FieldPositionInSignature, "2"))
	require.NoError(t, s.EditFieldString(0, catalog.FieldDefault, "all"))

	p := s.Parameters()[0]
	require.NotNil(t, p.PositionInSignature)
	assert.Equal(t, 2, *p.PositionInSignature)
	require.NotNil(t, p.Default)
	assert.Equal(t, "all", *p.Default)

	require.NoError(t, s.EditFieldString(0, catalog.FieldDefault, ""))
	assert.Nil(t, s.Parameters()[0].Default)
}

func TestSession_AddParameterAppendsBlankDirtyRow(t *testing.T) {
	s := NewSession(testFunction(param(1, "a")), nil)
	s.BeginEdit()

	idx, err := s.AddParameter()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []int{1}, s.DirtyIndices())

	added := s.Parameters()[1]
	assert.Nil(t, added.ID)
	assert.Empty(t, added.Name)
	assert.False(t, added.IsMultipleValues)
	assert.Nil(t, added.PositionInSignature)
}

func TestSession_KeysFollowRows(t *testing.T) {
	s := NewSession(testFunction(param(1, "a"), param(2, "b"), param(3, "c")), nil)
	s.BeginEdit()

	key, err := s.Key(2)
	require.NoError(t, err)
	assert.Equal(t, 2, s.IndexOf(key))

	s.removeRow(mustKey(t, s, 0), nil)
	assert.Equal(t, 1, s.IndexOf(key))
	assert.Equal(t, -1, s.IndexOf("missing"))

	_, err = s.Key(5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSession_CancelEditDiscardsEverything(t *testing.T) {
	fn := testFunction(param(1, "a"), param(2, "b"))
	s := NewSession(fn, nil)
	s.BeginEdit()

	require.NoError(t, s.EditName("renamed"))
	require.NoError(t, s.EditField(0, catalog.FieldDescription, "x"))
	_, err := s.AddParameter()
	require.NoError(t, err)
	added, err := s.AddParameter()
	require.NoError(t, err)
	require.NoError(t, s.EditField(added, catalog.FieldName, "scratch"))

	store := newFakeStore(fn)
	d := NewDeletionController(store, nil)
	require.NoError(t, d.RemoveParameter(context.Background(), s, added))
	assert.Empty(t, store.deletedParams)
	assert.Equal(t, 3, s.Len())

	s.CancelEdit()
	assert.Equal(t, StateViewing, s.State())
	assert.Equal(t, "get_user", s.DraftName())
	assert.Equal(t, fn.Parameters, s.Parameters())
	assert.Empty(t, s.DirtyIndices())

	s.BeginEdit()
	assert.Equal(t, fn.Parameters, s.Parameters())
	assert.Empty(t, s.DirtyIndices())
}

func TestSession_CancelOnDone(t *testing.T) {
	s := NewSession(testFunction(param(1, "a")), nil)
	s.BeginEdit()
	require.NoError(t, s.EditField(0, catalog.FieldName, "x"))

	ctx, cancel := context.WithCancel(context.Background())
	stop := s.CancelOnDone(ctx)
	defer stop()
	cancel()

	assert.Eventually(t, func() bool {
		return s.State() == StateViewing
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "a", s.Parameters()[0].Name)
}

func TestSession_CancelOnDoneStopped(t *testing.T) {
	s := NewSession(testFunction(param(1, "a")), nil)
	s.BeginEdit()

	ctx, cancel := context.WithCancel(context.Background())
	stop := s.CancelOnDone(ctx)
	stop()
	stop()
	cancel()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, StateEditing, s.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "viewing", StateViewing.String())
	assert.Equal(t, "editing", StateEditing.String())
	assert.Equal(t, "unknown", State(9).String())
}

func mustKey(t *testing.T, s *Session, index int) string {
	t.Helper()
	key, err := s.Key(index)
	require.NoError(t, err)
	return key
}
