package repository

import (
	"context"
	"testing"

	"todo-app/internal/models"
	apperrors "todo-app/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestMemory_ScopedByUser(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Put(ctx, models.Todo{UserID: "a", TodoID: "2", Title: "a2"}))
	require.NoError(t, m.Put(ctx, models.Todo{UserID: "a", TodoID: "1", Title: "a1"}))
	require.NoError(t, m.Put(ctx, models.Todo{UserID: "b", TodoID: "1", Title: "b1"}))

	got, err := m.ListByUser(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].TodoID)
	assert.Equal(t, "2", got[1].TodoID)
	for _, td := range got {
		assert.Equal(t, "a", td.UserID)
	}

	none, err := m.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemory_PutConflict(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Put(ctx, models.Todo{UserID: "a", TodoID: "1"}))
	err := m.Put(ctx, models.Todo{UserID: "a", TodoID: "1"})
	assert.Equal(t, apperrors.EConflict, apperrors.ErrorCode(err))
}

func TestMemory_Update(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Put(ctx, models.Todo{UserID: "a", TodoID: "1", Title: "old", Completed: true, CreatedAt: "c"}))

	got, err := m.Update(ctx, "a", "1", models.TodoPatch{Completed: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, models.Todo{UserID: "a", TodoID: "1", Title: "old", Completed: false, CreatedAt: "c"}, got)

	_, err = m.Update(ctx, "b", "1", models.TodoPatch{Title: ptr("x")})
	assert.Equal(t, apperrors.ENotFound, apperrors.ErrorCode(err))
}

func TestMemory_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Put(ctx, models.Todo{UserID: "a", TodoID: "1"}))
	require.NoError(t, m.Delete(ctx, "a", "1"))
	require.NoError(t, m.Delete(ctx, "a", "1"))
	require.NoError(t, m.Delete(ctx, "ghost", "x"))
	got, err := m.ListByUser(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemory()
	assert.ErrorIs(t, m.Put(ctx, models.Todo{UserID: "a", TodoID: "1"}), context.Canceled)
	assert.ErrorIs(t, m.Ping(ctx), context.Canceled)
}
