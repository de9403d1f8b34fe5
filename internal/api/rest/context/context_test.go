package context

import (
	stdctx "context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SetAndGetRequestID(t *testing.T) {
	m := NewManager()
	ctx := m.SetRequestIDToContext(stdctx.Background(), "req-1")

	got, ok := m.GetRequestIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "req-1", got)
}

func TestManager_GetRequestID_NotFound(t *testing.T) {
	m := NewManager()
	_, ok := m.GetRequestIDFromContext(stdctx.Background())
	assert.False(t, ok)
}

func TestManager_GetRequestID_Empty(t *testing.T) {
	m := NewManager()
	ctx := m.SetRequestIDToContext(stdctx.Background(), "")
	_, ok := m.GetRequestIDFromContext(ctx)
	assert.False(t, ok)
}

func TestManager_EnsureRequestID(t *testing.T) {
	m := NewManager()

	ctx, id := m.EnsureRequestID(stdctx.Background())
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	again, sameID := m.EnsureRequestID(ctx)
	assert.Equal(t, id, sameID)
	got, _ := m.GetRequestIDFromContext(again)
	assert.Equal(t, id, got)
}
