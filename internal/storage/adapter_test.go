package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/outagetracker/internal/model"
	"github.com/dtroode/outagetracker/internal/testutil"
)

func TestAdapter_OnboardingStatus(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewMemoryBackend()
	a := NewAdapter(backend, testutil.MakeNoopLogger())

	assert.False(t, a.OnboardingStatus(ctx), "fresh install")

	require.True(t, a.SaveOnboardingStatus(ctx, true))
	assert.Equal(t, "true", backend.Raw(model.KeyOnboardingCompleted))
	assert.True(t, a.OnboardingStatus(ctx))

	require.True(t, a.SaveOnboardingStatus(ctx, false))
	assert.False(t, a.OnboardingStatus(ctx))
}

func TestAdapter_OnboardingStatus_Corrupt(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, model.KeyOnboardingCompleted, "{not json"))

	a := NewAdapter(backend, testutil.MakeNoopLogger())
	assert.False(t, a.OnboardingStatus(ctx))
}

func TestAdapter_AuthToken(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewMemoryBackend()
	a := NewAdapter(backend, testutil.MakeNoopLogger())

	_, ok := a.AuthToken(ctx)
	assert.False(t, ok)

	require.True(t, a.SaveAuthToken(ctx, "abc"))
	assert.Equal(t, "abc", backend.Raw(model.KeyAuthToken))

	tok, ok := a.AuthToken(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)
}

func TestAdapter_FailuresNeverEscape(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewMemoryBackend()
	backend.GetErr = errors.New("disk gone")
	backend.SetErr = errors.New("disk gone")
	backend.DeleteErr = errors.New("disk gone")
	a := NewAdapter(backend, testutil.MakeNoopLogger())

	assert.False(t, a.Save(ctx, "k", "v"))
	_, ok := a.Load(ctx, "k")
	assert.False(t, ok)
	assert.False(t, a.OnboardingStatus(ctx))
	_, ok = a.AuthToken(ctx)
	assert.False(t, ok)
	assert.False(t, a.ClearAll(ctx))
}

func TestAdapter_ClearAll(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewMemoryBackend()
	a := NewAdapter(backend, testutil.MakeNoopLogger())

	a.SaveAuthToken(ctx, "abc")
	a.SaveOnboardingStatus(ctx, true)
	a.SaveUser(ctx, model.User{ID: 1, Email: "a@b.com"})
	require.NoError(t, backend.Set(ctx, "unrelated", "x"))

	assert.True(t, a.ClearAll(ctx))
	for _, key := range model.KnownKeys {
		assert.False(t, backend.Has(key), key)
	}
	assert.True(t, backend.Has("unrelated"))

	// Clearing an empty store is idempotent.
	assert.True(t, a.ClearAll(ctx))
}

func TestAdapter_ClearSession_KeepsOnboarding(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewMemoryBackend()
	a := NewAdapter(backend, testutil.MakeNoopLogger())

	a.SaveAuthToken(ctx, "abc")
	a.SaveOnboardingStatus(ctx, true)

	assert.True(t, a.ClearSession(ctx))
	_, ok := a.AuthToken(ctx)
	assert.False(t, ok)
	assert.True(t, a.OnboardingStatus(ctx))
}

func TestAdapter_User(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(testutil.NewMemoryBackend(), testutil.MakeNoopLogger())

	_, ok := a.User(ctx)
	assert.False(t, ok)

	require.True(t, a.SaveUser(ctx, model.User{ID: 7, Name: "Ama", Email: "a@b.com"}))
	u, ok := a.User(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "Ama", u.Name)
}
