package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dtroode/outagetracker/internal/logger"
	"github.com/dtroode/outagetracker/internal/model"
)

var _ model.TokenSource = (*Adapter)(nil)

// Adapter is the only component touching persistent client state.
// Backend failures are logged and degraded to false or absent results.
type Adapter struct {
	backend model.KeyValueBackend
	logger  *logger.Logger
}

// NewAdapter wraps backend.
func NewAdapter(backend model.KeyValueBackend, logger *logger.Logger) *Adapter {
	return &Adapter{backend: backend, logger: logger}
}

// Save stores value under key and reports success.
func (a *Adapter) Save(ctx context.Context, key, value string) bool {
	if err := a.backend.Set(ctx, key, value); err != nil {
		a.logger.Error("Storage: failed to save value",
			"key", key,
			"error", err.Error())
		return false
	}
	return true
}

// Load returns the value stored under key.
func (a *Adapter) Load(ctx context.Context, key string) (string, bool) {
	v, err := a.backend.Get(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return "", false
	}
	if err != nil {
		a.logger.Error("Storage: failed to load value",
			"key", key,
			"error", err.Error())
		return "", false
	}
	return v, true
}

// Clear removes keys and reports whether every delete succeeded.
func (a *Adapter) Clear(ctx context.Context, keys ...string) bool {
	ok := true
	for _, key := range keys {
		if err := a.backend.Delete(ctx, key); err != nil {
			a.logger.Error("Storage: failed to clear value",
				"key", key,
				"error", err.Error())
			ok = false
		}
	}
	return ok
}

// ClearSession removes the token and user snapshot.
func (a *Adapter) ClearSession(ctx context.Context) bool {
	return a.Clear(ctx, model.SessionKeys...)
}

// ClearAll removes every key known to the application.
func (a *Adapter) ClearAll(ctx context.Context) bool {
	return a.Clear(ctx, model.KnownKeys...)
}

// SaveOnboardingStatus persists the onboarding completed flag as JSON.
func (a *Adapter) SaveOnboardingStatus(ctx context.Context, completed bool) bool {
	raw, _ := json.Marshal(completed)
	return a.Save(ctx, model.KeyOnboardingCompleted, string(raw))
}

// OnboardingStatus returns the persisted flag, false when absent or unreadable.
func (a *Adapter) OnboardingStatus(ctx context.Context) bool {
	raw, ok := a.Load(ctx, model.KeyOnboardingCompleted)
	if !ok || raw == "" {
		return false
	}
	var completed bool
	if err := json.Unmarshal([]byte(raw), &completed); err != nil {
		a.logger.Error("Storage: failed to decode onboarding status",
			"value", raw,
			"error", err.Error())
		return false
	}
	return completed
}

// SaveAuthToken persists the bearer token as a raw string.
func (a *Adapter) SaveAuthToken(ctx context.Context, token string) bool {
	return a.Save(ctx, model.KeyAuthToken, token)
}

// AuthToken returns the persisted bearer token.
func (a *Adapter) AuthToken(ctx context.Context) (string, bool) {
	token, ok := a.Load(ctx, model.KeyAuthToken)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// SaveUser persists a snapshot of the current user.
func (a *Adapter) SaveUser(ctx context.Context, user model.User) bool {
	raw, err := json.Marshal(user)
	if err != nil {
		a.logger.Error("Storage: failed to encode user", "error", err.Error())
		return false
	}
	return a.Save(ctx, model.KeyUserData, string(raw))
}

// User returns the persisted user snapshot.
func (a *Adapter) User(ctx context.Context) (model.User, bool) {
	raw, ok := a.Load(ctx, model.KeyUserData)
	if !ok {
		return model.User{}, false
	}
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		a.logger.Error("Storage: failed to decode user", "error", err.Error())
		return model.User{}, false
	}
	return user, true
}
