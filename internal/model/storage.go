package model

import "context"

// Storage keys shared with the web client.
const (
	KeyOnboardingCompleted = "pot_onboarding_completed"
	KeyAuthToken           = "pot_auth_token"
	KeyUserData            = "pot_user_data"
)

// KnownKeys lists every key the application writes.
var KnownKeys = []string{KeyOnboardingCompleted, KeyAuthToken, KeyUserData}

// SessionKeys lists the keys cleared on logout. The onboarding flag is
// only cleared by an explicit onboarding reset.
var SessionKeys = []string{KeyAuthToken, KeyUserData}

// KeyValueBackend is a persistent string store.
// Get returns ErrNotFound for missing keys.
type KeyValueBackend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TokenSource returns the bearer token to attach to outgoing requests.
type TokenSource interface {
	AuthToken(ctx context.Context) (string, bool)
}

// SessionStore persists the auth token and cached user.
type SessionStore interface {
	TokenSource
	SaveAuthToken(ctx context.Context, token string) bool
	SaveUser(ctx context.Context, user User) bool
	User(ctx context.Context) (User, bool)
	ClearSession(ctx context.Context) bool
}

// OnboardingStore persists the onboarding flag.
type OnboardingStore interface {
	OnboardingStatus(ctx context.Context) bool
	SaveOnboardingStatus(ctx context.Context, completed bool) bool
}
