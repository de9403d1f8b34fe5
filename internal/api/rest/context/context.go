package context

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/outagetracker/internal/model"
)

type requestIDKey struct{}

// RequestIDHeader is the header carrying the request ID to the API.
const RequestIDHeader = "X-Request-ID"

var _ model.ContextManager = (*Manager)(nil)

// Manager represents a context manager for request ID operations.
// It lets callers correlate a client operation with API log lines.
type Manager struct{}

// NewManager creates a new context manager instance.
//
// Returns a pointer to the newly created Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetRequestIDToContext stores the request ID in the context.
//
// Parameters:
//   - ctx: The parent context
//   - requestID: The request ID to attach
//
// Returns a new context carrying the request ID.
func (m *Manager) SetRequestIDToContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestIDFromContext retrieves the request ID from the context.
//
// Returns the request ID and a boolean indicating if it was found.
func (m *Manager) GetRequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// EnsureRequestID returns the request ID already in ctx or a fresh one.
func (m *Manager) EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id, ok := m.GetRequestIDFromContext(ctx); ok {
		return ctx, id
	}
	id := uuid.NewString()
	return m.SetRequestIDToContext(ctx, id), id
}
