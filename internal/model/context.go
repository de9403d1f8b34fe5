package model

import "context"

// ContextManager carries request IDs through contexts.
type ContextManager interface {
	SetRequestIDToContext(ctx context.Context, requestID string) context.Context
	GetRequestIDFromContext(ctx context.Context) (string, bool)
}
