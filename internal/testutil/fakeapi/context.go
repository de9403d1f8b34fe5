package fakeapi

import (
	"context"
	"net/http"
)

func contextWithBody(r *http.Request, body map[string]any) context.Context {
	return context.WithValue(r.Context(), bodyKey{}, body)
}
