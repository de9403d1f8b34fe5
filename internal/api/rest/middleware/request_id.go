package middleware

import (
	"net/http"

	restctx "github.com/dtroode/outagetracker/internal/api/rest/context"
)

// RequestID stamps every request with an X-Request-ID header.
type RequestID struct {
	manager *restctx.Manager
}

// NewRequestID creates a new RequestID middleware.
func NewRequestID(manager *restctx.Manager) *RequestID {
	return &RequestID{manager: manager}
}

// Wrap reuses the request ID from the context or generates one.
func (m *RequestID) Wrap(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get(restctx.RequestIDHeader) != "" {
			return next.RoundTrip(req)
		}
		_, id := m.manager.EnsureRequestID(req.Context())

		stamped := req.Clone(req.Context())
		stamped.Header.Set(restctx.RequestIDHeader, id)
		return next.RoundTrip(stamped)
	})
}
