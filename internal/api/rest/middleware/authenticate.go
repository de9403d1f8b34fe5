package middleware

import (
	"net/http"

	"github.com/dtroode/outagetracker/internal/logger"
	"github.com/dtroode/outagetracker/internal/model"
)

// Authenticate injects the stored bearer token into outgoing requests.
// The token is read from the store on every request so that a token
// written by another process is picked up.
type Authenticate struct {
	tokens model.TokenSource
	logger *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens model.TokenSource, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, logger: logger}
}

// Wrap sets the Authorization header when a token is available.
func (m *Authenticate) Wrap(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		token, ok := m.tokens.AuthToken(req.Context())
		if !ok {
			m.logger.Debug("Authenticate middleware: no token stored, sending anonymous request",
				"method", req.Method, "path", req.URL.Path)
			return next.RoundTrip(req)
		}

		authed := req.Clone(req.Context())
		authed.Header.Set("Authorization", "Bearer "+token)
		return next.RoundTrip(authed)
	})
}
