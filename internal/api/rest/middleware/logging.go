package middleware

import (
	"net/http"
	"time"

	"github.com/dtroode/outagetracker/internal/logger"
)

// Logging is a transport middleware that logs API requests and results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Wrap logs method, path, duration and status for each request.
func (l *Logging) Wrap(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		start := time.Now()

		l.logger.Debug("HTTP request started",
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", req.Header.Get("X-Request-ID"))

		resp, err := next.RoundTrip(req)
		duration := time.Since(start)

		if err != nil {
			l.logger.Error("HTTP request failed",
				"method", req.Method,
				"path", req.URL.Path,
				"duration_ms", duration.Milliseconds(),
				"error", err.Error())
			return nil, err
		}

		l.logger.Info("HTTP request completed",
			"method", req.Method,
			"path", req.URL.Path,
			"duration_ms", duration.Milliseconds(),
			"status", resp.StatusCode)

		return resp, nil
	})
}
