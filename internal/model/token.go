package model

import "time"

// TokenInspector reads claims from a bearer token without verifying it.
type TokenInspector interface {
	// Expired reports whether the token carries an expiry in the past.
	// Tokens that cannot be inspected are never reported as expired.
	Expired(token string, now time.Time) bool
}
