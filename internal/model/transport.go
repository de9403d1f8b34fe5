package model

import "net/http"

// SecurityLayer builds the base transport for outgoing API requests.
type SecurityLayer interface {
	Transport() (http.RoundTripper, error)
}
