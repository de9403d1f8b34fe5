package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"

	"github.com/dtroode/outagetracker/internal/model"
)

var (
	_ model.SecurityLayer = (*TLSTransport)(nil)
	_ model.SecurityLayer = (*PlainTransport)(nil)
)

// TLSTransport represents a transport that trusts an extra CA bundle.
// It is used when the API sits behind a certificate not in the system pool.
type TLSTransport struct {
	caFileName string
}

// NewTLSTransport creates a new TLSTransport instance.
//
// Parameters:
//   - caFileName: Path to a PEM encoded CA bundle
//
// Returns a pointer to the newly created TLSTransport instance.
func NewTLSTransport(caFileName string) *TLSTransport {
	return &TLSTransport{caFileName: caFileName}
}

// Transport builds an HTTP transport that verifies servers against the
// system pool plus the configured CA bundle.
func (t *TLSTransport) Transport() (http.RoundTripper, error) {
	pem, err := os.ReadFile(t.caFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load CA bundle: %w", err)
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("failed to load CA bundle: no certificates in %s", t.caFileName)
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSClientConfig = &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}
	return base, nil
}

// PlainTransport represents the default transport with system roots.
type PlainTransport struct{}

// NewPlainTransport creates a new PlainTransport instance.
func NewPlainTransport() *PlainTransport {
	return &PlainTransport{}
}

// Transport returns a clone of the default HTTP transport.
func (t *PlainTransport) Transport() (http.RoundTripper, error) {
	return http.DefaultTransport.(*http.Transport).Clone(), nil
}

// FromConfig picks the security layer for the given settings.
func FromConfig(enableTLS bool, caFileName string) model.SecurityLayer {
	if enableTLS && caFileName != "" {
		return NewTLSTransport(caFileName)
	}
	return NewPlainTransport()
}
