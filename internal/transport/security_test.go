package transport

import (
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeServerCA(t *testing.T, srv *httptest.Server, path string) {
	t.Helper()
	out, err := os.Create(path)
	require.NoError(t, err)
	defer out.Close()

	err = pem.Encode(out, &pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	require.NoError(t, err)
}

func TestNewTLSTransport(t *testing.T) {
	tr := NewTLSTransport("ca.pem")
	require.NotNil(t, tr)
	assert.Equal(t, "ca.pem", tr.caFileName)
}

func TestTLSTransport_TrustsBundle(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	caFile := filepath.Join(t.TempDir(), "ca.pem")
	writeServerCA(t, srv, caFile)

	rt, err := NewTLSTransport(caFile).Transport()
	require.NoError(t, err)

	resp, err := (&http.Client{Transport: rt}).Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestTLSTransport_MissingFile(t *testing.T) {
	_, err := NewTLSTransport("nonexistent.pem").Transport()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load CA bundle")
}

func TestTLSTransport_NoCertificates(t *testing.T) {
	caFile := filepath.Join(t.TempDir(), "empty.pem")
	require.NoError(t, os.WriteFile(caFile, []byte("not a pem"), 0o600))

	_, err := NewTLSTransport(caFile).Transport()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no certificates")
}

func TestPlainTransport_Transport(t *testing.T) {
	rt, err := NewPlainTransport().Transport()
	require.NoError(t, err)
	_, ok := rt.(*http.Transport)
	assert.True(t, ok)
}

func TestFromConfig(t *testing.T) {
	_, ok := FromConfig(true, "ca.pem").(*TLSTransport)
	assert.True(t, ok)

	_, ok = FromConfig(true, "").(*PlainTransport)
	assert.True(t, ok)

	_, ok = FromConfig(false, "ca.pem").(*PlainTransport)
	assert.True(t, ok)
}
