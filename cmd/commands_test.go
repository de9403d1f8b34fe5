package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/outagetracker/internal/app"
	"github.com/dtroode/outagetracker/internal/config"
	"github.com/dtroode/outagetracker/internal/model"
	"github.com/dtroode/outagetracker/internal/testutil"
	"github.com/dtroode/outagetracker/internal/testutil/fakeapi"
)

const geocodeBody = `{
  "status": "OK",
  "results": [{
    "formatted_address": "Oxford St, Accra, Ghana",
    "place_id": "osu",
    "geometry": {"location": {"lat": 5.556, "lng": -0.182}},
    "address_components": [
      {"long_name": "Osu", "short_name": "Osu", "types": ["sublocality"]},
      {"long_name": "Accra", "short_name": "Accra", "types": ["locality"]},
      {"long_name": "Ghana", "short_name": "GH", "types": ["country"]}
    ]
  }]
}`

type cliFixture struct {
	api     *fakeapi.Server
	backend *testutil.MemoryBackend
	app     *app.App
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	api := fakeapi.New()
	t.Cleanup(api.Close)

	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(geocodeBody))
	}))
	t.Cleanup(geo.Close)

	cfg := &config.Config{
		API:      config.API{URL: api.APIURL(), Timeout: 5 * time.Second},
		Store:    config.Store{Driver: config.DriverBolt},
		Geocoder: config.Geocoder{URL: geo.URL, Timeout: time.Second},
	}
	backend := testutil.NewMemoryBackend()
	a, err := app.NewWithBackend(cfg, backend, testutil.MakeNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	require.NoError(t, a.Start(context.Background()))

	return &cliFixture{api: api, backend: backend, app: a}
}

func (f *cliFixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := execute(context.Background(), f.app, args, &out)
	return out.String(), err
}

func TestExecute_Usage(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t)
	assert.ErrorIs(t, err, errUsage)

	_, err = f.run(t, "dance")
	assert.ErrorIs(t, err, errUsage)

	_, err = f.run(t, "onboarding", "later")
	assert.ErrorIs(t, err, errUsage)
}

func TestExecute_Status(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "anonymous")
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "/onboarding")
}

func TestExecute_Onboarding(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "onboarding", "next")
	require.NoError(t, err)
	assert.Contains(t, out, "Screen 2 of 3: analyze")

	out, err = f.run(t, "onboarding", "skip")
	require.NoError(t, err)
	assert.Contains(t, out, "Onboarding completed.")
	assert.Equal(t, "true", f.backend.Raw(model.KeyOnboardingCompleted))

	out, err = f.run(t, "onboarding", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Onboarding pending.")
}

func TestExecute_LoginAndLocations(t *testing.T) {
	f := newCLIFixture(t)
	f.api.AddUser("Ama", "a@b.com", "Passw0rd!")
	_, err := f.run(t, "onboarding", "complete")
	require.NoError(t, err)

	_, err = f.run(t, "locations", "list")
	require.ErrorIs(t, err, model.ErrNotAuthenticated)

	_, err = f.run(t, "login", "-email", "a@b.com", "-password", "wrong-pass")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())

	out, err := f.run(t, "login", "-email", "a@b.com", "-password", "Passw0rd!")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Ama.")
	assert.Contains(t, out, "Next: /locations/add")

	out, err = f.run(t, "locations", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No locations yet")

	out, err = f.run(t, "locations", "add", "-name", "Home", "-address", "Oxford Street")
	require.NoError(t, err)
	assert.Contains(t, out, `Saved "Home"`)

	out, err = f.run(t, "locations", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Oxford St, Accra, Ghana")

	out, err = f.run(t, "locations", "add", "-name", "Home again", "-address", "Oxford St", "-lat", "5.556", "-lng", "-0.182")
	require.NoError(t, err)
	assert.Contains(t, out, "A location with these coordinates already exists")
	assert.Len(t, f.app.Locations.Snapshot().Locations, 1)

	id := f.app.Locations.Snapshot().Locations[0].ID
	_, err = f.run(t, "locations", "remove", "-id", "999")
	require.NoError(t, err)

	out, err = f.run(t, "locations", "remove", "-id", itoa(id))
	require.NoError(t, err)
	assert.Contains(t, out, "Removed location")
	assert.False(t, f.app.Locations.Snapshot().HasAny)

	out, err = f.run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")
	assert.False(t, f.backend.Has(model.KeyAuthToken))
}

func TestExecute_Register(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "register", "-name", "Kofi", "-email", "kofi@example.com", "-password", "Passw0rd!", "-confirm", "Passw0rd?", "-accept-terms")
	require.Error(t, err)
	assert.Equal(t, "Passwords do not match", err.Error())

	out, err := f.run(t, "register", "-name", "Kofi", "-email", "kofi@example.com", "-password", "Passw0rd!", "-confirm", "Passw0rd!", "-accept-terms")
	require.NoError(t, err)
	assert.Contains(t, out, "Password strength: Very Strong")
	assert.Contains(t, out, "Welcome, Kofi.")
	assert.Contains(t, out, "Next: /onboarding")
}

func TestExecute_ForgotPassword(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "forgot-password", "-email", "nope")
	require.Error(t, err)
	assert.Equal(t, "Invalid email address", err.Error())

	out, err := f.run(t, "forgot-password", "-email", "a@b.com")
	require.NoError(t, err)
	assert.Contains(t, out, "a@b.com")
	assert.Equal(t, 1, f.api.CountRequests("POST", "/auth/forgot-password"))
}

func TestExecute_Geocode(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "geocode", "-address", "Oxford Street")
	require.NoError(t, err)
	assert.Contains(t, out, "Oxford St, Accra, Ghana")
	assert.Contains(t, out, "Ghana (GH)")

	out, err = f.run(t, "geocode", "-lat", "5.5", "-lng", "-0.2")
	require.NoError(t, err)
	assert.Contains(t, out, "5.500000, -0.200000")

	_, err = f.run(t, "geocode")
	assert.ErrorIs(t, err, errUsage)

	_, err = f.run(t, "geocode", "-lat", "north", "-lng", "1")
	require.Error(t, err)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
